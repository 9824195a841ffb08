package floodapi

import (
	"context"
	"fmt"

	"github.com/mr1hm/ward-risk-dashboard/internal/models"
)

type wardCollection struct {
	Type     string        `json:"type"`
	Features []wardFeature `json:"features"`
}

type wardFeature struct {
	Type       string         `json:"type"`
	Geometry   wardGeometry   `json:"geometry"`
	Properties models.RawWard `json:"properties"`
}

type wardGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [lng, lat]
}

// Wards fetches the geographic feed. Every returned ward carries a Location.
func (c *Client) Wards(ctx context.Context) ([]models.Ward, error) {
	var fc wardCollection
	if err := c.getJSON(ctx, PathWards, nil, &fc); err != nil {
		return nil, err
	}
	if fc.Type != "" && fc.Type != "FeatureCollection" {
		return nil, &models.ValidationError{Field: "type", Reason: fmt.Sprintf("expected FeatureCollection, got %q", fc.Type)}
	}

	wards := make([]models.Ward, 0, len(fc.Features))
	for i, f := range fc.Features {
		prefix := fmt.Sprintf("features[%d]", i)
		if len(f.Geometry.Coordinates) < 2 {
			return nil, &models.ValidationError{Field: prefix + ".geometry.coordinates", Reason: "must hold [lng, lat]"}
		}

		w, err := f.Properties.Ward()
		if err != nil {
			return nil, qualify(err, prefix+".properties")
		}
		w.Location = &models.Location{
			Latitude:  f.Geometry.Coordinates[1],
			Longitude: f.Geometry.Coordinates[0],
		}
		wards = append(wards, w)
	}
	return wards, nil
}
