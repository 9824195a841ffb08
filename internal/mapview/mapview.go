package mapview

import (
	"github.com/mr1hm/ward-risk-dashboard/internal/models"
	"github.com/mr1hm/ward-risk-dashboard/internal/wardstore"
)

const (
	radiusHigh   = 14
	radiusMedium = 12
	radiusLow    = 10
	pulseExtra   = 8
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string   `json:"type"`
	Geometry   Geometry `json:"geometry"`
	Properties Marker   `json:"properties"`
}

type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Marker is everything a map needs to draw one ward.
type Marker struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Zone             string         `json:"zone"`
	RiskScore        float64        `json:"riskScore"`
	RiskLevel        string         `json:"riskLevel"`
	DrainageCapacity int            `json:"drainageCapacity"`
	Rainfall         float64        `json:"rainfall"`
	Band             wardstore.Band `json:"band"`
	Color            string         `json:"color"`
	Radius           int            `json:"radius"`
	PulseRadius      int            `json:"pulseRadius,omitempty"` // only high-risk wards pulse
}

func NewMarker(w models.Ward) Marker {
	band := wardstore.LevelBand(w)
	m := Marker{
		ID:               w.ID,
		Name:             w.Name,
		Zone:             w.Zone,
		RiskScore:        w.RiskScore,
		RiskLevel:        band.Label(),
		DrainageCapacity: w.DrainageCapacity,
		Rainfall:         w.Rainfall,
		Band:             band,
		Color:            band.Color(),
		Radius:           Radius(band),
	}
	if band == wardstore.BandHigh {
		m.PulseRadius = m.Radius + pulseExtra
	}
	return m
}

func Radius(b wardstore.Band) int {
	switch b {
	case wardstore.BandHigh:
		return radiusHigh
	case wardstore.BandMedium:
		return radiusMedium
	default:
		return radiusLow
	}
}

// Markers converts wards into a GeoJSON FeatureCollection. Wards without a
// location cannot be placed and are left out.
func Markers(wards []models.Ward) FeatureCollection {
	features := make([]Feature, 0, len(wards))

	for _, w := range wards {
		if w.Location == nil {
			continue
		}
		features = append(features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{w.Location.Longitude, w.Location.Latitude},
			},
			Properties: NewMarker(w),
		})
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
