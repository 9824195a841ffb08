package mapview

import (
	"encoding/json"
	"testing"

	"github.com/mr1hm/ward-risk-dashboard/internal/models"
	"github.com/mr1hm/ward-risk-dashboard/internal/wardstore"
)

func TestMarkers(t *testing.T) {
	wards := []models.Ward{
		{ID: "W01", Name: "Connaught Place", RiskScore: 81.5, RiskLevel: models.RiskLevelHigh, DrainageCapacity: 20, Rainfall: 42.5,
			Location: &models.Location{Latitude: 28.6139, Longitude: 77.209}},
		{ID: "W02", Name: "Karol Bagh", RiskScore: 55, RiskLevel: models.RiskLevelMedium,
			Location: &models.Location{Latitude: 28.65, Longitude: 77.19}},
		{ID: "W03", Name: "Shahdara", RiskScore: 12,
			Location: &models.Location{Latitude: 28.67, Longitude: 77.29}},
		{ID: "W04", Name: "No Location", RiskScore: 90},
	}

	fc := Markers(wards)
	if fc.Type != "FeatureCollection" {
		t.Errorf("type = %q", fc.Type)
	}
	if len(fc.Features) != 3 {
		t.Fatalf("expected 3 features, got %d", len(fc.Features))
	}

	tests := []struct {
		id     string
		band   wardstore.Band
		color  string
		radius int
		pulse  int
	}{
		{"W01", wardstore.BandHigh, "#ef4444", 14, 22},
		{"W02", wardstore.BandMedium, "#eab308", 12, 0},
		{"W03", wardstore.BandLow, "#22c55e", 10, 0},
	}
	for i, tt := range tests {
		m := fc.Features[i].Properties
		if m.ID != tt.id || m.Band != tt.band || m.Color != tt.color || m.Radius != tt.radius || m.PulseRadius != tt.pulse {
			t.Errorf("feature %d = %+v, want %+v", i, m, tt)
		}
	}

	coords := fc.Features[0].Geometry.Coordinates
	if coords[0] != 77.209 || coords[1] != 28.6139 {
		t.Errorf("coordinates should be [lng, lat], got %v", coords)
	}
	if fc.Features[0].Properties.Rainfall != 42.5 {
		t.Errorf("rainfall = %v", fc.Features[0].Properties.Rainfall)
	}
}

func TestMarkers_EmptyEncodesAsArray(t *testing.T) {
	b, err := json.Marshal(Markers(nil))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"type":"FeatureCollection","features":[]}` {
		t.Errorf("got %s", b)
	}
}
