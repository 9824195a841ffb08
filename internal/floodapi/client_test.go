package floodapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/mr1hm/ward-risk-dashboard/internal/models"
)

const overviewJSON = `{
	"wards": [
		{"id": "W01", "name": "Connaught Place", "zone": "Central", "riskScore": 81.5, "riskLevel": "High", "drainageCapacity": 20, "activeComplaints": 3},
		{"id": "W02", "name": "Karol Bagh", "zone": "Central", "riskScore": 12, "riskLevel": "Low", "drainageCapacity": 88}
	],
	"priorityWards": [
		{"id": "W01", "name": "Connaught Place", "zone": "Central", "riskScore": 81.5, "riskLevel": "High", "drainageCapacity": 20}
	]
}`

const wardsGeoJSON = `{
	"type": "FeatureCollection",
	"features": [
		{"type": "Feature", "geometry": {"type": "Point", "coordinates": [77.209, 28.6139]},
		 "properties": {"id": "W01", "name": "Connaught Place", "zone": "Central", "riskScore": 81.5, "riskLevel": "High", "drainageCapacity": 20, "rainfall": 42.5}}
	]
}`

type recordingObserver struct {
	mu    sync.Mutex
	calls map[string]int
}

func (o *recordingObserver) ObserveRequest(endpoint string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.calls == nil {
		o.calls = map[string]int{}
	}
	o.calls[endpoint] = status
}

func newTestServer(t *testing.T, routes map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, h := range routes {
		mux.HandleFunc(path, h)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeBody(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

func TestClient_Overview(t *testing.T) {
	srv := newTestServer(t, map[string]http.HandlerFunc{PathAdminOverview: writeBody(overviewJSON)})
	obs := &recordingObserver{}
	c := New(srv.URL+"/", time.Second, WithObserver(obs))

	overview, err := c.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview failed: %v", err)
	}
	if len(overview.Wards) != 2 {
		t.Fatalf("expected 2 wards, got %d", len(overview.Wards))
	}
	w := overview.Wards[0]
	if w.RiskScore != 81.5 || w.RiskLevel != models.RiskLevelHigh || w.ActiveComplaints != 3 {
		t.Errorf("unexpected ward %+v", w)
	}
	if overview.Wards[1].ActiveComplaints != 0 {
		t.Errorf("missing activeComplaints should default to 0")
	}
	if len(overview.PriorityWards) != 1 {
		t.Errorf("expected backend priority list, got %v", overview.PriorityWards)
	}
	if obs.calls[PathAdminOverview] != http.StatusOK {
		t.Errorf("observer not called: %v", obs.calls)
	}
}

func TestClient_Overview_EmptyWards(t *testing.T) {
	srv := newTestServer(t, map[string]http.HandlerFunc{PathAdminOverview: writeBody(`{"wards": []}`)})
	c := New(srv.URL, time.Second)

	overview, err := c.Overview(context.Background())
	if err != nil {
		t.Fatalf("empty wards should not be an error: %v", err)
	}
	if overview.Wards == nil || len(overview.Wards) != 0 {
		t.Errorf("expected empty, non-nil wards, got %v", overview.Wards)
	}
	if overview.PriorityWards != nil {
		t.Errorf("absent priorityWards should stay nil")
	}
}

func TestClient_Overview_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing wards", `{}`, "wards"},
		{"wards not array", `{"wards": {"id": "W01"}}`, "wards"},
		{"missing id", `{"wards": [{"riskScore": 10, "drainageCapacity": 50}]}`, "wards[0].id"},
		{"missing riskScore", `{"wards": [{"id": "W01", "drainageCapacity": 50}]}`, "wards[0].riskScore"},
		{"missing drainage", `{"wards": [{"id": "W01", "riskScore": 50}]}`, "wards[0].drainageCapacity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, map[string]http.HandlerFunc{PathAdminOverview: writeBody(tt.body)})
			_, err := New(srv.URL, time.Second).Overview(context.Background())

			var verr *models.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, verr.Field)
			}
		})
	}
}

func TestClient_Overview_ClampsScores(t *testing.T) {
	body := `{"wards": [{"id": "W01", "riskScore": 140, "drainageCapacity": -5}]}`
	srv := newTestServer(t, map[string]http.HandlerFunc{PathAdminOverview: writeBody(body)})

	overview, err := New(srv.URL, time.Second).Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview failed: %v", err)
	}
	if overview.Wards[0].RiskScore != 100 || overview.Wards[0].DrainageCapacity != 0 {
		t.Errorf("expected clamped values, got %+v", overview.Wards[0])
	}
}

func TestClient_Wards_GeoJSON(t *testing.T) {
	srv := newTestServer(t, map[string]http.HandlerFunc{PathWards: writeBody(wardsGeoJSON)})

	wards, err := New(srv.URL, time.Second).Wards(context.Background())
	if err != nil {
		t.Fatalf("Wards failed: %v", err)
	}
	if len(wards) != 1 {
		t.Fatalf("expected 1 ward, got %d", len(wards))
	}
	loc := wards[0].Location
	if loc == nil || loc.Latitude != 28.6139 || loc.Longitude != 77.209 {
		t.Errorf("coordinates not mapped from [lng, lat]: %+v", loc)
	}
	if wards[0].Rainfall != 42.5 {
		t.Errorf("expected rainfall 42.5, got %v", wards[0].Rainfall)
	}
}

func TestClient_Wards_BadGeometry(t *testing.T) {
	body := `{"type": "FeatureCollection", "features": [{"geometry": {"coordinates": [77.2]}, "properties": {"id": "W01", "riskScore": 1, "drainageCapacity": 1}}]}`
	srv := newTestServer(t, map[string]http.HandlerFunc{PathWards: writeBody(body)})

	_, err := New(srv.URL, time.Second).Wards(context.Background())
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestClient_RiskSummaryAndPrediction(t *testing.T) {
	var gotHours string
	srv := newTestServer(t, map[string]http.HandlerFunc{
		PathRiskSummary: writeBody(`{"totalWards": 7, "highRiskCount": 2, "mediumRiskCount": 3}`),
		PathPrediction: func(w http.ResponseWriter, r *http.Request) {
			gotHours = r.URL.Query().Get("hours")
			w.Write([]byte(`{"hours": 12, "predictedFloods": 4}`))
		},
	})
	c := New(srv.URL, time.Second)

	s, err := c.RiskSummary(context.Background())
	if err != nil {
		t.Fatalf("RiskSummary failed: %v", err)
	}
	if s.HighRiskCount != 2 || s.MediumRiskCount != 3 {
		t.Errorf("unexpected summary %+v", s)
	}

	p, err := c.Prediction(context.Background(), 12)
	if err != nil {
		t.Fatalf("Prediction failed: %v", err)
	}
	if gotHours != "12" || p.PredictedFloods != 4 {
		t.Errorf("unexpected prediction %+v (hours=%s)", p, gotHours)
	}
}

func TestClient_Complaints(t *testing.T) {
	body := `[
		{"ward_id": "W01", "severity": "High", "description": "knee deep", "image_url": "https://img.example/1.jpg", "timestamp": "2025-07-01T10:15:00.000Z"},
		{"ward_id": "W02", "severity": "Low", "description": null, "timestamp": "2025-06-30T08:00:00.123456"},
		{"ward_id": "W03", "severity": "Medium", "timestamp": "yesterday"}
	]`
	srv := newTestServer(t, map[string]http.HandlerFunc{PathAdminComplaints: writeBody(body)})

	complaints, err := New(srv.URL, time.Second).Complaints(context.Background())
	if err != nil {
		t.Fatalf("Complaints failed: %v", err)
	}
	if len(complaints) != 3 {
		t.Fatalf("expected 3 complaints, got %d", len(complaints))
	}
	if complaints[0].ImageURL != "https://img.example/1.jpg" || complaints[0].Timestamp.IsZero() {
		t.Errorf("unexpected first complaint %+v", complaints[0])
	}
	if complaints[1].Timestamp.IsZero() {
		t.Errorf("expected python isoformat timestamp to parse")
	}
	if !complaints[2].Timestamp.IsZero() {
		t.Errorf("expected unparseable timestamp to be zero")
	}
}

func TestClient_UpdateDrainage(t *testing.T) {
	var got map[string]any
	srv := newTestServer(t, map[string]http.HandlerFunc{
		PathUpdateDrainage: func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			json.NewDecoder(r.Body).Decode(&got)
			w.Write([]byte(`{"status": "success"}`))
		},
	})

	err := New(srv.URL, time.Second).UpdateDrainage(context.Background(), models.DrainageUpdate{
		WardID: "W01", DrainageCapacity: 75, IsCleaned: true,
	})
	if err != nil {
		t.Fatalf("UpdateDrainage failed: %v", err)
	}
	if got["ward_id"] != "W01" || got["drainage_capacity"] != float64(75) || got["is_cleaned"] != true {
		t.Errorf("unexpected body %v", got)
	}
}

func TestClient_SubmitComplaint(t *testing.T) {
	var got map[string]string
	srv := newTestServer(t, map[string]http.HandlerFunc{
		PathComplaints: func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&got)
			w.WriteHeader(http.StatusCreated)
		},
	})

	at := time.Date(2025, 7, 1, 10, 15, 0, 0, time.UTC)
	err := New(srv.URL, time.Second).SubmitComplaint(context.Background(), models.ComplaintSubmission{
		WardID: "W02", Severity: "High", Description: "drain blocked",
	}, at)
	if err != nil {
		t.Fatalf("SubmitComplaint failed: %v", err)
	}
	if got["timestamp"] != "2025-07-01T10:15:00.000Z" {
		t.Errorf("unexpected timestamp %q", got["timestamp"])
	}
	if got["ward_id"] != "W02" || got["image_url"] != "" {
		t.Errorf("unexpected body %v", got)
	}
}

func TestClient_StatusError(t *testing.T) {
	srv := newTestServer(t, map[string]http.HandlerFunc{
		PathUpdateDrainage: func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"detail":"Ward not found"}`, http.StatusNotFound)
		},
	})

	err := New(srv.URL, time.Second).UpdateDrainage(context.Background(), models.DrainageUpdate{WardID: "nope"})
	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if serr.StatusCode != http.StatusNotFound || serr.Path != PathUpdateDrainage {
		t.Errorf("unexpected status error %+v", serr)
	}
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := newTestServer(t, map[string]http.HandlerFunc{
		PathRiskSummary: func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		},
	})
	defer close(release)

	start := time.Now()
	_, err := New(srv.URL, 50*time.Millisecond).RiskSummary(context.Background())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 2*time.Second {
		t.Errorf("timeout not enforced, took %s", time.Since(start))
	}
}
