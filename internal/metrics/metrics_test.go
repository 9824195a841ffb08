package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector()

	c.RecordRefresh("ok", 120*time.Millisecond)
	c.RecordRefresh("ok", 80*time.Millisecond)
	c.RecordRefresh("partial", 80*time.Millisecond)
	c.RecordStale()
	c.RecordSectionError("overview")
	c.RecordMutation("drainage", "error")
	c.SetWardsLoaded(12)

	if got := testutil.ToFloat64(c.refreshes.WithLabelValues("ok")); got != 2 {
		t.Errorf("refreshes{ok} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.staleResponses); got != 1 {
		t.Errorf("stale = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.sectionErrors.WithLabelValues("overview")); got != 1 {
		t.Errorf("section errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.mutations.WithLabelValues("drainage", "error")); got != 1 {
		t.Errorf("mutations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.wardsLoaded); got != 12 {
		t.Errorf("wards loaded = %v, want 12", got)
	}
}

func TestCollector_ObserveRequest(t *testing.T) {
	c := NewCollector()

	c.ObserveRequest("/api/admin/overview", 200, 10*time.Millisecond)
	c.ObserveRequest("/api/admin/overview", 0, 10*time.Millisecond)

	if got := testutil.ToFloat64(c.upstreamRequests.WithLabelValues("/api/admin/overview", "200")); got != 1 {
		t.Errorf("200 count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.upstreamRequests.WithLabelValues("/api/admin/overview", "error")); got != 1 {
		t.Errorf("error count = %v, want 1", got)
	}
}

func TestCollector_SeparateRegistries(t *testing.T) {
	// two collectors in one process must not collide
	a := NewCollector()
	b := NewCollector()
	a.RecordStale()

	if got := testutil.ToFloat64(b.staleResponses); got != 0 {
		t.Errorf("collector b saw %v stale responses", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.RecordStale()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "ward_dashboard_stale_responses_total 1") {
		t.Errorf("metrics output missing stale counter:\n%s", body)
	}
}

func TestCollector_NilSafe(t *testing.T) {
	var c *Collector
	c.RecordRefresh("ok", time.Second)
	c.RecordStale()
	c.RecordSectionError("summary")
	c.RecordMutation("complaint", "ok")
	c.SetWardsLoaded(3)
	c.ObserveRequest("/api/wards", 500, time.Second)
	if c.Registry() != nil {
		t.Error("nil collector should have nil registry")
	}
}
