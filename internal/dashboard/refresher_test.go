package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/mr1hm/ward-risk-dashboard/internal/config"
)

func refresherConfig(interval time.Duration) *config.Config {
	return &config.Config{
		Worker: config.WorkerConfig{
			Count:      1,
			BufferSize: 2,
		},
		Dashboard: config.DashboardConfig{
			RefreshInterval: interval,
		},
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRefresher_StartStop(t *testing.T) {
	d := newTestDashboard(healthyAPI(), nil)
	r := NewRefresher(refresherConfig(0), d)

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)
	time.Sleep(20 * time.Millisecond)

	cancel()
	r.Stop()
}

func TestRefresher_Trigger(t *testing.T) {
	api := healthyAPI()
	d := newTestDashboard(api, nil)
	r := NewRefresher(refresherConfig(0), d)

	if r.Trigger("before start") {
		t.Error("trigger before Start should be rejected")
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)

	if !r.Trigger("manual") {
		t.Fatal("trigger should be accepted")
	}
	waitFor(t, func() bool { return d.Store().Len() == 3 })

	cancel()
	r.Stop()
}

func TestRefresher_Interval(t *testing.T) {
	api := healthyAPI()
	d := newTestDashboard(api, nil)
	r := NewRefresher(refresherConfig(10*time.Millisecond), d)

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)

	waitFor(t, func() bool { return api.overviewCalls.Load() >= 2 })

	cancel()
	r.Stop()
}
