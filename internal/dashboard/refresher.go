package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mr1hm/ward-risk-dashboard/internal/config"
	"github.com/mr1hm/ward-risk-dashboard/internal/worker"
)

type RefreshJob struct {
	Reason      string
	RequestedAt time.Time
}

// Refresher runs dashboard refreshes on a worker pool, on a ticker and on
// demand.
type Refresher struct {
	cfg  *config.Config
	dash *Dashboard
	pool *worker.Pool[RefreshJob]
	wg   sync.WaitGroup
}

func NewRefresher(cfg *config.Config, dash *Dashboard) *Refresher {
	return &Refresher{
		cfg:  cfg,
		dash: dash,
	}
}

func (r *Refresher) Start(ctx context.Context) {
	processor := func(ctx context.Context, job RefreshJob) error {
		slog.Debug("running refresh", "reason", job.Reason, "queued", time.Since(job.RequestedAt))
		_, err := r.dash.Refresh(ctx)
		return err
	}

	r.pool = worker.NewPool("refresh", r.cfg.Worker.Count, r.cfg.Worker.BufferSize, processor)
	r.pool.Start(ctx)

	if r.cfg.Dashboard.RefreshInterval > 0 {
		r.wg.Add(1)
		go r.runPoller(ctx, r.cfg.Dashboard.RefreshInterval)
	}
}

// Trigger queues a refresh. It returns false when the queue is full, in which
// case a pending refresh will pick up the latest data anyway.
func (r *Refresher) Trigger(reason string) bool {
	if r.pool == nil {
		return false
	}
	ok := r.pool.TrySubmit(RefreshJob{Reason: reason, RequestedAt: time.Now()})
	if !ok {
		slog.Debug("refresh queue full, dropping trigger", "reason", reason)
	}
	return ok
}

func (r *Refresher) runPoller(ctx context.Context, interval time.Duration) {
	defer r.wg.Done()
	slog.Info("starting refresh poller", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("refresh poller shutting down")
			return
		case <-ticker.C:
			r.Trigger("interval")
		}
	}
}

func (r *Refresher) Stop() {
	r.wg.Wait()
	if r.pool != nil {
		r.pool.Stop()
	}
	slog.Info("refresher stopped")
}
