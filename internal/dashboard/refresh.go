package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mr1hm/ward-risk-dashboard/internal/models"
	"github.com/mr1hm/ward-risk-dashboard/internal/notify"
	"github.com/mr1hm/ward-risk-dashboard/internal/wardstore"
)

// Report describes what one read sequence did.
type Report struct {
	Seq     uint64   `json:"seq"`
	Applied bool     `json:"applied"`
	Failed  []string `json:"failed,omitempty"`
}

// SectionError is one failed section of a read sequence.
type SectionError struct {
	Section string
	Err     error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Section, e.Err)
}

func (e *SectionError) Unwrap() error {
	return e.Err
}

type readResult struct {
	summary       models.RiskSummary
	summaryErr    error
	overview      models.Overview
	overviewErr   error
	geo           []models.Ward
	geoErr        error
	prediction    models.Prediction
	predictionErr error
}

// Refresh runs the full read sequence. The four sections are fetched
// concurrently and applied together, but only if no newer sequence was
// issued in the meantime. The returned error joins every failed section.
func (d *Dashboard) Refresh(ctx context.Context) (Report, error) {
	seq := d.seq.Add(1)
	start := d.now()

	var (
		res readResult
		g   errgroup.Group
	)
	g.Go(func() error {
		res.summary, res.summaryErr = d.api.RiskSummary(ctx)
		return nil
	})
	g.Go(func() error {
		res.overview, res.overviewErr = d.api.Overview(ctx)
		return nil
	})
	g.Go(func() error {
		res.geo, res.geoErr = d.api.Wards(ctx)
		return nil
	})
	g.Go(func() error {
		res.prediction, res.predictionErr = d.api.Prediction(ctx, d.hours)
		return nil
	})
	// each fetch records its own error in res
	_ = g.Wait()

	return d.apply(seq, start, res)
}

func (d *Dashboard) apply(seq uint64, start time.Time, res readResult) (Report, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rep := Report{Seq: seq}
	if seq != d.seq.Load() {
		d.metrics.RecordStale()
		d.metrics.RecordRefresh("stale", d.now().Sub(start))
		slog.Debug("discarding stale refresh", "seq", seq, "latest", d.seq.Load())
		return rep, nil
	}

	now := d.now()
	if res.overviewErr == nil {
		res.overviewErr = d.store.Replace(res.overview.Wards)
	}
	if res.geoErr == nil {
		res.geoErr = wardstore.Validate(res.geo)
	}

	d.summary.apply(res.summary, res.summaryErr, now)
	d.overview.apply(res.overview.PriorityWards, res.overviewErr, now)
	d.geo.apply(res.geo, res.geoErr, now)
	d.prediction.apply(res.prediction, res.predictionErr, now)
	d.applied = seq
	rep.Applied = true

	var errs []error
	for _, s := range []struct {
		name string
		err  error
	}{
		{SectionSummary, res.summaryErr},
		{SectionOverview, res.overviewErr},
		{SectionMap, res.geoErr},
		{SectionPrediction, res.predictionErr},
	} {
		if s.err == nil {
			continue
		}
		rep.Failed = append(rep.Failed, s.name)
		errs = append(errs, &SectionError{Section: s.name, Err: s.err})
		d.metrics.RecordSectionError(s.name)
		slog.Error("section load failed", "section", s.name, "seq", seq, "error", s.err)
	}

	d.metrics.SetWardsLoaded(d.store.Len())
	outcome := "ok"
	switch {
	case len(errs) == 4:
		outcome = "failed"
	case len(errs) > 0:
		outcome = "partial"
	}
	d.metrics.RecordRefresh(outcome, now.Sub(start))

	// Only the transition into a degraded state is announced.
	if len(errs) > 0 && !d.degraded {
		d.notifier.Notify(notify.Failure("Connection Error", "Failed to connect to backend server"))
	}
	d.degraded = len(errs) > 0

	slog.Info("dashboard refreshed", "seq", seq, "wards", d.store.Len(), "failed", len(errs))
	return rep, errors.Join(errs...)
}
