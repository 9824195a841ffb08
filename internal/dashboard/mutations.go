package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/mr1hm/ward-risk-dashboard/internal/floodapi"
	"github.com/mr1hm/ward-risk-dashboard/internal/models"
	"github.com/mr1hm/ward-risk-dashboard/internal/notify"
)

// ErrBusy is returned when the same form is already being submitted.
var ErrBusy = errors.New("submission already in progress")

const (
	FormDrainage  = "drainage"
	FormComplaint = "complaint"
)

const reloadTimeout = 30 * time.Second

// UpdateDrainage posts a drainage update and reloads the dashboard when the
// backend accepts it. A failed post leaves every section untouched.
func (d *Dashboard) UpdateDrainage(ctx context.Context, u models.DrainageUpdate) error {
	if u.IsCleaned {
		u.DrainageCapacity = 100
	}
	if err := u.Validate(); err != nil {
		msg := err.Error()
		if isMissing(err, "wardId") {
			msg = "Please select a ward"
		}
		d.notifier.Notify(notify.Failure("Error", msg))
		d.metrics.RecordMutation(FormDrainage, "invalid")
		return err
	}

	release, err := acquire(&d.drainageBusy)
	if err != nil {
		d.metrics.RecordMutation(FormDrainage, "busy")
		return err
	}
	defer release()

	if err := d.api.UpdateDrainage(ctx, u); err != nil {
		slog.Error("drainage update failed", "ward", u.WardID, "error", err)
		d.notifier.Notify(notify.Failure("Update Failed", "Could not update drainage status"))
		d.metrics.RecordMutation(FormDrainage, "error")
		return fmt.Errorf("error updating drainage for ward %s: %w", u.WardID, err)
	}

	name := u.WardID
	if w, ok := d.store.Get(u.WardID); ok && w.Name != "" {
		name = w.Name
	}
	d.notifier.Notify(notify.Success("Update Successful", "Drainage status updated for "+name))
	d.metrics.RecordMutation(FormDrainage, "ok")
	slog.Info("drainage updated", "ward", u.WardID, "capacity", u.DrainageCapacity, "cleaned", u.IsCleaned)

	d.reload(ctx)
	return nil
}

// SubmitComplaint forwards a complaint stamped with the current time.
func (d *Dashboard) SubmitComplaint(ctx context.Context, s models.ComplaintSubmission) error {
	if err := s.Validate(); err != nil {
		d.notifier.Notify(notify.Failure("Validation Error", "Please select a ward and severity."))
		d.metrics.RecordMutation(FormComplaint, "invalid")
		return err
	}

	release, err := acquire(&d.complaintBusy)
	if err != nil {
		d.metrics.RecordMutation(FormComplaint, "busy")
		return err
	}
	defer release()

	if err := d.api.SubmitComplaint(ctx, s, d.now()); err != nil {
		msg := "Failed to connect to server"
		var se *floodapi.StatusError
		if errors.As(err, &se) {
			msg = "Server error"
		}
		slog.Error("complaint submission failed", "ward", s.WardID, "error", err)
		d.notifier.Notify(notify.Failure("Error", msg))
		d.metrics.RecordMutation(FormComplaint, "error")
		return fmt.Errorf("error submitting complaint for ward %s: %w", s.WardID, err)
	}

	d.notifier.Notify(notify.Success("Submitted", "Complaint registered successfully"))
	d.metrics.RecordMutation(FormComplaint, "ok")
	slog.Info("complaint submitted", "ward", s.WardID, "severity", s.Severity)

	d.reload(ctx)
	return nil
}

// Complaints lists complaints from the backend. Nothing is cached.
func (d *Dashboard) Complaints(ctx context.Context) ([]models.Complaint, error) {
	complaints, err := d.api.Complaints(ctx)
	if err != nil {
		slog.Error("error loading complaints", "error", err)
		d.notifier.Notify(notify.Failure("Error", "Could not load complaints"))
		return nil, fmt.Errorf("error loading complaints: %w", err)
	}
	return complaints, nil
}

// reload runs the post-write refresh. The backend has already accepted the
// write, so the refresh is detached from the caller's cancellation and only
// bounded by reloadTimeout. Its failures surface through section state, not
// through the mutation's result.
func (d *Dashboard) reload(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reloadTimeout)
	defer cancel()

	if _, err := d.Refresh(ctx); err != nil {
		slog.Warn("refresh after write incomplete", "error", err)
	}
}

func acquire(flag *atomic.Bool) (func(), error) {
	if !flag.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	return func() { flag.Store(false) }, nil
}

func isMissing(err error, field string) bool {
	var ve *models.ValidationError
	return errors.As(err, &ve) && ve.Field == field
}
