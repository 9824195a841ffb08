package dashboard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/text/language"

	"github.com/mr1hm/ward-risk-dashboard/internal/metrics"
	"github.com/mr1hm/ward-risk-dashboard/internal/models"
	"github.com/mr1hm/ward-risk-dashboard/internal/notify"
	"github.com/mr1hm/ward-risk-dashboard/internal/wardstore"
)

// API is the subset of the flood backend the dashboard depends on.
type API interface {
	RiskSummary(ctx context.Context) (models.RiskSummary, error)
	Overview(ctx context.Context) (models.Overview, error)
	Wards(ctx context.Context) ([]models.Ward, error)
	Prediction(ctx context.Context, hours int) (models.Prediction, error)
	Complaints(ctx context.Context) ([]models.Complaint, error)
	UpdateDrainage(ctx context.Context, u models.DrainageUpdate) error
	SubmitComplaint(ctx context.Context, s models.ComplaintSubmission, at time.Time) error
}

const (
	SectionSummary    = "summary"
	SectionOverview   = "overview"
	SectionMap        = "map"
	SectionPrediction = "prediction"
)

type Options struct {
	PredictionHours int
	PriorityCount   int
	Locale          language.Tag
	Metrics         *metrics.Collector
	Now             func() time.Time
}

// Dashboard owns everything the admin page shows. Each section is loaded
// independently; a failed load keeps the section's previous data.
type Dashboard struct {
	api      API
	store    *wardstore.Store
	notifier notify.Notifier
	metrics  *metrics.Collector
	sorter   *wardstore.Sorter
	hours    int
	priority int
	now      func() time.Time

	seq atomic.Uint64

	mu         sync.RWMutex
	summary    section[models.RiskSummary]
	overview   section[[]models.Ward] // backend priority list, nil when not supplied
	geo        section[[]models.Ward]
	prediction section[models.Prediction]
	applied    uint64
	degraded   bool

	drainageBusy  atomic.Bool
	complaintBusy atomic.Bool
}

func New(api API, store *wardstore.Store, notifier notify.Notifier, opts Options) *Dashboard {
	if notifier == nil {
		notifier = notify.Discard
	}
	if opts.PredictionHours <= 0 {
		opts.PredictionHours = 24
	}
	if opts.PriorityCount <= 0 {
		opts.PriorityCount = wardstore.DefaultPriorityCount
	}
	if opts.Locale == (language.Tag{}) {
		opts.Locale = language.English
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Dashboard{
		api:      api,
		store:    store,
		notifier: notifier,
		metrics:  opts.Metrics,
		sorter:   wardstore.NewSorter(opts.Locale),
		hours:    opts.PredictionHours,
		priority: opts.PriorityCount,
		now:      opts.Now,
	}
}

type section[T any] struct {
	data      T
	err       error
	updatedAt time.Time
}

func (s *section[T]) apply(data T, err error, at time.Time) {
	if err != nil {
		s.err = err
		return
	}
	s.data = data
	s.err = nil
	s.updatedAt = at
}

func (s *section[T]) status(name string) SectionStatus {
	st := SectionStatus{Name: name, OK: s.err == nil, Loaded: !s.updatedAt.IsZero()}
	if s.err != nil {
		st.Error = s.err.Error()
	}
	if st.Loaded {
		at := s.updatedAt
		st.UpdatedAt = &at
	}
	return st
}

type SectionStatus struct {
	Name      string     `json:"name"`
	OK        bool       `json:"ok"`
	Loaded    bool       `json:"loaded"`
	Error     string     `json:"error,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type KPIs struct {
	TotalWards       int `json:"totalWards"`
	HighRiskCount    int `json:"highRiskCount"`
	MediumRiskCount  int `json:"mediumRiskCount"`
	ActiveComplaints int `json:"activeComplaints"`
	PredictedFloods  int `json:"predictedFloods"`
	PredictionHours  int `json:"predictionHours"`
}

type Snapshot struct {
	KPIs     KPIs            `json:"kpis"`
	Sections []SectionStatus `json:"sections"`
	Seq      uint64          `json:"seq"`
}

// Detail is one ward with every band the detail panel shows.
type Detail struct {
	models.Ward
	Level        wardstore.Band `json:"level"`
	ScoreBand    wardstore.Band `json:"scoreBand"`
	DrainageBand wardstore.Band `json:"drainageBand"`
}

func (d *Dashboard) Store() *wardstore.Store {
	return d.store
}

func (d *Dashboard) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	hours := d.prediction.data.Hours
	if hours == 0 {
		hours = d.hours
	}

	return Snapshot{
		KPIs: KPIs{
			TotalWards:       d.summary.data.TotalWards,
			HighRiskCount:    d.summary.data.HighRiskCount,
			MediumRiskCount:  d.summary.data.MediumRiskCount,
			ActiveComplaints: d.store.TotalActiveComplaints(),
			PredictedFloods:  d.prediction.data.PredictedFloods,
			PredictionHours:  hours,
		},
		Sections: []SectionStatus{
			d.summary.status(SectionSummary),
			d.overview.status(SectionOverview),
			d.geo.status(SectionMap),
			d.prediction.status(SectionPrediction),
		},
		Seq: d.applied,
	}
}

// Wards returns the ward table in the requested order.
func (d *Dashboard) Wards(key wardstore.SortKey, order wardstore.Order) ([]models.Ward, error) {
	return d.sorter.Sort(d.store.Wards(), key, order)
}

// Priority returns the backend's priority list when it sent one, otherwise
// the top wards by risk score.
func (d *Dashboard) Priority() []models.Ward {
	d.mu.RLock()
	backend := d.overview.data
	d.mu.RUnlock()

	return wardstore.PriorityList(models.Overview{
		Wards:         d.store.Wards(),
		PriorityWards: backend,
	}, d.priority)
}

func (d *Dashboard) Ward(id string) (Detail, bool) {
	w, ok := d.store.Get(id)
	if !ok {
		return Detail{}, false
	}
	return Detail{
		Ward:         w,
		Level:        wardstore.LevelBand(w),
		ScoreBand:    wardstore.RiskBand(w.RiskScore),
		DrainageBand: wardstore.DrainageBand(w.DrainageCapacity),
	}, true
}

// MapWards returns the wards of the geographic feed.
func (d *Dashboard) MapWards() []models.Ward {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return models.CloneWards(d.geo.data)
}
