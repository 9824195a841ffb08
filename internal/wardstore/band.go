package wardstore

import "github.com/mr1hm/ward-risk-dashboard/internal/models"

// Band is a discrete severity classification. The string value doubles as
// the CSS class the view layer uses.
type Band string

const (
	BandUnknown Band = ""
	BandLow     Band = "low"
	BandMedium  Band = "medium"
	BandHigh    Band = "high"
)

type Metric int

const (
	MetricRiskScore Metric = iota
	MetricDrainageCapacity
)

func (m Metric) String() string {
	switch m {
	case MetricRiskScore:
		return "riskScore"
	case MetricDrainageCapacity:
		return "drainageCapacity"
	default:
		return "unknown"
	}
}

// Thresholds are the two cut points of a three-band scale. With Inverted
// unset a value >= High is BandHigh and >= Medium is BandMedium. With
// Inverted set a value < High is BandHigh and < Medium is BandMedium.
type Thresholds struct {
	High     float64
	Medium   float64
	Inverted bool
}

var (
	// RiskScoreThresholds: >=70 high, >=40 medium, else low.
	RiskScoreThresholds = Thresholds{High: 70, Medium: 40}

	// DrainageThresholds band the risk of drainage failure, so polarity is
	// inverted: <40 high, <70 medium, else low. Used for every drainage
	// indicator (table bar, detail panel, markers).
	DrainageThresholds = Thresholds{High: 40, Medium: 70, Inverted: true}
)

// Classify maps value onto exactly one band. It is total: every value,
// including out-of-range ones, lands in low, medium or high.
func Classify(value float64, t Thresholds) Band {
	if t.Inverted {
		switch {
		case value < t.High:
			return BandHigh
		case value < t.Medium:
			return BandMedium
		default:
			return BandLow
		}
	}
	switch {
	case value >= t.High:
		return BandHigh
	case value >= t.Medium:
		return BandMedium
	default:
		return BandLow
	}
}

func (m Metric) Thresholds() Thresholds {
	if m == MetricDrainageCapacity {
		return DrainageThresholds
	}
	return RiskScoreThresholds
}

func ClassifyMetric(m Metric, value float64) Band {
	return Classify(value, m.Thresholds())
}

func RiskBand(score float64) Band {
	return Classify(score, RiskScoreThresholds)
}

func DrainageBand(capacity int) Band {
	return Classify(float64(capacity), DrainageThresholds)
}

func BandForLevel(l models.RiskLevel) Band {
	switch l {
	case models.RiskLevelHigh:
		return BandHigh
	case models.RiskLevelMedium:
		return BandMedium
	case models.RiskLevelLow:
		return BandLow
	default:
		return BandUnknown
	}
}

// LevelBand is the ward's effective severity. The backend's riskLevel wins
// when present; the score band is only a fallback.
func LevelBand(w models.Ward) Band {
	if b := BandForLevel(w.RiskLevel); b != BandUnknown {
		return b
	}
	return RiskBand(w.RiskScore)
}

func (b Band) Color() string {
	switch b {
	case BandHigh:
		return "#ef4444"
	case BandMedium:
		return "#eab308"
	case BandLow:
		return "#22c55e"
	default:
		return "#94a3b8"
	}
}

func (b Band) Label() string {
	switch b {
	case BandHigh:
		return "High"
	case BandMedium:
		return "Medium"
	case BandLow:
		return "Low"
	default:
		return "Unknown"
	}
}

// Class is the CSS class for the band.
func (b Band) Class() string {
	if b == BandUnknown {
		return "unknown"
	}
	return string(b)
}
