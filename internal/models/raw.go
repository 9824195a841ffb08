package models

import (
	"math"
	"strings"
)

// RawWard is the wire shape of a ward as the backend sends it. Pointer
// fields distinguish "absent" from zero so required fields can be enforced.
type RawWard struct {
	ID               *string  `json:"id"`
	Name             string   `json:"name"`
	Zone             string   `json:"zone"`
	RiskScore        *float64 `json:"riskScore"`
	RiskLevel        string   `json:"riskLevel"`
	DrainageCapacity *float64 `json:"drainageCapacity"`
	ActiveComplaints *int     `json:"activeComplaints"`
	Rainfall         *float64 `json:"rainfall"`
}

// Ward validates the record and converts it. id, riskScore and
// drainageCapacity are required; activeComplaints defaults to 0. Scores are
// clamped to [0,100].
func (r RawWard) Ward() (Ward, error) {
	if r.ID == nil || strings.TrimSpace(*r.ID) == "" {
		return Ward{}, &ValidationError{Field: "id", Reason: "is required"}
	}
	id := *r.ID
	if r.RiskScore == nil {
		return Ward{}, &ValidationError{Field: "riskScore", Reason: "is required", ID: id}
	}
	if math.IsNaN(*r.RiskScore) {
		return Ward{}, &ValidationError{Field: "riskScore", Reason: "is not a number", ID: id}
	}
	if r.DrainageCapacity == nil {
		return Ward{}, &ValidationError{Field: "drainageCapacity", Reason: "is required", ID: id}
	}

	w := Ward{
		ID:               id,
		Name:             r.Name,
		Zone:             r.Zone,
		RiskScore:        ClampScore(*r.RiskScore),
		RiskLevel:        ParseRiskLevel(r.RiskLevel),
		DrainageCapacity: int(math.Round(ClampScore(*r.DrainageCapacity))),
	}
	if r.ActiveComplaints != nil && *r.ActiveComplaints > 0 {
		w.ActiveComplaints = *r.ActiveComplaints
	}
	if r.Rainfall != nil {
		w.Rainfall = *r.Rainfall
	}
	return w, nil
}

// ClampScore bounds a percentage-style metric to [0,100].
func ClampScore(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
