package models

import (
	"strings"
)

type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "Low"
	RiskLevelMedium RiskLevel = "Medium"
	RiskLevelHigh   RiskLevel = "High"
)

// ParseRiskLevel normalizes the backend's level tag. Unknown or empty tags
// return the empty level.
func ParseRiskLevel(s string) RiskLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return RiskLevelHigh
	case "medium":
		return RiskLevelMedium
	case "low":
		return RiskLevelLow
	default:
		return ""
	}
}

// Rank orders levels by severity: High > Medium > Low > unknown.
func (l RiskLevel) Rank() int {
	switch l {
	case RiskLevelHigh:
		return 3
	case RiskLevelMedium:
		return 2
	case RiskLevelLow:
		return 1
	default:
		return 0
	}
}

type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Ward is an immutable snapshot of one municipal zone as reported by the
// backend. RiskLevel is fetched independently of RiskScore and the two are
// not assumed to agree.
type Ward struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Zone             string    `json:"zone"`
	RiskScore        float64   `json:"riskScore"`
	RiskLevel        RiskLevel `json:"riskLevel,omitempty"`
	DrainageCapacity int       `json:"drainageCapacity"`
	ActiveComplaints int       `json:"activeComplaints"`
	Rainfall         float64   `json:"rainfall,omitempty"`
	Location         *Location `json:"location,omitempty"` // only set from the geographic feed
}

// Clone returns a copy that shares no pointers with w.
func (w Ward) Clone() Ward {
	if w.Location != nil {
		loc := *w.Location
		w.Location = &loc
	}
	return w
}

func CloneWards(wards []Ward) []Ward {
	out := make([]Ward, len(wards))
	for i, w := range wards {
		out[i] = w.Clone()
	}
	return out
}
