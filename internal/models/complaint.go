package models

import "time"

type Complaint struct {
	WardID      string    `json:"wardId"`
	Severity    string    `json:"severity"` // free-text tag, usually Low/Medium/High
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// ComplaintSubmission is a citizen report about to be posted. ImageURL must
// already point at an uploaded image.
type ComplaintSubmission struct {
	WardID      string `json:"wardId"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

func (s ComplaintSubmission) Validate() error {
	if s.WardID == "" {
		return &ValidationError{Field: "wardId", Reason: "is required"}
	}
	if s.Severity == "" {
		return &ValidationError{Field: "severity", Reason: "is required"}
	}
	return nil
}

type DrainageUpdate struct {
	WardID           string `json:"wardId"`
	DrainageCapacity int    `json:"drainageCapacity"`
	IsCleaned        bool   `json:"isCleaned"`
}

func (u DrainageUpdate) Validate() error {
	if u.WardID == "" {
		return &ValidationError{Field: "wardId", Reason: "is required"}
	}
	if u.DrainageCapacity < 0 || u.DrainageCapacity > 100 {
		return &ValidationError{Field: "drainageCapacity", Reason: "must be between 0 and 100", ID: u.WardID}
	}
	return nil
}
