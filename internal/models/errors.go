package models

import "fmt"

// ValidationError reports a structurally malformed record or request.
type ValidationError struct {
	Field  string
	Reason string
	ID     string // offending record id, when known
}

func (e *ValidationError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("validation failed: %s %s (ward %q)", e.Field, e.Reason, e.ID)
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}
