package models

import "fmt"

// ValidationError reports a malformed or out-of-range request parameter.
// It maps to a 400 at the HTTP boundary.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
