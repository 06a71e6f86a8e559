package types

import "fmt"

// ValidationError reports a field value that is not representable in the
// record model, such as an unknown group label in a snapshot.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: value is required", e.Field)
	}
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}
