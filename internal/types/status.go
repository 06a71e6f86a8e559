package types

import "encoding/json"

// Status is the workflow state of a dunder. It is a label only; no
// transition order is enforced.
type Status string

const (
	StatusTodo       Status = "Todo"
	StatusInProgress Status = "In Progress"
	StatusInReview   Status = "In Review"
	StatusDone       Status = "Done"
)

// AllStatuses lists every status in workflow order.
var AllStatuses = []Status{StatusTodo, StatusInProgress, StatusInReview, StatusDone}

// IsValid checks if the status value is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusInReview, StatusDone:
		return true
	}
	return false
}

// ParseStatus parses a snapshot status value such as "In Progress".
func ParseStatus(value string) (Status, error) {
	s := Status(value)
	if !s.IsValid() {
		return "", &ValidationError{Field: "status", Value: value}
	}
	return s, nil
}

// UnmarshalJSON rejects unknown status values.
func (s *Status) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := ParseStatus(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
