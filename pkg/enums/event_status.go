package enums

import "fmt"

// EventStatus tracks the scheduling state of a field event.
type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCanceled  EventStatus = "canceled"
)

var validEventStatuses = []EventStatus{
	EventStatusScheduled,
	EventStatusCompleted,
	EventStatusCanceled,
}

// String implements fmt.Stringer.
func (s EventStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known EventStatus.
func (s EventStatus) IsValid() bool {
	for _, candidate := range validEventStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseEventStatus converts raw input into an EventStatus.
func ParseEventStatus(value string) (EventStatus, error) {
	for _, candidate := range validEventStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event status %q", value)
}
