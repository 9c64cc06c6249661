package enums

import "fmt"

// EventShoeVariantStatus tracks physical possession of an allocated sample.
type EventShoeVariantStatus string

const (
	EventShoeVariantStatusAllocated EventShoeVariantStatus = "allocated"
	EventShoeVariantStatusReceived  EventShoeVariantStatus = "received"
)

var validEventShoeVariantStatuses = []EventShoeVariantStatus{
	EventShoeVariantStatusAllocated,
	EventShoeVariantStatusReceived,
}

// String implements fmt.Stringer.
func (s EventShoeVariantStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known EventShoeVariantStatus.
func (s EventShoeVariantStatus) IsValid() bool {
	for _, candidate := range validEventShoeVariantStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseEventShoeVariantStatus converts raw input into an EventShoeVariantStatus.
func ParseEventShoeVariantStatus(value string) (EventShoeVariantStatus, error) {
	for _, candidate := range validEventShoeVariantStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event shoe variant status %q", value)
}
