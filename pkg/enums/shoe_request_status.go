package enums

import "fmt"

// ShoeRequestStatus tracks the stored lifecycle of a sample request.
// "returned" is intentionally absent: it is a display-only value derived
// from the return ledger, never written to shoe_requests.status.
type ShoeRequestStatus string

const (
	ShoeRequestStatusPending  ShoeRequestStatus = "pending"
	ShoeRequestStatusApproved ShoeRequestStatus = "approved"
	ShoeRequestStatusRejected ShoeRequestStatus = "rejected"
)

// ShoeRequestDisplayReturned is the derived listing/timeline value shown once
// an approved request's allocation is fully returned.
const ShoeRequestDisplayReturned = "returned"

var validShoeRequestStatuses = []ShoeRequestStatus{
	ShoeRequestStatusPending,
	ShoeRequestStatusApproved,
	ShoeRequestStatusRejected,
}

// String implements fmt.Stringer.
func (s ShoeRequestStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShoeRequestStatus.
func (s ShoeRequestStatus) IsValid() bool {
	for _, candidate := range validShoeRequestStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status accepts no further direct transition.
func (s ShoeRequestStatus) IsTerminal() bool {
	return s == ShoeRequestStatusApproved || s == ShoeRequestStatusRejected
}

// ParseShoeRequestStatus converts raw input into a ShoeRequestStatus.
func ParseShoeRequestStatus(value string) (ShoeRequestStatus, error) {
	for _, candidate := range validShoeRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shoe request status %q", value)
}
