package enums

// TimelineStepStatus marks a derived lifecycle step in the event timeline.
type TimelineStepStatus string

const (
	TimelineStepStatusCompleted TimelineStepStatus = "completed"
	TimelineStepStatusCurrent   TimelineStepStatus = "current"
	TimelineStepStatusPending   TimelineStepStatus = "pending"
)

// String implements fmt.Stringer.
func (s TimelineStepStatus) String() string {
	return string(s)
}
