package timeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stridesales/fieldops-backend/pkg/db/models"
	"github.com/stridesales/fieldops-backend/pkg/enums"
)

// RequestSource supplies an event's requests, ascending by created_at.
type RequestSource interface {
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.ShoeRequest, error)
}

// LedgerSource supplies an event's inventory ledger entries.
type LedgerSource interface {
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.EventShoeVariant, error)
}

// ReturnSource supplies the returns recorded against a set of ledger entries.
type ReturnSource interface {
	ListByEntries(ctx context.Context, entryIDs []uuid.UUID) ([]models.ShoeReturn, error)
}

// Service derives the 4-step lending timeline for an event.
type Service interface {
	ForEvent(ctx context.Context, eventID uuid.UUID) ([]Step, error)
}

// Step is one derived timeline stage. Date is RFC3339 or empty when the stage
// has not been reached. Only the Approved step carries the request list.
type Step struct {
	ID          int                      `json:"id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Date        string                   `json:"date"`
	Status      enums.TimelineStepStatus `json:"status"`
	Requests    []RequestSummary         `json:"requests,omitempty"`
}

// RequestSummary is the request projection attached to the Approved step.
type RequestSummary struct {
	ID         uuid.UUID  `json:"id"`
	VariantID  uuid.UUID  `json:"variant_id"`
	Quantity   int        `json:"quantity"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
}

type service struct {
	requests RequestSource
	ledger   LedgerSource
	returns  ReturnSource
}

// NewService builds a timeline service over the three read sources.
func NewService(requests RequestSource, ledger LedgerSource, returns ReturnSource) (Service, error) {
	if requests == nil {
		return nil, fmt.Errorf("request source required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("ledger source required")
	}
	if returns == nil {
		return nil, fmt.Errorf("return source required")
	}
	return &service{requests: requests, ledger: ledger, returns: returns}, nil
}

// ForEvent reconstructs Requested → Approved → Received → Returned from the
// stored facts. An event with no requests has no timeline. The Approved step
// reports pending (never current) while undecided requests remain.
func (s *service) ForEvent(ctx context.Context, eventID uuid.UUID) ([]Step, error) {
	reqs, err := s.requests.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return []Step{}, nil
	}

	entries, err := s.ledger.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	var rets []models.ShoeReturn
	if len(entries) > 0 {
		entryIDs := make([]uuid.UUID, 0, len(entries))
		for _, entry := range entries {
			entryIDs = append(entryIDs, entry.ID)
		}
		rets, err = s.returns.ListByEntries(ctx, entryIDs)
		if err != nil {
			return nil, err
		}
	}

	// Step 1: Requested — always completed once any request exists.
	earliest := reqs[0].CreatedAt
	for _, req := range reqs[1:] {
		if req.CreatedAt.Before(earliest) {
			earliest = req.CreatedAt
		}
	}
	requested := Step{
		ID:          1,
		Title:       "Requested",
		Description: "Samples requested for the event",
		Date:        formatDate(&earliest),
		Status:      enums.TimelineStepStatusCompleted,
	}

	// Step 2: Approved — completed once every request has been decided.
	allDecided := true
	var latestApproval *time.Time
	for _, req := range reqs {
		if req.Status == enums.ShoeRequestStatusPending {
			allDecided = false
		}
		if req.Status == enums.ShoeRequestStatusApproved && req.ApprovedAt != nil {
			if latestApproval == nil || req.ApprovedAt.After(*latestApproval) {
				latestApproval = req.ApprovedAt
			}
		}
	}
	approved := Step{
		ID:          2,
		Title:       "Approved",
		Description: "All requests decided",
		Date:        formatDate(latestApproval),
		Status:      enums.TimelineStepStatusPending,
		Requests:    summarizeRequests(reqs),
	}
	if allDecided {
		approved.Status = enums.TimelineStepStatusCompleted
	}

	// Step 3: Received — completed once any ledger entry was received.
	var latestReceived *time.Time
	for i := range entries {
		if entries[i].Status != enums.EventShoeVariantStatusReceived {
			continue
		}
		updated := entries[i].UpdatedAt
		if latestReceived == nil || updated.After(*latestReceived) {
			latestReceived = &updated
		}
	}
	received := Step{
		ID:          3,
		Title:       "Received",
		Description: "Samples physically received",
		Date:        formatDate(latestReceived),
		Status:      enums.TimelineStepStatusPending,
	}
	switch {
	case latestReceived != nil:
		received.Status = enums.TimelineStepStatusCompleted
	case approved.Status == enums.TimelineStepStatusCompleted:
		received.Status = enums.TimelineStepStatusCurrent
	}

	// Step 4: Returned — completed once any return exists.
	var latestReturn *time.Time
	for i := range rets {
		at := rets[i].ReturnedAt
		if latestReturn == nil || at.After(*latestReturn) {
			latestReturn = &at
		}
	}
	returned := Step{
		ID:          4,
		Title:       "Returned",
		Description: "Samples returned",
		Date:        formatDate(latestReturn),
		Status:      enums.TimelineStepStatusPending,
	}
	switch {
	case latestReturn != nil:
		returned.Status = enums.TimelineStepStatusCompleted
	case received.Status == enums.TimelineStepStatusCompleted:
		returned.Status = enums.TimelineStepStatusCurrent
	}

	return []Step{requested, approved, received, returned}, nil
}

func summarizeRequests(reqs []models.ShoeRequest) []RequestSummary {
	summaries := make([]RequestSummary, 0, len(reqs))
	for _, req := range reqs {
		summaries = append(summaries, RequestSummary{
			ID:         req.ID,
			VariantID:  req.VariantID,
			Quantity:   req.Quantity,
			Status:     string(req.Status),
			CreatedAt:  req.CreatedAt,
			ApprovedAt: req.ApprovedAt,
		})
	}
	return summaries
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
