package requests

import (
	"time"

	"github.com/google/uuid"

	"github.com/stridesales/fieldops-backend/pkg/enums"
)

// CreateRequestInput carries one request-creation payload.
type CreateRequestInput struct {
	EventID     uuid.UUID
	VariantID   uuid.UUID
	Quantity    int
	Note        *string
	ReturnDate  *time.Time
	PickupDate  *time.Time
	RequestedBy uuid.UUID
}

// ListFilters describe the inputs supported by the grouped request listing.
type ListFilters struct {
	Status        *enums.ShoeRequestStatus
	EventID       *uuid.UUID
	SearchTerm    string
	ProductName   string
	RequesterName string
}

// RequestDetail is the explicit projection returned by Get: the request plus
// the joined display fields and the derived return state.
type RequestDetail struct {
	ID               uuid.UUID  `json:"id"`
	EventID          uuid.UUID  `json:"event_id"`
	VariantID        uuid.UUID  `json:"variant_id"`
	Quantity         int        `json:"quantity"`
	Status           string     `json:"status"`
	StoredStatus     string     `json:"stored_status"`
	RequestedBy      uuid.UUID  `json:"requested_by"`
	RequesterName    string     `json:"requester_name,omitempty"`
	ApprovedBy       *uuid.UUID `json:"approved_by,omitempty"`
	ApproverName     *string    `json:"approver_name,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	Reason           *string    `json:"reason,omitempty"`
	Note             *string    `json:"note,omitempty"`
	ReturnDate       *time.Time `json:"return_date,omitempty"`
	PickupDate       *time.Time `json:"pickup_date,omitempty"`
	ProductName      string     `json:"product_name,omitempty"`
	VariantSKU       string     `json:"variant_sku,omitempty"`
	LedgerEntryID    *uuid.UUID `json:"event_shoe_variant_id,omitempty"`
	ReturnedQuantity int        `json:"returned_quantity"`
	FullyReturned    bool       `json:"fully_returned"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// RequestListItem is one request row inside an event group.
type RequestListItem struct {
	ID               uuid.UUID  `json:"id"`
	VariantID        uuid.UUID  `json:"variant_id"`
	Quantity         int        `json:"quantity"`
	Status           string     `json:"status"`
	ProductName      string     `json:"product_name,omitempty"`
	VariantSKU       string     `json:"variant_sku,omitempty"`
	RequesterName    string     `json:"requester_name,omitempty"`
	Note             *string    `json:"note,omitempty"`
	ReturnDate       *time.Time `json:"return_date,omitempty"`
	PickupDate       *time.Time `json:"pickup_date,omitempty"`
	LedgerEntryID    *uuid.UUID `json:"event_shoe_variant_id,omitempty"`
	ReturnedQuantity int        `json:"returned_quantity"`
	CreatedAt        time.Time  `json:"created_at"`
}

// EventGroup bundles an event's requests for the grouped listing.
type EventGroup struct {
	EventID          uuid.UUID         `json:"event_id"`
	EventDescription *string           `json:"event_description,omitempty"`
	ScheduledAt      *time.Time        `json:"scheduled_at,omitempty"`
	Requests         []RequestListItem `json:"requests"`
}

// RequestList wraps the paginated event groups. Total counts event groups,
// not request rows.
type RequestList struct {
	Events []EventGroup `json:"events"`
	Total  int64        `json:"total"`
	Page   int          `json:"page"`
	Limit  int          `json:"limit"`
}
