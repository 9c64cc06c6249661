package requests

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stridesales/fieldops-backend/pkg/db/models"
	"github.com/stridesales/fieldops-backend/pkg/pagination"
)

// Repository defines persistence operations for shoe requests plus the
// cross-table reads the grouped listing needs (ledger ids, return sums).
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, request *models.ShoeRequest) error
	CreateMany(ctx context.Context, requests []models.ShoeRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ShoeRequest, error)
	UpdateDecision(ctx context.Context, id uuid.UUID, updates map[string]any) error
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.ShoeRequest, error)
	ListEventIDs(ctx context.Context, filters ListFilters, params pagination.Params) ([]uuid.UUID, int64, error)
	ListByEventIDs(ctx context.Context, filters ListFilters, eventIDs []uuid.UUID) ([]models.ShoeRequest, error)
	LedgerByEvents(ctx context.Context, eventIDs []uuid.UUID) ([]models.EventShoeVariant, error)
	ReturnSumsByEntries(ctx context.Context, entryIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

// EventFinder gates request creation on event existence.
type EventFinder interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Event, error)
}

// VariantFinder gates request creation on variant existence.
type VariantFinder interface {
	GetVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
}

// Allocator materializes the inventory ledger entry inside the approval
// transaction.
type Allocator interface {
	Allocate(ctx context.Context, tx *gorm.DB, eventID, variantID uuid.UUID, qty int) (*models.EventShoeVariant, error)
}
