package allocations

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stridesales/fieldops-backend/pkg/db/models"
	"github.com/stridesales/fieldops-backend/pkg/enums"
	pkgerrors "github.com/stridesales/fieldops-backend/pkg/errors"
	"github.com/stridesales/fieldops-backend/pkg/metrics"
)

// Service defines inventory ledger operations.
type Service interface {
	Allocate(ctx context.Context, tx *gorm.DB, eventID, variantID uuid.UUID, qty int) (*models.EventShoeVariant, error)
	MarkReceived(ctx context.Context, eventID uuid.UUID) (int64, error)
	FindByEventAndVariant(ctx context.Context, eventID, variantID uuid.UUID) (*models.EventShoeVariant, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.EventShoeVariant, error)
	Get(ctx context.Context, id uuid.UUID) (*models.EventShoeVariant, error)
}

type service struct {
	repo    Repository
	metrics *metrics.LendingMetrics
}

// NewService builds an allocations service with the required dependencies.
func NewService(repo Repository, lending *metrics.LendingMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("allocations repository required")
	}
	return &service{repo: repo, metrics: lending}, nil
}

// Allocate adds qty to the (event, variant) ledger entry, inserting the row
// when the pair has none yet. It must run inside the approval transaction so
// the status write and the ledger write commit together; the conflict clause
// on the unique pair index folds a concurrent insert into an increment
// without aborting the transaction.
func (s *service) Allocate(ctx context.Context, tx *gorm.DB, eventID, variantID uuid.UUID, qty int) (*models.EventShoeVariant, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction required for allocation")
	}
	if eventID == uuid.Nil || variantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event id and variant id required")
	}
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	repo := s.repo.WithTx(tx)

	entry := &models.EventShoeVariant{
		ID:        uuid.New(),
		EventID:   eventID,
		VariantID: variantID,
		Quantity:  qty,
		Status:    enums.EventShoeVariantStatusAllocated,
	}
	if err := repo.Upsert(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate ledger entry")
	}

	// Reload by pair: when the upsert merged, the surviving row keeps its
	// original id, not the one generated above.
	merged, err := repo.FindByEventAndVariant(ctx, eventID, variantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload ledger entry")
	}
	return merged, nil
}

// MarkReceived flips every ledger entry of the event to received. Zero
// matching rows is a no-op, not an error; re-applying changes nothing.
func (s *service) MarkReceived(ctx context.Context, eventID uuid.UUID) (int64, error) {
	if eventID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "event id required")
	}
	updated, err := s.repo.MarkReceivedByEvent(ctx, eventID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark ledger entries received")
	}
	s.metrics.AddReceivedMarked(updated)
	return updated, nil
}

// FindByEventAndVariant returns the ledger entry for the pair, or nil when no
// allocation exists yet. Absence is not an error.
func (s *service) FindByEventAndVariant(ctx context.Context, eventID, variantID uuid.UUID) (*models.EventShoeVariant, error) {
	entry, err := s.repo.FindByEventAndVariant(ctx, eventID, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup ledger entry")
	}
	return entry, nil
}

func (s *service) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.EventShoeVariant, error) {
	entries, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ledger entries")
	}
	return entries, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.EventShoeVariant, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ledger entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ledger entry")
	}
	return entry, nil
}
