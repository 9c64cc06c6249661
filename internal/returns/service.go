package returns

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stridesales/fieldops-backend/pkg/db/models"
	pkgerrors "github.com/stridesales/fieldops-backend/pkg/errors"
	"github.com/stridesales/fieldops-backend/pkg/metrics"
	"github.com/stridesales/fieldops-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the return recorder operations.
type Service interface {
	Create(ctx context.Context, input CreateReturnInput) (*models.ShoeReturn, error)
	Receive(ctx context.Context, entryID uuid.UUID, input ReceiveInput) (*models.ShoeReturn, error)
	SumReturned(ctx context.Context, entryID uuid.UUID) (int, error)
	ListByLedgerEntry(ctx context.Context, entryID uuid.UUID) ([]models.ShoeReturn, error)
	ListByEntries(ctx context.Context, entryIDs []uuid.UUID) ([]models.ShoeReturn, error)
	List(ctx context.Context, params pagination.Params) (*ReturnList, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ShoeReturn, error)
}

// CreateReturnInput captures one partial or full return against a ledger entry.
type CreateReturnInput struct {
	EventShoeVariantID uuid.UUID
	ShoeRequestID      *uuid.UUID
	Quantity           int
	ReturnedBy         uuid.UUID
	Reason             *string
}

// ReceiveInput is the combined entry point used when a return arrives with its
// originating request reference.
type ReceiveInput struct {
	ShoeRequestID uuid.UUID
	Quantity      int
	Comment       *string
	ReturnedBy    uuid.UUID
}

// ReturnList wraps a paginated return listing.
type ReturnList struct {
	Returns []models.ShoeReturn `json:"returns"`
	Total   int64               `json:"total"`
	Page    int                 `json:"page"`
	Limit   int                 `json:"limit"`
}

type service struct {
	repo    Repository
	tx      txRunner
	metrics *metrics.LendingMetrics
}

// NewService builds a returns service with the required dependencies.
func NewService(repo Repository, tx txRunner, lending *metrics.LendingMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("returns repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, metrics: lending}, nil
}

// Create records a return. The running sum per ledger entry may never exceed
// the allocated quantity; the guard runs inside a transaction so concurrent
// returns cannot slip past it together.
func (s *service) Create(ctx context.Context, input CreateReturnInput) (*models.ShoeReturn, error) {
	if input.EventShoeVariantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ledger entry id required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.ReturnedBy == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var created *models.ShoeReturn
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		entry, err := repo.FindLedgerEntry(ctx, input.EventShoeVariantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "ledger entry not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ledger entry")
		}

		if input.ShoeRequestID != nil {
			req, err := repo.FindRequest(ctx, *input.ShoeRequestID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "shoe request not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shoe request")
			}
			if req.EventID != entry.EventID || req.VariantID != entry.VariantID {
				return pkgerrors.New(pkgerrors.CodeValidation, "shoe request does not belong to this ledger entry")
			}
		}

		returned, err := repo.SumByEntry(ctx, entry.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum recorded returns")
		}
		if returned+input.Quantity > entry.Quantity {
			s.metrics.IncOverReturnRejected()
			return pkgerrors.New(pkgerrors.CodeConflict, "return exceeds allocated quantity").
				WithDetails(map[string]any{
					"allocated": entry.Quantity,
					"returned":  returned,
					"requested": input.Quantity,
				})
		}

		ret := &models.ShoeReturn{
			EventShoeVariantID: entry.ID,
			ShoeRequestID:      input.ShoeRequestID,
			Quantity:           input.Quantity,
			ReturnedBy:         input.ReturnedBy,
			ReturnedAt:         time.Now().UTC(),
			Reason:             input.Reason,
		}
		if err := repo.Create(ctx, ret); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create return")
		}
		created = ret
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncReturnRecorded()
	return created, nil
}

// Receive records a return through the warehouse check-in flow, correlating it
// with the originating request and storing the operator comment as reason.
func (s *service) Receive(ctx context.Context, entryID uuid.UUID, input ReceiveInput) (*models.ShoeReturn, error) {
	if input.ShoeRequestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shoe request id required")
	}
	requestID := input.ShoeRequestID
	return s.Create(ctx, CreateReturnInput{
		EventShoeVariantID: entryID,
		ShoeRequestID:      &requestID,
		Quantity:           input.Quantity,
		ReturnedBy:         input.ReturnedBy,
		Reason:             input.Comment,
	})
}

func (s *service) SumReturned(ctx context.Context, entryID uuid.UUID) (int, error) {
	if entryID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "ledger entry id required")
	}
	total, err := s.repo.SumByEntry(ctx, entryID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum recorded returns")
	}
	return total, nil
}

func (s *service) ListByLedgerEntry(ctx context.Context, entryID uuid.UUID) ([]models.ShoeReturn, error) {
	if entryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ledger entry id required")
	}
	rets, err := s.repo.ListByEntry(ctx, entryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list returns")
	}
	return rets, nil
}

// ListByEntries fetches the returns recorded against a set of ledger entries
// in one query. The timeline reconstruction reads an event's returns this way.
func (s *service) ListByEntries(ctx context.Context, entryIDs []uuid.UUID) ([]models.ShoeReturn, error) {
	if len(entryIDs) == 0 {
		return nil, nil
	}
	rets, err := s.repo.ListByEntries(ctx, entryIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list returns")
	}
	return rets, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*ReturnList, error) {
	params = params.Normalize()
	rets, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list returns")
	}
	if rets == nil {
		rets = []models.ShoeReturn{}
	}
	return &ReturnList{
		Returns: rets,
		Total:   total,
		Page:    params.Page,
		Limit:   params.Limit,
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.ShoeReturn, error) {
	ret, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "return not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load return")
	}
	return ret, nil
}
