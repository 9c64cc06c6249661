package returns

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stridesales/fieldops-backend/pkg/db/models"
	"github.com/stridesales/fieldops-backend/pkg/pagination"
)

// Repository defines persistence operations for shoe returns. The over-return
// guard also needs the ledger entry and the linked request, so the repository
// reads event_shoe_variants and shoe_requests alongside shoe_returns.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, ret *models.ShoeReturn) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ShoeReturn, error)
	FindLedgerEntry(ctx context.Context, entryID uuid.UUID) (*models.EventShoeVariant, error)
	FindRequest(ctx context.Context, id uuid.UUID) (*models.ShoeRequest, error)
	SumByEntry(ctx context.Context, entryID uuid.UUID) (int, error)
	ListByEntry(ctx context.Context, entryID uuid.UUID) ([]models.ShoeReturn, error)
	ListByEntries(ctx context.Context, entryIDs []uuid.UUID) ([]models.ShoeReturn, error)
	List(ctx context.Context, params pagination.Params) ([]models.ShoeReturn, int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a returns repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, ret *models.ShoeReturn) error {
	return r.db.WithContext(ctx).Create(ret).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ShoeReturn, error) {
	var ret models.ShoeReturn
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ret).Error; err != nil {
		return nil, err
	}
	return &ret, nil
}

func (r *repository) FindLedgerEntry(ctx context.Context, entryID uuid.UUID) (*models.EventShoeVariant, error) {
	var entry models.EventShoeVariant
	if err := r.db.WithContext(ctx).Where("id = ?", entryID).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) FindRequest(ctx context.Context, id uuid.UUID) (*models.ShoeRequest, error) {
	var req models.ShoeRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) SumByEntry(ctx context.Context, entryID uuid.UUID) (int, error) {
	var total int
	err := r.db.WithContext(ctx).
		Model(&models.ShoeReturn{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("event_shoe_variant_id = ?", entryID).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *repository) ListByEntry(ctx context.Context, entryID uuid.UUID) ([]models.ShoeReturn, error) {
	var rets []models.ShoeReturn
	err := r.db.WithContext(ctx).
		Where("event_shoe_variant_id = ?", entryID).
		Order("returned_at DESC").
		Find(&rets).Error
	if err != nil {
		return nil, err
	}
	return rets, nil
}

func (r *repository) ListByEntries(ctx context.Context, entryIDs []uuid.UUID) ([]models.ShoeReturn, error) {
	if len(entryIDs) == 0 {
		return nil, nil
	}
	var rets []models.ShoeReturn
	err := r.db.WithContext(ctx).
		Where("event_shoe_variant_id IN ?", entryIDs).
		Order("returned_at DESC").
		Find(&rets).Error
	if err != nil {
		return nil, err
	}
	return rets, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params) ([]models.ShoeReturn, int64, error) {
	params = params.Normalize()

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ShoeReturn{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rets []models.ShoeReturn
	err := r.db.WithContext(ctx).
		Order("returned_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rets).Error
	if err != nil {
		return nil, 0, err
	}
	return rets, total, nil
}
