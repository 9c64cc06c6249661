package allocations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stridesales/fieldops-backend/pkg/db/models"
	"github.com/stridesales/fieldops-backend/pkg/enums"
)

// Repository defines persistence operations for inventory ledger entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Upsert(ctx context.Context, entry *models.EventShoeVariant) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.EventShoeVariant, error)
	FindByEventAndVariant(ctx context.Context, eventID, variantID uuid.UUID) (*models.EventShoeVariant, error)
	MarkReceivedByEvent(ctx context.Context, eventID uuid.UUID) (int64, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.EventShoeVariant, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Upsert inserts the entry, or folds it into the existing row for the same
// (event, variant) pair by adding its quantity. A single statement, so two
// transactions racing on the unique pair index both succeed.
func (r *repository) Upsert(ctx context.Context, entry *models.EventShoeVariant) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "event_id"}, {Name: "variant_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("quantity + excluded.quantity"),
				"updated_at": time.Now().UTC(),
			}),
		}).
		Create(entry).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.EventShoeVariant, error) {
	var entry models.EventShoeVariant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) FindByEventAndVariant(ctx context.Context, eventID, variantID uuid.UUID) (*models.EventShoeVariant, error) {
	var entry models.EventShoeVariant
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND variant_id = ?", eventID, variantID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) MarkReceivedByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.EventShoeVariant{}).
		Where("event_id = ? AND status <> ?", eventID, enums.EventShoeVariantStatusReceived).
		Update("status", enums.EventShoeVariantStatusReceived)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.EventShoeVariant, error) {
	var entries []models.EventShoeVariant
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
