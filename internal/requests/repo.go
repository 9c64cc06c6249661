package requests

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stridesales/fieldops-backend/pkg/db/models"
	"github.com/stridesales/fieldops-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a requests repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, request *models.ShoeRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *repository) CreateMany(ctx context.Context, requests []models.ShoeRequest) error {
	if len(requests) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&requests).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ShoeRequest, error) {
	var request models.ShoeRequest
	err := r.db.WithContext(ctx).
		Preload("Event").
		Preload("Variant.Product").
		Preload("Requester").
		Preload("Approver").
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) UpdateDecision(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.ShoeRequest{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.ShoeRequest, error) {
	var requests []models.ShoeRequest
	err := r.db.WithContext(ctx).
		Preload("Variant.Product").
		Preload("Requester").
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// filtered builds the joined base query shared by the grouped listing. The
// LOWER/LIKE form keeps the filters portable across postgres and the sqlite
// test databases.
func (r *repository) filtered(ctx context.Context, filters ListFilters) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&models.ShoeRequest{}).
		Joins("JOIN product_variants ON product_variants.id = shoe_requests.variant_id").
		Joins("JOIN products ON products.id = product_variants.product_id").
		Joins("JOIN profiles ON profiles.id = shoe_requests.requested_by")

	if filters.Status != nil {
		q = q.Where("shoe_requests.status = ?", *filters.Status)
	}
	if filters.EventID != nil {
		q = q.Where("shoe_requests.event_id = ?", *filters.EventID)
	}
	if filters.ProductName != "" {
		q = q.Where("LOWER(products.name) LIKE ?", likePattern(filters.ProductName))
	}
	if filters.RequesterName != "" {
		q = q.Where("LOWER(profiles.fullname) LIKE ?", likePattern(filters.RequesterName))
	}
	if filters.SearchTerm != "" {
		pattern := likePattern(filters.SearchTerm)
		q = q.Where("(LOWER(products.name) LIKE ? OR LOWER(profiles.fullname) LIKE ? OR LOWER(product_variants.sku) LIKE ?)",
			pattern, pattern, pattern)
	}
	return q
}

func likePattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}

func (r *repository) ListEventIDs(ctx context.Context, filters ListFilters, params pagination.Params) ([]uuid.UUID, int64, error) {
	params = params.Normalize()

	var total int64
	if err := r.filtered(ctx, filters).
		Distinct("shoe_requests.event_id").
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	type groupRow struct {
		EventID uuid.UUID
	}
	var rows []groupRow
	err := r.filtered(ctx, filters).
		Select("shoe_requests.event_id AS event_id, MAX(shoe_requests.created_at) AS last_requested_at").
		Group("shoe_requests.event_id").
		Order("last_requested_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.EventID)
	}
	return ids, total, nil
}

func (r *repository) ListByEventIDs(ctx context.Context, filters ListFilters, eventIDs []uuid.UUID) ([]models.ShoeRequest, error) {
	if len(eventIDs) == 0 {
		return nil, nil
	}
	var requests []models.ShoeRequest
	err := r.filtered(ctx, filters).
		Select("shoe_requests.*").
		Where("shoe_requests.event_id IN ?", eventIDs).
		Order("shoe_requests.created_at ASC").
		Preload("Event").
		Preload("Variant.Product").
		Preload("Requester").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *repository) LedgerByEvents(ctx context.Context, eventIDs []uuid.UUID) ([]models.EventShoeVariant, error) {
	if len(eventIDs) == 0 {
		return nil, nil
	}
	var entries []models.EventShoeVariant
	err := r.db.WithContext(ctx).
		Where("event_id IN ?", eventIDs).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) ReturnSumsByEntries(ctx context.Context, entryIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	sums := make(map[uuid.UUID]int, len(entryIDs))
	if len(entryIDs) == 0 {
		return sums, nil
	}

	type sumRow struct {
		EventShoeVariantID uuid.UUID
		Total              int
	}
	var rows []sumRow
	err := r.db.WithContext(ctx).
		Model(&models.ShoeReturn{}).
		Select("event_shoe_variant_id, COALESCE(SUM(quantity), 0) AS total").
		Where("event_shoe_variant_id IN ?", entryIDs).
		Group("event_shoe_variant_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		sums[row.EventShoeVariantID] = row.Total
	}
	return sums, nil
}
