package requests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stridesales/fieldops-backend/pkg/db/models"
	"github.com/stridesales/fieldops-backend/pkg/enums"
	"github.com/stridesales/fieldops-backend/pkg/pagination"
)

func setupRequestsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  fullname TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'field_rep',
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS events (
  id TEXT PRIMARY KEY,
  company_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  description TEXT,
  status TEXT NOT NULL DEFAULT 'scheduled',
  scheduled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  type TEXT,
  tags TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_variants (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  sku TEXT NOT NULL,
  attributes TEXT,
  price NUMERIC NOT NULL DEFAULT 0,
  stock INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS shoe_requests (
  id TEXT PRIMARY KEY,
  event_id TEXT NOT NULL,
  variant_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  requested_by TEXT NOT NULL,
  approved_by TEXT,
  approved_at DATETIME,
  reason TEXT,
  note TEXT,
  return_date DATETIME,
  pickup_date DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS event_shoe_variants (
  id TEXT PRIMARY KEY,
  event_id TEXT NOT NULL,
  variant_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'allocated',
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (event_id, variant_id)
);`,
		`CREATE TABLE IF NOT EXISTS shoe_returns (
  id TEXT PRIMARY KEY,
  event_shoe_variant_id TEXT NOT NULL,
  shoe_request_id TEXT,
  quantity INTEGER NOT NULL,
  returned_by TEXT NOT NULL,
  returned_at DATETIME NOT NULL,
  reason TEXT,
  created_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newProfile(t *testing.T, db *gorm.DB, name string) *models.Profile {
	t.Helper()
	profile := &models.Profile{
		ID:       uuid.New(),
		Email:    uuid.NewString() + "@fieldops.test",
		FullName: name,
		Role:     enums.MemberRoleFieldRep,
		IsActive: true,
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

func newEvent(t *testing.T, db *gorm.DB, description string) *models.Event {
	t.Helper()
	event := &models.Event{
		ID:          uuid.New(),
		CompanyID:   uuid.New(),
		UserID:      uuid.New(),
		Description: &description,
		Status:      enums.EventStatusScheduled,
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

func newVariant(t *testing.T, db *gorm.DB, productName, sku string) *models.ProductVariant {
	t.Helper()
	product := &models.Product{ID: uuid.New(), Name: productName, IsActive: true}
	require.NoError(t, db.Create(product).Error)

	variant := &models.ProductVariant{
		ID:        uuid.New(),
		ProductID: product.ID,
		SKU:       sku,
		Stock:     25,
	}
	require.NoError(t, db.Create(variant).Error)
	return variant
}

func newRequest(t *testing.T, db *gorm.DB, event *models.Event, variant *models.ProductVariant, requester *models.Profile, qty int, status enums.ShoeRequestStatus, created time.Time) *models.ShoeRequest {
	t.Helper()
	request := &models.ShoeRequest{
		ID:          uuid.New(),
		EventID:     event.ID,
		VariantID:   variant.ID,
		Quantity:    qty,
		Status:      status,
		RequestedBy: requester.ID,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	require.NoError(t, db.Create(request).Error)
	return request
}

func TestRepositoryListEventIDs_groupsAndPaginates(t *testing.T) {
	db := setupRequestsTestDB(t)
	repo := NewRepository(db)

	rep := newProfile(t, db, "Jordan Reyes")
	variant := newVariant(t, db, "Cloudrunner 2", "CR2-42")
	older := newEvent(t, db, "clinic visit")
	newer := newEvent(t, db, "marathon expo")

	now := time.Now().UTC()
	newRequest(t, db, older, variant, rep, 2, enums.ShoeRequestStatusPending, now.Add(-2*time.Hour))
	newRequest(t, db, older, variant, rep, 1, enums.ShoeRequestStatusPending, now.Add(-90*time.Minute))
	newRequest(t, db, newer, variant, rep, 3, enums.ShoeRequestStatusPending, now)

	ids, total, err := repo.ListEventIDs(context.Background(), ListFilters{}, pagination.Params{Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, ids, 1)
	assert.Equal(t, newer.ID, ids[0], "event with the most recent request comes first")

	ids, total, err = repo.ListEventIDs(context.Background(), ListFilters{}, pagination.Params{Page: 2, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, ids, 1)
	assert.Equal(t, older.ID, ids[0])
}

func TestRepositoryListEventIDs_filters(t *testing.T) {
	db := setupRequestsTestDB(t)
	repo := NewRepository(db)

	runner := newProfile(t, db, "Casey Brook")
	walker := newProfile(t, db, "Morgan Vale")
	trail := newVariant(t, db, "Trailblazer GTX", "TBZ-44")
	road := newVariant(t, db, "Roadster Lite", "RDL-41")
	eventA := newEvent(t, db, "trail demo day")
	eventB := newEvent(t, db, "road race booth")

	now := time.Now().UTC()
	newRequest(t, db, eventA, trail, runner, 2, enums.ShoeRequestStatusApproved, now.Add(-time.Hour))
	newRequest(t, db, eventB, road, walker, 1, enums.ShoeRequestStatusPending, now)

	approved := enums.ShoeRequestStatusApproved
	ids, total, err := repo.ListEventIDs(context.Background(), ListFilters{Status: &approved}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, ids, 1)
	assert.Equal(t, eventA.ID, ids[0])

	ids, total, err = repo.ListEventIDs(context.Background(), ListFilters{ProductName: "trailblazer"}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, ids, 1)
	assert.Equal(t, eventA.ID, ids[0])

	ids, total, err = repo.ListEventIDs(context.Background(), ListFilters{RequesterName: "morgan"}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, ids, 1)
	assert.Equal(t, eventB.ID, ids[0])

	ids, total, err = repo.ListEventIDs(context.Background(), ListFilters{SearchTerm: "rdl-41"}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, ids, 1)
	assert.Equal(t, eventB.ID, ids[0])

	_, total, err = repo.ListEventIDs(context.Background(), ListFilters{SearchTerm: "no such shoe"}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestRepositoryListByEventIDs_preloadsAssociations(t *testing.T) {
	db := setupRequestsTestDB(t)
	repo := NewRepository(db)

	rep := newProfile(t, db, "Riley Fontaine")
	variant := newVariant(t, db, "Cloudrunner 2", "CR2-43")
	event := newEvent(t, db, "store clinic")

	now := time.Now().UTC()
	newRequest(t, db, event, variant, rep, 2, enums.ShoeRequestStatusPending, now.Add(-time.Minute))
	newRequest(t, db, event, variant, rep, 1, enums.ShoeRequestStatusPending, now)

	rows, err := repo.ListByEventIDs(context.Background(), ListFilters{}, []uuid.UUID{event.ID})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].CreatedAt.Before(rows[1].CreatedAt), "rows come back oldest first")

	require.NotNil(t, rows[0].Event)
	require.NotNil(t, rows[0].Variant)
	require.NotNil(t, rows[0].Variant.Product)
	require.NotNil(t, rows[0].Requester)
	assert.Equal(t, "Cloudrunner 2", rows[0].Variant.Product.Name)
	assert.Equal(t, "Riley Fontaine", rows[0].Requester.FullName)
}

func TestRepositoryUpdateDecision(t *testing.T) {
	db := setupRequestsTestDB(t)
	repo := NewRepository(db)

	rep := newProfile(t, db, "Jamie Ash")
	variant := newVariant(t, db, "Roadster Lite", "RDL-40")
	event := newEvent(t, db, "pop-up store")
	request := newRequest(t, db, event, variant, rep, 2, enums.ShoeRequestStatusPending, time.Now().UTC())

	approver := uuid.New()
	now := time.Now().UTC()
	err := repo.UpdateDecision(context.Background(), request.ID, map[string]any{
		"status":      enums.ShoeRequestStatusApproved,
		"approved_by": approver,
		"approved_at": now,
	})
	require.NoError(t, err)

	reloaded, err := repo.FindByID(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ShoeRequestStatusApproved, reloaded.Status)
	require.NotNil(t, reloaded.ApprovedBy)
	assert.Equal(t, approver, *reloaded.ApprovedBy)
	require.NotNil(t, reloaded.ApprovedAt)
}

func TestRepositoryReturnSumsByEntries(t *testing.T) {
	db := setupRequestsTestDB(t)
	repo := NewRepository(db)

	event := newEvent(t, db, "expo")
	variant := newVariant(t, db, "Trailblazer GTX", "TBZ-45")

	entry := &models.EventShoeVariant{
		ID:        uuid.New(),
		EventID:   event.ID,
		VariantID: variant.ID,
		Quantity:  6,
		Status:    enums.EventShoeVariantStatusAllocated,
	}
	require.NoError(t, db.Create(entry).Error)

	for _, qty := range []int{2, 3} {
		ret := &models.ShoeReturn{
			ID:                 uuid.New(),
			EventShoeVariantID: entry.ID,
			Quantity:           qty,
			ReturnedBy:         uuid.New(),
			ReturnedAt:         time.Now().UTC(),
		}
		require.NoError(t, db.Create(ret).Error)
	}

	sums, err := repo.ReturnSumsByEntries(context.Background(), []uuid.UUID{entry.ID})
	require.NoError(t, err)
	assert.Equal(t, 5, sums[entry.ID])

	entries, err := repo.LedgerByEvents(context.Background(), []uuid.UUID{event.ID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
}
