package allocations

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stridesales/fieldops-backend/pkg/db/models"
	"github.com/stridesales/fieldops-backend/pkg/enums"
)

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS event_shoe_variants (
  id TEXT PRIMARY KEY,
  event_id TEXT NOT NULL,
  variant_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'allocated',
  created_at DATETIME,
  updated_at DATETIME
);
CREATE UNIQUE INDEX IF NOT EXISTS ux_event_shoe_variants_event_variant
  ON event_shoe_variants (event_id, variant_id);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func newLedgerEntry(t *testing.T, db *gorm.DB, eventID, variantID uuid.UUID, qty int) *models.EventShoeVariant {
	t.Helper()
	entry := &models.EventShoeVariant{
		ID:        uuid.New(),
		EventID:   eventID,
		VariantID: variantID,
		Quantity:  qty,
		Status:    enums.EventShoeVariantStatusAllocated,
	}
	require.NoError(t, db.Create(entry).Error)
	return entry
}

func TestRepositoryUniqueIndexBlocksDuplicatePair(t *testing.T) {
	db := setupLedgerTestDB(t)

	eventID := uuid.New()
	variantID := uuid.New()
	newLedgerEntry(t, db, eventID, variantID, 3)

	dup := &models.EventShoeVariant{
		ID:        uuid.New(),
		EventID:   eventID,
		VariantID: variantID,
		Quantity:  1,
	}
	err := db.Create(dup).Error
	require.Error(t, err, "second row for the same (event, variant) pair must be rejected")
}

func TestRepositoryUpsertMergesDuplicatePair(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)

	eventID := uuid.New()
	variantID := uuid.New()
	existing := newLedgerEntry(t, db, eventID, variantID, 3)

	dup := &models.EventShoeVariant{
		ID:        uuid.New(),
		EventID:   eventID,
		VariantID: variantID,
		Quantity:  2,
		Status:    enums.EventShoeVariantStatusAllocated,
	}
	require.NoError(t, repo.Upsert(context.Background(), dup))

	merged, err := repo.FindByEventAndVariant(context.Background(), eventID, variantID)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, merged.ID, "the surviving row keeps its original id")
	assert.Equal(t, 5, merged.Quantity)

	var count int64
	require.NoError(t, db.Table("event_shoe_variants").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRepositoryMarkReceivedByEvent(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)

	eventID := uuid.New()
	newLedgerEntry(t, db, eventID, uuid.New(), 2)
	newLedgerEntry(t, db, eventID, uuid.New(), 5)
	other := newLedgerEntry(t, db, uuid.New(), uuid.New(), 1)

	updated, err := repo.MarkReceivedByEvent(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	// Second application touches nothing.
	updated, err = repo.MarkReceivedByEvent(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated)

	entries, err := repo.ListByEvent(context.Background(), eventID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Equal(t, enums.EventShoeVariantStatusReceived, entry.Status)
	}

	untouched, err := repo.FindByID(context.Background(), other.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.EventShoeVariantStatusAllocated, untouched.Status)
}

func TestRepositoryFindByEventAndVariant(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)

	eventID := uuid.New()
	variantID := uuid.New()
	entry := newLedgerEntry(t, db, eventID, variantID, 4)

	found, err := repo.FindByEventAndVariant(context.Background(), eventID, variantID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, found.ID)

	_, err = repo.FindByEventAndVariant(context.Background(), eventID, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
