package returns

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
	pkgerrors "github.com/stridesales/fieldops-backend/pkg/errors"
	"github.com/stridesales/fieldops-backend/pkg/pagination"
)

func setupReturnsTestDB(t *testing.T) *gorm.DB {
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
CREATE TABLE IF NOT EXISTS shoe_requests (
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
);
CREATE TABLE IF NOT EXISTS shoe_returns (
  id TEXT PRIMARY KEY,
  event_shoe_variant_id TEXT NOT NULL,
  shoe_request_id TEXT,
  quantity INTEGER NOT NULL,
  returned_by TEXT NOT NULL,
  returned_at DATETIME NOT NULL,
  reason TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newReturnsService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), gormTxRunner{db: db}, nil)
	require.NoError(t, err)
	return svc
}

func newAllocatedEntry(t *testing.T, db *gorm.DB, qty int) *models.EventShoeVariant {
	t.Helper()
	entry := &models.EventShoeVariant{
		ID:        uuid.New(),
		EventID:   uuid.New(),
		VariantID: uuid.New(),
		Quantity:  qty,
		Status:    enums.EventShoeVariantStatusAllocated,
	}
	require.NoError(t, db.Create(entry).Error)
	return entry
}

func newRequestForEntry(t *testing.T, db *gorm.DB, entry *models.EventShoeVariant) *models.ShoeRequest {
	t.Helper()
	approver := uuid.New()
	now := time.Now().UTC()
	req := &models.ShoeRequest{
		ID:          uuid.New(),
		EventID:     entry.EventID,
		VariantID:   entry.VariantID,
		Quantity:    entry.Quantity,
		Status:      enums.ShoeRequestStatusApproved,
		RequestedBy: uuid.New(),
		ApprovedBy:  &approver,
		ApprovedAt:  &now,
	}
	require.NoError(t, db.Create(req).Error)
	return req
}

func TestServiceCreateAccumulatesPartialReturns(t *testing.T) {
	db := setupReturnsTestDB(t)
	svc := newReturnsService(t, db)
	entry := newAllocatedEntry(t, db, 5)

	rep := uuid.New()
	first, err := svc.Create(context.Background(), CreateReturnInput{
		EventShoeVariantID: entry.ID,
		Quantity:           2,
		ReturnedBy:         rep,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Quantity)
	assert.False(t, first.ReturnedAt.IsZero())

	_, err = svc.Create(context.Background(), CreateReturnInput{
		EventShoeVariantID: entry.ID,
		Quantity:           3,
		ReturnedBy:         rep,
	})
	require.NoError(t, err)

	total, err := svc.SumReturned(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
}

func TestServiceCreateRejectsOverReturn(t *testing.T) {
	db := setupReturnsTestDB(t)
	svc := newReturnsService(t, db)
	entry := newAllocatedEntry(t, db, 5)

	rep := uuid.New()
	_, err := svc.Create(context.Background(), CreateReturnInput{
		EventShoeVariantID: entry.ID,
		Quantity:           4,
		ReturnedBy:         rep,
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateReturnInput{
		EventShoeVariantID: entry.ID,
		Quantity:           2,
		ReturnedBy:         rep,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())

	// The rejected attempt must not leave a row behind.
	total, err := svc.SumReturned(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
}

func TestServiceCreateValidation(t *testing.T) {
	db := setupReturnsTestDB(t)
	svc := newReturnsService(t, db)

	_, err := svc.Create(context.Background(), CreateReturnInput{
		EventShoeVariantID: uuid.New(),
		Quantity:           1,
		ReturnedBy:         uuid.New(),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	entry := newAllocatedEntry(t, db, 3)
	_, err = svc.Create(context.Background(), CreateReturnInput{
		EventShoeVariantID: entry.ID,
		Quantity:           0,
		ReturnedBy:         uuid.New(),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Create(context.Background(), CreateReturnInput{
		EventShoeVariantID: entry.ID,
		Quantity:           1,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestServiceReceiveLinksOriginatingRequest(t *testing.T) {
	db := setupReturnsTestDB(t)
	svc := newReturnsService(t, db)
	entry := newAllocatedEntry(t, db, 4)
	request := newRequestForEntry(t, db, entry)

	comment := "scuffed left toe"
	ret, err := svc.Receive(context.Background(), entry.ID, ReceiveInput{
		ShoeRequestID: request.ID,
		Quantity:      2,
		Comment:       &comment,
		ReturnedBy:    uuid.New(),
	})
	require.NoError(t, err)

	require.NotNil(t, ret.ShoeRequestID)
	assert.Equal(t, request.ID, *ret.ShoeRequestID)
	require.NotNil(t, ret.Reason)
	assert.Equal(t, comment, *ret.Reason)
}

func TestServiceReceiveRejectsUnknownRequest(t *testing.T) {
	db := setupReturnsTestDB(t)
	svc := newReturnsService(t, db)
	entry := newAllocatedEntry(t, db, 4)

	_, err := svc.Receive(context.Background(), entry.ID, ReceiveInput{
		ShoeRequestID: uuid.New(),
		Quantity:      1,
		ReturnedBy:    uuid.New(),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	total, err := svc.SumReturned(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, total, "rejected receive must not record a return")
}

func TestServiceReceiveRejectsForeignRequest(t *testing.T) {
	db := setupReturnsTestDB(t)
	svc := newReturnsService(t, db)
	entry := newAllocatedEntry(t, db, 4)
	other := newAllocatedEntry(t, db, 2)
	foreign := newRequestForEntry(t, db, other)

	_, err := svc.Receive(context.Background(), entry.ID, ReceiveInput{
		ShoeRequestID: foreign.ID,
		Quantity:      1,
		ReturnedBy:    uuid.New(),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestServiceReceiveRequiresRequestID(t *testing.T) {
	db := setupReturnsTestDB(t)
	svc := newReturnsService(t, db)
	entry := newAllocatedEntry(t, db, 4)

	_, err := svc.Receive(context.Background(), entry.ID, ReceiveInput{
		Quantity:   1,
		ReturnedBy: uuid.New(),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestServiceListByEntriesSpansEntries(t *testing.T) {
	db := setupReturnsTestDB(t)
	svc := newReturnsService(t, db)
	first := newAllocatedEntry(t, db, 5)
	second := newAllocatedEntry(t, db, 5)

	rep := uuid.New()
	for _, entry := range []*models.EventShoeVariant{first, first, second} {
		_, err := svc.Create(context.Background(), CreateReturnInput{
			EventShoeVariantID: entry.ID,
			Quantity:           1,
			ReturnedBy:         rep,
		})
		require.NoError(t, err)
	}

	rets, err := svc.ListByEntries(context.Background(), []uuid.UUID{first.ID, second.ID})
	require.NoError(t, err)
	assert.Len(t, rets, 3)

	rets, err = svc.ListByEntries(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, rets)
}

func TestServiceListPaginates(t *testing.T) {
	db := setupReturnsTestDB(t)
	svc := newReturnsService(t, db)
	entry := newAllocatedEntry(t, db, 10)

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		ret := &models.ShoeReturn{
			ID:                 uuid.New(),
			EventShoeVariantID: entry.ID,
			Quantity:           1,
			ReturnedBy:         uuid.New(),
			ReturnedAt:         now.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(ret).Error)
	}

	list, err := svc.List(context.Background(), pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), list.Total)
	require.Len(t, list.Returns, 2)
	assert.True(t, list.Returns[0].ReturnedAt.After(list.Returns[1].ReturnedAt), "newest return first")

	list, err = svc.List(context.Background(), pagination.Params{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, list.Returns, 1)
}
