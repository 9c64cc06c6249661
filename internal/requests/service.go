package requests

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stridesales/fieldops-backend/pkg/db/models"
	"github.com/stridesales/fieldops-backend/pkg/enums"
	pkgerrors "github.com/stridesales/fieldops-backend/pkg/errors"
	"github.com/stridesales/fieldops-backend/pkg/metrics"
	"github.com/stridesales/fieldops-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the request state machine plus the grouped read side.
type Service interface {
	Create(ctx context.Context, input CreateRequestInput) (*models.ShoeRequest, error)
	CreateMany(ctx context.Context, inputs []CreateRequestInput) ([]models.ShoeRequest, error)
	Approve(ctx context.Context, requestID, approverID uuid.UUID) (*models.ShoeRequest, error)
	Reject(ctx context.Context, requestID, approverID uuid.UUID, reason string) (*models.ShoeRequest, error)
	Get(ctx context.Context, id uuid.UUID) (*RequestDetail, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*RequestList, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.ShoeRequest, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	events    EventFinder
	catalog   VariantFinder
	allocator Allocator
	metrics   *metrics.LendingMetrics
}

// NewService builds a requests service with the required dependencies.
func NewService(repo Repository, tx txRunner, events EventFinder, catalog VariantFinder, allocator Allocator, lending *metrics.LendingMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("requests repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if events == nil {
		return nil, fmt.Errorf("event finder required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("variant finder required")
	}
	if allocator == nil {
		return nil, fmt.Errorf("allocator required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		events:    events,
		catalog:   catalog,
		allocator: allocator,
		metrics:   lending,
	}, nil
}

func (s *service) validateCreate(ctx context.Context, input CreateRequestInput) error {
	if input.RequestedBy == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.Quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if _, err := s.events.Get(ctx, input.EventID); err != nil {
		return err
	}
	if _, err := s.catalog.GetVariant(ctx, input.VariantID); err != nil {
		return err
	}
	return nil
}

func buildRequest(input CreateRequestInput) models.ShoeRequest {
	return models.ShoeRequest{
		EventID:     input.EventID,
		VariantID:   input.VariantID,
		Quantity:    input.Quantity,
		Status:      enums.ShoeRequestStatusPending,
		RequestedBy: input.RequestedBy,
		Note:        input.Note,
		ReturnDate:  input.ReturnDate,
		PickupDate:  input.PickupDate,
	}
}

func (s *service) Create(ctx context.Context, input CreateRequestInput) (*models.ShoeRequest, error) {
	if err := s.validateCreate(ctx, input); err != nil {
		return nil, err
	}

	request := buildRequest(input)
	if err := s.repo.Create(ctx, &request); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create shoe request")
	}
	s.metrics.IncRequestCreated("single")
	return &request, nil
}

// CreateMany inserts the batch inside one transaction: either every row
// commits or none does.
func (s *service) CreateMany(ctx context.Context, inputs []CreateRequestInput) ([]models.ShoeRequest, error) {
	if len(inputs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one request required")
	}

	rows := make([]models.ShoeRequest, 0, len(inputs))
	for _, input := range inputs {
		if err := s.validateCreate(ctx, input); err != nil {
			return nil, err
		}
		rows = append(rows, buildRequest(input))
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).CreateMany(ctx, rows); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create shoe requests")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for range rows {
		s.metrics.IncRequestCreated("batch")
	}
	return rows, nil
}

// Approve transitions a pending request to approved and materializes the
// inventory ledger entry. Both writes run in one transaction; a repeated
// approval of an already-approved request is a no-op.
func (s *service) Approve(ctx context.Context, requestID, approverID uuid.UUID) (*models.ShoeRequest, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if approverID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var result *models.ShoeRequest
	decided := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		request, err := repo.FindByID(ctx, requestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "shoe request not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shoe request")
		}

		switch request.Status {
		case enums.ShoeRequestStatusApproved:
			result = request
			return nil
		case enums.ShoeRequestStatusRejected:
			return pkgerrors.New(pkgerrors.CodeStateConflict, "request already rejected")
		}

		now := time.Now().UTC()
		updates := map[string]any{
			"status":      enums.ShoeRequestStatusApproved,
			"approved_by": approverID,
			"approved_at": now,
		}
		if err := repo.UpdateDecision(ctx, request.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update request status")
		}

		if _, err := s.allocator.Allocate(ctx, tx, request.EventID, request.VariantID, request.Quantity); err != nil {
			return err
		}

		request.Status = enums.ShoeRequestStatusApproved
		request.ApprovedBy = &approverID
		request.ApprovedAt = &now
		result = request
		decided = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if decided {
		s.metrics.IncDecision("approved")
	}
	return result, nil
}

// Reject mirrors Approve without the ledger side effect. The approval fields
// stay untouched; only status and reason change.
func (s *service) Reject(ctx context.Context, requestID, approverID uuid.UUID, reason string) (*models.ShoeRequest, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if approverID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var result *models.ShoeRequest
	decided := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		request, err := repo.FindByID(ctx, requestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "shoe request not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shoe request")
		}

		switch request.Status {
		case enums.ShoeRequestStatusRejected:
			result = request
			return nil
		case enums.ShoeRequestStatusApproved:
			return pkgerrors.New(pkgerrors.CodeStateConflict, "request already approved")
		}

		updates := map[string]any{
			"status": enums.ShoeRequestStatusRejected,
		}
		if reason != "" {
			updates["reason"] = reason
		}
		if err := repo.UpdateDecision(ctx, request.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update request status")
		}

		request.Status = enums.ShoeRequestStatusRejected
		if reason != "" {
			request.Reason = &reason
		}
		result = request
		decided = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if decided {
		s.metrics.IncDecision("rejected")
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*RequestDetail, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}

	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shoe request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shoe request")
	}

	entries, err := s.repo.LedgerByEvents(ctx, []uuid.UUID{request.EventID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ledger entries")
	}

	var entry *models.EventShoeVariant
	for i := range entries {
		if entries[i].VariantID == request.VariantID {
			entry = &entries[i]
			break
		}
	}

	returned := 0
	if entry != nil {
		sums, err := s.repo.ReturnSumsByEntries(ctx, []uuid.UUID{entry.ID})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum recorded returns")
		}
		returned = sums[entry.ID]
	}

	return mapRequestDetail(request, entry, returned), nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*RequestList, error) {
	params = params.Normalize()

	eventIDs, total, err := s.repo.ListEventIDs(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list request events")
	}

	list := &RequestList{
		Events: []EventGroup{},
		Total:  total,
		Page:   params.Page,
		Limit:  params.Limit,
	}
	if len(eventIDs) == 0 {
		return list, nil
	}

	rows, err := s.repo.ListByEventIDs(ctx, filters, eventIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list requests")
	}

	entries, err := s.repo.LedgerByEvents(ctx, eventIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ledger entries")
	}

	entryByPair := make(map[[2]uuid.UUID]*models.EventShoeVariant, len(entries))
	entryIDs := make([]uuid.UUID, 0, len(entries))
	for i := range entries {
		entryByPair[[2]uuid.UUID{entries[i].EventID, entries[i].VariantID}] = &entries[i]
		entryIDs = append(entryIDs, entries[i].ID)
	}

	sums, err := s.repo.ReturnSumsByEntries(ctx, entryIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum recorded returns")
	}

	groups := make(map[uuid.UUID]*EventGroup, len(eventIDs))
	for _, eventID := range eventIDs {
		groups[eventID] = &EventGroup{EventID: eventID, Requests: []RequestListItem{}}
	}

	for i := range rows {
		row := &rows[i]
		group, ok := groups[row.EventID]
		if !ok {
			continue
		}
		if group.EventDescription == nil && row.Event != nil {
			group.EventDescription = row.Event.Description
			group.ScheduledAt = row.Event.ScheduledAt
		}

		entry := entryByPair[[2]uuid.UUID{row.EventID, row.VariantID}]
		returned := 0
		if entry != nil {
			returned = sums[entry.ID]
		}
		group.Requests = append(group.Requests, mapRequestListItem(row, entry, returned))
	}

	for _, eventID := range eventIDs {
		list.Events = append(list.Events, *groups[eventID])
	}
	return list, nil
}

func (s *service) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.ShoeRequest, error) {
	if eventID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event id required")
	}
	rows, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list requests by event")
	}
	return rows, nil
}

func mapRequestDetail(request *models.ShoeRequest, entry *models.EventShoeVariant, returned int) *RequestDetail {
	detail := &RequestDetail{
		ID:               request.ID,
		EventID:          request.EventID,
		VariantID:        request.VariantID,
		Quantity:         request.Quantity,
		Status:           DisplayStatus(request.Status, request.Quantity, returned),
		StoredStatus:     string(request.Status),
		RequestedBy:      request.RequestedBy,
		ApprovedBy:       request.ApprovedBy,
		ApprovedAt:       request.ApprovedAt,
		Reason:           request.Reason,
		Note:             request.Note,
		ReturnDate:       request.ReturnDate,
		PickupDate:       request.PickupDate,
		ReturnedQuantity: returned,
		FullyReturned:    IsFullyReturned(request.Quantity, returned),
		CreatedAt:        request.CreatedAt,
		UpdatedAt:        request.UpdatedAt,
	}
	if request.Requester != nil {
		detail.RequesterName = request.Requester.FullName
	}
	if request.Approver != nil {
		name := request.Approver.FullName
		detail.ApproverName = &name
	}
	if request.Variant != nil {
		detail.VariantSKU = request.Variant.SKU
		if request.Variant.Product != nil {
			detail.ProductName = request.Variant.Product.Name
		}
	}
	if entry != nil {
		id := entry.ID
		detail.LedgerEntryID = &id
	}
	return detail
}

func mapRequestListItem(request *models.ShoeRequest, entry *models.EventShoeVariant, returned int) RequestListItem {
	item := RequestListItem{
		ID:               request.ID,
		VariantID:        request.VariantID,
		Quantity:         request.Quantity,
		Status:           DisplayStatus(request.Status, request.Quantity, returned),
		Note:             request.Note,
		ReturnDate:       request.ReturnDate,
		PickupDate:       request.PickupDate,
		ReturnedQuantity: returned,
		CreatedAt:        request.CreatedAt,
	}
	if request.Requester != nil {
		item.RequesterName = request.Requester.FullName
	}
	if request.Variant != nil {
		item.VariantSKU = request.Variant.SKU
		if request.Variant.Product != nil {
			item.ProductName = request.Variant.Product.Name
		}
	}
	if entry != nil {
		id := entry.ID
		item.LedgerEntryID = &id
	}
	return item
}
