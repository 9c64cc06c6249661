package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stridesales/fieldops-backend/api/middleware"
	"github.com/stridesales/fieldops-backend/api/responses"
	"github.com/stridesales/fieldops-backend/api/validators"
	requestsvc "github.com/stridesales/fieldops-backend/internal/requests"
	"github.com/stridesales/fieldops-backend/pkg/db/models"
	"github.com/stridesales/fieldops-backend/pkg/enums"
	pkgerrors "github.com/stridesales/fieldops-backend/pkg/errors"
	"github.com/stridesales/fieldops-backend/pkg/logger"
	"github.com/stridesales/fieldops-backend/pkg/pagination"
)

type createShoeRequestPayload struct {
	EventID    uuid.UUID  `json:"event_id" validate:"required"`
	VariantID  uuid.UUID  `json:"variant_id" validate:"required"`
	Quantity   int        `json:"quantity" validate:"required,min=1"`
	Note       *string    `json:"note"`
	ReturnDate *time.Time `json:"return_date"`
	PickupDate *time.Time `json:"pickup_date"`
}

type createShoeRequestBatchPayload struct {
	Requests []createShoeRequestPayload `json:"requests" validate:"required,min=1,dive"`
}

type updateShoeRequestStatusPayload struct {
	Status string  `json:"status" validate:"required,oneof=approved rejected"`
	Reason *string `json:"reason"`
}

type shoeRequestResponse struct {
	ID          uuid.UUID  `json:"id"`
	EventID     uuid.UUID  `json:"event_id"`
	VariantID   uuid.UUID  `json:"variant_id"`
	Quantity    int        `json:"quantity"`
	Status      string     `json:"status"`
	RequestedBy uuid.UUID  `json:"requested_by"`
	ApprovedBy  *uuid.UUID `json:"approved_by,omitempty"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	Reason      *string    `json:"reason,omitempty"`
	Note        *string    `json:"note,omitempty"`
	ReturnDate  *time.Time `json:"return_date,omitempty"`
	PickupDate  *time.Time `json:"pickup_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func newShoeRequestResponse(request *models.ShoeRequest) shoeRequestResponse {
	return shoeRequestResponse{
		ID:          request.ID,
		EventID:     request.EventID,
		VariantID:   request.VariantID,
		Quantity:    request.Quantity,
		Status:      string(request.Status),
		RequestedBy: request.RequestedBy,
		ApprovedBy:  request.ApprovedBy,
		ApprovedAt:  request.ApprovedAt,
		Reason:      request.Reason,
		Note:        request.Note,
		ReturnDate:  request.ReturnDate,
		PickupDate:  request.PickupDate,
		CreatedAt:   request.CreatedAt,
		UpdatedAt:   request.UpdatedAt,
	}
}

func principalID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

// ShoeRequestCreate handles POST /api/v1/shoe-requests.
func ShoeRequestCreate(svc requestsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := principalID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createShoeRequestPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.Create(r.Context(), requestsvc.CreateRequestInput{
			EventID:     payload.EventID,
			VariantID:   payload.VariantID,
			Quantity:    payload.Quantity,
			Note:        payload.Note,
			ReturnDate:  payload.ReturnDate,
			PickupDate:  payload.PickupDate,
			RequestedBy: principal,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newShoeRequestResponse(request))
	}
}

// ShoeRequestCreateBatch handles POST /api/v1/shoe-requests/batch.
func ShoeRequestCreateBatch(svc requestsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := principalID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createShoeRequestBatchPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inputs := make([]requestsvc.CreateRequestInput, len(payload.Requests))
		for i, req := range payload.Requests {
			inputs[i] = requestsvc.CreateRequestInput{
				EventID:     req.EventID,
				VariantID:   req.VariantID,
				Quantity:    req.Quantity,
				Note:        req.Note,
				ReturnDate:  req.ReturnDate,
				PickupDate:  req.PickupDate,
				RequestedBy: principal,
			}
		}

		created, err := svc.CreateMany(r.Context(), inputs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]shoeRequestResponse, len(created))
		for i := range created {
			out[i] = newShoeRequestResponse(&created[i])
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, out)
	}
}

// ShoeRequestList handles GET /api/v1/shoe-requests.
func ShoeRequestList(svc requestsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := requestsvc.ListFilters{
			SearchTerm:    validators.ParseQueryString(r, "searchTerm", 120),
			ProductName:   validators.ParseQueryString(r, "productName", 120),
			RequesterName: validators.ParseQueryString(r, "requesterName", 120),
		}

		if raw := validators.ParseQueryString(r, "status", 32); raw != "" {
			status, err := enums.ParseShoeRequestStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filters.Status = &status
		}
		if raw := validators.ParseQueryString(r, "eventId", 64); raw != "" {
			eventID, err := validators.ParsePathUUID(raw, "eventId")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			filters.EventID = &eventID
		}

		list, err := svc.List(r.Context(), filters, pagination.Params{Page: page, Limit: limit})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ShoeRequestDetail handles GET /api/v1/shoe-requests/{requestId}.
func ShoeRequestDetail(svc requestsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, err := validators.ParsePathUUID(chi.URLParam(r, "requestId"), "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Get(r.Context(), requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// ShoeRequestUpdateStatus handles PATCH /api/v1/shoe-requests/{requestId}/status.
func ShoeRequestUpdateStatus(svc requestsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := principalID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		requestID, err := validators.ParsePathUUID(chi.URLParam(r, "requestId"), "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateShoeRequestStatusPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var request *models.ShoeRequest
		switch payload.Status {
		case string(enums.ShoeRequestStatusApproved):
			request, err = svc.Approve(r.Context(), requestID, principal)
		case string(enums.ShoeRequestStatusRejected):
			reason := ""
			if payload.Reason != nil {
				reason = *payload.Reason
			}
			request, err = svc.Reject(r.Context(), requestID, principal, reason)
		default:
			err = pkgerrors.New(pkgerrors.CodeValidation, "status must be approved or rejected")
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newShoeRequestResponse(request))
	}
}
