package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stridesales/fieldops-backend/api/responses"
	"github.com/stridesales/fieldops-backend/api/validators"
	returnsvc "github.com/stridesales/fieldops-backend/internal/returns"
	"github.com/stridesales/fieldops-backend/pkg/db/models"
	"github.com/stridesales/fieldops-backend/pkg/logger"
	"github.com/stridesales/fieldops-backend/pkg/pagination"
)

type createShoeReturnPayload struct {
	EventShoeVariantID uuid.UUID  `json:"event_shoe_variant_id" validate:"required"`
	ShoeRequestID      *uuid.UUID `json:"shoe_request_id"`
	Quantity           int        `json:"quantity" validate:"required,min=1"`
	Reason             *string    `json:"reason"`
}

type receiveShoeReturnPayload struct {
	ShoeRequestID uuid.UUID `json:"shoe_request_id" validate:"required"`
	Quantity      int       `json:"quantity" validate:"required,min=1"`
	Comment       *string   `json:"comment"`
}

type shoeReturnResponse struct {
	ID                 uuid.UUID  `json:"id"`
	EventShoeVariantID uuid.UUID  `json:"event_shoe_variant_id"`
	ShoeRequestID      *uuid.UUID `json:"shoe_request_id,omitempty"`
	Quantity           int        `json:"quantity"`
	ReturnedBy         uuid.UUID  `json:"returned_by"`
	ReturnedAt         time.Time  `json:"returned_at"`
	Reason             *string    `json:"reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

func newShoeReturnResponse(ret *models.ShoeReturn) shoeReturnResponse {
	return shoeReturnResponse{
		ID:                 ret.ID,
		EventShoeVariantID: ret.EventShoeVariantID,
		ShoeRequestID:      ret.ShoeRequestID,
		Quantity:           ret.Quantity,
		ReturnedBy:         ret.ReturnedBy,
		ReturnedAt:         ret.ReturnedAt,
		Reason:             ret.Reason,
		CreatedAt:          ret.CreatedAt,
	}
}

// ShoeReturnCreate handles POST /api/v1/shoe-returns.
func ShoeReturnCreate(svc returnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := principalID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createShoeReturnPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ret, err := svc.Create(r.Context(), returnsvc.CreateReturnInput{
			EventShoeVariantID: payload.EventShoeVariantID,
			ShoeRequestID:      payload.ShoeRequestID,
			Quantity:           payload.Quantity,
			ReturnedBy:         principal,
			Reason:             payload.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newShoeReturnResponse(ret))
	}
}

// ShoeReturnReceive handles POST /api/v1/shoe-returns/{eventShoeVariantId}/receive.
func ShoeReturnReceive(svc returnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := principalID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entryID, err := validators.ParsePathUUID(chi.URLParam(r, "eventShoeVariantId"), "eventShoeVariantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload receiveShoeReturnPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ret, err := svc.Receive(r.Context(), entryID, returnsvc.ReceiveInput{
			ShoeRequestID: payload.ShoeRequestID,
			Quantity:      payload.Quantity,
			Comment:       payload.Comment,
			ReturnedBy:    principal,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newShoeReturnResponse(ret))
	}
}

// ShoeReturnList handles GET /api/v1/shoe-returns.
func ShoeReturnList(svc returnsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		list, err := svc.List(r.Context(), pagination.Params{Page: page, Limit: limit})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ShoeReturnDetail handles GET /api/v1/shoe-returns/{returnId}.
func ShoeReturnDetail(svc returnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		returnID, err := validators.ParsePathUUID(chi.URLParam(r, "returnId"), "returnId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ret, err := svc.Get(r.Context(), returnID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newShoeReturnResponse(ret))
	}
}

// ShoeReturnsByLedgerEntry handles GET /api/v1/shoe-returns/event-shoe-variant/{eventShoeVariantId}.
func ShoeReturnsByLedgerEntry(svc returnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entryID, err := validators.ParsePathUUID(chi.URLParam(r, "eventShoeVariantId"), "eventShoeVariantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rets, err := svc.ListByLedgerEntry(r.Context(), entryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		total, err := svc.SumReturned(r.Context(), entryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]shoeReturnResponse, len(rets))
		for i := range rets {
			out[i] = newShoeReturnResponse(&rets[i])
		}
		responses.WriteSuccess(w, map[string]any{
			"returns":        out,
			"total_returned": total,
		})
	}
}
