package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stridesales/fieldops-backend/api/responses"
	"github.com/stridesales/fieldops-backend/api/validators"
	allocationsvc "github.com/stridesales/fieldops-backend/internal/allocations"
	timelinesvc "github.com/stridesales/fieldops-backend/internal/timeline"
	"github.com/stridesales/fieldops-backend/pkg/logger"
)

// EventRequestTimeline handles GET /api/v1/events/{eventId}/request-timeline.
func EventRequestTimeline(svc timelinesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, err := validators.ParsePathUUID(chi.URLParam(r, "eventId"), "eventId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		steps, err := svc.ForEvent(r.Context(), eventID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"timeline": steps})
	}
}

// EventShoeVariantsReceived handles POST /api/v1/events/{eventId}/shoe-variants/received.
// Flipping an already-received ledger entry is a no-op, so replays are safe.
func EventShoeVariantsReceived(svc allocationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, err := validators.ParsePathUUID(chi.URLParam(r, "eventId"), "eventId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.MarkReceived(r.Context(), eventID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"updated": updated})
	}
}

// EventShoeVariants handles GET /api/v1/events/{eventId}/shoe-variants.
func EventShoeVariants(svc allocationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, err := validators.ParsePathUUID(chi.URLParam(r, "eventId"), "eventId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.ListByEvent(r.Context(), eventID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"shoe_variants": entries})
	}
}
