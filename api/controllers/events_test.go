package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	timelinesvc "github.com/stridesales/fieldops-backend/internal/timeline"
	"github.com/stridesales/fieldops-backend/pkg/db/models"
	"github.com/stridesales/fieldops-backend/pkg/enums"
)

type stubTimelineService struct {
	steps []timelinesvc.Step
	err   error
}

func (s *stubTimelineService) ForEvent(ctx context.Context, eventID uuid.UUID) ([]timelinesvc.Step, error) {
	return s.steps, s.err
}

type stubAllocationService struct {
	updated int64
	entries []models.EventShoeVariant
	err     error
	eventID uuid.UUID
}

func (s *stubAllocationService) Allocate(ctx context.Context, tx *gorm.DB, eventID, variantID uuid.UUID, qty int) (*models.EventShoeVariant, error) {
	panic("not implemented")
}

func (s *stubAllocationService) MarkReceived(ctx context.Context, eventID uuid.UUID) (int64, error) {
	s.eventID = eventID
	return s.updated, s.err
}

func (s *stubAllocationService) FindByEventAndVariant(ctx context.Context, eventID, variantID uuid.UUID) (*models.EventShoeVariant, error) {
	panic("not implemented")
}

func (s *stubAllocationService) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.EventShoeVariant, error) {
	return s.entries, s.err
}

func (s *stubAllocationService) Get(ctx context.Context, id uuid.UUID) (*models.EventShoeVariant, error) {
	panic("not implemented")
}

func TestEventRequestTimeline(t *testing.T) {
	steps := []timelinesvc.Step{
		{ID: 1, Title: "Requested", Status: enums.TimelineStepStatusCompleted},
		{ID: 2, Title: "Approved", Status: enums.TimelineStepStatusCompleted},
		{ID: 3, Title: "Received", Status: enums.TimelineStepStatusCurrent},
		{ID: 4, Title: "Returned", Status: enums.TimelineStepStatusPending},
	}
	handler := EventRequestTimeline(&stubTimelineService{steps: steps}, nil)

	eventID := uuid.New()
	req := authedRequest(http.MethodGet, "/api/v1/events/x/request-timeline", "", uuid.New())
	req = withURLParam(req, "eventId", eventID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			Timeline []timelinesvc.Step `json:"timeline"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Timeline) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(envelope.Data.Timeline))
	}
	if envelope.Data.Timeline[2].Status != enums.TimelineStepStatusCurrent {
		t.Fatalf("unexpected received step status: %s", envelope.Data.Timeline[2].Status)
	}
}

func TestEventRequestTimelineRejectsBadEventID(t *testing.T) {
	handler := EventRequestTimeline(&stubTimelineService{}, nil)

	req := authedRequest(http.MethodGet, "/api/v1/events/x/request-timeline", "", uuid.New())
	req = withURLParam(req, "eventId", "nope")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestEventShoeVariantsReceived(t *testing.T) {
	service := &stubAllocationService{updated: 3}
	handler := EventShoeVariantsReceived(service, nil)

	eventID := uuid.New()
	req := authedRequest(http.MethodPost, "/api/v1/events/x/shoe-variants/received", "", uuid.New())
	req = withURLParam(req, "eventId", eventID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if service.eventID != eventID {
		t.Fatalf("event id not taken from path")
	}

	var envelope struct {
		Data struct {
			Updated int64 `json:"updated"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Updated != 3 {
		t.Fatalf("expected 3 updated entries, got %d", envelope.Data.Updated)
	}
}
