package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	internalfeedback "github.com/sunilfabrications/backend/internal/feedback"
	"github.com/sunilfabrications/backend/pkg/enums"
)

type stubFeedbackService struct {
	submitFn   func(ctx context.Context, input internalfeedback.SubmitInput) (*internalfeedback.Entry, error)
	listPubFn  func(ctx context.Context) ([]internalfeedback.Entry, error)
	listFn     func(ctx context.Context, status string) ([]internalfeedback.Entry, error)
	moderateFn func(ctx context.Context, id uuid.UUID, status string) (*internalfeedback.Entry, error)
	pendingFn  func(ctx context.Context) (int64, error)
}

func (s stubFeedbackService) Submit(ctx context.Context, input internalfeedback.SubmitInput) (*internalfeedback.Entry, error) {
	if s.submitFn != nil {
		return s.submitFn(ctx, input)
	}
	return &internalfeedback.Entry{}, nil
}

func (s stubFeedbackService) ListPublished(ctx context.Context) ([]internalfeedback.Entry, error) {
	if s.listPubFn != nil {
		return s.listPubFn(ctx)
	}
	return []internalfeedback.Entry{}, nil
}

func (s stubFeedbackService) List(ctx context.Context, status string) ([]internalfeedback.Entry, error) {
	if s.listFn != nil {
		return s.listFn(ctx, status)
	}
	return []internalfeedback.Entry{}, nil
}

func (s stubFeedbackService) Moderate(ctx context.Context, id uuid.UUID, status string) (*internalfeedback.Entry, error) {
	if s.moderateFn != nil {
		return s.moderateFn(ctx, id, status)
	}
	return &internalfeedback.Entry{}, nil
}

func (s stubFeedbackService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (s stubFeedbackService) PendingCount(ctx context.Context) (int64, error) {
	if s.pendingFn != nil {
		return s.pendingFn(ctx)
	}
	return 0, nil
}

func (s stubFeedbackService) Snapshot(ctx context.Context) (any, error) {
	return nil, nil
}

func TestFeedbackSubmitQueuesEntry(t *testing.T) {
	var captured internalfeedback.SubmitInput
	svc := stubFeedbackService{
		submitFn: func(ctx context.Context, input internalfeedback.SubmitInput) (*internalfeedback.Entry, error) {
			captured = input
			return &internalfeedback.Entry{Status: enums.FeedbackStatusPending}, nil
		},
	}

	body := `{"client_name":"Meena","client_role":"Homeowner","message":"Great work on the sliding windows","rating":5}`
	handler := FeedbackSubmit(svc, nil)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if captured.ClientName != "Meena" || captured.Rating != 5 {
		t.Fatalf("unexpected input %+v", captured)
	}

	var envelope struct {
		Data internalfeedback.Entry `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Status != enums.FeedbackStatusPending {
		t.Fatalf("expected pending status got %s", envelope.Data.Status)
	}
}

func TestFeedbackSubmitRequiresMessage(t *testing.T) {
	handler := FeedbackSubmit(stubFeedbackService{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"client_name":"Meena"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestFeedbackSubmitRejectsOutOfRangeRating(t *testing.T) {
	handler := FeedbackSubmit(stubFeedbackService{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"client_name":"Meena","message":"Nice work","rating":0}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminFeedbackListForwardsStatusFilter(t *testing.T) {
	var gotStatus string
	svc := stubFeedbackService{
		listFn: func(ctx context.Context, status string) ([]internalfeedback.Entry, error) {
			gotStatus = status
			return []internalfeedback.Entry{{ClientName: "Meena"}}, nil
		},
	}

	handler := AdminFeedbackList(svc, nil)
	req := httptest.NewRequest(http.MethodGet, "/?status=Pending", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotStatus != "Pending" {
		t.Fatalf("unexpected status filter %q", gotStatus)
	}
}

func TestAdminFeedbackModerateForwardsStatus(t *testing.T) {
	feedbackID := uuid.New()
	var gotID uuid.UUID
	var gotStatus string
	svc := stubFeedbackService{
		moderateFn: func(ctx context.Context, id uuid.UUID, status string) (*internalfeedback.Entry, error) {
			gotID = id
			gotStatus = status
			return &internalfeedback.Entry{Status: enums.FeedbackStatusPublished}, nil
		},
	}

	handler := AdminFeedbackModerate(svc, nil)
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"Published"}`))
	req.Header.Set("Content-Type", "application/json")
	req = withURLParam(req, "feedbackId", feedbackID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotID != feedbackID || gotStatus != "Published" {
		t.Fatalf("unexpected moderation call id=%s status=%q", gotID, gotStatus)
	}
}

func TestAdminFeedbackPendingCount(t *testing.T) {
	svc := stubFeedbackService{
		pendingFn: func(ctx context.Context) (int64, error) {
			return 3, nil
		},
	}

	handler := AdminFeedbackPendingCount(svc, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data map[string]int64 `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["pending"] != 3 {
		t.Fatalf("unexpected pending count %d", envelope.Data["pending"])
	}
}
