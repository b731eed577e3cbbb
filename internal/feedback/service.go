package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sunilfabrications/backend/pkg/db/models"
	"github.com/sunilfabrications/backend/pkg/enums"
	pkgerrors "github.com/sunilfabrications/backend/pkg/errors"
)

// CollectionFeedback names the live-update collection served by this package.
const CollectionFeedback = "feedback"

type photoResolver interface {
	ResolveUpload(ctx context.Context, mediaID uuid.UUID) (string, error)
}

type changeNotifier interface {
	Changed(ctx context.Context, collection string)
}

// SubmitInput is a visitor-submitted testimonial.
type SubmitInput struct {
	ClientName   string
	ClientRole   *string
	Message      string
	Rating       int
	PhotoMediaID *uuid.UUID
}

// Entry is the API shape of a feedback record.
type Entry struct {
	ID         uuid.UUID            `json:"id"`
	ClientName string               `json:"client_name"`
	ClientRole *string              `json:"client_role,omitempty"`
	Message    string               `json:"message"`
	Rating     int                  `json:"rating"`
	PhotoURL   *string              `json:"photo_url,omitempty"`
	Status     enums.FeedbackStatus `json:"status"`
	CreatedAt  time.Time            `json:"created_at"`
}

// Service manages testimonial intake and moderation. Submissions always
// enter the queue as pending; only published entries reach the public site.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*Entry, error)
	ListPublished(ctx context.Context) ([]Entry, error)
	List(ctx context.Context, status string) ([]Entry, error)
	Moderate(ctx context.Context, id uuid.UUID, status string) (*Entry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	PendingCount(ctx context.Context) (int64, error)
	Snapshot(ctx context.Context) (any, error)
}

type service struct {
	repo     Repository
	photos   photoResolver
	notifier changeNotifier
}

// NewService builds the feedback service.
func NewService(repo Repository, photos photoResolver, notifier changeNotifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("feedback repository required")
	}
	if photos == nil {
		return nil, fmt.Errorf("photo resolver required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("change notifier required")
	}
	return &service{repo: repo, photos: photos, notifier: notifier}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*Entry, error) {
	clientName := strings.TrimSpace(input.ClientName)
	if clientName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client name is required")
	}
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	// Resolve the photo before touching the database: a failed upload must
	// abort the whole submission.
	var photoURL *string
	if input.PhotoMediaID != nil {
		url, err := s.photos.ResolveUpload(ctx, *input.PhotoMediaID)
		if err != nil {
			return nil, err
		}
		photoURL = &url
	}

	entry := &models.Feedback{
		ClientName: clientName,
		ClientRole: trimOptional(input.ClientRole),
		Message:    message,
		Rating:     input.Rating,
		PhotoURL:   photoURL,
		Status:     enums.FeedbackStatusPending,
	}
	created, err := s.repo.CreateFeedback(ctx, entry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create feedback")
	}

	s.notifier.Changed(ctx, CollectionFeedback)
	result := entryFromModel(*created)
	return &result, nil
}

func (s *service) ListPublished(ctx context.Context) ([]Entry, error) {
	published := enums.FeedbackStatusPublished
	return s.list(ctx, &published)
}

func (s *service) List(ctx context.Context, status string) ([]Entry, error) {
	var filter *enums.FeedbackStatus
	if trimmed := strings.TrimSpace(status); trimmed != "" {
		parsed, err := enums.ParseFeedbackStatus(trimmed)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown feedback status")
		}
		filter = &parsed
	}
	return s.list(ctx, filter)
}

func (s *service) Moderate(ctx context.Context, id uuid.UUID, status string) (*Entry, error) {
	parsed, err := enums.ParseFeedbackStatus(strings.TrimSpace(status))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown feedback status")
	}

	if err := s.repo.UpdateStatus(ctx, id, parsed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "feedback not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update feedback status")
	}

	s.notifier.Changed(ctx, CollectionFeedback)

	entry, err := s.repo.FindFeedback(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load feedback")
	}
	result := entryFromModel(*entry)
	return &result, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteFeedback(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "feedback not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete feedback")
	}
	s.notifier.Changed(ctx, CollectionFeedback)
	return nil
}

func (s *service) PendingCount(ctx context.Context) (int64, error) {
	count, err := s.repo.CountByStatus(ctx, enums.FeedbackStatusPending)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pending feedback")
	}
	return count, nil
}

// Snapshot returns the full moderation queue for live subscribers.
func (s *service) Snapshot(ctx context.Context) (any, error) {
	return s.list(ctx, nil)
}

func (s *service) list(ctx context.Context, status *enums.FeedbackStatus) ([]Entry, error) {
	rows, err := s.repo.ListFeedback(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list feedback")
	}
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, entryFromModel(row))
	}
	return entries, nil
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func entryFromModel(entry models.Feedback) Entry {
	return Entry{
		ID:         entry.ID,
		ClientName: entry.ClientName,
		ClientRole: entry.ClientRole,
		Message:    entry.Message,
		Rating:     entry.Rating,
		PhotoURL:   entry.PhotoURL,
		Status:     entry.Status,
		CreatedAt:  entry.CreatedAt,
	}
}
