package gallery

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

// CollectionGallery names the live-update collection served by this package.
const CollectionGallery = "gallery"

type imageResolver interface {
	ResolveUpload(ctx context.Context, mediaID uuid.UUID) (string, error)
}

type changeNotifier interface {
	Changed(ctx context.Context, collection string)
}

// Item is the API shape of a gallery entry.
type Item struct {
	ID          uuid.UUID             `json:"id"`
	Title       string                `json:"title"`
	Category    enums.GalleryCategory `json:"category"`
	ImageURL    string                `json:"image_url"`
	Description *string               `json:"description,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
}

// UpsertInput carries the admin create/update payload. Exactly one of
// ImageMediaID and ImageURL must be set on create; on update both may be
// empty to keep the current image.
type UpsertInput struct {
	Title        string
	Category     string
	ImageMediaID *uuid.UUID
	ImageURL     string
	Description  *string
}

// Service manages the finished-work gallery.
type Service interface {
	List(ctx context.Context, filters Filters) ([]Item, error)
	Create(ctx context.Context, input UpsertInput) (*Item, error)
	Update(ctx context.Context, id uuid.UUID, input UpsertInput) (*Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Snapshot(ctx context.Context) (any, error)
}

type service struct {
	repo     Repository
	images   imageResolver
	notifier changeNotifier
}

// NewService builds the gallery service.
func NewService(repo Repository, images imageResolver, notifier changeNotifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("gallery repository required")
	}
	if images == nil {
		return nil, fmt.Errorf("image resolver required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("change notifier required")
	}
	return &service{repo: repo, images: images, notifier: notifier}, nil
}

func (s *service) List(ctx context.Context, filters Filters) ([]Item, error) {
	rows, err := s.repo.ListItems(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list gallery items")
	}
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, itemFromModel(row))
	}
	return items, nil
}

func (s *service) Create(ctx context.Context, input UpsertInput) (*Item, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	category, err := enums.ParseGalleryCategory(strings.TrimSpace(input.Category))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown gallery category")
	}
	imageURL, err := s.resolveImage(ctx, input)
	if err != nil {
		return nil, err
	}
	if imageURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image is required")
	}

	item := &models.GalleryItem{
		Title:       title,
		Category:    category,
		ImageURL:    imageURL,
		Description: trimOptional(input.Description),
	}
	created, err := s.repo.CreateItem(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create gallery item")
	}

	s.notifier.Changed(ctx, CollectionGallery)
	result := itemFromModel(*created)
	return &result, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpsertInput) (*Item, error) {
	item, err := s.repo.FindItem(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "gallery item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load gallery item")
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		item.Title = title
	}
	if raw := strings.TrimSpace(input.Category); raw != "" {
		category, parseErr := enums.ParseGalleryCategory(raw)
		if parseErr != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown gallery category")
		}
		item.Category = category
	}
	imageURL, err := s.resolveImage(ctx, input)
	if err != nil {
		return nil, err
	}
	if imageURL != "" {
		item.ImageURL = imageURL
	}
	if input.Description != nil {
		item.Description = trimOptional(input.Description)
	}

	saved, err := s.repo.SaveItem(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save gallery item")
	}

	s.notifier.Changed(ctx, CollectionGallery)
	result := itemFromModel(*saved)
	return &result, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "gallery item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete gallery item")
	}
	s.notifier.Changed(ctx, CollectionGallery)
	return nil
}

// Snapshot returns every gallery item for live subscribers.
func (s *service) Snapshot(ctx context.Context) (any, error) {
	return s.List(ctx, Filters{})
}

func (s *service) resolveImage(ctx context.Context, input UpsertInput) (string, error) {
	if input.ImageMediaID != nil {
		url, err := s.images.ResolveUpload(ctx, *input.ImageMediaID)
		if err != nil {
			return "", err
		}
		return url, nil
	}
	return strings.TrimSpace(input.ImageURL), nil
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

func itemFromModel(item models.GalleryItem) Item {
	return Item{
		ID:          item.ID,
		Title:       item.Title,
		Category:    item.Category,
		ImageURL:    item.ImageURL,
		Description: item.Description,
		CreatedAt:   item.CreatedAt,
	}
}
