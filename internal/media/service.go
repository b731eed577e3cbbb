package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/sunilfabrications/backend/pkg/config"
	"github.com/sunilfabrications/backend/pkg/db/models"
	"github.com/sunilfabrications/backend/pkg/enums"
	pkgerrors "github.com/sunilfabrications/backend/pkg/errors"
)

const cleanupBatchSize = 100

type mediaRepository interface {
	Create(ctx context.Context, media *models.Media) (*models.Media, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error)
	MarkReady(ctx context.Context, id uuid.UUID, url string) error
	ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Media, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type objectStore interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	SignedReadURL(bucket, object string, expires time.Duration) (string, error)
	PublicURL(bucket, object string) string
	DeleteObject(ctx context.Context, bucket, object string) error
}

// Service owns the photo upload flow: presign, then resolve the finished
// upload into a serving URL when the referencing record is created.
type Service interface {
	PresignUpload(ctx context.Context, userID *uuid.UUID, input PresignInput) (*PresignOutput, error)
	ResolveUpload(ctx context.Context, mediaID uuid.UUID) (string, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CleanupPending(ctx context.Context, olderThan time.Duration) (int, error)
}

type service struct {
	repo       mediaRepository
	store      objectStore
	bucket     string
	uploadTTL  time.Duration
	readTTL    time.Duration
	accessMode string
	maxBytes   int64
}

// NewService constructs a media service backed by the repository and object store.
func NewService(repo mediaRepository, store objectStore, gcsCfg config.GCSConfig, mediaCfg config.MediaConfig, accessMode string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("media repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	if gcsCfg.BucketName == "" {
		return nil, fmt.Errorf("gcs bucket required")
	}
	if gcsCfg.UploadURLExpiry <= 0 {
		return nil, fmt.Errorf("upload url expiry must be positive")
	}
	maxBytes := int64(mediaCfg.MaxUploadMB) * 1024 * 1024
	if maxBytes <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	return &service{
		repo:       repo,
		store:      store,
		bucket:     gcsCfg.BucketName,
		uploadTTL:  gcsCfg.UploadURLExpiry,
		readTTL:    gcsCfg.DownloadURLExpiry,
		accessMode: accessMode,
		maxBytes:   maxBytes,
	}, nil
}

// PresignInput models the payload required to request an upload URL.
type PresignInput struct {
	Kind      string
	MimeType  string
	FileName  string
	SizeBytes int64
}

// PresignOutput contains the data returned to the client after creating a media record.
type PresignOutput struct {
	MediaID      uuid.UUID `json:"media_id"`
	GCSKey       string    `json:"gcs_key"`
	SignedPUTURL string    `json:"signed_put_url"`
	ContentType  string    `json:"content_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (s *service) PresignUpload(ctx context.Context, userID *uuid.UUID, input PresignInput) (*PresignOutput, error) {
	kind, err := enums.ParseMediaKind(strings.TrimSpace(input.Kind))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid media kind")
	}

	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}

	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be positive")
	}
	if input.SizeBytes > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size_bytes must be at most %d bytes", s.maxBytes))
	}

	mimeType, err := sniffMimeType(input.MimeType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type is required")
	}
	if !isAllowedMime(kind, mimeType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("mime_type not allowed for %s uploads, expected %s", kind, allowedMimeDescription(kind)))
	}

	mediaID := uuid.New()
	gcsKey := buildGCSKey(kind, mediaID, fileName)

	mediaRow := &models.Media{
		ID:        mediaID,
		UserID:    userID,
		Kind:      kind,
		Status:    enums.MediaStatusPending,
		GCSKey:    gcsKey,
		FileName:  fileName,
		MimeType:  mimeType,
		SizeBytes: input.SizeBytes,
	}

	if _, err := s.repo.Create(ctx, mediaRow); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist media row")
	}

	expiresAt := time.Now().Add(s.uploadTTL)
	signedURL, err := s.store.SignedURL(s.bucket, gcsKey, mimeType, s.uploadTTL)
	if err != nil {
		_ = s.repo.Delete(ctx, mediaID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}

	return &PresignOutput{
		MediaID:      mediaID,
		GCSKey:       gcsKey,
		SignedPUTURL: signedURL,
		ContentType:  mimeType,
		ExpiresAt:    expiresAt,
	}, nil
}

// ResolveUpload turns a presigned upload into its serving URL and marks the
// row ready. Callers run this before writing the record that references the
// photo, so a broken upload fails the whole submission.
func (s *service) ResolveUpload(ctx context.Context, mediaID uuid.UUID) (string, error) {
	row, err := s.repo.FindByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "uploaded photo not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load media row")
	}

	switch row.Status {
	case enums.MediaStatusDeleted, enums.MediaStatusFailed:
		return "", pkgerrors.New(pkgerrors.CodeValidation, "uploaded photo is no longer available")
	case enums.MediaStatusReady:
		if row.URL != nil && *row.URL != "" {
			return *row.URL, nil
		}
	}

	url, err := s.servingURL(row)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build serving url")
	}
	if err := s.repo.MarkReady(ctx, row.ID, url); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark media ready")
	}
	return url, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "media not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load media row")
	}
	if err := s.store.DeleteObject(ctx, s.bucket, row.GCSKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete media object")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete media row")
	}
	return nil
}

// CleanupPending removes presigned rows whose upload never completed, along
// with any object that did land in the bucket.
func (s *service) CleanupPending(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)
	rows, err := s.repo.ListPendingBefore(ctx, cutoff, cleanupBatchSize)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending media")
	}

	cleaned := 0
	var errs []error
	for _, row := range rows {
		if err := s.store.DeleteObject(ctx, s.bucket, row.GCSKey); err != nil {
			errs = append(errs, fmt.Errorf("delete stale object %s: %w", row.GCSKey, err))
			continue
		}
		if err := s.repo.Delete(ctx, row.ID); err != nil {
			errs = append(errs, fmt.Errorf("delete stale media row %s: %w", row.ID, err))
			continue
		}
		cleaned++
	}
	if combined := multierr.Combine(errs...); combined != nil {
		return cleaned, pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "cleanup pending media")
	}
	return cleaned, nil
}

func (s *service) servingURL(row *models.Media) (string, error) {
	if s.accessMode == "signed" {
		return s.store.SignedReadURL(s.bucket, row.GCSKey, s.readTTL)
	}
	return s.store.PublicURL(s.bucket, row.GCSKey), nil
}

func buildGCSKey(kind enums.MediaKind, id uuid.UUID, fileName string) string {
	cleanName := sanitizeFileName(fileName)
	if cleanName == "" {
		cleanName = id.String()
	}
	return fmt.Sprintf("media/%s/%s/%s", kind, id.String(), cleanName)
}

func sanitizeFileName(name string) string {
	if name == "" {
		return ""
	}
	clean := path.Base(strings.TrimSpace(name))
	if clean == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	result := strings.Trim(b.String(), "-_.")
	return result
}
