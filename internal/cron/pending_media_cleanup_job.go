package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/sunilfabrications/backend/pkg/logger"
)

const defaultPendingMediaMaxAge = 24 * time.Hour

type mediaCleaner interface {
	CleanupPending(ctx context.Context, olderThan time.Duration) (int, error)
}

// PendingMediaCleanupJobParams configure the stale upload sweeper.
type PendingMediaCleanupJobParams struct {
	Logger *logger.Logger
	Media  mediaCleaner
	MaxAge time.Duration
}

// NewPendingMediaCleanupJob builds the job that removes presigned uploads
// whose client never called resolve.
func NewPendingMediaCleanupJob(params PendingMediaCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Media == nil {
		return nil, fmt.Errorf("media service required")
	}
	maxAge := params.MaxAge
	if maxAge <= 0 {
		maxAge = defaultPendingMediaMaxAge
	}
	return &pendingMediaCleanupJob{
		logg:   params.Logger,
		media:  params.Media,
		maxAge: maxAge,
	}, nil
}

type pendingMediaCleanupJob struct {
	logg   *logger.Logger
	media  mediaCleaner
	maxAge time.Duration
}

func (j *pendingMediaCleanupJob) Name() string { return "pending-media-cleanup" }

func (j *pendingMediaCleanupJob) Run(ctx context.Context) error {
	total := 0
	// The service works in batches. Keep sweeping until a pass comes back
	// short of a full batch worth of deletions.
	for {
		cleaned, err := j.media.CleanupPending(ctx, j.maxAge)
		total += cleaned
		if err != nil {
			return fmt.Errorf("pending media cleanup: %w", err)
		}
		if cleaned == 0 {
			break
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"max_age": j.maxAge.String(),
		"cleaned": total,
	})
	j.logg.Info(logCtx, "pending media cleanup complete")
	return nil
}
