package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sunilfabrications/backend/pkg/logger"
)

type fakeMediaCleaner struct {
	batches []int
	err     error
	calls   int
	lastAge time.Duration
}

func (f *fakeMediaCleaner) CleanupPending(_ context.Context, olderThan time.Duration) (int, error) {
	f.lastAge = olderThan
	if f.err != nil {
		return 0, f.err
	}
	if f.calls >= len(f.batches) {
		return 0, nil
	}
	cleaned := f.batches[f.calls]
	f.calls++
	return cleaned, nil
}

func newPendingMediaCleanupJob(t *testing.T, cleaner *fakeMediaCleaner, maxAge time.Duration) Job {
	t.Helper()
	job, err := NewPendingMediaCleanupJob(PendingMediaCleanupJobParams{
		Logger: logger.New(logger.Options{ServiceName: "test"}),
		Media:  cleaner,
		MaxAge: maxAge,
	})
	if err != nil {
		t.Fatalf("NewPendingMediaCleanupJob: %v", err)
	}
	return job
}

func TestPendingMediaCleanupSweepsUntilDrained(t *testing.T) {
	t.Parallel()

	cleaner := &fakeMediaCleaner{batches: []int{100, 100, 3}}
	job := newPendingMediaCleanupJob(t, cleaner, 36*time.Hour)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if cleaner.calls != 3 {
		t.Fatalf("expected three batch calls, got %d", cleaner.calls)
	}
	if cleaner.lastAge != 36*time.Hour {
		t.Fatalf("unexpected max age %s", cleaner.lastAge)
	}
}

func TestPendingMediaCleanupDefaultsMaxAge(t *testing.T) {
	t.Parallel()

	cleaner := &fakeMediaCleaner{}
	job := newPendingMediaCleanupJob(t, cleaner, 0)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if cleaner.lastAge != defaultPendingMediaMaxAge {
		t.Fatalf("expected default max age, got %s", cleaner.lastAge)
	}
}

func TestPendingMediaCleanupPropagatesErrors(t *testing.T) {
	t.Parallel()

	cleaner := &fakeMediaCleaner{err: errors.New("bucket offline")}
	job := newPendingMediaCleanupJob(t, cleaner, time.Hour)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
