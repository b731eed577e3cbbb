package feedback

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sunilfabrications/backend/pkg/db/models"
	"github.com/sunilfabrications/backend/pkg/enums"
)

func setupFeedbackTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS feedbacks (
  id TEXT PRIMARY KEY,
  client_name TEXT NOT NULL,
  client_role TEXT,
  message TEXT NOT NULL,
  rating INTEGER NOT NULL DEFAULT 5,
  photo_url TEXT,
  status TEXT NOT NULL DEFAULT 'Pending',
  created_at DATETIME,
  updated_at DATETIME
);`

	require.NoError(t, db.Exec(`DROP TABLE IF EXISTS feedbacks`).Error)
	require.NoError(t, db.Exec(schema).Error)

	return db
}

func createTestFeedback(t *testing.T, repo Repository, name string, status enums.FeedbackStatus, createdAt time.Time) *models.Feedback {
	t.Helper()

	entry, err := repo.CreateFeedback(context.Background(), &models.Feedback{
		ID:         uuid.New(),
		ClientName: name,
		Message:    "Very clean fitting work",
		Rating:     5,
		Status:     status,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	})
	require.NoError(t, err)
	return entry
}

func TestRepositoryListFeedbackByStatus(t *testing.T) {
	db := setupFeedbackTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	createTestFeedback(t, repo, "Pending One", enums.FeedbackStatusPending, now)
	createTestFeedback(t, repo, "Published One", enums.FeedbackStatusPublished, now.Add(time.Second))
	createTestFeedback(t, repo, "Hidden One", enums.FeedbackStatusHidden, now.Add(2*time.Second))

	all, err := repo.ListFeedback(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Hidden One", all[0].ClientName)

	published := enums.FeedbackStatusPublished
	rows, err := repo.ListFeedback(context.Background(), &published)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Published One", rows[0].ClientName)
}

func TestRepositoryUpdateStatus(t *testing.T) {
	db := setupFeedbackTestDB(t)
	repo := NewRepository(db)

	entry := createTestFeedback(t, repo, "Ravi", enums.FeedbackStatusPending, time.Now().UTC())

	require.NoError(t, repo.UpdateStatus(context.Background(), entry.ID, enums.FeedbackStatusPublished))

	found, err := repo.FindFeedback(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.FeedbackStatusPublished, found.Status)

	err = repo.UpdateStatus(context.Background(), uuid.New(), enums.FeedbackStatusHidden)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryCountByStatus(t *testing.T) {
	db := setupFeedbackTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	createTestFeedback(t, repo, "A", enums.FeedbackStatusPending, now)
	createTestFeedback(t, repo, "B", enums.FeedbackStatusPending, now)
	createTestFeedback(t, repo, "C", enums.FeedbackStatusPublished, now)

	count, err := repo.CountByStatus(context.Background(), enums.FeedbackStatusPending)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestRepositoryDeleteFeedback(t *testing.T) {
	db := setupFeedbackTestDB(t)
	repo := NewRepository(db)

	entry := createTestFeedback(t, repo, "Gone", enums.FeedbackStatusHidden, time.Now().UTC())

	require.NoError(t, repo.DeleteFeedback(context.Background(), entry.ID))

	_, err := repo.FindFeedback(context.Background(), entry.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, repo.DeleteFeedback(context.Background(), uuid.New()), gorm.ErrRecordNotFound)
}
