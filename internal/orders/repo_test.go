package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sunilfabrications/backend/pkg/db/models"
	"github.com/sunilfabrications/backend/pkg/enums"
	"github.com/sunilfabrications/backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ordersTable := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  client_name TEXT NOT NULL,
  client_phone TEXT NOT NULL,
  location TEXT,
  geo_point TEXT,
  map_url TEXT,
  photo_urls TEXT,
  field_quote INTEGER NOT NULL DEFAULT 0,
  calculated_total NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'Pending',
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	measurements := `
CREATE TABLE IF NOT EXISTS order_measurements (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 0,
  label TEXT NOT NULL,
  width TEXT NOT NULL,
  height TEXT NOT NULL,
  qty INTEGER NOT NULL DEFAULT 0,
  unit TEXT NOT NULL DEFAULT 'Inches',
  category TEXT NOT NULL DEFAULT 'Window',
  style TEXT,
  rate NUMERIC NOT NULL,
  line_total NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	ventilators := `
CREATE TABLE IF NOT EXISTS ventilator_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 0,
  label TEXT NOT NULL,
  qty INTEGER NOT NULL DEFAULT 0,
  unit_price NUMERIC NOT NULL,
  line_total NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`

	require.NoError(t, db.Exec(`DROP TABLE IF EXISTS ventilator_items`).Error)
	require.NoError(t, db.Exec(`DROP TABLE IF EXISTS order_measurements`).Error)
	require.NoError(t, db.Exec(`DROP TABLE IF EXISTS orders`).Error)
	require.NoError(t, db.Exec(ordersTable).Error)
	require.NoError(t, db.Exec(measurements).Error)
	require.NoError(t, db.Exec(ventilators).Error)

	return db
}

func createTestOrder(t *testing.T, repo Repository, name, phone string, status enums.ProjectStatus, createdAt time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:              uuid.New(),
		ClientName:      name,
		ClientPhone:     phone,
		PhotoURLs:       []string{"https://storage.example.com/media/order_photo/abc/site.jpg"},
		FieldQuote:      0,
		CalculatedTotal: decimal.NewFromInt(2246400),
		Status:          status,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
		Measurements: []models.OrderMeasurement{
			{
				ID:        uuid.New(),
				Label:     "Hall Window",
				Width:     "36",
				Height:    "48",
				Qty:       2,
				Unit:      enums.MeasurementUnitInches,
				Category:  enums.ItemCategoryWindow,
				Rate:      decimal.NewFromInt(650),
				LineTotal: decimal.NewFromInt(2246400),
			},
		},
		Ventilators: []models.VentilatorItem{
			{
				ID:        uuid.New(),
				Label:     "Bathroom Vent",
				Qty:       3,
				UnitPrice: decimal.NewFromInt(200),
				LineTotal: decimal.NewFromInt(600),
			},
		},
	}

	created, err := repo.CreateOrder(context.Background(), order)
	require.NoError(t, err)
	return created
}

func TestRepositoryCreateAndFindOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	created := createTestOrder(t, repo, "Ravi Kumar", "9812345678", enums.ProjectStatusPending, time.Now().UTC())

	found, err := repo.FindOrder(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", found.ClientName)
	assert.Equal(t, []string{"https://storage.example.com/media/order_photo/abc/site.jpg"}, found.PhotoURLs)
	require.Len(t, found.Measurements, 1)
	assert.Equal(t, "Hall Window", found.Measurements[0].Label)
	assert.True(t, found.Measurements[0].LineTotal.Equal(decimal.NewFromInt(2246400)))
	require.Len(t, found.Ventilators, 1)
	assert.Equal(t, 3, found.Ventilators[0].Qty)
}

func TestRepositoryKeepsZeroQuantities(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := &models.Order{
		ID:              uuid.New(),
		ClientName:      "Ravi",
		ClientPhone:     "981",
		CalculatedTotal: decimal.Zero,
		Status:          enums.ProjectStatusPending,
		Measurements: []models.OrderMeasurement{
			{
				ID:        uuid.New(),
				Label:     "Incomplete Row",
				Width:     "36",
				Height:    "",
				Qty:       0,
				Unit:      enums.MeasurementUnitInches,
				Category:  enums.ItemCategoryWindow,
				Rate:      decimal.NewFromInt(650),
				LineTotal: decimal.Zero,
			},
		},
		Ventilators: []models.VentilatorItem{
			{
				ID:        uuid.New(),
				Label:     "Unpriced Vent",
				Qty:       0,
				UnitPrice: decimal.NewFromInt(200),
				LineTotal: decimal.Zero,
			},
		},
	}
	_, err := repo.CreateOrder(context.Background(), order)
	require.NoError(t, err)

	found, err := repo.FindOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, found.Measurements, 1)
	assert.Equal(t, 0, found.Measurements[0].Qty)
	require.Len(t, found.Ventilators, 1)
	assert.Equal(t, 0, found.Ventilators[0].Qty)
}

func TestRepositoryPreloadsLineItemsByPosition(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	// Both rows land in one batch insert with the same created_at; position
	// alone must reproduce the sheet order.
	order := &models.Order{
		ID:              uuid.New(),
		ClientName:      "Ravi",
		ClientPhone:     "981",
		CalculatedTotal: decimal.Zero,
		Status:          enums.ProjectStatusPending,
		Measurements: []models.OrderMeasurement{
			{
				ID: uuid.New(), Position: 1, Label: "Second", Width: "24", Height: "36", Qty: 1,
				Unit: enums.MeasurementUnitInches, Category: enums.ItemCategoryWindow,
				Rate: decimal.NewFromInt(650), LineTotal: decimal.Zero,
			},
			{
				ID: uuid.New(), Position: 0, Label: "First", Width: "36", Height: "48", Qty: 1,
				Unit: enums.MeasurementUnitInches, Category: enums.ItemCategoryWindow,
				Rate: decimal.NewFromInt(650), LineTotal: decimal.Zero,
			},
		},
	}
	_, err := repo.CreateOrder(context.Background(), order)
	require.NoError(t, err)

	found, err := repo.FindOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, found.Measurements, 2)
	assert.Equal(t, "First", found.Measurements[0].Label)
	assert.Equal(t, "Second", found.Measurements[1].Label)
}

func TestRepositoryListOrdersNewestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	base := time.Now().UTC().Add(-time.Hour)
	older := createTestOrder(t, repo, "Older", "111", enums.ProjectStatusPending, base)
	newer := createTestOrder(t, repo, "Newer", "222", enums.ProjectStatusPending, base.Add(time.Minute))

	rows, next, err := repo.ListOrders(context.Background(), pagination.Params{Limit: 10}, Filters{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newer.ID, rows[0].ID)
	assert.Equal(t, older.ID, rows[1].ID)
	assert.Nil(t, next)
}

func TestRepositoryListOrdersCursorPagination(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		createTestOrder(t, repo, "Client", "000", enums.ProjectStatusPending, base.Add(time.Duration(i)*time.Minute))
	}

	first, next, err := repo.ListOrders(context.Background(), pagination.Params{Limit: 2}, Filters{})
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.NotNil(t, next)

	second, last, err := repo.ListOrders(context.Background(), pagination.Params{
		Limit:  2,
		Cursor: pagination.EncodeCursor(*next),
	}, Filters{})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Nil(t, last)
	assert.True(t, second[0].CreatedAt.Before(first[1].CreatedAt))
}

func TestRepositoryListOrdersFilters(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	createTestOrder(t, repo, "Ravi Kumar", "9812345678", enums.ProjectStatusPending, now)
	createTestOrder(t, repo, "Sita Devi", "9000000000", enums.ProjectStatusCompleted, now.Add(time.Second))

	completed := enums.ProjectStatusCompleted
	rows, _, err := repo.ListOrders(context.Background(), pagination.Params{Limit: 10}, Filters{Status: &completed})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Sita Devi", rows[0].ClientName)

	rows, _, err = repo.ListOrders(context.Background(), pagination.Params{Limit: 10}, Filters{Query: "ravi"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ravi Kumar", rows[0].ClientName)

	rows, _, err = repo.ListOrders(context.Background(), pagination.Params{Limit: 10}, Filters{Query: "981"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestRepositoryUpdateOrderStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := createTestOrder(t, repo, "Ravi", "981", enums.ProjectStatusPending, time.Now().UTC())

	require.NoError(t, repo.UpdateOrderStatus(context.Background(), order.ID, enums.ProjectStatusCutting))

	found, err := repo.FindOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ProjectStatusCutting, found.Status)

	err = repo.UpdateOrderStatus(context.Background(), uuid.New(), enums.ProjectStatusCompleted)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryDeleteOrderRemovesChildren(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := createTestOrder(t, repo, "Ravi", "981", enums.ProjectStatusPending, time.Now().UTC())

	require.NoError(t, repo.DeleteOrder(context.Background(), order.ID))

	_, err := repo.FindOrder(context.Background(), order.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var measurementCount int64
	require.NoError(t, db.Model(&models.OrderMeasurement{}).Where("order_id = ?", order.ID).Count(&measurementCount).Error)
	assert.Zero(t, measurementCount)

	var ventilatorCount int64
	require.NoError(t, db.Model(&models.VentilatorItem{}).Where("order_id = ?", order.ID).Count(&ventilatorCount).Error)
	assert.Zero(t, ventilatorCount)

	assert.ErrorIs(t, repo.DeleteOrder(context.Background(), order.ID), gorm.ErrRecordNotFound)
}
