package inventory

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/georgemunganga/medexpress-backend/internal/platform/apperr"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresGetStockMissingRecordIsZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewStockPostgresRepository(db)

	medID, storeID := uuid.New(), uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT stock FROM medicine_inventory")).
		WithArgs(medID, storeID).
		WillReturnRows(sqlmock.NewRows([]string{"stock"}))

	stock, err := repo.GetStock(context.Background(), medID, storeID)
	require.NoError(t, err)
	assert.Equal(t, 0, stock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSetStockUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewStockPostgresRepository(db)

	medID, storeID := uuid.New(), uuid.New()
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (medicine_id, store_id)")).
		WithArgs(medID, storeID, 12).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetStock(context.Background(), medID, storeID, 12))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO medicine_inventory")).
		WillReturnError(&pq.Error{Code: "23503"})
	err = repo.SetStock(context.Background(), medID, storeID, 1)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresNearestStore(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewStorePostgresRepository(db)

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery(`WHERE longitude IS NOT NULL AND latitude IS NOT NULL\s+ORDER BY 2 \* 6371`).
		WithArgs(77.59, 12.97).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "address", "longitude", "latitude", "created_at", "updated_at"}).
			AddRow(id.String(), "Indiranagar", "100ft Rd", 77.64, 12.97, now, now))

	s, err := repo.NearestStore(context.Background(), Point{Longitude: 77.59, Latitude: 12.97})
	require.NoError(t, err)
	assert.Equal(t, id, s.ID)
	require.NotNil(t, s.Location)
	assert.Equal(t, 77.64, s.Location.Longitude)

	mock.ExpectQuery("FROM stores").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "address", "longitude", "latitude", "created_at", "updated_at"}))
	_, err = repo.NearestStore(context.Background(), Point{})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestPostgresListForStoreDefaultsStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewStockPostgresRepository(db)

	storeID := uuid.New()
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(mi.stock, 0)")).
		WithArgs(storeID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "price", "image_url", "created_at", "updated_at", "stock"}).
			AddRow(uuid.New().String(), "Cetirizine", "d", "40.00", "/img", now, now, 0).
			AddRow(uuid.New().String(), "Paracetamol", "d", "25.50", "/img", now, now, 5))

	list, err := repo.ListForStore(context.Background(), storeID, "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 0, list[0].Stock)
	assert.Equal(t, 5, list[1].Stock)
	assert.Equal(t, storeID, list[1].StoreID)
}

func TestPostgresListForStoreKeywordIsLiteral(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewStockPostgresRepository(db)

	storeID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE m.name ILIKE $2 ESCAPE '\'`)).
		WithArgs(storeID, `%vit\_c 100\%%`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "price", "image_url", "created_at", "updated_at", "stock"}))

	list, err := repo.ListForStore(context.Background(), storeID, "vit_c 100%")
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}
