package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/medexpress-backend/internal/platform/apperr"
	"github.com/georgemunganga/medexpress-backend/internal/platform/database"
	"github.com/google/uuid"
)

// ---- Store ----

const storeColumns = `id, name, address, longitude, latitude, created_at, updated_at`

type storePostgres struct{ db *sql.DB }

func NewStorePostgresRepository(db *sql.DB) StoreRepository { return &storePostgres{db: db} }

func (r *storePostgres) CreateStore(ctx context.Context, s *Store) error {
	var lon, lat sql.NullFloat64
	if s.Location != nil {
		lon = sql.NullFloat64{Float64: s.Location.Longitude, Valid: true}
		lat = sql.NullFloat64{Float64: s.Location.Latitude, Valid: true}
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO stores (id, name, address, longitude, latitude)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		s.ID, s.Name, s.Address, lon, lat,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert store: %w", err)
	}
	return nil
}

func scanStore(scan func(...interface{}) error) (*Store, error) {
	s := &Store{}
	var lon, lat sql.NullFloat64
	err := scan(&s.ID, &s.Name, &s.Address, &lon, &lat, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("store not found")
	}
	if err != nil {
		return nil, err
	}
	if lon.Valid && lat.Valid {
		s.Location = &Point{Longitude: lon.Float64, Latitude: lat.Float64}
	}
	return s, nil
}

func (r *storePostgres) GetStoreByID(ctx context.Context, id uuid.UUID) (*Store, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = $1`, id)
	return scanStore(row.Scan)
}

func (r *storePostgres) ListStores(ctx context.Context) ([]*Store, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+storeColumns+` FROM stores ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var stores []*Store
	for rows.Next() {
		s, err := scanStore(rows.Scan)
		if err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

// Haversine distance in km; $1 longitude, $2 latitude.
const haversineKM = `2 * 6371 * asin(sqrt(
		power(sin(radians(latitude - $2) / 2), 2) +
		cos(radians($2)) * cos(radians(latitude)) * power(sin(radians(longitude - $1) / 2), 2)))`

func (r *storePostgres) NearestStore(ctx context.Context, p Point) (*Store, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+storeColumns+` FROM stores
		WHERE longitude IS NOT NULL AND latitude IS NOT NULL
		ORDER BY `+haversineKM+`
		LIMIT 1`, p.Longitude, p.Latitude)
	s, err := scanStore(row.Scan)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.NotFound("no store found near the delivery address")
	}
	return s, err
}

// ---- Stock ----

type stockPostgres struct{ db *sql.DB }

func NewStockPostgresRepository(db *sql.DB) StockRepository { return &stockPostgres{db: db} }

func (r *stockPostgres) GetStock(ctx context.Context, medicineID, storeID uuid.UUID) (int, error) {
	var stock int
	err := r.db.QueryRowContext(ctx,
		`SELECT stock FROM medicine_inventory WHERE medicine_id = $1 AND store_id = $2`,
		medicineID, storeID).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get stock: %w", err)
	}
	return stock, nil
}

func (r *stockPostgres) SetStock(ctx context.Context, medicineID, storeID uuid.UUID, stock int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medicine_inventory (medicine_id, store_id, stock)
		VALUES ($1, $2, $3)
		ON CONFLICT (medicine_id, store_id)
		DO UPDATE SET stock = EXCLUDED.stock, updated_at = NOW()`,
		medicineID, storeID, stock)
	if database.IsForeignKeyViolation(err) {
		return apperr.NotFound("medicine or store not found")
	}
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	return nil
}

func (r *stockPostgres) ListForStore(ctx context.Context, storeID uuid.UUID, keyword string) ([]*StockedMedicine, error) {
	query := `
		SELECT m.id, m.name, m.description, m.price, m.image_url, m.created_at, m.updated_at,
		       COALESCE(mi.stock, 0)
		FROM medicines m
		LEFT JOIN medicine_inventory mi ON mi.medicine_id = m.id AND mi.store_id = $1`
	args := []interface{}{storeID}
	if keyword != "" {
		query += ` WHERE m.name ILIKE $2 ESCAPE '\'`
		args = append(args, database.ContainsPattern(keyword))
	}
	query += ` ORDER BY m.name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*StockedMedicine
	for rows.Next() {
		sm := &StockedMedicine{StoreID: storeID}
		if err := rows.Scan(&sm.ID, &sm.Name, &sm.Description, &sm.Price, &sm.ImageURL,
			&sm.CreatedAt, &sm.UpdatedAt, &sm.Stock); err != nil {
			return nil, err
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}
