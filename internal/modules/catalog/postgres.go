package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/medexpress-backend/internal/platform/apperr"
	"github.com/georgemunganga/medexpress-backend/internal/platform/database"
	"github.com/google/uuid"
)

const medicineColumns = `id, name, description, price, image_url, created_at, updated_at`

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, m *Medicine) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO medicines (id, name, description, price, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		m.ID, m.Name, m.Description, m.Price, m.ImageURL,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	if database.IsUniqueViolation(err) {
		return apperr.Conflict("medicine %q already exists", m.Name)
	}
	if err != nil {
		return fmt.Errorf("insert medicine: %w", err)
	}
	return nil
}

func scanMedicine(scan func(...interface{}) error) (*Medicine, error) {
	m := &Medicine{}
	err := scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.ImageURL, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("medicine not found")
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+medicineColumns+` FROM medicines WHERE id = $1`, id)
	return scanMedicine(row.Scan)
}

func (r *postgresRepo) List(ctx context.Context, keyword string) ([]*Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines`
	args := []interface{}{}
	if keyword != "" {
		query += ` WHERE name ILIKE $1 ESCAPE '\'`
		args = append(args, database.ContainsPattern(keyword))
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var medicines []*Medicine
	for rows.Next() {
		m, err := scanMedicine(rows.Scan)
		if err != nil {
			return nil, err
		}
		medicines = append(medicines, m)
	}
	return medicines, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, m *Medicine) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE medicines
		SET name = $1, description = $2, price = $3, image_url = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at`,
		m.Name, m.Description, m.Price, m.ImageURL, m.ID,
	).Scan(&m.UpdatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return apperr.NotFound("medicine not found")
	case database.IsUniqueViolation(err):
		return apperr.Conflict("medicine %q already exists", m.Name)
	case err != nil:
		return fmt.Errorf("update medicine: %w", err)
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete medicine: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("medicine not found")
	}
	return nil
}
