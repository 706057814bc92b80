package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/medexpress-backend/internal/platform/apperr"
	"github.com/georgemunganga/medexpress-backend/internal/platform/database"
	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Quantity(ctx context.Context, userID, medicineID uuid.UUID) (int, error) {
	var qty int
	err := r.db.QueryRowContext(ctx,
		`SELECT quantity FROM cart_items WHERE user_id = $1 AND medicine_id = $2`,
		userID, medicineID).Scan(&qty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get cart quantity: %w", err)
	}
	return qty, nil
}

func (r *postgresRepo) Add(ctx context.Context, userID, medicineID uuid.UUID, delta int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cart_items (user_id, medicine_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, medicine_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()`,
		userID, medicineID, delta)
	if database.IsForeignKeyViolation(err) {
		return apperr.NotFound("medicine not found")
	}
	if err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

func (r *postgresRepo) SetQuantity(ctx context.Context, userID, medicineID uuid.UUID, qty int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cart_items SET quantity = $1, updated_at = NOW()
		WHERE user_id = $2 AND medicine_id = $3`,
		qty, userID, medicineID)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("item not in cart")
	}
	return nil
}

func (r *postgresRepo) Remove(ctx context.Context, userID, medicineID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND medicine_id = $2`, userID, medicineID)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

func (r *postgresRepo) Lines(ctx context.Context, userID uuid.UUID) ([]*Line, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, m.name, m.description, m.price, m.image_url, m.created_at, m.updated_at, c.quantity
		FROM cart_items c
		JOIN medicines m ON m.id = c.medicine_id
		WHERE c.user_id = $1
		ORDER BY c.created_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*Line
	for rows.Next() {
		l := &Line{}
		m := &l.Medicine
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.ImageURL,
			&m.CreatedAt, &m.UpdatedAt, &l.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *postgresRepo) Clear(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
