package order

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/georgemunganga/medexpress-backend/internal/modules/user"
	"github.com/georgemunganga/medexpress-backend/internal/platform/apperr"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const orderSelect = `
	SELECT o.id, o.user_id, o.agent_id, o.fulfillment_store_id, o.total_amount, o.delivery_address,
	       o.status, o.payment_method, o.created_at, o.updated_at,
	       u.name, s.name, s.address, a.name
	FROM orders o
	JOIN users u ON u.id = o.user_id
	JOIN stores s ON s.id = o.fulfillment_store_id
	LEFT JOIN users a ON a.id = o.agent_id`

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// CreateOrder inserts the order and all its items inside a single transaction.
func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders
		  (id, user_id, agent_id, fulfillment_store_id, total_amount, delivery_address, status, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		o.ID, o.UserID, o.AgentID, o.FulfillmentStoreID, o.TotalAmount,
		o.DeliveryAddress, o.Status, o.PaymentMethod,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, medicine_id, name, quantity, price, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, o.ID, item.MedicineID, item.Name, item.Quantity, item.Price, i)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	orders, err := r.queryOrders(ctx, orderSelect+` WHERE o.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, apperr.NotFound("order not found")
	}
	return orders[0], nil
}

func (r *postgresRepo) ListOrders(ctx context.Context, f Filter) ([]*Order, error) {
	var conds []string
	var args []interface{}
	if f.UserID != nil {
		args = append(args, *f.UserID)
		conds = append(conds, fmt.Sprintf("o.user_id = $%d", len(args)))
	}
	if f.AgentID != nil {
		args = append(args, *f.AgentID)
		conds = append(conds, fmt.Sprintf("o.agent_id = $%d", len(args)))
	}
	query := orderSelect
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY o.created_at DESC`
	return r.queryOrders(ctx, query, args...)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		to, id, from)
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *postgresRepo) Assign(ctx context.Context, id, agentID uuid.UUID, assignable []Status) (bool, error) {
	statuses := make([]string, len(assignable))
	for i, s := range assignable {
		statuses[i] = string(s)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET agent_id = $1, status = $2, updated_at = NOW()
		WHERE id = $3 AND status = ANY($4)`,
		agentID, StatusAccepted, id, pq.Array(statuses))
	if err != nil {
		return false, fmt.Errorf("assign order: %w", err)
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (r *postgresRepo) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	byID := map[uuid.UUID]*Order{}
	for rows.Next() {
		o := &Order{User: &user.Summary{}, FulfillmentStore: &StoreSummary{}}
		var agentID uuid.NullUUID
		var agentName sql.NullString
		if err := rows.Scan(
			&o.ID, &o.UserID, &agentID, &o.FulfillmentStoreID, &o.TotalAmount, &o.DeliveryAddress,
			&o.Status, &o.PaymentMethod, &o.CreatedAt, &o.UpdatedAt,
			&o.User.Name, &o.FulfillmentStore.Name, &o.FulfillmentStore.Address, &agentName); err != nil {
			return nil, err
		}
		o.User.ID = o.UserID
		o.FulfillmentStore.ID = o.FulfillmentStoreID
		if agentID.Valid {
			id := agentID.UUID
			o.AgentID = &id
			o.Agent = &user.Summary{ID: id, Name: agentName.String}
		}
		o.Items = []*Item{}
		orders = append(orders, o)
		byID[o.ID] = o
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}
	return orders, r.attachItems(ctx, byID)
}

// attachItems loads the items of all given orders in one query.
func (r *postgresRepo) attachItems(ctx context.Context, byID map[uuid.UUID]*Order) error {
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id.String())
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, medicine_id, name, quantity, price
		FROM order_items WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, position ASC`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		item := &Item{}
		var orderID uuid.UUID
		if err := rows.Scan(&item.ID, &orderID, &item.MedicineID, &item.Name, &item.Quantity, &item.Price); err != nil {
			return err
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}
