package order

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows order listings. Nil fields do not filter.
type Filter struct {
	UserID  *uuid.UUID
	AgentID *uuid.UUID
}

// Repository defines data access for orders.
type Repository interface {
	// CreateOrder persists a new order and its items atomically in a transaction.
	CreateOrder(ctx context.Context, o *Order) error

	// GetOrderByID retrieves an order with its items and joined summaries.
	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// ListOrders returns matching orders newest first, with items and joined summaries.
	ListOrders(ctx context.Context, f Filter) ([]*Order, error)

	// UpdateStatus moves an order from one status to another. It reports false, without
	// error, when the order was no longer in status from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (bool, error)

	// Assign sets the agent and status Accepted in one statement, provided the current
	// status is one of assignable. It reports false when it is not.
	Assign(ctx context.Context, id, agentID uuid.UUID, assignable []Status) (bool, error)
}
