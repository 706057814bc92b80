package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for medicine data storage.
type Repository interface {
	Create(ctx context.Context, m *Medicine) error
	GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error)
	// List returns medicines whose name contains keyword, case-insensitively. An empty keyword matches all.
	List(ctx context.Context, keyword string) ([]*Medicine, error)
	Update(ctx context.Context, m *Medicine) error
	Delete(ctx context.Context, id uuid.UUID) error
}
