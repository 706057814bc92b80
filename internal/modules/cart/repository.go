package cart

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines cart line storage.
type Repository interface {
	// Quantity returns the current quantity of a line, or 0 when absent.
	Quantity(ctx context.Context, userID, medicineID uuid.UUID) (int, error)
	// Add inserts the line or increases its quantity by delta.
	Add(ctx context.Context, userID, medicineID uuid.UUID, delta int) error
	// SetQuantity fails with NotFound when the line does not exist.
	SetQuantity(ctx context.Context, userID, medicineID uuid.UUID, qty int) error
	Remove(ctx context.Context, userID, medicineID uuid.UUID) error
	Lines(ctx context.Context, userID uuid.UUID) ([]*Line, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}
