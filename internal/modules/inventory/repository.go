package inventory

import (
	"context"

	"github.com/google/uuid"
)

// StoreRepository defines store data storage.
type StoreRepository interface {
	CreateStore(ctx context.Context, s *Store) error
	GetStoreByID(ctx context.Context, id uuid.UUID) (*Store, error)
	ListStores(ctx context.Context) ([]*Store, error)
	// NearestStore returns the located store closest to p by great-circle distance.
	NearestStore(ctx context.Context, p Point) (*Store, error)
}

// StockRepository defines per-store stock storage.
type StockRepository interface {
	// GetStock returns 0 when no record exists for the pair.
	GetStock(ctx context.Context, medicineID, storeID uuid.UUID) (int, error)
	SetStock(ctx context.Context, medicineID, storeID uuid.UUID, stock int) error
	ListForStore(ctx context.Context, storeID uuid.UUID, keyword string) ([]*StockedMedicine, error)
}
