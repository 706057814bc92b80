package inventory

import (
	"context"
	"strings"

	"github.com/georgemunganga/medexpress-backend/internal/modules/catalog"
	"github.com/georgemunganga/medexpress-backend/internal/platform/apperr"
	"github.com/google/uuid"
)

// Service defines inventory business logic for stores and per-store stock.
type Service interface {
	// Store operations
	CreateStore(ctx context.Context, req CreateStoreRequest) (*Store, error)
	GetStore(ctx context.Context, id uuid.UUID) (*Store, error)
	ListStores(ctx context.Context) ([]*Store, error)
	NearestStore(ctx context.Context, p Point) (*Store, error)

	// Stock operations
	GetStock(ctx context.Context, medicineID, storeID uuid.UUID) (int, error)
	SetStock(ctx context.Context, req SetStockRequest) (*StockedMedicine, error)
	ListForStore(ctx context.Context, storeID uuid.UUID, keyword string) ([]*StockedMedicine, error)
}

// MedicineFinder resolves catalog entries. catalog.Service satisfies it.
type MedicineFinder interface {
	GetMedicine(ctx context.Context, id uuid.UUID) (*catalog.Medicine, error)
}

// CreateStoreRequest holds data for creating a store.
type CreateStoreRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Location *Point `json:"location"`
}

// SetStockRequest replaces the stock of one medicine at one store.
type SetStockRequest struct {
	MedicineID *uuid.UUID `json:"medicineId"`
	StoreID    *uuid.UUID `json:"storeId"`
	Stock      *int       `json:"stock"`
}

type service struct {
	storeRepo StoreRepository
	stockRepo StockRepository
	medicines MedicineFinder
}

// NewService creates a new inventory service.
func NewService(storeRepo StoreRepository, stockRepo StockRepository, medicines MedicineFinder) Service {
	return &service{
		storeRepo: storeRepo,
		stockRepo: stockRepo,
		medicines: medicines,
	}
}

func (s *service) CreateStore(ctx context.Context, req CreateStoreRequest) (*Store, error) {
	name := strings.TrimSpace(req.Name)
	address := strings.TrimSpace(req.Address)
	if name == "" || address == "" {
		return nil, apperr.Validation("name and address are required")
	}
	if req.Location != nil && !req.Location.Valid() {
		return nil, apperr.Validation("location is out of range")
	}
	store := &Store{
		ID:       uuid.New(),
		Name:     name,
		Address:  address,
		Location: req.Location,
	}
	if err := s.storeRepo.CreateStore(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *service) GetStore(ctx context.Context, id uuid.UUID) (*Store, error) {
	return s.storeRepo.GetStoreByID(ctx, id)
}

func (s *service) ListStores(ctx context.Context) ([]*Store, error) {
	return s.storeRepo.ListStores(ctx)
}

func (s *service) NearestStore(ctx context.Context, p Point) (*Store, error) {
	if !p.Valid() {
		return nil, apperr.Validation("location is out of range")
	}
	return s.storeRepo.NearestStore(ctx, p)
}

func (s *service) GetStock(ctx context.Context, medicineID, storeID uuid.UUID) (int, error) {
	return s.stockRepo.GetStock(ctx, medicineID, storeID)
}

func (s *service) SetStock(ctx context.Context, req SetStockRequest) (*StockedMedicine, error) {
	if req.MedicineID == nil || req.StoreID == nil || req.Stock == nil {
		return nil, apperr.Validation("medicineId, storeId and stock are required")
	}
	if *req.Stock < 0 {
		return nil, apperr.Validation("stock must not be negative")
	}
	med, err := s.medicines.GetMedicine(ctx, *req.MedicineID)
	if err != nil {
		return nil, err
	}
	if _, err := s.storeRepo.GetStoreByID(ctx, *req.StoreID); err != nil {
		return nil, err
	}
	if err := s.stockRepo.SetStock(ctx, med.ID, *req.StoreID, *req.Stock); err != nil {
		return nil, err
	}
	return &StockedMedicine{Medicine: *med, StoreID: *req.StoreID, Stock: *req.Stock}, nil
}

func (s *service) ListForStore(ctx context.Context, storeID uuid.UUID, keyword string) ([]*StockedMedicine, error) {
	return s.stockRepo.ListForStore(ctx, storeID, strings.TrimSpace(keyword))
}
