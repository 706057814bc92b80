package cart

import (
	"context"
	"math"

	"github.com/georgemunganga/medexpress-backend/internal/modules/catalog"
	"github.com/georgemunganga/medexpress-backend/internal/modules/inventory"
	"github.com/georgemunganga/medexpress-backend/internal/platform/apperr"
	"github.com/google/uuid"
)

// Service defines cart business logic. Stock is validated against the store the
// customer is shopping from and is never reserved.
type Service interface {
	AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*Cart, error)
	// UpdateQuantity removes the line when quantity <= 0.
	UpdateQuantity(ctx context.Context, userID, medicineID uuid.UUID, req UpdateQuantityRequest) (*Cart, error)
	// RemoveItem is a no-op for medicines not in the cart.
	RemoveItem(ctx context.Context, userID, medicineID uuid.UUID) (*Cart, error)
	Get(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// MaxQuantity is the largest quantity a single cart line may hold.
const MaxQuantity = math.MaxInt32

type AddItemRequest struct {
	MedicineID uuid.UUID `json:"medicineId"`
	StoreID    uuid.UUID `json:"storeId"`
	Quantity   int       `json:"quantity"`
}

type UpdateQuantityRequest struct {
	StoreID  uuid.UUID `json:"storeId"`
	Quantity int       `json:"quantity"`
}

// MedicineFinder resolves catalog entries. catalog.Service satisfies it.
type MedicineFinder interface {
	GetMedicine(ctx context.Context, id uuid.UUID) (*catalog.Medicine, error)
}

// StockReader reads store-scoped stock. inventory.Service satisfies it.
type StockReader interface {
	GetStore(ctx context.Context, id uuid.UUID) (*inventory.Store, error)
	GetStock(ctx context.Context, medicineID, storeID uuid.UUID) (int, error)
}

// Recorder counts stock rejections. *metrics.Metrics satisfies it.
type Recorder interface {
	StockRejected(operation string)
}

type service struct {
	repo      Repository
	medicines MedicineFinder
	stock     StockReader
	recorder  Recorder
}

func NewService(repo Repository, medicines MedicineFinder, stock StockReader, recorder Recorder) Service {
	return &service{repo: repo, medicines: medicines, stock: stock, recorder: recorder}
}

func (s *service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*Cart, error) {
	if req.MedicineID == uuid.Nil || req.StoreID == uuid.Nil {
		return nil, apperr.Validation("medicineId and storeId are required")
	}
	if req.Quantity < 1 || req.Quantity > MaxQuantity {
		return nil, apperr.Validation("quantity must be between 1 and %d", MaxQuantity)
	}
	med, err := s.medicines.GetMedicine(ctx, req.MedicineID)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.Quantity(ctx, userID, med.ID)
	if err != nil {
		return nil, err
	}
	if existing > MaxQuantity-req.Quantity {
		return nil, apperr.Validation("quantity for %s would exceed %d", med.Name, MaxQuantity)
	}
	if err := s.checkStock(ctx, "cart_add", med, req.StoreID, existing+req.Quantity); err != nil {
		return nil, err
	}
	if err := s.repo.Add(ctx, userID, med.ID, req.Quantity); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *service) UpdateQuantity(ctx context.Context, userID, medicineID uuid.UUID, req UpdateQuantityRequest) (*Cart, error) {
	current, err := s.repo.Quantity(ctx, userID, medicineID)
	if err != nil {
		return nil, err
	}
	if current == 0 {
		return nil, apperr.NotFound("item not in cart")
	}
	if req.Quantity <= 0 {
		return s.RemoveItem(ctx, userID, medicineID)
	}
	if req.Quantity > MaxQuantity {
		return nil, apperr.Validation("quantity must not exceed %d", MaxQuantity)
	}
	if req.StoreID == uuid.Nil {
		return nil, apperr.Validation("storeId is required")
	}
	med, err := s.medicines.GetMedicine(ctx, medicineID)
	if err != nil {
		return nil, err
	}
	if err := s.checkStock(ctx, "cart_update", med, req.StoreID, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.repo.SetQuantity(ctx, userID, medicineID, req.Quantity); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, userID, medicineID uuid.UUID) (*Cart, error) {
	if err := s.repo.Remove(ctx, userID, medicineID); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	lines, err := s.repo.Lines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []*Line{}
	}
	return &Cart{UserID: userID, Items: lines}, nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.repo.Clear(ctx, userID)
}

func (s *service) checkStock(ctx context.Context, op string, med *catalog.Medicine, storeID uuid.UUID, want int) error {
	store, err := s.stock.GetStore(ctx, storeID)
	if err != nil {
		return err
	}
	available, err := s.stock.GetStock(ctx, med.ID, store.ID)
	if err != nil {
		return err
	}
	if want > available {
		s.recorder.StockRejected(op)
		return apperr.InsufficientStock(med.Name, store.Name, want, available)
	}
	return nil
}
