package catalog

import (
	"context"
	"strings"

	"github.com/georgemunganga/medexpress-backend/internal/platform/apperr"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service defines catalog business logic.
type Service interface {
	CreateMedicine(ctx context.Context, req CreateMedicineRequest) (*Medicine, error)
	GetMedicine(ctx context.Context, id uuid.UUID) (*Medicine, error)
	ListMedicines(ctx context.Context, keyword string) ([]*Medicine, error)
	UpdateMedicine(ctx context.Context, id uuid.UUID, req UpdateMedicineRequest) (*Medicine, error)
	DeleteMedicine(ctx context.Context, id uuid.UUID) error
}

// CreateMedicineRequest holds the data for a new catalog entry.
type CreateMedicineRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    string           `json:"imageUrl"`
}

// UpdateMedicineRequest changes only the fields that are present.
type UpdateMedicineRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"imageUrl"`
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateMedicine(ctx context.Context, req CreateMedicineRequest) (*Medicine, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || strings.TrimSpace(req.Description) == "" || req.Price == nil {
		return nil, apperr.Validation("name, description and price are required")
	}
	if req.Price.IsNegative() {
		return nil, apperr.Validation("price must not be negative")
	}
	imageURL := req.ImageURL
	if imageURL == "" {
		imageURL = DefaultImageURL
	}
	m := &Medicine{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Price:       *req.Price,
		ImageURL:    imageURL,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) GetMedicine(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListMedicines(ctx context.Context, keyword string) ([]*Medicine, error) {
	return s.repo.List(ctx, strings.TrimSpace(keyword))
}

func (s *service) UpdateMedicine(ctx context.Context, id uuid.UUID, req UpdateMedicineRequest) (*Medicine, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.Validation("name must not be empty")
		}
		m.Name = name
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, apperr.Validation("price must not be negative")
		}
		m.Price = *req.Price
	}
	if req.ImageURL != nil && *req.ImageURL != "" {
		m.ImageURL = *req.ImageURL
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) DeleteMedicine(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
