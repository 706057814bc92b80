package cart

import (
	"github.com/georgemunganga/medexpress-backend/internal/modules/catalog"
	"github.com/google/uuid"
)

// Line is one cart entry with the medicine details joined in.
type Line struct {
	Medicine catalog.Medicine `json:"medicine"`
	Quantity int              `json:"quantity"`
}

// Cart is a customer's pending purchase. Each medicine appears at most once.
type Cart struct {
	UserID uuid.UUID `json:"userId"`
	Items  []*Line   `json:"items"`
}
