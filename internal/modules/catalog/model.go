package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultImageURL is used when a medicine is created without an image.
const DefaultImageURL = "/images/default-medicine.png"

// Medicine is an entry in the master catalog. Stock lives in the inventory module.
type Medicine struct {
	ID          uuid.UUID       `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
