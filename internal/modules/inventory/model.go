package inventory

import (
	"time"

	"github.com/georgemunganga/medexpress-backend/internal/modules/catalog"
	"github.com/google/uuid"
)

// Point is a WGS84 coordinate.
type Point struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Valid reports whether p lies within coordinate bounds.
func (p Point) Valid() bool {
	return p.Longitude >= -180 && p.Longitude <= 180 && p.Latitude >= -90 && p.Latitude <= 90
}

// Store is a pharmacy outlet that fulfils orders. Location is optional; stores without one
// are never chosen by nearest-store resolution.
type Store struct {
	ID        uuid.UUID `json:"_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Location  *Point    `json:"location,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StockedMedicine is a catalog entry together with its stock at one store.
type StockedMedicine struct {
	catalog.Medicine
	StoreID uuid.UUID `json:"storeId"`
	Stock   int       `json:"stock"`
}
