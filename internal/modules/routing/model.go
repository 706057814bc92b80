package routing

import (
	"github.com/georgemunganga/medexpress-backend/internal/modules/inventory"
)

// Strategy names how the fulfillment store was chosen.
type Strategy string

const (
	StrategyExplicit     Strategy = "EXPLICIT"      // The customer picked the store
	StrategyGeoProximity Strategy = "GEO_PROXIMITY" // Nearest located store to the geocoded address
)

// Decision is the outcome of fulfillment-store resolution.
type Decision struct {
	Store    *inventory.Store `json:"store"`
	Strategy Strategy         `json:"strategy"`
	// Origin is the geocoded delivery address; set only for GEO_PROXIMITY.
	Origin *inventory.Point `json:"origin,omitempty"`
}
