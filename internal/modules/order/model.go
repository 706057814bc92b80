package order

import (
	"time"

	"github.com/georgemunganga/medexpress-backend/internal/modules/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusAccepted  Status = "Accepted"
	StatusPickedUp  Status = "Picked Up"
	StatusDelivered Status = "Delivered"
	StatusCancelled Status = "Cancelled"
)

// PaymentCOD is the only payment method.
const PaymentCOD = "COD"

// validTransitions defines the order state machine. Pending -> Accepted happens only through Assign.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusAccepted, StatusCancelled},
	StatusAccepted:  {StatusPickedUp, StatusCancelled},
	StatusPickedUp:  {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

// CanTransition returns true if the transition from current to next is valid.
func CanTransition(current, next Status) bool {
	allowed, ok := validTransitions[current]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	allowed, ok := validTransitions[s]
	return ok && len(allowed) == 0
}

// Order is an immutable snapshot of a purchase plus its mutable status and agent.
type Order struct {
	ID                 uuid.UUID       `json:"_id"`
	UserID             uuid.UUID       `json:"userId"`
	AgentID            *uuid.UUID      `json:"agentId"`
	FulfillmentStoreID uuid.UUID       `json:"fulfillmentStoreId"`
	Items              []*Item         `json:"items"`
	TotalAmount        decimal.Decimal `json:"totalAmount"`
	DeliveryAddress    string          `json:"deliveryAddress"`
	Status             Status          `json:"status"`
	PaymentMethod      string          `json:"paymentMethod"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`

	// Joined for listings; nil when not loaded.
	User             *user.Summary `json:"user,omitempty"`
	Agent            *user.Summary `json:"agent,omitempty"`
	FulfillmentStore *StoreSummary `json:"fulfillmentStore,omitempty"`
}

// Item is a frozen copy of a medicine line at placement time.
type Item struct {
	ID         uuid.UUID       `json:"_id"`
	MedicineID uuid.UUID       `json:"medicine"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
}

// StoreSummary is the slice of a store joined into order listings.
type StoreSummary struct {
	ID      uuid.UUID `json:"_id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
}

// Total sums quantity * price over items.
func Total(items []*Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// ItemRequest is one requested line in a placement.
type ItemRequest struct {
	MedicineID uuid.UUID `json:"medicineId"`
	Quantity   int       `json:"quantity"`
}

// PlaceOrderRequest is the payload for creating a new order. When StoreID is empty the
// store nearest to DeliveryAddress fulfils the order. TotalAmount, when sent, must match
// the server-computed total.
type PlaceOrderRequest struct {
	Items           []ItemRequest    `json:"items"`
	DeliveryAddress string           `json:"deliveryAddress"`
	StoreID         *uuid.UUID       `json:"storeId,omitempty"`
	TotalAmount     *decimal.Decimal `json:"totalAmount,omitempty"`
}

// UpdateStatusRequest is the payload for advancing an order's status.
type UpdateStatusRequest struct {
	Status Status `json:"status"`
}

// AssignRequest binds a delivery agent to an order.
type AssignRequest struct {
	AgentID uuid.UUID `json:"agentId"`
}
