package user

import (
	"time"

	"github.com/google/uuid"
)

// Role is fixed when the user is created.
type Role string

const (
	RoleCustomer Role = "user"
	RoleAgent    Role = "agent"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// Address is the customer's default delivery address.
type Address struct {
	FlatNo   string `json:"flatNo"`
	Road     string `json:"road"`
	Locality string `json:"locality"`
	Pincode  string `json:"pincode"`
	City     string `json:"city"`
	State    string `json:"state"`
}

// User represents an account of any role.
type User struct {
	ID           uuid.UUID `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	Address      Address   `json:"address"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Summary is the slice of a user joined into order listings.
type Summary struct {
	ID   uuid.UUID `json:"_id"`
	Name string    `json:"name"`
}
