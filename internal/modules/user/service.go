package user

import (
	"context"
	"regexp"
	"strings"

	"github.com/georgemunganga/medexpress-backend/internal/platform/apperr"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`.+@.+\..+`)

// Service defines the interface for user-related business logic.
type Service interface {
	RegisterUser(ctx context.Context, req RegisterRequest) (*User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	// ListAgents returns every user with the agent role, for the assignment screen.
	ListAgents(ctx context.Context) ([]*User, error)

	GetProfile(ctx context.Context, id uuid.UUID) (*User, error)
	// UpdateProfile changes only the fields present in req. Email and role are fixed.
	UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*User, error)
	ChangePassword(ctx context.Context, id uuid.UUID, req ChangePasswordRequest) error
}

// RegisterRequest holds the data needed to create an account.
type RegisterRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     Role    `json:"role,omitempty"`
	Phone    string  `json:"phone,omitempty"`
	Address  Address `json:"address"`
}

// UpdateProfileRequest carries profile edits. Nil fields keep their current value.
type UpdateProfileRequest struct {
	Name    *string        `json:"name"`
	Phone   *string        `json:"phone"`
	Avatar  *string        `json:"avatar"`
	Address *AddressUpdate `json:"address"`
}

// AddressUpdate is a partial Address.
type AddressUpdate struct {
	FlatNo   *string `json:"flatNo"`
	Road     *string `json:"road"`
	Locality *string `json:"locality"`
	Pincode  *string `json:"pincode"`
	City     *string `json:"city"`
	State    *string `json:"state"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) RegisterUser(ctx context.Context, req RegisterRequest) (*User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if !emailPattern.MatchString(email) {
		return nil, apperr.Validation("a valid email is required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperr.Validation("password must be at least %d characters", minPasswordLength)
	}
	role := req.Role
	if role == "" {
		role = RoleCustomer
	}
	if !role.Valid() {
		return nil, apperr.Validation("invalid role %q", role)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	addr := req.Address
	if addr.City == "" {
		addr.City = "Bangalore"
	}
	if addr.State == "" {
		addr.State = "Karnataka"
	}

	u := &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		Phone:        req.Phone,
		Address:      addr,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *service) ListAgents(ctx context.Context) ([]*User, error) {
	return s.repo.ListUsersByRole(ctx, RoleAgent)
}

func (s *service) GetProfile(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*User, error) {
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.Validation("name must not be empty")
		}
		u.Name = name
	}
	setString(&u.Phone, req.Phone)
	setString(&u.Avatar, req.Avatar)
	if a := req.Address; a != nil {
		setString(&u.Address.FlatNo, a.FlatNo)
		setString(&u.Address.Road, a.Road)
		setString(&u.Address.Locality, a.Locality)
		setString(&u.Address.Pincode, a.Pincode)
		setString(&u.Address.City, a.City)
		setString(&u.Address.State, a.State)
	}
	if err := s.repo.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) ChangePassword(ctx context.Context, id uuid.UUID, req ChangePasswordRequest) error {
	if len(req.NewPassword) < minPasswordLength {
		return apperr.Validation("new password must be at least %d characters", minPasswordLength)
	}
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.OldPassword)); err != nil {
		return apperr.Validation("old password is incorrect")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, id, string(hashed))
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
