package user

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/georgemunganga/medexpress-backend/internal/platform/apperr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memoryRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*User
}

func newMemoryRepo() *memoryRepo { return &memoryRepo{users: map[uuid.UUID]*User{}} }

func (m *memoryRepo) CreateUser(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return apperr.Conflict("user already exists")
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memoryRepo) GetUserByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (m *memoryRepo) GetUserByID(_ context.Context, id uuid.UUID) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	cp := *u
	return &cp, nil
}

func (m *memoryRepo) ListUsersByRole(_ context.Context, role Role) ([]*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*User
	for _, u := range m.users {
		if u.Role == role {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memoryRepo) UpdateProfile(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return apperr.NotFound("user not found")
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memoryRepo) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.PasswordHash = passwordHash
	return nil
}

func TestRegisterUserDefaultsAndHashing(t *testing.T) {
	svc := NewService(newMemoryRepo())

	u, err := svc.RegisterUser(context.Background(), RegisterRequest{
		Name: " Asha ", Email: "Asha@Example.COM", Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha", u.Name)
	assert.Equal(t, "asha@example.com", u.Email)
	assert.Equal(t, RoleCustomer, u.Role)
	assert.Equal(t, "Bangalore", u.Address.City)
	assert.Equal(t, "Karnataka", u.Address.State)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")))
}

func TestRegisterUserValidation(t *testing.T) {
	svc := NewService(newMemoryRepo())
	cases := map[string]RegisterRequest{
		"missing name":   {Email: "a@b.co", Password: "secret1"},
		"bad email":      {Name: "A", Email: "nope", Password: "secret1"},
		"short password": {Name: "A", Email: "a@b.co", Password: "123"},
		"unknown role":   {Name: "A", Email: "a@b.co", Password: "secret1", Role: "pharmacist"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.RegisterUser(context.Background(), req)
			assert.True(t, errors.Is(err, apperr.ErrValidation), err)
		})
	}
}

func TestRegisterUserDuplicateEmail(t *testing.T) {
	svc := NewService(newMemoryRepo())
	req := RegisterRequest{Name: "A", Email: "a@b.co", Password: "secret1"}
	_, err := svc.RegisterUser(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.RegisterUser(context.Background(), req)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestListAgents(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()
	_, err := svc.RegisterUser(ctx, RegisterRequest{Name: "Ravi", Email: "ravi@x.in", Password: "secret1", Role: RoleAgent})
	require.NoError(t, err)
	_, err = svc.RegisterUser(ctx, RegisterRequest{Name: "Cust", Email: "cust@x.in", Password: "secret1"})
	require.NoError(t, err)

	agents, err := svc.ListAgents(ctx)
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, "Ravi", agents[0].Name)
}

func strPtr(s string) *string { return &s }

func TestUpdateProfileKeepsOmittedFields(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()
	u, err := svc.RegisterUser(ctx, RegisterRequest{
		Name: "Asha", Email: "asha@x.in", Password: "secret1", Phone: "9000000001",
		Address: Address{FlatNo: "12", Road: "MG Road", Pincode: "560001"},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileRequest{
		Name:    strPtr(" Asha K "),
		Address: &AddressUpdate{Locality: strPtr("Indiranagar")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha K", updated.Name)
	assert.Equal(t, "9000000001", updated.Phone)
	assert.Equal(t, "12", updated.Address.FlatNo)
	assert.Equal(t, "MG Road", updated.Address.Road)
	assert.Equal(t, "Indiranagar", updated.Address.Locality)
	assert.Equal(t, "Bangalore", updated.Address.City)

	stored, err := svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha K", stored.Name)
	assert.Equal(t, "asha@x.in", stored.Email)
	assert.Equal(t, "Indiranagar", stored.Address.Locality)
}

func TestUpdateProfileRejectsBlankNameAndUnknownUser(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()
	u, err := svc.RegisterUser(ctx, RegisterRequest{Name: "Asha", Email: "asha@x.in", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, u.ID, UpdateProfileRequest{Name: strPtr("   ")})
	assert.True(t, errors.Is(err, apperr.ErrValidation), err)

	stored, err := svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", stored.Name)

	_, err = svc.UpdateProfile(ctx, uuid.New(), UpdateProfileRequest{Phone: strPtr("1")})
	assert.True(t, errors.Is(err, apperr.ErrNotFound), err)
}

func TestChangePassword(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()
	u, err := svc.RegisterUser(ctx, RegisterRequest{Name: "Asha", Email: "asha@x.in", Password: "secret1"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, u.ID, ChangePasswordRequest{OldPassword: "wrong-one", NewPassword: "secret2"})
	assert.True(t, errors.Is(err, apperr.ErrValidation), err)

	err = svc.ChangePassword(ctx, u.ID, ChangePasswordRequest{OldPassword: "secret1", NewPassword: "123"})
	assert.True(t, errors.Is(err, apperr.ErrValidation), err)

	require.NoError(t, svc.ChangePassword(ctx, u.ID, ChangePasswordRequest{OldPassword: "secret1", NewPassword: "secret2"}))

	stored, err := repo.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret2")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}
