package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/georgemunganga/medexpress-backend/internal/modules/user"
	"github.com/georgemunganga/medexpress-backend/internal/platform/apperr"
	"golang.org/x/crypto/bcrypt"
)

type service struct {
	users    user.Service
	userRepo user.Repository
	tokens   *TokenIssuer
}

// NewService creates a new auth service.
func NewService(users user.Service, userRepo user.Repository, tokens *TokenIssuer) Service {
	return &service{users: users, userRepo: userRepo, tokens: tokens}
}

func (s *service) Register(ctx context.Context, req user.RegisterRequest) (*Session, error) {
	if req.Role != "" && req.Role != user.RoleCustomer {
		return nil, apperr.Forbidden("only administrators can create %s accounts", req.Role)
	}
	req.Role = user.RoleCustomer
	u, err := s.users.RegisterUser(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.session(u)
}

func (s *service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Unauthenticated("invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Unauthenticated("invalid email or password")
	}
	return s.session(u)
}

func (s *service) session(u *user.User) (*Session, error) {
	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &Session{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Token: token}, nil
}
