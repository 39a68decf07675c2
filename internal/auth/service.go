// Package auth issues and verifies the opaque bearer tokens the HTTP layer
// checks before any order or payment operation runs.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mkimathi/gallery-api/internal/user"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Principal struct {
	UserID int64
	Role   Role
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrMissingFields      = errors.New("name, email and password are required")
)

// TokenStore keeps issued tokens with a TTL. Redis in production, in-memory
// in tests.
type TokenStore interface {
	Save(ctx context.Context, token string, p Principal, ttl time.Duration) error
	Lookup(ctx context.Context, token string) (Principal, bool, error)
}

type Service struct {
	users  user.Repository
	tokens TokenStore
	ttl    time.Duration
}

func NewService(users user.Repository, tokens TokenStore, ttl time.Duration) *Service {
	return &Service{users: users, tokens: tokens, ttl: ttl}
}

func (s *Service) Register(ctx context.Context, name, email, password, phone string) (*user.User, string, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, "", ErrMissingFields
	}
	hash, err := user.HashPassword(password)
	if err != nil {
		return nil, "", err
	}
	u := &user.User{Name: name, Email: email, Phone: phone, PasswordHash: hash}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", err
	}
	token, err := s.issue(ctx, Principal{UserID: u.ID, Role: RoleUser})
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !user.CheckPassword(u.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.issue(ctx, Principal{UserID: u.ID, Role: RoleUser})
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *Service) AdminLogin(ctx context.Context, email, password string) (*user.Admin, string, error) {
	a, err := s.users.GetAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !user.CheckPassword(a.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.issue(ctx, Principal{UserID: a.ID, Role: RoleAdmin})
	if err != nil {
		return nil, "", err
	}
	return a, token, nil
}

// Verify resolves an Authorization header ("Bearer <token>" or a bare token)
// to the principal it was issued for.
func (s *Service) Verify(ctx context.Context, header string) (Principal, error) {
	token := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(header), "Bearer "))
	if token == "" {
		return Principal{}, ErrInvalidToken
	}
	p, ok, err := s.tokens.Lookup(ctx, token)
	if err != nil {
		return Principal{}, err
	}
	if !ok {
		return Principal{}, ErrInvalidToken
	}
	return p, nil
}

func (s *Service) issue(ctx context.Context, p Principal) (string, error) {
	token := uuid.NewString()
	if err := s.tokens.Save(ctx, token, p, s.ttl); err != nil {
		return "", err
	}
	return token, nil
}
