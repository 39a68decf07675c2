package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mkimathi/gallery-api/internal/user"
)

type memTokens struct {
	m map[string]Principal
}

func (s *memTokens) Save(ctx context.Context, token string, p Principal, ttl time.Duration) error {
	if s.m == nil {
		s.m = map[string]Principal{}
	}
	s.m[token] = p
	return nil
}

func (s *memTokens) Lookup(ctx context.Context, token string) (Principal, bool, error) {
	p, ok := s.m[token]
	return p, ok, nil
}

type stubUsers struct {
	users  map[string]*user.User
	admins map[string]*user.Admin
	nextID int64
}

func (r *stubUsers) Create(ctx context.Context, u *user.User) error {
	if _, exists := r.users[u.Email]; exists {
		return user.ErrAlreadyExist
	}
	r.nextID++
	u.ID = r.nextID
	if r.users == nil {
		r.users = map[string]*user.User{}
	}
	r.users[u.Email] = u
	return nil
}

func (r *stubUsers) GetByID(ctx context.Context, id int64) (*user.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (r *stubUsers) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (r *stubUsers) GetAdminByEmail(ctx context.Context, email string) (*user.Admin, error) {
	a, ok := r.admins[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	return a, nil
}

func TestRegisterLoginVerify(t *testing.T) {
	t.Parallel()

	svc := NewService(&stubUsers{users: map[string]*user.User{}}, &memTokens{}, time.Hour)
	ctx := context.Background()

	u, token, err := svc.Register(ctx, "Wanjiku", "wanjiku@example.com", "hunter22", "254700000000")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.ID == 0 || token == "" {
		t.Fatalf("register returned id=%d token=%q", u.ID, token)
	}

	p, err := svc.Verify(ctx, "Bearer "+token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if p.UserID != u.ID || p.Role != RoleUser {
		t.Fatalf("unexpected principal %+v", p)
	}

	if _, _, err := svc.Login(ctx, "wanjiku@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, token2, err := svc.Login(ctx, "wanjiku@example.com", "hunter22"); err != nil || token2 == "" {
		t.Fatalf("Login: token=%q err=%v", token2, err)
	}
}

func TestVerifyRejectsUnknownToken(t *testing.T) {
	t.Parallel()

	svc := NewService(&stubUsers{}, &memTokens{}, time.Hour)
	for _, header := range []string{"", "Bearer ", "Bearer nope", "nope"} {
		if _, err := svc.Verify(context.Background(), header); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q) err = %v, want ErrInvalidToken", header, err)
		}
	}
}

func TestAdminLogin(t *testing.T) {
	t.Parallel()

	hash, err := user.HashPassword("sekrit")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	repo := &stubUsers{admins: map[string]*user.Admin{
		"admin@gallery.co.ke": {ID: 1, Name: "Admin", Email: "admin@gallery.co.ke", PasswordHash: hash},
	}}
	svc := NewService(repo, &memTokens{}, time.Hour)

	_, token, err := svc.AdminLogin(context.Background(), "admin@gallery.co.ke", "sekrit")
	if err != nil {
		t.Fatalf("AdminLogin: %v", err)
	}
	p, err := svc.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if p.Role != RoleAdmin {
		t.Fatalf("role = %q, want admin", p.Role)
	}
}
