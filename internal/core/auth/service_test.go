package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"pulseboard/internal/config"
	"pulseboard/internal/domain"
)

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *domain.User) error {
	user.ID = uuid.New()
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewService(newFakeUserRepo(), testConfig())
	ctx := context.Background()

	req := domain.RegisterRequest{Email: "op@example.com", Password: "hunter22222"}
	if err := svc.Register(ctx, req); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.Register(ctx, req); !errors.Is(err, domain.ErrEmailAlreadyExists) {
		t.Fatalf("duplicate register err = %v", err)
	}

	res, err := svc.Login(ctx, domain.LoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.AccessToken == "" {
		t.Fatalf("expected a signed token")
	}
	if res.User.Email != req.Email {
		t.Fatalf("user = %+v", res.User)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testConfig())
	ctx := context.Background()

	if err := svc.Register(ctx, domain.RegisterRequest{Email: "op@example.com", Password: "hunter22222"}); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		req  domain.LoginRequest
	}{
		{"wrong password", domain.LoginRequest{Email: "op@example.com", Password: "nope"}},
		{"unknown user", domain.LoginRequest{Email: "ghost@example.com", Password: "hunter22222"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Login(ctx, tc.req); !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Fatalf("err = %v, want invalid credentials", err)
			}
		})
	}
}
