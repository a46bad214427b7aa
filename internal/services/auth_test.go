package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/halewick/tradeportal-backend/internal/pkg/dbctx"
	"github.com/halewick/tradeportal-backend/internal/pkg/logger"
	"github.com/halewick/tradeportal-backend/internal/repos"
	"github.com/halewick/tradeportal-backend/internal/types"
)

type fakeUserRepo struct {
	byEmail map[string]*types.User
}

func (f *fakeUserRepo) Create(dbc dbctx.Context, user *types.User) (*types.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.byEmail[user.Email] = user
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, repos.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) EmailExists(dbc dbctx.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func newAuthFixture(t *testing.T) AuthService {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewAuthService(log, &fakeUserRepo{byEmail: map[string]*types.User{}}, "test-secret", time.Hour)
}

func TestRegisterLoginTokenRoundTrip(t *testing.T) {
	auth := newAuthFixture(t)
	ctx := context.Background()

	user, token, err := auth.Register(ctx, "Buyer@Example.com", "correct-horse", "Jo", "Bloggs")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "buyer@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}

	userID, email, err := auth.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if userID != user.ID || email != user.Email {
		t.Fatalf("token claims mismatch: %s/%s", userID, email)
	}

	if _, _, err := auth.Register(ctx, "buyer@example.com", "another-pass", "Jo", "Bloggs"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate register err=%v, want ErrEmailTaken", err)
	}

	if _, _, err := auth.Login(ctx, "buyer@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad password err=%v, want ErrInvalidCredentials", err)
	}
	if _, _, err := auth.Login(ctx, "buyer@example.com", "correct-horse"); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	auth := newAuthFixture(t)
	if _, _, err := auth.ParseToken("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err=%v, want ErrInvalidToken", err)
	}
}
