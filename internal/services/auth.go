package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/halewick/tradeportal-backend/internal/pkg/dbctx"
	"github.com/halewick/tradeportal-backend/internal/pkg/logger"
	"github.com/halewick/tradeportal-backend/internal/repos"
	"github.com/halewick/tradeportal-backend/internal/types"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService is the identity collaborator the cart engine relies on through
// the request-data context; its internals are deliberately thin.
type AuthService interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*types.User, string, error)
	Login(ctx context.Context, email, password string) (*types.User, string, error)
	ParseToken(tokenString string) (uuid.UUID, string, error)
}

type authService struct {
	log      *logger.Logger
	users    repos.UserRepo
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(log *logger.Logger, users repos.UserRepo, secret string, tokenTTL time.Duration) AuthService {
	return &authService{
		log:      log.With("service", "AuthService"),
		users:    users,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

func (as *authService) Register(ctx context.Context, email, password, firstName, lastName string) (*types.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	dbc := dbctx.Context{Ctx: ctx}

	exists, err := as.users.EmailExists(dbc, email)
	if err != nil {
		return nil, "", fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, "", ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := as.users.Create(dbc, &types.User{
		Email:     email,
		Password:  string(hashed),
		FirstName: firstName,
		LastName:  lastName,
	})
	if err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := as.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	as.log.Info("User registered", "user_id", user.ID)
	return user, token, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*types.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := as.users.GetByEmail(dbctx.Context{Ctx: ctx}, email)
	if errors.Is(err, repos.ErrUserNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("fetch user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := as.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (as *authService) issueToken(user *types.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(as.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(as.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (as *authService) ParseToken(tokenString string) (uuid.UUID, string, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return as.secret, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, "", ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	return userID, email, nil
}
