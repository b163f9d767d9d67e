package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/rl1809/garage-ledger/internal/core/domain"
	"github.com/rl1809/garage-ledger/internal/pkg/logger"
	"github.com/rl1809/garage-ledger/internal/port"
)

const passwordCost = 10

type tokenClaims struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type AuthService struct {
	users  port.UserRepository
	log    *logger.Logger
	secret []byte
	ttl    time.Duration
	now    Clock
}

func NewAuthService(users port.UserRepository, log *logger.Logger, secret string, ttl time.Duration, now Clock) *AuthService {
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		users:  users,
		log:    log.With("service", "AuthService"),
		secret: []byte(secret),
		ttl:    ttl,
		now:    now,
	}
}

func (s *AuthService) Register(ctx context.Context, username, password, role string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return 0, fmt.Errorf("username and password are required: %w", domain.ErrInvalidArgument)
	}
	switch role {
	case "":
		role = domain.RoleStaff
	case domain.RoleStaff, domain.RoleAdmin:
	default:
		return 0, fmt.Errorf("unknown role %q: %w", role, domain.ErrInvalidArgument)
	}

	existing, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("register %s: %w", username, err)
	}
	if existing != nil {
		return 0, domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	// the unique index still catches a concurrent registration of the same name
	id, err := s.users.CreateUser(ctx, domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return 0, fmt.Errorf("register %s: %w", username, err)
	}

	s.log.Info("user registered", "user_id", id, "username", username)
	return id, nil
}

// Login verifies the password and issues a signed token for the user.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, domain.Identity, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", domain.Identity{}, fmt.Errorf("login %s: %w", username, err)
	}
	if user == nil {
		return "", domain.Identity{}, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.Identity{}, domain.ErrInvalidCredentials
	}

	identity := domain.Identity{UserID: user.ID, Username: user.Username, Role: user.Role}
	token, err := s.issue(identity)
	if err != nil {
		return "", domain.Identity{}, err
	}
	return token, identity, nil
}

func (s *AuthService) issue(identity domain.Identity) (string, error) {
	now := s.now()
	claims := tokenClaims{
		ID:       identity.UserID,
		Username: identity.Username,
		Role:     identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Authorize resolves a bearer token into the identity it was issued for.
func (s *AuthService) Authorize(token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, fmt.Errorf("token expired: %w", domain.ErrInvalidCredential)
		}
		return domain.Identity{}, fmt.Errorf("%v: %w", err, domain.ErrInvalidCredential)
	}

	return domain.Identity{UserID: claims.ID, Username: claims.Username, Role: claims.Role}, nil
}
