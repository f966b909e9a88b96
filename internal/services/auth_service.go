package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jerehe1/folio/internal/models"
	"github.com/jerehe1/folio/pkg/config"
	"github.com/jerehe1/folio/pkg/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// UserStore persists accounts.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// tokenClaims is the payload of an issued bearer token
type tokenClaims struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthService registers accounts, issues HS256 tokens and verifies them.
type AuthService struct {
	users    UserStore
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAuthService(users UserStore, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		users:    users,
		secret:   []byte(cfg.JWTSecret),
		tokenTTL: cfg.TokenTTL,
		now:      time.Now,
	}
}

// Register creates an account with the user role
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.createUser(ctx, req, models.RoleUser)
}

func (s *AuthService) createUser(ctx context.Context, req models.RegisterRequest, role models.Role) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
	}).Info("User registered")
	return user, nil
}

// Login checks the credentials and returns a signed token for the account
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (string, *models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return "", nil, models.ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return "", nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, models.ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// IssueToken signs a token asserting the user's identity and role
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Authenticate verifies a bearer token and returns the identity it asserts.
// Missing, malformed, expired or wrongly signed tokens yield ErrUnauthorized.
func (s *AuthService) Authenticate(token string) (*models.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, models.ErrUnauthorized
	}

	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, models.ErrUnauthorized
	}
	if claims.Subject == "" {
		return nil, models.ErrUnauthorized
	}

	return &models.Identity{
		UserID:   claims.Subject,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}

// RequireAdmin fails with ErrForbidden unless identity carries the admin role
func (s *AuthService) RequireAdmin(identity *models.Identity) error {
	if identity == nil {
		return models.ErrUnauthorized
	}
	if identity.Role != models.RoleAdmin {
		return models.ErrForbidden
	}
	return nil
}

// CurrentUser loads the account behind an identity
func (s *AuthService) CurrentUser(ctx context.Context, identity *models.Identity) (*models.User, error) {
	user, err := s.users.GetByID(ctx, identity.UserID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrUnauthorized
	}
	return user, err
}

// SeedAdmin creates an admin account, or promotes and re-keys an existing
// account with the same email.
func (s *AuthService) SeedAdmin(ctx context.Context, req models.RegisterRequest) (*models.User, bool, error) {
	if err := req.Validate(); err != nil {
		return nil, false, err
	}

	existing, err := s.users.GetByEmail(ctx, req.Email)
	switch {
	case errors.Is(err, models.ErrNotFound):
		user, err := s.createUser(ctx, req, models.RoleAdmin)
		return user, true, err
	case err != nil:
		return nil, false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}
	existing.PasswordHash = string(hash)
	existing.Role = models.RoleAdmin
	if err := s.users.Update(ctx, existing); err != nil {
		return nil, false, err
	}

	logger.WithField("user_id", existing.ID.String()).Info("User promoted to admin")
	return existing, false, nil
}
