package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bigsteppa/backend/internal/config"
	"github.com/bigsteppa/backend/internal/models"
	"github.com/bigsteppa/backend/internal/repository"
	"github.com/bigsteppa/backend/pkg/crypto"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrDuplicateIdentity  = errors.New("email or username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingEmail       = errors.New("please provide an email to log in")
	ErrNoCredential       = errors.New("no password found for this user")

	// Token verification failures. Clients only ever see a generic
	// unauthorized outcome; the distinction exists for logging.
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrInvalidToken          = errors.New("invalid token")
)

// AuthService handles registration, login and token issuance/verification
type AuthService struct {
	userRepo  *repository.UserRepository
	blacklist *TokenBlacklist
	jwtConfig config.JWTConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo *repository.UserRepository, blacklist *TokenBlacklist, jwtConfig config.JWTConfig) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		blacklist: blacklist,
		jwtConfig: jwtConfig,
	}
}

// RegisterRequest represents the registration request
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=8,max=100"`
}

// LoginRequest represents the login request. Email presence is checked in
// the service so an empty email gets its own failure.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries a bearer token and the sanitized user record
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// JWTClaims represents the identity claims embedded in a token
type JWTClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Register creates a user with its first credential and logs it in.
// Email is canonicalized (trim + lowercase) at this single write path so
// the login lookup always matches what is stored.
func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	// Fast-path duplicate check; the unique indexes on email and username
	// are the enforcement that holds under concurrent registrations.
	_, err := s.userRepo.GetByEmailOrUsername(email, username)
	if err == nil {
		return nil, ErrDuplicateIdentity
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	passwordHash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    email,
		Username: username,
	}
	if err := s.userRepo.CreateWithCredential(user, passwordHash); err != nil {
		return nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: user}, nil
}

// Login authenticates a user and returns a token with the sanitized user.
// Absent account and wrong password produce the same failure so the
// endpoint cannot be used to enumerate accounts.
func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	if strings.TrimSpace(req.Email) == "" {
		return nil, ErrMissingEmail
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if len(user.Credentials) == 0 {
		return nil, ErrNoCredential
	}

	if !crypto.CheckPassword(req.Password, user.Credentials[0].PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: user}, nil
}

// ValidateToken verifies signature and expiry and returns the claims.
// Failures are classified for logging but all map to unauthorized at the
// HTTP boundary.
func (s *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenSignatureInvalid
		}
		return []byte(s.jwtConfig.Secret), nil
	})

	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, ErrTokenSignatureInvalid
	default:
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// IsTokenRevoked reports whether the token was invalidated by a logout
func (s *AuthService) IsTokenRevoked(ctx context.Context, jti string) bool {
	return s.blacklist.IsRevoked(ctx, jti)
}

// RevokeToken blacklists a token ID until its natural expiry
func (s *AuthService) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	return s.blacklist.Revoke(ctx, jti, expiresAt)
}

// GetUserByID retrieves a user by ID
func (s *AuthService) GetUserByID(id string) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// generateToken issues a signed, time-limited token for a user
func (s *AuthService) generateToken(user *models.User) (string, error) {
	expiresIn := time.Duration(s.jwtConfig.ExpireSeconds) * time.Second

	claims := &JWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "bigsteppa",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtConfig.Secret))
}
