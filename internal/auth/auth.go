// Package auth implements account registration, JWT issuance and
// verification, and token revocation.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/service"
	"github.com/meltforce/liftlog/internal/storage"
)

// UserStore is the slice of the persistence layer auth needs.
type UserStore interface {
	InsertUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

var _ UserStore = (*storage.DB)(nil)

// Claims are the JWT claims carried by every access token. The registered ID
// (jti) keys the revocation list.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Service issues and verifies tokens and manages accounts. The redis client
// is optional; without it logout revocation is disabled.
type Service struct {
	store  UserStore
	secret []byte
	ttl    time.Duration
	redis  *redis.Client
	log    *slog.Logger

	now func() time.Time
}

func NewService(store UserStore, secret string, ttl time.Duration, rdb *redis.Client, log *slog.Logger) *Service {
	return &Service{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		redis:  rdb,
		log:    log,
		now:    time.Now,
	}
}

// RegisterInput carries the fields accepted on registration.
type RegisterInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the issued credential envelope.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Register creates an account with profile defaults and returns it with a
// fresh token. A duplicate email reports a conflict.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, *TokenResponse, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || in.Username == "" {
		return nil, nil, service.Invalid("email and username are required")
	}
	if len(in.Password) < 8 {
		return nil, nil, service.Invalid("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		ID:               uuid.New(),
		Email:            in.Email,
		Username:         in.Username,
		PasswordHash:     string(hash),
		Equipment:        []string{},
		Goals:            []string{},
		SessionMinutes:   45,
		DaysPerWeek:      3,
		CoachPersonality: "supportive",
	}
	if err := s.store.InsertUser(ctx, user); err != nil {
		if storage.IsUniqueViolation(err, "users_email_key") {
			return nil, nil, service.Conflict("an account with this email already exists")
		}
		return nil, nil, fmt.Errorf("inserting user: %w", err)
	}

	tokens, err := s.issueToken(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Login verifies credentials and returns the user with a fresh token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, *TokenResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.GetUserByEmail(ctx, email)
	if storage.IsNoRows(err) {
		return nil, nil, service.Unauthorized("invalid credentials")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, service.Unauthorized("invalid credentials")
	}

	tokens, err := s.issueToken(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Logout revokes the token for its remaining lifetime. Without redis the
// call succeeds but the token stays valid until expiry.
func (s *Service) Logout(ctx context.Context, rawToken string) error {
	claims, err := s.parseToken(rawToken)
	if err != nil {
		return service.Unauthorized("token invalid")
	}
	if s.redis == nil {
		s.log.Warn("logout without redis, token not revoked")
		return nil
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}
	if err := s.redis.Set(ctx, revocationKey(claims.ID), "1", remaining).Err(); err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}
	return nil
}

// Verify parses a bearer token and returns the user id it names, rejecting
// revoked tokens when redis is configured.
func (s *Service) Verify(ctx context.Context, rawToken string) (uuid.UUID, error) {
	claims, err := s.parseToken(rawToken)
	if err != nil {
		return uuid.Nil, service.Unauthorized("token invalid")
	}

	if s.redis != nil && claims.ID != "" {
		n, err := s.redis.Exists(ctx, revocationKey(claims.ID)).Result()
		if err != nil {
			return uuid.Nil, fmt.Errorf("checking revocation: %w", err)
		}
		if n > 0 {
			return uuid.Nil, service.Unauthorized("token revoked")
		}
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, service.Unauthorized("token invalid")
	}
	return userID, nil
}

// TokenFor issues a token for an already-authenticated user id.
func (s *Service) TokenFor(userID uuid.UUID) (*TokenResponse, error) {
	return s.issueToken(userID)
}

func (s *Service) issueToken(userID uuid.UUID) (*TokenResponse, error) {
	now := s.now()
	claims := Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}
	return &TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.ttl.Seconds()),
	}, nil
}

func (s *Service) parseToken(rawToken string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(rawToken, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("token invalid")
	}
	return claims, nil
}

func revocationKey(jti string) string {
	return "auth:revoked:" + jti
}

// BearerToken extracts the credential from an Authorization header value.
// Returns "" when the header is absent or not a bearer scheme.
func BearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
