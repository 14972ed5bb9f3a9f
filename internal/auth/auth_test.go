package auth

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/service"
)

type fakeUserStore struct {
	byID    map[uuid.UUID]*models.User
	byEmail map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:    map[uuid.UUID]*models.User{},
		byEmail: map[string]*models.User{},
	}
}

func (f *fakeUserStore) InsertUser(_ context.Context, u *models.User) error {
	if _, exists := f.byEmail[u.Email]; exists {
		return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	}
	cp := *u
	f.byID[u.ID] = &cp
	f.byEmail[u.Email] = &cp
	return nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func newTestAuth() (*Service, *fakeUserStore) {
	store := newFakeUserStore()
	svc := NewService(store, "test-secret", time.Hour, nil, slog.New(slog.DiscardHandler))
	return svc, store
}

// TestRegisterLoginVerify walks the full credential round trip.
func TestRegisterLoginVerify(t *testing.T) {
	svc, _ := newTestAuth()
	ctx := context.Background()

	user, tokens, err := svc.Register(ctx, RegisterInput{
		Email:    "Ana@Example.com",
		Username: "ana",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Errorf("email not normalized: %q", user.Email)
	}
	if user.SessionMinutes != 45 || user.DaysPerWeek != 3 || user.CoachPersonality != "supportive" {
		t.Errorf("profile defaults not applied: %+v", user)
	}
	if tokens.AccessToken == "" || tokens.TokenType != "Bearer" {
		t.Fatalf("bad token response: %+v", tokens)
	}

	got, err := svc.Verify(ctx, tokens.AccessToken)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != user.ID {
		t.Errorf("verify user = %v, want %v", got, user.ID)
	}

	loginUser, loginTokens, err := svc.Login(ctx, "ana@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loginUser.ID != user.ID || loginTokens.AccessToken == "" {
		t.Errorf("login mismatch: %+v", loginUser)
	}
}

// TestLoginRejections verifies unknown email and wrong password both come
// back as the same 401.
func TestLoginRejections(t *testing.T) {
	svc, _ := newTestAuth()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Username: "a", Password: "password123"}); err != nil {
		t.Fatal(err)
	}

	for _, tc := range []struct {
		name, email, password string
	}{
		{"unknown email", "nobody@b.c", "password123"},
		{"wrong password", "a@b.c", "wrong-password"},
	} {
		_, _, err := svc.Login(ctx, tc.email, tc.password)
		if err == nil {
			t.Fatalf("%s: login should fail", tc.name)
		}
		if service.StatusOf(err) != 401 {
			t.Errorf("%s: status = %d, want 401", tc.name, service.StatusOf(err))
		}
		if err.Error() != "invalid credentials" {
			t.Errorf("%s: message %q leaks the failure mode", tc.name, err)
		}
	}
}

// TestRegisterDuplicateEmail verifies the unique violation surfaces as a
// conflict, not a raw database error.
func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuth()
	ctx := context.Background()

	in := RegisterInput{Email: "a@b.c", Username: "a", Password: "password123"}
	if _, _, err := svc.Register(ctx, in); err != nil {
		t.Fatal(err)
	}
	_, _, err := svc.Register(ctx, in)
	if service.StatusOf(err) != 400 {
		t.Errorf("duplicate email status = %d, want 400", service.StatusOf(err))
	}
}

// TestRegisterValidation covers the input checks.
func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestAuth()
	ctx := context.Background()

	cases := []struct {
		name string
		in   RegisterInput
	}{
		{"missing email", RegisterInput{Username: "a", Password: "password123"}},
		{"missing username", RegisterInput{Email: "a@b.c", Password: "password123"}},
		{"short password", RegisterInput{Email: "a@b.c", Username: "a", Password: "short"}},
	}
	for _, tc := range cases {
		if _, _, err := svc.Register(ctx, tc.in); service.StatusOf(err) != 400 {
			t.Errorf("%s: status = %d, want 400", tc.name, service.StatusOf(err))
		}
	}
}

// TestVerifyRejectsTampering verifies signature and expiry enforcement.
func TestVerifyRejectsTampering(t *testing.T) {
	svc, _ := newTestAuth()
	ctx := context.Background()

	_, tokens, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Username: "a", Password: "password123"})
	if err != nil {
		t.Fatal(err)
	}

	// Signature from a different secret.
	other := NewService(newFakeUserStore(), "other-secret", time.Hour, nil, slog.New(slog.DiscardHandler))
	if _, err := other.Verify(ctx, tokens.AccessToken); err == nil {
		t.Error("token signed with another secret should be rejected")
	}

	// Corrupted payload.
	corrupted := strings.Replace(tokens.AccessToken, ".", ".x", 1)
	if _, err := svc.Verify(ctx, corrupted); err == nil {
		t.Error("corrupted token should be rejected")
	}

	// Already expired at issue time.
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	_, expired, err := svc.Register(ctx, RegisterInput{Email: "b@b.c", Username: "b", Password: "password123"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Verify(ctx, expired.AccessToken); service.StatusOf(err) != 401 {
		t.Error("expired token should be rejected with 401")
	}
}

// TestBearerToken covers header parsing.
func TestBearerToken(t *testing.T) {
	cases := []struct {
		header, want string
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"bearer abc", "abc"},
		{"Basic dXNlcjpwYXNz", ""},
		{"Bearer", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := BearerToken(tc.header); got != tc.want {
			t.Errorf("BearerToken(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}
