// Package session owns the client's authentication state: the bearer token,
// the resolved user, and their persistence across restarts.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/amezcua/folio/internal/api"
	"github.com/amezcua/folio/internal/storage"
)

const minPasswordLength = 8

var validate = validator.New()

// State is a snapshot of the session. Authenticated is derived from the
// presence of a resolved user; a token alone is not enough.
type State struct {
	User          *api.User
	Token         string
	Loading       bool
	Authenticated bool
}

// Store coordinates login, logout, and token persistence. Construct once in
// main and pass by reference; all mutations go through its methods.
type Store struct {
	mu      sync.Mutex
	client  *api.Client
	storage *storage.Store
	logger  *zap.Logger

	user    *api.User
	token   string
	loading bool
}

// New loads any persisted token and attaches it to the API client before
// returning, so the first request after construction already carries
// credentials. Loading stays true until Resume settles the user.
func New(client *api.Client, store *storage.Store, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{client: client, storage: store, logger: logger}

	var token string
	if err := store.Read(storage.TokenKey, &token); err == nil && token != "" {
		s.token = token
		s.loading = true
		client.SetToken(token)
	}
	return s
}

// Snapshot returns the current session state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		User:          s.user,
		Token:         s.token,
		Loading:       s.loading,
		Authenticated: s.user != nil,
	}
}

// Resume resolves the persisted token into a user. Call it once at startup
// when Snapshot().Loading is true. A failed resolution clears token and user
// together, so no observer ever sees "authenticated with no user".
func (s *Store) Resume(ctx context.Context) (State, error) {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()
	if token == "" {
		return s.settle(nil, ""), nil
	}

	if expired, expiry := tokenExpired(token); expired {
		s.logger.Info("persisted token expired", zap.Time("expiry", expiry))
		s.clearToken()
		return s.settle(nil, ""), nil
	}

	user, err := s.client.Me(ctx)
	if err != nil {
		s.logger.Warn("session resume failed", zap.Error(err))
		s.clearToken()
		return s.settle(nil, ""), err
	}
	return s.settle(user, token), nil
}

// Login exchanges credentials for a token, persists it, and resolves the
// user. Session state mutates only on full success: a failed user resolution
// rolls the token back before returning.
func (s *Store) Login(ctx context.Context, email, password string) (State, error) {
	token, err := s.client.Login(ctx, email, password)
	if err != nil {
		return s.Snapshot(), err
	}

	// Persist and attach before the /auth/me call so it cannot race ahead
	// without credentials.
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	s.client.SetToken(token)
	if err := s.storage.Write(storage.TokenKey, token); err != nil {
		s.logger.Warn("token persist failed", zap.Error(err))
	}

	user, err := s.client.Me(ctx)
	if err != nil {
		s.clearToken()
		return s.settle(nil, ""), err
	}
	return s.settle(user, token), nil
}

// RegisterInput is validated client-side before any request is issued.
type RegisterInput struct {
	Email           string `validate:"required,email"`
	Password        string `validate:"required"`
	ConfirmPassword string
}

// ValidateRegistration checks the form without touching the network.
func ValidateRegistration(in RegisterInput) error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("enter a valid email address")
	}
	if len(in.Password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if in.Password != in.ConfirmPassword {
		return fmt.Errorf("passwords do not match")
	}
	return nil
}

// Register creates the account. The caller logs in afterwards; registration
// does not start a session.
func (s *Store) Register(ctx context.Context, in RegisterInput) error {
	if err := ValidateRegistration(in); err != nil {
		return err
	}
	return s.client.Register(ctx, in.Email, in.Password)
}

// Logout clears the session unconditionally. No server round-trip.
func (s *Store) Logout() State {
	s.clearToken()
	return s.settle(nil, "")
}

// TokenExpiry reports when the current token lapses, when that can be read
// from its claims. The token is not verified here; the backend owns that.
func (s *Store) TokenExpiry() (time.Time, bool) {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}, false
	}
	return expiry.Time, true
}

func tokenExpired(token string) (bool, time.Time) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false, time.Time{}
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return false, time.Time{}
	}
	return expiry.Time.Before(time.Now()), expiry.Time
}

func (s *Store) clearToken() {
	s.client.ClearToken()
	if err := s.storage.Delete(storage.TokenKey); err != nil {
		s.logger.Warn("token delete failed", zap.Error(err))
	}
}

// settle applies the terminal state of an auth flow in one transition.
func (s *Store) settle(user *api.User, token string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.token = token
	s.loading = false
	return State{
		User:          user,
		Token:         token,
		Loading:       false,
		Authenticated: user != nil,
	}
}
