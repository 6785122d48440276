package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/humdle/humdle-cli/internal/domain"
	"github.com/humdle/humdle-cli/internal/ports"
)

const (
	keyLoginSecret  = "login_secret"
	keySessionToken = "session_token"
)

// SessionAPI is the slice of the game API the session manager needs.
// CreateAccount and CreateSession are unauthenticated endpoints; calling
// them can never recurse back into the login path.
type SessionAPI interface {
	CreateAccount(ctx context.Context) (loginSecret string, err error)
	CreateSession(ctx context.Context, loginSecret string) (sessionToken string, err error)
	DeleteAccount(ctx context.Context) error
}

type SessionState int

const (
	// StateNoAccount: no login secret stored; the client has no identity.
	StateNoAccount SessionState = iota
	// StateProvisioned: a login secret exists but no session token.
	StateProvisioned
	// StateAuthenticated: both secrets are present.
	StateAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateNoAccount:
		return "no account"
	case StateProvisioned:
		return "provisioned"
	case StateAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("session state %d", int(s))
	}
}

// LoginResult reports what EnsureLoggedIn had to do. ReplacedIdentity
// means the stored login secret was rejected server-side and a brand-new
// anonymous account now replaces the old one; the previous account's
// history is gone. Callers should surface that to the user.
type LoginResult struct {
	LoggedIn         bool
	CreatedAccount   bool
	ReplacedIdentity bool
}

// SessionService owns the login state machine: NoAccount → Provisioned →
// Authenticated. It is the only component that writes credentials.
type SessionService struct {
	store ports.CredentialStore
	api   SessionAPI

	// mu serializes the state machine so overlapping calls cannot
	// provision two accounts.
	mu sync.Mutex
}

func NewSessionService(store ports.CredentialStore, sessionAPI SessionAPI) *SessionService {
	return &SessionService{store: store, api: sessionAPI}
}

// State derives the current session state from stored credentials.
func (s *SessionService) State(ctx context.Context) (SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hasToken, err := s.hasCredential(ctx, keySessionToken)
	if err != nil {
		return StateNoAccount, err
	}
	if hasToken {
		return StateAuthenticated, nil
	}

	hasSecret, err := s.hasCredential(ctx, keyLoginSecret)
	if err != nil {
		return StateNoAccount, err
	}
	if hasSecret {
		return StateProvisioned, nil
	}

	return StateNoAccount, nil
}

// EnsureLoggedIn drives the state machine to Authenticated. It
// short-circuits cheaply once a session token exists, so it is safe to
// call before every authenticated request. Over any run without
// server-side revocation it issues at most one account-creation call and
// one login call.
func (s *SessionService) EnsureLoggedIn(ctx context.Context) (LoginResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ensureLoggedInLocked(ctx)
}

func (s *SessionService) ensureLoggedInLocked(ctx context.Context) (LoginResult, error) {
	hasToken, err := s.hasCredential(ctx, keySessionToken)
	if err != nil {
		return LoginResult{}, err
	}
	if hasToken {
		return LoginResult{}, nil
	}

	var result LoginResult

	secret, hasSecret, err := s.credential(ctx, keyLoginSecret)
	if err != nil {
		return LoginResult{}, err
	}
	if hasSecret {
		loginErr := s.loginLocked(ctx, secret)
		if loginErr == nil {
			result.LoggedIn = true
			return result, nil
		}
		if !isCredentialRejection(loginErr) {
			return LoginResult{}, loginErr
		}
		// The stored secret was rejected server-side. The old identity is
		// unrecoverable; discard it and provision a fresh one.
		if err := s.clearCredentialsLocked(ctx); err != nil {
			return LoginResult{}, err
		}
		result.ReplacedIdentity = true
	}

	secret, err = s.api.CreateAccount(ctx)
	if err != nil {
		return LoginResult{}, fmt.Errorf("provision anonymous account: %w", err)
	}
	if err := s.store.Set(ctx, keyLoginSecret, secret); err != nil {
		return LoginResult{}, fmt.Errorf("store login secret: %w", err)
	}

	if err := s.loginLocked(ctx, secret); err != nil {
		return LoginResult{}, err
	}
	result.LoggedIn = true
	result.CreatedAccount = true

	return result, nil
}

// SessionToken implements the request executor's session source: it
// ensures the client is logged in and returns the current bearer token.
func (s *SessionService) SessionToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.ensureLoggedInLocked(ctx); err != nil {
		return "", err
	}

	token, _, err := s.credential(ctx, keySessionToken)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", errors.New("session token missing after login")
	}

	return token, nil
}

// InvalidateSession drops the session token, forcing the next
// authenticated call to log in again. Called by the request executor
// when the server reports the token revoked.
func (s *SessionService) InvalidateSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, keySessionToken); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}

	return nil
}

// Logout clears the session token but keeps the login secret, so the
// same anonymous account can be re-authenticated later.
func (s *SessionService) Logout(ctx context.Context) error {
	return s.InvalidateSession(ctx)
}

// DeleteAccount removes the account server-side and then clears both
// secrets. The server call runs before the lock is taken because it is
// an authenticated request that re-enters SessionToken.
func (s *SessionService) DeleteAccount(ctx context.Context) error {
	if err := s.api.DeleteAccount(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.clearCredentialsLocked(ctx)
}

func (s *SessionService) loginLocked(ctx context.Context, loginSecret string) error {
	token, err := s.api.CreateSession(ctx, loginSecret)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := s.store.Set(ctx, keySessionToken, token); err != nil {
		return fmt.Errorf("store session token: %w", err)
	}

	return nil
}

func (s *SessionService) clearCredentialsLocked(ctx context.Context) error {
	if err := s.store.Delete(ctx, keySessionToken); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	if err := s.store.Delete(ctx, keyLoginSecret); err != nil {
		return fmt.Errorf("clear login secret: %w", err)
	}

	return nil
}

func (s *SessionService) credential(ctx context.Context, key string) (string, bool, error) {
	value, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read credential %q: %w", key, err)
	}

	return value, value != "", nil
}

func (s *SessionService) hasCredential(ctx context.Context, key string) (bool, error) {
	_, ok, err := s.credential(ctx, key)
	return ok, err
}

// statusCoder is implemented by API errors; it lets the session layer
// classify failures without importing the transport adapter.
type statusCoder interface {
	HTTPStatus() int
}

// isCredentialRejection reports whether the server definitively rejected
// the supplied credential, as opposed to a transport failure. Only a
// definitive rejection may discard the stored identity.
func isCredentialRejection(err error) bool {
	var coder statusCoder
	if !errors.As(err, &coder) {
		return false
	}

	status := coder.HTTPStatus()
	return status >= http.StatusBadRequest && status < http.StatusInternalServerError
}
