// Package session tracks whether an administrator is signed in.
//
// The signed-in flag lives in the key-value store under
// store.KeyAdminSession so that it survives restarts. Tokens handed out at
// login are only honoured while that flag names the same session.
package session

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/silahub/site/internal/logger"
	"github.com/silahub/site/internal/store"
)

var (
	// ErrInvalidCredentials is returned by Login for a wrong username or password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized is returned by Authorize when no valid session backs a token.
	ErrUnauthorized = errors.New("unauthorized")
)

// State is the persisted session flag.
type State struct {
	Authenticated bool       `json:"authenticated"`
	Username      string     `json:"username,omitempty"`
	LoggedInAt    *time.Time `json:"loggedInAt,omitempty"`
	SessionID     string     `json:"sessionId,omitempty"`
}

// Credentials is the single admin account.
type Credentials struct {
	Username string
	Password string
}

// Options configures token issuance.
type Options struct {
	Secret string
	TTL    time.Duration
	Now    func() time.Time
}

// Gate moves between anonymous and authenticated.
type Gate struct {
	kv           store.Store
	username     string
	passwordHash []byte
	tokens       *tokenManager
	log          logger.Logger
	now          func() time.Time
}

// New builds a Gate for creds and reports the state restored from kv.
func New(ctx context.Context, kv store.Store, creds Credentials, opts Options, log logger.Logger) (*Gate, error) {
	if creds.Username == "" || creds.Password == "" {
		return nil, errors.New("admin username and password must not be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}

	tokens, err := newTokenManager(opts.Secret, opts.TTL)
	if err != nil {
		return nil, err
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	g := &Gate{
		kv:           kv,
		username:     creds.Username,
		passwordHash: hash,
		tokens:       tokens,
		log:          log.Named("session"),
		now:          now,
	}

	st, err := g.State(ctx)
	if err != nil {
		return nil, err
	}
	if st.Authenticated {
		g.log.Info("admin session restored", logger.String("username", st.Username))
	}
	return g, nil
}

// Login checks the credential pair and, on success, persists the session
// flag and returns a signed token for it. A failed attempt leaves the state
// untouched.
func (g *Gate) Login(ctx context.Context, username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		g.log.Warn("admin login rejected", logger.String("username", username))
		return "", ErrInvalidCredentials
	}

	now := g.now().UTC()
	st := State{
		Authenticated: true,
		Username:      g.username,
		LoggedInAt:    &now,
		SessionID:     uuid.NewString(),
	}

	raw, err := json.Marshal(st)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}
	err = g.kv.Update(ctx, store.KeyAdminSession, func([]byte, bool) ([]byte, bool, error) {
		return raw, true, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to persist session: %w", err)
	}

	token, err := g.tokens.issue(st.Username, st.SessionID, now)
	if err != nil {
		return "", err
	}

	g.log.Info("admin logged in", logger.String("username", st.Username))
	return token, nil
}

// Logout clears the persisted flag. Every token issued so far stops being
// accepted.
func (g *Gate) Logout(ctx context.Context) error {
	if err := g.kv.Delete(ctx, store.KeyAdminSession); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	g.log.Info("admin logged out")
	return nil
}

// State returns the persisted session flag. An absent flag is anonymous.
func (g *Gate) State(ctx context.Context) (State, error) {
	raw, found, err := g.kv.Get(ctx, store.KeyAdminSession)
	if err != nil {
		return State{}, fmt.Errorf("failed to read session: %w", err)
	}
	if !found {
		return State{}, nil
	}

	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return State{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return st, nil
}

// Authorize verifies token and checks that it belongs to the active session.
// It returns the admin username.
func (g *Gate) Authorize(ctx context.Context, token string) (string, error) {
	claims, err := g.tokens.parse(token, g.now())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	st, err := g.State(ctx)
	if err != nil {
		return "", err
	}
	if !st.Authenticated || st.SessionID != claims.ID || st.Username != claims.Subject {
		return "", ErrUnauthorized
	}
	return st.Username, nil
}

// Expire logs the admin out when the session is older than maxAge. It
// reports whether a session was cleared.
func (g *Gate) Expire(ctx context.Context, maxAge time.Duration) (bool, error) {
	st, err := g.State(ctx)
	if err != nil {
		return false, err
	}
	if !st.Authenticated || st.LoggedInAt == nil || g.now().Sub(*st.LoggedInAt) < maxAge {
		return false, nil
	}

	// Only clear the session that was inspected; a fresh login wins.
	cleared := false
	err = g.kv.Update(ctx, store.KeyAdminSession, func(current []byte, found bool) ([]byte, bool, error) {
		cleared = false
		if !found {
			return nil, false, nil
		}
		var latest State
		if err := json.Unmarshal(current, &latest); err != nil {
			return nil, false, fmt.Errorf("failed to unmarshal session: %w", err)
		}
		if latest.SessionID != st.SessionID {
			return nil, false, nil
		}
		cleared = true
		return nil, true, nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to expire session: %w", err)
	}
	return cleared, nil
}
