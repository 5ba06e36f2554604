package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"contestctl/internal/domain"
	"contestctl/internal/ports"
)

// Session owns the login/logout/validate lifecycle for one platform. It
// holds at most one token; once validated, the token is trusted until the
// next explicit validation.
type Session struct {
	platformName string
	auth         ports.AuthCollaborator
	store        ports.TokenStore

	mu    sync.RWMutex
	token string
}

func NewSession(platformName string, auth ports.AuthCollaborator, store ports.TokenStore) *Session {
	return &Session{
		platformName: platformName,
		auth:         auth,
		store:        store,
	}
}

// Bootstrap restores a persisted session if one exists and still validates.
// Any failure (I/O, network, rejected token) erases the stored token and
// leaves the session anonymous; none of it is an error to the caller.
func (s *Session) Bootstrap(ctx context.Context) bool {
	token, ok, err := s.store.Load(ctx, s.platformName)
	if err != nil {
		slog.Debug("session restore failed, clearing stored token",
			"platform", s.platformName, "error", err)
		s.clear(ctx)
		return false
	}
	if !ok {
		return false
	}

	valid, err := s.auth.Validate(ctx, token)
	if err != nil || !valid {
		slog.Debug("stored session token rejected",
			"platform", s.platformName, "error", err)
		s.clear(ctx)
		return false
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	slog.Debug("session restored", "platform", s.platformName)
	return true
}

// Login exchanges credentials for a token and persists it. The secret slice
// is scrubbed before Login returns, regardless of outcome.
func (s *Session) Login(ctx context.Context, username string, secret []byte) error {
	defer scrub(secret)

	token, err := s.auth.PerformLogin(ctx, username, secret)
	if err != nil {
		s.clear(ctx)
		return fmt.Errorf("login to %s: %w", s.platformName, err)
	}
	if strings.TrimSpace(token) == "" {
		s.clear(ctx)
		return fmt.Errorf("login to %s: platform returned an empty token: %w", s.platformName, domain.ErrLoginFailed)
	}

	if err := s.store.Save(ctx, s.platformName, token); err != nil {
		s.clear(ctx)
		return fmt.Errorf("persist session for %s: %w", s.platformName, err)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Logout clears the session. It is idempotent and always succeeds; a failed
// file erase is logged, not returned.
func (s *Session) Logout(ctx context.Context) {
	s.clear(ctx)
}

// RequireToken is the gate every authenticated operation passes through.
func (s *Session) RequireToken() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", fmt.Errorf("%w to %s, please login first", domain.ErrAuthRequired, s.platformName)
	}
	return s.token, nil
}

// Active reports whether a token is held in memory. This is a local check;
// use IsValid for server-side validation.
func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// IsValid re-validates the current token with the platform. Collaborator
// errors are treated as invalid, never propagated.
func (s *Session) IsValid(ctx context.Context) bool {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return false
	}

	valid, err := s.auth.Validate(ctx, token)
	if err != nil {
		slog.Debug("session validation errored, assuming invalid",
			"platform", s.platformName, "error", err)
		return false
	}
	return valid
}

func (s *Session) clear(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if err := s.store.Erase(ctx, s.platformName); err != nil {
		slog.Warn("failed to erase session file",
			"platform", s.platformName, "error", err)
	}
}

func scrub(secret []byte) {
	for i := range secret {
		secret[i] = 0
	}
}
