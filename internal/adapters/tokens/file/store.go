// Package file persists session tokens as one plain-text file per platform
// under the user's configuration directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"contestctl/internal/ports"
)

const (
	storeDirMode  = 0o700
	tokenFileMode = 0o600
)

type Store struct {
	root string
	mu   sync.RWMutex
	// disabled flips when the config directory cannot be created; the
	// store then degrades to no-op persistence instead of failing login.
	disabled bool
}

var _ ports.TokenStore = (*Store)(nil)

func NewStore(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

func (s *Store) Load(ctx context.Context, platformKey string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	path, err := s.pathForPlatform(platformKey)
	if err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read session file for %q: %w", platformKey, err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		// An empty session file is the same as no session.
		return "", false, nil
	}

	return token, true, nil
}

func (s *Store) Save(ctx context.Context, platformKey string, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathForPlatform(platformKey)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disabled {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), storeDirMode); err != nil {
		s.disabled = true
		slog.Warn("cannot create session directory, session persistence disabled",
			"dir", filepath.Dir(path), "error", err)
		return nil
	}

	if err := os.WriteFile(path, []byte(token), tokenFileMode); err != nil {
		return fmt.Errorf("write session file for %q: %w", platformKey, err)
	}

	return nil
}

func (s *Store) Erase(ctx context.Context, platformKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathForPlatform(platformKey)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete session file for %q: %w", platformKey, err)
	}

	return nil
}

func (s *Store) pathForPlatform(platformKey string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(platformKey))
	if trimmed == "" {
		return "", errors.New("platform key is empty")
	}

	name := strings.ReplaceAll(trimmed, " ", "_") + ".session"
	cleaned := filepath.Clean(name)
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") || strings.ContainsRune(cleaned, os.PathSeparator) {
		return "", fmt.Errorf("invalid platform key %q", platformKey)
	}

	return filepath.Join(s.root, cleaned), nil
}
