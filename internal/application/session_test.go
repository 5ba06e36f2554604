package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contestctl/internal/domain"
)

func TestBootstrapRestoresValidToken(t *testing.T) {
	store := newMemTokenStore()
	store.tokens["testjudge"] = "persisted-token"

	var validated string
	collab := &collabStub{
		validate: func(_ context.Context, token string) (bool, error) {
			validated = token
			return true, nil
		},
	}

	s := NewSession("testjudge", collab, store)
	assert.True(t, s.Bootstrap(context.Background()))
	assert.True(t, s.Active())
	assert.Equal(t, "persisted-token", validated)

	token, err := s.RequireToken()
	require.NoError(t, err)
	assert.Equal(t, "persisted-token", token)
}

func TestBootstrapWithoutStoredTokenStaysAnonymous(t *testing.T) {
	store := newMemTokenStore()
	collab := &collabStub{}

	s := NewSession("testjudge", collab, store)
	assert.False(t, s.Bootstrap(context.Background()))
	assert.False(t, s.Active())
	assert.Zero(t, store.eraseCalls, "nothing to erase when nothing was stored")
}

func TestBootstrapErasesRejectedToken(t *testing.T) {
	store := newMemTokenStore()
	store.tokens["testjudge"] = "stale-token"
	collab := &collabStub{
		validate: func(context.Context, string) (bool, error) { return false, nil },
	}

	s := NewSession("testjudge", collab, store)
	assert.False(t, s.Bootstrap(context.Background()))
	assert.False(t, s.Active())

	_, ok := store.tokens["testjudge"]
	assert.False(t, ok, "rejected token must be erased")
}

func TestBootstrapTreatsValidationErrorAsInvalid(t *testing.T) {
	store := newMemTokenStore()
	store.tokens["testjudge"] = "unreachable-token"
	collab := &collabStub{
		validate: func(context.Context, string) (bool, error) {
			return false, errors.New("connection refused")
		},
	}

	s := NewSession("testjudge", collab, store)
	assert.False(t, s.Bootstrap(context.Background()))
	assert.False(t, s.Active())
	assert.Equal(t, 1, store.eraseCalls)
}

func TestBootstrapErasesOnLoadError(t *testing.T) {
	store := newMemTokenStore()
	store.loadErr = errors.New("corrupt session file")
	collab := &collabStub{}

	s := NewSession("testjudge", collab, store)
	assert.False(t, s.Bootstrap(context.Background()))
	assert.Equal(t, 1, store.eraseCalls)
}

func TestLoginPersistsToken(t *testing.T) {
	store := newMemTokenStore()
	collab := &collabStub{
		performLogin: func(_ context.Context, username string, secret []byte) (string, error) {
			assert.Equal(t, "alice", username)
			assert.Equal(t, []byte("hunter2"), secret)
			return "fresh-token", nil
		},
	}

	s := NewSession("testjudge", collab, store)
	require.NoError(t, s.Login(context.Background(), "alice", []byte("hunter2")))
	assert.True(t, s.Active())
	assert.Equal(t, "fresh-token", store.tokens["testjudge"])
}

func TestLoginScrubsSecret(t *testing.T) {
	store := newMemTokenStore()
	collab := &collabStub{
		performLogin: func(context.Context, string, []byte) (string, error) {
			return "", domain.ErrLoginFailed
		},
	}

	secret := []byte("hunter2")
	s := NewSession("testjudge", collab, store)
	err := s.Login(context.Background(), "alice", secret)
	require.Error(t, err)
	assert.Equal(t, make([]byte, len(secret)), secret, "secret must be zeroed even on failure")
}

func TestLoginRejectsBlankToken(t *testing.T) {
	store := newMemTokenStore()
	collab := &collabStub{
		performLogin: func(context.Context, string, []byte) (string, error) {
			return "   ", nil
		},
	}

	s := NewSession("testjudge", collab, store)
	err := s.Login(context.Background(), "alice", []byte("pw"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLoginFailed)
	assert.False(t, s.Active())
}

func TestLoginClearsSessionWhenPersistFails(t *testing.T) {
	store := newMemTokenStore()
	store.saveErr = errors.New("disk full")
	collab := &collabStub{
		performLogin: func(context.Context, string, []byte) (string, error) {
			return "fresh-token", nil
		},
	}

	s := NewSession("testjudge", collab, store)
	err := s.Login(context.Background(), "alice", []byte("pw"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist session")
	assert.False(t, s.Active())
}

func TestLogoutIsIdempotent(t *testing.T) {
	store := newMemTokenStore()
	collab := &collabStub{
		performLogin: func(context.Context, string, []byte) (string, error) {
			return "fresh-token", nil
		},
	}

	s := NewSession("testjudge", collab, store)
	require.NoError(t, s.Login(context.Background(), "alice", []byte("pw")))

	s.Logout(context.Background())
	assert.False(t, s.Active())

	s.Logout(context.Background())
	assert.False(t, s.Active())
	assert.Equal(t, 2, store.eraseCalls)
}

func TestLogoutSwallowsEraseFailure(t *testing.T) {
	store := newMemTokenStore()
	store.eraseErr = errors.New("permission denied")

	s := NewSession("testjudge", &collabStub{}, store)
	s.Logout(context.Background())
	assert.False(t, s.Active())
}

func TestRequireTokenWithoutSession(t *testing.T) {
	s := NewSession("testjudge", &collabStub{}, newMemTokenStore())

	_, err := s.RequireToken()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	assert.Contains(t, err.Error(), "testjudge")
}

func TestIsValidTreatsCollaboratorErrorAsInvalid(t *testing.T) {
	store := newMemTokenStore()
	collab := &collabStub{
		performLogin: func(context.Context, string, []byte) (string, error) {
			return "fresh-token", nil
		},
		validate: func(context.Context, string) (bool, error) {
			return false, errors.New("timeout")
		},
	}

	s := NewSession("testjudge", collab, store)
	require.NoError(t, s.Login(context.Background(), "alice", []byte("pw")))
	assert.False(t, s.IsValid(context.Background()))
	assert.True(t, s.Active(), "a failed validation does not tear the session down")
}

func TestIsValidWithoutTokenSkipsCollaborator(t *testing.T) {
	s := NewSession("testjudge", &collabStub{}, newMemTokenStore())
	assert.False(t, s.IsValid(context.Background()))
}
