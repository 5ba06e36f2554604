package ports

import "context"

// TokenStore persists one opaque session token per platform. Load returns
// ok=false when no token is stored; Erase of an absent token succeeds.
type TokenStore interface {
	Load(ctx context.Context, platformKey string) (token string, ok bool, err error)
	Save(ctx context.Context, platformKey string, token string) error
	Erase(ctx context.Context, platformKey string) error
}
