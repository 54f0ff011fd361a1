package domain

import (
	"context"
	"time"
)

// TokenIssuer issues tokens (e.g. JWT) for a user. Only used by local tooling;
// in deployment the identity provider issues tokens.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// RateLimiter throttles requests sharing a key within a fixed window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
