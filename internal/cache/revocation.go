package cache

import (
	"context"
	"log/slog"
	"time"

	"devconnector/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// RevocationList remembers users whose outstanding tokens must be rejected.
// A nil client turns every call into a no-op.
type RevocationList struct {
	client *redis.Client
}

// NewRevocationList creates a RevocationList backed by client.
func NewRevocationList(client *redis.Client) *RevocationList {
	return &RevocationList{client: client}
}

// RevokedUserKey is the redis key marking userID as revoked.
func RevokedUserKey(userID string) string {
	return "revoked:user:" + userID
}

// RevokeUser marks userID as revoked until ttl elapses, which should match the token lifetime.
func (r *RevocationList) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Set(ctx, RevokedUserKey(userID), time.Now().UTC().Format(time.RFC3339), ttl).Err()
}

// IsRevoked reports whether userID has been revoked. Redis errors fail open.
func (r *RevocationList) IsRevoked(ctx context.Context, userID string) bool {
	if r == nil || r.client == nil {
		return false
	}
	n, err := r.client.Exists(ctx, RevokedUserKey(userID)).Result()
	if err != nil {
		middleware.Logger.WarnContext(ctx, "revocation check failed", slog.String("error", err.Error()))
		return false
	}
	return n > 0
}
