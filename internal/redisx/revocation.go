package redisx

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/restaurant-delivery/internal/apperr"
)

// RevocationStore keeps logged-out tokens in Redis until they would have
// expired anyway, so the set never outgrows the live token population.
type RevocationStore struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRevocationStore(rdb *redis.Client) *RevocationStore {
	return &RevocationStore{rdb: rdb, now: time.Now}
}

func (s *RevocationStore) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return apperr.ErrTokenExpired
	}
	return s.rdb.Set(ctx, revokedKey(token), "revoked", ttl).Err()
}

func (s *RevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	return Exists(ctx, s.rdb, revokedKey(token))
}

// Tokens are stored hashed to keep keys short and raw credentials out of Redis.
func revokedKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf(KeyRevokedToken, hex.EncodeToString(sum[:]))
}
