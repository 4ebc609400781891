package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ariefcatur/restaurant-delivery/internal/apperr"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrTokenRevoked = errors.New("token revoked")
)

// RevocationStore is the process-wide set of logged-out tokens. Entries must
// expire on their own at the given time.
type RevocationStore interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// Gate resolves bearer tokens to user ids.
type Gate struct {
	parser  TokenParser
	revoked RevocationStore
	now     func() time.Time
}

func NewGate(parser TokenParser, revoked RevocationStore) *Gate {
	return &Gate{parser: parser, revoked: revoked, now: time.Now}
}

// Resolve returns the token's user id. Every failure matches
// apperr.ErrUnauthenticated; the wrapped cause is for server-side logs only.
func (g *Gate) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, unauthenticated(ErrMissingToken)
	}
	claims, err := g.parser.Parse(token)
	if err != nil {
		return uuid.Nil, unauthenticated(err)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, unauthenticated(fmt.Errorf("%w: subject %q", ErrMalformedToken, claims.Subject))
	}
	revoked, err := g.revoked.IsRevoked(ctx, token)
	if err != nil {
		return uuid.Nil, unauthenticated(err)
	}
	if revoked {
		return uuid.Nil, unauthenticated(ErrTokenRevoked)
	}
	return userID, nil
}

// Revoke puts a still-valid token into the revocation set until it expires.
func (g *Gate) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return unauthenticated(ErrMissingToken)
	}
	claims, err := g.parser.Parse(token)
	if errors.Is(err, apperr.ErrTokenExpired) {
		return err
	}
	if err != nil {
		return unauthenticated(err)
	}
	if !claims.ExpiresAt.After(g.now()) {
		return apperr.ErrTokenExpired
	}
	if err := g.revoked.Revoke(ctx, token, claims.ExpiresAt); err != nil {
		return fmt.Errorf("cannot revoke token: %w", err)
	}
	return nil
}

func unauthenticated(cause error) error {
	return fmt.Errorf("%w: %w", apperr.ErrUnauthenticated, cause)
}
