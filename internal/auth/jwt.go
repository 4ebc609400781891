package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ariefcatur/restaurant-delivery/internal/apperr"
)

var ErrMalformedToken = errors.New("malformed token")

// Claims is the part of a bearer token the gate cares about.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// TokenParser turns a raw bearer token into verified claims.
type TokenParser interface {
	Parse(token string) (Claims, error)
}

// JWTParser verifies HS256 tokens against a shared secret, issuer and audience.
type JWTParser struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
}

func NewJWTParser(secret, issuer, audience string) *JWTParser {
	return &JWTParser{secret: []byte(secret), issuer: issuer, audience: audience, now: time.Now}
}

// Parse returns apperr.ErrTokenExpired for a well-formed but expired token and
// ErrMalformedToken for everything else that fails verification.
func (p *JWTParser) Parse(token string) (Claims, error) {
	var rc jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &rc, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithAudience(p.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, fmt.Errorf("%w: %w", apperr.ErrTokenExpired, err)
		}
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}
	return Claims{Subject: rc.Subject, ExpiresAt: rc.ExpiresAt.Time}, nil
}

// JWTIssuer mints tokens the JWTParser accepts. Login lives outside this
// service; cmd/token uses the issuer to hand out tokens for local runs.
type JWTIssuer struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
}

func NewJWTIssuer(secret, issuer, audience string) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret), issuer: issuer, audience: audience, now: time.Now}
}

func (i *JWTIssuer) Issue(userID uuid.UUID, ttl time.Duration) (string, error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    i.issuer,
		Audience:  jwt.ClaimStrings{i.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}
