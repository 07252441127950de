package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/crm-properties/crm-api/internal/core/domain"
)

// DefaultTTL is the sliding-session window applied when no TTL is configured.
const DefaultTTL = 25 * time.Minute

// sessionClaims is the token payload: subject (user id) and role.
type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens with a single process-wide
// HS256 secret. Tokens are ephemeral and never persisted server-side.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec returns a Codec. A non-positive ttl falls back to DefaultTTL.
func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured session lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Sign issues a fresh token for the session, expiring a full TTL from now.
func (c *Codec) Sign(s domain.Session) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Role: s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(s.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify parses and validates a token, returning the session it carries.
// Every failure mode (bad signature, wrong algorithm, expiry, a subject
// that is not a positive integer, an unknown role) is ErrUnauthorized.
func (c *Codec) Verify(token string) (domain.Session, error) {
	claims := &sessionClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !tkn.Valid {
		return domain.Session{}, domain.ErrUnauthorized
	}

	sub, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || sub <= 0 {
		return domain.Session{}, domain.ErrUnauthorized
	}
	if !domain.ValidRole(claims.Role) {
		return domain.Session{}, domain.ErrUnauthorized
	}

	return domain.Session{UserID: sub, Role: claims.Role}, nil
}
