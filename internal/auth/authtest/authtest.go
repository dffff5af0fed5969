// Package authtest provides deterministic stand-ins for the auth primitives
// so services can be tested without bcrypt cost or real signatures.
package authtest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"inventory-api/internal/auth"
)

const hashPrefix = "plain$"

// Hasher "hashes" by prefixing; Verify recomputes and compares.
type Hasher struct{}

func (Hasher) Hash(plaintext string) (string, error) {
	return hashPrefix + plaintext, nil
}

func (Hasher) Verify(plaintext, hashed string) bool {
	return strings.HasPrefix(hashed, hashPrefix) && hashed == hashPrefix+plaintext
}

// TokenCodec encodes claims as "test.<user>.<issued>.<expires>.<secret>".
type TokenCodec struct {
	Secret string
	Now    func() time.Time
}

func NewTokenCodec(now time.Time) *TokenCodec {
	return &TokenCodec{Secret: "test-secret", Now: func() time.Time { return now }}
}

func (c *TokenCodec) Issue(userID int64, ttl time.Duration) (string, auth.Claims, error) {
	if ttl <= 0 {
		ttl = auth.DefaultTokenTTL
	}
	now := c.clock().Truncate(time.Second)
	claims := auth.Claims{UserID: userID, IssuedAt: now, ExpiresAt: now.Add(ttl)}
	token := fmt.Sprintf("test.%d.%d.%d.%s", userID, claims.IssuedAt.Unix(), claims.ExpiresAt.Unix(), c.Secret)
	return token, claims, nil
}

func (c *TokenCodec) Verify(token string) (auth.Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 5 || parts[0] != "test" {
		return auth.Claims{}, auth.ErrTokenMalformed
	}
	userID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return auth.Claims{}, auth.ErrTokenMalformed
	}
	issued, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return auth.Claims{}, auth.ErrTokenMalformed
	}
	expires, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return auth.Claims{}, auth.ErrTokenMalformed
	}
	if parts[4] != c.Secret {
		return auth.Claims{}, auth.ErrTokenInvalidSignature
	}
	claims := auth.Claims{UserID: userID, IssuedAt: time.Unix(issued, 0), ExpiresAt: time.Unix(expires, 0)}
	if !c.clock().Before(claims.ExpiresAt) {
		return auth.Claims{}, auth.ErrTokenExpired
	}
	return claims, nil
}

func (c *TokenCodec) clock() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

var (
	_ auth.Hasher     = Hasher{}
	_ auth.TokenCodec = (*TokenCodec)(nil)
)
