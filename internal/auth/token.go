// Package auth issues and verifies the JWTs carried in the AccessToken and
// RefreshToken cookies.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	AccessCookie  = "AccessToken"
	RefreshCookie = "RefreshToken"
)

// ErrInvalidToken covers bad signatures, expiry and malformed payloads.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the session payload embedded in both token kinds.
type Claims struct {
	UserID int64  `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and parses tokens with one HMAC secret and lifetime.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is the lifetime given to issued tokens.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue returns a signed HS256 token for the user.
func (c *Codec) Issue(userID int64, role string) (string, error) {
	now := c.now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			// Two tokens issued in the same second must still differ so the
			// refresh table's unique index holds.
			ID: uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Parse verifies the signature and expiry and returns the claims.
func (c *Codec) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil || !parsed.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
