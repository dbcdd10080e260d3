package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Info is what can be read from a session token without the issuer's key.
type Info struct {
	Subject   string
	ExpiresAt time.Time // zero when the token carries no exp claim
}

// Expired reports whether the token carries an expiry that is before now.
func (i Info) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// Inspect decodes a session token that happens to be a JWT. The signature is
// not verified; the portal treats the token as opaque and so does the client,
// this is for display only. ok is false for non-JWT tokens.
func Inspect(raw string) (info Info, ok bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return Info{}, false
	}
	info.Subject = claims.Subject
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, true
}
