package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// InspectExpiry extracts the expiry claim from a JWT access token without
// verifying its signature. Used only for display ('deskctl auth status');
// authentication decisions are always delegated to the platform.
func InspectExpiry(tokenString string) (time.Time, bool) {
	if tokenString == "" {
		return time.Time{}, false
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
