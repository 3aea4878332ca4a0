package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/afteryou/internal/common"
)

// Claims is the display subset of an access token.
type Claims struct {
	UserID    string
	ExpiresAt time.Time
}

// Expired reports whether the token had expired at now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ParseClaims reads the claims of access without verifying the signature.
// The client holds no signing key, so the result is for display only.
func ParseClaims(access string) (Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, claims); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	var out Claims
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if exp != nil {
		out.ExpiresAt = exp.Time
	}

	switch v := claims["user_id"].(type) {
	case string:
		out.UserID = v
	case float64:
		out.UserID = fmt.Sprintf("%.0f", v)
	}
	return out, nil
}
