package officialapi

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expiryFromAccessToken cross-checks the token endpoint's expires_in
// against the access token's own "exp" claim when the carrier issues a
// JWT access token, so a clock-skewed token endpoint doesn't leave the
// cached credential looking fresher than it actually is. Tokens that
// aren't JWTs (opaque bearer strings) simply fall back to expires_in.
func expiryFromAccessToken(accessToken string, expiresInFallback time.Time) time.Time {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return expiresInFallback
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return expiresInFallback
	}
	return exp.Time
}

func validateToken(accessToken string) error {
	if accessToken == "" {
		return fmt.Errorf("empty access token")
	}
	return nil
}
