package claims

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/boogy/actions-oidc-claims/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
)

// Claims satisfies jwt.Claims, so it can be passed straight to
// jwt.ParseWithClaims by code that verifies tokens.
var _ jwt.Claims = (*Claims)(nil)

func (c *Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	return numericDate(c.ExpiresAt), nil
}

func (c *Claims) GetIssuedAt() (*jwt.NumericDate, error) {
	return numericDate(c.IssuedAt), nil
}

func (c *Claims) GetNotBefore() (*jwt.NumericDate, error) {
	return numericDate(c.NotBefore), nil
}

func (c *Claims) GetIssuer() (string, error) {
	return c.Issuer, nil
}

func (c *Claims) GetSubject() (string, error) {
	return c.Subject, nil
}

func (c *Claims) GetAudience() (jwt.ClaimStrings, error) {
	return jwt.ClaimStrings{c.Audience}, nil
}

func numericDate(seconds float64) *jwt.NumericDate {
	whole, frac := math.Modf(seconds)
	return jwt.NewNumericDate(time.Unix(int64(whole), int64(frac*float64(time.Second))))
}

// DecodeToken extracts the claims from a compact JWT without checking its
// signature or any of its time claims. Use it for inspection and logging
// only; never trust the result for access decisions.
func DecodeToken(token string) (*Claims, error) {
	var c Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		slog.Debug("Failed to decode token payload",
			slog.String("token", utils.RedactToken(token, 10, 10)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to decode token payload: %w", err)
	}

	return &c, nil
}
