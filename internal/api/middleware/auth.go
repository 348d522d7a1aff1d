package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/leadbook/user-directory/internal/core/ports"
)

var errNoSigningKey = errors.New("no signing key configured")

// tokenClaims is the payload issued by the auth service.
type tokenClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Auth validates the HS256 bearer token and injects its claims into the
// Echo context (user_id, username, role). The subject also becomes the
// request actor for audit events. With an empty secret every token is
// rejected.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	keyFunc := func(*jwt.Token) (interface{}, error) {
		if jwtSecret == "" {
			return nil, errNoSigningKey
		}
		return []byte(jwtSecret), nil
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			var claims tokenClaims
			tkn, err := parser.ParseWithClaims(parts[1], &claims, keyFunc)
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("user_id", claims.Subject)
			c.Set("username", claims.Username)
			c.Set("role", claims.Role)

			req := c.Request()
			c.SetRequest(req.WithContext(ports.WithActor(req.Context(), claims.Subject)))

			return next(c)
		}
	}
}
