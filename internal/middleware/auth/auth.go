package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"restaurantapi/internal/service"
)

const (
	ContextUserKey = "user"
	ContextRoleKey = "role"
)

// Middleware authenticates the bearer token and resolves the caller's role
// set from storage before the handler runs.
type Middleware struct {
	Auth      *service.AuthService
	JWTSecret []byte
}

func (m *Middleware) userID(c echo.Context) (uint, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return 0, fmt.Errorf("missing authorization header")
	}
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return 0, fmt.Errorf("authorization header is not a bearer token")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, fmt.Errorf("invalid token subject")
	}
	return uint(sub), nil
}

// RequireUser rejects unauthenticated callers with 401 and stores the
// resolved user and role in the request context.
func (m *Middleware) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := m.userID(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": err.Error()})
		}

		user, role, err := m.Auth.Resolve(c.Request().Context(), userID)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "unknown user"})
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextRoleKey, role)
		return next(c)
	}
}
