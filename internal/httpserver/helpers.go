package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"restaurantapi/internal/middleware/auth"
	"restaurantapi/internal/models"
	"restaurantapi/internal/policy"
	"restaurantapi/internal/service"
)

type detailResponse struct {
	Detail string `json:"detail"`
}

func detailJSON(c echo.Context, code int, msg string) error {
	return c.JSON(code, detailResponse{Detail: msg})
}

// errorJSON maps a service error to the uniform {"detail": ...} shape. The
// sentinel kind picks the status code, the wrapped text becomes the detail.
func errorJSON(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrConflict):
		return detailJSON(c, http.StatusBadRequest, detailOf(err))
	case errors.Is(err, service.ErrForbidden):
		return detailJSON(c, http.StatusForbidden, detailOf(err))
	case errors.Is(err, service.ErrNotFound):
		return detailJSON(c, http.StatusNotFound, detailOf(err))
	case errors.Is(err, service.ErrUnauthorized):
		return detailJSON(c, http.StatusUnauthorized, detailOf(err))
	default:
		return detailJSON(c, http.StatusInternalServerError, "Internal server error")
	}
}

// detailOf strips the sentinel prefix from a wrapped service error, leaving
// just the human-readable detail.
func detailOf(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}

// currentUser reads the caller placed in context by the auth middleware.
func currentUser(c echo.Context) (*models.User, policy.Role) {
	user, _ := c.Get(auth.ContextUserKey).(*models.User)
	role, _ := c.Get(auth.ContextRoleKey).(policy.Role)
	return user, role
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func parseUintParam(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(v), nil
}
