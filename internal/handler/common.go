package handler

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/restomap/booking-backend/internal/middleware"
)

// errUnauthorized signals a missing or malformed identity in the
// request context; handlers translate it into a 401.
var errUnauthorized = errors.New("unauthorized")

// memberID extracts the authenticated member's UUID placed in the
// context by the JWT middleware.
func memberID(c echo.Context) (string, error) {
	id, ok := c.Get(middleware.CtxMemberID).(string)
	if !ok || id == "" {
		return "", errUnauthorized
	}
	return id, nil
}
