package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/restomap/booking-backend/internal/utils"
)

// Context keys populated by JWTAuth for downstream handlers.
const (
	CtxMemberID   = "member_id"
	CtxTelegramID = "telegram_id"
	CtxRole       = "role"
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the member identity into the request context.
// Refresh tokens are rejected here: only tokens with typ=access pass.
// The provided secret must match the one used when issuing tokens.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.ParseToken(secret, raw)
			if err != nil || claims.Type != utils.TokenTypeAccess {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set(CtxMemberID, claims.MemberID)
			c.Set(CtxTelegramID, claims.TelegramID)
			c.Set(CtxRole, claims.Role)
			return next(c)
		}
	}
}
