package middleware

// identity.go defines helpers shared across middleware files. The rate
// limiter keys buckets per caller: authenticated requests are keyed by
// member id so a member gets the same budget from every device, while
// anonymous requests fall back to the client IP.

import (
	"github.com/labstack/echo/v4"
)

// callerKey returns a stable identifier for the requester.
func callerKey(c echo.Context) string {
	if id, ok := c.Get(CtxMemberID).(string); ok && id != "" {
		return "m:" + id
	}
	return "ip:" + c.RealIP()
}
