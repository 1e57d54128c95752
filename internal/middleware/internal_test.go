package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternalAuth(t *testing.T) {
	const token = "shared-secret"

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid token passes", header: token, wantStatus: http.StatusOK},
		{name: "wrong token rejected", header: "nope", wantStatus: http.StatusUnauthorized},
		{name: "missing token rejected", header: "", wantStatus: http.StatusUnauthorized},
	}

	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	mw := InternalAuth(token)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/internal/bookings/b1/outcome", nil)
			if tt.header != "" {
				req.Header.Set("X-Internal-Token", tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := mw(next)(c)

			if tt.wantStatus == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)
				return
			}
			// The middleware writes the JSON error itself.
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
