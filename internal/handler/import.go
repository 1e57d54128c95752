package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/restomap/booking-backend/internal/importer"
)

// ImportHandler triggers a catalog import from a listings export file
// already present on the server. Guarded by JWT auth with the ADMIN
// role, since a bad file can overwrite venue data.
type ImportHandler struct {
	Importer *importer.Importer
}

func NewImportHandler(i *importer.Importer) *ImportHandler {
	return &ImportHandler{Importer: i}
}

// Import handles POST /api/internal/import with body {"file": "<path>"}.
func (h *ImportHandler) Import(c echo.Context) error {
	var req struct {
		File string `json:"file"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.File) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	imported, err := h.Importer.ImportFile(ctx, strings.TrimSpace(req.File))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":    "import failed",
			"imported": imported,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "imported": imported})
}
