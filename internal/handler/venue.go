package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/restomap/booking-backend/internal/model"
	"github.com/restomap/booking-backend/internal/repository"
)

// VenueHandler exposes the read-only venue catalog.
type VenueHandler struct {
	Venues *repository.VenueRepo
}

func NewVenueHandler(v *repository.VenueRepo) *VenueHandler {
	return &VenueHandler{Venues: v}
}

type venueResp struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Phone           string  `json:"phone,omitempty"`
	Address         string  `json:"address,omitempty"`
	Type            string  `json:"type,omitempty"`
	AverageCheck    string  `json:"average_check,omitempty"`
	Description     string  `json:"description,omitempty"`
	Lat             float64 `json:"lat,omitempty"`
	Lon             float64 `json:"lon,omitempty"`
	AvailableOnline bool    `json:"available_online"`
}

// Search handles GET /api/venues?search=&page=&page_size=. Substring
// matching over name, address and description with pagination.
func (h *VenueHandler) Search(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	ps, _ := strconv.Atoi(c.QueryParam("page_size"))
	if ps < 1 {
		ps = 20
	}
	if ps > 100 {
		ps = 100
	}

	q := repository.VenueSearchQuery{
		Search:   strings.TrimSpace(c.QueryParam("search")),
		Page:     page,
		PageSize: ps,
	}
	items, total, err := h.Venues.Search(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database_error"})
	}

	out := make([]venueResp, 0, len(items))
	for _, v := range items {
		out = append(out, renderVenue(v))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data":      out,
		"total":     total,
		"page":      page,
		"page_size": ps,
	})
}

// Get handles GET /api/venues/:id.
func (h *VenueHandler) Get(c echo.Context) error {
	v, err := h.Venues.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database_error"})
	}
	return c.JSON(http.StatusOK, renderVenue(v))
}

func renderVenue(v model.Venue) venueResp {
	return venueResp{
		ID:              v.ID,
		Name:            v.Name,
		Phone:           v.Phone,
		Address:         v.Address,
		Type:            v.Type,
		AverageCheck:    v.AverageCheck,
		Description:     v.Description,
		Lat:             v.Lat,
		Lon:             v.Lon,
		AvailableOnline: v.AvailableOnline,
	}
}
