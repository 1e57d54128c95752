package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/restomap/booking-backend/internal/model"
	"github.com/restomap/booking-backend/internal/repository"
	"github.com/restomap/booking-backend/internal/service"
)

// BookingHandler wires the booking store, catalog lookup and fulfillment
// dispatcher behind the member-facing booking endpoints. All methods
// assume JWT authentication already ran.
type BookingHandler struct {
	Bookings   *repository.BookingRepo
	Venues     *repository.VenueRepo
	Members    *repository.MemberRepo
	Dispatcher *service.Dispatcher
}

func NewBookingHandler(b *repository.BookingRepo, v *repository.VenueRepo, m *repository.MemberRepo, d *service.Dispatcher) *BookingHandler {
	if b == nil || v == nil || m == nil || d == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: b, Venues: v, Members: m, Dispatcher: d}
}

// ----- DTOs -----

type createBookingReq struct {
	VenueID        string    `json:"venue_id"`
	RequestedTime  time.Time `json:"requested_time"`
	PartySize      int       `json:"party_size"`
	SpecialRequest string    `json:"special_request"`
}

type venueSummary struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Address         string `json:"address,omitempty"`
	AvailableOnline bool   `json:"available_online"`
}

type bookingResp struct {
	ID             string       `json:"id"`
	Status         string       `json:"status"`
	RequestedTime  time.Time    `json:"requested_time"`
	PartySize      int          `json:"party_size"`
	SpecialRequest string       `json:"special_request,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	Member         memberPart   `json:"member"`
	Venue          venueSummary `json:"venue"`
}

// Create handles POST /api/bookings. It persists a PENDING booking and
// synchronously publishes the fulfillment request. A failed publish
// fails the request with 502 even though the booking row is already
// committed: the client must not believe a dead-lettered booking was
// accepted. The reconciliation sweep re-publishes such rows later.
func (h *BookingHandler) Create(c echo.Context) error {
	mid, err := memberID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.VenueID = strings.TrimSpace(req.VenueID)
	switch {
	case req.VenueID == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "venue_id required"})
	case req.RequestedTime.IsZero():
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "requested_time required"})
	case req.PartySize < 1:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "party_size must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	booking, availableOnline, err := h.Bookings.Create(ctx, mid, req.VenueID,
		req.RequestedTime, req.PartySize, strings.TrimSpace(req.SpecialRequest))
	if err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}

	if err := h.Dispatcher.Dispatch(ctx, booking.ID, availableOnline); err != nil {
		log.Printf("booking: dispatch %s failed: %v", booking.ID, err)
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error":      "dispatch_failed",
			"booking_id": booking.ID,
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"status":     "success",
		"booking_id": booking.ID,
	})
}

// List handles GET /api/bookings. Bookings are partitioned into
// upcoming / pending / archived buckets and serialized with member and
// venue summaries embedded.
func (h *BookingHandler) List(c echo.Context) error {
	mid, err := memberID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	member, err := h.Members.GetByID(ctx, mid)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load member failed"})
	}

	bookings, err := h.Bookings.ListByMember(ctx, mid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
	}
	venues, err := h.loadVenues(ctx, bookings)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load venues failed"})
	}

	buckets := service.AssembleBuckets(bookings, time.Now().UTC())
	render := func(bs []model.Booking) []bookingResp {
		out := make([]bookingResp, 0, len(bs))
		for _, b := range bs {
			out = append(out, renderBooking(b, member, venues))
		}
		return out
	}
	return c.JSON(http.StatusOK, echo.Map{
		"upcoming": render(buckets.Upcoming),
		"pending":  render(buckets.Pending),
		"archived": render(buckets.Archived),
	})
}

// Get handles GET /api/bookings/:id. Members can only see their own
// bookings; a foreign id reads as not found to avoid leaking existence.
func (h *BookingHandler) Get(c echo.Context) error {
	mid, err := memberID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	booking, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	if booking.MemberID != mid {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}

	member, err := h.Members.GetByID(ctx, mid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load member failed"})
	}
	venues, err := h.loadVenues(ctx, []model.Booking{booking})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load venues failed"})
	}
	return c.JSON(http.StatusOK, renderBooking(booking, member, venues))
}

func (h *BookingHandler) loadVenues(ctx context.Context, bookings []model.Booking) (map[string]model.Venue, error) {
	seen := make(map[string]struct{}, len(bookings))
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		if _, ok := seen[b.VenueID]; !ok {
			seen[b.VenueID] = struct{}{}
			ids = append(ids, b.VenueID)
		}
	}
	return h.Venues.ListByIDs(ctx, ids)
}

func renderBooking(b model.Booking, m model.Member, venues map[string]model.Venue) bookingResp {
	v := venues[b.VenueID]
	return bookingResp{
		ID:             b.ID,
		Status:         string(b.Status),
		RequestedTime:  b.RequestedAt,
		PartySize:      b.PartySize,
		SpecialRequest: b.SpecialRequest,
		CreatedAt:      b.CreatedAt,
		Member: memberPart{
			ID: m.ID, TelegramID: m.TelegramID,
			Username: m.Username, FirstName: m.FirstName,
			Phone: m.Phone, Role: m.Role(),
		},
		Venue: venueSummary{
			ID: v.ID, Name: v.Name, Address: v.Address,
			AvailableOnline: v.AvailableOnline,
		},
	}
}
