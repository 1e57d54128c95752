package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/restomap/booking-backend/internal/model"
	"github.com/restomap/booking-backend/internal/notify"
)

// ErrUnknownOutcome is returned when a callback carries an outcome code
// that is not in the configured success/failure mapping. The booking is
// left untouched.
var ErrUnknownOutcome = errors.New("unknown outcome code")

// BookingStore is the slice of the booking repository the fulfillment
// handler needs. Implemented by repository.BookingRepo.
type BookingStore interface {
	ApplyOutcome(ctx context.Context, id string, status model.BookingStatus) (model.Booking, bool, error)
}

// MemberStore resolves a member for notification. Implemented by
// repository.MemberRepo.
type MemberStore interface {
	GetByID(ctx context.Context, id string) (model.Member, error)
}

// OutcomeMap translates the worker-supplied outcome code into a
// terminal booking status. The codes come from deployment
// configuration, never from user input.
type OutcomeMap struct {
	SuccessCode string
	FailureCode string
}

// Status returns the terminal status for a code, or ErrUnknownOutcome.
func (m OutcomeMap) Status(code string) (model.BookingStatus, error) {
	switch code {
	case m.SuccessCode:
		return model.StatusConfirmed, nil
	case m.FailureCode:
		return model.StatusRejected, nil
	}
	return "", ErrUnknownOutcome
}

// Fulfillment applies worker-reported outcomes to bookings and fires
// the member notification.
type Fulfillment struct {
	Bookings BookingStore
	Members  MemberStore
	Notifier notify.Notifier
	Outcomes OutcomeMap
}

// ReportOutcome maps the outcome code, applies the state transition and
// notifies the member. The transition is the durable fact: a
// notification failure is logged and swallowed, never propagated.
// Redelivery of an already-applied outcome is a no-op and does not
// notify again. Possible errors: ErrUnknownOutcome,
// repository.ErrBookingNotFound, repository.ErrInvalidTransition.
func (f *Fulfillment) ReportOutcome(ctx context.Context, bookingID, code string) (model.Booking, error) {
	status, err := f.Outcomes.Status(code)
	if err != nil {
		return model.Booking{}, err
	}

	booking, applied, err := f.Bookings.ApplyOutcome(ctx, bookingID, status)
	if err != nil {
		return model.Booking{}, err
	}
	if applied {
		f.notify(ctx, booking)
	}
	return booking, nil
}

func (f *Fulfillment) notify(ctx context.Context, b model.Booking) {
	member, err := f.Members.GetByID(ctx, b.MemberID)
	if err != nil {
		log.Printf("notify: load member %s for booking %s failed: %v", b.MemberID, b.ID, err)
		return
	}
	if err := f.Notifier.Notify(ctx, member.TelegramID, OutcomeMessage(b)); err != nil {
		log.Printf("notify: booking %s to member %s failed: %v", b.ID, b.MemberID, err)
	}
}

// OutcomeMessage renders the human-readable notification text for a
// decided booking.
func OutcomeMessage(b model.Booking) string {
	when := b.RequestedAt.UTC().Format("02.01.2006 15:04")
	switch b.Status {
	case model.StatusConfirmed:
		return fmt.Sprintf("Your table for %d on %s is confirmed. See you there!", b.PartySize, when)
	case model.StatusRejected:
		return fmt.Sprintf("Unfortunately your booking for %d on %s could not be confirmed. Please try another time or venue.", b.PartySize, when)
	}
	return fmt.Sprintf("Your booking for %d on %s is being processed.", b.PartySize, when)
}
