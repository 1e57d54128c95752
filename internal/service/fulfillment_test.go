package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restomap/booking-backend/internal/model"
	"github.com/restomap/booking-backend/internal/repository"
)

type fakeBookingStore struct {
	booking    model.Booking
	applied    bool
	err        error
	gotID      string
	gotStatus  model.BookingStatus
	applyCalls int
}

func (f *fakeBookingStore) ApplyOutcome(_ context.Context, id string, status model.BookingStatus) (model.Booking, bool, error) {
	f.applyCalls++
	f.gotID = id
	f.gotStatus = status
	if f.err != nil {
		return model.Booking{}, false, f.err
	}
	b := f.booking
	b.Status = status
	return b, f.applied, nil
}

type fakeMemberStore struct {
	member model.Member
	err    error
}

func (f *fakeMemberStore) GetByID(context.Context, string) (model.Member, error) {
	return f.member, f.err
}

type fakeNotifier struct {
	chatIDs []int64
	texts   []string
	err     error
}

func (f *fakeNotifier) Notify(_ context.Context, chatID int64, text string) error {
	f.chatIDs = append(f.chatIDs, chatID)
	f.texts = append(f.texts, text)
	return f.err
}

func newTestFulfillment(store *fakeBookingStore, notifier *fakeNotifier) *Fulfillment {
	return &Fulfillment{
		Bookings: store,
		Members:  &fakeMemberStore{member: model.Member{ID: "m1", TelegramID: 4242}},
		Notifier: notifier,
		Outcomes: OutcomeMap{SuccessCode: "BOOKED", FailureCode: "DECLINED"},
	}
}

func TestReportOutcomeConfirms(t *testing.T) {
	store := &fakeBookingStore{
		booking: model.Booking{ID: "b1", MemberID: "m1", PartySize: 2},
		applied: true,
	}
	notifier := &fakeNotifier{}
	f := newTestFulfillment(store, notifier)

	booking, err := f.ReportOutcome(context.Background(), "b1", "BOOKED")

	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, booking.Status)
	assert.Equal(t, "b1", store.gotID)
	assert.Equal(t, model.StatusConfirmed, store.gotStatus)
	require.Len(t, notifier.chatIDs, 1)
	assert.Equal(t, int64(4242), notifier.chatIDs[0])
}

func TestReportOutcomeRejects(t *testing.T) {
	store := &fakeBookingStore{
		booking: model.Booking{ID: "b1", MemberID: "m1", PartySize: 4},
		applied: true,
	}
	notifier := &fakeNotifier{}
	f := newTestFulfillment(store, notifier)

	booking, err := f.ReportOutcome(context.Background(), "b1", "DECLINED")

	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, booking.Status)
	assert.Equal(t, model.StatusRejected, store.gotStatus)
	require.Len(t, notifier.texts, 1)
	assert.Contains(t, notifier.texts[0], "could not be confirmed")
}

func TestReportOutcomeUnknownCode(t *testing.T) {
	store := &fakeBookingStore{}
	f := newTestFulfillment(store, &fakeNotifier{})

	_, err := f.ReportOutcome(context.Background(), "b1", "WAT")

	assert.ErrorIs(t, err, ErrUnknownOutcome)
	assert.Zero(t, store.applyCalls, "unknown code must not touch the booking")
}

func TestReportOutcomeRedeliveryDoesNotNotifyAgain(t *testing.T) {
	// applied=false models a redelivery: the booking already carries
	// the same terminal status.
	store := &fakeBookingStore{
		booking: model.Booking{ID: "b1", MemberID: "m1"},
		applied: false,
	}
	notifier := &fakeNotifier{}
	f := newTestFulfillment(store, notifier)

	booking, err := f.ReportOutcome(context.Background(), "b1", "BOOKED")

	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, booking.Status)
	assert.Empty(t, notifier.chatIDs, "redelivery must not re-notify")
}

func TestReportOutcomeConflictingOutcome(t *testing.T) {
	store := &fakeBookingStore{err: repository.ErrInvalidTransition}
	notifier := &fakeNotifier{}
	f := newTestFulfillment(store, notifier)

	_, err := f.ReportOutcome(context.Background(), "b1", "DECLINED")

	assert.ErrorIs(t, err, repository.ErrInvalidTransition)
	assert.Empty(t, notifier.chatIDs)
}

func TestReportOutcomeNotifierFailureIsSwallowed(t *testing.T) {
	store := &fakeBookingStore{
		booking: model.Booking{ID: "b1", MemberID: "m1"},
		applied: true,
	}
	notifier := &fakeNotifier{err: errors.New("telegram down")}
	f := newTestFulfillment(store, notifier)

	booking, err := f.ReportOutcome(context.Background(), "b1", "BOOKED")

	require.NoError(t, err, "the transition is the durable fact")
	assert.Equal(t, model.StatusConfirmed, booking.Status)
}

func TestOutcomeMessage(t *testing.T) {
	at := time.Date(2025, 7, 1, 19, 30, 0, 0, time.UTC)

	confirmed := OutcomeMessage(model.Booking{Status: model.StatusConfirmed, PartySize: 3, RequestedAt: at})
	assert.Contains(t, confirmed, "confirmed")
	assert.Contains(t, confirmed, "01.07.2025 19:30")

	rejected := OutcomeMessage(model.Booking{Status: model.StatusRejected, PartySize: 3, RequestedAt: at})
	assert.Contains(t, rejected, "could not be confirmed")
}
