package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restomap/booking-backend/internal/model"
)

func bookingAt(id string, status model.BookingStatus, at time.Time) model.Booking {
	return model.Booking{ID: id, Status: status, RequestedAt: at}
}

func TestAssembleBuckets(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		booking      model.Booking
		wantBucket   string
	}{
		{
			name:       "future pending goes to pending",
			booking:    bookingAt("b1", model.StatusPending, now.Add(2*time.Hour)),
			wantBucket: "pending",
		},
		{
			name:       "future confirmed goes to upcoming",
			booking:    bookingAt("b2", model.StatusConfirmed, now.Add(2*time.Hour)),
			wantBucket: "upcoming",
		},
		{
			name:       "future rejected goes to upcoming",
			booking:    bookingAt("b3", model.StatusRejected, now.Add(2*time.Hour)),
			wantBucket: "upcoming",
		},
		{
			name:       "past confirmed goes to archived",
			booking:    bookingAt("b4", model.StatusConfirmed, now.Add(-2*time.Hour)),
			wantBucket: "archived",
		},
		{
			name:       "past pending goes to archived not pending",
			booking:    bookingAt("b5", model.StatusPending, now.Add(-time.Minute)),
			wantBucket: "archived",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := AssembleBuckets([]model.Booking{tt.booking}, now)
			total := len(out.Upcoming) + len(out.Pending) + len(out.Archived)
			require.Equal(t, 1, total, "booking must land in exactly one bucket")
			switch tt.wantBucket {
			case "upcoming":
				assert.Equal(t, tt.booking.ID, out.Upcoming[0].ID)
			case "pending":
				assert.Equal(t, tt.booking.ID, out.Pending[0].ID)
			case "archived":
				assert.Equal(t, tt.booking.ID, out.Archived[0].ID)
			}
		})
	}
}

func TestAssembleBucketsSortsByRequestedTime(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	bookings := []model.Booking{
		bookingAt("late", model.StatusPending, now.Add(48*time.Hour)),
		bookingAt("early", model.StatusPending, now.Add(1*time.Hour)),
		bookingAt("mid", model.StatusPending, now.Add(24*time.Hour)),
	}

	out := AssembleBuckets(bookings, now)

	require.Len(t, out.Pending, 3)
	assert.Equal(t, "early", out.Pending[0].ID)
	assert.Equal(t, "mid", out.Pending[1].ID)
	assert.Equal(t, "late", out.Pending[2].ID)
}

func TestAssembleBucketsEmptyInput(t *testing.T) {
	out := AssembleBuckets(nil, time.Now())

	// Buckets must render as [] in JSON, never null.
	assert.NotNil(t, out.Upcoming)
	assert.NotNil(t, out.Pending)
	assert.NotNil(t, out.Archived)
	assert.Empty(t, out.Upcoming)
	assert.Empty(t, out.Pending)
	assert.Empty(t, out.Archived)
}
