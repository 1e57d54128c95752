package service

import (
	"sort"
	"time"

	"github.com/restomap/booking-backend/internal/model"
)

// BucketedBookings is the member-facing partition of a booking list.
// A booking lands in exactly one bucket.
type BucketedBookings struct {
	Upcoming []model.Booking // decided (confirmed or rejected), requested time in the future
	Pending  []model.Booking // awaiting fulfillment, requested time in the future
	Archived []model.Booking // requested time already passed, regardless of status
}

// AssembleBuckets partitions bookings relative to now. The temporal
// position always wins over the status: a booking whose requested time
// has passed is archived even if it is still PENDING, because the event
// it was for is over. Future bookings split by status: PENDING goes to
// Pending, both terminal states go to Upcoming. Each bucket is sorted
// by requested time ascending for stable display.
func AssembleBuckets(bookings []model.Booking, now time.Time) BucketedBookings {
	out := BucketedBookings{
		Upcoming: []model.Booking{},
		Pending:  []model.Booking{},
		Archived: []model.Booking{},
	}
	for _, b := range bookings {
		switch {
		case b.RequestedAt.Before(now):
			out.Archived = append(out.Archived, b)
		case b.Status == model.StatusPending:
			out.Pending = append(out.Pending, b)
		default:
			out.Upcoming = append(out.Upcoming, b)
		}
	}
	byTime := func(s []model.Booking) func(i, j int) bool {
		return func(i, j int) bool { return s[i].RequestedAt.Before(s[j].RequestedAt) }
	}
	sort.Slice(out.Upcoming, byTime(out.Upcoming))
	sort.Slice(out.Pending, byTime(out.Pending))
	sort.Slice(out.Archived, byTime(out.Archived))
	return out
}
