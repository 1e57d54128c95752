package service

import (
	"context"
	"log"
	"time"

	"github.com/restomap/booking-backend/internal/repository"
)

// DispatchLister finds PENDING bookings whose fulfillment message was
// never accepted by the broker. Implemented by repository.DispatchRepo.
type DispatchLister interface {
	ListUndispatched(ctx context.Context, cutoff time.Time) ([]repository.UndispatchedBooking, error)
}

// Reconciler periodically re-publishes fulfillment messages for
// bookings that were committed but whose publish failed. Without it a
// broker outage during creation would leave bookings PENDING forever
// with no detection path.
type Reconciler struct {
	Store      DispatchLister
	Dispatcher *Dispatcher
	// Interval between sweeps.
	Interval time.Duration
	// MinAge keeps the sweep away from creations whose synchronous
	// publish is still in flight.
	MinAge time.Duration
}

// Run sweeps on every tick until ctx is cancelled. It always returns
// ctx.Err(), so it slots directly into an errgroup.
func (r *Reconciler) Run(ctx context.Context) error {
	interval := r.Interval
	if interval <= 0 {
		// time.NewTicker panics on a non-positive interval; a
		// misconfigured RECONCILE_INTERVAL must not crash the server.
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Reconciler) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-r.MinAge)
	stale, err := r.Store.ListUndispatched(ctx, cutoff)
	if err != nil {
		log.Printf("reconciler: list undispatched failed: %v", err)
		return
	}
	for _, u := range stale {
		if err := r.Dispatcher.Dispatch(ctx, u.BookingID, u.AvailableOnline); err != nil {
			log.Printf("reconciler: redispatch booking %s failed: %v", u.BookingID, err)
			continue
		}
		log.Printf("reconciler: redispatched booking %s", u.BookingID)
	}
}
