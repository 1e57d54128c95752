package repository

import (
	"context"
	"database/sql"
	"time"
)

// DispatchRepo records successful fulfillment publishes in the
// `booking_dispatches` table. A PENDING booking with no dispatch row is
// a booking whose creation request failed after commit (broker down,
// publish timeout); the reconciliation sweep finds and re-publishes
// those. The table is append-only: one row per booking, written after
// the broker accepted the message.
type DispatchRepo struct{ DB *sql.DB }

func NewDispatchRepo(db *sql.DB) *DispatchRepo { return &DispatchRepo{DB: db} }

// MarkDispatched records that the fulfillment message for a booking was
// accepted by the broker on the given queue. Safe to call again for the
// same booking after a reconciler re-publish.
func (r *DispatchRepo) MarkDispatched(ctx context.Context, bookingID, queue string) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO booking_dispatches (booking_id, queue)
		 VALUES (?,?)
		 ON DUPLICATE KEY UPDATE queue=VALUES(queue), dispatched_at=NOW()`,
		bookingID, queue)
	return err
}

// UndispatchedBooking is a PENDING booking with no dispatch record,
// joined with the venue routing flag needed to re-publish it.
type UndispatchedBooking struct {
	BookingID       string
	AvailableOnline bool
}

// ListUndispatched returns PENDING bookings created before the cutoff
// that have no dispatch record. The cutoff keeps the sweep from racing
// with creations whose publish is still in flight.
func (r *DispatchRepo) ListUndispatched(ctx context.Context, cutoff time.Time) ([]UndispatchedBooking, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT b.id, v.available_online
		 FROM bookings b
		 JOIN venues v ON v.id = b.venue_id
		 LEFT JOIN booking_dispatches d ON d.booking_id = b.id
		 WHERE b.status = 'PENDING' AND d.booking_id IS NULL AND b.created_at < ?`,
		cutoff.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UndispatchedBooking
	for rows.Next() {
		var u UndispatchedBooking
		if err := rows.Scan(&u.BookingID, &u.AvailableOnline); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
