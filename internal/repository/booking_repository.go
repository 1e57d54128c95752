package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/restomap/booking-backend/internal/model"
)

// BookingRepo owns the persisted state of the booking lifecycle. A
// booking row is written twice in its life: once by Create (insert,
// status PENDING) and at most once by ApplyOutcome (conditional status
// update). Rows are never deleted.
type BookingRepo struct{ DB *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

const bookingCols = `id, member_id, venue_id, requested_at, party_size, COALESCE(special_request,''), status, created_at`

// Create inserts a new PENDING booking with a fresh UUID. The venue
// existence check and the insert run inside one transaction so that a
// booking can never reference a venue that was removed between check
// and insert. The venue's available_online flag is returned alongside
// the booking because routing needs it immediately after creation.
func (r *BookingRepo) Create(ctx context.Context, memberID, venueID string, requestedAt time.Time, partySize int, specialRequest string) (model.Booking, bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Booking{}, false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the venue row for the duration of the transaction so a
	// concurrent catalog rewrite cannot delete it mid-create.
	var availableOnline bool
	err = tx.QueryRowContext(ctx,
		`SELECT available_online FROM venues WHERE id=? FOR SHARE`, venueID).Scan(&availableOnline)
	if err == sql.ErrNoRows {
		return model.Booking{}, false, ErrVenueNotFound
	}
	if err != nil {
		return model.Booking{}, false, err
	}

	b := model.Booking{
		ID:             uuid.NewString(),
		MemberID:       memberID,
		VenueID:        venueID,
		RequestedAt:    requestedAt.UTC(),
		PartySize:      partySize,
		SpecialRequest: specialRequest,
		Status:         model.StatusPending,
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (id, member_id, venue_id, requested_at, party_size, special_request, status)
		 VALUES (?,?,?,?,?,?,?)`,
		b.ID, b.MemberID, b.VenueID, b.RequestedAt, b.PartySize,
		nullable(b.SpecialRequest), string(b.Status)); err != nil {
		return model.Booking{}, false, err
	}
	// Read back the server-assigned creation timestamp.
	if err := tx.QueryRowContext(ctx,
		`SELECT created_at FROM bookings WHERE id=?`, b.ID).Scan(&b.CreatedAt); err != nil {
		return model.Booking{}, false, err
	}
	if err := tx.Commit(); err != nil {
		return model.Booking{}, false, err
	}
	committed = true
	return b, availableOnline, nil
}

// GetByID fetches a booking by id. Returns ErrBookingNotFound when no
// row exists.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (model.Booking, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE id=? LIMIT 1`, id)
	return scanBooking(row.Scan)
}

// ListByMember returns all bookings belonging to a member. The result
// is unordered; callers impose their own ordering or bucketing.
func (r *BookingRepo) ListByMember(ctx context.Context, memberID string) ([]model.Booking, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE member_id=?`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ApplyOutcome moves a PENDING booking to the given terminal status.
// The transition is a conditional update so that two concurrent
// callbacks for the same booking are serialized by the row: exactly one
// wins, the other observes the already-applied state. Update and
// read-back share one transaction, so an error return always means the
// transition did not commit and the caller may retry; a transition can
// never be applied yet reported as failed. The returned bool reports
// whether this call performed the transition; false with a nil error
// means the same terminal status was already applied (at-least-once
// redelivery, treated as a no-op).
func (r *BookingRepo) ApplyOutcome(ctx context.Context, id string, status model.BookingStatus) (model.Booking, bool, error) {
	if !status.Terminal() {
		return model.Booking{}, false, ErrInvalidTransition
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Booking{}, false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status=? WHERE id=? AND status=?`,
		string(status), id, string(model.StatusPending))
	if err != nil {
		return model.Booking{}, false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Booking{}, false, err
	}

	row := tx.QueryRowContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE id=? LIMIT 1`, id)
	b, err := scanBooking(row.Scan)
	if err != nil {
		return model.Booking{}, false, err
	}
	if err := tx.Commit(); err != nil {
		return model.Booking{}, false, err
	}
	committed = true

	if n == 1 {
		return b, true, nil
	}
	// No row changed: either the same outcome was redelivered or the
	// opposite outcome was already applied. A missing row was caught by
	// the read above.
	if b.Status == status {
		return b, false, nil
	}
	return b, false, ErrInvalidTransition
}

func scanBooking(scan func(dest ...any) error) (model.Booking, error) {
	var b model.Booking
	var status string
	err := scan(&b.ID, &b.MemberID, &b.VenueID, &b.RequestedAt, &b.PartySize,
		&b.SpecialRequest, &status, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Booking{}, ErrBookingNotFound
	}
	b.Status = model.BookingStatus(status)
	return b, err
}
