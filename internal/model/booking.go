package model

import "time"

// BookingStatus is the closed set of booking lifecycle states. It is a
// dedicated type rather than a boolean because a booking that has not
// been decided yet is neither confirmed nor rejected; collapsing the
// three states into a flag mis-buckets pending bookings in list views.
type BookingStatus string

const (
	// StatusPending means the booking awaits an external fulfillment decision.
	StatusPending BookingStatus = "PENDING"
	// StatusConfirmed means the venue accepted the reservation. Terminal.
	StatusConfirmed BookingStatus = "CONFIRMED"
	// StatusRejected means the venue declined or the reservation failed. Terminal.
	StatusRejected BookingStatus = "REJECTED"
)

// Valid reports whether s is one of the known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == StatusConfirmed || s == StatusRejected
}

// Booking is the central entity of the reservation flow, stored in the
// `bookings` table. A booking is created with status PENDING, mutated
// exactly once by the fulfillment callback and never deleted.
//
// Fields:
//  ID             – UUID assigned at creation, never reused.
//  MemberID       – member who requested the booking.
//  VenueID        – venue the booking is for.
//  RequestedAt    – date/time the member wants the table for (UTC).
//  PartySize      – number of people.
//  SpecialRequest – optional free-text request passed to the venue.
//  Status         – current lifecycle state.
//  CreatedAt      – server-assigned creation timestamp, immutable.
type Booking struct {
	ID             string        // bookings.id
	MemberID       string        // bookings.member_id
	VenueID        string        // bookings.venue_id
	RequestedAt    time.Time     // bookings.requested_at
	PartySize      int           // bookings.party_size
	SpecialRequest string        // bookings.special_request (nullable, empty when unset)
	Status         BookingStatus // bookings.status
	CreatedAt      time.Time     // bookings.created_at
}
