// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrVenueNotFound must surface as a 404 while
// ErrInvalidTransition must surface as a 409, because a worker that
// reports a conflicting outcome needs to know the booking was already
// decided the other way rather than retry blindly.
package repository

import "errors"

// ErrVenueNotFound is returned when a venue id does not resolve to a
// catalog row. Handlers should translate this into an HTTP 404.
var ErrVenueNotFound = errors.New("venue not found")

// ErrBookingNotFound is returned when a booking id does not exist.
// Handlers should translate this into an HTTP 404.
var ErrBookingNotFound = errors.New("booking not found")

// ErrMemberNotFound is returned when a member id does not exist, for
// example when a refresh token references an unknown subject.
var ErrMemberNotFound = errors.New("member not found")

// ErrInvalidTransition is returned when a terminal outcome is applied
// to a booking that already carries the other terminal outcome. The
// stored state is left unchanged. Handlers should translate this into
// an HTTP 409.
var ErrInvalidTransition = errors.New("invalid status transition")
