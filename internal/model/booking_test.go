package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusConfirmed.Valid())
	assert.True(t, StatusRejected.Valid())
	assert.False(t, BookingStatus("CANCELLED").Valid())
	assert.False(t, BookingStatus("").Valid())
}

func TestBookingStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusConfirmed.Terminal())
	assert.True(t, StatusRejected.Terminal())
}
