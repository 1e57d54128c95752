// Package queue defines the fulfillment wire contract and the pooled
// RabbitMQ publisher used to dispatch bookings to the external workers.
package queue

// FulfillmentMessage is the body published to the fulfillment queues.
// It carries only the booking id: the worker re-fetches the full
// booking state, so a message can never hold a stale snapshot of the
// booking it refers to.
type FulfillmentMessage struct {
	BookingID string `json:"booking_id"`
}
