// Package service contains the booking-lifecycle orchestration that
// sits between the HTTP handlers and the repositories: fulfillment
// routing, the outcome state machine, list bucketing and the dispatch
// reconciliation sweep.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/restomap/booking-backend/internal/queue"
)

// QueuePublisher publishes a message body to a named durable queue.
// Implemented by queue.Publisher.
type QueuePublisher interface {
	Publish(ctx context.Context, queueName string, body []byte) error
}

// DispatchRecorder persists the fact that a booking's fulfillment
// message was accepted by the broker. Implemented by
// repository.DispatchRepo.
type DispatchRecorder interface {
	MarkDispatched(ctx context.Context, bookingID, queue string) error
}

// Dispatcher routes freshly created bookings to a fulfillment queue.
// Venues that support automated online booking go to OnlineQueue;
// everything else goes to CallQueue, where a human picks up the phone.
type Dispatcher struct {
	Pub         QueuePublisher
	Records     DispatchRecorder
	OnlineQueue string
	CallQueue   string
	// Timeout bounds the broker handshake for a single publish. A
	// timeout is treated the same as any other publish failure.
	Timeout time.Duration
}

// QueueFor returns the queue name the routing rule selects for the
// given venue flag.
func (d *Dispatcher) QueueFor(availableOnline bool) string {
	if availableOnline {
		return d.OnlineQueue
	}
	return d.CallQueue
}

// Dispatch publishes the fulfillment message for a booking and records
// the dispatch. The publish is synchronous: the caller must not report
// booking creation as successful until Dispatch returns nil, because an
// undispatched booking has no other detection path than the
// reconciliation sweep.
func (d *Dispatcher) Dispatch(ctx context.Context, bookingID string, availableOnline bool) error {
	body, err := json.Marshal(queue.FulfillmentMessage{BookingID: bookingID})
	if err != nil {
		return err
	}
	queueName := d.QueueFor(availableOnline)

	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}
	if err := d.Pub.Publish(ctx, queueName, body); err != nil {
		return fmt.Errorf("dispatch booking %s to %s: %w", bookingID, queueName, err)
	}
	// The message is already on the queue; a failure to record the
	// dispatch must not fail the request. Worst case the reconciler
	// re-publishes and the worker sees the id twice, which the
	// at-least-once contract already allows.
	if err := d.Records.MarkDispatched(ctx, bookingID, queueName); err != nil {
		log.Printf("dispatch: record for booking %s failed: %v", bookingID, err)
	}
	return nil
}
