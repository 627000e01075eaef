// Package queue defines message payloads exchanged over the message broker.
package queue

// Event names carried in BookingEvent.Event.
const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is published after a booking transaction commits.  It
// carries enough information for downstream consumers to log or notify
// without querying the primary database.
type BookingEvent struct {
	Event      string `json:"event"`
	BookingID  uint64 `json:"booking_id"`
	AccountID  uint64 `json:"account_id"`
	SessionID  uint64 `json:"session_id"`
	Movie      string `json:"movie"`
	Cinema     string `json:"cinema"`
	Hall       string `json:"hall"`
	StartsAt   string `json:"starts_at"`
	SeatsLeft  uint32 `json:"seats_left"`
	OccurredAt string `json:"occurred_at"`
}
