package model

import "time"

// Booking binds one account to one session and consumes exactly one
// seat.  A given (account, session) pair holds at most one live
// booking, enforced by a unique index on the pair.
//
// Fields:
//  ID        – primary key identifier.
//  AccountID – owning account.
//  SessionID – referenced session.
//  CreatedAt – when the seat was reserved.
type Booking struct {
	ID        uint64    // bookings.id
	AccountID uint64    // bookings.account_id
	SessionID uint64    // bookings.session_id
	CreatedAt time.Time // bookings.created_at
}
