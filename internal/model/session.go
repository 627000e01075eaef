package model

import "time"

// Session represents a scheduled movie screening as stored in the
// `sessions` table.  Seats is the live count of unreserved seats; it is
// decremented when a booking is created and incremented when one is
// cancelled, and is written only by the booking repository.
//
// Fields:
//  ID          – primary key identifier.
//  Movie       – movie title.
//  Cinema      – cinema name.
//  Hall        – hall name within the cinema.
//  StartsAt    – when the screening begins (UTC).
//  DurationMin – running time in minutes.
//  Description – optional synopsis shown on detail pages.
//  Seats       – remaining seat count (never negative).
//  CreatedAt   – creation timestamp.
type Session struct {
	ID          uint64    // sessions.id
	Movie       string    // sessions.movie
	Cinema      string    // sessions.cinema
	Hall        string    // sessions.hall
	StartsAt    time.Time // sessions.starts_at
	DurationMin uint32    // sessions.duration_min
	Description string    // sessions.description
	Seats       uint32    // sessions.seats
	CreatedAt   time.Time // sessions.created_at
}
