package handler

// Request validation is shared through plain composable functions; each
// endpoint picks the checks it needs instead of inheriting from a common
// schema.

import (
	"errors"
	"regexp"
	"strings"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z]{3,12}$`)
	passwordRe = regexp.MustCompile(`^[a-zA-Z0-9]{4,20}$`)
)

// Upper bounds on session numbers.  Form values arrive as int and are
// stored as uint32; without a cap an absurd value like 2^32+1 would wrap
// on conversion and slip through the positivity checks.
const (
	maxSessionSeats    = 10000
	maxSessionDuration = 1440 // minutes in a day
)

func validateUsername(s string) error {
	if !usernameRe.MatchString(s) {
		return errors.New("username must be 3-12 English letters")
	}
	return nil
}

func validatePassword(s string) error {
	if !passwordRe.MatchString(s) {
		return errors.New("password must be 4-20 letters or digits")
	}
	return nil
}

func validateSessionForm(movie, cinema, hall string, seats, duration int, description string) error {
	if strings.TrimSpace(movie) == "" {
		return errors.New("movie is required")
	}
	if strings.TrimSpace(cinema) == "" {
		return errors.New("cinema is required")
	}
	if strings.TrimSpace(hall) == "" {
		return errors.New("hall is required")
	}
	if seats <= 0 || seats > maxSessionSeats {
		return errors.New("seats must be between 1 and 10000")
	}
	if duration <= 0 || duration > maxSessionDuration {
		return errors.New("duration must be between 1 and 1440 minutes")
	}
	if len(description) > 2000 {
		return errors.New("description too long")
	}
	return nil
}
