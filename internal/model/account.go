package model

import "time"

// Account represents a registered user record as stored in the
// `accounts` table.  Admin principals are not accounts; they live in
// the ADMINS environment map and never touch this table.
//
// Fields:
//  ID           – primary key identifier.
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of registration.
type Account struct {
	ID           uint64    // accounts.id
	Username     string    // accounts.username
	PasswordHash string    // accounts.password_hash
	CreatedAt    time.Time // accounts.created_at
}
