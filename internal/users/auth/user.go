// Copyright (c) 2026 Punchline. All rights reserved.

/*
Package auth implements the user identity layer: accounts, credentials, and
the login/logout lifecycle that issues and clears signed sessions.

# Architecture

Entities defined here have no transport dependencies. The service composes
the user repository with the session codec; the handler owns the cookie
boundary.
*/
package auth

import "time"

// # Domain Entities

// User represents a registered member.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// # Field Identifiers

// Form field names used in validation and submission decoding.
const (
	FieldUsername   = "username"
	FieldPassword   = "password"
	FieldRedirectTo = "redirectTo"
)

// # Credential Constraints

const (
	// MinUsernameLen is the minimum rune count of a username.
	MinUsernameLen = 3

	// MinPasswordLen is the minimum rune count of a password.
	MinPasswordLen = 6
)
