// Copyright (c) 2026 Punchline. All rights reserved.

package auth

import "context"

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	// FindByID returns the account with the given id, or apperr.NotFound.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByUsername returns the account with the given username, or
	// apperr.NotFound.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// Create persists a brand-new user account.
	Create(ctx context.Context, user *User) error
}
