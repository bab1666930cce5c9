// Copyright (c) 2026 Punchline. All rights reserved.

package joke

import "context"

// # Joke Data Access

// Repository defines the data access contract for joke records.
//
// Each call is atomic: create, find, and delete are individually
// all-or-nothing, and the service layer never assumes consistency across two
// calls beyond what the delete pipeline documents.
type Repository interface {

	// ListRecent returns up to limit jokes ordered by creation time,
	// newest first.
	ListRecent(ctx context.Context, limit int) ([]ListItem, error)

	// FindByID returns the joke with the given id, or apperr.NotFound.
	FindByID(ctx context.Context, id string) (*Joke, error)

	// Create persists a brand-new joke record.
	Create(ctx context.Context, joke *Joke) error

	// Delete removes the joke with the given id. It fails with
	// apperr.NotFound when no such row exists — callers rely on that to
	// surface a concurrent delete as the canonical NotFound result.
	Delete(ctx context.Context, id string) error
}
