// Copyright (c) 2026 Punchline. All rights reserved.

/*
Package joke implements the shared joke catalogue: the only user-generated
content in Punchline.

It defines the domain entity, the repository contract, and the mutation
pipeline (resolve identity, authorize, validate, mutate, redirect) that gates
every change to the shared list.

# Ownership

A joke's owner is fixed at creation and never reassigned. Ownership is
enforced at authorization time by the delete gate, not by the storage layer.
*/
package joke

import "time"

// # Domain Entities

// Joke represents a single submitted joke.
type Joke struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ListItem is the trimmed projection used by the shared list view.
type ListItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Detail is the single-joke view payload.
//
// IsOwner is a UI affordance only (it controls whether the client offers a
// delete button). It is NOT a trust boundary: the delete pipeline re-checks
// ownership independently on every mutation.
type Detail struct {
	Joke    *Joke `json:"joke"`
	IsOwner bool  `json:"is_owner"`
}

// # Field Identifiers

// Form field names for validation and submission decoding in the joke domain.
const (
	FieldName    = "name"
	FieldContent = "content"
	FieldMethod  = "_method"
)

// MethodDelete is the only accepted value of the _method override marker.
const MethodDelete = "delete"

// # Validation Constraints

const (
	// MinNameLen is the minimum rune count of a joke's name.
	MinNameLen = 3

	// MinContentLen is the minimum rune count of a joke's content.
	MinContentLen = 10
)
