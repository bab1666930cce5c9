// Copyright (c) 2026 Punchline. All rights reserved.

package joke

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/punchline-app/punchline/internal/platform/apperr"
	"github.com/punchline-app/punchline/internal/platform/constants"
	"github.com/punchline-app/punchline/internal/platform/validate"
	"github.com/punchline-app/punchline/pkg/textutil"
	"github.com/punchline-app/punchline/pkg/uuidv7"
)

// Service implements the joke use cases: list, view, create, delete.
//
// Mutations run a strict linear pipeline — identity is resolved and required
// by the handler before the service is called, then the service validates,
// authorizes, and mutates in that order. No step branches back.
type Service struct {
	repo   Repository
	cache  RecentCache
	logger *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
//
// cache may be nil; the service then reads straight from the repository.
func NewService(repo Repository, cache RecentCache, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// # Read Views

// ListRecent returns the newest jokes for the shared list view, capped at
// [constants.RecentJokesLimit]. No session state is required.
func (service *Service) ListRecent(ctx context.Context) ([]ListItem, error) {
	if service.cache != nil {
		items, err := service.cache.Get(ctx)
		if err != nil {
			// Cache trouble must never fail a read; fall through to the repository.
			service.logger.WarnContext(ctx, "recent_jokes_cache_read_failed", slog.Any("error", err))
		} else if items != nil {
			return items, nil
		}
	}

	items, err := service.repo.ListRecent(ctx, constants.RecentJokesLimit)
	if err != nil {
		return nil, err
	}

	if service.cache != nil {
		if err := service.cache.Set(ctx, items); err != nil {
			service.logger.WarnContext(ctx, "recent_jokes_cache_write_failed", slog.Any("error", err))
		}
	}

	return items, nil
}

// Get returns the single-joke view.
//
// viewerID is the softly-resolved identity ("" when anonymous); it only
// feeds the advisory IsOwner flag. A non-UUID id is a NotFound, same as a
// well-formed id that matches no row.
func (service *Service) Get(ctx context.Context, id, viewerID string) (*Detail, error) {
	if !validate.IsUUID(id) {
		return nil, apperr.NotFound("Joke")
	}

	record, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Detail{
		Joke:    record,
		IsOwner: viewerID != "" && viewerID == record.OwnerID,
	}, nil
}

// # Creation Flow

// CreateInput holds the typed submission for a new joke.
type CreateInput struct {
	Name    string
	Content string
}

// Create validates the submission and persists a new joke owned by ownerID.
//
// The caller has already required authentication; ownerID is never empty
// here. On validation failure the returned error carries both the per-field
// errors and an echo of the submitted values so the form can be re-rendered
// pre-filled. The repository is never touched on invalid input.
func (service *Service) Create(ctx context.Context, ownerID string, input CreateInput) (*Joke, error) {
	name := textutil.Clean(input.Name)
	content := textutil.Clean(input.Content)

	validator := &validate.Validator{}
	validator.
		Custom(FieldName, utf8.RuneCountInString(name) < MinNameLen, "Joke's name is too short").
		Custom(FieldContent, utf8.RuneCountInString(content) < MinContentLen, "Joke's content is too short")

	if err := validator.Err(); err != nil {
		return nil, apperr.As(err).WithFields(map[string]string{
			FieldName:    input.Name,
			FieldContent: input.Content,
		})
	}

	record := &Joke{
		ID:      uuidv7.New(),
		Name:    name,
		Content: content,
		OwnerID: ownerID,
	}

	if err := service.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	service.invalidateRecent(ctx)

	service.logger.InfoContext(ctx, "joke_created",
		slog.String("joke_id", record.ID),
		slog.String("owner_id", ownerID),
	)

	return record, nil
}

// # Deletion Flow

// Delete removes a joke after the authorization gate allows it.
//
// Pipeline: existence check first (NotFound before ownership is even
// considered), then the ownership gate against the SAME fetched record —
// never a re-fetch that could race a concurrent delete. If the row vanishes
// between the fetch and the DELETE, the repository's own NotFound is the
// canonical result and is returned unmasked.
func (service *Service) Delete(ctx context.Context, id, requesterID string) error {
	if !validate.IsUUID(id) {
		return apperr.NotFound("Joke")
	}

	record, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := authorizeDelete(requesterID, record); err != nil {
		return err
	}

	if err := service.repo.Delete(ctx, id); err != nil {
		return err
	}

	service.invalidateRecent(ctx)

	service.logger.InfoContext(ctx, "joke_deleted",
		slog.String("joke_id", id),
		slog.String("owner_id", requesterID),
	)

	return nil
}

// authorizeDelete is the authorization gate for joke deletion: allow iff the
// requester IS the owner.
//
// This gate is the trust boundary for deletion. The IsOwner flag on [Detail]
// is advisory display state only and must never substitute for this check.
func authorizeDelete(requesterID string, record *Joke) error {
	if requesterID != record.OwnerID {
		return apperr.Forbidden("That's not your joke")
	}
	return nil
}

// invalidateRecent drops the list cache after a mutation. Best effort: a
// short TTL bounds staleness if the invalidation is lost.
func (service *Service) invalidateRecent(ctx context.Context) {
	if service.cache == nil {
		return
	}
	if err := service.cache.Invalidate(ctx); err != nil {
		service.logger.WarnContext(ctx, "recent_jokes_cache_invalidate_failed", slog.Any("error", err))
	}
}
