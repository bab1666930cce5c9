// Copyright (c) 2026 Punchline. All rights reserved.

package joke_test

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/punchline-app/punchline/internal/core/joke"
	"github.com/punchline-app/punchline/internal/platform/apperr"
)

const (
	ownerID    = "0192d3a1-7c4e-7c21-b9a0-2f6f3a1b9c01"
	strangerID = "0192d3a1-7c4e-7c21-b9a0-2f6f3a1b9c02"
	jokeID     = "0192d3a1-7c4e-7c21-b9a0-2f6f3a1b9cff"
)

// # Test Doubles

// fakeRepository is an in-memory [joke.Repository] for service tests.
type fakeRepository struct {
	jokes       map[string]*joke.Joke
	order       []string
	createCalls int

	// vanishOnDelete simulates a row deleted by a concurrent request between
	// the service's fetch and its DELETE.
	vanishOnDelete bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{jokes: map[string]*joke.Joke{}}
}

func (r *fakeRepository) ListRecent(_ context.Context, limit int) ([]joke.ListItem, error) {
	items := make([]joke.ListItem, 0, limit)
	for i := len(r.order) - 1; i >= 0 && len(items) < limit; i-- {
		record := r.jokes[r.order[i]]
		items = append(items, joke.ListItem{ID: record.ID, Name: record.Name})
	}
	return items, nil
}

func (r *fakeRepository) FindByID(_ context.Context, id string) (*joke.Joke, error) {
	record, ok := r.jokes[id]
	if !ok {
		return nil, apperr.NotFound("Joke")
	}
	return record, nil
}

func (r *fakeRepository) Create(_ context.Context, record *joke.Joke) error {
	r.createCalls++
	r.jokes[record.ID] = record
	r.order = append(r.order, record.ID)
	return nil
}

func (r *fakeRepository) Delete(_ context.Context, id string) error {
	if r.vanishOnDelete {
		return apperr.NotFound("Joke")
	}
	if _, ok := r.jokes[id]; !ok {
		return apperr.NotFound("Joke")
	}
	delete(r.jokes, id)
	return nil
}

func (r *fakeRepository) seed(record *joke.Joke) {
	r.jokes[record.ID] = record
	r.order = append(r.order, record.ID)
}

// fakeCache is an in-memory [joke.RecentCache] that counts invalidations.
type fakeCache struct {
	items       []joke.ListItem
	invalidated int
}

func (c *fakeCache) Get(context.Context) ([]joke.ListItem, error) { return c.items, nil }

func (c *fakeCache) Set(_ context.Context, items []joke.ListItem) error {
	c.items = items
	return nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.items = nil
	c.invalidated++
	return nil
}

func newService(repo *fakeRepository, cache *fakeCache) *joke.Service {
	var rc joke.RecentCache
	if cache != nil {
		rc = cache
	}
	return joke.NewService(repo, rc, slog.Default())
}

// # Read Views

func TestService_ListRecent_CacheMissThenHit(t *testing.T) {
	repo := newFakeRepository()
	repo.seed(&joke.Joke{ID: jokeID, Name: "Road worker", Content: "I used to be a road worker...", OwnerID: ownerID})
	cache := &fakeCache{}
	service := newService(repo, cache)

	items, err := service.ListRecent(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)

	// Miss populated the cache.
	assert.Len(t, cache.items, 1)

	// Second read is served from cache even if the repo changes underneath.
	repo.jokes = map[string]*joke.Joke{}
	repo.order = nil
	items, err = service.ListRecent(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestService_ListRecent_NewestFirstCapped(t *testing.T) {
	repo := newFakeRepository()
	ids := []string{
		"0192d3a1-7c4e-7c21-b9a0-2f6f3a1b9c11",
		"0192d3a1-7c4e-7c21-b9a0-2f6f3a1b9c12",
		"0192d3a1-7c4e-7c21-b9a0-2f6f3a1b9c13",
		"0192d3a1-7c4e-7c21-b9a0-2f6f3a1b9c14",
		"0192d3a1-7c4e-7c21-b9a0-2f6f3a1b9c15",
		"0192d3a1-7c4e-7c21-b9a0-2f6f3a1b9c16",
	}
	for i, id := range ids {
		repo.seed(&joke.Joke{ID: id, Name: string(rune('a' + i)), OwnerID: ownerID})
	}
	service := newService(repo, nil)

	items, err := service.ListRecent(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.Equal(t, ids[5], items[0].ID)
	assert.Equal(t, ids[1], items[4].ID)
}

func TestService_Get(t *testing.T) {
	repo := newFakeRepository()
	repo.seed(&joke.Joke{ID: jokeID, Name: "Frisbee", Content: "I was wondering why the frisbee was getting bigger", OwnerID: ownerID})
	service := newService(repo, nil)

	tests := []struct {
		name      string
		id        string
		viewerID  string
		wantOwner bool
		wantCode  string
	}{
		{"owner_view", jokeID, ownerID, true, ""},
		{"stranger_view", jokeID, strangerID, false, ""},
		{"anonymous_view", jokeID, "", false, ""},
		{"unknown_id", "0192d3a1-7c4e-7c21-b9a0-2f6f3a1b9c99", "", false, "NOT_FOUND"},
		{"malformed_id", "not-a-uuid", ownerID, false, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detail, err := service.Get(context.Background(), tt.id, tt.viewerID)
			if tt.wantCode != "" {
				require.Error(t, err)
				appErr := apperr.As(err)
				require.NotNil(t, appErr)
				assert.Equal(t, tt.wantCode, appErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, detail.IsOwner)
			assert.Equal(t, tt.id, detail.Joke.ID)
		})
	}
}

// # Creation Flow

func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name       string
		input      joke.CreateInput
		wantFields []string
	}{
		{
			name:       "both_too_short",
			input:      joke.CreateInput{Name: "ab", Content: "too short"},
			wantFields: []string{joke.FieldName, joke.FieldContent},
		},
		{
			name:       "name_too_short",
			input:      joke.CreateInput{Name: "ab", Content: "a content long enough"},
			wantFields: []string{joke.FieldName},
		},
		{
			name:       "content_too_short",
			input:      joke.CreateInput{Name: "abc", Content: "123456789"},
			wantFields: []string{joke.FieldContent},
		},
		{
			name:       "whitespace_padding_does_not_count",
			input:      joke.CreateInput{Name: "  ab  ", Content: "   123456789   "},
			wantFields: []string{joke.FieldName, joke.FieldContent},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepository()
			cache := &fakeCache{}
			service := newService(repo, cache)

			record, err := service.Create(context.Background(), ownerID, tt.input)
			require.Error(t, err)
			assert.Nil(t, record)

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
			assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)

			require.Len(t, appErr.Details, len(tt.wantFields))
			for i, field := range tt.wantFields {
				assert.Equal(t, field, appErr.Details[i].Field)
			}

			// Submitted values are echoed verbatim for form re-rendering.
			assert.Equal(t, tt.input.Name, appErr.Fields[joke.FieldName])
			assert.Equal(t, tt.input.Content, appErr.Fields[joke.FieldContent])

			// Invalid input never touches storage or the cache.
			assert.Zero(t, repo.createCalls)
			assert.Zero(t, cache.invalidated)
		})
	}
}

func TestService_Create_Boundaries(t *testing.T) {
	repo := newFakeRepository()
	service := newService(repo, nil)

	// Exactly at the minimum lengths: 3-rune name, 10-rune content.
	record, err := service.Create(context.Background(), ownerID, joke.CreateInput{
		Name:    "abc",
		Content: "1234567890",
	})
	require.NoError(t, err)
	assert.Equal(t, "abc", record.Name)
	assert.Equal(t, "1234567890", record.Content)
}

func TestService_Create_Success(t *testing.T) {
	repo := newFakeRepository()
	cache := &fakeCache{items: []joke.ListItem{{ID: jokeID, Name: "stale"}}}
	service := newService(repo, cache)

	record, err := service.Create(context.Background(), ownerID, joke.CreateInput{
		Name:    "  Elevator  ",
		Content: "My first time using an elevator was an uplifting experience.",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, ownerID, record.OwnerID)
	// Stored values are trimmed.
	assert.Equal(t, "Elevator", record.Name)

	stored, err := repo.FindByID(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Same(t, record, stored)

	// The recent list cache is dropped so the new joke shows up immediately.
	assert.Equal(t, 1, cache.invalidated)
}

// # Deletion Flow

func TestService_Delete(t *testing.T) {
	existing := &joke.Joke{ID: jokeID, Name: "Skeleton", Content: "Why don't skeletons ride roller coasters?", OwnerID: ownerID}

	tests := []struct {
		name        string
		id          string
		requesterID string
		vanish      bool
		wantCode    string
	}{
		{"owner_deletes", jokeID, ownerID, false, ""},
		{"stranger_forbidden", jokeID, strangerID, false, "FORBIDDEN"},
		// Existence is checked before ownership: a stranger probing a
		// nonexistent id learns only that it does not exist.
		{"nonexistent_is_not_found_not_forbidden", "0192d3a1-7c4e-7c21-b9a0-2f6f3a1b9c99", strangerID, false, "NOT_FOUND"},
		{"malformed_id", "42", ownerID, false, "NOT_FOUND"},
		// Row vanished between fetch and DELETE: the repository's NotFound
		// is returned unmasked.
		{"concurrent_delete_races_to_not_found", jokeID, ownerID, true, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepository()
			repo.seed(existing)
			repo.vanishOnDelete = tt.vanish
			cache := &fakeCache{}
			service := newService(repo, cache)

			err := service.Delete(context.Background(), tt.id, tt.requesterID)
			if tt.wantCode != "" {
				require.Error(t, err)
				appErr := apperr.As(err)
				require.NotNil(t, appErr)
				assert.Equal(t, tt.wantCode, appErr.Code)

				// A refused delete leaves the record and the cache alone.
				if !tt.vanish {
					_, findErr := repo.FindByID(context.Background(), existing.ID)
					assert.NoError(t, findErr)
				}
				assert.Zero(t, cache.invalidated)
				return
			}

			require.NoError(t, err)
			_, findErr := repo.FindByID(context.Background(), existing.ID)
			assert.Error(t, findErr)
			assert.Equal(t, 1, cache.invalidated)
		})
	}
}

func TestService_Delete_ForbiddenMessage(t *testing.T) {
	repo := newFakeRepository()
	repo.seed(&joke.Joke{ID: jokeID, Name: "Pun", Content: "A pun walks into a bar, ten people die.", OwnerID: ownerID})
	service := newService(repo, nil)

	err := service.Delete(context.Background(), jokeID, strangerID)
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusForbidden, appErr.HTTPStatus)
	assert.Equal(t, "That's not your joke", appErr.Message)
}
