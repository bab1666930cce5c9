// Copyright (c) 2026 Punchline. All rights reserved.

package joke_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/punchline-app/punchline/internal/core/joke"
	"github.com/punchline-app/punchline/internal/platform/constants"
	"github.com/punchline-app/punchline/internal/platform/middleware"
	"github.com/punchline-app/punchline/internal/platform/respond"
	"github.com/punchline-app/punchline/internal/platform/session"
)

// newTestServer wires the joke handler behind the real session middleware so
// the tests exercise cookie → identity → pipeline end to end.
func newTestServer(t *testing.T, repo *fakeRepository) (http.Handler, *session.Codec) {
	t.Helper()

	codec, err := session.NewCodec("http-test-secret")
	require.NoError(t, err)

	handler := joke.NewHandler(joke.NewService(repo, nil, slog.Default()))

	router := chi.NewRouter()
	router.Use(middleware.ResolveSession(codec))
	router.Mount(constants.JokesPath, handler.Routes())

	return router, codec
}

func sessionCookie(t *testing.T, codec *session.Codec, userID string) *http.Cookie {
	t.Helper()
	token, err := codec.Encode(userID)
	require.NoError(t, err)
	return &http.Cookie{Name: constants.SessionCookieName, Value: token}
}

func postForm(server http.Handler, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		request.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)
	return recorder
}

func get(server http.Handler, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		request.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)
	return recorder
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) respond.ErrorEnvelope {
	t.Helper()
	var envelope respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope
}

// # Create

func TestCreate_AnonymousRedirectsToLogin(t *testing.T) {
	repo := newFakeRepository()
	server, _ := newTestServer(t, repo)

	// The fields are invalid too: authentication is required before
	// validation, so no field errors leak to an anonymous client.
	recorder := postForm(server, "/jokes", url.Values{
		"name":    {"ab"},
		"content": {"nope"},
	}, nil)

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/login?redirectTo=%2Fjokes", recorder.Header().Get("Location"))
	assert.Zero(t, repo.createCalls)
}

func TestCreate_AuthenticatedSuccess(t *testing.T) {
	repo := newFakeRepository()
	server, codec := newTestServer(t, repo)

	recorder := postForm(server, "/jokes", url.Values{
		"name":    {"Elevator"},
		"content": {"My first time using an elevator was an uplifting experience."},
	}, sessionCookie(t, codec, ownerID))

	require.Equal(t, http.StatusSeeOther, recorder.Code)

	location := recorder.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/jokes/"))

	id := strings.TrimPrefix(location, "/jokes/")
	stored, ok := repo.jokes[id]
	require.True(t, ok)
	assert.Equal(t, ownerID, stored.OwnerID)
	assert.Equal(t, "Elevator", stored.Name)
}

func TestCreate_ValidationFailureEchoesFields(t *testing.T) {
	repo := newFakeRepository()
	server, codec := newTestServer(t, repo)

	recorder := postForm(server, "/jokes", url.Values{
		"name":    {"ab"},
		"content": {"too short"},
	}, sessionCookie(t, codec, ownerID))

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	envelope := decodeError(t, recorder)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Code)
	require.Len(t, envelope.Details, 2)
	assert.Equal(t, "Joke's name is too short", envelope.Details[0].Message)
	assert.Equal(t, "Joke's content is too short", envelope.Details[1].Message)
	assert.Equal(t, "ab", envelope.Fields["name"])
	assert.Equal(t, "too short", envelope.Fields["content"])
	assert.Zero(t, repo.createCalls)
}

func TestCreate_MissingFieldIsInvalidForm(t *testing.T) {
	repo := newFakeRepository()
	server, codec := newTestServer(t, repo)

	recorder := postForm(server, "/jokes", url.Values{
		"name": {"Elevator"},
		// content absent entirely, not merely empty
	}, sessionCookie(t, codec, ownerID))

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	envelope := decodeError(t, recorder)
	assert.Equal(t, "Form not submitted correctly", envelope.Error)
	assert.Zero(t, repo.createCalls)
}

// # View

func TestGet_IsOwnerFlag(t *testing.T) {
	repo := newFakeRepository()
	repo.seed(&joke.Joke{ID: jokeID, Name: "Frisbee", Content: "I was wondering why the frisbee was getting bigger", OwnerID: ownerID})
	server, codec := newTestServer(t, repo)

	tests := []struct {
		name      string
		cookie    *http.Cookie
		wantOwner bool
	}{
		{"owner", sessionCookie(t, codec, ownerID), true},
		{"stranger", sessionCookie(t, codec, strangerID), false},
		{"anonymous", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := get(server, "/jokes/"+jokeID, tt.cookie)
			require.Equal(t, http.StatusOK, recorder.Code)

			var envelope struct {
				Data joke.Detail `json:"data"`
			}
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
			assert.Equal(t, tt.wantOwner, envelope.Data.IsOwner)
			assert.Equal(t, jokeID, envelope.Data.Joke.ID)
		})
	}
}

func TestGet_UnknownJoke(t *testing.T) {
	repo := newFakeRepository()
	server, _ := newTestServer(t, repo)

	recorder := get(server, "/jokes/"+jokeID, nil)
	require.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, recorder).Code)
}

func TestList(t *testing.T) {
	repo := newFakeRepository()
	repo.seed(&joke.Joke{ID: jokeID, Name: "Hippo", Content: "Why don't you find hippopotamuses hiding in trees?", OwnerID: ownerID})
	server, _ := newTestServer(t, repo)

	recorder := get(server, "/jokes", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data []joke.ListItem `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "Hippo", envelope.Data[0].Name)
}

// # Delete

func TestMutate_MarkerCheckedFirst(t *testing.T) {
	repo := newFakeRepository()
	repo.seed(&joke.Joke{ID: jokeID, Name: "Pun", Content: "A pun walks into a bar, ten people die.", OwnerID: ownerID})
	server, _ := newTestServer(t, repo)

	tests := []struct {
		name   string
		form   url.Values
		marker string
	}{
		{"unsupported_method", url.Values{"_method": {"put"}}, "put"},
		{"missing_marker", url.Values{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Anonymous on purpose: the marker is rejected before identity
			// is even considered, so there is no login redirect here.
			recorder := postForm(server, "/jokes/"+jokeID, tt.form, nil)

			require.Equal(t, http.StatusBadRequest, recorder.Code)
			envelope := decodeError(t, recorder)
			assert.Equal(t, "UNSUPPORTED_METHOD", envelope.Code)
			assert.Equal(t, "The _method "+tt.marker+" is not supported", envelope.Error)
		})
	}
}

func TestMutate_AnonymousDeleteRedirectsToLogin(t *testing.T) {
	repo := newFakeRepository()
	repo.seed(&joke.Joke{ID: jokeID, Name: "Pun", Content: "A pun walks into a bar, ten people die.", OwnerID: ownerID})
	server, _ := newTestServer(t, repo)

	recorder := postForm(server, "/jokes/"+jokeID, url.Values{"_method": {"delete"}}, nil)

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/login?redirectTo="+url.QueryEscape("/jokes/"+jokeID), recorder.Header().Get("Location"))
	_, stillThere := repo.jokes[jokeID]
	assert.True(t, stillThere)
}

func TestMutate_StrangerForbidden(t *testing.T) {
	repo := newFakeRepository()
	repo.seed(&joke.Joke{ID: jokeID, Name: "Pun", Content: "A pun walks into a bar, ten people die.", OwnerID: ownerID})
	server, codec := newTestServer(t, repo)

	recorder := postForm(server, "/jokes/"+jokeID, url.Values{"_method": {"delete"}}, sessionCookie(t, codec, strangerID))

	require.Equal(t, http.StatusForbidden, recorder.Code)
	envelope := decodeError(t, recorder)
	assert.Equal(t, "FORBIDDEN", envelope.Code)
	assert.Equal(t, "That's not your joke", envelope.Error)
	_, stillThere := repo.jokes[jokeID]
	assert.True(t, stillThere)
}

func TestMutate_OwnerDeletes(t *testing.T) {
	repo := newFakeRepository()
	repo.seed(&joke.Joke{ID: jokeID, Name: "Pun", Content: "A pun walks into a bar, ten people die.", OwnerID: ownerID})
	server, codec := newTestServer(t, repo)

	recorder := postForm(server, "/jokes/"+jokeID, url.Values{"_method": {"delete"}}, sessionCookie(t, codec, ownerID))

	require.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, constants.JokesPath, recorder.Header().Get("Location"))
	_, stillThere := repo.jokes[jokeID]
	assert.False(t, stillThere)
}

func TestMutate_UnknownJokeNotFoundBeforeOwnership(t *testing.T) {
	repo := newFakeRepository()
	server, codec := newTestServer(t, repo)

	recorder := postForm(server, "/jokes/"+jokeID, url.Values{"_method": {"delete"}}, sessionCookie(t, codec, strangerID))

	require.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, recorder).Code)
}

// # Session Failure

func TestCorruptedSessionFailsRequest(t *testing.T) {
	repo := newFakeRepository()
	repo.seed(&joke.Joke{ID: jokeID, Name: "Pun", Content: "A pun walks into a bar, ten people die.", OwnerID: ownerID})
	server, _ := newTestServer(t, repo)

	// A corrupted cookie fails even a plain read; it is never downgraded to
	// an anonymous request.
	cookie := &http.Cookie{Name: constants.SessionCookieName, Value: "garbage.token.value"}
	recorder := get(server, "/jokes", cookie)

	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, "INVALID_SESSION", decodeError(t, recorder).Code)
}
