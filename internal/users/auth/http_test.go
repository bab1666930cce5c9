// Copyright (c) 2026 Punchline. All rights reserved.

package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/punchline-app/punchline/internal/platform/constants"
	"github.com/punchline-app/punchline/internal/platform/respond"
	"github.com/punchline-app/punchline/internal/users/auth"
)

func newAuthServer(repo *fakeUserRepository) http.Handler {
	handler := auth.NewHandler(auth.NewService(repo, fakeEncoder{}), false)
	router := chi.NewRouter()
	handler.Register(router)
	return router
}

func postForm(server http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)
	return recorder
}

// sessionCookie returns the session cookie set on the response, or nil.
func sessionCookie(recorder *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == constants.SessionCookieName {
			return cookie
		}
	}
	return nil
}

// # Login

func TestLogin_Success(t *testing.T) {
	repo := newFakeUserRepository()
	user := seedUser(t, repo, "kody", "twixrox")
	server := newAuthServer(repo)

	recorder := postForm(server, "/login", url.Values{
		"username": {"kody"},
		"password": {"twixrox"},
	})

	require.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, constants.JokesPath, recorder.Header().Get("Location"))

	cookie := sessionCookie(recorder)
	require.NotNil(t, cookie)
	assert.Equal(t, "token-for-"+user.ID, cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestLogin_RedirectTo(t *testing.T) {
	repo := newFakeUserRepository()
	seedUser(t, repo, "kody", "twixrox")
	server := newAuthServer(repo)

	tests := []struct {
		name         string
		redirectTo   string
		wantLocation string
	}{
		{"same_site_path_honored", "/jokes/abc", "/jokes/abc"},
		{"absent_defaults_to_jokes", "", constants.JokesPath},
		{"absolute_url_rejected", "https://evil.example/phish", constants.JokesPath},
		{"protocol_relative_rejected", "//evil.example", constants.JokesPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{
				"username": {"kody"},
				"password": {"twixrox"},
			}
			if tt.redirectTo != "" {
				form.Set("redirectTo", tt.redirectTo)
			}

			recorder := postForm(server, "/login", form)
			require.Equal(t, http.StatusSeeOther, recorder.Code)
			assert.Equal(t, tt.wantLocation, recorder.Header().Get("Location"))
		})
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	repo := newFakeUserRepository()
	seedUser(t, repo, "kody", "twixrox")
	server := newAuthServer(repo)

	recorder := postForm(server, "/login", url.Values{
		"username": {"kody"},
		"password": {"wrongpass"},
	})

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Nil(t, sessionCookie(recorder))
}

func TestLogin_ValidationEchoesUsernameOnly(t *testing.T) {
	repo := newFakeUserRepository()
	server := newAuthServer(repo)

	recorder := postForm(server, "/login", url.Values{
		"username": {"bo"},
		"password": {"abc"},
	})

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var envelope respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, "VALIDATION_ERROR", envelope.Code)
	assert.Equal(t, "bo", envelope.Fields["username"])

	// The submitted password never comes back in a response.
	_, echoed := envelope.Fields["password"]
	assert.False(t, echoed)
	assert.NotContains(t, recorder.Body.String(), "abc")
}

// # Registration

func TestRegister_LogsNewUserIn(t *testing.T) {
	repo := newFakeUserRepository()
	server := newAuthServer(repo)

	recorder := postForm(server, "/register", url.Values{
		"username": {"kody"},
		"password": {"twixrox"},
	})

	require.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, constants.JokesPath, recorder.Header().Get("Location"))
	require.NotNil(t, sessionCookie(recorder))

	_, ok := repo.byUsername["kody"]
	assert.True(t, ok)
}

func TestRegister_Conflict(t *testing.T) {
	repo := newFakeUserRepository()
	seedUser(t, repo, "kody", "twixrox")
	server := newAuthServer(repo)

	recorder := postForm(server, "/register", url.Values{
		"username": {"kody"},
		"password": {"another1"},
	})

	require.Equal(t, http.StatusConflict, recorder.Code)
	assert.Nil(t, sessionCookie(recorder))
}

// # Logout

func TestLogout_ClearsSessionUnconditionally(t *testing.T) {
	repo := newFakeUserRepository()
	server := newAuthServer(repo)

	// No identity required: an anonymous logout still succeeds.
	recorder := postForm(server, "/logout", url.Values{})

	require.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, constants.HomePath, recorder.Header().Get("Location"))

	cookie := sessionCookie(recorder)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestLogoutRedirect_GetGoesHome(t *testing.T) {
	repo := newFakeUserRepository()
	server := newAuthServer(repo)

	request := httptest.NewRequest(http.MethodGet, "/logout", nil)
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, constants.HomePath, recorder.Header().Get("Location"))

	// A plain GET does not touch the session.
	assert.Nil(t, sessionCookie(recorder))
}
