// Copyright (c) 2026 Punchline. All rights reserved.

/*
HTTP delivery layer for user identity management.

The handler owns the cookie boundary: it is the only place session cookies
are set or cleared. Successful logins and registrations answer with a 303
redirect, mirroring the form-post navigation of the client.
*/
package auth

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/punchline-app/punchline/internal/platform/apperr"
	"github.com/punchline-app/punchline/internal/platform/constants"
	requestutil "github.com/punchline-app/punchline/internal/platform/request"
	"github.com/punchline-app/punchline/internal/platform/respond"
	"github.com/punchline-app/punchline/internal/platform/session"
	"github.com/punchline-app/punchline/internal/platform/validate"
)

// Handler implements authentication-related HTTP endpoints.
type Handler struct {
	authService *Service

	// secureCookies mirrors the deployment environment; disabled only for
	// local plain-HTTP development.
	secureCookies bool
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, secureCookies bool) *Handler {
	return &Handler{authService: service, secureCookies: secureCookies}
}

// Register mounts the authentication routes at the site root.
//
// # Endpoints
//   - POST /login    : Verifies credentials and issues the session cookie.
//   - POST /register : Creates an account and logs the new user in.
//   - POST /logout   : Unconditionally clears the session, redirects home.
//   - GET  /logout   : Convenience redirect home (no session change).
func (handler *Handler) Register(router chi.Router) {
	router.Post("/login", handler.login)
	router.Post("/register", handler.register)
	router.Post("/logout", handler.logout)
	router.Get("/logout", handler.logoutRedirect)
}

/*
login authenticates a user and establishes a session.

POST /login (form fields: username, password, optional redirectTo)

Response:
  - 303: Redirect to redirectTo (default /jokes) with the session cookie set
  - 400: VALIDATION_ERROR: Missing or too-short credentials
  - 401: UNAUTHORIZED: Invalid username or password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	fields, err := requestutil.Form(request, FieldUsername, FieldPassword)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := validateCredentials(fields); err != nil {
		respond.Error(writer, request, err)
		return
	}

	login, err := handler.authService.Authenticate(request.Context(), CredentialsInput{
		Username: fields[FieldUsername],
		Password: fields[FieldPassword],
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.finishLogin(writer, request, login)
}

/*
register creates a new account and logs the new user straight in.

POST /register (form fields: username, password, optional redirectTo)

Response:
  - 303: Redirect to redirectTo (default /jokes) with the session cookie set
  - 400: VALIDATION_ERROR: Missing or too-short credentials
  - 409: CONFLICT: Username is already taken
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	fields, err := requestutil.Form(request, FieldUsername, FieldPassword)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := validateCredentials(fields); err != nil {
		respond.Error(writer, request, err)
		return
	}

	login, err := handler.authService.Register(request.Context(), CredentialsInput{
		Username: fields[FieldUsername],
		Password: fields[FieldPassword],
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.finishLogin(writer, request, login)
}

/*
logout terminates the current session.

POST /logout

The whole session is cleared unconditionally — no identity check, no error
when the request was anonymous to begin with.

Response:
  - 303: Redirect to / with the session cookie cleared
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	session.ClearCookie(writer, handler.secureCookies)
	respond.Redirect(writer, request, constants.HomePath)
}

// logoutRedirect sends GET /logout visitors home without touching the session.
func (handler *Handler) logoutRedirect(writer http.ResponseWriter, request *http.Request) {
	respond.Redirect(writer, request, constants.HomePath)
}

// finishLogin sets the session cookie and redirects to the post-login target.
func (handler *Handler) finishLogin(writer http.ResponseWriter, request *http.Request, login *Login) {
	session.SetCookie(writer, login.Token, handler.secureCookies)
	respond.Redirect(writer, request, safeRedirect(request.PostForm.Get(FieldRedirectTo)))
}

// validateCredentials applies the shared username/password rules. The
// username (never the password) is echoed back on failure.
func validateCredentials(fields map[string]string) error {
	validator := &validate.Validator{}
	validator.
		Required(FieldUsername, fields[FieldUsername]).
		MinLen(FieldUsername, fields[FieldUsername], MinUsernameLen).
		Required(FieldPassword, fields[FieldPassword]).
		MinLen(FieldPassword, fields[FieldPassword], MinPasswordLen)

	if err := validator.Err(); err != nil {
		return apperr.As(err).WithFields(map[string]string{
			FieldUsername: fields[FieldUsername],
		})
	}
	return nil
}

// safeRedirect restricts the post-login target to same-site paths so the
// redirectTo field cannot be abused as an open redirect.
func safeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return constants.JokesPath
	}
	return target
}
