// Copyright (c) 2026 Punchline. All rights reserved.

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction, form decoding,
and identity resolution, ensuring consistent error handling and type safety.

The identity helpers are the only sanctioned way for handlers to learn who is
making a request: [Identity] resolves softly (anonymous is fine), while
[RequireIdentity] is the single operation allowed to recover into a
redirect-to-login.
*/
package requestutil

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/punchline-app/punchline/internal/platform/apperr"
	"github.com/punchline-app/punchline/internal/platform/constants"
	"github.com/punchline-app/punchline/internal/platform/ctxutil"
	"github.com/punchline-app/punchline/internal/platform/validate"
)

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Form parses the request body as form data and returns the values for the
named fields, plus validate.ErrInvalidForm if the body is undecodable or any
named field is missing entirely.

A field that is present but empty is returned as "" and left for the
validation pipeline to judge; only a structurally broken submission is
rejected here, before any business logic runs.
*/
func Form(request *http.Request, fields ...string) (map[string]string, error) {
	if err := request.ParseForm(); err != nil {
		return nil, validate.ErrInvalidForm
	}

	values := make(map[string]string, len(fields))
	for _, field := range fields {
		fieldValues, ok := request.PostForm[field]
		if !ok || len(fieldValues) == 0 {
			return nil, validate.ErrInvalidForm
		}
		values[field] = fieldValues[0]
	}

	return values, nil
}

/*
Identity returns the resolved user id of the request, or "" when anonymous.

This is the soft resolver: absence of identity is never an error here.
*/
func Identity(request *http.Request) string {
	return ctxutil.GetIdentity(request.Context())
}

/*
RequireIdentity ensures the request carries an authenticated identity.

Returns:
  - string: User id
  - error: apperr.Unauthenticated carrying a redirect to
    /login?redirectTo=<current path> when the request is anonymous
*/
func RequireIdentity(request *http.Request) (string, error) {
	userID := ctxutil.GetIdentity(request.Context())
	if userID == "" {
		return "", apperr.Unauthenticated(LoginRedirect(request.URL.Path))
	}
	return userID, nil
}

/*
LoginRedirect builds the login location that returns the user to redirectTo
after a successful login.
*/
func LoginRedirect(redirectTo string) string {
	if redirectTo == "" || redirectTo == constants.LoginPath {
		return constants.LoginPath
	}
	return constants.LoginPath + "?redirectTo=" + url.QueryEscape(redirectTo)
}
