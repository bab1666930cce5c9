// Copyright (c) 2026 Punchline. All rights reserved.

package middleware

import (
	"net/http"

	"github.com/punchline-app/punchline/internal/platform/apperr"
	"github.com/punchline-app/punchline/internal/platform/ctxutil"
	"github.com/punchline-app/punchline/internal/platform/respond"
	"github.com/punchline-app/punchline/internal/platform/session"
)

// SessionDecoder defines the interface needed to decode session tokens in middleware.
//
// # Why an interface?
//
// Defining SessionDecoder here decouples the middleware from the session
// codec implementation, allowing us to easily inject fakes during unit testing.
type SessionDecoder interface {
	Decode(token string) (string, error)
}

// ResolveSession reads the session cookie and resolves the request identity.
//
// # Flow
//  1. No session cookie: request proceeds as anonymous. Absence is a valid
//     state, distinct from an invalid token.
//  2. Cookie present: decode the signed token via [SessionDecoder].
//  3. Decode failure: the request fails outright with INVALID_SESSION. A
//     corrupted cookie is NOT treated as anonymous — if that policy ever
//     changes, this branch is the only place to touch.
//  4. Valid token: inject the user id into the request context.
//
// Handlers downstream read the identity via requestutil; none of them see
// the cookie or the raw token.
func ResolveSession(decoder SessionDecoder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			token, present := session.Token(request)
			if !present {
				next.ServeHTTP(writer, request)
				return
			}

			userID, err := decoder.Decode(token)
			if err != nil {
				respond.Error(writer, request, apperr.InvalidSession(err))
				return
			}

			ctx := ctxutil.WithIdentity(request.Context(), userID)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
