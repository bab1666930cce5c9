// Copyright (c) 2026 Punchline. All rights reserved.

package session

import (
	"net/http"
	"time"

	"github.com/punchline-app/punchline/internal/platform/constants"
)

// # Cookie Transport

// SetCookie issues the signed session token to the client.
//
// Secure is derived from the caller (production vs development) so local
// plain-HTTP testing keeps working.
func SetCookie(writer http.ResponseWriter, token string, secure bool) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     constants.SessionCookiePath,
		Expires:  time.Now().Add(constants.SessionTTL),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie removes the session cookie from the client.
//
// The entire session is invalidated, not just the identity it carried.
func ClearCookie(writer http.ResponseWriter, secure bool) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Token extracts the raw session token from the request cookie.
//
// The boolean result distinguishes "no session at all" (a valid anonymous
// state) from an empty-but-present cookie.
func Token(request *http.Request) (string, bool) {
	cookie, err := request.Cookie(constants.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
