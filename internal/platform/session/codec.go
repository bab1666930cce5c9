// Copyright (c) 2026 Punchline. All rights reserved.

/*
Package session implements the signed session token codec and its cookie transport.

A session is a signed container holding zero or one user identity reference.
The codec is a pure transform: it never touches HTTP — the cookie boundary is
handled by the helpers in cookie.go and consumed by the middleware layer.

Architecture:

  - Codec: HS256-signed JWT carrying the user id, keyed by the process-lifetime
    session secret injected at construction.
  - Transport: HttpOnly cookie, SameSite=Lax, 30-day validity window.
  - Failure: Decode distinguishes a tampered token (ErrInvalidSession) from
    the absence of a token, which is a valid anonymous state and never
    reaches the codec.
*/
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/punchline-app/punchline/internal/platform/constants"
)

// ErrInvalidSession is returned when a session token is malformed, unsigned,
// signature-mismatched, or expired.
var ErrInvalidSession = errors.New("session: invalid token")

// Claims is the payload embedded inside a session token.
//
// The user id is abbreviated to keep the token small. An empty UserID is a
// valid anonymous session: the container exists, it just holds no identity.
type Claims struct {
	jwt.RegisteredClaims

	UserID string `json:"uid,omitempty"`
}

// Codec encodes and decodes signed session tokens.
//
// It is stateless beyond the signing secret and safe for concurrent use.
type Codec struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewCodec constructs a [Codec] from the session secret.
//
// The secret is loaded once at startup from configuration and is immutable
// for the process lifetime.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("session: secret must not be empty")
	}
	return &Codec{
		secret: []byte(secret),
		issuer: constants.SessionIssuer,
		ttl:    constants.SessionTTL,
	}, nil
}

// Encode signs a session token carrying the given user id.
//
// An empty userID produces a valid anonymous session token.
func (codec *Codec) Encode(userID string) (string, error) {
	currentTime := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    codec.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(codec.ttl)),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(codec.secret)
	if err != nil {
		return "", fmt.Errorf("session: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Decode verifies the signature and validity of a session token and returns
// the user id it carries ("" for an anonymous session).
//
// Any malformed, unsigned, signature-mismatched, or expired token yields
// [ErrInvalidSession]. Absence of a token is the caller's concern — Decode is
// never the place that decides anonymity.
func (codec *Codec) Decode(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("session: unexpected signing method: %v", token.Header["alg"])
		}
		return codec.secret, nil
	})

	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", ErrInvalidSession
	}

	return claims.UserID, nil
}
