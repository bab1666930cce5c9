// Copyright (c) 2026 Punchline. All rights reserved.

package auth

import (
	"context"
	"fmt"

	"github.com/punchline-app/punchline/internal/platform/apperr"
	"github.com/punchline-app/punchline/internal/platform/sec"
	"github.com/punchline-app/punchline/pkg/textutil"
	"github.com/punchline-app/punchline/pkg/uuidv7"
)

// # Contracts & Types

// SessionEncoder defines the contract for minting signed session tokens.
//
// The concrete implementation is the platform session codec; an interface
// keeps this service testable without a signing secret.
type SessionEncoder interface {
	Encode(userID string) (string, error)
}

// Service implements user registration and authentication use cases.
type Service struct {
	userRepository UserRepository
	sessions       SessionEncoder
}

// NewService constructs a new [Service] with its dependencies.
func NewService(userRepo UserRepository, sessions SessionEncoder) *Service {
	return &Service{
		userRepository: userRepo,
		sessions:       sessions,
	}
}

// Login represents a successfully established user session.
type Login struct {
	// Token is the signed session token, ready for the cookie boundary.
	Token string
	User  *User
}

// # Registration Flow

// CredentialsInput holds a username/password submission.
type CredentialsInput struct {
	Username string
	Password string
}

// Register validates, hashes, and persists a brand new user account, then
// logs the new user straight in.
//
// The username is NFC-normalized before the uniqueness check so that two
// byte-different spellings of the same visible name cannot coexist.
func (service *Service) Register(ctx context.Context, input CredentialsInput) (*Login, error) {
	username := textutil.Clean(input.Username)

	// Verify username uniqueness. Return a client-safe Conflict error.
	_, err := service.userRepository.FindByUsername(ctx, username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Prevent storing plain-text passwords. Default cost balances security
	// and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuidv7.New(),
		Username:     username,
		PasswordHash: hashedPassword,
	}

	if err := service.userRepository.Create(ctx, user); err != nil {
		return nil, err
	}

	return service.establishSession(user)
}

// # Authentication Flow

// Authenticate validates user credentials and issues a signed session.
func (service *Service) Authenticate(ctx context.Context, input CredentialsInput) (*Login, error) {
	user, err := service.userRepository.FindByUsername(ctx, textutil.Clean(input.Username))

	// Generic message on any failure to prevent account enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid username or password")
	}

	// bcrypt comparison is constant-time to prevent timing attacks.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid username or password")
	}

	return service.establishSession(user)
}

// establishSession mints the signed session token for the user.
func (service *Service) establishSession(user *User) (*Login, error) {
	token, err := service.sessions.Encode(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_session_encode_failed: %w", err)
	}

	return &Login{Token: token, User: user}, nil
}
