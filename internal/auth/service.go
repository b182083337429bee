// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package auth implements the authentication use cases of the gateway.
//
// # Architecture
//
// Credentials are never checked here. Every decision about a password or a
// verification code belongs to the external backend; this package validates
// input formats, drives the step wizards, and turns a successful backend
// answer into a [session.Session].
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/uzevently/internal/backend"
	"github.com/taibuivan/uzevently/internal/platform/apperr"
	"github.com/taibuivan/uzevently/internal/platform/validate"
	"github.com/taibuivan/uzevently/internal/session"
	"github.com/taibuivan/uzevently/internal/wizard"
	"github.com/taibuivan/uzevently/pkg/phone"
	"github.com/taibuivan/uzevently/pkg/pointer"
)

// # Messages

const (
	MsgFillAllFields    = "Please fill in all fields"
	MsgPhoneInvalid     = "Phone number must be 9 digits (e.g. 90 123 45 67)"
	MsgCodeInvalid      = "Verification code must be 6 digits"
	MsgPasswordMismatch = "Passwords do not match"
	MsgPasswordShort    = "Password must be at least 6 characters"
)

const (
	minPasswordLen = 6
	codeLen        = 6
	defaultFirst   = "User"
)

// Keys of the data collected across wizard steps.
const (
	dataAccountType = "accountType"
	dataPhone       = "phone"
	dataCode        = "code"
)

// Authenticator is the external authentication API.
type Authenticator interface {
	Login(ctx context.Context, phone, password string) (*backend.AuthResponse, error)
	Register(ctx context.Context, req backend.RegisterRequest) (*backend.AuthResponse, error)
	ForgotPassword(ctx context.Context, phone string) error
	VerifyCode(ctx context.Context, phone, code string) error
	ResetPassword(ctx context.Context, phone, code, newPassword string) error
}

// Service implements login, registration, password reset and profile edits.
type Service struct {
	backend    Authenticator
	wizards    *wizard.Store
	adminPhone string
	logger     *slog.Logger
}

// NewService constructs a [Service].
//
// adminPhone is the canonical "+998..." number granted the admin role at
// registration. Empty disables admin registration.
func NewService(authenticator Authenticator, wizards *wizard.Store, adminPhone string, logger *slog.Logger) *Service {
	return &Service{
		backend:    authenticator,
		wizards:    wizards,
		adminPhone: adminPhone,
		logger:     logger,
	}
}

// # Login

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Phone    string
	Password string
}

/*
Login authenticates against the backend and establishes the client session.

Parameters:
  - ctx: context.Context
  - store: *session.Store (the client's session)
  - input: LoginInput

Returns:
  - *session.Session: The new principal
  - error: Validation, upstream rejection or transport errors
*/
func (service *Service) Login(ctx context.Context, store *session.Store, input LoginInput) (*session.Session, error) {

	// ── 1. Format Checks ──────────────────────────────────────────────────

	if strings.TrimSpace(input.Phone) == "" || input.Password == "" {
		return nil, validate.RequiredError("phone", MsgFillAllFields)
	}
	if !phone.Valid(input.Phone) {
		return nil, validate.RequiredError("phone", MsgPhoneInvalid)
	}

	// ── 2. Backend Call ───────────────────────────────────────────────────

	fullPhone := phone.Full(input.Phone)
	resp, err := service.backend.Login(ctx, fullPhone, input.Password)
	if err != nil {
		return nil, upstreamError(err)
	}

	// ── 3. Session ────────────────────────────────────────────────────────

	principal := sessionFromLogin(fullPhone, resp)
	if err := store.Login(ctx, principal); err != nil {
		return nil, err
	}

	return store.Current(), nil
}

// sessionFromLogin maps a login answer onto a principal.
func sessionFromLogin(fullPhone string, resp *backend.AuthResponse) session.Session {
	user := resp.User
	if user == nil {
		user = &backend.User{}
	}

	nameParts := strings.Fields(user.Name)

	firstName := user.FirstName
	if firstName == "" && len(nameParts) > 0 {
		firstName = nameParts[0]
	}
	if firstName == "" {
		firstName = defaultFirst
	}

	lastName := user.LastName
	if lastName == "" && len(nameParts) > 1 {
		lastName = nameParts[1]
	}

	return session.Session{
		ID:          session.IDOrProvisional(string(user.ID)),
		FirstName:   firstName,
		LastName:    lastName,
		Name:        user.Name,
		PhoneNumber: fullPhone,
		Role:        session.RoleForAccountType(user.AccountType),
		Token:       resp.Token,
		Address:     user.Address,
		AccountType: user.AccountType,
	}
}

// # Logout & Profile

// Logout clears the client's session. The token is not revoked upstream.
func (service *Service) Logout(ctx context.Context, store *session.Store) error {
	return store.Logout(ctx)
}

// ProfileInput holds the editable profile fields. Nil means unchanged.
type ProfileInput struct {
	FirstName *string
	LastName  *string
	Address   *string
}

/*
UpdateProfile applies a dashboard edit to the current session.

Description: The display name is recomputed from the merged first and last
names. Guests are rejected; [session.Store.UpdateUser] itself would silently
ignore them.

Returns:
  - *session.Session: The updated principal
  - error: apperr.Unauthorized for guests, validation errors
*/
func (service *Service) UpdateProfile(ctx context.Context, store *session.Store, input ProfileInput) (*session.Session, error) {
	current := store.Current()
	if current == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	validator := &validate.Validator{}
	if input.FirstName != nil {
		validator.Required("firstName", *input.FirstName).MaxLen("firstName", *input.FirstName, 100)
	}
	if input.LastName != nil {
		validator.MaxLen("lastName", *input.LastName, 100)
	}
	if input.Address != nil {
		validator.MaxLen("address", *input.Address, 255)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	firstName := strings.TrimSpace(pointer.Fallback(input.FirstName, current.FirstName))
	lastName := strings.TrimSpace(pointer.Fallback(input.LastName, current.LastName))
	name := strings.TrimSpace(firstName + " " + lastName)

	patch := session.Patch{
		FirstName: &firstName,
		LastName:  &lastName,
		Name:      &name,
		Address:   input.Address,
	}
	if err := store.UpdateUser(ctx, patch); err != nil {
		return nil, err
	}

	return store.Current(), nil
}

// # Error Mapping

// upstreamError converts backend failures into client-facing errors.
func upstreamError(err error) error {
	var remote *backend.RemoteError
	if errors.As(err, &remote) {
		return apperr.UpstreamRejected(remote.Status, remote.Message)
	}

	var transport *backend.TransportError
	if errors.As(err, &transport) {
		return apperr.UpstreamUnavailable(err)
	}

	return fmt.Errorf("auth_backend_call_failed: %w", err)
}

// flowError converts wizard sentinel errors into client-facing errors.
func flowError(err error) error {
	switch {
	case errors.Is(err, wizard.ErrWrongStep):
		return apperr.Conflict("This step is not the current step")
	case errors.Is(err, wizard.ErrFinished):
		return apperr.Conflict("This flow is already finished")
	default:
		return err
	}
}
