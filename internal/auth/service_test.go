// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/uzevently/internal/auth"
	"github.com/taibuivan/uzevently/internal/backend"
	"github.com/taibuivan/uzevently/internal/platform/apperr"
	"github.com/taibuivan/uzevently/internal/platform/kv"
	"github.com/taibuivan/uzevently/internal/session"
	"github.com/taibuivan/uzevently/internal/wizard"
	"github.com/taibuivan/uzevently/pkg/pointer"
)

// fakeBackend records calls and answers from canned responses.
type fakeBackend struct {
	loginResp    *backend.AuthResponse
	registerResp *backend.AuthResponse
	err          error

	registered *backend.RegisterRequest
	calls      []string
}

func (f *fakeBackend) Login(_ context.Context, phone, _ string) (*backend.AuthResponse, error) {
	f.calls = append(f.calls, "login:"+phone)
	if f.err != nil {
		return nil, f.err
	}
	return f.loginResp, nil
}

func (f *fakeBackend) Register(_ context.Context, req backend.RegisterRequest) (*backend.AuthResponse, error) {
	f.calls = append(f.calls, "register:"+req.PhoneNumber)
	if f.err != nil {
		return nil, f.err
	}
	f.registered = &req
	return f.registerResp, nil
}

func (f *fakeBackend) ForgotPassword(_ context.Context, phone string) error {
	f.calls = append(f.calls, "forgot:"+phone)
	return f.err
}

func (f *fakeBackend) VerifyCode(_ context.Context, phone, code string) error {
	f.calls = append(f.calls, "verify:"+phone+":"+code)
	return f.err
}

func (f *fakeBackend) ResetPassword(_ context.Context, phone, code, newPassword string) error {
	f.calls = append(f.calls, "reset:"+phone+":"+code+":"+newPassword)
	return f.err
}

type fixture struct {
	ctx     context.Context
	storage kv.Storage
	backend *fakeBackend
	service *auth.Service
	store   *session.Store
	logger  *slog.Logger
}

func newFixture(t *testing.T, adminPhone string) *fixture {
	t.Helper()

	ctx := context.Background()
	storage := kv.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fake := &fakeBackend{}

	store, err := session.Open(ctx, storage, "client-a", logger)
	require.NoError(t, err)

	return &fixture{
		ctx:     ctx,
		storage: storage,
		backend: fake,
		service: auth.NewService(fake, wizard.NewStore(storage), adminPhone, logger),
		store:   store,
		logger:  logger,
	}
}

/*
TestRegistration_Scenario walks the full registration wizard and verifies
the resulting session is persisted durably.
*/
func TestRegistration_Scenario(t *testing.T) {
	f := newFixture(t, "")
	f.backend.registerResp = &backend.AuthResponse{Token: "tok-reg"}

	view, err := f.service.StartFlow(f.ctx, "client-a", wizard.KindRegister)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepRole, view.Step)

	steps := []struct {
		step  string
		input auth.StepInput
		next  string
	}{
		{wizard.StepRole, auth.StepInput{AccountType: "PERSONAL"}, wizard.StepPhone},
		{wizard.StepPhone, auth.StepInput{Phone: "901234567"}, wizard.StepVerification},
		{wizard.StepVerification, auth.StepInput{Code: "123456"}, wizard.StepDetails},
		{wizard.StepDetails, auth.StepInput{
			FirstName: "Ali", LastName: "Valiyev",
			Password: "secret1", ConfirmPassword: "secret1",
		}, wizard.StepComplete},
	}

	for _, s := range steps {
		view, err = f.service.SubmitRegistration(f.ctx, f.store, s.step, s.input)
		require.NoError(t, err, s.step)
		assert.Equal(t, s.next, view.Step)
	}

	// 1. Session in memory
	require.NotNil(t, view.Session)
	assert.Equal(t, "+998901234567", view.Session.PhoneNumber)
	assert.Equal(t, session.RoleUser, view.Session.Role)
	assert.Equal(t, "Ali Valiyev", view.Session.Name)
	assert.True(t, view.Session.ID.Provisional)

	// 2. Session persisted
	reloaded, err := session.Open(f.ctx, f.storage, "client-a", f.logger)
	require.NoError(t, err)
	require.NotNil(t, reloaded.Current())
	assert.Equal(t, "+998901234567", reloaded.Current().PhoneNumber)
	assert.Equal(t, "tok-reg", reloaded.Current().Token)

	// 3. Backend payload
	require.NotNil(t, f.backend.registered)
	assert.Equal(t, "user", f.backend.registered.Role)
	assert.Equal(t, "PERSONAL", f.backend.registered.AccountType)
	assert.Equal(t, "secret1", f.backend.registered.ConfirmPassword)

	// 4. Wizard resumes on the terminal step
	current, err := f.service.Flow(f.ctx, "client-a", wizard.KindRegister)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepComplete, current.Step)
}

/*
TestRegistration_InvalidInputKeepsStep verifies failed steps never move the wizard.
*/
func TestRegistration_InvalidInputKeepsStep(t *testing.T) {
	f := newFixture(t, "")
	_, err := f.service.StartFlow(f.ctx, "client-a", wizard.KindRegister)
	require.NoError(t, err)

	_, err = f.service.SubmitRegistration(f.ctx, f.store, wizard.StepRole, auth.StepInput{AccountType: "BUSINESS"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		step    string
		input   auth.StepInput
		message string
	}{
		{"short_phone", wizard.StepPhone, auth.StepInput{Phone: "90123"}, auth.MsgPhoneInvalid},
		{"long_phone", wizard.StepPhone, auth.StepInput{Phone: "9012345678"}, auth.MsgPhoneInvalid},
		{"skip_ahead", wizard.StepDetails, auth.StepInput{}, "This step is not the current step"},
		{"go_back", wizard.StepRole, auth.StepInput{AccountType: "PERSONAL"}, "This step is not the current step"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.SubmitRegistration(f.ctx, f.store, tt.step, tt.input)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.message, ae.Message)

			view, err := f.service.Flow(f.ctx, "client-a", wizard.KindRegister)
			require.NoError(t, err)
			assert.Equal(t, wizard.StepPhone, view.Step)
		})
	}
}

/*
TestRegistration_DetailsRules verifies the password rules and their order.
*/
func TestRegistration_DetailsRules(t *testing.T) {
	tests := []struct {
		name    string
		input   auth.StepInput
		message string
	}{
		{"missing_last_name", auth.StepInput{FirstName: "Ali", Password: "secret1", ConfirmPassword: "secret1"}, auth.MsgFillAllFields},
		{"mismatch", auth.StepInput{FirstName: "Ali", LastName: "V", Password: "secret1", ConfirmPassword: "secret2"}, auth.MsgPasswordMismatch},
		{"short", auth.StepInput{FirstName: "Ali", LastName: "V", Password: "abc", ConfirmPassword: "abc"}, auth.MsgPasswordShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "")
			advanceTo(t, f, "901234567")

			_, err := f.service.SubmitRegistration(f.ctx, f.store, wizard.StepDetails, tt.input)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.message, ae.Message)
			assert.Empty(t, f.backend.calls)
			assert.Nil(t, f.store.Current())
		})
	}
}

/*
TestRegistration_Roles verifies the admin and business role derivation.
*/
func TestRegistration_Roles(t *testing.T) {
	tests := []struct {
		name        string
		accountType string
		phone       string
		want        session.Role
	}{
		{"admin_phone", "PERSONAL", "994494916", session.RoleAdmin},
		{"business", "BUSINESS", "901234567", session.RoleBusiness},
		{"personal", "PERSONAL", "901234567", session.RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "+998994494916")
			f.backend.registerResp = &backend.AuthResponse{Token: "t", User: &backend.User{ID: "9"}}

			_, err := f.service.StartFlow(f.ctx, "client-a", wizard.KindRegister)
			require.NoError(t, err)
			_, err = f.service.SubmitRegistration(f.ctx, f.store, wizard.StepRole, auth.StepInput{AccountType: tt.accountType})
			require.NoError(t, err)
			_, err = f.service.SubmitRegistration(f.ctx, f.store, wizard.StepPhone, auth.StepInput{Phone: tt.phone})
			require.NoError(t, err)
			_, err = f.service.SubmitRegistration(f.ctx, f.store, wizard.StepVerification, auth.StepInput{Code: "000000"})
			require.NoError(t, err)

			view, err := f.service.SubmitRegistration(f.ctx, f.store, wizard.StepDetails, auth.StepInput{
				FirstName: "A", LastName: "B", Password: "secret1", ConfirmPassword: "secret1",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, view.Session.Role)
			assert.Equal(t, session.ID{Value: "9"}, view.Session.ID)
		})
	}
}

/*
TestRegistration_UpstreamRejectionKeepsStep verifies the backend message is
surfaced and the wizard stays on details.
*/
func TestRegistration_UpstreamRejectionKeepsStep(t *testing.T) {
	f := newFixture(t, "")
	advanceTo(t, f, "901234567")
	f.backend.err = &backend.RemoteError{Status: http.StatusConflict, Message: "Phone already registered"}

	_, err := f.service.SubmitRegistration(f.ctx, f.store, wizard.StepDetails, auth.StepInput{
		FirstName: "Ali", LastName: "Valiyev", Password: "secret1", ConfirmPassword: "secret1",
	})
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UPSTREAM_REJECTED", ae.Code)
	assert.Equal(t, http.StatusConflict, ae.HTTPStatus)
	assert.Equal(t, "Phone already registered", ae.Message)

	view, err := f.service.Flow(f.ctx, "client-a", wizard.KindRegister)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepDetails, view.Step)
	assert.Nil(t, f.store.Current())
}

// advanceTo drives a PERSONAL registration up to the details step.
func advanceTo(t *testing.T, f *fixture, digits string) {
	t.Helper()

	_, err := f.service.StartFlow(f.ctx, "client-a", wizard.KindRegister)
	require.NoError(t, err)
	_, err = f.service.SubmitRegistration(f.ctx, f.store, wizard.StepRole, auth.StepInput{AccountType: "PERSONAL"})
	require.NoError(t, err)
	_, err = f.service.SubmitRegistration(f.ctx, f.store, wizard.StepPhone, auth.StepInput{Phone: digits})
	require.NoError(t, err)
	_, err = f.service.SubmitRegistration(f.ctx, f.store, wizard.StepVerification, auth.StepInput{Code: "123456"})
	require.NoError(t, err)
}

/*
TestStartFlow_RestartDiscardsProgress verifies that starting again behaves as
cancel followed by a fresh start.
*/
func TestStartFlow_RestartDiscardsProgress(t *testing.T) {
	f := newFixture(t, "")
	advanceTo(t, f, "901234567")

	view, err := f.service.StartFlow(f.ctx, "client-a", wizard.KindRegister)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepRole, view.Step)
	assert.Zero(t, view.Index)
	assert.Empty(t, view.Phone)
	assert.Empty(t, view.AccountType)

	_, err = f.service.SubmitRegistration(f.ctx, f.store, wizard.StepDetails, auth.StepInput{
		FirstName: "Ali", LastName: "Valiyev", Password: "secret1", ConfirmPassword: "secret1",
	})
	require.Error(t, err, "earlier steps must be answered again")
	assert.Empty(t, f.backend.calls)

	current, err := f.service.Flow(f.ctx, "client-a", wizard.KindRegister)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepRole, current.Step)
}

/*
TestLogin verifies name splitting, role derivation and persistence.
*/
func TestLogin(t *testing.T) {
	tests := []struct {
		name      string
		user      *backend.User
		firstName string
		lastName  string
		role      session.Role
	}{
		{"explicit_names", &backend.User{ID: "1", FirstName: "Ali", LastName: "Valiyev"}, "Ali", "Valiyev", session.RoleUser},
		{"split_name", &backend.User{ID: "1", Name: "Nodira Karimova", AccountType: "BUSINESS"}, "Nodira", "Karimova", session.RoleBusiness},
		{"no_user", nil, "User", "", session.RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "")
			f.backend.loginResp = &backend.AuthResponse{Token: "tok", User: tt.user}

			principal, err := f.service.Login(f.ctx, f.store, auth.LoginInput{Phone: "90 123 45 67", Password: "secret1"})
			require.NoError(t, err)
			assert.Equal(t, tt.firstName, principal.FirstName)
			assert.Equal(t, tt.lastName, principal.LastName)
			assert.Equal(t, tt.role, principal.Role)
			assert.Equal(t, "+998901234567", principal.PhoneNumber)
			assert.Equal(t, []string{"login:+998901234567"}, f.backend.calls)
		})
	}
}

func TestLogin_Validation(t *testing.T) {
	f := newFixture(t, "")

	_, err := f.service.Login(f.ctx, f.store, auth.LoginInput{Phone: "", Password: "x"})
	assert.Equal(t, auth.MsgFillAllFields, apperr.As(err).Message)

	_, err = f.service.Login(f.ctx, f.store, auth.LoginInput{Phone: "12345", Password: "x"})
	assert.Equal(t, auth.MsgPhoneInvalid, apperr.As(err).Message)

	assert.Empty(t, f.backend.calls)
}

func TestLogin_TransportFailure(t *testing.T) {
	f := newFixture(t, "")
	f.backend.err = &backend.TransportError{Op: "login", Err: io.ErrUnexpectedEOF}

	_, err := f.service.Login(f.ctx, f.store, auth.LoginInput{Phone: "901234567", Password: "secret1"})
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", ae.Code)
	assert.Nil(t, f.store.Current())
}

/*
TestPasswordReset verifies every step talks to the backend with the
collected phone and code.
*/
func TestPasswordReset(t *testing.T) {
	f := newFixture(t, "")

	_, err := f.service.StartFlow(f.ctx, "client-a", wizard.KindPasswordReset)
	require.NoError(t, err)

	_, err = f.service.SubmitPasswordReset(f.ctx, "client-a", wizard.StepPhone, auth.StepInput{Phone: "90 123 45 67"})
	require.NoError(t, err)
	_, err = f.service.SubmitPasswordReset(f.ctx, "client-a", wizard.StepVerification, auth.StepInput{Code: "654321"})
	require.NoError(t, err)

	_, err = f.service.SubmitPasswordReset(f.ctx, "client-a", wizard.StepReset, auth.StepInput{Password: "newpass", ConfirmPassword: "other"})
	assert.Equal(t, auth.MsgPasswordMismatch, apperr.As(err).Message)

	view, err := f.service.SubmitPasswordReset(f.ctx, "client-a", wizard.StepReset, auth.StepInput{Password: "newpass", ConfirmPassword: "newpass"})
	require.NoError(t, err)
	assert.Equal(t, wizard.StepDone, view.Step)

	assert.Equal(t, []string{
		"forgot:+998901234567",
		"verify:+998901234567:654321",
		"reset:+998901234567:654321:newpass",
	}, f.backend.calls)
}

func TestPasswordReset_RejectedCodeKeepsStep(t *testing.T) {
	f := newFixture(t, "")

	_, err := f.service.StartFlow(f.ctx, "client-a", wizard.KindPasswordReset)
	require.NoError(t, err)
	_, err = f.service.SubmitPasswordReset(f.ctx, "client-a", wizard.StepPhone, auth.StepInput{Phone: "901234567"})
	require.NoError(t, err)

	f.backend.err = &backend.RemoteError{Status: http.StatusBadRequest, Message: backend.FallbackVerify}
	_, err = f.service.SubmitPasswordReset(f.ctx, "client-a", wizard.StepVerification, auth.StepInput{Code: "111111"})
	assert.Equal(t, backend.FallbackVerify, apperr.As(err).Message)

	view, err := f.service.Flow(f.ctx, "client-a", wizard.KindPasswordReset)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepVerification, view.Step)
}

/*
TestUpdateProfile verifies the display name is recomputed and persisted.
*/
func TestUpdateProfile(t *testing.T) {
	f := newFixture(t, "")

	_, err := f.service.UpdateProfile(f.ctx, f.store, auth.ProfileInput{})
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	require.NoError(t, f.store.Login(f.ctx, session.Session{FirstName: "Ali", LastName: "Valiyev", Token: "t"}))

	principal, err := f.service.UpdateProfile(f.ctx, f.store, auth.ProfileInput{
		LastName: pointer.To("Karimov"),
		Address:  pointer.To("Samarkand"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ali Karimov", principal.Name)
	assert.Equal(t, "Samarkand", principal.Address)

	raw, found, err := f.storage.Get(f.ctx, "session-user:client-a")
	require.NoError(t, err)
	require.True(t, found)

	var persisted session.Session
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Equal(t, "Ali Karimov", persisted.Name)
}
