// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/uzevently/internal/backend"
	"github.com/taibuivan/uzevently/internal/platform/apperr"
	"github.com/taibuivan/uzevently/internal/platform/validate"
	"github.com/taibuivan/uzevently/internal/session"
	"github.com/taibuivan/uzevently/internal/wizard"
	"github.com/taibuivan/uzevently/pkg/phone"
)

// StepInput carries the form fields of any wizard step. Each step reads only
// the fields it owns.
type StepInput struct {
	AccountType     string `json:"accountType"`
	Phone           string `json:"phone"`
	Code            string `json:"code"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Address         string `json:"address"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// FlowView is the client-facing state of a wizard.
type FlowView struct {
	Kind        wizard.Kind      `json:"kind"`
	Step        string           `json:"step"`
	Steps       []string         `json:"steps"`
	Index       int              `json:"index"`
	Phone       string           `json:"phone,omitempty"`
	AccountType string           `json:"accountType,omitempty"`
	Session     *session.Session `json:"session,omitempty"`
}

func newFlowView(flow *wizard.Flow, principal *session.Session) *FlowView {
	return &FlowView{
		Kind:        flow.Kind,
		Step:        flow.Current(),
		Steps:       flow.Steps,
		Index:       flow.Index,
		Phone:       phone.Format(flow.Get(dataPhone)),
		AccountType: flow.Get(dataAccountType),
		Session:     principal,
	}
}

// # Shared Flow Handling

// StartFlow begins a new flow of kind at its first step.
//
// A flow already in progress is discarded first, so a restart is exactly a
// [Service.CancelFlow] followed by a fresh start; none of its collected data
// carries over. Within a flow [wizard.Flow.Submit] only moves forward.
func (service *Service) StartFlow(ctx context.Context, clientID string, kind wizard.Kind) (*FlowView, error) {
	flow, err := wizard.New(kind)
	if err != nil {
		return nil, apperr.NotFound("Flow")
	}
	if err := service.wizards.Save(ctx, clientID, flow); err != nil {
		return nil, err
	}
	return newFlowView(flow, nil), nil
}

// Flow returns the client's flow of kind.
func (service *Service) Flow(ctx context.Context, clientID string, kind wizard.Kind) (*FlowView, error) {
	flow, err := service.loadFlow(ctx, clientID, kind)
	if err != nil {
		return nil, err
	}
	return newFlowView(flow, nil), nil
}

// CancelFlow discards the client's flow of kind. It is the only way back.
func (service *Service) CancelFlow(ctx context.Context, clientID string, kind wizard.Kind) error {
	return service.wizards.Delete(ctx, clientID, kind)
}

func (service *Service) loadFlow(ctx context.Context, clientID string, kind wizard.Kind) (*wizard.Flow, error) {
	flow, err := service.wizards.Load(ctx, clientID, kind)
	if err != nil {
		return nil, err
	}
	if flow == nil {
		return nil, apperr.NotFound("Flow")
	}
	return flow, nil
}

// advance submits step and persists the flow only when it moved.
func (service *Service) advance(ctx context.Context, clientID string, flow *wizard.Flow, step string, check func(map[string]string) error) error {
	if err := flow.Submit(step, check); err != nil {
		return flowError(err)
	}
	return service.wizards.Save(ctx, clientID, flow)
}

// # Registration

/*
SubmitRegistration validates one registration step and advances the wizard.

Description: The phone and verification steps are format checks only. The
details step registers the account with the backend, logs the client in and
moves the wizard to "complete".

Parameters:
  - ctx: context.Context
  - store: *session.Store (the client's session)
  - step: string (must be the current step)
  - input: StepInput

Returns:
  - *FlowView: The wizard after the step
  - error: Validation, step order, upstream errors (the step is unchanged)
*/
func (service *Service) SubmitRegistration(ctx context.Context, store *session.Store, step string, input StepInput) (*FlowView, error) {
	flow, err := service.loadFlow(ctx, store.ClientID(), wizard.KindRegister)
	if err != nil {
		return nil, err
	}

	var principal *session.Session

	err = service.advance(ctx, store.ClientID(), flow, step, func(data map[string]string) error {
		switch step {
		case wizard.StepRole:
			if err := (&validate.Validator{}).
				OneOf("accountType", input.AccountType, session.AccountPersonal, session.AccountBusiness).
				Err(); err != nil {
				return err
			}
			data[dataAccountType] = input.AccountType

		case wizard.StepPhone:
			if !phone.Valid(input.Phone) {
				return validate.RequiredError("phone", MsgPhoneInvalid)
			}
			data[dataPhone] = phone.Digits(input.Phone)

		case wizard.StepVerification:
			if err := (&validate.Validator{}).Digits("code", input.Code, codeLen, MsgCodeInvalid).Err(); err != nil {
				return err
			}
			data[dataCode] = input.Code

		case wizard.StepDetails:
			registered, err := service.register(ctx, store, data, input)
			if err != nil {
				return err
			}
			principal = registered
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return newFlowView(flow, principal), nil
}

// register performs the details step: validation, backend call and login.
func (service *Service) register(ctx context.Context, store *session.Store, data map[string]string, input StepInput) (*session.Session, error) {
	if err := checkPasswords(input.Password, input.ConfirmPassword,
		input.FirstName, input.LastName, data[dataPhone]); err != nil {
		return nil, err
	}

	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	fullPhone := phone.Full(data[dataPhone])
	accountType := data[dataAccountType]
	role := service.roleFor(fullPhone, accountType)
	name := firstName + " " + lastName

	resp, err := service.backend.Register(ctx, backend.RegisterRequest{
		PhoneNumber:     fullPhone,
		Name:            name,
		Address:         input.Address,
		AccountType:     accountType,
		Password:        input.Password,
		ConfirmPassword: input.ConfirmPassword,
		FirstName:       firstName,
		LastName:        lastName,
		Role:            string(role),
	})
	if err != nil {
		return nil, upstreamError(err)
	}

	var backendID string
	if resp.User != nil {
		backendID = string(resp.User.ID)
	}

	principal := session.Session{
		ID:          session.IDOrProvisional(backendID),
		FirstName:   firstName,
		LastName:    lastName,
		Name:        name,
		PhoneNumber: fullPhone,
		Role:        role,
		Token:       resp.Token,
		Address:     input.Address,
		AccountType: accountType,
	}
	if err := store.Login(ctx, principal); err != nil {
		return nil, err
	}

	if role == session.RoleAdmin {
		service.logger.Warn("admin_registered", slog.String("client_id", store.ClientID()))
	}

	return store.Current(), nil
}

// roleFor derives the role granted at registration.
func (service *Service) roleFor(fullPhone, accountType string) session.Role {
	if service.adminPhone != "" && fullPhone == service.adminPhone {
		return session.RoleAdmin
	}
	return session.RoleForAccountType(accountType)
}

// # Password Reset

/*
SubmitPasswordReset validates one reset step, calls the backend and advances.

Description: Every step talks to the backend: the phone step requests a code,
the verification step checks it, and the reset step sets the new password
and moves the wizard to "done".

Returns:
  - *FlowView: The wizard after the step
  - error: Validation, step order, upstream errors (the step is unchanged)
*/
func (service *Service) SubmitPasswordReset(ctx context.Context, clientID, step string, input StepInput) (*FlowView, error) {
	flow, err := service.loadFlow(ctx, clientID, wizard.KindPasswordReset)
	if err != nil {
		return nil, err
	}

	err = service.advance(ctx, clientID, flow, step, func(data map[string]string) error {
		switch step {
		case wizard.StepPhone:
			if !phone.Valid(input.Phone) {
				return validate.RequiredError("phone", MsgPhoneInvalid)
			}
			digits := phone.Digits(input.Phone)
			if err := service.backend.ForgotPassword(ctx, phone.Full(digits)); err != nil {
				return upstreamError(err)
			}
			data[dataPhone] = digits

		case wizard.StepVerification:
			if err := (&validate.Validator{}).Digits("code", input.Code, codeLen, MsgCodeInvalid).Err(); err != nil {
				return err
			}
			if err := service.backend.VerifyCode(ctx, phone.Full(data[dataPhone]), input.Code); err != nil {
				return upstreamError(err)
			}
			data[dataCode] = input.Code

		case wizard.StepReset:
			if err := checkPasswords(input.Password, input.ConfirmPassword); err != nil {
				return err
			}
			if err := service.backend.ResetPassword(ctx, phone.Full(data[dataPhone]), data[dataCode], input.Password); err != nil {
				return upstreamError(err)
			}
			service.logger.Info("password_reset_completed", slog.String("client_id", clientID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return newFlowView(flow, nil), nil
}

// checkPasswords applies the shared password rules in their fixed order:
// every field present, confirmation equal, minimum length. The first failed
// rule becomes the message.
func checkPasswords(password, confirmation string, otherRequired ...string) error {
	missing := password == "" || confirmation == ""
	for _, value := range otherRequired {
		missing = missing || strings.TrimSpace(value) == ""
	}

	v := &validate.Validator{}
	if v.Custom("password", missing, MsgFillAllFields).HasErrors() {
		return v.Err()
	}

	return v.
		Match("confirmPassword", confirmation, password, MsgPasswordMismatch).
		Custom("password", len(password) < minPasswordLen, MsgPasswordShort).
		Err()
}
