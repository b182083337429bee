// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/uzevently/internal/platform/middleware"
	"github.com/taibuivan/uzevently/internal/platform/request"
	"github.com/taibuivan/uzevently/internal/platform/respond"
	"github.com/taibuivan/uzevently/internal/wizard"
)

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// Login, logout, the current session, profile edits, and the registration
// and password reset wizards.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST   /login                    : Authenticates and opens the session.
//   - POST   /logout                   : Clears the session locally.
//   - GET    /session                  : Current principal or null.
//   - PATCH  /session                  : Profile edit (auth required).
//   - POST   /register                 : Starts (or restarts) registration.
//   - GET    /register                 : Current registration step.
//   - POST   /register/{step}          : Submits one registration step.
//   - DELETE /register                 : Cancels registration.
//   - The same four for /password-reset.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)
	router.Get("/session", handler.current)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Patch("/session", handler.updateProfile)
	})

	handler.mountFlow(router, "/register", wizard.KindRegister, handler.submitRegistration)
	handler.mountFlow(router, "/password-reset", wizard.KindPasswordReset, handler.submitPasswordReset)

	return router
}

func (handler *Handler) mountFlow(router chi.Router, path string, kind wizard.Kind, submit http.HandlerFunc) {
	router.Route(path, func(r chi.Router) {
		r.Post("/", handler.startFlow(kind))
		r.Get("/", handler.getFlow(kind))
		r.Delete("/", handler.cancelFlow(kind))
		r.Post("/{step}", submit)
	})
}

// # Session Endpoints

type loginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// login handles POST /api/v1/auth/login.
//
// # Returns
//   - 200 with the principal.
//   - 400 for malformed phone or missing fields.
//   - The backend status (4xx) with its message on rejection, 502 if unreachable.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	store, err := requestutil.Session(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Application Execution ──────────────────────────────────────────

	principal, err := handler.authService.Login(request.Context(), store, LoginInput{
		Phone:    input.Phone,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Presentation Output ────────────────────────────────────────────

	respond.OK(writer, principal)
}

// logout handles POST /api/v1/auth/logout.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	store, err := requestutil.Session(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), store); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// current handles GET /api/v1/auth/session. Guests get a null data field.
func (handler *Handler) current(writer http.ResponseWriter, request *http.Request) {
	store, err := requestutil.Session(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, store.Current())
}

type profileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Address   *string `json:"address"`
}

// updateProfile handles PATCH /api/v1/auth/session.
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	var input profileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	store, err := requestutil.Session(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	principal, err := handler.authService.UpdateProfile(request.Context(), store, ProfileInput{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Address:   input.Address,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, principal)
}

// # Wizard Endpoints

// startFlow handles POST /register and POST /password-reset.
//
// Restarting an active flow is cancel + start: it answers 201 with the first
// step and forgets every earlier answer.
func (handler *Handler) startFlow(kind wizard.Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		view, err := handler.authService.StartFlow(request.Context(), requestutil.ClientID(request), kind)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.Created(writer, view)
	}
}

func (handler *Handler) getFlow(kind wizard.Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		view, err := handler.authService.Flow(request.Context(), requestutil.ClientID(request), kind)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, view)
	}
}

func (handler *Handler) cancelFlow(kind wizard.Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if err := handler.authService.CancelFlow(request.Context(), requestutil.ClientID(request), kind); err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.NoContent(writer)
	}
}

// submitRegistration handles POST /api/v1/auth/register/{step}.
func (handler *Handler) submitRegistration(writer http.ResponseWriter, request *http.Request) {
	var input StepInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	store, err := requestutil.Session(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.authService.SubmitRegistration(request.Context(), store, requestutil.Param(request, "step"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

// submitPasswordReset handles POST /api/v1/auth/password-reset/{step}.
func (handler *Handler) submitPasswordReset(writer http.ResponseWriter, request *http.Request) {
	var input StepInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.authService.SubmitPasswordReset(request.Context(), requestutil.ClientID(request), requestutil.Param(request, "step"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}
