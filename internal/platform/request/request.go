// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/uzevently/internal/platform/apperr"
	"github.com/taibuivan/uzevently/internal/platform/ctxutil"
	"github.com/taibuivan/uzevently/internal/platform/validate"
	"github.com/taibuivan/uzevently/internal/session"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

var errSessionMissing = errors.New("session store missing from request context")

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, request.Body, maxBodyBytes))
	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
IntParam retrieves a positive integer URL parameter.

Returns:
  - int: Parsed value
  - error: apperr.ValidationError when the parameter is not a positive integer
*/
func IntParam(request *http.Request, name string) (int, error) {
	value, err := strconv.Atoi(chi.URLParam(request, name))
	if err != nil || value <= 0 {
		return 0, validate.RequiredError(name, "Must be a positive integer")
	}
	return value, nil
}

/*
Session returns the client's session store loaded by the session middleware.

Returns:
  - *session.Store
  - error: apperr.Internal when the middleware did not run
*/
func Session(request *http.Request) (*session.Store, error) {
	store := ctxutil.GetSession(request.Context())
	if store == nil {
		return nil, apperr.Internal(errSessionMissing)
	}
	return store, nil
}

/*
RequiredUser ensures the request is authenticated and returns the principal.

Returns:
  - *session.Session: The authenticated principal
  - error: apperr.Unauthorized if the client is a guest
*/
func RequiredUser(request *http.Request) (*session.Session, error) {
	user := ctxutil.CurrentUser(request.Context())
	if user == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return user, nil
}

/*
ClientID returns the browser identity of the request.
*/
func ClientID(request *http.Request) string {
	return ctxutil.GetClientID(request.Context())
}

