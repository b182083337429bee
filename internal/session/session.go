// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session implements the per-client identity store.

It is the single source of truth for "who is logged in" on a given browser and
the single owner of the persistence side effects for that answer.

# Architecture

A [Store] is opened for one client at the start of every request. It is
reconstructed from durable storage so that a reload never requires a call to
the external backend. Handlers receive the store through the request context;
there is no global session state.
*/
package session

import (
	"strings"

	"github.com/taibuivan/uzevently/pkg/uuidv7"
)

// # Roles

// Role is the authorization level derived at login or registration.
type Role string

const (
	RoleUser     Role = "user"
	RoleBusiness Role = "business"
	RoleAdmin    Role = "admin"
)

// Account types reported by the external backend.
const (
	AccountPersonal = "PERSONAL"
	AccountBusiness = "BUSINESS"
)

// RoleForAccountType maps the backend account type flag to a [Role].
func RoleForAccountType(accountType string) Role {
	if accountType == AccountBusiness {
		return RoleBusiness
	}
	return RoleUser
}

// # Identity

// ID is a principal identifier.
//
// When the backend omits an identifier a provisional one is generated locally.
// It is always marked as such and must never be reconciled as if it were an
// authoritative backend ID.
type ID struct {
	Value       string `json:"value"`
	Provisional bool   `json:"provisional,omitempty"`
}

// AuthoritativeID wraps an identifier issued by the backend.
func AuthoritativeID(value string) ID {
	return ID{Value: value}
}

// ProvisionalID generates a local placeholder identifier.
func ProvisionalID() ID {
	return ID{Value: uuidv7.New(), Provisional: true}
}

// IDOrProvisional returns the backend ID when present, or a provisional one.
func IDOrProvisional(value string) ID {
	if strings.TrimSpace(value) == "" {
		return ProvisionalID()
	}
	return AuthoritativeID(value)
}

// # Principal

// Session is the authenticated principal record.
type Session struct {
	ID              ID     `json:"id"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Name            string `json:"name,omitempty"`
	PhoneNumber     string `json:"phoneNumber"`
	Role            Role   `json:"role"`
	Address         string `json:"address,omitempty"`
	AccountType     string `json:"accountType,omitempty"`
	IsAuthenticated bool   `json:"isAuthenticated"`

	// Token is the opaque bearer credential. It is persisted under its own key
	// and never leaves the gateway.
	Token string `json:"-"`
}

// Patch holds the fields a profile edit may change. Nil means unchanged.
type Patch struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Name      *string `json:"name,omitempty"`
	Address   *string `json:"address,omitempty"`
}

// apply shallow-merges the patch into a copy of s.
func (p Patch) apply(s Session) Session {
	if p.FirstName != nil {
		s.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		s.LastName = *p.LastName
	}
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Address != nil {
		s.Address = *p.Address
	}
	return s
}
