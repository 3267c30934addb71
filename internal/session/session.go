// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

// Package session owns the authentication state of the Troca client.
//
// # Architecture
//
// Exactly one [Session] is active per client. Its lifecycle: created on a
// successful login, refreshed by re-fetching the profile, destroyed on logout
// or on any authentication failure. All reads and writes of the persistent
// token store go through the [Manager] in this package; no other component
// touches the store.
package session

import (
	"github.com/doatroca/troca/internal/rest"
)

// Profile is the backend's representation of the authenticated user.
type Profile struct {
	ID    rest.FlexID `json:"id"`
	Email string      `json:"email"`
	Name  string      `json:"name,omitempty"`
	City  string      `json:"city,omitempty"`
}

// Session is the authenticated state of the client: issued tokens plus the
// cached profile.
//
// # Invariant
//
// A Session is only ever observable with a non-empty access token AND a
// non-nil User. Tokens without a confirmed profile are session-invalid and
// force a logout.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *Profile
}

// State is the persisted form of a session: two string tokens plus the
// serialized profile, stored under fixed key names and cleared in full on
// logout.
type State struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	Profile      *Profile `json:"profile,omitempty"`
}
