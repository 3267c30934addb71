// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

package rest

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/doatroca/troca/internal/platform/apperr"
)

// This file is the response-normalization boundary. The two backend variants
// never agreed on shapes:
//
//   - login returns {access_token, token_type} on one, {access, refresh} on
//     the other;
//   - lists arrive as bare arrays, {data: [...]} envelopes, or paginated
//     {count, results} wrappers;
//   - resource IDs are integers on one backend and UUID strings on the other.
//
// Everything is collapsed to one canonical shape here; no other package is
// allowed to know the variants exist.

// # Token Payloads

// TokenPair is the canonical result of a login call.
type TokenPair struct {
	Access  string
	Refresh string
}

// tokenPayload is the union of every login response shape observed.
type tokenPayload struct {
	AccessToken  string `json:"access_token"`
	Access       string `json:"access"`
	Refresh      string `json:"refresh"`
	RefreshToken string `json:"refresh_token"`
}

// NormalizeTokens collapses a raw login response into a [TokenPair].
//
// A payload with no recognizable access token is treated as an authentication
// failure rather than a decode bug: an empty token can never establish a
// session, so the caller must not proceed.
func NormalizeTokens(raw json.RawMessage) (TokenPair, error) {
	var payload tokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return TokenPair{}, apperr.Internal(fmt.Errorf("rest: malformed token response: %w", err))
	}

	pair := TokenPair{
		Access:  payload.AccessToken,
		Refresh: payload.Refresh,
	}
	if pair.Access == "" {
		pair.Access = payload.Access
	}
	if pair.Refresh == "" {
		pair.Refresh = payload.RefreshToken
	}

	if pair.Access == "" {
		return TokenPair{}, apperr.Unauthorized("Login response carried no access token")
	}

	return pair, nil
}

// # List Payloads

// listEnvelope is the union of every list wrapper observed.
type listEnvelope struct {
	Data    json.RawMessage `json:"data"`
	Results json.RawMessage `json:"results"`
	Items   json.RawMessage `json:"items"`
}

// DecodeList decodes a list response into out (a pointer to a slice),
// unwrapping whichever envelope the backend chose. A bare JSON array is
// decoded directly.
func DecodeList(raw json.RawMessage, out any) error {
	payload := firstNonNull(raw)

	if len(payload) > 0 && payload[0] == '[' {
		if err := json.Unmarshal(payload, out); err != nil {
			return apperr.Internal(fmt.Errorf("rest: malformed list response: %w", err))
		}
		return nil
	}

	var envelope listEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return apperr.Internal(fmt.Errorf("rest: malformed list envelope: %w", err))
	}

	for _, inner := range []json.RawMessage{envelope.Data, envelope.Results, envelope.Items} {
		if len(inner) > 0 && string(inner) != "null" {
			if err := json.Unmarshal(inner, out); err != nil {
				return apperr.Internal(fmt.Errorf("rest: malformed wrapped list: %w", err))
			}
			return nil
		}
	}

	return apperr.Internal(fmt.Errorf("rest: list response carried no recognizable collection"))
}

// DecodeObject decodes a single-resource response into out, unwrapping a
// {data: {...}} envelope if present.
func DecodeObject(raw json.RawMessage, out any) error {
	payload := firstNonNull(raw)

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err == nil &&
		len(envelope.Data) > 0 && envelope.Data[0] == '{' {
		payload = envelope.Data
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return apperr.Internal(fmt.Errorf("rest: malformed object response: %w", err))
	}
	return nil
}

// firstNonNull trims a nil/empty body down to the JSON "null" literal so
// decoding errors stay uniform.
func firstNonNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}

// # Flexible Identifiers

// FlexID is a resource identifier that accepts both the integer IDs of one
// backend variant and the UUID strings of the other. It is always handled as
// a string inside the client.
type FlexID string

// UnmarshalJSON implements json.Unmarshaler for both wire forms.
func (id *FlexID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = FlexID(n.String())
	return nil
}

// MarshalJSON emits the integer form when the value is numeric, so payloads
// round-trip against the integer-ID backend.
func (id FlexID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return json.Marshal(n)
	}
	return json.Marshal(string(id))
}

// String implements fmt.Stringer.
func (id FlexID) String() string { return string(id) }
