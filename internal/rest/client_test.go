// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

package rest_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doatroca/troca/internal/platform/apperr"
	"github.com/doatroca/troca/internal/rest"
)

// staticTokens is a TokenSource returning a fixed token.
type staticTokens string

func (t staticTokens) AccessToken() string { return string(t) }

func newTestClient(t *testing.T, handler http.Handler, tokens rest.TokenSource) *rest.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := rest.NewClient(rest.Options{
		BaseURL: server.URL,
		Tokens:  tokens,
	})
	require.NoError(t, err)
	return client
}

/*
TestClient_BearerHeader verifies that the Authorization header is attached
exactly when the token source yields a token.
*/
func TestClient_BearerHeader(t *testing.T) {
	var seen string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	// 1. With a token
	client := newTestClient(t, handler, staticTokens("tok-123"))
	require.NoError(t, client.Get(context.Background(), "/users/me", nil, nil))
	assert.Equal(t, "Bearer tok-123", seen)

	// 2. Unauthenticated: no header at all
	client = newTestClient(t, handler, staticTokens(""))
	require.NoError(t, client.Get(context.Background(), "/items", nil, nil))
	assert.Empty(t, seen)
}

/*
TestClient_RequestID verifies that every request carries an X-Request-ID.
*/
func TestClient_RequestID(t *testing.T) {
	var seen string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("X-Request-ID")
		_, _ = w.Write([]byte(`{}`))
	})

	client := newTestClient(t, handler, nil)
	require.NoError(t, client.Get(context.Background(), "/items", nil, nil))
	assert.NotEmpty(t, seen)
}

/*
TestClient_ErrorMapping verifies status-to-taxonomy mapping, including the
duplicate-email phrase sniffing on 400 responses.
*/
func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		expectedCode string
	}{
		{"unauthorized", 401, `{"detail": "Could not validate credentials"}`, "UNAUTHORIZED"},
		{"forbidden", 403, `{"detail": "Sem permissão"}`, "FORBIDDEN"},
		{"not_found", 404, `{"detail": "Item não encontrado"}`, "NOT_FOUND"},
		{"conflict", 409, `{"detail": "Email already exists"}`, "CONFLICT"},
		{"dup_email_as_400_pt", 400, `{"detail": "Email já registrado"}`, "CONFLICT"},
		{"dup_email_as_400_en", 400, `{"detail": "email already registered"}`, "CONFLICT"},
		{"plain_400", 400, `{"detail": "ensure this value has at least 6 characters"}`, "VALIDATION_ERROR"},
		{"unprocessable", 422, `{"detail": "field required"}`, "VALIDATION_ERROR"},
		{"server_error", 500, `{"detail": "boom"}`, "INTERNAL_ERROR"},
		{"empty_body_401", 401, ``, "UNAUTHORIZED"},
		{"non_json_body", 404, `<html>not found</html>`, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}), nil)

			err := client.Get(context.Background(), "/whatever", nil, nil)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.expectedCode, ae.Code)
		})
	}
}

/*
TestClient_ErrorDetailSurfaced verifies that the backend's detail message is
preserved verbatim for the user.
*/
func TestClient_ErrorDetailSurfaced(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"detail": "Sem permissão para editar este item"}`))
	}), nil)

	err := client.Delete(context.Background(), "/items/7")
	require.Error(t, err)
	assert.Equal(t, "Sem permissão para editar este item", apperr.As(err).Message)
}

/*
TestClient_NetworkError verifies that transport failures map to the network
code rather than surfacing raw *url.Error values.
*/
func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // connection refused from here on

	client, err := rest.NewClient(rest.Options{BaseURL: server.URL})
	require.NoError(t, err)

	err = client.Get(context.Background(), "/items", nil, nil)
	require.Error(t, err)
	assert.True(t, apperr.IsNetwork(err))
}

/*
TestNewClient_InvalidBaseURL verifies base URL validation.
*/
func TestNewClient_InvalidBaseURL(t *testing.T) {
	for _, baseURL := range []string{"", "not-a-url", "/relative/only"} {
		_, err := rest.NewClient(rest.Options{BaseURL: baseURL})
		assert.Error(t, err, baseURL)
	}
}
