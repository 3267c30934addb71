// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doatroca/troca/internal/platform/sec"
)

/*
TestTokenService_RoundTrip issues and verifies a token.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := sec.NewTokenService("test-secret", "doatroca.app")

	token, err := service.GenerateAccessToken("42", "demo@demo.com", time.Hour)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "demo@demo.com", claims.Email)
}

/*
TestTokenService_WrongSecret rejects a token signed elsewhere.
*/
func TestTokenService_WrongSecret(t *testing.T) {
	issuer := sec.NewTokenService("secret-a", "doatroca.app")
	verifier := sec.NewTokenService("secret-b", "doatroca.app")

	token, err := issuer.GenerateAccessToken("42", "demo@demo.com", time.Hour)
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.Error(t, err)
}

/*
TestTokenService_Expired rejects an expired token.
*/
func TestTokenService_Expired(t *testing.T) {
	service := sec.NewTokenService("test-secret", "doatroca.app")

	token, err := service.GenerateAccessToken("42", "demo@demo.com", -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.Error(t, err)
}

/*
TestPeekExpiry reads the expiry without verifying the signature; opaque
tokens report no expiry at all.
*/
func TestPeekExpiry(t *testing.T) {
	service := sec.NewTokenService("test-secret", "doatroca.app")

	token, err := service.GenerateAccessToken("42", "demo@demo.com", time.Hour)
	require.NoError(t, err)

	expiry, ok := sec.PeekExpiry(token)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, time.Minute)

	_, ok = sec.PeekExpiry("opaque-session-token")
	assert.False(t, ok)
}

/*
TestPasswordHashing covers the bcrypt helpers.
*/
func TestPasswordHashing(t *testing.T) {
	hash, err := sec.HashPassword("demo123")
	require.NoError(t, err)
	assert.NotEqual(t, "demo123", hash)

	assert.True(t, sec.CheckPasswordHash("demo123", hash))
	assert.False(t, sec.CheckPasswordHash("wrong", hash))
}
