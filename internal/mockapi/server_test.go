// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

package mockapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doatroca/troca/internal/catalog"
	"github.com/doatroca/troca/internal/mockapi"
	"github.com/doatroca/troca/internal/platform/apperr"
	"github.com/doatroca/troca/internal/rest"
	"github.com/doatroca/troca/internal/session"
)

// testClient is one signed-in (or anonymous) client wired exactly the way
// the CLI wires it.
type testClient struct {
	manager *session.Manager
	catalog *catalog.Service
	store   session.Store
}

func newTestClient(t *testing.T, baseURL string) *testClient {
	t.Helper()

	store := session.NewMemoryStore()
	manager := session.NewManager(store, nil)
	client, err := rest.NewClient(rest.Options{
		BaseURL: baseURL,
		Tokens:  manager,
	})
	require.NoError(t, err)
	manager.Bind(client)

	return &testClient{
		manager: manager,
		catalog: catalog.NewService(client, nil),
		store:   store,
	}
}

func startServer(t *testing.T, dialect mockapi.Dialect) string {
	t.Helper()
	server := mockapi.NewServer(mockapi.Options{
		Dialect: dialect,
		Secret:  "test-secret",
		Seed:    true,
	})
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

var dialects = []mockapi.Dialect{mockapi.DialectBearer, mockapi.DialectSimpleJWT}

/*
TestServer_SeededLogin signs in with the demo account against both dialects.
The client must not be able to tell them apart.
*/
func TestServer_SeededLogin(t *testing.T) {
	for _, dialect := range dialects {
		t.Run(string(dialect), func(t *testing.T) {
			ctx := context.Background()
			client := newTestClient(t, startServer(t, dialect))

			signedIn, err := client.manager.Login(ctx, "demo@demo.com", "demo123")
			require.NoError(t, err)
			assert.Equal(t, "demo@demo.com", signedIn.User.Email)
			assert.Equal(t, "Demo", signedIn.User.Name)
			assert.NotEmpty(t, signedIn.AccessToken)

			if dialect == mockapi.DialectSimpleJWT {
				assert.NotEmpty(t, signedIn.RefreshToken)
			}
		})
	}
}

/*
TestServer_WrongPassword: both dialect encodings of a bad password land on
the same auth failure.
*/
func TestServer_WrongPassword(t *testing.T) {
	for _, dialect := range dialects {
		t.Run(string(dialect), func(t *testing.T) {
			client := newTestClient(t, startServer(t, dialect))

			_, err := client.manager.Login(context.Background(), "demo@demo.com", "nope-nope")
			require.Error(t, err)
			assert.True(t, apperr.IsAuth(err))
			assert.Nil(t, client.manager.Current())
		})
	}
}

/*
TestServer_RegisterAndConflict registers an account, then registers it again
and expects a conflict from both dialects (409 native, 400 + phrase).
*/
func TestServer_RegisterAndConflict(t *testing.T) {
	for _, dialect := range dialects {
		t.Run(string(dialect), func(t *testing.T) {
			ctx := context.Background()
			client := newTestClient(t, startServer(t, dialect))

			input := session.RegistrationInput{
				Email:    "maria@example.com",
				Password: "segredo1",
				Name:     "Maria",
				City:     "Itajubá",
			}
			require.NoError(t, client.manager.Register(ctx, input))

			// Registration never signs in.
			assert.Nil(t, client.manager.Current())

			err := client.manager.Register(ctx, input)
			require.Error(t, err)
			assert.True(t, apperr.IsConflict(err))

			// The new credentials work.
			signedIn, err := client.manager.Login(ctx, input.Email, input.Password)
			require.NoError(t, err)
			assert.Equal(t, "Maria", signedIn.User.Name)
		})
	}
}

/*
TestServer_Categories: seeded reference data comes back name-sorted and
canonical through either list shape.
*/
func TestServer_Categories(t *testing.T) {
	for _, dialect := range dialects {
		t.Run(string(dialect), func(t *testing.T) {
			client := newTestClient(t, startServer(t, dialect))

			categories, err := client.catalog.Categories(context.Background())
			require.NoError(t, err)

			names := make([]string, 0, len(categories))
			for _, cat := range categories {
				names = append(names, cat.Name)
			}
			assert.Equal(t, []string{"Eletrônicos", "Livros", "Móveis", "Roupas"}, names)
		})
	}
}

/*
TestServer_ItemLifecycle runs the full create/list/get/update/delete flow
through the real client stack against both dialects.
*/
func TestServer_ItemLifecycle(t *testing.T) {
	for _, dialect := range dialects {
		t.Run(string(dialect), func(t *testing.T) {
			ctx := context.Background()
			client := newTestClient(t, startServer(t, dialect))

			_, err := client.manager.Login(ctx, "demo@demo.com", "demo123")
			require.NoError(t, err)

			categories, err := client.catalog.Categories(ctx)
			require.NoError(t, err)

			created, err := client.catalog.Create(ctx, catalog.ItemInput{
				Title:       "Sofá de 2 lugares",
				Description: "Bem conservado",
				CategoryID:  categories[2].ID.String(), // Móveis
				IsDonation:  true,
			})
			require.NoError(t, err)
			assert.NotEmpty(t, created.ID.String())
			assert.True(t, created.IsDonation)
			assert.Equal(t, "used", created.Condition)
			// City defaults to the owner's profile city.
			assert.Equal(t, "Santa Rita do Sapucaí", created.City)

			// Accent-insensitive search finds it.
			found, err := client.catalog.List(ctx, catalog.Filter{Query: "sofa"})
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, created.ID, found[0].ID)

			fetched, err := client.catalog.Get(ctx, created.ID.String())
			require.NoError(t, err)
			assert.Equal(t, "Sofá de 2 lugares", fetched.Title)

			updated, err := client.catalog.Update(ctx, created.ID.String(), catalog.ItemInput{
				Title:      "Sofá de 3 lugares",
				CategoryID: created.CategoryID.String(),
				IsDonation: false,
				Condition:  "refurb",
			})
			require.NoError(t, err)
			assert.Equal(t, "Sofá de 3 lugares", updated.Title)
			assert.False(t, updated.IsDonation)

			require.NoError(t, client.catalog.Delete(ctx, created.ID.String()))

			_, err = client.catalog.Get(ctx, created.ID.String())
			require.Error(t, err)
			assert.True(t, apperr.IsNotFound(err))
		})
	}
}

/*
TestServer_ListFilters exercises kind, condition and pagination filters.
*/
func TestServer_ListFilters(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t, startServer(t, mockapi.DialectBearer))

	_, err := client.manager.Login(ctx, "demo@demo.com", "demo123")
	require.NoError(t, err)

	for _, input := range []catalog.ItemInput{
		{Title: "Geladeira", IsDonation: true, Condition: "used"},
		{Title: "Fogão", IsDonation: false, Condition: "used"},
		{Title: "Micro-ondas", IsDonation: true, Condition: "new"},
	} {
		_, err := client.catalog.Create(ctx, input)
		require.NoError(t, err)
	}

	donations := true
	found, err := client.catalog.List(ctx, catalog.Filter{IsDonation: &donations})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = client.catalog.List(ctx, catalog.Filter{Condition: "new"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Micro-ondas", found[0].Title)

	// Newest first, then pagination.
	all, err := client.catalog.List(ctx, catalog.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Micro-ondas", all[0].Title)

	page, err := client.catalog.List(ctx, catalog.Filter{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Fogão", page[0].Title)
}

/*
TestServer_OwnershipEnforced: another user's item cannot be updated or
deleted.
*/
func TestServer_OwnershipEnforced(t *testing.T) {
	for _, dialect := range dialects {
		t.Run(string(dialect), func(t *testing.T) {
			ctx := context.Background()
			baseURL := startServer(t, dialect)

			owner := newTestClient(t, baseURL)
			_, err := owner.manager.Login(ctx, "demo@demo.com", "demo123")
			require.NoError(t, err)

			created, err := owner.catalog.Create(ctx, catalog.ItemInput{Title: "Bicicleta", IsDonation: true})
			require.NoError(t, err)

			intruder := newTestClient(t, baseURL)
			require.NoError(t, intruder.manager.Register(ctx, session.RegistrationInput{
				Email:    "intruso@example.com",
				Password: "segredo1",
			}))
			_, err = intruder.manager.Login(ctx, "intruso@example.com", "segredo1")
			require.NoError(t, err)

			_, err = intruder.catalog.Update(ctx, created.ID.String(), catalog.ItemInput{Title: "Minha agora"})
			require.Error(t, err)
			assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

			err = intruder.catalog.Delete(ctx, created.ID.String())
			require.Error(t, err)
			assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

			// Still there, still the owner's.
			fetched, err := owner.catalog.Get(ctx, created.ID.String())
			require.NoError(t, err)
			assert.Equal(t, "Bicicleta", fetched.Title)
		})
	}
}

/*
TestServer_AuthRequired: mutating endpoints reject anonymous calls.
*/
func TestServer_AuthRequired(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t, startServer(t, mockapi.DialectBearer))

	_, err := client.catalog.Create(ctx, catalog.ItemInput{Title: "Cadeira"})
	require.Error(t, err)
	assert.True(t, apperr.IsAuth(err))
}

/*
TestServer_RestoreAcrossProcesses simulates a restart: a second manager over
the same store re-hydrates the session without logging in again.
*/
func TestServer_RestoreAcrossProcesses(t *testing.T) {
	ctx := context.Background()
	baseURL := startServer(t, mockapi.DialectBearer)

	first := newTestClient(t, baseURL)
	_, err := first.manager.Login(ctx, "demo@demo.com", "demo123")
	require.NoError(t, err)

	// Same store, fresh manager: the "next process".
	second := session.NewManager(first.store, nil)
	restClient, err := rest.NewClient(rest.Options{BaseURL: baseURL, Tokens: second})
	require.NoError(t, err)
	second.Bind(restClient)

	restored := second.Restore(ctx)
	require.NotNil(t, restored)
	assert.Equal(t, "demo@demo.com", restored.User.Email)
}

/*
TestServer_RegisterValidation: the stub rejects bad payloads with the
dialect's native status so the client's mapping is exercised end to end.
*/
func TestServer_RegisterValidation(t *testing.T) {
	baseURL := startServer(t, mockapi.DialectBearer)

	response, err := http.Post(baseURL+"/auth/register", "application/json",
		nil)
	require.NoError(t, err)
	defer func() { _ = response.Body.Close() }()
	assert.Equal(t, http.StatusUnprocessableEntity, response.StatusCode)
}
