// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doatroca/troca/internal/catalog"
	"github.com/doatroca/troca/internal/platform/apperr"
	"github.com/doatroca/troca/internal/rest"
)

type catalogBackend struct {
	server  *httptest.Server
	hits    atomic.Int64
	lastURL string
	status  int
	body    string
}

func newCatalogBackend(t *testing.T, status int, body string) *catalogBackend {
	t.Helper()
	backend := &catalogBackend{status: status, body: body}
	backend.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backend.hits.Add(1)
		backend.lastURL = r.URL.String()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(backend.status)
		_, _ = w.Write([]byte(backend.body))
	}))
	t.Cleanup(backend.server.Close)
	return backend
}

func newService(t *testing.T, backend *catalogBackend) *catalog.Service {
	t.Helper()
	client, err := rest.NewClient(rest.Options{BaseURL: backend.server.URL})
	require.NoError(t, err)
	return catalog.NewService(client, nil)
}

/*
TestService_Categories decodes both the bare-array and the paginated list
shape.
*/
func TestService_Categories(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bare_array", `[{"id": 1, "name": "Roupas"}, {"id": 2, "name": "Móveis"}]`},
		{"paginated", `{"count": 2, "results": [{"id": "a", "name": "Roupas"}, {"id": "b", "name": "Móveis"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newCatalogBackend(t, http.StatusOK, tt.body)
			service := newService(t, backend)

			categories, err := service.Categories(context.Background())
			require.NoError(t, err)
			require.Len(t, categories, 2)
			assert.Equal(t, "Roupas", categories[0].Name)
		})
	}
}

/*
TestService_List_FilterEncoding checks the query parameters the filter
renders, including the tri-state donation flag.
*/
func TestService_List_FilterEncoding(t *testing.T) {
	backend := newCatalogBackend(t, http.StatusOK, `[]`)
	service := newService(t, backend)

	donations := true
	_, err := service.List(context.Background(), catalog.Filter{
		Query:      "sofá",
		CategoryID: "2",
		Condition:  "used",
		City:       "Pouso Alegre",
		IsDonation: &donations,
		Skip:       10,
		Limit:      5,
	})
	require.NoError(t, err)

	assert.Contains(t, backend.lastURL, "q=sof%C3%A1")
	assert.Contains(t, backend.lastURL, "category_id=2")
	assert.Contains(t, backend.lastURL, "condition=used")
	assert.Contains(t, backend.lastURL, "is_donation=true")
	assert.Contains(t, backend.lastURL, "skip=10")
	assert.Contains(t, backend.lastURL, "limit=5")

	// Zero filter keeps the URL clean.
	_, err = service.List(context.Background(), catalog.Filter{})
	require.NoError(t, err)
	assert.Equal(t, "/items", backend.lastURL)
}

/*
TestService_List_NormalizesDialects: both item encodings land on the same
canonical Item.
*/
func TestService_List_NormalizesDialects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			"flat_encoding",
			`[{"id": 7, "title": "Sofá", "is_donation": false, "condition": "used", "category_id": 2}]`,
		},
		{
			"nested_encoding",
			`{"count": 1, "results": [{"id": "7", "title": "Sofá", "type": "exchange", "condition": "used", "category": {"id": 2, "name": "Móveis"}}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newCatalogBackend(t, http.StatusOK, tt.body)
			service := newService(t, backend)

			items, err := service.List(context.Background(), catalog.Filter{})
			require.NoError(t, err)
			require.Len(t, items, 1)

			item := items[0]
			assert.Equal(t, "7", item.ID.String())
			assert.Equal(t, "Sofá", item.Title)
			assert.False(t, item.IsDonation)
			assert.Equal(t, "2", item.CategoryID.String())
		})
	}
}

/*
TestService_Get_NotFound surfaces the backend 404 as NotFound.
*/
func TestService_Get_NotFound(t *testing.T) {
	backend := newCatalogBackend(t, http.StatusNotFound, `{"detail": "Item não encontrado"}`)
	service := newService(t, backend)

	_, err := service.Get(context.Background(), "999")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_Create_ValidationSkipsNetwork: rejected input issues no request
and the caller's input struct is untouched.
*/
func TestService_Create_ValidationSkipsNetwork(t *testing.T) {
	backend := newCatalogBackend(t, http.StatusOK, `{}`)
	service := newService(t, backend)

	input := catalog.ItemInput{Title: "", Condition: "used"}
	_, err := service.Create(context.Background(), input)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Zero(t, backend.hits.Load())
	assert.Equal(t, "used", input.Condition)

	_, err = service.Create(context.Background(), catalog.ItemInput{Title: "Sofá", Condition: "broken"})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Zero(t, backend.hits.Load())
}

/*
TestService_Create_DefaultsCondition: an empty condition submits as "used".
*/
func TestService_Create_DefaultsCondition(t *testing.T) {
	var submitted map[string]json.RawMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&submitted))
		_, _ = w.Write([]byte(`{"id": 1, "title": "Sofá", "is_donation": true, "condition": "used"}`))
	}))
	t.Cleanup(server.Close)

	client, err := rest.NewClient(rest.Options{BaseURL: server.URL})
	require.NoError(t, err)
	service := catalog.NewService(client, nil)

	created, err := service.Create(context.Background(), catalog.ItemInput{
		Title:      "Sofá",
		IsDonation: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "used", created.Condition)
	assert.JSONEq(t, `"used"`, string(submitted["condition"]))
}

/*
TestService_Update_Forbidden: a foreign item's 403 surfaces verbatim.
*/
func TestService_Update_Forbidden(t *testing.T) {
	backend := newCatalogBackend(t, http.StatusForbidden, `{"detail": "Sem permissão"}`)
	service := newService(t, backend)

	_, err := service.Update(context.Background(), "7", catalog.ItemInput{Title: "Sofá"})
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "FORBIDDEN", ae.Code)
	assert.Equal(t, "Sem permissão", ae.Message)
}

/*
TestService_Delete hits the escaped item path.
*/
func TestService_Delete(t *testing.T) {
	backend := newCatalogBackend(t, http.StatusNoContent, ``)
	service := newService(t, backend)

	require.NoError(t, service.Delete(context.Background(), "abc/1"))
	assert.Equal(t, "/items/abc%2F1", backend.lastURL)
}
