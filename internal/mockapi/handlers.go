// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

package mockapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/doatroca/troca/internal/platform/constants"
	"github.com/doatroca/troca/internal/platform/ctxutil"
	"github.com/doatroca/troca/internal/platform/sec"
	"github.com/doatroca/troca/internal/rest"
)

// badPayloadStatus is where the dialects disagree about rejected payloads:
// the primary backend's validation layer answers 422, the alternate one 400.
func (server *Server) badPayloadStatus() int {
	if server.dialect == DialectSimpleJWT {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}

// # Auth Endpoints

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	City     string `json:"city"`
}

// register handles POST /auth/register.
func (server *Server) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		server.writeError(writer, server.badPayloadStatus(), "Invalid payload")
		return
	}

	if input.Email == "" || !strings.Contains(input.Email, "@") {
		server.writeError(writer, server.badPayloadStatus(), "value is not a valid email address")
		return
	}
	if len(input.Password) < 6 {
		server.writeError(writer, server.badPayloadStatus(), "ensure this value has at least 6 characters")
		return
	}

	hash, err := sec.HashPassword(input.Password)
	if err != nil {
		server.writeError(writer, http.StatusInternalServerError, "Internal error")
		return
	}

	user, created := server.data.createUser(input.Email, hash, input.Name, input.City)
	if !created {
		// The one divergence the client's conflict normalization exists for.
		if server.dialect == DialectSimpleJWT {
			server.writeError(writer, http.StatusConflict, "Email already exists")
		} else {
			server.writeError(writer, http.StatusBadRequest, "Email já registrado")
		}
		return
	}

	server.writeJSON(writer, http.StatusCreated, server.renderUser(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// login handles POST /auth/login, accepting both the OAuth2 form encoding of
// the primary backend and plain JSON credentials.
func (server *Server) login(writer http.ResponseWriter, request *http.Request) {
	var email, password string

	contentType := request.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(contentType, "multipart/form-data") {
		if err := request.ParseForm(); err != nil {
			server.writeError(writer, server.badPayloadStatus(), "Invalid form payload")
			return
		}
		email = request.PostFormValue("username")
		password = request.PostFormValue("password")
	} else {
		var input loginRequest
		if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
			server.writeError(writer, server.badPayloadStatus(), "Invalid payload")
			return
		}
		email = input.Email
		if email == "" {
			email = input.Username
		}
		password = input.Password
	}

	user := server.data.userByEmail(email)
	if user == nil || !sec.CheckPasswordHash(password, user.PasswordHash) {
		// Same outcome, different encodings: 400 vs 401.
		if server.dialect == DialectSimpleJWT {
			server.writeError(writer, http.StatusUnauthorized, "No active account found with the given credentials")
		} else {
			server.writeError(writer, http.StatusBadRequest, "Email ou senha inválidos")
		}
		return
	}

	access, err := server.tokens.GenerateAccessToken(user.ID, user.Email, accessTokenTTL)
	if err != nil {
		server.writeError(writer, http.StatusInternalServerError, "Internal error")
		return
	}

	if server.dialect == DialectSimpleJWT {
		refresh, err := server.tokens.GenerateAccessToken(user.ID, user.Email, refreshTokenTTL)
		if err != nil {
			server.writeError(writer, http.StatusInternalServerError, "Internal error")
			return
		}
		server.writeJSON(writer, http.StatusOK, map[string]string{
			"access":  access,
			"refresh": refresh,
		})
		return
	}

	server.writeJSON(writer, http.StatusOK, map[string]string{
		"access_token": access,
		"token_type":   "bearer",
	})
}

// me handles GET /users/me.
func (server *Server) me(writer http.ResponseWriter, request *http.Request) {
	user := server.currentUser(request)
	if user == nil {
		server.writeError(writer, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	server.writeJSON(writer, http.StatusOK, server.renderUser(user))
}

// # Reference Data

// listCategories handles GET /categories.
func (server *Server) listCategories(writer http.ResponseWriter, _ *http.Request) {
	categories := server.data.listCategories()
	rendered := make([]map[string]any, 0, len(categories))
	for _, cat := range categories {
		rendered = append(rendered, server.renderCategory(cat))
	}
	server.writeList(writer, rendered)
}

// # Item Endpoints

type itemRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	IsDonation  *bool       `json:"is_donation"`
	Type        string      `json:"type"`
	Condition   string      `json:"condition"`
	City        string      `json:"city"`
	CategoryID  rest.FlexID `json:"category_id"`
}

// patch converts the wire payload to the store's canonical fields.
func (input itemRequest) patch(fallbackCity string) itemPatch {
	isDonation := true
	if input.IsDonation != nil {
		isDonation = *input.IsDonation
	} else if input.Type != "" {
		isDonation = input.Type == "donation"
	}

	condition := input.Condition
	if condition == "" {
		condition = constants.ConditionUsed
	}

	city := input.City
	if city == "" {
		city = fallbackCity
	}

	return itemPatch{
		Title:       input.Title,
		Description: input.Description,
		IsDonation:  isDonation,
		Condition:   condition,
		City:        city,
		CategoryID:  input.CategoryID.String(),
	}
}

// listItems handles GET /items with the full filter set.
func (server *Server) listItems(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	filter := itemFilter{
		query:      query.Get("q"),
		categoryID: query.Get("category_id"),
		condition:  query.Get("condition"),
		city:       query.Get("city"),
	}
	if raw := query.Get("is_donation"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err == nil {
			filter.isDonation = &parsed
		}
	}
	filter.skip, _ = strconv.Atoi(query.Get("skip"))
	filter.limit, _ = strconv.Atoi(query.Get("limit"))

	items := server.data.listItems(filter)
	rendered := make([]map[string]any, 0, len(items))
	for _, listing := range items {
		rendered = append(rendered, server.renderItem(listing))
	}
	server.writeList(writer, rendered)
}

// getItem handles GET /items/{id}.
func (server *Server) getItem(writer http.ResponseWriter, request *http.Request) {
	listing := server.data.getItem(chi.URLParam(request, "id"))
	if listing == nil {
		server.writeError(writer, http.StatusNotFound, "Item não encontrado")
		return
	}
	server.writeJSON(writer, http.StatusOK, server.renderItem(listing))
}

// createItem handles POST /items (authenticated).
func (server *Server) createItem(writer http.ResponseWriter, request *http.Request) {
	user := server.currentUser(request)
	if user == nil {
		server.writeError(writer, http.StatusUnauthorized, "Autenticação necessária")
		return
	}

	var input itemRequest
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		server.writeError(writer, server.badPayloadStatus(), "Invalid payload")
		return
	}
	if input.Title == "" {
		server.writeError(writer, server.badPayloadStatus(), "field required: title")
		return
	}

	listing := server.data.createItem(user.ID, input.patch(user.City))

	logger := ctxutil.GetLogger(request.Context())
	logger.Info("item_created", "item_id", listing.ID, "owner_id", user.ID)

	server.writeJSON(writer, http.StatusCreated, server.renderItem(listing))
}

// updateItem handles PUT /items/{id} (authenticated, owner only).
func (server *Server) updateItem(writer http.ResponseWriter, request *http.Request) {
	user := server.currentUser(request)
	if user == nil {
		server.writeError(writer, http.StatusUnauthorized, "Autenticação necessária")
		return
	}

	id := chi.URLParam(request, "id")
	existing := server.data.getItem(id)
	if existing == nil {
		server.writeError(writer, http.StatusNotFound, "Item não encontrado")
		return
	}
	if existing.OwnerID != user.ID {
		server.writeError(writer, http.StatusForbidden, "Sem permissão")
		return
	}

	var input itemRequest
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		server.writeError(writer, server.badPayloadStatus(), "Invalid payload")
		return
	}
	if input.Title == "" {
		server.writeError(writer, server.badPayloadStatus(), "field required: title")
		return
	}

	updated := server.data.updateItem(id, input.patch(existing.City))
	server.writeJSON(writer, http.StatusOK, server.renderItem(updated))
}

// deleteItem handles DELETE /items/{id} (authenticated, owner only).
func (server *Server) deleteItem(writer http.ResponseWriter, request *http.Request) {
	user := server.currentUser(request)
	if user == nil {
		server.writeError(writer, http.StatusUnauthorized, "Autenticação necessária")
		return
	}

	id := chi.URLParam(request, "id")
	existing := server.data.getItem(id)
	if existing == nil {
		server.writeError(writer, http.StatusNotFound, "Item não encontrado")
		return
	}
	if existing.OwnerID != user.ID {
		server.writeError(writer, http.StatusForbidden, "Sem permissão")
		return
	}

	server.data.deleteItem(id)
	writer.WriteHeader(http.StatusNoContent)
}
