// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

/*
Package mockapi implements an in-process stub of the marketplace REST API.

It exists for two consumers: the end-to-end test suite, which drives the real
client against it, and `troca serve`, which gives front-end work a local
backend with seeded data. It is NOT a production backend — storage is
in-memory and resets on restart.

Architecture:

  - Wire contract only: the stub reproduces the endpoints, payload shapes, and
    status codes of the real backends, including their disagreements.
  - Dialects: [DialectBearer] mimics the primary backend (integer IDs, bare
    list arrays, {access_token} login, duplicate email as 400);
    [DialectSimpleJWT] mimics the alternate backend (UUID IDs, {count,results}
    wrappers, {access,refresh} login, duplicate email as 409). Running the
    suite against both proves the client's normalization layer.
  - Real crypto: passwords are bcrypt-hashed and tokens are signed HS256 JWTs,
    so auth failures happen for the same reasons they would in production.
*/
package mockapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/doatroca/troca/internal/platform/constants"
	"github.com/doatroca/troca/internal/platform/sec"
)

// Dialect selects which backend variant's response shapes the stub speaks.
type Dialect string

const (
	// DialectBearer mimics the primary backend: integer IDs, bare arrays,
	// {access_token, token_type} login responses.
	DialectBearer Dialect = "bearer"

	// DialectSimpleJWT mimics the alternate backend: UUID IDs, paginated
	// {count, results} wrappers, {access, refresh} login responses.
	DialectSimpleJWT Dialect = "simplejwt"
)

// Access token lifetime, matching the production backend's 7 days.
const accessTokenTTL = 7 * 24 * time.Hour

// refreshTokenTTL only applies to the simplejwt dialect.
const refreshTokenTTL = 30 * 24 * time.Hour

// Options configures a stub server.
type Options struct {
	// Dialect selects the response shapes. Defaults to [DialectBearer].
	Dialect Dialect

	// Secret signs the HS256 access tokens.
	Secret string

	// Logger for request logging. Defaults to slog.Default().
	Logger *slog.Logger

	// Seed populates the demo account and starter categories.
	Seed bool
}

// Server is the stub backend.
type Server struct {
	dialect Dialect
	tokens  *sec.TokenService
	data    *dataStore
	log     *slog.Logger
	router  chi.Router
}

// NewServer wires the router, middleware chain, and seed data.
func NewServer(opts Options) *Server {
	dialect := opts.Dialect
	if dialect == "" {
		dialect = DialectBearer
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	server := &Server{
		dialect: dialect,
		tokens:  sec.NewTokenService(opts.Secret, constants.AuthIssuer),
		data:    newDataStore(dialect == DialectSimpleJWT),
		log:     logger,
	}

	router := chi.NewRouter()
	router.Use(requestID())
	router.Use(structuredLogger(logger))

	router.Post("/auth/register", server.register)
	router.Post("/auth/login", server.login)
	router.Get("/categories", server.listCategories)
	router.Get("/items", server.listItems)
	router.Get("/items/{id}", server.getItem)

	// Authenticated routes.
	router.Group(func(protected chi.Router) {
		protected.Use(server.authenticate)
		protected.Get("/users/me", server.me)
		protected.Post("/items", server.createItem)
		protected.Put("/items/{id}", server.updateItem)
		protected.Delete("/items/{id}", server.deleteItem)
	})

	server.router = router

	if opts.Seed {
		server.seed()
	}

	return server
}

// Handler exposes the router for httptest servers and embedding.
func (server *Server) Handler() http.Handler { return server.router }

// ListenAndServe runs the stub on addr until ctx is canceled, then shuts
// down gracefully.
func (server *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.router,
		ReadHeaderTimeout: 2 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()

	server.log.Info("mockapi_listening",
		slog.String("addr", addr),
		slog.String("dialect", string(server.dialect)),
	)

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// seed loads the demo fixtures every fresh environment starts with.
func (server *Server) seed() {
	hash, err := sec.HashPassword("demo123")
	if err != nil {
		panic("mockapi: seeding failed: " + err.Error())
	}
	server.data.createUser("demo@demo.com", hash, "Demo", "Santa Rita do Sapucaí")

	server.data.addCategory("Roupas", "Vestuário em geral")
	server.data.addCategory("Móveis", "Cadeiras, mesas, sofás...")
	server.data.addCategory("Eletrônicos", "Celulares, TVs, computadores")
	server.data.addCategory("Livros", "Livros e materiais de estudo")
}
