// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

package mockapi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/doatroca/troca/internal/platform/constants"
	"github.com/doatroca/troca/internal/platform/ctxutil"
)

// # Request Tracing

// requestID attaches a correlation ID to every request for log tracing.
func requestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Check if the client already provided an ID
			rid := request.Header.Get(constants.HeaderXRequestID)

			// 2. Generate a new one if missing (UUID v7 for time-sortable properties)
			if rid == "" {
				uuidV7, err := uuid.NewV7()
				if err != nil {
					rid = uuid.New().String()
				} else {
					rid = uuidV7.String()
				}
			}

			// 3. Inject into context and response headers
			ctx := ctxutil.WithRequestID(request.Context(), rid)
			writer.Header().Set(constants.HeaderXRequestID, rid)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Activity Logging

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

// structuredLogger logs every request status and latency, and injects a
// request-specific logger into the context.
func structuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			startTime := time.Now()
			rid := ctxutil.GetRequestID(request.Context())

			requestLogger := logger.With(
				slog.String("request_id", rid),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
			)

			ctx := ctxutil.WithLogger(request.Context(), requestLogger)
			wrappedWriter := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(wrappedWriter, request.WithContext(ctx))

			latency := time.Since(startTime).Milliseconds()
			logLevel := slog.LevelInfo
			if wrappedWriter.status >= 500 {
				logLevel = slog.LevelError
			} else if wrappedWriter.status >= 400 {
				logLevel = slog.LevelWarn
			}

			requestLogger.Log(ctx, logLevel, "http_request_finished",
				slog.Int("status", wrappedWriter.status),
				slog.Int64("latency_ms", latency),
			)
		})
	}
}

// # Authentication

// authenticate verifies the bearer token and injects the claims into the
// request context. Requests without a valid token are rejected with the
// dialect's 401 body.
func (server *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		header := request.Header.Get("Authorization")
		scheme := constants.BearerScheme + " "
		if !strings.HasPrefix(header, scheme) {
			server.writeError(writer, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := server.tokens.VerifyToken(strings.TrimPrefix(header, scheme))
		if err != nil {
			server.writeError(writer, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		ctx := ctxutil.WithAuthUser(request.Context(), claims)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// currentUser resolves the authenticated account for a request that went
// through [Server.authenticate].
func (server *Server) currentUser(request *http.Request) *account {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil
	}
	return server.data.userByID(claims.UserID)
}
