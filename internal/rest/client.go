// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

/*
Package rest implements the HTTP client boundary between the Troca client and
the marketplace REST API.

Architecture:

  - Bearer handling: when a token source is present and yields a token, every
    request carries an Authorization header. No other layer touches headers.
  - Error taxonomy: transport failures and non-2xx responses are mapped to the
    canonical [apperr.AppError] codes here and nowhere else.
  - Normalization: backend variants disagree on response shapes (see
    normalize.go); the rest of the program only ever sees canonical shapes.
  - No retries: every failure is terminal for that attempt and requires an
    explicit resubmission by the user.
*/
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/doatroca/troca/internal/platform/apperr"
	"github.com/doatroca/troca/internal/platform/constants"
)

// maxErrorBody caps how much of an error response body is read when looking
// for a detail message.
const maxErrorBody = 64 << 10

// TokenSource supplies the current access token, or "" when unauthenticated.
//
// The session manager implements this; the client never stores tokens itself.
type TokenSource interface {
	AccessToken() string
}

// Options configures a [Client].
type Options struct {
	// BaseURL is the root of the API, e.g. "http://localhost:8000".
	BaseURL string

	// Tokens supplies bearer tokens. May be nil for unauthenticated clients.
	Tokens TokenSource

	// HTTPClient overrides the underlying transport. Defaults to a client
	// with [constants.DefaultRequestTimeout].
	HTTPClient *http.Client

	// Logger for request-level debug logging. Defaults to slog.Default().
	Logger *slog.Logger

	// RateLimit and RateBurst tune the client-side request budget.
	// Zero values fall back to the defaults in [constants].
	RateLimit rate.Limit
	RateBurst int
}

// Client issues requests against the marketplace API.
//
// # Concurrency
//
// Client is safe for concurrent use; it holds no per-request state.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	tokens  TokenSource
	limiter *rate.Limiter
	log     *slog.Logger
}

// NewClient validates the base URL and constructs a ready-to-use client.
func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("rest: invalid base URL %q", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.DefaultRequestTimeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	limit := opts.RateLimit
	if limit == 0 {
		limit = rate.Limit(constants.DefaultRateLimitRPS)
	}
	burst := opts.RateBurst
	if burst == 0 {
		burst = constants.DefaultRateLimitBurst
	}

	return &Client{
		baseURL: base,
		http:    httpClient,
		tokens:  opts.Tokens,
		limiter: rate.NewLimiter(limit, burst),
		log:     logger,
	}, nil
}

// # Request Methods

// Get issues a GET request and decodes the response body into out (may be nil).
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

// Post issues a JSON POST request.
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, "application/json", out)
}

// PostForm issues a form-encoded POST request.
//
// The primary backend's login endpoint takes OAuth2-style form credentials
// rather than JSON; everything else on the API is JSON.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, form, "application/x-www-form-urlencoded", out)
}

// Put issues a JSON PUT request.
func (c *Client) Put(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, "application/json", out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, "", nil)
}

// # Core Pipeline

// do runs one request/response cycle: rate limit, build, send, map errors,
// decode. It is the single funnel every call goes through.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, contentType string, out any) error {
	// ── 1. Rate Limit ─────────────────────────────────────────────────────

	if err := c.limiter.Wait(ctx); err != nil {
		return apperr.Network(err)
	}

	// ── 2. Request Construction ───────────────────────────────────────────

	target := *c.baseURL
	target.Path = strings.TrimRight(target.Path, "/") + path
	if query != nil {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	switch payload := body.(type) {
	case nil:
	case url.Values:
		reader = strings.NewReader(payload.Encode())
	default:
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("rest: failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("rest: failed to build request: %w", err)
	}

	request.Header.Set("Accept", "application/json")
	request.Header.Set(constants.HeaderXRequestID, uuid.NewString())
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			request.Header.Set("Authorization", constants.BearerScheme+" "+token)
		}
	}

	// ── 3. Transport ──────────────────────────────────────────────────────

	response, err := c.http.Do(request)
	if err != nil {
		c.log.Debug("request_transport_failure",
			slog.String("method", method),
			slog.String("path", path),
			slog.Any("error", err),
		)
		return apperr.Network(err)
	}
	defer func() { _ = response.Body.Close() }()

	// ── 4. Error Mapping ──────────────────────────────────────────────────

	if response.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
		mapped := mapStatusError(response.StatusCode, raw)
		c.log.Debug("request_rejected",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", response.StatusCode),
			slog.String("code", apperr.As(mapped).Code),
		)
		return mapped
	}

	// ── 5. Response Decoding ──────────────────────────────────────────────

	if out == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return apperr.Internal(fmt.Errorf("rest: malformed response body: %w", err))
	}

	return nil
}

// # Status Mapping

// emailExistsHints are detail-message fragments that mark a 400 response as a
// duplicate-email conflict. One backend variant reports duplicates as 409,
// the other as 400 with one of these phrases (in English or Portuguese); both
// must land on the same semantic outcome.
var emailExistsHints = []string{
	"already exists",
	"already registered",
	"already in use",
	"já registrado",
	"já cadastrado",
	"já existe",
}

// mapStatusError converts a non-2xx response into the canonical taxonomy.
func mapStatusError(status int, body []byte) error {
	detail := extractDetail(body)

	switch status {
	case http.StatusUnauthorized:
		if detail == "" {
			detail = "Authentication failed"
		}
		return apperr.Unauthorized(detail)

	case http.StatusForbidden:
		if detail == "" {
			detail = "You do not have permission to do that"
		}
		return apperr.Forbidden(detail)

	case http.StatusNotFound:
		return &apperr.AppError{
			Code:       "NOT_FOUND",
			Message:    orDefault(detail, "Resource not found"),
			HTTPStatus: http.StatusNotFound,
		}

	case http.StatusConflict:
		return apperr.Conflict(orDefault(detail, "Resource already exists"))

	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		lower := strings.ToLower(detail)
		for _, hint := range emailExistsHints {
			if strings.Contains(lower, hint) {
				return apperr.Conflict(detail)
			}
		}
		return apperr.ValidationError(orDefault(detail, "The server rejected the request"))

	default:
		return apperr.Internal(fmt.Errorf("rest: server returned %d: %s", status, orDefault(detail, "no detail")))
	}
}

// errorBody covers the error envelopes seen across backend variants:
// FastAPI/DRF use {"detail": ...}, the Go stub and some drafts use
// {"error": ...} or {"message": ...}.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

// extractDetail pulls a human-readable message out of an error body.
// Returns "" when the body is empty, non-JSON, or carries no usable text;
// callers substitute a generic message so a detail-less 401 still surfaces
// something to the user.
func extractDetail(body []byte) string {
	var envelope errorBody
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}

	if len(envelope.Detail) > 0 {
		// detail is usually a string, but pydantic validation errors ship a
		// list of objects; only the string form is surfaced verbatim.
		var text string
		if err := json.Unmarshal(envelope.Detail, &text); err == nil {
			return text
		}
	}
	if envelope.Error != "" {
		return envelope.Error
	}
	return envelope.Message
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
