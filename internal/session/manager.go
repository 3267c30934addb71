// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/doatroca/troca/internal/platform/apperr"
	"github.com/doatroca/troca/internal/platform/sec"
	"github.com/doatroca/troca/internal/platform/validate"
	"github.com/doatroca/troca/internal/rest"
)

// Manager orchestrates login, registration, logout, and token-based profile
// re-hydration. It is the only component that reads or writes the token store.
//
// # State Machine
//
// Unauthenticated -> (login success) -> Authenticated -> (logout |
// profile-fetch failure | auth error) -> Unauthenticated. No other states
// exist; transitions are atomic from the caller's perspective.
//
// # Concurrency
//
// opMu serializes the operations themselves, so at most one auth operation is
// in flight at a time (a rapid double-submit issues one request, not two).
// stateMu guards the token/profile snapshot so [Manager.AccessToken] can be
// read by the rest client mid-operation without deadlocking on opMu.
type Manager struct {
	opMu    sync.Mutex
	stateMu sync.RWMutex

	client *rest.Client
	store  Store
	log    *slog.Logger

	accessToken  string
	refreshToken string
	profile      *Profile
}

// NewManager constructs a Manager over a token store.
//
// The rest client is attached afterwards via [Manager.Bind]: the manager is
// the client's token source, so the two reference each other.
func NewManager(store Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store: store,
		log:   logger,
	}
}

// Bind attaches the rest client the manager issues its requests through.
// Must be called exactly once before any operation.
func (manager *Manager) Bind(client *rest.Client) {
	manager.client = client
}

// AccessToken implements [rest.TokenSource]. It returns "" while
// unauthenticated, which suppresses the Authorization header.
func (manager *Manager) AccessToken() string {
	manager.stateMu.RLock()
	defer manager.stateMu.RUnlock()
	return manager.accessToken
}

// Current returns the active session, or nil while unauthenticated.
//
// A session is only reported once BOTH tokens and profile are confirmed; the
// window between the login call and the profile fetch is not observable.
func (manager *Manager) Current() *Session {
	manager.stateMu.RLock()
	defer manager.stateMu.RUnlock()
	if manager.accessToken == "" || manager.profile == nil {
		return nil
	}
	profile := *manager.profile
	return &Session{
		AccessToken:  manager.accessToken,
		RefreshToken: manager.refreshToken,
		User:         &profile,
	}
}

// # Login

// Login authenticates with the backend and establishes the session.
//
// # Flow
//
//  1. Client-side validation (no network call on failure).
//  2. POST the login form; 400/401 responses are authentication failures.
//  3. GET the profile with the fresh access token.
//  4. Persist tokens + profile only after BOTH steps succeeded.
//
// A token the profile endpoint rejects is session-invalid: the store is
// cleared, the manager returns to Unauthenticated, and the step's error is
// surfaced.
func (manager *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	manager.opMu.Lock()
	defer manager.opMu.Unlock()

	// ── 1. Pre-Submit Validation ──────────────────────────────────────────

	v := &validate.Validator{}
	v.Required("email", email).Email("email", email)
	v.Required("password", password)
	if err := v.Err(); err != nil {
		return nil, err
	}

	// ── 2. Credential Exchange ────────────────────────────────────────────

	// OAuth2-style form field names, matching the backend's login endpoint.
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var rawTokens json.RawMessage
	if err := manager.client.PostForm(ctx, "/auth/login", form, &rawTokens); err != nil {
		return nil, asLoginError(err)
	}

	pair, err := rest.NormalizeTokens(rawTokens)
	if err != nil {
		return nil, err
	}

	// Expose the fresh access token to the rest client for the profile fetch.
	// Not yet an observable session: profile is still nil.
	manager.setState(pair.Access, pair.Refresh, nil)

	// ── 3. Profile Confirmation ───────────────────────────────────────────

	profile, err := manager.fetchProfile(ctx)
	if err != nil {
		// Partial success is session-invalid: token saved but profile
		// unconfirmed must never survive.
		manager.clearEverything(ctx)
		return nil, err
	}

	// ── 4. Persistence ────────────────────────────────────────────────────

	manager.setState(pair.Access, pair.Refresh, profile)

	state := State{AccessToken: pair.Access, RefreshToken: pair.Refresh, Profile: profile}
	if err := manager.store.Save(ctx, state); err != nil {
		// The in-memory session is valid; only persistence failed. Surface
		// nothing to the caller but leave a trace for the operator.
		manager.log.Warn("session_persist_failed", slog.Any("error", err))
	}

	manager.log.Info("session_established", slog.String("email", profile.Email))
	return manager.Current(), nil
}

// asLoginError normalizes login-endpoint rejections. The primary backend
// reports bad credentials as 400, the other as 401; both are AuthError.
// Transport failures pass through as NetworkError.
func asLoginError(err error) error {
	ae := apperr.As(err)
	if ae == nil || apperr.IsNetwork(err) {
		return err
	}
	if ae.HTTPStatus == 400 || ae.HTTPStatus == 401 {
		return apperr.Unauthorized("Invalid email or password")
	}
	return err
}

// # Registration

// RegistrationInput holds the data for a new account. Email and password are
// required; name and city are optional.
type RegistrationInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	City     string `json:"city,omitempty"`
}

// Register creates a new account. A 2xx response does NOT establish a
// session; callers log in afterwards, strictly sequentially.
//
// # Returns
//   - [apperr.Conflict] when the email is already registered (either backend
//     encoding of that outcome).
//   - [apperr.ValidationError] for other rejected payloads.
//   - [apperr.Network] on transport failure.
func (manager *Manager) Register(ctx context.Context, input RegistrationInput) error {
	manager.opMu.Lock()
	defer manager.opMu.Unlock()

	// ── 1. Pre-Submit Validation ──────────────────────────────────────────

	v := &validate.Validator{}
	v.Required("email", input.Email).Email("email", input.Email)
	v.Password("password", input.Password)
	if err := v.Err(); err != nil {
		return err
	}

	// ── 2. Submission ─────────────────────────────────────────────────────

	if err := manager.client.Post(ctx, "/auth/register", input, nil); err != nil {
		return err
	}

	manager.log.Info("account_registered", slog.String("email", input.Email))
	return nil
}

// # Logout

// Logout clears the token store and the in-memory session unconditionally.
// It never fails: store errors are logged and swallowed, the in-memory state
// is gone regardless.
func (manager *Manager) Logout(ctx context.Context) {
	manager.opMu.Lock()
	defer manager.opMu.Unlock()
	manager.clearEverything(ctx)
}

// # Restore

// Restore re-hydrates the session from the token store at startup.
//
// If no state is persisted, it returns nil. If state exists, the profile is
// re-fetched with the persisted token; ANY failure (expired token, auth
// rejection, transport failure) clears the store and returns nil, so a second
// call observes the same cleared state. Restore never prompts and never
// errors: the caller either gets a confirmed session or starts
// unauthenticated.
func (manager *Manager) Restore(ctx context.Context) *Session {
	manager.opMu.Lock()
	defer manager.opMu.Unlock()

	state, err := manager.store.Load(ctx)
	if err != nil {
		if !apperr.IsNotFound(err) {
			manager.log.Warn("session_state_unreadable", slog.Any("error", err))
			manager.clearEverything(ctx)
		}
		return nil
	}

	// A visibly expired JWT is a doomed round trip; skip it. Opaque tokens
	// fall through to the real check below.
	if expiry, ok := sec.PeekExpiry(state.AccessToken); ok && time.Now().After(expiry) {
		manager.log.Info("session_token_expired", slog.Time("expired_at", expiry))
		manager.clearEverything(ctx)
		return nil
	}

	manager.setState(state.AccessToken, state.RefreshToken, nil)

	profile, err := manager.fetchProfile(ctx)
	if err != nil {
		manager.log.Info("session_restore_rejected", slog.String("reason", err.Error()))
		manager.clearEverything(ctx)
		return nil
	}

	manager.setState(state.AccessToken, state.RefreshToken, profile)

	// Re-persist so a profile edited elsewhere is fresh on the next start.
	refreshed := State{
		AccessToken:  state.AccessToken,
		RefreshToken: state.RefreshToken,
		Profile:      profile,
	}
	if err := manager.store.Save(ctx, refreshed); err != nil {
		manager.log.Warn("session_persist_failed", slog.Any("error", err))
	}

	return manager.Current()
}

// # Internals

// fetchProfile confirms the current access token against the profile
// endpoint and returns the canonical profile.
func (manager *Manager) fetchProfile(ctx context.Context) (*Profile, error) {
	var raw json.RawMessage
	if err := manager.client.Get(ctx, "/users/me", nil, &raw); err != nil {
		return nil, err
	}

	profile := &Profile{}
	if err := rest.DecodeObject(raw, profile); err != nil {
		return nil, err
	}
	if profile.Email == "" {
		return nil, apperr.Unauthorized("Profile response was not usable")
	}
	return profile, nil
}

// setState swaps the token/profile snapshot under the state lock.
func (manager *Manager) setState(access, refresh string, profile *Profile) {
	manager.stateMu.Lock()
	manager.accessToken = access
	manager.refreshToken = refresh
	manager.profile = profile
	manager.stateMu.Unlock()
}

// clearEverything drops the in-memory session and the persisted state.
// Store failures are logged, never surfaced.
func (manager *Manager) clearEverything(ctx context.Context) {
	manager.setState("", "", nil)
	if err := manager.store.Clear(ctx); err != nil {
		manager.log.Warn("session_clear_failed", slog.Any("error", err))
	}
}
