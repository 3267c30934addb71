// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

/*
Package constants provides centralized, immutable values for the entire client.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the program.

Categories:

  - Request Timing: per-attempt deadlines for the rest client.
  - Rate Limiting: client-side request budget.
  - Storage: the fixed key names the token store persists under.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the session and catalogue logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "troca"
	AppVersion = "0.1.0-dev"
)

// # Request Timing

const (
	// DefaultRequestTimeout is the deadline for one HTTP request/response pair.
	DefaultRequestTimeout = 15 * time.Second

	// DefaultDialTimeout is the maximum time allowed to establish a connection.
	DefaultDialTimeout = 5 * time.Second

	// ShutdownTimeout is how long the stub server waits for in-flight requests
	// to complete during shutdown.
	ShutdownTimeout = 10 * time.Second
)

// # Rate Limiting
//
// The client never retries, but it does cap its own request rate so that a
// misbehaving caller (a tight loop over Create, say) cannot hammer the API.

const (
	// DefaultRateLimitRPS is the requests per second the client allows itself.
	DefaultRateLimitRPS = 10.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 20
)

// # Persistent State
//
// The token store persists exactly these three values, keyed by fixed names,
// and clears all of them on logout. No other component touches the store.

const (
	// StateKeyAccessToken is the key under which the access token is persisted.
	StateKeyAccessToken = "access_token"

	// StateKeyRefreshToken is the key under which the refresh token is persisted.
	StateKeyRefreshToken = "refresh_token"

	// StateKeyProfile is the key under which the serialized profile is persisted.
	StateKeyProfile = "profile"

	// DefaultStateFileName is the state file used by the file-backed store when
	// no explicit path is configured. Resolved relative to the user home.
	DefaultStateFileName = ".troca/session.json"
)

// # Redis Prefixes

const (
	// RedisPrefixState namespaces the token store keys inside a shared Redis.
	RedisPrefixState = "troca:state:"
)

// # Authentication

const (
	// AuthIssuer is the 'iss' claim the stub server stamps on JWTs.
	AuthIssuer = "doatroca.app"

	// BearerScheme is the Authorization header scheme for access tokens.
	BearerScheme = "Bearer"

	// HeaderXRequestID is the correlation header attached to every request.
	HeaderXRequestID = "X-Request-ID"
)

// # Item Reference Values

const (
	ConditionNew    = "new"
	ConditionUsed   = "used"
	ConditionRefurb = "refurb"
)

// Conditions lists the accepted item condition values, in display order.
var Conditions = []string{ConditionNew, ConditionUsed, ConditionRefurb}
