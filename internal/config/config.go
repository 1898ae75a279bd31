// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// StructuredConfig is the top-level configuration container of the vault
// client. It aggregates all sub-configurations and is populated by merging
// defaults, environment variables, command-line flags and an optional JSON
// file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the integrity hash key.
	App App `envPrefix:"APP_"`

	// Storage holds the settings of the local session store.
	Storage Storage `envPrefix:"STORAGE_"`

	// Adapter holds the address and timeout of the remote vault server.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds configuration for background jobs.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// HashKey is the HMAC key used to sign mutating request bodies
	// (the HashSHA256 header). Signing is disabled when empty.
	// Env: APP_HASH_KEY
	HashKey string `env:"HASH_KEY"`

	// Version is the semantic version string of the client.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the configuration of local persistence.
type Storage struct {
	// DB holds the session database settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite session database.
type DB struct {
	// DSN is the SQLite file path. ":memory:" keeps the session in memory
	// only, so every start requires a fresh login.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Adapter holds the settings of the outbound transport.
type Adapter struct {
	// HTTPAddress is the base address of the vault server
	// (e.g. "localhost:8080" or "https://vault.example.com").
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single request to the server (e.g. "10s").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds configuration for background jobs.
type Workers struct {
	// SessionRefreshInterval is how often the signed-in session is
	// re-validated against the server.
	// Env: WORKERS_SESSION_REFRESH_INTERVAL
	SessionRefreshInterval time.Duration `env:"SESSION_REFRESH_INTERVAL"`
}

// Defaults applied before any other source.
const (
	DefaultHTTPAddress            = "localhost:8080"
	DefaultRequestTimeout         = 10 * time.Second
	DefaultDSN                    = "vault-client.db"
	DefaultSessionRefreshInterval = 5 * time.Minute
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		Storage: Storage{DB: DB{DSN: DefaultDSN}},
		Adapter: Adapter{
			HTTPAddress:    DefaultHTTPAddress,
			RequestTimeout: DefaultRequestTimeout,
		},
		Workers: Workers{SessionRefreshInterval: DefaultSessionRefreshInterval},
	}
}

// GetStructuredConfig loads, merges, and validates the configuration from
// all available sources in the following priority order (last source wins
// for non-zero fields):
//  1. Defaults
//  2. Environment variables
//  3. Command-line flags
//  4. JSON file (path resolved from sources 2 and 3)
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(os.Args[1:]).
		withJSON().
		build()
}
