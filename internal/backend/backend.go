// Package backend selects the report store at startup: in-memory for
// development, SQLite for the single-box deployment, Postgres for a
// hosted database.
package backend

import (
	"fmt"

	"setoran/internal/config"
	"setoran/internal/store"
)

// Backend is the full storage surface the HTTP layer and the report
// service run against.
type Backend interface {
	store.ReportUpserter
	store.ReportGetter
	store.ReportLister
	store.PUItemReplacer
	store.PUItemLister
	store.ProfileWriter
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Result pairs a backend with its cleanup.
type Result struct {
	Backend Backend
	Cleanup CleanupFunc
}

type Type string

const (
	MemoryBackend   Type = "memory"
	SQLiteBackend   Type = "sqlite"
	PostgresBackend Type = "postgres"
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}

// Config holds what backend creation needs.
type Config struct {
	Type Type

	SQLiteDBPath string
	PostgresURL  string
}

// FromAppConfig converts the application config to backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := Type(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:         backendType,
		SQLiteDBPath: appConfig.SQLiteDBPath,
		PostgresURL:  appConfig.PostgresURL,
	}, nil
}

func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case PostgresBackend:
		if c.PostgresURL == "" {
			return fmt.Errorf("Postgres URL is required for postgres backend")
		}
	}
	return nil
}
