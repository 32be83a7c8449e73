// Package session persists the client session (bearer token, service host
// and the e-mail used to log in) in the local settings database.
//
// Every accessor reads the store, so a value written by another process is
// seen on the next call. Callers that need a consistent view across several
// values take a Snapshot, which reads them in a single query.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/ascor/notifycli/internal/client/models"
	"github.com/ascor/notifycli/internal/client/repositories/settings"
	"github.com/ascor/notifycli/internal/dbx"
	"github.com/ascor/notifycli/internal/logging"
)

// Manager reads and writes the session values. It is safe for concurrent
// use; writes are serialized against snapshots taken in this process.
type Manager struct {
	db   *sql.DB
	repo settings.Repository
	log  logging.Logger

	// mu orders writers against snapshots taken in this process.
	mu sync.RWMutex
}

// NewManager returns a Manager over the settings table of db.
func NewManager(db *sql.DB, log logging.Logger) *Manager {
	return &Manager{db: db, repo: settings.NewSQLiteRepository(db), log: log}
}

// Snapshot reads token, host and e-mail together in one query.
func (m *Manager) Snapshot(ctx context.Context) (models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all, err := m.repo.All(ctx)
	if err != nil {
		return models.Session{}, fmt.Errorf("read session: %w", err)
	}
	return models.Session{
		Token: all[settings.KeyToken],
		Host:  all[settings.KeyHost],
		Email: all[settings.KeyEmail],
	}, nil
}

func (m *Manager) get(ctx context.Context, key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, _, err := m.repo.Get(ctx, key)
	if err != nil {
		m.log.Error(ctx, "reading session value failed", "key", key, "error", err)
		return ""
	}
	return v
}

func (m *Manager) set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if value == "" {
		return m.repo.Delete(ctx, key)
	}
	return m.repo.Set(ctx, key, value)
}

// SetToken stores a new bearer token.
func (m *Manager) SetToken(ctx context.Context, token string) error {
	return m.set(ctx, settings.KeyToken, token)
}

// SetEmail stores the e-mail of the logged-in user.
func (m *Manager) SetEmail(ctx context.Context, email string) error {
	return m.set(ctx, settings.KeyEmail, email)
}

// Host returns the configured service host or "".
func (m *Manager) Host(ctx context.Context) string {
	return m.get(ctx, settings.KeyHost)
}

// HasHost reports whether a service host is configured.
func (m *Manager) HasHost(ctx context.Context) bool {
	return m.Host(ctx) != ""
}

// SetHost stores the service host. Surrounding blanks are dropped; an empty
// value removes the host.
func (m *Manager) SetHost(ctx context.Context, host string) error {
	return m.set(ctx, settings.KeyHost, strings.TrimSpace(host))
}

// SeedHost stores host only if no host has been configured yet.
func (m *Manager) SeedHost(ctx context.Context, host string) error {
	host = strings.TrimSpace(host)
	if host == "" || m.HasHost(ctx) {
		return nil
	}
	return m.SetHost(ctx, host)
}

// Clear forgets the token and the e-mail. The host is kept.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return dbx.WithTx(ctx, m.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := settings.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, settings.KeyToken); err != nil {
			return err
		}
		return repo.Delete(ctx, settings.KeyEmail)
	})
}
