//go:build integration

package containers

import (
	"context"
	"sync"
	"testing"
)

// Manager shares one container of each kind across test suites so a package's
// integration run pays the startup cost once. Ryuk reaps the containers when
// the test process exits.
type Manager struct {
	mu       sync.Mutex
	postgres *PostgresContainer
	redis    *RedisContainer
}

var (
	managerOnce sync.Once
	manager     *Manager
)

func GetManager() *Manager {
	managerOnce.Do(func() {
		manager = &Manager{}
	})
	return manager
}

// GetPostgres returns the shared Postgres container, starting it on first use
// with the project schema applied.
func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.postgres == nil {
		m.postgres = NewPostgresContainer(t)
	}
	return m.postgres
}

// GetRedis returns the shared Redis container, starting it on first use.
func (m *Manager) GetRedis(t *testing.T) *RedisContainer {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.redis == nil {
		m.redis = NewRedisContainer(t)
	}
	return m.redis
}

// Reset clears all shared container state between tests.
func (m *Manager) Reset(ctx context.Context, t *testing.T) {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.postgres != nil {
		if err := m.postgres.TruncateTables(ctx); err != nil {
			t.Fatalf("failed to truncate postgres tables: %v", err)
		}
	}
	if m.redis != nil {
		if err := m.redis.FlushAll(ctx); err != nil {
			t.Fatalf("failed to flush redis: %v", err)
		}
	}
}
