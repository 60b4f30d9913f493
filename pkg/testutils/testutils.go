// Package testutils builds throwaway databases and fixtures for package
// tests.
package testutils

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/kokifi/lottery/infra"
	infrarepo "github.com/kokifi/lottery/infra/repository"
	"github.com/kokifi/lottery/pkg/config"
	"github.com/kokifi/lottery/pkg/domain/koki"
	"github.com/kokifi/lottery/pkg/domain/user"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestPassword is the password of every user created by CreateUser.
const TestPassword = "password123"

// Logger discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewTestDB opens a migrated in-memory database that is closed when the
// test ends.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := infra.NewDBConnection(&config.DB{Driver: config.DriverMemory}, "test")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, infrarepo.Migrate(context.Background(), db, Logger()))
	return db
}

// NewTestUoW returns a unit of work over a fresh database.
func NewTestUoW(t testing.TB) (*infrarepo.UoW, *gorm.DB) {
	t.Helper()
	db := NewTestDB(t)
	return infrarepo.NewUoW(db), db
}

// CreateUser stores a user with the given game balance.
func CreateUser(t testing.TB, uow *infrarepo.UoW, username string, balance int64) *user.User {
	t.Helper()
	u, err := user.NewUser(username, username+"@kokifi.test", TestPassword, balance)
	require.NoError(t, err)
	repo, err := uow.UserRepository()
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

// GiveKoki appends a bonus row so the user holds amount more KOKI.
func GiveKoki(t testing.TB, uow *infrarepo.UoW, userID uuid.UUID, amount int64) {
	t.Helper()
	tx, err := koki.NewTransaction(userID, koki.TypeBonus, amount, koki.SourceAdmin, nil, "test fixture")
	require.NoError(t, err)
	repo, err := uow.KokiRepository()
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), tx))
}

// KokiBalance reads the derived balance straight from the ledger.
func KokiBalance(t testing.TB, uow *infrarepo.UoW, userID uuid.UUID) int64 {
	t.Helper()
	repo, err := uow.KokiRepository()
	require.NoError(t, err)
	balance, err := repo.Balance(context.Background(), userID)
	require.NoError(t, err)
	return balance
}

// GetUser reloads a user.
func GetUser(t testing.TB, uow *infrarepo.UoW, id uuid.UUID) *user.User {
	t.Helper()
	repo, err := uow.UserRepository()
	require.NoError(t, err)
	u, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	return u
}
