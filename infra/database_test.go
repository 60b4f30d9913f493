package infra

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/kokifi/lottery/infra/repository"
	"github.com/kokifi/lottery/pkg/config"
	"github.com/kokifi/lottery/pkg/domain/sysconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDBConnection_Memory(t *testing.T) {
	db, err := NewDBConnection(&config.DB{Driver: config.DriverMemory}, "test")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, repository.Migrate(context.Background(), db, logger))

	var count int64
	require.NoError(t, db.Table("system_config").Count(&count).Error)
	assert.Equal(t, int64(len(sysconfig.Defaults())), count)

	for _, table := range []string{"users", "koki_transactions", "kotickets", "lotteries", "tickets", "lottery_winners", "weekly_funds"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestNewDBConnection_Errors(t *testing.T) {
	_, err := NewDBConnection(nil, "test")
	assert.Error(t, err)

	_, err = NewDBConnection(&config.DB{Driver: "oracle"}, "test")
	assert.Error(t, err)

	_, err = NewDBConnection(&config.DB{Driver: config.DriverPostgres}, "test")
	assert.Error(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?_busy_timeout=5000&_foreign_keys=on",
		sqliteDSN(&config.DB{Driver: config.DriverMemory}))
	assert.Equal(t, "data/k.db?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on",
		sqliteDSN(&config.DB{Driver: config.DriverSQLite, Url: "data/k.db"}))
	assert.Equal(t, "k.db?cache=private&_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on",
		sqliteDSN(&config.DB{Driver: config.DriverSQLite, Url: "k.db?cache=private"}))
}
