package infra

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kokifi/lottery/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDBConnection opens the database selected by cnf.Driver: a SQLite file,
// an in-memory SQLite database or Postgres (Supabase, Neon or any DSN).
func NewDBConnection(
	cnf *config.DB,
	appEnv string,
) (*gorm.DB, error) {
	if cnf == nil {
		return nil, errors.New("database config is nil")
	}

	var logMode logger.LogLevel
	if appEnv == "development" {
		logMode = logger.Warn
	} else {
		logMode = logger.Silent
	}
	gormCfg := &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
		TranslateError:         true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	}

	switch cnf.Driver {
	case config.DriverPostgres:
		if cnf.Url == "" {
			return nil, errors.New("DATABASE_URL is not set")
		}
		connection, err := gorm.Open(postgres.Open(cnf.Url), gormCfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := connection.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(cnf.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cnf.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cnf.ConnMaxLifetime)
		return connection, nil

	case config.DriverSQLite, config.DriverMemory:
		dsn := sqliteDSN(cnf)
		connection, err := gorm.Open(sqlite.Open(dsn), gormCfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := connection.DB()
		if err != nil {
			return nil, err
		}
		// SQLite has a single writer; an in-memory database lives only as
		// long as its one connection.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		return connection, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cnf.Driver)
}

func sqliteDSN(cnf *config.DB) string {
	if cnf.Driver == config.DriverMemory {
		return "file::memory:?_busy_timeout=5000&_foreign_keys=on"
	}
	path := cnf.Url
	if path == "" {
		path = "kokifi.db"
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
}
