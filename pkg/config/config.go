package config

import (
	"errors"
	"fmt"
	"time"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

type DB struct {
	Driver          string        `envconfig:"DRIVER" default:"sqlite"`
	Url             string        `envconfig:"URL" default:"kokifi.db"`
	MaxOpenConns    int           `envconfig:"MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"MAX_IDLE_CONNS" default:"25"`
	ConnMaxLifetime time.Duration `envconfig:"CONN_MAX_LIFETIME" default:"1h"`
}

type Jwt struct {
	Secret string        `envconfig:"SECRET" required:"true"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"24h"`
}

type Auth struct {
	Jwt *Jwt `envconfig:"JWT"`
}

type Admin struct {
	ApiKey string `envconfig:"API_KEY"`
}

type Redis struct {
	URL       string        `envconfig:"URL" default:""`
	KeyPrefix string        `envconfig:"KEY_PREFIX" default:"kokifi:"`
	ConfigTTL time.Duration `envconfig:"CONFIG_TTL" default:"1m"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type Scheduler struct {
	Enabled         bool   `envconfig:"ENABLED" default:"true"`
	Timezone        string `envconfig:"TIMEZONE" default:"UTC"`
	WeeklyDrawSpec  string `envconfig:"WEEKLY_DRAW_SPEC" default:"0 0 * * 1"`
	StatusCheckSpec string `envconfig:"STATUS_CHECK_SPEC" default:"0 * * * *"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[kokifi]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

// Addr is the host:port the HTTP server listens on.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type App struct {
	Env       string     `envconfig:"APP_ENV" default:"development"`
	Server    *Server    `envconfig:"SERVER"`
	Log       *Log       `envconfig:"LOG"`
	DB        *DB        `envconfig:"DATABASE"`
	Auth      *Auth      `envconfig:"AUTH"`
	Admin     *Admin     `envconfig:"ADMIN"`
	Redis     *Redis     `envconfig:"REDIS"`
	RateLimit *RateLimit `envconfig:"RATE_LIMIT"`
	Scheduler *Scheduler `envconfig:"SCHEDULER"`
}

// Validate checks settings envconfig cannot express.
func (a *App) Validate() error {
	switch a.DB.Driver {
	case DriverSQLite, DriverMemory, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", a.DB.Driver)
	}
	if a.DB.Driver == DriverPostgres && a.DB.Url == "" {
		return errors.New("DATABASE_URL is required for postgres")
	}
	if a.Auth.Jwt.Secret == "" {
		return errors.New("AUTH_JWT_SECRET is not set")
	}
	if a.RateLimit.MaxRequests <= 0 || a.RateLimit.Window <= 0 {
		return errors.New("rate limit must be positive")
	}
	if _, err := time.LoadLocation(a.Scheduler.Timezone); err != nil {
		return fmt.Errorf("invalid SCHEDULER_TIMEZONE: %w", err)
	}
	return nil
}
