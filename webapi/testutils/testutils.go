// Package testutils runs the full HTTP stack against an in-memory database.
package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kokifi/lottery/infra/cache"
	infraeventbus "github.com/kokifi/lottery/infra/eventbus"
	"github.com/kokifi/lottery/pkg/app"
	"github.com/kokifi/lottery/pkg/config"
	"github.com/kokifi/lottery/pkg/domain/game"
	"github.com/kokifi/lottery/pkg/metrics"
	"github.com/kokifi/lottery/pkg/middleware"
	pkgtestutils "github.com/kokifi/lottery/pkg/testutils"
	"github.com/kokifi/lottery/webapi"
	"github.com/stretchr/testify/suite"
)

const AdminKey = "test-admin-key"

// Envelope mirrors common.Response with the payload left raw.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// E2ETestSuite wires the real services and routes over a fresh database
// per test.
type E2ETestSuite struct {
	suite.Suite
	App    *app.App
	Fiber  *fiber.App
	Config *config.App
	seq    int
}

func TestConfig() *config.App {
	return &config.App{
		Env:       "test",
		Server:    &config.Server{Scheme: "http", Host: "localhost", Port: 3000},
		Log:       &config.Log{Format: "text"},
		DB:        &config.DB{Driver: config.DriverMemory},
		Auth:      &config.Auth{Jwt: &config.Jwt{Secret: "e2e-secret", Expiry: time.Hour}},
		Admin:     &config.Admin{ApiKey: AdminKey},
		Redis:     &config.Redis{KeyPrefix: "test:", ConfigTTL: time.Minute},
		RateLimit: &config.RateLimit{MaxRequests: 10000, Window: time.Minute},
		Scheduler: &config.Scheduler{Timezone: "UTC", WeeklyDrawSpec: "0 0 * * 1", StatusCheckSpec: "0 * * * *"},
	}
}

func (s *E2ETestSuite) SetupTest() {
	uow, _ := pkgtestutils.NewTestUoW(s.T())
	logger := pkgtestutils.Logger()
	s.Config = TestConfig()
	s.App = app.New(&app.Deps{
		Uow:         uow,
		ConfigCache: cache.NewMemoryCache(),
		EventBus:    infraeventbus.NewWithMemory(logger),
		Metrics:     metrics.New(),
		Random:      game.NewGenerator(game.NewSeededSource(42)),
		Logger:      logger,
	}, s.Config)
	_, _, err := s.App.LotteryService.EnsureActiveLottery(context.Background())
	s.Require().NoError(err)
	s.Fiber = webapi.SetupApp(s.App)
}

// Request sends body as JSON and decodes the envelope.
func (s *E2ETestSuite) Request(method, path string, body any, headers map[string]string) (int, Envelope) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := s.Fiber.Test(req, -1)
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()

	var env Envelope
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	if len(raw) > 0 && raw[0] == '{' {
		s.Require().NoError(json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

// Authed sends a request with the bearer token.
func (s *E2ETestSuite) Authed(method, path, token string, body any) (int, Envelope) {
	return s.Request(method, path, body, map[string]string{"Authorization": "Bearer " + token})
}

// Admin sends a request with the admin key.
func (s *E2ETestSuite) Admin(method, path string, body any) (int, Envelope) {
	return s.Request(method, path, body, map[string]string{middleware.AdminKeyHeader: AdminKey})
}

// Decode unmarshals the envelope payload into out.
func (s *E2ETestSuite) Decode(env Envelope, out any) {
	s.Require().NoError(json.Unmarshal(env.Data, out), string(env.Data))
}

// Session is the decoded payload of register and login.
type Session struct {
	Token string `json:"token"`
	User  struct {
		ID           string `json:"id"`
		Username     string `json:"username"`
		Balance      int64  `json:"balance"`
		TicketsCount int64  `json:"tickets_count"`
		TotalSpent   int64  `json:"total_spent"`
	} `json:"user"`
}

// Register creates a fresh user and returns its session.
func (s *E2ETestSuite) Register() Session {
	s.seq++
	name := fmt.Sprintf("player%d", s.seq)
	status, env := s.Request(http.MethodPost, "/api/auth/register", map[string]string{
		"username": name,
		"email":    name + "@kokifi.test",
		"password": pkgtestutils.TestPassword,
	}, nil)
	s.Require().Equal(fiber.StatusCreated, status, env.Error)
	var sess Session
	s.Decode(env, &sess)
	s.Require().NotEmpty(sess.Token)
	return sess
}
