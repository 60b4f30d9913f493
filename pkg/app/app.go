package app

import (
	"log/slog"

	"github.com/kokifi/lottery/pkg/cache"
	"github.com/kokifi/lottery/pkg/config"
	"github.com/kokifi/lottery/pkg/domain/game"
	"github.com/kokifi/lottery/pkg/eventbus"
	"github.com/kokifi/lottery/pkg/metrics"
	"github.com/kokifi/lottery/pkg/repository"
	"github.com/kokifi/lottery/pkg/scheduler"
	"github.com/kokifi/lottery/pkg/service/auth"
	"github.com/kokifi/lottery/pkg/service/fund"
	"github.com/kokifi/lottery/pkg/service/koki"
	"github.com/kokifi/lottery/pkg/service/koticket"
	"github.com/kokifi/lottery/pkg/service/lottery"
	"github.com/kokifi/lottery/pkg/service/roulette"
	"github.com/kokifi/lottery/pkg/service/sysconfig"
	"github.com/kokifi/lottery/pkg/service/user"
)

// Deps are the infrastructure pieces the services are built from.
type Deps struct {
	Uow         repository.UnitOfWork
	ConfigCache cache.ConfigCache
	EventBus    eventbus.Bus
	Metrics     *metrics.Metrics
	Random      *game.Generator
	Logger      *slog.Logger
}

type App struct {
	Deps            *Deps
	Config          *config.App
	ConfigService   *sysconfig.Service
	AuthService     *auth.Service
	UserService     *user.Service
	KokiService     *koki.Service
	KoTicketService *koticket.Service
	RouletteService *roulette.Service
	LotteryService  *lottery.Service
	FundService     *fund.Service
	DrawRunner      *scheduler.Runner
}

func New(deps *Deps, cfg *config.App) *App {
	if deps.Random == nil {
		deps.Random = game.NewGenerator(game.NewSource())
	}
	a := &App{Deps: deps, Config: cfg}
	a.ConfigService = sysconfig.New(deps.Uow, deps.ConfigCache, cfg.Redis.ConfigTTL, deps.Logger)
	a.AuthService = auth.NewWithJWT(deps.Uow, cfg.Auth.Jwt, deps.Logger)
	a.UserService = user.New(deps.Uow, a.ConfigService, deps.Logger)
	a.KokiService = koki.New(deps.Uow, a.ConfigService, deps.Metrics, deps.Logger)
	a.KoTicketService = koticket.New(deps.Uow, a.ConfigService, deps.Random, deps.Metrics, deps.Logger)
	a.RouletteService = roulette.New(deps.Uow, a.ConfigService, deps.Random, deps.Metrics, deps.Logger)
	a.LotteryService = lottery.New(deps.Uow, a.ConfigService, nil, deps.EventBus, deps.Metrics, deps.Logger)
	a.FundService = fund.New(deps.Uow, a.ConfigService, deps.Logger)
	a.DrawRunner = scheduler.NewRunner(a.LotteryService, deps.EventBus, deps.Logger)
	if deps.EventBus != nil {
		scheduler.RegisterNotifier(deps.EventBus, deps.Logger)
	}
	return a
}
