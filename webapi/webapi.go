// Package webapi assembles the HTTP API. Each area lives in its own
// sub-package:
// - auth: registration and login
// - user: profile and avatar
// - koki: KOKI status, roulette, ticket rewards and exchange
// - koticket: free scratch cards
// - lottery: weekly lottery and tickets
// - admin: operator routes behind the admin key
package webapi

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/kokifi/lottery/pkg/app"
	"github.com/kokifi/lottery/pkg/middleware"
	adminweb "github.com/kokifi/lottery/webapi/admin"
	authweb "github.com/kokifi/lottery/webapi/auth"
	"github.com/kokifi/lottery/webapi/common"
	kokiweb "github.com/kokifi/lottery/webapi/koki"
	koticketweb "github.com/kokifi/lottery/webapi/koticket"
	lotteryweb "github.com/kokifi/lottery/webapi/lottery"
	userweb "github.com/kokifi/lottery/webapi/user"
)

// SetupApp builds the fiber app with every route and middleware.
func SetupApp(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return common.ErrorResponseJSON(c, fe.Code, fe.Message)
			}
			return common.ErrorJSON(c, err)
		},
	})
	fiberApp.Get("/swagger/*", swagger.New(swagger.Config{
		TryItOutEnabled:      true,
		PersistAuthorization: true,
	}))

	fiberApp.Use(limiter.New(limiter.Config{
		Max:          a.Config.RateLimit.MaxRequests,
		Expiration:   a.Config.RateLimit.Window,
		KeyGenerator: clientKey,
		LimitReached: func(c *fiber.Ctx) error {
			return common.ErrorResponseJSON(c, fiber.StatusTooManyRequests, "Demasiadas solicitudes")
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())
	fiberApp.Use(middleware.HTTPMetrics(a.Deps.Metrics))

	fiberApp.Get("/health", func(c *fiber.Ctx) error {
		return common.SuccessResponseJSON(c, fiber.StatusOK, "ok", nil)
	})
	if a.Deps.Metrics != nil {
		fiberApp.Get("/metrics", adaptor.HTTPHandler(a.Deps.Metrics.Handler()))
	}

	authweb.Routes(fiberApp, a.AuthService, a.UserService)
	userweb.Routes(fiberApp, a.UserService, a.AuthService, a.Config)
	kokiweb.Routes(fiberApp, kokiweb.Services{
		Koki:     a.KokiService,
		Roulette: a.RouletteService,
		Fund:     a.FundService,
		Auth:     a.AuthService,
	}, a.Config)
	koticketweb.Routes(fiberApp, a.KoTicketService, a.AuthService, a.Config)
	lotteryweb.Routes(fiberApp, a.LotteryService, a.AuthService, a.Config)
	adminweb.Routes(fiberApp, a)
	return fiberApp
}

// clientKey keys the limiter on the first X-Forwarded-For hop, then
// X-Real-IP, then the peer address.
func clientKey(c *fiber.Ctx) string {
	if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
		if i := strings.Index(forwardedFor, ","); i != -1 {
			return strings.TrimSpace(forwardedFor[:i])
		}
		return strings.TrimSpace(forwardedFor)
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.IP()
}
