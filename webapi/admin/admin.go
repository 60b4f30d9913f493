// Package admin exposes the operator routes. Every route requires the
// X-Admin-Key header.
package admin

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kokifi/lottery/pkg/app"
	"github.com/kokifi/lottery/pkg/domain/koki"
	"github.com/kokifi/lottery/pkg/middleware"
	"github.com/kokifi/lottery/webapi/common"
	"github.com/shopspring/decimal"
)

const fundListLimit = 52

// Routes mounts the admin endpoints under /api/admin.
func Routes(r *fiber.App, a *app.App) {
	g := r.Group("/api/admin", middleware.AdminKey(a.Config.Admin.ApiKey))
	g.Get("/config", GetConfig(a))
	g.Put("/config/:key", SetConfig(a))
	g.Post("/draw", RunDraw(a))
	g.Post("/kotickets/grant", GrantKoTickets(a))
	g.Post("/koki/grant", GrantKoki(a))
	g.Post("/weekly-fund", CreateWeeklyFund(a))
	g.Get("/weekly-funds", ListWeeklyFunds(a))
}

// GetConfig returns every system setting.
// @Summary System config
// @Tags admin
// @Produce json
// @Success 200 {object} common.Response
// @Router /api/admin/config [get]
// @Security AdminKey
func GetConfig(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		values, err := a.ConfigService.Values(c.Context())
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", values)
	}
}

// SetConfig validates and stores one setting.
// @Summary Update a setting
// @Tags admin
// @Accept json
// @Produce json
// @Param key path string true "Setting key"
// @Param request body ConfigValue true "New value"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Router /api/admin/config/{key} [put]
// @Security AdminKey
func SetConfig(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[ConfigValue](c)
		if input == nil {
			return err
		}
		key := c.Params("key")
		if err := a.ConfigService.Set(c.Context(), key, input.Value); err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Configuración actualizada",
			fiber.Map{"key": key, "value": input.Value})
	}
}

// RunDraw draws the active lottery if its sales window has ended.
// @Summary Run the weekly draw
// @Tags admin
// @Produce json
// @Success 200 {object} common.Response
// @Router /api/admin/draw [post]
// @Security AdminKey
func RunDraw(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := a.DrawRunner.RunDraw(c.Context())
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		if res == nil {
			return common.SuccessResponseJSON(c, fiber.StatusOK, "Nada que sortear", nil)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, res.Summary(), res)
	}
}

// GrantKoTickets creates free KoTickets for a user.
// @Summary Grant KoTickets
// @Tags admin
// @Accept json
// @Produce json
// @Param request body GrantKoTicketsInput true "User and count"
// @Success 200 {object} common.Response
// @Router /api/admin/kotickets/grant [post]
// @Security AdminKey
func GrantKoTickets(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[GrantKoTicketsInput](c)
		if input == nil {
			return err
		}
		if err := a.KoTicketService.Grant(c.Context(), uuid.MustParse(input.UserID), input.Count); err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "KoTickets otorgados", fiber.Map{"count": input.Count})
	}
}

// GrantKoki credits a bonus to a user.
// @Summary Grant KOKI
// @Tags admin
// @Accept json
// @Produce json
// @Param request body GrantKokiInput true "User and amount"
// @Success 200 {object} common.Response
// @Router /api/admin/koki/grant [post]
// @Security AdminKey
func GrantKoki(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[GrantKokiInput](c)
		if input == nil {
			return err
		}
		desc := input.Description
		if desc == "" {
			desc = "Bonificación administrativa"
		}
		tx, err := a.KokiService.AddPoints(c.Context(), uuid.MustParse(input.UserID), input.Amount,
			koki.TypeBonus, koki.SourceAdmin, nil, desc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "KOKI otorgados", tx)
	}
}

// CreateWeeklyFund records the income of one week.
// @Summary Create weekly fund
// @Tags admin
// @Accept json
// @Produce json
// @Param request body WeeklyFundInput true "Week and income"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.Response
// @Router /api/admin/weekly-fund [post]
// @Security AdminKey
func CreateWeeklyFund(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[WeeklyFundInput](c)
		if input == nil {
			return err
		}
		weekStart, err := time.Parse(time.DateOnly, input.WeekStart)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "week_start inválido")
		}
		income, err := decimal.NewFromString(input.TotalIncome)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "total_income inválido")
		}
		f, err := a.FundService.CreateWeeklyFund(c.Context(), weekStart, income)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Fondo semanal creado", f)
	}
}

// ListWeeklyFunds returns the most recent weekly funds.
// @Summary List weekly funds
// @Tags admin
// @Produce json
// @Success 200 {object} common.Response
// @Router /api/admin/weekly-funds [get]
// @Security AdminKey
func ListWeeklyFunds(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		funds, err := a.FundService.List(c.Context(), fundListLimit)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", funds)
	}
}
