package koticket

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kokifi/lottery/pkg/config"
	"github.com/kokifi/lottery/pkg/middleware"
	authsvc "github.com/kokifi/lottery/pkg/service/auth"
	koticketsvc "github.com/kokifi/lottery/pkg/service/koticket"
	"github.com/kokifi/lottery/webapi/common"
)

// ScratchInput is the body of /api/scratch-koticket.
type ScratchInput struct {
	KoTicketID string `json:"koticket_id" validate:"required,uuid"`
}

func Routes(app *fiber.App, svc *koticketsvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	app.Get("/api/kotickets", protected, List(svc, authSvc))
	app.Post("/api/scratch-koticket", protected, Scratch(svc, authSvc))
	app.Post("/api/accumulate-kotickets", protected, Accumulate(svc, authSvc))
}

// List returns the user's KoTickets.
// @Summary List KoTickets
// @Tags kotickets
// @Produce json
// @Success 200 {object} common.Response
// @Router /api/kotickets [get]
// @Security Bearer
func List(svc *koticketsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		tickets, err := svc.List(c.Context(), userID)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", tickets)
	}
}

// Scratch reveals one KoTicket and credits its prize.
// @Summary Scratch a KoTicket
// @Tags kotickets
// @Accept json
// @Produce json
// @Param request body ScratchInput true "KoTicket to scratch"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 404 {object} common.Response
// @Router /api/scratch-koticket [post]
// @Security Bearer
func Scratch(svc *koticketsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[ScratchInput](c)
		if input == nil {
			return err
		}
		res, err := svc.Scratch(c.Context(), userID, uuid.MustParse(input.KoTicketID))
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "KoTicket raspado", res)
	}
}

// Accumulate grants the KoTickets accrued since the last grant.
// @Summary Accumulate KoTickets
// @Tags kotickets
// @Produce json
// @Success 200 {object} common.Response
// @Router /api/accumulate-kotickets [post]
// @Security Bearer
func Accumulate(svc *koticketsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		acc, err := svc.Accumulate(c.Context(), userID)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", acc)
	}
}
