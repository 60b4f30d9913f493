package lottery

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kokifi/lottery/pkg/config"
	"github.com/kokifi/lottery/pkg/middleware"
	authsvc "github.com/kokifi/lottery/pkg/service/auth"
	lotterysvc "github.com/kokifi/lottery/pkg/service/lottery"
	"github.com/kokifi/lottery/webapi/common"
)

// BuyTicketInput is the body of /api/buy-ticket. A missing number is a
// quick pick.
type BuyTicketInput struct {
	Number *int `json:"number" validate:"omitempty,gte=0"`
}

func Routes(app *fiber.App, svc *lotterysvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	app.Get("/api/lottery/active", Active(svc))
	app.Get("/api/lottery/:id/results", Results(svc))
	app.Post("/api/buy-ticket", protected, BuyTicket(svc, authSvc))
	app.Get("/api/tickets", protected, Tickets(svc, authSvc))
}

// Active returns the lottery selling tickets.
// @Summary Active lottery
// @Tags lottery
// @Produce json
// @Success 200 {object} common.Response
// @Failure 404 {object} common.Response
// @Router /api/lottery/active [get]
func Active(svc *lotterysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		l, err := svc.GetActive(c.Context())
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", l)
	}
}

// Results returns a lottery with its winners.
// @Summary Lottery results
// @Tags lottery
// @Produce json
// @Param id path string true "Lottery ID"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.Response
// @Router /api/lottery/{id}/results [get]
func Results(svc *lotterysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "ID de lotería inválido")
		}
		res, err := svc.Results(c.Context(), id)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", res)
	}
}

// BuyTicket buys a number of the active lottery and rewards KOKI.
// @Summary Buy ticket
// @Tags lottery
// @Accept json
// @Produce json
// @Param request body BuyTicketInput false "Chosen number"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.Response
// @Router /api/buy-ticket [post]
// @Security Bearer
func BuyTicket(svc *lotterysvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		var input BuyTicketInput
		if len(c.Body()) > 0 {
			in, err := common.BindAndValidate[BuyTicketInput](c)
			if in == nil {
				return err
			}
			input = *in
		}
		p, err := svc.BuyTicket(c.Context(), userID, input.Number)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Boleto comprado", p)
	}
}

// Tickets lists the user's tickets, optionally of one lottery.
// @Summary My tickets
// @Tags lottery
// @Produce json
// @Param lottery_id query string false "Lottery ID"
// @Success 200 {object} common.Response
// @Router /api/tickets [get]
// @Security Bearer
func Tickets(svc *lotterysvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		var lotteryID *uuid.UUID
		if raw := c.Query("lottery_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "ID de lotería inválido")
			}
			lotteryID = &id
		}
		tickets, err := svc.ListUserTickets(c.Context(), userID, lotteryID)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", tickets)
	}
}
