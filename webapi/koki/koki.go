package koki

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kokifi/lottery/pkg/config"
	"github.com/kokifi/lottery/pkg/domain"
	"github.com/kokifi/lottery/pkg/middleware"
	authsvc "github.com/kokifi/lottery/pkg/service/auth"
	fundsvc "github.com/kokifi/lottery/pkg/service/fund"
	kokisvc "github.com/kokifi/lottery/pkg/service/koki"
	roulettesvc "github.com/kokifi/lottery/pkg/service/roulette"
	"github.com/kokifi/lottery/webapi/common"
	"github.com/shopspring/decimal"
)

const historyLimit = 20

// Services groups what the KOKI routes call.
type Services struct {
	Koki     *kokisvc.Service
	Roulette *roulettesvc.Service
	Fund     *fundsvc.Service
	Auth     *authsvc.Service
}

func Routes(app *fiber.App, svc Services, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	app.Get("/api/koki-status", protected, GetStatus(svc))
	app.Post("/api/koki-status", protected, PostStatus(svc))
	app.Post("/api/roulette-koki", protected, Roulette(svc))
	app.Get("/api/roulette-koki/wheel", Wheel(svc))
	app.Post("/api/ticket-koki", protected, TicketKoki(svc, cfg.Admin.ApiKey))
	app.Post("/api/buy-koki", protected, BuyKoki(svc))
	app.Post("/api/convert-koki", protected, ConvertKoki(svc))
}

func status(c *fiber.Ctx, svc Services, userID uuid.UUID) (*Status, error) {
	balance, err := svc.Koki.GetBalance(c.Context(), userID)
	if err != nil {
		return nil, err
	}
	history, err := svc.Koki.History(c.Context(), userID, historyLimit)
	if err != nil {
		return nil, err
	}
	eligibility, err := svc.Koki.CanPlayRoulette(c.Context(), userID)
	if err != nil {
		return nil, err
	}
	return &Status{Balance: balance, History: history, Eligibility: eligibility}, nil
}

// GetStatus returns the KOKI balance, recent history and roulette eligibility.
// @Summary KOKI status
// @Tags koki
// @Produce json
// @Success 200 {object} common.Response
// @Failure 401 {object} common.Response
// @Router /api/koki-status [get]
// @Security Bearer
func GetStatus(svc Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, svc.Auth)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		st, err := status(c, svc, userID)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", st)
	}
}

// PostStatus claims the daily KOKI bonus.
// @Summary Claim daily bonus
// @Tags koki
// @Accept json
// @Produce json
// @Param request body StatusAction true "action=claim_daily_bonus"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Router /api/koki-status [post]
// @Security Bearer
func PostStatus(svc Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, svc.Auth)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[StatusAction](c)
		if input == nil {
			return err
		}
		tx, err := svc.Koki.ClaimDailyBonus(c.Context(), userID)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		balance, err := svc.Koki.GetBalance(c.Context(), userID)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Bono diario reclamado",
			BonusResult{Transaction: tx, Balance: balance})
	}
}

// Roulette checks eligibility or plays one spin. The prize is chosen by
// the server.
// @Summary KOKI roulette
// @Tags koki
// @Accept json
// @Produce json
// @Param request body RouletteAction true "check_eligibility or play_roulette"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Router /api/roulette-koki [post]
// @Security Bearer
func Roulette(svc Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, svc.Auth)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[RouletteAction](c)
		if input == nil {
			return err
		}
		if input.Action == ActionCheckEligibility {
			e, err := svc.Koki.CanPlayRoulette(c.Context(), userID)
			if err != nil {
				return common.ErrorJSON(c, err)
			}
			return common.SuccessResponseJSON(c, fiber.StatusOK, "", e)
		}
		res, err := svc.Roulette.Play(c.Context(), userID)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Ruleta girada", res)
	}
}

// Wheel lists the roulette slots.
// @Summary Roulette wheel
// @Tags koki
// @Produce json
// @Success 200 {object} common.Response
// @Router /api/roulette-koki/wheel [get]
func Wheel(svc Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", svc.Roulette.Wheel())
	}
}

// TicketKoki rewards a ticket purchase, describes the ticket rewards, or
// records a weekly fund. The fund action also needs the admin key.
// @Summary Ticket KOKI actions
// @Tags koki
// @Accept json
// @Produce json
// @Param request body TicketAction true "Action and its fields"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 403 {object} common.Response
// @Router /api/ticket-koki [post]
// @Security Bearer
func TicketKoki(svc Services, adminKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, svc.Auth)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[TicketAction](c)
		if input == nil {
			return err
		}
		switch input.Action {
		case ActionGetPurchaseInfo:
			info, err := svc.Koki.PurchaseInfo(c.Context(), userID)
			if err != nil {
				return common.ErrorJSON(c, err)
			}
			return common.SuccessResponseJSON(c, fiber.StatusOK, "", info)

		case ActionRewardTicketPurchase:
			if input.TicketID == "" {
				return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "ticket_id es requerido")
			}
			tx, err := svc.Koki.ProcessTicketPurchaseReward(
				c.Context(), userID, input.TicketPrice, uuid.MustParse(input.TicketID))
			if err != nil {
				return common.ErrorJSON(c, err)
			}
			return common.SuccessResponseJSON(c, fiber.StatusOK, "Recompensa acreditada", tx)

		default:
			if !middleware.HasAdminKey(c, adminKey) {
				return common.ErrorJSON(c, domain.ErrForbidden)
			}
			if input.WeekStart == "" || input.TotalIncome == "" {
				return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "week_start y total_income son requeridos")
			}
			weekStart, err := time.Parse(time.DateOnly, input.WeekStart)
			if err != nil {
				return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "week_start inválido")
			}
			income, err := decimal.NewFromString(input.TotalIncome)
			if err != nil {
				return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "total_income inválido")
			}
			f, err := svc.Fund.CreateWeeklyFund(c.Context(), weekStart, income)
			if err != nil {
				return common.ErrorJSON(c, err)
			}
			return common.SuccessResponseJSON(c, fiber.StatusCreated, "Fondo semanal creado", f)
		}
	}
}

// BuyKoki buys KOKI with the game balance.
// @Summary Buy KOKI
// @Tags koki
// @Accept json
// @Produce json
// @Param request body AmountInput true "KOKI to buy"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Router /api/buy-koki [post]
// @Security Bearer
func BuyKoki(svc Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, svc.Auth)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[AmountInput](c)
		if input == nil {
			return err
		}
		out, err := svc.Koki.BuyKoki(c.Context(), userID, input.Amount)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "KOKI comprados", out)
	}
}

// ConvertKoki converts KOKI into game balance.
// @Summary Convert KOKI
// @Tags koki
// @Accept json
// @Produce json
// @Param request body AmountInput true "KOKI to convert"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Router /api/convert-koki [post]
// @Security Bearer
func ConvertKoki(svc Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, svc.Auth)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[AmountInput](c)
		if input == nil {
			return err
		}
		out, err := svc.Koki.ConvertToBalance(c.Context(), userID, input.Amount)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "KOKI convertidos", out)
	}
}
