package user

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kokifi/lottery/pkg/config"
	"github.com/kokifi/lottery/pkg/middleware"
	authsvc "github.com/kokifi/lottery/pkg/service/auth"
	usersvc "github.com/kokifi/lottery/pkg/service/user"
	"github.com/kokifi/lottery/webapi/common"
)

func Routes(app *fiber.App, userSvc *usersvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	app.Get("/api/user/me", middleware.JwtProtected(cfg.Auth.Jwt), Me(userSvc, authSvc))
	app.Put("/api/user/avatar", middleware.JwtProtected(cfg.Auth.Jwt), ChangeAvatar(userSvc, authSvc))
}

// Me returns the authenticated user.
// @Summary Current user
// @Tags users
// @Produce json
// @Success 200 {object} common.Response
// @Failure 401 {object} common.Response
// @Router /api/user/me [get]
// @Security Bearer
func Me(userSvc *usersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		u, err := userSvc.Get(c.Context(), userID)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", u)
	}
}

// ChangeAvatar sets a new avatar, charging avatar_change_cost from the balance.
// @Summary Change avatar
// @Tags users
// @Accept json
// @Produce json
// @Param request body AvatarInput true "New avatar"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Router /api/user/avatar [put]
// @Security Bearer
func ChangeAvatar(userSvc *usersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[AvatarInput](c)
		if input == nil {
			return err
		}
		u, err := userSvc.ChangeAvatar(c.Context(), userID, input.Avatar)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Avatar actualizado", u)
	}
}
