package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/kokifi/lottery/pkg/domain/user"
	authsvc "github.com/kokifi/lottery/pkg/service/auth"
	usersvc "github.com/kokifi/lottery/pkg/service/user"
	"github.com/kokifi/lottery/webapi/common"
)

func Routes(app *fiber.App, authSvc *authsvc.Service, userSvc *usersvc.Service) {
	app.Post("/api/auth/register", Register(authSvc, userSvc))
	app.Post("/api/auth/login", Login(authSvc))
}

// Register creates an account with the welcome balance and logs it in.
// @Summary Register
// @Description Create a player account. The new user starts with the welcome bonus balance.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterInput true "Account data"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 409 {object} common.Response
// @Router /api/auth/register [post]
func Register(authSvc *authsvc.Service, userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RegisterInput](c)
		if input == nil {
			return err
		}
		u, err := userSvc.Register(c.Context(), input.Username, input.Email, input.Password)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		token, err := authSvc.GenerateToken(c.Context(), u)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Usuario registrado", Session{Token: token, User: u})
	}
}

// Login handles user authentication and returns a JWT token.
// @Summary User login
// @Description Authenticate user with identity (username or email) and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginInput true "Login credentials"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Failure 429 {object} common.Response
// @Router /api/auth/login [post]
func Login(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginInput](c)
		if input == nil {
			return err
		}
		u, err := authSvc.Login(c.Context(), input.Identity, input.Password)
		if errors.Is(err, user.ErrUserUnauthorized) {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Usuario o contraseña incorrectos")
		}
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		token, err := authSvc.GenerateToken(c.Context(), u)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Sesión iniciada", Session{Token: token, User: u})
	}
}
