// Package common holds the response envelope, request binding and error
// mapping shared by every HTTP area.
package common

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kokifi/lottery/pkg/domain"
	"github.com/kokifi/lottery/pkg/domain/fund"
	"github.com/kokifi/lottery/pkg/domain/game"
	"github.com/kokifi/lottery/pkg/domain/koki"
	"github.com/kokifi/lottery/pkg/domain/lottery"
	"github.com/kokifi/lottery/pkg/domain/sysconfig"
	"github.com/kokifi/lottery/pkg/domain/user"
)

// Response is the envelope of every JSON route.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

var validate = validator.New()

// SuccessResponseJSON writes a successful envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Success: true, Message: message, Data: data})
}

// ErrorResponseJSON writes a failed envelope with a client-facing message.
func ErrorResponseJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Response{Success: false, Error: message})
}

type mapping struct {
	err     error
	status  int
	message string
}

// Order matters: the first match wins.
var errorMappings = []mapping{
	{user.ErrUserUnauthorized, fiber.StatusUnauthorized, "Usuario o contraseña incorrectos"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "No autorizado"},
	{domain.ErrForbidden, fiber.StatusForbidden, "No tienes permiso para esta acción"},

	{user.ErrUserNotFound, fiber.StatusNotFound, "Usuario no encontrado"},
	{game.ErrKoTicketNotFound, fiber.StatusNotFound, "KoTicket no encontrado"},
	{lottery.ErrNoActiveLottery, fiber.StatusNotFound, "No hay lotería activa"},
	{lottery.ErrLotteryNotFound, fiber.StatusNotFound, "Lotería no encontrada"},
	{domain.ErrNotFound, fiber.StatusNotFound, "Recurso no encontrado"},

	{fund.ErrWeekExists, fiber.StatusConflict, "Ya existe un fondo para esa semana"},
	{domain.ErrAlreadyExists, fiber.StatusConflict, "El usuario o email ya existe"},
	{lottery.ErrAlreadyDrawn, fiber.StatusConflict, "El sorteo ya se realizó"},
	{domain.ErrConflict, fiber.StatusConflict, "Conflicto con el estado actual"},

	{koki.ErrInsufficientKoki, fiber.StatusBadRequest, "KOKI insuficientes"},
	{koki.ErrInvalidAmount, fiber.StatusBadRequest, "La cantidad debe ser positiva"},
	{koki.ErrInvalidTransactionType, fiber.StatusBadRequest, "Tipo de transacción inválido"},
	{koki.ErrAlreadyRewarded, fiber.StatusBadRequest, "Este boleto ya recibió su recompensa"},
	{koki.ErrDailyBonusClaimed, fiber.StatusBadRequest, "Ya reclamaste el bono diario de hoy"},
	{koki.ErrRouletteLocked, fiber.StatusBadRequest, "Necesitas más KOKI para desbloquear la ruleta"},
	{game.ErrAlreadyScratched, fiber.StatusBadRequest, "Este KoTicket ya fue raspado"},
	{user.ErrInsufficientBalance, fiber.StatusBadRequest, "Saldo insuficiente"},
	{user.ErrInvalidAvatar, fiber.StatusBadRequest, "Avatar inválido"},
	{lottery.ErrLotteryClosed, fiber.StatusBadRequest, "La lotería está cerrada"},
	{lottery.ErrDrawNotDue, fiber.StatusBadRequest, "El sorteo aún no corresponde"},
	{lottery.ErrNumberOutOfRange, fiber.StatusBadRequest, "Número fuera de rango"},
	{lottery.ErrNumberTaken, fiber.StatusBadRequest, "Ese número ya fue comprado"},
	{lottery.ErrSoldOut, fiber.StatusBadRequest, "Todos los números están vendidos"},
	{fund.ErrNegativeIncome, fiber.StatusBadRequest, "El ingreso no puede ser negativo"},
	{fund.ErrInvalidPercentages, fiber.StatusBadRequest, "Los porcentajes deben sumar 100"},
	{sysconfig.ErrUnknownKey, fiber.StatusBadRequest, "Clave de configuración desconocida"},
	{sysconfig.ErrInvalidValue, fiber.StatusBadRequest, "Valor de configuración inválido"},
	{domain.ErrValidation, fiber.StatusBadRequest, "Datos inválidos"},
}

func lookup(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.message
		}
	}
	return fiber.StatusInternalServerError, "Error interno del servidor"
}

// ErrorToStatusCode maps domain errors to HTTP status codes. Anything
// unknown is a 500.
func ErrorToStatusCode(err error) int {
	status, _ := lookup(err)
	return status
}

// ErrorJSON writes err as a failed envelope. Unknown errors are logged and
// answered with a generic message.
func ErrorJSON(c *fiber.Ctx, err error) error {
	status, message := lookup(err)
	if status == fiber.StatusInternalServerError {
		slog.Error("Unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return ErrorResponseJSON(c, status, message)
}

// BindAndValidate parses the request body into T and validates it. On
// failure the 400 response is already written and nil is returned with the
// write result.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}
	if err := validate.Struct(input); err != nil {
		return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, validationMessage(err))
	}
	return &input, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Datos inválidos"
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return "Campos inválidos o faltantes: " + strings.Join(fields, ", ")
}

// UserIDParser extracts the user id from a parsed JWT.
type UserIDParser interface {
	GetCurrentUserId(token *jwt.Token) (uuid.UUID, error)
}

// CurrentUserID reads the authenticated user set by the JWT middleware.
func CurrentUserID(c *fiber.Ctx, auth UserIDParser) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	return auth.GetCurrentUserId(token)
}
