// Package middleware holds the fiber middleware shared by the HTTP areas.
package middleware

import (
	"crypto/subtle"
	"errors"
	"strings"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/kokifi/lottery/pkg/config"
)

// AdminKeyHeader carries the admin API key.
const AdminKeyHeader = "X-Admin-Key"

// JwtProtected requires a valid HS256 bearer token. The parsed token is
// stored in c.Locals("user").
func JwtProtected(cfg *config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{JWTAlg: jwt.SigningMethodHS256.Alg(), Key: []byte(cfg.Secret)},
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) ||
		strings.EqualFold(err.Error(), jwtware.ErrJWTMissingOrMalformed.Error()) {
		return reject(c, fiber.StatusBadRequest, "Token ausente o mal formado")
	}
	return reject(c, fiber.StatusUnauthorized, "Token inválido o expirado")
}

// AdminKey guards admin routes with a shared key. An empty key disables
// the admin API.
func AdminKey(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if key == "" {
			return reject(c, fiber.StatusForbidden, "API de administración deshabilitada")
		}
		got := c.Get(AdminKeyHeader)
		if got == "" {
			return reject(c, fiber.StatusUnauthorized, "Clave de administración requerida")
		}
		if !HasAdminKey(c, key) {
			return reject(c, fiber.StatusForbidden, "Clave de administración inválida")
		}
		return c.Next()
	}
}

// HasAdminKey reports whether the request carries key. An empty key never
// matches.
func HasAdminKey(c *fiber.Ctx, key string) bool {
	got := c.Get(AdminKeyHeader)
	return key != "" && subtle.ConstantTimeCompare([]byte(got), []byte(key)) == 1
}

func reject(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "error": msg})
}
