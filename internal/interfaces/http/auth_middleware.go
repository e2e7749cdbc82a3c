package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/myshop-api/internal/application/dto"
	"github.com/jhoicas/myshop-api/pkg/jwt"
)

// Locals keys para la identidad del token en Fiber.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
	LocalPhone  = "phone"
)

// TokenParser valida el token y devuelve sus claims; lo implementa *jwt.Issuer.
type TokenParser interface {
	Parse(token string) (*jwt.Claims, error)
}

// AuthMiddleware valida el Bearer Token JWT y deja UserID, Role y Phone en c.Locals.
func AuthMiddleware(tokens TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("MISSING_TOKEN", "Authorization header requerido"))
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("INVALID_TOKEN", "formato: Bearer <token>"))
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("MISSING_TOKEN", "token vacío"))
		}
		claims, err := tokens.Parse(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("INVALID_TOKEN", "token inválido o expirado"))
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalPhone, claims.Phone)
		return c.Next()
	}
}

// RequireRole autoriza solo si el rol del token está entre los permitidos.
// Debe usarse después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("MISSING_ROLE", "el token no contiene rol"))
		}
		if _, ok := allowed[role]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.Fail("FORBIDDEN", "rol sin permiso para este recurso"))
		}
		return c.Next()
	}
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return localString(c, LocalUserID) }

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }

// GetPhone devuelve el teléfono del token.
func GetPhone(c *fiber.Ctx) string { return localString(c, LocalPhone) }
