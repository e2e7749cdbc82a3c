package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/myshop-api/internal/application/dto"
	"github.com/jhoicas/myshop-api/internal/domain"
	"github.com/jhoicas/myshop-api/pkg/logger"
)

const internalMessage = "ocurrió un error inesperado, intente más tarde"

var validate = validator.New(validator.WithRequiredStructEnabled())

// respond escribe el resultado dentro del sobre {result, error}.
func respond(c *fiber.Ctx, status int, result any) error {
	return c.Status(status).JSON(dto.OK(result))
}

// respondError: rechazo de negocio (*AppError) → 400 con su código; cualquier otro error → 500 genérico.
// El detalle del fallo solo queda en el log.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	if appErr, ok := domain.AsAppError(err); ok {
		log.Debug().Str("code", appErr.Code).Str("path", c.Path()).Msg(appErr.Message)
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(appErr.Code, appErr.Message))
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("500", internalMessage))
}

// bind parsea el cuerpo JSON y lo valida con validator/v10.
func bind(c *fiber.Ctx, in any) error {
	if err := c.BodyParser(in); err != nil {
		return domain.InvalidBody()
	}
	if err := validate.Struct(in); err != nil {
		return domain.ValidationFailed(describe(err))
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return "validación fallida: " + strings.Join(parts, "; ")
}
