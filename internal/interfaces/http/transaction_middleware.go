package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/myshop-api/internal/application/dto"
	"github.com/jhoicas/myshop-api/internal/application/ports"
	"github.com/jhoicas/myshop-api/pkg/logger"
)

// TransactionMiddleware envuelve cada petición de escritura en una transacción.
// Commit si el handler terminó sin error y con estado < 400; rollback en cualquier otro caso,
// incluido un panic (que se vuelve a lanzar para el recover de Fiber).
func TransactionMiddleware(uow ports.UnitOfWork, log *logger.Logger) fiber.Handler {
	log = log.Component("tx_middleware")
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}

		ctx, err := uow.Begin(c.UserContext())
		if err != nil {
			log.Error().Err(err).Str("path", c.Path()).Msg("no se pudo abrir la transacción")
			return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("500", internalMessage))
		}
		c.SetUserContext(ctx)

		defer func() {
			if p := recover(); p != nil {
				_ = uow.Rollback(ctx)
				panic(p)
			}
		}()

		if err := c.Next(); err != nil {
			_ = uow.Rollback(ctx)
			return err
		}
		if c.Response().StatusCode() >= fiber.StatusBadRequest {
			return uow.Rollback(ctx)
		}
		if err := uow.Commit(ctx); err != nil {
			log.Error().Err(err).Str("path", c.Path()).Msg("commit fallido")
			c.Response().ResetBody()
			return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("500", internalMessage))
		}
		return nil
	}
}
