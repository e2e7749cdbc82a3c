package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/myshop-api/internal/application/cart"
	"github.com/jhoicas/myshop-api/internal/application/dto"
	"github.com/jhoicas/myshop-api/pkg/logger"
)

// CartHandler cotización de carrito (solo lectura).
type CartHandler struct {
	uc  *cart.UseCase
	log *logger.Logger
}

// NewCartHandler construye el handler.
func NewCartHandler(uc *cart.UseCase, log *logger.Logger) *CartHandler {
	return &CartHandler{uc: uc, log: log.Component("cart_handler")}
}

// Calculate godoc
// @Summary      Calcular totales del carrito
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CartRequest  true  "Productos y grupos"
// @Success      200   {object}  dto.Response{result=dto.CartResponse}
// @Failure      400   {object}  dto.Response
// @Router       /api/cart/calculate [post]
func (h *CartHandler) Calculate(c *fiber.Ctx) error {
	var in dto.CartRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.Calculate(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, out)
}
