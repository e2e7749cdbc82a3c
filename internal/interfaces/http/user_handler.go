package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/myshop-api/internal/application/dto"
	"github.com/jhoicas/myshop-api/internal/application/usecase"
	"github.com/jhoicas/myshop-api/pkg/logger"
)

// UserHandler perfil del usuario autenticado. El ID sale siempre del token.
type UserHandler struct {
	uc  *usecase.UserUseCase
	log *logger.Logger
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase, log *logger.Logger) *UserHandler {
	return &UserHandler{uc: uc, log: log.Component("user_handler")}
}

// Me godoc
// @Summary      Perfil del usuario autenticado
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Response{result=dto.UserResponse}
// @Failure      400  {object}  dto.Response
// @Router       /api/users/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, out)
}

// Update godoc
// @Summary      Actualizar perfil
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateUserRequest  true  "Perfil"
// @Success      200   {object}  dto.Response{result=dto.UserResponse}
// @Failure      400   {object}  dto.Response
// @Router       /api/users/me [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, out)
}

// Delete godoc
// @Summary      Eliminar cuenta
// @Description  Borrado lógico; un nuevo login dentro del plazo restaura la cuenta.
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Response
// @Failure      400  {object}  dto.Response
// @Router       /api/users/me [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetUserID(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, true)
}
