package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/myshop-api/internal/application/auth"
	"github.com/jhoicas/myshop-api/internal/application/dto"
	"github.com/jhoicas/myshop-api/pkg/logger"
)

// AccountHandler login por teléfono y código SMS.
type AccountHandler struct {
	uc  *auth.UseCase
	log *logger.Logger
}

// NewAccountHandler construye el handler.
func NewAccountHandler(uc *auth.UseCase, log *logger.Logger) *AccountHandler {
	return &AccountHandler{uc: uc, log: log.Component("account_handler")}
}

// Login godoc
// @Summary      Iniciar sesión (envía código SMS)
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginStartRequest  true  "Teléfono"
// @Success      200   {object}  dto.Response{result=dto.LoginStartResponse}
// @Failure      400   {object}  dto.Response
// @Router       /api/account/login [post]
func (h *AccountHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginStartRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.LoginStart(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, out)
}

// VerifySMSCode godoc
// @Summary      Verificar código y obtener token
// @Description  Crea el usuario si el teléfono es nuevo; restaura la cuenta eliminada dentro del plazo.
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VerifyCodeRequest  true  "Teléfono y código"
// @Success      200   {object}  dto.Response{result=dto.VerifyCodeResponse}
// @Failure      400   {object}  dto.Response
// @Router       /api/account/verify-sms-code [post]
func (h *AccountHandler) VerifySMSCode(c *fiber.Ctx) error {
	var in dto.VerifyCodeRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.VerifyCode(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, out)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         account
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Response
// @Router       /api/account/logout [post]
func (h *AccountHandler) Logout(c *fiber.Ctx) error {
	if err := h.uc.Logout(c.UserContext(), GetUserID(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, true)
}
