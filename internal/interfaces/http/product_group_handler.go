package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/myshop-api/internal/application/dto"
	"github.com/jhoicas/myshop-api/internal/application/productgroup"
	"github.com/jhoicas/myshop-api/pkg/logger"
)

// ProductGroupHandler maneja grupos de productos y su membresía.
type ProductGroupHandler struct {
	uc  *productgroup.UseCase
	log *logger.Logger
}

// NewProductGroupHandler construye el handler.
func NewProductGroupHandler(uc *productgroup.UseCase, log *logger.Logger) *ProductGroupHandler {
	return &ProductGroupHandler{uc: uc, log: log.Component("product_group_handler")}
}

// List godoc
// @Summary      Listar grupos de productos
// @Tags         product-groups
// @Produce      json
// @Success      200  {object}  dto.Response{result=[]dto.ProductGroupResponse}
// @Router       /api/product-groups [get]
func (h *ProductGroupHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, out)
}

// GetByID godoc
// @Summary      Obtener grupo con sus productos
// @Tags         product-groups
// @Produce      json
// @Param        id   path  string  true  "ID del grupo"
// @Success      200  {object}  dto.Response{result=dto.ProductGroupResponse}
// @Failure      400  {object}  dto.Response
// @Router       /api/product-groups/{id} [get]
func (h *ProductGroupHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, out)
}

// Create godoc
// @Summary      Crear grupo de productos
// @Description  Solo uno de price_with_discount, discount_percentage o discounted_amount puede venir informado.
// @Tags         product-groups
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductGroupRequest  true  "Grupo y descuento"
// @Success      201   {object}  dto.Response{result=dto.ProductGroupResponse}
// @Failure      400   {object}  dto.Response
// @Router       /api/product-groups [post]
func (h *ProductGroupHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductGroupRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respond(c, fiber.StatusCreated, out)
}

// Update godoc
// @Summary      Actualizar grupo de productos
// @Description  product_ids vacío conserva la membresía actual.
// @Tags         product-groups
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID del grupo"
// @Param        body  body  dto.UpdateProductGroupRequest  true  "Grupo y descuento"
// @Success      200   {object}  dto.Response{result=dto.ProductGroupResponse}
// @Failure      400   {object}  dto.Response
// @Router       /api/product-groups/{id} [put]
func (h *ProductGroupHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductGroupRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, out)
}

// Delete godoc
// @Summary      Eliminar grupo de productos
// @Tags         product-groups
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del grupo"
// @Success      200  {object}  dto.Response
// @Failure      400  {object}  dto.Response
// @Router       /api/product-groups/{id} [delete]
func (h *ProductGroupHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, true)
}

// AddProduct godoc
// @Summary      Agregar producto al grupo
// @Description  Recalcula el total; un porcentaje de descuento existente se conserva.
// @Tags         product-groups
// @Security     Bearer
// @Produce      json
// @Param        id         path  string  true  "ID del grupo"
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.Response{result=dto.ProductGroupResponse}
// @Failure      400  {object}  dto.Response
// @Router       /api/product-groups/{id}/products/{productId} [post]
func (h *ProductGroupHandler) AddProduct(c *fiber.Ctx) error {
	out, err := h.uc.AddProduct(c.UserContext(), c.Params("id"), c.Params("productId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, out)
}

// RemoveProduct godoc
// @Summary      Quitar producto del grupo
// @Tags         product-groups
// @Security     Bearer
// @Produce      json
// @Param        id         path  string  true  "ID del grupo"
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.Response{result=dto.ProductGroupResponse}
// @Failure      400  {object}  dto.Response
// @Router       /api/product-groups/{id}/products/{productId} [delete]
func (h *ProductGroupHandler) RemoveProduct(c *fiber.Ctx) error {
	out, err := h.uc.RemoveProduct(c.UserContext(), c.Params("id"), c.Params("productId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, out)
}
