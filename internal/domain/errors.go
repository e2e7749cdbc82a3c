package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
)

// AppError es un rechazo de negocio: código estable + mensaje para el cliente.
// Kind es uno de los errores sentinela de arriba; errors.Is(err, ErrNotFound) funciona vía Unwrap.
type AppError struct {
	Kind    error
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Kind }

func newAppError(kind error, code, msg string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: msg}
}

// AsAppError extrae el *AppError de la cadena, si existe.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// ── Petición ──────────────────────────────────────────────────────────────────

func InvalidBody() error {
	return newAppError(ErrInvalidInput, "REQUEST:00001", "cuerpo de la petición inválido")
}

func ValidationFailed(detail string) error {
	return newAppError(ErrInvalidInput, "REQUEST:00002", detail)
}

// ── Categorías ────────────────────────────────────────────────────────────────

func CategoryNameEmpty() error {
	return newAppError(ErrInvalidInput, "CATEGORIES:00001", "el nombre de la categoría no puede estar vacío")
}

func CategoryNotFound(id string) error {
	return newAppError(ErrNotFound, "CATEGORIES:00002", fmt.Sprintf("categoría con ID %s no encontrada", id))
}

func CategoryNameExists(name string) error {
	return newAppError(ErrDuplicate, "CATEGORIES:00003", fmt.Sprintf("la categoría '%s' ya existe", name))
}

func CategoryHasProducts(id string) error {
	return newAppError(ErrConflict, "CATEGORIES:00004", fmt.Sprintf("la categoría %s todavía tiene productos", id))
}

// ── Productos ─────────────────────────────────────────────────────────────────

func ProductNameEmpty() error {
	return newAppError(ErrInvalidInput, "PRODUCTS:00001", "el nombre del producto no puede estar vacío")
}

func ProductNotFound(id string) error {
	return newAppError(ErrNotFound, "PRODUCTS:00002", fmt.Sprintf("producto con ID %s no encontrado", id))
}

func ProductPriceNegative() error {
	return newAppError(ErrInvalidInput, "PRODUCTS:00003", "el precio del producto no puede ser negativo")
}

// ── Grupos de productos ───────────────────────────────────────────────────────

func ProductGroupNotFound(id string) error {
	return newAppError(ErrNotFound, "PRODUCTGROUPS:00001", fmt.Sprintf("grupo de productos con ID %s no encontrado", id))
}

func ProductGroupNameEmpty() error {
	return newAppError(ErrInvalidInput, "PRODUCTGROUPS:00002", "el nombre del grupo de productos no puede estar vacío")
}

func ProductGroupNameExists(name string) error {
	return newAppError(ErrDuplicate, "PRODUCTGROUPS:00003", fmt.Sprintf("el grupo de productos '%s' ya existe", name))
}

func ProductAlreadyInGroup(productID, groupID string) error {
	return newAppError(ErrConflict, "PRODUCTGROUPS:00004",
		fmt.Sprintf("el producto %s ya pertenece al grupo %s", productID, groupID))
}

func ProductNotInGroup(productID, groupID string) error {
	return newAppError(ErrConflict, "PRODUCTGROUPS:00005",
		fmt.Sprintf("el producto %s no pertenece al grupo %s", productID, groupID))
}

func ProductGroupEmpty() error {
	return newAppError(ErrInvalidInput, "PRODUCTGROUPS:00006", "el grupo debe contener al menos un producto")
}

func ProductGroupOnlyOneDiscountMethod() error {
	return newAppError(ErrInvalidInput, "PRODUCTGROUPS:00007",
		"solo se permite un método de descuento: price_with_discount, discount_percentage o discounted_amount")
}

func ProductGroupPriceAboveTotal() error {
	return newAppError(ErrInvalidInput, "PRODUCTGROUPS:00008", "el precio con descuento no puede superar el total")
}

func ProductGroupPercentageAbove100() error {
	return newAppError(ErrInvalidInput, "PRODUCTGROUPS:00009", "el porcentaje de descuento no puede superar 100%")
}

func ProductGroupAmountAboveTotal() error {
	return newAppError(ErrInvalidInput, "PRODUCTGROUPS:00010", "el monto de descuento no puede superar el total")
}

// ── Autenticación ─────────────────────────────────────────────────────────────

func PhoneNumberEmpty() error {
	return newAppError(ErrInvalidInput, "AUTH:00001", "el número de teléfono no puede estar vacío")
}

func CodeNotFound() error {
	return newAppError(ErrUnauthorized, "AUTH:00003", "código no encontrado, solicite uno nuevo")
}

func CodeExpired() error {
	return newAppError(ErrUnauthorized, "AUTH:00004", "el código expiró, solicite uno nuevo")
}

func CodeMismatch() error {
	return newAppError(ErrUnauthorized, "AUTH:00005", "código de verificación incorrecto")
}

func AccountRestoreWindowExpired() error {
	return newAppError(ErrForbidden, "AUTH:00006",
		"la cuenta fue eliminada y el plazo de restauración venció, cree una cuenta nueva")
}

func TooManyCodeRequests() error {
	return newAppError(ErrConflict, "AUTH:00007", "demasiadas solicitudes de código, intente más tarde")
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

func UserNotFound(id string) error {
	return newAppError(ErrNotFound, "USERS:00001", fmt.Sprintf("usuario con ID %s no encontrado", id))
}

func UserCreationFailed(cause error) error {
	return newAppError(ErrConflict, "USERS:00002", fmt.Sprintf("error al crear el usuario: %v", cause))
}

func UserUpdateFailed(cause error) error {
	return newAppError(ErrConflict, "USERS:00003", fmt.Sprintf("error al actualizar el usuario: %v", cause))
}

func UserDeletionFailed(cause error) error {
	return newAppError(ErrConflict, "USERS:00004", fmt.Sprintf("error al eliminar el usuario: %v", cause))
}
