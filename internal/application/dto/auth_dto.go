package dto

import "time"

// LoginStartRequest inicio de sesión: se envía un código al teléfono.
type LoginStartRequest struct {
	PhoneNumber string `json:"phone_number" validate:"max=32"`
}

// LoginStartResponse indica si el teléfono es nuevo o pertenece a una cuenta eliminada.
type LoginStartResponse struct {
	PhoneNumber   string `json:"phone_number"`
	IsNewUser     bool   `json:"is_new_user"`
	IsDeletedUser bool   `json:"is_deleted_user"`
}

// VerifyCodeRequest verificación del código recibido por SMS.
type VerifyCodeRequest struct {
	PhoneNumber string `json:"phone_number" validate:"max=32"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
}

// VerifyCodeResponse token emitido tras verificar el código.
type VerifyCodeResponse struct {
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
	UserName    string    `json:"username"`
	UserID      string    `json:"user_id"`
	PhoneNumber string    `json:"phone_number"`
	IsNewUser   bool      `json:"is_new_user"`
	IsRestored  bool      `json:"is_restored"`
}
