package auth

import (
	"context"
	"time"

	"github.com/jhoicas/myshop-api/pkg/jwt"
)

// CodeStore guarda un código pendiente por teléfono. Put sobrescribe el anterior.
// Get devuelve nil si no hay código para ese teléfono.
type CodeStore interface {
	Put(ctx context.Context, phone string, code PendingCode) error
	Get(ctx context.Context, phone string) (*PendingCode, error)
	Delete(ctx context.Context, phone string) error
}

// CodeSender entrega el código al usuario por un canal externo (SMS).
type CodeSender interface {
	Send(ctx context.Context, phone, code string) error
}

// CodeGenerator genera códigos numéricos de 6 dígitos.
type CodeGenerator interface {
	Generate() (string, error)
}

// TokenIssuer firma el token de identidad.
type TokenIssuer interface {
	Generate(id jwt.Identity) (string, time.Time, error)
}

// Throttle limita solicitudes de código por clave (teléfono).
type Throttle interface {
	Allow(key string) bool
}

// Restorer restaura una cuenta eliminada si sigue dentro del plazo.
type Restorer interface {
	Restore(ctx context.Context, phone string) (bool, error)
}
