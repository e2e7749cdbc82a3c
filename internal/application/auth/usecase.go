// Package auth implementa el login por teléfono: envío de código por SMS, verificación y emisión del JWT.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/myshop-api/internal/application/dto"
	"github.com/jhoicas/myshop-api/internal/application/ports"
	"github.com/jhoicas/myshop-api/internal/domain"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
	"github.com/jhoicas/myshop-api/internal/domain/repository"
	"github.com/jhoicas/myshop-api/pkg/jwt"
	"github.com/jhoicas/myshop-api/pkg/logger"
	"github.com/jhoicas/myshop-api/pkg/metrics"
)

// Config parámetros del flujo de login.
type Config struct {
	CodeTTL time.Duration
}

// Deps colaboradores del caso de uso. Throttle es opcional.
type Deps struct {
	Users     repository.UserRepository
	Restorer  Restorer
	Codes     CodeStore
	Sender    CodeSender
	Generator CodeGenerator
	Tokens    TokenIssuer
	Throttle  Throttle
	UoW       ports.UnitOfWork
}

// UseCase casos de uso de autenticación.
type UseCase struct {
	Deps
	cfg Config
	log *logger.Logger
	now func() time.Time
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(deps Deps, cfg Config, log *logger.Logger) *UseCase {
	if deps.Generator == nil {
		deps.Generator = RandomCodeGenerator{}
	}
	return &UseCase{Deps: deps, cfg: cfg, log: log.Component("auth"), now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// LoginStart emite un código para el teléfono (sobrescribiendo el pendiente) y lo envía.
// No autentica: solo informa si el teléfono es nuevo o pertenece a una cuenta eliminada.
func (uc *UseCase) LoginStart(ctx context.Context, in dto.LoginStartRequest) (*dto.LoginStartResponse, error) {
	phone := strings.TrimSpace(in.PhoneNumber)
	if phone == "" {
		return nil, domain.PhoneNumberEmpty()
	}
	if uc.Throttle != nil && !uc.Throttle.Allow(phone) {
		uc.log.Warn().Str("phone", phone).Msg("solicitudes de código limitadas")
		return nil, domain.TooManyCodeRequests()
	}

	user, err := uc.Users.GetByPhone(ctx, phone, true)
	if err != nil {
		return nil, err
	}

	code, err := uc.Generator.Generate()
	if err != nil {
		return nil, err
	}
	pending, err := NewPendingCode(code, uc.now().Add(uc.cfg.CodeTTL))
	if err != nil {
		return nil, err
	}
	if err := uc.Codes.Put(ctx, phone, pending); err != nil {
		return nil, err
	}
	if err := uc.Sender.Send(ctx, phone, code); err != nil {
		return nil, err
	}
	metrics.AuthCodesIssued.Inc()
	uc.log.Info().Str("phone", phone).Time("expires_at", pending.ExpiresAt).Msg("código de verificación emitido")

	return &dto.LoginStartResponse{
		PhoneNumber:   phone,
		IsNewUser:     user == nil,
		IsDeletedUser: user != nil && user.IsDeleted,
	}, nil
}

// VerifyCode valida el código y autentica. El código se consume al coincidir (y al vencer).
// Teléfono desconocido crea el usuario; cuenta eliminada dentro del plazo se restaura;
// fuera del plazo el login se rechaza.
func (uc *UseCase) VerifyCode(ctx context.Context, in dto.VerifyCodeRequest) (*dto.VerifyCodeResponse, error) {
	phone := strings.TrimSpace(in.PhoneNumber)
	if phone == "" {
		return nil, domain.PhoneNumberEmpty()
	}
	if err := uc.checkCode(ctx, phone, strings.TrimSpace(in.Code)); err != nil {
		metrics.AuthLogins.WithLabelValues("rejected").Inc()
		return nil, err
	}

	var user *entity.User
	var isNew, isRestored bool
	err := uc.UoW.Run(ctx, func(ctx context.Context) error {
		var err error
		user, err = uc.Users.GetByPhone(ctx, phone, true)
		if err != nil {
			return err
		}
		switch {
		case user == nil:
			user, err = uc.register(ctx, phone)
			isNew = err == nil
			return err
		case user.IsDeleted:
			restored, err := uc.Restorer.Restore(ctx, phone)
			if err != nil {
				return err
			}
			if !restored {
				uc.log.Info().Str("user_id", user.ID).Msg("login rechazado: plazo de restauración vencido")
				return domain.AccountRestoreWindowExpired()
			}
			isRestored = true
			user.IsDeleted = false
			user.DeletedAt = nil
		}
		return nil
	})
	if err != nil {
		metrics.AuthLogins.WithLabelValues("rejected").Inc()
		return nil, err
	}

	token, exp, err := uc.Tokens.Generate(jwt.Identity{
		UserID: user.ID,
		Name:   user.Name,
		Phone:  user.PhoneNumber,
		Role:   user.Role,
	})
	if err != nil {
		return nil, err
	}

	result := "ok"
	switch {
	case isNew:
		result = "new_user"
	case isRestored:
		result = "restored"
	}
	metrics.AuthLogins.WithLabelValues(result).Inc()
	uc.log.Info().Str("user_id", user.ID).Bool("is_new_user", isNew).Bool("is_restored", isRestored).Msg("login exitoso")

	return &dto.VerifyCodeResponse{
		Token:       token,
		ExpiresAt:   exp,
		UserName:    user.Name,
		UserID:      user.ID,
		PhoneNumber: user.PhoneNumber,
		IsNewUser:   isNew,
		IsRestored:  isRestored,
	}, nil
}

// Logout no mantiene estado en el servidor: el token expira solo.
func (uc *UseCase) Logout(ctx context.Context, userID string) error {
	uc.log.Info().Str("user_id", userID).Msg("logout")
	return nil
}

func (uc *UseCase) checkCode(ctx context.Context, phone, code string) error {
	pending, err := uc.Codes.Get(ctx, phone)
	if err != nil {
		return err
	}
	if pending == nil {
		return domain.CodeNotFound()
	}
	if pending.Expired(uc.now()) {
		if err := uc.Codes.Delete(ctx, phone); err != nil {
			uc.log.Error().Err(err).Str("phone", phone).Msg("no se pudo eliminar el código vencido")
		}
		return domain.CodeExpired()
	}
	if !pending.Matches(code) {
		return domain.CodeMismatch()
	}
	return uc.Codes.Delete(ctx, phone)
}

func (uc *UseCase) register(ctx context.Context, phone string) (*entity.User, error) {
	user := &entity.User{
		ID:          uuid.New().String(),
		PhoneNumber: phone,
		Name:        phone,
		Role:        entity.RoleCustomer,
		CreatedAt:   uc.now(),
	}
	if err := uc.Users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.UserCreationFailed(err)
		}
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Msg("usuario creado")
	return user, nil
}
