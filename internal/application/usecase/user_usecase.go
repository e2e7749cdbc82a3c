package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jhoicas/myshop-api/internal/application/dto"
	"github.com/jhoicas/myshop-api/internal/domain"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
	"github.com/jhoicas/myshop-api/internal/domain/repository"
	"github.com/jhoicas/myshop-api/pkg/logger"
)

// UserUseCase perfil, borrado lógico y restauración con plazo.
type UserUseCase struct {
	repo   repository.UserRepository
	log    *logger.Logger
	window time.Duration
	now    func() time.Time
}

// NewUserUseCase construye el caso de uso. window es el plazo de restauración de cuentas eliminadas.
func NewUserUseCase(repo repository.UserRepository, window time.Duration, log *logger.Logger) *UserUseCase {
	return &UserUseCase{repo: repo, log: log.Component("users"), window: window, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *UserUseCase) WithClock(now func() time.Time) *UserUseCase {
	uc.now = now
	return uc
}

// Get devuelve el usuario no eliminado.
func (uc *UserUseCase) Get(ctx context.Context, id string) (*dto.UserResponse, error) {
	u, err := uc.active(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(u), nil
}

// Update modifica nombre y preferencias de notificación.
func (uc *UserUseCase) Update(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	u, err := uc.active(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		u.Name = name
	}
	u.AllowSharingData = in.AllowSharingData
	u.AllowPushNotifications = in.AllowPushNotifications
	u.AllowPushEmails = in.AllowPushEmails
	u.AllowPushSms = in.AllowPushSms
	if err := uc.repo.Update(ctx, u); err != nil {
		uc.log.Error().Err(err).Str("user_id", id).Msg("error al actualizar usuario")
		return nil, domain.UserUpdateFailed(err)
	}
	uc.log.Info().Str("user_id", id).Msg("usuario actualizado")
	return dto.NewUserResponse(u), nil
}

// Delete marca la cuenta como eliminada; puede restaurarse dentro del plazo.
func (uc *UserUseCase) Delete(ctx context.Context, id string) error {
	u, err := uc.active(ctx, id)
	if err != nil {
		return err
	}
	u.SoftDelete(uc.now())
	if err := uc.repo.Update(ctx, u); err != nil {
		uc.log.Error().Err(err).Str("user_id", id).Msg("error al eliminar usuario")
		return domain.UserDeletionFailed(err)
	}
	uc.log.Info().Str("user_id", id).Msg("usuario eliminado (lógico)")
	return nil
}

// Restore reactiva la cuenta eliminada del teléfono. Devuelve false sin error si no hay cuenta
// eliminada o si el plazo ya venció.
func (uc *UserUseCase) Restore(ctx context.Context, phone string) (bool, error) {
	u, err := uc.repo.GetByPhone(ctx, strings.TrimSpace(phone), true)
	if err != nil {
		return false, err
	}
	if u == nil {
		return false, nil
	}
	if err := u.Restore(uc.now(), uc.window); err != nil {
		if errors.Is(err, entity.ErrRestoreWindowEnded) {
			uc.log.Info().Str("user_id", u.ID).Msg("plazo de restauración vencido")
		}
		return false, nil
	}
	if err := uc.repo.Update(ctx, u); err != nil {
		return false, domain.UserUpdateFailed(err)
	}
	uc.log.Info().Str("user_id", u.ID).Msg("usuario restaurado")
	return true, nil
}

func (uc *UserUseCase) active(ctx context.Context, id string) (*entity.User, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.UserNotFound(id)
	}
	return u, nil
}
