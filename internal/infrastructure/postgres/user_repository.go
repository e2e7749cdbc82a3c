package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/myshop-api/internal/domain"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
	"github.com/jhoicas/myshop-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	conn
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{conn{pool: pool}}
}

const userSelect = `
	SELECT id, phone_number, name, role, allow_sharing_data, allow_push_notifications,
	       allow_push_emails, allow_push_sms, created_at, is_deleted, deleted_at
	FROM users`

func (r *UserRepo) findOne(ctx context.Context, query string, args ...any) (*entity.User, error) {
	var u entity.User
	err := r.q(ctx).QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.PhoneNumber, &u.Name, &u.Role, &u.AllowSharingData, &u.AllowPushNotifications,
		&u.AllowPushEmails, &u.AllowPushSms, &u.CreatedAt, &u.IsDeleted, &u.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// GetByID obtiene un usuario no eliminado por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.findOne(ctx, userSelect+` WHERE id = $1 AND NOT is_deleted`, id)
}

// GetByPhone busca por teléfono. Con includeDeleted, prefiere el usuario activo
// y si no hay, el eliminado más reciente.
func (r *UserRepo) GetByPhone(ctx context.Context, phone string, includeDeleted bool) (*entity.User, error) {
	if !includeDeleted {
		return r.findOne(ctx, userSelect+` WHERE phone_number = $1 AND NOT is_deleted`, phone)
	}
	return r.findOne(ctx, userSelect+`
		WHERE phone_number = $1
		ORDER BY is_deleted ASC, deleted_at DESC NULLS FIRST, created_at DESC
		LIMIT 1`, phone)
}

// ExistsByPhone solo considera usuarios no eliminados.
func (r *UserRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var exists bool
	err := r.q(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE phone_number = $1 AND NOT is_deleted)`, phone).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists user by phone: %w", err)
	}
	return exists, nil
}

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	_, err := r.exec(ctx, `
		INSERT INTO users (id, phone_number, name, role, allow_sharing_data, allow_push_notifications,
		                   allow_push_emails, allow_push_sms, created_at, is_deleted, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		u.ID, u.PhoneNumber, u.Name, u.Role, u.AllowSharingData, u.AllowPushNotifications,
		u.AllowPushEmails, u.AllowPushSms, u.CreatedAt, u.IsDeleted, u.DeletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Update persiste el perfil, preferencias y el estado de borrado lógico.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	_, err := r.exec(ctx, `
		UPDATE users
		SET name = $2, role = $3, allow_sharing_data = $4, allow_push_notifications = $5,
		    allow_push_emails = $6, allow_push_sms = $7, is_deleted = $8, deleted_at = $9
		WHERE id = $1`,
		u.ID, u.Name, u.Role, u.AllowSharingData, u.AllowPushNotifications,
		u.AllowPushEmails, u.AllowPushSms, u.IsDeleted, u.DeletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}
