package entity

import (
	"errors"
	"time"
)

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// DefaultRestoreWindow plazo durante el cual una cuenta eliminada puede restaurarse.
const DefaultRestoreWindow = 30 * 24 * time.Hour

// UserState estado del ciclo de vida: Active → Deleted(at) → [Active | PermanentlyInaccessible].
type UserState int

const (
	UserActive UserState = iota
	UserDeleted
	UserPermanentlyInaccessible
)

func (s UserState) String() string {
	switch s {
	case UserActive:
		return "active"
	case UserDeleted:
		return "deleted"
	case UserPermanentlyInaccessible:
		return "permanently_inaccessible"
	default:
		return "unknown"
	}
}

var (
	ErrUserNotDeleted     = errors.New("el usuario no está eliminado")
	ErrRestoreWindowEnded = errors.New("el plazo de restauración venció")
)

// User representa un cliente autenticado por teléfono. Nunca se borra físicamente: se marca IsDeleted.
type User struct {
	ID                     string
	PhoneNumber            string // único entre usuarios no eliminados
	Name                   string
	Role                   string
	AllowSharingData       bool
	AllowPushNotifications bool
	AllowPushEmails        bool
	AllowPushSms           bool
	CreatedAt              time.Time
	IsDeleted              bool
	DeletedAt              *time.Time
}

// CanRestore predicado puro: la cuenta está eliminada y deletedAt + window > now.
func CanRestore(now time.Time, deletedAt *time.Time, window time.Duration) bool {
	if deletedAt == nil {
		return false
	}
	return deletedAt.Add(window).After(now)
}

// State devuelve el estado del usuario en el instante now.
func (u *User) State(now time.Time, window time.Duration) UserState {
	if !u.IsDeleted {
		return UserActive
	}
	if CanRestore(now, u.DeletedAt, window) {
		return UserDeleted
	}
	return UserPermanentlyInaccessible
}

// CanRestore indica si la cuenta eliminada aún puede restaurarse.
func (u *User) CanRestore(now time.Time, window time.Duration) bool {
	return u.IsDeleted && CanRestore(now, u.DeletedAt, window)
}

// SoftDelete marca la cuenta como eliminada en now.
func (u *User) SoftDelete(now time.Time) {
	u.IsDeleted = true
	u.DeletedAt = &now
}

// Restore vuelve la cuenta a Active si sigue dentro del plazo.
func (u *User) Restore(now time.Time, window time.Duration) error {
	switch u.State(now, window) {
	case UserActive:
		return ErrUserNotDeleted
	case UserPermanentlyInaccessible:
		return ErrRestoreWindowEnded
	}
	u.IsDeleted = false
	u.DeletedAt = nil
	return nil
}
