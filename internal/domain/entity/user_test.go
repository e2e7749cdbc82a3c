package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/myshop-api/internal/domain/entity"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func deletedUser(ago time.Duration) *entity.User {
	u := &entity.User{ID: "u-1", PhoneNumber: "+70000000000"}
	u.SoftDelete(now.Add(-ago))
	return u
}

func TestUserState(t *testing.T) {
	active := &entity.User{}
	assert.Equal(t, entity.UserActive, active.State(now, entity.DefaultRestoreWindow))
	assert.Equal(t, entity.UserDeleted, deletedUser(10*24*time.Hour).State(now, entity.DefaultRestoreWindow))
	assert.Equal(t, entity.UserPermanentlyInaccessible, deletedUser(31*24*time.Hour).State(now, entity.DefaultRestoreWindow))
}

func TestCanRestore_LimiteExacto(t *testing.T) {
	// deletedAt + 30 días == now no es restaurable (la comparación es estricta).
	exact := now.Add(-entity.DefaultRestoreWindow)
	assert.False(t, entity.CanRestore(now, &exact, entity.DefaultRestoreWindow))
	assert.False(t, entity.CanRestore(now, nil, entity.DefaultRestoreWindow))
}

func TestRestore_DentroDelPlazo(t *testing.T) {
	u := deletedUser(10 * 24 * time.Hour)
	require.NoError(t, u.Restore(now, entity.DefaultRestoreWindow))
	assert.False(t, u.IsDeleted)
	assert.Nil(t, u.DeletedAt)
}

func TestRestore_FueraDelPlazo(t *testing.T) {
	u := deletedUser(31 * 24 * time.Hour)
	assert.ErrorIs(t, u.Restore(now, entity.DefaultRestoreWindow), entity.ErrRestoreWindowEnded)
	assert.True(t, u.IsDeleted)
}

func TestRestore_UsuarioActivo(t *testing.T) {
	u := &entity.User{}
	assert.ErrorIs(t, u.Restore(now, entity.DefaultRestoreWindow), entity.ErrUserNotDeleted)
}
