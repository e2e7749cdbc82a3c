package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_RoundTrip(t *testing.T) {
	iss, err := NewIssuer("secreto", "MyAuthServer", "MyAuthClient", time.Hour)
	require.NoError(t, err)

	token, exp, err := iss.Generate(Identity{UserID: "u-1", Name: "+573001112233", Phone: "+573001112233", Role: "customer"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := iss.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "+573001112233", claims.Phone)
	assert.Equal(t, "customer", claims.Role)
}

func TestIssuer_RejectsOtherAudience(t *testing.T) {
	a, _ := NewIssuer("secreto", "MyAuthServer", "MyAuthClient", time.Hour)
	b, _ := NewIssuer("secreto", "MyAuthServer", "OtroCliente", time.Hour)

	token, _, err := a.Generate(Identity{UserID: "u-1"})
	require.NoError(t, err)

	_, err = b.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_RejectsExpired(t *testing.T) {
	iss, _ := NewIssuer("secreto", "MyAuthServer", "MyAuthClient", time.Minute)
	iss.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := iss.Generate(Identity{UserID: "u-1"})
	require.NoError(t, err)

	iss.now = time.Now
	_, err = iss.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_RejectsWrongSecret(t *testing.T) {
	a, _ := NewIssuer("uno", "MyAuthServer", "MyAuthClient", time.Hour)
	b, _ := NewIssuer("dos", "MyAuthServer", "MyAuthClient", time.Hour)
	token, _, _ := a.Generate(Identity{UserID: "u-1"})

	_, err := b.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewIssuer_EmptySecret(t *testing.T) {
	_, err := NewIssuer("", "i", "a", time.Hour)
	assert.Error(t, err)
}
