package auth_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/myshop-api/internal/application/auth"
	"github.com/jhoicas/myshop-api/internal/application/dto"
	"github.com/jhoicas/myshop-api/internal/application/usecase"
	"github.com/jhoicas/myshop-api/internal/domain"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
	"github.com/jhoicas/myshop-api/internal/testutil/memrepo"
	"github.com/jhoicas/myshop-api/pkg/jwt"
	"github.com/jhoicas/myshop-api/pkg/logger"
)

const phone = "+573001112233"

var start = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type mapStore map[string]auth.PendingCode

func (s mapStore) Put(_ context.Context, p string, c auth.PendingCode) error { s[p] = c; return nil }
func (s mapStore) Get(_ context.Context, p string) (*auth.PendingCode, error) {
	if c, ok := s[p]; ok {
		return &c, nil
	}
	return nil, nil
}
func (s mapStore) Delete(_ context.Context, p string) error { delete(s, p); return nil }

type outbox map[string]string

func (o outbox) Send(_ context.Context, p, code string) error { o[p] = code; return nil }

type fixedCode string

func (f fixedCode) Generate() (string, error) { return string(f), nil }

type denyAll struct{}

func (denyAll) Allow(string) bool { return false }

type fixture struct {
	uc     *auth.UseCase
	users  *memrepo.Users
	codes  mapStore
	sent   outbox
	tokens *jwt.Issuer
	clock  time.Time
}

func newFixture(t *testing.T, seed ...*entity.User) *fixture {
	t.Helper()
	tokens, err := jwt.NewIssuer("secreto", "MyAuthServer", "MyAuthClient", time.Hour)
	require.NoError(t, err)

	f := &fixture{users: memrepo.NewUsers(seed...), codes: mapStore{}, sent: outbox{}, tokens: tokens, clock: start}
	clock := func() time.Time { return f.clock }
	users := usecase.NewUserUseCase(f.users, entity.DefaultRestoreWindow, logger.Nop()).WithClock(clock)
	f.uc = auth.NewUseCase(auth.Deps{
		Users:     f.users,
		Restorer:  users,
		Codes:     f.codes,
		Sender:    f.sent,
		Generator: fixedCode("123456"),
		Tokens:    tokens,
		UoW:       &memrepo.UnitOfWork{},
	}, auth.Config{CodeTTL: 5 * time.Minute}, logger.Nop()).WithClock(clock)
	return f
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok, "se esperaba *AppError, llegó %v", err)
	return appErr.Code
}

func deletedAgo(days int) *entity.User {
	at := start.Add(-time.Duration(days) * 24 * time.Hour)
	return &entity.User{ID: "u1", PhoneNumber: phone, Name: "Ana", Role: entity.RoleCustomer, IsDeleted: true, DeletedAt: &at}
}

func TestLoginStart_NewUser(t *testing.T) {
	f := newFixture(t)
	out, err := f.uc.LoginStart(context.Background(), dto.LoginStartRequest{PhoneNumber: "  " + phone + " "})
	require.NoError(t, err)

	assert.Equal(t, phone, out.PhoneNumber)
	assert.True(t, out.IsNewUser)
	assert.False(t, out.IsDeletedUser)
	assert.Equal(t, "123456", f.sent[phone])

	pending := f.codes[phone]
	assert.Equal(t, start.Add(5*time.Minute), pending.ExpiresAt)
	assert.NotContains(t, string(pending.Hash), "123456")
}

func TestLoginStart_DeletedUser(t *testing.T) {
	f := newFixture(t, deletedAgo(3))
	out, err := f.uc.LoginStart(context.Background(), dto.LoginStartRequest{PhoneNumber: phone})
	require.NoError(t, err)
	assert.False(t, out.IsNewUser)
	assert.True(t, out.IsDeletedUser)
}

func TestLoginStart_EmptyPhone(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.LoginStart(context.Background(), dto.LoginStartRequest{PhoneNumber: "  "})
	assert.Equal(t, "AUTH:00001", appCode(t, err))
}

func TestLoginStart_Throttled(t *testing.T) {
	f := newFixture(t)
	f.uc.Throttle = denyAll{}
	_, err := f.uc.LoginStart(context.Background(), dto.LoginStartRequest{PhoneNumber: phone})
	assert.Equal(t, "AUTH:00007", appCode(t, err))
	assert.Empty(t, f.sent)
}

func TestVerify_CreatesNewUserAndIssuesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.LoginStart(ctx, dto.LoginStartRequest{PhoneNumber: phone})
	require.NoError(t, err)

	out, err := f.uc.VerifyCode(ctx, dto.VerifyCodeRequest{PhoneNumber: phone, Code: "123456"})
	require.NoError(t, err)
	assert.True(t, out.IsNewUser)
	assert.False(t, out.IsRestored)
	assert.Equal(t, phone, out.UserName)
	assert.NotContains(t, f.codes, phone, "el código se consume")

	claims, err := f.tokens.Parse(out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.UserID, claims.UserID)
	assert.Equal(t, phone, claims.Phone)
	assert.Equal(t, entity.RoleCustomer, claims.Role)

	exists, err := f.users.ExistsByPhone(ctx, phone)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestVerify_ExistingUser(t *testing.T) {
	f := newFixture(t, &entity.User{ID: "u1", PhoneNumber: phone, Name: "Ana", Role: entity.RoleAdmin})
	ctx := context.Background()
	_, err := f.uc.LoginStart(ctx, dto.LoginStartRequest{PhoneNumber: phone})
	require.NoError(t, err)

	out, err := f.uc.VerifyCode(ctx, dto.VerifyCodeRequest{PhoneNumber: phone, Code: "123456"})
	require.NoError(t, err)
	assert.Equal(t, "u1", out.UserID)
	assert.False(t, out.IsNewUser)

	claims, err := f.tokens.Parse(out.Token)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
}

func TestVerify_NoPendingCode(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.VerifyCode(context.Background(), dto.VerifyCodeRequest{PhoneNumber: phone, Code: "123456"})
	assert.Equal(t, "AUTH:00003", appCode(t, err))
}

func TestVerify_ExpiredCodeIsEvicted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.LoginStart(ctx, dto.LoginStartRequest{PhoneNumber: phone})
	require.NoError(t, err)

	f.clock = start.Add(5*time.Minute + time.Second)
	_, err = f.uc.VerifyCode(ctx, dto.VerifyCodeRequest{PhoneNumber: phone, Code: "123456"})
	assert.Equal(t, "AUTH:00004", appCode(t, err))
	assert.NotContains(t, f.codes, phone)

	_, err = f.uc.VerifyCode(ctx, dto.VerifyCodeRequest{PhoneNumber: phone, Code: "123456"})
	assert.Equal(t, "AUTH:00003", appCode(t, err))
}

func TestVerify_MismatchKeepsCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.LoginStart(ctx, dto.LoginStartRequest{PhoneNumber: phone})
	require.NoError(t, err)

	_, err = f.uc.VerifyCode(ctx, dto.VerifyCodeRequest{PhoneNumber: phone, Code: "654321"})
	assert.Equal(t, "AUTH:00005", appCode(t, err))
	assert.Contains(t, f.codes, phone)
}

func TestVerify_ReissueOverwritesPendingCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.LoginStart(ctx, dto.LoginStartRequest{PhoneNumber: phone})
	require.NoError(t, err)

	f.clock = start.Add(4 * time.Minute)
	_, err = f.uc.LoginStart(ctx, dto.LoginStartRequest{PhoneNumber: phone})
	require.NoError(t, err)

	f.clock = start.Add(6 * time.Minute)
	_, err = f.uc.VerifyCode(ctx, dto.VerifyCodeRequest{PhoneNumber: phone, Code: "123456"})
	require.NoError(t, err)
}

func TestVerify_RestoresWithinWindow(t *testing.T) {
	f := newFixture(t, deletedAgo(10))
	ctx := context.Background()
	_, err := f.uc.LoginStart(ctx, dto.LoginStartRequest{PhoneNumber: phone})
	require.NoError(t, err)

	out, err := f.uc.VerifyCode(ctx, dto.VerifyCodeRequest{PhoneNumber: phone, Code: "123456"})
	require.NoError(t, err)
	assert.True(t, out.IsRestored)
	assert.False(t, out.IsNewUser)
	assert.Equal(t, "u1", out.UserID)

	raw, _ := f.users.Raw("u1")
	assert.False(t, raw.IsDeleted)
	assert.Nil(t, raw.DeletedAt)
}

func TestVerify_RejectsBeyondWindow(t *testing.T) {
	f := newFixture(t, deletedAgo(31))
	ctx := context.Background()
	_, err := f.uc.LoginStart(ctx, dto.LoginStartRequest{PhoneNumber: phone})
	require.NoError(t, err)

	out, err := f.uc.VerifyCode(ctx, dto.VerifyCodeRequest{PhoneNumber: phone, Code: "123456"})
	assert.Nil(t, out)
	assert.Equal(t, "AUTH:00006", appCode(t, err))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	raw, _ := f.users.Raw("u1")
	assert.True(t, raw.IsDeleted)
}

func TestRandomCodeGenerator_SixDigits(t *testing.T) {
	re := regexp.MustCompile(`^[1-9][0-9]{5}$`)
	for i := 0; i < 50; i++ {
		code, err := auth.RandomCodeGenerator{}.Generate()
		require.NoError(t, err)
		assert.Regexp(t, re, code)
	}
}

func TestPendingCode(t *testing.T) {
	p, err := auth.NewPendingCode("123456", start)
	require.NoError(t, err)
	assert.True(t, p.Matches("123456"))
	assert.False(t, p.Matches("123457"))
	assert.False(t, p.Expired(start.Add(-time.Second)))
	assert.True(t, p.Expired(start))
}
