package services

import (
	"context"
	"testing"
	"time"

	"hotel-backoffice/config"
	"hotel-backoffice/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:        "test-secret",
		TokenTTL:         time.Hour,
		MaxLoginAttempts: 5,
		LockDuration:     30 * time.Minute,
	}
}

func TestUserCreateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	u, err := svc.Create(ctx, CreateUserInput{Name: "Ann", Email: "  Ann@Example.COM ", Password: "secret1", Phone: "0812345678"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.Equal(t, models.RoleGuest, u.Role)
	assert.NotEqual(t, "secret1", u.Password)

	_, err = svc.Create(ctx, CreateUserInput{Name: "Dup", Email: "ann@example.com", Password: "secret1"})
	assert.True(t, IsKind(err, KindConflict))

	cases := []CreateUserInput{
		{Name: "", Email: "a@b.co", Password: "secret1"},
		{Name: "X", Email: "not-an-email", Password: "secret1"},
		{Name: "X", Email: "a@b.co", Password: "123"},
		{Name: "X", Email: "a@b.co", Password: "secret1", Phone: "12345"},
		{Name: "X", Email: "a@b.co", Password: "secret1", Role: "owner"},
	}
	for _, in := range cases {
		_, err := svc.Create(ctx, in)
		assert.True(t, IsKind(err, KindValidation), "%+v", in)
	}
}

func TestUserUpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()
	u := seedUser(t, db, "staff@example.com", models.RoleReceptionist)

	name := "Renamed"
	role := models.RoleManager
	inactive := false
	updated, err := svc.Update(ctx, u.ID, UpdateUserInput{Name: &name, Role: &role, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, models.RoleManager, updated.Role)
	assert.False(t, updated.IsActive)

	managers, err := svc.List(ctx, models.RoleManager)
	require.NoError(t, err)
	assert.Len(t, managers, 1)

	require.NoError(t, svc.Delete(ctx, u.ID))
	_, err = svc.Get(ctx, u.ID)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testAuthConfig())
	ctx := context.Background()

	user, err := svc.Register(ctx, CreateUserInput{Name: "Guest", Email: "guest@example.com", Password: "secret1", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.RoleGuest, user.Role)

	res, err := svc.Login(ctx, "GUEST@example.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.NotNil(t, res.User.LastLogin)

	claims, err := svc.ParseToken(res.Token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.Equal(t, models.RoleGuest, claims.Role)

	_, err = svc.ParseToken(res.Token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthService(db, config.AuthConfig{JWTSecret: "different", TokenTTL: time.Hour})
	_, err = other.ParseToken(res.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.True(t, IsKind(err, KindUnauthenticated))
}

func TestLoginLockout(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := NewAuthService(db, testAuthConfig(), WithClock(fixedClock(now)))
	ctx := context.Background()
	_, err := svc.Register(ctx, CreateUserInput{Name: "Guest", Email: "guest@example.com", Password: "secret1"})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := svc.Login(ctx, "guest@example.com", "wrong-pass")
		require.True(t, IsKind(err, KindUnauthenticated), i)
	}

	_, err = svc.Login(ctx, "guest@example.com", "secret1")
	require.True(t, IsKind(err, KindForbidden))
	assert.Contains(t, err.Error(), "account is locked")

	svc.now = fixedClock(now.Add(31 * time.Minute))
	res, err := svc.Login(ctx, "guest@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, 0, res.User.LoginAttempts)
}

func TestLoginInactiveUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testAuthConfig())
	ctx := context.Background()
	u, err := svc.Register(ctx, CreateUserInput{Name: "Guest", Email: "guest@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", u.ID).Update("is_active", false).Error)

	_, err = svc.Login(ctx, "guest@example.com", "secret1")
	assert.True(t, IsKind(err, KindForbidden))
}
