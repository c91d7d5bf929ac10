package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"shuttleshop/internal/models"
	"shuttleshop/internal/repositories"
)

func authService(t *testing.T) *AuthService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return NewAuthService(repositories.NewGORMUserRepository(db), "test-secret", time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := authService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "player@example.com", "strongpassword", "Lin Dan")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "strongpassword", user.PasswordHash)

	token, logged, err := svc.Login(ctx, "player@example.com", "strongpassword")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := authService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "player@example.com", "strongpassword", "Lin Dan")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "player@example.com", "otherpassword", "Impostor")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := authService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "player@example.com", "strongpassword", "Lin Dan")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "player@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "strongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseTokenGarbage(t *testing.T) {
	svc := authService(t)
	_, err := svc.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
