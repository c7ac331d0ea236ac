package admin

import (
	"context"
	"testing"
	"time"

	"github.com/stratus-tools/stratus-advisor/internal/models"
	"github.com/stratus-tools/stratus-advisor/internal/services/feedback"
	"github.com/stratus-tools/stratus-advisor/internal/services/querylog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type capturedKeys struct {
	keys []string
}

func (c *capturedKeys) SetAPIKey(key string) {
	c.keys = append(c.keys, key)
}

func newTestService(t *testing.T, cfg models.AdminConfig) (*Service, *gorm.DB, *capturedKeys) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.AdminUser{}, &models.APIConfig{},
		&models.QueryLog{}, &models.Feedback{},
	))

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "test-secret"
	}

	keys := &capturedKeys{}
	svc := NewService(db, cfg, querylog.NewService(db), feedback.NewService(db), keys)
	return svc, db, keys
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newTestService(t, models.AdminConfig{
		BootstrapUsername: "admin",
		BootstrapPassword: "hunter22",
	})

	require.NoError(t, svc.Bootstrap(ctx))

	var user models.AdminUser
	require.NoError(t, db.Where("username = ?", "admin").First(&user).Error)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "hunter22", user.PasswordHash)

	// A second bootstrap is a no-op.
	require.NoError(t, svc.Bootstrap(ctx))
	var count int64
	require.NoError(t, db.Model(&models.AdminUser{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, models.AdminConfig{
		BootstrapUsername: "admin",
		BootstrapPassword: "hunter22",
	})
	require.NoError(t, svc.Bootstrap(ctx))

	t.Run("valid credentials issue a token", func(t *testing.T) {
		resp, appErr := svc.Login(ctx, models.LoginRequest{Username: "admin", Password: "hunter22"})
		require.Nil(t, appErr)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "admin", resp.Username)
		assert.Equal(t, int64((24 * time.Hour).Seconds()), resp.ExpiresIn)

		subject, err := svc.VerifyToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "admin", subject)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		_, appErr := svc.Login(ctx, models.LoginRequest{Username: "admin", Password: "wrong"})
		require.NotNil(t, appErr)
		assert.Equal(t, models.ErrorTypeAuthentication, appErr.Type)
	})

	t.Run("unknown username is rejected with the same message", func(t *testing.T) {
		_, appErr := svc.Login(ctx, models.LoginRequest{Username: "ghost", Password: "hunter22"})
		require.NotNil(t, appErr)
		assert.Equal(t, models.ErrorTypeAuthentication, appErr.Type)
	})
}

func TestLoginLockout(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newTestService(t, models.AdminConfig{
		BootstrapUsername: "admin",
		BootstrapPassword: "hunter22",
		MaxLoginAttempts:  3,
		LockoutMinutes:    30,
	})
	require.NoError(t, svc.Bootstrap(ctx))

	for i := 0; i < 3; i++ {
		_, appErr := svc.Login(ctx, models.LoginRequest{Username: "admin", Password: "wrong"})
		require.NotNil(t, appErr)
	}

	var user models.AdminUser
	require.NoError(t, db.Where("username = ?", "admin").First(&user).Error)
	require.NotNil(t, user.LockedUntil)
	assert.True(t, user.LockedUntil.After(time.Now()))

	// Even the right password is rejected while locked.
	_, appErr := svc.Login(ctx, models.LoginRequest{Username: "admin", Password: "hunter22"})
	require.NotNil(t, appErr)
	assert.Contains(t, appErr.Message, "locked")

	// An expired lock clears on the next successful login.
	past := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&user).Update("locked_until", past).Error)

	resp, appErr := svc.Login(ctx, models.LoginRequest{Username: "admin", Password: "hunter22"})
	require.Nil(t, appErr)
	assert.NotEmpty(t, resp.Token)

	require.NoError(t, db.Where("username = ?", "admin").First(&user).Error)
	assert.Zero(t, user.LoginAttempts)
	assert.Nil(t, user.LockedUntil)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc, _, _ := newTestService(t, models.AdminConfig{})

	_, err := svc.VerifyToken("not-a-token")
	assert.Error(t, err)

	other, _, _ := newTestService(t, models.AdminConfig{JWTSecret: "different-secret"})
	token, err := other.issueToken("admin", time.Hour)
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.Error(t, err)
}

func TestConfigRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _, keys := newTestService(t, models.AdminConfig{})

	require.Nil(t, svc.SetConfig(ctx, "claude_api_key", "sk-ant-secret123", "admin"))
	require.Nil(t, svc.SetConfig(ctx, "maintenance_note", "rate tables refresh Friday", "admin"))

	// Setting the API key swaps it on the live client.
	assert.Equal(t, []string{"sk-ant-secret123"}, keys.keys)

	entries, err := svc.GetConfig(ctx)
	require.NoError(t, err)

	assert.Equal(t, "sk-ant-***", entries["claude_api_key"].Value)
	assert.Equal(t, "rate tables refresh Friday", entries["maintenance_note"].Value)

	// Upserting the same key keeps one row.
	require.Nil(t, svc.SetConfig(ctx, "maintenance_note", "refresh done", "admin"))
	entries, err = svc.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "refresh done", entries["maintenance_note"].Value)
}

func TestSetConfigRejectsEmptyKey(t *testing.T) {
	svc, _, _ := newTestService(t, models.AdminConfig{})

	appErr := svc.SetConfig(context.Background(), "  ", "value", "admin")
	require.NotNil(t, appErr)
	assert.Equal(t, models.ErrorTypeValidation, appErr.Type)
}

func TestLoadStoredAPIKey(t *testing.T) {
	ctx := context.Background()
	svc, db, keys := newTestService(t, models.AdminConfig{})

	// Nothing stored: no key applied.
	svc.LoadStoredAPIKey(ctx)
	assert.Empty(t, keys.keys)

	require.NoError(t, db.Create(&models.APIConfig{
		ConfigKey:   "claude_api_key",
		ConfigValue: "sk-ant-persisted",
		IsSecret:    true,
	}).Error)

	svc.LoadStoredAPIKey(ctx)
	assert.Equal(t, []string{"sk-ant-persisted"}, keys.keys)
}
