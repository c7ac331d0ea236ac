// Package admin implements the operator surface: password login with
// lockout, JWT session tokens, runtime configuration rows and the
// analytics rollup.
package admin

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/stratus-tools/stratus-advisor/internal/models"
	"github.com/stratus-tools/stratus-advisor/internal/services/feedback"
	"github.com/stratus-tools/stratus-advisor/internal/services/querylog"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KeySetter receives API key updates made through the config surface.
type KeySetter interface {
	SetAPIKey(key string)
}

// Service implements admin authentication and configuration.
type Service struct {
	db       *gorm.DB
	cfg      models.AdminConfig
	logs     *querylog.Service
	feedback *feedback.Service
	keys     KeySetter
}

func NewService(db *gorm.DB, cfg models.AdminConfig, logs *querylog.Service, fb *feedback.Service, keys KeySetter) *Service {
	return &Service{
		db:       db,
		cfg:      cfg,
		logs:     logs,
		feedback: fb,
		keys:     keys,
	}
}

// claudeAPIKeyConfig is the config row that carries the runtime API key.
const claudeAPIKeyConfig = "claude_api_key"

// Bootstrap ensures the configured admin account exists. It never
// overwrites an existing account's password.
func (s *Service) Bootstrap(ctx context.Context) error {
	username := s.cfg.BootstrapUsername
	password := s.cfg.BootstrapPassword
	if username == "" || password == "" {
		fiberlog.Warn("admin: bootstrap credentials not configured, skipping admin account creation")
		return nil
	}

	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.AdminUser{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := models.AdminUser{
		Username:     username,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return err
	}
	fiberlog.Infof("admin: bootstrapped admin account %s", username)
	return nil
}

// Login verifies credentials and issues a session token. Failed attempts
// count toward lockout; a success resets the counter.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, *models.AppError) {
	var user models.AdminUser
	err := s.db.WithContext(ctx).
		Where("username = ? AND is_active = ?", req.Username, true).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Burn a bcrypt comparison so unknown usernames take as
			// long as wrong passwords.
			_ = bcrypt.CompareHashAndPassword(
				[]byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"),
				[]byte(req.Password))
			return nil, models.NewAuthenticationError("Invalid username or password")
		}
		return nil, models.NewInternalError("Login failed", err)
	}

	now := time.Now()
	if user.LockedUntil != nil && user.LockedUntil.After(now) {
		return nil, models.NewAuthenticationError("Account is temporarily locked. Try again later.")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.recordFailedAttempt(ctx, &user)
		return nil, models.NewAuthenticationError("Invalid username or password")
	}

	updates := map[string]any{
		"login_attempts": 0,
		"locked_until":   nil,
		"last_login":     now,
	}
	if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		fiberlog.Warnf("admin: failed to reset login attempts for %s: %v", user.Username, err)
	}

	ttl := s.cfg.SessionTTL()
	token, err := s.issueToken(user.Username, ttl)
	if err != nil {
		return nil, models.NewInternalError("Failed to issue session token", err)
	}

	return &models.LoginResponse{
		Token:     token,
		ExpiresIn: int64(ttl.Seconds()),
		Username:  user.Username,
	}, nil
}

func (s *Service) recordFailedAttempt(ctx context.Context, user *models.AdminUser) {
	attempts := user.LoginAttempts + 1
	updates := map[string]any{"login_attempts": attempts}
	if attempts >= s.cfg.AttemptLimit() {
		lockedUntil := time.Now().Add(s.cfg.LockoutDuration())
		updates["locked_until"] = lockedUntil
		fiberlog.Warnf("admin: account %s locked until %s after %d failed attempts",
			user.Username, lockedUntil.Format(time.RFC3339), attempts)
	}
	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		fiberlog.Errorf("admin: failed to record login attempt for %s: %v", user.Username, err)
	}
}

func (s *Service) issueToken(username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// VerifyToken validates a session token and returns the username.
func (s *Service) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			return []byte(s.cfg.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errors.New("invalid token claims")
	}
	return claims.Subject, nil
}

// Analytics assembles the 30-day usage rollup for the admin dashboard.
func (s *Service) Analytics(ctx context.Context) (*models.AnalyticsResponse, error) {
	resp, err := s.logs.Analytics(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := s.feedback.Summary(ctx)
	if err != nil {
		fiberlog.Warnf("admin: feedback summary failed, omitting from analytics: %v", err)
	} else {
		resp.Feedback = summary
	}
	return resp, nil
}

// GetConfig returns all runtime config rows with secret values masked.
func (s *Service) GetConfig(ctx context.Context) (map[string]models.ConfigEntry, error) {
	var rows []models.APIConfig
	if err := s.db.WithContext(ctx).Order("config_key").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]models.ConfigEntry, len(rows))
	for _, row := range rows {
		value := row.ConfigValue
		if row.IsSecret {
			value = maskSecret(value)
		}
		out[row.ConfigKey] = models.ConfigEntry{
			Value:       value,
			Description: row.Description,
		}
	}
	return out, nil
}

// SetConfig upserts a runtime config row. Setting the Claude API key
// also swaps the key on the live client.
func (s *Service) SetConfig(ctx context.Context, key, value, updatedBy string) *models.AppError {
	key = strings.TrimSpace(key)
	if key == "" {
		return models.NewValidationError("Config key is required", nil)
	}

	row := models.APIConfig{
		ConfigKey:   key,
		ConfigValue: value,
		IsSecret:    key == claudeAPIKeyConfig,
		UpdatedBy:   updatedBy,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "config_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"config_value", "is_secret", "updated_by", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return models.NewInternalError("Failed to save configuration", err)
	}

	if key == claudeAPIKeyConfig && s.keys != nil {
		s.keys.SetAPIKey(value)
		fiberlog.Infof("admin: Claude API key updated by %s", updatedBy)
	}
	return nil
}

// LoadStoredAPIKey applies a previously saved API key from the config
// table at startup, taking precedence over the environment.
func (s *Service) LoadStoredAPIKey(ctx context.Context) {
	var row models.APIConfig
	err := s.db.WithContext(ctx).
		Where("config_key = ?", claudeAPIKeyConfig).
		First(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			fiberlog.Warnf("admin: failed to load stored API key: %v", err)
		}
		return
	}
	if row.ConfigValue != "" && s.keys != nil {
		s.keys.SetAPIKey(row.ConfigValue)
		fiberlog.Info("admin: applied stored Claude API key")
	}
}

func maskSecret(value string) string {
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "sk-ant-") {
		return "sk-ant-***"
	}
	if len(value) <= 4 {
		return "***"
	}
	return value[:4] + "***"
}
