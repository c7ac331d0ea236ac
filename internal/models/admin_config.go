package models

import "time"

// AdminConfig holds settings for the admin surface: JWT signing,
// bootstrap credentials and login lockout behavior.
type AdminConfig struct {
	JWTSecret         string `json:"-" yaml:"jwt_secret"`
	TokenTTL          string `json:"token_ttl,omitzero" yaml:"token_ttl"`
	BootstrapUsername string `json:"bootstrap_username,omitzero" yaml:"bootstrap_username"`
	BootstrapPassword string `json:"-" yaml:"bootstrap_password"`
	MaxLoginAttempts  int    `json:"max_login_attempts,omitzero" yaml:"max_login_attempts"`
	LockoutMinutes    int    `json:"lockout_minutes,omitzero" yaml:"lockout_minutes"`
}

// SessionTTL parses the configured token lifetime, defaulting to 24h.
func (c AdminConfig) SessionTTL() time.Duration {
	if c.TokenTTL == "" {
		return 24 * time.Hour
	}
	d, err := time.ParseDuration(c.TokenTTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// AttemptLimit returns the failed-login threshold before lockout.
func (c AdminConfig) AttemptLimit() int {
	if c.MaxLoginAttempts <= 0 {
		return 5
	}
	return c.MaxLoginAttempts
}

// LockoutDuration returns how long an account stays locked.
func (c AdminConfig) LockoutDuration() time.Duration {
	if c.LockoutMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.LockoutMinutes) * time.Minute
}

// RateLimitConfig holds the per-client request limit for the analyze endpoint.
type RateLimitConfig struct {
	Max           int    `json:"max,omitzero" yaml:"max"`
	WindowSeconds int    `json:"window_seconds,omitzero" yaml:"window_seconds"`
	Disabled      bool   `json:"disabled,omitzero" yaml:"disabled"`
	TrustedProxy  string `json:"trusted_proxy,omitzero" yaml:"trusted_proxy"`
}

// Window returns the rate limit window, defaulting to one hour.
func (c RateLimitConfig) Window() time.Duration {
	if c.WindowSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(c.WindowSeconds) * time.Second
}

// Limit returns the max requests per window, defaulting to 100.
func (c RateLimitConfig) Limit() int {
	if c.Max <= 0 {
		return 100
	}
	return c.Max
}
