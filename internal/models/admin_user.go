package models

import "time"

// AdminUser is an operator account for the admin surface. Passwords are
// bcrypt hashes; repeated failures set LockedUntil.
type AdminUser struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Username      string     `gorm:"uniqueIndex;not null;size:64" json:"username"`
	PasswordHash  string     `gorm:"not null;size:128" json:"-"`
	Email         string     `gorm:"size:255" json:"email,omitempty"`
	IsActive      bool       `gorm:"default:true" json:"is_active"`
	LoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil   *time.Time `json:"-"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}

// LoginRequest is the inbound payload for POST /api/admin/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Password string `json:"password" validate:"required,min=1,max=128"`
}

// LoginResponse carries the session token issued on successful login.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
	Username  string `json:"username"`
}
