package models

import "time"

// APIConfig is a key/value row of runtime-editable configuration.
type APIConfig struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ConfigKey   string    `gorm:"uniqueIndex;not null;size:64" json:"config_key"`
	ConfigValue string    `gorm:"type:text" json:"config_value"`
	Description string    `gorm:"size:255" json:"description,omitempty"`
	IsSecret    bool      `gorm:"default:false" json:"is_secret"`
	UpdatedBy   string    `gorm:"size:64" json:"updated_by,omitempty"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (APIConfig) TableName() string {
	return "api_config"
}

// ConfigEntry is the masked view of an APIConfig row returned to admins.
type ConfigEntry struct {
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}
