package models

import "time"

// ResponseCache is the durable tier of the answer cache, keyed by the
// query fingerprint. Entries past ExpiresAt are treated as absent.
type ResponseCache struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	QueryHash    string    `gorm:"uniqueIndex;not null;size:64" json:"query_hash"`
	Product      string    `gorm:"index;not null;size:32" json:"product"`
	ResponseText string    `gorm:"type:text;not null" json:"response_text"`
	Confidence   float64   `gorm:"type:decimal(4,3)" json:"confidence"`
	HitCount     int       `gorm:"default:0" json:"hit_count"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	ExpiresAt    time.Time `gorm:"index;not null" json:"expires_at"`
}

func (ResponseCache) TableName() string {
	return "response_cache"
}

// CachedAnswer is the cache read model handed back to the pipeline.
type CachedAnswer struct {
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence"`
}
