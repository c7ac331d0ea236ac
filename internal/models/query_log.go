package models

import "time"

// QueryLog records one pipeline invocation. Rows are append-only; the
// core never updates or deletes them.
type QueryLog struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Product        string    `gorm:"index;not null;size:32" json:"product"`
	QueryText      string    `gorm:"type:text;not null" json:"query_text"`
	QueryLength    int       `gorm:"not null" json:"query_length"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	Success        bool      `gorm:"index" json:"success"`
	ErrorMessage   string    `gorm:"type:text" json:"error_message,omitempty"`
	QueryHash      string    `gorm:"index;size:64" json:"query_hash"`
	IPAddress      string    `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent      string    `gorm:"size:255" json:"user_agent,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (QueryLog) TableName() string {
	return "query_logs"
}

// RequesterMeta carries the inbound request metadata attached to log entries.
type RequesterMeta struct {
	IPAddress string
	UserAgent string
}
