package models

import "time"

// Feedback stores a user's verdict on an answer, optionally tied to a
// query log entry.
type Feedback struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	QueryID      *uint     `gorm:"index" json:"query_id,omitempty"`
	QueryHash    string    `gorm:"index;size:64" json:"query_hash,omitempty"`
	Helpful      bool      `json:"helpful"`
	FeedbackText string    `gorm:"type:text" json:"feedback_text,omitempty"`
	IPAddress    string    `gorm:"size:45" json:"ip_address,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Feedback) TableName() string {
	return "feedback"
}

// FeedbackRequest is the inbound payload for POST /api/feedback.
type FeedbackRequest struct {
	QueryID  *uint  `json:"query_id,omitempty"`
	Helpful  *bool  `json:"helpful" validate:"required"`
	Feedback string `json:"feedback,omitempty" validate:"max=4000"`
}
