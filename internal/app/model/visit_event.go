package model

import "time"

// VisitEvent records one public view of a shared card
type VisitEvent struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Slug      string    `json:"slug" gorm:"size:16;index"`
	CardID    string    `json:"card_id" gorm:"size:64;index"`
	IP        string    `json:"ip" gorm:"size:45"`
	UserAgent string    `json:"user_agent" gorm:"type:text"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	VisitStreamName     = "CARD_VISITS"
	VisitStreamSubject  = "cards.visits"
	VisitConsumerName   = "visit-logger"
	VisitStreamMaxBytes = 1024 * 1024 * 100 // 100MB
)
