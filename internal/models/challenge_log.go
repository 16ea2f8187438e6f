package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChallengeLog is one day's proof entry for a challenge. Rows are
// append-only: they are never updated or deleted individually, only
// removed when the owning challenge is deleted.
type ChallengeLog struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	ChallengeID     string    `gorm:"index;size:36;not null" json:"challengeId"`
	DailyReflection string    `gorm:"size:2000" json:"dailyReflection,omitempty"`
	URL             string    `gorm:"size:500;not null" json:"url"`
	CreatedAt       time.Time `json:"createdAt"`
}

// TableName specifies the table name for ChallengeLog model
func (ChallengeLog) TableName() string {
	return "challenge_logs"
}

// BeforeCreate assigns a UUID primary key if none is set
func (l *ChallengeLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}
