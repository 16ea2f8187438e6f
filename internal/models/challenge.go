package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DurationUnit is the calendar granularity multiplying DurationValue
type DurationUnit string

const (
	DurationDays   DurationUnit = "Days"
	DurationWeeks  DurationUnit = "Weeks"
	DurationMonths DurationUnit = "Months"
	DurationYears  DurationUnit = "Years"
)

// Valid reports whether the unit is one of the supported granularities
func (u DurationUnit) Valid() bool {
	switch u {
	case DurationDays, DurationWeeks, DurationMonths, DurationYears:
		return true
	}
	return false
}

// ChallengeStatus represents the lifecycle state of a challenge
type ChallengeStatus string

const (
	StatusSetToHappen ChallengeStatus = "SetToHappen"
	StatusOngoing     ChallengeStatus = "Ongoing"
	StatusCompleted   ChallengeStatus = "Completed"
	StatusStalled     ChallengeStatus = "Stalled"
)

// Challenge represents a user-owned habit challenge.
// Invariant: IsPaused implies Status == Stalled.
type Challenge struct {
	ID              string          `gorm:"primaryKey;size:36" json:"id"`
	UserID          string          `gorm:"index;size:36;not null" json:"userId"`
	Name            string          `gorm:"size:100;not null" json:"name"`
	DurationValue   int             `gorm:"not null" json:"durationValue"`
	DurationUnit    DurationUnit    `gorm:"size:10;not null" json:"durationUnit"`
	StartDate       time.Time       `gorm:"not null" json:"startDate"`
	LastUpdatedDate time.Time       `gorm:"not null" json:"lastUpdatedDate"`
	ReminderTime    string          `gorm:"size:5;not null" json:"reminderTime"`
	Description     string          `gorm:"size:1000" json:"description,omitempty"`
	IsPaused        bool            `gorm:"default:false" json:"isPaused"`
	Status          ChallengeStatus `gorm:"size:20;not null;default:'SetToHappen'" json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"-"`

	// Relations
	Logs []ChallengeLog `gorm:"foreignKey:ChallengeID;constraint:OnDelete:CASCADE" json:"logs,omitempty"`
}

// TableName specifies the table name for Challenge model
func (Challenge) TableName() string {
	return "challenges"
}

// BeforeCreate assigns a UUID primary key if none is set
func (c *Challenge) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// EndDate returns the instant the challenge duration elapses. Months and
// years use calendar arithmetic, not fixed-length approximations.
func (c *Challenge) EndDate() time.Time {
	switch c.DurationUnit {
	case DurationWeeks:
		return c.StartDate.AddDate(0, 0, 7*c.DurationValue)
	case DurationMonths:
		return c.StartDate.AddDate(0, c.DurationValue, 0)
	case DurationYears:
		return c.StartDate.AddDate(c.DurationValue, 0, 0)
	default:
		return c.StartDate.AddDate(0, 0, c.DurationValue)
	}
}
