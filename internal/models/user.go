package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered user
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Username  string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`

	// Relations (never serialized; hash material must not leave the server)
	Credentials []Credential `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Challenges  []Challenge  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID primary key if none is set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// Credential stores the bcrypt hash for a user. The schema allows several
// rows per user; only the first is consulted at login.
type Credential struct {
	ID           string    `gorm:"primaryKey;size:36" json:"-"`
	UserID       string    `gorm:"index;size:36;not null" json:"-"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// TableName specifies the table name for Credential model
func (Credential) TableName() string {
	return "credentials"
}

// BeforeCreate assigns a UUID primary key if none is set
func (c *Credential) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
