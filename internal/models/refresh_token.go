package models

import "time"

// RefreshToken is one live long-lived credential for a user. A user holds
// zero or more at once, one per signed-in device.
type RefreshToken struct {
	ID        uint64    `gorm:"primarykey" json:"-"`
	UserID    uint64    `gorm:"index;not null" json:"-"`
	Token     string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	Device    string    `gorm:"type:varchar(64);not null;default:'web'" json:"device"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
