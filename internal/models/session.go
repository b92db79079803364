package models

import "time"

// Session stores a login session. The token's jti points at ID.
type Session struct {
	ID        string    `gorm:"primaryKey;size:64"`
	UserID    uint      `gorm:"index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	Revoked   bool      `gorm:"index;not null"`
	// DateOffsetDays shifts "today" for this session. Only admins may set it.
	DateOffsetDays int `gorm:"not null;default:0"`
	CreatedAt      time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
