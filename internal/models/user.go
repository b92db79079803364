package models

import "time"

// User represents an application user. Each user owns exactly one Account.
type User struct {
	ID           uint      `gorm:"primaryKey"`
	Email        string    `gorm:"size:120;uniqueIndex;not null"`
	Name         string    `gorm:"size:100;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	FailedLoginAttempts int        `gorm:"default:0"`
	LockedUntil         *time.Time `gorm:"index"`
	LastLoginAt         *time.Time
	LastLoginIP         string `gorm:"size:64"`

	// non-nil while the account sits in the 7 day deletion buffer
	DeletedAt           *time.Time `gorm:"index"`
	DeletePermanentlyAt *time.Time
}
