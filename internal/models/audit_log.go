package models

import "time"

// AuditLog records mutating API calls. Path and action are stored encrypted.
type AuditLog struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    *uint  `gorm:"index"`
	PathEnc   string `gorm:"size:1024"`
	Method    string `gorm:"size:16"`
	ActionEnc string `gorm:"size:4096"`
	Status    int
	IP        string `gorm:"size:64"`
	UserAgent string `gorm:"size:255"`
	CreatedAt time.Time `gorm:"index"`
}
