package models

import "time"

// TelegramLink binds a Telegram account to a Linos user. At most one row
// exists per user; a non-empty TelegramID must not appear on two rows
// (enforced by a partial unique index in the Postgres schema).
//
// SyncCode and CodeExpiresAt are set together on issuance and cleared
// together on consumption; a non-nil SyncedAt implies SyncCode is nil.
type TelegramLink struct {
	Base
	UserID        string     `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	TelegramID    string     `gorm:"size:64;index" json:"telegram_id,omitempty"`
	FirstName     string     `gorm:"size:100" json:"first_name,omitempty"`
	LastName      string     `gorm:"size:100" json:"last_name,omitempty"`
	Username      string     `gorm:"size:100" json:"username,omitempty"`
	SyncCode      *string    `gorm:"size:12;index" json:"-"`
	CodeExpiresAt *time.Time `json:"-"`
	SyncedAt      *time.Time `json:"synced_at,omitempty"`
	User          User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
