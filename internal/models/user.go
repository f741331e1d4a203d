package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents the user model in the database
type User struct {
	Base
	Email            string           `gorm:"uniqueIndex;not null" json:"email"`
	Password         string           `gorm:"not null" json:"-"`
	Username         string           `gorm:"size:100" json:"username"`
	SpendGoal        *decimal.Decimal `gorm:"type:decimal(12,2)" json:"spend_goal,omitempty"`
	IsActive         bool             `gorm:"default:true" json:"is_active"`
	RefreshTokenHash string           `gorm:"size:64" json:"-"`
	LastLoginAt      *time.Time       `json:"last_login_at,omitempty"`
	Transactions     []Transaction    `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
	Favorites        []Favorite       `gorm:"foreignKey:UserID" json:"favorites,omitempty"`
	Goals            []Goal           `gorm:"foreignKey:UserID" json:"goals,omitempty"`
}
