package models

import "github.com/shopspring/decimal"

// Favorite is a saved entry template the user can post as a
// transaction without retyping it.
type Favorite struct {
	Base
	UserID        string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Type          TransactionType `gorm:"not null" json:"type"`
	Description   string          `gorm:"not null" json:"description"`
	Value         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"value"`
	Category      string          `json:"category,omitempty"`
	PaymentMethod string          `json:"payment_method,omitempty"`
}
