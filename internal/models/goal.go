package models

import "github.com/shopspring/decimal"

// Goal is a savings goal with a target and the amount saved so far.
type Goal struct {
	Base
	UserID       string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name         string          `gorm:"not null" json:"name"`
	GoalValue    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"goal_value"`
	CurrentValue decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"current_value"`
}
