package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a single ledger entry for a user.
// Installment purchases produce one row per installment, dated one
// month apart, with InstallmentSeq/InstallmentOf recording the split.
type Transaction struct {
	Base
	UserID         string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Type           TransactionType `gorm:"not null" json:"type"`
	Description    string          `gorm:"not null" json:"description"`
	Value          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"value"`
	Category       string          `json:"category,omitempty"`
	PaymentMethod  string          `json:"payment_method,omitempty"`
	Date           time.Time       `gorm:"not null;index" json:"date"`
	Installment    bool            `gorm:"default:false" json:"installment"`
	InstallmentSeq int             `json:"installment_seq,omitempty"`
	InstallmentOf  int             `json:"installment_of,omitempty"`
}
