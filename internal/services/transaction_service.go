package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/GustavoLino728/linos-finance/internal/errors"
	"github.com/GustavoLino728/linos-finance/internal/models"
	"github.com/GustavoLino728/linos-finance/internal/pagination"
)

const defaultRecentLimit = 10

// transactionService handles ledger entries and the aggregates derived
// from them (balance, spend-goal progress).
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// CreateTransaction records a ledger entry. When installments > 1 the
// value is split into that many monthly-dated entries; the last
// installment absorbs any rounding remainder so the parts always sum to
// the original value.
func (s *transactionService) CreateTransaction(
	userID string,
	date time.Time,
	txType models.TransactionType,
	description string,
	value decimal.Decimal,
	category, paymentMethod string,
	installments int,
) ([]models.Transaction, error) {
	if txType != models.TransactionTypeIncome && txType != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if !value.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "value must be greater than zero")
	}
	if description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if installments < 1 {
		installments = 1
	}
	if date.IsZero() {
		date = time.Now()
	}

	entries := splitInstallments(userID, date, txType, description, value, category, paymentMethod, installments)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := range entries {
			if err := tx.Create(&entries[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return entries, nil
}

// splitInstallments builds the entry rows for a transaction, one per
// installment with dates one month apart.
func splitInstallments(
	userID string,
	date time.Time,
	txType models.TransactionType,
	description string,
	value decimal.Decimal,
	category, paymentMethod string,
	installments int,
) []models.Transaction {
	if installments == 1 {
		return []models.Transaction{{
			UserID:        userID,
			Type:          txType,
			Description:   description,
			Value:         value,
			Category:      category,
			PaymentMethod: paymentMethod,
			Date:          date,
		}}
	}

	n := decimal.NewFromInt(int64(installments))
	per := value.DivRound(n, 2)
	last := value.Sub(per.Mul(decimal.NewFromInt(int64(installments - 1))))

	entries := make([]models.Transaction, 0, installments)
	for i := 0; i < installments; i++ {
		v := per
		if i == installments-1 {
			v = last
		}
		entries = append(entries, models.Transaction{
			UserID:         userID,
			Type:           txType,
			Description:    description,
			Value:          v,
			Category:       category,
			PaymentMethod:  paymentMethod,
			Date:           date.AddDate(0, i, 0),
			Installment:    true,
			InstallmentSeq: i + 1,
			InstallmentOf:  installments,
		})
	}
	return entries
}

// GetRecentTransactions returns the user's most recent entries, newest first.
func (s *transactionService) GetRecentTransactions(userID string, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	var transactions []models.Transaction
	err := s.db.Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		Limit(limit).
		Find(&transactions).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// GetUserTransactions returns a paginated listing of the user's entries.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	query := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	err := query.Order("date DESC, created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&transactions).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(transactions, page.Page, page.PageSize, total)
	return &resp, nil
}

// GetBalance returns total income minus total expenses for the user.
func (s *transactionService) GetBalance(userID string) (decimal.Decimal, error) {
	var transactions []models.Transaction
	err := s.db.Select("type", "value").Where("user_id = ?", userID).Find(&transactions).Error
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	balance := decimal.Zero
	for _, tx := range transactions {
		if tx.Type == models.TransactionTypeIncome {
			balance = balance.Add(tx.Value)
		} else {
			balance = balance.Sub(tx.Value)
		}
	}
	return balance, nil
}

// GetSpendGoalProgress reports the current month's expenses against the
// user's spend goal. Remaining never goes below zero.
func (s *transactionService) GetSpendGoalProgress(userID string, now time.Time) (*SpendGoalProgress, error) {
	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if user.SpendGoal == nil {
		return nil, apperrors.ErrSpendGoalNotSet
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	var expenses []models.Transaction
	err := s.db.Select("value").
		Where("user_id = ? AND type = ? AND date >= ? AND date < ?",
			userID, models.TransactionTypeExpense, monthStart, monthEnd).
		Find(&expenses).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	spent := decimal.Zero
	for _, tx := range expenses {
		spent = spent.Add(tx.Value)
	}

	remaining := user.SpendGoal.Sub(spent)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return &SpendGoalProgress{
		SpendGoal:  *user.SpendGoal,
		TotalSpent: spent,
		Remaining:  remaining,
	}, nil
}
