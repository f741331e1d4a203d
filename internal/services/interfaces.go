package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GustavoLino728/linos-finance/internal/models"
	"github.com/GustavoLino728/linos-finance/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, username string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	SetSpendGoal(userID string, spendGoal decimal.Decimal) (*models.User, error)
}

// SpendGoalProgress reports month-to-date spending against the user's goal.
type SpendGoalProgress struct {
	SpendGoal  decimal.Decimal `json:"spend_goal"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	Remaining  decimal.Decimal `json:"remaining"`
}

// TransactionServicer defines the contract for ledger entries.
type TransactionServicer interface {
	CreateTransaction(userID string, date time.Time, txType models.TransactionType, description string, value decimal.Decimal, category, paymentMethod string, installments int) ([]models.Transaction, error)
	GetRecentTransactions(userID string, limit int) ([]models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	GetBalance(userID string) (decimal.Decimal, error)
	GetSpendGoalProgress(userID string, now time.Time) (*SpendGoalProgress, error)
}

// FavoriteServicer defines the contract for favorite entry templates.
type FavoriteServicer interface {
	CreateFavorite(userID string, txType models.TransactionType, description string, value decimal.Decimal, category, paymentMethod string) (*models.Favorite, error)
	GetUserFavorites(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Favorite], error)
	UpdateFavorite(userID, favoriteID string, txType models.TransactionType, description string, value decimal.Decimal, category, paymentMethod string) (*models.Favorite, error)
	DeleteFavorite(userID, favoriteID string) error
}

// GoalServicer defines the contract for savings goals.
type GoalServicer interface {
	CreateGoal(userID, name string, goalValue, currentValue decimal.Decimal) (*models.Goal, error)
	GetUserGoals(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error)
	UpdateGoalProgress(userID, goalID string, currentValue decimal.Decimal) (*models.Goal, error)
}

// SyncStatus describes the state of a user's Telegram link.
type SyncStatus struct {
	Connected  bool       `json:"connected"`
	TelegramID string     `json:"telegram_id,omitempty"`
	FirstName  string     `json:"first_name,omitempty"`
	Username   string     `json:"username,omitempty"`
	SyncedAt   *time.Time `json:"synced_at,omitempty"`
}

// TelegramServicer defines the contract for the Telegram account-linking protocol.
type TelegramServicer interface {
	IssueSyncCode(userID string) (*models.TelegramLink, error)
	CompleteSync(code, telegramID, firstName, lastName, username string) (*models.TelegramLink, error)
	GetStatus(userID string) (*SyncStatus, error)
	ResolveTelegramID(telegramID string) (*models.TelegramLink, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
