package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GustavoLino728/linos-finance/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Username: fmt.Sprintf("user%d", nextID()),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// SetTestSpendGoal sets a monthly spend goal on an existing user.
func SetTestSpendGoal(t *testing.T, db *gorm.DB, user *models.User, goal string) {
	t.Helper()

	value := MustDecimal(t, goal)
	user.SpendGoal = &value
	if err := db.Model(user).Update("spend_goal", value).Error; err != nil {
		t.Fatalf("failed to set test spend goal: %v", err)
	}
}

// CreateTestTransaction creates a transaction of the given type and value.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, txType models.TransactionType, value string, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		Type:        txType,
		Description: fmt.Sprintf("Test Entry %d", nextID()),
		Value:       MustDecimal(t, value),
		Date:        date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestFavorite creates a favorite template for the user.
func CreateTestFavorite(t *testing.T, db *gorm.DB, userID string) *models.Favorite {
	t.Helper()

	favorite := &models.Favorite{
		UserID:      userID,
		Type:        models.TransactionTypeExpense,
		Description: fmt.Sprintf("Test Favorite %d", nextID()),
		Value:       MustDecimal(t, "25.90"),
		Category:    "food",
	}
	if err := db.Create(favorite).Error; err != nil {
		t.Fatalf("failed to create test favorite: %v", err)
	}
	return favorite
}

// CreateTestGoal creates a savings goal for the user.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID string) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Goal %d", nextID()),
		GoalValue:    MustDecimal(t, "1000.00"),
		CurrentValue: MustDecimal(t, "0"),
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateSyncedTelegramLink creates a completed Telegram link for the user.
func CreateSyncedTelegramLink(t *testing.T, db *gorm.DB, userID, telegramID string) *models.TelegramLink {
	t.Helper()

	now := time.Now()
	link := &models.TelegramLink{
		UserID:     userID,
		TelegramID: telegramID,
		FirstName:  "Test",
		Username:   fmt.Sprintf("tester%d", nextID()),
		SyncedAt:   &now,
	}
	if err := db.Create(link).Error; err != nil {
		t.Fatalf("failed to create test telegram link: %v", err)
	}
	return link
}

// MustDecimal parses a decimal literal, failing the test on error.
func MustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	value, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal literal %q: %v", s, err)
	}
	return value
}
