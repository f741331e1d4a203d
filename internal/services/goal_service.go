package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/GustavoLino728/linos-finance/internal/errors"
	"github.com/GustavoLino728/linos-finance/internal/models"
	"github.com/GustavoLino728/linos-finance/internal/pagination"
)

// goalService handles savings goals.
type goalService struct {
	db *gorm.DB
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB) GoalServicer {
	return &goalService{db: db}
}

// CreateGoal creates a savings goal for the user.
func (s *goalService) CreateGoal(userID, name string, goalValue, currentValue decimal.Decimal) (*models.Goal, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if !goalValue.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal value must be greater than zero")
	}
	if currentValue.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "current value must not be negative")
	}

	goal := &models.Goal{
		UserID:       userID,
		Name:         name,
		GoalValue:    goalValue,
		CurrentValue: currentValue,
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return goal, nil
}

// GetUserGoals returns a paginated listing of the user's goals.
func (s *goalService) GetUserGoals(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error) {
	page.Defaults()

	query := s.db.Model(&models.Goal{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.Goal
	err := query.Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&goals).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(goals, page.Page, page.PageSize, total)
	return &resp, nil
}

// UpdateGoalProgress replaces the saved amount on a goal owned by the user.
func (s *goalService) UpdateGoalProgress(userID, goalID string, currentValue decimal.Decimal) (*models.Goal, error) {
	if currentValue.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "current value must not be negative")
	}

	var goal models.Goal
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	goal.CurrentValue = currentValue
	if err := s.db.Model(&goal).Update("current_value", currentValue).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &goal, nil
}
