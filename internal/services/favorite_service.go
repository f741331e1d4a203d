package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/GustavoLino728/linos-finance/internal/errors"
	"github.com/GustavoLino728/linos-finance/internal/models"
	"github.com/GustavoLino728/linos-finance/internal/pagination"
)

// favoriteService handles favorite entry templates.
type favoriteService struct {
	db *gorm.DB
}

// NewFavoriteService creates a new FavoriteServicer.
func NewFavoriteService(db *gorm.DB) FavoriteServicer {
	return &favoriteService{db: db}
}

// CreateFavorite saves a new favorite template for the user.
func (s *favoriteService) CreateFavorite(userID string, txType models.TransactionType, description string, value decimal.Decimal, category, paymentMethod string) (*models.Favorite, error) {
	if txType != models.TransactionTypeIncome && txType != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if !value.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "value must be greater than zero")
	}

	favorite := &models.Favorite{
		UserID:        userID,
		Type:          txType,
		Description:   description,
		Value:         value,
		Category:      category,
		PaymentMethod: paymentMethod,
	}

	if err := s.db.Create(favorite).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return favorite, nil
}

// GetUserFavorites returns a paginated listing of the user's favorites.
func (s *favoriteService) GetUserFavorites(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Favorite], error) {
	page.Defaults()

	query := s.db.Model(&models.Favorite{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var favorites []models.Favorite
	err := query.Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&favorites).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(favorites, page.Page, page.PageSize, total)
	return &resp, nil
}

// UpdateFavorite edits a favorite owned by the user.
func (s *favoriteService) UpdateFavorite(userID, favoriteID string, txType models.TransactionType, description string, value decimal.Decimal, category, paymentMethod string) (*models.Favorite, error) {
	if txType != models.TransactionTypeIncome && txType != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidTransactionType
	}

	favorite, err := s.getOwnedFavorite(userID, favoriteID)
	if err != nil {
		return nil, err
	}

	favorite.Type = txType
	favorite.Description = description
	favorite.Value = value
	favorite.Category = category
	favorite.PaymentMethod = paymentMethod

	if err := s.db.Save(favorite).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return favorite, nil
}

// DeleteFavorite removes a favorite owned by the user.
func (s *favoriteService) DeleteFavorite(userID, favoriteID string) error {
	result := s.db.Where("id = ? AND user_id = ?", favoriteID, userID).Delete(&models.Favorite{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrFavoriteNotFound
	}
	return nil
}

func (s *favoriteService) getOwnedFavorite(userID, favoriteID string) (*models.Favorite, error) {
	var favorite models.Favorite
	if err := s.db.Where("id = ? AND user_id = ?", favoriteID, userID).First(&favorite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFavoriteNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &favorite, nil
}
