package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/GustavoLino728/linos-finance/internal/errors"
	"github.com/GustavoLino728/linos-finance/internal/models"
	"github.com/GustavoLino728/linos-finance/internal/pagination"
	"github.com/GustavoLino728/linos-finance/internal/services"
)

// FavoriteHandler handles favorite entry template requests.
type FavoriteHandler struct {
	favoriteService services.FavoriteServicer
	auditService    services.AuditServicer
}

// NewFavoriteHandler creates a new FavoriteHandler.
func NewFavoriteHandler(favoriteService services.FavoriteServicer, auditService services.AuditServicer) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService, auditService: auditService}
}

// FavoriteRequest represents the payload for creating or updating a favorite
type FavoriteRequest struct {
	Type          models.TransactionType `json:"type" binding:"required,transaction_type"`
	Description   string                 `json:"description" binding:"required,max=500"`
	Value         decimal.Decimal        `json:"value" binding:"required"`
	Category      string                 `json:"category" binding:"max=100"`
	PaymentMethod string                 `json:"payment_method" binding:"max=100"`
}

// FavoriteResponse represents a favorite in the response
type FavoriteResponse struct {
	ID            string                 `json:"id"`
	UserID        string                 `json:"user_id"`
	Type          models.TransactionType `json:"type"`
	Description   string                 `json:"description"`
	Value         decimal.Decimal        `json:"value"`
	Category      string                 `json:"category"`
	PaymentMethod string                 `json:"payment_method"`
}

// CreateFavorite handles the creation of a new favorite
// @Summary     Create a favorite
// @Description Create a reusable transaction template for the authenticated user
// @Tags        favorites
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body FavoriteRequest true "Favorite details"
// @Success     201 {object} FavoriteResponse "Favorite created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /favorites [post]
func (h *FavoriteHandler) CreateFavorite(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	favorite, err := h.favoriteService.CreateFavorite(userID, req.Type, req.Description, req.Value, req.Category, req.PaymentMethod)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_FAVORITE", "favorite", favorite.ID, c.ClientIP(),
		map[string]interface{}{"description": req.Description, "value": req.Value})

	c.JSON(http.StatusCreated, gin.H{"favorite": favorite})
}

// GetUserFavorites handles the retrieval of all favorites for the authenticated user
// @Summary     Get favorites
// @Description Get a paginated list of the authenticated user's favorites
// @Tags        favorites
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Favorite] "Paginated favorites"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /favorites [get]
func (h *FavoriteHandler) GetUserFavorites(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.favoriteService.GetUserFavorites(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateFavorite handles updating an existing favorite
// @Summary     Update a favorite
// @Description Update a favorite owned by the authenticated user
// @Tags        favorites
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string          true "Favorite ID"
// @Param       request body FavoriteRequest true "Updated favorite details"
// @Success     200 {object} FavoriteResponse "Favorite updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Favorite not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /favorites/{id} [put]
func (h *FavoriteHandler) UpdateFavorite(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	favoriteID := c.Param("id")

	var req FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	favorite, err := h.favoriteService.UpdateFavorite(userID, favoriteID, req.Type, req.Description, req.Value, req.Category, req.PaymentMethod)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_FAVORITE", "favorite", favorite.ID, c.ClientIP(),
		map[string]interface{}{"description": req.Description, "value": req.Value})

	c.JSON(http.StatusOK, gin.H{"favorite": favorite})
}

// DeleteFavorite handles deleting a favorite
// @Summary     Delete a favorite
// @Description Delete a favorite owned by the authenticated user
// @Tags        favorites
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Favorite ID"
// @Success     204 "Favorite deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Favorite not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /favorites/{id} [delete]
func (h *FavoriteHandler) DeleteFavorite(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	favoriteID := c.Param("id")

	if err := h.favoriteService.DeleteFavorite(userID, favoriteID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_FAVORITE", "favorite", favoriteID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
