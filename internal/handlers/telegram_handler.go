package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/GustavoLino728/linos-finance/internal/errors"
	"github.com/GustavoLino728/linos-finance/internal/services"
)

// TelegramHandler handles Telegram account-linking requests.
type TelegramHandler struct {
	telegramService services.TelegramServicer
	auditService    services.AuditServicer
}

// NewTelegramHandler creates a new TelegramHandler.
func NewTelegramHandler(telegramService services.TelegramServicer, auditService services.AuditServicer) *TelegramHandler {
	return &TelegramHandler{
		telegramService: telegramService,
		auditService:    auditService,
	}
}

// SyncRequest represents the request sent by the relay to complete linking
type SyncRequest struct {
	Code       string `json:"code" binding:"required"`
	TelegramID string `json:"telegram_id" binding:"required,max=64"`
	FirstName  string `json:"first_name" binding:"max=100"`
	LastName   string `json:"last_name" binding:"max=100"`
	Username   string `json:"username" binding:"max=100"`
}

// GenerateCodeResponse represents a freshly issued sync code
type GenerateCodeResponse struct {
	Code             string `json:"code"`
	ExpiresInSeconds int    `json:"expires_in_seconds"`
	ExpiresAt        string `json:"expires_at"`
}

// SyncResponse represents a completed link
type SyncResponse struct {
	Success bool   `json:"success"`
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// ResolveUserResponse represents a Telegram ID resolved to an account
type ResolveUserResponse struct {
	UserID    string `json:"user_id"`
	FirstName string `json:"first_name"`
}

// GenerateCode issues a new sync code for the authenticated user
// @Summary     Generate sync code
// @Description Generate a new one-time sync code for linking a Telegram account. Re-issuing invalidates any previous code.
// @Tags        telegram
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} GenerateCodeResponse "Sync code generated"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /integrations/telegram/generate-code [post]
func (h *TelegramHandler) GenerateCode(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	link, err := h.telegramService.IssueSyncCode(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "GENERATE_SYNC_CODE", "telegram_link", link.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{
		"code":               *link.SyncCode,
		"expires_in_seconds": int(services.SyncCodeTTL.Seconds()),
		"expires_at":         link.CodeExpiresAt,
	})
}

// GetStatus retrieves the user's Telegram link status
// @Summary     Get Telegram sync status
// @Description Get the current Telegram link state for the authenticated user
// @Tags        telegram
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.SyncStatus "Sync status"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /integrations/telegram/status [get]
func (h *TelegramHandler) GetStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	status, err := h.telegramService.GetStatus(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// Sync consumes a sync code and links the Telegram account (called by the relay)
// @Summary     Complete Telegram sync
// @Description Consume a sync code and bind the Telegram identity to the issuing account (relay endpoint)
// @Tags        relay
// @Accept      json
// @Produce     json
// @Security    RelayAPIKey
// @Param       request body SyncRequest true "Sync code and Telegram identity"
// @Success     200 {object} SyncResponse "Account linked"
// @Failure     400 {object} ErrorResponse "Expired code or Telegram account linked elsewhere"
// @Failure     404 {object} ErrorResponse "Unknown sync code"
// @Router      /integrations/telegram/sync [post]
func (h *TelegramHandler) Sync(c *gin.Context) {
	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	link, err := h.telegramService.CompleteSync(req.Code, req.TelegramID, req.FirstName, req.LastName, req.Username)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(link.UserID, "COMPLETE_TELEGRAM_SYNC", "telegram_link", link.ID, c.ClientIP(),
		map[string]interface{}{"telegram_id": req.TelegramID})

	message := "Account linked successfully."
	if link.FirstName != "" {
		message = "Account linked successfully. Hello, " + link.FirstName + "!"
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user_id": link.UserID,
		"message": message,
	})
}

// ResolveUser resolves a Telegram ID to the linked account (called by the relay)
// @Summary     Resolve Telegram user
// @Description Look up the account linked to a Telegram ID (relay endpoint)
// @Tags        relay
// @Accept      json
// @Produce     json
// @Security    RelayAPIKey
// @Param       telegram_id path string true "Telegram ID"
// @Success     200 {object} ResolveUserResponse "Linked account"
// @Failure     404 {object} ErrorResponse "Telegram ID not linked to any account"
// @Router      /user/by-telegram/{telegram_id} [get]
func (h *TelegramHandler) ResolveUser(c *gin.Context) {
	telegramID := c.Param("telegram_id")

	link, err := h.telegramService.ResolveTelegramID(telegramID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":    link.UserID,
		"first_name": link.FirstName,
	})
}
