package services

import (
	"crypto/rand"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/GustavoLino728/linos-finance/internal/errors"
	"github.com/GustavoLino728/linos-finance/internal/models"
)

const (
	syncCodeLength   = 12
	syncCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// SyncCodeTTL is how long an issued sync code stays valid.
	SyncCodeTTL = 5 * time.Minute
)

// telegramService implements the Telegram account-linking protocol.
type telegramService struct {
	db *gorm.DB
}

// NewTelegramService creates a new TelegramServicer.
func NewTelegramService(db *gorm.DB) TelegramServicer {
	return &telegramService{db: db}
}

// IssueSyncCode issues a fresh sync code for a user, creating the link row
// on first use and overwriting any previous code otherwise. Re-issuance
// also clears SyncedAt: a user asking for a new code wants to re-establish
// the link, so any completed sync is invalidated until the new code is
// consumed.
func (s *telegramService) IssueSyncCode(userID string) (*models.TelegramLink, error) {
	code, err := generateSyncCode()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	expiresAt := time.Now().Add(SyncCodeTTL)

	var link models.TelegramLink
	dbErr := s.db.Where("user_id = ?", userID).First(&link).Error
	if dbErr != nil {
		if errors.Is(dbErr, gorm.ErrRecordNotFound) {
			link = models.TelegramLink{
				UserID:        userID,
				SyncCode:      &code,
				CodeExpiresAt: &expiresAt,
			}
			if err := s.db.Create(&link).Error; err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			return &link, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, dbErr)
	}

	link.SyncCode = &code
	link.CodeExpiresAt = &expiresAt
	link.SyncedAt = nil

	if err := s.db.Save(&link).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &link, nil
}

// CompleteSync consumes a sync code presented by the relay and binds the
// Telegram identity to the code's owner. Validation order: unknown code,
// expired code, Telegram account already linked to a different user. The
// final clearing update is conditional on the code still being present, so
// two racing consumers of the same code cannot both succeed.
func (s *telegramService) CompleteSync(code, telegramID, firstName, lastName, username string) (*models.TelegramLink, error) {
	code = strings.TrimSpace(code)
	if code == "" || telegramID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "code and telegram_id are required")
	}

	var link models.TelegramLink
	if err := s.db.Where("sync_code = ?", code).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidSyncCode
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Expired codes are rejected but left in place; the next issuance
	// overwrites them.
	if link.CodeExpiresAt == nil || time.Now().After(*link.CodeExpiresAt) {
		return nil, apperrors.ErrSyncCodeExpired
	}

	// A Telegram account may be linked to at most one user at a time.
	var other models.TelegramLink
	err := s.db.Where("telegram_id = ? AND user_id <> ?", telegramID, link.UserID).First(&other).Error
	if err == nil {
		return nil, apperrors.ErrTelegramAlreadyLinked
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Compare-and-clear: the update only matches while the presented code
	// is still stored, guaranteeing at most one successful consumption.
	now := time.Now()
	result := s.db.Model(&models.TelegramLink{}).
		Where("user_id = ? AND sync_code = ?", link.UserID, code).
		Updates(map[string]interface{}{
			"telegram_id":     telegramID,
			"first_name":      firstName,
			"last_name":       lastName,
			"username":        username,
			"synced_at":       now,
			"sync_code":       nil,
			"code_expires_at": nil,
		})
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		// Lost the race: someone consumed or reissued the code first.
		return nil, apperrors.ErrInvalidSyncCode
	}

	link.TelegramID = telegramID
	link.FirstName = firstName
	link.LastName = lastName
	link.Username = username
	link.SyncedAt = &now
	link.SyncCode = nil
	link.CodeExpiresAt = nil

	return &link, nil
}

// GetStatus reports whether the user's Telegram link is active. A missing
// row is not an error; the user simply is not connected.
func (s *telegramService) GetStatus(userID string) (*SyncStatus, error) {
	var link models.TelegramLink
	if err := s.db.Where("user_id = ?", userID).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &SyncStatus{Connected: false}, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if link.SyncedAt == nil {
		return &SyncStatus{Connected: false}, nil
	}

	return &SyncStatus{
		Connected:  true,
		TelegramID: link.TelegramID,
		FirstName:  link.FirstName,
		Username:   link.Username,
		SyncedAt:   link.SyncedAt,
	}, nil
}

// ResolveTelegramID maps an inbound Telegram identity to the linked user.
// Only completed links resolve; anything else tells the relay to prompt
// the chat user through the pairing flow.
func (s *telegramService) ResolveTelegramID(telegramID string) (*models.TelegramLink, error) {
	var link models.TelegramLink
	err := s.db.Where("telegram_id = ? AND synced_at IS NOT NULL", telegramID).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTelegramNotSynced
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &link, nil
}

// generateSyncCode produces a 12-character code drawn uniformly from
// uppercase letters and digits using a cryptographically secure source.
// Rejection sampling avoids modulo bias. Uniqueness is probabilistic
// (36^12 space); the store-level code lookup is the only collision guard.
func generateSyncCode() (string, error) {
	// Largest multiple of len(syncCodeAlphabet) that fits in a byte.
	max := byte(256 - 256%len(syncCodeAlphabet))

	code := make([]byte, 0, syncCodeLength)
	buf := make([]byte, syncCodeLength*2)
	for len(code) < syncCodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= max {
				continue
			}
			code = append(code, syncCodeAlphabet[int(b)%len(syncCodeAlphabet)])
			if len(code) == syncCodeLength {
				break
			}
		}
	}
	return string(code), nil
}
