package services

import (
	"regexp"
	"testing"
	"time"

	"github.com/GustavoLino728/linos-finance/internal/models"
	"github.com/GustavoLino728/linos-finance/internal/testutil"
)

var syncCodePattern = regexp.MustCompile(`^[A-Z0-9]{12}$`)

func TestIssueSyncCode(t *testing.T) {
	t.Run("creates_link_on_first_issuance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTelegramService(db)
		user := testutil.CreateTestUser(t, db)

		link, err := svc.IssueSyncCode(user.ID)
		testutil.AssertNoError(t, err)

		if link.SyncCode == nil {
			t.Fatal("expected sync code to be set")
		}
		if !syncCodePattern.MatchString(*link.SyncCode) {
			t.Errorf("code %q does not match expected format", *link.SyncCode)
		}
		if link.CodeExpiresAt == nil {
			t.Fatal("expected code expiry to be set")
		}
		expiresIn := time.Until(*link.CodeExpiresAt)
		if expiresIn < 4*time.Minute || expiresIn > 5*time.Minute {
			t.Errorf("expected expiry about 5 minutes out, got %s", expiresIn)
		}
		if link.TelegramID != "" {
			t.Errorf("expected telegram ID to be unset, got %q", link.TelegramID)
		}
		if link.SyncedAt != nil {
			t.Error("expected synced_at to be nil on issuance")
		}
	})

	t.Run("reissuance_overwrites_code", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTelegramService(db)
		user := testutil.CreateTestUser(t, db)

		first, err := svc.IssueSyncCode(user.ID)
		testutil.AssertNoError(t, err)
		second, err := svc.IssueSyncCode(user.ID)
		testutil.AssertNoError(t, err)

		if *first.SyncCode == *second.SyncCode {
			t.Error("expected a different code on re-issuance")
		}

		var count int64
		db.Model(&models.TelegramLink{}).Where("user_id = ?", user.ID).Count(&count)
		if count != 1 {
			t.Errorf("expected a single link row per user, got %d", count)
		}
	})

	t.Run("reissuance_invalidates_previous_code", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTelegramService(db)
		user := testutil.CreateTestUser(t, db)

		first, err := svc.IssueSyncCode(user.ID)
		testutil.AssertNoError(t, err)
		firstCode := *first.SyncCode

		_, err = svc.IssueSyncCode(user.ID)
		testutil.AssertNoError(t, err)

		_, err = svc.CompleteSync(firstCode, "tg-100", "Ana", "", "ana")
		testutil.AssertAppError(t, err, "SYNC_CODE_INVALID")
	})

	t.Run("reissuance_clears_completed_sync", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTelegramService(db)
		user := testutil.CreateTestUser(t, db)

		link, err := svc.IssueSyncCode(user.ID)
		testutil.AssertNoError(t, err)
		_, err = svc.CompleteSync(*link.SyncCode, "tg-200", "Ana", "Lima", "ana")
		testutil.AssertNoError(t, err)

		_, err = svc.IssueSyncCode(user.ID)
		testutil.AssertNoError(t, err)

		_, err = svc.ResolveTelegramID("tg-200")
		testutil.AssertAppError(t, err, "TELEGRAM_NOT_SYNCED")
	})
}

func TestCompleteSync(t *testing.T) {
	t.Run("links_telegram_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTelegramService(db)
		user := testutil.CreateTestUser(t, db)

		issued, err := svc.IssueSyncCode(user.ID)
		testutil.AssertNoError(t, err)

		link, err := svc.CompleteSync(*issued.SyncCode, "tg-1", "Gustavo", "Lino", "gustavo")
		testutil.AssertNoError(t, err)

		if link.UserID != user.ID {
			t.Errorf("expected link to resolve to %s, got %s", user.ID, link.UserID)
		}
		if link.SyncedAt == nil {
			t.Fatal("expected synced_at to be set")
		}
		if link.SyncCode != nil || link.CodeExpiresAt != nil {
			t.Error("expected code fields to be cleared after consumption")
		}

		var stored models.TelegramLink
		if err := db.Where("user_id = ?", user.ID).First(&stored).Error; err != nil {
			t.Fatalf("failed to reload link: %v", err)
		}
		if stored.SyncCode != nil || stored.CodeExpiresAt != nil {
			t.Error("expected stored code fields to be cleared")
		}
		if stored.TelegramID != "tg-1" || stored.FirstName != "Gustavo" || stored.LastName != "Lino" || stored.Username != "gustavo" {
			t.Errorf("stored link metadata mismatch: %+v", stored)
		}
	})

	t.Run("trims_incidental_whitespace", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTelegramService(db)
		user := testutil.CreateTestUser(t, db)

		issued, err := svc.IssueSyncCode(user.ID)
		testutil.AssertNoError(t, err)

		_, err = svc.CompleteSync("  "+*issued.SyncCode+" ", "tg-2", "", "", "")
		testutil.AssertNoError(t, err)
	})

	t.Run("missing_fields_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTelegramService(db)

		_, err := svc.CompleteSync("", "tg-3", "", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CompleteSync("ABCDEF123456", "", "", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown_code_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTelegramService(db)

		_, err := svc.CompleteSync("ZZZZZZZZZZZZ", "tg-4", "", "", "")
		testutil.AssertAppError(t, err, "SYNC_CODE_INVALID")
	})

	t.Run("expired_code_rejected_and_left_intact", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTelegramService(db)
		user := testutil.CreateTestUser(t, db)

		issued, err := svc.IssueSyncCode(user.ID)
		testutil.AssertNoError(t, err)

		expired := time.Now().Add(-time.Minute)
		if err := db.Model(&models.TelegramLink{}).Where("user_id = ?", user.ID).
			Update("code_expires_at", expired).Error; err != nil {
			t.Fatalf("failed to backdate expiry: %v", err)
		}

		_, err = svc.CompleteSync(*issued.SyncCode, "tg-5", "", "", "")
		testutil.AssertAppError(t, err, "SYNC_CODE_EXPIRED")

		// The record keeps its code; a later re-issuance overwrites it.
		var stored models.TelegramLink
		if err := db.Where("user_id = ?", user.ID).First(&stored).Error; err != nil {
			t.Fatalf("failed to reload link: %v", err)
		}
		if stored.SyncCode == nil || *stored.SyncCode != *issued.SyncCode {
			t.Error("expected expired code to be left in place")
		}
		if stored.TelegramID != "" {
			t.Error("expected no mutation on expired-code rejection")
		}
	})

	t.Run("replay_after_success_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTelegramService(db)
		user := testutil.CreateTestUser(t, db)

		issued, err := svc.IssueSyncCode(user.ID)
		testutil.AssertNoError(t, err)
		code := *issued.SyncCode

		_, err = svc.CompleteSync(code, "tg-6", "", "", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CompleteSync(code, "tg-6", "", "", "")
		testutil.AssertAppError(t, err, "SYNC_CODE_INVALID")
	})

	t.Run("telegram_id_linked_elsewhere_rejected_without_mutation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTelegramService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		issued1, err := svc.IssueSyncCode(user1.ID)
		testutil.AssertNoError(t, err)
		_, err = svc.CompleteSync(*issued1.SyncCode, "tg-7", "", "", "")
		testutil.AssertNoError(t, err)

		issued2, err := svc.IssueSyncCode(user2.ID)
		testutil.AssertNoError(t, err)

		_, err = svc.CompleteSync(*issued2.SyncCode, "tg-7", "", "", "")
		testutil.AssertAppError(t, err, "TELEGRAM_ALREADY_LINKED")

		// user1's link is untouched, user2's code is still pending.
		resolved, err := svc.ResolveTelegramID("tg-7")
		testutil.AssertNoError(t, err)
		if resolved.UserID != user1.ID {
			t.Errorf("expected tg-7 to stay with %s, got %s", user1.ID, resolved.UserID)
		}

		var stored models.TelegramLink
		if err := db.Where("user_id = ?", user2.ID).First(&stored).Error; err != nil {
			t.Fatalf("failed to reload link: %v", err)
		}
		if stored.SyncCode == nil || *stored.SyncCode != *issued2.SyncCode {
			t.Error("expected user2's pending code to be unchanged")
		}
		if stored.TelegramID != "" || stored.SyncedAt != nil {
			t.Error("expected user2's record to stay unsynced")
		}
	})
}

func TestGetStatus(t *testing.T) {
	t.Run("no_record_reports_not_connected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTelegramService(db)
		user := testutil.CreateTestUser(t, db)

		status, err := svc.GetStatus(user.ID)
		testutil.AssertNoError(t, err)
		if status.Connected {
			t.Error("expected not connected")
		}
	})

	t.Run("pending_code_reports_not_connected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTelegramService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.IssueSyncCode(user.ID)
		testutil.AssertNoError(t, err)

		status, err := svc.GetStatus(user.ID)
		testutil.AssertNoError(t, err)
		if status.Connected {
			t.Error("expected not connected while code is pending")
		}
	})

	t.Run("completed_sync_reports_connected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTelegramService(db)
		user := testutil.CreateTestUser(t, db)

		issued, err := svc.IssueSyncCode(user.ID)
		testutil.AssertNoError(t, err)
		_, err = svc.CompleteSync(*issued.SyncCode, "tg-8", "Gustavo", "", "gustavo")
		testutil.AssertNoError(t, err)

		status, err := svc.GetStatus(user.ID)
		testutil.AssertNoError(t, err)
		if !status.Connected {
			t.Fatal("expected connected")
		}
		if status.TelegramID != "tg-8" || status.FirstName != "Gustavo" || status.Username != "gustavo" {
			t.Errorf("unexpected status: %+v", status)
		}
		if status.SyncedAt == nil {
			t.Error("expected synced_at in status")
		}
	})
}

func TestResolveTelegramID(t *testing.T) {
	t.Run("resolves_synced_link", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTelegramService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateSyncedTelegramLink(t, db, user.ID, "tg-9")

		link, err := svc.ResolveTelegramID("tg-9")
		testutil.AssertNoError(t, err)
		if link.UserID != user.ID {
			t.Errorf("expected %s, got %s", user.ID, link.UserID)
		}
	})

	t.Run("unknown_telegram_id_not_synced", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTelegramService(db)

		_, err := svc.ResolveTelegramID("tg-unknown")
		testutil.AssertAppError(t, err, "TELEGRAM_NOT_SYNCED")
	})
}

// Full issue → consume → resolve → re-issue walkthrough.
func TestSyncLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTelegramService(db)
	user := testutil.CreateTestUser(t, db)

	issued, err := svc.IssueSyncCode(user.ID)
	testutil.AssertNoError(t, err)
	firstCode := *issued.SyncCode
	if !syncCodePattern.MatchString(firstCode) {
		t.Fatalf("code %q does not match expected format", firstCode)
	}

	_, err = svc.CompleteSync(firstCode, "tg-10", "Gustavo", "Lino", "gustavo")
	testutil.AssertNoError(t, err)

	resolved, err := svc.ResolveTelegramID("tg-10")
	testutil.AssertNoError(t, err)
	if resolved.UserID != user.ID {
		t.Fatalf("expected tg-10 to resolve to %s, got %s", user.ID, resolved.UserID)
	}

	// Re-issuing invalidates the completed link until the new code is consumed.
	_, err = svc.IssueSyncCode(user.ID)
	testutil.AssertNoError(t, err)

	_, err = svc.ResolveTelegramID("tg-10")
	testutil.AssertAppError(t, err, "TELEGRAM_NOT_SYNCED")

	_, err = svc.CompleteSync(firstCode, "tg-10", "Gustavo", "Lino", "gustavo")
	testutil.AssertAppError(t, err, "SYNC_CODE_INVALID")
}

func TestGenerateSyncCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := generateSyncCode()
		if err != nil {
			t.Fatalf("generateSyncCode failed: %v", err)
		}
		if !syncCodePattern.MatchString(code) {
			t.Fatalf("code %q does not match expected format", code)
		}
		if seen[code] {
			t.Fatalf("duplicate code generated: %s", code)
		}
		seen[code] = true
	}
}
