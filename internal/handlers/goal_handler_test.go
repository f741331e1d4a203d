package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/GustavoLino728/linos-finance/internal/errors"
	"github.com/GustavoLino728/linos-finance/internal/models"
	"github.com/GustavoLino728/linos-finance/internal/pagination"
	"github.com/GustavoLino728/linos-finance/internal/services"
)

// --- mock goal service ---

type mockGoalService struct {
	createGoalFn         func(userID, name string, goalValue, currentValue decimal.Decimal) (*models.Goal, error)
	getUserGoalsFn       func(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error)
	updateGoalProgressFn func(userID, goalID string, currentValue decimal.Decimal) (*models.Goal, error)
}

var _ services.GoalServicer = (*mockGoalService)(nil)

func (m *mockGoalService) CreateGoal(userID, name string, goalValue, currentValue decimal.Decimal) (*models.Goal, error) {
	if m.createGoalFn != nil {
		return m.createGoalFn(userID, name, goalValue, currentValue)
	}
	return &models.Goal{Base: models.Base{ID: "goal-1"}, UserID: userID, Name: name}, nil
}

func (m *mockGoalService) GetUserGoals(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error) {
	if m.getUserGoalsFn != nil {
		return m.getUserGoalsFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.Goal{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockGoalService) UpdateGoalProgress(userID, goalID string, currentValue decimal.Decimal) (*models.Goal, error) {
	if m.updateGoalProgressFn != nil {
		return m.updateGoalProgressFn(userID, goalID, currentValue)
	}
	return &models.Goal{Base: models.Base{ID: goalID}, UserID: userID, CurrentValue: currentValue}, nil
}

func setupGoalRouter(handler *GoalHandler) *gin.Engine {
	r := gin.New()
	r.POST("/goals", injectUserID("user-1"), handler.CreateGoal)
	r.GET("/goals", injectUserID("user-1"), handler.GetUserGoals)
	r.PUT("/goals/:id/progress", injectUserID("user-1"), handler.UpdateGoalProgress)
	return r
}

// --- tests ---

func TestGoalHandler_CreateGoal(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		handler := NewGoalHandler(&mockGoalService{}, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals", `{"name":"Trip to Japan","goal_value":"15000.00"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 on missing name", func(t *testing.T) {
		handler := NewGoalHandler(&mockGoalService{}, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals", `{"goal_value":"15000.00"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on non-positive target", func(t *testing.T) {
		svc := &mockGoalService{
			createGoalFn: func(_, _ string, _, _ decimal.Decimal) (*models.Goal, error) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal_value must be positive")
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals", `{"name":"Trip","goal_value":"-10.00"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestGoalHandler_GetUserGoals(t *testing.T) {
	svc := &mockGoalService{
		getUserGoalsFn: func(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error) {
			page.Defaults()
			resp := pagination.NewPageResponse([]models.Goal{
				{Base: models.Base{ID: "goal-1"}, UserID: userID, Name: "Trip to Japan"},
				{Base: models.Base{ID: "goal-2"}, UserID: userID, Name: "Emergency fund"},
			}, page.Page, page.PageSize, 2)
			return &resp, nil
		},
	}
	handler := NewGoalHandler(svc, &mockAuditService{})
	r := setupGoalRouter(handler)

	rec := doRequest(r, "GET", "/goals", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	data := result["data"].([]interface{})
	if len(data) != 2 {
		t.Errorf("expected 2 goals, got %d", len(data))
	}
}

func TestGoalHandler_UpdateGoalProgress(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		var gotValue decimal.Decimal
		svc := &mockGoalService{
			updateGoalProgressFn: func(userID, goalID string, currentValue decimal.Decimal) (*models.Goal, error) {
				gotValue = currentValue
				return &models.Goal{Base: models.Base{ID: goalID}, UserID: userID, CurrentValue: currentValue}, nil
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "PUT", "/goals/goal-1/progress", `{"current_value":"3200.00"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !gotValue.Equal(decimal.RequireFromString("3200.00")) {
			t.Errorf("expected current value 3200.00, got %s", gotValue)
		}
	})

	t.Run("returns 404 on missing goal", func(t *testing.T) {
		svc := &mockGoalService{
			updateGoalProgressFn: func(_, _ string, _ decimal.Decimal) (*models.Goal, error) {
				return nil, apperrors.ErrGoalNotFound
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "PUT", "/goals/nope/progress", `{"current_value":"10.00"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "GOAL_NOT_FOUND")
	})
}
