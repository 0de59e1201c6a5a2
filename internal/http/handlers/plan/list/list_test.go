package list

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/ai-meal-planner/internal/http/middlewarectx"
	"github.com/magabrotheeeer/ai-meal-planner/internal/models"
)

// MockService реализует интерфейс list.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, username, role string, limit, offset int) ([]*models.MealPlan, error) {
	args := m.Called(ctx, username, role, limit, offset)
	plans, _ := args.Get(0).([]*models.MealPlan)
	return plans, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestListHandler_ServeHTTP(t *testing.T) {
	logger := newNoopLogger()

	plans := []*models.MealPlan{
		{ID: 2, Username: "user1", PlanText: "plan two"},
		{ID: 1, Username: "user1", PlanText: "plan one"},
	}

	tests := []struct {
		name           string
		url            string
		username       string
		role           string
		setupMock      func(*MockService)
		wantStatusCode int
		wantCount      float64
		wantError      string
	}{
		{
			name:     "история с параметрами по умолчанию",
			url:      "/plans/list",
			username: "user1",
			role:     "user",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, "user1", "user", 10, 0).Return(plans, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantCount:      2,
		},
		{
			name:     "история с пагинацией",
			url:      "/plans/list?limit=1&offset=1",
			username: "user1",
			role:     "user",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, "user1", "user", 1, 1).Return(plans[:1], nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantCount:      1,
		},
		{
			name:     "некорректный limit игнорируется",
			url:      "/plans/list?limit=abc",
			username: "user1",
			role:     "user",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, "user1", "user", 10, 0).Return(plans, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantCount:      2,
		},
		{
			name:     "роль admin",
			url:      "/plans/list",
			username: "admin1",
			role:     "admin",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, "admin1", "admin", 10, 0).Return(plans, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantCount:      2,
		},
		{
			name:           "нет пользователя в контексте",
			url:            "/plans/list",
			username:       "",
			role:           "",
			setupMock:      func(_ *MockService) {},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "unauthorized",
		},
		{
			name:     "ошибка сервиса",
			url:      "/plans/list",
			username: "user1",
			role:     "user",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, "user1", "user", 10, 0).Return(nil, errors.New("db error")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "could not list meal plans",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			ctx := req.Context()
			if tt.username != "" {
				ctx = context.WithValue(ctx, middlewarectx.User, tt.username)
				ctx = context.WithValue(ctx, middlewarectx.Role, tt.role)
			}
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err := json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, "OK", got["status"])
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, tt.wantCount, data["count"])
			}

			mockService.AssertExpectations(t)
		})
	}
}
