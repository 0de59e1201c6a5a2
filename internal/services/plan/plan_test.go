package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/ai-meal-planner/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/ai-meal-planner/internal/models"
	"github.com/magabrotheeeer/ai-meal-planner/internal/openai"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreatePlan(ctx context.Context, plan models.MealPlan) (int, error) {
	args := m.Called(ctx, plan)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadPlan(ctx context.Context, id int) (*models.MealPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MealPlan), args.Error(1)
}
func (m *RepoMock) ListPlans(ctx context.Context, username string, limit, offset int) ([]*models.MealPlan, error) {
	args := m.Called(ctx, username, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MealPlan), args.Error(1)
}
func (m *RepoMock) ListAllPlans(ctx context.Context, limit, offset int) ([]*models.MealPlan, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MealPlan), args.Error(1)
}
func (m *RepoMock) RemovePlan(ctx context.Context, id int, username string) (int, error) {
	args := m.Called(ctx, id, username)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) RemoveUser(ctx context.Context, username string) (int, error) {
	args := m.Called(ctx, username)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

type GeneratorMock struct{ mock.Mock }

func (m *GeneratorMock) Chat(ctx context.Context, messages []openai.Message) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(routingKey string, message any) error {
	return m.Called(routingKey, message).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const systemRole = "You are a skilled cook with expertise of a chef."

func TestPlanService_Generate(t *testing.T) {
	planText := "Breakfast: omelette\nLunch: salad\nDinner: soup\nOmelette, Salad, Soup"
	testUser := &models.User{Username: "user1", Email: "user1@example.com"}

	tests := []struct {
		name       string
		req        models.DummyGenerateRequest
		setupMocks func(r *RepoMock, c *CacheMock, g *GeneratorMock, p *PublisherMock)
		wantErr    error
		wantID     int
		wantKcal   int
	}{
		{
			name: "success generate",
			req:  models.DummyGenerateRequest{Ingredients: []string{"eggs", "tomato"}, CalorieGoal: 1500},
			setupMocks: func(r *RepoMock, c *CacheMock, g *GeneratorMock, p *PublisherMock) {
				g.On("Chat", mock.Anything, mock.MatchedBy(func(msgs []openai.Message) bool {
					return len(msgs) == 2 && msgs[0].Role == "system" && msgs[0].Content == systemRole
				})).Return(planText, nil).Once()
				r.On("CreatePlan", mock.Anything, mock.MatchedBy(func(p models.MealPlan) bool {
					return p.Username == "user1" &&
						p.CalorieGoal == 1500 &&
						p.PlanText == planText &&
						len(p.RecipeTitles) == 3
				})).Return(42, nil).Once()
				c.On("Set", "plan:42", mock.Anything, time.Hour).Return(nil).Once()
				r.On("GetUserByUsername", mock.Anything, "user1").Return(testUser, nil).Once()
				p.On("Publish", rabbitmq.PlanGeneratedKey, mock.MatchedBy(func(info models.PlanInfo) bool {
					return info.PlanID == 42 && info.Email == "user1@example.com" && info.EventID != ""
				})).Return(nil).Once()
			},
			wantID:   42,
			wantKcal: 1500,
		},
		{
			name: "default calorie goal",
			req:  models.DummyGenerateRequest{Ingredients: []string{"eggs"}},
			setupMocks: func(r *RepoMock, c *CacheMock, g *GeneratorMock, p *PublisherMock) {
				g.On("Chat", mock.Anything, mock.Anything).Return(planText, nil).Once()
				r.On("CreatePlan", mock.Anything, mock.MatchedBy(func(p models.MealPlan) bool {
					return p.CalorieGoal == defaultCalorieGoal
				})).Return(43, nil).Once()
				c.On("Set", "plan:43", mock.Anything, time.Hour).Return(nil).Once()
				r.On("GetUserByUsername", mock.Anything, "user1").Return(testUser, nil).Once()
				p.On("Publish", rabbitmq.PlanGeneratedKey, mock.Anything).Return(nil).Once()
			},
			wantID:   43,
			wantKcal: defaultCalorieGoal,
		},
		{
			name: "generator error keeps storage untouched",
			req:  models.DummyGenerateRequest{Ingredients: []string{"eggs"}, CalorieGoal: 1500},
			setupMocks: func(_ *RepoMock, _ *CacheMock, g *GeneratorMock, _ *PublisherMock) {
				g.On("Chat", mock.Anything, mock.Anything).Return("", errors.New("api down")).Once()
			},
			wantErr: ErrGeneration,
		},
		{
			name: "repository error",
			req:  models.DummyGenerateRequest{Ingredients: []string{"eggs"}, CalorieGoal: 1500},
			setupMocks: func(r *RepoMock, _ *CacheMock, g *GeneratorMock, _ *PublisherMock) {
				g.On("Chat", mock.Anything, mock.Anything).Return(planText, nil).Once()
				r.On("CreatePlan", mock.Anything, mock.Anything).Return(0, errors.New("db error")).Once()
			},
			wantErr: errors.New("db error"),
		},
		{
			name: "cache set error logs warning but returns plan",
			req:  models.DummyGenerateRequest{Ingredients: []string{"eggs"}, CalorieGoal: 1500},
			setupMocks: func(r *RepoMock, c *CacheMock, g *GeneratorMock, p *PublisherMock) {
				g.On("Chat", mock.Anything, mock.Anything).Return(planText, nil).Once()
				r.On("CreatePlan", mock.Anything, mock.Anything).Return(7, nil).Once()
				c.On("Set", "plan:7", mock.Anything, time.Hour).Return(errors.New("redis down")).Once()
				r.On("GetUserByUsername", mock.Anything, "user1").Return(testUser, nil).Once()
				p.On("Publish", rabbitmq.PlanGeneratedKey, mock.Anything).Return(nil).Once()
			},
			wantID:   7,
			wantKcal: 1500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			gen := new(GeneratorMock)
			pub := new(PublisherMock)
			svc := NewPlanService(repo, cache, gen, pub, systemRole, newNoopLogger())

			tt.setupMocks(repo, cache, gen, pub)

			plan, err := svc.Generate(context.Background(), "user1", tt.req)
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
				assert.Nil(t, plan)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, plan.ID)
				assert.Equal(t, tt.wantKcal, plan.CalorieGoal)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
			gen.AssertExpectations(t)
			pub.AssertExpectations(t)
		})
	}
}

func TestPlanService_Read(t *testing.T) {
	plan := &models.MealPlan{ID: 7, Username: "user1", PlanText: "plan"}

	tests := []struct {
		name       string
		id         int
		username   string
		role       string
		setupMocks func(r *RepoMock, c *CacheMock)
		wantErr    error
	}{
		{
			name:     "cache miss reads repository",
			id:       7,
			username: "user1",
			role:     "user",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "plan:7", mock.Anything).Return(false, nil).Once()
				r.On("ReadPlan", mock.Anything, 7).Return(plan, nil).Once()
				c.On("Set", "plan:7", plan, time.Hour).Return(nil).Once()
			},
		},
		{
			name:     "foreign plan forbidden",
			id:       7,
			username: "user2",
			role:     "user",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "plan:7", mock.Anything).Return(false, nil).Once()
				r.On("ReadPlan", mock.Anything, 7).Return(plan, nil).Once()
				c.On("Set", "plan:7", plan, time.Hour).Return(nil).Once()
			},
			wantErr: ErrForbidden,
		},
		{
			name:     "foreign plan allowed for admin",
			id:       7,
			username: "admin1",
			role:     "admin",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "plan:7", mock.Anything).Return(false, nil).Once()
				r.On("ReadPlan", mock.Anything, 7).Return(plan, nil).Once()
				c.On("Set", "plan:7", plan, time.Hour).Return(nil).Once()
			},
		},
		{
			name:     "repository error",
			id:       8,
			username: "user1",
			role:     "user",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "plan:8", mock.Anything).Return(false, nil).Once()
				r.On("ReadPlan", mock.Anything, 8).Return(nil, errors.New("not found")).Once()
			},
			wantErr: errors.New("not found"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			svc := NewPlanService(repo, cache, new(GeneratorMock), new(PublisherMock), systemRole, newNoopLogger())

			tt.setupMocks(repo, cache)

			got, err := svc.Read(context.Background(), tt.id, tt.username, tt.role)
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, plan, got)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestPlanService_List(t *testing.T) {
	plans := []*models.MealPlan{{ID: 1, Username: "user1"}}

	t.Run("user sees own history", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ListPlans", mock.Anything, "user1", 10, 0).Return(plans, nil).Once()
		svc := NewPlanService(repo, new(CacheMock), new(GeneratorMock), new(PublisherMock), systemRole, newNoopLogger())

		got, err := svc.List(context.Background(), "user1", "user", 10, 0)
		assert.NoError(t, err)
		assert.Equal(t, plans, got)
		repo.AssertExpectations(t)
	})

	t.Run("admin sees all plans", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ListAllPlans", mock.Anything, 10, 0).Return(plans, nil).Once()
		svc := NewPlanService(repo, new(CacheMock), new(GeneratorMock), new(PublisherMock), systemRole, newNoopLogger())

		got, err := svc.List(context.Background(), "admin1", "admin", 10, 0)
		assert.NoError(t, err)
		assert.Equal(t, plans, got)
		repo.AssertExpectations(t)
	})
}

func TestPlanService_Remove(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock, p *PublisherMock)
		wantCount  int
		wantErr    bool
	}{
		{
			name: "успешное удаление публикует событие",
			setupMocks: func(r *RepoMock, c *CacheMock, p *PublisherMock) {
				c.On("Invalidate", "plan:5").Return(nil).Once()
				r.On("RemovePlan", mock.Anything, 5, "user1").Return(1, nil).Once()
				p.On("Publish", rabbitmq.PlanDeletedKey, mock.MatchedBy(func(info models.DeleteInfo) bool {
					return info.PlanID == 5 && info.Username == "user1"
				})).Return(nil).Once()
			},
			wantCount: 1,
		},
		{
			name: "ничего не удалено - событие не публикуется",
			setupMocks: func(r *RepoMock, c *CacheMock, _ *PublisherMock) {
				c.On("Invalidate", "plan:5").Return(nil).Once()
				r.On("RemovePlan", mock.Anything, 5, "user1").Return(0, nil).Once()
			},
			wantCount: 0,
		},
		{
			name: "ошибка репозитория",
			setupMocks: func(r *RepoMock, c *CacheMock, _ *PublisherMock) {
				c.On("Invalidate", "plan:5").Return(nil).Once()
				r.On("RemovePlan", mock.Anything, 5, "user1").Return(0, errors.New("db error")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			pub := new(PublisherMock)
			svc := NewPlanService(repo, cache, new(GeneratorMock), pub, systemRole, newNoopLogger())

			tt.setupMocks(repo, cache, pub)

			count, err := svc.Remove(context.Background(), 5, "user1")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantCount, count)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
			pub.AssertExpectations(t)
		})
	}
}

func TestPlanService_RemoveAccount(t *testing.T) {
	plans := []*models.MealPlan{{ID: 1, Username: "user1"}, {ID: 2, Username: "user1"}}

	t.Run("удаление учётной записи с планами", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		pub := new(PublisherMock)
		repo.On("ListPlans", mock.Anything, "user1", 1000, 0).Return(plans, nil).Once()
		cache.On("Invalidate", "plan:1").Return(nil).Once()
		cache.On("Invalidate", "plan:2").Return(nil).Once()
		repo.On("RemoveUser", mock.Anything, "user1").Return(1, nil).Once()
		pub.On("Publish", rabbitmq.AccountDeletedKey, mock.MatchedBy(func(info models.DeleteInfo) bool {
			return info.Username == "user1" && info.PlanID == 0
		})).Return(nil).Once()

		svc := NewPlanService(repo, cache, new(GeneratorMock), pub, systemRole, newNoopLogger())

		count, err := svc.RemoveAccount(context.Background(), "user1")
		assert.NoError(t, err)
		assert.Equal(t, 1, count)

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("учётная запись не найдена", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		pub := new(PublisherMock)
		repo.On("ListPlans", mock.Anything, "ghost", 1000, 0).Return([]*models.MealPlan{}, nil).Once()
		repo.On("RemoveUser", mock.Anything, "ghost").Return(0, nil).Once()

		svc := NewPlanService(repo, cache, new(GeneratorMock), pub, systemRole, newNoopLogger())

		count, err := svc.RemoveAccount(context.Background(), "ghost")
		assert.NoError(t, err)
		assert.Equal(t, 0, count)

		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})
}
