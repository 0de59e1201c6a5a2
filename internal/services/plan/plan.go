// Package services содержит бизнес-логику генерации и хранения планов питания,
// включая кеширование и публикацию событий для воркеров экспорта и рассылки.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/ai-meal-planner/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/ai-meal-planner/internal/models"
	"github.com/magabrotheeeer/ai-meal-planner/internal/openai"
)

// ErrForbidden возвращается при попытке чтения чужого плана без роли admin.
var ErrForbidden = errors.New("access denied")

// ErrGeneration возвращается, когда внешний генератор не вернул план.
// Запись в этом случае не создается.
var ErrGeneration = errors.New("generation failed")

// PlanRepository определяет методы для работы с планами питания в хранилище.
type PlanRepository interface {
	// CreatePlan добавляет новую запись плана и возвращает её ID.
	CreatePlan(ctx context.Context, plan models.MealPlan) (int, error)
	// ReadPlan возвращает план по ID.
	ReadPlan(ctx context.Context, id int) (*models.MealPlan, error)
	// ListPlans возвращает историю планов пользователя с пагинацией.
	ListPlans(ctx context.Context, username string, limit, offset int) ([]*models.MealPlan, error)
	// ListAllPlans возвращает список всех планов с пагинацией.
	ListAllPlans(ctx context.Context, limit, offset int) ([]*models.MealPlan, error)
	// RemovePlan удаляет план пользователя по ID и возвращает количество удалённых записей.
	RemovePlan(ctx context.Context, id int, username string) (int, error)
	// RemoveUser удаляет учётную запись вместе с планами.
	RemoveUser(ctx context.Context, username string) (int, error)
	// GetUserByUsername возвращает пользователя по имени.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Generator описывает клиент внешнего сервиса генерации текста.
type Generator interface {
	Chat(ctx context.Context, messages []openai.Message) (string, error)
}

// Publisher публикует события планов питания для воркеров.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// PlanService реализует бизнес-логику планов питания.
type PlanService struct {
	repo       PlanRepository
	cache      Cache
	generator  Generator
	publisher  Publisher
	systemRole string
	log        *slog.Logger
}

// NewPlanService создает новый экземпляр PlanService.
func NewPlanService(repo PlanRepository, cache Cache, generator Generator, publisher Publisher, systemRole string, log *slog.Logger) *PlanService {
	return &PlanService{
		repo:       repo,
		cache:      cache,
		generator:  generator,
		publisher:  publisher,
		systemRole: systemRole,
		log:        log,
	}
}

// Generate строит промпт из ингредиентов и ограничений пользователя, вызывает
// внешний генератор, сохраняет полученный план и публикует события для
// экспорта в таблицу и отправки письма. При ошибке генерации запись не создается.
func (s *PlanService) Generate(ctx context.Context, username string, req models.DummyGenerateRequest) (*models.MealPlan, error) {
	kcal := req.CalorieGoal
	if kcal == 0 {
		kcal = defaultCalorieGoal
	}

	prompt := buildPrompt(req.Ingredients, kcal, req.ExactIngredients, req.Extra)
	messages := []openai.Message{
		{Role: "system", Content: s.systemRole},
		{Role: "user", Content: prompt},
	}

	planText, err := s.generator.Chat(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	plan := models.MealPlan{
		Username:         username,
		Ingredients:      req.Ingredients,
		CalorieGoal:      kcal,
		ExactIngredients: req.ExactIngredients,
		Extra:            req.Extra,
		PlanText:         planText,
		RecipeTitles:     extractTitles(planText),
		CreatedAt:        time.Now().UTC(),
	}

	id, err := s.repo.CreatePlan(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = id
	s.log.Info("created new meal plan", slog.Int("id", id))

	cacheKey := fmt.Sprintf("plan:%d", id)
	if err := s.cache.Set(cacheKey, plan, time.Hour); err != nil {
		s.log.Warn("failed to cache meal plan", slog.String("key", cacheKey), slog.Any("err", err))
	}

	s.publishPlanEvent(ctx, &plan)

	return &plan, nil
}

func (s *PlanService) publishPlanEvent(ctx context.Context, plan *models.MealPlan) {
	user, err := s.repo.GetUserByUsername(ctx, plan.Username)
	if err != nil {
		s.log.Warn("failed to load user for plan event", slog.Any("err", err))
		return
	}
	info := models.PlanInfo{
		EventID:     uuid.NewString(),
		PlanID:      plan.ID,
		Username:    plan.Username,
		Email:       user.Email,
		CalorieGoal: plan.CalorieGoal,
		Ingredients: plan.Ingredients,
		PlanText:    plan.PlanText,
		CreatedAt:   plan.CreatedAt,
	}
	if err := s.publisher.Publish(rabbitmq.PlanGeneratedKey, info); err != nil {
		s.log.Warn("failed to publish plan event", slog.Any("err", err))
	}
}

// Read возвращает план по ID, используя кеш или репозиторий.
// Чужой план доступен только роли admin.
func (s *PlanService) Read(ctx context.Context, id int, username, role string) (*models.MealPlan, error) {
	var result *models.MealPlan
	cacheKey := fmt.Sprintf("plan:%d", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if !found {
		result, err = s.repo.ReadPlan(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
		}
	}
	if result.Username != username && role != "admin" {
		return nil, ErrForbidden
	}
	return result, nil
}

// List возвращает историю планов в зависимости от роли пользователя.
func (s *PlanService) List(ctx context.Context, username, role string, limit, offset int) ([]*models.MealPlan, error) {
	if role == "admin" {
		return s.repo.ListAllPlans(ctx, limit, offset)
	}
	return s.repo.ListPlans(ctx, username, limit, offset)
}

// Remove удаляет план пользователя, инвалидирует кеш и публикует событие,
// чтобы воркер экспорта очистил зеркалированную строку таблицы.
func (s *PlanService) Remove(ctx context.Context, id int, username string) (int, error) {
	cacheKey := fmt.Sprintf("plan:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	count, err := s.repo.RemovePlan(ctx, id, username)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		info := models.DeleteInfo{EventID: uuid.NewString(), PlanID: id, Username: username}
		if err := s.publisher.Publish(rabbitmq.PlanDeletedKey, info); err != nil {
			s.log.Warn("failed to publish plan delete event", slog.Any("err", err))
		}
	}
	return count, nil
}

// RemoveAccount удаляет учётную запись пользователя вместе со всеми планами,
// инвалидирует кеш и публикует событие очистки зеркалированных строк.
// Очистка таблицы выполняется асинхронно воркером экспорта.
func (s *PlanService) RemoveAccount(ctx context.Context, username string) (int, error) {
	plans, err := s.repo.ListPlans(ctx, username, 1000, 0)
	if err != nil {
		return 0, err
	}
	for _, p := range plans {
		cacheKey := fmt.Sprintf("plan:%d", p.ID)
		if err := s.cache.Invalidate(cacheKey); err != nil {
			s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
		}
	}

	count, err := s.repo.RemoveUser(ctx, username)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		info := models.DeleteInfo{EventID: uuid.NewString(), Username: username}
		if err := s.publisher.Publish(rabbitmq.AccountDeletedKey, info); err != nil {
			s.log.Warn("failed to publish account delete event", slog.Any("err", err))
		}
	}
	return count, nil
}
