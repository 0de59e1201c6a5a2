// Package generate реализует HTTP-обработчик генерации нового плана питания.
//
// Handler принимает JSON-запрос с ингредиентами и ограничениями, валидирует их,
// извлекает имя пользователя из контекста, вызывает бизнес-логику генерации
// и возвращает созданную запись в JSON-формате.
//
// В случае ошибок формируются соответствующие HTTP-ответы с описанием проблемы.
package generate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/ai-meal-planner/internal/http/middlewarectx"
	"github.com/magabrotheeeer/ai-meal-planner/internal/http/response"
	"github.com/magabrotheeeer/ai-meal-planner/internal/lib/sl"
	"github.com/magabrotheeeer/ai-meal-planner/internal/models"
	planservice "github.com/magabrotheeeer/ai-meal-planner/internal/services/plan"
)

// Handler управляет HTTP-запросами на генерацию планов питания.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики генерации планов
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики генерации плана.
type Service interface {
	Generate(ctx context.Context, username string, req models.DummyGenerateRequest) (*models.MealPlan, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Сгенерировать план питания
// @Description Строит промпт из ингредиентов и ограничений, вызывает внешний генератор и сохраняет запись.
// @Tags Plans
// @Accept  json
// @Produce  json
// @Param request body models.DummyGenerateRequest true "Ингредиенты и ограничения"
// @Success 200 {object} map[string]any "Созданный план"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Сервис генерации недоступен"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при сохранении плана"
// @Router /plans [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.generate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	plan, err := h.service.Generate(r.Context(), username, req)
	if err != nil {
		log.Error("failed to generate meal plan", sl.Err(err))
		if errors.Is(err, planservice.ErrGeneration) {
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("meal plan generation failed"))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create meal plan"))
		return
	}

	log.Info("success to generate meal plan", slog.Int("id", plan.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id":            plan.ID,
		"plan_text":     plan.PlanText,
		"recipe_titles": plan.RecipeTitles,
		"created_at":    plan.CreatedAt,
	}))
}
