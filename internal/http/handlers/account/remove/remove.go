// Package remove реализует HTTP-обработчик удаления учётной записи.
//
// Учётная запись удаляется вместе со всеми планами пользователя. Очистка
// зеркалированных строк внешней таблицы выполняется асинхронно воркером
// экспорта по событию из очереди.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/ai-meal-planner/internal/http/middlewarectx"
	"github.com/magabrotheeeer/ai-meal-planner/internal/http/response"
	"github.com/magabrotheeeer/ai-meal-planner/internal/lib/sl"
)

// Handler управляет HTTP-запросами удаления учётной записи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления учётной записи.
type Service interface {
	RemoveAccount(ctx context.Context, username string) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить учётную запись
// @Description Удаляет пользователя вместе со всеми его планами питания.
// @Tags Account
// @Produce  json
// @Success 200 {object} map[string]any "Учётная запись удалена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Учётная запись не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /account [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	count, err := h.service.RemoveAccount(r.Context(), username)
	if err != nil {
		log.Error("failed to remove account", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove account"))
		return
	}
	if count == 0 {
		log.Error("account not found", slog.String("username", username))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("account not found"))
		return
	}

	log.Info("success to remove account", slog.String("username", username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"username": username,
		"message":  "account removed successfully",
	}))
}
