// Package services содержит логику воркера экспорта: зеркалирование записей
// планов питания в таблицу и очистку зеркалированных строк при удалении
// плана или учётной записи. Таблица — необязательная копия основного
// хранилища, согласованность с ним поддерживается через журнал экспорта.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/ai-meal-planner/internal/lib/sl"
	"github.com/magabrotheeeer/ai-meal-planner/internal/models"
)

// ExportRepository определяет методы журнала экспорта в хранилище.
type ExportRepository interface {
	AddExportEntry(ctx context.Context, entry models.ExportLogEntry) (int, error)
	ListExportEntries(ctx context.Context, username string) ([]*models.ExportLogEntry, error)
	GetExportEntryByPlanID(ctx context.Context, planID int) (*models.ExportLogEntry, error)
	RemoveExportEntriesByUsername(ctx context.Context, username string) (int, error)
	RemoveExportEntryByPlanID(ctx context.Context, planID int) (int, error)
}

// SheetClient описывает клиент таблицы.
type SheetClient interface {
	AppendRow(ctx context.Context, row []any) (string, error)
	ClearRange(ctx context.Context, rangeA1 string) error
}

// ExportService обрабатывает события из очередей экспорта.
type ExportService struct {
	repo  ExportRepository
	sheet SheetClient
	log   *slog.Logger
}

// NewExportService создает новый экземпляр ExportService.
func NewExportService(repo ExportRepository, sheet SheetClient, log *slog.Logger) *ExportService {
	return &ExportService{
		repo:  repo,
		sheet: sheet,
		log:   log,
	}
}

// HandlePlanGenerated добавляет строку плана в таблицу и записывает
// диапазон в журнал экспорта. Колонки строки: время, пользователь,
// лимит калорий, ингредиенты, текст плана.
func (s *ExportService) HandlePlanGenerated(body []byte) error {
	var message models.PlanInfo
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	ctx := context.Background()
	row := []any{
		message.CreatedAt.Format(time.RFC3339),
		message.Username,
		message.CalorieGoal,
		strings.Join(message.Ingredients, "\n"),
		message.PlanText,
	}
	sheetRange, err := s.sheet.AppendRow(ctx, row)
	if err != nil {
		s.log.Error("failed to append row to sheet", sl.Err(err))
		return err
	}

	entry := models.ExportLogEntry{
		PlanID:     message.PlanID,
		Username:   message.Username,
		SheetRange: sheetRange,
	}
	if _, err := s.repo.AddExportEntry(ctx, entry); err != nil {
		s.log.Error("failed to record export entry", sl.Err(err))
		return err
	}

	s.log.Info("plan mirrored to sheet",
		slog.Int("plan_id", message.PlanID), slog.String("range", sheetRange))
	return nil
}

// HandlePlanDeleted очищает строку удалённого плана по диапазону из журнала.
// Если план не был зеркалирован, событие считается обработанным.
func (s *ExportService) HandlePlanDeleted(body []byte) error {
	var message models.DeleteInfo
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	ctx := context.Background()
	entry, err := s.repo.GetExportEntryByPlanID(ctx, message.PlanID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.sheet.ClearRange(ctx, entry.SheetRange); err != nil {
		s.log.Error("failed to clear sheet range", sl.Err(err))
		return err
	}
	if _, err := s.repo.RemoveExportEntryByPlanID(ctx, message.PlanID); err != nil {
		return err
	}

	s.log.Info("cleared mirrored plan row",
		slog.Int("plan_id", message.PlanID), slog.String("range", entry.SheetRange))
	return nil
}

// HandleAccountDeleted очищает все зеркалированные строки пользователя
// и удаляет его записи из журнала экспорта.
func (s *ExportService) HandleAccountDeleted(body []byte) error {
	var message models.DeleteInfo
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	ctx := context.Background()
	entries, err := s.repo.ListExportEntries(ctx, message.Username)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := s.sheet.ClearRange(ctx, entry.SheetRange); err != nil {
			s.log.Error("failed to clear sheet range",
				slog.String("range", entry.SheetRange), sl.Err(err))
			return err
		}
	}
	if _, err := s.repo.RemoveExportEntriesByUsername(ctx, message.Username); err != nil {
		return err
	}

	s.log.Info("cleared mirrored rows for deleted account",
		slog.String("username", message.Username), slog.Int("rows", len(entries)))
	return nil
}
