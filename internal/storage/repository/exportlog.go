package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/ai-meal-planner/internal/models"
)

// Журнал экспорта хранит диапазоны листа, в которые выгружены записи планов.
// Таблица намеренно без внешних ключей: строки журнала должны переживать
// удаление пользователя, пока воркер не очистит зеркалированные диапазоны.

// AddExportEntry сохраняет диапазон листа для выгруженного плана и возвращает ID записи.
func (s *Storage) AddExportEntry(ctx context.Context, entry models.ExportLogEntry) (int, error) {
	const op = "storage.AddExportEntry"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO export_log (plan_id, username, sheet_range)
			  VALUES ($1, $2, $3)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		entry.PlanID, entry.Username, entry.SheetRange).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListExportEntries возвращает все записи журнала экспорта пользователя.
func (s *Storage) ListExportEntries(ctx context.Context, username string) ([]*models.ExportLogEntry, error) {
	const op = "storage.ListExportEntries"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, plan_id, username, sheet_range
			  FROM export_log
			  WHERE username = $1`
	rows, err := s.DB.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.ExportLogEntry
	for rows.Next() {
		var e models.ExportLogEntry
		if err = rows.Scan(&e.ID, &e.PlanID, &e.Username, &e.SheetRange); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetExportEntryByPlanID возвращает запись журнала экспорта по ID плана.
func (s *Storage) GetExportEntryByPlanID(ctx context.Context, planID int) (*models.ExportLogEntry, error) {
	const op = "storage.GetExportEntryByPlanID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, plan_id, username, sheet_range
			  FROM export_log
			  WHERE plan_id = $1`
	e := &models.ExportLogEntry{}
	row := s.DB.QueryRowContext(ctx, query, planID)
	if err := row.Scan(&e.ID, &e.PlanID, &e.Username, &e.SheetRange); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

// RemoveExportEntriesByUsername удаляет записи журнала экспорта пользователя.
func (s *Storage) RemoveExportEntriesByUsername(ctx context.Context, username string) (int, error) {
	const op = "storage.RemoveExportEntriesByUsername"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM export_log
			  WHERE username = $1`
	res, err := s.DB.ExecContext(ctx, query, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}

// RemoveExportEntryByPlanID удаляет запись журнала экспорта по ID плана.
func (s *Storage) RemoveExportEntryByPlanID(ctx context.Context, planID int) (int, error) {
	const op = "storage.RemoveExportEntryByPlanID"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM export_log
			  WHERE plan_id = $1`
	res, err := s.DB.ExecContext(ctx, query, planID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}
