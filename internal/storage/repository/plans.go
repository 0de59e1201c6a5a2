package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/ai-meal-planner/internal/models"
)

// Ингредиенты хранятся одной текстовой колонкой, по одному в строке,
// названия рецептов — через запятую, как в последней строке ответа генератора.

func joinIngredients(items []string) string {
	return strings.Join(items, "\n")
}

func splitIngredients(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "\n")
}

func joinTitles(items []string) string {
	return strings.Join(items, ", ")
}

func splitTitles(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			result = append(result, t)
		}
	}
	return result
}

// CreatePlan сохраняет новую запись плана питания и возвращает её ID.
func (s *Storage) CreatePlan(ctx context.Context, plan models.MealPlan) (int, error) {
	const op = "storage.CreatePlan"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO meal_plans (username, ingredients, calorie_goal,
			      exact_ingredients, extra, plan_text, recipe_titles, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		plan.Username, joinIngredients(plan.Ingredients), plan.CalorieGoal,
		plan.ExactIngredients, plan.Extra, plan.PlanText,
		joinTitles(plan.RecipeTitles), plan.CreatedAt).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadPlan возвращает запись плана питания по ID.
func (s *Storage) ReadPlan(ctx context.Context, id int) (*models.MealPlan, error) {
	const op = "storage.ReadPlan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, username, ingredients, calorie_goal, exact_ingredients,
			      extra, plan_text, recipe_titles, created_at
			  FROM meal_plans
			  WHERE id = $1`
	p := &models.MealPlan{}
	row := s.DB.QueryRowContext(ctx, query, id)

	var ingredients, titles string
	if err := row.Scan(&p.ID, &p.Username, &ingredients, &p.CalorieGoal,
		&p.ExactIngredients, &p.Extra, &p.PlanText, &titles, &p.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p.Ingredients = splitIngredients(ingredients)
	p.RecipeTitles = splitTitles(titles)
	return p, nil
}

// ListPlans возвращает историю планов пользователя с пагинацией, новые записи первыми.
func (s *Storage) ListPlans(ctx context.Context, username string, limit, offset int) ([]*models.MealPlan, error) {
	const op = "storage.ListPlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, username, ingredients, calorie_goal, exact_ingredients,
			      extra, plan_text, recipe_titles, created_at
			  FROM meal_plans
			  WHERE username = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, username, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	return scanPlans(rows, op)
}

// ListAllPlans возвращает список всех планов с пагинацией, доступен роли admin.
func (s *Storage) ListAllPlans(ctx context.Context, limit, offset int) ([]*models.MealPlan, error) {
	const op = "storage.ListAllPlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, username, ingredients, calorie_goal, exact_ingredients,
			      extra, plan_text, recipe_titles, created_at
			  FROM meal_plans
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	return scanPlans(rows, op)
}

// RemovePlan удаляет план по ID, принадлежащий указанному пользователю,
// и возвращает количество удалённых записей.
func (s *Storage) RemovePlan(ctx context.Context, id int, username string) (int, error) {
	const op = "storage.RemovePlan"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM meal_plans
			  WHERE id = $1 AND username = $2`
	res, err := s.DB.ExecContext(ctx, query, id, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}

func scanPlans(rows *sql.Rows, op string) ([]*models.MealPlan, error) {
	var result []*models.MealPlan
	for rows.Next() {
		var p models.MealPlan
		var ingredients, titles string
		if err := rows.Scan(&p.ID, &p.Username, &ingredients, &p.CalorieGoal,
			&p.ExactIngredients, &p.Extra, &p.PlanText, &titles, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		p.Ingredients = splitIngredients(ingredients)
		p.RecipeTitles = splitTitles(titles)
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
