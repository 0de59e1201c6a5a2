// Package models содержит доменные структуры, описывающие план питания,
// а также вспомогательные типы для работы с данными из внешних источников (например, JSON-запросы).
package models

import "time"

// MealPlan представляет собой основную модель сгенерированного плана питания,
// используемую в бизнес-логике и хранилище. Запись неизменяема: после
// генерации план только читается и может быть удалён вместе с учётной записью.
type MealPlan struct {
	ID               int       // Идентификатор записи
	Username         string    // Имя пользователя, которому принадлежит план
	Ingredients      []string  // Список ингредиентов, введённых пользователем
	CalorieGoal      int       // Дневной лимит калорий
	ExactIngredients bool      // Использовать только перечисленные ингредиенты
	Extra            string    // Дополнительные пожелания (например, gluten-free)
	PlanText         string    // Сгенерированный текст плана
	RecipeTitles     []string  // Названия рецептов из последней строки ответа
	CreatedAt        time.Time // Время генерации
}

// DummyGenerateRequest используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в MealPlan. Лимит калорий ограничен
// диапазоном оригинальной формы, при нуле подставляется значение 2000.
type DummyGenerateRequest struct {
	Ingredients      []string `json:"ingredients" validate:"required,min=1,dive,required"` // Ингредиенты, минимум один
	CalorieGoal      int      `json:"calorie_goal" validate:"omitempty,gte=1000,lte=5000"` // Лимит калорий (1000..5000)
	ExactIngredients bool     `json:"exact_ingredients"`                                   // Только перечисленные ингредиенты
	Extra            string   `json:"extra" validate:"max=200"`                            // Дополнительные пожелания
}

// PlanInfo передается через очередь воркерам экспорта и рассылки.
type PlanInfo struct {
	EventID     string    `json:"event_id"`
	PlanID      int       `json:"plan_id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	CalorieGoal int       `json:"calorie_goal"`
	Ingredients []string  `json:"ingredients"`
	PlanText    string    `json:"plan_text"`
	CreatedAt   time.Time `json:"created_at"`
}

// DeleteInfo передается через очередь при удалении плана или учётной записи.
// При удалении учётной записи PlanID равен нулю и очищаются все строки пользователя.
type DeleteInfo struct {
	EventID  string `json:"event_id"`
	PlanID   int    `json:"plan_id"`
	Username string `json:"username"`
}

// ExportLogEntry хранит диапазон листа, в который была выгружена запись плана.
type ExportLogEntry struct {
	ID         int
	PlanID     int
	Username   string
	SheetRange string
}
