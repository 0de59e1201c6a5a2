package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		name             string
		ingredients      []string
		kcal             int
		exactIngredients bool
		extra            string
		wantContains     []string
		wantNotContains  []string
	}{
		{
			name:        "базовый промпт",
			ingredients: []string{"chicken", "rice"},
			kcal:        2000,
			wantContains: []string{
				"```chicken\nrice```",
				"1. Feel free to incorporate other common pantry staples.",
				"3. Ensure that the total daily calorie intake is below 2000.",
				"9. Seperate the recipes with 50 dashes",
				"ONLY the titles of the recipes",
			},
			wantNotContains: []string{
				"8. If possible the meals should be",
			},
		},
		{
			name:             "только указанные ингредиенты",
			ingredients:      []string{"eggs"},
			kcal:             1500,
			exactIngredients: true,
			wantContains: []string{
				"1. Use ONLY the provided ingredients with salt, pepper, and spices.",
				"below 1500.",
			},
			wantNotContains: []string{
				"pantry staples",
			},
		},
		{
			name:        "дополнительные пожелания",
			ingredients: []string{"tofu"},
			kcal:        1800,
			extra:       "gluten-free and vegan",
			wantContains: []string{
				"8. If possible the meals should be: gluten-free and vegan",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildPrompt(tt.ingredients, tt.kcal, tt.exactIngredients, tt.extra)

			for _, s := range tt.wantContains {
				assert.True(t, strings.Contains(got, s), "prompt should contain %q", s)
			}
			for _, s := range tt.wantNotContains {
				assert.False(t, strings.Contains(got, s), "prompt should not contain %q", s)
			}
		})
	}
}

func TestExtractTitles(t *testing.T) {
	tests := []struct {
		name     string
		planText string
		want     []string
	}{
		{
			name:     "названия в последней строке",
			planText: "Breakfast: ...\nLunch: ...\nDinner: ...\nBroccoli and Egg Scramble, Grilled Chicken and Vegetable, Baked fish and Cabbage Slaw",
			want:     []string{"Broccoli and Egg Scramble", "Grilled Chicken and Vegetable", "Baked fish and Cabbage Slaw"},
		},
		{
			name:     "кавычки и точка вокруг строки",
			planText: "plan body\n'Omelette, Salad'.",
			want:     []string{"Omelette", "Salad"},
		},
		{
			name:     "пустые строки в конце",
			planText: "plan body\nOmelette, Salad\n\n   \n",
			want:     []string{"Omelette", "Salad"},
		},
		{
			name:     "одно название",
			planText: "plan body\nOmelette",
			want:     []string{"Omelette"},
		},
		{
			name:     "пустой ответ",
			planText: "",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractTitles(tt.planText)
			assert.Equal(t, tt.want, got)
		})
	}
}
