package services

import (
	"fmt"
	"strings"
)

// defaultCalorieGoal подставляется, когда лимит калорий в запросе не задан.
const defaultCalorieGoal = 2000

// buildPrompt собирает текст запроса к генератору. Формулировки инструкций
// сохранены из оригинального продукта, включая контракт последней строки:
// она содержит только названия рецептов через запятую.
func buildPrompt(ingredients []string, kcal int, exactIngredients bool, extra string) string {
	var b strings.Builder

	ingredientsList := strings.Join(ingredients, "\n")

	b.WriteString(fmt.Sprintf("Create a healthy daily meal plan for breakfast, lunch, and dinner based on the following ingredients: ```%s```\n", ingredientsList))
	b.WriteString("Your output should be in the text format.\n\n")
	b.WriteString("Follow the instructions below carefully.\n\n")
	b.WriteString("### Instructions:\n")
	if exactIngredients {
		b.WriteString("1. Use ONLY the provided ingredients with salt, pepper, and spices.\n")
	} else {
		b.WriteString("1. Feel free to incorporate other common pantry staples.\n")
	}
	b.WriteString("2. Specify the exact amount of each ingredient.\n")
	b.WriteString(fmt.Sprintf("3. Ensure that the total daily calorie intake is below %d.\n", kcal))
	b.WriteString("4. For each meal, explain each recipe, step by step, in clear and simple sentences. Use bullet points or numbers to organize the steps.\n")
	b.WriteString("5. For each meal, specify the total number of calories and the number of servings.\n")
	b.WriteString("6. For each meal, provide a concise and descriptive title that summarizes the main ingredients and flavors. The title should not be generic.\n")
	b.WriteString("7. For each recipe, indicate the prep, cook and total time.\n")
	if extra != "" {
		b.WriteString("8. If possible the meals should be: " + extra + "\n")
	}
	b.WriteString("9. Seperate the recipes with 50 dashes\n\n")
	b.WriteString("Before answering, make sure that you have followed the instructions listed above (points 1 to 7 or 8).\n")
	b.WriteString("The last line of your answer should be a string that contains ONLY the titles of the recipes and nothing more with a comma in between.\n")
	b.WriteString("Example of the last line of your answer:\n")
	b.WriteString("'Broccoli and Egg Scramble, Grilled Chicken and Vegetable, Baked fish and Cabbage Slaw'.\n")

	return b.String()
}

// extractTitles достает названия рецептов из последней непустой строки ответа.
func extractTitles(planText string) []string {
	lines := strings.Split(planText, "\n")
	var last string
	for i := len(lines) - 1; i >= 0; i-- {
		if trimmed := strings.TrimSpace(lines[i]); trimmed != "" {
			last = trimmed
			break
		}
	}
	if last == "" {
		return nil
	}
	last = strings.Trim(last, "'\".")

	parts := strings.Split(last, ",")
	titles := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			titles = append(titles, t)
		}
	}
	return titles
}
