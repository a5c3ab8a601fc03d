package service

import (
	"strings"

	"github.com/vbonduro/recipelens/internal/session"
)

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}

func recipePrompt(ingredients []string) string {
	return "You are a world-renowned chef. Based on the given ingredients, " +
		"suggest a creative and delicious recipe that enhances their flavors.\n\n" +
		"Ingredients: " + joinNames(ingredients) + "\n\nRecipe:"
}

func dishDescription(ingredients []string) string {
	return "Recipe for ingredients: " + joinNames(ingredients)
}

func recipeTitle(ingredients []string) string {
	return "Recipe for Ingredients: " + joinNames(ingredients)
}

// chatPrompt grounds the query in what the session last detected and cooked.
func chatPrompt(snap session.Snapshot, query string) string {
	var b strings.Builder
	b.WriteString("You are a knowledgeable culinary assistant. ")
	if len(snap.Ingredients) > 0 {
		b.WriteString("Detected ingredients: " + joinNames(snap.Ingredients) + ". ")
	}
	if snap.Dish != "" {
		b.WriteString("Current dish: " + snap.Dish + ". ")
	} else {
		b.WriteString("No specific dish is being prepared. ")
	}
	b.WriteString("\n\nUser Query: " + query + "\n\nResponse:")
	return b.String()
}

// splitLines trims every line of a completion and drops the blank ones.
func splitLines(text string) []string {
	lines := []string{}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
