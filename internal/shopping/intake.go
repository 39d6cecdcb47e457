package shopping

import (
	"github.com/mhaas/mealie-term/internal/model"
	"github.com/mhaas/mealie-term/internal/note"
)

// Intake converts a recipe's ingredient list into the batch fed to
// Engine.AddIngredients: it filters to the caller-selected subset and
// applies an optional quantity scale to each note's leading amount.
// Notes without a leading number pass through unscaled.
func Intake(ingredients []model.Ingredient, factor float64, onlySelected bool) []model.Ingredient {
	out := make([]model.Ingredient, 0, len(ingredients))
	for _, ing := range ingredients {
		if onlySelected && !ing.Selected {
			continue
		}
		if factor != 1 {
			ing.Note = note.Scale(ing.Note, factor)
		}
		out = append(out, ing)
	}
	return out
}
