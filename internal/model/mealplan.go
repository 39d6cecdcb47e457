package model

// MealplanEntry is one planned meal slot. Free-text entries carry a
// Title and no Recipe; recipe entries carry a Recipe reference.
type MealplanEntry struct {
	ID        int            `json:"id"`
	Date      string         `json:"date"`
	EntryType string         `json:"entryType"`
	Recipe    *RecipeSummary `json:"recipe,omitempty"`
	Title     string         `json:"title,omitempty"`
}

// MealplanSlots lists the entry types Mealie accepts, in display order.
var MealplanSlots = []string{"breakfast", "lunch", "dinner", "side"}
