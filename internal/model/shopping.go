package model

import "time"

// ShoppingItem is a single entry on a Mealie shopping list. The id is
// assigned by the server on creation; optimistic placeholder items carry
// a client-minted UUID until the server response replaces them.
type ShoppingItem struct {
	ID             string   `json:"id"`
	Note           string   `json:"note,omitempty"`
	Checked        bool     `json:"checked"`
	ShoppingListID string   `json:"shoppingListId"`
	Label          *Label   `json:"label,omitempty"`
	Quantity       *float64 `json:"quantity,omitempty"`
}

// Category returns the grouping key for the item: the label name, or
// the empty string when the item is unlabeled.
func (i ShoppingItem) Category() string {
	if i.Label != nil {
		return i.Label.Name
	}
	return ""
}

// Label is a server-owned grouping tag. The client only ever selects
// labels; it never creates or mutates them.
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// ShoppingList identifies one of the household's shopping lists. The
// active list is chosen once during setup and stored in configuration.
type ShoppingList struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ArchivedList is a frozen snapshot of the shopping list taken at
// archive time. Snapshots live only for the current session.
type ArchivedList struct {
	ArchivedAt time.Time
	Items      []ShoppingItem
}
