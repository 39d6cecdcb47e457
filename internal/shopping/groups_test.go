package shopping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/mhaas/mealie-term/internal/model"
)

func labeled(id, note, labelName string, checked bool) model.ShoppingItem {
	return model.ShoppingItem{
		ID:      id,
		Note:    note,
		Checked: checked,
		Label:   &model.Label{ID: "lbl-" + labelName, Name: labelName, Color: "#AABBCC"},
	}
}

func TestGroupsPartitionByCategory(t *testing.T) {
	items := []model.ShoppingItem{
		labeled("a", "Milch", "Dairy", false),
		labeled("b", "Joghurt", "Dairy", false),
		labeled("c", "Äpfel", "Produce", false),
		item("d", "Kerzen", false), // no label
	}

	groups := Groups(items, true, language.German)
	require.Len(t, groups, 3)

	// Every item lands in exactly one group.
	total := 0
	for _, g := range groups {
		total += len(g.Items)
		assert.NotEmpty(t, g.Items, "empty groups must not appear")
	}
	assert.Equal(t, len(items), total)

	names := []string{groups[0].Name, groups[1].Name, groups[2].Name}
	assert.Contains(t, names, "Dairy")
	assert.Contains(t, names, "Produce")
	assert.Contains(t, names, UnlabeledCategory)
}

func TestGroupsHidesCompleted(t *testing.T) {
	items := []model.ShoppingItem{
		labeled("a", "Milch", "Dairy", true),
		labeled("b", "Joghurt", "Dairy", false),
		labeled("c", "Äpfel", "Produce", true),
	}

	groups := Groups(items, false, language.German)
	require.Len(t, groups, 1, "a fully checked group disappears")
	assert.Equal(t, "Dairy", groups[0].Name)
	require.Len(t, groups[0].Items, 1)
	assert.Equal(t, "Joghurt", groups[0].Items[0].Note)
}

func TestGroupsUncheckedBeforeChecked(t *testing.T) {
	items := []model.ShoppingItem{
		labeled("a", "Butter", "Dairy", true),
		labeled("b", "Milch", "Dairy", false),
		labeled("c", "Joghurt", "Dairy", true),
		labeled("d", "Sahne", "Dairy", false),
	}

	groups := Groups(items, true, language.German)
	require.Len(t, groups, 1)

	notes := make([]string, 0, 4)
	for _, it := range groups[0].Items {
		notes = append(notes, it.Note)
	}
	// Unchecked first, collation order inside each partition.
	assert.Equal(t, []string{"Milch", "Sahne", "Butter", "Joghurt"}, notes)
	assert.Equal(t, 2, groups[0].UncheckedCount)
}

func TestGroupsCaseInsensitiveOrder(t *testing.T) {
	items := []model.ShoppingItem{
		labeled("a", "zucker", "Pantry", false),
		labeled("b", "Apfelmus", "Pantry", false),
		labeled("c", "MEHL", "Pantry", false),
	}

	groups := Groups(items, true, language.German)
	require.Len(t, groups, 1)

	notes := []string{groups[0].Items[0].Note, groups[0].Items[1].Note, groups[0].Items[2].Note}
	assert.Equal(t, []string{"Apfelmus", "MEHL", "zucker"}, notes)
}

func TestGroupsCarryLabelColor(t *testing.T) {
	items := []model.ShoppingItem{labeled("a", "Milch", "Dairy", false)}
	groups := Groups(items, true, language.German)
	require.Len(t, groups, 1)
	assert.Equal(t, "#AABBCC", groups[0].Color)
}

func TestDisplayNameStripsOrderingPrefix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"01. Obst & Gemüse", "Obst & Gemüse"},
		{"2.Backwaren", "Backwaren"},
		{"Dairy", "Dairy"},
		{"3 Sorten Käse", "3 Sorten Käse"}, // no dot, not an ordering prefix
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DisplayName(tt.in), "input %q", tt.in)
	}
}

func TestGroupsDisplayNameKeepsRawKey(t *testing.T) {
	items := []model.ShoppingItem{labeled("a", "Brot", "01. Backwaren", false)}
	groups := Groups(items, true, language.German)
	require.Len(t, groups, 1)

	// The raw name stays the grouping/collapse key, only the display
	// form is stripped.
	assert.Equal(t, "01. Backwaren", groups[0].Name)
	assert.Equal(t, "Backwaren", groups[0].DisplayName)
}
