package shopping

import (
	"regexp"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mhaas/mealie-term/internal/model"
)

// UnlabeledCategory is the fallback group name for items without a
// label.
const UnlabeledCategory = "Unlabeled"

// orderingPrefix matches the cosmetic "<number>. " prefix some label
// names carry purely to force a server-side ordering. It is stripped
// for display but kept as the grouping and collapse key.
var orderingPrefix = regexp.MustCompile(`^\d+\.\s*`)

// Group is one display category of the shopping list.
type Group struct {
	// Name is the raw category key (label name or UnlabeledCategory).
	Name string

	// DisplayName is Name with any ordering prefix stripped.
	DisplayName string

	// Color is the hex color of the group's label, if any.
	Color string

	// Items are the visible items, unchecked before checked, notes in
	// collation order within each partition.
	Items []model.ShoppingItem

	// UncheckedCount is the number of open items in the group.
	UncheckedCount int
}

// Groups partitions the items into ordered display categories. Checked
// items are filtered out first unless showCompleted is set; empty
// groups never appear. Ordering of group names and of notes within a
// group is locale-aware and case-insensitive for the given language.
func Groups(items []model.ShoppingItem, showCompleted bool, lang language.Tag) []Group {
	coll := collate.New(lang, collate.IgnoreCase)

	byName := make(map[string][]model.ShoppingItem)
	for _, it := range items {
		if it.Checked && !showCompleted {
			continue
		}
		name := it.Category()
		if name == "" {
			name = UnlabeledCategory
		}
		byName[name] = append(byName[name], it)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return coll.CompareString(names[i], names[j]) < 0
	})

	groups := make([]Group, 0, len(names))
	for _, name := range names {
		grouped := byName[name]

		// Note order breaks ties inside each checked/unchecked
		// partition; checked state is the dominant key.
		sort.SliceStable(grouped, func(i, j int) bool {
			if grouped[i].Checked != grouped[j].Checked {
				return !grouped[i].Checked
			}
			return coll.CompareString(grouped[i].Note, grouped[j].Note) < 0
		})

		unchecked := 0
		color := ""
		for _, it := range grouped {
			if !it.Checked {
				unchecked++
			}
			if color == "" && it.Label != nil {
				color = it.Label.Color
			}
		}

		groups = append(groups, Group{
			Name:           name,
			DisplayName:    DisplayName(name),
			Color:          color,
			Items:          grouped,
			UncheckedCount: unchecked,
		})
	}

	return groups
}

// DisplayName strips the cosmetic ordering prefix from a category name.
func DisplayName(name string) string {
	return orderingPrefix.ReplaceAllString(name, "")
}
