package recipelist

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mhaas/mealie-term/internal/keys"
	"github.com/mhaas/mealie-term/internal/mealie"
	"github.com/mhaas/mealie-term/internal/model"
	"github.com/mhaas/mealie-term/internal/theme"
)

// RecipesLoadedMsg is sent when the recipe summaries have been fetched.
type RecipesLoadedMsg struct {
	Recipes []model.RecipeSummary
	Err     error
}

// SelectedRecipeMsg is sent when a user opens a recipe.
type SelectedRecipeMsg struct {
	RecipeID string
}

// RecipeItem adapts a summary for the bubbles list.
type RecipeItem struct {
	Recipe model.RecipeSummary
}

func (i RecipeItem) Title() string { return i.Recipe.Name }

func (i RecipeItem) Description() string {
	if i.Recipe.Description != "" {
		return i.Recipe.Description
	}
	names := make([]string, 0, len(i.Recipe.Tags))
	for _, t := range i.Recipe.Tags {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
}

func (i RecipeItem) FilterValue() string { return i.Recipe.Name }

// Model is the recipe browser screen.
type Model struct {
	list   list.Model
	client *mealie.Client
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates the recipe list screen.
func New(client *mealie.Client, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), width, height)
	l.Title = "Recipes"
	l.SetShowHelp(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		client: client,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init loads the recipe summaries.
func (m Model) Init() tea.Cmd {
	return m.LoadRecipes()
}

// LoadRecipes returns a command that fetches all recipe summaries.
func (m Model) LoadRecipes() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		recipes, err := client.FetchRecipes(ctx)
		return RecipesLoadedMsg{Recipes: recipes, Err: err}
	}
}

// Update handles messages for the recipe list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RecipesLoadedMsg:
		if msg.Err != nil {
			return m, nil
		}
		items := make([]list.Item, len(msg.Recipes))
		for i, r := range msg.Recipes {
			items[i] = RecipeItem{Recipe: r}
		}
		return m, m.list.SetItems(items)

	case RecipeDeletedMsg:
		if msg.Err != nil {
			return m, nil
		}
		return m, m.LoadRecipes()

	case tea.KeyMsg:
		// Let the built-in filter consume keys first.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			item, ok := m.list.SelectedItem().(RecipeItem)
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return SelectedRecipeMsg{RecipeID: item.Recipe.ID}
			}
		case "r":
			return m, m.LoadRecipes()
		case "d":
			item, ok := m.list.SelectedItem().(RecipeItem)
			if !ok {
				return m, nil
			}
			return m, m.deleteRecipe(item.Recipe.ID)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// RecipeDeletedMsg reports a remote recipe delete; the list reloads on
// success.
type RecipeDeletedMsg struct {
	Err error
}

// deleteRecipe removes a recipe remotely and reloads the list.
func (m Model) deleteRecipe(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := client.DeleteRecipe(ctx, id)
		return RecipeDeletedMsg{Err: err}
	}
}

// FilterActive reports whether the built-in filter is capturing text.
func (m Model) FilterActive() bool {
	return m.list.FilterState() == list.Filtering
}

// View renders the recipe list.
func (m Model) View() string {
	return m.list.View()
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}
