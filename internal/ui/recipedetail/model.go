package recipedetail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mhaas/mealie-term/internal/keys"
	"github.com/mhaas/mealie-term/internal/mealie"
	"github.com/mhaas/mealie-term/internal/model"
	"github.com/mhaas/mealie-term/internal/note"
	"github.com/mhaas/mealie-term/internal/shopping"
	"github.com/mhaas/mealie-term/internal/theme"
)

// DetailLoadedMsg carries a fetched recipe.
type DetailLoadedMsg struct {
	Recipe model.RecipeDetail
	Err    error
}

// AddIngredientsMsg asks the root model to feed a scaled, filtered
// ingredient batch into the shopping engine.
type AddIngredientsMsg struct {
	Batch []model.Ingredient
}

// BackMsg returns to the recipe list.
type BackMsg struct{}

// scaleSteps are the selectable quantity multipliers.
var scaleSteps = []float64{0.5, 1, 1.5, 2, 2.5, 3}

// Model is the recipe detail screen with the ingredient picker.
type Model struct {
	client *mealie.Client
	keys   *keys.KeyMap

	recipe     model.RecipeDetail
	loaded     bool
	loading    bool
	cursor     int
	scaleIndex int
	width      int
	height     int
}

// New creates the recipe detail screen.
func New(client *mealie.Client, k *keys.KeyMap, width, height int) Model {
	return Model{
		client:     client,
		keys:       k,
		scaleIndex: 1,
		width:      width,
		height:     height,
	}
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Load returns a command fetching the full recipe.
func (m *Model) Load(recipeID string) tea.Cmd {
	m.loading = true
	m.loaded = false
	m.cursor = 0
	m.scaleIndex = 1

	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		detail, err := client.FetchRecipeDetail(ctx, recipeID)
		return DetailLoadedMsg{Recipe: detail, Err: err}
	}
}

// Factor returns the currently selected quantity multiplier.
func (m Model) Factor() float64 {
	return scaleSteps[m.scaleIndex]
}

// Update handles messages for the recipe detail screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DetailLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			return m, nil
		}
		m.recipe = msg.Recipe
		m.loaded = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return BackMsg{} }

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.recipe.Ingredients)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if m.loaded && m.cursor < len(m.recipe.Ingredients) {
			ing := &m.recipe.Ingredients[m.cursor]
			ing.Selected = !ing.Selected
		}
		return m, nil
	}

	switch msg.String() {
	case "+":
		if m.scaleIndex < len(scaleSteps)-1 {
			m.scaleIndex++
		}
		return m, nil

	case "-":
		if m.scaleIndex > 0 {
			m.scaleIndex--
		}
		return m, nil

	case "a":
		// Add only the selected ingredients.
		return m, m.addCmd(true)

	case "s":
		// Add everything.
		return m, m.addCmd(false)
	}

	return m, nil
}

func (m Model) addCmd(onlySelected bool) tea.Cmd {
	if !m.loaded {
		return nil
	}
	batch := shopping.Intake(m.recipe.Ingredients, m.Factor(), onlySelected)
	if len(batch) == 0 {
		return nil
	}
	return func() tea.Msg { return AddIngredientsMsg{Batch: batch} }
}

// View renders the recipe detail.
func (m Model) View() string {
	if m.loading {
		return theme.HelpStyle.Render("Loading recipe...")
	}
	if !m.loaded {
		return theme.HelpStyle.Render("Recipe could not be loaded. Press esc to go back.")
	}

	var b strings.Builder

	b.WriteString(theme.HeaderStyle.Render(m.recipe.Name))
	b.WriteString("\n")
	if m.recipe.Description != "" {
		b.WriteString(theme.HelpStyle.Render(m.recipe.Description))
		b.WriteString("\n")
	}
	if m.recipe.Image != "" {
		// Terminals can't show the image; print the media URL instead.
		b.WriteString(theme.HelpStyle.Render(m.client.RecipeImageURL(m.recipe.Image)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("Ingredients (×%g)\n", m.Factor()))
	for i, ing := range m.recipe.Ingredients {
		mark := "[ ]"
		if ing.Selected {
			mark = "[+]"
		}
		line := mark + " " + note.Scale(ing.Note, m.Factor())
		if i == m.cursor {
			b.WriteString(theme.SelectedItemStyle.Render(line))
		} else {
			b.WriteString(theme.ListItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString("Instructions\n")
	for i, step := range m.recipe.Instructions {
		b.WriteString(theme.ListItemStyle.Render(
			fmt.Sprintf("%d. %s", i+1, step.Text),
		))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render(
		"space select | +/- scale | a add selected | s add all | esc back",
	))

	return lipgloss.NewStyle().Width(m.width).Render(b.String())
}
