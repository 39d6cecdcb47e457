package mealplan

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mhaas/mealie-term/internal/keys"
	"github.com/mhaas/mealie-term/internal/mealie"
	"github.com/mhaas/mealie-term/internal/model"
	"github.com/mhaas/mealie-term/internal/theme"
)

// EntriesLoadedMsg carries the fetched meal plan.
type EntriesLoadedMsg struct {
	Entries []model.MealplanEntry
	Err     error
}

// EntrySavedMsg is dispatched after a new entry was submitted remotely.
type EntrySavedMsg struct {
	Err error
}

// EntryDeletedMsg is dispatched after a remote delete.
type EntryDeletedMsg struct {
	ID  int
	Err error
}

// OpenRecipeMsg asks the root model to open a planned recipe.
type OpenRecipeMsg struct {
	RecipeID string
}

const dateFormat = "2006-01-02"

// noRecipeID marks the free-text option in the recipe select.
const noRecipeID = ""

// formBindings keeps form values stable across model copies.
type formBindings struct {
	date     string
	slot     string
	recipeID string
	title    string
}

// row is either a day header or an entry under it.
type row struct {
	header string
	entry  *model.MealplanEntry
}

// Model is the week-view meal plan screen.
type Model struct {
	client  *mealie.Client
	keys    *keys.KeyMap
	recipes []model.RecipeSummary

	entries []model.MealplanEntry
	rows    []row
	cursor  int
	loading bool

	form *huh.Form
	fb   *formBindings

	width  int
	height int
}

// New creates the meal plan screen.
func New(client *mealie.Client, k *keys.KeyMap, width, height int) Model {
	return Model{
		client: client,
		keys:   k,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetRecipes provides the recipe summaries for the add form's select.
func (m *Model) SetRecipes(recipes []model.RecipeSummary) {
	m.recipes = recipes
}

// FormActive reports whether the add form is capturing input.
func (m Model) FormActive() bool {
	return m.form != nil
}

// Init loads the current meal plan.
func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		entries, err := client.FetchMealplan(ctx)
		return EntriesLoadedMsg{Entries: entries, Err: err}
	}
}

// rebuild lays the entries out as a week of day headers, today first.
func (m *Model) rebuild() {
	byDate := make(map[string][]model.MealplanEntry)
	for _, e := range m.entries {
		byDate[e.Date] = append(byDate[e.Date], e)
	}

	m.rows = m.rows[:0]
	today := time.Now()
	for day := 0; day < 7; day++ {
		date := today.AddDate(0, 0, day).Format(dateFormat)
		m.rows = append(m.rows, row{header: date})

		dayEntries := byDate[date]
		sort.SliceStable(dayEntries, func(i, j int) bool {
			return slotRank(dayEntries[i].EntryType) < slotRank(dayEntries[j].EntryType)
		})
		for i := range dayEntries {
			e := dayEntries[i]
			m.rows = append(m.rows, row{entry: &e})
		}
	}

	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func slotRank(slot string) int {
	for i, s := range model.MealplanSlots {
		if s == slot {
			return i
		}
	}
	return len(model.MealplanSlots)
}

// Update handles messages for the meal plan screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EntriesLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			return m, nil
		}
		m.entries = msg.Entries
		m.rebuild()
		return m, nil

	case EntrySavedMsg:
		if msg.Err != nil {
			return m, nil
		}
		return m, m.load()

	case EntryDeletedMsg:
		if msg.Err != nil {
			// The optimistic removal was wrong, reload the truth.
			return m, m.load()
		}
		return m, nil

	case tea.KeyMsg:
		if m.form != nil {
			return m.updateForm(msg)
		}
		return m.handleKeys(msg)
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.load()

	case key.Matches(msg, m.keys.Select):
		if e := m.currentEntry(); e != nil && e.Recipe != nil {
			id := e.Recipe.ID
			return m, func() tea.Msg { return OpenRecipeMsg{RecipeID: id} }
		}
		return m, nil

	case key.Matches(msg, m.keys.Add):
		return m.startForm()

	case key.Matches(msg, m.keys.Delete):
		return m.deleteCurrent()
	}

	return m, nil
}

func (m Model) currentEntry() *model.MealplanEntry {
	if m.cursor < len(m.rows) {
		return m.rows[m.cursor].entry
	}
	return nil
}

func (m Model) deleteCurrent() (Model, tea.Cmd) {
	e := m.currentEntry()
	if e == nil {
		return m, nil
	}
	id := e.ID

	// Remove locally right away, reload on failure.
	kept := m.entries[:0:0]
	for _, entry := range m.entries {
		if entry.ID != id {
			kept = append(kept, entry)
		}
	}
	m.entries = kept
	m.rebuild()

	client := m.client
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := client.DeleteMealplanEntry(ctx, id)
		return EntryDeletedMsg{ID: id, Err: err}
	}
}

func (m Model) startForm() (Model, tea.Cmd) {
	defaultDate := time.Now().Format(dateFormat)
	if m.cursor < len(m.rows) {
		r := m.rows[m.cursor]
		switch {
		case r.header != "":
			defaultDate = r.header
		case r.entry != nil:
			defaultDate = r.entry.Date
		}
	}

	m.fb.date = defaultDate
	m.fb.slot = model.MealplanSlots[0]
	m.fb.recipeID = noRecipeID
	m.fb.title = ""

	dateOptions := make([]huh.Option[string], 0, 7)
	today := time.Now()
	for day := 0; day < 7; day++ {
		d := today.AddDate(0, 0, day)
		dateOptions = append(dateOptions,
			huh.NewOption(d.Format("Mon 2006-01-02"), d.Format(dateFormat)))
	}

	slotOptions := make([]huh.Option[string], 0, len(model.MealplanSlots))
	for _, s := range model.MealplanSlots {
		slotOptions = append(slotOptions, huh.NewOption(s, s))
	}

	recipeOptions := make([]huh.Option[string], 0, len(m.recipes)+1)
	recipeOptions = append(recipeOptions, huh.NewOption("(free text)", noRecipeID))
	for _, r := range m.recipes {
		recipeOptions = append(recipeOptions, huh.NewOption(r.Name, r.ID))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Day").
				Options(dateOptions...).
				Value(&m.fb.date),
			huh.NewSelect[string]().
				Title("Slot").
				Options(slotOptions...).
				Value(&m.fb.slot),
			huh.NewSelect[string]().
				Title("Recipe").
				Options(recipeOptions...).
				Value(&m.fb.recipeID),
			huh.NewInput().
				Title("Note").
				Placeholder("free-text entry, e.g. leftovers").
				Value(&m.fb.title),
		),
	).WithWidth(m.width).WithShowHelp(false)

	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.form = nil
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.form = nil
		return m, m.submitEntry()
	}

	return m, cmd
}

func (m Model) submitEntry() tea.Cmd {
	date := m.fb.date
	slot := m.fb.slot

	var recipeID, title *string
	if m.fb.recipeID != noRecipeID {
		id := m.fb.recipeID
		recipeID = &id
	} else if t := strings.TrimSpace(m.fb.title); t != "" {
		title = &t
	} else {
		return nil
	}

	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := client.AddMealplanEntry(ctx, date, slot, recipeID, title)
		return EntrySavedMsg{Err: err}
	}
}

// View renders the meal plan week.
func (m Model) View() string {
	if m.form != nil {
		return m.form.View()
	}
	if m.loading && len(m.rows) == 0 {
		return theme.HelpStyle.Render("Loading meal plan...")
	}

	var b strings.Builder
	b.WriteString(theme.HeaderStyle.Render("Meal plan"))
	b.WriteString("\n\n")

	for i, r := range m.rows {
		var line string
		if r.header != "" {
			line = theme.CategoryStyle("").Render(formatDay(r.header))
		} else {
			line = "  " + r.entry.EntryType + ": " + entryTitle(*r.entry)
		}
		if i == m.cursor {
			b.WriteString(theme.SelectedItemStyle.Render(line))
		} else if r.header != "" {
			b.WriteString(line)
		} else {
			b.WriteString(theme.ListItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render("n add | d delete | enter open recipe | r refresh"))

	return lipgloss.NewStyle().Width(m.width).Render(b.String())
}

func entryTitle(e model.MealplanEntry) string {
	if e.Recipe != nil {
		return e.Recipe.Name
	}
	return e.Title
}

func formatDay(date string) string {
	t, err := time.Parse(dateFormat, date)
	if err != nil {
		return date
	}
	return t.Format("Monday, 2 Jan")
}
