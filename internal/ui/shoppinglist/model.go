package shoppinglist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"

	"github.com/mhaas/mealie-term/internal/keys"
	"github.com/mhaas/mealie-term/internal/mealie"
	"github.com/mhaas/mealie-term/internal/model"
	"github.com/mhaas/mealie-term/internal/shopping"
	"github.com/mhaas/mealie-term/internal/theme"
)

// EditItemMsg asks the root model to open the item editor.
type EditItemMsg struct {
	Item model.ShoppingItem
}

// ArchivedMsg reports that the list was archived, for a root-level
// notice.
type ArchivedMsg struct {
	ItemCount int
}

// row is one rendered line: a category header or an item.
type row struct {
	header bool
	group  shopping.Group
	item   model.ShoppingItem
}

// Model is the shopping list screen. It renders the engine's canonical
// collection as collapsible category groups and drives every engine
// operation from key input.
type Model struct {
	engine *shopping.Engine
	status *mealie.Status
	cfg    *model.AppConfig
	keys   *keys.KeyMap

	cursor    int
	rows      []row
	input     textinput.Model
	inputMode bool
	width     int
	height    int
}

// New creates the shopping list screen.
func New(engine *shopping.Engine, status *mealie.Status, cfg *model.AppConfig, k *keys.KeyMap, width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "add item, e.g. 2 Eier"
	ti.Prompt = "+ "
	ti.Width = width - 4

	m := Model{
		engine: engine,
		status: status,
		cfg:    cfg,
		keys:   k,
		input:  ti,
		width:  width,
		height: height,
	}
	m.rebuild()
	return m
}

// Init loads the list and labels from the server.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.engine.Load(), m.engine.LoadLabels())
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 4
}

// Rebuild recomputes the visible rows after the engine state changed.
func (m *Model) Rebuild() {
	m.rebuild()
}

// InputActive reports whether the add field is capturing text.
func (m Model) InputActive() bool {
	return m.inputMode
}

func (m *Model) rebuild() {
	lang := language.Make(m.cfg.Display.Language)
	groups := shopping.Groups(m.engine.Items(), m.cfg.Display.ShowCompleted, lang)

	m.rows = m.rows[:0]
	for _, g := range groups {
		m.rows = append(m.rows, row{header: true, group: g})
		if m.cfg.CategoryCollapsed(g.Name) {
			continue
		}
		for _, it := range g.Items {
			m.rows = append(m.rows, row{item: it, group: g})
		}
	}

	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Update handles messages for the shopping list screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case shopping.ItemsLoadedMsg, shopping.LabelsLoadedMsg,
		shopping.ToggleResultMsg, shopping.ManualAddResultMsg,
		shopping.BatchAddResultMsg, shopping.UpdateResultMsg:
		// Engine state was already reconciled by the root model.
		m.rebuild()
		return m, nil

	case tea.KeyMsg:
		if m.inputMode {
			return m.handleInputKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// handleInputKeys processes key input while the add field is focused.
func (m Model) handleInputKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		m.inputMode = false
		m.input.Reset()
		m.input.Blur()
		if value == "" {
			return m, nil
		}
		cmd, err := m.engine.AddManual(value, nil)
		if err != nil {
			return m, nil
		}
		return m, cmd

	case "esc":
		m.inputMode = false
		m.input.Reset()
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in browse mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
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

	case key.Matches(msg, m.keys.Add):
		// The add affordance is withdrawn while disconnected; further
		// optimistic adds would silently fail.
		if !m.status.Connected() {
			return m, nil
		}
		m.inputMode = true
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Refresh):
		return m, tea.Batch(m.engine.Load(), m.engine.LoadLabels())

	case key.Matches(msg, m.keys.ShowCompleted):
		m.cfg.Display.ShowCompleted = !m.cfg.Display.ShowCompleted
		m.rebuild()
		return m, nil

	case key.Matches(msg, m.keys.Collapse):
		if r, ok := m.currentRow(); ok {
			m.cfg.ToggleCategoryCollapsed(r.group.Name)
			m.rebuild()
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if r, ok := m.currentRow(); ok && !r.header {
			cmd := m.engine.ToggleCompletion(r.item.ID)
			m.rebuild()
			return m, cmd
		}
		if r, ok := m.currentRow(); ok && r.header {
			m.cfg.ToggleCategoryCollapsed(r.group.Name)
			m.rebuild()
		}
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		if r, ok := m.currentRow(); ok && !r.header {
			item := r.item
			return m, func() tea.Msg { return EditItemMsg{Item: item} }
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if r, ok := m.currentRow(); ok && !r.header {
			cmd := m.engine.DeleteIngredients([]string{r.item.ID})
			m.rebuild()
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, m.keys.Archive):
		count := len(m.engine.Items())
		cmd := m.engine.ArchiveList()
		if cmd == nil {
			return m, nil
		}
		m.rebuild()
		return m, tea.Batch(cmd, func() tea.Msg {
			return ArchivedMsg{ItemCount: count}
		})
	}

	return m, nil
}

func (m Model) currentRow() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

// View renders the grouped shopping list.
func (m Model) View() string {
	var b strings.Builder

	if len(m.rows) == 0 {
		b.WriteString(m.renderEmptyState())
	} else {
		b.WriteString(m.renderRows())
	}

	b.WriteString("\n")
	if m.status.Connected() {
		if m.inputMode {
			b.WriteString(m.input.View())
		} else {
			b.WriteString(theme.HelpStyle.Render("n add item"))
		}
	} else {
		b.WriteString(theme.OfflineBarStyle.Render(
			"connection lost – pull to refresh with r",
		))
	}

	return b.String()
}

func (m Model) renderRows() string {
	visible := m.height - 3
	if visible < 1 {
		visible = 1
	}

	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := start + visible
	if end > len(m.rows) {
		end = len(m.rows)
	}

	var lines []string
	for i := start; i < end; i++ {
		lines = append(lines, m.renderRow(m.rows[i], i == m.cursor))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(r row, selected bool) string {
	if r.header {
		chip := theme.CategoryStyle(r.group.Color).Render(r.group.DisplayName)
		badge := theme.BadgeStyle.Render(fmt.Sprintf("%d", r.group.UncheckedCount))
		marker := "▾"
		if m.cfg.CategoryCollapsed(r.group.Name) {
			marker = "▸"
		}
		line := lipgloss.JoinHorizontal(lipgloss.Top, chip, " ", badge, " ", marker)
		if selected {
			return theme.SelectedItemStyle.Render(line)
		}
		return line
	}

	check := "[ ]"
	if r.item.Checked {
		check = "[x]"
	}
	line := check + " " + r.item.Note

	switch {
	case selected:
		return theme.SelectedItemStyle.Render(line)
	case r.item.Checked:
		return theme.CheckedItemStyle.Render(line)
	default:
		return theme.ListItemStyle.Render(line)
	}
}

func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if !m.status.Connected() {
		return style.Render("Server unreachable.\nPress r to retry.")
	}
	return style.Render("Shopping list is empty.\n\nPress n to add an item.")
}
