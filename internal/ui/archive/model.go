package archive

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mhaas/mealie-term/internal/keys"
	"github.com/mhaas/mealie-term/internal/shopping"
	"github.com/mhaas/mealie-term/internal/theme"
)

// Model shows the locally kept snapshots of archived shopping lists.
type Model struct {
	engine *shopping.Engine
	keys   *keys.KeyMap

	cursor   int
	expanded map[int]bool
	width    int
	height   int
}

// New creates the archive screen.
func New(engine *shopping.Engine, k *keys.KeyMap, width, height int) Model {
	return Model{
		engine:   engine,
		keys:     k,
		expanded: make(map[int]bool),
		width:    width,
		height:   height,
	}
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the archive screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	count := len(m.engine.Archives())

	switch {
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < count-1 {
			m.cursor++
		}

	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, m.keys.Select), key.Matches(keyMsg, m.keys.Collapse):
		if count > 0 {
			m.expanded[m.cursor] = !m.expanded[m.cursor]
		}

	case key.Matches(keyMsg, m.keys.Delete):
		if count > 0 {
			m.engine.DeleteArchive(m.cursor)
			m.expanded = make(map[int]bool)
			if m.cursor >= count-1 && m.cursor > 0 {
				m.cursor--
			}
		}

	default:
		if keyMsg.String() == "D" {
			m.engine.ClearArchives()
			m.cursor = 0
			m.expanded = make(map[int]bool)
		}
	}

	return m, nil
}

// View renders the archived snapshots.
func (m Model) View() string {
	archives := m.engine.Archives()

	var b strings.Builder
	b.WriteString(theme.HeaderStyle.Render("Archived lists"))
	b.WriteString("\n\n")

	if len(archives) == 0 {
		b.WriteString(theme.HelpStyle.Render("No archived lists yet. Archive the shopping list with A."))
		return lipgloss.NewStyle().Width(m.width).Render(b.String())
	}

	for i, a := range archives {
		line := fmt.Sprintf("%s  (%d items)",
			a.ArchivedAt.Format("2006-01-02 15:04"), len(a.Items))
		if i == m.cursor {
			b.WriteString(theme.SelectedItemStyle.Render(line))
		} else {
			b.WriteString(theme.ListItemStyle.Render(line))
		}
		b.WriteString("\n")

		if m.expanded[i] {
			for _, item := range a.Items {
				mark := "[ ]"
				if item.Checked {
					mark = "[x]"
				}
				b.WriteString(theme.CheckedItemStyle.Render("  " + mark + " " + item.Note))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render("enter show items | d delete | D delete all"))

	return lipgloss.NewStyle().Width(m.width).Render(b.String())
}
