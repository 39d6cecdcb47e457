package itemform

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/mhaas/mealie-term/internal/model"
)

// ItemSavedMsg is dispatched when the user submits the editor.
type ItemSavedMsg struct {
	ID       string
	Note     string
	Label    *model.Label
	Quantity *float64
}

// ItemFormCancelMsg is dispatched when the user cancels the editor.
type ItemFormCancelMsg struct{}

// noLabelID marks the "no label" select option.
const noLabelID = ""

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	note     string
	labelID  string
	quantity string
}

// Model is the Bubble Tea model for the shopping item editor.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	itemID string
	labels []model.Label
	width  int
	height int
}

// New creates a new item editor model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Start initializes the editor for an item with the available labels.
func (m *Model) Start(item model.ShoppingItem, labels []model.Label) tea.Cmd {
	m.itemID = item.ID
	m.labels = labels
	m.fb.note = item.Note
	m.fb.labelID = noLabelID
	if item.Label != nil {
		m.fb.labelID = item.Label.ID
	}
	m.fb.quantity = ""
	if item.Quantity != nil {
		m.fb.quantity = strconv.FormatFloat(*item.Quantity, 'f', -1, 64)
	}

	labelOptions := make([]huh.Option[string], 0, len(labels)+1)
	labelOptions = append(labelOptions, huh.NewOption("(no label)", noLabelID))
	for _, l := range labels {
		labelOptions = append(labelOptions, huh.NewOption(l.Name, l.ID))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Item").
				Value(&m.fb.note).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errEmptyNote
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Label").
				Options(labelOptions...).
				Value(&m.fb.labelID),
			huh.NewInput().
				Title("Quantity").
				Placeholder("optional, e.g. 2.5").
				Value(&m.fb.quantity).
				Validate(validateQuantity),
		),
	).WithWidth(m.width).WithShowHelp(false)

	return m.form.Init()
}

// Update handles messages for the item editor.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		return m, func() tea.Msg { return ItemFormCancelMsg{} }
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		saved := ItemSavedMsg{
			ID:       m.itemID,
			Note:     strings.TrimSpace(m.fb.note),
			Label:    m.selectedLabel(),
			Quantity: parseQuantity(m.fb.quantity),
		}
		return m, func() tea.Msg { return saved }
	}

	return m, cmd
}

// View renders the editor form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	return m.form.View()
}

func (m Model) selectedLabel() *model.Label {
	if m.fb.labelID == noLabelID {
		return nil
	}
	for i := range m.labels {
		if m.labels[i].ID == m.fb.labelID {
			return &m.labels[i]
		}
	}
	return nil
}

var errEmptyNote = &emptyNoteError{}

type emptyNoteError struct{}

func (*emptyNoteError) Error() string { return "item text must not be empty" }

type quantityError struct{}

func (*quantityError) Error() string { return "quantity must be a positive number" }

func validateQuantity(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil || v <= 0 {
		return &quantityError{}
	}
	return nil
}

func parseQuantity(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}
