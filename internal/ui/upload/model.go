package upload

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mhaas/mealie-term/internal/mealie"
	"github.com/mhaas/mealie-term/internal/model"
	"github.com/mhaas/mealie-term/internal/theme"
)

// UploadResultMsg carries the outcome of a recipe import.
type UploadResultMsg struct {
	Slug string
	Err  error
}

// Import modes offered by the form.
const (
	modeURL    = "url"
	modePaste  = "paste"
	modeImage  = "image"
	modeManual = "manual"
)

// formBindings keeps form values stable across model copies.
type formBindings struct {
	mode string
	url  string
	data string
	path string

	name         string
	description  string
	ingredients  string
	instructions string
}

// Model is the recipe import screen.
type Model struct {
	client   *mealie.Client
	language string

	form   *huh.Form
	fb     *formBindings
	busy   bool
	result *UploadResultMsg
	width  int
	height int
}

// New creates the import screen. language is passed to the server when
// importing from an image so the extracted text gets translated.
func New(client *mealie.Client, language string, width, height int) Model {
	return Model{
		client:   client,
		language: language,
		fb:       &formBindings{},
		width:    width,
		height:   height,
	}
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Init builds a fresh form. Each import mode gets its own form group,
// hidden unless its mode is selected.
func (m *Model) Init() tea.Cmd {
	m.busy = false
	m.result = nil
	*m.fb = formBindings{mode: modeURL}
	fb := m.fb

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Import from").
				Options(
					huh.NewOption("Website URL", modeURL),
					huh.NewOption("Pasted JSON or HTML", modePaste),
					huh.NewOption("Photo of a recipe", modeImage),
					huh.NewOption("Typed in by hand", modeManual),
				).
				Value(&fb.mode),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("URL").
				Placeholder("https://...").
				Value(&fb.url),
		).WithHideFunc(func() bool { return fb.mode != modeURL }),
		huh.NewGroup(
			huh.NewText().
				Title("Pasted data").
				Placeholder("schema.org JSON or a saved HTML page").
				Value(&fb.data),
		).WithHideFunc(func() bool { return fb.mode != modePaste }),
		huh.NewGroup(
			huh.NewInput().
				Title("Image path").
				Placeholder("/path/to/photo.jpg").
				Value(&fb.path),
		).WithHideFunc(func() bool { return fb.mode != modeImage }),
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fb.name),
			huh.NewInput().
				Title("Description").
				Value(&fb.description),
			huh.NewText().
				Title("Ingredients").
				Placeholder("one per line, e.g. 2 Eier").
				Value(&fb.ingredients),
			huh.NewText().
				Title("Steps").
				Placeholder("one per line").
				Value(&fb.instructions),
		).WithHideFunc(func() bool { return fb.mode != modeManual }),
	).WithWidth(m.width).WithShowHelp(false)

	return m.form.Init()
}

// Update handles messages for the import screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case UploadResultMsg:
		m.busy = false
		m.result = &msg
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		if m.result != nil {
			// Any key starts the form over after a finished import.
			cmd := m.Init()
			return m, cmd
		}
	}

	if m.form == nil || m.busy {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.busy = true
		return m, m.submit()
	}

	return m, cmd
}

func (m Model) submit() tea.Cmd {
	client := m.client
	fb := *m.fb
	language := m.language

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		var slug string
		var err error
		switch fb.mode {
		case modeURL:
			url := strings.TrimSpace(fb.url)
			if url == "" {
				return UploadResultMsg{Err: &mealie.ValidationError{Msg: "a URL is required"}}
			}
			slug, err = client.CreateRecipeFromURL(ctx, url)
		case modePaste:
			data := strings.TrimSpace(fb.data)
			if data == "" {
				return UploadResultMsg{Err: &mealie.ValidationError{Msg: "paste the recipe data first"}}
			}
			slug, err = client.CreateRecipeFromJSON(ctx, data)
		case modeImage:
			path := strings.TrimSpace(fb.path)
			if path == "" {
				return UploadResultMsg{Err: &mealie.ValidationError{Msg: "an image path is required"}}
			}
			slug, err = client.UploadRecipeImage(ctx, path, language)
		case modeManual:
			payload, perr := manualPayload(fb)
			if perr != nil {
				return UploadResultMsg{Err: perr}
			}
			slug = payload.Name
			err = client.CreateRecipe(ctx, payload)
		}
		return UploadResultMsg{Slug: slug, Err: err}
	}
}

// manualPayload turns the typed-in form into a structured create body,
// one ingredient and one step per line.
func manualPayload(fb formBindings) (model.RecipeCreatePayload, error) {
	name := strings.TrimSpace(fb.name)
	if name == "" {
		return model.RecipeCreatePayload{}, &mealie.ValidationError{Msg: "the recipe needs a name"}
	}

	payload := model.RecipeCreatePayload{
		Name:        name,
		Description: strings.TrimSpace(fb.description),
	}
	for _, line := range strings.Split(fb.ingredients, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			payload.Ingredients = append(payload.Ingredients,
				model.RecipeCreateIngredient{Note: line})
		}
	}
	for _, line := range strings.Split(fb.instructions, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			payload.Instructions = append(payload.Instructions,
				model.RecipeCreateInstruction{Text: line})
		}
	}
	if len(payload.Ingredients) == 0 {
		return model.RecipeCreatePayload{}, &mealie.ValidationError{Msg: "at least one ingredient is required"}
	}
	return payload, nil
}

// View renders the import screen.
func (m Model) View() string {
	var body string
	switch {
	case m.busy:
		body = theme.HelpStyle.Render("Importing recipe, this can take a while...")
	case m.result != nil && m.result.Err != nil:
		body = theme.OfflineBarStyle.Render("Import failed: "+m.result.Err.Error()) +
			"\n\n" + theme.HelpStyle.Render("press any key to try again")
	case m.result != nil:
		body = "Imported as " + m.result.Slug +
			"\n\n" + theme.HelpStyle.Render("press any key to import another recipe")
	case m.form != nil:
		body = m.form.View()
	}

	header := theme.HeaderStyle.Render("Import recipe")
	return lipgloss.NewStyle().Width(m.width).Render(header + "\n\n" + body)
}
