package setup

import (
	"context"
	"net/url"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mhaas/mealie-term/internal/credential"
	"github.com/mhaas/mealie-term/internal/mealie"
	"github.com/mhaas/mealie-term/internal/model"
	"github.com/mhaas/mealie-term/internal/theme"
)

// ListsLoadedMsg carries the shopping lists fetched during setup.
type ListsLoadedMsg struct {
	Lists []model.ShoppingList
	Err   error
}

// DoneMsg is dispatched when setup completed and the config was saved.
type DoneMsg struct {
	Config *model.AppConfig
	Err    error
}

// phases of the setup flow.
const (
	phaseConnection = iota
	phaseListPick
	phaseSaving
)

// formBindings keeps form values stable across model copies.
type formBindings struct {
	url         string
	token       string
	household   string
	language    string
	sendHeaders bool
	headerKeys  [3]string
	headerVals  [3]string
	listID      string
}

// Model is the first-run / settings screen. It collects the connection
// settings, verifies them by fetching the shopping lists, lets the user
// pick the active list, then persists config and token.
type Model struct {
	cfg        *model.AppConfig
	configPath string

	phase   int
	form    *huh.Form
	fb      *formBindings
	lists   []model.ShoppingList
	loadErr error

	width  int
	height int
}

// New creates the setup screen pre-filled from the current config.
func New(cfg *model.AppConfig, configPath string, width, height int) Model {
	return Model{
		cfg:        cfg,
		configPath: configPath,
		fb:         &formBindings{},
		width:      width,
		height:     height,
	}
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Init builds the connection form from the current configuration.
func (m *Model) Init() tea.Cmd {
	m.phase = phaseConnection
	m.loadErr = nil

	m.fb.url = m.cfg.Server.URL
	m.fb.household = m.cfg.Server.HouseholdID
	m.fb.language = m.cfg.Display.Language
	m.fb.sendHeaders = m.cfg.Server.SendOptionalHeaders
	m.fb.listID = m.cfg.Server.ShoppingListID
	for i := range m.fb.headerKeys {
		m.fb.headerKeys[i] = ""
		m.fb.headerVals[i] = ""
		if i < len(m.cfg.Server.OptionalHeaders) {
			m.fb.headerKeys[i] = m.cfg.Server.OptionalHeaders[i].Key
			m.fb.headerVals[i] = m.cfg.Server.OptionalHeaders[i].Value
		}
	}
	if tok, err := credential.Get(credential.TokenKey); err == nil {
		m.fb.token = tok
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Mealie server URL").
				Placeholder("https://mealie.example.com").
				Value(&m.fb.url).
				Validate(validateURL),
			huh.NewInput().
				Title("API token").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.token).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return &setupError{"an API token is required"}
					}
					return nil
				}),
			huh.NewInput().
				Title("Household").
				Value(&m.fb.household),
			huh.NewInput().
				Title("Language").
				Description("BCP 47 tag, e.g. de or en").
				Value(&m.fb.language),
			huh.NewConfirm().
				Title("Send extra headers?").
				Description("static headers for a proxy in front of a public instance").
				Value(&m.fb.sendHeaders),
		),
		huh.NewGroup(
			huh.NewInput().Title("Header 1 name").Value(&m.fb.headerKeys[0]),
			huh.NewInput().Title("Header 1 value").Value(&m.fb.headerVals[0]),
			huh.NewInput().Title("Header 2 name").Value(&m.fb.headerKeys[1]),
			huh.NewInput().Title("Header 2 value").Value(&m.fb.headerVals[1]),
			huh.NewInput().Title("Header 3 name").Value(&m.fb.headerKeys[2]),
			huh.NewInput().Title("Header 3 value").Value(&m.fb.headerVals[2]),
		).WithHideFunc(func() bool { return !m.fb.sendHeaders }),
	).WithWidth(m.width).WithShowHelp(false)

	return m.form.Init()
}

// Update handles messages for the setup screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ListsLoadedMsg:
		if msg.Err != nil {
			// Back to the connection form so the settings can be fixed.
			cmd := m.Init()
			m.loadErr = msg.Err
			return m, cmd
		}
		m.lists = msg.Lists
		m.phase = phaseListPick
		cmd := m.startListPick()
		return m, cmd

	case tea.KeyMsg:
		if m.form == nil {
			return m, nil
		}
	}

	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.form = nil
		switch m.phase {
		case phaseConnection:
			return m, m.verifyConnection()
		case phaseListPick:
			m.phase = phaseSaving
			return m, m.save()
		}
	}

	return m, cmd
}

// verifyConnection fetches the shopping lists with the entered
// settings. Success doubles as validation of URL and token.
func (m Model) verifyConnection() tea.Cmd {
	client := mealie.NewClient(mealie.Config{
		BaseURL:         strings.TrimSpace(m.fb.url),
		Token:           strings.TrimSpace(m.fb.token),
		OptionalHeaders: m.headerMap(),
	})

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		lists, err := client.FetchLists(ctx)
		return ListsLoadedMsg{Lists: lists, Err: err}
	}
}

func (m Model) headerMap() map[string]string {
	if !m.fb.sendHeaders {
		return nil
	}
	headers := make(map[string]string)
	for i := range m.fb.headerKeys {
		k := strings.TrimSpace(m.fb.headerKeys[i])
		v := strings.TrimSpace(m.fb.headerVals[i])
		if k != "" && v != "" {
			headers[k] = v
		}
	}
	return headers
}

func (m *Model) startListPick() tea.Cmd {
	options := make([]huh.Option[string], 0, len(m.lists))
	for _, l := range m.lists {
		options = append(options, huh.NewOption(l.Name, l.ID))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Shopping list").
				Description("all shopping operations target this list").
				Options(options...).
				Value(&m.fb.listID),
		),
	).WithWidth(m.width).WithShowHelp(false)

	return m.form.Init()
}

// save persists the token to the keyring and the rest to the YAML
// config, then hands the finished configuration to the root model.
func (m Model) save() tea.Cmd {
	cfg := *m.cfg
	cfg.Server.URL = strings.TrimRight(strings.TrimSpace(m.fb.url), "/")
	cfg.Server.HouseholdID = strings.TrimSpace(m.fb.household)
	cfg.Server.ShoppingListID = m.fb.listID
	cfg.Server.SendOptionalHeaders = m.fb.sendHeaders
	cfg.Server.OptionalHeaders = nil
	for i := range m.fb.headerKeys {
		k := strings.TrimSpace(m.fb.headerKeys[i])
		v := strings.TrimSpace(m.fb.headerVals[i])
		if k != "" && v != "" {
			cfg.Server.OptionalHeaders = append(cfg.Server.OptionalHeaders,
				model.HeaderPair{Key: k, Value: v})
		}
	}
	if lang := strings.TrimSpace(m.fb.language); lang != "" {
		cfg.Display.Language = lang
	}

	token := strings.TrimSpace(m.fb.token)
	path := m.configPath

	return func() tea.Msg {
		if err := credential.Set(credential.TokenKey, token); err != nil {
			return DoneMsg{Err: err}
		}
		if err := model.SaveConfig(path, &cfg); err != nil {
			return DoneMsg{Err: err}
		}
		return DoneMsg{Config: &cfg}
	}
}

// View renders the setup screen.
func (m Model) View() string {
	header := theme.HeaderStyle.Render("Settings")

	var body string
	switch {
	case m.form != nil:
		body = m.form.View()
		if m.loadErr != nil {
			body = theme.OfflineBarStyle.Render(
				"Could not reach the server: "+m.loadErr.Error(),
			) + "\n\n" + body
		}
	case m.phase == phaseSaving:
		body = theme.HelpStyle.Render("Saving...")
	default:
		body = theme.HelpStyle.Render("Checking connection...")
	}

	return lipgloss.NewStyle().Width(m.width).Render(header + "\n\n" + body)
}

func validateURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return &setupError{"the server URL is required"}
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &setupError{"enter a full http(s) URL"}
	}
	return nil
}

type setupError struct{ msg string }

func (e *setupError) Error() string { return e.msg }
