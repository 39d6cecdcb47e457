// Package app wires the screens, the shopping engine and the Mealie
// client into the single root Bubble Tea model.
package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/mhaas/mealie-term/internal/credential"
	"github.com/mhaas/mealie-term/internal/keys"
	"github.com/mhaas/mealie-term/internal/mealie"
	"github.com/mhaas/mealie-term/internal/model"
	"github.com/mhaas/mealie-term/internal/shopping"
	"github.com/mhaas/mealie-term/internal/ui"
	"github.com/mhaas/mealie-term/internal/ui/archive"
	"github.com/mhaas/mealie-term/internal/ui/itemform"
	"github.com/mhaas/mealie-term/internal/ui/mealplan"
	"github.com/mhaas/mealie-term/internal/ui/recipedetail"
	"github.com/mhaas/mealie-term/internal/ui/recipelist"
	"github.com/mhaas/mealie-term/internal/ui/setup"
	"github.com/mhaas/mealie-term/internal/ui/shoppinglist"
	"github.com/mhaas/mealie-term/internal/ui/upload"
)

// screen identifies the active view.
type screen int

const (
	screenShopping screen = iota
	screenItemForm
	screenRecipes
	screenRecipeDetail
	screenMealplan
	screenUpload
	screenSetup
	screenArchive
)

// Model is the root Bubble Tea model.
type Model struct {
	cfg        *model.AppConfig
	configPath string
	token      string
	log        *zap.Logger

	client *mealie.Client
	status *mealie.Status
	engine *shopping.Engine
	keys   *keys.KeyMap
	layout ui.Layout

	active screen
	notice string

	// setupCmd carries the pre-built first-run setup form command;
	// tea calls Init on a copy, so the form must be built in New.
	setupCmd tea.Cmd

	shopping shoppinglist.Model
	itemForm itemform.Model
	recipes  recipelist.Model
	detail   recipedetail.Model
	mealplan mealplan.Model
	upload   upload.Model
	setup    setup.Model
	archive  archive.Model
}

// New creates the root model. token may be empty on a first run; the
// setup screen collects it.
func New(cfg *model.AppConfig, configPath, token string, log *zap.Logger) Model {
	m := Model{
		cfg:        cfg,
		configPath: configPath,
		token:      token,
		log:        log,
		keys:       keys.DefaultKeyMap(),
		layout:     ui.NewLayout(80, 24),
	}
	m.buildBackend()
	m.buildScreens()

	if !cfg.Configured() || token == "" {
		m.active = screenSetup
		m.setupCmd = m.setup.Init()
	}
	return m
}

// buildBackend (re)creates the client and engine from the current
// configuration. Called on startup and after setup completes.
func (m *Model) buildBackend() {
	headers := make(map[string]string)
	if m.cfg.Server.SendOptionalHeaders {
		for _, h := range m.cfg.Server.OptionalHeaders {
			headers[h.Key] = h.Value
		}
	}

	m.client = mealie.NewClient(mealie.Config{
		BaseURL:         m.cfg.Server.URL,
		Token:           m.token,
		OptionalHeaders: headers,
	})
	m.status = m.client.Status()
	m.engine = shopping.NewEngine(m.client, m.status, m.log, m.cfg.Server.ShoppingListID)
}

func (m *Model) buildScreens() {
	w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
	m.shopping = shoppinglist.New(m.engine, m.status, m.cfg, m.keys, w, h)
	m.itemForm = itemform.New(w, h)
	m.recipes = recipelist.New(m.client, m.keys, w, h)
	m.detail = recipedetail.New(m.client, m.keys, w, h)
	m.mealplan = mealplan.New(m.client, m.keys, w, h)
	m.upload = upload.New(m.client, m.cfg.Display.Language, w, h)
	m.setup = setup.New(m.cfg, m.configPath, w, h)
	m.archive = archive.New(m.engine, m.keys, w, h)
}

// Init starts the active screen.
func (m Model) Init() tea.Cmd {
	if m.active == screenSetup {
		return m.setupCmd
	}
	return tea.Batch(m.shopping.Init(), m.recipes.Init(), m.mealplan.Init())
}

// Update is the single mutation point for all application state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.persistPrefs()
			return m, tea.Quit
		}
		if next, cmd, handled := m.handleGlobalKeys(msg); handled {
			return next, cmd
		}

	// Engine results reconcile the canonical collection exactly once,
	// here, before any screen sees them.
	case shopping.ItemsLoadedMsg:
		m.engine.ApplyLoad(msg)
	case shopping.LabelsLoadedMsg:
		m.engine.ApplyLabels(msg)
	case shopping.ToggleResultMsg:
		m.engine.ApplyToggleResult(msg)
	case shopping.ManualAddResultMsg:
		m.engine.ApplyManualAddResult(msg)
	case shopping.BatchAddResultMsg:
		m.engine.ApplyBatchResult(msg)
		if msg.Added > 0 || msg.Skipped > 0 {
			m.notice = fmt.Sprintf("added %d, skipped %d duplicates", msg.Added, msg.Skipped)
		}
	case shopping.UpdateResultMsg:
		m.engine.ApplyUpdateResult(msg)

	// Screen-to-root requests.
	case shoppinglist.EditItemMsg:
		m.active = screenItemForm
		cmd := m.itemForm.Start(msg.Item, m.engine.Labels())
		return m, cmd

	case shoppinglist.ArchivedMsg:
		m.notice = fmt.Sprintf("archived %d items", msg.ItemCount)
		m.shopping.Rebuild()
		return m, nil

	case itemform.ItemSavedMsg:
		m.active = screenShopping
		cmd := m.engine.UpdateIngredient(msg.ID, msg.Note, msg.Label, msg.Quantity)
		m.shopping.Rebuild()
		return m, cmd

	case itemform.ItemFormCancelMsg:
		m.active = screenShopping
		return m, nil

	case recipelist.SelectedRecipeMsg:
		m.active = screenRecipeDetail
		cmd := m.detail.Load(msg.RecipeID)
		return m, cmd

	case recipelist.RecipesLoadedMsg:
		if msg.Err == nil {
			m.mealplan.SetRecipes(msg.Recipes)
		}

	case recipedetail.AddIngredientsMsg:
		m.active = screenShopping
		m.notice = fmt.Sprintf("adding %d ingredients...", len(msg.Batch))
		return m, m.engine.AddIngredients(msg.Batch)

	case recipedetail.BackMsg:
		m.active = screenRecipes
		return m, nil

	case mealplan.OpenRecipeMsg:
		m.active = screenRecipeDetail
		cmd := m.detail.Load(msg.RecipeID)
		return m, cmd

	case setup.DoneMsg:
		if msg.Err != nil {
			m.notice = "setup failed: " + msg.Err.Error()
			cmd := m.setup.Init()
			return m, cmd
		}
		return m.applySetup(msg.Config)
	}

	return m.routeToActive(msg)
}

// applySetup swaps in the saved configuration and rebuilds everything
// that depends on it.
func (m Model) applySetup(cfg *model.AppConfig) (tea.Model, tea.Cmd) {
	*m.cfg = *cfg
	if tok, err := tokenFromKeyring(); err == nil {
		m.token = tok
	}
	m.buildBackend()
	m.buildScreens()
	m.active = screenShopping
	m.notice = ""
	return m, tea.Batch(m.shopping.Init(), m.recipes.Init(), m.mealplan.Init())
}

func (m *Model) resize() {
	w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
	m.shopping.SetSize(w, h)
	m.itemForm.SetSize(w, h)
	m.recipes.SetSize(w, h)
	m.detail.SetSize(w, h)
	m.mealplan.SetSize(w, h)
	m.upload.SetSize(w, h)
	m.setup.SetSize(w, h)
	m.archive.SetSize(w, h)
}

// textEntryActive reports whether the active screen is capturing free
// text, in which case global single-letter shortcuts must not fire.
func (m Model) textEntryActive() bool {
	switch m.active {
	case screenItemForm, screenSetup, screenUpload:
		return true
	case screenShopping:
		return m.shopping.InputActive()
	case screenRecipes:
		return m.recipes.FilterActive()
	case screenMealplan:
		return m.mealplan.FormActive()
	}
	return false
}

func (m Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if m.textEntryActive() {
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.persistPrefs()
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.GoShopping):
		m.active = screenShopping
		m.shopping.Rebuild()
		return m, nil, true

	case key.Matches(msg, m.keys.GoRecipes):
		m.active = screenRecipes
		return m, nil, true

	case key.Matches(msg, m.keys.GoMealplan):
		m.active = screenMealplan
		return m, nil, true

	case key.Matches(msg, m.keys.GoUpload):
		m.active = screenUpload
		cmd := m.upload.Init()
		return m, cmd, true

	case key.Matches(msg, m.keys.GoArchive):
		m.active = screenArchive
		return m, nil, true

	case key.Matches(msg, m.keys.GoSetup):
		m.active = screenSetup
		cmd := m.setup.Init()
		return m, cmd, true
	}

	return m, nil, false
}

// routeToActive forwards a message to the screen that owns it. Engine
// results also reach the shopping screen when it is not active so its
// row cache never goes stale.
func (m Model) routeToActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.(type) {
	case shopping.ItemsLoadedMsg, shopping.LabelsLoadedMsg,
		shopping.ToggleResultMsg, shopping.ManualAddResultMsg,
		shopping.BatchAddResultMsg, shopping.UpdateResultMsg:
		m.shopping, cmd = m.shopping.Update(msg)
		return m, cmd
	}

	switch m.active {
	case screenShopping:
		m.shopping, cmd = m.shopping.Update(msg)
	case screenItemForm:
		m.itemForm, cmd = m.itemForm.Update(msg)
	case screenRecipes:
		m.recipes, cmd = m.recipes.Update(msg)
	case screenRecipeDetail:
		m.detail, cmd = m.detail.Update(msg)
	case screenMealplan:
		m.mealplan, cmd = m.mealplan.Update(msg)
	case screenUpload:
		m.upload, cmd = m.upload.Update(msg)
	case screenSetup:
		m.setup, cmd = m.setup.Update(msg)
	case screenArchive:
		m.archive, cmd = m.archive.Update(msg)
	}

	// Loads for inactive screens still need routing: recipe and meal
	// plan results can arrive while another screen has focus.
	switch msg.(type) {
	case recipelist.RecipesLoadedMsg, recipelist.RecipeDeletedMsg:
		if m.active != screenRecipes {
			var c tea.Cmd
			m.recipes, c = m.recipes.Update(msg)
			cmd = tea.Batch(cmd, c)
		}
	case mealplan.EntriesLoadedMsg, mealplan.EntrySavedMsg, mealplan.EntryDeletedMsg:
		if m.active != screenMealplan {
			var c tea.Cmd
			m.mealplan, c = m.mealplan.Update(msg)
			cmd = tea.Batch(cmd, c)
		}
	case upload.UploadResultMsg:
		if m.active != screenUpload {
			var c tea.Cmd
			m.upload, c = m.upload.Update(msg)
			cmd = tea.Batch(cmd, c)
		}
	case setup.ListsLoadedMsg:
		if m.active != screenSetup {
			var c tea.Cmd
			m.setup, c = m.setup.Update(msg)
			cmd = tea.Batch(cmd, c)
		}
	}

	return m, cmd
}

// View renders the full frame: header, active screen, status bar.
func (m Model) View() string {
	status := "online"
	offline := !m.status.Connected()
	if offline {
		status = "OFFLINE"
	}
	header := m.layout.RenderHeader(m.title(), fmt.Sprintf("%d open · %s", m.engine.UncheckedCount(), status))

	hints := m.notice
	if hints == "" {
		hints = "1 shopping · 2 recipes · 3 meal plan · u import · v archive · c settings · q quit"
	}
	bar := m.layout.RenderStatusBar(hints, offline)

	var content string
	switch m.active {
	case screenShopping:
		content = m.shopping.View()
	case screenItemForm:
		content = m.itemForm.View()
	case screenRecipes:
		content = m.recipes.View()
	case screenRecipeDetail:
		content = m.detail.View()
	case screenMealplan:
		content = m.mealplan.View()
	case screenUpload:
		content = m.upload.View()
	case screenSetup:
		content = m.setup.View()
	case screenArchive:
		content = m.archive.View()
	}

	return m.layout.RenderWithFrame(header, content, bar)
}

// persistPrefs writes display preferences (collapsed categories,
// show-completed) back to the config file on exit. A first run that
// never completed setup has nothing worth writing.
func (m Model) persistPrefs() {
	if !m.cfg.Configured() {
		return
	}
	if err := model.SaveConfig(m.configPath, m.cfg); err != nil {
		m.log.Warn("saving preferences failed", zap.Error(err))
	}
}

func tokenFromKeyring() (string, error) {
	return credential.Get(credential.TokenKey)
}

func (m Model) title() string {
	switch m.active {
	case screenShopping, screenItemForm:
		return "mealie-term · Shopping"
	case screenRecipes, screenRecipeDetail:
		return "mealie-term · Recipes"
	case screenMealplan:
		return "mealie-term · Meal plan"
	case screenUpload:
		return "mealie-term · Import"
	case screenSetup:
		return "mealie-term · Settings"
	case screenArchive:
		return "mealie-term · Archive"
	}
	return "mealie-term"
}
