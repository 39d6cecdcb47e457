package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Help toggle
	Help key.Binding

	// Manual refresh
	Refresh key.Binding

	// Screens
	GoShopping key.Binding
	GoRecipes  key.Binding
	GoMealplan key.Binding
	GoUpload   key.Binding
	GoArchive  key.Binding
	GoSetup    key.Binding

	// Shopping list actions
	Toggle        key.Binding
	Edit          key.Binding
	Delete        key.Binding
	Add           key.Binding
	Archive       key.Binding
	ShowCompleted key.Binding
	Collapse      key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		GoShopping: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "shopping list"),
		),
		GoRecipes: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "recipes"),
		),
		GoMealplan: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "meal plan"),
		),
		GoUpload: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "upload recipe"),
		),
		GoArchive: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "archived lists"),
		),
		GoSetup: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "settings"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("x", " "),
			key.WithHelp("x/space", "check item"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit item"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete item"),
		),
		Add: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new item"),
		),
		Archive: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "archive list"),
		),
		ShowCompleted: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "show/hide completed"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "collapse category"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Add, k.Refresh, k.Help, k.Quit}
}

// FullHelp returns all keybindings grouped for the expanded help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.Toggle, k.Edit, k.Delete, k.Add, k.Archive},
		{k.ShowCompleted, k.Collapse, k.Refresh},
		{k.GoShopping, k.GoRecipes, k.GoMealplan, k.GoUpload, k.GoArchive, k.GoSetup},
	}
}
