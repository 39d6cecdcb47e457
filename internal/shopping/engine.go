// Package shopping owns the canonical in-memory shopping list and the
// logic that keeps it consistent with the server: optimistic local
// mutations with revert-on-failure, deduplicated batch adds, and the
// archive lifecycle.
package shopping

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/mhaas/mealie-term/internal/mealie"
	"github.com/mhaas/mealie-term/internal/model"
	"github.com/mhaas/mealie-term/internal/note"
)

// API is the slice of the Mealie client the engine depends on.
// *mealie.Client satisfies it; tests substitute a mock.
type API interface {
	FetchItems(ctx context.Context) ([]model.ShoppingItem, error)
	AddItem(ctx context.Context, note, listID string, labelID *string) (model.ShoppingItem, error)
	UpdateItem(ctx context.Context, item model.ShoppingItem) error
	DeleteItem(ctx context.Context, id string) error
	FetchLabels(ctx context.Context) ([]model.Label, error)
}

// settleDelay gives the server time to make a freshly added item
// visible in a list read before the wholesale reload.
const settleDelay = 250 * time.Millisecond

// opTimeout bounds a single engine network operation.
const opTimeout = 30 * time.Second

// ItemsLoadedMsg reports a full reload of the canonical collection.
type ItemsLoadedMsg struct {
	Items []model.ShoppingItem
	Err   error
}

// LabelsLoadedMsg reports the available labels.
type LabelsLoadedMsg struct {
	Labels []model.Label
	Err    error
}

// ToggleResultMsg reports the outcome of a completion toggle.
type ToggleResultMsg struct {
	ID    string
	Prior bool
	Err   error
}

// ManualAddResultMsg reports the outcome of a single manual add.
type ManualAddResultMsg struct {
	Item  model.ShoppingItem
	Label *model.Label
	Err   error
}

// BatchAddResultMsg reports the outcome of a recipe ingredient batch.
type BatchAddResultMsg struct {
	Added     int
	Skipped   int
	Failed    int
	Items     []model.ShoppingItem
	ReloadErr error
}

// UpdateResultMsg reports the outcome of a field edit push, so a
// presenting editor can decide whether to dismiss or show an error.
type UpdateResultMsg struct {
	ID  string
	Err error
}

// Engine owns the canonical shopping list and the session archives.
// All mutations happen on the Bubble Tea update loop; the tea.Cmd
// closures returned by the operations only talk to the network.
type Engine struct {
	api    API
	status *mealie.Status
	log    *zap.Logger
	listID string

	items    []model.ShoppingItem
	labels   []model.Label
	archives []model.ArchivedList

	settle time.Duration
}

// NewEngine creates an engine for the given active list.
func NewEngine(api API, status *mealie.Status, log *zap.Logger, listID string) *Engine {
	return &Engine{
		api:    api,
		status: status,
		log:    log,
		listID: listID,
		settle: settleDelay,
	}
}

// Items returns a copy of the canonical collection.
func (e *Engine) Items() []model.ShoppingItem {
	out := make([]model.ShoppingItem, len(e.items))
	copy(out, e.items)
	return out
}

// Labels returns the last loaded label set.
func (e *Engine) Labels() []model.Label {
	out := make([]model.Label, len(e.labels))
	copy(out, e.labels)
	return out
}

// Archives returns the session's archived snapshots, newest last.
func (e *Engine) Archives() []model.ArchivedList {
	out := make([]model.ArchivedList, len(e.archives))
	copy(out, e.archives)
	return out
}

// UncheckedCount returns the number of open items.
func (e *Engine) UncheckedCount() int {
	n := 0
	for _, it := range e.items {
		if !it.Checked {
			n++
		}
	}
	return n
}

// ItemByID looks up an item in the canonical collection.
func (e *Engine) ItemByID(id string) (model.ShoppingItem, bool) {
	for _, it := range e.items {
		if it.ID == id {
			return it, true
		}
	}
	return model.ShoppingItem{}, false
}

// Load returns a command that fetches the full list from the server.
func (e *Engine) Load() tea.Cmd {
	api := e.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		items, err := api.FetchItems(ctx)
		return ItemsLoadedMsg{Items: items, Err: err}
	}
}

// ApplyLoad reconciles a reload result. On failure the collection keeps
// its prior value; the connectivity flag degrades the UI instead.
func (e *Engine) ApplyLoad(msg ItemsLoadedMsg) {
	if msg.Err != nil {
		e.log.Warn("loading shopping list failed", zap.Error(msg.Err))
		e.status.SetDisconnected()
		return
	}
	e.items = msg.Items
	e.status.SetConnected()
}

// LoadLabels returns a command that fetches the available labels.
func (e *Engine) LoadLabels() tea.Cmd {
	api := e.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		labels, err := api.FetchLabels(ctx)
		return LabelsLoadedMsg{Labels: labels, Err: err}
	}
}

// ApplyLabels stores a label fetch result.
func (e *Engine) ApplyLabels(msg LabelsLoadedMsg) {
	if msg.Err != nil {
		e.log.Warn("loading labels failed", zap.Error(msg.Err))
		return
	}
	e.labels = msg.Labels
}

// ToggleCompletion flips an item's checked flag locally and returns the
// command that pushes the change. The UI reflects the flip immediately;
// ApplyToggleResult reverts it if the push fails.
func (e *Engine) ToggleCompletion(id string) tea.Cmd {
	idx := e.indexOf(id)
	if idx < 0 {
		return nil
	}

	prior := e.items[idx].Checked
	e.items[idx].Checked = !prior
	updated := e.items[idx]

	api := e.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		err := api.UpdateItem(ctx, updated)
		return ToggleResultMsg{ID: id, Prior: prior, Err: err}
	}
}

// ApplyToggleResult finishes the toggle protocol: a failed push
// restores the pre-toggle state and flips the connectivity signal.
func (e *Engine) ApplyToggleResult(msg ToggleResultMsg) {
	if msg.Err == nil {
		return
	}

	e.log.Warn("toggle sync failed", zap.String("id", msg.ID), zap.Error(msg.Err))
	e.status.SetDisconnected()
	if idx := e.indexOf(msg.ID); idx >= 0 {
		e.items[idx].Checked = msg.Prior
	}
}

// AddManual adds a single user-typed item. The note is only validated,
// never deduplicated: a deliberate single add trusts user intent.
// Returns a ValidationError when the note normalizes to nothing.
func (e *Engine) AddManual(rawNote string, label *model.Label) (tea.Cmd, error) {
	trimmed := strings.TrimSpace(rawNote)
	if note.Normalize(trimmed) == "" {
		return nil, &mealie.ValidationError{Msg: "note is empty"}
	}

	var labelID *string
	if label != nil {
		labelID = &label.ID
	}

	api, listID := e.api, e.listID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		item, err := api.AddItem(ctx, trimmed, listID, labelID)
		return ManualAddResultMsg{Item: item, Label: label, Err: err}
	}, nil
}

// ApplyManualAddResult appends the server-confirmed item. The label the
// user picked is re-attached because the server does not echo it.
func (e *Engine) ApplyManualAddResult(msg ManualAddResultMsg) {
	if msg.Err != nil {
		e.log.Warn("manual add failed", zap.Error(msg.Err))
		e.status.SetDisconnected()
		return
	}

	item := msg.Item
	if item.Label == nil {
		item.Label = msg.Label
	}
	e.items = append(e.items, item)
}

// AddIngredients converts a recipe ingredient batch into sequential add
// calls with duplicate suppression. The seen-note set is seeded from
// the canonical collection when the command is issued, and the adds run
// one at a time inside a single command so the same normalized note can
// never be submitted twice before either response returns.
func (e *Engine) AddIngredients(batch []model.Ingredient) tea.Cmd {
	seen := make(map[string]bool, len(e.items))
	for _, it := range e.items {
		key := strings.ToLower(note.Normalize(it.Note))
		if key != "" {
			seen[key] = true
		}
	}

	api, listID, log, settle := e.api, e.listID, e.log, e.settle
	return func() tea.Msg {
		var result BatchAddResultMsg

		for _, ing := range batch {
			raw := strings.TrimSpace(ing.Note)
			if raw == "" {
				continue
			}
			cleaned := note.Normalize(raw)
			if cleaned == "" {
				continue
			}

			key := strings.ToLower(cleaned)
			if seen[key] {
				log.Info("skipping duplicate ingredient", zap.String("note", cleaned))
				result.Skipped++
				continue
			}

			ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
			_, err := api.AddItem(ctx, cleaned, listID, nil)
			cancel()
			if err != nil {
				log.Warn("adding ingredient failed",
					zap.String("note", cleaned), zap.Error(err))
				result.Failed++
				continue
			}

			seen[key] = true
			result.Added++
		}

		if result.Added == 0 {
			return result
		}

		// Let the server catch up before the wholesale reload.
		time.Sleep(settle)

		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		items, err := api.FetchItems(ctx)
		result.Items, result.ReloadErr = items, err
		return result
	}
}

// ApplyBatchResult replaces the canonical collection with the reload
// snapshot when at least one item was added.
func (e *Engine) ApplyBatchResult(msg BatchAddResultMsg) {
	if msg.Added == 0 {
		return
	}
	if msg.ReloadErr != nil {
		e.log.Warn("reload after batch add failed", zap.Error(msg.ReloadErr))
		e.status.SetDisconnected()
		return
	}
	e.items = msg.Items
}

// UpdateIngredient applies a field edit (note, label, quantity) to the
// canonical copy immediately and returns the command that pushes the
// full item. Unlike a toggle, a failed push does not revert: the edit
// is a user-authored correction and silently undoing it would be
// surprising. The caller learns the outcome via UpdateResultMsg.
func (e *Engine) UpdateIngredient(id, newNote string, newLabel *model.Label, newQuantity *float64) tea.Cmd {
	idx := e.indexOf(id)
	if idx < 0 {
		return nil
	}

	e.items[idx].Note = newNote
	e.items[idx].Label = newLabel
	e.items[idx].Quantity = newQuantity
	updated := e.items[idx]

	api := e.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		err := api.UpdateItem(ctx, updated)
		return UpdateResultMsg{ID: id, Err: err}
	}
}

// ApplyUpdateResult records a failed edit push on the connectivity
// signal. Local state keeps the edit; the server wins on next reload.
func (e *Engine) ApplyUpdateResult(msg UpdateResultMsg) {
	if msg.Err == nil {
		return
	}
	e.log.Warn("edit sync failed", zap.String("id", msg.ID), zap.Error(msg.Err))
	e.status.SetDisconnected()
}

// DeleteIngredients removes the items locally and returns a command
// that issues one delete per item. Per-item failures are logged and
// ignored; a failed remote delete only means the item may reappear on
// the next full reload.
func (e *Engine) DeleteIngredients(ids []string) tea.Cmd {
	victims := make([]model.ShoppingItem, 0, len(ids))
	for _, id := range ids {
		if idx := e.indexOf(id); idx >= 0 {
			victims = append(victims, e.items[idx])
			e.items = append(e.items[:idx], e.items[idx+1:]...)
		}
	}
	if len(victims) == 0 {
		return nil
	}

	api, log := e.api, e.log
	return func() tea.Msg {
		for _, it := range victims {
			ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
			err := api.DeleteItem(ctx, it.ID)
			cancel()
			if err != nil {
				log.Warn("deleting item failed",
					zap.String("id", it.ID), zap.Error(err))
			}
		}
		return nil
	}
}

// ArchiveList snapshots the whole list, clears it locally, and returns
// a command that purges the checked subset from the server. Unchecked
// items stay on the server and resurface on the next reload; the
// snapshot preserves them for the session regardless.
func (e *Engine) ArchiveList() tea.Cmd {
	if len(e.items) == 0 {
		return nil
	}

	snapshot := make([]model.ShoppingItem, len(e.items))
	copy(snapshot, e.items)
	e.archives = append(e.archives, model.ArchivedList{
		ArchivedAt: time.Now(),
		Items:      snapshot,
	})

	var checked []model.ShoppingItem
	for _, it := range e.items {
		if it.Checked {
			checked = append(checked, it)
		}
	}
	e.items = nil

	api, log := e.api, e.log
	return func() tea.Msg {
		for _, it := range checked {
			ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
			err := api.DeleteItem(ctx, it.ID)
			cancel()
			if err != nil {
				log.Warn("purging archived item failed",
					zap.String("id", it.ID), zap.Error(err))
			}
		}
		return nil
	}
}

// DeleteArchive drops one archived snapshot by index.
func (e *Engine) DeleteArchive(i int) {
	if i < 0 || i >= len(e.archives) {
		return
	}
	e.archives = append(e.archives[:i], e.archives[i+1:]...)
}

// ClearArchives drops all archived snapshots.
func (e *Engine) ClearArchives() {
	e.archives = nil
}

func (e *Engine) indexOf(id string) int {
	for i, it := range e.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
