package shopping

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mhaas/mealie-term/internal/mealie"
	"github.com/mhaas/mealie-term/internal/model"
)

// mockAPI is an in-memory stand-in for the Mealie client.
type mockAPI struct {
	mu sync.Mutex

	items  []model.ShoppingItem
	labels []model.Label

	fetchErr  error
	addErr    error
	updateErr error
	deleteErr error

	added   []string
	updates []model.ShoppingItem
	deleted []string
	nextID  int
}

func (m *mockAPI) FetchItems(ctx context.Context) ([]model.ShoppingItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	out := make([]model.ShoppingItem, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *mockAPI) AddItem(ctx context.Context, note, listID string, labelID *string) (model.ShoppingItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.addErr != nil {
		return model.ShoppingItem{}, m.addErr
	}
	m.nextID++
	item := model.ShoppingItem{
		ID:             fmt.Sprintf("item-%d", m.nextID),
		Note:           note,
		ShoppingListID: listID,
	}
	m.items = append(m.items, item)
	m.added = append(m.added, note)
	return item, nil
}

func (m *mockAPI) UpdateItem(ctx context.Context, item model.ShoppingItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates = append(m.updates, item)
	return nil
}

func (m *mockAPI) DeleteItem(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockAPI) FetchLabels(ctx context.Context) ([]model.Label, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	labels := make([]model.Label, len(m.labels))
	copy(labels, m.labels)
	return labels, nil
}

func newTestEngine(api *mockAPI) (*Engine, *mealie.Status) {
	status := mealie.NewStatus()
	e := NewEngine(api, status, zap.NewNop(), "list-1")
	e.settle = 0
	return e, status
}

func item(id, note string, checked bool) model.ShoppingItem {
	return model.ShoppingItem{ID: id, Note: note, Checked: checked, ShoppingListID: "list-1"}
}

func TestLoadReplacesItems(t *testing.T) {
	api := &mockAPI{items: []model.ShoppingItem{item("a", "Milch", false)}}
	e, status := newTestEngine(api)

	msg, ok := e.Load()().(ItemsLoadedMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)

	e.ApplyLoad(msg)
	assert.Len(t, e.Items(), 1)
	assert.True(t, status.Connected())
}

func TestLoadFailureKeepsPriorItems(t *testing.T) {
	api := &mockAPI{items: []model.ShoppingItem{item("a", "Milch", false)}}
	e, status := newTestEngine(api)
	e.ApplyLoad(ItemsLoadedMsg{Items: api.items})

	api.fetchErr = errors.New("connection refused")
	msg := e.Load()().(ItemsLoadedMsg)
	require.Error(t, msg.Err)

	e.ApplyLoad(msg)
	assert.Len(t, e.Items(), 1, "failed reload must not clear the list")
	assert.False(t, status.Connected())
}

func TestToggleCompletionOptimistic(t *testing.T) {
	api := &mockAPI{}
	e, _ := newTestEngine(api)
	e.ApplyLoad(ItemsLoadedMsg{Items: []model.ShoppingItem{item("a", "Milch", false)}})

	cmd := e.ToggleCompletion("a")
	require.NotNil(t, cmd)

	// The flip is visible before the push returns.
	got, ok := e.ItemByID("a")
	require.True(t, ok)
	assert.True(t, got.Checked)

	msg := cmd().(ToggleResultMsg)
	require.NoError(t, msg.Err)
	e.ApplyToggleResult(msg)

	got, _ = e.ItemByID("a")
	assert.True(t, got.Checked)
	require.Len(t, api.updates, 1)
	assert.True(t, api.updates[0].Checked)
}

func TestToggleFailureReverts(t *testing.T) {
	api := &mockAPI{updateErr: &mealie.ServerError{Status: 500, Op: "PUT"}}
	e, status := newTestEngine(api)
	e.ApplyLoad(ItemsLoadedMsg{Items: []model.ShoppingItem{item("a", "Milch", false)}})

	cmd := e.ToggleCompletion("a")
	msg := cmd().(ToggleResultMsg)
	require.Error(t, msg.Err)

	e.ApplyToggleResult(msg)
	got, _ := e.ItemByID("a")
	assert.False(t, got.Checked, "failed push must restore the prior state")
	assert.False(t, status.Connected())
}

func TestToggleUnknownID(t *testing.T) {
	e, _ := newTestEngine(&mockAPI{})
	assert.Nil(t, e.ToggleCompletion("missing"))
}

func TestAddManualRejectsEmptyNote(t *testing.T) {
	e, _ := newTestEngine(&mockAPI{})

	for _, raw := range []string{"", "   "} {
		cmd, err := e.AddManual(raw, nil)
		assert.Nil(t, cmd)
		var verr *mealie.ValidationError
		assert.ErrorAs(t, err, &verr, "input %q", raw)
	}
}

func TestAddManualAppendsAndReattachesLabel(t *testing.T) {
	api := &mockAPI{}
	e, _ := newTestEngine(api)
	label := &model.Label{ID: "l1", Name: "Dairy"}

	cmd, err := e.AddManual("2 Eier", label)
	require.NoError(t, err)

	msg := cmd().(ManualAddResultMsg)
	require.NoError(t, msg.Err)
	e.ApplyManualAddResult(msg)

	items := e.Items()
	require.Len(t, items, 1)
	// The raw note is submitted as typed, not normalized.
	assert.Equal(t, "2 Eier", items[0].Note)
	require.NotNil(t, items[0].Label)
	assert.Equal(t, "Dairy", items[0].Label.Name)
}

func TestAddManualNoDedup(t *testing.T) {
	api := &mockAPI{}
	e, _ := newTestEngine(api)
	e.ApplyLoad(ItemsLoadedMsg{Items: []model.ShoppingItem{item("a", "Eier", false)}})

	// A deliberate single add goes through even when a duplicate exists.
	cmd, err := e.AddManual("Eier", nil)
	require.NoError(t, err)
	require.NotNil(t, cmd)
}

func TestAddIngredientsSkipsDuplicates(t *testing.T) {
	api := &mockAPI{items: []model.ShoppingItem{item("a", "2 Eier", false)}}
	e, _ := newTestEngine(api)
	e.ApplyLoad(ItemsLoadedMsg{Items: api.items})

	batch := []model.Ingredient{
		{Note: "4 Eier"},    // duplicate of the existing item after normalization
		{Note: "500 g Mehl"},
		{Note: "Mehl"},      // duplicate within the batch
		{Note: "   "},       // blank, silently dropped
		{Note: "Milch"},
	}

	msg := e.AddIngredients(batch)().(BatchAddResultMsg)
	assert.Equal(t, 2, msg.Added)
	assert.Equal(t, 2, msg.Skipped)
	assert.Equal(t, 0, msg.Failed)
	require.NoError(t, msg.ReloadErr)
	assert.Equal(t, []string{"Mehl", "Milch"}, api.added)

	e.ApplyBatchResult(msg)
	assert.Len(t, e.Items(), 3)
}

func TestAddIngredientsCountsFailures(t *testing.T) {
	api := &mockAPI{addErr: errors.New("boom")}
	e, _ := newTestEngine(api)

	msg := e.AddIngredients([]model.Ingredient{{Note: "Mehl"}, {Note: "Milch"}})().(BatchAddResultMsg)
	assert.Equal(t, 0, msg.Added)
	assert.Equal(t, 2, msg.Failed)

	// Nothing added means nothing to reload and no state change.
	prior := e.Items()
	e.ApplyBatchResult(msg)
	assert.Equal(t, prior, e.Items())
}

func TestApplyBatchResultReloadFailure(t *testing.T) {
	e, status := newTestEngine(&mockAPI{})
	e.ApplyLoad(ItemsLoadedMsg{Items: []model.ShoppingItem{item("a", "Milch", false)}})

	e.ApplyBatchResult(BatchAddResultMsg{Added: 1, ReloadErr: errors.New("timeout")})
	assert.Len(t, e.Items(), 1, "failed reload keeps the prior collection")
	assert.False(t, status.Connected())
}

func TestUpdateIngredientKeepsEditOnFailure(t *testing.T) {
	api := &mockAPI{updateErr: errors.New("boom")}
	e, status := newTestEngine(api)
	e.ApplyLoad(ItemsLoadedMsg{Items: []model.ShoppingItem{item("a", "Milch", false)}})

	qty := 2.5
	label := &model.Label{ID: "l1", Name: "Dairy"}
	cmd := e.UpdateIngredient("a", "Hafermilch", label, &qty)
	require.NotNil(t, cmd)

	msg := cmd().(UpdateResultMsg)
	require.Error(t, msg.Err)
	e.ApplyUpdateResult(msg)

	// Unlike a toggle, the user-authored edit survives the failed push.
	got, _ := e.ItemByID("a")
	assert.Equal(t, "Hafermilch", got.Note)
	require.NotNil(t, got.Quantity)
	assert.Equal(t, 2.5, *got.Quantity)
	assert.False(t, status.Connected())
}

func TestDeleteIngredients(t *testing.T) {
	api := &mockAPI{}
	e, _ := newTestEngine(api)
	e.ApplyLoad(ItemsLoadedMsg{Items: []model.ShoppingItem{
		item("a", "Milch", false),
		item("b", "Eier", false),
		item("c", "Mehl", false),
	}})

	cmd := e.DeleteIngredients([]string{"a", "c", "missing"})
	require.NotNil(t, cmd)
	assert.Len(t, e.Items(), 1)

	cmd()
	assert.ElementsMatch(t, []string{"a", "c"}, api.deleted)
}

func TestArchiveListSnapshotsAllPurgesChecked(t *testing.T) {
	api := &mockAPI{}
	e, _ := newTestEngine(api)
	e.ApplyLoad(ItemsLoadedMsg{Items: []model.ShoppingItem{
		item("a", "Milch", true),
		item("b", "Eier", false),
		item("c", "Mehl", true),
	}})

	cmd := e.ArchiveList()
	require.NotNil(t, cmd)

	// The local list is cleared entirely, the snapshot keeps everything.
	assert.Empty(t, e.Items())
	archives := e.Archives()
	require.Len(t, archives, 1)
	assert.Len(t, archives[0].Items, 3)
	assert.False(t, archives[0].ArchivedAt.IsZero())

	// Only the checked subset is deleted remotely.
	cmd()
	assert.ElementsMatch(t, []string{"a", "c"}, api.deleted)
}

func TestArchiveListEmpty(t *testing.T) {
	e, _ := newTestEngine(&mockAPI{})
	assert.Nil(t, e.ArchiveList())
	assert.Empty(t, e.Archives())
}

func TestDeleteAndClearArchives(t *testing.T) {
	e, _ := newTestEngine(&mockAPI{})
	e.ApplyLoad(ItemsLoadedMsg{Items: []model.ShoppingItem{item("a", "Milch", true)}})
	e.ArchiveList()()
	e.ApplyLoad(ItemsLoadedMsg{Items: []model.ShoppingItem{item("b", "Eier", true)}})
	e.ArchiveList()()

	require.Len(t, e.Archives(), 2)

	e.DeleteArchive(5) // out of range is a no-op
	require.Len(t, e.Archives(), 2)

	e.DeleteArchive(0)
	archives := e.Archives()
	require.Len(t, archives, 1)
	assert.Equal(t, "Eier", archives[0].Items[0].Note)

	e.ClearArchives()
	assert.Empty(t, e.Archives())
}

func TestUncheckedCount(t *testing.T) {
	e, _ := newTestEngine(&mockAPI{})
	e.ApplyLoad(ItemsLoadedMsg{Items: []model.ShoppingItem{
		item("a", "Milch", true),
		item("b", "Eier", false),
		item("c", "Mehl", false),
	}})
	assert.Equal(t, 2, e.UncheckedCount())
}
