package board

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fakeyudi/synctank/internal/attach"
	"github.com/fakeyudi/synctank/internal/bus"
	"github.com/fakeyudi/synctank/internal/item"
	"github.com/fakeyudi/synctank/internal/store"
	"github.com/fakeyudi/synctank/internal/surface"
	syncclient "github.com/fakeyudi/synctank/internal/sync"
)

func newTestBoard(t *testing.T) Model {
	t.Helper()
	b := bus.New()
	client := syncclient.NewClient("http://127.0.0.1:1")
	sf := surface.New(b, client, &attach.Normalizer{TempDir: t.TempDir()})
	return New(b, client, sf, "alt+l")
}

func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	mm, cmd := m.Update(msg)
	next, ok := mm.(Model)
	if !ok {
		t.Fatalf("Update returned %T", mm)
	}
	return next, cmd
}

func fetchRows(n int) []item.Item {
	base := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	items := make([]item.Item, n)
	for i := range items {
		it := item.New("row", nil)
		it.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		items[i] = it
	}
	return items
}

func TestFetchedReconcilesStore(t *testing.T) {
	m := newTestBoard(t)
	m, _ = step(t, m, fetchedMsg{items: fetchRows(3)})
	if got := len(m.Store().Items()); got != 3 {
		t.Errorf("want 3 items after fetch, got %d", got)
	}
}

func TestFetchErrorShowsToast(t *testing.T) {
	m := newTestBoard(t)
	m, cmd := step(t, m, fetchedMsg{err: errors.New("connection refused")})
	if m.toast == "" {
		t.Error("fetch failure must surface a toast")
	}
	if cmd == nil {
		t.Error("toast must be scheduled to clear")
	}
	if got := len(m.Store().Items()); got != 0 {
		t.Errorf("failed fetch must not touch the cache, got %d items", got)
	}
}

func TestSubmissionInsertsOptimistically(t *testing.T) {
	m := newTestBoard(t)
	m, _ = step(t, m, fetchedMsg{items: fetchRows(2)})

	captured := item.New("just captured", nil)
	m, cmd := step(t, m, submissionMsg(bus.Submission{Item: captured, At: time.Now()}))

	if got := m.Store().Items()[0].ID; got != captured.ID {
		t.Errorf("want the capture first in the cache, got %s", got)
	}
	if m.toast != "Sent." {
		t.Errorf("toast: want %q, got %q", "Sent.", m.toast)
	}
	if cmd == nil {
		t.Error("submission must schedule a reconciling fetch and re-arm the bus reader")
	}
}

func TestSaveFailureToast(t *testing.T) {
	m := newTestBoard(t)
	m, _ = step(t, m, saveResultMsg(bus.SaveResult{Err: errors.New("boom")}))
	if m.toast == "" {
		t.Error("a failed background save must be visible on the dashboard")
	}
}

func TestHotkeyChangeUpdatesLabel(t *testing.T) {
	m := newTestBoard(t)
	m, _ = step(t, m, hotkeyChangedMsg(bus.HotkeyChanged{Combo: "ctrl+shift+k"}))
	if m.hotkeyLabel != "ctrl+shift+k" {
		t.Errorf("hotkeyLabel: got %q", m.hotkeyLabel)
	}
}

func TestTabKeysSwitchFilter(t *testing.T) {
	m := newTestBoard(t)
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})
	if got := m.Store().Tab(); got != store.TabPlans {
		t.Errorf("key 2: want %v, got %v", store.TabPlans, got)
	}
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if got := m.Store().Tab(); got != store.TabInsights {
		t.Errorf("tab: want %v, got %v", store.TabInsights, got)
	}
}

func TestDeleteKeyRemovesSelection(t *testing.T) {
	m := newTestBoard(t)
	m, _ = step(t, m, fetchedMsg{items: fetchRows(2)})
	target := m.Store().PageItems()[0].ID

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	for _, it := range m.Store().Items() {
		if it.ID == target {
			t.Fatal("selected item still present after delete")
		}
	}
	if got := len(m.Store().Items()); got != 1 {
		t.Errorf("want 1 item left, got %d", got)
	}
}

func TestKeysRouteToSurfaceWhileVisible(t *testing.T) {
	m := newTestBoard(t)
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	if !m.surface.Visible() {
		t.Fatal("c must open the capture surface")
	}

	// q belongs to the overlay now, not the dashboard.
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !m.surface.Visible() {
		t.Error("surface must remain open while editing")
	}
	if got := m.Store().Tab(); got != store.TabAll {
		t.Errorf("dashboard state must not react to overlay keys, tab is %v", got)
	}
}
