// Package board provides the main dashboard surface: the tabbed,
// paginated list of captured items, kept in sync with the remote store and
// fed by the cross-surface bus.
package board

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fakeyudi/synctank/internal/bus"
	"github.com/fakeyudi/synctank/internal/item"
	"github.com/fakeyudi/synctank/internal/store"
	"github.com/fakeyudi/synctank/internal/surface"
	syncclient "github.com/fakeyudi/synctank/internal/sync"
)

// ── Styles ────────────

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	tabSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Background(lipgloss.Color("235"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	selectedCardStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(0, 1)

	kindPlanStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	kindInsightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("237")).
			Padding(0, 1)

	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	toastStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
)

// ── Messages ──────────

type fetchedMsg struct {
	items []item.Item
	err   error
}

type submissionMsg bus.Submission
type saveResultMsg bus.SaveResult
type hotkeyChangedMsg bus.HotkeyChanged
type toastClearMsg struct{}

// ── Model ─────────────

// Model is the root dashboard model. The capture surface is embedded as an
// overlay; the two surfaces still communicate only through the bus, so the
// dashboard behaves the same whether a capture came from the overlay or
// from a separate `synctank capture` process.
type Model struct {
	store   *store.Store
	client  *syncclient.Client
	bus     *bus.Bus
	surface surface.Model

	cursor      int // selection within the current page
	toast       string
	hotkeyLabel string
	width       int
	height      int
	ready       bool
}

// New builds the dashboard around its collaborators.
func New(b *bus.Bus, client *syncclient.Client, sf surface.Model, hotkeyLabel string) Model {
	return Model{
		store:       store.New(),
		client:      client,
		bus:         b,
		surface:     sf,
		hotkeyLabel: hotkeyLabel,
	}
}

// Store exposes the item cache for tests.
func (m Model) Store() *store.Store { return m.store }

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchCmd(),
		waitSubmission(m.bus),
		waitSaveResult(m.bus),
		waitHotkeyChange(m.bus),
	)
}

// fetchCmd retrieves the full remote collection; reconciliation replaces
// the cache wholesale, so whichever fetch completes last wins.
func (m Model) fetchCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		items, err := client.FetchAll(ctx)
		return fetchedMsg{items: items, err: err}
	}
}

// The wait commands block on one bus event each and re-arm after delivery.

func waitSubmission(b *bus.Bus) tea.Cmd {
	return func() tea.Msg { return submissionMsg(<-b.Submissions()) }
}

func waitSaveResult(b *bus.Bus) tea.Cmd {
	return func() tea.Msg { return saveResultMsg(<-b.SaveResults()) }
}

func waitHotkeyChange(b *bus.Bus) tea.Cmd {
	return func() tea.Msg { return hotkeyChangedMsg(<-b.HotkeyChanges()) }
}

func toastAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return toastClearMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case fetchedMsg:
		if msg.err != nil {
			m.toast = "Sync failed: " + msg.err.Error()
			return m, toastAfter(3 * time.Second)
		}
		m.store.ReconcileFromFetch(msg.items)
		m.clampCursor()
		return m, nil

	case submissionMsg:
		// Optimistic insert first; the follow-up fetch reconciles.
		m.store.InsertOptimistic(msg.Item)
		m.toast = "Sent."
		return m, tea.Batch(m.fetchCmd(), waitSubmission(m.bus), toastAfter(2*time.Second))

	case saveResultMsg:
		if msg.Err != nil {
			// The capture surface stays silent on save failure; this is the
			// one place the path is observable.
			m.toast = "Save failed, item may not sync: " + msg.Err.Error()
			return m, tea.Batch(waitSaveResult(m.bus), toastAfter(4*time.Second))
		}
		return m, tea.Batch(m.fetchCmd(), waitSaveResult(m.bus))

	case hotkeyChangedMsg:
		m.hotkeyLabel = msg.Combo
		return m, waitHotkeyChange(m.bus)

	case toastClearMsg:
		m.toast = ""
		return m, nil

	case surface.TriggerMsg:
		var cmd tea.Cmd
		m.surface, cmd = m.surface.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.surface.Visible() {
			var cmd tea.Cmd
			m.surface, cmd = m.surface.Update(msg)
			return m, cmd
		}
		return m.updateKey(msg)
	}

	// Timer and spinner messages belong to the overlay while it is up.
	if m.surface.Visible() {
		var cmd tea.Cmd
		m.surface, cmd = m.surface.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab":
		m.selectTab((m.tabIndex() + 1) % len(store.Tabs))
	case "shift+tab":
		m.selectTab((m.tabIndex() + len(store.Tabs) - 1) % len(store.Tabs))
	case "1", "2", "3":
		m.selectTab(int(msg.String()[0] - '1'))

	case "left", "h":
		m.store.GoPrev()
		m.clampCursor()
	case "right", "l":
		m.store.GoNext()
		m.clampCursor()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.store.PageItems())-1 {
			m.cursor++
		}

	case "x", "d":
		page := m.store.PageItems()
		if m.cursor < len(page) {
			m.store.Remove(page[m.cursor].ID)
			m.clampCursor()
		}

	case "r":
		return m, m.fetchCmd()

	case "c":
		var cmd tea.Cmd
		m.surface, cmd = m.surface.Update(surface.TriggerMsg{})
		return m, cmd
	}
	return m, nil
}

func (m *Model) selectTab(i int) {
	m.store.SelectTab(store.Tabs[i])
	m.cursor = 0
}

func (m Model) tabIndex() int {
	for i, t := range store.Tabs {
		if t == m.store.Tab() {
			return i
		}
	}
	return 0
}

func (m *Model) clampCursor() {
	if n := len(m.store.PageItems()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// ── View ──────────────

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render("  synctank")

	var tabParts []string
	for i, t := range store.Tabs {
		label := fmt.Sprintf(" %d %s ", i+1, t)
		if t == m.store.Tab() {
			tabParts = append(tabParts, activeTabStyle.Render(label))
		} else {
			tabParts = append(tabParts, inactiveTabStyle.Render(label))
		}
		if i < len(store.Tabs)-1 {
			tabParts = append(tabParts, tabSepStyle.Render("│"))
		}
	}
	tabRow := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabParts...))

	content := m.renderPage()

	hint := "  ←/→ page  ↑/↓ select  x delete  c capture  r refresh  q quit"
	right := "hotkey " + m.hotkeyLabel
	if m.toast != "" {
		right = toastStyle.Render(m.toast)
	}
	pad := m.width - lipgloss.Width(hint) - lipgloss.Width(right) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(hint + strings.Repeat(" ", pad) + right)

	main := lipgloss.JoinVertical(lipgloss.Left, title, tabRow, content, statusBar)

	if m.surface.Visible() {
		// The capture surface floats over the dashboard, centered, the way
		// the hotkey panel floats over the desktop.
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.surface.View())
	}
	return main
}

func (m Model) renderPage() string {
	items := m.store.PageItems()
	var b strings.Builder
	b.WriteString("\n")

	if len(items) == 0 {
		b.WriteString(dimStyle.Render("  No items yet. Drop files or create a plan.") + "\n")
		return b.String()
	}

	for i, it := range items {
		b.WriteString(m.renderCard(it, i == m.cursor) + "\n")
	}

	// Pagination controls appear only once there is more than one page.
	if m.store.PageCount() > 1 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ‹ %d / %d ›", m.store.Page()+1, m.store.PageCount())) + "\n")
	}
	return b.String()
}

func (m Model) renderCard(it item.Item, selected bool) string {
	kind := kindPlanStyle.Render("PLAN")
	if it.Kind == item.KindInsight {
		kind = kindInsightStyle.Render("INSIGHT")
	}

	line := kind + "  " + it.Title
	if att := it.Attachment; att != nil {
		badge := att.FileExt
		if badge == "" {
			badge = "FILE"
		}
		if att.ShowThumbnail() || att.GuessIsImage() {
			line += "  " + badgeStyle.Render("IMG "+att.Filename())
		} else {
			line += "  " + badgeStyle.Render(badge+" "+att.Filename())
		}
	}
	if it.Content != "" && it.Content != it.Title {
		snippet := it.Content
		if len(snippet) > 60 {
			snippet = snippet[:57] + "…"
		}
		line += "\n" + dimStyle.Render(snippet)
	}

	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	width := m.width - 4
	if width > 72 {
		width = 72
	}
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(line)
}
