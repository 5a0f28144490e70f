// Package surface owns the ephemeral capture surface: the state machine
// that appears on the global hotkey, accepts text plus at most one
// attachment, and hands the finalized capture to the cross-surface bus
// while the network save runs un-awaited in the background.
package surface

import (
	"context"
	"encoding/base64"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fakeyudi/synctank/internal/attach"
	"github.com/fakeyudi/synctank/internal/bus"
	"github.com/fakeyudi/synctank/internal/item"
	syncclient "github.com/fakeyudi/synctank/internal/sync"
)

// ── Styles ────────────

var (
	capsuleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 2)

	chipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("237")).
			Padding(0, 1)

	advisoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	confirmStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")).
			Bold(true)

	dismissStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// ── Phase machine ─────

// Phase is the capture surface lifecycle state.
type Phase int

const (
	PhaseHidden Phase = iota
	PhaseAppearing
	PhaseEditing
	PhaseSubmitting
	PhaseConfirming
	PhaseDismissing
)

var phaseNames = [...]string{"Hidden", "Appearing", "Editing", "Submitting", "Confirming", "Dismissing"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "Unknown"
}

// Timing of the visual confirm/dismiss sequence. The sequence runs on its
// own timers, independent of network completion.
const (
	focusRetryInterval = 50 * time.Millisecond
	maxFocusTries      = 5
	spinDuration       = 600 * time.Millisecond
	confirmHold        = 350 * time.Millisecond
	dismissFade        = 200 * time.Millisecond
)

// Advisory strings shown for ingestion-time errors.
const (
	adviseEmpty   = "Type something or attach a file/photo."
	adviseOneFile = "Only one file or photo can be attached."
	adviseNoFile  = "No such file."
)

// ── Messages ──────────

// TriggerMsg opens the surface, or toggles it closed when already open.
// Sent by the hotkey listener or an explicit open command.
type TriggerMsg struct{}

type focusTickMsg struct{}
type spinDoneMsg struct{}
type confirmDoneMsg struct{}
type dismissDoneMsg struct{}

// saveDoneMsg reports the un-awaited save; the surface ignores it beyond
// acknowledging the command finished. Failures surface only on the bus.
type saveDoneMsg struct{ err error }

// ── Model ─────────────

// Model is the capture surface controller. One capture session exists at a
// time; its fields are reset on every transition back to Hidden.
type Model struct {
	phase      Phase
	input      textinput.Model
	spin       spinner.Model
	pending    *item.Attachment
	advisory   string
	focusTries int

	norm   *attach.Normalizer
	bus    *bus.Bus
	client *syncclient.Client

	// standalone quits the program when the surface returns to Hidden;
	// autoHide cancels the session on focus loss.
	standalone bool
	autoHide   bool
}

// Option configures a Model.
type Option func(*Model)

// Standalone makes the surface quit its program when it hides, for the
// one-shot `synctank capture` path.
func Standalone() Option { return func(m *Model) { m.standalone = true } }

// AutoHide cancels the session when the terminal loses focus.
func AutoHide() Option { return func(m *Model) { m.autoHide = true } }

// New builds a hidden capture surface.
func New(b *bus.Bus, client *syncclient.Client, norm *attach.Normalizer, opts ...Option) Model {
	m := Model{
		phase:  PhaseHidden,
		spin:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		norm:   norm,
		bus:    b,
		client: client,
	}
	for _, o := range opts {
		o(&m)
	}
	return m
}

// Accessors used by the dashboard overlay and by tests.

func (m Model) Phase() Phase              { return m.phase }
func (m Model) Visible() bool             { return m.phase != PhaseHidden }
func (m Model) DraftText() string         { return m.input.Value() }
func (m Model) Pending() *item.Attachment { return m.pending }
func (m Model) Advisory() string          { return m.advisory }

func (m Model) Init() tea.Cmd {
	if m.standalone {
		return func() tea.Msg { return TriggerMsg{} }
	}
	return nil
}

// Update advances the state machine. It returns the concrete Model so the
// dashboard can embed the surface as an overlay.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TriggerMsg:
		if m.phase == PhaseHidden {
			return m.show()
		}
		// A second trigger while open toggles the surface closed.
		return m.cancel()

	case focusTickMsg:
		if m.phase != PhaseAppearing {
			return m, nil
		}
		if m.input.Focused() || m.focusTries >= maxFocusTries {
			// Usable even without confirmed focus after the final timeout.
			m.phase = PhaseEditing
			return m, nil
		}
		m.focusTries++
		return m, tea.Batch(
			m.input.Focus(),
			tea.Tick(focusRetryInterval, func(time.Time) tea.Msg { return focusTickMsg{} }),
		)

	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.BlurMsg:
		if m.autoHide && (m.phase == PhaseAppearing || m.phase == PhaseEditing) {
			return m.cancel()
		}
		return m, nil

	case spinner.TickMsg:
		if m.phase == PhaseSubmitting {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case spinDoneMsg:
		if m.phase != PhaseSubmitting {
			return m, nil
		}
		m.phase = PhaseConfirming
		return m, tea.Tick(confirmHold, func(time.Time) tea.Msg { return confirmDoneMsg{} })

	case confirmDoneMsg:
		if m.phase != PhaseConfirming {
			return m, nil
		}
		m.phase = PhaseDismissing
		m.bus.PublishDismissed(bus.SurfaceDismissed{Submitted: true})
		return m, tea.Tick(dismissFade, func(time.Time) tea.Msg { return dismissDoneMsg{} })

	case dismissDoneMsg:
		if m.phase != PhaseDismissing {
			return m, nil
		}
		m = m.reset()
		if m.standalone {
			return m, tea.Quit
		}
		return m, nil

	case saveDoneMsg:
		return m, nil
	}

	if m.phase == PhaseAppearing || m.phase == PhaseEditing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.phase != PhaseAppearing && m.phase != PhaseEditing {
		return m, nil
	}

	if msg.Paste {
		return m.ingestPaste(string(msg.Runes)), nil
	}

	switch msg.String() {
	case "esc":
		return m.cancel()

	case "enter":
		return m.submit()

	case "ctrl+o":
		// Attach the typed path(s); a multi-path drop is rejected whole.
		return m.ingestDrop(strings.Fields(m.input.Value())), nil

	case "ctrl+x":
		m.pending = nil
		m.advisory = ""
		return m, nil
	}

	m.advisory = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ── Transitions ───────

// show creates a fresh capture session and starts the bounded focus
// acquisition loop.
func (m Model) show() (Model, tea.Cmd) {
	input := textinput.New()
	input.Placeholder = "Capture a thought, drop a file…"
	input.CharLimit = 0
	input.Width = 44

	m.input = input
	m.pending = nil
	m.advisory = ""
	m.focusTries = 0
	m.phase = PhaseAppearing

	return m, tea.Batch(
		m.input.Focus(),
		tea.Tick(focusRetryInterval, func(time.Time) tea.Msg { return focusTickMsg{} }),
	)
}

// cancel discards the session without a bus submission.
func (m Model) cancel() (Model, tea.Cmd) {
	m = m.reset()
	m.bus.PublishDismissed(bus.SurfaceDismissed{Submitted: false})
	if m.standalone {
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) reset() Model {
	m.phase = PhaseHidden
	m.input = textinput.Model{}
	m.pending = nil
	m.advisory = ""
	m.focusTries = 0
	return m
}

// submit finalizes the capture. Rejected (state stays Editing, advisory
// shown) when both the draft text is blank and no attachment is pending.
// Otherwise the item goes to the bus immediately and the save is kicked
// off without being awaited; the confirm indicator runs on its own timer.
func (m Model) submit() (Model, tea.Cmd) {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" && m.pending == nil {
		m.advisory = adviseEmpty
		m.phase = PhaseEditing
		return m, nil
	}

	it := item.New(text, m.pending)
	m.bus.PublishSubmission(bus.Submission{Item: it, At: time.Now()})

	m.phase = PhaseSubmitting
	m.advisory = ""
	return m, tea.Batch(
		m.saveCmd(it),
		m.spin.Tick,
		tea.Tick(spinDuration, func(time.Time) tea.Msg { return spinDoneMsg{} }),
	)
}

// saveCmd runs the network save as an independent asynchronous task. The
// state machine never waits on it; the outcome is published on the bus so
// the dashboard can log the silent-failure path.
func (m Model) saveCmd(it item.Item) tea.Cmd {
	client, b := m.client, m.bus
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err := client.Save(ctx, it)
		b.PublishSaveResult(bus.SaveResult{ID: it.ID, Err: err})
		return saveDoneMsg{err: err}
	}
}

// ── Ingestion ─────────

// ingestDrop normalizes a drag-and-drop of paths. Only one pending
// attachment may exist per session; a second is rejected, as is a
// multi-path drop, leaving the pending attachment unchanged.
func (m Model) ingestDrop(paths []string) Model {
	if len(paths) == 0 {
		return m
	}
	if m.pending != nil || len(paths) > 1 {
		m.advisory = adviseOneFile
		return m
	}
	if _, err := os.Stat(paths[0]); err != nil {
		m.advisory = adviseNoFile
		return m
	}
	att, err := m.norm.NormalizeDrop(paths)
	if err != nil {
		m.advisory = adviseOneFile
		return m
	}
	m.pending = att
	m.advisory = ""
	m.input.SetValue("")
	return m
}

// ingestPaste routes pasted content by shape: an inline image data URL
// becomes a clipboard-image attachment, a URL becomes a remote attachment,
// an existing path becomes a drop, anything else is text.
func (m Model) ingestPaste(s string) Model {
	trimmed := strings.TrimSpace(s)

	if strings.HasPrefix(trimmed, "data:image/") {
		if m.pending != nil {
			m.advisory = adviseOneFile
			return m
		}
		if i := strings.Index(trimmed, "base64,"); i >= 0 {
			data, err := base64.StdEncoding.DecodeString(trimmed[i+len("base64,"):])
			if err == nil {
				// A paste that fails to re-encode is silently dropped; the
				// text-only capture proceeds.
				if att := m.norm.NormalizePaste(data); att != nil {
					m.pending = att
					m.advisory = ""
				}
				return m
			}
		}
		return m
	}

	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		if !strings.ContainsAny(trimmed, " \t\n") {
			if m.pending != nil {
				m.advisory = adviseOneFile
				return m
			}
			m.pending = m.norm.NormalizeRemote(trimmed)
			m.advisory = ""
			return m
		}
	}

	if trimmed != "" && !strings.ContainsAny(trimmed, "\n") {
		if info, err := os.Stat(trimmed); err == nil && !info.IsDir() {
			return m.ingestDrop([]string{trimmed})
		}
	}

	m.input.SetValue(m.input.Value() + s)
	return m
}

// ── View ──────────────

func (m Model) View() string {
	switch m.phase {
	case PhaseHidden:
		return ""

	case PhaseSubmitting:
		return capsuleStyle.Render(m.spin.View() + " Sending…")

	case PhaseConfirming:
		return capsuleStyle.Render(confirmStyle.Render("✓ Sent."))

	case PhaseDismissing:
		return capsuleStyle.Render(dismissStyle.Render("✓ Sent."))
	}

	var b strings.Builder
	b.WriteString(m.input.View())
	if m.pending != nil {
		badge := m.pending.FileExt
		if badge == "" {
			badge = "FILE"
		}
		b.WriteString("\n" + chipStyle.Render(badge+" "+m.pending.Filename()) + dismissStyle.Render("  ctrl+x remove"))
	}
	if m.advisory != "" {
		b.WriteString("\n" + advisoryStyle.Render(m.advisory))
	}
	b.WriteString("\n" + hintStyle.Render("enter send  ctrl+o attach path  esc dismiss"))
	return capsuleStyle.Render(b.String())
}

// Runner adapts the surface to a standalone tea.Model for the one-shot
// capture command.
type Runner struct {
	Surface Model
}

func (r Runner) Init() tea.Cmd { return r.Surface.Init() }

func (r Runner) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	r.Surface, cmd = r.Surface.Update(msg)
	return r, cmd
}

func (r Runner) View() string { return r.Surface.View() }
