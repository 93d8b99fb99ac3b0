package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/verte-zerg/lyrictype/internal/engine"
	"github.com/verte-zerg/lyrictype/internal/model"
	"github.com/verte-zerg/lyrictype/internal/passage"
	"github.com/verte-zerg/lyrictype/internal/stats"
)

// sessionFinishedMsg is sent once when the passage has been fully typed.
type sessionFinishedMsg struct {
	result model.SessionResult
}

// typingModel is the typing screen for one passage.
type typingModel struct {
	ctrl      *engine.Controller
	sched     *Scheduler
	passage   passage.Passage
	sessionID uuid.UUID
	samples   []float64
	// sampled is the last whole elapsed second that produced a sample.
	sampled int
	final   *engine.FinalStats

	width  int
	height int
}

func newTypingModel(sched *Scheduler, interval time.Duration, p passage.Passage, opts ...engine.Option) *typingModel {
	m := &typingModel{sched: sched, passage: p}
	all := append([]engine.Option{
		engine.WithScheduler(sched),
		engine.WithTickInterval(interval),
		engine.WithFinishHandler(func(fs engine.FinalStats) { m.final = &fs }),
	}, opts...)
	m.ctrl = engine.NewController(all...)
	m.ctrl.Start(p.Text)
	m.sessionID = m.ctrl.SessionID()
	return m
}

// handleKey forwards a key press to the engine.
func (m *typingModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	for _, ev := range keyEvents(msg) {
		m.ctrl.HandleInput(ev)
		if m.final != nil {
			break
		}
	}
	if id := m.ctrl.SessionID(); id != m.sessionID {
		m.sessionID = id
		m.resetSamples()
	}
	cmd := m.sched.Cmds()
	if m.final == nil {
		return cmd
	}
	res := m.result(*m.final)
	m.final = nil
	return tea.Batch(cmd, func() tea.Msg { return sessionFinishedMsg{result: res} })
}

// sample records the live pace once per elapsed second, whatever the tick
// interval is.
func (m *typingModel) sample() {
	snap := m.ctrl.Snapshot()
	if snap.Phase != engine.PhaseActive {
		return
	}
	sec := int(snap.Metrics.ElapsedSeconds)
	if sec <= m.sampled {
		return
	}
	m.sampled = sec
	m.samples = append(m.samples, stats.LiveWPM(snap.Metrics.Correct, snap.Metrics.ElapsedSeconds))
}

func (m *typingModel) resetSamples() {
	m.samples = nil
	m.sampled = 0
}

func (m *typingModel) restart() tea.Cmd {
	m.ctrl.Reset()
	m.sessionID = m.ctrl.SessionID()
	m.resetSamples()
	return nil
}

func (m *typingModel) stop() {
	m.ctrl.Stop()
}

func (m *typingModel) result(fs engine.FinalStats) model.SessionResult {
	snap := m.ctrl.Snapshot()
	samples := append([]float64{}, m.samples...)
	samples = append(samples, stats.LiveWPM(snap.Metrics.Correct, fs.ElapsedSeconds))
	return model.SessionResult{
		Title:          m.passage.Title,
		Origin:         m.passage.Origin,
		WPM:            fs.WPM,
		Accuracy:       fs.Accuracy,
		ElapsedSeconds: fs.ElapsedSeconds,
		KeyPresses:     snap.KeyPresses,
		Chars:          stats.CharBreakdown(snap),
		WPMSamples:     samples,
	}
}

func (m *typingModel) view() string {
	snap := m.ctrl.Snapshot()
	if snap.Target == "" {
		return ""
	}
	styledRunes := buildStyledRunes(snap)
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(styledRunes)
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	wrapped := wrapStyledRunes(styledRunes, contentWidth)
	content := lipgloss.NewStyle().Width(contentWidth).Render(wrapped)
	if m.passage.Title != "" {
		content = titleStyle.Render(m.passage.Title) + "\n\n" + content
	}
	footer := renderFooter(snap)
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func renderFooter(snap engine.Snapshot) string {
	targetLen := len([]rune(snap.Target))
	progress := 0
	if targetLen > 0 {
		progress = int(float64(snap.Cursor) / float64(targetLen) * 100)
	}
	segments := []string{
		fmt.Sprintf("%d WPM", snap.Metrics.WPM),
		fmt.Sprintf("%ds", int(snap.Metrics.ElapsedSeconds)),
		fmt.Sprintf("%d keys", snap.KeyPresses),
		fmt.Sprintf("%d%% acc", snap.Metrics.Accuracy),
		fmt.Sprintf("Progress %d%%", progress),
		"ctrl+r restart · ctrl+n next · ctrl+b back",
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

// keyEvents translates a terminal key press into engine events. Pasted text
// yields nothing; only real key presses count.
func keyEvents(msg tea.KeyMsg) []engine.KeyEvent {
	if msg.Paste {
		return nil
	}
	switch msg.Type {
	case tea.KeyRunes:
		out := make([]engine.KeyEvent, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			ev := engine.Char(r)
			ev.Alt = msg.Alt
			out = append(out, ev)
		}
		return out
	case tea.KeySpace:
		return []engine.KeyEvent{{Key: engine.KeySpace, Alt: msg.Alt}}
	case tea.KeyBackspace, tea.KeyDelete:
		return []engine.KeyEvent{{Key: engine.KeyBackspace, Alt: msg.Alt}}
	case tea.KeyEsc:
		return []engine.KeyEvent{{Key: engine.KeyEscape}}
	case tea.KeyEnter:
		return []engine.KeyEvent{{Key: engine.KeyEnter, Alt: msg.Alt}}
	case tea.KeyTab:
		return []engine.KeyEvent{{Key: engine.KeyTab, Alt: msg.Alt}}
	}
	name := msg.String()
	if rest, ok := strings.CutPrefix(name, "ctrl+"); ok {
		return []engine.KeyEvent{{Key: rest, Ctrl: true, Alt: msg.Alt}}
	}
	return []engine.KeyEvent{{Key: name, Alt: msg.Alt}}
}
