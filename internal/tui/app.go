// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/lyrictype/internal/engine"
	"github.com/verte-zerg/lyrictype/internal/model"
	"github.com/verte-zerg/lyrictype/internal/passage"
	"github.com/verte-zerg/lyrictype/internal/stats"
)

type screen int

const (
	screenMenu screen = iota
	screenInput
	screenLoading
	screenTyping
	screenResults
)

type mode int

const (
	modeSong mode = iota
	modeCustom
	modeRandom
	modeLibrary
)

type menuItem struct {
	label string
	mode  mode
	lang  string
}

// passageLoadedMsg reports the outcome of a passage request.
type passageLoadedMsg struct {
	seq     int
	passage passage.Passage
	err     error
}

// Sources builds passage sources for the menu choices.
type Sources struct {
	Song         func(title string) (passage.Source, error)
	Random       map[string]passage.Source
	Library      func(name string) passage.Source
	LibraryNames []string
}

// Options configures an App.
type Options struct {
	Config  model.Config
	Sources Sources
	// Initial skips the menu and loads from this source right away.
	Initial passage.Source
	Engine  []engine.Option
}

// App routes between the menu, loading, typing and results screens.
type App struct {
	opts  Options
	sched *Scheduler

	screen    screen
	items     []menuItem
	cursor    int
	inputMode mode
	errMsg    string

	titleInput textinput.Model
	textArea   textarea.Model
	spinner    spinner.Model
	charTable  table.Model

	source     passage.Source
	loadSeq    int
	cancelLoad context.CancelFunc
	typing     *typingModel
	results []model.SessionResult
	initCmd tea.Cmd

	width  int
	height int
}

// NewApp constructs the application model.
func NewApp(opts Options) *App {
	if opts.Config.TickInterval <= 0 {
		opts.Config.TickInterval = engine.DefaultTickInterval
	}
	a := &App{
		opts:       opts,
		sched:      NewScheduler(),
		items:      buildMenu(opts.Sources),
		titleInput: textinput.New(),
		textArea:   textarea.New(),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	a.textArea.CharLimit = 0
	a.textArea.ShowLineNumbers = false
	a.textArea.Placeholder = "Paste or type the text to practice"
	if opts.Initial != nil {
		a.initCmd = a.load(opts.Initial)
	}
	return a
}

func buildMenu(src Sources) []menuItem {
	items := []menuItem{}
	if src.Song != nil {
		items = append(items, menuItem{label: "Song lyrics", mode: modeSong})
	}
	items = append(items, menuItem{label: "Custom text", mode: modeCustom})
	langs := make([]string, 0, len(src.Random))
	for lang := range src.Random {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		items = append(items, menuItem{label: fmt.Sprintf("Random words (%s)", lang), mode: modeRandom, lang: lang})
	}
	if src.Library != nil && len(src.LibraryNames) > 0 {
		items = append(items, menuItem{label: "Library passage", mode: modeLibrary})
	}
	return items
}

// Results returns every finished session in order.
func (a *App) Results() []model.SessionResult {
	out := make([]model.SessionResult, len(a.results))
	copy(out, a.results)
	return out
}

// LastResult returns the most recent finished session.
func (a *App) LastResult() (model.SessionResult, bool) {
	if len(a.results) == 0 {
		return model.SessionResult{}, false
	}
	return a.results[len(a.results)-1], true
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.initCmd
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.titleInput.Width = maxInt(10, msg.Width/2)
		a.textArea.SetWidth(maxInt(20, msg.Width*2/3))
		a.textArea.SetHeight(maxInt(3, msg.Height/3))
		if a.typing != nil {
			a.typing.width = msg.Width
			a.typing.height = msg.Height
		}
		return a, nil
	case tickMsg:
		cmd := a.sched.Fire(msg)
		if cmd != nil && a.typing != nil {
			a.typing.sample()
		}
		return a, cmd
	case spinner.TickMsg:
		if a.screen != screenLoading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	case passageLoadedMsg:
		return a, a.handleLoaded(msg)
	case sessionFinishedMsg:
		a.finish(msg.result)
		return a, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			a.cancelLoading()
			a.stopTyping()
			return a, tea.Quit
		}
		switch a.screen {
		case screenMenu:
			return a.updateMenu(msg)
		case screenInput:
			return a.updateInput(msg)
		case screenLoading:
			if msg.Type == tea.KeyEsc {
				a.cancelLoading()
				a.loadSeq++
				a.screen = screenMenu
			}
			return a, nil
		case screenTyping:
			return a.updateTyping(msg)
		case screenResults:
			return a.updateResults(msg)
		}
	}
	if a.screen == screenInput {
		return a.updateInput(msg)
	}
	return a, nil
}

func (a *App) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.items)-1 {
			a.cursor++
		}
	case "enter":
		if len(a.items) == 0 {
			return a, nil
		}
		return a, a.choose(a.items[a.cursor])
	}
	return a, nil
}

func (a *App) choose(item menuItem) tea.Cmd {
	a.errMsg = ""
	switch item.mode {
	case modeRandom:
		return a.load(a.opts.Sources.Random[item.lang])
	case modeCustom:
		a.inputMode = modeCustom
		a.screen = screenInput
		a.textArea.Reset()
		return a.textArea.Focus()
	case modeSong:
		a.inputMode = modeSong
		a.titleInput.Prompt = "Song title: "
		a.titleInput.Placeholder = "artist - song"
	case modeLibrary:
		a.inputMode = modeLibrary
		a.titleInput.Prompt = "Passage: "
		a.titleInput.Placeholder = "empty for random · " + strings.Join(a.opts.Sources.LibraryNames, ", ")
	}
	a.screen = screenInput
	a.titleInput.SetValue("")
	return a.titleInput.Focus()
}

func (a *App) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Type == tea.KeyEsc:
			a.titleInput.Blur()
			a.textArea.Blur()
			a.screen = screenMenu
			return a, nil
		case a.inputMode == modeCustom && key.String() == "ctrl+s":
			a.textArea.Blur()
			return a, a.load(passage.NewTextSource("Custom text", "custom", a.textArea.Value()))
		case a.inputMode != modeCustom && key.Type == tea.KeyEnter:
			a.titleInput.Blur()
			return a, a.submitTitle(strings.TrimSpace(a.titleInput.Value()))
		}
	}
	var cmd tea.Cmd
	if a.inputMode == modeCustom {
		a.textArea, cmd = a.textArea.Update(msg)
	} else {
		a.titleInput, cmd = a.titleInput.Update(msg)
	}
	return a, cmd
}

func (a *App) submitTitle(value string) tea.Cmd {
	if a.inputMode == modeLibrary {
		return a.load(a.opts.Sources.Library(value))
	}
	if value == "" {
		a.errMsg = "Song title is empty."
		a.screen = screenMenu
		return nil
	}
	src, err := a.opts.Sources.Song(value)
	if err != nil {
		a.errMsg = err.Error()
		a.screen = screenMenu
		return nil
	}
	return a.load(src)
}

// load fetches the next passage of src in the background. Leaving the
// loading screen or starting another load cancels the fetch.
func (a *App) load(src passage.Source) tea.Cmd {
	a.cancelLoading()
	a.stopTyping()
	a.source = src
	a.screen = screenLoading
	a.loadSeq++
	seq := a.loadSeq
	ctx, cancel := context.WithCancel(context.Background())
	a.cancelLoad = cancel
	fetch := func() tea.Msg {
		p, err := src.Next(ctx)
		return passageLoadedMsg{seq: seq, passage: p, err: err}
	}
	return tea.Batch(a.spinner.Tick, fetch)
}

func (a *App) cancelLoading() {
	if a.cancelLoad == nil {
		return
	}
	a.cancelLoad()
	a.cancelLoad = nil
}

func (a *App) handleLoaded(msg passageLoadedMsg) tea.Cmd {
	if msg.seq != a.loadSeq {
		return nil
	}
	a.cancelLoading()
	if msg.err != nil {
		a.errMsg = fmt.Sprintf("Could not load passage: %v", msg.err)
		a.screen = screenMenu
		return nil
	}
	a.typing = newTypingModel(a.sched, a.opts.Config.TickInterval, msg.passage, a.opts.Engine...)
	a.typing.width = a.width
	a.typing.height = a.height
	a.screen = screenTyping
	return nil
}

func (a *App) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+r":
		return a, a.typing.restart()
	case "ctrl+n":
		return a, a.load(a.source)
	case "ctrl+b":
		a.stopTyping()
		a.screen = screenMenu
		return a, nil
	}
	return a, a.typing.handleKey(msg)
}

func (a *App) finish(res model.SessionResult) {
	a.results = append(a.results, res)
	if a.opts.Config.FocusWeak {
		if rs, ok := a.source.(*passage.RandomSource); ok {
			rs.FocusOn(stats.SelectWeakChars(res.Chars, a.opts.Config.WeakTop), a.opts.Config.WeakFactor)
		}
	}
	a.charTable = buildCharTable(res.Chars, maxInt(3, a.height-14))
	a.screen = screenResults
}

func (a *App) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		a.stopTyping()
		return a, tea.Quit
	case "enter", "n", "ctrl+n":
		return a, a.load(a.source)
	case "r", "ctrl+r":
		cmd := a.typing.restart()
		a.screen = screenTyping
		return a, cmd
	case "esc", "b", "ctrl+b":
		a.stopTyping()
		a.screen = screenMenu
		return a, nil
	}
	var cmd tea.Cmd
	a.charTable, cmd = a.charTable.Update(msg)
	return a, cmd
}

func (a *App) stopTyping() {
	if a.typing == nil {
		return
	}
	a.typing.stop()
	a.typing = nil
}

// View implements tea.Model.
func (a *App) View() string {
	var body string
	switch a.screen {
	case screenMenu:
		body = a.menuView()
	case screenInput:
		body = a.inputView()
	case screenLoading:
		body = fmt.Sprintf("%s Loading passage... (esc to cancel)", a.spinner.View())
	case screenTyping:
		return a.typing.view()
	case screenResults:
		body = a.resultsView()
	}
	if a.width == 0 || a.height == 0 {
		return body
	}
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, body)
}

func (a *App) menuView() string {
	lines := []string{titleStyle.Render("lyrictype"), ""}
	for i, item := range a.items {
		if i == a.cursor {
			lines = append(lines, activeItemStyle.Render("> "+item.label))
			continue
		}
		lines = append(lines, itemStyle.Render("  "+item.label))
	}
	if a.errMsg != "" {
		lines = append(lines, "", errorStyle.Render(a.errMsg))
	}
	lines = append(lines, "", footerStyle.Render("↑/↓ choose · enter start · esc quit"))
	return strings.Join(lines, "\n")
}

func (a *App) inputView() string {
	if a.inputMode == modeCustom {
		return strings.Join([]string{
			titleStyle.Render("Custom text"),
			a.textArea.View(),
			footerStyle.Render("ctrl+s start · esc back"),
		}, "\n")
	}
	return strings.Join([]string{
		a.titleInput.View(),
		"",
		footerStyle.Render("enter start · esc back"),
	}, "\n")
}

func (a *App) resultsView() string {
	res, ok := a.LastResult()
	if !ok {
		return ""
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("WPM", fmt.Sprintf("%d", res.WPM)),
		metricCard("Accuracy", fmt.Sprintf("%d%%", res.Accuracy)),
		metricCard("Time", fmt.Sprintf("%.1fs", res.ElapsedSeconds)),
		metricCard("Keys", fmt.Sprintf("%d", res.KeyPresses)),
	)
	lines := []string{titleStyle.Render(res.Title), cards}
	sparkWidth := 60
	if a.width > 0 {
		sparkWidth = maxInt(10, a.width-20)
	}
	if spark := stats.Sparkline(stats.Downsample(stats.MovingAverage(res.WPMSamples, 3), sparkWidth)); spark != "" {
		lines = append(lines, cardTitleStyle.Render("Pace ")+spark)
	}
	lines = append(lines, "", a.charTable.View(), "",
		footerStyle.Render("enter next · r retry · b menu · q quit"))
	return strings.Join(lines, "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func buildCharTable(chars []model.CharStats, height int) table.Model {
	columns := []table.Column{
		{Title: "Char", Width: 7},
		{Title: "Accuracy", Width: 9},
		{Title: "Correct", Width: 7},
		{Title: "Incorrect", Width: 9},
		{Title: "Total", Width: 6},
	}
	sorted := stats.SortByFrequency(chars)
	rows := make([]table.Row, 0, len(sorted))
	for _, c := range sorted {
		rows = append(rows, table.Row{
			stats.CharLabel(c.Char),
			fmt.Sprintf("%.1f%%", c.Accuracy()*100),
			fmt.Sprintf("%d", c.Correct),
			fmt.Sprintf("%d", c.Incorrect),
			fmt.Sprintf("%d", c.Total()),
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(height),
		table.WithFocused(true),
	)
	t.SetStyles(charTableStyles())
	return t
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
