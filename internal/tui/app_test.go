package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/lyrictype/internal/engine"
	"github.com/verte-zerg/lyrictype/internal/model"
	"github.com/verte-zerg/lyrictype/internal/passage"
)

func newTestApp(sources Sources) (*App, *testClock) {
	clock := &testClock{now: time.Unix(2_000, 0)}
	app := NewApp(Options{
		Config:  model.Config{TickInterval: time.Millisecond},
		Sources: sources,
		Engine:  []engine.Option{engine.WithClock(clock)},
	})
	return app, clock
}

func press(app *App, msg tea.KeyMsg) tea.Cmd {
	_, cmd := app.Update(msg)
	return cmd
}

// deliver runs cmd and feeds back the messages the app routes itself.
func deliver(app *App, cmd tea.Cmd) []tea.Msg {
	msgs := runCmd(cmd)
	for _, msg := range msgs {
		switch msg.(type) {
		case passageLoadedMsg, sessionFinishedMsg:
			app.Update(msg)
		}
	}
	return msgs
}

func TestMenuListsSources(t *testing.T) {
	app, _ := newTestApp(Sources{
		Song: func(string) (passage.Source, error) { return nil, errors.New("unused") },
		Random: map[string]passage.Source{
			"vi": passage.NewTextSource("vi", "random-vi", "xin chào"),
			"en": passage.NewTextSource("en", "random-en", "hello"),
		},
		Library:      func(string) passage.Source { return nil },
		LibraryNames: []string{"poem"},
	})
	want := []string{"Song lyrics", "Custom text", "Random words (en)", "Random words (vi)", "Library passage"}
	if len(app.items) != len(want) {
		t.Fatalf("unexpected menu %v", app.items)
	}
	for i, label := range want {
		if app.items[i].label != label {
			t.Fatalf("item %d: expected %q, got %q", i, label, app.items[i].label)
		}
	}
}

func TestAppRandomSessionToResults(t *testing.T) {
	app, clock := newTestApp(Sources{
		Random: map[string]passage.Source{"en": passage.NewTextSource("Greeting", "random-en", "Hi yo")},
	})
	press(app, tea.KeyMsg{Type: tea.KeyDown})
	deliver(app, press(app, tea.KeyMsg{Type: tea.KeyEnter}))
	if app.screen != screenTyping {
		t.Fatalf("expected typing screen, got %v (err %q)", app.screen, app.errMsg)
	}

	update := func(msg tea.KeyMsg) tea.Cmd { return press(app, msg) }
	msgs := runCmd(update(runes("h")))
	tick, ok := findMsg[tickMsg](msgs)
	if !ok {
		t.Fatalf("expected a tick after the first keystroke")
	}
	app.Update(tick)
	if len(app.typing.samples) != 1 {
		t.Fatalf("expected a pace sample after a tick, got %v", app.typing.samples)
	}
	if snap := app.typing.ctrl.Snapshot(); snap.Ticks != 1 {
		t.Fatalf("expected one tick, got %d", snap.Ticks)
	}

	clock.Advance(6 * time.Second)
	for _, r := range "i yo" {
		msg := runes(string(r))
		if r == ' ' {
			msg = tea.KeyMsg{Type: tea.KeySpace}
		}
		deliver(app, update(msg))
	}
	if app.screen != screenResults {
		t.Fatalf("expected results screen, got %v", app.screen)
	}
	res, ok := app.LastResult()
	if !ok || res.WPM != 10 || res.Accuracy != 100 || res.Title != "Greeting" {
		t.Fatalf("unexpected result %+v", res)
	}
	if !containsAll(app.View(), []string{"WPM", "Accuracy", "Greeting"}) {
		t.Fatalf("results view missing fields:\n%s", app.View())
	}

	press(app, runes("r"))
	if app.screen != screenTyping || app.typing.ctrl.Snapshot().Phase != engine.PhaseIdle {
		t.Fatalf("expected retry to restart the passage")
	}
	press(app, tea.KeyMsg{Type: tea.KeyCtrlB})
	if app.screen != screenMenu || app.typing != nil {
		t.Fatalf("expected back to menu")
	}
	if len(app.Results()) != 1 {
		t.Fatalf("expected one recorded result, got %d", len(app.Results()))
	}
}

func TestAppLoadErrorReturnsToMenu(t *testing.T) {
	app, _ := newTestApp(Sources{
		Random: map[string]passage.Source{"en": passage.NewTextSource("Empty", "random-en", "   ")},
	})
	press(app, tea.KeyMsg{Type: tea.KeyDown})
	deliver(app, press(app, tea.KeyMsg{Type: tea.KeyEnter}))
	if app.screen != screenMenu {
		t.Fatalf("expected menu after failed load, got %v", app.screen)
	}
	if app.errMsg == "" {
		t.Fatalf("expected an error message")
	}
}

func TestAppIgnoresCancelledLoad(t *testing.T) {
	app, _ := newTestApp(Sources{
		Random: map[string]passage.Source{"en": passage.NewTextSource("T", "random-en", "abc")},
	})
	press(app, tea.KeyMsg{Type: tea.KeyDown})
	cmd := press(app, tea.KeyMsg{Type: tea.KeyEnter})
	press(app, tea.KeyMsg{Type: tea.KeyEsc})
	deliver(app, cmd)
	if app.screen != screenMenu || app.typing != nil {
		t.Fatalf("expected cancelled load to be ignored")
	}
}

func TestAppSongErrorShownInMenu(t *testing.T) {
	app, _ := newTestApp(Sources{
		Song: func(string) (passage.Source, error) { return nil, errors.New("lyrics service unavailable") },
	})
	press(app, tea.KeyMsg{Type: tea.KeyEnter})
	if app.screen != screenInput {
		t.Fatalf("expected title input, got %v", app.screen)
	}
	press(app, runes("song"))
	press(app, tea.KeyMsg{Type: tea.KeyEnter})
	if app.screen != screenMenu || app.errMsg != "lyrics service unavailable" {
		t.Fatalf("unexpected state screen=%v err=%q", app.screen, app.errMsg)
	}
}

func TestAppInitialSourceSkipsMenu(t *testing.T) {
	app := NewApp(Options{Initial: passage.NewTextSource("Flag", "custom", "abc")})
	if app.screen != screenLoading {
		t.Fatalf("expected loading screen, got %v", app.screen)
	}
	deliver(app, app.Init())
	if app.screen != screenTyping || app.typing.passage.Title != "Flag" {
		t.Fatalf("expected typing the initial passage")
	}
	cmd := press(app, tea.KeyMsg{Type: tea.KeyCtrlN})
	if app.screen != screenLoading || app.typing != nil {
		t.Fatalf("expected ctrl+n to load a new passage")
	}
	deliver(app, cmd)
	if app.screen != screenTyping {
		t.Fatalf("expected typing after reload")
	}
}

func TestAppCustomTextInput(t *testing.T) {
	app, _ := newTestApp(Sources{})
	press(app, tea.KeyMsg{Type: tea.KeyEnter})
	if app.screen != screenInput || app.inputMode != modeCustom {
		t.Fatalf("expected custom text input")
	}
	press(app, runes("Some Text"))
	deliver(app, press(app, tea.KeyMsg{Type: tea.KeyCtrlS}))
	if app.screen != screenTyping {
		t.Fatalf("expected typing screen, got %v (err %q)", app.screen, app.errMsg)
	}
	if got := app.typing.ctrl.Snapshot().Target; got != "some text" {
		t.Fatalf("unexpected target %q", got)
	}
}

// blockingSource waits for its context and records why it gave up.
type blockingSource struct {
	ctxErr chan error
}

func newBlockingSource() *blockingSource {
	return &blockingSource{ctxErr: make(chan error, 4)}
}

func (s *blockingSource) Name() string { return "blocking" }

func (s *blockingSource) Next(ctx context.Context) (passage.Passage, error) {
	select {
	case <-ctx.Done():
		s.ctxErr <- ctx.Err()
		return passage.Passage{}, ctx.Err()
	case <-time.After(2 * time.Second):
		s.ctxErr <- nil
		return passage.Passage{}, errors.New("fetch was never cancelled")
	}
}

func (s *blockingSource) lastErr(t *testing.T) error {
	t.Helper()
	select {
	case err := <-s.ctxErr:
		return err
	default:
		t.Fatalf("source was never asked for a passage")
		return nil
	}
}

func TestAppEscapeCancelsPendingLoad(t *testing.T) {
	src := newBlockingSource()
	app, _ := newTestApp(Sources{Random: map[string]passage.Source{"en": src}})
	press(app, tea.KeyMsg{Type: tea.KeyDown})
	cmd := press(app, tea.KeyMsg{Type: tea.KeyEnter})
	if app.screen != screenLoading {
		t.Fatalf("expected loading screen, got %v", app.screen)
	}
	press(app, tea.KeyMsg{Type: tea.KeyEsc})
	deliver(app, cmd)
	if err := src.lastErr(t); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected fetch context to be cancelled, got %v", err)
	}
	if app.screen != screenMenu || app.errMsg != "" {
		t.Fatalf("expected quiet return to menu, screen=%v err=%q", app.screen, app.errMsg)
	}
}

func TestAppNewLoadCancelsPreviousLoad(t *testing.T) {
	slow := newBlockingSource()
	app, _ := newTestApp(Sources{})
	first := app.load(slow)
	second := app.load(passage.NewTextSource("T", "custom", "abc"))
	deliver(app, first)
	if err := slow.lastErr(t); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected superseded fetch to be cancelled, got %v", err)
	}
	deliver(app, second)
	if app.screen != screenTyping || app.typing == nil {
		t.Fatalf("expected second load to start typing, got %v", app.screen)
	}
	if app.cancelLoad != nil {
		t.Fatalf("expected finished load to release its context")
	}
}

func TestAppQuitCancelsPendingLoad(t *testing.T) {
	src := newBlockingSource()
	app, _ := newTestApp(Sources{})
	cmd := app.load(src)
	press(app, tea.KeyMsg{Type: tea.KeyCtrlC})
	deliver(app, cmd)
	if err := src.lastErr(t); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected quit to cancel the fetch, got %v", err)
	}
}
