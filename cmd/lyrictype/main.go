// Package main provides the CLI entrypoint for lyrictype.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/lyrictype/internal/config"
	"github.com/verte-zerg/lyrictype/internal/generator"
	"github.com/verte-zerg/lyrictype/internal/lyrics"
	"github.com/verte-zerg/lyrictype/internal/model"
	"github.com/verte-zerg/lyrictype/internal/passage"
	"github.com/verte-zerg/lyrictype/internal/stats"
	"github.com/verte-zerg/lyrictype/internal/store"
	"github.com/verte-zerg/lyrictype/internal/tui"
	"github.com/verte-zerg/lyrictype/internal/wordlist"
)

const (
	defaultLang       = "en"
	defaultWords      = 50
	defaultPunct      = 0.0
	defaultWeakTop    = 5
	defaultWeakFactor = 2.0
	defaultTickMs     = 1000
	defaultTimeoutSec = 60
)

const defaultPunctSet = ".,!?;:"

var (
	practiceLang       string
	practiceWords      int
	practicePunct      float64
	practicePunctSet   string
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakFactor float64
	sessionTickMs      int

	sourceSong      string
	sourceText      string
	sourceFile      string
	sourceClipboard bool
	sourcePassage   string
	sourceRandom    bool

	lyricsModel   string
	lyricsRefresh bool
	lyricsList    bool
	lyricsClear   bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lyrictype",
		Short:         "Typing trainer for song lyrics and custom text",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&sourceSong, "song", "", "practice the lyrics of this song")
	rootCmd.Flags().StringVar(&sourceText, "text", "", "practice this text")
	rootCmd.Flags().StringVar(&sourceFile, "file", "", "practice the text in this file")
	rootCmd.Flags().BoolVar(&sourceClipboard, "clipboard", false, "practice the clipboard contents")
	rootCmd.Flags().StringVar(&sourcePassage, "passage", "", "practice a named passage from the library")
	rootCmd.Flags().BoolVar(&sourceRandom, "random", false, "practice random words in --lang")
	rootCmd.MarkFlagsMutuallyExclusive("song", "text", "file", "clipboard", "passage", "random")

	rootCmd.Flags().StringVar(&practiceLang, "lang", defaultLang, "language code for random words")
	rootCmd.Flags().IntVar(&practiceWords, "words", defaultWords, "words per random text")
	rootCmd.Flags().Float64Var(&practicePunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	rootCmd.Flags().StringVar(&practicePunctSet, "punct-set", defaultPunctSet, "punctuation set")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias random words toward the last session's weak characters")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak characters to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak characters")
	rootCmd.Flags().IntVar(&sessionTickMs, "tick-ms", defaultTickMs, "timer tick period in milliseconds")
	rootCmd.Flags().StringVar(&lyricsModel, "model", lyrics.DefaultModel, "model used to look up lyrics")
	rootCmd.Flags().BoolVar(&lyricsRefresh, "refresh", false, "ignore cached lyrics")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newPassagesCmd())
	rootCmd.AddCommand(newLyricsCmd())

	return rootCmd
}

func loadPracticeConfig(cmd *cobra.Command) (model.Config, model.LyricsConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, model.LyricsConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lang", &practiceLang, fileCfg.Practice.Lang)
	applyIntConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyFloatConfig(cmd, "punct", &practicePunct, fileCfg.Practice.PunctPct)
	applyStringConfig(cmd, "punct-set", &practicePunctSet, fileCfg.Practice.PunctSet)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)
	applyIntConfig(cmd, "tick-ms", &sessionTickMs, fileCfg.Session.TickMs)
	applyStringConfig(cmd, "model", &lyricsModel, fileCfg.Lyrics.Model)

	cfg := model.Config{
		Lang:         strings.ToLower(strings.TrimSpace(practiceLang)),
		Words:        practiceWords,
		PunctPct:     practicePunct,
		PunctSet:     practicePunctSet,
		FocusWeak:    practiceFocusWeak,
		WeakTop:      practiceWeakTop,
		WeakFactor:   practiceWeakFactor,
		TickInterval: time.Duration(sessionTickMs) * time.Millisecond,
	}
	lyricsCfg := lyricsConfig(fileCfg.Lyrics)
	if err := validateConfig(cfg, lyricsCfg); err != nil {
		return model.Config{}, model.LyricsConfig{}, err
	}
	return cfg, lyricsCfg, nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	cfg, lyricsCfg, err := loadPracticeConfig(cmd)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("lyrics cache disabled: %v\n", err)
		st = nil
	}
	defer closeStore(st)

	sources, err := buildSources(cfg, lyricsCfg, st)
	if err != nil {
		return err
	}

	stdinPiped := !term.IsTerminal(int(os.Stdin.Fd()))
	initial, err := initialSource(cmd, cfg, sources, os.Stdin, stdinPiped)
	if err != nil {
		return err
	}

	app := tui.NewApp(tui.Options{Config: cfg, Sources: sources, Initial: initial})
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if stdinPiped {
		opts = append(opts, tea.WithInputTTY())
	}
	program := tea.NewProgram(app, opts...)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	res, ok := app.LastResult()
	if !ok {
		return nil
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, res); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	if err := stats.RenderCharTable(out, res.Chars); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

func buildSources(cfg model.Config, lyricsCfg model.LyricsConfig, st *store.Store) (tui.Sources, error) {
	opts := generator.Options{
		Count:    cfg.Words,
		PunctPct: cfg.PunctPct,
		PunctSet: []rune(cfg.PunctSet),
	}
	langs := wordlist.EmbeddedLangs()
	if !containsString(langs, cfg.Lang) {
		langs = append(langs, cfg.Lang)
	}
	random := map[string]passage.Source{}
	for _, lang := range langs {
		words, origin, err := wordlist.Resolve(lang, config.DefaultWordListPath(lang))
		if err != nil {
			if lang == cfg.Lang {
				return tui.Sources{}, wordListLoadError(lang, config.DefaultWordListPath(lang), err)
			}
			logErrf("skipping %s words: %v\n", lang, err)
			continue
		}
		if !strings.HasPrefix(origin, "built-in:") {
			logErrf("using word list %s\n", origin)
		}
		random[lang] = passage.NewRandomSource(lang, words, generator.New(), opts)
	}

	lib, err := passage.LoadLibrary(config.DefaultPassagesPath())
	if err != nil {
		logErrf("passage library disabled: %v\n", err)
		lib = passage.Library{}
	}
	svc, svcErr := newLyricsService(lyricsCfg, st)
	return tui.Sources{
		Song: func(title string) (passage.Source, error) {
			if svcErr != nil {
				return nil, svcErr
			}
			return passage.NewLyricsSource(svc, title), nil
		},
		Random: random,
		Library: func(name string) passage.Source {
			return passage.NewLibrarySource(lib, name, rand.New(rand.NewSource(time.Now().UnixNano())))
		},
		LibraryNames: lib.Names(),
	}, nil
}

// lyricsConfig resolves lyrics settings from flags and the config file.
func lyricsConfig(file config.LyricsConfig) model.LyricsConfig {
	cfg := model.LyricsConfig{
		Model:     lyricsModel,
		BaseURL:   lyrics.DefaultBaseURL,
		APIKeyEnv: lyrics.DefaultAPIKeyEnv,
		Timeout:   defaultTimeoutSec * time.Second,
		Refresh:   lyricsRefresh,
	}
	if file.BaseURL != nil {
		cfg.BaseURL = *file.BaseURL
	}
	if file.APIKeyEnv != nil {
		cfg.APIKeyEnv = *file.APIKeyEnv
	}
	if file.TimeoutSeconds != nil {
		cfg.Timeout = time.Duration(*file.TimeoutSeconds) * time.Second
	}
	return cfg
}

func newLyricsService(cfg model.LyricsConfig, st *store.Store) (*lyrics.Service, error) {
	client, err := lyrics.ClientFromEnv(cfg.APIKeyEnv, cfg.Model, cfg.BaseURL, &http.Client{Timeout: cfg.Timeout})
	if err != nil {
		return nil, err
	}
	var cache lyrics.Cache
	if st != nil {
		cache = st
	}
	return lyrics.NewService(client, cache, client.Model, cfg.Refresh), nil
}

// initialSource picks the passage source named by flags, falling back to
// piped stdin. A nil source means the menu is shown.
func initialSource(cmd *cobra.Command, cfg model.Config, sources tui.Sources, stdin io.Reader, stdinPiped bool) (passage.Source, error) {
	flags := cmd.Flags()
	switch {
	case flags.Changed("text"):
		return passage.NewTextSource("Custom text", "custom", sourceText), nil
	case flags.Changed("file"):
		return passage.FromFile(sourceFile)
	case sourceClipboard:
		return passage.FromClipboard()
	case flags.Changed("passage"):
		return sources.Library(sourcePassage), nil
	case flags.Changed("song"):
		return sources.Song(sourceSong)
	case sourceRandom:
		src, ok := sources.Random[cfg.Lang]
		if !ok {
			return nil, fmt.Errorf("no word list for language %q", cfg.Lang)
		}
		return src, nil
	case stdinPiped:
		return passage.FromReader("stdin", stdin)
	}
	return nil, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List word list languages",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	langs, err := availableLangs(config.DefaultWordListDir())
	if err != nil {
		return err
	}
	for _, lang := range langs {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), lang); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// availableLangs merges built-in languages with user word lists in dir.
func availableLangs(dir string) ([]string, error) {
	langs := wordlist.EmbeddedLangs()
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read wordlist directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".txt") {
			continue
		}
		lang := strings.TrimSuffix(name, ".txt")
		if !containsString(langs, lang) {
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)
	return langs, nil
}

func newPassagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "passages",
		Short: "List passages in the library",
		Args:  cobra.NoArgs,
		RunE:  runPassagesCmd,
	}
}

func runPassagesCmd(cmd *cobra.Command, _ []string) error {
	path := config.DefaultPassagesPath()
	lib, err := passage.LoadLibrary(path)
	if err != nil {
		return err
	}
	names := lib.Names()
	if len(names) == 0 {
		logErrf("No passages found. Add them to %s\n", path)
		return nil
	}
	for _, name := range names {
		entry, _ := lib.Find(name)
		line := name
		if entry.Title != "" && entry.Title != name {
			line = fmt.Sprintf("%s\t%s", name, entry.Title)
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newLyricsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lyrics [title]",
		Short: "Fetch lyrics or manage the lyrics cache",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLyricsCmd,
	}
	cmd.Flags().StringVar(&lyricsModel, "model", lyrics.DefaultModel, "model used to look up lyrics")
	cmd.Flags().BoolVar(&lyricsRefresh, "refresh", false, "ignore cached lyrics")
	cmd.Flags().BoolVar(&lyricsList, "list", false, "list cached lyrics")
	cmd.Flags().BoolVar(&lyricsClear, "clear", false, "delete all cached lyrics")
	return cmd
}

func runLyricsCmd(cmd *cobra.Command, args []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	switch {
	case lyricsClear:
		n, err := st.ClearLyrics(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "Removed %d cached lyrics\n", n)
		return err
	case lyricsList:
		entries, err := st.ListLyrics(ctx)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if _, err := fmt.Fprintf(out, "%s\t%s\t%s\n", e.FetchedAt.Format("2006-01-02"), e.Model, e.Title); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("song title is required")
	}

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "model", &lyricsModel, fileCfg.Lyrics.Model)
	svc, err := newLyricsService(lyricsConfig(fileCfg.Lyrics), st)
	if err != nil {
		return err
	}
	res, err := svc.Lookup(ctx, args[0])
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out, strings.TrimSpace(res.Lyrics)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(res.Sources) > 0 {
		logErrln("Sources:")
		for _, s := range res.Sources {
			logErrf("  %s\n", s.URL)
		}
	}
	if res.Cached {
		logErrln("(from cache)")
	}
	return nil
}

func closeStore(st *store.Store) {
	if st == nil {
		return
	}
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# lyrictype configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# lang = %q             # Language for random words
# words = %d              # Words per random text
# punct = %.2f            # Punctuation probability per word (0-1)
# punct-set = %q      # Punctuation set
# focus-weak = false      # Bias random words toward weak characters
# weak-top = %d            # Number of weak characters to focus on
# weak-factor = %.1f      # Weight factor for weak characters

[lyrics]
# model = %q
# base-url = %q
# api-key-env = %q
# timeout-seconds = %d

[session]
# tick-ms = %d          # Timer tick period
`,
		defaultLang,
		defaultWords,
		defaultPunct,
		defaultPunctSet,
		defaultWeakTop,
		defaultWeakFactor,
		lyrics.DefaultModel,
		lyrics.DefaultBaseURL,
		lyrics.DefaultAPIKeyEnv,
		defaultTimeoutSec,
		defaultTickMs,
	)
}

func validateConfig(cfg model.Config, lyricsCfg model.LyricsConfig) error {
	if cfg.Lang == "" {
		return fmt.Errorf("--lang must not be empty")
	}
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.PunctPct > 0 && cfg.PunctSet == "" {
		return fmt.Errorf("--punct-set must not be empty")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.TickInterval <= 0 {
		return fmt.Errorf("--tick-ms must be > 0")
	}
	if lyricsCfg.Timeout <= 0 {
		return errors.New("lyrics timeout-seconds must be > 0")
	}
	return nil
}

func wordListLoadError(lang, path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load word list: %v", err),
		fmt.Sprintf("expected word list at: %s", path),
		fmt.Sprintf("language %q has no built-in list", lang),
		"Run: lyrictype langs",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
