// Package main provides the CLI entrypoint for tuirace.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuirace/internal/auth"
	"github.com/verte-zerg/tuirace/internal/config"
	"github.com/verte-zerg/tuirace/internal/generator"
	"github.com/verte-zerg/tuirace/internal/model"
	"github.com/verte-zerg/tuirace/internal/passage"
	"github.com/verte-zerg/tuirace/internal/race"
	"github.com/verte-zerg/tuirace/internal/room"
	"github.com/verte-zerg/tuirace/internal/stats"
	"github.com/verte-zerg/tuirace/internal/store"
	"github.com/verte-zerg/tuirace/internal/transport"
	"github.com/verte-zerg/tuirace/internal/tui"
	"github.com/verte-zerg/tuirace/internal/wordlist"
)

const (
	defaultDifficulty  = model.Easy
	defaultSource      = sourceLocal
	defaultWords       = 30
	defaultCurveWindow = 10
	dialTimeout        = 10 * time.Second
)

// Passage sources for solo practice.
const (
	sourceLocal     = "local"
	sourceRemote    = "remote"
	sourceGenerated = "generated"
)

var (
	practiceDifficulty string
	practicePassage    string
	practiceSource     string
	practiceWords      int
	practiceWordList   string

	serverURL      string
	serverUsername string
	serverToken    string

	roomDifficulty string

	addDifficulty  string
	listDifficulty string

	statsDifficulty  string
	statsSince       string
	statsLast        int
	statsCurveWindow int

	logFile io.Closer
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "tuirace",
		Short:             "Terminal typing races",
		SilenceUsage:      true,
		SilenceErrors:     false,
		Args:              cobra.NoArgs,
		PersistentPreRunE: setupEnvironment,
		PersistentPostRun: func(*cobra.Command, []string) { closeLog() },
		RunE:              runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceDifficulty, "difficulty", string(defaultDifficulty), "passage difficulty (easy, medium, hard)")
	rootCmd.Flags().StringVar(&practicePassage, "passage", "", "race a specific passage id")
	rootCmd.Flags().StringVar(&practiceSource, "source", defaultSource, "passage source (local, remote, generated)")
	rootCmd.Flags().IntVar(&practiceWords, "words", defaultWords, "words per generated passage")
	rootCmd.Flags().StringVar(&practiceWordList, "wordlist", "", "word list for generated passages")

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "race server URL (env "+config.EnvServer+")")
	rootCmd.PersistentFlags().StringVar(&serverUsername, "username", "", "username (env "+config.EnvUsername+")")
	rootCmd.PersistentFlags().StringVar(&serverToken, "token", "", "bearer token (env "+config.EnvToken+")")

	rootCmd.AddCommand(newRoomCmd())
	rootCmd.AddCommand(newPassagesCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// setupEnvironment loads .env files and routes the std logger. Logs go to a
// file when DEBUG is set and are discarded otherwise, since the terminal is
// owned by the TUI.
func setupEnvironment(_ *cobra.Command, _ []string) error {
	dotenv := filepath.Join(config.XDGConfigHome(), "tuirace", ".env")
	if err := config.LoadDotenv(".env", dotenv); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	if os.Getenv("DEBUG") == "" {
		log.SetOutput(io.Discard)
		return nil
	}
	path := config.DefaultLogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := tea.LogToFile(path, "tuirace")
	if err != nil {
		return fmt.Errorf("failed to open debug log: %w", err)
	}
	logFile = f
	return nil
}

func closeLog() {
	if logFile == nil {
		return
	}
	if err := logFile.Close(); err != nil {
		logErrf("failed to close debug log: %v\n", err)
	}
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "difficulty", &practiceDifficulty, fileCfg.Practice.Difficulty)
	applyStringConfig(cmd, "source", &practiceSource, fileCfg.Practice.Source)
	applyIntConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyStringConfig(cmd, "wordlist", &practiceWordList, fileCfg.Practice.WordList)
	srv := resolveServer(cmd, fileCfg)

	difficulty, err := model.ParseDifficulty(practiceDifficulty)
	if err != nil {
		return err
	}
	cfg := model.Config{
		Difficulty:   difficulty,
		PassageID:    strings.TrimSpace(practicePassage),
		Source:       strings.ToLower(strings.TrimSpace(practiceSource)),
		Words:        practiceWords,
		WordListPath: practiceWordList,
	}
	if cfg.WordListPath == "" {
		cfg.WordListPath = config.DefaultWordListPath()
	}
	if err := validateConfig(cfg, srv); err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	svc, sink, err := buildSources(cfg, srv, st)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	p, err := passage.Load(ctx, svc, cfg.PassageID, cfg.Difficulty)
	cancel()
	if err != nil {
		return err
	}
	solo, err := race.NewSolo(p)
	if err != nil {
		return err
	}
	log.Printf("practice: passage %s (%s, %d words)", p.ID, p.Difficulty, len(solo.Tokens()))

	program := tea.NewProgram(tui.NewModel(solo, sink), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// buildSources wires the passage service and result sinks for a source.
// Results always go to the local database; remote practice also reports
// them to the server.
func buildSources(cfg model.Config, srv model.ServerConfig, st *store.Store) (passage.Service, passage.ResultSink, error) {
	switch cfg.Source {
	case sourceRemote:
		client := passage.NewClient(srv.URL, session(srv))
		return client, passage.Sinks{st, client}, nil
	case sourceGenerated, sourceLocal:
		words, err := wordlist.LoadOrDefault(cfg.WordListPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load word list %s: %w", cfg.WordListPath, err)
		}
		generated := passage.NewGenerated(generator.New(), words, cfg.Words)
		if cfg.Source == sourceGenerated {
			return generated, st, nil
		}
		return passage.Fallback{st, generated}, st, nil
	default:
		return nil, nil, fmt.Errorf("unknown source %q", cfg.Source)
	}
}

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Join a multiplayer race",
		Args:  cobra.NoArgs,
		RunE:  runRoomCmd,
	}
	cmd.Flags().StringVar(&roomDifficulty, "difficulty", string(model.Medium), "room difficulty (easy, medium, hard)")
	return cmd
}

func runRoomCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "difficulty", &roomDifficulty, fileCfg.Room.Difficulty)
	srv := resolveServer(cmd, fileCfg)
	if srv.URL == "" {
		return fmt.Errorf("--server is required (or set %s)", config.EnvServer)
	}
	difficulty, err := model.ParseDifficulty(roomDifficulty)
	if err != nil {
		return err
	}

	url, err := transport.RoomURL(srv.URL, difficulty)
	if err != nil {
		return err
	}
	sess := session(srv)
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	conn, err := transport.Dial(ctx, url, sess)
	cancel()
	if err != nil {
		return fmt.Errorf("%s: %w", room.NoticeConnectFailed, err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	m := tui.NewRoomModel(room.NewSync(sess, difficulty), conn, st)
	program := tea.NewProgram(m, tea.WithAltScreen())
	_, runErr := program.Run()
	if cerr := conn.Close(); cerr != nil {
		// Best-effort close; the room may already have hung up.
		_ = cerr
	}
	if runErr != nil {
		return fmt.Errorf("failed to run TUI: %w", runErr)
	}
	if notice := m.Notice(); notice != "" {
		logErrln(notice)
	}
	return nil
}

func newPassagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passages",
		Short: "Manage local passages",
	}
	add := &cobra.Command{
		Use:   "add <text>",
		Short: "Store a passage for local practice",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runPassagesAddCmd,
	}
	add.Flags().StringVar(&addDifficulty, "difficulty", string(defaultDifficulty), "passage difficulty")
	list := &cobra.Command{
		Use:   "list",
		Short: "List local passages",
		Args:  cobra.NoArgs,
		RunE:  runPassagesListCmd,
	}
	list.Flags().StringVar(&listDifficulty, "difficulty", "", "difficulty filter")
	cmd.AddCommand(add, list)
	return cmd
}

func runPassagesAddCmd(cmd *cobra.Command, args []string) error {
	difficulty, err := model.ParseDifficulty(addDifficulty)
	if err != nil {
		return err
	}
	return withStore(func(st *store.Store) error {
		p, err := st.AddPassage(cmd.Context(), strings.Join(args, " "), difficulty)
		if err != nil {
			if errors.Is(err, race.ErrEmptyPassage) {
				return fmt.Errorf("passage text must not be empty")
			}
			return fmt.Errorf("failed to add passage: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), p.ID)
		return err
	})
}

func runPassagesListCmd(cmd *cobra.Command, _ []string) error {
	var difficulty model.Difficulty
	if listDifficulty != "" {
		d, err := model.ParseDifficulty(listDifficulty)
		if err != nil {
			return err
		}
		difficulty = d
	}
	return withStore(func(st *store.Store) error {
		passages, err := st.ListPassages(cmd.Context(), difficulty)
		if err != nil {
			return fmt.Errorf("failed to list passages: %w", err)
		}
		if len(passages) == 0 {
			logErrln("No passages stored. Add one with: tuirace passages add --difficulty easy \"text\"")
			return nil
		}
		for _, p := range passages {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", p.ID, p.Difficulty, preview(p.Text, 60)); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		return nil
	})
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show race history stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsDifficulty, "difficulty", "", "difficulty filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N races")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	cfg := model.StatsConfig{
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}
	if statsDifficulty != "" {
		d, err := model.ParseDifficulty(statsDifficulty)
		if err != nil {
			return err
		}
		cfg.Difficulty = d
	}
	if cfg.Last < 0 || cfg.CurveWindow < 0 {
		return fmt.Errorf("--last and --curve-window must be >= 0")
	}

	return withStore(func(st *store.Store) error {
		report, err := stats.BuildReport(cmd.Context(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		return report.Render(cmd.OutOrStdout(), stats.TerminalWidth())
	})
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
		if err := os.WriteFile(path, []byte(config.DefaultTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// resolveServer merges server settings: flags, then the config file, then
// the environment.
func resolveServer(cmd *cobra.Command, fileCfg config.FileConfig) model.ServerConfig {
	srv := config.ServerFromEnv(fileCfg.Server)
	applyStringConfig(cmd, "server", &serverURL, srv.URL)
	applyStringConfig(cmd, "username", &serverUsername, srv.Username)
	applyStringConfig(cmd, "token", &serverToken, srv.Token)
	return model.ServerConfig{
		URL:      strings.TrimSpace(serverURL),
		Username: strings.TrimSpace(serverUsername),
		Token:    strings.TrimSpace(serverToken),
	}
}

func session(srv model.ServerConfig) auth.Session {
	return auth.Static{User: srv.Username, BearerToken: srv.Token}
}

func withStore(fn func(st *store.Store) error) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	return fn(st)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func validateConfig(cfg model.Config, srv model.ServerConfig) error {
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	switch cfg.Source {
	case sourceLocal, sourceGenerated:
	case sourceRemote:
		if srv.URL == "" {
			return fmt.Errorf("--source remote needs --server (or %s)", config.EnvServer)
		}
	default:
		return fmt.Errorf("--source must be one of local, remote, generated")
	}
	if cfg.PassageID != "" && cfg.Source == sourceGenerated {
		return fmt.Errorf("--passage cannot be used with --source generated")
	}
	return nil
}

func preview(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-1]) + "…"
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
