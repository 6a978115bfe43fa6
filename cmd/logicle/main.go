package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"logicle/internal/config"
	"logicle/internal/engine"
	"logicle/internal/lexicon"
	"logicle/internal/parser"
	"logicle/internal/store"
)

var (
	// Global flags
	verbose    bool
	configPath string
	language   string

	// translate flags
	saveDict bool

	// eval flags
	scenarioName string
	queryName    string
	evalTimeout  time.Duration

	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "logicle",
	Short: "logicle - constrained natural language to logic programs",
	Long: `logicle translates documents written in a constrained fragment of
English, French, Italian or Spanish into logic-program clauses, and can
evaluate their queries against their scenarios.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if language != "" {
			cfg.Language = language
			if err := cfg.Validate(); err != nil {
				return err
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var translateCmd = &cobra.Command{
	Use:   "translate [files...]",
	Short: "Translate documents to clause listings",
	Long: `Translates each document and prints its output term list to stdout.
Multiple files are translated concurrently, one context each; outputs are
printed in argument order. With --save the dictionary each document built
is persisted to the configured store.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTranslate,
}

var evalCmd = &cobra.Command{
	Use:   "eval [file]",
	Short: "Run a named query of a document against one of its scenarios",
	Args:  cobra.ExactArgs(1),
	RunE:  runEval,
}

var watchCmd = &cobra.Command{
	Use:   "watch [files...]",
	Short: "Re-translate documents whenever they change",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "logicle.yaml", "Configuration file")
	rootCmd.PersistentFlags().StringVarP(&language, "language", "l", "", "Force the surface language (en, fr, it, es)")

	translateCmd.Flags().BoolVar(&saveDict, "save", false, "Persist the translated dictionaries to the store")

	evalCmd.Flags().StringVar(&scenarioName, "scenario", "one", "Scenario to assume")
	evalCmd.Flags().StringVar(&queryName, "query", "one", "Query to run")
	evalCmd.Flags().DurationVar(&evalTimeout, "timeout", 0, "Evaluation timeout (default from config)")

	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func translateOptions() parser.Options {
	return parser.Options{
		Language:      lexicon.Language(cfg.Language),
		DefaultKB:     cfg.DefaultKB,
		DefaultTarget: cfg.Target,
		Logger:        logger,
	}
}

// translateFile translates one file and renders its listing. Diagnostics
// go to stderr; the listing is returned for ordered printing.
func translateFile(path string) (string, *parser.Session, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", path, err)
	}
	s, diags, err := parser.TranslateSession(string(src), translateOptions())
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "%s: %s\n", path, d)
	}
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", path, err)
	}
	return s.Doc.Listing(), s, nil
}

func runTranslate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var st *store.Store
	if saveDict || cfg.Store.Persist {
		var err error
		st, err = store.Open(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
	}

	listings := make([]string, len(args))
	sessions := make([]*parser.Session, len(args))

	g, gctx := errgroup.WithContext(ctx)
	for i, path := range args {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			listing, s, err := translateFile(path)
			if err != nil {
				return err
			}
			listings[i] = listing
			sessions[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, path := range args {
		if len(args) > 1 {
			fmt.Printf("%% %s\n", path)
		}
		fmt.Print(listings[i])
		if st != nil {
			if err := st.SaveDictionary(ctx, path, sessions[i].Lang, sessions[i].Dict); err != nil {
				return fmt.Errorf("save dictionary for %s: %w", path, err)
			}
			logger.Debug("dictionary saved",
				zap.String("file", path),
				zap.String("language", string(sessions[i].Lang)))
		}
	}
	return nil
}

func runEval(cmd *cobra.Command, args []string) error {
	timeout := evalTimeout
	if timeout <= 0 {
		timeout = cfg.EvalTimeout()
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	doc, diags, err := parser.Translate(string(src), translateOptions())
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "%s: %s\n", args[0], d)
	}
	if err != nil {
		return err
	}

	res, err := engine.New(logger).Eval(ctx, doc, scenarioName, queryName)
	if err != nil {
		return err
	}
	if len(res.Answers) == 0 {
		fmt.Println("no answers.")
		return nil
	}
	for _, a := range res.Answers {
		fmt.Println(a)
	}
	logger.Debug("query evaluated",
		zap.String("query", res.Query),
		zap.Int("answers", len(res.Answers)),
		zap.Int("facts", res.Facts),
		zap.Duration("duration", res.Duration))
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool, len(args))
	for _, path := range args {
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		watched[path] = true
	}

	// Initial translation so the watcher starts from a known state.
	for _, path := range args {
		printTranslation(path)
	}

	logger.Info("watching", zap.Strings("files", args))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watched[ev.Name] || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			logger.Debug("file changed", zap.String("file", ev.Name))
			printTranslation(ev.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		}
	}
}

// printTranslation translates one file and prints the result, reporting
// failures without stopping the watch loop.
func printTranslation(path string) {
	listing, _, err := translateFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Printf("%% %s\n", path)
	fmt.Print(listing)
}
