package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm/logger"

	"github.com/balkashynov/llmlog/internal/config"
	"github.com/balkashynov/llmlog/internal/db"
	"github.com/balkashynov/llmlog/internal/importer"
	"github.com/balkashynov/llmlog/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	dbPathFlag  string
	verboseFlag bool
	outputFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "llmlog",
	Short: "Import and analyze LLM call logs",
	Long: `llmlog imports LLM timing logs and session transcripts into a local SQLite
database, reports per-model latency and lets you review and rate interactions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// app is what a command gets once config, logging and the store are up
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *db.Store
	importer *importer.Importer

	logCloser io.Closer
}

// openApp loads configuration and opens the store. Flags override config.
func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dbPathFlag != "" {
		cfg.DBPath = dbPathFlag
	}

	log, closer, err := logging.New(logging.Options{
		Path:    cfg.LogPath,
		Level:   cfg.LogLevel,
		Verbose: verboseFlag,
	})
	if err != nil {
		return nil, err
	}
	for _, w := range cfg.Warnings {
		log.Warn(w)
	}

	level := logger.Warn
	if verboseFlag {
		level = logger.Info
	}
	store, err := db.Open(db.Config{Path: cfg.DBPath, Logger: log, LogLevel: level})
	if err != nil {
		closer.Close()
		return nil, err
	}

	return &app{
		cfg:       cfg,
		logger:    log,
		store:     store,
		importer:  importer.New(store, log),
		logCloser: closer,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("close store", "error", err)
	}
	a.logCloser.Close()
}

// withApp wraps a command function so it runs against an opened app
func withApp(fn func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd.Context(), cmd, args, a)
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// ExecuteContext runs the root command with ctx passed to every command
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "Database file (default $LLMLOG_HOME/llmlog.db)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Mirror log output to stderr")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "", "Output format: table|plain|json (default table on a terminal)")
	rootCmd.SetOut(os.Stdout)

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(perfCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.SetHelpCommand(helpCmd)
	rootCmd.AddCommand(versionCmd)
}
