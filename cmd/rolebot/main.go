package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"rolebot/internal/bot"
	"rolebot/internal/config"
	"rolebot/internal/logging"
	"rolebot/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

const version = "1.0.0"

var (
	// Global flags
	verbose    bool
	configPath string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "rolebot",
	Short: "rolebot - reaction role folders for Discord",
	Long: `rolebot manages self-assignable Discord roles.

Members pick roles by reacting to designated panel messages, admins organize
the role pool into named folders, and new members can receive a configured
set of roles on join. All state lives in a local SQLite database.

Run without arguments to start the bot.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runBot,
}

// statsCmd prints per-table record counts without starting the bot.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print database record counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		st, err := store.New(cfg.Storage.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer st.Close()

		stats, err := st.Stats()
		if err != nil {
			return err
		}
		tables := make([]string, 0, len(stats))
		for t := range stats {
			tables = append(tables, t)
		}
		sort.Strings(tables)

		fmt.Printf("Database: %s\n", st.Path())
		for _, t := range tables {
			fmt.Printf("  %-16s %d\n", t, stats[t])
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the rolebot version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rolebot %s\n", version)
	},
}

func runBot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logging.Initialize(configPath); err != nil {
		logger.Warn("file logging unavailable", zap.Error(err))
	}
	defer logging.CloseAll()
	logging.Boot("Starting rolebot %s", version)

	st, err := store.New(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()
	logger.Info("store opened", zap.String("path", st.Path()))

	b, err := bot.New(cfg, st, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return b.Run(ctx)
	})
	g.Go(func() error {
		w, err := config.NewWatcher(configPath)
		if err != nil {
			// Hot reload is a convenience; run without it.
			logger.Warn("config watcher unavailable", zap.Error(err))
			<-ctx.Done()
			return nil
		}
		return w.Run(ctx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	logging.Boot("Shutdown complete")
	return nil
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "rolebot.yaml", "path to the config file")
	rootCmd.AddCommand(statsCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
