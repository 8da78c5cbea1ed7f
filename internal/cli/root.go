// Package cli wires configuration, storage and the board engine into the
// taskblaster commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aristath/taskblaster/internal/config"
	"github.com/aristath/taskblaster/internal/events"
	"github.com/aristath/taskblaster/internal/orchestrator"
	"github.com/aristath/taskblaster/internal/persistence"
)

// app is the state shared by every command, filled in before a command runs.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	configPath string // project config file, also where init writes
	dbPath     string
	logLevel   string
	logFormat  string
}

// NewRootCommand builds the command tree.
func NewRootCommand(version string) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "taskblaster",
		Short: "Kanban board engine with Git-driven task automation",
		Long: `taskblaster keeps per-project kanban boards: ordered columns of tasks
that move TODO -> IN_PROGRESS -> IN_REVIEW -> DONE, either by hand or when a
task gets a feature branch or a pull request.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "project config file (default .taskblaster/config.json)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "database path (overrides database.path)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "text or json")

	root.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newSeedCmd(a),
		newBoardCmd(a),
		newStartCmd(a),
		newFinishCmd(a),
		newInitCmd(a),
	)
	return root
}

// Execute runs the root command with ctx, printing any error.
func Execute(ctx context.Context, version string) error {
	root := NewRootCommand(version)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// load reads the layered configuration and applies flag overrides.
func (a *app) load(cmd *cobra.Command) error {
	global, project, err := config.DefaultPaths()
	if err != nil {
		return err
	}
	if a.configPath != "" {
		project = a.configPath
	} else {
		a.configPath = project
	}

	cfg, err := config.Load(global, project)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.Database.Path = a.dbPath
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func newLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func (a *app) openStore(ctx context.Context) (*persistence.SQLiteStore, error) {
	store, err := persistence.NewSQLiteStore(ctx, a.cfg.Database.Path, persistence.Options{
		MaxOpenConns: a.cfg.Database.MaxOpenConns,
		BusyTimeout:  a.cfg.Database.BusyTimeout.D(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", a.cfg.Database.Path, err)
	}
	return store, nil
}

func (a *app) newMover(store persistence.Store, bus events.Publisher) *orchestrator.Mover {
	retry := orchestrator.DefaultRetryConfig()
	r := a.cfg.Retry
	if r.InitialInterval > 0 {
		retry.InitialInterval = r.InitialInterval.D()
	}
	if r.MaxInterval > 0 {
		retry.MaxInterval = r.MaxInterval.D()
	}
	if r.MaxElapsedTime > 0 {
		retry.MaxElapsedTime = r.MaxElapsedTime.D()
	}
	if r.Multiplier > 0 {
		retry.Multiplier = r.Multiplier
	}

	opts := []orchestrator.Option{
		orchestrator.WithLogger(a.logger),
		orchestrator.WithRetry(retry),
	}
	if bus != nil {
		opts = append(opts, orchestrator.WithPublisher(bus))
	}
	return orchestrator.NewMover(store, opts...)
}
