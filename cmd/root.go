package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/agentic-research/nestree/api"
	"github.com/agentic-research/nestree/internal/config"
	"github.com/agentic-research/nestree/internal/ingest"
	"github.com/agentic-research/nestree/internal/logging"
	"github.com/agentic-research/nestree/internal/nestedset"
	"github.com/agentic-research/nestree/internal/source"
)

// Version is overridden at link time.
var Version = "dev"

var (
	configPath string
	dbPath     string
	filePath   string
	tableName  string
	verbosity  int
	quiet      bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "nestree.hcl", "Path to HCL config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Read records from this SQLite database")
	rootCmd.PersistentFlags().StringVarP(&filePath, "file", "f", "", "Read records from this JSON or YAML file")
	rootCmd.PersistentFlags().StringVar(&tableName, "table", "", "Nested-set table name")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Silence all logging")
}

var rootCmd = &cobra.Command{
	Use:   "nestree",
	Short: "nestree: views over nested-set trees",
	Long: `nestree reads nested-set encoded records (lft, rgt, level, root) from a
SQLite table or a JSON/YAML export and renders them as indented option lists,
sortable outlines, scoped drop-down lists and tree-widget structures.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// env is what every query command needs: configuration, a logger and a
// builder over the configured source.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	src     nestedset.Source
	builder *nestedset.Builder
	closer  io.Closer
}

func (e *env) Close() error {
	if e.closer == nil {
		return nil
	}
	return e.closer.Close()
}

// loadConfig reads the config file and applies the global flag overrides.
// The default config path may be absent; an explicit one must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, err
	}
	switch {
	case dbPath != "":
		cfg.Source.Driver = config.DriverSQLite
		cfg.Source.Path = dbPath
	case filePath != "":
		cfg.Source.Driver = config.DriverFile
		cfg.Source.Path = filePath
	}
	if tableName != "" {
		cfg.Source.Table = tableName
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	base := logging.LevelFromString(cfg.Logging.Level)
	level := logging.LevelFromVerbosity(base, verbosity, quiet)
	return logging.New(cmd.ErrOrStderr(), level, logging.ParseFormat(cfg.Logging.Format))
}

// setup loads config and opens the configured source.
func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd, cfg)

	src, closer, err := openSource(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &env{
		cfg:     cfg,
		logger:  logger,
		src:     src,
		closer:  closer,
		builder: newBuilder(cfg, src, logger),
	}, nil
}

func newBuilder(cfg *config.Config, src nestedset.Source, logger *slog.Logger) *nestedset.Builder {
	return nestedset.NewBuilder(src,
		nestedset.WithGlyphs(cfg.Glyphs),
		nestedset.WithLogger(logger))
}

// openSource opens the configured source. The closer is nil for sources that
// hold no resources.
func openSource(cfg *config.Config, logger *slog.Logger) (nestedset.Source, io.Closer, error) {
	logger.Debug("open source", "driver", cfg.Source.Driver, "path", cfg.Source.Path)

	switch cfg.Source.Driver {
	case config.DriverSQLite:
		db, err := source.OpenSQLite(cfg.Source.Path, source.SQLiteOptions{
			Table:   cfg.Source.Table,
			Columns: cfg.Source.Columns,
			Logger:  logger,
		})
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	case config.DriverFile:
		records, err := loadRecords(cfg.Source.Path, cfg.Source.Selector, cfg.Source.Columns)
		if err != nil {
			return nil, nil, err
		}
		return source.NewMemoryStore(ingest.FillRight(records)...), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown driver %q", cfg.Source.Driver)
	}
}

// loadRecords reads a JSON or YAML record file from the OS filesystem.
func loadRecords(path, selector string, cols source.Columns) ([]api.Record, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	fsys := osfs.New(filepath.Dir(abs))
	return ingest.Load(fsys, filepath.Base(abs), ingest.LoadOptions{
		Selector: selector,
		Fields:   ingest.FieldsFromColumns(cols),
	})
}
