package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/agentic-research/nestree/api"
	"github.com/agentic-research/nestree/internal/config"
	"github.com/agentic-research/nestree/internal/mcpserver"
	"github.com/agentic-research/nestree/internal/source"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tree views as MCP tools over stdio",
	Long: `Start a Model Context Protocol server on stdin/stdout.

Tools:
  - tree_options:   indented option list
  - tree_outline:   sortable outline (html or text)
  - tree_dropdown:  scoped drop-down list for an anchor record
  - tree_structure: key/children JSON for tree widgets

Send SIGHUP to reopen the source after the database or export changed.
Logs go to stderr; stdout carries the protocol.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cmd, cfg)

		src, closer, err := openSource(cfg, logger)
		if err != nil {
			return err
		}
		hs := source.NewHotSwap(src)
		r := &reloader{cfg: cfg, logger: logger, swap: hs, closer: closer}
		defer r.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		go r.watch(ctx)

		srv := mcpserver.New("nestree", Version, newBuilder(cfg, hs, logger), mcpserver.OutlineDefaults{
			Exclude:   api.ID(cfg.Outline.Exclude),
			Group:     api.ID(cfg.Outline.Group),
			Baseline:  cfg.Outline.Baseline,
			UpdateURL: cfg.Outline.UpdateURL,
			DeleteURL: cfg.Outline.DeleteURL,
		}, logger)
		return srv.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// reloader reopens the source on SIGHUP and swaps it in.
type reloader struct {
	cfg    *config.Config
	logger *slog.Logger
	swap   *source.HotSwap

	mu     sync.Mutex
	closer io.Closer
}

func (r *reloader) watch(ctx context.Context) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			r.reload()
		}
	}
}

func (r *reloader) reload() {
	next, closer, err := openSource(r.cfg, r.logger)
	if err != nil {
		r.logger.Error("reload failed; keeping current source", "error", err)
		return
	}
	_, wait := r.swap.Swap(next)

	r.mu.Lock()
	prev := r.closer
	r.closer = closer
	r.mu.Unlock()

	if prev != nil {
		wait()
		_ = prev.Close() // ignore error
	}
	r.logger.Info("source reloaded", "path", r.cfg.Source.Path)
}

func (r *reloader) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closer != nil {
		_ = r.closer.Close()
		r.closer = nil
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
