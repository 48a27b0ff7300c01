package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/discosync/internal/formatter"
	"github.com/desertthunder/discosync/internal/repositories"
	"github.com/desertthunder/discosync/internal/services"
	"github.com/desertthunder/discosync/internal/shared"
	"github.com/desertthunder/discosync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	catalog services.Catalog
	engine  *tasks.SyncEngine
	cache   *repositories.Cache
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Catalog services.Catalog
	Cache   *repositories.Cache
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:  opts.Config,
		catalog: opts.Catalog,
		engine:  tasks.NewSyncEngine(opts.Catalog, shared.WithLogger(opts.Logger, "component", "engine")),
		cache:   opts.Cache,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		authCommand, searchCommand, wantlistCommand, collectionCommand, marketplaceCommand, cacheCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// threshold resolves the match threshold for a command: the flag when
// given, the configured value otherwise. Zero falls through to the
// engine default.
func (r *Runner) threshold(cmd *cli.Command) float64 {
	if cmd.IsSet("threshold") {
		return cmd.Float("threshold")
	}
	return r.config.Sync.Threshold
}

func (r *Runner) writeJSON(data any) error {
	output, err := formatter.ToJSON(data)
	if err != nil {
		return err
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// invalidateCache drops cached list snapshots after a mutation.
func (r *Runner) invalidateCache(keys ...string) {
	if r.cache == nil {
		return
	}
	for _, key := range keys {
		if err := r.cache.Invalidate(key); err != nil {
			r.logger.Warn("cache invalidation failed", "key", key, "error", err)
		}
	}
}
