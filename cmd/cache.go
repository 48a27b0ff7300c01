package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/discosync/internal/shared"
	"github.com/urfave/cli/v3"
)

// CacheStatus lists cached snapshots with their age.
func (r *Runner) CacheStatus(ctx context.Context, cmd *cli.Command) error {
	if r.cache == nil {
		return fmt.Errorf("%w: cache database unavailable", shared.ErrInvalidConfig)
	}

	entries, err := r.cache.Entries()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries)
	}

	if len(entries) == 0 {
		return r.writePlain("Cache is empty\n")
	}
	for _, entry := range entries {
		if err := r.writePlain("%-20s %6d bytes  %s\n", entry.Key, entry.Size, entry.CachedAt.Format("2006-01-02 15:04:05")); err != nil {
			return err
		}
	}
	return nil
}

// CacheClear removes every cached snapshot.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	if r.cache == nil {
		return fmt.Errorf("%w: cache database unavailable", shared.ErrInvalidConfig)
	}

	if err := r.cache.Clear(); err != nil {
		return err
	}
	return r.writePlain("Cache cleared\n")
}
