package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/discosync/internal/models"
	"github.com/desertthunder/discosync/internal/parsers"
	"github.com/urfave/cli/v3"
)

// Search resolves a single artist/album pair and prints the match without
// mutating any list.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	record := models.InputRecord{
		Artist: cmd.String("artist"),
		Album:  cmd.String("album"),
		Format: parsers.NormalizeFormat(cmd.String("format")),
		Year:   int(cmd.Int("year")),
	}

	result := r.engine.SearchRelease(ctx, record, r.threshold(cmd))
	if result.Matched {
		if _, err := r.engine.ResolveToRelease(ctx, &result, ""); err != nil {
			r.logger.Warn("could not resolve to a concrete release", "error", err)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(result)
	}

	if !result.Matched {
		return cli.Exit("no match: "+result.Error, 2)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Matched %s - %s (score %.2f)\n", result.Artist, result.Title, result.Score)
	if result.MasterID != 0 {
		fmt.Fprintf(&b, "  master:  %d\n", result.MasterID)
	}
	if result.ReleaseID != 0 {
		fmt.Fprintf(&b, "  release: %d\n", result.ReleaseID)
	}
	if result.Year != 0 {
		fmt.Fprintf(&b, "  year:    %d\n", result.Year)
	}
	if result.Format != "" {
		fmt.Fprintf(&b, "  format:  %s\n", result.Format)
	}
	return r.writePlain("%s", b.String())
}
