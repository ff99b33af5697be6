package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tfx/internal/report"
	"github.com/desertthunder/tfx/internal/services"
	"github.com/desertthunder/tfx/internal/shared"
	"github.com/desertthunder/tfx/internal/tracklist"
	"github.com/urfave/cli/v3"
)

// Fetch runs the full pipeline: resolve input IDs, obtain an access token,
// batch-fetch metadata, and write the JSON report.
//
// Per-track failures are recorded in the report and do not fail the run;
// input, configuration, auth and report-write failures do.
func (r *Runner) Fetch(ctx context.Context, cmd *cli.Command) error {
	shared.SetVerbosity(r.logger, cmd.Bool("verbose"))

	source := cmd.StringArg("input")
	if source == "" {
		return fmt.Errorf("%w: provide a track ID file or a comma-separated ID list", shared.ErrMissingArgument)
	}

	ids, err := tracklist.Resolve(source)
	if err != nil {
		return err
	}
	r.logger.Debugf("resolved %d track IDs", len(ids))

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return err
	}

	provider, err := r.providerFor(config)
	if err != nil {
		return err
	}

	token, err := provider.AccessToken(ctx)
	if err != nil {
		return err
	}

	r.writePlain("%s\n", r.palette.Title("Spotify Track Info Downloader"))
	r.writePlain("Fetching %d tracks...\n", len(ids))

	svc := r.newService(token)
	results := svc.Fetch(ctx, ids, services.FetchOpts{
		Features: cmd.Bool("features"),
		Similar:  cmd.Bool("similar"),
	})

	rep := report.New(results)

	base := cmd.String("output")
	if base == "" {
		base = report.BaseName(source)
	}

	path, err := report.Write(rep, base)
	if err != nil {
		return err
	}

	retrieved, failed := tally(results)
	r.logger.Infof("report written to %v (%d retrieved, %d failed)", path, retrieved, failed)

	if cmd.Bool("pretty") {
		return r.writeJSON(rep, true)
	}

	r.writePlain("%s\n", r.palette.OK(fmt.Sprintf("Saved track information to %s", path)))
	r.writePlain("  Retrieved: %d\n", retrieved)
	if failed > 0 {
		r.writePlain("  Failed: %d\n", failed)
		for _, res := range results {
			if res.Status == report.StatusFailed {
				r.writePlain("  %s\n", r.palette.Err(fmt.Sprintf("%s: %s", res.TrackID, res.Error)))
			}
		}
	}

	return nil
}

func tally(results []report.TrackResult) (retrieved, failed int) {
	for _, res := range results {
		if res.Status == report.StatusRetrieved {
			retrieved++
		} else {
			failed++
		}
	}
	return retrieved, failed
}
