package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/scx/internal/formatter"
	"github.com/desertthunder/scx/internal/services"
	"github.com/desertthunder/scx/internal/tasks"
	"github.com/urfave/cli/v3"
)

var defaultExportJobs = []tasks.CollectionJob{
	{Name: services.EndpointLikes},
	{Name: services.EndpointSelfTracks},
	{Name: services.EndpointSelfPlaylists},
	{Name: services.EndpointPlaylistLikes},
	{Name: services.EndpointFollowings},
}

// Export drains whole collections to files. Arguments are "name" or "name:arg"
// (e.g. "likes", "playlist:123", "search_tracks:ambient").
func (r *Runner) Export(ctx context.Context, cmd *cli.Command, svc *services.SoundCloudService) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	jobs := defaultExportJobs
	if args := cmd.Args().Slice(); len(args) > 0 {
		jobs = make([]tasks.CollectionJob, 0, len(args))
		for _, a := range args {
			job, err := tasks.ParseJob(a)
			if err != nil {
				return err
			}
			if _, err := svc.Registry().Resolve(job.Name); err != nil {
				return fmt.Errorf("%w (known: %v)", err, svc.Registry().Collections())
			}
			jobs = append(jobs, job)
		}
	}

	opts := tasks.ExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate-limit"),
		MaxPages:   cmd.Int("max-pages"),
	}

	progress := make(chan tasks.ProgressUpdate, 100)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			switch update.Phase {
			case tasks.CollectionDone, tasks.CollectionFailed:
				r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
			default:
				r.logger.Debug(update.Message, "phase", update.Phase)
			}
		}
	}()

	engine := tasks.NewEngine(svc, r.logger)
	var result *tasks.ExportResult
	err = r.withRefresh(ctx, svc, func() error {
		var err error
		result, err = engine.ExportCollections(ctx, progress, jobs, opts)
		if err == nil {
			return expiredFailure(result)
		}
		return err
	})
	close(progress)
	wg.Wait()

	if err != nil {
		return err
	}

	r.writePlain("\n✓ Exported %d/%d collections to %s\n", result.Successful, result.Total, result.OutputDirectory)
	r.writePlain("Manifest: %s\n", result.ManifestPath)
	if result.Failed > 0 {
		return r.writePlain("⚠ %d collections failed; see the manifest for details\n", result.Failed)
	}
	return nil
}

// expiredFailure returns an expired-token error when that is the only reason collections failed,
// the one case worth a refresh and rerun.
func expiredFailure(result *tasks.ExportResult) error {
	var expired error
	for _, res := range result.Results {
		if res.Success {
			continue
		}
		if !isExpired(res.Error) {
			return nil
		}
		expired = res.Error
	}
	return expired
}
