package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/scx/internal/formatter"
	"github.com/desertthunder/scx/internal/models"
	"github.com/desertthunder/scx/internal/services"
	"github.com/desertthunder/scx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Like likes a track, or unlikes it with --unlike, or flips it with --toggle.
func (r *Runner) Like(ctx context.Context, cmd *cli.Command, svc *services.SoundCloudService) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	action, verb := svc.Like, "Liked"
	switch {
	case cmd.Bool("unlike") && cmd.Bool("toggle"):
		return fmt.Errorf("%w: --unlike and --toggle are exclusive", shared.ErrInvalidArgument)
	case cmd.Bool("unlike"):
		action, verb = svc.Unlike, "Unliked"
	case cmd.Bool("toggle"):
		action, verb = svc.ToggleLike, "Toggled"
	}

	var applied bool
	if err := r.withRefresh(ctx, svc, func() error {
		var err error
		applied, err = action(ctx, id)
		return err
	}); err != nil {
		return err
	}

	if !applied {
		return r.writePlain("→ No change for track %d\n", id)
	}
	state := "not liked"
	if svc.IsLiked(id) {
		state = "liked"
	}
	return r.writePlain("✓ %s track %d (now %s)\n", verb, id, state)
}

// Track prints a single track.
func (r *Runner) Track(ctx context.Context, cmd *cli.Command, svc *services.SoundCloudService) error {
	track, err := r.track(ctx, cmd, svc)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(track, cmd.Bool("pretty"))
	}
	return r.writePlainln("%s", formatter.TextLine(track))
}

// StreamURL resolves the playable URL of a track's stream.
func (r *Runner) StreamURL(ctx context.Context, cmd *cli.Command, svc *services.SoundCloudService) error {
	track, err := r.track(ctx, cmd, svc)
	if err != nil {
		return err
	}

	var location string
	if err := r.withRefresh(ctx, svc, func() error {
		var err error
		location, err = svc.ResolveStreamURL(ctx, track.StreamURI)
		return err
	}); err != nil {
		return err
	}
	return r.writePlainln("%s", location)
}

// DownloadURL prints a track's download URL. With --quiet an unavailable download prints nothing and is not an error.
func (r *Runner) DownloadURL(ctx context.Context, cmd *cli.Command, svc *services.SoundCloudService) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	if cmd.Bool("quiet") {
		if link, ok := svc.TryDownloadURL(ctx, id); ok {
			return r.writePlainln("%s", link)
		}
		return nil
	}

	var link string
	if err := r.withRefresh(ctx, svc, func() error {
		var err error
		link, err = svc.DownloadURL(ctx, id)
		return err
	}); err != nil {
		return err
	}
	return r.writePlainln("%s", link)
}

func (r *Runner) track(ctx context.Context, cmd *cli.Command, svc *services.SoundCloudService) (*models.Playable, error) {
	id, err := idArg(cmd, "id")
	if err != nil {
		return nil, err
	}

	var item models.Item
	if err := r.withRefresh(ctx, svc, func() error {
		var err error
		item, err = svc.Track(ctx, id)
		return err
	}); err != nil {
		return nil, err
	}

	track, ok := item.(*models.Playable)
	if !ok {
		return nil, fmt.Errorf("%w: track %d is not playable", shared.ErrNotStreamable, id)
	}
	return track, nil
}
