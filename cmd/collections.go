package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/scx/internal/models"
	"github.com/desertthunder/scx/internal/services"
	"github.com/desertthunder/scx/internal/shared"
	"github.com/desertthunder/scx/internal/tasks"
	"github.com/urfave/cli/v3"
)

const cursorPrefix = "cursor."

type fetchFunc func(ctx context.Context, reset bool) ([]models.Item, error)

// page prints one page of a collection. Cursors for keys are restored from preferences
// before the fetch (unless --reset is set) and saved again afterwards, so consecutive
// invocations walk the collection.
func (r *Runner) page(ctx context.Context, cmd *cli.Command, svc *services.SoundCloudService, fetch fetchFunc, keys ...tasks.CollectionJob) error {
	reset := cmd.Bool("reset")
	if !reset {
		r.restoreCursors(svc, keys)
	}

	var items []models.Item
	err := r.withRefresh(ctx, svc, func() error {
		var err error
		items, err = fetch(ctx, reset)
		return err
	})
	if err != nil {
		return err
	}

	more := false
	for _, k := range keys {
		more = more || svc.HasMore(k.Name, k.Arg)
	}
	r.saveCursors(svc, keys)
	return r.writeItems(cmd, items, more)
}

func (r *Runner) restoreCursors(svc *services.SoundCloudService, keys []tasks.CollectionJob) {
	if r.prefs == nil {
		return
	}
	for _, k := range keys {
		next, err := r.prefs.Get(cursorPrefix + k.String())
		if err != nil {
			r.logger.Warn("could not read cursor", "collection", k, "error", err)
			continue
		}
		svc.RestoreCursor(k.Name, k.Arg, next)
	}
}

func (r *Runner) saveCursors(svc *services.SoundCloudService, keys []tasks.CollectionJob) {
	if r.prefs == nil {
		return
	}
	values := make(map[string]string, len(keys))
	for _, k := range keys {
		next, _ := svc.Cursor(k.Name, k.Arg)
		values[cursorPrefix+k.String()] = next
	}
	if err := r.prefs.Set(values); err != nil {
		r.logger.Warn("could not save cursors", "error", err)
	}
}

// collection prints the next page of a plain collection endpoint.
func (r *Runner) collection(name services.EndpointName) cli.ActionFunc {
	return r.withService(func(ctx context.Context, cmd *cli.Command, svc *services.SoundCloudService) error {
		fetch := func(ctx context.Context, reset bool) ([]models.Item, error) {
			return svc.Collection(ctx, name, reset, "")
		}
		return r.page(ctx, cmd, svc, fetch, tasks.CollectionJob{Name: name})
	})
}

// Search prints a page of track or playlist search results.
func (r *Runner) Search(kind services.SearchKind) cli.ActionFunc {
	return r.withService(func(ctx context.Context, cmd *cli.Command, svc *services.SoundCloudService) error {
		query := cmd.StringArg("query")
		if query == "" {
			return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
		}

		name := services.EndpointSearchTracks
		if kind == services.SearchPlaylists {
			name = services.EndpointSearchPlaylists
		}
		fetch := func(ctx context.Context, reset bool) ([]models.Item, error) {
			return svc.Search(ctx, query, kind, reset)
		}
		return r.page(ctx, cmd, svc, fetch, tasks.CollectionJob{Name: name, Arg: query})
	})
}

// MeTracks prints the user's own tracks followed by their own playlists.
func (r *Runner) MeTracks(ctx context.Context, cmd *cli.Command, svc *services.SoundCloudService) error {
	return r.page(ctx, cmd, svc, svc.SelfTracks,
		tasks.CollectionJob{Name: services.EndpointSelfTracks},
		tasks.CollectionJob{Name: services.EndpointSelfPlaylists},
	)
}

// LikedPlaylists prints a page of playlists the user liked.
func (r *Runner) LikedPlaylists(ctx context.Context, cmd *cli.Command, svc *services.SoundCloudService) error {
	return r.page(ctx, cmd, svc, svc.Playlists, tasks.CollectionJob{Name: services.EndpointPlaylistLikes})
}

// Playlist prints a page of a playlist's tracks.
func (r *Runner) Playlist(ctx context.Context, cmd *cli.Command, svc *services.SoundCloudService) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	fetch := func(ctx context.Context, reset bool) ([]models.Item, error) {
		return svc.Playlist(ctx, id, reset)
	}
	return r.page(ctx, cmd, svc, fetch, tasks.CollectionJob{Name: services.EndpointPlaylist, Arg: strconv.FormatInt(id, 10)})
}

// UserTracks prints a page of another user's tracks.
func (r *Runner) UserTracks(ctx context.Context, cmd *cli.Command, svc *services.SoundCloudService) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	fetch := func(ctx context.Context, reset bool) ([]models.Item, error) {
		return svc.UserTracks(ctx, id, reset)
	}
	return r.page(ctx, cmd, svc, fetch, tasks.CollectionJob{Name: services.EndpointUserTracks, Arg: strconv.FormatInt(id, 10)})
}

func idArg(cmd *cli.Command, name string) (int64, error) {
	raw := cmd.StringArg(name)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", shared.ErrInvalidArgument, name, raw)
	}
	return id, nil
}
