package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/scx/internal/models"
	"github.com/desertthunder/scx/internal/services"
	"github.com/desertthunder/scx/internal/tasks"
)

var (
	_ list.Item = menuEntry{}
	_ list.Item = itemAdapter{}
)

// menuEntry is a collection offered in [MenuView].
type menuEntry struct {
	job   tasks.CollectionJob
	title string
	desc  string
}

func (e menuEntry) FilterValue() string { return e.title }
func (e menuEntry) Title() string       { return e.title }
func (e menuEntry) Description() string { return e.desc }

func defaultMenu() []list.Item {
	entry := func(name services.EndpointName, title, desc string) list.Item {
		return menuEntry{job: tasks.CollectionJob{Name: name}, title: title, desc: desc}
	}
	return []list.Item{
		entry(services.EndpointStream, "Stream", "Tracks from people you follow"),
		entry(services.EndpointLikes, "Likes", "Tracks you liked"),
		entry(services.EndpointSelfTracks, "My Tracks", "Tracks you uploaded"),
		entry(services.EndpointSelfPlaylists, "My Playlists", "Playlists you created"),
		entry(services.EndpointPlaylistLikes, "Liked Playlists", "Playlists you liked"),
		entry(services.EndpointFollowings, "Following", "People you follow"),
		entry(services.EndpointFollowers, "Followers", "People following you"),
	}
}

// itemAdapter wraps a [models.Item] to implement [list.Item].
type itemAdapter struct {
	item models.Item
}

func (i itemAdapter) FilterValue() string { return i.item.Label() }
func (i itemAdapter) Title() string {
	if p, ok := i.item.(*models.Playable); ok && p.Liked() {
		return fmt.Sprintf("%s %s", styles.liked.Render("♥"), p.Title)
	}
	return i.item.Label()
}
func (i itemAdapter) Description() string { return i.item.Sublabel() }

func adaptItems(items []models.Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, item := range items {
		out[i] = itemAdapter{item: item}
	}
	return out
}

// drillDown returns the collection behind a browsable item.
func drillDown(item models.Item) (tasks.CollectionJob, bool) {
	b, ok := item.(*models.Browsable)
	if !ok {
		return tasks.CollectionJob{}, false
	}
	id := fmt.Sprint(b.ID)
	switch b.Type {
	case models.MediaPlaylist:
		return tasks.CollectionJob{Name: services.EndpointPlaylist, Arg: id}, true
	case models.MediaUser:
		return tasks.CollectionJob{Name: services.EndpointUserTracks, Arg: id}, true
	default:
		return tasks.CollectionJob{}, false
	}
}
