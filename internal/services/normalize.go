package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/scx/internal/models"
	"github.com/desertthunder/scx/internal/shared"
)

// Result is the output of [Normalizer.Normalize].
//
// Liked holds the ids of tracks whose favorite flag was set, in input order.
type Result struct {
	Items []models.Item
	Liked []int64
}

// Normalizer maps raw collection records onto host items through an [ItemFactory].
//
// A record that fails to map is logged and skipped; it never fails the page.
type Normalizer struct {
	factory ItemFactory
	logger  *log.Logger
}

func NewNormalizer(factory ItemFactory, logger *log.Logger) *Normalizer {
	if factory == nil {
		factory = models.Factory{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Normalizer{factory: factory, logger: shared.WithLogger(logger, "component", "normalizer")}
}

// Normalize maps kind-tagged records. Ratings are only filled in when authenticated is set.
func (n *Normalizer) Normalize(raw []json.RawMessage, authenticated bool) Result {
	result := Result{Items: make([]models.Item, 0, len(raw))}

	for i, element := range raw {
		rec, err := DecodeRecord(element)
		if err != nil {
			n.logger.Warn("skipping record", "index", i, "error", err)
			continue
		}

		switch rec.Kind {
		case KindTrack, KindLike:
			item, liked, err := n.Track(rec.Track, authenticated)
			if errors.Is(err, shared.ErrNotStreamable) {
				n.logger.Debug("skipping unstreamable track", "index", i)
				continue
			}
			if err != nil {
				n.logger.Warn("skipping track", "index", i, "kind", rec.Kind, "error", err)
				continue
			}
			result.Items = append(result.Items, item)
			if liked {
				result.Liked = append(result.Liked, item.ItemID())
			}
		case KindUser:
			item, err := n.User(rec.User)
			if err != nil {
				n.logger.Warn("skipping user", "index", i, "error", err)
				continue
			}
			result.Items = append(result.Items, item)
		default:
			n.logger.Debug("unexpected kind", "index", i, "kind", rec.RawKind)
		}
	}

	return result
}

// NormalizePlaylists maps playlist records into browsable items.
func (n *Normalizer) NormalizePlaylists(raw []json.RawMessage) []models.Item {
	items := make([]models.Item, 0, len(raw))
	for i, element := range raw {
		rec, err := DecodePlaylist(element)
		if err == nil {
			var item models.Item
			if item, err = n.Playlist(rec); err == nil {
				items = append(items, item)
				continue
			}
		}
		n.logger.Warn("skipping playlist", "index", i, "error", err)
	}
	return items
}

// Track builds a playable item and reports whether the record was marked as a favorite.
//
// Unstreamable tracks fail with [shared.ErrNotStreamable].
func (n *Normalizer) Track(t *TrackRecord, authenticated bool) (models.Item, bool, error) {
	if t == nil {
		return nil, false, fmt.Errorf("%w: empty track", shared.ErrMalformedResponse)
	}
	if t.Streamable == nil {
		return nil, false, missingField("streamable")
	}
	if !*t.Streamable {
		return nil, false, shared.ErrNotStreamable
	}

	switch {
	case t.ID == nil:
		return nil, false, missingField("id")
	case t.StreamURL == nil:
		return nil, false, missingField("stream_url")
	case t.Title == nil:
		return nil, false, missingField("title")
	case t.Duration == nil:
		return nil, false, missingField("duration")
	case t.User == nil || t.User.Username == nil:
		return nil, false, missingField("user.username")
	case t.WaveformURL == nil:
		return nil, false, missingField("waveform_url")
	case t.PermalinkURL == nil:
		return nil, false, missingField("permalink_url")
	}

	artwork, err := artworkFor(t.ArtworkURL, t.User)
	if err != nil {
		return nil, false, err
	}

	rating := models.RatingUnknown
	liked := false
	if authenticated {
		rating = models.RatingNotLiked
		if t.UserFavorite != nil && *t.UserFavorite {
			rating = models.RatingLiked
			liked = true
		}
	}

	item := n.factory.NewPlayable(models.PlayableFields{
		ID:           *t.ID,
		StreamURI:    *t.StreamURL,
		Title:        *t.Title,
		DurationMS:   *t.Duration,
		Artist:       *t.User.Username,
		ArtworkURI:   artwork,
		WaveformURI:  WaveformDataURL(*t.WaveformURL),
		PermalinkURI: *t.PermalinkURL,
		Rating:       rating,
	})
	return item, liked, nil
}

// User builds a browsable user item.
func (n *Normalizer) User(u *UserRecord) (models.Item, error) {
	switch {
	case u == nil:
		return nil, fmt.Errorf("%w: empty user", shared.ErrMalformedResponse)
	case u.ID == nil:
		return nil, missingField("id")
	case u.Username == nil:
		return nil, missingField("username")
	case u.AvatarURL == nil:
		return nil, missingField("avatar_url")
	}

	return n.factory.NewBrowsable(models.BrowsableFields{
		ID:          *u.ID,
		Title:       *u.Username,
		Type:        models.MediaUser,
		Subtitle:    deref(u.FullName),
		ArtworkURI:  UpgradeArtwork(*u.AvatarURL),
		Description: deref(u.Description),
	}), nil
}

// Playlist builds a browsable playlist item, falling back to the owner's avatar for artwork.
// The subtitle carries the track count when the record has one.
func (n *Normalizer) Playlist(p *PlaylistRecord) (models.Item, error) {
	switch {
	case p == nil:
		return nil, fmt.Errorf("%w: empty playlist", shared.ErrMalformedResponse)
	case p.ID == nil:
		return nil, missingField("id")
	case p.Title == nil:
		return nil, missingField("title")
	case p.User == nil || p.User.Username == nil:
		return nil, missingField("user.username")
	}

	artwork, err := artworkFor(p.ArtworkURL, p.User)
	if err != nil {
		return nil, err
	}

	subtitle := *p.User.Username
	if p.TrackCount != nil {
		subtitle = fmt.Sprintf("%s · %d tracks", subtitle, *p.TrackCount)
	}

	return n.factory.NewBrowsable(models.BrowsableFields{
		ID:          *p.ID,
		Title:       *p.Title,
		Type:        models.MediaPlaylist,
		Subtitle:    subtitle,
		ArtworkURI:  artwork,
		Description: deref(p.Description),
	}), nil
}

// UpgradeArtwork swaps the low resolution artwork variant for the 500x500 one.
func UpgradeArtwork(uri string) string {
	return strings.ReplaceAll(uri, "large", "t500x500")
}

// WaveformDataURL rewrites a waveform image URL into its JSON data URL.
func WaveformDataURL(uri string) string {
	return strings.ReplaceAll(strings.ReplaceAll(uri, "w1", "wis"), "png", "json")
}

func artworkFor(artwork *string, owner *UserRecord) (string, error) {
	if artwork != nil {
		return UpgradeArtwork(*artwork), nil
	}
	if owner == nil || owner.AvatarURL == nil {
		return "", missingField("user.avatar_url")
	}
	return UpgradeArtwork(*owner.AvatarURL), nil
}

func missingField(name string) error {
	return fmt.Errorf("%w: missing %s", shared.ErrMalformedResponse, name)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
