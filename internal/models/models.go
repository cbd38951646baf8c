package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/scx/internal/shared"
)

// MediaType tags the kind of entity an [Item] represents.
type MediaType string

const (
	MediaTrack    MediaType = "track"
	MediaPlaylist MediaType = "playlist"
	MediaUser     MediaType = "user"
)

// Rating is the tri-state "liked" flag of a [Playable].
//
// RatingUnknown means no authenticated session was available when the record was
// normalized, which differs from RatingNotLiked.
type Rating int

const (
	RatingUnknown Rating = iota
	RatingNotLiked
	RatingLiked
)

func (r Rating) String() string {
	switch r {
	case RatingLiked:
		return "liked"
	case RatingNotLiked:
		return "not_liked"
	default:
		return "unknown"
	}
}

// MarshalText renders the rating by name so JSON exports stay readable.
func (r Rating) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses a rating name produced by [Rating.MarshalText].
func (r *Rating) UnmarshalText(text []byte) error {
	switch string(text) {
	case "liked":
		*r = RatingLiked
	case "not_liked":
		*r = RatingNotLiked
	case "unknown", "":
		*r = RatingUnknown
	default:
		return fmt.Errorf("unknown rating %q", text)
	}
	return nil
}

// Known reports whether the rating carries a liked/not-liked answer.
func (r Rating) Known() bool { return r != RatingUnknown }

// Item is implemented by both media variants.
type Item interface {
	ItemID() int64
	ItemType() MediaType
	Label() string
	Sublabel() string
}

// Playable is a streamable track.
type Playable struct {
	ID           int64  `json:"id"`
	StreamURI    string `json:"stream_uri"`
	Title        string `json:"title"`
	DurationMS   int64  `json:"duration_ms"`
	Artist       string `json:"artist"`
	ArtworkURI   string `json:"artwork_uri,omitempty"`
	WaveformURI  string `json:"waveform_uri,omitempty"`
	PermalinkURI string `json:"permalink_uri,omitempty"`
	Rating       Rating `json:"rating"`
}

func (p *Playable) ItemID() int64       { return p.ID }
func (p *Playable) ItemType() MediaType { return MediaTrack }
func (p *Playable) Label() string       { return p.Title }
func (p *Playable) Sublabel() string {
	return fmt.Sprintf("%s · %s", p.Artist, shared.FormatDuration(p.DurationMS))
}

// Duration returns the track length.
func (p *Playable) Duration() time.Duration {
	return time.Duration(p.DurationMS) * time.Millisecond
}

// Liked reports whether the track is known to be liked.
func (p *Playable) Liked() bool { return p.Rating == RatingLiked }

// Browsable is a navigable entity: a playlist or a user.
type Browsable struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Type        MediaType `json:"type"`
	Subtitle    string    `json:"subtitle,omitempty"`
	ArtworkURI  string    `json:"artwork_uri,omitempty"`
	Description string    `json:"description,omitempty"`
}

func (b *Browsable) ItemID() int64       { return b.ID }
func (b *Browsable) ItemType() MediaType { return b.Type }
func (b *Browsable) Label() string       { return b.Title }
func (b *Browsable) Sublabel() string    { return b.Subtitle }

// PlayableFields are the primitive values a [Playable] is built from.
type PlayableFields struct {
	ID           int64
	StreamURI    string
	Title        string
	DurationMS   int64
	Artist       string
	ArtworkURI   string
	WaveformURI  string
	PermalinkURI string
	Rating       Rating
}

// BrowsableFields are the primitive values a [Browsable] is built from.
type BrowsableFields struct {
	ID          int64
	Title       string
	Type        MediaType
	Subtitle    string
	ArtworkURI  string
	Description string
}

// Factory builds the default item structs.
type Factory struct{}

func (Factory) NewPlayable(f PlayableFields) Item {
	return &Playable{
		ID:           f.ID,
		StreamURI:    f.StreamURI,
		Title:        f.Title,
		DurationMS:   f.DurationMS,
		Artist:       f.Artist,
		ArtworkURI:   f.ArtworkURI,
		WaveformURI:  f.WaveformURI,
		PermalinkURI: f.PermalinkURI,
		Rating:       f.Rating,
	}
}

func (Factory) NewBrowsable(f BrowsableFields) Item {
	return &Browsable{
		ID:          f.ID,
		Title:       f.Title,
		Type:        f.Type,
		Subtitle:    f.Subtitle,
		ArtworkURI:  f.ArtworkURI,
		Description: f.Description,
	}
}

// Tracks filters items down to the playable ones, preserving order.
func Tracks(items []Item) []*Playable {
	var tracks []*Playable
	for _, item := range items {
		if p, ok := item.(*Playable); ok {
			tracks = append(tracks, p)
		}
	}
	return tracks
}
