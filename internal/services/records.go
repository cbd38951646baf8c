package services

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/scx/internal/shared"
)

// RecordKind discriminates a decoded collection record.
type RecordKind int

const (
	KindUnknown RecordKind = iota
	KindTrack
	KindLike
	KindUser
)

func (k RecordKind) String() string {
	switch k {
	case KindTrack:
		return "track"
	case KindLike:
		return "like"
	case KindUser:
		return "user"
	default:
		return "unknown"
	}
}

// UserRecord is the wire shape of a user. Pointer fields distinguish absent from zero.
type UserRecord struct {
	ID          *int64  `json:"id"`
	Username    *string `json:"username"`
	FullName    *string `json:"full_name"`
	AvatarURL   *string `json:"avatar_url"`
	Description *string `json:"description"`
}

// TrackRecord is the wire shape of a track.
type TrackRecord struct {
	ID           *int64      `json:"id"`
	Streamable   *bool       `json:"streamable"`
	StreamURL    *string     `json:"stream_url"`
	Title        *string     `json:"title"`
	Duration     *int64      `json:"duration"`
	User         *UserRecord `json:"user"`
	ArtworkURL   *string     `json:"artwork_url"`
	WaveformURL  *string     `json:"waveform_url"`
	PermalinkURL *string     `json:"permalink_url"`
	UserFavorite *bool       `json:"user_favorite"`
}

// PlaylistRecord is the wire shape of a playlist.
type PlaylistRecord struct {
	ID          *int64      `json:"id"`
	Title       *string     `json:"title"`
	User        *UserRecord `json:"user"`
	ArtworkURL  *string     `json:"artwork_url"`
	Description *string     `json:"description"`
	TrackCount  *int        `json:"track_count"`
}

// Record is a kind-tagged collection element.
//
// Track is set for [KindTrack] and [KindLike] (the like wrapper already unwrapped),
// User for [KindUser]. RawKind keeps the discriminator of a [KindUnknown] record.
type Record struct {
	Kind    RecordKind
	RawKind string
	Track   *TrackRecord
	User    *UserRecord
}

type envelope struct {
	Kind   *string         `json:"kind"`
	Origin json.RawMessage `json:"origin"`
	Track  json.RawMessage `json:"track"`
}

// DecodeRecord decodes one collection element, unwrapping any origin wrapper first.
func DecodeRecord(raw json.RawMessage) (Record, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Record{}, fmt.Errorf("%w: %w", shared.ErrMalformedResponse, err)
	}

	if present(env.Origin) {
		return DecodeRecord(env.Origin)
	}

	if env.Kind == nil {
		return Record{Kind: KindUnknown}, nil
	}

	switch *env.Kind {
	case "track":
		var t TrackRecord
		if err := json.Unmarshal(raw, &t); err != nil {
			return Record{}, fmt.Errorf("%w: track: %w", shared.ErrMalformedResponse, err)
		}
		return Record{Kind: KindTrack, RawKind: *env.Kind, Track: &t}, nil
	case "like":
		if !present(env.Track) {
			return Record{}, fmt.Errorf("%w: like without track", shared.ErrMalformedResponse)
		}
		var t TrackRecord
		if err := json.Unmarshal(env.Track, &t); err != nil {
			return Record{}, fmt.Errorf("%w: liked track: %w", shared.ErrMalformedResponse, err)
		}
		return Record{Kind: KindLike, RawKind: *env.Kind, Track: &t}, nil
	case "user":
		var u UserRecord
		if err := json.Unmarshal(raw, &u); err != nil {
			return Record{}, fmt.Errorf("%w: user: %w", shared.ErrMalformedResponse, err)
		}
		return Record{Kind: KindUser, RawKind: *env.Kind, User: &u}, nil
	default:
		return Record{Kind: KindUnknown, RawKind: *env.Kind}, nil
	}
}

// DecodePlaylist decodes one playlist element, unwrapping an origin wrapper first.
func DecodePlaylist(raw json.RawMessage) (*PlaylistRecord, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrMalformedResponse, err)
	}
	if present(env.Origin) {
		return DecodePlaylist(env.Origin)
	}

	var p PlaylistRecord
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: playlist: %w", shared.ErrMalformedResponse, err)
	}
	return &p, nil
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
