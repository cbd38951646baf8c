package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestRating(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		tests := []struct {
			rating   Rating
			expected string
		}{
			{RatingUnknown, "unknown"},
			{RatingNotLiked, "not_liked"},
			{RatingLiked, "liked"},
			{Rating(42), "unknown"},
		}

		for _, tt := range tests {
			if got := tt.rating.String(); got != tt.expected {
				t.Errorf("Rating(%d).String() = %q, want %q", tt.rating, got, tt.expected)
			}
		}
	})

	t.Run("Text Round Trip", func(t *testing.T) {
		for _, r := range []Rating{RatingUnknown, RatingNotLiked, RatingLiked} {
			text, err := r.MarshalText()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var parsed Rating
			if err := parsed.UnmarshalText(text); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if parsed != r {
				t.Errorf("expected %v, got %v", r, parsed)
			}
		}
	})

	t.Run("Unmarshal Rejects Unknown Names", func(t *testing.T) {
		var r Rating
		if err := r.UnmarshalText([]byte("meh")); err == nil {
			t.Error("expected error for unknown rating name")
		}
	})

	t.Run("Known", func(t *testing.T) {
		if RatingUnknown.Known() {
			t.Error("unknown rating should not be known")
		}
		if !RatingNotLiked.Known() || !RatingLiked.Known() {
			t.Error("liked and not liked ratings should be known")
		}
	})
}

func TestFactory(t *testing.T) {
	f := Factory{}

	t.Run("NewPlayable", func(t *testing.T) {
		item := f.NewPlayable(PlayableFields{
			ID:         7,
			StreamURI:  "https://api.example.com/tracks/7/stream",
			Title:      "Song",
			DurationMS: 125000,
			Artist:     "Artist",
			Rating:     RatingLiked,
		})

		p, ok := item.(*Playable)
		if !ok {
			t.Fatalf("expected *Playable, got %T", item)
		}
		if p.ItemID() != 7 || p.ItemType() != MediaTrack {
			t.Errorf("unexpected identity: %d %s", p.ItemID(), p.ItemType())
		}
		if p.Label() != "Song" {
			t.Errorf("expected label Song, got %q", p.Label())
		}
		if !strings.Contains(p.Sublabel(), "Artist") || !strings.Contains(p.Sublabel(), "2:05") {
			t.Errorf("unexpected sublabel %q", p.Sublabel())
		}
		if p.Duration() != 125*time.Second {
			t.Errorf("expected 125s, got %v", p.Duration())
		}
		if !p.Liked() {
			t.Error("expected track to be liked")
		}
	})

	t.Run("NewBrowsable", func(t *testing.T) {
		item := f.NewBrowsable(BrowsableFields{ID: 3, Title: "user", Type: MediaUser, Subtitle: "Full Name"})

		b, ok := item.(*Browsable)
		if !ok {
			t.Fatalf("expected *Browsable, got %T", item)
		}
		if b.ItemType() != MediaUser || b.Sublabel() != "Full Name" || b.ItemID() != 3 {
			t.Errorf("unexpected browsable %+v", b)
		}
	})
}

func TestTracks(t *testing.T) {
	f := Factory{}
	items := []Item{
		f.NewPlayable(PlayableFields{ID: 1}),
		f.NewBrowsable(BrowsableFields{ID: 2, Type: MediaPlaylist}),
		f.NewPlayable(PlayableFields{ID: 3}),
	}

	tracks := Tracks(items)
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	if tracks[0].ID != 1 || tracks[1].ID != 3 {
		t.Errorf("tracks out of order: %d, %d", tracks[0].ID, tracks[1].ID)
	}
}

func TestPlayableJSON(t *testing.T) {
	p := &Playable{ID: 1, Title: "Song", Rating: RatingNotLiked}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), `"rating":"not_liked"`) {
		t.Errorf("expected rating name in JSON, got %s", data)
	}
	if strings.Contains(string(data), "artwork_uri") {
		t.Errorf("empty artwork should be omitted, got %s", data)
	}
}
