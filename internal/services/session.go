package services

import (
	"fmt"
	"sort"
	"sync"
)

// Session holds the current tokens. Only [TokenManager] mutates it.
type Session struct {
	mu           sync.RWMutex
	accessToken  string
	refreshToken string
}

// LoadSession reads the stored tokens from prefs.
func LoadSession(prefs Preferences) (*Session, error) {
	access, err := prefs.Get(PrefAccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to load access token: %w", err)
	}

	refresh, err := prefs.Get(PrefRefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to load refresh token: %w", err)
	}

	return &Session{accessToken: access, refreshToken: refresh}, nil
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// Authenticated reports whether an access token is present.
func (s *Session) Authenticated() bool {
	return s.AccessToken() != ""
}

func (s *Session) set(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = access
	s.refreshToken = refresh
}

// LikedTracks is the set of track ids known to be liked by the authenticated user.
//
// Membership is best-known server state and may be stale until a record is re-fetched or toggled.
type LikedTracks struct {
	mu  sync.RWMutex
	ids map[int64]struct{}
}

func NewLikedTracks(ids ...int64) *LikedTracks {
	l := &LikedTracks{ids: make(map[int64]struct{}, len(ids))}
	l.Add(ids...)
	return l
}

func (l *LikedTracks) Add(ids ...int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range ids {
		l.ids[id] = struct{}{}
	}
}

func (l *LikedTracks) Remove(id int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.ids, id)
}

func (l *LikedTracks) Contains(id int64) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.ids[id]
	return ok
}

func (l *LikedTracks) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.ids)
}

// IDs returns the members in ascending order.
func (l *LikedTracks) IDs() []int64 {
	l.mu.RLock()
	ids := make([]int64, 0, len(l.ids))
	for id := range l.ids {
		ids = append(ids, id)
	}
	l.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
