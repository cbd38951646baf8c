package services

import (
	"context"
	"net/http"
	"strconv"
)

// Like marks a track as liked. It reports success only for a 200 response, and only then updates [LikedTracks].
func (s *SoundCloudService) Like(ctx context.Context, trackID int64) (bool, error) {
	return s.likeAction(ctx, EndpointLike, trackID)
}

// Unlike removes a like. A 404 means the track was not liked and is reported as false with no error.
func (s *SoundCloudService) Unlike(ctx context.Context, trackID int64) (bool, error) {
	ok, err := s.likeAction(ctx, EndpointUnlike, trackID)
	if isStatus(err, http.StatusNotFound) {
		s.logger.Debug("unlike on track that was not liked", "track", trackID)
		return false, nil
	}
	return ok, err
}

// ToggleLike likes the track unless it is in [LikedTracks], in which case it unlikes it.
func (s *SoundCloudService) ToggleLike(ctx context.Context, trackID int64) (bool, error) {
	if s.liked.Contains(trackID) {
		return s.Unlike(ctx, trackID)
	}
	return s.Like(ctx, trackID)
}

// IsLiked reports the best-known like state of a track.
func (s *SoundCloudService) IsLiked(trackID int64) bool {
	return s.liked.Contains(trackID)
}

func (s *SoundCloudService) likeAction(ctx context.Context, name EndpointName, trackID int64) (bool, error) {
	ep, err := s.registry.Resolve(name)
	if err != nil {
		return false, err
	}

	resp, err := s.executor.Execute(ctx, ep, map[string]string{"id": strconv.FormatInt(trackID, 10)}, nil)
	if err != nil {
		return false, err
	}

	if resp.Status != http.StatusOK {
		s.logger.Warn("like action not applied", "action", name, "track", trackID, "status", resp.Status)
		return false, nil
	}

	if name == EndpointLike {
		s.liked.Add(trackID)
	} else {
		s.liked.Remove(trackID)
	}
	return true, nil
}
