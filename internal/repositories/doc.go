// Package repositories implements SQLite persistence for the client's local state.
//
// Key Implementations:
//   - [PreferenceRepository] : durable key-value store for session tokens, implementing services.Preferences
//   - [LikedTrackRepository] : snapshot of the liked-track set, restored into services.LikedTracks at startup
//
// Tables are created by the embedded migrations in the shared package.
// Multi-row writes run in a single transaction via [withTx].
package repositories
