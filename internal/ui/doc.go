// Package ui implements an interactive terminal browser for SoundCloud collections using bubbletea's Elm architecture.
//
// The TUI moves through these views:
//  1. [MenuView] : Pick a collection (stream, likes, own tracks, playlists, followers...)
//  2. [ItemsView] : Browse a collection one page at a time
//  3. [ConfirmView] : Confirm exporting the open collection
//  4. [ExportView] : Monitor real-time export progress
//  5. [ResultView] : Display where the export was written
//
// In [ItemsView], n loads the next page, l toggles the like on the selected track,
// r reloads from the first page and enter opens a playlist or a user's tracks.
// Progress updates flow through a channel from [tasks.Engine], so exports never block rendering.
package ui
