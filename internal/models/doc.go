// Package models defines the media-item model that collection operations produce.
//
// Every normalized record becomes exactly one of two variants:
//
//   - [Playable] : a directly streamable track with artwork, waveform and an optional [Rating]
//   - [Browsable] : a navigable entity such as a playlist or a user
//
// Both satisfy [Item]. The services package never builds these structs itself; it
// goes through an item factory, and [Factory] is the default implementation.
package models
