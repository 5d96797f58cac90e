// Package storage persists generated plugin sources.
//
// A Store holds one collection of plugins, such as games or apps. Each
// plugin is stored under a key derived from its display name by Sanitize
// and carries a small metadata record (name, description, creation time,
// usage count).
//
// FileStore keeps one <key>.lua file per plugin plus a metadata.json
// document in the collection directory. The sqlite subpackage provides a
// single-file database alternative.
package storage
