// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for catching and filing tracks:
//  1. [RecordView] : Start a listening session and watch capture progress
//  2. [ResultView] : Display the identified track or the failure
//  3. [CategoryPickView] : File a caught track into a mood playlist
//  4. [PlaylistListView] : Browse mood playlists
//  5. [TrackListView] : Browse the tracks in one playlist
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the SessionEngine, providing non-blocking
// status reporting while a recording is in flight.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help
// displayed via charmbracelet/bubbles/help.
package ui
