// Package ui implements an interactive terminal show browser using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow:
//  1. [ShowListView] : Browse and filter stored shows
//  2. [EpisodeListView] : Episodes and overview of the selected show
//  3. [ImportInputView] : Enter a show name to add
//  4. [ImportView] : Monitor the importer's progress updates
//  5. [ResultView] : Added, not found, already exists, or failure
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the importer, so the import runs off the
// update loop and the spinner keeps ticking.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, a, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
