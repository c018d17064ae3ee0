// Package ui implements an interactive album browser using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow:
//  1. [CategoryListView] : Pick a category (or every category)
//  2. [WallpaperListView] : Browse wallpapers, cycle the sort order, page through results
//  3. [DownloadView] : Monitor real-time download progress
//  4. [ResultView] : Display the download summary and failed items
//
// Selection state (sort order and category) lives in a stores.AlbumStore so it
// survives switching views. The (view) [Model] implements the standard
// Init/Update/View pattern, receiving messages via the [Msg] union type.
// Download progress flows through a channel from the tasks.Engine.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, s, n/p, d/D, q)
// with contextual help displayed via charmbracelet/bubbles/help.
package ui
