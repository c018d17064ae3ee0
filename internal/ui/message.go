package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/anzhiyu-c/anheyu-cli/internal/models"
	"github.com/anzhiyu-c/anheyu-cli/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgCategoriesFetched MsgKind = iota
	MsgWallpapersFetched
	MsgProgressUpdate
	MsgDownloadComplete
)

type categoriesFetched struct {
	categories []models.PublicCategory
}

type wallpapersFetched struct {
	page *models.GalleryPage
	err  error
}

type downloadComplete struct {
	result *tasks.DownloadResult
	err    error
}

// categoriesFetchedMsg is the constructor for [MsgCategoriesFetched]
func categoriesFetchedMsg(categories []models.PublicCategory) Msg {
	return Msg{kind: MsgCategoriesFetched, data: categoriesFetched{categories}}
}

// wallpapersFetchedMsg is the constructor for [MsgWallpapersFetched]
func wallpapersFetchedMsg(page *models.GalleryPage, err error) Msg {
	return Msg{kind: MsgWallpapersFetched, data: wallpapersFetched{page, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// downloadCompleteMsg is the constructor for [MsgDownloadComplete]
func downloadCompleteMsg(result *tasks.DownloadResult, err error) Msg {
	return Msg{kind: MsgDownloadComplete, data: downloadComplete{result, err}}
}
