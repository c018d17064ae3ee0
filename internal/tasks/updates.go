package tasks

import (
	"fmt"

	"github.com/anzhiyu-c/anheyu-cli/internal/formatter"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchSiteConfig Phase = iota
	FetchCategories
	FetchWallpapers
	FetchAlbums
	DownloadWallpaper
)

func (p Phase) String() string {
	switch p {
	case FetchSiteConfig:
		return "fetch_site_config"
	case FetchCategories:
		return "fetch_categories"
	case FetchWallpapers:
		return "fetch_wallpapers"
	case FetchAlbums:
		return "fetch_albums"
	case DownloadWallpaper:
		return "download_wallpaper"
	default:
		return ""
	}
}

func operationUpdate(endpoint endpointOperation, step int, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   endpoint.phase,
		Step:    step,
		Total:   total,
		Message: endpoint.message,
	}
}

func downloadStartedUpdate(total int, dir string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadWallpaper,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Downloading %d wallpapers to %s...", total, dir),
	}
}

func downloadCompletedUpdate(step, total int, res ItemResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadWallpaper,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%s)", step, total, res.ItemID, formatter.FormatFileSize(res.Size)),
		Data:    res,
	}
}

func downloadSkippedUpdate(step, total int, res ItemResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadWallpaper,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] - %s (already downloaded)", step, total, res.ItemID),
		Data:    res,
	}
}

func downloadFailedUpdate(step, total int, res ItemResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadWallpaper,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.ItemID, res.Error),
		Data:    res,
	}
}
