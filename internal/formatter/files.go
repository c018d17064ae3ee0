package formatter

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/anzhiyu-c/anheyu-cli/internal/models"
)

const defaultExtension = "jpg"

// GetFileExtension returns the text after the last "." of a file URL.
//
// Absolute URLs are split on their path, so queries and fragments are ignored;
// anything else is split as-is. The result is "jpg" when there is no "." or
// nothing follows it.
func GetFileExtension(s string) string {
	target := s
	if u, err := url.Parse(s); err == nil && u.Scheme != "" {
		target = u.Path
	}

	i := strings.LastIndex(target, ".")
	if i < 0 || i == len(target)-1 {
		return defaultExtension
	}
	return target[i+1:]
}

// FormatFileSize renders a byte count as "N B", "N.NN KB" or "N.NN MB".
func FormatFileSize(size int64) string {
	switch {
	case size >= 1024*1024:
		return fmt.Sprintf("%.2f MB", float64(size)/1024/1024)
	case size >= 1024:
		return fmt.Sprintf("%.2f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%d B", size)
	}
}

// DownloadFilename names the local file for a wallpaper: "{id}.{ext}".
func DownloadFilename(item models.AlbumItem) string {
	return fmt.Sprintf("%s.%s", sanitize(item.ID), GetFileExtension(item.SourceURL()))
}

// Resolution renders width and height as "WxH", or "-" when unknown.
func Resolution(width, height int) string {
	if width <= 0 || height <= 0 {
		return "-"
	}
	return fmt.Sprintf("%dx%d", width, height)
}

// sanitize replaces path separators so an id cannot escape the download directory.
func sanitize(id string) string {
	id = strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(id)
	if id == "" {
		return "wallpaper"
	}
	return id
}
