package services

import (
	"context"
	"net/url"

	"github.com/anzhiyu-c/anheyu-cli/internal/models"
)

// Gallery is the public album surface consumed by the download task and the album browser.
type Gallery interface {
	ListWallpapers(ctx context.Context, params models.GalleryParams) (*models.GalleryPage, error)
	ListCategories(ctx context.Context) ([]models.PublicCategory, error)
	UpdateStat(ctx context.Context, id string, statType models.StatType) error
}

var _ Gallery = (*GalleryService)(nil)

// segment escapes an opaque id for interpolation into a path.
func segment(id string) string {
	return url.PathEscape(id)
}
