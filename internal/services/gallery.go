package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/anzhiyu-c/anheyu-cli/internal/models"
	"github.com/anzhiyu-c/anheyu-cli/internal/request"
)

// GalleryService calls the public album endpoints.
type GalleryService struct {
	client *request.Client
}

// NewGalleryService creates a [GalleryService] over client.
func NewGalleryService(client *request.Client) *GalleryService {
	return &GalleryService{client: client}
}

// ListWallpapers returns one page of public wallpapers.
//
// Calls GET /public/albums?page&pageSize[&sort][&categoryId].
func (g *GalleryService) ListWallpapers(ctx context.Context, params models.GalleryParams) (*models.GalleryPage, error) {
	var page models.GalleryPage
	if err := g.client.Get(ctx, "/public/albums", params.Values(), &page); err != nil {
		return nil, fmt.Errorf("failed to list wallpapers: %w", err)
	}
	return &page, nil
}

// ListCategories returns the public album categories.
func (g *GalleryService) ListCategories(ctx context.Context) ([]models.PublicCategory, error) {
	var categories []models.PublicCategory
	if err := g.client.Get(ctx, "/public/album-categories", nil, &categories); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// UpdateStat increments the view or download counter of a wallpaper.
//
// Calls PUT /public/stat/{id}?type={statType}.
func (g *GalleryService) UpdateStat(ctx context.Context, id string, statType models.StatType) error {
	query := url.Values{"type": {string(statType)}}
	if err := g.client.Put(ctx, "/public/stat/"+segment(id), query, nil, nil); err != nil {
		return fmt.Errorf("failed to update %s stat for %s: %w", statType, id, err)
	}
	return nil
}
