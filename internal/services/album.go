package services

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/anzhiyu-c/anheyu-cli/internal/models"
	"github.com/anzhiyu-c/anheyu-cli/internal/request"
)

// AlbumService calls the admin album, category and photo endpoints.
type AlbumService struct {
	client *request.Client
}

// NewAlbumService creates an [AlbumService] over client.
func NewAlbumService(client *request.Client) *AlbumService {
	return &AlbumService{client: client}
}

func albumPath(id string) string { return "/api/albums/" + segment(id) }

func categoryPath(id string) string { return "/api/album-categories/" + segment(id) }

func photoPath(albumID, photoID string) string {
	return albumPath(albumID) + "/photos/" + segment(photoID)
}

// List returns a page of albums.
func (a *AlbumService) List(ctx context.Context, params models.PageParams) (*models.PageResponse[models.Album], error) {
	var page models.PageResponse[models.Album]
	if err := a.client.Get(ctx, "/api/albums", params.Values(), &page); err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	return &page, nil
}

// Get returns the album with the given id.
func (a *AlbumService) Get(ctx context.Context, id string) (*models.Album, error) {
	var album models.Album
	if err := a.client.Get(ctx, albumPath(id), nil, &album); err != nil {
		return nil, fmt.Errorf("failed to get album %s: %w", id, err)
	}
	return &album, nil
}

// Create creates an album.
func (a *AlbumService) Create(ctx context.Context, input models.AlbumInput) (*models.Album, error) {
	var album models.Album
	if err := a.client.Post(ctx, "/api/albums", input, &album); err != nil {
		return nil, fmt.Errorf("failed to create album: %w", err)
	}
	return &album, nil
}

// Update applies a partial update to an album.
func (a *AlbumService) Update(ctx context.Context, id string, input models.AlbumInput) (*models.Album, error) {
	var album models.Album
	if err := a.client.Put(ctx, albumPath(id), nil, input, &album); err != nil {
		return nil, fmt.Errorf("failed to update album %s: %w", id, err)
	}
	return &album, nil
}

// Delete removes an album.
func (a *AlbumService) Delete(ctx context.Context, id string) error {
	if err := a.client.Delete(ctx, albumPath(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete album %s: %w", id, err)
	}
	return nil
}

// BatchDelete removes several albums in one call.
func (a *AlbumService) BatchDelete(ctx context.Context, ids []string) error {
	body := map[string][]string{"ids": ids}
	if err := a.client.Post(ctx, "/api/albums/batch-delete", body, nil); err != nil {
		return fmt.Errorf("failed to delete %d albums: %w", len(ids), err)
	}
	return nil
}

// ListCategories returns every album category.
func (a *AlbumService) ListCategories(ctx context.Context) ([]models.AlbumCategory, error) {
	var categories []models.AlbumCategory
	if err := a.client.Get(ctx, "/api/album-categories", nil, &categories); err != nil {
		return nil, fmt.Errorf("failed to list album categories: %w", err)
	}
	return categories, nil
}

// GetCategory returns the album category with the given id.
func (a *AlbumService) GetCategory(ctx context.Context, id string) (*models.AlbumCategory, error) {
	var category models.AlbumCategory
	if err := a.client.Get(ctx, categoryPath(id), nil, &category); err != nil {
		return nil, fmt.Errorf("failed to get album category %s: %w", id, err)
	}
	return &category, nil
}

// CreateCategory creates an album category.
func (a *AlbumService) CreateCategory(ctx context.Context, input models.CategoryInput) (*models.AlbumCategory, error) {
	var category models.AlbumCategory
	if err := a.client.Post(ctx, "/api/album-categories", input, &category); err != nil {
		return nil, fmt.Errorf("failed to create album category: %w", err)
	}
	return &category, nil
}

// UpdateCategory applies a partial update to an album category.
func (a *AlbumService) UpdateCategory(ctx context.Context, id string, input models.CategoryInput) (*models.AlbumCategory, error) {
	var category models.AlbumCategory
	if err := a.client.Put(ctx, categoryPath(id), nil, input, &category); err != nil {
		return nil, fmt.Errorf("failed to update album category %s: %w", id, err)
	}
	return &category, nil
}

// DeleteCategory removes an album category.
func (a *AlbumService) DeleteCategory(ctx context.Context, id string) error {
	if err := a.client.Delete(ctx, categoryPath(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete album category %s: %w", id, err)
	}
	return nil
}

// ListPhotos returns a page of photos in an album.
func (a *AlbumService) ListPhotos(ctx context.Context, albumID string, params models.PageParams) (*models.PageResponse[models.AlbumPhoto], error) {
	var page models.PageResponse[models.AlbumPhoto]
	if err := a.client.Get(ctx, albumPath(albumID)+"/photos", params.Values(), &page); err != nil {
		return nil, fmt.Errorf("failed to list photos of album %s: %w", albumID, err)
	}
	return &page, nil
}

// UploadPhoto uploads one photo to an album as the multipart field "file".
func (a *AlbumService) UploadPhoto(ctx context.Context, albumID string, file request.File) (*models.AlbumPhoto, error) {
	var photo models.AlbumPhoto
	if err := a.client.Upload(ctx, albumPath(albumID)+"/photos", "file", []request.File{file}, nil, &photo); err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", file.Name, err)
	}
	return &photo, nil
}

// BatchUploadPhotos uploads several photos to an album as repeated multipart fields "files".
func (a *AlbumService) BatchUploadPhotos(ctx context.Context, albumID string, files []request.File) ([]models.AlbumPhoto, error) {
	var photos []models.AlbumPhoto
	if err := a.client.Upload(ctx, albumPath(albumID)+"/photos/batch", "files", files, nil, &photos); err != nil {
		return nil, fmt.Errorf("failed to upload %d photos: %w", len(files), err)
	}
	return photos, nil
}

// DeletePhoto removes a photo from an album.
func (a *AlbumService) DeletePhoto(ctx context.Context, albumID, photoID string) error {
	if err := a.client.Delete(ctx, photoPath(albumID, photoID), nil, nil); err != nil {
		return fmt.Errorf("failed to delete photo %s: %w", photoID, err)
	}
	return nil
}

// BatchDeletePhotos removes several photos from an album in one call.
func (a *AlbumService) BatchDeletePhotos(ctx context.Context, albumID string, photoIDs []string) error {
	body := map[string][]string{"photoIds": photoIDs}
	if err := a.client.Post(ctx, albumPath(albumID)+"/photos/batch-delete", body, nil); err != nil {
		return fmt.Errorf("failed to delete %d photos: %w", len(photoIDs), err)
	}
	return nil
}

// UpdatePhoto applies a partial update to a photo.
func (a *AlbumService) UpdatePhoto(ctx context.Context, albumID, photoID string, input models.PhotoInput) (*models.AlbumPhoto, error) {
	var photo models.AlbumPhoto
	if err := a.client.Put(ctx, photoPath(albumID, photoID), nil, input, &photo); err != nil {
		return nil, fmt.Errorf("failed to update photo %s: %w", photoID, err)
	}
	return &photo, nil
}

// Export streams the album export archive into w.
func (a *AlbumService) Export(ctx context.Context, params url.Values, w io.Writer) (int64, error) {
	n, err := a.client.Download(ctx, "/api/albums/export", params, w)
	if err != nil {
		return n, fmt.Errorf("failed to export albums: %w", err)
	}
	return n, nil
}

// Import uploads an export archive. The backend's result is returned undecoded.
func (a *AlbumService) Import(ctx context.Context, file request.File) (any, error) {
	var result any
	if err := a.client.Upload(ctx, "/api/albums/import", "file", []request.File{file}, nil, &result); err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", file.Name, err)
	}
	return result, nil
}
