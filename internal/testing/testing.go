// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/anzhiyu-c/anheyu-cli/internal/models"
)

// StatCall records a single [MockGallery.UpdateStat] call.
type StatCall struct {
	ID   string
	Type models.StatType
}

// MockGallery is a test double for services.Gallery.
//
// Wallpapers are served unfiltered; the last params passed to ListWallpapers are kept in LastParams.
type MockGallery struct {
	mu sync.Mutex

	Categories    []models.PublicCategory
	Wallpapers    []models.AlbumItem
	CategoriesErr error
	WallpapersErr error
	StatErr       error

	LastParams models.GalleryParams
	Stats      []StatCall
}

func (m *MockGallery) ListWallpapers(ctx context.Context, params models.GalleryParams) (*models.GalleryPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastParams = params
	if m.WallpapersErr != nil {
		return nil, m.WallpapersErr
	}
	return &models.GalleryPage{
		List:     append([]models.AlbumItem(nil), m.Wallpapers...),
		Total:    len(m.Wallpapers),
		PageSize: params.PageSize,
		PageNum:  params.Page,
	}, nil
}

func (m *MockGallery) ListCategories(ctx context.Context) ([]models.PublicCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CategoriesErr != nil {
		return nil, m.CategoriesErr
	}
	return append([]models.PublicCategory(nil), m.Categories...), nil
}

func (m *MockGallery) UpdateStat(ctx context.Context, id string, statType models.StatType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stats = append(m.Stats, StatCall{ID: id, Type: statType})
	return m.StatErr
}

// StatCalls returns a copy of the recorded stat calls.
func (m *MockGallery) StatCalls() []StatCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]StatCall(nil), m.Stats...)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertNoFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("File should not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
