package formatter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anzhiyu-c/anheyu-cli/internal/models"
	th "github.com/anzhiyu-c/anheyu-cli/internal/testing"
)

func testPage() *models.GalleryPage {
	return &models.GalleryPage{
		List: []models.AlbumItem{
			{
				ID:            "w1",
				ImageURL:      "https://cdn.example.com/w1.jpg",
				Width:         1920,
				Height:        1080,
				FileSize:      2 * 1024 * 1024,
				ViewCount:     10,
				DownloadCount: 3,
				Tags:          "sea,blue",
			},
			{
				ID:          "w2",
				ImageURL:    "https://cdn.example.com/w2-thumb.webp",
				DownloadURL: "https://cdn.example.com/w2.png",
			},
		},
		Total:    12,
		PageSize: 2,
		PageNum:  1,
	}
}

func TestGetFileExtension(t *testing.T) {
	tc := []struct {
		name string
		in   string
		want string
	}{
		{"absolute URL", "https://cdn.example.com/a/b.png", "png"},
		{"absolute URL with query", "https://cdn.example.com/b.webp?x-oss-process=resize", "webp"},
		{"absolute URL with fragment", "https://cdn.example.com/b.gif#top", "gif"},
		{"absolute URL without extension", "https://cdn.example.com/images/42", "jpg"},
		{"dot in host only", "https://cdn.example.com/", "jpg"},
		{"dotted directory", "https://cdn.example.com/v1.2/file", "2/file"},
		{"relative path", "images/photo.jpeg", "jpeg"},
		{"relative path with query", "photo.png?v=1", "png?v=1"},
		{"trailing dot", "photo.", "jpg"},
		{"no dot", "photo", "jpg"},
		{"empty", "", "jpg"},
		{"multiple dots", "archive.tar.gz", "gz"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetFileExtension(tt.in); got != tt.want {
				t.Errorf("GetFileExtension(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatFileSize(t *testing.T) {
	tc := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1023, "1023 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1024*1024 - 1, "1024.00 KB"},
		{1024 * 1024, "1.00 MB"},
		{5 * 1024 * 1024 / 2, "2.50 MB"},
		{3 * 1024 * 1024 * 1024, "3072.00 MB"},
	}

	for _, tt := range tc {
		if got := FormatFileSize(tt.size); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestDownloadFilename(t *testing.T) {
	tc := []struct {
		name string
		item models.AlbumItem
		want string
	}{
		{"image URL", models.AlbumItem{ID: "w1", ImageURL: "https://cdn/w1.webp"}, "w1.webp"},
		{"prefers download URL", models.AlbumItem{ID: "w2", ImageURL: "https://cdn/t.webp", DownloadURL: "https://cdn/w2.png"}, "w2.png"},
		{"default extension", models.AlbumItem{ID: "w3", ImageURL: "https://cdn/raw"}, "w3.jpg"},
		{"unsafe id", models.AlbumItem{ID: "../x/y", ImageURL: "a.jpg"}, "__x_y.jpg"},
		{"empty id", models.AlbumItem{ImageURL: "a.jpg"}, "wallpaper.jpg"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := DownloadFilename(tt.item); got != tt.want {
				t.Errorf("DownloadFilename() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolution(t *testing.T) {
	if got := Resolution(1920, 1080); got != "1920x1080" {
		t.Errorf("unexpected resolution %s", got)
	}
	if got := Resolution(0, 1080); got != "-" {
		t.Errorf("expected placeholder, got %s", got)
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testPage())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "ID,Image URL,Resolution,Size,Views,Downloads,Tags") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, `w1,https://cdn.example.com/w1.jpg,1920x1080,2097152,10,3,"sea,blue"`) {
			t.Errorf("CSV missing w1 record, got: %s", output)
		}
		if !strings.Contains(output, "w2,https://cdn.example.com/w2-thumb.webp,-,0,0,0,") {
			t.Errorf("CSV missing w2 record, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		t.Run("without cover image", func(t *testing.T) {
			data, err := ExportToMarkdown(testPage(), "Gallery", "")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)
			if !strings.Contains(output, "# Gallery") {
				t.Errorf("Markdown missing title")
			}
			if !strings.Contains(output, "**Wallpapers**: 2 of 12") {
				t.Errorf("Markdown missing counts")
			}
			if !strings.Contains(output, "| 1 | ![w1](https://cdn.example.com/w1.jpg) | 1920x1080 | 2.00 MB | 10 | 3 |") {
				t.Errorf("Markdown missing w1 row, got: %s", output)
			}
			if !strings.Contains(output, "| 2 | ![w2](https://cdn.example.com/w2-thumb.webp) | - | - | 0 | 0 |") {
				t.Errorf("Markdown missing w2 row, got: %s", output)
			}
			if strings.Contains(output, "![Cover]") {
				t.Errorf("Markdown should not reference a cover")
			}
		})

		t.Run("with cover image", func(t *testing.T) {
			data, err := ExportToMarkdown(testPage(), "Gallery", "cover.jpg")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}
			if !strings.Contains(string(data), "![Cover](cover.jpg)") {
				t.Errorf("Markdown missing cover image reference")
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testPage(), "Gallery")
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Album: Gallery") {
			t.Errorf("Text missing title")
		}
		if !strings.Contains(output, "1. w1 [1920x1080] https://cdn.example.com/w1.jpg") {
			t.Errorf("Text missing w1, got: %s", output)
		}
		if !strings.Contains(output, "2. w2 [-] https://cdn.example.com/w2.png") {
			t.Errorf("Text should use the download URL for w2, got: %s", output)
		}
	})

	t.Run("ToMetadataJSON", func(t *testing.T) {
		data, err := ToMetadataJSON(testPage())
		if err != nil {
			t.Fatalf("ToMetadataJSON failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, `"total": 12`) || !strings.Contains(output, `"count": 2`) {
			t.Errorf("unexpected metadata %s", output)
		}
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("EmptyURL", func(t *testing.T) {
		if _, err := DownloadImage(context.Background(), ""); err == nil {
			t.Error("DownloadImage with empty URL should return error")
		}
	})

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("image-bytes"))
		}))
		defer server.Close()

		data, err := DownloadImage(context.Background(), server.URL+"/a.jpg")
		if err != nil {
			t.Fatalf("DownloadImage failed: %v", err)
		}
		if string(data) != "image-bytes" {
			t.Errorf("unexpected data %q", data)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		if _, err := DownloadImage(context.Background(), server.URL+"/missing.jpg"); err == nil {
			t.Error("expected error for 404")
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			result, err := WriteCSVExport(testPage(), "")
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}

			if result.ItemsFile != "album_wallpapers.csv" {
				t.Errorf("Expected 'album_wallpapers.csv', got '%s'", result.ItemsFile)
			}
			if result.MetadataFile != "album_metadata.json" {
				t.Errorf("Expected 'album_metadata.json', got '%s'", result.MetadataFile)
			}

			th.AssertFileExists(t, result.ItemsFile)
			th.AssertFileExists(t, result.MetadataFile)

			if content := th.MustReadFile(t, result.ItemsFile); !strings.Contains(content, "w1") {
				t.Errorf("CSV missing wallpaper data")
			}
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			base := filepath.Join(t.TempDir(), "nature")

			result, err := WriteCSVExport(testPage(), base)
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}
			if result.ItemsFile != base+"_wallpapers.csv" {
				t.Errorf("unexpected items file %s", result.ItemsFile)
			}
			th.AssertFileExists(t, result.MetadataFile)
		})
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		t.Run("WithCover", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("png"))
			}))
			defer server.Close()

			dir := filepath.Join(t.TempDir(), "export")
			result, err := WriteMarkdownExport(context.Background(), testPage(), "Gallery", dir, server.URL+"/cover.png")
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}

			th.AssertDirExists(t, dir)
			if result.CoverImage != filepath.Join(dir, "cover.png") {
				t.Errorf("unexpected cover path %s", result.CoverImage)
			}
			if len(result.Files) != 2 || len(result.Warnings) != 0 {
				t.Errorf("unexpected result %+v", result)
			}
			if readme := th.MustReadFile(t, filepath.Join(dir, "README.md")); !strings.Contains(readme, "![Cover](cover.png)") {
				t.Errorf("README missing cover reference")
			}
		})

		t.Run("CoverFailureIsAWarning", func(t *testing.T) {
			server := httptest.NewServer(http.NotFoundHandler())
			defer server.Close()

			dir := filepath.Join(t.TempDir(), "export")
			result, err := WriteMarkdownExport(context.Background(), testPage(), "Gallery", dir, server.URL+"/cover.png")
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}
			if result.CoverImage != "" || len(result.Warnings) != 1 {
				t.Errorf("expected a warning and no cover, got %+v", result)
			}
			th.AssertFileExists(t, filepath.Join(dir, "README.md"))
		})
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "list.txt")
		got, err := WriteTextExport(testPage(), "Gallery", path)
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}
		if got != path {
			t.Errorf("expected %s, got %s", path, got)
		}
		if content := th.MustReadFile(t, path); !strings.Contains(content, "Album: Gallery") {
			t.Errorf("unexpected content %s", content)
		}
	})
}
