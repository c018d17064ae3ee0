// package formatter renders wallpaper listings (CSV, Markdown, plain text) and file names/sizes for downloads
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/anzhiyu-c/anheyu-cli/internal/models"
	"github.com/anzhiyu-c/anheyu-cli/internal/shared"
)

// ExportToCSV converts a wallpaper page to CSV with columns: ID, Image URL, Resolution, Size, Views, Downloads, Tags
func ExportToCSV(page *models.GalleryPage) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Image URL", "Resolution", "Size", "Views", "Downloads", "Tags"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range page.List {
		record := []string{
			item.ID,
			item.ImageURL,
			Resolution(item.Width, item.Height),
			strconv.FormatInt(item.FileSize, 10),
			strconv.Itoa(item.ViewCount),
			strconv.Itoa(item.DownloadCount),
			item.Tags,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a wallpaper page to Markdown under title, with an optional cover image
func ExportToMarkdown(page *models.GalleryPage, title, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", title)

	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", imageFilename)
	}

	fmt.Fprintf(&buf, "**Wallpapers**: %d of %d\n", len(page.List), page.Total)
	fmt.Fprintf(&buf, "**Page**: %d (size %d)\n\n", page.PageNum, page.PageSize)

	buf.WriteString("| # | Preview | Resolution | Size | Views | Downloads |\n")
	buf.WriteString("|---|---------|------------|------|-------|-----------|\n")
	for i, item := range page.List {
		size := "-"
		if item.FileSize > 0 {
			size = FormatFileSize(item.FileSize)
		}
		fmt.Fprintf(&buf, "| %d | ![%s](%s) | %s | %s | %d | %d |\n",
			i+1, item.ID, item.ImageURL, Resolution(item.Width, item.Height), size, item.ViewCount, item.DownloadCount)
	}

	return buf.Bytes(), nil
}

// ExportToText converts a wallpaper page to plain text
func ExportToText(page *models.GalleryPage, title string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Album: %s\n", title)
	fmt.Fprintf(&buf, "Wallpapers: %d of %d (page %d)\n\n", len(page.List), page.Total, page.PageNum)

	for i, item := range page.List {
		fmt.Fprintf(&buf, "%d. %s [%s] %s\n", i+1, item.ID, Resolution(item.Width, item.Height), item.SourceURL())
	}

	return buf.Bytes(), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL provided", shared.ErrInvalidArgument)
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// ToMetadataJSON generates a JSON representation of page metadata (without wallpapers)
func ToMetadataJSON(page *models.GalleryPage) ([]byte, error) {
	meta := struct {
		Total    int `json:"total"`
		PageNum  int `json:"pageNum"`
		PageSize int `json:"pageSize"`
		Count    int `json:"count"`
	}{page.Total, page.PageNum, page.PageSize, len(page.List)}
	return shared.MarshalJSON(meta, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	ItemsFile    string
	MetadataFile string
}

// WriteCSVExport exports a page to CSV format with accompanying metadata JSON file.
//
// Creates {base}_wallpapers.csv and {base}_metadata.json; base defaults to "album".
func WriteCSVExport(page *models.GalleryPage, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "album"
	}

	csvData, err := ExportToCSV(page)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	itemsFile := baseFilepath + "_wallpapers.csv"
	if err := os.WriteFile(itemsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(page)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		ItemsFile:    itemsFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
	Warnings   []string
}

// WriteMarkdownExport exports a page to Markdown format in a dedicated directory.
//
// The coverURL parameter is optional - if provided, attempts to download the cover image;
// a failed download is reported in Warnings and the export continues without it.
// Creates {dir}/README.md and optionally {dir}/cover.{ext}
func WriteMarkdownExport(ctx context.Context, page *models.GalleryPage, title, outputDir, coverURL string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = "album"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var coverImageFilename string
	if coverURL != "" {
		imageData, err := DownloadImage(ctx, coverURL)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("failed to download cover image: %v", err))
		} else {
			coverImageFilename = "cover." + GetFileExtension(coverURL)
			coverImagePath := filepath.Join(outputDir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("failed to save cover image: %v", err))
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(page, title, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports a page to plain text format.
//
// Defaults to album_wallpapers.txt as the filename.
func WriteTextExport(page *models.GalleryPage, title, path string) (string, error) {
	if path == "" {
		path = "album_wallpapers.txt"
	}

	textData, err := ExportToText(page, title)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}
