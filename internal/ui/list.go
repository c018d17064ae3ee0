package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/anzhiyu-c/anheyu-cli/internal/formatter"
	"github.com/anzhiyu-c/anheyu-cli/internal/icons"
	"github.com/anzhiyu-c/anheyu-cli/internal/models"
)

var (
	_ list.Item = categoryItem{}
	_ list.Item = wallpaperItem{}
)

// categoryItem wraps [models.PublicCategory] to implement [list.Item]. A nil category selects every wallpaper.
type categoryItem struct {
	category *models.PublicCategory
}

func (i categoryItem) FilterValue() string { return i.Title() }
func (i categoryItem) Title() string {
	if i.category == nil {
		return "全部"
	}
	return i.category.Name
}
func (i categoryItem) Description() string {
	if i.category == nil {
		return "All categories"
	}
	return i.category.Description
}

// id returns the category id to select, or nil for every category.
func (i categoryItem) id() *int {
	if i.category == nil {
		return nil
	}
	id := i.category.ID
	return &id
}

// wallpaperItem wraps [models.AlbumItem] to implement [list.Item].
type wallpaperItem struct {
	item models.AlbumItem
}

func (i wallpaperItem) FilterValue() string { return i.item.ID + " " + i.item.Tags }
func (i wallpaperItem) Title() string {
	return fmt.Sprintf("#%s %s", i.item.ID, formatter.Resolution(i.item.Width, i.item.Height))
}
func (i wallpaperItem) Description() string {
	parts := []string{
		fmt.Sprintf("%s %d", icons.FireIcon, i.item.ViewCount),
		fmt.Sprintf("%s %d", icons.DownloadIcon, i.item.DownloadCount),
	}
	if i.item.FileSize > 0 {
		parts = append(parts, fmt.Sprintf("%s %s", icons.SvgSizeIcon, formatter.FormatFileSize(i.item.FileSize)))
	}
	if i.item.Tags != "" {
		parts = append(parts, i.item.Tags)
	}
	return strings.Join(parts, " • ")
}

func categoryItems(categories []models.PublicCategory) []list.Item {
	items := make([]list.Item, 0, len(categories)+1)
	items = append(items, categoryItem{})
	for i := range categories {
		items = append(items, categoryItem{category: &categories[i]})
	}
	return items
}

func wallpaperItems(page *models.GalleryPage) []list.Item {
	if page == nil {
		return nil
	}
	items := make([]list.Item, len(page.List))
	for i, w := range page.List {
		items[i] = wallpaperItem{item: w}
	}
	return items
}
