package models

import (
	"net/url"
	"strconv"
)

// SortOrder orders the public album listing.
type SortOrder string

const (
	SortDisplayOrderAsc SortOrder = "display_order_asc"
	SortCreatedAtAsc    SortOrder = "created_at_asc"
	SortCreatedAtDesc   SortOrder = "created_at_desc"
	SortViewCountDesc   SortOrder = "view_count_desc"
)

// SortOrders lists the known sort orders in display order.
var SortOrders = []SortOrder{SortDisplayOrderAsc, SortCreatedAtDesc, SortCreatedAtAsc, SortViewCountDesc}

// ParseSortOrder returns the [SortOrder] named s.
func ParseSortOrder(s string) (SortOrder, bool) {
	for _, o := range SortOrders {
		if string(o) == s {
			return o, true
		}
	}
	return "", false
}

// Next returns the sort order following o, wrapping around.
func (o SortOrder) Next() SortOrder {
	for i, v := range SortOrders {
		if v == o {
			return SortOrders[(i+1)%len(SortOrders)]
		}
	}
	return SortDisplayOrderAsc
}

// StatType selects the counter updated by the public stat endpoint.
type StatType string

const (
	StatView     StatType = "view"
	StatDownload StatType = "download"
)

// AlbumItem is a wallpaper from the public album listing.
type AlbumItem struct {
	ID            string `json:"id"`
	ImageURL      string `json:"imageUrl"`
	DownloadURL   string `json:"downloadUrl,omitempty"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	FileSize      int64  `json:"fileSize,omitempty"`
	Tags          string `json:"tags,omitempty"`
	ViewCount     int    `json:"viewCount,omitempty"`
	DownloadCount int    `json:"downloadCount,omitempty"`
	ThumbParam    string `json:"thumbParam,omitempty"`
	BigParam      string `json:"bigParam,omitempty"`
	CreateTime    string `json:"createTime,omitempty"`
	CategoryID    *int   `json:"categoryId,omitempty"`
	DisplayOrder  int    `json:"displayOrder,omitempty"`
}

// SourceURL returns the URL to fetch the full image from, preferring the download URL.
func (a AlbumItem) SourceURL() string {
	if a.DownloadURL != "" {
		return a.DownloadURL
	}
	return a.ImageURL
}

// PublicCategory is a category shown on the public album home page.
type PublicCategory struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	CoverImage   string `json:"coverImage,omitempty"`
	DisplayOrder int    `json:"displayOrder,omitempty"`
}

// GalleryParams are the parameters of the public album listing.
type GalleryParams struct {
	Page       int
	PageSize   int
	Sort       SortOrder
	CategoryID *int // nil lists every category
}

// Values encodes the parameters as a query string.
func (p GalleryParams) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("pageSize", strconv.Itoa(p.PageSize))
	setIf(v, "sort", string(p.Sort))
	if p.CategoryID != nil {
		v.Set("categoryId", strconv.Itoa(*p.CategoryID))
	}
	return v
}

// GalleryPage is a page of the public album listing.
type GalleryPage struct {
	List     []AlbumItem `json:"list"`
	Total    int         `json:"total"`
	PageSize int         `json:"pageSize"`
	PageNum  int         `json:"pageNum"`
}
