package models

import (
	"net/url"
	"strconv"
)

// Album is an admin-side photo album.
type Album struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Cover        string `json:"cover"`
	PhotoCount   int    `json:"photoCount"`
	CategoryID   string `json:"categoryId,omitempty"`
	CategoryName string `json:"categoryName,omitempty"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

// AlbumInput carries the fields sent when creating or partially updating an [Album].
//
// Empty fields are omitted from the request body.
type AlbumInput struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Cover       string `json:"cover,omitempty"`
	CategoryID  string `json:"categoryId,omitempty"`
}

// AlbumCategory groups admin albums.
type AlbumCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	AlbumCount  int    `json:"albumCount,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// CategoryInput carries the fields sent when creating or partially updating an [AlbumCategory].
type CategoryInput struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// AlbumPhoto is a photo stored in an album.
type AlbumPhoto struct {
	ID          string `json:"id"`
	AlbumID     string `json:"albumId"`
	URL         string `json:"url"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Size        int64  `json:"size,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

// PhotoInput carries the fields sent when updating an [AlbumPhoto].
type PhotoInput struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// PageParams are the pagination and filter parameters for admin listings.
type PageParams struct {
	Page       int
	PageSize   int
	CategoryID string
	Keyword    string
	StartDate  string
	EndDate    string
}

// Values encodes the parameters as a query string, omitting zero values.
func (p PageParams) Values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(p.PageSize))
	}
	setIf(v, "categoryId", p.CategoryID)
	setIf(v, "keyword", p.Keyword)
	setIf(v, "startDate", p.StartDate)
	setIf(v, "endDate", p.EndDate)
	return v
}

// PageResponse is a page of admin records. List, Total, Page and PageSize always travel together.
type PageResponse[T any] struct {
	List     []T `json:"list"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
