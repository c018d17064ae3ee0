// Package models defines the data records exchanged with the anheyu backend.
//
// The package contains three groups of types:
//
// 1. Admin album records served under /api:
//   - [Album] : a named collection of photos with a cover image and category
//   - [AlbumCategory] : a grouping of albums
//   - [AlbumPhoto] : a single photo inside an album
//   - [PageParams] and [PageResponse] : pagination request/response pair
//
// 2. Public gallery records served under /public:
//   - [AlbumItem] : a wallpaper shown on the album home page
//   - [PublicCategory] : a category shown in the album home filter bar
//   - [GalleryParams] and [GalleryPage] : listing request/response pair
//
// 3. Site configuration:
//   - [SiteConfig] : open key/value bundle of branding and runtime settings
//   - [CachedData] : a [SiteConfig] snapshot with its capture time, used for TTL checks
//
// Records carry no behavior beyond query encoding and small accessors; ids are opaque.
package models
