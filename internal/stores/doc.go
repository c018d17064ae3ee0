// Package stores holds client-side state shared by the CLI and the album browser.
//
// # Site Configuration
//
// [SiteConfigStore] loads the site configuration bundle at most once per
// process. A persisted snapshot (JSON {config, timestamp}) under
// [SiteConfigKey] short-circuits the network for [SiteConfigTTL]; expired or
// unreadable snapshots are removed and refetched. Concurrent fetches share
// one in-flight load through [singleflight.Group], so the loader runs exactly
// once per flight and every waiter receives the same result.
//
// # Album Browsing
//
// [AlbumStore] keeps the album home page selection: sort order, selected
// category and the category list. Setters notify subscribers only when the
// value changes.
//
// Both stores are safe for concurrent use.
package stores
