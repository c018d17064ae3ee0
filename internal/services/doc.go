// Package services binds the anheyu HTTP API to typed Go calls.
//
// Each service is a thin, stateless wrapper over a shared [request.Client]:
// it builds the endpoint, encodes the request and decodes the unwrapped
// envelope payload into [models] types. There is no retry and no client-side
// business logic; errors from the client propagate unchanged.
//
// # Public Endpoints
//
// [GalleryService] serves the album home page:
//   - GET /public/albums : paged wallpapers with sort and category filter
//   - GET /public/album-categories : category list
//   - PUT /public/stat/{id}?type=view|download : view and download counters
//
// [SiteService] serves the site configuration bundle (GET /public/site-config)
// and the mail-settings check (POST /settings/test-email).
//
// # Admin Endpoints
//
// [AlbumService] covers album, album-category and album-photo management under
// /api/albums and /api/album-categories, including multipart photo uploads and
// blob export/import.
//
// # Error Handling
//
// Non-2xx responses and envelopes with a failure code surface as
// [request.APIError], which matches [shared.ErrAPIRequest] with errors.Is.
// Inputs are sent as given; argument checks belong to the caller.
package services
