// Package tasks runs long-lived album operations with real-time progress reporting.
//
// # Core Operations
//
// [Engine] exposes two operations:
//
//  1. [Engine.Download] : Bulk wallpaper download
//     - Fans items out to a bounded worker pool throttled by a rate limiter
//     - Saves each wallpaper as {id}.{ext} under the target directory
//     - Reports a download stat for every saved wallpaper
//     - Collects per-item failures instead of aborting the run
//     - Writes a download_manifest.json summary
//
//  2. [Engine.Dump] : Fetch a snapshot of the backend
//     - Site configuration, public categories, the first public album page
//     - The admin album list (requires a token)
//     - Failed endpoints are reported alongside the data that did load
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and
// optional data for advanced UI rendering. Updates use select with default to
// prevent blocking.
//
// # Download History
//
// The optional [DownloadRecorder] interface (repositories.DownloadRepository)
// records every saved wallpaper. With [DownloadOpts.SkipExisting] set,
// previously recorded items are skipped. Recorder and stat failures are logged
// and do not fail the item.
package tasks
