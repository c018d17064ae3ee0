package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrMissingToken  = fmt.Errorf("missing access token")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrDecodeResponse     = fmt.Errorf("failed to decode response")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrAlbumNotFound      = fmt.Errorf("album not found")

	// Cache and storage errors
	ErrCacheMiss     = fmt.Errorf("cache miss")
	ErrCacheCorrupt  = fmt.Errorf("corrupted cache entry")
	ErrStorageClosed = fmt.Errorf("storage closed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrUnknownRoute    = fmt.Errorf("unknown route")
	ErrUnknownIcon     = fmt.Errorf("unknown icon")
)
