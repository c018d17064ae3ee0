// Package request is the shared HTTP client used by every API binding.
//
// It joins paths onto the configured base URL, attaches a bearer token and an
// X-Request-ID header, throttles outgoing calls and unwraps the backend's
// {code, message, data} response envelope into typed results.
package request
