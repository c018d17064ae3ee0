package services

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anzhiyu-c/anheyu-cli/internal/request"
)

// recorded is one request captured by [newTestServer].
type recorded struct {
	Method      string
	Path        string
	Query       string
	ContentType string
	Body        []byte
}

// newTestServer answers every request with an envelope wrapping data and records what it received.
func newTestServer(t *testing.T, data any) (*request.Client, *[]recorded) {
	t.Helper()
	var calls []recorded

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{
			Method:      r.Method,
			Path:        r.URL.EscapedPath(),
			Query:       r.URL.RawQuery,
			ContentType: r.Header.Get("Content-Type"),
			Body:        body,
		})
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"code": 200, "message": "success", "data": data})
	}))
	t.Cleanup(server.Close)

	return request.New(request.Options{BaseURL: server.URL}), &calls
}

func lastCall(t *testing.T, calls *[]recorded) recorded {
	t.Helper()
	if len(*calls) == 0 {
		t.Fatal("expected a request to be made")
	}
	return (*calls)[len(*calls)-1]
}

func assertCall(t *testing.T, got recorded, method, path string) {
	t.Helper()
	if got.Method != method {
		t.Errorf("expected %s, got %s", method, got.Method)
	}
	if got.Path != path {
		t.Errorf("expected path %s, got %s", path, got.Path)
	}
}

func decodeBody(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("failed to decode request body %q: %v", body, err)
	}
	return m
}
