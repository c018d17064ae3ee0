package request

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/anzhiyu-c/anheyu-cli/internal/shared"
	tu "github.com/anzhiyu-c/anheyu-cli/internal/testing"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestClient(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("uses default base URL", func(t *testing.T) {
			if c := New(Options{}); c.BaseURL() != defaultBaseURL {
				t.Errorf("expected %s, got %s", defaultBaseURL, c.BaseURL())
			}
		})

		t.Run("trims trailing slash", func(t *testing.T) {
			if c := New(Options{BaseURL: "http://example.com/api/"}); c.BaseURL() != "http://example.com/api" {
				t.Errorf("unexpected base URL %s", c.BaseURL())
			}
		})

		t.Run("creates limiter only when rate is set", func(t *testing.T) {
			if c := New(Options{}); c.limiter != nil {
				t.Error("expected no limiter")
			}
			if c := New(Options{RateLimit: 2}); c.limiter == nil {
				t.Error("expected limiter")
			}
		})
	})

	t.Run("resolve", func(t *testing.T) {
		c := New(Options{BaseURL: "http://host/api"})
		tc := []struct {
			name  string
			path  string
			query url.Values
			want  string
		}{
			{"relative", "/albums", nil, "http://host/api/albums"},
			{"no leading slash", "albums/1", nil, "http://host/api/albums/1"},
			{"with query", "/albums", url.Values{"page": {"2"}}, "http://host/api/albums?page=2"},
			{"absolute", "https://cdn/x.jpg", nil, "https://cdn/x.jpg"},
			{"existing query", "/stat?a=1", url.Values{"b": {"2"}}, "http://host/api/stat?a=1&b=2"},
		}
		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				if got := c.resolve(tt.path, tt.query); got != tt.want {
					t.Errorf("resolve() = %s, want %s", got, tt.want)
				}
			})
		}
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("unwraps envelope", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET, got %s", r.Method)
				}
				if r.URL.Path != "/api/albums/1" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if r.URL.Query().Get("page") != "1" {
					t.Errorf("expected page query")
				}
				if r.Header.Get("X-Request-ID") == "" {
					t.Error("expected X-Request-ID header")
				}
				json.NewEncoder(w).Encode(map[string]any{
					"code":    200,
					"message": "ok",
					"data":    map[string]string{"id": "1", "name": "Sea"},
				})
			}))
			defer server.Close()

			c := New(Options{BaseURL: server.URL + "/api"})
			var got item
			if err := c.Get(context.Background(), "/albums/1", url.Values{"page": {"1"}}, &got); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got.ID != "1" || got.Name != "Sea" {
				t.Errorf("unexpected result %+v", got)
			}
		})

		t.Run("decodes bare body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`[{"id":"a"},{"id":"b"}]`))
			}))
			defer server.Close()

			var got []item
			if err := New(Options{BaseURL: server.URL}).Get(context.Background(), "/x", nil, &got); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(got) != 2 || got[1].ID != "b" {
				t.Errorf("unexpected result %+v", got)
			}
		})

		t.Run("envelope failure code", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"code":404,"message":"album not found","data":null}`))
			}))
			defer server.Close()

			err := New(Options{BaseURL: server.URL}).Get(context.Background(), "/albums/9", nil, &item{})
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Code != 404 || apiErr.StatusCode != http.StatusOK || apiErr.Message != "album not found" {
				t.Errorf("unexpected error %+v", apiErr)
			}
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Error("expected error to wrap ErrAPIRequest")
			}
		})

		t.Run("non-2xx status", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"code":401,"message":"token expired"}`))
			}))
			defer server.Close()

			err := New(Options{BaseURL: server.URL}).Get(context.Background(), "/albums", nil, nil)
			if !IsStatus(err, http.StatusUnauthorized) {
				t.Fatalf("expected 401 APIError, got %v", err)
			}
			if !strings.Contains(err.Error(), "token expired") {
				t.Errorf("expected message in error, got %v", err)
			}
		})

		t.Run("non-2xx status without body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			}))
			defer server.Close()

			err := New(Options{BaseURL: server.URL}).Get(context.Background(), "/", nil, nil)
			if !IsStatus(err, http.StatusBadGateway) {
				t.Fatalf("expected 502 APIError, got %v", err)
			}
		})

		t.Run("invalid json", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			}))
			defer server.Close()

			err := New(Options{BaseURL: server.URL}).Get(context.Background(), "/", nil, &item{})
			if !errors.Is(err, shared.ErrDecodeResponse) {
				t.Errorf("expected ErrDecodeResponse, got %v", err)
			}
		})

		t.Run("transport error", func(t *testing.T) {
			c := New(Options{HTTPClient: &http.Client{
				Transport: tu.NewMockRoundTripper(nil, errors.New("connection failed")),
			}})
			if err := c.Get(context.Background(), "/", nil, nil); err == nil {
				t.Fatal("expected error")
			}
		})

		t.Run("read error", func(t *testing.T) {
			c := New(Options{HTTPClient: &http.Client{
				Transport: tu.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       &tu.FCloser{},
					Header:     make(http.Header),
				}, nil),
			}})
			err := c.Get(context.Background(), "/", nil, &item{})
			if err == nil || !strings.Contains(err.Error(), "failed to read response") {
				t.Errorf("expected read error, got %v", err)
			}
		})
	})

	t.Run("bearer token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer secret" {
				t.Errorf("expected bearer header, got %q", got)
			}
			w.Write([]byte(`{"code":200,"data":null}`))
		}))
		defer server.Close()

		c := New(Options{BaseURL: server.URL, Token: "secret", Timeout: time.Second})
		if err := c.Delete(context.Background(), "/albums/1", nil, nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Post and Put send json", func(t *testing.T) {
		var methods []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			methods = append(methods, r.Method)
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected json content type, got %s", ct)
			}
			var in item
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				t.Errorf("failed to decode body: %v", err)
			}
			in.ID = "new"
			json.NewEncoder(w).Encode(map[string]any{"code": 200, "data": in})
		}))
		defer server.Close()

		c := New(Options{BaseURL: server.URL})
		var out item
		if err := c.Post(context.Background(), "/albums", item{Name: "A"}, &out); err != nil {
			t.Fatalf("Post() error = %v", err)
		}
		if out.ID != "new" || out.Name != "A" {
			t.Errorf("unexpected result %+v", out)
		}
		if err := c.Put(context.Background(), "/albums/1", nil, item{Name: "B"}, &out); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if len(methods) != 2 || methods[0] != http.MethodPost || methods[1] != http.MethodPut {
			t.Errorf("unexpected methods %v", methods)
		}
	})

	t.Run("Upload", func(t *testing.T) {
		t.Run("sends multipart files", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := r.ParseMultipartForm(1 << 20); err != nil {
					t.Errorf("failed to parse multipart: %v", err)
					return
				}
				files := r.MultipartForm.File["files"]
				if len(files) != 2 {
					t.Errorf("expected 2 files, got %d", len(files))
					return
				}
				if files[0].Filename != "a.jpg" {
					t.Errorf("expected base filename, got %s", files[0].Filename)
				}
				if r.FormValue("title") != "Beach" {
					t.Errorf("expected title field")
				}
				w.Write([]byte(`{"code":200,"data":[{"id":"p1"},{"id":"p2"}]}`))
			}))
			defer server.Close()

			files := []File{
				{Name: "/tmp/a.jpg", Reader: strings.NewReader("aaa")},
				{Name: "b.png", Reader: strings.NewReader("bbb")},
			}
			var out []item
			err := New(Options{BaseURL: server.URL}).Upload(context.Background(), "/albums/1/photos/batch", "files", files, map[string]string{"title": "Beach"}, &out)
			if err != nil {
				t.Fatalf("Upload() error = %v", err)
			}
			if len(out) != 2 {
				t.Errorf("expected 2 results, got %d", len(out))
			}
		})

		t.Run("rejects empty file list", func(t *testing.T) {
			err := New(Options{}).Upload(context.Background(), "/x", "file", nil, nil, nil)
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	})

	t.Run("Download", func(t *testing.T) {
		t.Run("streams body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/zip")
				w.Write([]byte("PK-binary"))
			}))
			defer server.Close()

			var buf bytes.Buffer
			n, err := New(Options{BaseURL: server.URL}).Download(context.Background(), "/albums/export", nil, &buf)
			if err != nil {
				t.Fatalf("Download() error = %v", err)
			}
			if n != 9 || buf.String() != "PK-binary" {
				t.Errorf("unexpected download %d %q", n, buf.String())
			}
		})

		t.Run("status error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer server.Close()

			_, err := New(Options{BaseURL: server.URL}).Download(context.Background(), "/missing", nil, io.Discard)
			if !IsStatus(err, http.StatusNotFound) {
				t.Errorf("expected 404, got %v", err)
			}
		})

		t.Run("write error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("data"))
			}))
			defer server.Close()

			_, err := New(Options{BaseURL: server.URL}).Download(context.Background(), "/x", nil, &tu.FWriter{})
			if err == nil {
				t.Error("expected write error")
			}
		})
	})

	t.Run("rate limiter honours context", func(t *testing.T) {
		c := New(Options{BaseURL: "http://127.0.0.1:1", RateLimit: 0.001})
		c.limiter.Allow()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := c.Get(ctx, "/", nil, nil)
		if err == nil || !strings.Contains(err.Error(), "rate limiter") {
			t.Errorf("expected limiter error, got %v", err)
		}
	})
}
