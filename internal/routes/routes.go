// Package routes declares the client's page routes: name, path, view and access metadata.
package routes

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/anzhiyu-c/anheyu-cli/internal/shared"
)

// Meta carries per-route access metadata.
type Meta struct {
	IgnoreAccess bool   `json:"ignoreAccess"` // reachable without login
	Title        string `json:"title"`
}

// Route maps a URL path to the view rendered for it.
type Route struct {
	Name string `json:"name"`
	Path string `json:"path"`
	View string `json:"view"`
	Meta Meta   `json:"meta"`
}

// AlbumHome is the public album page.
var AlbumHome = Route{
	Name: "AlbumHome",
	Path: "/album",
	View: "album/index",
	Meta: Meta{IgnoreAccess: true, Title: "相册"},
}

// External lists routes served outside the admin layout.
var External = []Route{AlbumHome}

// Table is an immutable set of routes indexed by name and path.
type Table struct {
	routes []Route
	byName map[string]int
	byPath map[string]int
}

// NewTable indexes routes. Names and paths must be unique and paths must start with "/".
func NewTable(routes ...Route) (*Table, error) {
	t := &Table{
		routes: make([]Route, 0, len(routes)),
		byName: make(map[string]int, len(routes)),
		byPath: make(map[string]int, len(routes)),
	}

	for _, r := range routes {
		if r.Name == "" || !strings.HasPrefix(r.Path, "/") {
			return nil, fmt.Errorf("%w: route %q has path %q", shared.ErrInvalidArgument, r.Name, r.Path)
		}
		path := normalize(r.Path)
		if _, ok := t.byName[r.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate route name %q", shared.ErrInvalidArgument, r.Name)
		}
		if _, ok := t.byPath[path]; ok {
			return nil, fmt.Errorf("%w: duplicate route path %q", shared.ErrInvalidArgument, r.Path)
		}

		t.byName[r.Name] = len(t.routes)
		t.byPath[path] = len(t.routes)
		t.routes = append(t.routes, r)
	}

	return t, nil
}

// Default returns the table of every declared route.
func Default() *Table {
	t, err := NewTable(External...)
	if err != nil {
		panic(fmt.Sprintf("invalid route declarations: %v", err))
	}
	return t
}

// Routes returns the routes in declaration order.
func (t *Table) Routes() []Route {
	return append([]Route(nil), t.routes...)
}

// Lookup returns the route named name, or [shared.ErrUnknownRoute].
func (t *Table) Lookup(name string) (Route, error) {
	i, ok := t.byName[name]
	if !ok {
		return Route{}, fmt.Errorf("%w: %s", shared.ErrUnknownRoute, name)
	}
	return t.routes[i], nil
}

// Match returns the route for a request path. Query, fragment and a trailing slash are ignored.
func (t *Table) Match(path string) (Route, bool) {
	if u, err := url.Parse(path); err == nil {
		path = u.Path
	}
	i, ok := t.byPath[normalize(path)]
	if !ok {
		return Route{}, false
	}
	return t.routes[i], true
}

// URL joins the route named name onto siteURL.
func (t *Table) URL(siteURL, name string) (string, error) {
	r, err := t.Lookup(name)
	if err != nil {
		return "", err
	}
	if siteURL == "" {
		return "", fmt.Errorf("%w: site URL is not configured", shared.ErrInvalidArgument)
	}
	return strings.TrimSuffix(siteURL, "/") + r.Path, nil
}

func normalize(path string) string {
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
