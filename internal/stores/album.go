package stores

import (
	"context"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/anzhiyu-c/anheyu-cli/internal/models"
	"github.com/anzhiyu-c/anheyu-cli/internal/shared"
)

// CategoryLister lists the public album categories.
type CategoryLister interface {
	ListCategories(ctx context.Context) ([]models.PublicCategory, error)
}

// AlbumState is a snapshot of an [AlbumStore]. CategoryID nil selects every category.
type AlbumState struct {
	SortOrder  models.SortOrder
	CategoryID *int
	Categories []models.PublicCategory
}

// AlbumStore holds the album home page selection.
type AlbumStore struct {
	mu            sync.Mutex
	state         AlbumState
	lister        CategoryLister
	logger        *log.Logger
	subscribers   map[int]func(AlbumState)
	nextID        int
	notifications int
}

// NewAlbumStore creates a store sorted by [models.SortDisplayOrderAsc] with no category selected.
func NewAlbumStore(lister CategoryLister, logger *log.Logger) *AlbumStore {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &AlbumStore{
		state:       AlbumState{SortOrder: models.SortDisplayOrderAsc, Categories: []models.PublicCategory{}},
		lister:      lister,
		logger:      shared.WithLogger(logger, "store", "album"),
		subscribers: make(map[int]func(AlbumState)),
	}
}

// State returns a copy of the current state.
func (a *AlbumStore) State() AlbumState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot()
}

func (a *AlbumStore) snapshot() AlbumState {
	s := AlbumState{SortOrder: a.state.SortOrder, Categories: slices.Clone(a.state.Categories)}
	if a.state.CategoryID != nil {
		id := *a.state.CategoryID
		s.CategoryID = &id
	}
	return s
}

func (a *AlbumStore) SortOrder() models.SortOrder { return a.State().SortOrder }

func (a *AlbumStore) CategoryID() *int { return a.State().CategoryID }

func (a *AlbumStore) Categories() []models.PublicCategory { return a.State().Categories }

// SetSortOrder changes the sort order. Setting the current value does nothing.
func (a *AlbumStore) SetSortOrder(order models.SortOrder) {
	a.mu.Lock()
	if a.state.SortOrder == order {
		a.mu.Unlock()
		return
	}
	a.state.SortOrder = order
	a.commit()
}

// SetCategoryID selects a category; nil selects every category. Setting the current value does nothing.
func (a *AlbumStore) SetCategoryID(id *int) {
	a.mu.Lock()
	if sameID(a.state.CategoryID, id) {
		a.mu.Unlock()
		return
	}
	if id == nil {
		a.state.CategoryID = nil
	} else {
		v := *id
		a.state.CategoryID = &v
	}
	a.commit()
}

// FetchCategories replaces the category list from the lister.
// On failure the error is logged and the previous list is kept.
func (a *AlbumStore) FetchCategories(ctx context.Context) {
	if a.lister == nil {
		a.logger.Warn("no category source configured")
		return
	}

	categories, err := a.lister.ListCategories(ctx)
	if err != nil {
		a.logger.Error("failed to fetch album categories", "error", err)
		return
	}
	if categories == nil {
		categories = []models.PublicCategory{}
	}
	a.logger.Debug("album categories updated", "count", len(categories))

	a.mu.Lock()
	a.state.Categories = slices.Clone(categories)
	a.commit()
}

// Subscribe registers fn to receive a snapshot after every change and returns a function that removes it.
func (a *AlbumStore) Subscribe(fn func(AlbumState)) (unsubscribe func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextID
	a.nextID++
	a.subscribers[id] = fn

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.subscribers, id)
	}
}

// Notifications returns how many changes have been published.
func (a *AlbumStore) Notifications() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.notifications
}

// commit publishes the change. It must be called with a.mu held and releases it.
func (a *AlbumStore) commit() {
	a.notifications++
	state := a.snapshot()
	subscribers := make([]func(AlbumState), 0, len(a.subscribers))
	for _, fn := range a.subscribers {
		subscribers = append(subscribers, fn)
	}
	a.mu.Unlock()

	for _, fn := range subscribers {
		fn(state)
	}
}

func sameID(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
