package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/anzhiyu-c/anheyu-cli/internal/icons"
	"github.com/anzhiyu-c/anheyu-cli/internal/models"
	"github.com/anzhiyu-c/anheyu-cli/internal/services"
	"github.com/anzhiyu-c/anheyu-cli/internal/stores"
	"github.com/anzhiyu-c/anheyu-cli/internal/tasks"
)

const defaultPageSize = 20

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CategoryListView ViewState = iota
	WallpaperListView
	DownloadView
	ResultView
)

// Options wires the [Model] dependencies. Engine may be nil, which disables downloads.
type Options struct {
	Store       *stores.AlbumStore
	Gallery     services.Gallery
	Engine      *tasks.Engine
	Title       string
	PageSize    int
	DownloadDir string
}

// Model represents the TUI application state.
type Model struct {
	ctx           context.Context
	view          ViewState
	store         *stores.AlbumStore
	gallery       services.Gallery
	engine        *tasks.Engine
	title         string
	pageSize      int
	downloadDir   string
	width         int
	height        int
	categoryList  list.Model
	wallpaperList list.Model
	page          *models.GalleryPage
	pageNum       int
	loading       bool
	progressChan  chan tasks.ProgressUpdate
	doneChan      chan Msg
	progress      tasks.ProgressUpdate
	result        *tasks.DownloadResult
	err           error
	help          help.Model
	keys          keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts Options) *Model {
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.Title == "" {
		opts.Title = stores.DefaultAppName
	}
	return &Model{
		ctx:           ctx,
		view:          CategoryListView,
		store:         opts.Store,
		gallery:       opts.Gallery,
		engine:        opts.Engine,
		title:         opts.Title,
		pageSize:      opts.PageSize,
		downloadDir:   opts.DownloadDir,
		pageNum:       1,
		categoryList:  newList(nil, opts.Title),
		wallpaperList: newList(nil, ""),
		help:          help.New(),
		keys:          newKeyMap(),
	}
}

func newList(items []list.Item, title string) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	return l
}

// ViewState returns the active view.
func (m *Model) ViewState() ViewState { return m.view }

// Init initializes the TUI by fetching categories.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return m.fetchCategories()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.categoryList.SetSize(msg.Width-4, msg.Height-8)
		m.wallpaperList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case CategoryListView:
			return m.handleCategoryKeys(msg)
		case WallpaperListView:
			return m.handleWallpaperKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		case DownloadView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgCategoriesFetched:
		data := msg.data.(categoriesFetched)
		m.loading = false
		cmd := m.categoryList.SetItems(categoryItems(data.categories))
		return m, cmd

	case MsgWallpapersFetched:
		data := msg.data.(wallpapersFetched)
		m.loading = false
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		m.page = data.page
		m.wallpaperList.Title = m.wallpaperTitle()
		m.view = WallpaperListView
		cmd := m.wallpaperList.SetItems(wallpaperItems(data.page))
		return m, cmd

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgDownloadComplete:
		data := msg.data.(downloadComplete)
		m.result = data.result
		m.err = data.err
		m.view = ResultView
		m.progressChan = nil
		m.doneChan = nil
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case CategoryListView:
		return m.renderCategoryList()
	case WallpaperListView:
		return m.renderWallpaperList()
	case DownloadView:
		return m.renderDownload()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleCategoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.categoryList.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if selected, ok := m.categoryList.SelectedItem().(categoryItem); ok {
			m.store.SetCategoryID(selected.id())
			m.pageNum = 1
			return m, m.fetchWallpapers()
		}
		return m, nil
	}

	return m.updateLists(msg)
}

func (m *Model) handleWallpaperKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.wallpaperList.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = CategoryListView
		m.err = nil
		return m, nil
	case key.Matches(msg, m.keys.sort):
		m.store.SetSortOrder(m.store.SortOrder().Next())
		m.pageNum = 1
		return m, m.fetchWallpapers()
	case key.Matches(msg, m.keys.next):
		if m.hasNextPage() {
			m.pageNum++
			return m, m.fetchWallpapers()
		}
		return m, nil
	case key.Matches(msg, m.keys.prev):
		if m.pageNum > 1 {
			m.pageNum--
			return m, m.fetchWallpapers()
		}
		return m, nil
	case key.Matches(msg, m.keys.download):
		if selected, ok := m.wallpaperList.SelectedItem().(wallpaperItem); ok {
			return m, m.startDownload([]models.AlbumItem{selected.item})
		}
		return m, nil
	case key.Matches(msg, m.keys.all):
		if m.page != nil && len(m.page.List) > 0 {
			return m, m.startDownload(m.page.List)
		}
		return m, nil
	}

	return m.updateLists(msg)
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.enter):
		m.view = WallpaperListView
		m.result = nil
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case CategoryListView:
		m.categoryList, cmd = m.categoryList.Update(msg)
	case WallpaperListView:
		m.wallpaperList, cmd = m.wallpaperList.Update(msg)
	}
	return m, cmd
}

func (m *Model) hasNextPage() bool {
	return m.page != nil && m.pageNum*m.pageSize < m.page.Total
}

func (m *Model) fetchCategories() tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		store.FetchCategories(ctx)
		return categoriesFetchedMsg(store.Categories())
	}
}

func (m *Model) fetchWallpapers() tea.Cmd {
	m.loading = true
	params := models.GalleryParams{
		Page:       m.pageNum,
		PageSize:   m.pageSize,
		Sort:       m.store.SortOrder(),
		CategoryID: m.store.CategoryID(),
	}
	ctx, gallery := m.ctx, m.gallery
	return func() tea.Msg {
		page, err := gallery.ListWallpapers(ctx, params)
		return wallpapersFetchedMsg(page, err)
	}
}

func (m *Model) startDownload(items []models.AlbumItem) tea.Cmd {
	if m.engine == nil {
		m.err = fmt.Errorf("downloads are not configured")
		return nil
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan Msg, 1)
	m.progressChan = progress
	m.doneChan = done
	m.progress = tasks.ProgressUpdate{Phase: tasks.DownloadWallpaper, Total: len(items)}
	m.view = DownloadView

	engine, ctx := m.engine, m.ctx
	opts := tasks.DownloadOpts{Dir: m.downloadDir}
	go func() {
		result, err := engine.Download(ctx, progress, items, opts)
		done <- downloadCompleteMsg(result, err)
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.doneChan
	return func() tea.Msg {
		if progress == nil {
			return downloadCompleteMsg(nil, fmt.Errorf("no download in progress"))
		}

		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) wallpaperTitle() string {
	category := "全部"
	if id := m.store.CategoryID(); id != nil {
		category = fmt.Sprintf("#%d", *id)
		for _, c := range m.store.Categories() {
			if c.ID == *id {
				category = c.Name
				break
			}
		}
	}

	total := 0
	if m.page != nil {
		total = m.page.Total
	}
	return fmt.Sprintf("%s · %s · %s · page %d (%d total)", m.title, category, m.store.SortOrder(), m.pageNum, total)
}

func (m *Model) renderCategoryList() string {
	if m.loading {
		return fmt.Sprintf("%s Loading categories...", icons.SvgSpinnerIcon)
	}
	var status string
	if m.err != nil {
		status = "\n" + styles.err.Render(fmt.Sprintf("%s %v", icons.SvgCloseIcon, m.err))
	}
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	return fmt.Sprintf("%s%s\n\n%s", m.categoryList.View(), status, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderWallpaperList() string {
	var status string
	switch {
	case m.loading:
		status = fmt.Sprintf("\n%s Loading...", icons.SvgSpinnerIcon)
	case m.err != nil:
		status = "\n" + styles.err.Render(fmt.Sprintf("%s %v", icons.SvgCloseIcon, m.err))
	}

	helpKeys := []key.Binding{m.keys.sort, m.keys.next, m.keys.prev, m.keys.download, m.keys.all, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s%s\n\n%s", m.wallpaperList.View(), status, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderDownload() string {
	title := styles.title.Render(fmt.Sprintf("%s Downloading Wallpapers", icons.ArrowDownCircleFill))
	phase := fmt.Sprintf("Progress: %d/%d", m.progress.Step, m.progress.Total)
	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})

	if m.result == nil {
		msg := "No result available"
		if m.err != nil {
			msg = fmt.Sprintf("Download failed: %v", m.err)
		}
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(msg), helpView)
	}

	title := styles.ok.Render("✓ Download Complete!")
	if m.err != nil {
		title = styles.warn.Render(fmt.Sprintf("Download stopped: %v", m.err))
	}

	info := fmt.Sprintf(
		"\nDirectory: %s\nSaved: %d  Skipped: %d  Failed: %d  (%d total)",
		m.result.Directory,
		m.result.Succeeded,
		m.result.Skipped,
		m.result.Failed,
		m.result.Total,
	)

	var failed strings.Builder
	if m.result.Failed > 0 {
		failed.WriteString("\n\n")
		failed.WriteString(styles.warn.Render(fmt.Sprintf("Failed to download %d wallpapers:", m.result.Failed)))
		for _, res := range m.result.Results {
			if res.Error != nil {
				fmt.Fprintf(&failed, "\n  • %s: %v", res.ItemID, res.Error)
			}
		}
	}

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed.String(), helpView)
}
