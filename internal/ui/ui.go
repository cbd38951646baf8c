package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/scx/internal/models"
	"github.com/desertthunder/scx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MenuView ViewState = iota
	ItemsView
	ConfirmView
	ExportView
	ResultView
)

// Browser is what the TUI needs from the service layer.
type Browser interface {
	tasks.Source
	ToggleLike(ctx context.Context, trackID int64) (bool, error)
	IsLiked(trackID int64) bool
}

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	source     Browser
	engine     *tasks.Engine
	exportOpts tasks.ExportOpts
	width      int
	height     int
	menu       list.Model
	items      list.Model
	current    tasks.CollectionJob
	history    []tasks.CollectionJob
	loading    bool
	more       bool
	status     string
	progress   tasks.ProgressUpdate
	progressCh chan tasks.ProgressUpdate
	doneCh     chan exportCompleteMsg
	result     *tasks.ExportResult
	err        error
	help       help.Model
	keys       keyMap
}

// NewModel creates a TUI model browsing source; engine may be nil to disable exports.
func NewModel(ctx context.Context, source Browser, engine *tasks.Engine, opts tasks.ExportOpts) *Model {
	menu := list.New(defaultMenu(), list.NewDefaultDelegate(), 0, 0)
	menu.Title = "SoundCloud"

	items := list.New(nil, list.NewDefaultDelegate(), 0, 0)

	return &Model{
		ctx:        ctx,
		view:       MenuView,
		source:     source,
		engine:     engine,
		exportOpts: opts,
		menu:       menu,
		items:      items,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init has nothing to fetch until a collection is picked.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.menu.SetSize(msg.Width-4, msg.Height-8)
		m.items.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.view {
		case MenuView:
			return m.handleMenuKeys(msg)
		case ItemsView:
			return m.handleItemsKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}
		return m, nil

	case pageFetchedMsg:
		return m, m.applyPage(msg)

	case likeToggledMsg:
		return m, m.applyLike(msg)

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case exportCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressCh = nil
		m.doneCh = nil
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case MenuView:
		return m.renderMenu()
	case ItemsView:
		return m.renderItems()
	case ConfirmView:
		return m.renderConfirm()
	case ExportView:
		return m.renderExport()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.menu.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if entry, ok := m.menu.SelectedItem().(menuEntry); ok {
			m.history = nil
			return m, m.open(entry.job, entry.title)
		}
		return m, nil
	}
	return m.updateLists(msg)
}

func (m *Model) handleItemsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.items.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		return m, m.back()
	case key.Matches(msg, m.keys.next):
		if m.loading || !m.more {
			return m, nil
		}
		return m, m.fetchPage(m.current, false)
	case key.Matches(msg, m.keys.reload):
		if m.loading {
			return m, nil
		}
		return m, m.fetchPage(m.current, true)
	case key.Matches(msg, m.keys.like):
		return m, m.toggleLike()
	case key.Matches(msg, m.keys.export):
		if m.engine != nil {
			m.view = ConfirmView
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if selected, ok := m.items.SelectedItem().(itemAdapter); ok {
			if job, ok := drillDown(selected.item); ok {
				m.history = append(m.history, m.current)
				return m, m.open(job, selected.item.Label())
			}
		}
		return m, nil
	}
	return m.updateLists(msg)
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		m.view = ExportView
		return m, m.startExport()
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.quit):
		m.view = ItemsView
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.enter):
		m.result = nil
		m.err = nil
		// the export drained this collection's cursor
		return m, m.open(m.current, m.items.Title)
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case MenuView:
		m.menu, cmd = m.menu.Update(msg)
	case ItemsView:
		m.items, cmd = m.items.Update(msg)
	}
	return m, cmd
}

// open switches to job and fetches its first page.
func (m *Model) open(job tasks.CollectionJob, title string) tea.Cmd {
	m.current = job
	m.view = ItemsView
	m.more = false
	m.status = ""
	m.items.Title = title
	m.items.ResetFilter()
	return tea.Batch(m.items.SetItems(nil), m.fetchPage(job, true))
}

func (m *Model) back() tea.Cmd {
	if len(m.history) == 0 {
		m.view = MenuView
		m.current = tasks.CollectionJob{}
		return nil
	}
	prev := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	return m.open(prev, prev.String())
}

func (m *Model) fetchPage(job tasks.CollectionJob, reset bool) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		items, err := m.source.Collection(m.ctx, job.Name, reset, job.Arg)
		return pageFetchedMsg{
			job:   job,
			items: items,
			reset: reset,
			more:  err == nil && m.source.HasMore(job.Name, job.Arg),
			err:   err,
		}
	}
}

func (m *Model) applyPage(msg pageFetchedMsg) tea.Cmd {
	if msg.job != m.current {
		return nil
	}
	m.loading = false

	if msg.err != nil {
		m.status = styles.err.Render(fmt.Sprintf("Error: %v", msg.err))
		return nil
	}

	m.more = msg.more
	m.status = fmt.Sprintf("%d items loaded", len(msg.items))
	if msg.reset {
		return m.items.SetItems(adaptItems(msg.items))
	}
	return m.items.SetItems(append(m.items.Items(), adaptItems(msg.items)...))
}

func (m *Model) toggleLike() tea.Cmd {
	selected, ok := m.items.SelectedItem().(itemAdapter)
	if !ok {
		return nil
	}
	track, ok := selected.item.(*models.Playable)
	if !ok {
		m.status = styles.warn.Render("Only tracks can be liked")
		return nil
	}

	index := m.items.GlobalIndex()
	return func() tea.Msg {
		applied, err := m.source.ToggleLike(m.ctx, track.ID)
		return likeToggledMsg{index: index, track: track, applied: applied, err: err}
	}
}

func (m *Model) applyLike(msg likeToggledMsg) tea.Cmd {
	if msg.err != nil {
		m.status = styles.err.Render(fmt.Sprintf("Like failed: %v", msg.err))
		return nil
	}
	if !msg.applied {
		m.status = styles.warn.Render(fmt.Sprintf("No change for %q", msg.track.Title))
		return nil
	}

	if m.source.IsLiked(msg.track.ID) {
		msg.track.Rating = models.RatingLiked
		m.status = styles.ok.Render(fmt.Sprintf("♥ Liked %q", msg.track.Title))
	} else {
		msg.track.Rating = models.RatingNotLiked
		m.status = fmt.Sprintf("Unliked %q", msg.track.Title)
	}

	if msg.index >= 0 && msg.index < len(m.items.Items()) {
		return m.items.SetItem(msg.index, itemAdapter{item: msg.track})
	}
	return nil
}

func (m *Model) startExport() tea.Cmd {
	m.progressCh = make(chan tasks.ProgressUpdate, 50)
	m.doneCh = make(chan exportCompleteMsg, 1)
	progress, done, job, opts := m.progressCh, m.doneCh, m.current, m.exportOpts

	go func() {
		result, err := m.engine.ExportCollections(m.ctx, progress, []tasks.CollectionJob{job}, opts)
		done <- exportCompleteMsg{result: result, err: err}
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressCh, m.doneCh
	return func() tea.Msg {
		if progress == nil {
			return exportCompleteMsg{}
		}

		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderMenu() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.menu.View(), helpView)
}

func (m *Model) renderItems() string {
	bindings := []key.Binding{m.keys.enter, m.keys.like, m.keys.reload}
	if m.more {
		bindings = append(bindings, m.keys.next)
	}
	if m.engine != nil {
		bindings = append(bindings, m.keys.export)
	}
	bindings = append(bindings, m.keys.back, m.keys.quit)

	status := m.status
	if m.loading {
		status = styles.help.Render("Loading...")
	}
	return fmt.Sprintf("%s\n%s\n\n%s", m.items.View(), status, m.help.ShortHelpView(bindings))
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Export '%s'?", m.current))
	info := fmt.Sprintf("\nFormat: %s\nPages: up to %d\n", m.exportOpts.Format, m.exportOpts.MaxPages)
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no})
	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderExport() string {
	title := styles.title.Render(fmt.Sprintf("Exporting %s", m.current))

	var phase string
	switch m.progress.Phase {
	case tasks.FetchPage:
		phase = fmt.Sprintf("Fetching pages (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.WriteCollection, tasks.WriteManifest:
		phase = "Writing files..."
	default:
		phase = "Starting..."
	}
	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("Export failed: %v", m.err)), helpView)
	}
	if m.result == nil || len(m.result.Results) == 0 {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("No result available"), helpView)
	}

	res := m.result.Results[0]
	if !res.Success {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("✗ %s: %s", res.Collection, res.ErrorMessage)), helpView)
	}

	title := styles.ok.Render("✓ Export Complete!")
	info := fmt.Sprintf("\nCollection: %s\nItems: %d in %d pages\nFile: %s\nManifest: %s",
		res.Collection, res.Items, res.Pages, res.File, m.result.ManifestPath)
	if res.Truncated {
		info += "\n" + styles.warn.Render("Stopped at the page limit; more items remain.")
	}
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}
