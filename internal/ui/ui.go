package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vibecatch/vibecatch/internal/models"
	"github.com/vibecatch/vibecatch/internal/repositories"
	"github.com/vibecatch/vibecatch/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	RecordView ViewState = iota
	ResultView
	CategoryPickView
	PlaylistListView
	TrackListView
)

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	engine    *tasks.SessionEngine
	playlists *repositories.PlaylistRepository

	width  int
	height int

	recording    bool
	bar          progress.Model
	progressChan chan tasks.ProgressUpdate
	resultsChan  <-chan tasks.Result
	progress     tasks.ProgressUpdate
	result       *tasks.Result
	caught       *models.Track
	filed        *trackFiledMsg

	pickList     list.Model
	categoryList list.Model
	trackList    list.Model

	err  error
	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine *tasks.SessionEngine, playlists *repositories.PlaylistRepository) *Model {
	return &Model{
		ctx:       ctx,
		view:      RecordView,
		engine:    engine,
		playlists: playlists,
		bar:       progress.New(progress.WithDefaultGradient()),
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init starts the TUI in the idle record view.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = msg.Width - 8
		for _, l := range []*list.Model{&m.pickList, &m.categoryList, &m.trackList} {
			if l.Width() == 0 {
				l.SetSize(msg.Width-4, msg.Height-8)
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case RecordView:
			return m.handleRecordKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		case CategoryPickView:
			return m.handleCategoryPickKeys(msg)
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case TrackListView:
			return m.handleTrackListKeys(msg)
		}

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case sessionDoneMsg:
		result := tasks.Result(msg)
		m.recording = false
		m.result = &result
		m.caught = result.Track
		m.filed = nil
		m.view = ResultView
		return m, nil

	case trackFiledMsg:
		m.filed = &msg
		m.view = ResultView
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case RecordView:
		return m.renderRecord()
	case ResultView:
		return m.renderResult()
	case CategoryPickView:
		return m.renderCategoryPick()
	case PlaylistListView:
		return m.renderPlaylistList()
	case TrackListView:
		return m.renderTrackList()
	default:
		return ""
	}
}

func (m *Model) handleRecordKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.recording {
		switch msg.String() {
		case "c", "esc":
			m.engine.Cancel()
		case "q", "ctrl+c":
			m.engine.Cancel()
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		return m, m.startSession()
	case "b":
		m.loadCategoryList()
		m.view = PlaylistListView
		return m, nil
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.result = nil
		m.filed = nil
		m.view = RecordView
		return m, m.startSession()
	case "b":
		m.loadCategoryList()
		m.view = PlaylistListView
		return m, nil
	case "enter":
		if m.caught != nil {
			m.loadPickList()
			m.view = CategoryPickView
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleCategoryPickKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = ResultView
		return m, nil
	case "enter":
		if selected, ok := m.pickList.SelectedItem().(categoryItem); ok && m.caught != nil {
			return m, m.fileTrack(selected.category, *m.caught)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.pickList, cmd = m.pickList.Update(msg)
	return m, cmd
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = RecordView
		return m, nil
	case "enter":
		if selected, ok := m.categoryList.SelectedItem().(categoryItem); ok {
			m.loadTrackList(selected.category)
			m.view = TrackListView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.categoryList, cmd = m.categoryList.Update(msg)
	return m, cmd
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = PlaylistListView
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case CategoryPickView:
		m.pickList, cmd = m.pickList.Update(msg)
	case PlaylistListView:
		m.categoryList, cmd = m.categoryList.Update(msg)
	case TrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) startSession() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	results, err := m.engine.Start(m.ctx, m.progressChan)
	if err != nil {
		m.err = err
		m.progressChan = nil
		return nil
	}

	m.recording = true
	m.resultsChan = results
	m.progress = tasks.ProgressUpdate{}
	m.view = RecordView
	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.progressChan
		if !ok {
			result := <-m.resultsChan
			m.engine.Acknowledge()
			return sessionDoneMsg(result)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) fileTrack(category string, track models.Track) tea.Cmd {
	return func() tea.Msg {
		outcome, err := m.playlists.AddTrack(category, track)
		return trackFiledMsg{category: category, outcome: outcome, err: err}
	}
}

func (m *Model) loadPickList() {
	m.pickList = m.newCategoryList("File under...")
}

func (m *Model) loadCategoryList() {
	m.categoryList = m.newCategoryList("Mood Playlists")
}

func (m *Model) newCategoryList(title string) list.Model {
	categories := m.playlists.Categories()
	items := make([]list.Item, len(categories))
	for i, category := range categories {
		tracks, _ := m.playlists.ListTracks(category)
		items[i] = categoryItem{category: category, count: len(tracks)}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetSize(m.width-4, m.height-8)
	return l
}

func (m *Model) loadTrackList(category string) {
	tracks, err := m.playlists.ListTracks(category)
	if err != nil {
		m.err = err
		return
	}

	items := make([]list.Item, len(tracks))
	for i, track := range tracks {
		items[i] = trackItem{track: track}
	}

	m.trackList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.trackList.Title = fmt.Sprintf("Tracks in '%s'", category)
	m.trackList.SetSize(m.width-4, m.height-8)
}

func (m *Model) renderRecord() string {
	if m.recording {
		title := styles.title.Render("Listening...")
		bar := m.bar.ViewAs(float64(m.progress.Percent) / 100)

		helpKeys := []key.Binding{m.keys.cancel, m.keys.quit}
		return fmt.Sprintf("%s\n%s\n%s\n\n%s", title, m.progress.Message, bar, m.help.ShortHelpView(helpKeys))
	}

	title := styles.title.Render("VibeCatch")
	prompt := "Press enter to catch what's playing."

	startKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "record"))
	helpKeys := []key.Binding{startKey, m.keys.browse, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n\n%s", title, prompt, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderResult() string {
	if m.result == nil {
		return ""
	}

	var body string
	switch m.result.State() {
	case tasks.Completed:
		body = fmt.Sprintf("%s\n\n  %s", styles.ok.Render("✓ Caught!"), m.caught.String())
		if m.filed != nil {
			switch {
			case m.filed.err != nil:
				body += fmt.Sprintf("\n\n%s", styles.err.Render(fmt.Sprintf("Failed to file track: %v", m.filed.err)))
			case m.filed.outcome == repositories.TrackAlreadyPresent:
				body += fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("Already in '%s'", m.filed.category)))
			default:
				body += fmt.Sprintf("\n\n%s", styles.ok.Render(fmt.Sprintf("Filed under '%s'", m.filed.category)))
			}
		}
	case tasks.Cancelled:
		body = styles.warn.Render("Recording cancelled.")
	default:
		body = styles.err.Render(fmt.Sprintf("No luck: %v", m.result.Err))
	}

	fileKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "file track"))
	helpKeys := []key.Binding{m.keys.again, m.keys.browse, m.keys.quit}
	if m.caught != nil && m.filed == nil {
		helpKeys = append([]key.Binding{fileKey}, helpKeys...)
	}

	return fmt.Sprintf("%s\n\n%s", body, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderCategoryPick() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.pickList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderPlaylistList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.categoryList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderTrackList() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), m.help.ShortHelpView(helpKeys))
}
