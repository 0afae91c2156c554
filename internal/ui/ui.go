package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/showtrack/internal/models"
	"github.com/desertthunder/showtrack/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ShowListView ViewState = iota
	EpisodeListView
	ImportInputView
	ImportView
	ResultView
)

// ShowSource is the read side of the show store.
type ShowSource interface {
	List(ctx context.Context, filter models.ShowFilter) ([]*models.Show, error)
	Get(ctx context.Context, id int) (*models.Show, error)
}

// Importer adds a show by name, reporting progress on the channel.
type Importer interface {
	Import(ctx context.Context, name string, progress chan<- tasks.ProgressUpdate) (*models.Show, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	source   ShowSource
	importer Importer
	filter   models.ShowFilter

	width  int
	height int

	showList    list.Model
	episodeList list.Model
	selected    *models.Show
	input       textinput.Model
	spinner     spinner.Model

	importName   string
	progressChan chan tasks.ProgressUpdate
	doneChan     chan importCompleteMsg
	progress     tasks.ProgressUpdate
	imported     *models.Show

	err  error
	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model listing shows that match filter.
func NewModel(ctx context.Context, source ShowSource, importer Importer, filter models.ShowFilter) *Model {
	input := textinput.New()
	input.Placeholder = "Show name"
	input.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.spinner

	return &Model{
		ctx:         ctx,
		view:        ShowListView,
		source:      source,
		importer:    importer,
		filter:      filter,
		showList:    newList("Shows", nil),
		episodeList: newList("Episodes", nil),
		input:       input,
		spinner:     sp,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.Styles.Title = theme.heading
	l.DisableQuitKeybindings()
	return l
}

// Init loads the show list.
func (m *Model) Init() tea.Cmd {
	return m.fetchShows()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showList.SetSize(msg.Width-4, msg.Height-8)
		m.episodeList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ShowListView:
			return m.handleShowListKeys(msg)
		case EpisodeListView:
			return m.handleEpisodeListKeys(msg)
		case ImportInputView:
			return m.handleInputKeys(msg)
		case ImportView:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case showsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		items := make([]list.Item, len(msg.shows))
		for i, show := range msg.shows {
			items[i] = showItem{show: show}
		}
		cmd := m.showList.SetItems(items)
		return m, cmd

	case showFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = ShowListView
			return m, nil
		}
		m.selected = msg.show
		items := make([]list.Item, len(msg.show.Episodes))
		for i, ep := range msg.show.Episodes {
			items[i] = episodeItem{episode: ep}
		}
		m.episodeList = newList(fmt.Sprintf("%s (%d episodes)", msg.show.Name, len(items)), items)
		m.episodeList.SetSize(m.width-4, m.height-8)
		m.view = EpisodeListView
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForImport()

	case importCompleteMsg:
		m.imported = msg.show
		m.err = msg.err
		m.progressChan = nil
		m.doneChan = nil
		m.view = ResultView
		if msg.err == nil {
			return m, m.fetchShows()
		}
		return m, nil

	case spinner.TickMsg:
		if m.view != ImportView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return theme.failure.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ShowListView:
		return m.renderShowList()
	case EpisodeListView:
		return m.renderEpisodeList()
	case ImportInputView:
		return m.renderInput()
	case ImportView:
		return m.renderImport()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleShowListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.showList, cmd = m.showList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.add):
		m.err = nil
		m.view = ImportInputView
		m.input.Reset()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.showList.SelectedItem().(showItem); ok {
			return m, m.fetchShow(item.show.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.showList, cmd = m.showList.Update(msg)
	return m, cmd
}

func (m *Model) handleEpisodeListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.episodeList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.episodeList, cmd = m.episodeList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ShowListView
		m.selected = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.episodeList, cmd = m.episodeList.Update(msg)
	return m, cmd
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.input.Blur()
		m.view = ShowListView
		return m, nil
	case "enter":
		name := m.input.Value()
		if name == "" {
			return m, nil
		}
		m.input.Blur()
		m.view = ImportView
		return m, m.startImport(name)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.enter):
		m.view = ShowListView
		m.imported = nil
		m.err = nil
		return m, nil
	case key.Matches(msg, m.keys.add):
		m.view = ImportInputView
		m.imported = nil
		m.err = nil
		m.input.Reset()
		return m, m.input.Focus()
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ShowListView:
		m.showList, cmd = m.showList.Update(msg)
	case EpisodeListView:
		m.episodeList, cmd = m.episodeList.Update(msg)
	case ImportInputView:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchShows() tea.Cmd {
	return func() tea.Msg {
		shows, err := m.source.List(m.ctx, m.filter)
		return showsFetchedMsg{shows: shows, err: err}
	}
}

func (m *Model) fetchShow(id int) tea.Cmd {
	return func() tea.Msg {
		show, err := m.source.Get(m.ctx, id)
		return showFetchedMsg{show: show, err: err}
	}
}

// startImport runs the importer in the background. The progress channel is closed
// before the outcome is sent on done, so every update is delivered first.
func (m *Model) startImport(name string) tea.Cmd {
	m.importName = name
	m.progress = tasks.ProgressUpdate{}
	m.progressChan = make(chan tasks.ProgressUpdate, 8)
	m.doneChan = make(chan importCompleteMsg, 1)

	progress, done := m.progressChan, m.doneChan
	go func() {
		show, err := m.importer.Import(m.ctx, name, progress)
		close(progress)
		done <- importCompleteMsg{show: show, err: err}
	}()

	return tea.Batch(m.spinner.Tick, m.waitForImport())
}

func (m *Model) waitForImport() tea.Cmd {
	progress, done := m.progressChan, m.doneChan
	return func() tea.Msg {
		if progress == nil {
			return nil
		}
		if update, ok := <-progress; ok {
			return progressUpdateMsg(update)
		}
		return <-done
	}
}

func (m *Model) renderShowList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.add, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.showList.View(), helpView)
}

func (m *Model) renderEpisodeList() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	overview := ""
	if m.selected != nil && m.selected.Overview != "" {
		overview = theme.overview.Render(m.selected.Overview) + "\n\n"
	}
	return fmt.Sprintf("%s%s\n\n%s", overview, m.episodeList.View(), helpView)
}

func (m *Model) renderInput() string {
	title := theme.heading.Render("Add a show")
	submit := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "import"))
	helpView := m.help.ShortHelpView([]key.Binding{submit, m.keys.back})
	return fmt.Sprintf("%s\n\n%s\n\n%s", title, m.input.View(), helpView)
}

func (m *Model) renderImport() string {
	title := theme.heading.Render(fmt.Sprintf("Importing %q", m.importName))

	phase := "Starting..."
	if m.progress.Total > 0 {
		phase = fmt.Sprintf("Step %d/%d: %s", m.progress.Step, m.progress.Total, m.progress.Message)
	}
	return fmt.Sprintf("%s\n\n%s %s", title, m.spinner.View(), phase)
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.add, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	var (
		notFound *tasks.ShowNotFoundError
		exists   *tasks.ShowExistsError
		body     string
	)
	switch {
	case m.err == nil && m.imported != nil:
		body = theme.added.Render(fmt.Sprintf("✓ %s has been added.", m.imported.Name)) +
			fmt.Sprintf("\n\n%d episodes • %s", len(m.imported.Episodes), m.imported.Network)
	case errors.As(m.err, &notFound), errors.As(m.err, &exists):
		body = theme.outcome.Render(m.err.Error())
	case m.err != nil:
		body = theme.failure.Render(fmt.Sprintf("Import failed: %v", m.err))
	default:
		body = theme.failure.Render("No result available")
	}

	return fmt.Sprintf("%s\n\n%s", body, helpView)
}
