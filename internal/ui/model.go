package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tvnav/internal/catalog"
	"tvnav/internal/config"
	"tvnav/internal/dom"
	"tvnav/internal/domain"
	"tvnav/internal/eventbus"
	"tvnav/internal/ui/coordinator"
	"tvnav/internal/ui/element"
	"tvnav/internal/ui/views"
)

// statusTimeout is how long transient status messages stay visible
const statusTimeout = 3 * time.Second

// keyMap holds the terminal-only bindings. Remote keys are forwarded to the
// document and bound through the config key map.
type keyMap struct {
	Navigate    key.Binding
	Select      key.Binding
	Back        key.Binding
	Search      key.Binding
	HistoryBack key.Binding
	RemoteBack  key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Navigate:    key.NewBinding(key.WithKeys("up", "down", "left", "right"), key.WithHelp("←↑↓→", "move")),
		Select:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
		Back:        key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		HistoryBack: key.NewBinding(key.WithKeys("alt+left", "["), key.WithHelp("alt+←", "browser back")),
		RemoteBack:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "remote back")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Navigate, k.Select, k.Back, k.Search, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Navigate, k.Select, k.Back},
		{k.Search, k.HistoryBack, k.RemoteBack},
		{k.Help, k.Quit},
	}
}

// Deps are the pieces the model drives
type Deps struct {
	Doc         *dom.Document
	App         *catalog.App
	Coordinator *coordinator.Coordinator
	History     *dom.History
	Config      *config.Config
	Logger      *slog.Logger
}

// Model represents the UI state
type Model struct {
	doc     *dom.Document
	app     *catalog.App
	coord   *coordinator.Coordinator
	history *dom.History
	layout  catalog.Layout
	logger  *slog.Logger

	width  int
	height int
	keys   keyMap
	help   help.Model
	search textinput.Model

	searching   bool
	status      string
	statusError bool
	statusSeq   int
	inPagerMode bool

	renderer   *views.Renderer
	helpRender *HelpRenderer
	helpOps    *HelpOps

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(deps Deps) *Model {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "name, kind, year or genre"
	search.CharLimit = 64

	return &Model{
		doc:        deps.Doc,
		app:        deps.App,
		coord:      deps.Coordinator,
		history:    deps.History,
		layout:     catalog.LayoutFromConfig(cfg.Catalog),
		logger:     logger,
		keys:       newKeyMap(),
		help:       help.New(),
		search:     search,
		renderer:   views.NewRenderer(),
		helpRender: NewHelpRenderer(cfg.Keys),
		helpOps:    NewHelpOps(nil),
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.helpOps.SetProgram(p)
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return tea.SetWindowTitle("tvnav")
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.search.Width = msg.Width / 2
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKey(msg)

	case PendingMsg:
		m.coord.Sync()
		if m.searching {
			m.focusSearchField()
		}
		return m, nil

	case EventMsg:
		return m, m.handleEvent(msg.Event)

	case helpPagerMsg:
		if msg.err != nil {
			m.logger.Warn("ui: help pager failed", "error", msg.err)
			return m, m.setStatus(fmt.Sprintf("Help unavailable: %v", msg.err), true)
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusError = false
		}
		return m, nil
	}

	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		return m, m.fetchHelpPager(m.helpRender.RenderHelpContent())

	case key.Matches(msg, m.keys.Search):
		if m.coord.Mode() != domain.ModeCatalog {
			return m, nil
		}
		return m, m.startSearch()

	case key.Matches(msg, m.keys.HistoryBack):
		if err := m.history.Back(); err != nil {
			m.logger.Debug("ui: history back failed", "error", err)
		}
		m.coord.Sync()
		return m, nil

	case key.Matches(msg, m.keys.RemoteBack):
		m.doc.FireBackButton()
		return m, nil
	}

	if name, ok := domKey(msg); ok {
		m.doc.DispatchKey(name)
	}
	return m, nil
}

// updateSearch routes keys while the search box is open. Navigation keys
// still reach the document; typed text and unconsumed keys edit the query.
func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEnter:
		m.endSearch()
		return m, nil

	case tea.KeyRunes, tea.KeySpace:

	default:
		if name, ok := domKey(msg); ok {
			ev := m.doc.DispatchKey(name)
			m.focusSearchField()
			if ev.DefaultPrevented() {
				return m, nil
			}
			if msg.Type == tea.KeyEsc {
				m.endSearch()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != m.app.Query() {
		if err := m.app.Search(q); err != nil {
			m.logger.Warn("ui: search failed", "query", q, "error", err)
			return m, tea.Batch(cmd, m.setStatus(fmt.Sprintf("Search failed: %v", err), true))
		}
		// a reseed moves focus to a tile
		m.coord.Sync()
		m.focusSearchField()
	}
	return m, cmd
}

func (m *Model) startSearch() tea.Cmd {
	m.searching = true
	m.search.SetValue(m.app.Query())
	m.search.CursorEnd()
	m.focusSearchField()
	return m.search.Focus()
}

func (m *Model) endSearch() {
	m.searching = false
	m.search.Blur()
	if active, ok := m.doc.Active(); ok && active.ID() == catalog.SearchID {
		m.doc.Blur()
	}
}

// focusSearchField keeps document focus in the search input so the back key
// edits text instead of leaving the page
func (m *Model) focusSearchField() {
	field, ok := m.doc.ByID(catalog.SearchID)
	if !ok {
		return
	}
	if err := field.Focus(true); err != nil {
		m.logger.Debug("ui: search field not focusable", "error", err)
	}
}

// domKey translates a terminal key into a DOM key value
func domKey(msg tea.KeyMsg) (string, bool) {
	if msg.Alt {
		return "", false
	}
	switch msg.Type {
	case tea.KeyUp:
		return "ArrowUp", true
	case tea.KeyDown:
		return "ArrowDown", true
	case tea.KeyLeft:
		return "ArrowLeft", true
	case tea.KeyRight:
		return "ArrowRight", true
	case tea.KeyEnter:
		return "Enter", true
	case tea.KeySpace:
		return " ", true
	case tea.KeyEsc:
		return "Escape", true
	case tea.KeyBackspace:
		return "Backspace", true
	case tea.KeyRunes:
		if len(msg.Runes) == 1 {
			return string(msg.Runes), true
		}
	}
	return "", false
}

func (m *Model) handleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case domain.NavigationReadyEvent:
		return m.setStatus(fmt.Sprintf("%d titles", e.Items), false)
	case domain.PlaybackStartedEvent:
		return m.setStatus(fmt.Sprintf("▶ Playing %s", e.Name), false)
	case domain.CatalogReloadedEvent:
		return m.setStatus(fmt.Sprintf("Catalog reloaded: %d titles", e.Titles), false)
	case domain.BackHandledEvent:
		if e.Source == coordinator.SourceHistory && e.Outcome == domain.BackClosedOverlay {
			return m.setStatus("Closed by browser back", false)
		}
	case domain.ErrorEvent:
		return m.setStatus(e.Message, true)
	}
	return nil
}

func (m *Model) setStatus(text string, isError bool) tea.Cmd {
	m.statusSeq++
	seq := m.statusSeq
	m.status = text
	m.statusError = isError
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// fetchHelpPager returns a command that shows help using ov pager
func (m *Model) fetchHelpPager(helpContent string) tea.Cmd {
	return func() tea.Msg {
		if m.program == nil {
			return helpPagerMsg{err: fmt.Errorf("program not set")}
		}
		m.program.Send(pauseRenderingMsg{})
		err := m.helpOps.ShowHelpInPager(helpContent)
		m.program.Send(resumeRenderingMsg{})
		return helpPagerMsg{err: err}
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}
	return m.renderer.Render(m.buildViewState())
}

func (m *Model) buildViewState() views.ViewState {
	st := views.ViewState{
		Width:       m.width,
		Height:      m.height,
		Columns:     m.layout.Columns,
		Total:       len(m.app.Titles()),
		Mode:        m.coord.Mode().String(),
		Query:       m.app.Query(),
		Searching:   m.searching,
		SearchInput: m.search.View(),
		Status:      m.status,
		StatusError: m.statusError,
		HelpView:    m.help.View(m.keys),
	}

	for _, n := range m.doc.Find(".tile") {
		if !n.Visible() {
			continue
		}
		id, _ := n.Attr(catalog.TitleAttr)
		t, ok := m.app.Title(id)
		if !ok {
			continue
		}
		st.Tiles = append(st.Tiles, views.Tile{
			ID:      id,
			Name:    t.Name,
			Meta:    catalog.Meta(t),
			Focused: n.Highlighted(),
		})
	}

	ov, open := m.doc.OpenOverlay()
	if !open {
		return st
	}
	t, ok := m.app.DetailTitle()
	if !ok {
		return st
	}
	detail := &views.Detail{Title: t.Name, Info: catalog.Meta(t), Text: t.Synopsis}
	for _, el := range m.doc.Query(ov, element.RoleInteractive) {
		n, ok := el.(*dom.Node)
		if !ok || el.HiddenFromAssistiveTech() || !el.Visible() {
			continue
		}
		detail.Buttons = append(detail.Buttons, views.Button{
			Label:   strings.TrimSpace(n.Text()),
			Focused: n.Highlighted(),
		})
	}
	st.Detail = detail
	return st
}
