package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/songsheet/internal/formatter"
	"github.com/desertthunder/songsheet/internal/models"
	"github.com/desertthunder/songsheet/internal/scroll"
	"github.com/desertthunder/songsheet/internal/services"
	"github.com/desertthunder/songsheet/internal/store"
	"gopkg.in/yaml.v3"
)

// lineUnits is the number of pacer units in one terminal line.
const lineUnits = 20.0

// Defaults applied by [NewModel] to zero [Options] fields.
const (
	DefaultInterval = 100 * time.Millisecond
	DefaultLimit    = 5
)

// Options configures the TUI.
type Options struct {
	Interval  time.Duration // Auto-scroll tick interval
	Tolerance float64       // Auto-scroll bottom tolerance in pacer units
	Limit     int           // Length of the recent and popular lists
}

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	svc         services.SongService
	store       *store.Store
	state       store.State
	unsubscribe func()
	opts        Options

	width  int
	height int

	sidebar   list.Model
	search    textinput.Model
	searching bool
	recent    []*models.Partition
	popular   []*models.Partition

	sheet   viewport.Model
	pacer   *scroll.Pacer
	tickGen int

	editor    textarea.Model
	editingID int64

	status string
	help   help.Model
	keys   keyMap
}

// NewModel creates a TUI model observing st and reading from svc.
func NewModel(ctx context.Context, svc services.SongService, st *store.Store, opts Options) *Model {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = scroll.DefaultTolerance
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}

	search := textinput.New()
	search.Placeholder = "Rechercher un titre ou un artiste"
	search.Prompt = "/ "

	editor := textarea.New()
	editor.CharLimit = 0
	editor.MaxHeight = 0
	editor.ShowLineNumbers = true

	sidebar := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	sidebar.Title = "Artistes"
	sidebar.SetShowHelp(false)
	sidebar.SetFilteringEnabled(false)

	m := &Model{
		ctx:     ctx,
		svc:     svc,
		store:   st,
		state:   st.State(),
		opts:    opts,
		sidebar: sidebar,
		search:  search,
		sheet:   viewport.New(0, 0),
		editor:  editor,
		help:    help.New(),
		keys:    newKeyMap(),
	}
	m.unsubscribe = st.Subscribe(func(s store.State) { m.state = s })
	return m
}

// Close stops observing the store.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Init loads the home screen lists.
func (m *Model) Init() tea.Cmd {
	m.store.Dispatch(store.SetLoading{Loading: true})
	return m.loadHome()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.state.View() {
		case store.ViewEditing:
			return m.handleEditorKeys(msg)
		case store.ViewSong:
			return m.handleSongKeys(msg)
		default:
			return m.handleHomeKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgHomeLoaded:
		data := msg.data.(homeLoaded)
		if data.err != nil {
			m.store.Dispatch(store.SetLoading{Loading: false}, store.SetError{Message: data.err.Error()})
			return m, nil
		}
		m.recent = data.home.Recent
		m.popular = data.home.Popular
		m.store.Dispatch(
			store.SetArtists{Artists: data.home.Artists},
			store.SetSongs{Songs: data.home.Songs},
			store.SetLoading{Loading: false},
			store.SetError{},
		)
		if d := m.state.CurrentSongDetails; d != nil && m.state.SelectedSong != nil {
			if sel := locate(m.groups(), d.ID); sel != nil {
				m.store.Dispatch(store.SelectSong{Selection: sel})
			}
		}
		m.refreshSidebar()
		return m, nil

	case MsgDetailsLoaded:
		data := msg.data.(detailsLoaded)
		if data.err != nil {
			m.store.Dispatch(store.SetLoading{Loading: false}, store.SetError{Message: data.err.Error()})
			return m, nil
		}
		actions := []store.Action{
			store.SetSongDetails{Details: data.details},
			store.SetLoading{Loading: false},
			store.SetError{},
		}
		if m.state.SelectedSong == nil {
			sel := locate(m.groups(), data.id)
			if sel == nil {
				sel = &store.Selection{ArtistIndex: store.NoArtist, SongIndex: -1}
			}
			actions = append(actions, store.SelectSong{Selection: sel})
		}
		m.store.Dispatch(actions...)
		return m, m.openSheet(data.details)

	case MsgFavoriteToggled:
		data := msg.data.(favoriteToggled)
		if data.err != nil {
			m.store.Dispatch(store.SetError{Message: data.err.Error()})
			return m, nil
		}
		if d := m.state.CurrentSongDetails; d != nil && d.ID == data.id {
			updated := *d
			updated.IsFavorite = data.favorite
			m.store.Dispatch(store.SetSongDetails{Details: &updated})
			m.sheet.SetContent(renderSheet(&updated))
		}
		if data.favorite {
			m.status = "Ajouté aux favoris"
		} else {
			m.status = "Retiré des favoris"
		}
		return m, nil

	case MsgSaved:
		data := msg.data.(saved)
		if data.err != nil {
			m.store.Dispatch(store.SetLoading{Loading: false}, store.SetError{Message: data.err.Error()})
			return m, nil
		}
		m.status = "Enregistré"
		if len(data.warnings) > 0 {
			parts := make([]string, len(data.warnings))
			for i, w := range data.warnings {
				parts[i] = w.Field + ": " + w.Message
			}
			m.status += " (" + strings.Join(parts, "; ") + ")"
		}
		m.store.Dispatch(store.SetEditing{Editing: false}, store.SelectSong{}, store.SetError{})
		return m, tea.Batch(m.loadHome(), m.fetchDetails(data.id))

	case MsgRandomArtist:
		data := msg.data.(randomArtist)
		if data.err != nil {
			m.store.Dispatch(store.SetError{Message: data.err.Error()})
			return m, nil
		}
		m.search.SetValue("")
		idx := artistIndex(m.groups(), data.artist.ID)
		m.store.Dispatch(store.SetOpenArtistIndex{Index: idx})
		m.refreshSidebar()
		m.selectArtistItem(idx)
		return m, nil

	case MsgExported:
		data := msg.data.(exported)
		if data.err != nil {
			m.store.Dispatch(store.SetError{Message: data.err.Error()})
			return m, nil
		}
		m.status = "Exporté vers " + data.path
		return m, nil

	case MsgTick:
		gen := msg.data.(int)
		if gen != m.tickGen || m.pacer == nil {
			return m, nil
		}
		if m.state.View() == store.ViewSong && m.pacer.Running() {
			pos, _ := m.pacer.Step(float64(m.sheet.Height)*lineUnits, float64(m.sheet.TotalLineCount())*lineUnits)
			m.sheet.SetYOffset(int(pos / lineUnits))
		}
		return m, tick(m.opts.Interval, gen)
	}

	return m, nil
}

func (m *Model) handleHomeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "esc":
			m.searching = false
			m.search.Blur()
			m.search.SetValue("")
			m.refreshSidebar()
			return m, nil
		case "enter":
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.refreshSidebar()
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.random):
		return m, m.fetchRandomArtist()
	case key.Matches(msg, m.keys.add):
		return m, m.startEditing(0, models.Submission{}.Normalize())
	case key.Matches(msg, m.keys.back):
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.refreshSidebar()
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		switch item := m.sidebar.SelectedItem().(type) {
		case artistItem:
			idx := item.index
			if item.open && m.search.Value() == "" {
				idx = store.NoArtist
			}
			m.store.Dispatch(store.SetOpenArtistIndex{Index: idx})
			m.refreshSidebar()
			m.selectArtistItem(item.index)
			return m, nil
		case songItem:
			sel := item.selection
			m.store.Dispatch(store.SelectSong{Selection: &sel}, store.SetLoading{Loading: true})
			return m, m.fetchDetails(item.song.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.sidebar, cmd = m.sidebar.Update(msg)
	return m, cmd
}

func (m *Model) handleSongKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.closeSheet()
		m.store.Dispatch(store.SelectSong{}, store.SetSongDetails{})
		return m, nil
	case key.Matches(msg, m.keys.scroll):
		if m.pacer != nil {
			m.pacer.Toggle()
		}
		return m, nil
	case key.Matches(msg, m.keys.faster):
		if m.pacer != nil {
			m.pacer.Faster()
		}
		return m, nil
	case key.Matches(msg, m.keys.slower):
		if m.pacer != nil {
			m.pacer.Slower()
		}
		return m, nil
	case key.Matches(msg, m.keys.reset):
		if m.pacer != nil {
			m.pacer.Reset()
		}
		m.sheet.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		if d := m.state.CurrentSongDetails; d != nil {
			return m, m.toggleFavorite(d.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.edit):
		if d := m.state.CurrentSongDetails; d != nil {
			return m, m.startEditing(d.ID, models.SubmissionFromDetails(d))
		}
		return m, nil
	case key.Matches(msg, m.keys.export):
		if d := m.state.CurrentSongDetails; d != nil {
			return m, m.export(d)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.sheet, cmd = m.sheet.Update(msg)
	if m.pacer != nil {
		m.pacer.SetPosition(float64(m.sheet.YOffset) * lineUnits)
	}
	return m, cmd
}

func (m *Model) handleEditorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.editor.Blur()
		m.store.Dispatch(store.SetEditing{Editing: false}, store.SetError{})
		return m, nil
	case key.Matches(msg, m.keys.save):
		var s models.Submission
		if err := yaml.Unmarshal([]byte(m.editor.Value()), &s); err != nil {
			m.store.Dispatch(store.SetError{Message: fmt.Sprintf("YAML invalide: %v", err)})
			return m, nil
		}
		m.store.Dispatch(store.SetLoading{Loading: true})
		return m, m.save(m.editingID, s)
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// startEditing fills the editor with s as YAML and switches to the edit view. id 0 creates a new song.
func (m *Model) startEditing(id int64, s models.Submission) tea.Cmd {
	data, err := yaml.Marshal(s)
	if err != nil {
		m.store.Dispatch(store.SetError{Message: err.Error()})
		return nil
	}
	if m.pacer != nil {
		m.pacer.Pause()
	}
	m.editingID = id
	m.editor.SetValue(string(data))
	m.store.Dispatch(store.SetEditing{Editing: true}, store.SetError{})
	return m.editor.Focus()
}

// openSheet renders details into the viewport and starts a paused pacer with its tick loop.
func (m *Model) openSheet(d *models.SongDetails) tea.Cmd {
	m.sheet.SetContent(renderSheet(d))
	m.sheet.GotoTop()

	m.pacer = scroll.New(d.Tempo)
	m.pacer.SetTolerance(m.opts.Tolerance)
	m.tickGen++
	return tick(m.opts.Interval, m.tickGen)
}

// closeSheet drops the pacer. Pending ticks of the old generation are ignored.
func (m *Model) closeSheet() {
	m.pacer = nil
	m.tickGen++
}

func (m *Model) groups() []store.ArtistGroup {
	return store.Sidebar(m.state.Artists, m.state.Songs, m.search.Value())
}

func (m *Model) refreshSidebar() {
	index := m.sidebar.Index()
	items := sidebarItems(m.groups(), m.state.OpenArtistIndex, m.search.Value() != "")
	m.sidebar.SetItems(items)
	if index >= len(items) {
		index = len(items) - 1
	}
	if index >= 0 {
		m.sidebar.Select(index)
	}
}

func (m *Model) selectArtistItem(groupIndex int) {
	for i, item := range m.sidebar.Items() {
		if a, ok := item.(artistItem); ok && a.index == groupIndex {
			m.sidebar.Select(i)
			return
		}
	}
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	sidebarWidth := max(width/3, 20)
	m.sidebar.SetSize(sidebarWidth, max(height-6, 5))
	m.search.Width = sidebarWidth - 4

	m.sheet.Width = width
	m.sheet.Height = max(height-4, 3)

	m.editor.SetWidth(max(width-2, 10))
	m.editor.SetHeight(max(height-6, 3))
}

func (m *Model) loadHome() tea.Cmd {
	return func() tea.Msg {
		home, err := services.LoadHome(m.ctx, m.svc, m.opts.Limit)
		return homeLoadedMsg(home, err)
	}
}

func (m *Model) fetchDetails(id int64) tea.Cmd {
	return func() tea.Msg {
		details, err := m.svc.SongDetails(m.ctx, id)
		return detailsLoadedMsg(id, details, err)
	}
}

func (m *Model) toggleFavorite(id int64) tea.Cmd {
	return func() tea.Msg {
		favorite, err := m.svc.ToggleFavorite(m.ctx, id)
		return favoriteToggledMsg(id, favorite, err)
	}
}

func (m *Model) fetchRandomArtist() tea.Cmd {
	return func() tea.Msg {
		artist, err := m.svc.RandomArtist(m.ctx)
		return randomArtistMsg(artist, err)
	}
}

func (m *Model) export(d *models.SongDetails) tea.Cmd {
	return func() tea.Msg {
		path, err := formatter.WriteExport(d, formatter.FormatMarkdown, "")
		return exportedMsg(path, err)
	}
}

func (m *Model) save(id int64, s models.Submission) tea.Cmd {
	return func() tea.Msg {
		warnings := s.Warnings()
		if id == 0 {
			newID, err := m.svc.CreateSong(m.ctx, s)
			return savedMsg(newID, warnings, err)
		}
		return savedMsg(id, warnings, m.svc.UpdateSong(m.ctx, id, s))
	}
}

// View renders the screen for the current store view.
func (m *Model) View() string {
	var body string
	switch m.state.View() {
	case store.ViewEditing:
		body = m.renderEditor()
	case store.ViewSong:
		body = m.renderSong()
	default:
		body = m.renderHome()
	}

	if m.state.Error != "" {
		body += "\n" + styles.err.Render("Erreur: "+m.state.Error)
	} else if m.status != "" {
		body += "\n" + styles.ok.Render(m.status)
	}
	return body
}

func (m *Model) renderHome() string {
	if m.state.IsLoading && len(m.state.Songs) == 0 {
		return styles.help.Render("Chargement...")
	}

	left := m.sidebar.View()
	if m.searching || m.search.Value() != "" {
		left = m.search.View() + "\n" + left
	}

	right := lipgloss.JoinVertical(lipgloss.Left,
		styles.panel.Render(renderSongList("Récemment ajoutées", m.recent)),
		styles.panel.Render(renderSongList("Populaires", m.popular)),
	)

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.search, m.keys.random, m.keys.add, m.keys.quit})
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right) + "\n" + helpView
}

func (m *Model) renderSong() string {
	if m.state.IsLoading || m.state.CurrentSongDetails == nil {
		return styles.help.Render("Chargement...")
	}

	status := ""
	if m.pacer != nil {
		status = pacerStatus(m.pacer.Running(), m.pacer.BPM(), m.pacer.Multiplier())
	}
	helpView := m.help.ShortHelpView([]key.Binding{
		m.keys.scroll, m.keys.faster, m.keys.slower, m.keys.reset, m.keys.favorite, m.keys.edit, m.keys.export, m.keys.back,
	})
	return fmt.Sprintf("%s\n%s  %s", m.sheet.View(), styles.warn.Render(status), helpView)
}

func (m *Model) renderEditor() string {
	title := "Nouvelle partition"
	if m.editingID != 0 {
		title = "Modifier la partition"
	}
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.save, m.keys.back})
	return fmt.Sprintf("%s\n%s\n%s", styles.title.Render(title), m.editor.View(), helpView)
}

func renderSongList(title string, songs []*models.Partition) string {
	var b strings.Builder
	b.WriteString(styles.section.Render(title) + "\n")
	if len(songs) == 0 {
		b.WriteString(styles.help.Render("Aucune chanson"))
		return b.String()
	}
	for i, s := range songs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.Label())
	}
	return b.String()
}
