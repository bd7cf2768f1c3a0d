// Package tui is the interactive dashboard: player bar, queue, library,
// and history over a playback session.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"github.com/tessro/groove/internal/auth"
	"github.com/tessro/groove/internal/core"
	gerrors "github.com/tessro/groove/internal/errors"
	"github.com/tessro/groove/internal/history"
	"github.com/tessro/groove/internal/music"
	"github.com/tessro/groove/internal/normalize"
	"github.com/tessro/groove/internal/tui/components"
	"github.com/tessro/groove/internal/tui/styles"
	"github.com/tessro/groove/internal/uistate"
)

// Panel represents which panel is focused
type Panel int

const (
	PanelNowPlaying Panel = iota
	PanelQueue
	PanelLibrary
	PanelHistory
	panelCount
)

var panelNames = []string{"Now Playing", "Queue", "Library", "History"}

const (
	seekStep    = 5
	volumeStep  = 0.05
	narrowWidth = 80
	errorTTL    = 5 * time.Second
	loadTimeout = 15 * time.Second
)

// Player is the session the dashboard drives.
type Player interface {
	core.Player
	Jump(i int)
	PlayTracks(tracks []core.Track, i int)
	SeekBy(delta float64)
	Subscribe(fn func(core.PlaybackState)) func()
	Flags() *uistate.Flags
}

// Catalog is where the library comes from.
type Catalog interface {
	Songs(ctx context.Context, artistID string) gerrors.Result[[]music.Record]
	Playlists(ctx context.Context) gerrors.Result[[]*music.Playlist]
	Playlist(ctx context.Context, id string) gerrors.Result[*music.Playlist]
	CreatePlaylist(ctx context.Context, in music.PlaylistInput) gerrors.Result[*music.Playlist]
}

// Account reports the signed-in user.
type Account interface {
	Current() (*auth.User, error)
}

// Recents lists play history.
type Recents interface {
	Recent(limit int) ([]history.Entry, error)
}

// SessionWatcher reports changes to the stored login.
type SessionWatcher interface {
	Watch(ctx context.Context, onChange func()) error
}

// Options wires the dashboard to its collaborators. Player and Catalog are
// required.
type Options struct {
	Player       Player
	Catalog      Catalog
	Account      Account
	History      Recents
	Watcher      SessionWatcher
	Normalizer   *normalize.Normalizer
	RefreshRate  time.Duration
	HistoryLimit int
	Theme        string
	Logger       *log.Logger
}

// App holds the collaborators shared by every model value.
type App struct {
	Options

	states  chan core.PlaybackState
	changes chan struct{}
}

// NewApp creates the application and subscribes to playback state.
func NewApp(opts Options) *App {
	if opts.Normalizer == nil {
		opts.Normalizer = normalize.Default()
	}
	if opts.RefreshRate <= 0 {
		opts.RefreshRate = time.Second
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 50
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	a := &App{
		Options: opts,
		states:  make(chan core.PlaybackState, 1),
		changes: make(chan struct{}, 1),
	}
	opts.Player.Subscribe(func(s core.PlaybackState) { offerLatest(a.states, s) })
	return a
}

// offerLatest replaces any unread value so the reader always sees the newest.
func offerLatest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Model is the main TUI model
type Model struct {
	app          *App
	width        int
	height       int
	focusedPanel Panel

	state     core.PlaybackState
	queue     core.Queue
	songs     []core.Track
	playlists []*music.Playlist
	history   []history.Entry
	user      *auth.User
	loading   bool

	nowPlaying  *components.NowPlaying
	queueView   *components.Queue
	library     *components.Library
	historyView *components.History
	spinner     spinner.Model
	searchInput textinput.Model

	form  *huh.Form
	draft *playlistDraft

	lastError   error
	errorExpiry time.Time
	notice      string

	quitting bool
}

type playlistDraft struct {
	name        string
	description string
	songs       string
}

// NewModel creates a new TUI model
func NewModel(app *App) Model {
	ti := textinput.New()
	ti.Placeholder = "Filter by title or artist..."
	ti.CharLimit = 100
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return Model{
		app:          app,
		focusedPanel: PanelLibrary,
		state:        app.Player.State(),
		queue:        app.Player.Queue(),
		nowPlaying:   components.NewNowPlaying(),
		queueView:    components.NewQueue(),
		library:      components.NewLibrary(),
		historyView:  components.NewHistory(),
		spinner:      sp,
		searchInput:  ti,
		loading:      true,
	}
}

// Messages
type tickMsg time.Time
type stateMsg core.PlaybackState
type sessionChangedMsg struct{}
type songsMsg []core.Track
type playlistsMsg []*music.Playlist
type historyMsg []history.Entry
type userMsg struct{ user *auth.User }
type errMsg struct{ err error }
type noticeMsg string
type playlistCreatedMsg struct{ playlist *music.Playlist }

// Commands
func (m Model) tick() tea.Cmd {
	return tea.Tick(m.app.RefreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) waitForState() tea.Cmd {
	states := m.app.states
	return func() tea.Msg {
		return stateMsg(<-states)
	}
}

func (m Model) waitForSessionChange() tea.Cmd {
	changes := m.app.changes
	return func() tea.Msg {
		<-changes
		return sessionChangedMsg{}
	}
}

func (m Model) fetchSongs() tea.Cmd {
	catalog, n := m.app.Catalog, m.app.Normalizer
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		res := catalog.Songs(ctx, "")
		if !res.Ok() {
			return errMsg{res.Err()}
		}
		return songsMsg(n.NormalizeAll(res.Value()))
	}
}

func (m Model) fetchPlaylists() tea.Cmd {
	catalog := m.app.Catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		res := catalog.Playlists(ctx)
		if !res.Ok() {
			return errMsg{res.Err()}
		}
		return playlistsMsg(res.Value())
	}
}

func (m Model) fetchHistory() tea.Cmd {
	recents, limit := m.app.History, m.app.HistoryLimit
	if recents == nil {
		return nil
	}
	return func() tea.Msg {
		entries, err := recents.Recent(limit)
		if err != nil {
			return errMsg{err}
		}
		return historyMsg(entries)
	}
}

func (m Model) fetchUser() tea.Cmd {
	account := m.app.Account
	if account == nil {
		return nil
	}
	return func() tea.Msg {
		user, err := account.Current()
		if err != nil {
			return errMsg{err}
		}
		return userMsg{user}
	}
}

// act runs a player action off the update loop.
func (m Model) act(fn func(p Player)) tea.Cmd {
	p := m.app.Player
	return func() tea.Msg {
		fn(p)
		return nil
	}
}

func (m Model) playPlaylist(id string) tea.Cmd {
	catalog, n, p := m.app.Catalog, m.app.Normalizer, m.app.Player
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		res := catalog.Playlist(ctx, id)
		if !res.Ok() {
			return errMsg{res.Err()}
		}
		tracks := n.NormalizeAll(res.Value().Songs)
		if len(tracks) == 0 {
			return noticeMsg("Playlist is empty")
		}
		p.PlayTracks(tracks, 0)
		return noticeMsg("Playing " + res.Value().Name)
	}
}

func (m Model) copyTrackURL() tea.Cmd {
	t := m.state.Track
	if t == nil || !t.Playable() {
		return func() tea.Msg { return noticeMsg("Nothing to copy") }
	}
	url := t.PlayableURL
	return func() tea.Msg {
		if err := clipboard.WriteAll(url); err != nil {
			return errMsg{fmt.Errorf("copy failed: %w", err)}
		}
		return noticeMsg("Copied track URL")
	}
}

func (m Model) createPlaylist(d playlistDraft) tea.Cmd {
	catalog := m.app.Catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		res := catalog.CreatePlaylist(ctx, music.PlaylistInput{
			Name:        d.name,
			Description: d.description,
			Songs:       music.SplitSongs(d.songs),
		})
		if !res.Ok() {
			return errMsg{res.Err()}
		}
		return playlistCreatedMsg{res.Value()}
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.tick(),
		m.spinner.Tick,
		m.waitForState(),
		m.waitForSessionChange(),
		m.fetchSongs(),
		m.fetchPlaylists(),
		m.fetchHistory(),
		m.fetchUser(),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form != nil {
		if cmd, handled := m.updateForm(msg); handled {
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.expireError()
		return m, m.tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stateMsg:
		prevID := trackID(m.state.Track)
		m.state = core.PlaybackState(msg)
		m.queue = m.app.Player.Queue()
		cmds := []tea.Cmd{m.waitForState()}
		if id := trackID(m.state.Track); id != prevID {
			m.queueView.Follow(m.queue.CurrentIndex)
			cmds = append(cmds, m.fetchHistory())
		}
		return m, tea.Batch(cmds...)

	case sessionChangedMsg:
		return m, tea.Batch(m.waitForSessionChange(), m.fetchUser())

	case songsMsg:
		m.loading = false
		m.songs = msg
		m.library.SetSongs(components.SongItems(m.songs))
		return m, nil

	case playlistsMsg:
		m.playlists = msg
		m.library.SetPlaylists(lo.Map(m.playlists, func(p *music.Playlist, i int) components.LibraryItem {
			return components.LibraryItem{
				ID:       p.ID,
				Title:    p.Name,
				Subtitle: fmt.Sprintf("%d songs", len(p.Songs)),
				Index:    i,
			}
		}))
		return m, nil

	case historyMsg:
		m.history = msg
		return m, nil

	case userMsg:
		m.user = msg.user
		return m, nil

	case noticeMsg:
		m.notice = string(msg)
		return m, nil

	case playlistCreatedMsg:
		m.notice = fmt.Sprintf("Created playlist %q", msg.playlist.Name)
		return m, m.fetchPlaylists()

	case errMsg:
		m.loading = false
		m.lastError = msg.err
		m.errorExpiry = time.Now().Add(errorTTL)
		m.app.Logger.Warn("dashboard error", "err", msg.err)
		return m, nil
	}

	if m.flags().IsOpen(uistate.Search) {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) expireError() {
	if m.lastError != nil && time.Now().After(m.errorExpiry) {
		m.lastError = nil
	}
}

func (m Model) flags() *uistate.Flags {
	return m.app.Player.Flags()
}

func trackID(t *core.Track) string {
	if t == nil {
		return ""
	}
	return t.ID
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	flags := m.flags()
	key := msg.String()

	if key == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if flags.IsOpen(uistate.Help) {
		switch key {
		case "?", "esc", "q":
			flags.Close(uistate.Help)
		}
		return m, nil
	}

	if flags.IsOpen(uistate.Search) {
		return m.handleSearchKeyPress(msg)
	}

	if flags.IsOpen(uistate.MobileMenu) {
		switch key {
		case "1", "2", "3", "4":
			m.focusedPanel = Panel(key[0] - '1')
			flags.Close(uistate.MobileMenu)
		case "esc", "M":
			flags.Close(uistate.MobileMenu)
		}
		return m, nil
	}

	m.notice = ""

	switch key {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "?":
		flags.Open(uistate.Help)
		return m, nil
	case "/":
		flags.Open(uistate.Search)
		m.focusedPanel = PanelLibrary
		m.searchInput.SetValue(m.library.Filter())
		m.searchInput.Focus()
		return m, textinput.Blink
	case "M":
		flags.Toggle(uistate.MobileMenu)
		return m, nil
	case "N":
		return m, m.openPlaylistForm()
	case "tab":
		m.focusedPanel = (m.focusedPanel + 1) % panelCount
		return m, nil
	case "shift+tab":
		m.focusedPanel = (m.focusedPanel + panelCount - 1) % panelCount
		return m, nil
	case "1", "2", "3", "4":
		m.focusedPanel = Panel(key[0] - '1')
		return m, nil
	case "r":
		m.loading = true
		return m, tea.Batch(m.fetchSongs(), m.fetchPlaylists(), m.fetchHistory())
	case "c":
		return m, m.copyTrackURL()
	}

	// Playback controls
	switch key {
	case " ":
		return m, m.act(func(p Player) { p.TogglePlayPause() })
	case "n":
		return m, m.act(func(p Player) { p.PlayNext() })
	case "p":
		return m, m.act(func(p Player) { p.PlayPrevious() })
	case "+", "=":
		v := min(1, m.state.Volume+volumeStep)
		return m, m.act(func(p Player) { p.SetVolume(v) })
	case "-":
		v := max(0, m.state.Volume-volumeStep)
		return m, m.act(func(p Player) { p.SetVolume(v) })
	case "m":
		return m, m.act(func(p Player) { p.ToggleMute() })
	case "left":
		return m, m.act(func(p Player) { p.SeekBy(-seekStep) })
	case "right":
		return m, m.act(func(p Player) { p.SeekBy(seekStep) })
	}

	switch m.focusedPanel {
	case PanelQueue:
		switch key {
		case "j", "down":
			m.queueView.CursorDown(m.queue.Len())
		case "k", "up":
			m.queueView.CursorUp()
		case "enter":
			i := m.queueView.Selected()
			return m, m.act(func(p Player) { p.Jump(i) })
		}
	case PanelLibrary:
		switch key {
		case "j", "down":
			m.library.CursorDown()
		case "k", "up":
			m.library.CursorUp()
		case "t":
			m.library.ToggleTab()
		case "esc":
			m.library.SetFilter("")
		case "enter":
			return m, m.playSelected()
		}
	}

	return m, nil
}

func (m Model) playSelected() tea.Cmd {
	item, ok := m.library.Selected()
	if !ok {
		return nil
	}
	if m.library.Tab() == components.TabPlaylists {
		return m.playPlaylist(item.ID)
	}
	songs, i := m.songs, item.Index
	return m.act(func(p Player) { p.PlayTracks(songs, i) })
}

func (m Model) handleSearchKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.flags().Close(uistate.Search)
		m.searchInput.Blur()
		m.library.SetFilter("")
		return m, nil
	case "enter":
		m.flags().Close(uistate.Search)
		m.searchInput.Blur()
		return m, m.playSelected()
	case "up", "ctrl+p":
		m.library.CursorUp()
		return m, nil
	case "down", "ctrl+n":
		m.library.CursorDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.library.SetFilter(strings.TrimSpace(m.searchInput.Value()))
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonLeft:
		if f, ok := m.nowPlaying.FractionAt(msg.X, msg.Y); ok {
			return m, m.act(func(p Player) { p.SeekFraction(f) })
		}
	case tea.MouseButtonWheelUp:
		if m.focusedPanel == PanelLibrary {
			m.library.CursorUp()
		}
	case tea.MouseButtonWheelDown:
		if m.focusedPanel == PanelLibrary {
			m.library.CursorDown()
		}
	}
	return m, nil
}

func (m *Model) openPlaylistForm() tea.Cmd {
	m.draft = &playlistDraft{
		songs: strings.Join(lo.Map(m.queue.Tracks, func(t core.Track, _ int) string { return t.ID }), ", "),
	}
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Playlist name").Value(&m.draft.name).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("name is required")
				}
				return nil
			}),
		huh.NewText().Title("Description").Value(&m.draft.description),
		huh.NewInput().Title("Song ids").Description("Comma separated; starts with the queue").Value(&m.draft.songs),
	)).WithWidth(60).WithShowHelp(true)
	m.flags().Open(uistate.PlaylistModal)
	return m.form.Init()
}

// updateForm routes input to the playlist form while it is open.
func (m *Model) updateForm(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			m.closeForm()
			return nil, true
		}
	case tea.WindowSizeMsg, tickMsg, stateMsg, spinner.TickMsg, errMsg, songsMsg, playlistsMsg,
		historyMsg, userMsg, sessionChangedMsg, noticeMsg, playlistCreatedMsg:
		return nil, false
	}

	f, cmd := m.form.Update(msg)
	if form, ok := f.(*huh.Form); ok {
		m.form = form
	}

	switch m.form.State {
	case huh.StateCompleted:
		draft := *m.draft
		m.closeForm()
		return m.createPlaylist(draft), true
	case huh.StateAborted:
		m.closeForm()
		return nil, true
	}
	return cmd, true
}

func (m *Model) closeForm() {
	m.form = nil
	m.draft = nil
	m.flags().Close(uistate.PlaylistModal)
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	flags := m.flags()
	if flags.IsOpen(uistate.Help) {
		return m.renderHelp()
	}
	if m.form != nil {
		return m.renderModal("New Playlist", m.form.View())
	}

	var main string
	if m.width < narrowWidth {
		main = m.renderNarrow()
	} else {
		main = m.renderWide()
	}

	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) renderWide() string {
	leftWidth := m.width * 55 / 100
	rightWidth := m.width - leftWidth
	topHeight := max(10, m.height*40/100)
	bottomHeight := max(6, m.height-topHeight-1)
	libraryHeight := max(8, (m.height-1)*60/100)
	historyHeight := max(4, m.height-1-libraryHeight)

	state := m.state
	nowPlaying := m.nowPlaying.Render(&state, 0, 0, leftWidth-2, topHeight-2, m.focusedPanel == PanelNowPlaying, m.spinner.View())
	queue := m.queue
	queueView := m.queueView.Render(&queue, leftWidth-2, bottomHeight-2, m.focusedPanel == PanelQueue)
	libraryView := m.renderLibrary(rightWidth-2, libraryHeight-2)
	historyView := m.historyView.Render(m.history, rightWidth-2, historyHeight-2, m.focusedPanel == PanelHistory)

	leftCol := lipgloss.JoinVertical(lipgloss.Left, nowPlaying, queueView)
	rightCol := lipgloss.JoinVertical(lipgloss.Left, libraryView, historyView)

	return lipgloss.JoinHorizontal(lipgloss.Top, leftCol, rightCol)
}

// renderNarrow shows one panel at a time with a menu to switch.
func (m Model) renderNarrow() string {
	header := styles.Highlight.Render("≡ "+panelNames[m.focusedPanel]) + styles.Dim.Render("  M:menu")
	if m.flags().IsOpen(uistate.MobileMenu) {
		items := make([]string, len(panelNames))
		for i, name := range panelNames {
			line := fmt.Sprintf("%d  %s", i+1, name)
			if Panel(i) == m.focusedPanel {
				line = styles.Highlight.Render(line)
			}
			items[i] = line
		}
		return lipgloss.JoinVertical(lipgloss.Left, header, styles.BorderStyle.Padding(0, 1).Render(strings.Join(items, "\n")))
	}

	width, height := m.width-2, max(6, m.height-4)
	var body string
	switch m.focusedPanel {
	case PanelNowPlaying:
		state := m.state
		body = m.nowPlaying.Render(&state, 0, 1, width, height, true, m.spinner.View())
	case PanelQueue:
		queue := m.queue
		body = m.queueView.Render(&queue, width, height, true)
	case PanelLibrary:
		body = m.renderLibrary(width, height)
	case PanelHistory:
		body = m.historyView.Render(m.history, width, height, true)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func (m Model) renderLibrary(width, height int) string {
	loading := ""
	if m.loading {
		loading = m.spinner.View() + " Loading library..."
	}
	filter := ""
	if m.flags().IsOpen(uistate.Search) {
		filter = m.searchInput.View()
	} else if q := m.library.Filter(); q != "" {
		filter = styles.Dim.Render("filter: " + q + "  (esc to clear)")
	}
	return m.library.Render(width, height, m.focusedPanel == PanelLibrary, loading, filter)
}

func (m Model) renderStatusBar() string {
	status := styles.Dim.Render("q:quit  ?:help  /:filter  space:play/pause  n/p:next/prev  ←/→:seek  tab:panel")

	switch {
	case m.lastError != nil:
		msg := gerrors.Format(m.lastError)
		status = styles.ErrorText.Render("Error: " + strings.ReplaceAll(msg, "\n", " "))
	case m.notice != "":
		status = styles.Highlight.Render(m.notice)
	}

	if m.user != nil {
		status = styles.Muted.Render(m.user.DisplayName()) + "  " + status
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

func (m Model) renderHelp() string {
	title := "Groove - Keyboard Shortcuts"
	divider := strings.Repeat("═", len(title))

	help := `
  ` + title + `
  ` + divider + `

  Global
  ──────
  q, Ctrl+C    Quit
  ?            Toggle help
  /            Filter library
  Tab          Next panel
  1-4          Focus panel
  M            Panel menu (narrow screens)
  N            New playlist
  c            Copy track URL
  r            Reload library

  Playback
  ────────
  Space        Play/Pause
  n / p        Next / previous track
  ← / →        Seek 5 seconds
  + / -        Volume up / down
  m            Mute
  Click bar    Seek

  Queue & Library
  ───────────────
  j/↓ k/↑      Move
  Enter        Play selected
  t            Songs / playlists

  Press ? or Esc to close
`

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Render(help))
}

func (m Model) renderModal(title, body string) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.Highlight.Render(title),
		"",
		body,
		styles.Dim.Render("esc to cancel"),
	)
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.FocusedBorder.Padding(1, 2).Render(content))
}

// Run starts the TUI application
func Run(opts Options) error {
	styles.ApplyTheme(opts.Theme)
	app := NewApp(opts)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if app.Watcher != nil {
		go func() {
			err := app.Watcher.Watch(ctx, func() { offerLatest(app.changes, struct{}{}) })
			if err != nil && ctx.Err() == nil {
				app.Logger.Warn("session watch stopped", "err", err)
			}
		}()
	}

	p := tea.NewProgram(NewModel(app), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
