package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/cinelist/internal/formatter"
	"github.com/desertthunder/cinelist/internal/models"
	"github.com/desertthunder/cinelist/internal/shared"
	"github.com/desertthunder/cinelist/internal/tasks"
	"github.com/desertthunder/cinelist/internal/tmdb"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PopularView ViewState = iota
	SearchView
	FavoritesView
	DetailsView
)

func (v ViewState) String() string {
	switch v {
	case PopularView:
		return "Popular"
	case SearchView:
		return "Search"
	case FavoritesView:
		return "Favorites"
	case DetailsView:
		return "Details"
	default:
		return ""
	}
}

// prefetchThreshold is how close to the last loaded row the cursor gets before the next page is requested.
const prefetchThreshold = 3

// Favorites is the favorites list as the TUI sees it.
type Favorites interface {
	Favorites() []models.Movie
	Add(movie models.Movie)
	Remove(id int)
	IsFavorited(id int) bool
}

// Options holds the TUI's dependencies.
type Options struct {
	Catalog   tmdb.Catalog
	Favorites Favorites
	Sorter    *models.Sorter
	SortMode  models.SortMode
	ImageURL  string
	OpenURL   func(url string) error
	Logger    *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	returnTo  ViewState
	catalog   tmdb.Catalog
	favorites Favorites
	sorter    *models.Sorter
	sortMode  models.SortMode
	imageURL  string
	openURL   func(string) error
	logger    *log.Logger

	popular      *tasks.Pager
	results      *tasks.Pager
	popularList  list.Model
	searchList   list.Model
	favoriteList list.Model
	input        textinput.Model
	typing       bool
	query        string
	loading      map[ViewState]bool

	selected  *models.Movie
	status    string
	statusErr bool
	width     int
	height    int
	help      help.Model
	keys      keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts Options) *Model {
	if opts.Sorter == nil {
		opts.Sorter = models.NewSorter(models.DefaultLanguage)
	}
	if _, ok := models.ParseSortMode(string(opts.SortMode)); !ok {
		opts.SortMode = models.SortTitleAsc
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	input := textinput.New()
	input.Placeholder = "Search movies..."
	input.CharLimit = 128
	input.Width = 50

	m := &Model{
		ctx:          ctx,
		view:         PopularView,
		catalog:      opts.Catalog,
		favorites:    opts.Favorites,
		sorter:       opts.Sorter,
		sortMode:     opts.SortMode,
		imageURL:     opts.ImageURL,
		openURL:      opts.OpenURL,
		logger:       opts.Logger,
		popular:      tasks.PopularPager(opts.Catalog),
		popularList:  newMovieList("Popular Movies"),
		searchList:   newMovieList("Search Results"),
		favoriteList: newMovieList("Favorites"),
		input:        input,
		loading:      map[ViewState]bool{},
		help:         help.New(),
		keys:         newKeyMap(),
	}
	m.refreshFavorites()
	return m
}

// Init initializes the TUI by fetching the first page of popular movies.
func (m *Model) Init() tea.Cmd {
	return m.loadPage(PopularView)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range []*list.Model{&m.popularList, &m.searchList, &m.favoriteList} {
			l.SetSize(msg.Width-4, msg.Height-8)
		}
		m.searchList.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateList(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPageLoaded:
		data := msg.data.(pageLoaded)
		m.loading[data.view] = false
		if data.err != nil {
			m.logger.Error("failed to load page", "view", data.view, "err", data.err)
			m.setError(tmdb.ErrorMessage(data.err, "Failed to load movies"))
			return m, nil
		}
		cmd := m.refreshPager(data.view)
		return m, tea.Batch(cmd, m.maybePrefetch())

	case MsgDetailsLoaded:
		data := msg.data.(detailsLoaded)
		if data.err != nil {
			m.logger.Error("failed to load details", "err", data.err)
			m.setError(tmdb.ErrorMessage(data.err, "Failed to load movie details"))
			return m, nil
		}
		if m.view == DetailsView && m.selected != nil && data.movie != nil && m.selected.ID == data.movie.ID {
			m.selected = data.movie
		}
		return m, nil

	case MsgBrowserOpened:
		if err, _ := msg.data.(error); err != nil {
			m.setError(fmt.Sprintf("Could not open browser: %v", err))
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.view == SearchView && m.typing {
		return m.handleInputKeys(msg)
	}

	if l := m.activeList(); l != nil && l.FilterState() == list.Filtering {
		return m.updateList(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.next):
		return m, m.switchView()
	}

	if m.view == DetailsView {
		return m.handleDetailsKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.enter):
		if movie, ok := m.selectedItem(); ok {
			return m, m.showDetails(movie)
		}
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		if movie, ok := m.selectedItem(); ok {
			return m, m.toggleFavorite(movie)
		}
		return m, nil
	case key.Matches(msg, m.keys.open):
		if movie, ok := m.selectedItem(); ok {
			return m, m.openMovie(movie)
		}
		return m, nil
	case key.Matches(msg, m.keys.sort) && m.view == FavoritesView:
		m.sortMode = m.sortMode.Next()
		m.setStatus("Sorted by " + m.sortMode.Label())
		return m, m.refreshFavorites()
	case key.Matches(msg, m.keys.search) && m.view == SearchView:
		m.startTyping()
		return m, textinput.Blink
	}

	return m.updateList(msg)
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		query := shared.NormalizeQuery(m.input.Value())
		if query == "" {
			m.setError("Type something to search")
			return m, nil
		}
		m.query = query
		m.typing = false
		m.input.Blur()
		m.results = tasks.SearchPager(m.catalog, query)
		m.searchList.Title = fmt.Sprintf("Results for %q", query)
		m.loading[SearchView] = false
		cmd := m.searchList.SetItems(nil)
		return m, tea.Batch(cmd, m.loadPage(SearchView))
	case tea.KeyEsc:
		m.typing = false
		m.input.Blur()
		return m, nil
	case tea.KeyTab:
		m.typing = false
		m.input.Blur()
		return m, m.switchView()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.view = m.returnTo
		m.selected = nil
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		if m.selected != nil {
			return m, m.toggleFavorite(*m.selected)
		}
	case key.Matches(msg, m.keys.open):
		if m.selected != nil {
			return m, m.openMovie(*m.selected)
		}
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	l := m.activeList()
	if l == nil {
		return m, nil
	}
	var cmd tea.Cmd
	*l, cmd = l.Update(msg)
	return m, tea.Batch(cmd, m.maybePrefetch())
}

func (m *Model) activeList() *list.Model {
	switch m.view {
	case PopularView:
		return &m.popularList
	case SearchView:
		return &m.searchList
	case FavoritesView:
		return &m.favoriteList
	default:
		return nil
	}
}

func (m *Model) pagerFor(view ViewState) *tasks.Pager {
	switch view {
	case PopularView:
		return m.popular
	case SearchView:
		return m.results
	default:
		return nil
	}
}

func (m *Model) selectedItem() (models.Movie, bool) {
	l := m.activeList()
	if l == nil {
		return models.Movie{}, false
	}
	item, ok := l.SelectedItem().(movieItem)
	return item.movie, ok
}

func (m *Model) switchView() tea.Cmd {
	from := m.view
	if from == DetailsView {
		from = m.returnTo
		m.selected = nil
	}

	switch from {
	case PopularView:
		m.view = SearchView
		if m.query == "" {
			m.startTyping()
			return textinput.Blink
		}
	case SearchView:
		m.view = FavoritesView
		return m.refreshFavorites()
	default:
		m.view = PopularView
	}
	return nil
}

func (m *Model) startTyping() {
	m.typing = true
	m.input.SetValue(m.query)
	m.input.CursorEnd()
	m.input.Focus()
}

// loadPage requests the next page for view unless one is in flight or the listing is complete.
func (m *Model) loadPage(view ViewState) tea.Cmd {
	pager := m.pagerFor(view)
	if pager == nil || !pager.HasMore() || m.loading[view] {
		return nil
	}
	m.loading[view] = true

	ctx := m.ctx
	return func() tea.Msg {
		added, err := pager.Next(ctx, nil)
		return pageLoadedMsg(view, added, err)
	}
}

// maybePrefetch requests the next page once the cursor is near the last loaded row.
func (m *Model) maybePrefetch() tea.Cmd {
	l := m.activeList()
	if l == nil || m.pagerFor(m.view) == nil {
		return nil
	}
	if n := len(l.Items()); n == 0 || l.Index() < n-prefetchThreshold {
		return nil
	}
	return m.loadPage(m.view)
}

func (m *Model) toItems(movies []models.Movie) []list.Item {
	items := make([]list.Item, len(movies))
	for i, movie := range movies {
		items[i] = movieItem{movie: movie, favorite: m.favorites.IsFavorited(movie.ID)}
	}
	return items
}

func (m *Model) refreshPager(view ViewState) tea.Cmd {
	pager := m.pagerFor(view)
	l := m.listFor(view)
	if pager == nil || l == nil {
		return nil
	}
	return l.SetItems(m.toItems(pager.Movies()))
}

func (m *Model) listFor(view ViewState) *list.Model {
	switch view {
	case PopularView:
		return &m.popularList
	case SearchView:
		return &m.searchList
	case FavoritesView:
		return &m.favoriteList
	default:
		return nil
	}
}

func (m *Model) refreshFavorites() tea.Cmd {
	sorted := m.sorter.Sort(m.favorites.Favorites(), m.sortMode)
	m.favoriteList.Title = fmt.Sprintf("Favorites (%d) · %s", len(sorted), m.sortMode.Label())
	return m.favoriteList.SetItems(m.toItems(sorted))
}

// toggleFavorite adds or removes movie and refreshes every list's markers.
func (m *Model) toggleFavorite(movie models.Movie) tea.Cmd {
	if m.favorites.IsFavorited(movie.ID) {
		m.favorites.Remove(movie.ID)
		m.setStatus(fmt.Sprintf("Removed %s from favorites", movie.Title))
	} else {
		m.favorites.Add(movie)
		m.setStatus(fmt.Sprintf("Added %s to favorites", movie.Title))
	}

	return tea.Batch(
		m.refreshPager(PopularView),
		m.refreshPager(SearchView),
		m.refreshFavorites(),
	)
}

func (m *Model) showDetails(movie models.Movie) tea.Cmd {
	m.returnTo = m.view
	m.view = DetailsView
	m.selected = &movie

	catalog, ctx, id := m.catalog, m.ctx, movie.ID
	return func() tea.Msg {
		details, err := catalog.Details(ctx, id)
		return detailsLoadedMsg(details, err)
	}
}

func (m *Model) openMovie(movie models.Movie) tea.Cmd {
	url := tmdb.MovieURL(movie.ID)
	open := m.openURL
	m.setStatus("Opening " + url)
	return func() tea.Msg {
		return browserOpenedMsg(open(url))
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case PopularView:
		body = m.renderList(&m.popularList, PopularView)
	case SearchView:
		body = m.renderSearch()
	case FavoritesView:
		body = m.renderFavorites()
	case DetailsView:
		body = m.renderDetails()
	}

	return fmt.Sprintf("%s\n%s\n%s\n%s", m.renderTabs(), body, m.renderStatus(), m.renderHelp())
}

func (m *Model) renderTabs() string {
	current := m.view
	if current == DetailsView {
		current = m.returnTo
	}

	tabs := make([]string, 0, 3)
	for _, v := range []ViewState{PopularView, SearchView, FavoritesView} {
		if v == current {
			tabs = append(tabs, styles.ok.Render("["+v.String()+"]"))
		} else {
			tabs = append(tabs, styles.help.Render(" "+v.String()+" "))
		}
	}
	return strings.Join(tabs, " ")
}

func (m *Model) renderList(l *list.Model, view ViewState) string {
	if len(l.Items()) == 0 {
		if m.loading[view] {
			return "\nLoading...\n"
		}
		return "\nNothing here yet.\n"
	}
	out := l.View()
	if m.loading[view] {
		out += "\n" + styles.help.Render("Loading more...")
	}
	return out
}

func (m *Model) renderSearch() string {
	input := m.input.View()
	if m.query == "" && !m.loading[SearchView] {
		return fmt.Sprintf("\n%s\n\n%s\n", input, styles.help.Render("Type a title and press enter"))
	}
	return fmt.Sprintf("\n%s\n%s", input, m.renderList(&m.searchList, SearchView))
}

func (m *Model) renderFavorites() string {
	if len(m.favoriteList.Items()) == 0 {
		return "\n" + styles.help.Render("No favorites yet. Press f on any movie to add it.") + "\n"
	}
	return m.favoriteList.View()
}

func (m *Model) renderDetails() string {
	if m.selected == nil {
		return "\nLoading...\n"
	}
	movie := m.selected

	var b strings.Builder
	title := movie.Title
	if year := movie.Year(); year != "" {
		title = fmt.Sprintf("%s (%s)", title, year)
	}
	if m.favorites.IsFavorited(movie.ID) {
		title = styles.star.Render("★") + " " + title
	}
	b.WriteString(styles.title.Render(title))
	b.WriteString("\n")

	row := func(label, value string) {
		if value != "" {
			b.WriteString(fmt.Sprintf("%s %s\n", styles.label.Render(label+":"), value))
		}
	}
	if movie.OriginalTitle != movie.Title {
		row("Original title", movie.OriginalTitle)
	}
	row("Rating", fmt.Sprintf("%s (%s votes)", movie.Rating(), formatter.Votes(movie.VoteCount)))
	row("Release date", movie.ReleaseDate)
	row("Genres", strings.Join(movie.GenreNames(), ", "))
	row("Language", movie.OriginalLanguage)
	row("Poster", tmdb.ImageURL(m.imageURL, movie.Poster()))

	if movie.Overview != "" {
		width := max(m.width-4, 40)
		b.WriteString("\n")
		b.WriteString(NewStyle("#FFFFFF").Width(width).Render(movie.Overview))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return styles.err.Render(m.status)
	}
	return styles.ok.Render(m.status)
}

func (m *Model) renderHelp() string {
	var keys []key.Binding
	switch m.view {
	case DetailsView:
		keys = []key.Binding{m.keys.favorite, m.keys.open, m.keys.back, m.keys.quit}
	case FavoritesView:
		keys = []key.Binding{m.keys.enter, m.keys.favorite, m.keys.sort, m.keys.next, m.keys.quit}
	case SearchView:
		keys = []key.Binding{m.keys.enter, m.keys.favorite, m.keys.search, m.keys.next, m.keys.quit}
	default:
		keys = []key.Binding{m.keys.enter, m.keys.favorite, m.keys.open, m.keys.next, m.keys.quit}
	}
	return m.help.ShortHelpView(keys)
}

// Run starts the TUI and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(NewModel(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
