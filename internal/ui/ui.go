package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/bookmedia/internal/formatter"
	"github.com/desertthunder/bookmedia/internal/models"
	"github.com/desertthunder/bookmedia/internal/services"
	"github.com/desertthunder/bookmedia/internal/shared"
	"github.com/desertthunder/bookmedia/internal/stats"
)

// ViewState represents the active tab in the TUI.
type ViewState int

const (
	LibraryView ViewState = iota
	PlannerView
	StatsView
	AchievementsView
)

var tabNames = []string{"Library", "Planner", "Stats", "Achievements"}

func (v ViewState) String() string { return tabNames[v] }

// progressStep is how many pages the progress key adds.
const progressStep = 10

// weekBarWidth is the width of the longest bar in the planner's week chart.
const weekBarWidth = 20

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	library   *services.Library
	planner   *services.Planner
	dashboard *services.Dashboard
	width     int
	height    int
	books     list.Model
	shelf     int
	input     textinput.Model
	logging   bool
	today     *services.TodaySummary
	week      []stats.DayActivity
	dash      *services.DashboardView
	status    string
	statusErr bool
	err       error
	help      help.Model
	keys      keyMap
}

// NewModel creates a new TUI model with the provided services.
func NewModel(ctx context.Context, library *services.Library, planner *services.Planner, dashboard *services.Dashboard) *Model {
	books := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	books.Title = shelfTitle(shelves[0])
	books.SetShowHelp(false)
	books.DisableQuitKeybindings()

	input := textinput.New()
	input.Placeholder = "minutes pages book title"
	input.CharLimit = 120

	return &Model{
		ctx:       ctx,
		view:      LibraryView,
		library:   library,
		planner:   planner,
		dashboard: dashboard,
		books:     books,
		input:     input,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init loads every tab.
func (m *Model) Init() tea.Cmd {
	return m.refresh()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.books.SetSize(max(msg.Width-4, 0), max(msg.Height-8, 0))
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateComponents(msg)
}

// View renders the active tab with the tab bar, status line and help.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	var body string
	switch m.view {
	case LibraryView:
		body = m.renderLibrary()
	case PlannerView:
		body = m.renderPlanner()
	case StatsView:
		body = m.renderStats()
	case AchievementsView:
		body = m.renderAchievements()
	}

	parts := []string{m.renderTabs(), body}
	if m.status != "" {
		if m.statusErr {
			parts = append(parts, styles.err.Render(m.status))
		} else {
			parts = append(parts, styles.ok.Render(m.status))
		}
	}
	parts = append(parts, m.help.ShortHelpView(m.helpKeys()))
	return strings.Join(parts, "\n\n")
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgShelfLoaded:
		data := msg.data.(shelfLoaded)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		if data.shelf != shelves[m.shelf] {
			return m, nil
		}
		return m, m.books.SetItems(bookItems(data.books))

	case MsgPlannerLoaded:
		data := msg.data.(plannerLoaded)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.today, m.week = data.today, data.week

	case MsgDashboardLoaded:
		data := msg.data.(dashboardLoaded)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.dash = data.view

	case MsgBookUpdated:
		data := msg.data.(bookUpdated)
		if data.err != nil {
			m.setStatus(data.err.Error(), true)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("%s: %s", data.action, data.book.Title), false)
		return m, m.refresh()

	case MsgSessionLogged:
		data := msg.data.(sessionLogged)
		if data.err != nil {
			m.setStatus(data.err.Error(), true)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Logged %s of %s", formatter.Minutes(data.session.Minutes), data.session.BookTitle), false)
		return m, m.refresh()
	}
	return m, nil
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.logging {
		return m.handleLogKeys(msg)
	}
	if m.view == LibraryView && m.books.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.books, cmd = m.books.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.nextTab):
		m.view = (m.view + 1) % ViewState(len(tabNames))
		return m, nil
	case key.Matches(msg, m.keys.prevTab):
		m.view = (m.view + ViewState(len(tabNames)) - 1) % ViewState(len(tabNames))
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		return m, m.refresh()
	}

	switch m.view {
	case LibraryView:
		return m.handleLibraryKeys(msg)
	case PlannerView:
		if key.Matches(msg, m.keys.log) {
			m.logging = true
			m.input.Reset()
			return m, m.input.Focus()
		}
	}
	return m, nil
}

func (m *Model) handleLibraryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.shelf):
		m.shelf = (m.shelf + 1) % len(shelves)
		m.books.Title = shelfTitle(shelves[m.shelf])
		return m, m.fetchShelf()

	case key.Matches(msg, m.keys.advance):
		b := m.selected()
		if b == nil {
			return m, nil
		}
		next, ok := nextStatus(b.Status)
		if !ok {
			m.setStatus(fmt.Sprintf("%s is already finished", b.Title), true)
			return m, nil
		}
		return m, m.updateBook("Moved to "+formatter.ShelfTitle(next), func(ctx context.Context) (*models.Book, error) {
			return m.library.SetStatus(ctx, b.ID, next)
		})

	case key.Matches(msg, m.keys.progress):
		b := m.selected()
		if b == nil {
			return m, nil
		}
		return m, m.updateBook("Progress saved", func(ctx context.Context) (*models.Book, error) {
			return m.library.SetProgress(ctx, b.ID, b.CurrentPage+progressStep)
		})

	case key.Matches(msg, m.keys.rate):
		b := m.selected()
		if b == nil {
			return m, nil
		}
		return m, m.updateBook("Rated", func(ctx context.Context) (*models.Book, error) {
			return m.library.Rate(ctx, b.ID, b.Rating%models.MaxRating+1)
		})
	}

	var cmd tea.Cmd
	m.books, cmd = m.books.Update(msg)
	return m, cmd
}

func (m *Model) handleLogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.logging = false
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.enter):
		m.logging = false
		m.input.Blur()
		minutes, pages, title, err := parseSessionInput(m.input.Value())
		if err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		return m, m.logSession(minutes, pages, title)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.logging:
		m.input, cmd = m.input.Update(msg)
	case m.view == LibraryView:
		m.books, cmd = m.books.Update(msg)
	}
	return m, cmd
}

func (m *Model) selected() *models.Book {
	if item, ok := m.books.SelectedItem().(bookItem); ok {
		return item.book
	}
	return nil
}

// nextStatus is the status one step along the lifecycle.
func nextStatus(s models.Status) (models.Status, bool) {
	switch s {
	case models.StatusWantToRead:
		return models.StatusReading, true
	case models.StatusReading:
		return models.StatusFinished, true
	}
	return s, false
}

// parseSessionInput reads "minutes pages title".
func parseSessionInput(s string) (minutes, pages int, title string, err error) {
	fields := strings.Fields(s)
	if len(fields) < 3 {
		return 0, 0, "", fmt.Errorf("%w: expected \"minutes pages title\"", shared.ErrInvalidInput)
	}
	if minutes, err = strconv.Atoi(fields[0]); err != nil {
		return 0, 0, "", fmt.Errorf("%w: minutes must be a number", shared.ErrInvalidInput)
	}
	if pages, err = strconv.Atoi(fields[1]); err != nil {
		return 0, 0, "", fmt.Errorf("%w: pages must be a number", shared.ErrInvalidInput)
	}
	return minutes, pages, strings.Join(fields[2:], " "), nil
}

func (m *Model) refresh() tea.Cmd {
	return tea.Batch(m.fetchShelf(), m.fetchPlanner(), m.fetchDashboard())
}

func (m *Model) fetchShelf() tea.Cmd {
	shelf := shelves[m.shelf]
	return func() tea.Msg {
		books, err := m.library.Shelf(m.ctx, shelf, "")
		return shelfLoadedMsg(shelf, books, err)
	}
}

func (m *Model) fetchPlanner() tea.Cmd {
	return func() tea.Msg {
		today, err := m.planner.Today(m.ctx)
		if err != nil {
			return plannerLoadedMsg(nil, nil, err)
		}
		week, err := m.planner.Week(m.ctx)
		return plannerLoadedMsg(today, week, err)
	}
}

func (m *Model) fetchDashboard() tea.Cmd {
	return func() tea.Msg {
		view, err := m.dashboard.Load(m.ctx)
		return dashboardLoadedMsg(view, err)
	}
}

func (m *Model) updateBook(action string, fn func(context.Context) (*models.Book, error)) tea.Cmd {
	return func() tea.Msg {
		book, err := fn(m.ctx)
		return bookUpdatedMsg(action, book, err)
	}
}

func (m *Model) logSession(minutes, pages int, title string) tea.Cmd {
	return func() tea.Msg {
		s, err := m.planner.LogSession(m.ctx, minutes, pages, title)
		return sessionLoggedMsg(s, err)
	}
}

func (m *Model) helpKeys() []key.Binding {
	switch m.view {
	case LibraryView:
		return []key.Binding{m.keys.shelf, m.keys.advance, m.keys.progress, m.keys.rate, m.keys.nextTab, m.keys.quit}
	case PlannerView:
		if m.logging {
			return []key.Binding{m.keys.enter, m.keys.back}
		}
		return []key.Binding{m.keys.log, m.keys.nextTab, m.keys.quit}
	}
	return []key.Binding{m.keys.nextTab, m.keys.prevTab, m.keys.refresh, m.keys.quit}
}

func (m *Model) renderTabs() string {
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		if ViewState(i) == m.view {
			tabs[i] = styles.activeTab.Render(name)
		} else {
			tabs[i] = styles.tab.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderLibrary() string {
	if len(m.books.Items()) == 0 {
		return fmt.Sprintf("%s\n%s", styles.title.Render(m.books.Title), styles.help.Render("No books on this shelf."))
	}
	return m.books.View()
}

func (m *Model) renderPlanner() string {
	if m.today == nil {
		return styles.help.Render("Loading…")
	}

	var b strings.Builder
	b.WriteString(styles.title.Render("Today"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s / %s  %s %d%%\n",
		formatter.Minutes(m.today.Minutes), formatter.Minutes(m.today.Goal),
		formatter.ProgressBar(m.today.Percent, weekBarWidth), m.today.Percent)
	if m.today.Complete {
		b.WriteString(styles.ok.Render("✓ Daily goal reached"))
		b.WriteString("\n")
	}
	for _, s := range m.today.Sessions {
		fmt.Fprintf(&b, "  • %s, %d pages, %s\n", formatter.Minutes(s.Minutes), s.Pages, s.BookTitle)
	}

	if len(m.week) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.title.Render("This Week"))
		b.WriteString("\n")
		peak := 0
		for _, d := range m.week {
			peak = max(peak, d.Minutes)
		}
		for _, d := range m.week {
			fmt.Fprintf(&b, "%s %-*s %s\n", d.Date.Time().Format("Mon"), weekBarWidth,
				formatter.Bar(d.Minutes, peak, weekBarWidth), formatter.Minutes(d.Minutes))
		}
	}

	if m.logging {
		b.WriteString("\n")
		b.WriteString("Log session: ")
		b.WriteString(m.input.View())
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderStats() string {
	if m.dash == nil {
		return styles.help.Render("Loading…")
	}
	return styles.title.Render("Reading Stats") + "\n" + strings.TrimRight(string(formatter.SnapshotToText(m.dash.Snapshot)), "\n")
}

func (m *Model) renderAchievements() string {
	if m.dash == nil {
		return styles.help.Render("Loading…")
	}
	return styles.title.Render("Achievements") + "\n" + strings.TrimRight(string(formatter.AchievementsToText(m.dash.Achievements)), "\n")
}
