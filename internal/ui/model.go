package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"
	"github.com/ngmaloney/port-congestion/internal/congestion"
	"github.com/ngmaloney/port-congestion/internal/models"
	"github.com/ngmaloney/port-congestion/internal/watchlists"
)

// ReportService computes congestion reports for the dashboard
type ReportService interface {
	GetPortCongestion(ctx context.Context, q congestion.Query) (*models.CongestionReport, error)
}

// AppState represents the current state of the application
type AppState int

const (
	StateWatchlists AppState = iota // Pick a saved watchlist
	StateLoading                    // Computing the report
	StateDisplay                    // Showing the report
	StateError                      // Error state
)

// Tab is the report view currently shown
type Tab int

const (
	TabVessels Tab = iota
	TabWaiting
	TabLive
)

var tabNames = []string{"Vessels at port", "Waiting time", "Live"}

// Model represents the application's state
type Model struct {
	state     AppState
	activeTab Tab
	width     int
	height    int
	err       error

	service ReportService
	clock   clockwork.Clock
	query   congestion.Query
	title   string

	// Watchlists
	watchlists    []models.Watchlist
	watchlistList list.Model

	// Data
	report    *models.CongestionReport
	fetchedAt time.Time
	liveTable table.Model

	spinner spinner.Model
}

// Option configures a Model
type Option func(*Model)

// WithClock sets the clock used for the refresh timestamp
func WithClock(clock clockwork.Clock) Option {
	return func(m *Model) { m.clock = clock }
}

// WithWatchlists offers saved watchlists to pick from. The picker is shown
// first when the query has no vessel class.
func WithWatchlists(ws []models.Watchlist) Option {
	return func(m *Model) { m.watchlists = ws }
}

// WithTitle sets the header shown above the report
func WithTitle(title string) Option {
	return func(m *Model) { m.title = title }
}

// NewModel creates a new dashboard model for q
func NewModel(svc ReportService, q congestion.Query, opts ...Option) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := Model{
		state:     StateLoading,
		activeTab: TabVessels,
		service:   svc,
		clock:     clockwork.NewRealClock(),
		query:     q,
		liveTable: newLiveTable(),
		spinner:   s,
	}
	for _, opt := range opts {
		opt(&m)
	}

	if len(m.watchlists) > 0 {
		m.watchlistList = createWatchlistList(m.watchlists, 60, 20)
		if q.VesselClassID == 0 {
			m.state = StateWatchlists
		}
	}
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	if m.state == StateLoading {
		return m.load()
	}
	return nil
}

func (m Model) load() tea.Cmd {
	return tea.Batch(m.spinner.Tick, fetchReport(m.service, m.query, m.clock.Now))
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Handle window size
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		if len(m.watchlists) > 0 {
			m.watchlistList.SetSize(msg.Width-4, msg.Height-6)
		}
		m.liveTable.SetHeight(max(msg.Height-12, 5))
		return m, nil
	}

	// Handle custom messages
	switch msg := msg.(type) {
	case errMsg:
		m.err = msg.err
		m.state = StateError
		return m, nil

	case reportFetchedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("loading congestion: %w", msg.err)
			m.state = StateError
			return m, nil
		}
		m.report = msg.report
		m.fetchedAt = msg.fetchedAt
		m.liveTable.SetRows(liveRows(msg.report.Live))
		m.state = StateDisplay
		return m, nil

	case spinner.TickMsg:
		if m.state != StateLoading {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Handle keyboard input
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		filtering := m.state == StateWatchlists && m.watchlistList.FilterState() == list.Filtering
		if keyMsg.String() == "q" && !filtering {
			return m, tea.Quit
		}

		switch m.state {
		case StateWatchlists:
			return m.handleWatchlists(keyMsg)

		case StateDisplay:
			return m.handleDisplay(keyMsg)

		case StateError:
			// Any key goes back to the watchlists, or retries without them
			m.err = nil
			if len(m.watchlists) > 0 {
				m.state = StateWatchlists
				return m, nil
			}
			m.state = StateLoading
			return m, m.load()
		}
	}

	if m.state == StateWatchlists {
		m.watchlistList, cmd = m.watchlistList.Update(msg)
	}
	return m, cmd
}

// handleWatchlists handles keyboard input in the watchlist picker
func (m Model) handleWatchlists(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg.Type == tea.KeyEnter && m.watchlistList.FilterState() != list.Filtering {
		if item, ok := m.watchlistList.SelectedItem().(watchlistItem); ok {
			start := m.query.CongestionStartDate
			m.query = watchlists.Query(&item.watchlist, start)
			m.title = item.watchlist.Name
			m.report = nil
			m.activeTab = TabVessels
			m.state = StateLoading
			return m, m.load()
		}
	}

	m.watchlistList, cmd = m.watchlistList.Update(msg)
	return m, cmd
}

// handleDisplay handles keyboard input while a report is shown
func (m Model) handleDisplay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case msg.Type == tea.KeyTab:
		m.activeTab = (m.activeTab + 1) % Tab(len(tabNames))
		m.syncTableFocus()
		return m, nil
	case msg.Type == tea.KeyShiftTab:
		m.activeTab = (m.activeTab + Tab(len(tabNames)) - 1) % Tab(len(tabNames))
		m.syncTableFocus()
		return m, nil
	case msg.String() == "r":
		m.state = StateLoading
		return m, m.load()
	case msg.String() == "w" && len(m.watchlists) > 0:
		m.state = StateWatchlists
		return m, nil
	}

	if m.activeTab == TabLive {
		m.liveTable, cmd = m.liveTable.Update(msg)
	}
	return m, cmd
}

func (m *Model) syncTableFocus() {
	if m.activeTab == TabLive {
		m.liveTable.Focus()
	} else {
		m.liveTable.Blur()
	}
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.state {
	case StateWatchlists:
		return m.watchlistList.View()
	case StateLoading:
		return m.viewLoading()
	case StateDisplay:
		return m.viewDisplay()
	case StateError:
		return m.viewError()
	}

	return ""
}

func (m Model) viewLoading() string {
	status := mutedStyle.Render("Computing port congestion for " + m.describeQuery() + "...")
	return lipgloss.JoinVertical(
		lipgloss.Left,
		"",
		titleStyle.Render("⚓ Port Congestion"),
		"",
		fmt.Sprintf("%s %s", m.spinner.View(), status),
	)
}

// viewError renders the error view
func (m Model) viewError() string {
	errorMsg := "An unknown error occurred"
	if m.err != nil {
		errorMsg = m.err.Error()
	}

	help := "Press any key to retry • Q: Quit"
	if len(m.watchlists) > 0 {
		help = "Press any key to return to watchlists • Q: Quit"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		errorStyle.Render("✗ Error"),
		"",
		errorMsg,
		"",
		helpStyle.Render(help),
	)
}

// viewDisplay renders the header, tab bar and active tab
func (m Model) viewDisplay() string {
	header := "⚓ Port Congestion"
	if m.title != "" {
		header += " - " + m.title
	}

	subtitle := m.describeQuery()
	if !m.fetchedAt.IsZero() {
		subtitle += " • updated " + m.fetchedAt.UTC().Format("2006-01-02 15:04 UTC")
	}

	var body string
	switch m.activeTab {
	case TabVessels:
		body = m.renderVessels()
	case TabWaiting:
		body = m.renderWaitingTime()
	case TabLive:
		body = m.renderLive()
	}

	help := "Tab: Switch view • R: Refresh • Q: Quit"
	if len(m.watchlists) > 0 {
		help = "Tab: Switch view • R: Refresh • W: Watchlists • Q: Quit"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(header),
		mutedStyle.Render(subtitle),
		"",
		m.renderTabs(),
		paneStyle.Render(body),
		helpStyle.Render(help),
	)
}

func (m Model) renderTabs() string {
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		if Tab(i) == m.activeTab {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = tabStyle.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) describeQuery() string {
	parts := []string{fmt.Sprintf("class %d", m.query.VesselClassID)}
	if len(m.query.Ports) > 0 {
		parts = append(parts, strings.Join(m.query.Ports, ", "))
	}
	if len(m.query.Areas) > 0 {
		parts = append(parts, strings.Join(m.query.Areas, ", "))
	}
	if !m.query.CongestionStartDate.IsZero() {
		parts = append(parts, "since "+m.query.CongestionStartDate.Format("2006-01-02"))
	}
	return strings.Join(parts, " • ")
}
