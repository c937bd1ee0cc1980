// Package monitorui provides the Bubble Tea live monitor and summary interface.
package monitorui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/typecadence/internal/chart"
	"github.com/verte-zerg/typecadence/internal/config"
	"github.com/verte-zerg/typecadence/internal/model"
	"github.com/verte-zerg/typecadence/internal/series"
	window "github.com/verte-zerg/typecadence/internal/viewport"
)

const (
	tabMonitor = iota
	tabSummary
)

const (
	defaultWidth   = 80
	queryTimeout   = 2 * time.Second
	sliderStepMins = 10
)

// Querier is the read API the UI renders from.
type Querier interface {
	Series(ctx context.Context, start, end int64, res series.Resolution) (model.Series, error)
	Histogram(ctx context.Context, start, end int64, width int) (model.Histogram, error)
}

// Options configures the UI.
type Options struct {
	Refresh        time.Duration
	SummaryRefresh time.Duration
	BucketWPM      int
	// PanStep is the number of multiplier-units moved per key press.
	PanStep   int
	StatePath string
	Now       func() time.Time
	Logger    *zap.Logger
}

type tickMsg struct {
	tab int
	gen int
}

// Model implements the Bubble Tea monitor UI.
type Model struct {
	query  Querier
	ctrl   *window.Controller
	slider *window.RangeSlider
	opts   Options
	logger *zap.Logger

	keys keyMap
	help help.Model

	tabs      []string
	activeTab int
	viewports []viewport.Model
	gen       []int

	width  int
	height int

	monitor    model.Series
	monitorErr string

	histogram    model.Histogram
	summaryStart int64
	summaryEnd   int64
	summaryErr   string
}

// NewModel constructs the UI around a viewport controller.
func NewModel(q Querier, ctrl *window.Controller, opts Options) *Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Refresh <= 0 {
		opts.Refresh = 2 * time.Second
	}
	if opts.SummaryRefresh <= 0 {
		opts.SummaryRefresh = 500 * time.Millisecond
	}
	if opts.BucketWPM <= 0 {
		opts.BucketWPM = 5
	}
	if opts.PanStep <= 0 {
		opts.PanStep = 1
	}
	m := &Model{
		query:  q,
		ctrl:   ctrl,
		slider: window.NewRangeSlider(window.DefaultTrack, window.DefaultSelected),
		opts:   opts,
		logger: opts.Logger.Named("monitorui"),
		keys:   newKeyMap(),
		help:   help.New(),
		tabs:   []string{"Monitoring", "Summary"},
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.gen = make([]int, len(m.tabs))
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.refresh(m.activeTab)
	return m.schedule(m.activeTab)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.refresh(m.activeTab)
		return m, nil
	case tickMsg:
		// Ticks for a hidden tab or an older schedule are dropped, which pauses it.
		if msg.tab != m.activeTab || msg.gen != m.gen[msg.tab] {
			return m, nil
		}
		if msg.tab == tabMonitor && !m.ctrl.Tick() {
			return m, m.schedule(msg.tab)
		}
		m.refresh(msg.tab)
		return m, m.schedule(msg.tab)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextTab):
		return m, m.moveTab(1)
	case key.Matches(msg, m.keys.PrevTab):
		return m, m.moveTab(-1)
	}
	if m.activeTab == tabSummary {
		return m, m.handleSummaryKey(msg)
	}
	return m, m.handleMonitorKey(msg)
}

func (m *Model) handleMonitorKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.ctrl.Pan(-m.opts.PanStep)
	case key.Matches(msg, m.keys.Forward):
		m.ctrl.Pan(m.opts.PanStep)
	case key.Matches(msg, m.keys.Reset):
		m.ctrl.Reset()
	case key.Matches(msg, m.keys.Coarser):
		m.setResolution(m.ctrl.Resolution().Next())
	case key.Matches(msg, m.keys.Finer):
		m.setResolution(m.ctrl.Resolution().Prev())
	default:
		var cmd tea.Cmd
		m.viewports[tabMonitor], cmd = m.viewports[tabMonitor].Update(msg)
		return cmd
	}
	m.refresh(tabMonitor)
	return nil
}

func (m *Model) handleSummaryKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.slider.Shift(-sliderStepMins)
	case key.Matches(msg, m.keys.Forward):
		m.slider.Shift(sliderStepMins)
	case key.Matches(msg, m.keys.StartLeft):
		m.slider.MoveStart(-sliderStepMins)
	case key.Matches(msg, m.keys.StartRight):
		m.slider.MoveStart(sliderStepMins)
	case key.Matches(msg, m.keys.EndLeft):
		m.slider.MoveEnd(-sliderStepMins)
	case key.Matches(msg, m.keys.EndRight):
		m.slider.MoveEnd(sliderStepMins)
	case key.Matches(msg, m.keys.Reset):
		m.slider = window.NewRangeSlider(window.DefaultTrack, window.DefaultSelected)
	default:
		var cmd tea.Cmd
		m.viewports[tabSummary], cmd = m.viewports[tabSummary].Update(msg)
		return cmd
	}
	m.refresh(tabSummary)
	return nil
}

func (m *Model) setResolution(res series.Resolution) {
	if res == m.ctrl.Resolution() {
		return
	}
	m.ctrl.SetResolution(res)
	if m.opts.StatePath == "" {
		return
	}
	if err := config.SaveState(m.opts.StatePath, config.State{Multiplier: res.Multiplier()}); err != nil {
		m.logger.Warn("failed to persist resolution", zap.Error(err))
	}
}

// moveTab switches tabs. The hidden tab's timer lapses; the shown tab is
// refreshed at once and gets a fresh timer.
func (m *Model) moveTab(delta int) tea.Cmd {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	m.gen[m.activeTab]++
	if m.activeTab == tabMonitor {
		m.ctrl.Tick()
	}
	m.refresh(m.activeTab)
	return tea.Batch(tea.ClearScreen, m.schedule(m.activeTab))
}

func (m *Model) schedule(tab int) tea.Cmd {
	interval := m.opts.Refresh
	if tab == tabSummary {
		interval = m.opts.SummaryRefresh
	}
	gen := m.gen[tab]
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return tickMsg{tab: tab, gen: gen}
	})
}

func (m *Model) refresh(tab int) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	switch tab {
	case tabMonitor:
		m.refreshMonitor(ctx)
	case tabSummary:
		m.refreshSummary(ctx)
	}
	m.renderTabContents()
}

func (m *Model) refreshMonitor(ctx context.Context) {
	w := m.ctrl.Window()
	s, err := m.query.Series(ctx, w.Start, w.End, w.Resolution)
	m.monitor = s
	m.monitorErr = ""
	if err != nil {
		m.monitorErr = "Failed to load series: " + err.Error()
	}
}

func (m *Model) refreshSummary(ctx context.Context) {
	start, end := m.slider.Bounds(m.opts.Now())
	m.summaryStart, m.summaryEnd = start, end
	h, err := m.query.Histogram(ctx, start, end, m.opts.BucketWPM)
	m.histogram = h
	m.summaryErr = ""
	if err != nil && !errors.Is(err, series.ErrInsufficientData) {
		m.summaryErr = "Failed to load summary: " + err.Error()
	}
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.help.Width = m.width
	m.ctrl.SetWidth(chart.PlotWidthFor(m.width, m.monitor.AxisMax))
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}
