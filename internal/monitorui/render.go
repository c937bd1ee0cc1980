package monitorui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typecadence/internal/chart"
)

const plotHeight = 12

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#3A8FC8"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#699191"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
	trackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	rangeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3AA8A8"))
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.viewports[m.activeTab].View(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(lipgloss.Height(activeNavStyle.Render("X")), 1)
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.currentErr() != "" {
		footerHeight++
	}
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) currentErr() string {
	if m.activeTab == tabSummary {
		return m.summaryErr
	}
	return m.monitorErr
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	return tabs + "\n" + headerStyle.Render(truncateLine(m.statusLine(), m.width))
}

func (m *Model) statusLine() string {
	if m.activeTab == tabSummary {
		from := time.Unix(m.summaryStart, 0).Format("Mon 15:04")
		to := time.Unix(m.summaryEnd, 0).Format("Mon 15:04")
		return fmt.Sprintf("Range: %s -> %s  bucket=%d wpm", from, to, m.opts.BucketWPM)
	}
	mode := "following now"
	if !m.ctrl.Following() {
		mode = "panned"
	}
	return fmt.Sprintf("Step size: %s  (%s)", m.ctrl.Resolution(), mode)
}

func (m *Model) renderFooter() string {
	var helpView string
	if m.activeTab == tabSummary {
		helpView = m.help.View(summaryHelp{keys: m.keys})
	} else {
		helpView = m.help.View(monitorHelp{keys: m.keys})
	}
	if err := m.currentErr(); err != "" {
		return helpView + "\n" + errorStyle.Render(truncateLine(err, m.width))
	}
	return helpView
}

func (m *Model) renderTabContents() {
	m.viewports[tabMonitor].SetContent(m.renderMonitor())
	m.viewports[tabSummary].SetContent(m.renderSummary())
}

func (m *Model) renderMonitor() string {
	lines := chart.Bars(m.monitor, chart.PlotWidthFor(m.contentWidth(), m.monitor.AxisMax), plotHeight)
	if m.monitor.Title != "" && len(lines) > 0 {
		lines[0] = titleStyle.Render(lines[0])
		copy(lines[1:], styleBars(lines[1:]))
	} else {
		lines = styleBars(lines)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderSummary() string {
	width := m.contentWidth()
	parts := []string{m.renderSlider(width), ""}
	if len(m.histogram.Bins) == 0 {
		parts = append(parts, chart.NoData)
		return strings.Join(parts, "\n")
	}
	lines := chart.Histogram(m.histogram, width, plotHeight)
	lines[0] = titleStyle.Render(lines[0])
	parts = append(parts, styleBars(lines[1:len(lines)-1])...)
	parts = append(parts, lines[len(lines)-1], "")

	rows := make([][]string, 0, len(m.histogram.Bins))
	for _, b := range m.histogram.Bins {
		rows = append(rows, []string{
			strconv.Itoa(int(b.Center+0.5)),
			fmt.Sprintf("%.1f%%", b.Percent),
			strconv.Itoa(b.Count),
		})
	}
	parts = append(parts, chart.FormatTable([]string{"WPM", "Share", "Samples"}, rows, map[int]bool{0: true, 1: true, 2: true})...)
	return strings.Join(parts, "\n")
}

// renderSlider draws the 12 hour track with the selected range highlighted.
func (m *Model) renderSlider(width int) string {
	cells := max(width-2, 10)
	start, end := m.slider.Positions()
	track := m.slider.Track()
	from := start * cells / track
	to := max(end*cells/track, from+1)

	var b strings.Builder
	b.WriteString(trackStyle.Render(strings.Repeat("─", from)))
	b.WriteString(rangeStyle.Render("┃" + strings.Repeat("━", max(to-from-2, 0)) + "┃"))
	b.WriteString(trackStyle.Render(strings.Repeat("─", max(cells-to, 0))))
	return b.String()
}

func styleBars(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		idx := strings.Index(line, "│")
		if idx < 0 {
			out[i] = line
			continue
		}
		cut := idx + len("│")
		out[i] = line[:cut] + barStyle.Render(line[cut:])
	}
	return out
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
