package chart

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typecadence/internal/model"
)

// Histogram draws one bar group per bin with a percentage axis and bin
// centers underneath.
func Histogram(h model.Histogram, width, height int) []string {
	if len(h.Bins) == 0 {
		return []string{NoData}
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	top := 0.0
	for _, b := range h.Bins {
		top = math.Max(top, b.Percent)
	}
	top = math.Ceil(top/5) * 5
	if top <= 0 {
		top = 5
	}

	labels := []string{fmt.Sprintf("%d%%", int(top)), "", "0%"}
	labelWidth := len(labels[0])
	axisWidth := labelWidth + runewidth.StringWidth(axisSeparator)
	if width <= 0 {
		width = TerminalWidth()
	}
	group := max((width-axisWidth)/len(h.Bins), 2)
	barWidth := group - 1

	lines := []string{fmt.Sprintf("Distribution from %d to %d wpm", h.Min, h.Max)}
	for row := range height {
		level := height - 1 - row
		label := ""
		switch row {
		case 0:
			label = labels[0]
		case height - 1:
			label = labels[2]
		}
		var b strings.Builder
		b.WriteString(fmt.Sprintf("%*s%s", labelWidth, label, axisSeparator))
		for _, bin := range h.Bins {
			ch := blockFor(bin.Percent, top, level, height)
			b.WriteString(strings.Repeat(string(ch), barWidth))
			b.WriteByte(' ')
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}

	var axis strings.Builder
	axis.WriteString(strings.Repeat(" ", axisWidth))
	for _, bin := range h.Bins {
		text := strconv.Itoa(int(math.Round(bin.Center)))
		if runewidth.StringWidth(text) > barWidth {
			text = ""
		}
		axis.WriteString(runewidth.FillRight(text, group))
	}
	lines = append(lines, strings.TrimRight(axis.String(), " "))
	return lines
}

// WriteHistogram prints Histogram to w.
func WriteHistogram(w io.Writer, h model.Histogram, width, height int, forceColor bool) error {
	paint := painter(w, forceColor, color.FgGreen)
	for _, line := range Histogram(h, width, height) {
		if _, err := fmt.Fprintln(w, colorBars(line, paint)); err != nil {
			return err
		}
	}
	return nil
}
