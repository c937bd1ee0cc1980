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

const (
	defaultPlotHeight = 10
	minPlotWidth      = 10
	axisSeparator     = " │"
	// NoData is shown in place of a chart with nothing to draw.
	NoData = "No data available"
)

var blocks = []rune(" ▁▂▃▄▅▆▇█")

// PlotWidthFor returns how many bar columns fit in totalWidth next to an axis
// labelled up to axisMax.
func PlotWidthFor(totalWidth int, axisMax float64) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axisWidth := len(axisLabel(axisMax)) + runewidth.StringWidth(axisSeparator)
	return max(totalWidth-axisWidth, minPlotWidth)
}

// Bars draws each bucket mean as a vertical bar scaled to s.AxisMax. Empty
// buckets leave a gap. When there are more buckets than width, adjacent
// buckets are merged by sample-weighted mean.
func Bars(s model.Series, width, height int) []string {
	if height <= 0 {
		height = defaultPlotHeight
	}
	top := s.AxisMax
	columns := mergeBuckets(s.Buckets, width)
	if len(columns) == 0 {
		return []string{NoData}
	}
	if top <= 0 {
		for _, v := range columns {
			if !math.IsNaN(v) {
				top = math.Max(top, v)
			}
		}
	}
	if top <= 0 {
		top = 1
	}

	labels := makeAxisLabels(height, top)
	labelWidth := 0
	for _, l := range labels {
		labelWidth = max(labelWidth, len(l))
	}

	lines := make([]string, 0, height+2)
	if s.Title != "" {
		lines = append(lines, s.Title)
	}
	for row := range height {
		level := height - 1 - row
		var b strings.Builder
		b.WriteString(fmt.Sprintf("%*s%s", labelWidth, labels[row], axisSeparator))
		for _, v := range columns {
			b.WriteRune(blockFor(v, top, level, height))
		}
		lines = append(lines, b.String())
	}
	axisPad := strings.Repeat(" ", labelWidth+runewidth.StringWidth(axisSeparator))
	lines = append(lines, axisPad+labelLine(s, len(columns)))
	return lines
}

// WriteBars prints Bars to w, colouring the bars when w is a terminal.
func WriteBars(w io.Writer, s model.Series, width, height int, forceColor bool) error {
	paint := painter(w, forceColor, color.FgCyan)
	for _, line := range Bars(s, width, height) {
		if _, err := fmt.Fprintln(w, colorBars(line, paint)); err != nil {
			return err
		}
	}
	return nil
}

func colorBars(line string, paint func(a ...interface{}) string) string {
	idx := strings.Index(line, axisSeparator)
	if idx < 0 {
		return line
	}
	cut := idx + len(axisSeparator)
	return line[:cut] + paint(line[cut:])
}

func blockFor(v, top float64, level, height int) rune {
	if math.IsNaN(v) || v <= 0 {
		return blocks[0]
	}
	eighths := int(math.Round(math.Min(v/top, 1) * float64(height*8)))
	fill := eighths - level*8
	switch {
	case fill <= 0:
		return blocks[0]
	case fill >= 8:
		return blocks[8]
	default:
		return blocks[fill]
	}
}

func mergeBuckets(buckets []model.Bucket, width int) []float64 {
	if len(buckets) == 0 {
		return nil
	}
	if width <= 0 || len(buckets) <= width {
		out := make([]float64, len(buckets))
		for i, b := range buckets {
			out[i] = bucketValue(b)
		}
		return out
	}
	out := make([]float64, width)
	for i := range width {
		start := i * len(buckets) / width
		end := max((i+1)*len(buckets)/width, start+1)
		var sum float64
		count := 0
		for _, b := range buckets[start:end] {
			if b.HasValue() {
				sum += b.Mean * float64(b.Count)
				count += b.Count
			}
		}
		if count == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(count)
	}
	return out
}

func bucketValue(b model.Bucket) float64 {
	if !b.HasValue() {
		return math.NaN()
	}
	return b.Mean
}

// labelLine places each label under the column containing its position,
// skipping labels that would overlap the previous one.
func labelLine(s model.Series, columns int) string {
	if len(s.Buckets) == 0 || len(s.Labels) == 0 || columns == 0 {
		return ""
	}
	first := float64(s.Buckets[0].Start)
	last := float64(s.Buckets[len(s.Buckets)-1].End)
	if last <= first {
		return ""
	}
	perColumn := (last - first) / float64(columns)
	cells := []rune(strings.Repeat(" ", columns))
	next := 0
	for _, l := range s.Labels {
		col := int((l.Pos - first) / perColumn)
		text := []rune(l.Text)
		if col < next || col+len(text) > columns {
			continue
		}
		copy(cells[col:], text)
		next = col + len(text) + 1
	}
	return strings.TrimRight(string(cells), " ")
}

func makeAxisLabels(height int, top float64) []string {
	labels := make([]string, height)
	labels[0] = axisLabel(top)
	if height > 2 {
		labels[height/2] = axisLabel(top * float64(height-1-height/2) / float64(height-1))
	}
	if height > 1 {
		labels[height-1] = "0"
	}
	return labels
}

func axisLabel(v float64) string {
	return strconv.Itoa(int(math.Round(v)))
}
