package ui

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wrehfeld/logscope/internal/window"
)

// seriesView is one series' window contents as handed to the renderer.
type seriesView struct {
	label  string
	points []window.Point
}

// bounds is the data extent the chart maps onto the canvas.
type bounds struct {
	xmin, xmax float64
	ymin, ymax float64
}

// dataBounds computes the padded extent of all series. Auto-scaling is
// recomputed from scratch every redraw; nothing assumes a fixed domain.
// ok is false when no series has a finite point yet.
func dataBounds(series []seriesView, margin float64) (bounds, bool) {
	b := bounds{
		xmin: math.Inf(1), xmax: math.Inf(-1),
		ymin: math.Inf(1), ymax: math.Inf(-1),
	}
	found := false
	for _, s := range series {
		for _, p := range s.points {
			if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
				continue
			}
			found = true
			b.xmin = math.Min(b.xmin, p.X)
			b.xmax = math.Max(b.xmax, p.X)
			b.ymin = math.Min(b.ymin, p.Y)
			b.ymax = math.Max(b.ymax, p.Y)
		}
	}
	if !found {
		return bounds{}, false
	}

	// A flat series still needs a non-zero span to map onto the canvas.
	if b.xmax == b.xmin {
		b.xmin -= 0.5
		b.xmax += 0.5
	}
	if b.ymax == b.ymin {
		b.ymin -= 0.5
		b.ymax += 0.5
	}

	dx := (b.xmax - b.xmin) * margin
	dy := (b.ymax - b.ymin) * margin
	b.xmin -= dx
	b.xmax += dx
	b.ymin -= dy
	b.ymax += dy
	return b, true
}

// Braille cells pack a 2x4 dot grid; dot (dx, dy) sets one bit on top of
// the U+2800 base rune.
var brailleBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

type cell struct {
	bits   rune
	series int // index of the last series to touch the cell, -1 if none
	marker bool
}

type canvas struct {
	w, h  int // in cells
	cells []cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i].series = -1
	}
	return c
}

// setDot lights one braille dot. Coordinates are in dot space:
// [0, 2w) x [0, 4h), origin top-left.
func (c *canvas) setDot(dx, dy, series int) {
	if dx < 0 || dy < 0 || dx >= c.w*2 || dy >= c.h*4 {
		return
	}
	cl := &c.cells[(dy/4)*c.w+dx/2]
	cl.bits |= brailleBits[dy%4][dx%2]
	cl.series = series
}

// setMarker replaces a cell with the last-point marker.
func (c *canvas) setMarker(dx, dy, series int) {
	if dx < 0 || dy < 0 || dx >= c.w*2 || dy >= c.h*4 {
		return
	}
	cl := &c.cells[(dy/4)*c.w+dx/2]
	cl.series = series
	cl.marker = true
}

// line draws a segment in dot space.
func (c *canvas) line(x0, y0, x1, y1, series int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.setDot(x0, y0, series)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// yGutterWidth is the fixed width of the y-axis label column.
const yGutterWidth = 9

// renderChart draws all series into a width x height character area,
// including the y-axis gutter and one x-axis line at the bottom.
func renderChart(series []seriesView, width, height int, margin float64, th Theme) string {
	plotW := width - yGutterWidth - 1
	plotH := height - 1
	if plotW < 2 || plotH < 2 {
		return th.Muted.Render("terminal too small")
	}

	b, ok := dataBounds(series, margin)
	if !ok {
		empty := th.Muted.Render("no samples yet")
		pad := strings.Repeat("\n", plotH/2)
		return pad + strings.Repeat(" ", max(0, (width-14)/2)) + empty +
			strings.Repeat("\n", height-plotH/2-1)
	}

	c := newCanvas(plotW, plotH)
	for i, s := range series {
		plotSeries(c, s.points, b, i)
	}

	var sb strings.Builder
	for row := 0; row < plotH; row++ {
		sb.WriteString(th.Axis.Render(yLabel(b, row, plotH)))
		sb.WriteString(th.Axis.Render("│"))
		for col := 0; col < plotW; col++ {
			cl := c.cells[row*plotW+col]
			switch {
			case cl.marker:
				sb.WriteString(lipgloss.NewStyle().Foreground(th.SeriesColor(cl.series)).Render("●"))
			case cl.bits != 0:
				sb.WriteString(lipgloss.NewStyle().Foreground(th.SeriesColor(cl.series)).Render(string(rune(0x2800) | cl.bits)))
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(xAxisLine(b, width, th))
	return sb.String()
}

func plotSeries(c *canvas, points []window.Point, b bounds, idx int) {
	dotW := c.w * 2
	dotH := c.h * 4
	toDot := func(p window.Point) (int, int, bool) {
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			return 0, 0, false
		}
		x := int(math.Round((p.X - b.xmin) / (b.xmax - b.xmin) * float64(dotW-1)))
		y := int(math.Round((b.ymax - p.Y) / (b.ymax - b.ymin) * float64(dotH-1)))
		return x, y, true
	}

	var prevX, prevY int
	havePrev := false
	for _, p := range points {
		x, y, ok := toDot(p)
		if !ok {
			havePrev = false
			continue
		}
		if havePrev {
			c.line(prevX, prevY, x, y, idx)
		} else {
			c.setDot(x, y, idx)
		}
		prevX, prevY = x, y
		havePrev = true
	}
	if havePrev {
		c.setMarker(prevX, prevY, idx)
	}
}

// yLabel renders the gutter text for one row: the top and bottom rows
// carry the axis extremes, everything in between stays blank.
func yLabel(b bounds, row, rows int) string {
	var v float64
	switch row {
	case 0:
		v = b.ymax
	case rows - 1:
		v = b.ymin
	default:
		return strings.Repeat(" ", yGutterWidth)
	}
	s := formatTick(v)
	if len(s) > yGutterWidth {
		s = s[:yGutterWidth]
	}
	return strings.Repeat(" ", yGutterWidth-len(s)) + s
}

func xAxisLine(b bounds, width int, th Theme) string {
	left := formatTick(b.xmin)
	right := formatTick(b.xmax)
	gap := width - yGutterWidth - 1 - len(left) - len(right)
	if gap < 1 {
		gap = 1
	}
	return strings.Repeat(" ", yGutterWidth) +
		th.Axis.Render("└"+left+strings.Repeat("─", gap)+right)
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
