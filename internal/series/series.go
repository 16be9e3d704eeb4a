// Package series maps column selections onto the (x, y) streams that get
// plotted. Selectors are resolved against the header (or bare column
// count) exactly once, when the first record arrives; after that routing
// is a fixed schema.
package series

import (
	"fmt"
	"strings"

	"github.com/wrehfeld/logscope/internal/record"
)

// RowIndex is the XCol value for series whose x axis is the running row
// sequence number rather than a file column.
const RowIndex = -1

// indexLike header names mark the first column as an explicit index or
// time field, which the default configuration adopts as the x axis.
var indexLike = map[string]bool{
	"x": true, "t": true, "time": true, "index": true,
	"idx": true, "step": true, "sample": true, "n": true,
}

// Selector identifies a column either by position or by header name.
type Selector struct {
	name    string
	index   int
	byIndex bool
}

// ParseSelector interprets a selector string: all digits means a column
// index, anything else a header name.
func ParseSelector(s string) Selector {
	s = strings.TrimSpace(s)
	if s != "" && strings.Trim(s, "0123456789") == "" {
		idx := 0
		for _, r := range s {
			idx = idx*10 + int(r-'0')
		}
		return Selector{index: idx, byIndex: true}
	}
	return Selector{name: s}
}

// ParseSelectors splits a comma-separated selector list. Empty elements
// are dropped; an empty input yields nil.
func ParseSelectors(s string) []Selector {
	var out []Selector
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		out = append(out, ParseSelector(part))
	}
	return out
}

func (s Selector) String() string {
	if s.byIndex {
		return fmt.Sprintf("%d", s.index)
	}
	return s.name
}

// Spec is the configured, not yet resolved, selector lists.
type Spec struct {
	X []Selector
	Y []Selector
}

// Series is one resolved (x, y) pair. XCol may be RowIndex.
type Series struct {
	Label string
	XName string
	YName string
	XCol  int
	YCol  int
}

// Sample is one routed point for one series.
type Sample struct {
	Series string
	X      float64
	Y      float64
}

// Resolve turns the spec into concrete series against the given header
// (nil when the capture has none) and column count. All configuration
// errors surface here, before any row is routed.
func Resolve(spec Spec, header []string, columns int) ([]Series, error) {
	xCols, err := resolveList(spec.X, "x", header, columns)
	if err != nil {
		return nil, err
	}
	yCols, err := resolveList(spec.Y, "y", header, columns)
	if err != nil {
		return nil, err
	}

	if len(xCols) == 0 {
		xCols = []int{inferX(header, columns)}
	}

	if len(yCols) == 0 {
		yCols, err = defaultY(xCols, header, columns)
		if err != nil {
			return nil, err
		}
	}

	switch {
	case len(xCols) == 1:
		// Broadcast the single x over every y.
		single := xCols[0]
		xCols = make([]int, len(yCols))
		for i := range xCols {
			xCols[i] = single
		}
	case len(xCols) != len(yCols):
		return nil, fmt.Errorf("x selectors (%d) must be a single value or match the y selectors (%d)",
			len(xCols), len(yCols))
	}

	out := make([]Series, len(yCols))
	for i := range yCols {
		s := Series{
			XName: columnName(header, xCols[i]),
			YName: columnName(header, yCols[i]),
			XCol:  xCols[i],
			YCol:  yCols[i],
		}
		if s.XCol == RowIndex {
			s.Label = s.YName
		} else {
			s.Label = fmt.Sprintf("%s vs. %s", s.YName, s.XName)
		}
		out[i] = s
	}
	return out, nil
}

// Route converts one row into samples for every resolved series. When
// any column referenced by the schema is missing from the row, the whole
// row is skipped and ok is false.
func Route(resolved []Series, row record.Row, rowIndex int) (samples []Sample, ok bool) {
	for _, s := range resolved {
		if s.XCol != RowIndex && row.Missing[s.XCol] {
			return nil, false
		}
		if row.Missing[s.YCol] {
			return nil, false
		}
	}
	samples = make([]Sample, len(resolved))
	for i, s := range resolved {
		x := float64(rowIndex)
		if s.XCol != RowIndex {
			x = row.Values[s.XCol]
		}
		samples[i] = Sample{Series: s.Label, X: x, Y: row.Values[s.YCol]}
	}
	return samples, true
}

func resolveList(sels []Selector, option string, header []string, columns int) ([]int, error) {
	out := make([]int, 0, len(sels))
	for _, sel := range sels {
		col, err := resolveOne(sel, header, columns)
		if err != nil {
			return nil, fmt.Errorf("%s selector %q: %w", option, sel, err)
		}
		out = append(out, col)
	}
	return out, nil
}

func resolveOne(sel Selector, header []string, columns int) (int, error) {
	if sel.byIndex {
		if sel.index >= columns {
			return 0, fmt.Errorf("column index out of range (file has %d columns)", columns)
		}
		return sel.index, nil
	}
	if header == nil {
		return 0, fmt.Errorf("named column requires a header line, which the file does not have")
	}
	for i, name := range header {
		if name == sel.name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("column not found in header %v", header)
}

// inferX picks the default x axis: the first column when the header
// names it like an index or time field, otherwise the row sequence.
func inferX(header []string, columns int) int {
	if len(header) > 0 && columns >= 2 && indexLike[strings.ToLower(header[0])] {
		return 0
	}
	return RowIndex
}

// defaultY picks the y columns when none are configured. With a
// row-sequence x the first column is plotted. With a column-backed x,
// exactly one other column must remain, otherwise the choice is
// ambiguous and the user has to pass -y.
func defaultY(xCols []int, header []string, columns int) ([]int, error) {
	used := make(map[int]bool, len(xCols))
	onlyRowIndex := true
	for _, c := range xCols {
		used[c] = true
		if c != RowIndex {
			onlyRowIndex = false
		}
	}
	if onlyRowIndex {
		return []int{0}, nil
	}

	var rest []int
	for c := 0; c < columns; c++ {
		if !used[c] {
			rest = append(rest, c)
		}
	}
	if len(rest) != 1 {
		return nil, fmt.Errorf("cannot pick a default y column among %d candidates, pass -y", len(rest))
	}
	return rest, nil
}

func columnName(header []string, col int) string {
	if col == RowIndex {
		return "Sample"
	}
	if col < len(header) {
		return header[col]
	}
	return fmt.Sprintf("col%d", col)
}
