// Package record converts raw log lines into rows of named numeric fields.
package record

import (
	"strconv"
	"strings"
)

// Delimiter separates fields within a line. Quoting and escaping are not
// supported; a field containing a comma is not valid input.
const Delimiter = ","

// Row is one parsed line. Fields that failed numeric conversion (or were
// empty) carry a Missing flag; whether that skips the row is decided by
// whoever knows which columns are actually plotted.
type Row struct {
	Values  []float64
	Missing []bool
}

// Outcome classifies what a line turned out to be.
type Outcome int

const (
	// OutcomeRow means the line produced a usable Row.
	OutcomeRow Outcome = iota
	// OutcomeHeader means the line established the header; no Row.
	OutcomeHeader
	// OutcomeBlank means the line was empty or whitespace.
	OutcomeBlank
	// OutcomeColumnMismatch means the column count disagreed with the
	// established schema.
	OutcomeColumnMismatch
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRow:
		return "row"
	case OutcomeHeader:
		return "header"
	case OutcomeBlank:
		return "blank"
	case OutcomeColumnMismatch:
		return "column mismatch"
	default:
		return "unknown"
	}
}

// Parser incrementally parses lines from one capture. The first
// non-blank line fixes the header decision and the column count for the
// lifetime of the parser; neither is re-evaluated later.
type Parser struct {
	header  []string
	columns int
	started bool
}

// NewParser returns a parser with no established schema.
func NewParser() *Parser {
	return &Parser{}
}

// Header returns the detected column names, or nil when the capture had
// no header line.
func (p *Parser) Header() []string {
	return p.header
}

// Columns returns the established column count, or 0 before the first
// non-blank line.
func (p *Parser) Columns() int {
	return p.columns
}

// Parse consumes one line. The returned Row is only meaningful when the
// outcome is OutcomeRow.
func (p *Parser) Parse(line string) (Row, Outcome) {
	if strings.TrimSpace(line) == "" {
		return Row{}, OutcomeBlank
	}

	fields := strings.Split(line, Delimiter)
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}

	if !p.started {
		p.started = true
		p.columns = len(fields)
		if isHeader(fields) {
			p.header = fields
			return Row{}, OutcomeHeader
		}
		return p.row(fields), OutcomeRow
	}

	if len(fields) != p.columns {
		return Row{}, OutcomeColumnMismatch
	}
	return p.row(fields), OutcomeRow
}

func (p *Parser) row(fields []string) Row {
	r := Row{
		Values:  make([]float64, len(fields)),
		Missing: make([]bool, len(fields)),
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if f == "" || err != nil {
			r.Missing[i] = true
			continue
		}
		r.Values[i] = v
	}
	return r
}

// isHeader reports whether a first line is a header: every field fails
// numeric parsing. A single numeric field makes it a data row.
func isHeader(fields []string) bool {
	for _, f := range fields {
		if _, err := strconv.ParseFloat(f, 64); err == nil {
			return false
		}
	}
	return true
}
