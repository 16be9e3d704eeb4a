// Package stream drives one capture through the pipeline: poll the log
// for new lines, parse them into rows, route rows to series, and push
// samples into the per-series windows. One Tick is one full pass; the UI
// calls it on its redraw cadence.
package stream

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wrehfeld/logscope/internal/record"
	"github.com/wrehfeld/logscope/internal/series"
	"github.com/wrehfeld/logscope/internal/tail"
	"github.com/wrehfeld/logscope/internal/window"
)

// State is the engine's position in its lifecycle.
type State int

const (
	// StateIdle means no line has been parsed yet (the file may not
	// even exist).
	StateIdle State = iota
	// StateStreaming means rows are flowing.
	StateStreaming
	// StateStalled means the capture went quiet; the chart stays up.
	StateStalled
	// StateTerminated means the engine has been closed.
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "waiting"
	case StateStreaming:
		return "streaming"
	case StateStalled:
		return "stalled"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// stalledAfter is how many consecutive empty ticks turn Streaming into
// Stalled. At the default 50ms cadence this is two seconds of silence.
const stalledAfter = 40

// Stats counts what the pipeline has seen, for the status bar and for
// diagnostics.
type Stats struct {
	Lines      int
	Rows       int
	Skipped    int
	LastDataAt time.Time
}

// Engine owns the pipeline for one capture. All methods are called from
// the single render-loop goroutine; pushes and snapshots never overlap.
type Engine struct {
	src      *tail.Source
	parser   *record.Parser
	spec     series.Spec
	resolved []series.Series
	buf      *window.Buffer

	state      State
	stats      Stats
	rowIndex   int
	quietTicks int
	diagnosed  map[string]bool
	log        zerolog.Logger
}

// New creates an engine. Capacity is the per-series window size; an
// invalid capacity is a configuration error.
func New(src *tail.Source, spec series.Spec, capacity int, log zerolog.Logger) (*Engine, error) {
	buf, err := window.NewBuffer(capacity)
	if err != nil {
		return nil, err
	}
	return &Engine{
		src:       src,
		parser:    record.NewParser(),
		spec:      spec,
		buf:       buf,
		diagnosed: make(map[string]bool),
		log:       log.With().Str("component", "stream").Logger(),
	}, nil
}

// Tick runs one poll-parse-route-buffer pass and returns how many rows
// were added. The only non-nil errors are configuration errors, which
// are fatal; transient data problems are counted and logged once per
// distinct reason.
func (e *Engine) Tick() (int, error) {
	if e.state == StateTerminated {
		return 0, nil
	}

	lines, err := e.src.Poll()
	if err != nil {
		// Read errors are transient: the writer may be mid-rotation.
		e.diagnose("poll", err.Error())
		lines = nil
	}

	added := 0
	for _, line := range lines {
		e.stats.Lines++
		n, err := e.consume(line)
		if err != nil {
			e.state = StateTerminated
			return added, err
		}
		added += n
	}

	e.advanceState(added)
	return added, nil
}

func (e *Engine) consume(line string) (int, error) {
	row, outcome := e.parser.Parse(line)

	switch outcome {
	case record.OutcomeBlank:
		e.stats.Skipped++
		return 0, nil
	case record.OutcomeColumnMismatch:
		e.stats.Skipped++
		e.diagnose("schema", fmt.Sprintf("line %d: %s", e.stats.Lines, outcome))
		return 0, nil
	}

	// Header or first row: the schema is now known, resolve selectors.
	if e.resolved == nil {
		resolved, err := series.Resolve(e.spec, e.parser.Header(), e.parser.Columns())
		if err != nil {
			return 0, err
		}
		e.resolved = resolved
		e.log.Info().
			Int("columns", e.parser.Columns()).
			Strs("header", e.parser.Header()).
			Int("series", len(resolved)).
			Msg("schema established")
	}

	if outcome == record.OutcomeHeader {
		return 0, nil
	}

	samples, ok := series.Route(e.resolved, row, e.rowIndex)
	e.rowIndex++
	if !ok {
		e.stats.Skipped++
		e.diagnose("missing-field", fmt.Sprintf("line %d: required field not numeric", e.stats.Lines))
		return 0, nil
	}
	for _, s := range samples {
		e.buf.Push(s.Series, window.Point{X: s.X, Y: s.Y})
	}
	e.stats.Rows++
	return 1, nil
}

func (e *Engine) advanceState(added int) {
	if added > 0 {
		e.state = StateStreaming
		e.quietTicks = 0
		e.stats.LastDataAt = time.Now()
		return
	}
	if e.state == StateStreaming {
		e.quietTicks++
		if e.quietTicks >= stalledAfter {
			e.state = StateStalled
			e.log.Debug().Msg("capture stalled")
		}
	}
}

// diagnose logs a transient problem once per distinct kind, so a tight
// loop of malformed lines cannot flood the diagnostics.
func (e *Engine) diagnose(kind, detail string) {
	if e.diagnosed[kind] {
		return
	}
	e.diagnosed[kind] = true
	e.log.Warn().Str("kind", kind).Str("detail", detail).Msg("skipping input")
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Stats returns the running counters.
func (e *Engine) Stats() Stats {
	return e.stats
}

// Series returns the resolved series, or nil before the schema is known.
func (e *Engine) Series() []series.Series {
	return e.resolved
}

// Snapshot returns a copy of the named series' window contents.
func (e *Engine) Snapshot(label string) []window.Point {
	return e.buf.Snapshot(label)
}

// Close terminates the engine and releases the line source.
func (e *Engine) Close() error {
	e.state = StateTerminated
	return e.src.Close()
}
