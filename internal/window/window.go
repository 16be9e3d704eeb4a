// Package window provides the bounded per-series sample buffers. Each
// series keeps only its most recent points; arrival order drives
// eviction, so out-of-order x values from the device are preserved as
// received.
package window

import "fmt"

// Point is a single (x, y) sample.
type Point struct {
	X float64
	Y float64
}

// Window is a fixed-capacity ring of the most recent points for one
// series. Eviction is strictly by arrival order, not by x value.
type Window struct {
	buf   []Point
	start int
	count int
}

// New creates a window holding at most capacity points.
func New(capacity int) (*Window, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("window capacity must be positive, got %d", capacity)
	}
	return &Window{buf: make([]Point, capacity)}, nil
}

// Push appends a point, evicting the oldest when full.
func (w *Window) Push(p Point) {
	if w.count == len(w.buf) {
		w.buf[w.start] = p
		w.start = (w.start + 1) % len(w.buf)
		return
	}
	w.buf[(w.start+w.count)%len(w.buf)] = p
	w.count++
}

// Len returns the number of points currently held.
func (w *Window) Len() int {
	return w.count
}

// Cap returns the window capacity.
func (w *Window) Cap() int {
	return len(w.buf)
}

// Snapshot returns a copy of the contents in oldest-to-newest order.
func (w *Window) Snapshot() []Point {
	if w.count == 0 {
		return nil
	}
	out := make([]Point, w.count)
	for i := 0; i < w.count; i++ {
		out[i] = w.buf[(w.start+i)%len(w.buf)]
	}
	return out
}

// Buffer holds one window per series, keyed by series label, preserving
// the order in which series were registered.
type Buffer struct {
	capacity int
	order    []string
	windows  map[string]*Window
}

// NewBuffer creates an empty buffer whose windows all share capacity.
func NewBuffer(capacity int) (*Buffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("window capacity must be positive, got %d", capacity)
	}
	return &Buffer{capacity: capacity, windows: make(map[string]*Window)}, nil
}

// Push adds a point to the named series, creating its window on first use.
func (b *Buffer) Push(series string, p Point) {
	w, ok := b.windows[series]
	if !ok {
		w, _ = New(b.capacity)
		b.windows[series] = w
		b.order = append(b.order, series)
	}
	w.Push(p)
}

// Series returns the registered series labels in registration order.
func (b *Buffer) Series() []string {
	return append([]string(nil), b.order...)
}

// Snapshot returns a copy of the named series' window contents, or nil
// if the series has never received a point.
func (b *Buffer) Snapshot(series string) []Point {
	w, ok := b.windows[series]
	if !ok {
		return nil
	}
	return w.Snapshot()
}
