package window

import (
	"reflect"
	"testing"
)

func TestNew_RejectsNonPositiveCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1, -100} {
		if _, err := New(capacity); err == nil {
			t.Errorf("New(%d) returned nil error, want capacity error", capacity)
		}
	}
}

func TestPush_EvictsOldestFirst(t *testing.T) {
	w, err := New(2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	w.Push(Point{1, 2})
	w.Push(Point{2, 4})
	w.Push(Point{3, 6})

	want := []Point{{2, 4}, {3, 6}}
	if got := w.Snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("Snapshot() = %v, want %v", got, want)
	}
}

func TestPush_BoundHoldsAfterEveryPush(t *testing.T) {
	w, err := New(5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 50; i++ {
		w.Push(Point{float64(i), float64(i * 10)})
		if w.Len() > w.Cap() {
			t.Fatalf("after push %d: Len() = %d exceeds Cap() = %d", i, w.Len(), w.Cap())
		}
		snap := w.Snapshot()
		if len(snap) != w.Len() {
			t.Fatalf("after push %d: snapshot length %d != Len() %d", i, len(snap), w.Len())
		}
		// Oldest retained sample is never older than the capacity-th
		// most recent push.
		oldest := snap[0]
		if wantOldest := float64(max(0, i-w.Cap()+1)); oldest.X != wantOldest {
			t.Fatalf("after push %d: oldest X = %v, want %v", i, oldest.X, wantOldest)
		}
	}
}

func TestPush_PreservesArrivalOrderForOutOfOrderX(t *testing.T) {
	w, err := New(4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	pts := []Point{{5, 1}, {2, 2}, {9, 3}, {1, 4}}
	for _, p := range pts {
		w.Push(p)
	}
	if got := w.Snapshot(); !reflect.DeepEqual(got, pts) {
		t.Errorf("Snapshot() = %v, want arrival order %v", got, pts)
	}
}

func TestSnapshot_CopyDoesNotAliasBuffer(t *testing.T) {
	w, err := New(3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.Push(Point{1, 1})

	snap := w.Snapshot()
	snap[0] = Point{99, 99}

	if got := w.Snapshot()[0]; got != (Point{1, 1}) {
		t.Errorf("mutating a snapshot changed the window: got %v", got)
	}
}

func TestBuffer_PerSeriesWindows(t *testing.T) {
	b, err := NewBuffer(2)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}

	b.Push("a", Point{0, 5})
	b.Push("b", Point{0, 50})
	b.Push("a", Point{1, 6})
	b.Push("b", Point{1, 60})
	b.Push("a", Point{2, 7})

	if got, want := b.Series(), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Series() = %v, want %v", got, want)
	}
	if got, want := b.Snapshot("a"), []Point{{1, 6}, {2, 7}}; !reflect.DeepEqual(got, want) {
		t.Errorf("Snapshot(a) = %v, want %v", got, want)
	}
	if got, want := b.Snapshot("b"), []Point{{0, 50}, {1, 60}}; !reflect.DeepEqual(got, want) {
		t.Errorf("Snapshot(b) = %v, want %v", got, want)
	}
	if got := b.Snapshot("missing"); got != nil {
		t.Errorf("Snapshot(missing) = %v, want nil", got)
	}
}
