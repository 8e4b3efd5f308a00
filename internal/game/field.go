package game

import (
	"sort"
	"sync"
)

// Seconds of trailing song time covered by the rolling metrics.
const metricsWindow = 5.0

// Metrics is a point-in-time copy of the scoreboard for rendering; the
// live tables are never handed out.
type Metrics struct {
	Counts         map[Judgement]int
	Last           Judgement
	NotesPerSecond float64
	Accuracy       float64 // Mean signed deviation over the window
}

// Field routes input and tick events to the head note of each lane and
// aggregates judgements into a scoreboard.
//
// One lock covers the lane cursors, counts, last judgement and rolling
// metrics, since they are cross-lane shared state. Critical sections are
// bounded by lanes x notes resolved per tick and never touch I/O. Other
// threads remain free to read the underlying notes directly.
type Field struct {
	mu      sync.Mutex
	columns [][]*Note
	cursors []int

	counts      map[Judgement]int
	last        Judgement
	nps         float64
	accuracyAvg float64
}

// NewField clones each column view, sorts it by head timing and marks the
// head note of every lane as next to operate on. The notes themselves
// stay shared references.
func NewField(columns [][]*Note) *Field {
	cols := make([][]*Note, len(columns))
	for i, column := range columns {
		c := append([]*Note(nil), column...)
		sort.SliceStable(c, func(a, b int) bool { return c[a].Timing < c[b].Timing })
		cols[i] = c
	}

	counts := make(map[Judgement]int, len(Judgements))
	for _, j := range Judgements {
		counts[j] = 0
	}

	return &Field{
		columns: cols,
		cursors: make([]int, len(cols)),
		counts:  counts,
	}
}

// Lanes returns the number of input columns.
func (f *Field) Lanes() int {
	return len(f.columns)
}

// record books a resolved judgement and advances the lane cursor.
// Caller must hold the field lock.
func (f *Field) record(key int, j Judgement) {
	f.counts[j]++
	f.last = j
	f.cursors[key]++
}

// PressKey forwards a key-down edge to the lane's head note, scoring and
// advancing if it resolves.
func (f *Field) PressKey(key int, songTime float64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	column := f.columns[key]
	cursor := f.cursors[key]
	if cursor < len(column) {
		if j := column[cursor].Press(songTime); j != None {
			f.record(key, j)
		}
	}
}

// ReleaseKey forwards a key-up edge to the lane's head note.
func (f *Field) ReleaseKey(key int, songTime float64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	column := f.columns[key]
	cursor := f.cursors[key]
	if cursor < len(column) {
		if j := column[cursor].Release(songTime); j != None {
			f.record(key, j)
		}
	}
}

// Poll fires a game tick at every lane's head note, draining consecutive
// resolutions so a slow tick can settle several overdue notes at once.
// Reports true only once every lane's cursor has reached the end.
func (f *Field) Poll(songTime float64, held []bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	complete := true
	for i := range f.columns {
		for f.cursors[i] < len(f.columns[i]) {
			j := f.columns[i][f.cursors[i]].Poll(songTime, held[i])
			if j == None {
				break
			}
			f.record(i, j)
		}
		if f.cursors[i] < len(f.columns[i]) {
			complete = false
		}
	}

	f.updateMetrics(songTime)
	return complete
}

// updateMetrics recomputes the trailing-window note rate and accuracy
// mean by walking back from each cursor over resolved notes still inside
// the window. Caller must hold the field lock.
//
// The mean divides by the number of defined accuracy samples, not
// count*5; that keeps it a true per-note average in seconds.
func (f *Field) updateMetrics(songTime float64) {
	count := 0
	defined := 0
	sum := 0.0
	for i := range f.columns {
		for j := f.cursors[i] - 1; j >= 0; j-- {
			n := f.columns[i][j]
			if n.Timing < songTime-metricsWindow {
				break
			}
			count++
			if acc, ok := n.Accuracy(); ok {
				sum += acc
				defined++
			}
		}
	}

	f.nps = float64(count) / metricsWindow
	if defined > 0 {
		f.accuracyAvg = sum / float64(defined)
	} else {
		f.accuracyAvg = 0
	}
}

// Metrics snapshots the scoreboard.
func (f *Field) Metrics() Metrics {
	f.mu.Lock()
	defer f.mu.Unlock()

	counts := make(map[Judgement]int, len(f.counts))
	for j, c := range f.counts {
		counts[j] = c
	}
	return Metrics{
		Counts:         counts,
		Last:           f.last,
		NotesPerSecond: f.nps,
		Accuracy:       f.accuracyAvg,
	}
}
