package game

import (
	"math"
	"sync"
)

// NoteKind is the closed set of note variants. Everything consuming a
// note switches exhaustively on this, so a new variant breaks every call
// site instead of silently misbehaving.
type NoteKind int

const (
	Tap NoteKind = iota
	Hold
	Roll
	Mine
)

func (k NoteKind) String() string {
	switch k {
	case Tap:
		return "Tap"
	case Hold:
		return "Hold"
	case Roll:
		return "Roll"
	case Mine:
		return "Mine"
	}
	return "Unknown"
}

// Note is one chart entity owning its own judgement state machine.
//
// The exported fields are immutable once constructed and safe to read
// from any thread. judgement, accuracy and lastHeld are guarded by the
// note's own lock; a judgement is written at most once, after which every
// event handler becomes a no-op. Returning None from a handler is the
// common soft-fail outcome, not an error, so callers may fire Press and
// Poll speculatively every tick.
type Note struct {
	Key             int     // Owning lane index
	Timing          float64 // Head hit time in song seconds
	Beat            float64 // Head beat, fixed 4/4
	MeasurePos      int     // 0-based position within the measure
	MeasureFraction int     // Measure subdivision, for display weighting

	Kind NoteKind

	// Hold and roll tails; zero-valued on taps and mines
	TailTiming          float64
	TailBeat            float64
	TailMeasurePos      int
	TailMeasureFraction int

	mu          sync.Mutex
	judgement   Judgement
	accuracy    float64 // Signed head deviation, -ve early, +ve late
	accuracySet bool
	lastHeld    float64 // Hold/roll decay anchor; -1 until first pressed
}

// NewTap builds a plain tap note.
func NewTap(key int, timing, beat float64, measurePos, measureFraction int) *Note {
	return &Note{
		Key:             key,
		Timing:          timing,
		Beat:            beat,
		MeasurePos:      measurePos,
		MeasureFraction: measureFraction,
		Kind:            Tap,
		lastHeld:        -1,
	}
}

// NewHold builds a hold note spanning head to tail.
func NewHold(key int, timing, beat float64, measurePos, measureFraction int,
	tailTiming, tailBeat float64, tailMeasurePos, tailMeasureFraction int) *Note {
	n := NewTap(key, timing, beat, measurePos, measureFraction)
	n.Kind = Hold
	n.TailTiming = tailTiming
	n.TailBeat = tailBeat
	n.TailMeasurePos = tailMeasurePos
	n.TailMeasureFraction = tailMeasureFraction
	return n
}

// NewRoll builds a roll note, a hold that must be repeatedly tapped.
func NewRoll(key int, timing, beat float64, measurePos, measureFraction int,
	tailTiming, tailBeat float64, tailMeasurePos, tailMeasureFraction int) *Note {
	n := NewHold(key, timing, beat, measurePos, measureFraction,
		tailTiming, tailBeat, tailMeasurePos, tailMeasureFraction)
	n.Kind = Roll
	return n
}

// NewMine builds a mine, which penalises any hit inside its window.
func NewMine(key int, timing, beat float64, measurePos, measureFraction int) *Note {
	n := NewTap(key, timing, beat, measurePos, measureFraction)
	n.Kind = Mine
	return n
}

// Press handles a discrete key-down edge at songTime.
func (n *Note) Press(songTime float64) Judgement {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.judgement != None {
		return None
	}

	switch n.Kind {
	case Tap:
		delta := songTime - n.Timing
		abs := math.Abs(delta)
		n.accuracy, n.accuracySet = delta, true
		switch {
		case abs <= MarvelousWindow:
			n.judgement = Marvelous
		case abs <= PerfectWindow:
			n.judgement = Perfect
		case abs <= GreatWindow:
			n.judgement = Great
		case abs <= GoodWindow:
			n.judgement = Good
		case abs <= BooWindow:
			n.judgement = Boo
		case delta > 0:
			n.accuracy, n.accuracySet = 0, false
			n.judgement = Miss
		default:
			// Too early, stay open for a later in-window press
			n.accuracy, n.accuracySet = 0, false
		}
		return n.judgement
	case Hold, Roll:
		// Each press keeps the note alive; accuracy records only the first
		delta := songTime - n.Timing
		if delta >= -BooWindow {
			if !n.accuracySet {
				n.accuracy, n.accuracySet = delta, true
			}
			n.lastHeld = songTime
		}
		return None
	case Mine:
		if math.Abs(songTime-n.Timing) <= MineWindow {
			n.judgement = NG
			return NG
		}
		return None
	}
	return None
}

// Release handles a discrete key-up edge. Holds and rolls score by decay
// rather than release edges, so this is a no-op on every current variant.
// Kept on the event interface for lift notes later.
func (n *Note) Release(songTime float64) Judgement {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.judgement != None {
		return None
	}
	switch n.Kind {
	case Tap, Hold, Roll, Mine:
		return None
	}
	return None
}

// Poll handles a lossy game tick at songTime, with held reporting whether
// the note's lane key is currently down.
func (n *Note) Poll(songTime float64, held bool) Judgement {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.judgement != None {
		return None
	}

	switch n.Kind {
	case Tap:
		if songTime-n.Timing > BooWindow {
			n.judgement = Miss
		}
		return n.judgement
	case Hold:
		if n.lastHeld >= 0 {
			switch {
			case songTime >= n.TailTiming:
				// Held to the end
				n.judgement = OK
			case songTime-HoldDecay > n.lastHeld:
				// Dropped midway
				n.judgement = NG
			case held && songTime-n.Timing >= -BooWindow:
				// Still down, reset the decay timer. Requiring a prior
				// press enforces a step on the hold head.
				n.lastHeld = songTime
			}
		} else if songTime-n.Timing > BooWindow {
			// Missed the head entirely
			n.judgement = Miss
		}
		return n.judgement
	case Roll:
		if n.lastHeld >= 0 {
			switch {
			case songTime >= n.TailTiming:
				n.judgement = OK
			case songTime-RollDecay > n.lastHeld:
				// Merely holding never refreshes a roll, only Press does
				n.judgement = NG
			}
		} else if songTime-n.Timing > BooWindow {
			n.judgement = Miss
		}
		return n.judgement
	case Mine:
		switch {
		case songTime-n.Timing > MineWindow:
			// Safely passed
			n.judgement = OK
		case held && math.Abs(songTime-n.Timing) <= MineWindow:
			// A key held through the window triggers it without an edge
			n.judgement = NG
		}
		return n.judgement
	}
	return None
}

// Judgement returns the terminal judgement, or None while unresolved.
func (n *Note) Judgement() Judgement {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.judgement
}

// Accuracy returns the signed head-hit deviation in seconds, and whether
// one has been recorded.
func (n *Note) Accuracy() (float64, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.accuracy, n.accuracySet
}

// LastHeld returns the decay anchor of a hold or roll, -1 if never
// pressed. Renderers use this to fade a dying hold.
func (n *Note) LastHeld() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lastHeld
}
