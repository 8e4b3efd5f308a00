// Package timing maps musical beats to song time and back.
//
// A chart's tempo data is compiled into a piecewise linear beat-over-time
// function. Keeping time on the x axis (the reverse of StepMania's internal
// handling) lets truly negative BPMs express a rollback effect, while the
// regularisation pass guarantees displayed time never runs backward.
package timing

import (
	"errors"
	"math"
	"sort"
)

// BPMChange is one tempo marker, beat relative to the song in fixed 4/4.
type BPMChange struct {
	Beat float64
	BPM  float64
}

// Stop freezes the beat for Duration seconds starting at Beat.
// Negative durations are legal and behave like a time warp.
type Stop struct {
	Beat     float64
	Duration float64
}

// BPSLine is one segment of the piecewise function, representing
// beat = BPS*(t - Time) + Beat for t >= Time up to the next segment.
// A BPS of 0 is a stop; +Inf bridges the discontinuity left by a warp.
type BPSLine struct {
	Time float64 // Start time in seconds
	Beat float64 // Start beat
	BPS  float64 // Beats per second
}

// BPSLines is the compiled map. It is immutable once published to readers;
// NewBPSLines and AddStops are chart-load calls, not play-time calls.
type BPSLines struct {
	lines []BPSLine
}

// regularise crops out segments that negative BPS pushed backward in time
// and bridges each gap with an infinite-BPS line carrying the pre-warp
// beat, so the stored sequence is non-decreasing in start time.
func regularise(lines []BPSLine) []BPSLine {
	out := make([]BPSLine, 0, len(lines))
	i := 0
	for i < len(lines) {
		if i+1 < len(lines) && lines[i+1].Time < lines[i].Time {
			// Skip forward to the line where time would resume
			resumeTime, oldBeat := lines[i].Time, lines[i].Beat
			for i+1 < len(lines) && lines[i+1].Time < resumeTime {
				i++
			}

			// Solve the resuming line for the beat reached at resumeTime
			curr := lines[i]
			resumeBeat := curr.BPS*(resumeTime-curr.Time) + curr.Beat

			// The bridge keeps beat-to-time lookup solvable across the jump
			out = append(out,
				BPSLine{Time: resumeTime, Beat: oldBeat, BPS: math.Inf(1)},
				BPSLine{Time: resumeTime, Beat: resumeBeat, BPS: curr.BPS},
			)
			i++
		} else {
			out = append(out, lines[i])
			i++
		}
	}
	return out
}

// NewBPSLines compiles beat-indexed tempo changes, MSD style, into a
// queryable map. Beats must be strictly ascending and start at 0. Zero BPM
// is rejected since it would imply infinite dwell; use a Stop instead.
func NewBPSLines(bpmChanges []BPMChange) (*BPSLines, error) {
	if len(bpmChanges) == 0 {
		return nil, errors.New("must have at least one bpm change")
	}
	if bpmChanges[0].Beat != 0 {
		return nil, errors.New("first bpm change must start at beat 0")
	}
	for i, c := range bpmChanges {
		if c.BPM == 0 {
			return nil, errors.New("zero bpm has no duration, use a stop instead")
		}
		if i+1 < len(bpmChanges) && bpmChanges[i+1].Beat <= c.Beat {
			return nil, errors.New("bpm change beats must be strictly ascending")
		}
	}

	// Stitch end to end. The next start time comes from solving the
	// previous line, x = (y - c) / m + a, at the next start beat.
	raw := make([]BPSLine, 0, len(bpmChanges))
	raw = append(raw, BPSLine{Time: 0, Beat: 0, BPS: bpmChanges[0].BPM / 60})
	for _, c := range bpmChanges[1:] {
		prev := raw[len(raw)-1]
		raw = append(raw, BPSLine{
			Time: (c.Beat-prev.Beat)/prev.BPS + prev.Time,
			Beat: c.Beat,
			BPS:  c.BPM / 60,
		})
	}

	lines := regularise(raw)
	if len(lines) == 0 {
		return nil, errors.New("no valid bpm line")
	}
	return &BPSLines{lines: lines}, nil
}

// AddStops splices zero-BPS segments into the map, shifting every later
// segment by the running sum of stop durations, then re-regularises since
// negative stops can warp. Duplicate beats merge with the last listed
// duration winning.
func (b *BPSLines) AddStops(stops []Stop) error {
	if len(stops) == 0 {
		return nil
	}

	maxStop := math.Inf(-1)
	for _, s := range stops {
		if s.Beat > maxStop {
			maxStop = s.Beat
		}
	}
	if b.lines[len(b.lines)-1].BPS <= 0 {
		// The final segment cannot extend the beat range
		maxBeat := math.Inf(-1)
		for _, l := range b.lines {
			if l.Beat > maxBeat {
				maxBeat = l.Beat
			}
		}
		if maxStop > maxBeat {
			return errors.New("stop beats must be between 0 and the last mapped beat")
		}
	}

	merged := make(map[float64]float64, len(stops))
	for _, s := range stops {
		merged[s.Beat] = s.Duration
	}
	// Descending stack so the smallest beat pops first
	stack := make([]Stop, 0, len(merged))
	for beat, dur := range merged {
		stack = append(stack, Stop{Beat: beat, Duration: dur})
	}
	sort.Slice(stack, func(i, j int) bool { return stack[i].Beat > stack[j].Beat })

	newLines := make([]BPSLine, 0, len(b.lines)+2*len(stack))
	offset := 0.0
	for li, line := range b.lines {
		// The line itself goes in first, shifted by prior stops
		newLines = append(newLines, BPSLine{
			Time: line.Time + offset,
			Beat: line.Beat,
			BPS:  line.BPS,
		})

		endTime, endBeat := 0.0, math.Inf(1)
		if li+1 < len(b.lines) {
			endTime = b.lines[li+1].Time
			endBeat = b.lines[li+1].Beat
		}

		// Split out every stop strictly inside this line
		for len(stack) > 0 && endBeat > stack[len(stack)-1].Beat {
			s := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			splitTime := line.Time
			if !math.IsInf(line.BPS, 1) {
				splitTime = (s.Beat-line.Beat)/line.BPS + line.Time
			}

			newLines = append(newLines, BPSLine{
				Time: splitTime + offset,
				Beat: s.Beat,
				BPS:  0,
			})
			offset += s.Duration
			newLines = append(newLines, BPSLine{
				Time: splitTime + offset,
				Beat: s.Beat,
				BPS:  line.BPS,
			})
		}

		// A stop exactly on the boundary only needs the frozen bridge;
		// the next iteration appends the resumed line itself
		if len(stack) > 0 && endBeat == stack[len(stack)-1].Beat {
			newLines = append(newLines, BPSLine{
				Time: endTime + offset,
				Beat: endBeat,
				BPS:  0,
			})
			offset += stack[len(stack)-1].Duration
			stack = stack[:len(stack)-1]
		}
	}

	lines := regularise(newLines)
	if len(lines) == 0 {
		return errors.New("no valid bpm line")
	}
	b.lines = lines
	return nil
}

// BeatAtTime solves the segment containing songTime for its beat.
//
// hint is the caller's last returned segment index; queries that advance
// monotonically through the song resolve in average O(1). Hints belong to
// one logical reader and must not be shared across readers with different
// traversal orders. Out-of-range hints restart from the head.
//
// Landing on a stop or warp segment resolves only when allowStop or
// allowWarp permits it; otherwise +Inf is returned as the "not currently
// meaningful" sentinel, together with the advanced hint so the caller can
// simply retry next frame.
func (b *BPSLines) BeatAtTime(songTime float64, hint int, allowStop, allowWarp bool) (float64, int) {
	cursor := hint
	if cursor < 0 || cursor >= len(b.lines) {
		cursor = 0
	}
	// Undershoot on exact start times so warp bridges stay unselected
	for cursor+1 < len(b.lines) && b.lines[cursor+1].Time < songTime {
		cursor++
	}

	line := b.lines[cursor]
	switch {
	case line.BPS == 0:
		// A beat is definable here, but frozen
		if allowStop {
			return line.Beat, cursor
		}
		return math.Inf(1), cursor
	case math.IsInf(line.BPS, 1):
		// Only reachable with a stale hint; first solution if forced
		if allowWarp {
			return line.Beat, cursor
		}
		return math.Inf(1), cursor
	default:
		return line.BPS*(songTime-line.Time) + line.Beat, cursor
	}
}

// TimeAtBeat is the inverse lookup, indexed by start beat. Same hint and
// gating contract as BeatAtTime. A beat beyond a non-positive final
// segment is permanently unreachable and resolves to +Inf regardless of
// the gating flags.
func (b *BPSLines) TimeAtBeat(beat float64, hint int, allowStop, allowWarp bool) (float64, int) {
	cursor := hint
	if cursor < 0 || cursor >= len(b.lines) {
		cursor = 0
	}
	for cursor+1 < len(b.lines) && b.lines[cursor+1].Beat < beat {
		cursor++
	}

	line := b.lines[cursor]
	switch {
	case cursor == len(b.lines)-1 && line.BPS <= 0 && beat > line.Beat:
		return math.Inf(1), cursor
	case line.BPS == 0:
		// Only reachable with a stale hint; first solution if forced
		if allowStop {
			return line.Time, cursor
		}
		return math.Inf(1), cursor
	case math.IsInf(line.BPS, 1):
		// A time is definable on a warp, but potentially undesired
		if allowWarp {
			return line.Time, cursor
		}
		return math.Inf(1), cursor
	default:
		return (beat-line.Beat)/line.BPS + line.Time, cursor
	}
}

// Lines returns a copy of the stored segments, for rendering and tests.
func (b *BPSLines) Lines() []BPSLine {
	return append([]BPSLine(nil), b.lines...)
}
