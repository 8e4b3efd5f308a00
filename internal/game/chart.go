package game

import (
	"fmt"
	"math"
	"sort"

	"github.com/Sonny6155/termania/internal/timing"
)

// NoteRow is one unplaced note as a chart source describes it, before its
// beat has been resolved into song time.
type NoteRow struct {
	Key             int
	Kind            NoteKind
	Beat            float64
	MeasurePos      int
	MeasureFraction int

	// Hold and roll tails
	TailBeat            float64
	TailMeasurePos      int
	TailMeasureFraction int
}

// Chart bundles the playable lanes with the timing map that placed them.
type Chart struct {
	Columns [][]*Note // Beat-ascending, one slice per lane
	Timing  *timing.BPSLines

	// Notes whose beat sits inside a warp. They can never receive a
	// qualifying event, so they stay off the live lanes but are kept for
	// record keeping and rendering.
	Unhittable []*Note

	NoteCount int // Taps, holds and rolls
	MineCount int
}

// BuildChart resolves every row's beat through the timing map and
// assembles per-lane note sequences. Rows must be sorted by head beat so
// the lookup hint advances monotonically; a tail lookup reuses the head's
// hint since the tail beat is never earlier.
func BuildChart(bps *timing.BPSLines, lanes int, rows []NoteRow) (*Chart, error) {
	chart := &Chart{
		Columns: make([][]*Note, lanes),
		Timing:  bps,
	}

	sorted := append([]NoteRow(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Beat < sorted[j].Beat })

	hint := 0
	for _, row := range sorted {
		if row.Key < 0 || row.Key >= lanes {
			return nil, fmt.Errorf("note at beat %v uses lane %d of %d", row.Beat, row.Key, lanes)
		}

		var t float64
		t, hint = bps.TimeAtBeat(row.Beat, hint, true, false)

		var note *Note
		switch row.Kind {
		case Tap:
			note = NewTap(row.Key, t, row.Beat, row.MeasurePos, row.MeasureFraction)
			chart.NoteCount++
		case Hold, Roll:
			tailTime, _ := bps.TimeAtBeat(row.TailBeat, hint, true, false)
			if math.IsInf(tailTime, 1) {
				t = math.Inf(1)
			}
			if row.Kind == Hold {
				note = NewHold(row.Key, t, row.Beat, row.MeasurePos, row.MeasureFraction,
					tailTime, row.TailBeat, row.TailMeasurePos, row.TailMeasureFraction)
			} else {
				note = NewRoll(row.Key, t, row.Beat, row.MeasurePos, row.MeasureFraction,
					tailTime, row.TailBeat, row.TailMeasurePos, row.TailMeasureFraction)
			}
			chart.NoteCount++
		case Mine:
			note = NewMine(row.Key, t, row.Beat, row.MeasurePos, row.MeasureFraction)
			chart.MineCount++
		default:
			return nil, fmt.Errorf("unknown note kind %v at beat %v", row.Kind, row.Beat)
		}

		if math.IsInf(t, 1) {
			chart.Unhittable = append(chart.Unhittable, note)
			continue
		}
		chart.Columns[row.Key] = append(chart.Columns[row.Key], note)
	}

	return chart, nil
}
