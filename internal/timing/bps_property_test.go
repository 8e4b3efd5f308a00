package timing

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// buildChanges turns generated beat gaps and BPM values into a valid
// tempo input starting at beat 0.
func buildChanges(gaps, bpms []float64) []BPMChange {
	changes := make([]BPMChange, len(bpms))
	beat := 0.0
	for i := range bpms {
		changes[i] = BPMChange{Beat: beat, BPM: bpms[i]}
		beat += gaps[i]
	}
	return changes
}

func TestRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	// For forward-only tempo maps every song time resolves, and mapping
	// time -> beat -> time lands back where it started.
	properties.Property("time to beat and back is the identity", prop.ForAll(
		func(gaps, bpms []float64, songTime float64) bool {
			b, err := NewBPSLines(buildChanges(gaps, bpms))
			if nil != err {
				return false
			}
			beat, _ := b.BeatAtTime(songTime, 0, false, false)
			if math.IsInf(beat, 1) {
				return false
			}
			back, _ := b.TimeAtBeat(beat, 0, false, false)
			return math.Abs(back-songTime) < 1e-9
		},
		gen.SliceOfN(5, gen.Float64Range(0.25, 8)),
		gen.SliceOfN(5, gen.Float64Range(30, 300)),
		gen.Float64Range(0, 60),
	))

	properties.TestingRun(t)
}

func TestMonotonicityProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	monotonic := func(b *BPSLines) bool {
		lines := b.Lines()
		for i := 0; i+1 < len(lines); i++ {
			if lines[i+1].Time < lines[i].Time {
				return false
			}
		}
		return true
	}

	// Any mix of positive and negative BPMs regularises to segments with
	// non-decreasing start times.
	properties.Property("construction never leaves time regressions", prop.ForAll(
		func(gaps, bpms []float64, signs []bool) bool {
			for i := range bpms {
				if signs[i] && i > 0 { // First BPM stays positive to anchor t=0
					bpms[i] = -bpms[i]
				}
			}
			b, err := NewBPSLines(buildChanges(gaps, bpms))
			if nil != err {
				return false
			}
			return monotonic(b)
		},
		gen.SliceOfN(6, gen.Float64Range(0.25, 8)),
		gen.SliceOfN(6, gen.Float64Range(30, 300)),
		gen.SliceOfN(6, gen.Bool()),
	))

	// Stop insertion preserves the invariant too
	properties.Property("stop insertion never leaves time regressions", prop.ForAll(
		func(gaps, bpms []float64, stopBeat, stopDuration float64) bool {
			b, err := NewBPSLines(buildChanges(gaps, bpms))
			if nil != err {
				return false
			}
			if err := b.AddStops([]Stop{{Beat: stopBeat, Duration: stopDuration}}); nil != err {
				return false
			}
			return monotonic(b)
		},
		gen.SliceOfN(5, gen.Float64Range(0.25, 8)),
		gen.SliceOfN(5, gen.Float64Range(30, 300)),
		gen.Float64Range(0, 1), // Within the first gap, always mapped
		gen.Float64Range(0, 5),
	))

	properties.TestingRun(t)
}
