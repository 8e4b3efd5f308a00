package game

import (
	"math"
	"testing"

	"github.com/Sonny6155/termania/internal/timing"
)

func warpedLines(t *testing.T) *timing.BPSLines {
	t.Helper()
	bps, err := timing.NewBPSLines([]timing.BPMChange{
		{Beat: 0, BPM: 180},
		{Beat: 6, BPM: 240},
		{Beat: 14, BPM: -180},
		{Beat: 20, BPM: 120},
	})
	if nil != err {
		t.Fatal("unable to build tempo map:", err)
	}
	return bps
}

func TestBuildChartResolvesTimings(t *testing.T) {
	chart, err := BuildChart(warpedLines(t), 2, []NoteRow{
		{Key: 0, Kind: Tap, Beat: 6, MeasurePos: 2, MeasureFraction: 4},
		{Key: 1, Kind: Tap, Beat: 26, MeasurePos: 2, MeasureFraction: 4},
	})
	if nil != err {
		t.Fatal("unable to build chart:", err)
	}

	if len(chart.Columns[0]) != 1 || math.Abs(chart.Columns[0][0].Timing-2) > 1e-9 {
		t.Errorf("lane 0 = %v, expected one note at t=2", chart.Columns[0])
	}
	if len(chart.Columns[1]) != 1 || math.Abs(chart.Columns[1][0].Timing-5) > 1e-9 {
		t.Errorf("lane 1 = %v, expected one note at t=5", chart.Columns[1])
	}
	if chart.NoteCount != 2 || chart.MineCount != 0 {
		t.Errorf("counts = %v/%v, expected 2/0", chart.NoteCount, chart.MineCount)
	}
}

func TestBuildChartKeepsWarpedNotesOffLanes(t *testing.T) {
	// Beats 14-24 only exist on the cropped negative section
	chart, err := BuildChart(warpedLines(t), 1, []NoteRow{
		{Key: 0, Kind: Tap, Beat: 6, MeasurePos: 2, MeasureFraction: 4},
		{Key: 0, Kind: Tap, Beat: 16, MeasurePos: 0, MeasureFraction: 4},
		{Key: 0, Kind: Tap, Beat: 26, MeasurePos: 2, MeasureFraction: 4},
	})
	if nil != err {
		t.Fatal("unable to build chart:", err)
	}

	if len(chart.Columns[0]) != 2 {
		t.Errorf("lane 0 has %v notes, expected the warped one dropped", len(chart.Columns[0]))
	}
	if len(chart.Unhittable) != 1 {
		t.Fatalf("unhittable = %v, expected the beat-16 note kept for the record", chart.Unhittable)
	}
	if got := chart.Unhittable[0].Beat; got != 16 {
		t.Errorf("unhittable beat = %v, expected 16", got)
	}
	if !math.IsInf(chart.Unhittable[0].Timing, 1) {
		t.Errorf("unhittable timing = %v, expected the +Inf sentinel", chart.Unhittable[0].Timing)
	}
}

func TestBuildChartHoldTail(t *testing.T) {
	chart, err := BuildChart(warpedLines(t), 1, []NoteRow{
		{Key: 0, Kind: Hold, Beat: 0, MeasurePos: 0, MeasureFraction: 4,
			TailBeat: 6, TailMeasurePos: 2, TailMeasureFraction: 4},
	})
	if nil != err {
		t.Fatal("unable to build chart:", err)
	}

	n := chart.Columns[0][0]
	if math.Abs(n.Timing-0) > 1e-9 || math.Abs(n.TailTiming-2) > 1e-9 {
		t.Errorf("hold spans %v..%v, expected 0..2", n.Timing, n.TailTiming)
	}
}

func TestBuildChartRejectsBadLane(t *testing.T) {
	_, err := BuildChart(warpedLines(t), 1, []NoteRow{
		{Key: 3, Kind: Tap, Beat: 0, MeasurePos: 0, MeasureFraction: 4},
	})
	if nil == err {
		t.Error("expected an error for an out-of-range lane")
	}
}
