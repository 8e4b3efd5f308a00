// Package testdata ships a small built-in chart used by package tests
// and the autoplay driver.
package testdata

import (
	"github.com/Sonny6155/termania/internal/game"
	"github.com/Sonny6155/termania/internal/timing"
)

// GetChart builds a 4-lane chart with a tempo change, a mid-chart stop,
// and at least one of every note variant.
func GetChart() (*game.Chart, error) {
	bps, err := timing.NewBPSLines([]timing.BPMChange{
		{Beat: 0, BPM: 120},
		{Beat: 16, BPM: 150},
	})
	if nil != err {
		return nil, err
	}
	if err := bps.AddStops([]timing.Stop{{Beat: 8, Duration: 0.5}}); nil != err {
		return nil, err
	}

	rows := []game.NoteRow{
		{Key: 0, Kind: game.Tap, Beat: 0, MeasurePos: 0, MeasureFraction: 4},
		{Key: 1, Kind: game.Tap, Beat: 1, MeasurePos: 1, MeasureFraction: 4},
		{Key: 2, Kind: game.Tap, Beat: 2, MeasurePos: 2, MeasureFraction: 4},
		{Key: 3, Kind: game.Tap, Beat: 3, MeasurePos: 3, MeasureFraction: 4},

		{Key: 0, Kind: game.Hold, Beat: 4, MeasurePos: 0, MeasureFraction: 4,
			TailBeat: 6, TailMeasurePos: 2, TailMeasureFraction: 4},
		{Key: 2, Kind: game.Tap, Beat: 5, MeasurePos: 1, MeasureFraction: 4},
		{Key: 3, Kind: game.Tap, Beat: 7, MeasurePos: 3, MeasureFraction: 4},

		{Key: 1, Kind: game.Roll, Beat: 8, MeasurePos: 0, MeasureFraction: 4,
			TailBeat: 10, TailMeasurePos: 2, TailMeasureFraction: 4},
		{Key: 3, Kind: game.Tap, Beat: 9, MeasurePos: 1, MeasureFraction: 4},

		{Key: 2, Kind: game.Mine, Beat: 12, MeasurePos: 0, MeasureFraction: 4},
		{Key: 0, Kind: game.Tap, Beat: 13, MeasurePos: 1, MeasureFraction: 4},
		{Key: 1, Kind: game.Tap, Beat: 14, MeasurePos: 2, MeasureFraction: 4},
		{Key: 3, Kind: game.Tap, Beat: 15, MeasurePos: 3, MeasureFraction: 4},

		{Key: 0, Kind: game.Tap, Beat: 16, MeasurePos: 0, MeasureFraction: 4},
		{Key: 2, Kind: game.Tap, Beat: 18, MeasurePos: 2, MeasureFraction: 4},
	}

	return game.BuildChart(bps, 4, rows)
}
