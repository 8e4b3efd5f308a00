package score

import (
	"github.com/Sonny6155/termania/internal/game"
)

// Scorer persists finished session results keyed by chart identity.
type Scorer interface {
	Init() error
	Deinit()

	// Save the outcome of this performance
	Save(chart *game.Chart, result *Result)

	// Load up previous results for the chart
	Load(chart *game.Chart) []Result
}

// Result is one session's aggregate outcome.
type Result struct {
	Sum    string
	Counts map[game.Judgement]int
	Mean   float64 // Mean signed head accuracy, seconds
	Stdev  float64
}
