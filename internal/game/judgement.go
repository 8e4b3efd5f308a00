package game

// Judgement is the closed set of scoring outcomes. None means a note has
// not resolved yet; every other value is terminal and write-once.
type Judgement int

const (
	None Judgement = iota
	Marvelous
	Perfect
	Great
	Good
	Boo
	Miss
	OK // Hold/roll completed, or mine safely passed
	NG // Hold/roll dropped, or mine triggered
)

// Judgements lists every terminal outcome in scoreboard display order.
var Judgements = []Judgement{Marvelous, Perfect, Great, Good, Boo, Miss, OK, NG}

func (j Judgement) String() string {
	switch j {
	case None:
		return "None"
	case Marvelous:
		return "Marvelous"
	case Perfect:
		return "Perfect"
	case Great:
		return "Great"
	case Good:
		return "Good"
	case Boo:
		return "Boo"
	case Miss:
		return "Miss"
	case OK:
		return "OK"
	case NG:
		return "NG"
	}
	return "Unknown"
}

// Timing windows in seconds of absolute deviation from the head timing,
// matching SM Judge 4.
const (
	MarvelousWindow = 0.0225
	PerfectWindow   = 0.045
	GreatWindow     = 0.09
	GoodWindow      = 0.135
	BooWindow       = 0.18

	MineWindow = 0.05

	// Seconds a hold/roll survives without being kept alive
	HoldDecay = 0.25
	RollDecay = 0.5
)
