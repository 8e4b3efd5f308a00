package main

import (
	"fmt"
	"log"
	"math/rand"
	"sort"
	"sync/atomic"
	"time"

	"github.com/Sonny6155/termania/internal/config"
	"github.com/Sonny6155/termania/internal/game"
	"github.com/Sonny6155/termania/internal/score"
	"github.com/Sonny6155/termania/internal/testdata"
)

func main() {
	if err := run(); nil != err {
		log.Fatalln(err)
	}
}

type inputEvent struct {
	at    float64 // Song time in seconds
	lane  int
	press bool
}

// autoplayEvents scripts an imperfect player: every tap, hold head and
// roll pulse gets pressed a little off its true timing. Mines are left
// alone.
func autoplayEvents(chart *game.Chart, rng *rand.Rand, spread float64) []inputEvent {
	jitter := func() float64 {
		j := rng.NormFloat64() * spread
		if j > 0.1 {
			j = 0.1
		} else if j < -0.1 {
			j = -0.1
		}
		return j
	}

	events := []inputEvent{}
	for lane, column := range chart.Columns {
		for _, n := range column {
			switch n.Kind {
			case game.Tap:
				at := n.Timing + jitter()
				events = append(events,
					inputEvent{at: at, lane: lane, press: true},
					inputEvent{at: at + 0.06, lane: lane},
				)
			case game.Hold:
				events = append(events,
					inputEvent{at: n.Timing + jitter(), lane: lane, press: true},
					inputEvent{at: n.TailTiming + 0.05, lane: lane},
				)
			case game.Roll:
				for at := n.Timing; at < n.TailTiming; at += 0.2 {
					events = append(events,
						inputEvent{at: at, lane: lane, press: true},
						inputEvent{at: at + 0.1, lane: lane},
					)
				}
			case game.Mine:
				// Dodge it
			}
		}
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].at < events[j].at })
	return events
}

func run() error {
	chart, err := testdata.GetChart()
	if nil != err {
		return err
	}

	var scorer score.Scorer = &score.DefaultScorer{Path: *config.Scores}
	if err := scorer.Init(); nil != err {
		return err
	}
	defer scorer.Deinit()

	field := game.NewField(chart.Columns)
	keys := game.NewKeys(field.Lanes())

	rng := rand.New(rand.NewSource(*config.Seed))
	events := autoplayEvents(chart, rng, *config.Spread)

	offset := config.Offset.Seconds()
	start := time.Now()
	songTime := func() float64 { return time.Since(start).Seconds() + offset }

	// The session liveness flag; the poll loop clears it on completion
	var running atomic.Bool
	running.Store(true)

	// Input feed, edge events only. Discrete press/release pairs come
	// pre-filtered, the way a real input layer must filter autorepeat.
	go func() {
		for _, ev := range events {
			wait := ev.at - offset - time.Since(start).Seconds()
			if wait > 0 {
				time.Sleep(time.Duration(wait * float64(time.Second)))
			}
			if !running.Load() {
				return
			}
			if ev.press {
				if !keys.IsHeld(ev.lane) {
					keys.Press(ev.lane)
					field.PressKey(ev.lane, songTime())
				}
			} else {
				keys.Release(ev.lane)
				field.ReleaseKey(ev.lane, songTime())
			}
		}
	}()

	ticker := time.NewTicker(*config.TickPeriod)
	defer ticker.Stop()
	for running.Load() {
		<-ticker.C
		if field.Poll(songTime(), keys.Held()) {
			running.Store(false)
		}
	}

	metrics := field.Metrics()
	fmt.Println("Results:")
	for _, j := range game.Judgements {
		fmt.Printf("%10v: %v\n", j, metrics.Counts[j])
	}
	mean, stdev := score.Summarize(chart)
	fmt.Printf("      Mean: %6.2f ms\n", mean*1000)
	fmt.Printf("     Stdev: %6.2f ms\n", stdev*1000)

	scorer.Save(chart, &score.Result{
		Counts: metrics.Counts,
		Mean:   mean,
		Stdev:  stdev,
	})
	log.Printf("%d previous results for this chart\n", len(scorer.Load(chart)))
	return nil
}
