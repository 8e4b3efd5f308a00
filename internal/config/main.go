package config

import (
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	TickPeriod = kingpin.Flag("tick-period", "Game poll period").Default("33ms").Short('t').Duration()
	Offset     = kingpin.Flag("offset", "Global song offset").Default("0s").Short('o').Duration()
	Spread     = kingpin.Flag("spread", "Autoplay timing error spread in seconds").Default("0.02").Float64()
	Seed       = kingpin.Flag("seed", "Autoplay rng seed").Default("1").Int64()
	Scores     = kingpin.Flag("scores", "Result database path").Default("./scores.db").String()
)

func init() {
	kingpin.Version("0.1.0")
	kingpin.Parse()
}
