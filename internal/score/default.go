package score

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"math"

	"github.com/Sonny6155/termania/internal/game"
	_ "github.com/mattn/go-sqlite3"
)

type DefaultScorer struct {
	// Database location; "./scores.db" when empty
	Path string

	db *sql.DB
}

// compactCounts flattens a judgement count table into a dense slice in
// display order, the stored representation.
func compactCounts(counts map[game.Judgement]int) []int {
	flat := make([]int, len(game.Judgements))
	for i, j := range game.Judgements {
		flat[i] = counts[j]
	}
	return flat
}

func uncompactCounts(flat []int) map[game.Judgement]int {
	counts := make(map[game.Judgement]int, len(game.Judgements))
	for i, j := range game.Judgements {
		if i < len(flat) {
			counts[j] = flat[i]
		} else {
			counts[j] = 0
		}
	}
	return counts
}

func (s *DefaultScorer) Init() error {
	path := s.Path
	if path == "" {
		path = "./scores.db"
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}

	initStatement := `
	create table if not exists results
	  (
		  id integer not null primary key,
		  sum text,
		  counts bytearray,
		  mean real,
		  stdev real
	  );
	`
	_, err = db.Exec(initStatement)
	if nil != err {
		return err
	}

	s.db = db
	return nil
}

func (s *DefaultScorer) Deinit() {
	if nil != s.db {
		s.db.Close()
	}
}

// hashChart sums the note placement of every lane, so results group by
// chart content rather than file path.
func (s *DefaultScorer) hashChart(c *game.Chart) string {
	h := sha256.New()
	for key, column := range c.Columns {
		for _, n := range column {
			fmt.Fprintf(h, "%d:%v:%v:%v;", key, n.Kind, n.Beat, n.TailBeat)
		}
	}
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

func (s *DefaultScorer) Save(c *game.Chart, result *Result) {
	data, err := json.Marshal(compactCounts(result.Counts))
	if nil != err {
		log.Println("unable to marshal judgement counts", err)
		return
	}
	_, err = s.db.Exec("insert into results(sum, counts, mean, stdev) values(?, ?, ?, ?)",
		s.hashChart(c), data, result.Mean, result.Stdev)
	if nil != err {
		log.Println("unable to save result", err)
		return
	}
}

func (s *DefaultScorer) Load(c *game.Chart) []Result {
	results := []Result{}
	rows, err := s.db.Query("select sum, counts, mean, stdev from results where sum = ?", s.hashChart(c))
	if nil != err && err != sql.ErrNoRows {
		log.Println("unable to load results", err)
		return results
	}
	defer rows.Close()
	for rows.Next() {
		var sum string
		var counts []byte
		var mean, stdev float64
		rows.Scan(&sum, &counts, &mean, &stdev)
		var flat []int
		if err := json.Unmarshal(counts, &flat); nil != err {
			log.Println("unable to unmarshal judgement counts")
			continue
		}
		results = append(results, Result{
			Sum:    sum,
			Counts: uncompactCounts(flat),
			Mean:   mean,
			Stdev:  stdev,
		})
	}
	return results
}

// Summarize computes the mean and standard deviation of every recorded
// head accuracy on the chart's live lanes.
func Summarize(c *game.Chart) (mean, stdev float64) {
	accs := []float64{}
	for _, column := range c.Columns {
		for _, n := range column {
			if acc, ok := n.Accuracy(); ok {
				accs = append(accs, acc)
			}
		}
	}
	if len(accs) == 0 {
		return 0, 0
	}

	sum := 0.0
	for _, a := range accs {
		sum += a
	}
	mean = sum / float64(len(accs))

	if len(accs) > 1 {
		for _, a := range accs {
			xi := a - mean
			stdev += xi * xi
		}
		stdev /= float64(len(accs) - 1)
		stdev = math.Sqrt(stdev)
	}
	return mean, stdev
}
