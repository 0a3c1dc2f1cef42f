// Package report summarizes conversion results: run totals for the terminal
// and per-collar fix statistics for quick plausibility checks of collar
// schedules.
package report

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/wildtel/collarcsv/internal/core"
)

// CollarStats describes the emitted fixes of one collar.
type CollarStats struct {
	Serial         string
	Fixes          int
	FirstFix       time.Time
	LastFix        time.Time
	MeanInterval   time.Duration
	MedianInterval time.Duration
}

// Collars computes per-serial fix statistics from emitted rows, sorted by
// serial. Fix times are ordered per serial before intervals are taken, so
// the numbers hold even when dedupe was off and the input was shuffled.
// A serial with a single fix reports zero intervals.
func Collars(rows []core.NormalizedRow) []CollarStats {
	bySerial := make(map[string][]time.Time)
	for _, r := range rows {
		bySerial[r.Serial] = append(bySerial[r.Serial], r.Time)
	}

	result := make([]CollarStats, 0, len(bySerial))
	for serial, times := range bySerial {
		sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

		cs := CollarStats{
			Serial:   serial,
			Fixes:    len(times),
			FirstFix: times[0],
			LastFix:  times[len(times)-1],
		}
		if intervals := intervalSeconds(times); len(intervals) > 0 {
			if mean, err := stats.Mean(intervals); err == nil {
				cs.MeanInterval = time.Duration(mean * float64(time.Second))
			}
			if median, err := stats.Median(intervals); err == nil {
				cs.MedianInterval = time.Duration(median * float64(time.Second))
			}
		}
		result = append(result, cs)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Serial < result[j].Serial })
	return result
}

// intervalSeconds returns the gaps between successive fixes, in seconds.
func intervalSeconds(times []time.Time) []float64 {
	if len(times) < 2 {
		return nil
	}
	out := make([]float64, 0, len(times)-1)
	for i := 1; i < len(times); i++ {
		out = append(out, times[i].Sub(times[i-1]).Seconds())
	}
	return out
}
