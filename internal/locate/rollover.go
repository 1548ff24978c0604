package locate

import "github.com/minuteman3/log-find-time/internal/timeofday"

// IncludeRollover reports whether the last line of a file, given the times of
// its first and last lines, has to be written after the main run for rng.
//
// The forward scan stops as soon as the end of rng is passed, so it cannot
// reach a tail that rolled over midnight and came back around into the
// range. A tail that sits inside the range may already have been written by
// the scan; it is written again rather than deduplicated.
func IncludeRollover(rng timeofday.Range, first, last timeofday.Time) bool {
	if last <= first {
		return false
	}
	if last > rng.Start && last <= rng.End {
		return true
	}
	return rng.Wraps() && last < rng.End+timeofday.Day
}
