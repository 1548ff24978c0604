// Package locate finds and streams the lines of a large, chronologically
// ordered log file whose HH:MM:SS timestamps fall inside a requested range.
//
// Instead of reading the file from the start, it performs a binary search
// over byte offsets, snapping every probe to a line boundary. The search
// tolerates one drop in the timestamps, where the log rolled over midnight.
// Once a matching line is found the package walks back to the earliest line
// with that time and streams forward until the end of the range is passed.
//
// Files spanning more than one midnight are not supported; the side of the
// search window holding the rollover is decided assuming there is at most
// one.
package locate
