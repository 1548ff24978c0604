// Package timeofday provides second-of-day time values as they appear in
// HH:MM:SS log timestamps.
//
// Two parsers are offered. Parse and ParseRange scan user-supplied text
// tolerantly and accept abbreviated forms such as "6:32". FromColumn reads
// the rigid eight-byte field found at a fixed column of every log line.
package timeofday
