// Command log-find-time prints the lines of a large log file whose timestamps
// fall inside a time range.
//
// Rather than reading the whole file it binary searches for the first line of
// the range, so it stays fast on multi-gigabyte logs. The log may roll over
// midnight once. Every line must carry an HH:MM:SS timestamp at a fixed
// column, byte 7 by default as in syslog output.
//
// Usage:
//
//	log-find-time [flags] [FILE] TIME
//	log-find-time /logs/haproxy.log 8:42
//	log-find-time 23:59:30-00:00:30 /logs/haproxy.log
package main
