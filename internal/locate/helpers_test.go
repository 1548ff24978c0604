package locate

import (
	"fmt"
	"strings"

	"github.com/minuteman3/log-find-time/internal/timeofday"
)

// testLog is an in-memory log file together with the offset and time of each
// of its lines.
type testLog struct {
	lines   []string
	offsets []int64
	times   []timeofday.Time
}

func (tl *testLog) add(line string, t timeofday.Time) {
	var off int64
	if n := len(tl.lines); n > 0 {
		off = tl.offsets[n-1] + int64(len(tl.lines[n-1]))
	}
	tl.lines = append(tl.lines, line)
	tl.offsets = append(tl.offsets, off)
	tl.times = append(tl.times, t)
}

func (tl *testLog) content() string {
	return strings.Join(tl.lines, "")
}

func (tl *testLog) join(from, to int) string {
	return strings.Join(tl.lines[from:to], "")
}

func (tl *testLog) locator() *Locator {
	r := strings.NewReader(tl.content())
	return New(r, r.Size(), Options{Column: DefaultColumn})
}

// indexOf returns the index of the line starting at off, or -1.
func (tl *testLog) indexOf(off int64) int {
	for i, o := range tl.offsets {
		if o == off {
			return i
		}
	}
	return -1
}

// haproxyLine renders a syslog style line with a message whose length varies
// with seq, so line offsets are irregular.
func haproxyLine(t timeofday.Time, seq int) string {
	return fmt.Sprintf("Feb 17 %s lb01 haproxy[4242]: 10.0.%d.%d:%d [req=%d] GET /api%s HTTP/1.1 200\n",
		t, seq%256, seq%97, 40000+seq, seq, strings.Repeat("/x", seq%23))
}

// fixedLine renders a line whose length does not depend on its content.
func fixedLine(t timeofday.Time) string {
	return fmt.Sprintf("Feb 17 %s lb01 haproxy[4242]: GET / 200\n", t)
}

func buildLog(times []timeofday.Time) *testLog {
	tl := &testLog{}
	for i, t := range times {
		tl.add(haproxyLine(t, i), t)
	}
	return tl
}

// span returns every second from one time to another inclusive, wrapping
// past midnight.
func span(from, to timeofday.Time) []timeofday.Time {
	var out []timeofday.Time
	for t := from; ; t = (t + 1) % timeofday.Day {
		out = append(out, t)
		if t == to {
			return out
		}
	}
}

// every returns times from one time to another inclusive with a fixed step.
func every(from, to timeofday.Time, step int) []timeofday.Time {
	var out []timeofday.Time
	for t := from; t <= to; t += timeofday.Time(step) {
		out = append(out, t)
	}
	return out
}

func hms(h, m, s int) timeofday.Time {
	return timeofday.New(h, m, s)
}
