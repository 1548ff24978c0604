package timeofday

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Day is the number of seconds in a day.
const Day = 24 * 60 * 60

// Width is the length of an HH:MM:SS field.
const Width = len("15:04:05")

// ErrInvalidTime is returned when text does not hold a real time of day.
var ErrInvalidTime = errors.New("invalid time")

// pattern matches H:MM, HH:MM, H:MM:SS and HH:MM:SS anywhere in a string.
var pattern = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)(?::([0-5]\d))?\b`)

// Time is a number of seconds since midnight, in [0, Day).
type Time int

// New builds a Time from its clock fields. It does not validate them.
func New(hour, min, sec int) Time {
	return Time(hour*3600 + min*60 + sec)
}

// String formats t as HH:MM:SS.
func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(t)/3600, int(t)/60%60, int(t)%60)
}

// Parse scans s for the first time-shaped token and returns its value.
// The boolean reports whether the token carried a seconds field.
func Parse(s string) (Time, bool, error) {
	m := pattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	hour, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	if m[3] == "" {
		return New(hour, min, 0), false, nil
	}
	sec, _ := strconv.Atoi(m[3])
	return New(hour, min, sec), true, nil
}

// FromColumn extracts the HH:MM:SS field that starts at byte col of line.
// It reports false when the line is too short or the field is not a valid
// time.
func FromColumn(line []byte, col int) (Time, bool) {
	if col < 0 || len(line) < col+Width {
		return 0, false
	}
	f := line[col : col+Width]
	if f[2] != ':' || f[5] != ':' {
		return 0, false
	}
	hour, ok := twoDigits(f[0], f[1])
	if !ok || hour > 23 {
		return 0, false
	}
	min, ok := twoDigits(f[3], f[4])
	if !ok || min > 59 {
		return 0, false
	}
	sec, ok := twoDigits(f[6], f[7])
	if !ok || sec > 59 {
		return 0, false
	}
	return New(hour, min, sec), true
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

// Range is an inclusive span of times. When End is before Start the range
// crosses midnight.
type Range struct {
	Start Time
	End   Time
}

// ParseRange parses a time argument of the form TIME or TIME-TIME.
//
// A start given without seconds begins at :00 and an end given without
// seconds finishes at :59, so "8:42" selects the whole minute 08:42:00 to
// 08:42:59.
func ParseRange(s string) (Range, error) {
	startText, endText, isRange := strings.Cut(s, "-")
	if !isRange {
		endText = startText
	}
	start, _, err := parseEndpoint(startText)
	if err != nil {
		return Range{}, err
	}
	end, endHasSec, err := parseEndpoint(endText)
	if err != nil {
		return Range{}, err
	}
	if !endHasSec {
		end += 59
	}
	return Range{Start: start, End: end}, nil
}

// parseEndpoint parses one side of a range argument, which must consist of
// nothing but the time itself.
func parseEndpoint(s string) (Time, bool, error) {
	s = strings.TrimSpace(s)
	loc := pattern.FindStringIndex(s)
	if loc == nil || loc[0] != 0 || loc[1] != len(s) {
		return 0, false, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return Parse(s)
}

// Wraps reports whether the range crosses midnight.
func (r Range) Wraps() bool {
	return r.End < r.Start
}

// String formats the range as START-END.
func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// Position describes where a time lies relative to a Range.
type Position int

const (
	Inside Position = iota
	Before
	After
)

// Classify places t relative to r on the 24 hour circle. A time outside the
// range is Before when it is nearer to Start going forward than it is to End
// going backward, and After otherwise.
func (r Range) Classify(t Time) Position {
	span := mod(r.End - r.Start)
	rel := mod(t - r.Start)
	if rel <= span {
		return Inside
	}
	if Day-rel <= rel-span {
		return Before
	}
	return After
}

func mod(t Time) Time {
	return ((t % Day) + Day) % Day
}
