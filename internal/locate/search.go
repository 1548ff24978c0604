package locate

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/minuteman3/log-find-time/internal/timeofday"
)

// search looks for a line whose time equals target with a binary search
// over byte offsets that tolerates one midnight rollover. first and last are
// the times of the file's first and last lines.
//
// It returns the offset of a matching line and its time. When no line
// matches, it returns the probed line whose time was numerically closest to
// target.
func (l *Locator) search(ctx context.Context, target, first, last timeofday.Time) (int64, timeofday.Time, error) {
	// The window is [lower, upper). lowerTime and upperTime are the times of
	// the lines that last bounded it; initially those are the first and last
	// lines, which still lie inside the window.
	var (
		lower, upper         = int64(0), l.size
		lowerTime, upperTime = first, last

		bestPos  int64
		bestTime timeofday.Time
		bestDiff = math.MaxInt
	)

	for lower < upper {
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}

		mid, err := l.lineStart(lower + (upper-lower)/2)
		if err != nil {
			return 0, 0, err
		}
		midTime, length, ok, err := l.timeAt(mid)
		if err != nil {
			return 0, 0, err
		}
		if !ok {
			return 0, 0, fmt.Errorf("%w: no timestamp at column %d of line at offset %d", ErrMalformedData, l.column, mid)
		}
		l.stats.Probes++

		diff := int(target - midTime)
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff {
			bestPos, bestTime, bestDiff = mid, midTime, diff
		}

		l.log.Debug("probe",
			zap.Int64("lower", lower),
			zap.Int64("upper", upper),
			zap.Int64("mid", mid),
			zap.Stringer("time", midTime))

		switch {
		case midTime == target:
			return mid, midTime, nil
		case target >= lowerTime && target < midTime:
			upper, upperTime = mid, midTime
		case target > midTime && target <= upperTime:
			lower, lowerTime = mid+length, midTime
		case lowerTime > midTime:
			// The rollover lies left of mid, and so does target.
			upper, upperTime = mid, midTime
		default:
			// The rollover lies right of mid.
			lower, lowerTime = mid+length, midTime
		}
	}

	l.log.Debug("no exact match",
		zap.Stringer("target", target),
		zap.Stringer("closest", bestTime),
		zap.Int64("offset", bestPos))
	return bestPos, bestTime, nil
}

// firstInstance walks backward from the line at pos, whose time is t, and
// returns the offset of the earliest line in the run of lines sharing t.
func (l *Locator) firstInstance(ctx context.Context, pos int64, t timeofday.Time) (int64, error) {
	for pos > 0 {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		// pos-1 is the previous line's terminator.
		prev, err := l.lineStart(pos - 1)
		if err != nil {
			return 0, err
		}
		prevTime, _, ok, err := l.timeAt(prev)
		if err != nil {
			return 0, err
		}
		l.stats.Probes++
		if !ok || prevTime != t {
			break
		}
		pos = prev
	}
	return pos, nil
}
