package locate

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minuteman3/log-find-time/internal/timeofday"
)

const streamBufferSize = 64 * 1024

// rangeFilter decides, line by line, what the forward scan emits.
type rangeFilter struct {
	rng    timeofday.Range
	column int

	entered  bool // a line timed exactly at rng.End has been seen
	emitting bool // a line inside rng has been emitted
}

// admit reports whether line should be written and whether the scan is over.
// When stop is true the line itself is not written.
func (f *rangeFilter) admit(line []byte) (emit, stop bool) {
	t, ok := timeofday.FromColumn(line, f.column)
	if f.entered {
		if !ok || t != f.rng.End {
			return false, true
		}
		return true, false
	}
	if !ok {
		// Untimed lines ride along with the surrounding output.
		return f.emitting, false
	}
	if t == f.rng.End {
		f.entered, f.emitting = true, true
		return true, false
	}

	switch f.rng.Classify(t) {
	case timeofday.Inside:
		f.emitting = true
		return true, false
	case timeofday.Before:
		return false, f.emitting
	default:
		return false, true
	}
}

// stream writes the lines of rng starting at pos to w, followed by tail when
// it is not nil.
func (l *Locator) stream(ctx context.Context, pos int64, rng timeofday.Range, tail []byte, w io.Writer) error {
	br := bufio.NewReaderSize(io.NewSectionReader(l.r, pos, l.size-pos), streamBufferSize)
	bw := bufio.NewWriter(w)
	filter := &rangeFilter{rng: rng, column: l.column}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			emit, stop := filter.admit(line)
			if stop {
				break
			}
			if emit {
				if _, werr := bw.Write(line); werr != nil {
					return fmt.Errorf("writing output: %w", werr)
				}
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading log: %w", err)
		}
	}

	if tail != nil {
		if _, err := bw.Write(tail); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
