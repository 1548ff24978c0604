package locate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/minuteman3/log-find-time/internal/timeofday"
)

// DefaultColumn is the byte column at which log lines carry their timestamp.
const DefaultColumn = 7

// lineChunk is how many bytes are fetched per read when loading one line.
const lineChunk = 256

var (
	// ErrEmptyFile is returned when the log contains no bytes at all.
	ErrEmptyFile = errors.New("empty file given")
	// ErrMalformedData is returned when a line the search depends on has no
	// timestamp at the expected column.
	ErrMalformedData = errors.New("file with garbage data given")
	// ErrDegenerateRange is returned when the requested range is exactly the
	// span of the whole file.
	ErrDegenerateRange = errors.New("time range given encompasses entire data set")
)

// Options configures a Locator.
type Options struct {
	// Column is the byte offset of the HH:MM:SS field in every line.
	Column int
	// Logger receives debug output about the search. Nil disables logging.
	Logger *zap.Logger
}

// Stats counts the work a Locator did.
type Stats struct {
	Resolves int // line boundary resolutions
	Reads    int // ReadAt calls issued while locating the range
	Probes   int // lines whose timestamp was inspected during the search
}

// Locator searches one log for a time range. It is not safe for concurrent
// use.
type Locator struct {
	r      io.ReaderAt
	size   int64
	column int
	log    *zap.Logger
	stats  Stats
}

// New returns a Locator reading size bytes from r.
func New(r io.ReaderAt, size int64, opts Options) *Locator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Locator{
		r:      r,
		size:   size,
		column: opts.Column,
		log:    logger,
	}
}

// Stats returns the counters accumulated so far.
func (l *Locator) Stats() Stats {
	return l.stats
}

// Run writes every line whose timestamp falls inside rng to w, in file order.
//
// The file is validated before anything is written: an empty file, a first
// or last line without a timestamp, or a range equal to the file's whole span
// fail without output. If the last line of the file rolled over midnight and
// still lies inside rng it is written once more after the main run.
func (l *Locator) Run(ctx context.Context, rng timeofday.Range, w io.Writer) (Stats, error) {
	if l.size == 0 {
		return l.stats, ErrEmptyFile
	}

	firstLine, err := l.readLine(0)
	if err != nil {
		return l.stats, err
	}
	first, ok := timeofday.FromColumn(firstLine, l.column)
	if !ok {
		return l.stats, fmt.Errorf("%w: no timestamp at column %d of the first line", ErrMalformedData, l.column)
	}

	lastPos, err := l.lineStart(l.size - 1)
	if err != nil {
		return l.stats, err
	}
	lastLine, err := l.readLine(lastPos)
	if err != nil {
		return l.stats, err
	}
	last, ok := timeofday.FromColumn(lastLine, l.column)
	if !ok {
		return l.stats, fmt.Errorf("%w: no timestamp at column %d of the last line (offset %d)", ErrMalformedData, l.column, lastPos)
	}

	if rng.Start == first && rng.End == last {
		return l.stats, fmt.Errorf("%w: %s", ErrDegenerateRange, rng)
	}

	l.log.Debug("file bounds",
		zap.Stringer("first", first),
		zap.Stringer("last", last),
		zap.Int64("size", l.size),
		zap.Int64("last_offset", lastPos))

	pos, err := l.lowerBound(ctx, rng.Start, first, last)
	if err != nil {
		return l.stats, err
	}

	var tail []byte
	if IncludeRollover(rng, first, last) {
		l.log.Debug("including rolled over last line", zap.Stringer("last", last))
		tail = lastLine
	}

	l.log.Debug("streaming", zap.Int64("offset", pos), zap.Stringer("range", rng))
	err = l.stream(ctx, pos, rng, tail, w)
	return l.stats, err
}

// lowerBound returns the offset of the earliest line matching start, or of
// the earliest line of the closest time the search found.
func (l *Locator) lowerBound(ctx context.Context, start, first, last timeofday.Time) (int64, error) {
	if start == first {
		return 0, nil
	}
	pos, found, err := l.search(ctx, start, first, last)
	if err != nil {
		return 0, err
	}
	return l.firstInstance(ctx, pos, found)
}

// readAt reads into buf, treating a short read at the end of the data as
// success.
func (l *Locator) readAt(buf []byte, off int64) (int, error) {
	l.stats.Reads++
	n, err := l.r.ReadAt(buf, off)
	if errors.Is(err, io.EOF) {
		err = nil
	}
	return n, err
}

// readLine returns the line starting at off including its terminator, if
// it has one.
func (l *Locator) readLine(off int64) ([]byte, error) {
	var line []byte
	buf := make([]byte, lineChunk)
	for off < l.size {
		n, err := l.readAt(buf, off)
		if err != nil {
			return nil, fmt.Errorf("reading line at %d: %w", off, err)
		}
		if n == 0 {
			break
		}
		if i := bytes.IndexByte(buf[:n], '\n'); i >= 0 {
			return append(line, buf[:i+1]...), nil
		}
		line = append(line, buf[:n]...)
		off += int64(n)
	}
	return line, nil
}

// timeAt reads the line starting at off and extracts its timestamp. The
// returned length is that of the whole line.
func (l *Locator) timeAt(off int64) (timeofday.Time, int64, bool, error) {
	line, err := l.readLine(off)
	if err != nil {
		return 0, 0, false, err
	}
	t, ok := timeofday.FromColumn(line, l.column)
	return t, int64(len(line)), ok, nil
}
