package locate

import (
	"bytes"
	"fmt"
)

// probeWindow is how far each backward probe reaches.
const probeWindow = 16

// lineStart returns the offset of the first byte of the line containing p.
// Offsets at or before the start of the file resolve to 0 and offsets past
// the end are clamped to it.
//
// It scans backward one window at a time until a newline turns up, so lines
// longer than the window cost several reads but never a full reverse scan.
func (l *Locator) lineStart(p int64) (int64, error) {
	l.stats.Resolves++
	if p > l.size {
		p = l.size
	}

	var buf [probeWindow]byte
	for end := p; end > 0; {
		start := end - probeWindow
		if start < 0 {
			start = 0
		}
		// The window ends just before p, so a newline at p itself is treated
		// as the terminator of the line containing p.
		n, err := l.readAt(buf[:end-start], start)
		if err != nil {
			return 0, fmt.Errorf("resolving line boundary near %d: %w", p, err)
		}
		if i := bytes.LastIndexByte(buf[:n], '\n'); i >= 0 {
			return start + int64(i) + 1, nil
		}
		end = start
	}
	return 0, nil
}
