package locate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minuteman3/log-find-time/internal/timeofday"
)

func TestSearch_ExactMatch(t *testing.T) {
	tests := []struct {
		name    string
		times   []timeofday.Time
		targets []timeofday.Time
	}{
		{
			name:    "ordered file",
			times:   span(hms(10, 0, 0), hms(10, 5, 0)),
			targets: []timeofday.Time{hms(10, 0, 1), hms(10, 0, 59), hms(10, 2, 30), hms(10, 4, 59), hms(10, 5, 0)},
		},
		{
			name:    "file rolling over midnight",
			times:   span(hms(23, 58, 0), hms(0, 2, 0)),
			targets: []timeofday.Time{hms(23, 58, 30), hms(23, 59, 0), hms(23, 59, 59), hms(0, 0, 0), hms(0, 1, 30), hms(0, 2, 0)},
		},
		{
			name:    "rollover near the end",
			times:   append(every(hms(20, 0, 0), hms(23, 59, 58), 2), span(hms(0, 0, 0), hms(0, 0, 10))...),
			targets: []timeofday.Time{hms(21, 0, 0), hms(23, 59, 58), hms(0, 0, 0), hms(0, 0, 10)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := buildLog(tt.times)
			first, last := tt.times[0], tt.times[len(tt.times)-1]
			for _, target := range tt.targets {
				l := tl.locator()
				pos, got, err := l.search(context.Background(), target, first, last)
				require.NoError(t, err)

				i := tl.indexOf(pos)
				require.NotEqualf(t, -1, i, "offset %d is not a line start", pos)
				assert.Equal(t, target, got)
				assert.Equal(t, target, tl.times[i])
			}
		})
	}
}

func TestSearch_ClosestMatch(t *testing.T) {
	tl := buildLog(every(hms(10, 0, 0), hms(10, 10, 0), 10))
	first, last := tl.times[0], tl.times[len(tl.times)-1]

	for _, target := range []timeofday.Time{hms(10, 0, 15), hms(10, 3, 25), hms(10, 7, 45), hms(10, 9, 55)} {
		l := tl.locator()
		pos, got, err := l.search(context.Background(), target, first, last)
		require.NoError(t, err)

		i := tl.indexOf(pos)
		require.NotEqual(t, -1, i)
		assert.Equal(t, tl.times[i], got)
		diff := int(got - target)
		if diff < 0 {
			diff = -diff
		}
		assert.Equalf(t, 5, diff, "target %s resolved to %s", target, got)
	}
}

func TestSearch_PastTheEnd(t *testing.T) {
	tl := buildLog(every(hms(10, 0, 0), hms(10, 10, 0), 10))
	first, last := tl.times[0], tl.times[len(tl.times)-1]

	pos, got, err := tl.locator().search(context.Background(), hms(11, 0, 0), first, last)
	require.NoError(t, err)
	assert.Equal(t, last, got)
	assert.Equal(t, tl.offsets[len(tl.offsets)-1], pos)
}

func TestSearch_MalformedProbe(t *testing.T) {
	tl := &testLog{}
	tl.add(fixedLine(hms(10, 0, 0)), hms(10, 0, 0))
	for i := 0; i < 20; i++ {
		tl.add("-- MARK --\n", 0)
	}
	tl.add(fixedLine(hms(10, 5, 0)), hms(10, 5, 0))

	_, _, err := tl.locator().search(context.Background(), hms(10, 2, 0), hms(10, 0, 0), hms(10, 5, 0))
	assert.ErrorIs(t, err, ErrMalformedData)
}

func TestSearch_Canceled(t *testing.T) {
	tl := buildLog(span(hms(10, 0, 0), hms(10, 5, 0)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := tl.locator().search(ctx, hms(10, 2, 0), hms(10, 0, 0), hms(10, 5, 0))
	assert.ErrorIs(t, err, context.Canceled)
}

func duplicatedLog() (*testLog, int, int) {
	var times []timeofday.Time
	times = append(times, span(hms(10, 1, 50), hms(10, 1, 59))...)
	times = append(times, hms(10, 1, 59), hms(10, 1, 59))
	from := len(times)
	for i := 0; i < 50; i++ {
		times = append(times, hms(10, 2, 0))
	}
	to := len(times)
	times = append(times, span(hms(10, 2, 1), hms(10, 2, 30))...)
	return buildLog(times), from, to
}

func TestFirstInstance(t *testing.T) {
	tl, from, to := duplicatedLog()

	for i := from; i < to; i++ {
		got, err := tl.locator().firstInstance(context.Background(), tl.offsets[i], hms(10, 2, 0))
		require.NoError(t, err)
		assert.Equalf(t, tl.offsets[from], got, "refining line %d", i)
	}
}

func TestFirstInstance_StartOfFile(t *testing.T) {
	tl := buildLog([]timeofday.Time{hms(9, 0, 0), hms(9, 0, 0), hms(9, 0, 0), hms(9, 0, 1)})

	got, err := tl.locator().firstInstance(context.Background(), tl.offsets[2], hms(9, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)

	got, err = tl.locator().firstInstance(context.Background(), 0, hms(9, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)
}

func TestFirstInstance_ShortLines(t *testing.T) {
	tl := &testLog{}
	tl.add(fixedLine(hms(9, 0, 0)), hms(9, 0, 0))
	tl.add("x\n", 0)
	tl.add(fixedLine(hms(9, 0, 1)), hms(9, 0, 1))
	tl.add(fixedLine(hms(9, 0, 1)), hms(9, 0, 1))

	got, err := tl.locator().firstInstance(context.Background(), tl.offsets[3], hms(9, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, tl.offsets[2], got)
}

func TestLowerBound(t *testing.T) {
	tl, from, _ := duplicatedLog()
	first, last := tl.times[0], tl.times[len(tl.times)-1]

	got, err := tl.locator().lowerBound(context.Background(), hms(10, 2, 0), first, last)
	require.NoError(t, err)
	assert.Equal(t, tl.offsets[from], got)

	got, err = tl.locator().lowerBound(context.Background(), hms(10, 1, 59), first, last)
	require.NoError(t, err)
	assert.Equal(t, tl.offsets[9], got)

	got, err = tl.locator().lowerBound(context.Background(), first, first, last)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)
}
