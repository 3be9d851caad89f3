package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func w(startMillis, endMillis int64) Window {
	return Window{Start: time.UnixMilli(startMillis).UTC(), End: time.UnixMilli(endMillis).UTC()}
}

func TestMaxTimestamp(t *testing.T) {
	win := w(0, 10_000)
	assert.True(t, win.MaxTimestamp().Equal(time.UnixMilli(9_999).UTC()))
	assert.True(t, win.Contains(win.MaxTimestamp()))
	assert.False(t, win.Contains(win.End))
}

func TestIntersects(t *testing.T) {
	assert.True(t, w(0, 10).Intersects(w(5, 15)))
	assert.True(t, w(5, 15).Intersects(w(0, 10)))
	// Touching end-to-start intervals do not overlap.
	assert.False(t, w(0, 10).Intersects(w(10, 20)))
	assert.False(t, w(0, 10).Intersects(w(20, 30)))
}

func TestSpan(t *testing.T) {
	assert.True(t, w(0, 10).Span(w(5, 15)).Equal(w(0, 15)))
	assert.True(t, w(5, 15).Span(w(0, 10)).Equal(w(0, 15)))
	assert.True(t, w(0, 20).Span(w(5, 10)).Equal(w(0, 20)))
}

func TestMergeSessions(t *testing.T) {
	merged := MergeSessions([]Window{
		w(0, 30),
		w(20, 50),
		w(100, 130),
		w(40, 70),
	})
	require.Len(t, merged, 2)
	assert.True(t, merged[0].Equal(w(0, 70)))
	assert.True(t, merged[1].Equal(w(100, 130)))
}

func TestMergeSessionsDisjoint(t *testing.T) {
	in := []Window{w(0, 10), w(10, 20)}
	merged := MergeSessions(in)
	require.Len(t, merged, 2)
	assert.True(t, merged[0].Equal(w(0, 10)))
	assert.True(t, merged[1].Equal(w(10, 20)))
}

func TestForPolicy(t *testing.T) {
	ambient := GlobalDefault()
	assert.Equal(t, ambient, ForPolicy(None(), ambient))

	s := ForPolicy(Fixed(10*time.Second, 0), ambient)
	assert.Equal(t, IntervalWindows, s.Fn)
	assert.Equal(t, DefaultTrigger, s.Trigger)
}
