package layer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cgplayout/pkg/chroma"
	"cgplayout/pkg/frame"
	"cgplayout/pkg/glyph"
)

func TestCrawlOffsetWraps(t *testing.T) {
	c := NewCrawl(Props{Visible: true}, "news", 100, 200, glyph.DefaultStyle())

	for n := 1; n <= 30; n++ {
		require.NoError(t, c.Update(time.Second))
		assert.Equal(t, float64((100*n)%1200), c.Offset(), "after %d ticks", n)
		assert.GreaterOrEqual(t, c.Offset(), 0.0)
	}
}

func TestCrawlDrawsShiftedByOffset(t *testing.T) {
	style := glyph.Style{Scale: 1, Color: [3]uint8{255, 255, 255}, Thickness: 1}
	c := NewCrawl(Props{X: 50, Y: 20, Visible: true}, "I", 10, 2000, style)

	before := frame.New(100, 30, 3)
	require.NoError(t, c.Draw(before))

	require.NoError(t, c.Update(4*time.Second))
	after := frame.New(100, 30, 3)
	require.NoError(t, c.Draw(after))

	assert.Equal(t, leftmost(before)-40, leftmost(after))
}

func TestCrawlRejectsZeroTravel(t *testing.T) {
	c := NewCrawl(Props{}, "x", 100, -1000, glyph.DefaultStyle())
	assert.ErrorIs(t, c.Update(time.Second), ErrCrawlTravel)
}

func leftmost(f *frame.Frame) int {
	for x := 0; x < f.Width; x++ {
		for y := 0; y < f.Height; y++ {
			if b, _, _ := f.BGR(x, y); b != 0 {
				return x
			}
		}
	}
	return -1
}

func TestTimerCountsDown(t *testing.T) {
	tm := NewTimer(Props{}, 5, true, glyph.DefaultStyle())
	assert.Equal(t, "00:05", tm.Text())

	for i := 0; i < 3; i++ {
		require.NoError(t, tm.Update(time.Second))
	}
	assert.Equal(t, "00:02", tm.Text())

	for i := 0; i < 7; i++ {
		require.NoError(t, tm.Update(time.Second))
	}
	assert.Equal(t, "00:00", tm.Text())
	assert.Equal(t, 0, tm.Remaining())
}

func TestTimerOnlyAdvancesWhileRunning(t *testing.T) {
	tm := NewTimer(Props{}, 300, false, glyph.DefaultStyle())

	require.NoError(t, tm.Update(10*time.Second))
	assert.Equal(t, "05:00", tm.Text())
	assert.Zero(t, tm.Elapsed())

	tm.Start()
	require.NoError(t, tm.Update(61500*time.Millisecond))
	assert.Equal(t, "03:59", tm.Text())

	tm.Stop()
	require.NoError(t, tm.Update(time.Minute))
	assert.Equal(t, "03:59", tm.Text())

	require.NoError(t, tm.Update(-time.Minute))
	assert.Equal(t, 61500*time.Millisecond, tm.Elapsed())

	tm.Reset()
	assert.Equal(t, "05:00", tm.Text())
	assert.False(t, tm.Running())
}

func TestClockFollowsNow(t *testing.T) {
	now := time.Date(2026, 10, 18, 13, 4, 5, 0, time.UTC)
	c, err := NewClock(Props{}, "%H:%M:%S", glyph.DefaultStyle(), func() time.Time { return now })
	require.NoError(t, err)
	assert.Equal(t, "13:04:05", c.Text())

	now = now.Add(61 * time.Second)
	require.NoError(t, c.Update(0))
	assert.Equal(t, "13:05:06", c.Text())
	assert.Equal(t, "%H:%M:%S", c.Pattern())
}

func TestImageBlendsOwnedBuffer(t *testing.T) {
	img := frame.New(2, 2, 3)
	img.Fill(200, 100, 50)

	l := NewImage(Props{X: 1, Y: 1, Alpha: 1, Visible: true}, img)
	f := frame.New(4, 4, 3)
	require.NoError(t, l.Draw(f))

	b, g, r := f.BGR(2, 2)
	assert.Equal(t, [3]uint8{200, 100, 50}, [3]uint8{b, g, r})
	b, _, _ = f.BGR(0, 0)
	assert.Zero(t, b)

	b, _, _ = img.BGR(0, 0)
	assert.Equal(t, uint8(200), b)
}

func TestImageWithoutBufferIsNoop(t *testing.T) {
	f := frame.New(2, 2, 3)
	require.NoError(t, NewImage(Props{Alpha: 1}, nil).Draw(f))
	assert.Equal(t, make([]uint8, 12), f.Pix)
}

func TestChromaDrawsKeyedSource(t *testing.T) {
	src := frame.New(2, 1, 3)
	src.SetBGR(0, 0, 0, 255, 0)
	src.SetBGR(1, 0, 0, 0, 255)

	c := NewChroma(Props{X: 0, Y: 0}, src, ChromaKey{Color: [3]uint8{0, 255, 0}, Threshold: 60, Fit: chroma.Clip})
	f := frame.New(2, 1, 3)
	f.Fill(5, 5, 5)
	require.NoError(t, c.Draw(f))

	assert.Equal(t, []uint8{5, 5, 5, 0, 0, 255}, f.Pix)
	require.NoError(t, NewChroma(Props{}, nil, c.Key()).Draw(f))
}

func TestTextDrawsAtAnchor(t *testing.T) {
	l := NewText(Props{X: 10, Y: 20, Visible: true}, "A", glyph.Style{Scale: 1, Color: [3]uint8{9, 9, 9}, Thickness: 1})
	f := frame.New(40, 30, 3)
	require.NoError(t, l.Draw(f))
	assert.GreaterOrEqual(t, leftmost(f), 10)

	l.SetText("B")
	assert.Equal(t, "B", l.Text())
	assert.Equal(t, KindText, l.Kind())
}
