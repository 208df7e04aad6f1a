package blend

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cgplayout/pkg/frame"
)

func solid(w, h, ch int, b, g, r, a uint8) *frame.Frame {
	f := frame.New(w, h, ch)
	for i := 0; i < len(f.Pix); i += ch {
		f.Pix[i], f.Pix[i+1], f.Pix[i+2] = b, g, r
		if ch == 4 {
			f.Pix[i+3] = a
		}
	}
	return f
}

func noise(rnd *rand.Rand, w, h, ch int) *frame.Frame {
	f := frame.New(w, h, ch)
	rnd.Read(f.Pix)
	return f
}

func TestOpaqueOverlayIsCopied(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	base := noise(rnd, 8, 6, 3)
	ov := noise(rnd, 3, 2, 3)

	Region(base, ov, 2, 1, 1.0)

	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			bb, bg, br := base.BGR(x+2, y+1)
			ob, og, or := ov.BGR(x, y)
			assert.Equal(t, [3]uint8{ob, og, or}, [3]uint8{bb, bg, br}, "pixel %d,%d", x, y)
		}
	}
}

func TestZeroAlphaLeavesBaseUnchanged(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	for _, ch := range []int{3, 4} {
		base := noise(rnd, 8, 6, 3)
		want := base.Clone()

		Region(base, noise(rnd, 5, 5, ch), 1, 1, 0)
		assert.Equal(t, want.Pix, base.Pix, "channels %d", ch)
	}
}

func TestOffscreenPlacementIsNoop(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	ov := noise(rnd, 4, 4, 4)

	for _, pos := range [][2]int{{8, 0}, {0, 6}, {-4, 0}, {0, -4}, {-10, -10}, {100, 100}} {
		base := noise(rnd, 8, 6, 3)
		want := base.Clone()
		out := Region(base, ov, pos[0], pos[1], 1)
		assert.Same(t, base, out)
		assert.Equal(t, want.Pix, base.Pix, "at %v", pos)
	}
}

func TestPerPixelAlphaTruncates(t *testing.T) {
	base := solid(1, 1, 3, 100, 100, 100, 0)
	ov := solid(1, 1, 4, 201, 0, 255, 128)

	Region(base, ov, 0, 0, 1)

	a := 128 / 255.0
	want := func(o, b float64) uint8 { return uint8(a*o + (1-a)*b) }
	assert.Equal(t, []uint8{want(201, 100), want(0, 100), want(255, 100)}, base.Pix)
}

func TestPerPixelAlphaScalesWithMultiplier(t *testing.T) {
	base := solid(2, 1, 3, 0, 0, 0, 0)
	ov := solid(2, 1, 4, 200, 200, 200, 255)

	Region(base, ov, 0, 0, 0.5)
	assert.Equal(t, []uint8{100, 100, 100, 100, 100, 100}, base.Pix)
}

func TestWeightedBlendRounds(t *testing.T) {
	base := solid(1, 1, 3, 0, 1, 255, 0)
	ov := solid(1, 1, 3, 255, 2, 0, 0)

	Region(base, ov, 0, 0, 0.5)
	// 127.5 rounds to even, 1.5 rounds to even
	assert.Equal(t, []uint8{128, 2, 128}, base.Pix)
}

func TestAlphaIsClamped(t *testing.T) {
	base := solid(1, 1, 3, 10, 10, 10, 0)
	ov := solid(1, 1, 3, 50, 60, 70, 0)

	Region(base, ov, 0, 0, 3.5)
	assert.Equal(t, []uint8{50, 60, 70}, base.Pix)

	Region(base, solid(1, 1, 3, 0, 0, 0, 0), 0, 0, -2)
	assert.Equal(t, []uint8{50, 60, 70}, base.Pix)
}

func TestBaseAlphaChannelIsPreserved(t *testing.T) {
	base := solid(1, 1, 4, 0, 0, 0, 77)
	Region(base, solid(1, 1, 3, 9, 9, 9, 0), 0, 0, 1)
	assert.Equal(t, []uint8{9, 9, 9, 77}, base.Pix)
}

func TestNegativeOriginCropsOverlay(t *testing.T) {
	base := solid(4, 4, 3, 0, 0, 0, 0)
	ov := frame.New(3, 3, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			ov.SetBGR(x, y, uint8(x), uint8(y), 1)
		}
	}

	Region(base, ov, -1, -2, 1)

	b, g, r := base.BGR(0, 0)
	assert.Equal(t, [3]uint8{1, 2, 1}, [3]uint8{b, g, r})
	b, g, r = base.BGR(1, 0)
	assert.Equal(t, [3]uint8{2, 2, 1}, [3]uint8{b, g, r})
	b, g, r = base.BGR(0, 1)
	assert.Equal(t, [3]uint8{0, 0, 0}, [3]uint8{b, g, r})
}

func TestRandomPlacementsStayInBounds(t *testing.T) {
	rnd := rand.New(rand.NewSource(4))
	for n := 0; n < 500; n++ {
		bw, bh := rnd.Intn(12)+1, rnd.Intn(12)+1
		ow, oh := rnd.Intn(16)+1, rnd.Intn(16)+1
		x, y := rnd.Intn(40)-20, rnd.Intn(40)-20
		ch := 3 + rnd.Intn(2)

		base := noise(rnd, bw, bh, 3)
		want := base.Clone()
		ov := noise(rnd, ow, oh, ch)

		require.NotPanics(t, func() { Region(base, ov, x, y, rnd.Float64()) })

		for py := 0; py < bh; py++ {
			for px := 0; px < bw; px++ {
				inside := px >= x && px < x+ow && py >= y && py < y+oh
				if inside {
					continue
				}
				i := base.Offset(px, py)
				require.Equal(t, want.Pix[i:i+3], base.Pix[i:i+3], "pixel %d,%d touched", px, py)
			}
		}
	}
}

func TestClip(t *testing.T) {
	base := frame.New(10, 10, 3)

	src, dst, ok := Clip(base, 4, 4, 8, -1)
	require.True(t, ok)
	assert.Equal(t, 0, dst.Y)
	assert.Equal(t, 8, dst.X)
	assert.Equal(t, 2, src.Dx())
	assert.Equal(t, 3, src.Dy())
	assert.Equal(t, 1, src.Min.Y)

	_, _, ok = Clip(base, 4, 4, -4, 0)
	assert.False(t, ok)
}
