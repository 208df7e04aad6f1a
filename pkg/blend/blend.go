package blend

import (
	"image"
	"math"

	"cgplayout/pkg/frame"
)

// Clip returns the part of a w x h overlay placed at (x, y) that is visible
// inside base, as the source rectangle in overlay coordinates and the
// destination origin in base coordinates. ok is false when nothing is visible.
func Clip(base *frame.Frame, w, h, x, y int) (src image.Rectangle, dst image.Point, ok bool) {
	sx, sy := 0, 0
	if x < 0 {
		sx = -x
		x = 0
	}
	if y < 0 {
		sy = -y
		y = 0
	}
	if x >= base.Width || y >= base.Height {
		return src, dst, false
	}

	cw := w - sx
	if base.Width-x < cw {
		cw = base.Width - x
	}
	ch := h - sy
	if base.Height-y < ch {
		ch = base.Height - y
	}
	if cw <= 0 || ch <= 0 {
		return src, dst, false
	}

	return image.Rect(sx, sy, sx+cw, sy+ch), image.Pt(x, y), true
}

// Region composites overlay onto base at (x, y) in place and returns base.
//
// A 4-channel overlay is mixed per pixel with its own alpha scaled by alpha,
// truncating the result. A 3-channel overlay is mixed uniformly with weight
// alpha, rounding with saturation. Only the color channels of base are
// written. Placements that leave nothing visible are no-ops.
func Region(base, overlay *frame.Frame, x, y int, alpha float64) *frame.Frame {
	if base.Empty() || overlay.Empty() || base.Channels < 3 || overlay.Channels < 3 {
		return base
	}

	src, dst, ok := Clip(base, overlay.Width, overlay.Height, x, y)
	if !ok {
		return base
	}

	alpha = clamp01(alpha)
	if overlay.HasAlpha() {
		perPixel(base, overlay, src, dst, alpha)
	} else {
		weighted(base, overlay, src, dst, alpha)
	}
	return base
}

func perPixel(base, overlay *frame.Frame, src image.Rectangle, dst image.Point, alpha float64) {
	bc, oc := base.Channels, overlay.Channels
	for row := 0; row < src.Dy(); row++ {
		bi := base.Offset(dst.X, dst.Y+row)
		oi := overlay.Offset(src.Min.X, src.Min.Y+row)
		for col := 0; col < src.Dx(); col++ {
			a := float64(overlay.Pix[oi+3]) / 255.0 * alpha
			inv := 1.0 - a
			for c := 0; c < 3; c++ {
				v := a*float64(overlay.Pix[oi+c]) + inv*float64(base.Pix[bi+c])
				base.Pix[bi+c] = truncate(v)
			}
			bi += bc
			oi += oc
		}
	}
}

func weighted(base, overlay *frame.Frame, src image.Rectangle, dst image.Point, alpha float64) {
	bc, oc := base.Channels, overlay.Channels
	beta := 1.0 - alpha
	for row := 0; row < src.Dy(); row++ {
		bi := base.Offset(dst.X, dst.Y+row)
		oi := overlay.Offset(src.Min.X, src.Min.Y+row)
		for col := 0; col < src.Dx(); col++ {
			for c := 0; c < 3; c++ {
				v := float64(overlay.Pix[oi+c])*alpha + float64(base.Pix[bi+c])*beta
				base.Pix[bi+c] = saturate(v)
			}
			bi += bc
			oi += oc
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func truncate(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

func saturate(v float64) uint8 {
	return truncate(math.RoundToEven(v))
}
