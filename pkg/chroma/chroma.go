package chroma

import (
	"strings"

	"github.com/pkg/errors"

	"cgplayout/pkg/blend"
	"cgplayout/pkg/frame"
)

// Fit decides what happens when the foreground does not fit the background.
type Fit int

const (
	// Clip truncates the foreground to the visible part of the background.
	Clip Fit = iota
	// Strict draws nothing unless the whole foreground fits.
	Strict
)

func ParseFit(s string) (Fit, error) {
	switch strings.ToLower(s) {
	case "", "clip":
		return Clip, nil
	case "strict":
		return Strict, nil
	}
	return Clip, errors.Errorf("unknown fit %q", s)
}

func (f Fit) String() string {
	if f == Strict {
		return "strict"
	}
	return "clip"
}

// Composite places fg over bg at (x, y) in place, letting bg show through
// wherever fg matches the key color. The mask is binary.
//
// threshold is carried for configuration compatibility; the hue window is
// fixed, see Window.
func Composite(fg, bg *frame.Frame, key [3]uint8, threshold int, x, y int, fit Fit) *frame.Frame {
	if fg.Empty() || bg.Empty() || fg.Channels < 3 || bg.Channels < 3 {
		return bg
	}
	if fit == Strict && (x < 0 || y < 0 || x+fg.Width > bg.Width || y+fg.Height > bg.Height) {
		return bg
	}

	src, dst, ok := blend.Clip(bg, fg.Width, fg.Height, x, y)
	if !ok {
		return bg
	}

	lo, hi := Window(key)
	for row := 0; row < src.Dy(); row++ {
		fi := fg.Offset(src.Min.X, src.Min.Y+row)
		bi := bg.Offset(dst.X, dst.Y+row)
		for col := 0; col < src.Dx(); col++ {
			b, g, r := fg.Pix[fi], fg.Pix[fi+1], fg.Pix[fi+2]
			if !ToHSV(b, g, r).In(lo, hi) {
				bg.Pix[bi], bg.Pix[bi+1], bg.Pix[bi+2] = b, g, r
			}
			fi += fg.Channels
			bi += bg.Channels
		}
	}

	return bg
}
