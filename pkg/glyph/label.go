package glyph

import (
	"image"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"cgplayout/pkg/blend"
	"cgplayout/pkg/frame"
)

type Style struct {
	Scale     float64
	Color     [3]uint8 // BGR
	Thickness int
}

// Upper bounds for a style. Larger values would rasterise masks far bigger
// than any frame.
const (
	MaxScale     = 16.0
	MaxThickness = 32
)

func DefaultStyle() Style {
	return Style{Scale: 1.0, Color: [3]uint8{255, 255, 255}, Thickness: 2}
}

// Label renders one line of text as an opaque bitmap with its baseline at the
// draw position. The rasterised mask is kept until the text or style changes.
type Label struct {
	face   font.Face
	text   string
	style  Style
	mask   *image.Alpha
	ascent int
	dirty  bool
}

func NewLabel(text string, style Style) *Label {
	if style.Scale <= 0 {
		style.Scale = 1
	}
	if style.Thickness < 1 {
		style.Thickness = 1
	}
	return &Label{face: basicfont.Face7x13, text: text, style: style, dirty: true}
}

func (l *Label) Text() string {
	return l.text
}

func (l *Label) SetText(text string) {
	if text == l.text {
		return
	}
	l.text = text
	l.dirty = true
}

func (l *Label) Style() Style {
	return l.style
}

// width is the rendered width in pixels.
func (l *Label) width() int {
	l.rasterise()
	if l.mask == nil {
		return 0
	}
	return l.mask.Rect.Dx()
}

func (l *Label) Draw(f *frame.Frame, x, y int) {
	l.rasterise()
	if l.mask == nil || f.Empty() {
		return
	}

	top := y - l.ascent
	src, dst, ok := blend.Clip(f, l.mask.Rect.Dx(), l.mask.Rect.Dy(), x, top)
	if !ok {
		return
	}

	c := l.style.Color
	for row := 0; row < src.Dy(); row++ {
		mi := l.mask.PixOffset(src.Min.X, src.Min.Y+row)
		fi := f.Offset(dst.X, dst.Y+row)
		for col := 0; col < src.Dx(); col++ {
			if l.mask.Pix[mi] != 0 {
				f.Pix[fi], f.Pix[fi+1], f.Pix[fi+2] = c[0], c[1], c[2]
			}
			mi++
			fi += f.Channels
		}
	}
}

func (l *Label) rasterise() {
	if !l.dirty {
		return
	}
	l.dirty = false
	l.mask = nil

	m := l.face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	w := font.MeasureString(l.face, l.text).Ceil()
	if w <= 0 {
		return
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, ascent+descent))
	d := font.Drawer{Dst: mask, Src: image.Opaque, Face: l.face, Dot: fixed.P(0, ascent)}
	d.DrawString(l.text)

	if s := l.style.Scale; s != 1 {
		sw, sh := scaled(w, s), scaled(ascent+descent, s)
		big := image.NewAlpha(image.Rect(0, 0, sw, sh))
		xdraw.NearestNeighbor.Scale(big, big.Rect, mask, mask.Rect, xdraw.Src, nil)
		mask = big
		ascent = scaled(ascent, s)
	}

	l.mask = embolden(mask, l.style.Thickness-1)
	l.ascent = ascent
}

func scaled(v int, s float64) int {
	n := int(float64(v)*s + 0.5)
	if n < 1 {
		n = 1
	}
	return n
}

// embolden grows every set pixel by n pixels to the right and down.
func embolden(src *image.Alpha, n int) *image.Alpha {
	if n <= 0 {
		return src
	}

	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewAlpha(image.Rect(0, 0, w+n, h+n))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if src.Pix[src.PixOffset(x, y)] == 0 {
				continue
			}
			for dy := 0; dy <= n; dy++ {
				i := dst.PixOffset(x, y+dy)
				for dx := 0; dx <= n; dx++ {
					dst.Pix[i+dx] = 0xFF
				}
			}
		}
	}
	return dst
}
