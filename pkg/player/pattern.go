package player

import (
	"cgplayout/pkg/frame"
)

// bars are the seven color bars, BGR.
var bars = [][3]uint8{
	{192, 192, 192},
	{0, 192, 192},
	{192, 192, 0},
	{0, 192, 0},
	{192, 0, 192},
	{0, 0, 192},
	{192, 0, 0},
}

// NewPattern is an endless color bar source with a marker column sweeping
// across it, for running without a decoder.
func NewPattern(width, height int, fps float64) *Pattern {
	return &Pattern{width: width, height: height, fps: fps}
}

type Pattern struct {
	width  int
	height int
	fps    float64
	n      int
}

func (p *Pattern) FPS() float64 {
	return p.fps
}

func (p *Pattern) Close() error {
	return nil
}

func (p *Pattern) Next() (*frame.Frame, error) {
	f := frame.New(p.width, p.height, 3)

	for x := 0; x < p.width; x++ {
		c := bars[x*len(bars)/p.width]
		for y := 0; y < p.height; y++ {
			f.SetBGR(x, y, c[0], c[1], c[2])
		}
	}

	if p.width > 0 {
		mx := p.n % p.width
		for y := 0; y < p.height; y++ {
			f.SetBGR(mx, y, 255, 255, 255)
		}
	}

	p.n++
	return f, nil
}
