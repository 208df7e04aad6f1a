package layer

import (
	"time"

	"cgplayout/pkg/chroma"
	"cgplayout/pkg/frame"
)

type ChromaKey struct {
	Color     [3]uint8 // BGR
	Threshold int
	Fit       chroma.Fit
}

// NewChroma keys src over the frame; a nil src draws nothing.
func NewChroma(props Props, src *frame.Frame, key ChromaKey) *Chroma {
	return &Chroma{Props: props, src: src, key: key}
}

type Chroma struct {
	Props
	src *frame.Frame
	key ChromaKey
}

func (c *Chroma) Kind() Kind {
	return KindChroma
}

func (c *Chroma) Key() ChromaKey {
	return c.key
}

func (c *Chroma) Update(time.Duration) error {
	return nil
}

func (c *Chroma) Draw(f *frame.Frame) error {
	if c.src == nil {
		return nil
	}
	chroma.Composite(c.src, f, c.key.Color, c.key.Threshold, c.X, c.Y, c.key.Fit)
	return nil
}
