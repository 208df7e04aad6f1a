package layer

import (
	"time"

	"cgplayout/pkg/frame"
)

type Kind string

const (
	KindText   Kind = "text"
	KindImage  Kind = "image"
	KindCrawl  Kind = "crawl"
	KindClock  Kind = "clock"
	KindTimer  Kind = "timer"
	KindChroma Kind = "chroma"
)

// Props are the attributes every layer shares. X and Y anchor the layer and
// may lie outside the frame. Alpha is clamped only where it is blended.
type Props struct {
	ID      string
	Visible bool
	X       int
	Y       int
	Alpha   float64
}

func (p *Props) Base() *Props {
	return p
}

// Layer is one overlay element. Update advances time driven state, Draw
// composites the layer onto f in place. Neither is safe for concurrent use;
// the owner serialises calls.
type Layer interface {
	Base() *Props
	Kind() Kind
	Update(dt time.Duration) error
	Draw(f *frame.Frame) error
}

// Texter is implemented by layers that show a line of text.
type Texter interface {
	Text() string
}

// TextSetter is implemented by layers whose text is set from outside.
type TextSetter interface {
	SetText(text string)
}
