package layer

import (
	"time"

	"cgplayout/pkg/frame"
	"cgplayout/pkg/glyph"
)

// caption is the text drawing shared by the text based kinds.
type caption struct {
	label *glyph.Label
}

func newCaption(text string, style glyph.Style) caption {
	return caption{label: glyph.NewLabel(text, style)}
}

func (c *caption) Text() string {
	return c.label.Text()
}

func (c *caption) drawAt(f *frame.Frame, x, y int) error {
	c.label.Draw(f, x, y)
	return nil
}

func NewText(props Props, text string, style glyph.Style) *Text {
	return &Text{Props: props, caption: newCaption(text, style)}
}

type Text struct {
	Props
	caption
}

func (t *Text) Kind() Kind {
	return KindText
}

func (t *Text) SetText(text string) {
	t.label.SetText(text)
}

func (t *Text) Update(time.Duration) error {
	return nil
}

func (t *Text) Draw(f *frame.Frame) error {
	return t.drawAt(f, t.X, t.Y)
}
