package layer

import (
	"fmt"
	"time"

	"github.com/lestrrat-go/strftime"

	"cgplayout/pkg/frame"
	"cgplayout/pkg/glyph"
)

const DefaultClockFormat = "%H:%M:%S"

// NewClock compiles a strftime pattern; now defaults to time.Now.
func NewClock(props Props, pattern string, style glyph.Style, now func() time.Time) (*Clock, error) {
	f, err := strftime.New(pattern)
	if err != nil {
		return nil, fmt.Errorf("clock format %q: %w", pattern, err)
	}
	if now == nil {
		now = time.Now
	}

	c := &Clock{Props: props, caption: newCaption("", style), pattern: pattern, format: f, now: now}
	c.label.SetText(f.FormatString(now()))
	return c, nil
}

type Clock struct {
	Props
	caption
	pattern string
	format  *strftime.Strftime
	now     func() time.Time
}

func (c *Clock) Kind() Kind {
	return KindClock
}

func (c *Clock) Pattern() string {
	return c.pattern
}

func (c *Clock) Update(time.Duration) error {
	c.label.SetText(c.format.FormatString(c.now()))
	return nil
}

func (c *Clock) Draw(f *frame.Frame) error {
	return c.drawAt(f, c.X, c.Y)
}
