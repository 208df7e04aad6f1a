package layer

import (
	"math"
	"time"

	"github.com/pkg/errors"

	"cgplayout/pkg/frame"
	"cgplayout/pkg/glyph"
)

// crawlRunout is the extra travel past the area width before the text wraps.
const crawlRunout = 1000

var ErrCrawlTravel = errors.New("crawl travel distance must be positive")

func NewCrawl(props Props, text string, speed float64, areaWidth int, style glyph.Style) *Crawl {
	return &Crawl{Props: props, caption: newCaption(text, style), speed: speed, areaWidth: areaWidth}
}

// Crawl scrolls its text leftwards at speed pixels per second. The offset
// wraps after areaWidth plus a fixed runout.
type Crawl struct {
	Props
	caption
	speed     float64
	areaWidth int
	offset    float64
}

func (c *Crawl) Kind() Kind {
	return KindCrawl
}

func (c *Crawl) SetText(text string) {
	c.label.SetText(text)
}

func (c *Crawl) Offset() float64 {
	return c.offset
}

func (c *Crawl) Speed() float64 {
	return c.speed
}

func (c *Crawl) Travel() int {
	return c.areaWidth + crawlRunout
}

func (c *Crawl) Update(dt time.Duration) error {
	travel := float64(c.Travel())
	if travel <= 0 {
		return ErrCrawlTravel
	}

	off := math.Mod(c.offset+c.speed*dt.Seconds(), travel)
	if off < 0 {
		off += travel
	}
	c.offset = off
	return nil
}

func (c *Crawl) Draw(f *frame.Frame) error {
	return c.drawAt(f, int(float64(c.X)-c.offset), c.Y)
}
