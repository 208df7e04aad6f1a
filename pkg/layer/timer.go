package layer

import (
	"fmt"
	"math"
	"time"

	"cgplayout/pkg/frame"
	"cgplayout/pkg/glyph"
)

// NewTimer counts down from duration seconds, shown as MM:SS.
func NewTimer(props Props, duration float64, running bool, style glyph.Style) *Timer {
	t := &Timer{Props: props, caption: newCaption("", style), duration: duration, running: running}
	t.refresh()
	return t
}

type Timer struct {
	Props
	caption
	duration float64
	running  bool
	elapsed  time.Duration
}

func (t *Timer) Kind() Kind {
	return KindTimer
}

func (t *Timer) Running() bool {
	return t.running
}

func (t *Timer) Elapsed() time.Duration {
	return t.elapsed
}

// Remaining is the whole seconds left, never negative.
func (t *Timer) Remaining() int {
	r := t.duration - math.Floor(t.elapsed.Seconds())
	if r <= 0 {
		return 0
	}
	return int(r)
}

func (t *Timer) Start() {
	t.running = true
}

func (t *Timer) Stop() {
	t.running = false
}

func (t *Timer) Reset() {
	t.elapsed = 0
	t.refresh()
}

func (t *Timer) Update(dt time.Duration) error {
	if t.running && dt > 0 {
		t.elapsed += dt
	}
	t.refresh()
	return nil
}

func (t *Timer) refresh() {
	r := t.Remaining()
	t.label.SetText(fmt.Sprintf("%02d:%02d", r/60, r%60))
}

func (t *Timer) Draw(f *frame.Frame) error {
	return t.drawAt(f, t.X, t.Y)
}
