package player

import (
	"time"

	"cgplayout/pkg/frame"
)

type Option func(p *Player)

// WithIdle sets how often a paused player checks whether to resume.
func WithIdle(d time.Duration) Option {
	return func(p *Player) {
		p.idle = d
	}
}

func WithFrameCallback(fn func(f *frame.Frame)) Option {
	return func(p *Player) {
		p.onFrame = fn
	}
}
