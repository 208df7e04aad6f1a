package overlay

import (
	"time"

	"cgplayout/pkg/layer"
)

type Option func(m *Manager)

// WithClock replaces the wall clock used for ticks and clock layers.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
		m.env.Now = now
	}
}

func WithAssets(a layer.Assets) Option {
	return func(m *Manager) {
		m.env.Assets = a
	}
}
