package playout

import (
	"time"
)

type Option func(a *App)

// WithCrawls names the crawl layers that carry the ticker text.
func WithCrawls(ids ...string) Option {
	return func(a *App) {
		a.crawls = append(a.crawls, ids...)
	}
}

func WithSeparator(sep string) Option {
	return func(a *App) {
		a.separator = sep
	}
}

func WithTickInterval(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.interval = d
		}
	}
}
