package asset

import (
	"time"
)

type Option func(l *Loader)

func WithoutCache() Option {
	return func(l *Loader) {
		l.useCache = false
	}
}

func WithoutProgress() Option {
	return func(l *Loader) {
		l.progress = false
	}
}

func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		l.cli.SetTimeout(d)
	}
}
