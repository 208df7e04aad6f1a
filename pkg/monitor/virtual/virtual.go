package virtual

import (
	"fmt"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"cgplayout/pkg/frame"
	"cgplayout/pkg/monitor"
)

// Mock is a display that only logs. With a snapshot filesystem it also writes
// every n-th frame as a PNG file.
func Mock(logger *zap.Logger, opts ...Option) *Mocker {
	m := &Mocker{l: logger}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var _ monitor.Display = (*Mocker)(nil)

type Option func(m *Mocker)

func WithSnapshots(fs afero.Fs, every int) Option {
	return func(m *Mocker) {
		m.fs = fs
		m.every = every
	}
}

type Mocker struct {
	sync.Mutex
	l     *zap.Logger
	fs    afero.Fs
	every int
	shown int
}

func (m *Mocker) Startup() error {
	m.l.Info("startup")
	return nil
}

func (m *Mocker) Shutdown() error {
	m.l.Info("shutdown")
	return nil
}

func (m *Mocker) SetLight(light uint8) error {
	m.l.With(zap.Uint8("light", light)).Info("set-light")
	return nil
}

func (m *Mocker) SetRotate(landscape bool, invert bool) error {
	m.l.With(zap.Bool("landscape", landscape), zap.Bool("invert", invert)).Info("set-rotate")
	return nil
}

func (m *Mocker) Shown() int {
	m.Lock()
	defer m.Unlock()
	return m.shown
}

func (m *Mocker) Show(f *frame.Frame) error {
	m.Lock()
	n := m.shown
	m.shown++
	m.Unlock()

	m.l.With(
		zap.Int("n", n),
		zap.Int("w", f.Width),
		zap.Int("h", f.Height),
	).Debug("show")

	if m.fs == nil || m.every <= 0 || n%m.every != 0 {
		return nil
	}

	name := fmt.Sprintf("frame-%06d.png", n)
	w, err := m.fs.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		_ = w.Close()
	}()

	return imaging.Encode(w, f.ToImage(), imaging.PNG)
}
