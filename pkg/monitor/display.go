package monitor

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"cgplayout/pkg/frame"
)

// Display shows composited frames, typically a small preview screen next to
// the operator.
type Display interface {
	Startup() error
	Shutdown() error

	SetLight(light uint8) error
	SetRotate(landscape bool, invert bool) error

	Show(f *frame.Frame) error
}

func NewAsync(dev Display, logger *zap.Logger) *Async {
	return &Async{
		Display: dev,
		log:     logger,
		wake:    make(chan struct{}, 1),
	}
}

// Async decouples a slow display from the render path. Show only keeps the
// latest frame; Run pushes it to the device, dropping frames the device
// could not keep up with.
type Async struct {
	Display
	l       sync.Mutex
	pending *frame.Frame
	dropped uint64
	wake    chan struct{}
	log     *zap.Logger
}

func (a *Async) Show(f *frame.Frame) error {
	a.l.Lock()
	if a.pending != nil {
		a.dropped++
	}
	a.pending = f
	a.l.Unlock()

	select {
	case a.wake <- struct{}{}:
	default:
	}
	return nil
}

func (a *Async) Dropped() uint64 {
	a.l.Lock()
	defer a.l.Unlock()
	return a.dropped
}

func (a *Async) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.wake:
			a.l.Lock()
			f := a.pending
			a.pending = nil
			a.l.Unlock()

			if f == nil {
				continue
			}
			if err := a.Display.Show(f); err != nil {
				a.log.With(zap.Error(err)).Info("show frame failed")
			}
		}
	}
}
