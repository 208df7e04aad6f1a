package player

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"cgplayout/pkg/frame"
)

var ErrNoSource = errors.New("no source opened")

// Source produces decoded frames. Next returns io.EOF at the end of stream.
type Source interface {
	Next() (*frame.Frame, error)
	FPS() float64
	Close() error
}

func New(logger *zap.Logger, opts ...Option) *Player {
	p := &Player{
		log:    logger,
		idle:   50 * time.Millisecond,
		minFPS: 1,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Player pulls frames from a source at its frame rate and hands each one to
// the frame callback from a dedicated goroutine.
type Player struct {
	l       sync.Mutex
	src     Source
	onFrame func(f *frame.Frame)
	playing bool
	stop    chan struct{}
	done    chan struct{}

	idle   time.Duration
	minFPS float64
	log    *zap.Logger
}

func (p *Player) SetFrameCallback(fn func(f *frame.Frame)) {
	p.l.Lock()
	defer p.l.Unlock()
	p.onFrame = fn
}

// Open stops any current playback and switches to src, paused.
func (p *Player) Open(src Source) error {
	if src == nil {
		return ErrNoSource
	}
	p.Stop()

	p.l.Lock()
	defer p.l.Unlock()
	p.src = src
	return nil
}

func (p *Player) Play() error {
	p.l.Lock()
	defer p.l.Unlock()

	if p.src == nil {
		return ErrNoSource
	}
	p.playing = true

	if p.done == nil {
		p.stop = make(chan struct{})
		p.done = make(chan struct{})
		go p.run(p.src, p.stop, p.done)
	}
	return nil
}

func (p *Player) Pause() {
	p.l.Lock()
	defer p.l.Unlock()
	p.playing = false
}

func (p *Player) IsPlaying() bool {
	p.l.Lock()
	defer p.l.Unlock()
	return p.playing
}

// Stop ends playback and closes the source. It must not be called from the
// frame callback.
func (p *Player) Stop() {
	p.l.Lock()
	stop, done, src := p.stop, p.done, p.src
	p.playing = false
	p.stop, p.done, p.src = nil, nil, nil
	p.l.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}

	if src != nil {
		if err := src.Close(); err != nil {
			p.log.With(zap.Error(err)).Info("close source failed")
		}
	}
}

// Done is closed when the current playback loop exits, or nil when idle.
func (p *Player) Done() <-chan struct{} {
	p.l.Lock()
	defer p.l.Unlock()
	return p.done
}

func (p *Player) run(src Source, stop <-chan struct{}, done chan struct{}) {
	fps := src.FPS()
	if fps < p.minFPS {
		fps = p.minFPS
	}
	delay := time.Duration(float64(time.Second) / fps)

	timer := time.NewTimer(time.Nanosecond)
	defer func() {
		timer.Stop()
		close(done)
	}()

	for {
		select {
		case <-stop:
			return
		case <-timer.C:
			if !p.IsPlaying() {
				timer.Reset(p.idle)
				continue
			}

			f, err := src.Next()
			if err != nil {
				if errors.Is(err, io.EOF) {
					p.log.Info("end of stream")
				} else {
					p.log.With(zap.Error(err)).Info("read frame failed")
				}
				p.finished(done)
				return
			}

			p.deliver(f)
			timer.Reset(delay)
		}
	}
}

// finished clears the loop state unless Stop already took it over.
func (p *Player) finished(done chan struct{}) {
	p.l.Lock()
	defer p.l.Unlock()
	if p.done == done {
		p.playing = false
		p.stop, p.done = nil, nil
	}
}

func (p *Player) deliver(f *frame.Frame) {
	p.l.Lock()
	fn := p.onFrame
	p.l.Unlock()

	if fn == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			p.log.With(zap.String("panic", fmt.Sprint(r))).Info("frame callback failed")
		}
	}()
	fn(f)
}
