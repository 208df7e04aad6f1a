package playout

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"cgplayout/pkg/frame"
	"cgplayout/pkg/layout"
	"cgplayout/pkg/moderation"
	"cgplayout/pkg/monitor"
	"cgplayout/pkg/overlay"
	"cgplayout/pkg/player"
)

const TickInterval = 100 * time.Millisecond

func New(fs afero.Fs, mgr *overlay.Manager, p *player.Player, out monitor.Display, logger *zap.Logger, opts ...Option) *App {
	a := &App{
		fs:        fs,
		mgr:       mgr,
		player:    p,
		out:       out,
		log:       logger,
		separator: "  |  ",
		interval:  TickInterval,
	}

	for _, opt := range opts {
		opt(a)
	}

	p.SetFrameCallback(a.OnFrame)
	return a
}

// App connects the playback source, the overlay manager and the preview
// display, and feeds moderated messages and headlines to the crawl layers.
type App struct {
	fs     afero.Fs
	mgr    *overlay.Manager
	player *player.Player
	out    monitor.Display
	log    *zap.Logger

	crawls    []string
	separator string
	interval  time.Duration

	l         sync.Mutex
	path      string
	messages  []string
	headlines []string
	// layout text of each crawl, shown while there is nothing to tick
	fallback map[string]string
}

func (a *App) Manager() *overlay.Manager {
	return a.mgr
}

func (a *App) Player() *player.Player {
	return a.player
}

// LoadLayout reads a layout file and installs its overlays. Layers that fail
// to build are reported in the returned error; the rest stay installed.
func (a *App) LoadLayout(path string) error {
	l, err := layout.Load(a.fs, path)
	if err != nil {
		return err
	}

	fallback := make(map[string]string)
	for _, e := range l.Overlays {
		id, _ := e.String("id", "")
		if lo.Contains(a.crawls, id) {
			fallback[id], _ = e.String("text", "")
		}
	}

	a.l.Lock()
	a.path = path
	a.fallback = fallback
	a.l.Unlock()

	err = a.mgr.Configure(l.Overlays)
	a.log.With(
		zap.String("path", path),
		zap.Int("overlays", len(l.Overlays)),
		zap.Int("layers", len(a.mgr.Layers())),
	).Info("layout loaded")

	a.refreshTicker()
	return err
}

// Reload reads the last loaded layout and its images again.
func (a *App) Reload() error {
	a.l.Lock()
	path := a.path
	a.l.Unlock()

	if path == "" {
		return fmt.Errorf("no layout loaded")
	}
	a.mgr.ForgetAssets()
	return a.LoadLayout(path)
}

// OnFrame composites f and sends the result to the display.
func (a *App) OnFrame(f *frame.Frame) {
	out := a.mgr.Render(f)
	if err := a.out.Show(out); err != nil {
		a.log.With(zap.Error(err)).Info("show frame failed")
	}
}

// Run advances the animations until ctx is done.
func (a *App) Run(ctx context.Context) {
	tick := time.NewTicker(a.interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			a.mgr.Tick()
		}
	}
}

// Messages is the approve hook of the moderation queue.
func (a *App) Messages(approved []moderation.Message) {
	a.l.Lock()
	a.messages = lo.Map(approved, func(m moderation.Message, _ int) string {
		return m.Text
	})
	a.l.Unlock()

	a.refreshTicker()
}

// Headlines is the update hook of the feed reader.
func (a *App) Headlines(titles []string) {
	a.l.Lock()
	a.headlines = append([]string(nil), titles...)
	a.l.Unlock()

	a.refreshTicker()
}

// TickerText is the composed ticker, empty while there is nothing to show.
func (a *App) TickerText() string {
	a.l.Lock()
	defer a.l.Unlock()

	parts := append(append([]string(nil), a.messages...), a.headlines...)
	return strings.Join(parts, a.separator)
}

func (a *App) refreshTicker() {
	if len(a.crawls) == 0 {
		return
	}

	text := a.TickerText()

	a.l.Lock()
	fallback := a.fallback
	a.l.Unlock()

	for _, id := range a.crawls {
		t := text
		if t == "" {
			t = fallback[id]
		}
		if err := a.mgr.SetText(id, t); err != nil {
			a.log.With(zap.String("id", id), zap.Error(err)).Debug("update ticker failed")
		}
	}
}
