package overlay

import (
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"cgplayout/pkg/frame"
	"cgplayout/pkg/layer"
	"cgplayout/pkg/layout"
)

var (
	ErrLayerNotFound = errors.New("layer not found")
	ErrNotText       = errors.New("layer has no settable text")
	ErrNotTimer      = errors.New("layer is not a timer")
)

func New(logger *zap.Logger, opts ...Option) *Manager {
	m := &Manager{
		log: logger,
		now: time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.env.Now == nil {
		m.env.Now = m.now
	}

	return m
}

// Manager owns the layer set. Render and Tick may be called from different
// goroutines; one mutex serialises them with each other and with Configure.
type Manager struct {
	l          sync.Mutex
	slots      []*slot
	configured bool
	lastTick   time.Time

	env layer.Env
	now func() time.Time
	log *zap.Logger
}

type slot struct {
	layer    layer.Layer
	failures uint64
}

// Info is a point in time view of one layer.
type Info struct {
	ID       string
	Kind     layer.Kind
	Visible  bool
	X, Y     int
	Alpha    float64
	Text     string
	Failures uint64
}

// Configure replaces every layer with the ones described by entries. Unknown
// types are skipped. Entries that fail to build are left out and reported in
// the returned error; the rest of the layout is still installed.
func (m *Manager) Configure(entries []layout.Entry) error {
	var errs error
	built := make([]*slot, 0, len(entries))

	for i, e := range entries {
		l, err := layer.Build(e, m.env)
		if errors.Is(err, layer.ErrUnknownType) {
			m.log.With(zap.Int("index", i), zap.String("type", e.Type())).Debug("skip unknown overlay")
			continue
		}
		if err != nil {
			m.log.With(zap.Int("index", i), zap.Error(err)).Info("overlay not loaded")
			errs = multierr.Append(errs, fmt.Errorf("overlay #%d: %w", i, err))
			continue
		}
		built = append(built, &slot{layer: l})
	}

	m.l.Lock()
	m.slots = built
	m.configured = true
	m.l.Unlock()

	m.log.With(zap.Int("layers", len(built)), zap.Int("entries", len(entries))).Debug("configured")
	return errs
}

func (m *Manager) Configured() bool {
	m.l.Lock()
	defer m.l.Unlock()
	return m.configured
}

// Render returns a copy of src with every visible layer drawn in order. src is
// never modified. A layer that fails is skipped for this frame.
func (m *Manager) Render(src *frame.Frame) *frame.Frame {
	if src == nil {
		return nil
	}
	out := src.Clone()

	m.l.Lock()
	defer m.l.Unlock()

	for _, s := range m.slots {
		if !s.layer.Base().Visible {
			continue
		}
		if err := guard(func() error { return s.layer.Draw(out) }); err != nil {
			s.failures++
			m.log.With(zap.String("layer", s.layer.Base().ID), zap.Error(err)).Debug("draw failed")
		}
	}

	return out
}

// Tick advances every layer by the wall clock time since the previous tick.
// The first tick only records the baseline.
func (m *Manager) Tick() {
	m.l.Lock()
	defer m.l.Unlock()

	now := m.now()
	var dt time.Duration
	if !m.lastTick.IsZero() {
		dt = now.Sub(m.lastTick)
		if dt < 0 {
			dt = 0
		}
	}
	m.lastTick = now

	m.update(dt)
}

// TickDelta advances every layer by dt regardless of the wall clock.
func (m *Manager) TickDelta(dt time.Duration) {
	m.l.Lock()
	defer m.l.Unlock()
	m.update(dt)
}

func (m *Manager) update(dt time.Duration) {
	for _, s := range m.slots {
		if err := guard(func() error { return s.layer.Update(dt) }); err != nil {
			s.failures++
			m.log.With(zap.String("layer", s.layer.Base().ID), zap.Error(err)).Debug("update failed")
		}
	}
}

// ForgetAssets drops cached images so the next Configure reads them again.
func (m *Manager) ForgetAssets() {
	if f, ok := m.env.Assets.(interface{ Forget() }); ok {
		f.Forget()
	}
}

func (m *Manager) Layers() []Info {
	m.l.Lock()
	defer m.l.Unlock()

	infos := make([]Info, 0, len(m.slots))
	for _, s := range m.slots {
		p := s.layer.Base()
		info := Info{
			ID:       p.ID,
			Kind:     s.layer.Kind(),
			Visible:  p.Visible,
			X:        p.X,
			Y:        p.Y,
			Alpha:    p.Alpha,
			Failures: s.failures,
		}
		if t, ok := s.layer.(layer.Texter); ok {
			info.Text = t.Text()
		}
		infos = append(infos, info)
	}
	return infos
}

// Apply runs fn on the layer with the given id while holding the lock, so fn
// never races with rendering or ticking.
func (m *Manager) Apply(id string, fn func(l layer.Layer) error) error {
	m.l.Lock()
	defer m.l.Unlock()

	for _, s := range m.slots {
		if s.layer.Base().ID == id {
			return guard(func() error { return fn(s.layer) })
		}
	}
	return errors.Wrap(ErrLayerNotFound, id)
}

func (m *Manager) SetVisible(id string, visible bool) error {
	return m.Apply(id, func(l layer.Layer) error {
		l.Base().Visible = visible
		return nil
	})
}

func (m *Manager) SetText(id string, text string) error {
	return m.Apply(id, func(l layer.Layer) error {
		ts, ok := l.(layer.TextSetter)
		if !ok {
			return ErrNotText
		}
		ts.SetText(text)
		return nil
	})
}

// TimerControl applies fn to a timer layer.
func (m *Manager) TimerControl(id string, fn func(t *layer.Timer)) error {
	return m.Apply(id, func(l layer.Layer) error {
		t, ok := l.(*layer.Timer)
		if !ok {
			return ErrNotTimer
		}
		fn(t)
		return nil
	})
}

func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
