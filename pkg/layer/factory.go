package layer

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/xid"
	"go.uber.org/multierr"

	"cgplayout/pkg/asset"
	"cgplayout/pkg/chroma"
	"cgplayout/pkg/frame"
	"cgplayout/pkg/glyph"
	"cgplayout/pkg/layout"
)

var (
	ErrUnknownType  = errors.New("unknown layer type")
	ErrMissingPath  = errors.New("image layer requires a path")
	ErrNegativeRate = errors.New("crawl speed must not be negative")
	ErrStyleRange   = errors.New("text style out of range")
)

// Assets resolves image paths referenced by a layout.
type Assets interface {
	Load(req asset.Request) (*frame.Frame, error)
}

// Env carries what factories need beyond the entry itself.
type Env struct {
	Assets Assets
	Now    func() time.Time
}

type Factory func(e layout.Entry, env Env) (Layer, error)

var factories = map[Kind]Factory{
	KindText:   buildText,
	KindImage:  buildImage,
	KindCrawl:  buildCrawl,
	KindClock:  buildClock,
	KindTimer:  buildTimer,
	KindChroma: buildChroma,
}

// Build constructs the layer an entry describes. Entries with a type no
// factory handles return ErrUnknownType.
func Build(e layout.Entry, env Env) (Layer, error) {
	f, ok := factories[Kind(e.Type())]
	if !ok {
		return nil, ErrUnknownType
	}

	l, err := f(e, env)
	if err != nil {
		return nil, fmt.Errorf("%s layer: %w", e.Type(), err)
	}
	return l, nil
}

// fields reads an entry, collecting every field error.
type fields struct {
	e   layout.Entry
	err error
}

func (r *fields) intOr(key string, def int) int {
	v, err := r.e.Int(key, def)
	r.err = multierr.Append(r.err, err)
	return v
}

func (r *fields) floatOr(key string, def float64) float64 {
	v, err := r.e.Float(key, def)
	r.err = multierr.Append(r.err, err)
	return v
}

func (r *fields) strOr(key string, def string) string {
	v, err := r.e.String(key, def)
	r.err = multierr.Append(r.err, err)
	return v
}

func (r *fields) boolOr(key string, def bool) bool {
	v, err := r.e.Bool(key, def)
	r.err = multierr.Append(r.err, err)
	return v
}

func (r *fields) colorOr(key string, def [3]uint8) [3]uint8 {
	v, err := r.e.Color(key, def)
	r.err = multierr.Append(r.err, err)
	return v
}

func (r *fields) props(x, y int) Props {
	id := r.strOr("id", "")
	if id == "" {
		id = xid.New().String()
	}
	return Props{
		ID:      id,
		Visible: r.boolOr("visible", true),
		X:       r.intOr("x", x),
		Y:       r.intOr("y", y),
		Alpha:   r.floatOr("alpha", 1.0),
	}
}

func (r *fields) style() glyph.Style {
	def := glyph.DefaultStyle()
	s := glyph.Style{
		Scale:     r.floatOr("scale", def.Scale),
		Color:     r.colorOr("color", def.Color),
		Thickness: r.intOr("thickness", def.Thickness),
	}
	if !(s.Scale > 0 && s.Scale <= glyph.MaxScale) {
		r.err = multierr.Append(r.err, errors.Wrapf(ErrStyleRange, "scale %v", s.Scale))
	}
	if s.Thickness < 1 || s.Thickness > glyph.MaxThickness {
		r.err = multierr.Append(r.err, errors.Wrapf(ErrStyleRange, "thickness %d", s.Thickness))
	}
	return s
}

func buildText(e layout.Entry, _ Env) (Layer, error) {
	r := &fields{e: e}
	props := r.props(10, 40)
	text := r.strOr("text", "")
	style := r.style()
	if r.err != nil {
		return nil, r.err
	}
	return NewText(props, text, style), nil
}

func buildImage(e layout.Entry, env Env) (Layer, error) {
	r := &fields{e: e}
	props := r.props(0, 0)
	req := asset.Request{
		Path:      r.strOr("path", ""),
		KeepAlpha: true,
		Width:     r.intOr("width", 0),
		Height:    r.intOr("height", 0),
	}
	if r.err != nil {
		return nil, r.err
	}
	if req.Path == "" {
		return nil, ErrMissingPath
	}

	img, err := load(env, req)
	if err != nil {
		return nil, err
	}
	return NewImage(props, img), nil
}

func buildCrawl(e layout.Entry, _ Env) (Layer, error) {
	r := &fields{e: e}
	props := r.props(0, 600)
	text := r.strOr("text", "")
	speed := r.floatOr("speed", 100)
	area := r.intOr("area_width", 2000)
	style := r.style()
	if r.err != nil {
		return nil, r.err
	}
	if speed < 0 {
		return nil, ErrNegativeRate
	}
	if area+crawlRunout <= 0 {
		return nil, ErrCrawlTravel
	}
	return NewCrawl(props, text, speed, area, style), nil
}

func buildClock(e layout.Entry, env Env) (Layer, error) {
	r := &fields{e: e}
	props := r.props(1000, 40)
	pattern := r.strOr("fmt", DefaultClockFormat)
	style := r.style()
	if r.err != nil {
		return nil, r.err
	}
	return NewClock(props, pattern, style, env.Now)
}

func buildTimer(e layout.Entry, _ Env) (Layer, error) {
	r := &fields{e: e}
	props := r.props(10, 40)
	duration := r.floatOr("duration", 300)
	running := r.boolOr("running", false)
	style := r.style()
	if r.err != nil {
		return nil, r.err
	}
	return NewTimer(props, duration, running, style), nil
}

func buildChroma(e layout.Entry, env Env) (Layer, error) {
	r := &fields{e: e}
	props := r.props(0, 0)
	key := ChromaKey{
		Color:     r.colorOr("key_color", [3]uint8{0, 255, 0}),
		Threshold: r.intOr("threshold", 60),
	}
	source := r.strOr("source", "")
	fit := r.strOr("fit", "clip")
	w, h := r.intOr("width", 0), r.intOr("height", 0)
	if r.err != nil {
		return nil, r.err
	}

	var err error
	if key.Fit, err = chroma.ParseFit(fit); err != nil {
		return nil, err
	}

	var src *frame.Frame
	if source != "" {
		if src, err = load(env, asset.Request{Path: source, Width: w, Height: h}); err != nil {
			return nil, err
		}
	}
	return NewChroma(props, src, key), nil
}

func load(env Env, req asset.Request) (*frame.Frame, error) {
	if env.Assets == nil {
		return nil, errors.Errorf("no asset loader for %s", req.Path)
	}
	return env.Assets.Load(req)
}
