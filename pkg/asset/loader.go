package asset

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/go-resty/resty/v2"
	"github.com/inhies/go-bytesize"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"cgplayout/pkg/frame"
)

var ErrEmptyPath = errors.New("empty asset path")

// Request describes how an image is turned into an overlay buffer.
type Request struct {
	Path string
	// KeepAlpha keeps a transparency channel when the image has one.
	KeepAlpha bool
	// Width and Height resize the image; zero keeps the aspect ratio.
	Width  int
	Height int
}

func (r Request) key() string {
	return fmt.Sprintf("%s|%t|%dx%d", r.Path, r.KeepAlpha, r.Width, r.Height)
}

func NewLoader(fs afero.Fs, logger *zap.Logger, opts ...Option) *Loader {
	l := &Loader{
		fs:       fs,
		cli:      resty.New().SetDoNotParseResponse(true),
		log:      logger,
		cache:    make(map[string]*frame.Frame),
		useCache: true,
		progress: true,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Loader decodes overlay images from a filesystem or over http, caching the
// decoded buffers. Cached buffers are shared and must be treated as read only.
type Loader struct {
	sync.Mutex
	fs       afero.Fs
	cli      *resty.Client
	log      *zap.Logger
	cache    map[string]*frame.Frame
	useCache bool
	progress bool
}

func (l *Loader) Load(req Request) (*frame.Frame, error) {
	if strings.TrimSpace(req.Path) == "" {
		return nil, ErrEmptyPath
	}

	if l.useCache {
		l.Lock()
		f, ok := l.cache[req.key()]
		l.Unlock()
		if ok {
			return f, nil
		}
	}

	bs, err := l.read(req.Path)
	if err != nil {
		return nil, fmt.Errorf("load image %s failed: %w", req.Path, err)
	}

	img, err := imaging.Decode(bytes.NewReader(bs), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image %s failed: %w", req.Path, err)
	}

	if req.Width > 0 || req.Height > 0 {
		img = imaging.Resize(img, req.Width, req.Height, imaging.Lanczos)
	}

	f := frame.FromImage(img, req.KeepAlpha)

	l.log.With(
		zap.String("path", req.Path),
		zap.Int("w", f.Width),
		zap.Int("h", f.Height),
		zap.Int("channels", f.Channels),
		zap.String("size", bytesize.New(float64(f.Size())).String()),
	).Debug("asset decoded")

	if l.useCache {
		l.Lock()
		l.cache[req.key()] = f
		l.Unlock()
	}

	return f, nil
}

// Forget drops all cached buffers so the next load reads the source again.
func (l *Loader) Forget() {
	l.Lock()
	defer l.Unlock()
	l.cache = make(map[string]*frame.Frame)
}

func (l *Loader) read(path string) ([]byte, error) {
	if isRemote(path) {
		return l.download(path)
	}
	return afero.ReadFile(l.fs, path)
}

func isRemote(path string) bool {
	p := strings.ToLower(path)
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}

func (l *Loader) download(url string) ([]byte, error) {
	resp, err := l.cli.R().Get(url)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = resp.RawBody().Close()
	}()

	if resp.StatusCode() >= 400 {
		return nil, errors.Errorf("unexpected status %d", resp.StatusCode())
	}

	var buf bytes.Buffer
	var w io.Writer = &buf
	if l.progress {
		bar := progressbar.DefaultBytes(resp.RawResponse.ContentLength, fmt.Sprintf("Downloading %s", url))
		w = io.MultiWriter(&buf, bar)
	}

	if _, err := io.Copy(w, resp.RawBody()); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
