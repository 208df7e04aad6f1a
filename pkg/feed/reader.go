package feed

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
)

// MaxItems is how many titles a poll keeps.
const MaxItems = 20

type Hook func(titles []string)

func NewReader(url string, interval time.Duration, logger *zap.Logger) *Reader {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Reader{
		url:      url,
		interval: interval,
		cli:      resty.New().SetTimeout(30 * time.Second),
		log:      logger,
	}
}

type Reader struct {
	sync.Mutex
	url      string
	interval time.Duration
	cli      *resty.Client
	log      *zap.Logger
	items    []string
	hooks    []Hook
}

func (r *Reader) OnUpdate(fn Hook) {
	r.Lock()
	defer r.Unlock()
	r.hooks = append(r.hooks, fn)
}

func (r *Reader) Items() []string {
	r.Lock()
	defer r.Unlock()
	return append([]string(nil), r.items...)
}

// Fetch polls the feed once. On failure the previous titles are kept.
func (r *Reader) Fetch(ctx context.Context) error {
	resp, err := r.cli.R().SetContext(ctx).Get(r.url)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("fetch feed failed: %s", resp.Status())
	}

	titles, err := Parse(resp.Body())
	if err != nil {
		return fmt.Errorf("parse feed failed: %w", err)
	}

	r.Lock()
	r.items = titles
	hooks := append([]Hook(nil), r.hooks...)
	r.Unlock()

	for _, fn := range hooks {
		fn(titles)
	}
	return nil
}

// Run polls until ctx is done.
func (r *Reader) Run(ctx context.Context) {
	tick := time.NewTicker(r.interval)
	defer tick.Stop()

	for {
		if err := r.Fetch(ctx); err != nil && ctx.Err() == nil {
			r.log.With(zap.String("url", r.url), zap.Error(err)).Warn("feed poll failed")
		}

		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}
	}
}

// Parse extracts item titles from an RSS, Atom or JSON feed document.
func Parse(body []byte) ([]string, error) {
	f, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, MaxItems)
	for _, item := range f.Items {
		if len(titles) == MaxItems {
			break
		}
		if t := strings.TrimSpace(item.Title); t != "" {
			titles = append(titles, t)
		}
	}
	return titles, nil
}
