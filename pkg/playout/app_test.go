package playout

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cgplayout/pkg/asset"
	"cgplayout/pkg/frame"
	"cgplayout/pkg/layer"
	"cgplayout/pkg/moderation"
	"cgplayout/pkg/monitor/virtual"
	"cgplayout/pkg/overlay"
	"cgplayout/pkg/player"
)

const sample = `{"overlays": [
  {"type": "text", "id": "title", "text": "LIVE", "x": 2, "y": 14},
  {"type": "crawl", "id": "ticker", "text": "placeholder", "y": 30, "speed": 0},
  {"type": "image", "id": "logo"}
]}`

const ticker = `{"overlays": [
  {"type": "text", "id": "title", "text": "LIVE", "x": 2, "y": 14},
  {"type": "crawl", "id": "ticker", "text": "placeholder", "y": 30, "speed": 0}
]}`

func newApp(t *testing.T, opts ...Option) (*App, *virtual.Mocker) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/layout.json", []byte(sample), 0644))
	require.NoError(t, afero.WriteFile(fs, "/ticker.json", []byte(ticker), 0644))

	dev := virtual.Mock(zap.NewNop())
	mgr := overlay.New(zap.NewNop())
	p := player.New(zap.NewNop())
	t.Cleanup(p.Stop)

	return New(fs, mgr, p, dev, zap.NewNop(), opts...), dev
}

func TestLoadLayoutPartial(t *testing.T) {
	a, _ := newApp(t)

	err := a.LoadLayout("/layout.json")
	assert.ErrorIs(t, err, layer.ErrMissingPath)

	layers := a.Manager().Layers()
	require.Len(t, layers, 2)
	assert.Equal(t, "title", layers[0].ID)
	assert.Equal(t, "ticker", layers[1].ID)

	assert.Error(t, a.LoadLayout("/missing.json"))
	assert.Len(t, a.Manager().Layers(), 2)
}

func TestReloadWithoutLayout(t *testing.T) {
	a, _ := newApp(t)
	assert.Error(t, a.Reload())
}

func TestOnFrameShowsComposite(t *testing.T) {
	a, dev := newApp(t)
	_ = a.LoadLayout("/layout.json")

	src := frame.New(64, 40, 3)
	a.OnFrame(src)
	assert.Equal(t, 1, dev.Shown())

	for _, v := range src.Pix {
		require.Zero(t, v)
	}
}

func TestTickerText(t *testing.T) {
	a, _ := newApp(t, WithCrawls("ticker", "absent"), WithSeparator(" / "))
	require.NoError(t, a.LoadLayout("/ticker.json"))

	q := moderation.NewQueue(zap.NewNop(), moderation.WithHook(a.Messages))
	m, err := q.Enqueue("viewer", "hello studio")
	require.NoError(t, err)
	_, err = q.Approve(m.ID)
	require.NoError(t, err)

	a.Headlines([]string{"Markets up", "Rain later"})
	assert.Equal(t, "hello studio / Markets up / Rain later", a.TickerText())

	assert.Equal(t, a.TickerText(), crawlText(a, "ticker"))

	require.NoError(t, a.Reload())
	assert.Equal(t, a.TickerText(), crawlText(a, "ticker"))
}

func crawlText(a *App, id string) string {
	for _, info := range a.Manager().Layers() {
		if info.ID == id {
			return info.Text
		}
	}
	return ""
}

func TestTickerFallsBackToLayoutText(t *testing.T) {
	a, _ := newApp(t, WithCrawls("ticker"))
	require.NoError(t, a.LoadLayout("/ticker.json"))

	a.Headlines([]string{"Markets up"})
	assert.Equal(t, "Markets up", crawlText(a, "ticker"))

	a.Headlines(nil)
	assert.Equal(t, "", a.TickerText())
	assert.Equal(t, "placeholder", crawlText(a, "ticker"))
}

func writePNG(t *testing.T, fs afero.Fs, name string, c color.NRGBA) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	draw.Draw(img, img.Rect, image.NewUniform(c), image.Point{}, draw.Src)

	w, err := fs.Create(name)
	require.NoError(t, err)
	require.NoError(t, imaging.Encode(w, img, imaging.PNG))
	require.NoError(t, w.Close())
}

func TestReloadReadsImagesAgain(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/logo.json",
		[]byte(`{"overlays": [{"type": "image", "id": "logo", "path": "/logo.png"}]}`), 0644))
	writePNG(t, fs, "/logo.png", color.NRGBA{R: 255, A: 255})

	loader := asset.NewLoader(fs, zap.NewNop(), asset.WithoutProgress())
	mgr := overlay.New(zap.NewNop(), overlay.WithAssets(loader))
	p := player.New(zap.NewNop())
	t.Cleanup(p.Stop)
	a := New(fs, mgr, p, virtual.Mock(zap.NewNop()), zap.NewNop())

	require.NoError(t, a.LoadLayout("/logo.json"))
	b, g, r := mgr.Render(frame.New(4, 4, 3)).BGR(0, 0)
	assert.Equal(t, [3]uint8{0, 0, 255}, [3]uint8{b, g, r})

	writePNG(t, fs, "/logo.png", color.NRGBA{B: 255, A: 255})
	require.NoError(t, a.Reload())
	b, g, r = mgr.Render(frame.New(4, 4, 3)).BGR(0, 0)
	assert.Equal(t, [3]uint8{255, 0, 0}, [3]uint8{b, g, r})
}

func TestRunStopsWithContext(t *testing.T) {
	a, _ := newApp(t, WithTickInterval(time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		a.Run(ctx)
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("run did not stop")
	}
}
