package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"cgplayout/pkg/asset"
	"cgplayout/pkg/control"
	"cgplayout/pkg/feed"
	"cgplayout/pkg/moderation"
	"cgplayout/pkg/monitor"
	"cgplayout/pkg/monitor/remote"
	"cgplayout/pkg/monitor/usb35"
	"cgplayout/pkg/monitor/virtual"
	"cgplayout/pkg/overlay"
	"cgplayout/pkg/player"
	"cgplayout/pkg/playout"
)

var layoutFile = flag.String("layout", "layout.json", "overlay layout file")
var source = flag.String("source", "", "image sequence directory, empty for test pattern")
var width = flag.Int("width", 1280, "test pattern width")
var height = flag.Int("height", 720, "test pattern height")
var fps = flag.Float64("fps", 25, "frame rate")
var loop = flag.Bool("loop", true, "loop the image sequence")
var display = flag.String("display", "virtual", "serial name, remote addr or virtual")
var light = flag.Uint8("light", 100, "set light")
var landscape = flag.Bool("landscape", true, "set landscape")
var invert = flag.Bool("invert", false, "set invert")
var snapshots = flag.String("snapshots", "", "virtual display snapshot directory")
var snapEvery = flag.Int("snapshot-every", 25, "write every n-th frame as snapshot")
var crawls = flag.StringSlice("crawl", nil, "crawl layer ids that carry the ticker")
var tickerSep = flag.String("ticker-sep", "  |  ", "separator between ticker items")
var tick = flag.Duration("tick", playout.TickInterval, "animation tick interval")
var history = flag.Int("history", 10, "approved messages kept for the ticker")
var assetTimeout = flag.Duration("asset-timeout", 30*time.Second, "remote image download timeout")
var assetCache = flag.Bool("asset-cache", true, "cache decoded images until reload")
var feedURL = flag.String("feed", "", "rss or atom feed url for the ticker")
var feedInterval = flag.Duration("feed-interval", time.Minute, "feed poll interval")
var tgToken = flag.String("tg-token", "", "telegram bot token")
var tgAdmins = flag.Int64Slice("tg-admin", nil, "telegram user ids allowed to operate")
var debug = flag.Bool("debug", false, "set debug")

func main() {
	flag.Parse()

	fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
		fx.Provide(
			newLogger,
			func() afero.Fs { return afero.NewOsFs() },
			newAssets,
			func(loader *asset.Loader, logger *zap.Logger) *overlay.Manager {
				return overlay.New(logger, overlay.WithAssets(loader))
			},
			func(logger *zap.Logger) *moderation.Queue {
				return moderation.NewQueue(logger, moderation.WithHistory(*history))
			},
			newDisplay,
			newPlayer,
			newApp,
		),
		fx.Invoke(
			startApp,
			startFeed,
			startBot,
		),
	).Run()
}

func newLogger() (*zap.Logger, error) {
	if *debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newAssets(fs afero.Fs, logger *zap.Logger) *asset.Loader {
	opts := []asset.Option{asset.WithTimeout(*assetTimeout)}
	if !*assetCache {
		opts = append(opts, asset.WithoutCache())
	}
	if !*debug {
		opts = append(opts, asset.WithoutProgress())
	}
	return asset.NewLoader(fs, logger, opts...)
}

func openDisplay(fs afero.Fs, logger *zap.Logger) (monitor.Display, error) {
	switch {
	case *display == "virtual":
		var opts []virtual.Option
		if *snapshots != "" {
			if err := fs.MkdirAll(*snapshots, 0755); err != nil {
				return nil, err
			}
			opts = append(opts, virtual.WithSnapshots(afero.NewBasePathFs(fs, *snapshots), *snapEvery))
		}
		return virtual.Mock(logger, opts...), nil
	case strings.Contains(*display, ":"):
		return remote.Dial(*display)
	default:
		return usb35.Open(*display, logger)
	}
}

func newDisplay(fs afero.Fs, logger *zap.Logger, lifecycle fx.Lifecycle) (monitor.Display, error) {
	dev, err := openDisplay(fs, logger)
	if err != nil {
		return nil, err
	}

	async := monitor.NewAsync(dev, logger)
	ctx, cancel := context.WithCancel(context.Background())

	lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := dev.Startup(); err != nil {
				return err
			}
			if err := dev.SetLight(*light); err != nil {
				return err
			}
			if err := dev.SetRotate(*landscape, *invert); err != nil {
				return err
			}
			go async.Run(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			logger.With(zap.Uint64("dropped", async.Dropped())).Info("display stopped")
			return dev.Shutdown()
		},
	})

	return async, nil
}

func newPlayer(fs afero.Fs, logger *zap.Logger, lifecycle fx.Lifecycle) (*player.Player, error) {
	var src player.Source = player.NewPattern(*width, *height, *fps)
	if *source != "" {
		seq, err := player.NewSequence(fs, *source, *fps, *loop)
		if err != nil {
			return nil, err
		}
		logger.With(zap.String("dir", *source), zap.Int("frames", seq.Len())).Info("sequence opened")
		src = seq
	}

	p := player.New(logger)
	if err := p.Open(src); err != nil {
		return nil, err
	}

	lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			p.Stop()
			return nil
		},
	})

	return p, nil
}

func newApp(fs afero.Fs, mgr *overlay.Manager, p *player.Player, out monitor.Display, queue *moderation.Queue, logger *zap.Logger) *playout.App {
	app := playout.New(fs, mgr, p, out, logger,
		playout.WithCrawls(*crawls...),
		playout.WithSeparator(*tickerSep),
		playout.WithTickInterval(*tick),
	)
	queue.OnApprove(app.Messages)
	return app
}

func startApp(app *playout.App, logger *zap.Logger, lifecycle fx.Lifecycle) {
	ctx, cancel := context.WithCancel(context.Background())

	lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := app.LoadLayout(*layoutFile); err != nil {
				logger.With(zap.String("layout", *layoutFile), zap.Error(err)).Warn("layout incomplete")
			}
			go app.Run(ctx)
			return app.Player().Play()
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func startFeed(app *playout.App, logger *zap.Logger, lifecycle fx.Lifecycle) {
	if *feedURL == "" {
		return
	}

	r := feed.NewReader(*feedURL, *feedInterval, logger)
	r.OnUpdate(app.Headlines)
	ctx, cancel := context.WithCancel(context.Background())

	lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go r.Run(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func startBot(app *playout.App, queue *moderation.Queue, lifecycle fx.Lifecycle) {
	if *tgToken == "" {
		return
	}

	bot, err := control.NewBot(*tgToken, *tgAdmins, app, queue)
	if err != nil {
		log.Fatal(err)
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			bot.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			bot.Stop()
			return nil
		},
	})
}
