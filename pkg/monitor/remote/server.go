package remote

import (
	"bytes"
	"context"
	"net/http"
	"net/rpc"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"cgplayout/pkg/frame"
	"cgplayout/pkg/monitor"
)

var ErrUnknownCommand = errors.New("unknown command")

// Handler exposes dev as an rpc endpoint reachable through Dial.
func Handler(dev monitor.Display) (http.Handler, error) {
	rs := rpc.NewServer()
	if err := rs.Register(NewService(dev)); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle(rpc.DefaultRPCPath, rs)
	return mux, nil
}

// Proxy serves dev over net/rpc on srv for the lifetime of the fx app.
func Proxy(dev monitor.Display, srv *http.Server, logger *zap.Logger, lifecycle fx.Lifecycle) error {
	h, err := Handler(dev)
	if err != nil {
		return err
	}
	srv.Handler = h

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != http.ErrServerClosed {
					logger.With(zap.Error(err)).Error("serve failed")
				}
			}()
			logger.With(zap.String("addr", srv.Addr)).Info("display proxy listening")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return nil
}

func NewService(dev monitor.Display) *Service {
	return &Service{dev: dev}
}

type Service struct {
	dev monitor.Display
}

func (s *Service) Command(name string, _ *EmptyResponse) error {
	switch name {
	case "startup":
		return s.dev.Startup()
	case "shutdown":
		return s.dev.Shutdown()
	}

	return errors.Wrap(ErrUnknownCommand, name)
}

func (s *Service) SetLight(light uint8, _ *EmptyResponse) error {
	return s.dev.SetLight(light)
}

func (s *Service) SetRotate(req SetRotateRequest, _ *EmptyResponse) error {
	return s.dev.SetRotate(req.Landscape, req.Invert)
}

func (s *Service) Show(req *ShowRequest, _ *EmptyResponse) error {
	img, err := imaging.Decode(bytes.NewReader(req.Image))
	if err != nil {
		return err
	}

	return s.dev.Show(frame.FromImage(img, false))
}
