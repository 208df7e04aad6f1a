package main

import (
	"net/http"

	flag "github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"cgplayout/pkg/monitor"
	"cgplayout/pkg/monitor/remote"
	"cgplayout/pkg/monitor/usb35"
)

var serial = flag.String("serial", "ttyACM0", "serial name")
var listen = flag.String("listen", ":9123", "listen addr")

func main() {
	flag.Parse()

	fx.New(
		fx.Provide(
			func() (*zap.Logger, error) {
				return zap.NewDevelopment()
			},
			func(logger *zap.Logger) (monitor.Display, *http.Server, error) {
				dev, err := usb35.Open(*serial, logger)
				return dev, &http.Server{Addr: *listen}, err
			},
		),
		fx.Invoke(
			remote.Proxy,
		),
	).Run()
}
