package remote

import (
	"bytes"
	"net/rpc"

	"github.com/disintegration/imaging"

	"cgplayout/pkg/frame"
	"cgplayout/pkg/monitor"
)

// Dial connects to a display exposed by Proxy.
func Dial(addr string) (monitor.Display, error) {
	client, err := rpc.DialHTTP("tcp", addr)
	if err != nil {
		return nil, err
	}

	return &Client{rpc: client}, nil
}

type Client struct {
	rpc *rpc.Client
}

func (c *Client) Startup() error {
	return c.rpc.Call("Service.Command", "startup", nil)
}

func (c *Client) Shutdown() error {
	return c.rpc.Call("Service.Command", "shutdown", nil)
}

func (c *Client) SetLight(light uint8) error {
	return c.rpc.Call("Service.SetLight", light, nil)
}

func (c *Client) SetRotate(landscape bool, invert bool) error {
	return c.rpc.Call("Service.SetRotate", SetRotateRequest{
		Landscape: landscape,
		Invert:    invert,
	}, nil)
}

func (c *Client) Show(f *frame.Frame) error {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, f.ToImage(), imaging.PNG); err != nil {
		return err
	}

	return c.rpc.Call("Service.Show", &ShowRequest{Image: buf.Bytes()}, nil)
}

func (c *Client) Close() error {
	return c.rpc.Close()
}
