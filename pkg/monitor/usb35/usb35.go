package usb35

import (
	"bytes"
	"encoding/binary"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"cgplayout/pkg/frame"
	"cgplayout/pkg/monitor"
)

const (
	cmdRestart    = 101
	cmdShutdown   = 108
	cmdStartup    = 109
	cmdSetLight   = 110
	cmdSetRotate  = 121
	cmdSetMirror  = 122
	cmdDrawBitmap = 197
)

// Open connects to a 3.5" USB serial screen whose port name contains name.
func Open(name string, logger *zap.Logger) (monitor.Display, error) {
	port := NewPort(name)
	if err := port.Open(&PortOptions{DTR: true, RTS: true, BaudRate: 115200}); err != nil {
		return nil, err
	}
	return New(port, logger), nil
}

// New drives a screen over an already open connection.
func New(w io.Writer, logger *zap.Logger) *Screen {
	return &Screen{
		w:      w,
		logger: logger,
		width:  320,
		height: 480,
	}
}

// Screen shows each frame letterboxed to the panel resolution.
type Screen struct {
	w      io.Writer
	logger *zap.Logger
	width  int
	height int
}

func (s *Screen) Size() (int, int) {
	return s.width, s.height
}

func (s *Screen) Startup() error {
	return s.sendCMD(cmdStartup)
}

func (s *Screen) Shutdown() error {
	return s.sendCMD(cmdShutdown)
}

func (s *Screen) Restart() error {
	return s.sendCMD(cmdRestart)
}

// SetLight takes a brightness in percent.
func (s *Screen) SetLight(light uint8) error {
	if light > 100 {
		light = 100
	}
	return s.sendCMD(cmdSetLight, int((1-float64(light)/100)*255))
}

func (s *Screen) SetRotate(landscape bool, invert bool) error {
	w, h := 320, 480
	mode := 100
	if landscape {
		mode++
		w, h = h, w
	}
	if invert {
		mode++
	}
	s.width, s.height = w, h

	var bs bytes.Buffer
	bs.WriteByte(uint8(mode))
	_ = binary.Write(&bs, binary.BigEndian, uint16(w))
	_ = binary.Write(&bs, binary.BigEndian, uint16(h))

	return s.sendOpt(cmdSetRotate, 16, bs.Bytes())
}

func (s *Screen) SetMirror(mirror bool) error {
	var b byte
	if mirror {
		b = 1
	}
	return s.sendOpt(cmdSetMirror, 16, []byte{b})
}

func (s *Screen) Show(f *frame.Frame) error {
	if f.Empty() {
		return nil
	}

	img := imaging.Fit(f.ToImage(), s.width, s.height, imaging.Box)
	size := img.Bounds().Size()
	x := (s.width - size.X) / 2
	y := (s.height - size.Y) / 2

	return s.drawBitmap(x, y, img)
}

func (s *Screen) drawBitmap(x, y int, img *image.NRGBA) error {
	size := img.Bounds().Size()
	if x < 0 || y < 0 || x+size.X > s.width || y+size.Y > s.height {
		return errors.New("bitmap exceeds panel")
	}

	if err := s.sendCMD(cmdDrawBitmap, x, y, x+size.X-1, y+size.Y-1); err != nil {
		return err
	}
	return s.sendBytes(encodeRGB565(img))
}
