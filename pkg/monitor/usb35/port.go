package usb35

import (
	"strings"

	"github.com/pkg/errors"
	"go.bug.st/serial"
)

var ErrPortNotFound = errors.New("USB port not found")

type PortOptions struct {
	DTR      bool
	RTS      bool
	BaudRate int
}

// NewPort matches the first serial port whose name contains name.
func NewPort(name string) *Port {
	return &Port{name: name}
}

type Port struct {
	name string
	port serial.Port
}

func (p *Port) Open(opts *PortOptions) error {
	ports, err := serial.GetPortsList()
	if err != nil {
		return err
	}

	var matched string
	for _, name := range ports {
		if strings.Contains(name, p.name) {
			matched = name
			break
		}
	}
	if matched == "" {
		return errors.Wrap(ErrPortNotFound, p.name)
	}

	port, err := serial.Open(matched, &serial.Mode{BaudRate: opts.BaudRate})
	if err != nil {
		return err
	}

	if err := port.SetDTR(opts.DTR); err != nil {
		_ = port.Close()
		return err
	}

	if err := port.SetRTS(opts.RTS); err != nil {
		_ = port.Close()
		return err
	}

	p.port = port
	return nil
}

func (p *Port) Close() error {
	if p.port == nil {
		return nil
	}
	return p.port.Close()
}

func (p *Port) Write(b []byte) (int, error) {
	if p.port == nil {
		return 0, errors.New("port not open")
	}
	return p.port.Write(b)
}
