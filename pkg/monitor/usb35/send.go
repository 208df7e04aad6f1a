package usb35

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func (s *Screen) sendCMD(code uint8, vars ...int) error {
	if len(vars) > 4 {
		return errors.New("too many vars")
	}

	var v [4]int
	copy(v[:], vars)

	return s.sendBytes(packCMD(code, v, nil))
}

func (s *Screen) sendOpt(code uint8, fixed int, payload []byte) error {
	if len(payload) > fixed {
		return errors.New("too many bytes")
	}

	buf := make([]byte, 6, fixed+6)
	buf = append(buf, payload...)
	if len(buf) < fixed {
		buf = append(buf, make([]byte, fixed-len(buf))...)
	}

	return s.sendBytes(packCMD(code, [4]int{}, buf))
}

// packCMD fills the 6 byte command header: four values packed into 10 bits
// each followed by the command code.
func packCMD(code uint8, v [4]int, buf []byte) []byte {
	if len(buf) < 6 {
		buf = make([]byte, 6)
	}

	buf[0] = byte(v[0] >> 2)
	buf[1] = byte(((v[0] & 3) << 6) + (v[1] >> 4))
	buf[2] = byte(((v[1] & 0xF) << 4) + (v[2] >> 6))
	buf[3] = byte(((v[2] & 0x3F) << 2) + (v[3] >> 8))
	buf[4] = byte(v[3] & 0xFF)
	buf[5] = code

	return buf
}

func (s *Screen) sendBytes(bs []byte) error {
	start := time.Now()
	n, err := s.w.Write(bs)
	if err != nil {
		return err
	}

	ext := ""
	if len(bs) <= 16 {
		ext = fmt.Sprintf("%x", bs)
	}

	s.logger.With(
		zap.Int("sent", n),
		zap.Duration("cost", time.Since(start)),
		zap.String("data", ext),
	).Debug("transfer")

	return nil
}
