package player

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"cgplayout/pkg/frame"
)

var ErrEmptySequence = errors.New("no frames in sequence")

var frameExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".gif":  true,
	".tif":  true,
	".tiff": true,
}

// NewSequence plays the image files of dir in name order.
func NewSequence(fs afero.Fs, dir string, fps float64, loop bool) (*Sequence, error) {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("read sequence failed: %w", err)
	}

	var files []string
	for _, info := range infos {
		if info.IsDir() || !frameExts[strings.ToLower(path.Ext(info.Name()))] {
			continue
		}
		files = append(files, path.Join(dir, info.Name()))
	}
	if len(files) == 0 {
		return nil, ErrEmptySequence
	}

	return &Sequence{fs: fs, files: files, fps: fps, loop: loop}, nil
}

type Sequence struct {
	fs    afero.Fs
	files []string
	fps   float64
	loop  bool
	pos   int
}

func (s *Sequence) FPS() float64 {
	return s.fps
}

func (s *Sequence) Close() error {
	return nil
}

func (s *Sequence) Len() int {
	return len(s.files)
}

func (s *Sequence) Next() (*frame.Frame, error) {
	if s.pos >= len(s.files) {
		if !s.loop {
			return nil, io.EOF
		}
		s.pos = 0
	}

	name := s.files[s.pos]
	s.pos++

	f, err := s.fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	img, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s failed: %w", name, err)
	}

	return frame.FromImage(img, false), nil
}
