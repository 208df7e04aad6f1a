package layer

import (
	"time"

	"cgplayout/pkg/blend"
	"cgplayout/pkg/frame"
)

// NewImage wraps a decoded buffer; the layer never modifies it.
func NewImage(props Props, img *frame.Frame) *Image {
	return &Image{Props: props, img: img}
}

type Image struct {
	Props
	img *frame.Frame
}

func (i *Image) Kind() Kind {
	return KindImage
}

func (i *Image) Update(time.Duration) error {
	return nil
}

func (i *Image) Draw(f *frame.Frame) error {
	if i.img == nil {
		return nil
	}
	blend.Region(f, i.img, i.X, i.Y, i.Alpha)
	return nil
}
