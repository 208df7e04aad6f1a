package frame

import (
	"image"
	"image/color"
)

// Frame is a row-major 8-bit pixel buffer. Pixels are stored as BGR or BGRA,
// the layout decoded video usually arrives in.
type Frame struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

func New(width, height, channels int) *Frame {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Frame{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}
}

// Wrap uses pix as the backing buffer without copying.
func (f *Frame) Stride() int {
	return f.Width * f.Channels
}

func (f *Frame) Offset(x, y int) int {
	return y*f.Stride() + x*f.Channels
}

func (f *Frame) HasAlpha() bool {
	return f.Channels == 4
}

func (f *Frame) Empty() bool {
	return f == nil || f.Width <= 0 || f.Height <= 0
}

func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

// Size is the byte length of the pixel buffer.
func (f *Frame) Size() int {
	return len(f.Pix)
}

func (f *Frame) Clone() *Frame {
	c := &Frame{Width: f.Width, Height: f.Height, Channels: f.Channels}
	c.Pix = make([]uint8, len(f.Pix))
	copy(c.Pix, f.Pix)
	return c
}

// CopyFrom makes f an exact copy of src, reusing f's buffer when large enough.
// BGR returns the color of the pixel at (x, y); out of range reads are black.
func (f *Frame) BGR(x, y int) (b, g, r uint8) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return 0, 0, 0
	}
	i := f.Offset(x, y)
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// SetBGR writes the color channels of one pixel, ignoring out of range writes.
func (f *Frame) SetBGR(x, y int, b, g, r uint8) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return
	}
	i := f.Offset(x, y)
	f.Pix[i], f.Pix[i+1], f.Pix[i+2] = b, g, r
}

func (f *Frame) Fill(b, g, r uint8) {
	for i := 0; i+2 < len(f.Pix); i += f.Channels {
		f.Pix[i], f.Pix[i+1], f.Pix[i+2] = b, g, r
		if f.Channels == 4 {
			f.Pix[i+3] = 0xFF
		}
	}
}

// FromImage converts any image to a frame. With keepAlpha a 4-channel frame is
// produced when the image is not fully opaque, otherwise alpha is dropped.
func FromImage(img image.Image, keepAlpha bool) *Frame {
	b := img.Bounds()
	ch := 3
	if keepAlpha && !opaque(img) {
		ch = 4
	}

	f := New(b.Dx(), b.Dy(), ch)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			f.Pix[i], f.Pix[i+1], f.Pix[i+2] = c.B, c.G, c.R
			if ch == 4 {
				f.Pix[i+3] = c.A
			}
			i += ch
		}
	}

	return f
}

func opaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}

// ToImage converts the frame to RGBA order for encoders and displays.
func (f *Frame) ToImage() *image.NRGBA {
	img := image.NewNRGBA(f.Bounds())
	j := 0
	for i := 0; i+f.Channels <= len(f.Pix) && j+3 < len(img.Pix); i += f.Channels {
		img.Pix[j] = f.Pix[i+2]
		img.Pix[j+1] = f.Pix[i+1]
		img.Pix[j+2] = f.Pix[i]
		if f.Channels == 4 {
			img.Pix[j+3] = f.Pix[i+3]
		} else {
			img.Pix[j+3] = 0xFF
		}
		j += 4
	}
	return img
}
