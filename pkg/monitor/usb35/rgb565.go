package usb35

import (
	"image"
)

// encodeRGB565 packs an image row by row into the panel's pixel format: two
// bytes per pixel, little endian, 5 bits red, 6 bits green, 5 bits blue.
//
//	bit 76543210  76543210
//	    RRRRRGGG  GGGBBBBB
//	   high byte  low byte
func encodeRGB565(img *image.NRGBA) []byte {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	out := make([]byte, 0, w*h*2)

	for y := 0; y < h; y++ {
		i := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
		for x := 0; x < w; x++ {
			v := rgb565(img.Pix[i], img.Pix[i+1], img.Pix[i+2])
			out = append(out, byte(v&0xFF), byte(v>>8))
			i += 4
		}
	}

	return out
}

func rgb565(r, g, b uint8) uint16 {
	return uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b)>>3
}
