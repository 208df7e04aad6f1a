package chroma

// 8-bit HSV as produced by the usual BGR->HSV conversion of video tooling:
// hue is halved into [0,179], saturation and value span [0,255]. The integer
// arithmetic follows the fixed point tables of that conversion so keyed masks
// match pixel for pixel.

const hsvShift = 12

var (
	sdiv [256]int
	hdiv [256]int
)

func init() {
	for i := 1; i < 256; i++ {
		sdiv[i] = roundInt(float64(255<<hsvShift) / float64(i))
		hdiv[i] = roundInt(float64(180<<hsvShift) / (6 * float64(i)))
	}
}

func roundInt(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

type HSV struct {
	H, S, V uint8
}

func ToHSV(b, g, r uint8) HSV {
	bi, gi, ri := int(b), int(g), int(r)

	v := ri
	if gi > v {
		v = gi
	}
	if bi > v {
		v = bi
	}
	vmin := ri
	if gi < vmin {
		vmin = gi
	}
	if bi < vmin {
		vmin = bi
	}
	diff := v - vmin

	s := (diff*sdiv[v] + 1<<(hsvShift-1)) >> hsvShift

	var h int
	switch {
	case v == ri:
		h = gi - bi
	case v == gi:
		h = bi - ri + 2*diff
	default:
		h = ri - gi + 4*diff
	}
	h = (h*hdiv[diff] + 1<<(hsvShift-1)) >> hsvShift
	if h < 0 {
		h += 180
	}

	return HSV{H: uint8(h), S: uint8(s), V: uint8(v)}
}

// Window is the inclusive HSV range treated as key color: hue within 10 steps
// of the key's hue, saturation and value at least 50.
func Window(key [3]uint8) (lo, hi HSV) {
	k := ToHSV(key[0], key[1], key[2])

	lh, hh := int(k.H)-10, int(k.H)+10
	if lh < 0 {
		lh = 0
	}
	if hh > 179 {
		hh = 179
	}

	return HSV{H: uint8(lh), S: 50, V: 50}, HSV{H: uint8(hh), S: 255, V: 255}
}

func (c HSV) In(lo, hi HSV) bool {
	return c.H >= lo.H && c.H <= hi.H &&
		c.S >= lo.S && c.S <= hi.S &&
		c.V >= lo.V && c.V <= hi.V
}
