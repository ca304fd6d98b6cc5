package sbar

// Color is straight (non-premultiplied) ARGB32, the wire representation used
// by controller JSON: 0xAARRGGBB.
type Color uint32

// HasAlpha reports whether the color is anything other than fully transparent.
func (c Color) HasAlpha() bool { return c>>24 != 0 }

func (c Color) A() uint8 { return uint8(c >> 24) }
func (c Color) R() uint8 { return uint8(c >> 16) }
func (c Color) G() uint8 { return uint8(c >> 8) }
func (c Color) B() uint8 { return uint8(c) }

// PremulColor is premultiplied ARGB32: each of R/G/B has already been scaled
// by A/255. All pixel math operates in this space; colors are premultiplied
// once at ingest time, with fast paths for fully opaque and fully
// transparent input.
type PremulColor struct {
	A, R, G, B uint8
}

// Premultiply converts straight ARGB32 to premultiplied form.
func Premultiply(c Color) PremulColor {
	a := c.A()
	switch a {
	case 0xFF:
		return PremulColor{A: 0xFF, R: c.R(), G: c.G(), B: c.B()}
	case 0:
		return PremulColor{}
	default:
		return PremulColor{
			A: a,
			R: mulDiv255(c.R(), a),
			G: mulDiv255(c.G(), a),
			B: mulDiv255(c.B(), a),
		}
	}
}

func mulDiv255(v, a uint8) uint8 {
	p := uint32(v) * uint32(a)
	return uint8((p + 1 + p>>8) >> 8)
}
