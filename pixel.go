package sbar

import "math"

// Bitmap is an ARGB32 premultiplied pixel surface. Pixels are stored
// row-major, origin top-left.
type Bitmap struct {
	Width, Height int
	Pix           []PremulColor
}

// NewBitmap allocates a zeroed (fully transparent) bitmap.
func NewBitmap(w, h int) *Bitmap {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Bitmap{Width: w, Height: h, Pix: make([]PremulColor, w*h)}
}

func (b *Bitmap) at(x, y int) int { return y*b.Width + x }

func (b *Bitmap) inBounds(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// clamp clips an (x,y,w,h) box to the bitmap's own bounds.
func (b *Bitmap) clamp(x, y, w, h int) (x0, y0, x1, y1 int) {
	x0, y0 = max(x, 0), max(y, 0)
	x1, y1 = min(x+w, b.Width), min(y+h, b.Height)
	return
}

// Fill paints a solid color into the given region.
func (b *Bitmap) Fill(x, y, w, h int, color PremulColor) {
	x0, y0, x1, y1 := b.clamp(x, y, w, h)
	for py := y0; py < y1; py++ {
		row := b.Pix[b.at(x0, py):b.at(x1, py)]
		for i := range row {
			row[i] = color
		}
	}
}

// CompositeOver blends src onto dst at dstOffset, over the given size,
// reading src starting at srcOffset. Standard "over" compositing on
// premultiplied components.
func CompositeOver(src *Bitmap, dst *Bitmap, srcOffset, dstOffset Point, size Point) {
	for y := 0; y < size.Y; y++ {
		sy, dy := srcOffset.Y+y, dstOffset.Y+y
		if sy < 0 || sy >= src.Height || dy < 0 || dy >= dst.Height {
			continue
		}
		for x := 0; x < size.X; x++ {
			sx, dx := srcOffset.X+x, dstOffset.X+x
			if sx < 0 || sx >= src.Width || dx < 0 || dx >= dst.Width {
				continue
			}
			s := src.Pix[src.at(sx, sy)]
			if s.A == 0 {
				continue
			}
			di := dst.at(dx, dy)
			if s.A == 0xFF {
				dst.Pix[di] = s
				continue
			}
			d := dst.Pix[di]
			inv := 255 - s.A
			dst.Pix[di] = PremulColor{
				A: s.A + mulDiv255(d.A, inv),
				R: s.R + mulDiv255(d.R, inv),
				G: s.G + mulDiv255(d.G, inv),
				B: s.B + mulDiv255(d.B, inv),
			}
		}
	}
}

// Point is an integer 2D point/size, used throughout layout and pixel math.
type Point struct{ X, Y int }

// ContentTransform enumerates the eight 90°-rotation/flip combinations a
// block's content may be drawn under, matching the wl_output.transform
// enum's bit layout: bit 2 is "flipped", bits 0-1 are a quarter-turn count.
type ContentTransform int

const (
	TransformNormal ContentTransform = iota
	Transform90
	Transform180
	Transform270
	TransformFlipped
	TransformFlipped90
	TransformFlipped180
	TransformFlipped270
)

// Odd reports whether this transform swaps width and height: a block's
// content box has contentW/H swapped when content-transform is odd-quartered.
func (t ContentTransform) Odd() bool {
	switch t {
	case Transform90, Transform270, TransformFlipped90, TransformFlipped270:
		return true
	default:
		return false
	}
}

func (t ContentTransform) flipped() bool { return t >= TransformFlipped }
func (t ContentTransform) quarterTurns() int {
	return int(t) & 0x3
}

// Affine is a 2x3 affine matrix: [x' y'] = [x y 1] * [[a b][c d][e f]].
type Affine struct{ A, B, C, D, E, F float64 }

func identityAffine() Affine { return Affine{A: 1, D: 1} }

func (m Affine) mul(o Affine) Affine {
	return Affine{
		A: m.A*o.A + m.B*o.C,
		B: m.A*o.B + m.B*o.D,
		C: m.C*o.A + m.D*o.C,
		D: m.C*o.B + m.D*o.D,
		E: m.E*o.A + m.F*o.C + o.E,
		F: m.E*o.B + m.F*o.D + o.F,
	}
}

func (m Affine) apply(x, y float64) (float64, float64) {
	return x*m.A + y*m.C + m.E, x*m.B + y*m.D + m.F
}

func (m Affine) invert() Affine {
	det := m.A*m.D - m.B*m.C
	if det == 0 {
		return identityAffine()
	}
	inv := 1 / det
	a, b, c, d := m.D*inv, -m.B*inv, -m.C*inv, m.A*inv
	e := -(m.E*a + m.F*c)
	f := -(m.E*b + m.F*d)
	return Affine{A: a, B: b, C: c, D: d, E: e, F: f}
}

// ContentAffine builds the transform a block's render step needs: scale the
// natural content bitmap to contentW x contentH, apply the content-transform
// rotation/flip about its own center, then translate per contentAnchor so the
// transformed bitmap lands within the dst interior rect.
func ContentAffine(srcW, srcH, contentW, contentH int, t ContentTransform, anchor Anchor9, interior Rect) Affine {
	// 1. scale natural bitmap into (contentW, contentH) *pre-transform* space.
	var sw, sh float64 = float64(contentW), float64(contentH)
	if t.Odd() {
		sw, sh = sh, sw
	}
	scaleX, scaleY := 1.0, 1.0
	if srcW > 0 {
		scaleX = sw / float64(srcW)
	}
	if srcH > 0 {
		scaleY = sh / float64(srcH)
	}
	m := Affine{A: scaleX, D: scaleY}

	// 2. rotate/flip about the now-scaled bitmap's own center.
	cx, cy := sw/2, sh/2
	rot := rotationAffine(t, cx, cy)
	m = m.mul(rot)

	// 3. translate so the final contentW x contentH box sits at the anchor
	// position within interior.
	ox, oy := anchorOffset(anchor, interior, contentW, contentH)
	m.E += ox
	m.F += oy
	return m
}

func rotationAffine(t ContentTransform, cx, cy float64) Affine {
	turns := t.quarterTurns()
	theta := float64(turns) * math.Pi / 2
	cos, sin := math.Cos(theta), math.Sin(theta)
	rot := Affine{A: cos, B: sin, C: -sin, D: cos}
	// recenter: translate so rotation pivots about (cx,cy) then re-offsets to
	// (0,0)-origin box of size depending on parity.
	var outW, outH float64 = cx * 2, cy * 2
	if turns%2 == 1 {
		outW, outH = outH, outW
	}
	rot.E = cx - (cx*cos - cy*sin)
	rot.F = cy - (cx*sin + cy*cos)
	// normalize top-left back to origin for odd quarter turns, whose bbox
	// has swapped dimensions.
	rot.E += outW/2 - cx
	rot.F += outH/2 - cy
	if t.flipped() {
		flip := Affine{A: -1, D: 1, E: cx * 2}
		rot = flip.mul(rot)
	}
	return rot
}

// Anchor9 is the nine-point content-anchor grid a block's content is
// positioned against within its interior rect.
type Anchor9 int

const (
	AnchorTopLeft Anchor9 = iota
	AnchorTopCenter
	AnchorTopRight
	AnchorMiddleLeft
	AnchorMiddleCenter
	AnchorMiddleRight
	AnchorBottomLeft
	AnchorBottomCenter
	AnchorBottomRight
)

// Rect is an integer rectangle in surface/bitmap coordinates.
type Rect struct{ X, Y, W, H int }

func anchorOffset(a Anchor9, interior Rect, contentW, contentH int) (float64, float64) {
	x, y := float64(interior.X), float64(interior.Y)
	switch a % 3 {
	case 1: // horizontally centered
		x += float64(interior.W-contentW) / 2
	case 2: // right
		x += float64(interior.W - contentW)
	}
	switch a / 3 {
	case 1: // vertically centered
		y += float64(interior.H-contentH) / 2
	case 2: // bottom
		y += float64(interior.H - contentH)
	}
	return x, y
}

// BlitTransformed paints src into dst, clipped to dstRect, sampling src
// through the inverse of affine with bilinear filtering.
func BlitTransformed(src *Bitmap, dst *Bitmap, affine Affine, dstRect Rect) {
	if src == nil || src.Width == 0 || src.Height == 0 {
		return
	}
	inv := affine.invert()
	x0, y0, x1, y1 := dst.clamp(dstRect.X, dstRect.Y, dstRect.W, dstRect.H)
	for dy := y0; dy < y1; dy++ {
		for dx := x0; dx < x1; dx++ {
			sx, sy := inv.apply(float64(dx)+0.5, float64(dy)+0.5)
			c, ok := sampleBilinear(src, sx-0.5, sy-0.5)
			if !ok || c.A == 0 {
				continue
			}
			di := dst.at(dx, dy)
			if c.A == 0xFF {
				dst.Pix[di] = c
				continue
			}
			d := dst.Pix[di]
			invA := 255 - c.A
			dst.Pix[di] = PremulColor{
				A: c.A + mulDiv255(d.A, invA),
				R: c.R + mulDiv255(d.R, invA),
				G: c.G + mulDiv255(d.G, invA),
				B: c.B + mulDiv255(d.B, invA),
			}
		}
	}
}

func sampleBilinear(src *Bitmap, x, y float64) (PremulColor, bool) {
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	fx, fy := x-float64(x0), y-float64(y0)
	get := func(px, py int) PremulColor {
		if !src.inBounds(px, py) {
			return PremulColor{}
		}
		return src.Pix[src.at(px, py)]
	}
	c00, c10 := get(x0, y0), get(x0+1, y0)
	c01, c11 := get(x0, y0+1), get(x0+1, y0+1)
	if c00.A == 0 && c10.A == 0 && c01.A == 0 && c11.A == 0 {
		return PremulColor{}, false
	}
	lerp := func(a, b uint8, t float64) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t)
	}
	top := PremulColor{
		A: lerp(c00.A, c10.A, fx), R: lerp(c00.R, c10.R, fx),
		G: lerp(c00.G, c10.G, fx), B: lerp(c00.B, c10.B, fx),
	}
	bot := PremulColor{
		A: lerp(c01.A, c11.A, fx), R: lerp(c01.R, c11.R, fx),
		G: lerp(c01.G, c11.G, fx), B: lerp(c01.B, c11.B, fx),
	}
	return PremulColor{
		A: lerp(top.A, bot.A, fy), R: lerp(top.R, bot.R, fy),
		G: lerp(top.G, bot.G, fy), B: lerp(top.B, bot.B, fy),
	}, true
}
