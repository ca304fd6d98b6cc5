package sbar

import (
	"fmt"
	"image"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Glyph is one rasterised glyph within a GlyphRun (§4.C). Mask glyphs carry
// an alpha-only bitmap tinted by the block's text_color at render time;
// pre-colored glyphs (e.g. emoji fonts) are composited as-is.
type Glyph struct {
	Mask       *Bitmap // alpha-only: only A is meaningful, tinted on composite
	Colored    *Bitmap // pre-colored ARGB, composited as-is; mutually exclusive with Mask
	OriginX    int     // offset of the glyph image's top-left from the pen position
	OriginY    int
	AdvanceX   int
}

// GlyphRun is the result of shaping one UTF-32 code-point sequence against
// an ordered font fallback list (§4.C).
type GlyphRun struct {
	Glyphs  []Glyph
	Ascent  int
	Descent int
	Height  int
	Width   int // total advance
}

// FontProvider shapes a code-point run through a font fallback list. This
// is an external collaborator per §1/§4.C; the default implementation below
// wraps golang.org/x/image/font (opentype.Parse + font.Face.Glyph/
// GlyphAdvance/Kern) against an explicit fallback list and attribute
// string.
type FontProvider interface {
	Shape(fontNames []string, attributes string, runes []rune) (GlyphRun, error)
}

// SystemFontProvider resolves font names via FontMatch (fontconfig-style
// lookup) and shapes runs with golang.org/x/image/font, caching parsed
// faces by font name and attributes since opentype.Parse is not free.
type SystemFontProvider struct {
	mu    sync.Mutex
	faces map[string]font.Face
}

// NewSystemFontProvider returns a provider with an empty face cache.
func NewSystemFontProvider() *SystemFontProvider {
	return &SystemFontProvider{faces: make(map[string]font.Face)}
}

func (p *SystemFontProvider) faceFor(name, attributes string) (font.Face, error) {
	key := name + "\x00" + attributes
	p.mu.Lock()
	defer p.mu.Unlock()
	if f, ok := p.faces[key]; ok {
		return f, nil
	}
	f, err := parseFontFace(name, attributes)
	if err != nil {
		return nil, err
	}
	p.faces[key] = f
	return f, nil
}

func parseFontFace(name, attributes string) (font.Face, error) {
	path, size, err := FontMatch(name, attributes)
	if err != nil {
		return nil, fmt.Errorf("match font %q: %w", name, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %q: %w", path, err)
	}
	fnt, err := opentype.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse font %q: %w", path, err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size: size,
		DPI:  96,
	})
	if err != nil {
		return nil, fmt.Errorf("build face %q: %w", path, err)
	}
	return face, nil
}

// Shape implements FontProvider. fontNames are tried in order; the first
// that resolves is used for the whole run. There is no per-glyph fallback
// across fonts within one run.
func (p *SystemFontProvider) Shape(fontNames []string, attributes string, runes []rune) (GlyphRun, error) {
	if len(fontNames) == 0 {
		fontNames = []string{"monospace"}
	}
	var face font.Face
	var err error
	for _, name := range fontNames {
		face, err = p.faceFor(name, attributes)
		if err == nil {
			break
		}
	}
	if face == nil {
		return GlyphRun{}, err
	}

	m := face.Metrics()
	run := GlyphRun{
		Ascent:  m.Ascent.Ceil(),
		Descent: m.Descent.Ceil(),
		Height:  (m.Ascent + m.Descent).Ceil(),
	}

	var dot fixed.Point26_6
	dot.Y = m.Ascent
	prev := rune(-1)
	for _, r := range runes {
		if prev != -1 {
			dot.X += face.Kern(prev, r)
		}
		prev = r
		dr, mask, maskp, advance, ok := face.Glyph(dot, r)
		if ok && !dr.Empty() {
			g := Glyph{
				OriginX:  dr.Min.X - dot.X.Floor(),
				OriginY:  dr.Min.Y,
				AdvanceX: advance.Ceil(),
			}
			g.Mask = bitmapFromAlphaMask(mask, maskp, dr.Dx(), dr.Dy())
			run.Glyphs = append(run.Glyphs, g)
		} else {
			run.Glyphs = append(run.Glyphs, Glyph{AdvanceX: advance.Ceil()})
		}
		dot.X += advance
	}
	run.Width = dot.X.Ceil()
	return run, nil
}

// bitmapFromAlphaMask copies an image.Alpha-shaped mask (as returned by
// font.Face.Glyph) into a Bitmap whose A channel carries the coverage and
// whose RGB is left at the caller's tint color at composite time.
func bitmapFromAlphaMask(mask image.Image, maskp image.Point, w, h int) *Bitmap {
	bmp := NewBitmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			_, _, _, a := mask.At(maskp.X+x, maskp.Y+y).RGBA()
			av := uint8(a >> 8)
			bmp.Pix[bmp.at(x, y)] = PremulColor{A: av}
		}
	}
	return bmp
}

// tintGlyphRun composites a glyph run into dst at (originX, originY),
// tinting each mask glyph by color and compositing colored glyphs as-is.
func tintGlyphRun(run GlyphRun, dst *Bitmap, originX, originY int, color PremulColor) {
	pen := originX
	for _, g := range run.Glyphs {
		if g.Mask != nil {
			tinted := tintMask(g.Mask, color)
			CompositeOver(tinted, dst, Point{}, Point{X: pen + g.OriginX, Y: originY + g.OriginY}, Point{X: g.Mask.Width, Y: g.Mask.Height})
		} else if g.Colored != nil {
			CompositeOver(g.Colored, dst, Point{}, Point{X: pen + g.OriginX, Y: originY + g.OriginY}, Point{X: g.Colored.Width, Y: g.Colored.Height})
		}
		pen += g.AdvanceX
	}
}

func tintMask(mask *Bitmap, color PremulColor) *Bitmap {
	out := NewBitmap(mask.Width, mask.Height)
	for i, m := range mask.Pix {
		a := m.A
		out.Pix[i] = PremulColor{
			A: mulDiv255(color.A, a),
			R: mulDiv255(color.R, a),
			G: mulDiv255(color.G, a),
			B: mulDiv255(color.B, a),
		}
	}
	return out
}
