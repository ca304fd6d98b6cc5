package sbar

import (
	"bytes"
	"encoding/binary"
	"fmt"
	stdimage "image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/KononK/resize"
	"golang.org/x/image/draw"
)

// resizeBitmap resamples src to w x h using KononK/resize's bilinear
// filter: content is resized to content_width x content_height before the
// content-anchor/transform blit.
func resizeBitmap(src *Bitmap, w, h int) *Bitmap {
	if w <= 0 || h <= 0 || src.Width == 0 || src.Height == 0 {
		return NewBitmap(w, h)
	}
	nrgba := stdimage.NewNRGBA(stdimage.Rect(0, 0, src.Width, src.Height))
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			c := unpremultiply(src.Pix[src.at(x, y)])
			i := nrgba.PixOffset(x, y)
			nrgba.Pix[i], nrgba.Pix[i+1], nrgba.Pix[i+2], nrgba.Pix[i+3] = c.R(), c.G(), c.B(), c.A()
		}
	}
	resized := resize.Resize(uint(w), uint(h), nrgba, resize.Bilinear)
	return bitmapFromImage(resized)
}

func unpremultiply(p PremulColor) Color {
	if p.A == 0 {
		return 0
	}
	un := func(v uint8) uint8 {
		return uint8(min(255, int(v)*255/int(p.A)))
	}
	return Color(uint32(p.A)<<24 | uint32(un(p.R))<<16 | uint32(un(p.G))<<8 | uint32(un(p.B)))
}

// DecodedImage is an image provider's result: premultiplied ARGB32 pixels
// plus the image's natural size (§4.C).
type DecodedImage struct {
	Bitmap        *Bitmap
	NaturalWidth  int
	NaturalHeight int
}

// ImageProvider decodes a path to ARGB32 pixels. This is an external
// collaborator per §1: "the renderer consumes decoders as pluggable 'given
// a path, return ARGB32 pixels + natural size' functions." declaredFormat
// is the controller's image_type, or "" to sniff from the extension
// (§9 SUPPLEMENTED FEATURES: the original's getDecoder fallback).
type ImageProvider interface {
	Decode(path string, declaredFormat string) (DecodedImage, error)
}

// cacheEntry pairs a decoded image with the source mtime it was decoded
// from, so a stale mtime evicts and reloads (§4.C).
type cacheEntry struct {
	mtime time.Time
	img   DecodedImage
}

// FileImageProvider decodes pixmap/png plus jpeg/gif, caching by
// (path, mtime). For svg it yields only a natural size and an empty bitmap
// (see decodeSVGPlaceholder).
type FileImageProvider struct {
	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewFileImageProvider returns a provider with an empty decode cache.
func NewFileImageProvider() *FileImageProvider {
	return &FileImageProvider{cache: make(map[string]cacheEntry)}
}

func (p *FileImageProvider) Decode(path string, declaredFormat string) (DecodedImage, error) {
	st, err := os.Stat(path)
	if err != nil {
		return DecodedImage{}, newErr(RendererResourceError, "stat image", err)
	}
	mtime := st.ModTime()

	p.mu.Lock()
	if e, ok := p.cache[path]; ok && e.mtime.Equal(mtime) {
		p.mu.Unlock()
		return e.img, nil
	}
	p.mu.Unlock()

	format := declaredFormat
	if format == "" {
		format = sniffImageFormat(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return DecodedImage{}, newErr(RendererResourceError, "open image", err)
	}
	defer f.Close()

	img, err := decodeByFormat(f, format)
	if err != nil {
		return DecodedImage{}, newErr(RendererResourceError, "decode image", fmt.Errorf("%s as %s: %w", path, format, err))
	}

	p.mu.Lock()
	p.cache[path] = cacheEntry{mtime: mtime, img: img}
	p.mu.Unlock()
	return img, nil
}

func sniffImageFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".svg":
		return "svg"
	default:
		return "pixmap"
	}
}

func decodeByFormat(r io.Reader, format string) (DecodedImage, error) {
	switch format {
	case "png":
		return decodeStd(r, png.Decode)
	case "jpeg", "jpg":
		return decodeStd(r, jpeg.Decode)
	case "gif":
		return decodeStd(r, gif.Decode)
	case "svg":
		return decodeSVGPlaceholder(r)
	case "pixmap":
		return decodeRawPixmap(r)
	default:
		return DecodedImage{}, fmt.Errorf("unknown image format %q", format)
	}
}

func decodeStd(r io.Reader, decode func(io.Reader) (stdimage.Image, error)) (DecodedImage, error) {
	img, err := decode(r)
	if err != nil {
		return DecodedImage{}, err
	}
	return DecodedImage{Bitmap: bitmapFromImage(img), NaturalWidth: img.Bounds().Dx(), NaturalHeight: img.Bounds().Dy()}, nil
}

// bitmapFromImage converts a decoded stdlib image to a premultiplied
// Bitmap via golang.org/x/image/draw, ahead of any resizeBitmap call.
func bitmapFromImage(img stdimage.Image) *Bitmap {
	b := img.Bounds()
	rgba := stdimage.NewRGBA(stdimage.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	out := NewBitmap(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			i := rgba.PixOffset(x, y)
			r, g, bl, a := rgba.Pix[i], rgba.Pix[i+1], rgba.Pix[i+2], rgba.Pix[i+3]
			out.Pix[out.at(x, y)] = Premultiply(Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(bl)))
		}
	}
	return out
}

// rawPixmapHeader is the "pixmap" format's tiny header: width/height
// followed by raw straight-ARGB32 rows, little-endian. This is the
// renderer's own minimal "raw pixmap" contract referenced in §6.
type rawPixmapHeader struct {
	Width, Height uint32
}

func decodeRawPixmap(r io.Reader) (DecodedImage, error) {
	var hdr rawPixmapHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return DecodedImage{}, fmt.Errorf("read pixmap header: %w", err)
	}
	n := int(hdr.Width) * int(hdr.Height)
	raw := make([]uint32, n)
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		return DecodedImage{}, fmt.Errorf("read pixmap body: %w", err)
	}
	bmp := NewBitmap(int(hdr.Width), int(hdr.Height))
	for i, px := range raw {
		bmp.Pix[i] = Premultiply(Color(px))
	}
	return DecodedImage{Bitmap: bmp, NaturalWidth: int(hdr.Width), NaturalHeight: int(hdr.Height)}, nil
}

// decodeSVGPlaceholder reads just the SVG's declared width/height attributes
// (16x16 when absent) to establish natural size, so Auto content dimensions
// have something to fall back to. The SVG itself is not rasterised: the
// returned bitmap is empty (0x0), so an svg image block takes up its size
// but draws no content.
func decodeSVGPlaceholder(r io.Reader) (DecodedImage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return DecodedImage{}, err
	}
	w, h := sniffSVGSize(data)
	return DecodedImage{Bitmap: NewBitmap(0, 0), NaturalWidth: w, NaturalHeight: h}, nil
}

func sniffSVGSize(data []byte) (int, int) {
	const defaultSize = 16
	w := defaultSize
	h := defaultSize
	if i := bytes.Index(data, []byte(`width="`)); i >= 0 {
		if n := parseIntAt(data[i+len(`width="`):]); n > 0 {
			w = n
		}
	}
	if i := bytes.Index(data, []byte(`height="`)); i >= 0 {
		if n := parseIntAt(data[i+len(`height="`):]); n > 0 {
			h = n
		}
	}
	return w, h
}

func parseIntAt(b []byte) int {
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}
