package sbar

import "testing"

func TestBitmapFill(t *testing.T) {
	b := NewBitmap(4, 4)
	b.Fill(1, 1, 2, 2, PremulColor{A: 255, R: 10, G: 20, B: 30})
	if b.Pix[b.at(1, 1)].R != 10 {
		t.Fatalf("fill did not write expected pixel")
	}
	if b.Pix[b.at(0, 0)].A != 0 {
		t.Fatalf("fill leaked outside region")
	}
}

func TestBitmapFillClampsToBounds(t *testing.T) {
	b := NewBitmap(2, 2)
	b.Fill(-5, -5, 100, 100, PremulColor{A: 255})
	for _, p := range b.Pix {
		if p.A != 255 {
			t.Fatalf("expected full fill after clamp, got %+v", p)
		}
	}
}

func TestCompositeOverOpaqueReplacesDst(t *testing.T) {
	src := NewBitmap(2, 2)
	src.Fill(0, 0, 2, 2, PremulColor{A: 255, R: 200})
	dst := NewBitmap(2, 2)
	dst.Fill(0, 0, 2, 2, PremulColor{A: 255, B: 200})
	CompositeOver(src, dst, Point{}, Point{}, Point{X: 2, Y: 2})
	if dst.Pix[0].R != 200 || dst.Pix[0].B != 0 {
		t.Fatalf("expected opaque src to fully replace dst, got %+v", dst.Pix[0])
	}
}

func TestCompositeOverTransparentSrcIsNoop(t *testing.T) {
	src := NewBitmap(1, 1)
	dst := NewBitmap(1, 1)
	dst.Fill(0, 0, 1, 1, PremulColor{A: 255, G: 77})
	CompositeOver(src, dst, Point{}, Point{}, Point{X: 1, Y: 1})
	if dst.Pix[0].G != 77 {
		t.Fatalf("transparent src mutated dst: %+v", dst.Pix[0])
	}
}

func TestContentTransformOdd(t *testing.T) {
	odd := []ContentTransform{Transform90, Transform270, TransformFlipped90, TransformFlipped270}
	even := []ContentTransform{TransformNormal, Transform180, TransformFlipped, TransformFlipped180}
	for _, tr := range odd {
		if !tr.Odd() {
			t.Fatalf("expected %v to be odd", tr)
		}
	}
	for _, tr := range even {
		if tr.Odd() {
			t.Fatalf("expected %v to be even", tr)
		}
	}
}

func TestAnchorOffsetCenters(t *testing.T) {
	interior := Rect{X: 0, Y: 0, W: 10, H: 10}
	x, y := anchorOffset(AnchorMiddleCenter, interior, 4, 4)
	if x != 3 || y != 3 {
		t.Fatalf("expected centered offset (3,3), got (%v,%v)", x, y)
	}
}

func TestAnchorOffsetBottomRight(t *testing.T) {
	interior := Rect{X: 0, Y: 0, W: 10, H: 10}
	x, y := anchorOffset(AnchorBottomRight, interior, 4, 4)
	if x != 6 || y != 6 {
		t.Fatalf("expected bottom-right offset (6,6), got (%v,%v)", x, y)
	}
}

func TestBlitTransformedIdentityCopiesPixels(t *testing.T) {
	src := NewBitmap(2, 2)
	src.Fill(0, 0, 2, 2, PremulColor{A: 255, R: 50, G: 60, B: 70})
	dst := NewBitmap(2, 2)
	BlitTransformed(src, dst, identityAffine(), Rect{X: 0, Y: 0, W: 2, H: 2})
	if dst.Pix[0].R != 50 {
		t.Fatalf("expected identity blit to preserve pixel, got %+v", dst.Pix[0])
	}
}

func TestAffineInvertRoundTrip(t *testing.T) {
	m := Affine{A: 2, B: 0, C: 0, D: 2, E: 5, F: 7}
	inv := m.invert()
	x, y := m.apply(3, 4)
	bx, by := inv.apply(x, y)
	if bx < 2.999 || bx > 3.001 || by < 3.999 || by > 4.001 {
		t.Fatalf("round trip mismatch: got (%v,%v)", bx, by)
	}
}
