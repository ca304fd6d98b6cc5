package sbar

import "testing"

func spacerBlock(anchor BlockAnchor, w, h int) *Block {
	return &Block{
		typ:              BlockSpacer,
		refs:             1,
		Anchor:           anchor,
		Render:           true,
		ContentWidthSpec: SizeValue{Kind: SizeAbsolute, N: w},
		ContentHeightSpec: SizeValue{Kind: SizeAbsolute, N: h},
	}
}

func TestLayoutBlocksLeftRightCenter(t *testing.T) {
	left := spacerBlock(AnchorAxisLeft, 10, 5)
	right := spacerBlock(AnchorAxisRight, 20, 5)
	center := spacerBlock(AnchorAxisCenter, 30, 5)

	boxes := LayoutBlocks([]*Block{left, right, center}, LayoutFrame{SurfaceWidth: 200, SurfaceHeight: 20})

	if boxes[0].X != 0 || boxes[0].Width != 10 {
		t.Fatalf("left box = %+v, want x=0 width=10", boxes[0])
	}
	if want := 200 - 20; boxes[1].X != want || boxes[1].Width != 20 {
		t.Fatalf("right box = %+v, want x=%d width=20", boxes[1], want)
	}
	wantCenterX := (200 - 30) / 2
	if boxes[2].X != wantCenterX || boxes[2].Width != 30 {
		t.Fatalf("center box = %+v, want x=%d width=30", boxes[2], wantCenterX)
	}
}

func TestLayoutBlocksVerticalUsesYAxis(t *testing.T) {
	top := spacerBlock(AnchorAxisTop, 5, 10)
	bottom := spacerBlock(AnchorAxisBottom, 5, 15)

	boxes := LayoutBlocks([]*Block{top, bottom}, LayoutFrame{Vertical: true, SurfaceWidth: 20, SurfaceHeight: 100})

	if boxes[0].Y != 0 {
		t.Fatalf("top box Y = %d, want 0", boxes[0].Y)
	}
	if want := 100 - 15; boxes[1].Y != want {
		t.Fatalf("bottom box Y = %d, want %d", boxes[1].Y, want)
	}
}

func TestLayoutBlocksNoneAnchorIsFullSurfaceAtOrigin(t *testing.T) {
	bg := spacerBlock(AnchorAxisNone, 0, 0)
	boxes := LayoutBlocks([]*Block{bg}, LayoutFrame{SurfaceWidth: 50, SurfaceHeight: 10})
	if boxes[0].X != 0 || boxes[0].Y != 0 {
		t.Fatalf("none-anchored box = %+v, want origin", boxes[0])
	}
	if boxes[0].Width != 50 || boxes[0].Height != 10 {
		t.Fatalf("none-anchored box = %+v, want full surface 50x10", boxes[0])
	}
}

func TestMeasureBlockNoneAnchorFillsSurface(t *testing.T) {
	bg := spacerBlock(AnchorAxisNone, 0, 0)
	box := measureBlock(bg, LayoutFrame{SurfaceWidth: 200, SurfaceHeight: 40}, RefFrame{})
	if box.Width != 200 || box.Height != 40 {
		t.Fatalf("none-anchored box = %+v, want full surface 200x40", box)
	}
}

func TestMeasureBlockStretchesCrossAxis(t *testing.T) {
	b := spacerBlock(AnchorAxisLeft, 10, 5)
	box := measureBlock(b, LayoutFrame{Vertical: false, SurfaceWidth: 200, SurfaceHeight: 40}, RefFrame{})
	if box.Height != 40 {
		t.Fatalf("cross-axis height = %d, want stretched to 40", box.Height)
	}
}

func TestMeasureBlockMinMaxClamp(t *testing.T) {
	b := spacerBlock(AnchorAxisLeft, 10, 5)
	b.MinWidth = SizeValue{Kind: SizeAbsolute, N: 50}
	b.MaxWidth = SizeValue{Kind: SizeAbsolute, N: 100}
	box := measureBlock(b, LayoutFrame{SurfaceWidth: 200, SurfaceHeight: 20}, RefFrame{})
	if box.Width != 50 {
		t.Fatalf("width = %d, want clamped up to min 50", box.Width)
	}
}

func TestWantedSizeSumsMainAxisIgnoresNone(t *testing.T) {
	a := spacerBlock(AnchorAxisLeft, 10, 5)
	b := spacerBlock(AnchorAxisRight, 20, 7)
	bg := spacerBlock(AnchorAxisNone, 999, 999)
	w, h := WantedSize([]*Block{a, b, bg}, false)
	if w != 30 {
		t.Fatalf("wanted width = %d, want 30", w)
	}
	if h != 7 {
		t.Fatalf("wanted height = %d, want max(5,7)=7", h)
	}
}

func TestWantedSizeSkipsUnrendered(t *testing.T) {
	a := spacerBlock(AnchorAxisLeft, 10, 5)
	a.Render = false
	w, h := WantedSize([]*Block{a}, false)
	if w != 0 || h != 0 {
		t.Fatalf("expected zero size for unrendered block, got %d,%d", w, h)
	}
}
