package sbar

// renderBlockInto is the shared block-render step (§4.E "Block render"),
// used both for a composite block's pre-bake and for a surface's final
// composite. box is the block's full rectangle (including borders) within
// dst, already positioned by the caller.
func renderBlockInto(b *Block, dst *Bitmap, x, y, w, h int) {
	if !b.Render {
		return
	}

	left, right := b.BorderLeft.Width, b.BorderRight.Width
	top, bottom := b.BorderTop.Width, b.BorderBottom.Width
	interiorX, interiorY := x+left, y+top
	interiorW, interiorH := w-left-right, h-top-bottom
	if interiorW < 0 {
		interiorW = 0
	}
	if interiorH < 0 {
		interiorH = 0
	}

	if b.Background != nil {
		dst.Fill(interiorX, interiorY, interiorW, interiorH, *b.Background)
	}

	// Left/right borders span the block's full height; top/bottom span only
	// between them, so the four corners belong to left/right (§4.E).
	if left > 0 {
		dst.Fill(x, y, left, h, b.BorderLeft.Color)
	}
	if right > 0 {
		dst.Fill(x+w-right, y, right, h, b.BorderRight.Color)
	}
	if top > 0 {
		dst.Fill(x+left, y, w-left-right, top, b.BorderTop.Color)
	}
	if bottom > 0 {
		dst.Fill(x+left, y+h-bottom, w-left-right, bottom, b.BorderBottom.Color)
	}

	if b.Content == nil || interiorW == 0 || interiorH == 0 {
		return
	}
	interior := Rect{X: interiorX, Y: interiorY, W: interiorW, H: interiorH}
	contentW, contentH := b.Content.Width, b.Content.Height
	affine := ContentAffine(b.Content.Width, b.Content.Height, contentW, contentH, b.ContentTransform, b.ContentAnchor, interior)
	dstW, dstH := contentW, contentH
	if b.ContentTransform.Odd() {
		dstW, dstH = dstH, dstW
	}
	ox, oy := anchorOffset(b.ContentAnchor, interior, dstW, dstH)
	clip := Rect{X: int(ox), Y: int(oy), W: dstW, H: dstH}
	BlitTransformed(b.Content, dst, affine, clipToInterior(clip, interior))
}

func clipToInterior(r, interior Rect) Rect {
	x0, y0 := max(r.X, interior.X), max(r.Y, interior.Y)
	x1, y1 := min(r.X+r.W, interior.X+interior.W), min(r.Y+r.H, interior.Y+interior.H)
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// LayoutFrame supplies the surface/output context a top-level block list is
// laid out against (§4.E).
type LayoutFrame struct {
	Vertical                  bool
	SurfaceWidth, SurfaceHeight int
	OutputWidth, OutputHeight   int
}

// LayoutBlocks resolves every block's box in order (§4.E "Surface layout"):
// pass 1 measures each block in list order so prev* sees the just-computed
// preceding sibling, pass 2 accumulates the centred span, pass 3 assigns
// main-axis coordinates by walking left/top forward, right/bottom backward,
// and center from the middle of the remaining span. Returns one BlockBox
// per block, in input order, which becomes the surface's block_hotspots.
func LayoutBlocks(blocks []*Block, frame LayoutFrame) []BlockBox {
	boxes := make([]BlockBox, len(blocks))
	mainLen := frame.SurfaceHeight
	if !frame.Vertical {
		mainLen = frame.SurfaceWidth
	}

	ref := RefFrame{
		SurfaceWidth: frame.SurfaceWidth, SurfaceHeight: frame.SurfaceHeight,
		OutputWidth: frame.OutputWidth, OutputHeight: frame.OutputHeight,
	}

	// Pass 1: measure, in list order, so prev* always refers to the
	// just-computed preceding sibling.
	for i, b := range blocks {
		box := measureBlock(b, frame, ref)
		boxes[i] = box
		ref.PrevBlockWidth, ref.PrevBlockHeight = box.Width, box.Height
		ref.PrevContentWidth, ref.PrevContentHeight = box.ContentWidth, box.ContentHeight
	}

	// Pass 2: total main-axis length of centred, renderable, anchored blocks.
	centredTotal := 0
	for i, b := range blocks {
		if b.Anchor == AnchorAxisCenter && b.Render {
			if frame.Vertical {
				centredTotal += boxes[i].Height
			} else {
				centredTotal += boxes[i].Width
			}
		}
	}

	// Pass 3: assign main-axis coordinates.
	leftCursor, rightCursor := 0, mainLen
	centerCursor := (mainLen - centredTotal) / 2
	for i, b := range blocks {
		box := &boxes[i]
		mainSize := box.Width
		if frame.Vertical {
			mainSize = box.Height
		}
		var mainPos int
		switch b.Anchor {
		case AnchorAxisNone:
			mainPos = 0
		case AnchorAxisLeft, AnchorAxisTop:
			mainPos = leftCursor
			leftCursor += mainSize
		case AnchorAxisRight, AnchorAxisBottom:
			rightCursor -= mainSize
			mainPos = rightCursor
		case AnchorAxisCenter:
			mainPos = centerCursor
			centerCursor += mainSize
		}
		if frame.Vertical {
			box.Y = mainPos
			box.X = 0
		} else {
			box.X = mainPos
			box.Y = 0
		}
		box.ContentX, box.ContentY = contentOrigin(b, *box)
	}
	return boxes
}

// measureBlock resolves one block's box (pass 1): natural box, cross-axis
// stretch when anchored on an oriented surface, then min/max clamp.
func measureBlock(b *Block, frame LayoutFrame, ref RefFrame) BlockBox {
	contentW := resolveContentDim(b.ContentWidthSpec, b.NaturalWidth, b.Content, false, ref)
	contentH := resolveContentDim(b.ContentHeightSpec, b.NaturalHeight, b.Content, true, ref)
	if b.ContentTransform.Odd() {
		contentW, contentH = contentH, contentW
	}

	width := contentW + b.BorderLeft.Width + b.BorderRight.Width
	height := contentH + b.BorderTop.Width + b.BorderBottom.Width

	if b.Anchor == AnchorAxisNone {
		width = frame.SurfaceWidth
		height = frame.SurfaceHeight
	} else if !frame.Vertical {
		// horizontal surface: cross axis is height. An unknown (0) surface
		// size, as in WantedSize, keeps the natural cross-axis size.
		if frame.SurfaceHeight > 0 {
			height = frame.SurfaceHeight
		}
	} else if frame.SurfaceWidth > 0 {
		width = frame.SurfaceWidth
	}

	if w := b.MaxWidth.Resolve(ref); w > 0 {
		if lo := b.MinWidth.Resolve(ref); lo <= 0 || lo <= w {
			width = clampPositive(width, b.MinWidth.Resolve(ref), w)
		}
	} else if lo := b.MinWidth.Resolve(ref); lo > 0 {
		width = max(width, lo)
	}
	if h := b.MaxHeight.Resolve(ref); h > 0 {
		if lo := b.MinHeight.Resolve(ref); lo <= 0 || lo <= h {
			height = clampPositive(height, b.MinHeight.Resolve(ref), h)
		}
	} else if lo := b.MinHeight.Resolve(ref); lo > 0 {
		height = max(height, lo)
	}

	return BlockBox{Width: width, Height: height, ContentWidth: contentW, ContentHeight: contentH}
}

// clampPositive clamps v into [lo, hi], with lo treated as absent (0) when
// non-positive, matching §8's "min_width > max_width > 0 disables both"
// boundary rule: the caller only reaches here when lo <= hi.
func clampPositive(v, lo, hi int) int {
	if lo > 0 && v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}

// resolveContentDim resolves a content_width/height SizeValue: Auto takes
// the natural bitmap dimension (or the already-rasterised content's own
// size for composites/text), anything else resolves against ref.
func resolveContentDim(v SizeValue, natural int, content *Bitmap, isHeight bool, ref RefFrame) int {
	if v.IsAuto() {
		if content != nil {
			if isHeight {
				return content.Height
			}
			return content.Width
		}
		return natural
	}
	return v.Resolve(ref)
}

func contentOrigin(b *Block, box BlockBox) (int, int) {
	interior := Rect{X: box.X + b.BorderLeft.Width, Y: box.Y + b.BorderTop.Width,
		W: box.Width - b.BorderLeft.Width - b.BorderRight.Width,
		H: box.Height - b.BorderTop.Width - b.BorderBottom.Width}
	x, y := anchorOffset(b.ContentAnchor, interior, box.ContentWidth, box.ContentHeight)
	return int(x), int(y)
}

// WantedSize derives a surface's width/height when the controller supplied
// 0 for either (§4.E "Surface 'wanted size' deduction"): sum natural boxes
// along the main axis, max them on the cross axis, considering only
// renderable, anchored (non-none) blocks.
func WantedSize(blocks []*Block, vertical bool) (width, height int) {
	empty := RefFrame{}
	for _, b := range blocks {
		if !b.Render || b.Anchor == AnchorAxisNone {
			continue
		}
		box := measureBlock(b, LayoutFrame{Vertical: vertical}, empty)
		if vertical {
			height += box.Height
			width = max(width, box.Width)
		} else {
			width += box.Width
			height = max(height, box.Height)
		}
	}
	return width, height
}

// RenderSurface composites every render=true block into dst at its
// computed box (§4.E "Block render"): none-anchored blocks are drawn first,
// as backgrounds, then every other block, each group in list order.
func RenderSurface(dst *Bitmap, blocks []*Block, boxes []BlockBox) {
	for pass := 0; pass < 2; pass++ {
		for i, b := range blocks {
			if (b.Anchor == AnchorAxisNone) != (pass == 0) {
				continue
			}
			box := boxes[i]
			renderBlockInto(b, dst, box.X, box.Y, box.Width, box.Height)
		}
	}
}
