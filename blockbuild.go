package sbar

import "fmt"

// buildTextBlock rasterises a text block's glyph run into its content
// bitmap at construction time (§3 text variant, §4.C Font Provider).
func buildTextBlock(b *Block, w *WireBlock, bc *BuildContext) error {
	if bc == nil || bc.Fonts == nil {
		return fmt.Errorf("no font provider configured")
	}
	run, err := bc.Fonts.Shape(w.FontNames, w.FontAttributes, []rune(w.Text))
	if err != nil {
		return err
	}
	b.NaturalWidth, b.NaturalHeight = run.Width, run.Height

	cw := resolveAutoSelf(b.ContentWidthSpec, run.Width)
	ch := resolveAutoSelf(b.ContentHeightSpec, run.Height)
	if cw <= 0 || ch <= 0 {
		return nil
	}
	content := NewBitmap(cw, ch)
	textColor := PremulColor{A: 0xFF, R: 0xFF, G: 0xFF, B: 0xFF}
	if w.TextColor != nil {
		textColor = Premultiply(*w.TextColor)
	}
	tintGlyphRun(run, content, 0, 0, textColor)
	b.Content = content
	return nil
}

// buildImageBlock decodes the declared image file and resamples it to the
// requested content size (§3 image variant, §4.C Image Provider).
func buildImageBlock(b *Block, w *WireBlock, bc *BuildContext) error {
	if bc == nil || bc.Images == nil {
		return fmt.Errorf("no image provider configured")
	}
	decoded, err := bc.Images.Decode(w.Path, w.ImageType)
	if err != nil {
		return err
	}
	b.NaturalWidth, b.NaturalHeight = decoded.NaturalWidth, decoded.NaturalHeight

	cw := resolveAutoSelf(b.ContentWidthSpec, decoded.NaturalWidth)
	ch := resolveAutoSelf(b.ContentHeightSpec, decoded.NaturalHeight)
	if cw <= 0 || ch <= 0 {
		return nil
	}
	if cw == decoded.NaturalWidth && ch == decoded.NaturalHeight {
		b.Content = decoded.Bitmap
	} else {
		b.Content = resizeBitmap(decoded.Bitmap, cw, ch)
	}
	return nil
}

// resolveAutoSelf resolves a content-size SizeValue that may only
// reference its own natural dimension (Auto), since §4.E says Auto content
// size defaults to the natural bitmap dimension for an image block, and the
// same rule is extended to text's natural run size. Absolute/Ref values are
// resolved normally by the caller's surrounding RefFrame elsewhere; this
// helper only covers the self-contained Auto case used at construction
// time, before any surface/prev frame exists.
func resolveAutoSelf(v SizeValue, natural int) int {
	if v.IsAuto() {
		return natural
	}
	if v.Kind == SizeAbsolute {
		return v.N
	}
	// A Ref at construction time (no surface/prev context yet) resolves
	// against an empty frame; composites/surfaces re-resolve this properly
	// once their own frame is known (see layout.go).
	return v.Resolve(RefFrame{})
}

// buildCompositeBlock constructs every child (without id-cache reuse —
// composite children are anonymous within their parent's JSON, matching
// §6's "blocks:[<block-with-optional-x-y>]"), measures each with the same
// SizeValue engine used for surface layout (with surface*/output*
// references unbound to 0 per §4.E), positions them either by explicit x/y
// or by relative anchor to the prior child, and bakes the result into a
// single content bitmap.
func buildCompositeBlock(b *Block, w *WireBlock, bc *BuildContext) error {
	type placed struct {
		child *Block
		box   Rect
	}
	var children []placed
	var prev *placed

	for _, cw := range w.Blocks {
		child, err := BuildBlock(cw, bc)
		if err != nil {
			return err
		}
		frame := RefFrame{}
		if prev != nil {
			frame.PrevBlockWidth, frame.PrevBlockHeight = prev.box.W, prev.box.H
			frame.PrevContentWidth, frame.PrevContentHeight = prev.box.W, prev.box.H
		}
		cwidth := resolveDim(child.MinWidth, child.MaxWidth, naturalBoxWidth(child), frame)
		cheight := resolveDim(child.MinHeight, child.MaxHeight, naturalBoxHeight(child), frame)

		var x, y int
		switch {
		case cw.X != nil || cw.Y != nil:
			if cw.X != nil {
				x = *cw.X
			}
			if cw.Y != nil {
				y = *cw.Y
			}
		case prev != nil:
			x, y = anchorRelativeTo(child.Anchor, prev.box, cwidth, cheight)
		}

		children = append(children, placed{child: child, box: Rect{X: x, Y: y, W: cwidth, H: cheight}})
		prev = &children[len(children)-1]
	}

	if len(children) == 0 {
		return nil
	}

	minX, minY := children[0].box.X, children[0].box.Y
	for _, c := range children {
		minX, minY = min(minX, c.box.X), min(minY, c.box.Y)
	}
	if minX < 0 || minY < 0 {
		for i := range children {
			children[i].box.X -= minX
			children[i].box.Y -= minY
		}
	}

	maxX, maxY := 0, 0
	for _, c := range children {
		maxX = max(maxX, c.box.X+c.box.W)
		maxY = max(maxY, c.box.Y+c.box.H)
	}

	cw := resolveAutoSelf(b.ContentWidthSpec, maxX)
	ch := resolveAutoSelf(b.ContentHeightSpec, maxY)
	b.NaturalWidth, b.NaturalHeight = maxX, maxY

	content := NewBitmap(cw, ch)
	b.Children = make([]CompositeChild, 0, len(children))
	for _, c := range children {
		renderBlockInto(c.child, content, c.box.X, c.box.Y, c.box.W, c.box.H)
		b.Children = append(b.Children, CompositeChild{Block: c.child, X: c.box.X, Y: c.box.Y})
	}
	b.Content = content
	return nil
}

// anchorRelativeTo positions a composite child relative to the
// already-placed previous sibling, per §4.E composite blocks: left sits to
// the prior child's left, right continues after it, top/bottom stack
// above/below centred on the cross axis, center/none start at the origin.
func anchorRelativeTo(anchor BlockAnchor, prev Rect, w, h int) (int, int) {
	switch anchor {
	case AnchorAxisLeft:
		return prev.X - w, prev.Y
	case AnchorAxisRight:
		return prev.X + prev.W, prev.Y
	case AnchorAxisTop:
		return prev.X + (prev.W-w)/2, prev.Y - h
	case AnchorAxisBottom:
		return prev.X + (prev.W-w)/2, prev.Y + prev.H
	default:
		return 0, 0
	}
}

func naturalBoxWidth(b *Block) int {
	w := b.NaturalWidth
	if b.Content != nil {
		w = b.Content.Width
	}
	return w + b.BorderLeft.Width + b.BorderRight.Width
}

func naturalBoxHeight(b *Block) int {
	h := b.NaturalHeight
	if b.Content != nil {
		h = b.Content.Height
	}
	return h + b.BorderTop.Width + b.BorderBottom.Width
}

// resolveDim resolves a min/max-clamped SizeValue pair against frame,
// substituting natural when the value is Auto (§4.E "Resolving SizeValue").
func resolveDim(minV, maxV SizeValue, natural int, frame RefFrame) int {
	// min/max here serve only as the clamp bounds; the dimension itself for
	// a composite child is its natural/measured box, clamped exactly like
	// surface layout clamps a resolved width/height.
	v := natural
	lo, hi := minV.Resolve(frame), maxV.Resolve(frame)
	if hi > 0 && lo > hi {
		return v
	}
	if lo > 0 && v < lo {
		v = lo
	}
	if hi > 0 && v > hi {
		v = hi
	}
	return v
}
