package sbar

import "encoding/json"

// Block is the live (already-built) form of a WireBlock: a rectangular
// visual primitive, one of spacer/text/image/composite (§3). Once built its
// content bitmap and attributes do not change: reconciliation either reuses
// the block as it is (same id at the same index) or replaces it with a
// freshly built one.
type Block struct {
	id     int
	typ    BlockType
	refs   int
	cache  *BlockCache // nil if never registered under an id

	Anchor           BlockAnchor
	Background       *PremulColor
	BorderLeft       Border
	BorderRight      Border
	BorderTop        Border
	BorderBottom     Border
	MinWidth         SizeValue
	MaxWidth         SizeValue
	MinHeight        SizeValue
	MaxHeight        SizeValue
	ContentWidthSpec SizeValue
	ContentHeightSpec SizeValue
	ContentTransform ContentTransform
	ContentAnchor    Anchor9
	Render           bool

	// Content, once rasterised, is immutable for the life of the block.
	Content       *Bitmap
	NaturalWidth  int // intrinsic content size, e.g. the decoded image's own dims
	NaturalHeight int

	// Composite-only: children with their pre-baked positions, in the order
	// they were laid out into Content.
	Children []CompositeChild

	// Box is filled in by the layout pass that last placed this block; it is
	// not part of block identity and is overwritten on every layout.
	Box BlockBox
}

// CompositeChild is one child of a composite block, positioned within the
// composite's pre-baked content bitmap (§4.E composite blocks).
type CompositeChild struct {
	Block *Block
	X, Y  int
}

// Border is one side of a block's four-sided border.
type Border struct {
	Width int
	Color PremulColor
}

// BlockBox is the layout result for one block: its placed rectangle plus
// the content rectangle inside it, in surface coordinates (§3).
type BlockBox struct {
	X, Y, Width, Height               int
	ContentX, ContentY                int
	ContentWidth, ContentHeight       int
}

// Retain increments the block's reference count. Called whenever a surface
// or composite parent takes ownership of an already-built block.
func (b *Block) Retain() {
	b.refs++
}

// Release decrements the reference count; at zero the block frees its
// content bitmap, releases any composite children, and removes itself from
// the id-index (§4.D, §8 invariant 4).
func (b *Block) Release() {
	b.refs--
	if b.refs > 0 {
		return
	}
	for _, c := range b.Children {
		c.Block.Release()
	}
	if b.cache != nil && b.id > 0 {
		b.cache.forget(b.id)
	}
	b.Content = nil
	b.Children = nil
}

// RefCount reports the current reference count, for tests and invariant
// checks (§8 invariant 4).
func (b *Block) RefCount() int { return b.refs }

// ID is the controller-assigned id, or 0 if the block is anonymous.
func (b *Block) ID() int { return b.id }

// Type reports the block's variant tag.
func (b *Block) Type() BlockType { return b.typ }

// SameIdentity reports whether b can be reused in place of a newly-arrived
// wire block at the same list index, per §3 Lifecycle / §4.G step 4: reuse
// iff both carry the same positive id.
func (b *Block) SameIdentity(w *WireBlock) bool {
	return b.id > 0 && w.ID > 0 && b.id == w.ID
}

// BuildContext supplies the external collaborators a block build needs:
// font shaping and image decoding (§4.C).
type BuildContext struct {
	Fonts  FontProvider
	Images ImageProvider
}

// BuildBlock constructs a new Block from wire data. It does not consult the
// cache; callers needing id-based reuse go through BlockCache.Get.
func BuildBlock(w *WireBlock, bc *BuildContext) (*Block, error) {
	b := &Block{
		id:               w.ID,
		typ:              w.Type,
		refs:             1,
		Anchor:           w.Anchor,
		ContentTransform: ContentTransform(w.ContentTransform),
		ContentAnchor:    Anchor9(w.ContentAnchor),
		Render:           w.Render == nil || *w.Render,
	}
	if w.Color != nil {
		c := Premultiply(*w.Color)
		b.Background = &c
	}
	b.BorderLeft = decodeBorder(w.BorderLeft)
	b.BorderRight = decodeBorder(w.BorderRight)
	b.BorderTop = decodeBorder(w.BorderTop)
	b.BorderBottom = decodeBorder(w.BorderBottom)

	var err error
	if b.MinWidth, err = DecodeSizeValue(w.MinWidth); err != nil {
		return nil, err
	}
	if b.MaxWidth, err = DecodeSizeValue(w.MaxWidth); err != nil {
		return nil, err
	}
	if b.MinHeight, err = DecodeSizeValue(w.MinHeight); err != nil {
		return nil, err
	}
	if b.MaxHeight, err = DecodeSizeValue(w.MaxHeight); err != nil {
		return nil, err
	}
	if b.ContentWidthSpec, err = DecodeSizeValue(w.ContentWidth); err != nil {
		return nil, err
	}
	if b.ContentHeightSpec, err = DecodeSizeValue(w.ContentHeight); err != nil {
		return nil, err
	}

	switch w.Type {
	case BlockSpacer:
		// no content.
	case BlockText:
		if err := buildTextBlock(b, w, bc); err != nil {
			return replaceWithSpacer(b, err)
		}
	case BlockImage:
		if err := buildImageBlock(b, w, bc); err != nil {
			return replaceWithSpacer(b, err)
		}
	case BlockComposite:
		if err := buildCompositeBlock(b, w, bc); err != nil {
			return nil, err // a broken composite child is a build error, not a resource error
		}
	default:
		return nil, newErr(SurfaceBuildError, "build block", errUnsupportedBlockType{w.Type})
	}
	return b, nil
}

// replaceWithSpacer implements §7's RendererResourceError policy: a font or
// image failure degrades the block to a transparent spacer of its declared
// size rather than failing the whole surface.
func replaceWithSpacer(b *Block, cause error) (*Block, error) {
	b.typ = BlockSpacer
	b.Content = nil
	b.NaturalWidth, b.NaturalHeight = 0, 0
	_ = cause // dropped: no error is returned and nothing is logged
	return b, nil
}

func decodeBorder(w *WireBorder) Border {
	if w == nil {
		return Border{}
	}
	return Border{Width: w.Width, Color: Premultiply(w.Color)}
}

type errUnsupportedBlockType struct{ t BlockType }

func (e errUnsupportedBlockType) Error() string { return "unsupported block type" }

// rawOrNil returns raw userdata bytes, or nil, used by the report
// builder; kept here since blocks don't carry userdata but surfaces do and
// both share this helper shape.
func rawOrNil(r json.RawMessage) json.RawMessage {
	if len(r) == 0 {
		return nil
	}
	return r
}
