package sbar

import "encoding/json"

// SurfaceState is a bar or popup's place in the configure/ack/commit
// protocol dance (§4.F). Bars use every state but RepositionPending;
// popups additionally pass through RepositionPending whenever a positioner
// input changes after creation.
type SurfaceState int

const (
	StateWantConfigure SurfaceState = iota
	StateSized
	StatePainting
	StateIdle
	StateRepositionPending
	StateClosing
)

func (s SurfaceState) String() string {
	switch s {
	case StateWantConfigure:
		return "want-configure"
	case StateSized:
		return "sized"
	case StatePainting:
		return "painting"
	case StateIdle:
		return "idle"
	case StateRepositionPending:
		return "reposition-pending"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// WlSurfaceHandle is the subset of wl_surface the renderer drives: attach a
// buffer, damage, set an input region, and commit. driver.go's wlproto
// binding is the only implementation; everything above this package is
// wayland-agnostic.
type WlSurfaceHandle interface {
	Attach(buf WlBufferHandle, x, y int32)
	DamageBuffer(x, y, w, h int32)
	SetInputRegion(rects []Rect)
	Commit()
	Destroy()
}

// WlBufferHandle is one wl_buffer created against an ShmBuffer.
type WlBufferHandle interface {
	Destroy()
}

// Surface holds the fields common to a Bar and a Popup (§3).
type Surface struct {
	state SurfaceState

	WlSurface WlSurfaceHandle
	Buffer    *ShmBuffer
	PendingBuf WlBufferHandle

	Width, Height int
	Scale         int
	Vertical      bool
	Render        bool
	CursorShape   CursorShape

	InputRegions []Rect

	Blocks     []*Block
	BlockBoxes []BlockBox

	Popups []*Popup

	UserData json.RawMessage

	// lastConfigureSerial is the most recent configure serial, recorded
	// after it has been acked; 0 before the first configure.
	lastConfigureSerial uint32

	// needsRepaint tracks whether a repaint is owed once the buffer is free
	// (§4.B: paint is deferred, not dropped, when the buffer is busy).
	needsRepaint bool
}

// State reports the surface's current protocol state machine position.
func (s *Surface) State() SurfaceState { return s.state }

// ReleaseBlocks releases every held block, called on teardown.
// Reconciliation releases replaced blocks one by one in reconcileBlocks.
func (s *Surface) ReleaseBlocks() {
	for _, b := range s.Blocks {
		b.Release()
	}
	s.Blocks = nil
	s.BlockBoxes = nil
}

// Hotspot returns the final rectangle block i was composited into, per §8
// invariant 1. Panics if i is out of range, matching slice semantics; the
// reconciler/report code only ever calls this within range.
func (s *Surface) Hotspot(i int) BlockBox { return s.BlockBoxes[i] }

// layoutFrame builds the LayoutFrame a block list is measured against,
// given the enclosing output's dimensions. Popups pass 0,0: their frame
// carries their own width/height as surface* and zero output*.
func (s *Surface) layoutFrame(outputW, outputH int) LayoutFrame {
	return LayoutFrame{
		Vertical: s.Vertical, SurfaceWidth: s.Width, SurfaceHeight: s.Height,
		OutputWidth: outputW, OutputHeight: outputH,
	}
}

// Relayout recomputes BlockBoxes for the current Blocks/Width/Height
// (§4.E). Called whenever the block list or surface size changes.
func (s *Surface) Relayout(outputW, outputH int) {
	s.BlockBoxes = LayoutBlocks(s.Blocks, s.layoutFrame(outputW, outputH))
}

// Paint renders the current blocks into dst (§4.E "Block render").
func (s *Surface) Paint(dst *Bitmap) {
	RenderSurface(dst, s.Blocks, s.BlockBoxes)
}

// HitTest returns the index of the topmost (last-drawn) block whose box
// contains (x, y), or -1. RenderSurface draws none-anchored blocks first and
// then the rest, each in list order, so an anchored block is "on top" of
// any none-anchored one (§8 invariant 1 / pointer focus).
func (s *Surface) HitTest(x, y int) int {
	hit := -1
	for i := len(s.BlockBoxes) - 1; i >= 0; i-- {
		b := s.BlockBoxes[i]
		if x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height {
			if i >= len(s.Blocks) || s.Blocks[i].Anchor != AnchorAxisNone {
				return i
			}
			if hit < 0 {
				hit = i
			}
		}
	}
	return hit
}
