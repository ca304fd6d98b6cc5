package sbar

import "encoding/json"

// SurfaceFactory creates the Wayland-backed objects a newly-born bar or
// popup needs. The reconciler only calls these two factory methods and
// never touches Wayland directly, so this package stays protocol-agnostic;
// driver.go supplies the concrete implementation over internal/wlproto.
type SurfaceFactory interface {
	CreateBarSurface(bar *Bar) error
	CreatePopupSurface(popup *Popup) error
	CreateBuffer(buf *ShmBuffer) (WlBufferHandle, error)
}

// Renderer is the single aggregate the IO loop entry point owns (§9 Design
// Notes "Global mutable state"): every output, seat, the block id-index,
// and the live surface tree hang off of it.
type Renderer struct {
	Outputs []*Output
	Seats   []*Seat
	Cache   *BlockCache
	Factory SurfaceFactory

	UserData    json.RawMessage
	StateEvents bool

	// stateDirty is set by any mutating event; the IO loop emits one state
	// report per iteration when set and clears it after (§4.J, §5 ordering).
	stateDirty bool
	// forceReport additionally requires an emission even if nothing
	// mutated, per §5: "every pointer event produces exactly one report
	// (forced), even if it didn't mutate any surface."
	forceReport bool
}

// NewRenderer constructs an empty Renderer bound to factory.
func NewRenderer(ctx *BuildContext, factory SurfaceFactory) *Renderer {
	return &Renderer{Cache: NewBlockCache(ctx), Factory: factory}
}

// MarkDirty/MarkForced implement §4.G step 6 and §4.H's pointer-event rule.
func (r *Renderer) MarkDirty()  { r.stateDirty = true }
func (r *Renderer) MarkForced() { r.stateDirty = true; r.forceReport = true }

// Dirty reports whether a state report is owed this iteration.
func (r *Renderer) Dirty() bool { return r.stateDirty || r.forceReport }

// ClearDirty resets the dirty/forced flags after the IO loop emits one
// report.
func (r *Renderer) ClearDirty() { r.stateDirty, r.forceReport = false, false }

func (r *Renderer) outputByName(name string) *Output {
	for _, o := range r.Outputs {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// Reconcile applies one parsed stdin line against the live tree (§4.G).
func (r *Renderer) Reconcile(ws *WireState) {
	r.UserData = ws.UserData
	r.StateEvents = ws.StateEvents

	for name, wireBars := range ws.Outputs {
		out := r.outputByName(name)
		if out == nil {
			continue // unknown output name: nothing to reconcile against yet
		}
		r.reconcileOutputBars(out, wireBars)
	}

	r.MarkDirty()
}

// reconcileOutputBars implements §4.G step 2: walk positional indices,
// configure/create/destroy in place, and trim trailing bars beyond the
// incoming array length.
func (r *Renderer) reconcileOutputBars(out *Output, wireBars []*WireBar) {
	for len(out.Bars) < len(wireBars) {
		out.Bars = append(out.Bars, nil)
	}
	for i, wb := range wireBars {
		if wb == nil {
			if out.Bars[i] != nil {
				out.Bars[i].Destroy()
				out.Bars[i] = nil
			}
			continue
		}
		if out.Bars[i] == nil {
			out.Bars[i] = NewBar(out)
		}
		if err := r.configureBar(out.Bars[i], wb); err != nil {
			out.Bars[i].Destroy()
			out.Bars[i] = nil
		}
	}
	for i := len(wireBars); i < len(out.Bars); i++ {
		if out.Bars[i] != nil {
			out.Bars[i].Destroy()
		}
	}
	out.Bars = out.Bars[:len(wireBars)]
}

// configureBar implements §4.G step 3: mutate every bar-level attribute,
// then recursively reconcile blocks and popups.
func (r *Renderer) configureBar(bar *Bar, wb *WireBar) error {
	render := wb.Render == nil || *wb.Render
	geometryChanged := bar.Configure(wb.Width, wb.Height, orDefaultScale(wb.Scale), wb.Anchor, wb.Layer,
		wb.ExclusiveZone, wb.MarginTop, wb.MarginRight, wb.MarginBottom, wb.MarginLeft, wb.CursorShape, render)
	bar.UserData = wb.UserData
	bar.InputRegions = decodeRects(wb.InputRegions)

	contentChanged, err := r.reconcileBlocks(&bar.Surface, wb.Blocks)
	if err != nil {
		return err
	}
	if contentChanged {
		bar.Relayout(bar.outputSize())
	}

	// render gates only the Wayland-facing half: blocks/popups are still
	// walked and kept current above/below so a later render:true picks up
	// everything that happened while hidden.
	if render {
		if bar.WlSurface == nil {
			if _, ok := bar.ResolvedSize(); !ok {
				return newErr(SurfaceBuildError, "configure bar", errZeroDerivedSize{})
			}
			if err := r.Factory.CreateBarSurface(bar); err != nil {
				return newErr(SurfaceBuildError, "create bar surface", err)
			}
			bar.ApplyLayerState()
			bar.WlSurface.Commit()
		} else if geometryChanged {
			bar.ApplyLayerState()
			bar.WlSurface.Commit()
		} else if contentChanged {
			bar.needsRepaint = true
		} else {
			bar.WlSurface.SetInputRegion(bar.InputRegions)
			bar.WlSurface.Commit()
		}
	}

	r.reconcilePopups(&bar.Popups, bar, wb.Popups)
	return nil
}

// reconcileBlocks implements §4.G step 4: reuse a block in place iff it
// shares the incoming block's (index, id); otherwise build fresh at that
// index and release whatever was previously there. Trailing blocks beyond
// the new list length are released.
func (r *Renderer) reconcileBlocks(s *Surface, wire []*WireBlock) (changed bool, err error) {
	newBlocks := make([]*Block, len(wire))
	for i, w := range wire {
		var old *Block
		if i < len(s.Blocks) {
			old = s.Blocks[i]
		}
		if old != nil && old.SameIdentity(w) {
			newBlocks[i] = old
			continue
		}
		b, berr := r.Cache.Get(w)
		if berr != nil {
			return changed, berr
		}
		newBlocks[i] = b
		changed = true
		if old != nil {
			old.Release()
		}
	}
	for i := len(wire); i < len(s.Blocks); i++ {
		s.Blocks[i].Release()
		changed = true
	}
	s.Blocks = newBlocks
	return changed, nil
}

// reconcilePopups diffs popups in place the same way bars are diffed
// against an output's array, except popups have no stable controller-side
// name to key on beyond list position (§3 Lifecycle: "Popups are born from
// a popups array entry on their parent and die symmetrically").
func (r *Renderer) reconcilePopups(popups *[]*Popup, parent any, wire []*WirePopup) {
	for len(*popups) < len(wire) {
		*popups = append(*popups, nil)
	}
	for i, wp := range wire {
		if wp == nil {
			if (*popups)[i] != nil {
				(*popups)[i].Destroy()
				(*popups)[i] = nil
			}
			continue
		}
		if (*popups)[i] == nil {
			(*popups)[i] = NewPopup(parent)
		}
		if err := r.configurePopup((*popups)[i], wp); err != nil {
			(*popups)[i].Destroy()
			(*popups)[i] = nil
		}
	}
	for i := len(wire); i < len(*popups); i++ {
		if (*popups)[i] != nil {
			(*popups)[i].Destroy()
		}
	}
	*popups = (*popups)[:len(wire)]
}

func (r *Renderer) configurePopup(p *Popup, wp *WirePopup) error {
	render := wp.Render == nil || *wp.Render
	positionerChanged := p.Configure(wp.X, wp.Y, wp.Width, wp.Height, wp.Vertical, wp.Gravity, wp.ConstraintAdjustment, render)
	p.UserData = wp.UserData
	p.InputRegions = decodeRects(wp.InputRegions)
	p.CursorShape = wp.CursorShape

	if wp.Grab != nil {
		seat := ResolveGrab(r.Seats, *wp.Grab)
		if seat == nil {
			return newErr(SurfaceBuildError, "configure popup", errUnresolvedGrab{*wp.Grab})
		}
		p.Grab = &PopupGrab{Seat: seat, Serial: *wp.Grab}
	} else {
		p.Grab = nil
	}

	contentChanged, err := r.reconcileBlocks(&p.Surface, wp.Blocks)
	if err != nil {
		return err
	}
	if contentChanged {
		p.Relayout(0, 0)
	}

	// render gates only the Wayland-facing half; see configureBar.
	if render {
		if p.WlSurface == nil {
			if _, ok := p.ResolvedSize(); !ok {
				return newErr(SurfaceBuildError, "configure popup", errZeroDerivedSize{})
			}
			if err := r.Factory.CreatePopupSurface(p); err != nil {
				return newErr(SurfaceBuildError, "create popup surface", err)
			}
			p.ApplyPositioner()
			p.WlSurface.Commit()
		} else if positionerChanged {
			p.Reposition()
		} else if contentChanged {
			p.needsRepaint = true
		} else {
			p.WlSurface.SetInputRegion(p.InputRegions)
			p.WlSurface.Commit()
		}
	}

	r.reconcilePopups(&p.Popups, p, wp.Popups)
	return nil
}

func orDefaultScale(v int) int {
	if v <= 0 {
		return 1
	}
	return v
}

func decodeRects(wr []WireRect) []Rect {
	if len(wr) == 0 {
		return nil
	}
	out := make([]Rect, len(wr))
	for i, r := range wr {
		out[i] = Rect{X: r.X, Y: r.Y, W: r.Width, H: r.Height}
	}
	return out
}

type errZeroDerivedSize struct{}

func (errZeroDerivedSize) Error() string { return "both derived dimensions are zero" }

type errUnresolvedGrab struct{ serial uint32 }

func (e errUnresolvedGrab) Error() string { return "no seat owns the requested grab serial" }

// RemoveOutput tears down output name and every bar/pointer-focus rooted
// in it (§3 Lifecycle), then removes it from the registry.
func (r *Renderer) RemoveOutput(name string) {
	for i, o := range r.Outputs {
		if o.Name == name {
			o.Teardown()
			r.Outputs = append(r.Outputs[:i], r.Outputs[i+1:]...)
			break
		}
	}
	for _, s := range r.Seats {
		if s.Pointer.Focus != nil && s.Pointer.Focus.State() == StateClosing {
			s.ClearFocus()
		}
	}
	r.MarkDirty()
}

// RemoveSeat drops seat name from the registry.
func (r *Renderer) RemoveSeat(id uint32) {
	for i, s := range r.Seats {
		if s.id == id {
			r.Seats = append(r.Seats[:i], r.Seats[i+1:]...)
			break
		}
	}
	r.MarkDirty()
}
