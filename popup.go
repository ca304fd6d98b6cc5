package sbar

// PositionerHandle is the subset of xdg_positioner a Popup drives.
type PositionerHandle interface {
	SetSize(w, h int32)
	SetAnchorRect(x, y, w, h int32)
	SetGravity(g int32)
	SetConstraintAdjustment(mask uint32)
	SetReactive()
	Destroy()
}

// PopupHandle is the subset of xdg_popup a Popup drives.
type PopupHandle interface {
	Grab(seat SeatHandle, serial uint32)
	Reposition(positioner PositionerHandle, token uint32)
	Destroy()
}

// SeatHandle is the wl_seat object a popup grab is issued against.
type SeatHandle interface {
	Name() string
}

// PopupGrab names the seat/serial a popup requested a grab with (§3).
type PopupGrab struct {
	Seat   *Seat
	Serial uint32
}

// Popup is a transient xdg_popup anchored to a parent bar or popup (§3).
// parent is either a *Bar or another *Popup; popup trees are acyclic by
// construction since a popup is only ever created from its parent's own
// `popups` array (§3 invariant).
type Popup struct {
	Surface

	Positioner PositionerHandle
	XdgPopup   PopupHandle

	Parent      any // *Bar or *Popup
	WantX, WantY, WantWidth, WantHeight int
	Gravity     int
	ConstraintAdjustment int
	Grab        *PopupGrab

	reposToken uint32
}

// NewPopup constructs a popup in WantConfigure, parented to parent (a *Bar
// or *Popup).
func NewPopup(parent any) *Popup {
	p := &Popup{Parent: parent}
	p.state = StateWantConfigure
	p.Scale = 1
	return p
}

// Configure applies reconciled positioner inputs and decides whether a
// RepositionPending cycle or a fresh create is needed (§4.F popup state
// machine: "RepositionPending entered when any positioner input changes
// post-creation").
func (p *Popup) Configure(x, y, width, height int, vertical bool, gravity, constraintAdjustment int, render bool) (positionerChanged bool) {
	positionerChanged = p.WantX != x || p.WantY != y || p.WantWidth != width ||
		p.WantHeight != height || p.Gravity != gravity ||
		p.ConstraintAdjustment != constraintAdjustment || p.Vertical != vertical

	p.WantX, p.WantY, p.WantWidth, p.WantHeight = x, y, width, height
	p.Vertical = vertical
	p.Gravity = gravity
	p.ConstraintAdjustment = constraintAdjustment
	p.Render = render

	if positionerChanged {
		switch p.state {
		case StateWantConfigure:
			// not yet created; creation itself carries the new positioner.
		default:
			p.state = StateRepositionPending
		}
	}
	return positionerChanged
}

// ResolvedSize derives the popup's actual width/height the same way a
// bar's does (§4.E wanted-size deduction applies identically to popups).
func (p *Popup) ResolvedSize() (width, height int, ok bool) {
	width, height = p.WantWidth, p.WantHeight
	if width == 0 || height == 0 {
		dw, dh := WantedSize(p.Blocks, p.Vertical)
		if width == 0 {
			width = dw
		}
		if height == 0 {
			height = dh
		}
	}
	return width, height, width > 0 || height > 0
}

// ApplyPositioner pushes the popup's current size/gravity/constraint state
// (and reactive, per §4.F: "'reactive' is set so the compositor
// re-evaluates constraints on parent motion") to the positioner object.
func (p *Popup) ApplyPositioner() {
	if p.Positioner == nil {
		return
	}
	w, h, _ := p.ResolvedSize()
	p.Positioner.SetSize(int32(w), int32(h))
	p.Positioner.SetAnchorRect(int32(p.WantX), int32(p.WantY), 1, 1)
	p.Positioner.SetGravity(int32(p.Gravity))
	p.Positioner.SetConstraintAdjustment(uint32(p.ConstraintAdjustment))
	p.Positioner.SetReactive()
}

// Reposition issues xdg_popup.reposition with a fresh token (§4.F:
// "xdg_popup.reposition(positioner, token) is issued and the next
// configure closes the state").
func (p *Popup) Reposition() {
	if p.XdgPopup == nil || p.Positioner == nil {
		return
	}
	p.reposToken++
	p.ApplyPositioner()
	p.XdgPopup.Reposition(p.Positioner, p.reposToken)
}

// ResolveGrab searches seats for one whose recent-button-serial ring
// contains the requested grab serial (§4.G "Popup grab resolution"). The
// first matching seat found wins; nil if none matches, in which case
// popup creation fails per §8 boundary behaviour.
func ResolveGrab(seats []*Seat, serial uint32) *Seat {
	for _, s := range seats {
		if s.HasSerial(serial) {
			return s
		}
	}
	return nil
}

// OnConfigure handles an xdg_surface.configure/xdg_popup.configure pair:
// adopt the granted geometry and move to Sized, which clears
// RepositionPending. The ack is sent by the driver's xdg_surface handler.
func (p *Popup) OnConfigure(width, height int) {
	if width > 0 {
		p.Width = width
	}
	if height > 0 {
		p.Height = height
	}
	if p.Buffer != nil && !p.Buffer.Matches(p.Width, p.Height) {
		p.Buffer.Close()
		p.Buffer = nil
	}
	p.state = StateSized
	p.Relayout(0, 0)
}

// OnDismissed handles the compositor's popup_done event: the popup and its
// whole subtree die, symmetric with the parent-dies-first case (§3
// Lifecycle).
func (p *Popup) OnDismissed() {
	p.Destroy()
}

// Destroy tears down this popup's Wayland objects and its children.
func (p *Popup) Destroy() {
	p.state = StateClosing
	for _, c := range p.Popups {
		c.Destroy()
	}
	p.Popups = nil
	p.ReleaseBlocks()
	if p.Buffer != nil {
		p.Buffer.Close()
		p.Buffer = nil
	}
	if p.WlSurface != nil {
		p.WlSurface.Destroy()
	}
	if p.XdgPopup != nil {
		p.XdgPopup.Destroy()
	}
	if p.Positioner != nil {
		p.Positioner.Destroy()
	}
}
