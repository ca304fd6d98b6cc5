package wlproto

import "github.com/rajveermalviya/go-wayland/wayland"

// xdg_wm_base / xdg_surface / xdg_popup / xdg_positioner, the subset sbar
// needs for popups (§4.F). Upstream go-wayland-scanner does generate
// xdg-shell, but sbar keeps its own hand-rolled copy alongside the
// wlr-layer-shell binding so every Wayland object in the renderer follows
// one consistent generation style instead of mixing a vendored generated
// package with hand-written ones.

const (
	opXdgWmBaseCreatePositioner uint32 = iota
	opXdgWmBaseGetXdgSurface
	opXdgWmBasePong
)

type XdgWmBasePingEvent struct{ Serial uint32 }

type XdgWmBaseHandlers struct {
	OnPing func(wayland.Event)
}

type XdgWmBase struct {
	object
	h *XdgWmBaseHandlers
}

func NewXdgWmBase(conn *wayland.Conn, h *XdgWmBaseHandlers) *XdgWmBase {
	b := &XdgWmBase{h: h}
	b.object = newObject(conn, b.dispatch)
	return b
}

func (b *XdgWmBase) dispatch(evt wayland.Event) {
	if b.h != nil && b.h.OnPing != nil {
		if _, ok := evt.(*XdgWmBasePingEvent); ok {
			b.h.OnPing(evt)
		}
	}
}

func (b *XdgWmBase) Pong(serial uint32) { b.send(opXdgWmBasePong, serial) }

func (b *XdgWmBase) CreatePositioner() *XdgPositioner {
	p := &XdgPositioner{}
	p.object = newObject(b.conn, func(wayland.Event) {})
	b.send(opXdgWmBaseCreatePositioner, p.proxy)
	return p
}

func (b *XdgWmBase) GetXdgSurface(surface *Surface, h *XdgSurfaceHandlers) *XdgSurface {
	s := &XdgSurface{h: h}
	s.object = newObject(b.conn, s.dispatch)
	b.send(opXdgWmBaseGetXdgSurface, s.proxy, surface.proxy)
	return s
}

// --- xdg_positioner ---

const (
	XdgPositionerGravityNone uint32 = iota
	XdgPositionerGravityTop
	XdgPositionerGravityBottom
	XdgPositionerGravityLeft
	XdgPositionerGravityRight
	XdgPositionerGravityTopLeft
	XdgPositionerGravityBottomLeft
	XdgPositionerGravityTopRight
	XdgPositionerGravityBottomRight
)

const (
	XdgPositionerConstraintAdjustmentSlideX uint32 = 1 << iota
	XdgPositionerConstraintAdjustmentSlideY
	XdgPositionerConstraintAdjustmentFlipX
	XdgPositionerConstraintAdjustmentFlipY
	XdgPositionerConstraintAdjustmentResizeX
	XdgPositionerConstraintAdjustmentResizeY
)

const (
	opPositionerSetSize uint32 = iota
	opPositionerSetAnchorRect
	opPositionerSetGravity
	opPositionerSetConstraintAdjustment
	opPositionerSetReactive
	opPositionerDestroy
)

type XdgPositioner struct{ object }

func (p *XdgPositioner) SetSize(w, h int32) { p.send(opPositionerSetSize, w, h) }
func (p *XdgPositioner) SetAnchorRect(x, y, w, h int32) {
	p.send(opPositionerSetAnchorRect, x, y, w, h)
}
func (p *XdgPositioner) SetGravity(g int32) { p.send(opPositionerSetGravity, g) }
func (p *XdgPositioner) SetConstraintAdjustment(mask uint32) {
	p.send(opPositionerSetConstraintAdjustment, mask)
}
func (p *XdgPositioner) SetReactive() { p.send(opPositionerSetReactive) }
func (p *XdgPositioner) Destroy()     { p.send(opPositionerDestroy) }

// --- xdg_surface ---

type XdgSurfaceConfigureEvent struct{ Serial uint32 }

type XdgSurfaceHandlers struct {
	OnConfigure func(wayland.Event)
}

const (
	opXdgSurfaceGetPopup uint32 = iota
	opXdgSurfaceAckConfigure
	opXdgSurfaceDestroy
)

type XdgSurface struct {
	object
	h *XdgSurfaceHandlers
}

func (s *XdgSurface) dispatch(evt wayland.Event) {
	if s.h != nil && s.h.OnConfigure != nil {
		if _, ok := evt.(*XdgSurfaceConfigureEvent); ok {
			s.h.OnConfigure(evt)
		}
	}
}

func (s *XdgSurface) AckConfigure(serial uint32) { s.send(opXdgSurfaceAckConfigure, serial) }
func (s *XdgSurface) Destroy()                   { s.send(opXdgSurfaceDestroy) }

func (s *XdgSurface) GetPopup(parent *XdgSurface, positioner *XdgPositioner, h *XdgPopupHandlers) *XdgPopup {
	p := &XdgPopup{h: h}
	p.object = newObject(s.conn, p.dispatch)
	var parentProxy wayland.Proxy
	if parent != nil {
		parentProxy = parent.proxy
	}
	s.send(opXdgSurfaceGetPopup, p.proxy, parentProxy, positioner.proxy)
	return p
}

// --- xdg_popup ---

type XdgPopupConfigureEvent struct {
	X, Y, Width, Height int32
}

type XdgPopupDoneEvent struct{}
type XdgPopupRepositionedEvent struct{ Token uint32 }

type XdgPopupHandlers struct {
	OnConfigure    func(wayland.Event)
	OnDone         func(wayland.Event)
	OnRepositioned func(wayland.Event)
}

const (
	opXdgPopupGrab uint32 = iota
	opXdgPopupReposition
	opXdgPopupDestroy
)

type XdgPopup struct {
	object
	h *XdgPopupHandlers
}

func (p *XdgPopup) dispatch(evt wayland.Event) {
	if p.h == nil {
		return
	}
	switch evt.(type) {
	case *XdgPopupConfigureEvent:
		call(p.h.OnConfigure, evt)
	case *XdgPopupDoneEvent:
		call(p.h.OnDone, evt)
	case *XdgPopupRepositionedEvent:
		call(p.h.OnRepositioned, evt)
	}
}

func (p *XdgPopup) Grab(seat *Seat, serial uint32) { p.send(opXdgPopupGrab, seat.proxy, serial) }
func (p *XdgPopup) Reposition(positioner *XdgPositioner, token uint32) {
	p.send(opXdgPopupReposition, positioner.proxy, token)
}
func (p *XdgPopup) Destroy() { p.send(opXdgPopupDestroy) }
