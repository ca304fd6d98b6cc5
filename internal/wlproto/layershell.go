package wlproto

import "github.com/rajveermalviya/go-wayland/wayland"

// zwlr_layer_shell_v1 / zwlr_layer_surface_v1 — hand-rolled, since
// go-wayland-scanner only ships wl_* and xdg-shell upstream; this package
// generates its own wlr-layer-shell binding for the same protocol.

const (
	LayerShellLayerBackground uint32 = iota
	LayerShellLayerBottom
	LayerShellLayerTop
	LayerShellLayerOverlay
)

const (
	LayerSurfaceAnchorTop uint32 = 1 << iota
	LayerSurfaceAnchorBottom
	LayerSurfaceAnchorLeft
	LayerSurfaceAnchorRight
)

const (
	opLayerShellGetLayerSurface uint32 = iota
)

type LayerShell struct{ object }

func NewLayerShell(conn *wayland.Conn) *LayerShell {
	ls := &LayerShell{}
	ls.object = newObject(conn, func(wayland.Event) {})
	return ls
}

// GetLayerSurface requests a layer surface for surface, optionally
// anchored to a specific output (nil lets the compositor choose).
func (ls *LayerShell) GetLayerSurface(surface *Surface, output *Output, layer uint32, namespace string, h *LayerSurfaceHandlers) *LayerSurface {
	s := &LayerSurface{h: h}
	s.object = newObject(ls.conn, s.dispatch)
	var outProxy wayland.Proxy
	if output != nil {
		outProxy = output.proxy
	}
	ls.send(opLayerShellGetLayerSurface, s.proxy, surface.proxy, outProxy, layer, namespace)
	return s
}

type LayerSurfaceConfigureEvent struct {
	Serial        uint32
	Width, Height uint32
}

type LayerSurfaceClosedEvent struct{}

type LayerSurfaceHandlers struct {
	OnConfigure func(wayland.Event)
	OnClosed    func(wayland.Event)
}

const (
	opLayerSurfaceSetSize uint32 = iota
	opLayerSurfaceSetAnchor
	opLayerSurfaceSetExclusiveZone
	opLayerSurfaceSetMargin
	opLayerSurfaceSetKeyboardInteractivity
	opLayerSurfaceSetLayer
	opLayerSurfaceAckConfigure
	opLayerSurfaceDestroy
)

type LayerSurface struct {
	object
	h *LayerSurfaceHandlers
}

func (s *LayerSurface) dispatch(evt wayland.Event) {
	if s.h == nil {
		return
	}
	switch evt.(type) {
	case *LayerSurfaceConfigureEvent:
		call(s.h.OnConfigure, evt)
	case *LayerSurfaceClosedEvent:
		call(s.h.OnClosed, evt)
	}
}

func (s *LayerSurface) SetSize(w, h uint32)     { s.send(opLayerSurfaceSetSize, w, h) }
func (s *LayerSurface) SetAnchor(anchor uint32) { s.send(opLayerSurfaceSetAnchor, anchor) }
func (s *LayerSurface) SetExclusiveZone(v int32) {
	s.send(opLayerSurfaceSetExclusiveZone, v)
}
func (s *LayerSurface) SetMargin(top, right, bottom, left int32) {
	s.send(opLayerSurfaceSetMargin, top, right, bottom, left)
}
func (s *LayerSurface) SetLayer(layer uint32)    { s.send(opLayerSurfaceSetLayer, layer) }
func (s *LayerSurface) AckConfigure(serial uint32) { s.send(opLayerSurfaceAckConfigure, serial) }
func (s *LayerSurface) Destroy()                 { s.send(opLayerSurfaceDestroy) }
