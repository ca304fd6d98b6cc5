package sbar

import (
	"fmt"
	"log"

	"github.com/rajveermalviya/go-wayland/wayland"

	"github.com/friedelschoen/sbar/internal/wlproto"
)

// Driver owns the Wayland connection and every global it binds (§4.H). It
// implements SurfaceFactory so the reconciler can create bar/popup Wayland
// objects without importing wlproto itself.
type Driver struct {
	Renderer *Renderer

	conn       *wayland.Conn
	display    *wlproto.Display
	registry   *wlproto.Registry
	compositor *wlproto.Compositor
	shm        *wlproto.Shm
	layerShell *wlproto.LayerShell
	wmBase     *wlproto.XdgWmBase
	cursorMgr  *wlproto.CursorShapeManager // nil if the compositor doesn't advertise it

	outputs map[uint32]*driverOutput
	seats   map[uint32]*driverSeat

	// surfaceIndex resolves an incoming wl_pointer enter/leave's wl_surface
	// proxy back to the owning domain *Surface.
	surfaceIndex map[wayland.Proxy]*Surface
}

type driverOutput struct {
	wl   *wlproto.Output
	name uint32
	out  *Output
}

type driverSeat struct {
	wl      *wlproto.Seat
	name    uint32
	seat    *Seat
	pointer *wlproto.Pointer
	cursor  *wlproto.CursorShapeDevice
}

// Name implements popup.go's SeatHandle: the identity a grab request is
// issued against is the seat's own name, not a Wayland object method.
func (ds *driverSeat) Name() string { return ds.seat.Name }

// NewDriver connects to displayName ("" selects WAYLAND_DISPLAY/default,
// matching wayland.Connect's own fallback) and binds every required and
// optional global via one roundtrip (§4.H).
func NewDriver(displayName string) (*Driver, error) {
	conn, err := wayland.Connect(displayName)
	if err != nil {
		return nil, newErr(FatalEnvironmentError, "connect to wayland", err)
	}

	d := &Driver{
		conn:         conn,
		outputs:      map[uint32]*driverOutput{},
		seats:        map[uint32]*driverSeat{},
		surfaceIndex: map[wayland.Proxy]*Surface{},
	}

	d.display = wlproto.NewDisplay(conn, &wlproto.DisplayHandlers{
		OnError: func(evt wayland.Event) {
			e := evt.(*wlproto.DisplayErrorEvent)
			log.Fatalf("fatal display error: object %v code %d: %s", e.ObjectId, e.Code, e.Message)
		},
	})

	var pendingGlobals []pendingGlobal
	d.registry = d.display.GetRegistry(&wlproto.RegistryHandlers{
		OnGlobal: func(evt wayland.Event) {
			e := evt.(*wlproto.RegistryGlobalEvent)
			pendingGlobals = append(pendingGlobals, pendingGlobal{e.Name, e.Interface, e.Version})
		},
		OnGlobalRemove: func(evt wayland.Event) {
			e := evt.(*wlproto.RegistryGlobalRemoveEvent)
			d.handleGlobalRemove(e.Name)
		},
	})

	done := make(chan struct{})
	d.display.Sync(func() { close(done) })
	d.conn.Dispatch()
	<-done

	var missing []string
	haveShell, haveWmBase := false, false
	for _, g := range pendingGlobals {
		switch g.iface {
		case "wl_compositor":
			d.compositor = wlproto.NewCompositor(conn)
			d.registry.Bind(g.name, g.iface, g.version, d.compositor)
		case "wl_shm":
			d.shm = wlproto.NewShm(conn)
			d.registry.Bind(g.name, g.iface, g.version, d.shm)
		case "zwlr_layer_shell_v1":
			d.layerShell = wlproto.NewLayerShell(conn)
			d.registry.Bind(g.name, g.iface, g.version, d.layerShell)
			haveShell = true
		case "xdg_wm_base":
			d.wmBase = wlproto.NewXdgWmBase(conn, &wlproto.XdgWmBaseHandlers{
				OnPing: func(evt wayland.Event) {
					d.wmBase.Pong(evt.(*wlproto.XdgWmBasePingEvent).Serial)
				},
			})
			d.registry.Bind(g.name, g.iface, g.version, d.wmBase)
			haveWmBase = true
		case "wp_cursor_shape_manager_v1":
			d.cursorMgr = wlproto.NewCursorShapeManager(conn)
			d.registry.Bind(g.name, g.iface, g.version, d.cursorMgr)
		case "wl_output":
			d.bindOutput(g)
		case "wl_seat":
			d.bindSeat(g)
		}
	}
	if !haveShell {
		missing = append(missing, "zwlr_layer_shell_v1")
	}
	if !haveWmBase {
		missing = append(missing, "xdg_wm_base")
	}
	if d.cursorMgr == nil {
		log.Println("warning: compositor doesn't advertise wp_cursor_shape_manager_v1, cursor hints disabled")
	}
	if len(missing) > 0 {
		return nil, newErr(FatalEnvironmentError, "bind wayland globals", fmt.Errorf("missing required globals: %v", missing))
	}

	return d, nil
}

type pendingGlobal struct {
	name    uint32
	iface   string
	version uint32
}

func (d *Driver) bindOutput(g pendingGlobal) {
	do := &driverOutput{name: g.name, out: newOutput(g.name)}
	do.wl = wlproto.NewOutput(d.conn, &wlproto.OutputHandlers{
		OnGeometry: func(evt wayland.Event) {
			e := evt.(*wlproto.OutputGeometryEvent)
			do.out.Transform = int(e.Transform)
		},
		OnMode: func(evt wayland.Event) {
			e := evt.(*wlproto.OutputModeEvent)
			do.out.Width, do.out.Height = int(e.Width), int(e.Height)
		},
		OnScale: func(evt wayland.Event) {
			e := evt.(*wlproto.OutputScaleEvent)
			old := do.out.Scale
			do.out.Scale = int(e.Factor)
			d.onOutputScaleChanged(do.out, old, do.out.Scale)
		},
		OnName: func(evt wayland.Event) {
			e := evt.(*wlproto.OutputNameEvent)
			do.out.Name = e.Name
		},
		OnDone: func(evt wayland.Event) {
			if d.Renderer != nil {
				d.Renderer.MarkDirty()
			}
		},
	})
	d.registry.Bind(g.name, g.iface, g.version, do.wl)
	d.outputs[g.name] = do
	if d.Renderer != nil {
		d.Renderer.Outputs = append(d.Renderer.Outputs, do.out)
	}
}

// onOutputScaleChanged propagates a scale change to every bar on out, per
// §8 boundary behaviour / §9 SUPPLEMENTED FEATURES.
func (d *Driver) onOutputScaleChanged(out *Output, oldScale, newScale int) {
	for _, bar := range out.Bars {
		if bar != nil {
			bar.ScaleMargins(oldScale, newScale)
		}
	}
	if d.Renderer != nil {
		d.Renderer.MarkDirty()
	}
}

func (d *Driver) bindSeat(g pendingGlobal) {
	ds := &driverSeat{name: g.name, seat: newSeat(g.name)}
	ds.wl = wlproto.NewSeat(d.conn, &wlproto.SeatHandlers{
		OnCapabilities: func(evt wayland.Event) {
			e := evt.(*wlproto.SeatCapabilitiesEvent)
			have := e.Capabilities&wlproto.SeatCapabilityPointer != 0
			if have && ds.pointer == nil {
				d.attachPointer(ds)
			} else if !have && ds.pointer != nil {
				ds.pointer.Release()
				ds.pointer = nil
				ds.seat.HasPointer = false
			}
		},
		OnName: func(evt wayland.Event) {
			e := evt.(*wlproto.SeatNameEvent)
			ds.seat.Name = e.Name
		},
	})
	ds.seat.Handle = ds
	d.registry.Bind(g.name, g.iface, g.version, ds.wl)
	d.seats[g.name] = ds
	if d.Renderer != nil {
		d.Renderer.Seats = append(d.Renderer.Seats, ds.seat)
	}
}

func (d *Driver) attachPointer(ds *driverSeat) {
	ds.seat.HasPointer = true
	ds.pointer = ds.wl.GetPointer(&wlproto.PointerHandlers{
		OnEnter: func(evt wayland.Event) {
			e := evt.(*wlproto.PointerEnterEvent)
			surf := d.surfaceIndex[e.Surface]
			if surf != nil && d.Renderer != nil {
				d.Renderer.OnPointerEnter(ds.seat, surf, int(e.SurfaceX), int(e.SurfaceY), e.Serial)
				d.applyCursorShape(ds, surf, e.Serial)
			}
		},
		OnLeave: func(evt wayland.Event) {
			e := evt.(*wlproto.PointerLeaveEvent)
			surf := d.surfaceIndex[e.Surface]
			if surf != nil && d.Renderer != nil {
				d.Renderer.OnPointerLeave(ds.seat, surf)
			}
		},
		OnMotion: func(evt wayland.Event) {
			e := evt.(*wlproto.PointerMotionEvent)
			if d.Renderer != nil {
				d.Renderer.OnPointerMotion(ds.seat, int(e.SurfaceX), int(e.SurfaceY))
			}
		},
		OnButton: func(evt wayland.Event) {
			e := evt.(*wlproto.PointerButtonEvent)
			if d.Renderer != nil {
				d.Renderer.OnPointerButton(ds.seat, e.Button, e.State != 0, e.Serial)
			}
		},
		OnAxis: func(evt wayland.Event) {
			e := evt.(*wlproto.PointerAxisEvent)
			if d.Renderer != nil {
				d.Renderer.OnPointerScroll(ds.seat, int(e.Axis), e.Value)
			}
		},
		OnFrame: func(evt wayland.Event) {
			if d.Renderer != nil {
				d.Renderer.OnPointerFrame()
			}
		},
	})
	if d.cursorMgr != nil {
		ds.cursor = d.cursorMgr.GetPointer(ds.pointer)
		ds.seat.Pointer.CursorDevice = true
	}
}

// applyCursorShape pushes surf's requested cursor shape, unless it's the
// CursorShapeUnset sentinel (§9 Open Questions: trailing-underscore
// default means "issue no set_shape request").
func (d *Driver) applyCursorShape(ds *driverSeat, surf *Surface, serial uint32) {
	if ds.cursor == nil || surf.CursorShape == CursorShapeUnset {
		return
	}
	shape, ok := cursorShapeWire(surf.CursorShape)
	if !ok {
		return
	}
	ds.cursor.SetShape(serial, shape)
}

func cursorShapeWire(c CursorShape) (uint32, bool) {
	switch c {
	case CursorShapeDefault:
		return wlproto.WpCursorShapeDeviceShapeDefault, true
	case CursorShapePointer:
		return wlproto.WpCursorShapeDeviceShapePointer, true
	case CursorShapeText:
		return wlproto.WpCursorShapeDeviceShapeText, true
	case CursorShapeCrosshair:
		return wlproto.WpCursorShapeDeviceShapeCrosshair, true
	case CursorShapeGrab:
		return wlproto.WpCursorShapeDeviceShapeGrab, true
	case CursorShapeGrabbing:
		return wlproto.WpCursorShapeDeviceShapeGrabbing, true
	default:
		return 0, false
	}
}

func (d *Driver) handleGlobalRemove(name uint32) {
	if do, ok := d.outputs[name]; ok {
		delete(d.outputs, name)
		if d.Renderer != nil {
			d.Renderer.RemoveOutput(do.out.Name)
		}
		return
	}
	if ds, ok := d.seats[name]; ok {
		delete(d.seats, name)
		if d.Renderer != nil {
			d.Renderer.RemoveSeat(ds.seat.id)
		}
		return
	}
}

// Dispatch pumps one round of already-buffered Wayland events (§5: "the
// blocking wl_display_dispatch call ... itself only dispatches already-
// buffered events").
func (d *Driver) Dispatch() error { return d.conn.Dispatch() }

// Fd is the Wayland connection's pollable file descriptor (§4.I).
func (d *Driver) Fd() uintptr { return d.conn.Fd() }

// Flush flushes queued outgoing requests (§4.I, §5 "Wayland EAGAIN on
// flush is likewise normal" — the IO loop treats an error here as
// non-fatal and retries the flush on its next iteration).
func (d *Driver) Flush() error { return d.conn.Flush() }

// --- SurfaceFactory ---

// CreateBarSurface builds the wl_surface + zwlr_layer_surface_v1 pair for a
// newly-born bar and wires its configure/closed events back into the
// domain Bar state machine (§4.F). The actual repaint is left to the IO
// loop's regular RepaintDirtySurfaces sweep, which fires every iteration
// and naturally picks up a surface whose buffer was just invalidated.
func (d *Driver) CreateBarSurface(bar *Bar) error {
	wlSurface := d.compositor.CreateSurface()
	var output *wlproto.Output
	if do, ok := d.outputs[bar.Output.id]; ok {
		output = do.wl
	}
	layer := d.layerShell.GetLayerSurface(wlSurface, output, layerWire(bar.LayerEnum), "sbar", &wlproto.LayerSurfaceHandlers{
		OnConfigure: func(evt wayland.Event) {
			e := evt.(*wlproto.LayerSurfaceConfigureEvent)
			bar.OnConfigure(e.Serial, int(e.Width), int(e.Height))
		},
		OnClosed: func(evt wayland.Event) {
			bar.Destroy()
		},
	})

	bar.WlSurface = &wlSurfaceAdapter{driver: d, surface: wlSurface}
	bar.Layer = &layerSurfaceAdapter{ls: layer}
	d.surfaceIndex[wlSurface.Proxy()] = &bar.Surface
	return nil
}

// CreatePopupSurface builds the wl_surface + xdg_surface + xdg_positioner +
// xdg_popup chain for a newly-born popup (§4.F).
func (d *Driver) CreatePopupSurface(popup *Popup) error {
	wlSurface := d.compositor.CreateSurface()
	positioner := d.wmBase.CreatePositioner()

	var parentXdgSurface *wlproto.XdgSurface
	switch parent := popup.Parent.(type) {
	case *Bar:
		// bars have no xdg_surface of their own (they're layer-shell, not
		// xdg-shell), so a top-level popup's parent arg is nil; the
		// compositor still knows the spatial parent via the bar's own
		// surface through zwlr_layer_surface_v1's implicit popup parenting.
		_ = parent
	case *Popup:
		if a, ok := parent.WlSurface.(*wlSurfaceAdapter); ok {
			parentXdgSurface = a.xdgSurface
		}
	}

	var xdgSurface *wlproto.XdgSurface
	xdgSurface = d.wmBase.GetXdgSurface(wlSurface, &wlproto.XdgSurfaceHandlers{
		OnConfigure: func(evt wayland.Event) {
			e := evt.(*wlproto.XdgSurfaceConfigureEvent)
			xdgSurface.AckConfigure(e.Serial)
		},
	})

	xdgPopup := xdgSurface.GetPopup(parentXdgSurface, positioner, &wlproto.XdgPopupHandlers{
		OnConfigure: func(evt wayland.Event) {
			e := evt.(*wlproto.XdgPopupConfigureEvent)
			popup.OnConfigure(int(e.Width), int(e.Height))
		},
		OnDone: func(evt wayland.Event) {
			popup.OnDismissed()
		},
		OnRepositioned: func(evt wayland.Event) {},
	})

	popup.WlSurface = &wlSurfaceAdapter{driver: d, surface: wlSurface, xdgSurface: xdgSurface}
	popup.XdgPopup = &popupHandleAdapter{popup: xdgPopup}
	popup.Positioner = &positionerAdapter{p: positioner}
	d.surfaceIndex[wlSurface.Proxy()] = &popup.Surface

	if popup.Grab != nil && popup.Grab.Seat != nil && popup.Grab.Seat.Handle != nil {
		xdgPopup.Grab(popup.Grab.Seat.Handle, popup.Grab.Serial)
	}
	return nil
}

// CreateBuffer wraps an ShmBuffer in a wl_shm_pool-backed wl_buffer. The
// pool is destroyed right away; the buffer keeps the pool's backing memory
// mapped until it is itself destroyed.
func (d *Driver) CreateBuffer(buf *ShmBuffer) (WlBufferHandle, error) {
	pool := d.shm.CreatePool(int(buf.Fd()), int32(buf.Size()))
	b := pool.CreateBuffer(0, int32(buf.Width), int32(buf.Height), int32(buf.Stride), wlproto.ShmFormatArgb8888, &wlproto.BufferHandlers{
		OnRelease: func(evt wayland.Event) {
			buf.Release()
		},
	})
	pool.Destroy()
	return &bufferAdapter{buf: b}, nil
}

func layerWire(l Layer) uint32 {
	switch l {
	case LayerBackground:
		return wlproto.LayerShellLayerBackground
	case LayerBottom:
		return wlproto.LayerShellLayerBottom
	case LayerTop:
		return wlproto.LayerShellLayerTop
	case LayerOverlay:
		return wlproto.LayerShellLayerOverlay
	default:
		return wlproto.LayerShellLayerTop
	}
}

func anchorWire(a LayerAnchor) uint32 {
	var v uint32
	if a&LayerAnchorTop != 0 {
		v |= wlproto.LayerSurfaceAnchorTop
	}
	if a&LayerAnchorBottom != 0 {
		v |= wlproto.LayerSurfaceAnchorBottom
	}
	if a&LayerAnchorLeft != 0 {
		v |= wlproto.LayerSurfaceAnchorLeft
	}
	if a&LayerAnchorRight != 0 {
		v |= wlproto.LayerSurfaceAnchorRight
	}
	return v
}

// --- adapters: translate between the core package's protocol-agnostic
// handle interfaces (surface.go/bar.go/popup.go) and wlproto's wire types.

type wlSurfaceAdapter struct {
	driver     *Driver
	surface    *wlproto.Surface
	xdgSurface *wlproto.XdgSurface // set for popups, nil for bars
}

func (a *wlSurfaceAdapter) Attach(buf WlBufferHandle, x, y int32) {
	var b *wlproto.Buffer
	if ba, ok := buf.(*bufferAdapter); ok {
		b = ba.buf
	}
	a.surface.Attach(b, x, y)
}

func (a *wlSurfaceAdapter) DamageBuffer(x, y, w, h int32) { a.surface.DamageBuffer(x, y, w, h) }

func (a *wlSurfaceAdapter) SetInputRegion(rects []Rect) {
	if len(rects) == 0 {
		a.surface.SetInputRegion(nil)
		return
	}
	region := a.driver.compositor.CreateRegion()
	for _, r := range rects {
		region.Add(int32(r.X), int32(r.Y), int32(r.W), int32(r.H))
	}
	a.surface.SetInputRegion(region)
	region.Destroy()
}

func (a *wlSurfaceAdapter) Commit() { a.surface.Commit() }

func (a *wlSurfaceAdapter) Destroy() {
	delete(a.driver.surfaceIndex, a.surface.Proxy())
	if a.xdgSurface != nil {
		a.xdgSurface.Destroy()
	}
	a.surface.Destroy()
}

type layerSurfaceAdapter struct{ ls *wlproto.LayerSurface }

func (a *layerSurfaceAdapter) SetSize(w, h uint32)          { a.ls.SetSize(w, h) }
func (a *layerSurfaceAdapter) SetAnchor(anchor LayerAnchor) { a.ls.SetAnchor(anchorWire(anchor)) }
func (a *layerSurfaceAdapter) SetExclusiveZone(v int32)     { a.ls.SetExclusiveZone(v) }
func (a *layerSurfaceAdapter) SetMargin(top, right, bottom, left int32) {
	a.ls.SetMargin(top, right, bottom, left)
}
func (a *layerSurfaceAdapter) SetLayer(l Layer)           { a.ls.SetLayer(layerWire(l)) }
func (a *layerSurfaceAdapter) AckConfigure(serial uint32) { a.ls.AckConfigure(serial) }
func (a *layerSurfaceAdapter) Destroy()                   { a.ls.Destroy() }

type positionerAdapter struct{ p *wlproto.XdgPositioner }

func (a *positionerAdapter) SetSize(w, h int32)             { a.p.SetSize(w, h) }
func (a *positionerAdapter) SetAnchorRect(x, y, w, h int32) { a.p.SetAnchorRect(x, y, w, h) }
func (a *positionerAdapter) SetGravity(g int32)             { a.p.SetGravity(g) }
func (a *positionerAdapter) SetConstraintAdjustment(mask uint32) {
	a.p.SetConstraintAdjustment(mask)
}
func (a *positionerAdapter) SetReactive() { a.p.SetReactive() }
func (a *positionerAdapter) Destroy()     { a.p.Destroy() }

type popupHandleAdapter struct{ popup *wlproto.XdgPopup }

func (a *popupHandleAdapter) Grab(seat SeatHandle, serial uint32) {
	ds, ok := seat.(*driverSeat)
	if !ok {
		return
	}
	a.popup.Grab(ds.wl, serial)
}

func (a *popupHandleAdapter) Reposition(positioner PositionerHandle, token uint32) {
	pa, ok := positioner.(*positionerAdapter)
	if !ok {
		return
	}
	a.popup.Reposition(pa.p, token)
}

func (a *popupHandleAdapter) Destroy() { a.popup.Destroy() }

type bufferAdapter struct{ buf *wlproto.Buffer }

func (a *bufferAdapter) Destroy() { a.buf.Destroy() }
