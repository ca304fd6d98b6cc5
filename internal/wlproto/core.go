package wlproto

import "github.com/rajveermalviya/go-wayland/wayland"

// --- wl_display ---

const (
	opDisplaySync uint32 = iota
	opDisplayGetRegistry
)

type DisplayErrorEvent struct {
	ObjectId wayland.Proxy
	Code     uint32
	Message  string
}

type DisplayHandlers struct {
	OnError func(wayland.Event)
}

type Display struct {
	object
	h *DisplayHandlers
}

func NewDisplay(conn *wayland.Conn, h *DisplayHandlers) *Display {
	d := &Display{h: h}
	d.object = newObject(conn, d.dispatch)
	return d
}

func (d *Display) dispatch(evt wayland.Event) {
	if d.h != nil && d.h.OnError != nil {
		d.h.OnError(evt)
	}
}

func (d *Display) GetRegistry(h *RegistryHandlers) *Registry {
	r := &Registry{h: h}
	r.object = newObject(d.conn, r.dispatch)
	d.send(opDisplayGetRegistry, r.proxy)
	return r
}

// Sync requests a wl_callback that fires once every request enqueued
// before it has been processed by the server; used for the initial
// registry roundtrip (§4.H "Binds, at roundtrip").
func (d *Display) Sync(done func()) {
	cb := &object{}
	cb.conn = d.conn
	cb.proxy = d.conn.NewProxy(func(wayland.Event) { done() })
	d.send(opDisplaySync, cb.proxy)
}

// --- wl_registry ---

const (
	opRegistryBind uint32 = iota
)

type RegistryGlobalEvent struct {
	Name      uint32
	Interface string
	Version   uint32
}

type RegistryGlobalRemoveEvent struct {
	Name uint32
}

type RegistryHandlers struct {
	OnGlobal       func(wayland.Event)
	OnGlobalRemove func(wayland.Event)
}

type Registry struct {
	object
	h *RegistryHandlers
}

func (r *Registry) dispatch(evt wayland.Event) {
	switch evt.(type) {
	case *RegistryGlobalEvent:
		if r.h != nil && r.h.OnGlobal != nil {
			r.h.OnGlobal(evt)
		}
	case *RegistryGlobalRemoveEvent:
		if r.h != nil && r.h.OnGlobalRemove != nil {
			r.h.OnGlobalRemove(evt)
		}
	}
}

// Bind requests the global named by name, binding it to a fresh proxy of
// the caller-supplied object, already allocated before the bind request
// is sent.
func (r *Registry) Bind(name uint32, iface string, version uint32, target interface{ Proxy() wayland.Proxy }) {
	r.send(opRegistryBind, name, iface, version, target.Proxy())
}

// --- wl_compositor ---

const (
	opCompositorCreateSurface uint32 = iota
	opCompositorCreateRegion
)

type Compositor struct{ object }

func NewCompositor(conn *wayland.Conn) *Compositor {
	c := &Compositor{}
	c.object = newObject(conn, func(wayland.Event) {})
	return c
}

func (c *Compositor) CreateSurface() *Surface {
	s := &Surface{}
	s.object = newObject(c.conn, s.dispatch)
	c.send(opCompositorCreateSurface, s.proxy)
	return s
}

func (c *Compositor) CreateRegion() *Region {
	r := &Region{}
	r.object = newObject(c.conn, func(wayland.Event) {})
	c.send(opCompositorCreateRegion, r.proxy)
	return r
}

// --- wl_surface ---

const (
	opSurfaceAttach uint32 = iota
	opSurfaceDamageBuffer
	opSurfaceSetInputRegion
	opSurfaceCommit
	opSurfaceSetBufferScale
	opSurfaceDestroy
)

type Surface struct{ object }

func (s *Surface) dispatch(wayland.Event) {}

func (s *Surface) Attach(buf *Buffer, x, y int32) {
	var p wayland.Proxy
	if buf != nil {
		p = buf.proxy
	}
	s.send(opSurfaceAttach, p, x, y)
}

func (s *Surface) DamageBuffer(x, y, w, h int32) { s.send(opSurfaceDamageBuffer, x, y, w, h) }
func (s *Surface) SetInputRegion(r *Region) {
	var p wayland.Proxy
	if r != nil {
		p = r.proxy
	}
	s.send(opSurfaceSetInputRegion, p)
}
func (s *Surface) SetBufferScale(scale int32) { s.send(opSurfaceSetBufferScale, scale) }
func (s *Surface) Commit()                    { s.send(opSurfaceCommit) }
func (s *Surface) Destroy()                   { s.send(opSurfaceDestroy) }

// --- wl_region ---

const (
	opRegionAdd uint32 = iota
	opRegionSubtract
	opRegionDestroy
)

type Region struct{ object }

func (r *Region) Add(x, y, w, h int32) { r.send(opRegionAdd, x, y, w, h) }
func (r *Region) Destroy()             { r.send(opRegionDestroy) }

// --- wl_shm / wl_shm_pool / wl_buffer ---

const (
	ShmFormatArgb8888 uint32 = 0
	ShmFormatXrgb8888 uint32 = 1
)

const (
	opShmCreatePool uint32 = iota
)

type Shm struct{ object }

func NewShm(conn *wayland.Conn) *Shm {
	s := &Shm{}
	s.object = newObject(conn, func(wayland.Event) {})
	return s
}

func (s *Shm) CreatePool(fd int, size int32) *ShmPool {
	p := &ShmPool{}
	p.object = newObject(s.conn, func(wayland.Event) {})
	s.send(opShmCreatePool, fd, size)
	return p
}

const (
	opShmPoolCreateBuffer uint32 = iota
	opShmPoolDestroy
)

type ShmPool struct{ object }

func (p *ShmPool) CreateBuffer(offset, width, height, stride int32, format uint32, h *BufferHandlers) *Buffer {
	b := &Buffer{h: h}
	b.object = newObject(p.conn, b.dispatch)
	p.send(opShmPoolCreateBuffer, b.proxy, offset, width, height, stride, format)
	return b
}

func (p *ShmPool) Destroy() { p.send(opShmPoolDestroy) }

type BufferReleaseEvent struct{}

type BufferHandlers struct {
	OnRelease func(wayland.Event)
}

const (
	opBufferDestroy uint32 = iota
)

type Buffer struct {
	object
	h *BufferHandlers
}

func (b *Buffer) dispatch(evt wayland.Event) {
	if b.h != nil && b.h.OnRelease != nil {
		b.h.OnRelease(evt)
	}
}

func (b *Buffer) Destroy() { b.send(opBufferDestroy) }

// --- wl_output ---

type OutputGeometryEvent struct {
	X, Y                            int32
	PhysicalWidth, PhysicalHeight   int32
	Subpixel                        int32
	Make, Model                     string
	Transform                       int32
}

type OutputModeEvent struct {
	Flags         uint32
	Width, Height int32
	Refresh       int32
}

type OutputScaleEvent struct{ Factor int32 }
type OutputNameEvent struct{ Name string }
type OutputDescriptionEvent struct{ Description string }
type OutputDoneEvent struct{}

type OutputHandlers struct {
	OnGeometry    func(wayland.Event)
	OnMode        func(wayland.Event)
	OnScale       func(wayland.Event)
	OnName        func(wayland.Event)
	OnDescription func(wayland.Event)
	OnDone        func(wayland.Event)
}

type Output struct {
	object
	h *OutputHandlers
}

func NewOutput(conn *wayland.Conn, h *OutputHandlers) *Output {
	o := &Output{h: h}
	o.object = newObject(conn, o.dispatch)
	return o
}

func (o *Output) dispatch(evt wayland.Event) {
	if o.h == nil {
		return
	}
	switch evt.(type) {
	case *OutputGeometryEvent:
		call(o.h.OnGeometry, evt)
	case *OutputModeEvent:
		call(o.h.OnMode, evt)
	case *OutputScaleEvent:
		call(o.h.OnScale, evt)
	case *OutputNameEvent:
		call(o.h.OnName, evt)
	case *OutputDescriptionEvent:
		call(o.h.OnDescription, evt)
	case *OutputDoneEvent:
		call(o.h.OnDone, evt)
	}
}

func call(f func(wayland.Event), evt wayland.Event) {
	if f != nil {
		f(evt)
	}
}

// --- wl_seat ---

const (
	SeatCapabilityPointer uint32 = 1 << iota
	SeatCapabilityKeyboard
	SeatCapabilityTouch
)

const (
	opSeatGetPointer uint32 = iota
)

type SeatCapabilitiesEvent struct{ Capabilities uint32 }
type SeatNameEvent struct{ Name string }

type SeatHandlers struct {
	OnCapabilities func(wayland.Event)
	OnName         func(wayland.Event)
}

type Seat struct {
	object
	h *SeatHandlers
}

func NewSeat(conn *wayland.Conn, h *SeatHandlers) *Seat {
	s := &Seat{h: h}
	s.object = newObject(conn, s.dispatch)
	return s
}

func (s *Seat) dispatch(evt wayland.Event) {
	if s.h == nil {
		return
	}
	switch evt.(type) {
	case *SeatCapabilitiesEvent:
		call(s.h.OnCapabilities, evt)
	case *SeatNameEvent:
		call(s.h.OnName, evt)
	}
}

func (s *Seat) GetPointer(h *PointerHandlers) *Pointer {
	p := &Pointer{h: h}
	p.object = newObject(s.conn, p.dispatch)
	s.send(opSeatGetPointer, p.proxy)
	return p
}

// --- wl_pointer ---

type PointerEnterEvent struct {
	Serial             uint32
	Surface            wayland.Proxy
	SurfaceX, SurfaceY float64
}

type PointerLeaveEvent struct {
	Serial  uint32
	Surface wayland.Proxy
}

type PointerMotionEvent struct {
	Time               uint32
	SurfaceX, SurfaceY float64
}

type PointerButtonEvent struct {
	Serial, Time, Button, State uint32
}

type PointerAxisEvent struct {
	Time  uint32
	Axis  uint32
	Value float64
}

type PointerFrameEvent struct{}

const (
	opPointerSetCursor uint32 = iota
	opPointerRelease
)

type PointerHandlers struct {
	OnEnter  func(wayland.Event)
	OnLeave  func(wayland.Event)
	OnMotion func(wayland.Event)
	OnButton func(wayland.Event)
	OnAxis   func(wayland.Event)
	OnFrame  func(wayland.Event)
}

type Pointer struct {
	object
	h *PointerHandlers
}

func (p *Pointer) dispatch(evt wayland.Event) {
	if p.h == nil {
		return
	}
	switch evt.(type) {
	case *PointerEnterEvent:
		call(p.h.OnEnter, evt)
	case *PointerLeaveEvent:
		call(p.h.OnLeave, evt)
	case *PointerMotionEvent:
		call(p.h.OnMotion, evt)
	case *PointerButtonEvent:
		call(p.h.OnButton, evt)
	case *PointerAxisEvent:
		call(p.h.OnAxis, evt)
	case *PointerFrameEvent:
		call(p.h.OnFrame, evt)
	}
}

func (p *Pointer) Release() { p.send(opPointerRelease) }
