package wlproto

import "github.com/rajveermalviya/go-wayland/wayland"

// wp_cursor_shape_manager_v1 / wp_cursor_shape_device_v1 — optional global
// (§4.H: "absence logs a warning and disables cursor hints").

const (
	WpCursorShapeDeviceShapeDefault uint32 = iota + 1
	WpCursorShapeDeviceShapePointer
	WpCursorShapeDeviceShapeText
	WpCursorShapeDeviceShapeCrosshair
	WpCursorShapeDeviceShapeGrab
	WpCursorShapeDeviceShapeGrabbing
)

const (
	opCursorShapeManagerGetPointer uint32 = iota
)

type CursorShapeManager struct{ object }

func NewCursorShapeManager(conn *wayland.Conn) *CursorShapeManager {
	m := &CursorShapeManager{}
	m.object = newObject(conn, func(wayland.Event) {})
	return m
}

func (m *CursorShapeManager) GetPointer(ptr *Pointer) *CursorShapeDevice {
	d := &CursorShapeDevice{}
	d.object = newObject(m.conn, func(wayland.Event) {})
	m.send(opCursorShapeManagerGetPointer, d.proxy, ptr.proxy)
	return d
}

const (
	opCursorShapeDeviceSetShape uint32 = iota
	opCursorShapeDeviceDestroy
)

type CursorShapeDevice struct{ object }

// SetShape pushes shape for the given enter serial. The caller (driver.go)
// is responsible for never calling this when the block/surface requested
// the "no explicit request" sentinel (§9 Open Questions).
func (d *CursorShapeDevice) SetShape(serial uint32, shape uint32) {
	d.send(opCursorShapeDeviceSetShape, serial, shape)
}

func (d *CursorShapeDevice) Destroy() { d.send(opCursorShapeDeviceDestroy) }
