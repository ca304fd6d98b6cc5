package sbar

// Seat mirrors one compositor seat (§3): a name plus an optional pointer
// sub-state, carrying enough history (a ring of recent button serials) to
// resolve a popup's grab request against whichever seat produced it.
type Seat struct {
	id   uint32
	Name string

	// Handle is the underlying wl_seat Wayland object, used only to issue a
	// popup grab request; nil until the driver has bound it.
	Handle SeatHandle

	HasPointer bool
	Pointer    PointerState

	// serialRing is an 8-bit rolling index into recent button-press serials,
	// usable to replay a popup grab request (§3, §4.G "Popup grab
	// resolution").
	serialRing [256]uint32
	serialNext uint8
	serialSeen int
}

// PointerState is a seat's pointer sub-state (§3).
type PointerState struct {
	Focus       *Surface
	FocusX      int
	FocusY      int
	FocusSerial uint32

	LastButtonCode   uint32
	LastButtonState  bool
	LastButtonSerial uint32

	HasScroll   bool
	ScrollAxis  int
	ScrollDelta float64

	CursorDevice bool // whether a wp_cursor_shape_device_v1 is attached
}

func newSeat(id uint32) *Seat {
	return &Seat{id: id}
}

// RecordButtonSerial appends a button-press serial to the rolling ring,
// overwriting the oldest entry once full (§3 BlockBox / Seat: "a ring of
// recent pointer button serials ... usable for replaying popup grab
// requests").
func (s *Seat) RecordButtonSerial(serial uint32) {
	s.serialRing[s.serialNext] = serial
	s.serialNext++
	if s.serialSeen < len(s.serialRing) {
		s.serialSeen++
	}
}

// HasSerial reports whether serial is still present in the ring.
func (s *Seat) HasSerial(serial uint32) bool {
	for i := 0; i < s.serialSeen; i++ {
		if s.serialRing[i] == serial {
			return true
		}
	}
	return false
}

// ClearFocus nulls the pointer's focused-surface pointer, called when the
// target surface dies (§4.F: "Pointer-focus's surface pointer is nulled if
// its target dies").
func (s *Seat) ClearFocus() {
	s.Pointer.Focus = nil
}
