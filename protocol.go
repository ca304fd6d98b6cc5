package sbar

import (
	"encoding/json"
	"fmt"
)

// Wire types mirror exactly what a controller sends over stdin and what the
// state reporter writes to stdout. They are kept distinct from the live
// surface/block model so reconciliation always has two separate trees to
// diff between: what just arrived, and what is already realised.

// WireRect is an input-region or hotspot box as it appears on the wire.
type WireRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// WireBorder is one side of a block's four-sided border.
type WireBorder struct {
	Width int   `json:"width"`
	Color Color `json:"color"`
}

// WireBlock is a single block description, type-tagged by Type with
// type-specific fields left zero for the variants that don't use them.
type WireBlock struct {
	ID                int          `json:"id,omitempty"`
	Type              BlockType    `json:"type"`
	Anchor            BlockAnchor  `json:"anchor,omitempty"`
	Color             *Color       `json:"color,omitempty"`
	MinWidth          int          `json:"min_width,omitempty"`
	MaxWidth          int          `json:"max_width,omitempty"`
	MinHeight         int          `json:"min_height,omitempty"`
	MaxHeight         int          `json:"max_height,omitempty"`
	ContentWidth      int          `json:"content_width,omitempty"`
	ContentHeight     int          `json:"content_height,omitempty"`
	ContentTransform  int          `json:"content_transform,omitempty"`
	ContentAnchor     int          `json:"content_anchor,omitempty"`
	BorderLeft        *WireBorder `json:"border_left,omitempty"`
	BorderRight       *WireBorder `json:"border_right,omitempty"`
	BorderTop         *WireBorder `json:"border_top,omitempty"`
	BorderBottom      *WireBorder `json:"border_bottom,omitempty"`
	Render            *bool       `json:"render,omitempty"`

	// text
	Text           string   `json:"text,omitempty"`
	FontNames      []string `json:"font_names,omitempty"`
	FontAttributes string   `json:"font_attributes,omitempty"`
	TextColor      *Color   `json:"text_color,omitempty"`

	// image
	Path      string `json:"path,omitempty"`
	ImageType string `json:"image_type,omitempty"`

	// composite
	Blocks []*WireBlock `json:"blocks,omitempty"`
	X      *int         `json:"x,omitempty"`
	Y      *int         `json:"y,omitempty"`
}

// BlockType tags a WireBlock/Block variant.
type BlockType int

const (
	BlockSpacer BlockType = iota
	BlockText
	BlockImage
	BlockComposite
)

// BlockAnchor dictates a block's surface-level placement along the main
// axis (§4.E): left/right advance from an end, center competes for the
// centred span, top/bottom mirror left/right on a vertical surface, none is
// full-surface and drawn first.
type BlockAnchor int

const (
	AnchorAxisNone BlockAnchor = iota
	AnchorAxisLeft
	AnchorAxisRight
	AnchorAxisCenter
	AnchorAxisTop
	AnchorAxisBottom
)

// LayerAnchor is the zwlr_layer_surface_v1 anchor bitmask: which edges of
// the output the bar is pinned to.
type LayerAnchor int

const (
	LayerAnchorTop LayerAnchor = 1 << iota
	LayerAnchorBottom
	LayerAnchorLeft
	LayerAnchorRight
)

// Vertical reports whether a combination of anchored edges makes this bar
// span top-to-bottom (a side bar) rather than left-to-right.
func (a LayerAnchor) Vertical() bool {
	left := a&LayerAnchorLeft != 0
	right := a&LayerAnchorRight != 0
	top := a&LayerAnchorTop != 0
	bottom := a&LayerAnchorBottom != 0
	return top && bottom && !(left && right)
}

// Layer is the zwlr_layer_shell_v1 layer enum.
type Layer int

const (
	LayerBackground Layer = iota
	LayerBottom
	LayerTop
	LayerOverlay
)

// CursorShape mirrors wp_cursor_shape_device_v1's shape enum, plus the
// CursorShapeUnset sentinel meaning "don't push a shape at all" (§9 Open
// Questions: the source's trailing-underscore default is taken to mean no
// set_shape request is issued).
type CursorShape int

const (
	CursorShapeUnset CursorShape = iota
	CursorShapeDefault
	CursorShapePointer
	CursorShapeText
	CursorShapeCrosshair
	CursorShapeGrab
	CursorShapeGrabbing
)

// WireBar is a bar description: one entry of an output's array in the
// top-level stdin object.
type WireBar struct {
	Width           int                `json:"width"`
	Height          int                `json:"height"`
	Scale           int                `json:"scale"`
	ExclusiveZone   int                `json:"exclusive_zone"`
	Anchor          LayerAnchor        `json:"anchor"`
	Layer           Layer              `json:"layer"`
	MarginTop       int                `json:"margin_top"`
	MarginRight     int                `json:"margin_right"`
	MarginBottom    int                `json:"margin_bottom"`
	MarginLeft      int                `json:"margin_left"`
	CursorShape     CursorShape        `json:"cursor_shape"`
	Render          *bool              `json:"render,omitempty"`
	InputRegions    []WireRect         `json:"input_regions,omitempty"`
	UserData        json.RawMessage    `json:"userdata,omitempty"`
	Blocks          []*WireBlock       `json:"blocks,omitempty"`
	Popups          []*WirePopup       `json:"popups,omitempty"`
}

// WirePopup is a popup description, nested under a bar or another popup.
type WirePopup struct {
	X                    int             `json:"x"`
	Y                    int             `json:"y"`
	Width                int             `json:"width"`
	Height               int             `json:"height"`
	Vertical             bool            `json:"vertical"`
	Gravity              int             `json:"gravity"`
	ConstraintAdjustment int             `json:"constraint_adjustment"`
	Grab                 *uint32         `json:"grab,omitempty"`
	CursorShape          CursorShape     `json:"cursor_shape"`
	Render               *bool           `json:"render,omitempty"`
	InputRegions         []WireRect      `json:"input_regions,omitempty"`
	UserData             json.RawMessage `json:"userdata,omitempty"`
	Blocks               []*WireBlock    `json:"blocks,omitempty"`
	Popups               []*WirePopup    `json:"popups,omitempty"`
}

// WireState is the top-level stdin object: userdata, state_events, and one
// key per output name holding that output's bar array. The output keys are
// dynamic, so it's parsed in two passes by UnmarshalJSON.
type WireState struct {
	UserData    json.RawMessage
	StateEvents bool
	Outputs     map[string][]*WireBar
}

func (w *WireState) UnmarshalJSON(data []byte) error {
	var known struct {
		UserData    json.RawMessage `json:"userdata,omitempty"`
		StateEvents bool            `json:"state_events,omitempty"`
	}
	if err := json.Unmarshal(data, &known); err != nil {
		return fmt.Errorf("decode top-level state: %w", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode top-level state: %w", err)
	}
	delete(raw, "userdata")
	delete(raw, "state_events")

	outputs := make(map[string][]*WireBar, len(raw))
	for name, msg := range raw {
		var bars []*WireBar
		if err := json.Unmarshal(msg, &bars); err != nil {
			return fmt.Errorf("decode output %q bars: %w", name, err)
		}
		outputs[name] = bars
	}

	w.UserData = known.UserData
	w.StateEvents = known.StateEvents
	w.Outputs = outputs
	return nil
}

// ParseStateLine decodes one line of controller stdin. A decode failure is
// a ControllerProtocolError: the line is dropped, never fatal.
func ParseStateLine(line []byte) (*WireState, error) {
	var ws WireState
	if err := json.Unmarshal(line, &ws); err != nil {
		return nil, newErr(ControllerProtocolError, "parse state line", err)
	}
	return &ws, nil
}

// --- Outgoing state report shapes (§4.J) ---

// ReportHotspot is one block's realised rectangle, as echoed back to the
// controller.
type ReportHotspot struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ReportSurface is <surfaceDesc>: shared shape between bars and popups.
type ReportSurface struct {
	UserData json.RawMessage  `json:"userdata,omitempty"`
	Width    int              `json:"width"`
	Height   int              `json:"height"`
	Scale    int              `json:"scale"`
	Blocks   []ReportHotspot  `json:"blocks"`
	Popups   []*ReportSurface `json:"popups"`
}

// ReportOutput is one entry of the top-level "outputs" array.
type ReportOutput struct {
	Name      string           `json:"name"`
	Width     int              `json:"width"`
	Height    int              `json:"height"`
	Scale     int              `json:"scale"`
	Transform int              `json:"transform"`
	Bars      []*ReportSurface `json:"bars"`
}

// ReportFocus describes pointer focus: the focused surface's own userdata
// plus surface-local coordinates.
type ReportFocus struct {
	SurfaceUserData json.RawMessage `json:"surface_userdata,omitempty"`
	X               int             `json:"x"`
	Y               int             `json:"y"`
}

// ReportButton describes the last pointer button event.
type ReportButton struct {
	Code   uint32 `json:"code"`
	State  bool   `json:"state"`
	Serial uint32 `json:"serial"`
}

// ReportScroll describes the last pointer scroll event.
type ReportScroll struct {
	Axis         int     `json:"axis"`
	VectorLength float64 `json:"vector_length"`
}

// ReportPointer is <ptrDesc>.
type ReportPointer struct {
	Focus  *ReportFocus  `json:"focus"`
	Button *ReportButton `json:"button"`
	Scroll *ReportScroll `json:"scroll"`
}

// ReportSeat is one entry of the top-level "seats" array.
type ReportSeat struct {
	Name    string         `json:"name"`
	Pointer *ReportPointer `json:"pointer"`
}

// StateReport is the full JSON object emitted on stdout per dirtying event.
type StateReport struct {
	UserData json.RawMessage `json:"userdata,omitempty"`
	Outputs  []ReportOutput  `json:"outputs"`
	Seats    []ReportSeat    `json:"seats"`
}
