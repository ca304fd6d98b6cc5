package sbar

// LayerSurfaceHandle is the subset of zwlr_layer_surface_v1 a Bar drives
// (§4.F state machine).
type LayerSurfaceHandle interface {
	SetSize(w, h uint32)
	SetAnchor(a LayerAnchor)
	SetExclusiveZone(v int32)
	SetMargin(top, right, bottom, left int32)
	SetLayer(l Layer)
	AckConfigure(serial uint32)
	Destroy()
}

// Bar is a layer-shell surface anchored to an output (§3). It owns its
// block list, popup children, and drives the WantConfigure → Sized →
// Painting → Idle state machine of §4.F.
type Bar struct {
	Surface

	Output        *Output
	Layer         LayerSurfaceHandle
	LayerEnum     Layer
	Anchor        LayerAnchor
	ExclusiveZone int
	MarginTop, MarginRight, MarginBottom, MarginLeft int

	// wantedWidth/Height are what the controller asked for before §4.E's
	// wanted-size deduction and before the compositor's own configure may
	// override them.
	wantedWidth, wantedHeight int
}

// NewBar constructs a bar in WantConfigure, not yet committed.
func NewBar(output *Output) *Bar {
	b := &Bar{Output: output}
	b.state = StateWantConfigure
	b.Scale = 1
	return b
}

// Configure applies reconciled attributes (size, scale, anchor, layer,
// margins, exclusive zone, cursor shape, render flag) and
// decides whether a fresh Wayland configure cycle is needed (§4.G step 5).
func (b *Bar) Configure(width, height, scale int, anchor LayerAnchor, layer Layer, exclusive int, marginTop, marginRight, marginBottom, marginLeft int, cursor CursorShape, render bool) (geometryChanged bool) {
	vertical := anchor.Vertical()
	geometryChanged = b.wantedWidth != width || b.wantedHeight != height ||
		b.Anchor != anchor || b.Vertical != vertical ||
		b.ExclusiveZone != exclusive ||
		b.MarginTop != marginTop || b.MarginRight != marginRight ||
		b.MarginBottom != marginBottom || b.MarginLeft != marginLeft ||
		b.Scale != scale

	b.wantedWidth, b.wantedHeight = width, height
	b.Anchor, b.Vertical = anchor, vertical
	b.LayerEnum = layer
	b.ExclusiveZone = exclusive
	b.MarginTop, b.MarginRight, b.MarginBottom, b.MarginLeft = marginTop, marginRight, marginBottom, marginLeft
	b.Scale = scale
	b.CursorShape = cursor
	b.Render = render

	if geometryChanged && b.state != StateWantConfigure {
		b.state = StateWantConfigure
	}
	return geometryChanged
}

// ResolvedSize derives the actual width/height to request from the
// compositor: the controller's explicit value, or the §4.E wanted-size
// deduction when either dimension is 0.
func (b *Bar) ResolvedSize() (width, height int, ok bool) {
	width, height = b.wantedWidth, b.wantedHeight
	if width == 0 || height == 0 {
		dw, dh := WantedSize(b.Blocks, b.Vertical)
		if width == 0 {
			width = dw
		}
		if height == 0 {
			height = dh
		}
	}
	// §4.E: "A bar or popup with both derived dimensions = 0 is treated as
	// invalid and rejected."
	return width, height, width > 0 || height > 0
}

// ScaleMargins recomputes exclusive-zone/margins scaled by the output's
// new scale factor (§8 "Output scale change triggers relayout and re-send
// of layer-surface size/exclusive/margins scaled by the new factor";
// §9 SUPPLEMENTED FEATURES).
func (b *Bar) ScaleMargins(oldScale, newScale int) {
	if oldScale == 0 || oldScale == newScale {
		return
	}
	scale := func(v int) int { return v * newScale / oldScale }
	b.ExclusiveZone = scale(b.ExclusiveZone)
	b.MarginTop = scale(b.MarginTop)
	b.MarginRight = scale(b.MarginRight)
	b.MarginBottom = scale(b.MarginBottom)
	b.MarginLeft = scale(b.MarginLeft)
	b.state = StateWantConfigure
}

// ApplyLayerState pushes the bar's current configuration to the
// layer-surface object, ahead of the first commit or a reconfiguration.
func (b *Bar) ApplyLayerState() {
	if b.Layer == nil {
		return
	}
	b.Layer.SetAnchor(b.Anchor)
	b.Layer.SetLayer(b.LayerEnum)
	b.Layer.SetExclusiveZone(int32(b.ExclusiveZone))
	b.Layer.SetMargin(int32(b.MarginTop), int32(b.MarginRight), int32(b.MarginBottom), int32(b.MarginLeft))
	w, h, _ := b.ResolvedSize()
	b.Layer.SetSize(uint32(w), uint32(h))
}

// OnConfigure handles a layer_surface.configure event: ack, and if the
// granted size differs from what's installed, drop the old buffer so the
// next paint allocates a matching one (§4.F Sized state).
func (b *Bar) OnConfigure(serial uint32, width, height int) {
	b.Layer.AckConfigure(serial)
	b.lastConfigureSerial = serial
	if width > 0 {
		b.Width = width
	}
	if height > 0 {
		b.Height = height
	}
	if b.Buffer != nil && !b.Buffer.Matches(b.Width, b.Height) {
		b.Buffer.Close()
		b.Buffer = nil
	}
	b.state = StateSized
	ow, oh := b.outputSize()
	b.Relayout(ow, oh)
}

func (b *Bar) outputSize() (int, int) {
	if b.Output == nil {
		return 0, 0
	}
	return b.Output.Width, b.Output.Height
}

// Destroy tears down the bar's Wayland objects in reverse creation order
// (§4.F Closing) and every popup rooted on it, releasing all held blocks.
func (b *Bar) Destroy() {
	b.state = StateClosing
	for _, p := range b.Popups {
		p.Destroy()
	}
	b.Popups = nil
	b.ReleaseBlocks()
	if b.Buffer != nil {
		b.Buffer.Close()
		b.Buffer = nil
	}
	if b.Layer != nil {
		b.Layer.Destroy()
	}
	if b.WlSurface != nil {
		b.WlSurface.Destroy()
	}
}
