package sbar

// Output mirrors one compositor output's identity (§3). Name is learned
// asynchronously from wl_output.name; Bars is indexed by array position in
// the incoming JSON for that output name, and may contain nil gaps for
// bars that failed reconciliation (§8 invariant 5).
type Output struct {
	id        uint32 // opaque wl_registry name
	Name      string
	Scale     int
	Width     int
	Height    int
	Transform int
	Bars      []*Bar
}

func newOutput(id uint32) *Output {
	return &Output{id: id, Scale: 1}
}

// Teardown destroys every bar rooted on this output (§3 Lifecycle:
// "Outputs and seats follow the compositor registry; their disappearance
// tears down every bar/pointer-focus rooted in them").
func (o *Output) Teardown() {
	for _, b := range o.Bars {
		if b != nil {
			b.Destroy()
		}
	}
	o.Bars = nil
}
