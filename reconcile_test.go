package sbar

import "testing"

// fakeFactory satisfies SurfaceFactory without touching Wayland, so the
// reconciler can be exercised with plain Go structs.
type fakeFactory struct {
	barSurfaces, popupSurfaces, buffers int
}

func (f *fakeFactory) CreateBarSurface(bar *Bar) error {
	f.barSurfaces++
	bar.WlSurface = &fakeSurfaceHandle{}
	return nil
}

func (f *fakeFactory) CreatePopupSurface(popup *Popup) error {
	f.popupSurfaces++
	popup.WlSurface = &fakeSurfaceHandle{}
	return nil
}

func (f *fakeFactory) CreateBuffer(buf *ShmBuffer) (WlBufferHandle, error) {
	f.buffers++
	return &fakeBufferHandle{}, nil
}

type fakeSurfaceHandle struct{}

func (*fakeSurfaceHandle) Attach(buf WlBufferHandle, x, y int32) {}
func (*fakeSurfaceHandle) DamageBuffer(x, y, w, h int32)         {}
func (*fakeSurfaceHandle) SetInputRegion(rects []Rect)           {}
func (*fakeSurfaceHandle) Commit()                               {}
func (*fakeSurfaceHandle) Destroy()                              {}

type fakeBufferHandle struct{}

func (*fakeBufferHandle) Destroy() {}

func newTestRenderer() (*Renderer, *fakeFactory, *Output) {
	factory := &fakeFactory{}
	r := NewRenderer(&BuildContext{}, factory)
	out := newOutput(1)
	out.Name = "eDP-1"
	out.Width, out.Height = 1920, 1080
	r.Outputs = append(r.Outputs, out)
	return r, factory, out
}

func TestReconcileCreatesBarOnFirstSight(t *testing.T) {
	r, factory, _ := newTestRenderer()

	ws := &WireState{Outputs: map[string][]*WireBar{
		"eDP-1": {{Width: 1920, Height: 30}},
	}}
	r.Reconcile(ws)

	if len(r.Outputs[0].Bars) != 1 || r.Outputs[0].Bars[0] == nil {
		t.Fatalf("expected one bar realised, got %+v", r.Outputs[0].Bars)
	}
	if factory.barSurfaces != 1 {
		t.Fatalf("CreateBarSurface calls = %d, want 1", factory.barSurfaces)
	}
	if !r.Dirty() {
		t.Fatalf("expected renderer marked dirty after reconcile")
	}
}

func TestReconcileUnknownOutputNameIsIgnored(t *testing.T) {
	r, factory, _ := newTestRenderer()

	ws := &WireState{Outputs: map[string][]*WireBar{
		"HDMI-A-1": {{Width: 1920, Height: 30}},
	}}
	r.Reconcile(ws)

	if len(r.Outputs[0].Bars) != 0 {
		t.Fatalf("expected no bars created for unknown output, got %+v", r.Outputs[0].Bars)
	}
	if factory.barSurfaces != 0 {
		t.Fatalf("expected no surfaces created for unknown output")
	}
}

func TestReconcileTrimsTrailingBars(t *testing.T) {
	r, _, _ := newTestRenderer()

	r.Reconcile(&WireState{Outputs: map[string][]*WireBar{
		"eDP-1": {{Width: 1920, Height: 30}, {Width: 1920, Height: 20}},
	}})
	if len(r.Outputs[0].Bars) != 2 {
		t.Fatalf("expected two bars after first reconcile, got %d", len(r.Outputs[0].Bars))
	}

	r.Reconcile(&WireState{Outputs: map[string][]*WireBar{
		"eDP-1": {{Width: 1920, Height: 30}},
	}})
	if len(r.Outputs[0].Bars) != 1 {
		t.Fatalf("expected trailing bar trimmed, got %d bars", len(r.Outputs[0].Bars))
	}
}

func TestReconcileNullBarDestroysInPlace(t *testing.T) {
	r, _, _ := newTestRenderer()

	r.Reconcile(&WireState{Outputs: map[string][]*WireBar{
		"eDP-1": {{Width: 1920, Height: 30}},
	}})

	r.Reconcile(&WireState{Outputs: map[string][]*WireBar{
		"eDP-1": {nil},
	}})
	if r.Outputs[0].Bars[0] != nil {
		t.Fatalf("expected bar slot nulled out, got %+v", r.Outputs[0].Bars[0])
	}
}

func TestReconcileBlocksReusesSameIdentity(t *testing.T) {
	r, _, _ := newTestRenderer()
	s := &Surface{}

	w1 := &WireBlock{ID: 1, Type: BlockSpacer}
	changed, err := r.reconcileBlocks(s, []*WireBlock{w1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed {
		t.Fatalf("expected changed=true on first build")
	}
	first := s.Blocks[0]

	changed, err = r.reconcileBlocks(s, []*WireBlock{{ID: 1, Type: BlockSpacer}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changed {
		t.Fatalf("expected changed=false when identity (index,id) unchanged")
	}
	if s.Blocks[0] != first {
		t.Fatalf("expected the same block instance reused in place")
	}
}

func TestReconcileRenderFalseSkipsSurfaceCreation(t *testing.T) {
	r, factory, _ := newTestRenderer()
	no := false

	r.Reconcile(&WireState{Outputs: map[string][]*WireBar{
		"eDP-1": {{Width: 1920, Height: 30, Render: &no}},
	}})

	if factory.barSurfaces != 0 {
		t.Fatalf("expected no bar surface created while render=false, got %d", factory.barSurfaces)
	}
	if r.Outputs[0].Bars[0].WlSurface != nil {
		t.Fatalf("expected bar.WlSurface to stay nil while render=false")
	}
}

func TestReconcileRenderTogglingTrueLaterCreatesSurface(t *testing.T) {
	r, factory, _ := newTestRenderer()
	no := false

	r.Reconcile(&WireState{Outputs: map[string][]*WireBar{
		"eDP-1": {{Width: 1920, Height: 30, Render: &no}},
	}})
	r.Reconcile(&WireState{Outputs: map[string][]*WireBar{
		"eDP-1": {{Width: 1920, Height: 30}},
	}})

	if factory.barSurfaces != 1 {
		t.Fatalf("expected exactly one bar surface once render flips true, got %d", factory.barSurfaces)
	}
	if r.Outputs[0].Bars[0].WlSurface == nil {
		t.Fatalf("expected bar.WlSurface set once render=true")
	}
}

func TestResolveGrabFindsOwningSeat(t *testing.T) {
	a := newSeat(1)
	b := newSeat(2)
	b.RecordButtonSerial(42)

	got := ResolveGrab([]*Seat{a, b}, 42)
	if got != b {
		t.Fatalf("expected seat b to own serial 42")
	}
	if ResolveGrab([]*Seat{a, b}, 999) != nil {
		t.Fatalf("expected nil for an unrecorded serial")
	}
}
