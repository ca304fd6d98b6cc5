package sbar

import "testing"

type failingFontProvider struct{}

func (failingFontProvider) Shape(fontNames []string, attributes string, runes []rune) (GlyphRun, error) {
	return GlyphRun{}, newErr(RendererResourceError, "shape", errTestFontFailure{})
}

type errTestFontFailure struct{}

func (errTestFontFailure) Error() string { return "no matching font" }

func TestBuildBlockSpacerHasNoContent(t *testing.T) {
	w := &WireBlock{Type: BlockSpacer, ContentWidth: 10, ContentHeight: 5}
	b, err := BuildBlock(w, &BuildContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Type() != BlockSpacer || b.Content != nil {
		t.Fatalf("expected bare spacer, got %+v", b)
	}
	if b.RefCount() != 1 {
		t.Fatalf("refcount = %d, want 1 for a freshly built block", b.RefCount())
	}
}

func TestBuildBlockTextDegradesToSpacerOnFontFailure(t *testing.T) {
	w := &WireBlock{Type: BlockText, Text: "hello", FontNames: []string{"NoSuchFont"}}
	bc := &BuildContext{Fonts: failingFontProvider{}}

	b, err := BuildBlock(w, bc)
	if err != nil {
		t.Fatalf("expected degrade-to-spacer, not a build error: %v", err)
	}
	if b.Type() != BlockSpacer {
		t.Fatalf("expected type degraded to BlockSpacer, got %v", b.Type())
	}
	if b.Content != nil {
		t.Fatalf("expected no content bitmap after degrade")
	}
}

func TestBuildBlockUnsupportedTypeErrors(t *testing.T) {
	w := &WireBlock{Type: BlockType(99)}
	if _, err := BuildBlock(w, &BuildContext{}); err == nil {
		t.Fatalf("expected an error for an unsupported block type")
	}
}

func TestSameIdentityRequiresPositiveMatchingID(t *testing.T) {
	b := &Block{id: 5}
	if !b.SameIdentity(&WireBlock{ID: 5}) {
		t.Fatalf("expected identity match on equal positive ids")
	}
	if b.SameIdentity(&WireBlock{ID: 6}) {
		t.Fatalf("expected no identity match on differing ids")
	}
	anon := &Block{id: 0}
	if anon.SameIdentity(&WireBlock{ID: 0}) {
		t.Fatalf("expected anonymous blocks (id=0) to never match identity")
	}
}

func TestBlockReleaseCascadesToCompositeChildren(t *testing.T) {
	child := &Block{typ: BlockSpacer, refs: 1}
	parent := &Block{typ: BlockComposite, refs: 1, Children: []CompositeChild{{Block: child, X: 0, Y: 0}}}

	parent.Release()
	if child.RefCount() != 0 {
		t.Fatalf("expected composite release to cascade to children, child refcount = %d", child.RefCount())
	}
}
