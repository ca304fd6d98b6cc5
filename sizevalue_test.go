package sbar

import (
	"errors"
	"testing"
)

func TestDecodeSizeValueAuto(t *testing.T) {
	v, err := DecodeSizeValue(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.IsAuto() {
		t.Fatalf("expected Auto, got %+v", v)
	}
}

func TestDecodeSizeValueAbsolute(t *testing.T) {
	v, err := DecodeSizeValue(42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind != SizeAbsolute || v.N != 42 {
		t.Fatalf("expected Absolute(42), got %+v", v)
	}
}

func TestDecodeSizeValueRefRoundTrip(t *testing.T) {
	cases := []struct {
		basis RefBasis
		op    RefOp
		delta int
	}{
		{BasisSurfaceWidth, OpPlus, 0},
		{BasisSurfaceWidth, OpMinus, 4},
		{BasisSurfaceHeight, OpPlus, 10},
		{BasisSurfaceHeight, OpMinus, 10},
		{BasisOutputWidth, OpPlus, 1},
		{BasisOutputWidth, OpMinus, 1},
		{BasisOutputHeight, OpPlus, 1},
		{BasisOutputHeight, OpMinus, 1},
		{BasisPrevBlockWidth, OpPlus, 5},
		{BasisPrevBlockWidth, OpMinus, 5},
		{BasisPrevBlockHeight, OpPlus, 5},
		{BasisPrevBlockHeight, OpMinus, 5},
		{BasisPrevContentWidth, OpPlus, 0},
		{BasisPrevContentWidth, OpMinus, 0},
		{BasisPrevContentHeight, OpPlus, 3},
		{BasisPrevContentHeight, OpMinus, 3},
	}
	for _, c := range cases {
		want := SizeValue{Kind: SizeRef, Basis: c.basis, Op: c.op, N: c.delta}
		raw := want.Encode()
		got, err := DecodeSizeValue(raw)
		if err != nil {
			t.Fatalf("decode(%d) for basis=%v op=%v delta=%d: %v", raw, c.basis, c.op, c.delta, err)
		}
		if got != want {
			t.Fatalf("round trip mismatch: want %+v got %+v (raw=%d)", want, got, raw)
		}
	}
}

func TestDecodeSizeValueOutOfRange(t *testing.T) {
	// Just below the lowest known range, so no range matches.
	_, err := DecodeSizeValue(-16_000_001)
	if err == nil {
		t.Fatalf("expected error for out-of-range sentinel")
	}
	var rerr *RendererError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *RendererError, got %T", err)
	}
	if rerr.Kind != ControllerProtocolError {
		t.Fatalf("expected ControllerProtocolError, got %v", rerr.Kind)
	}
}

// S5 — size language: a composite block A of content 100x20 is followed by
// block B with min_width = PREV_BLOCK_W_PLUS(5) and content_width =
// PREV_CONTENT_W_MINUS(0); expect B's box width = 105, content width = 100.
func TestResolveSizeValueS5(t *testing.T) {
	frame := RefFrame{PrevBlockWidth: 100, PrevContentWidth: 100}
	minWidth := SizeValue{Kind: SizeRef, Basis: BasisPrevBlockWidth, Op: OpPlus, N: 5}
	contentWidth := SizeValue{Kind: SizeRef, Basis: BasisPrevContentWidth, Op: OpMinus, N: 0}

	if got := minWidth.Resolve(frame); got != 105 {
		t.Fatalf("min_width resolve = %d, want 105", got)
	}
	if got := contentWidth.Resolve(frame); got != 100 {
		t.Fatalf("content_width resolve = %d, want 100", got)
	}
}

func TestResolveSizeValueClampsNegativeToZero(t *testing.T) {
	v := SizeValue{Kind: SizeRef, Basis: BasisPrevBlockWidth, Op: OpMinus, N: 50}
	frame := RefFrame{PrevBlockWidth: 10}
	if got := v.Resolve(frame); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
}

func TestResolveSizeValueAutoSentinel(t *testing.T) {
	v := SizeValue{Kind: SizeAuto}
	if got := v.Resolve(RefFrame{}); got != -1 {
		t.Fatalf("expected Auto to resolve to -1 sentinel, got %d", got)
	}
}
