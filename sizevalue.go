package sbar

// SizeValue is the decoded form of a controller-supplied size integer.
// Zero value is Auto, matching the wire encoding of 0.
type SizeValue struct {
	Kind  SizeKind
	N     int // Absolute: the value itself. Ref: the delta.
	Basis RefBasis
	Op    RefOp
}

type SizeKind int

const (
	SizeAuto SizeKind = iota
	SizeAbsolute
	SizeRef
)

// RefBasis names the quantity a Ref size is computed relative to.
type RefBasis int

const (
	BasisSurfaceWidth RefBasis = iota
	BasisSurfaceHeight
	BasisOutputWidth
	BasisOutputHeight
	BasisPrevBlockWidth
	BasisPrevBlockHeight
	BasisPrevContentWidth
	BasisPrevContentHeight
)

type RefOp int

const (
	OpPlus RefOp = iota
	OpMinus
)

// Sentinel base values. Each basis/op pair occupies a contiguous block of
// negative integers: raw = base - n, n >= 0. These concrete bases are this
// implementation's own choice of compatibility contract with controllers.
const (
	baseSurfaceWPlus  = -1
	baseSurfaceWMinus = -1_000_001
	baseSurfaceHPlus  = -2_000_001
	baseSurfaceHMinus = -3_000_001

	baseOutputWPlus  = -4_000_001
	baseOutputWMinus = -5_000_001
	baseOutputHPlus  = -6_000_001
	baseOutputHMinus = -7_000_001

	basePrevBlockWPlus  = -8_000_001
	basePrevBlockWMinus = -9_000_001
	basePrevBlockHPlus  = -10_000_001
	basePrevBlockHMinus = -11_000_001

	basePrevContentWPlus  = -12_000_001
	basePrevContentWMinus = -13_000_001
	basePrevContentHPlus  = -14_000_001
	basePrevContentHMinus = -15_000_001
)

type sentinelRange struct {
	base  int
	basis RefBasis
	op    RefOp
}

// Ordered by base, most-negative last; DecodeSizeValue walks this table to
// find which contiguous range a raw value falls in.
var sentinelTable = []sentinelRange{
	{baseSurfaceWPlus, BasisSurfaceWidth, OpPlus},
	{baseSurfaceWMinus, BasisSurfaceWidth, OpMinus},
	{baseSurfaceHPlus, BasisSurfaceHeight, OpPlus},
	{baseSurfaceHMinus, BasisSurfaceHeight, OpMinus},
	{baseOutputWPlus, BasisOutputWidth, OpPlus},
	{baseOutputWMinus, BasisOutputWidth, OpMinus},
	{baseOutputHPlus, BasisOutputHeight, OpPlus},
	{baseOutputHMinus, BasisOutputHeight, OpMinus},
	{basePrevBlockWPlus, BasisPrevBlockWidth, OpPlus},
	{basePrevBlockWMinus, BasisPrevBlockWidth, OpMinus},
	{basePrevBlockHPlus, BasisPrevBlockHeight, OpPlus},
	{basePrevBlockHMinus, BasisPrevBlockHeight, OpMinus},
	{basePrevContentWPlus, BasisPrevContentWidth, OpPlus},
	{basePrevContentWMinus, BasisPrevContentWidth, OpMinus},
	{basePrevContentHPlus, BasisPrevContentHeight, OpPlus},
	{basePrevContentHMinus, BasisPrevContentHeight, OpMinus},
}

const sentinelRangeWidth = 1_000_000

// DecodeSizeValue interprets a raw controller-supplied integer: 0 is Auto,
// any positive value is an absolute pixel count, and each negative range
// encodes a (basis, op, delta) reference. This is the single place that
// interprets the sentinel scheme. A raw value outside every known range is
// a ControllerProtocolError.
func DecodeSizeValue(raw int) (SizeValue, error) {
	if raw >= 0 {
		if raw == 0 {
			return SizeValue{Kind: SizeAuto}, nil
		}
		return SizeValue{Kind: SizeAbsolute, N: raw}, nil
	}
	for _, r := range sentinelTable {
		// n ranges over [0, sentinelRangeWidth) within [base, base-width+1]
		if raw <= r.base && raw > r.base-sentinelRangeWidth {
			n := r.base - raw
			return SizeValue{Kind: SizeRef, Basis: r.basis, Op: r.op, N: n}, nil
		}
	}
	return SizeValue{}, newErr(ControllerProtocolError, "decode size value", errInvalidSizeValue{raw})
}

type errInvalidSizeValue struct{ raw int }

func (e errInvalidSizeValue) Error() string {
	return "size value out of range"
}

// Encode produces the raw wire integer for v, the inverse of DecodeSizeValue.
// Used by tests and by any component that must echo a SizeValue back out.
func (v SizeValue) Encode() int {
	switch v.Kind {
	case SizeAuto:
		return 0
	case SizeAbsolute:
		return v.N
	case SizeRef:
		for _, r := range sentinelTable {
			if r.basis == v.Basis && r.op == v.Op {
				return r.base - v.N
			}
		}
	}
	return 0
}

// RefFrame supplies the values a Ref SizeValue may be computed against.
// PrevBlock/PrevContent are the just-laid-out
// preceding sibling's box/content size; zero when there is no such sibling.
type RefFrame struct {
	SurfaceWidth, SurfaceHeight int
	OutputWidth, OutputHeight   int
	PrevBlockWidth              int
	PrevBlockHeight             int
	PrevContentWidth            int
	PrevContentHeight           int
}

func (f RefFrame) basisValue(b RefBasis) int {
	switch b {
	case BasisSurfaceWidth:
		return f.SurfaceWidth
	case BasisSurfaceHeight:
		return f.SurfaceHeight
	case BasisOutputWidth:
		return f.OutputWidth
	case BasisOutputHeight:
		return f.OutputHeight
	case BasisPrevBlockWidth:
		return f.PrevBlockWidth
	case BasisPrevBlockHeight:
		return f.PrevBlockHeight
	case BasisPrevContentWidth:
		return f.PrevContentWidth
	case BasisPrevContentHeight:
		return f.PrevContentHeight
	default:
		return 0
	}
}

// Resolve evaluates v against frame. Auto resolves to -1 (the caller, i.e.
// the layout pass, substitutes the natural/intrinsic size for Auto; -1 is
// never a valid resolved pixel size so it can't be mistaken for one).
// Negative results (e.g. PREV_BLOCK_W_MINUS with delta exceeding the
// referenced width) clamp to 0; resolved sizes are never negative.
func (v SizeValue) Resolve(frame RefFrame) int {
	switch v.Kind {
	case SizeAuto:
		return -1
	case SizeAbsolute:
		return v.N
	case SizeRef:
		base := frame.basisValue(v.Basis)
		var n int
		if v.Op == OpPlus {
			n = base + v.N
		} else {
			n = base - v.N
		}
		if n < 0 {
			return 0
		}
		return n
	default:
		return 0
	}
}

// IsAuto reports whether v is the Auto sentinel.
func (v SizeValue) IsAuto() bool { return v.Kind == SizeAuto }
