package decimal

// flag is the four-valued sticky truncation indicator of spec §3, recording
// what was lost by a decimal right-shift so that later rounding can apply
// banker's rule correctly.
type flag int8

const (
	flagExact     flag = 0 // no digits lost
	flagBelowHalf flag = 1 // lost digits strictly less than half the least retained unit
	flagExactHalf flag = 2 // lost digits exactly half
	flagAboveHalf flag = 3 // lost digits strictly more than half
)

func (f flag) String() string {
	switch f {
	case flagExact:
		return "exact"
	case flagBelowHalf:
		return "below-half"
	case flagExactHalf:
		return "exact-half"
	case flagAboveHalf:
		return "above-half"
	default:
		return "invalid-flag"
	}
}

// composeFlag folds one right-shift sub-step's (remainder, divisor) pair
// into the running truncation flag t, per spec §4.2's transition table.
func composeFlag(t flag, r, d uint64) flag {
	half := d / 2
	switch {
	case r < half:
		if r == 0 && t == flagExact {
			return flagExact
		}
		return flagBelowHalf
	case r == half:
		if t == flagExact {
			return flagExactHalf
		}
		return flagAboveHalf
	default: // r > half
		return flagAboveHalf
	}
}

// maxShiftLeft returns the largest k in [0, 26] such that a * 10^k < 10^26.
// Per spec §4.2: seed with a digit-count estimate from a double-precision
// log10, then refine exactly against the pow10 table (the estimate alone is
// not trustworthy at power-of-ten boundaries).
func maxShiftLeft(a []uint32) int {
	nd := numDigits(a)
	k := maxDigits - nd
	if k < 0 {
		k = 0
	}
	if k > maxDigits {
		k = maxDigits
	}
	return k
}

// minShiftRight returns the smallest k in [0, 26] such that a / 10^k <
// 10^26, for a significand a that may be up to 6 limbs wide (a multiplicand
// product, or an accumulator mid-division). Refines against the
// round-aware boundary 10^(26+k) - 5*10^(k-1) from spec §4.2/§9: a value
// sitting exactly on that boundary rounds up to 10^26 after the
// corresponding right-shift, so it needs one more digit of shift than a
// naive digit-count comparison would suggest.
func minShiftRight(a []uint32) int {
	nd := numDigits(a)
	k := nd - maxDigits
	if k < 0 {
		k = 0
	}
	if k == 0 {
		return 0
	}
	// Refine: at the boundary, a right-shift by k with round-half-up could
	// carry the result up to exactly 10^26, which would then need a further
	// shift. Detect that by comparing against 10^(26+k) minus half a unit at
	// the (k-1)th digit.
	for {
		if k > maxPow10Exp-1 {
			break
		}
		boundary := roundBoundary(k)
		n := len(a)
		if len(boundary) > n {
			n = len(boundary)
		}
		if cmp(padTo(a, n), padTo(boundary, n)) < 0 {
			break
		}
		k++
	}
	return k
}

// roundBoundary computes 10^(26+k) - 5*10^(k-1) as a limb slice, the exact
// threshold spec §4.2 specifies for minShiftRight's rounding-aware
// refinement.
func roundBoundary(k int) []uint32 {
	hi := pow10[maxDigits+k]
	var lo []uint32
	if k-1 >= 0 {
		five := make([]uint32, len(pow10[k-1])+1)
		mul1(five, pow10[k-1], 5)
		lo = trimLimbs(five)
	} else {
		lo = []uint32{0}
	}
	n := len(hi)
	if len(lo) > n {
		n = len(lo)
	}
	out := make([]uint32, n)
	subtract(out, padTo(hi, n), padTo(lo, n))
	return trimLimbs(out)
}

// dsl multiplies the n-limb significand a by 10^k in place, in steps of up
// to 9 digits (one limb's worth) at a time, per spec §4.2.
func dsl(a []uint32, k int) {
	for k > 0 {
		step := k
		if step > 9 {
			step = 9
		}
		mul1(a, a, pow10Limb32[step])
		k -= step
	}
}

// dsr divides the significand a by 10^k in place, composing the truncation
// flag t across each single-limb division sub-step per spec §4.2.
func dsr(a []uint32, k int, t *flag) {
	for k > 0 {
		step := k
		if step > 9 {
			step = 9
		}
		d := pow10Limb32[step]
		r := div1(a, a, d)
		*t = composeFlag(*t, uint64(r), uint64(d))
		k -= step
	}
}
