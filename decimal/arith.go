package decimal

import "math"

// Add returns a + b, correctly rounded with banker's rounding, per spec
// §4.3. The two operands are aligned to a common exponent first; if their
// signs agree the magnitudes are added and the sum is renormalized (which
// may require up to two right-shifts: one to bring an overflowing sum back
// under 10^26, one more if rounding that result up carries it back to
// exactly 10^26). If their signs differ the smaller magnitude is
// subtracted from the larger.
func Add(a, b Decimal) (Decimal, error) {
	oa, ob := makeComparable(newOperand(a), newOperand(b))

	if a.sign == b.sign {
		sum := make([]uint32, len(oa.sig)+1)
		add(sum, oa.sig, ob.sig)
		t := combineAlignedFlags(oa.t, ob.t)
		sig, exp, err := normalizeSignificand(sum[:3], oa.exp, t)
		if err != nil {
			return Decimal{}, &KernelError{Op: "Add", Wrapped: ErrOverflow}
		}
		return fromLimbs(sig, a.sign, int8(exp)), nil
	}

	diff := make([]uint32, len(oa.sig))
	borrow := subtract(diff, oa.sig, ob.sig)
	resultSign := a.sign
	signedFlag := int(oa.t) - int(ob.t)
	if borrow != 0 {
		negate(diff)
		resultSign = !resultSign
		signedFlag = -signedFlag
	}
	roundAdjust(diff, signedFlag)
	sig, exp, err := normalizeSignificand(diff, oa.exp, flagExact)
	if err != nil {
		return Decimal{}, &KernelError{Op: "Add", Wrapped: ErrOverflow}
	}
	return fromLimbs(sig, resultSign, int8(exp)), nil
}

// Sub returns a - b.
func Sub(a, b Decimal) (Decimal, error) {
	return Add(a, b.Neg())
}

// combineAlignedFlags folds the two operands' post-alignment truncation
// flags for the same-sign (addition) path, where only one side is ever
// actually shifted by makeComparable, so at most one of the two is
// non-exact.
func combineAlignedFlags(a, b flag) flag {
	if a > b {
		return a
	}
	return b
}

// roundAdjust applies banker's rounding to a subtraction result using a
// signed combined flag in {-3, ..., 3} (spec §4.3: "truncation flag is
// subtracted"). A positive flag rounds the magnitude up (away from zero);
// a negative flag — the symmetric case — rounds it down.
func roundAdjust(sig []uint32, signedFlag int) {
	switch {
	case signedFlag == 3 || (signedFlag == 2 && lastDigit(sig)%2 == 1):
		add1(sig, 1)
	case signedFlag == -3 || (signedFlag == -2 && lastDigit(sig)%2 == 1):
		sub1(sig, 1)
	}
}

// Mul returns a * b, per spec §4.4.
func Mul(a, b Decimal) (Decimal, error) {
	sign := a.sign != b.sign

	product := make([]uint32, 6)
	mul(product, a.limbs(), b.limbs())

	shift := minShiftRight(product)
	t := flagExact
	if shift > 0 {
		dsr(product, shift, &t)
	}

	sig, extraExp, err := normalizeSignificand(append([]uint32(nil), product[:3]...), 0, t)
	if err != nil {
		return Decimal{}, &KernelError{Op: "Mul", Wrapped: ErrOverflow}
	}

	combinedExp := int(a.exp) + int(b.exp) + shift + extraExp
	finalSig, finalExp, err := mLdexp(sig, combinedExp, 0)
	if err != nil {
		return Decimal{}, &KernelError{Op: "Mul", Wrapped: ErrOverflow}
	}
	return fromLimbs(finalSig, sign, int8(finalExp)), nil
}

// Div returns a / b, per spec §4.5. Division by zero raises
// ErrDivideByZero; a zero dividend yields canonical zero.
func Div(a, b Decimal) (Decimal, error) {
	if b.IsZero() {
		return Decimal{}, newDivideByZeroError("Div")
	}
	if a.IsZero() {
		return Decimal{}, nil
	}

	sign := a.sign != b.sign

	digitsA := numDigits(a.limbs())
	digitsB := numDigits(b.limbs())
	shift := int(math.Ceil(25.5 + float64(digitsB) - float64(digitsA)))
	if shift < 0 {
		shift = 0
	}

	const dividendLimbs = 10
	aBuf := make([]uint32, dividendLimbs)
	copy(aBuf, a.limbs())
	dsl(aBuf, shift)
	e := int(a.exp) - int(b.exp) - shift

	bSig := b.limbs()
	nb := trimmedLen(bSig)
	bTrim := bSig[:nb]

	na := trimmedLen(aBuf)
	if na < nb {
		na = nb
	}
	qBuf := make([]uint32, na-nb+1)
	rBuf := make([]uint32, nb)
	div(qBuf, rBuf, aBuf[:na], bTrim)

	t := remainderFlag(rBuf, bTrim)

	shift2 := minShiftRight(qBuf)
	if shift2 > 0 {
		dsr(qBuf, shift2, &t)
	}

	qSig := padTo(append([]uint32(nil), qBuf[:min3(len(qBuf))]...), 3)
	sig, extraExp, err := normalizeSignificand(qSig, 0, t)
	if err != nil {
		return Decimal{}, &KernelError{Op: "Div", Wrapped: ErrOverflow}
	}

	combinedExp := e + shift2 + extraExp
	finalSig, finalExp, err := mLdexp(sig, combinedExp, 0)
	if err != nil {
		return Decimal{}, &KernelError{Op: "Div", Wrapped: ErrOverflow}
	}
	return fromLimbs(finalSig, sign, int8(finalExp)), nil
}

func min3(n int) int {
	if n > 3 {
		return 3
	}
	return n
}

// trimmedLen returns the minimal limb count needed to hold a (at least 1).
func trimmedLen(a []uint32) int {
	n := len(a)
	for n > 1 && a[n-1] == 0 {
		n--
	}
	return n
}

// remainderFlag turns a division remainder into a truncation flag by
// comparing 2*r against the divisor, per spec §4.5 step 4.
func remainderFlag(r, b []uint32) flag {
	n := len(r)
	if len(b) > n {
		n = len(b)
	}
	rp := padTo(r, n)
	doubled := make([]uint32, n+1)
	add(doubled, rp, rp)
	bp := padTo(b, n+1)
	switch cmp(doubled, bp) {
	case -1:
		if isZero(r) {
			return flagExact
		}
		return flagBelowHalf
	case 0:
		return flagExactHalf
	default:
		return flagAboveHalf
	}
}

// remainderOf computes x mod b via long division, returning a remainder
// buffer the width of (trimmed) b.
func remainderOf(x, b []uint32) []uint32 {
	nb := trimmedLen(b)
	bTrim := b[:nb]
	n := trimmedLen(x)
	if n < nb {
		n = nb
	}
	xPad := padTo(x, n)
	q := make([]uint32, n-nb+1)
	r := make([]uint32, nb)
	div(q, r, xPad[:n], bTrim)
	return padTo(trimLimbs(r), nb)
}

func mulMod(x, y, b []uint32) []uint32 {
	p := make([]uint32, len(x)+len(y))
	mul(p, x, y)
	return remainderOf(p, b)
}

// powTenMod computes 10^e mod b by repeated squaring, keeping every
// intermediate reduced modulo b so limb widths stay bounded by len(b) —
// the technique spec §4.6 calls for explicitly.
func powTenMod(e int, b []uint32) []uint32 {
	nb := trimmedLen(b)
	result := padTo([]uint32{1}, nb)
	base := remainderOf([]uint32{10}, b)
	for e > 0 {
		if e&1 == 1 {
			result = mulMod(result, base, b)
		}
		base = mulMod(base, base, b)
		e >>= 1
	}
	return result
}

// Mod returns a mod b (sign of a), per spec §4.6. Division by zero raises
// ErrDivideByZero; a zero dividend yields zero.
func Mod(a, b Decimal) (Decimal, error) {
	if b.IsZero() {
		return Decimal{}, newDivideByZeroError("Mod")
	}
	if a.IsZero() {
		return Decimal{}, nil
	}

	aExp := int(a.exp)
	bExp := int(b.exp)
	aSig := a.limbs()
	bSig := append([]uint32(nil), b.limbs()...)

	if aExp < bExp {
		diff := bExp - aExp
		if maxShiftLeft(bSig) < diff {
			// b's headroom is exhausted and b still has the larger
			// exponent: |a| < |b|, so a mod b is a itself.
			return a, nil
		}
		dsl(bSig, diff)
		bExp = aExp
	}
	e := aExp - bExp

	aModB := remainderOf(aSig, bSig)
	powMod := powTenMod(e, bSig)
	resultMod := mulMod(aModB, powMod, bSig)

	resultSig := padTo(trimLimbs(resultMod), 3)
	return fromLimbs(resultSig, a.sign, int8(bExp)), nil
}
