package decimal

// Equal reports whether a and b represent the same numeric value, per spec
// §4.9: align exponents, apply banker's rounding from each side's
// truncation flag, then compare. Two different encodings of the same value
// (e.g. 1 and 1.0 represented with different exponents) compare equal; use
// Same to distinguish raw encodings.
func Equal(a, b Decimal) bool {
	if a.IsZero() && b.IsZero() {
		return true
	}
	if a.IsZero() != b.IsZero() {
		return false
	}
	if a.sign != b.sign {
		return false
	}
	return alignedCompare(a, b) == 0
}

// LessOrEqual reports whether a <= b, per spec §4.9.
func LessOrEqual(a, b Decimal) bool {
	sa, sb := a.Sign(), b.Sign()
	if sa != sb {
		return sa < sb
	}
	if sa == 0 {
		return true
	}
	c := alignedCompare(a, b)
	if sa < 0 {
		return c >= 0
	}
	return c <= 0
}

// Compare returns -1, 0, or 1 according to whether a is less than, equal to,
// or greater than b.
func Compare(a, b Decimal) int {
	if Equal(a, b) {
		return 0
	}
	if LessOrEqual(a, b) {
		return -1
	}
	return 1
}

// Same reports whether a and b carry bit-identical significand, sign, and
// exponent fields (both canonical zeros are considered Same regardless of
// their stored sign/exponent).
func Same(a, b Decimal) bool {
	if a.IsZero() && b.IsZero() {
		return true
	}
	return a.m0 == b.m0 && a.m1 == b.m1 && a.m2 == b.m2 && a.sign == b.sign && a.exp == b.exp
}

// alignedCompare rounds each operand to a common scale (aligning and then
// applying banker's rounding independently on each side, since rounding one
// side up can change its exponent) and compares the resulting magnitudes.
func alignedCompare(a, b Decimal) int {
	oa, ob := makeComparable(newOperand(a), newOperand(b))
	sigA, expA, errA := normalizeSignificand(append([]uint32(nil), oa.sig...), oa.exp, oa.t)
	sigB, expB, errB := normalizeSignificand(append([]uint32(nil), ob.sig...), ob.exp, ob.t)
	if errA != nil || errB != nil {
		return 0
	}
	if expA == expB {
		return cmp(padTo(sigA, 3), padTo(sigB, 3))
	}
	da := fromLimbs(padTo(sigA, 3), false, int8(expA))
	db := fromLimbs(padTo(sigB, 3), false, int8(expB))
	oa2, ob2 := makeComparable(newOperand(da), newOperand(db))
	return cmp(padTo(oa2.sig, 3), padTo(ob2.sig, 3))
}
