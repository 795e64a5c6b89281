// Package decimal implements the deci fixed-precision decimal arithmetic
// kernel: exact base-10 arithmetic for monetary values built entirely on
// fixed-width integer primitives.
//
// A Decimal represents (-1)^sign * m * 10^exp, where m is a 96-bit unsigned
// significand in [0, 10^26) and exp is an 8-bit signed exponent in
// [-128, 127]. The representation is unnormalized: the same numeric value
// admits many encodings, so all comparisons must align exponents first (see
// Equal, LessOrEqual, Compare) — only Same compares the raw fields directly.
//
// Values are immutable and fit in 16 bytes; every operation returns a new
// Decimal, making Decimal safe to share across goroutines by copy. The
// operations work on transient []uint32 limb slices, and many of those
// slices are heap-allocated, so the kernel is not allocation-free.
package decimal

import (
	"fmt"
	"math"
)

// maxDigits is the maximum number of decimal digits a valid significand may
// carry (m < 10^26).
const maxDigits = 26

// Decimal is a fixed-precision signed decimal value.
type Decimal struct {
	m0, m1, m2 uint32 // significand limbs, little-endian (m0 least significant)
	sign       bool   // true = negative; ignored when the significand is zero
	exp        int8   // decimal exponent
}

// Zero is the canonical zero value.
var Zero = Decimal{}

// limbs returns the significand as a fresh 3-limb little-endian slice.
func (d Decimal) limbs() []uint32 {
	return []uint32{d.m0, d.m1, d.m2}
}

// fromLimbs builds a Decimal from a (possibly wider, already-normalized to
// 3 limbs) significand, a sign, and an exponent. The caller is responsible
// for having reduced sig to fit in 3 limbs (m < 10^26) beforehand.
func fromLimbs(sig []uint32, sign bool, exp int8) Decimal {
	var d Decimal
	d.m0 = sig[0]
	if len(sig) > 1 {
		d.m1 = sig[1]
	}
	if len(sig) > 2 {
		d.m2 = sig[2]
	}
	d.sign = sign
	d.exp = exp
	if d.m0 == 0 && d.m1 == 0 && d.m2 == 0 {
		d.sign = false
		d.exp = 0
	}
	return d
}

// IsZero reports whether d is the numeric value zero (regardless of sign or
// exponent — both admit zero under spec §3).
func (d Decimal) IsZero() bool {
	return d.m0 == 0 && d.m1 == 0 && d.m2 == 0
}

// Sign returns -1, 0, or 1 according to the numeric sign of d.
func (d Decimal) Sign() int {
	if d.IsZero() {
		return 0
	}
	if d.sign {
		return -1
	}
	return 1
}

// Neg returns -d.
func (d Decimal) Neg() Decimal {
	if d.IsZero() {
		return d
	}
	d.sign = !d.sign
	return d
}

// Abs returns |d|.
func (d Decimal) Abs() Decimal {
	d.sign = false
	return d
}

// valid reports whether d satisfies the kernel's well-formedness invariant
// (m < 10^26). Used by tests and by the binary-decode path.
func (d Decimal) valid() bool {
	return cmpPow10(d.limbs(), maxDigits) < 0
}

// GoString supports %#v and is handy when debugging kernel internals.
func (d Decimal) GoString() string {
	return fmt.Sprintf("decimal.Decimal{m0:%#x, m1:%#x, m2:%#x, sign:%v, exp:%d}", d.m0, d.m1, d.m2, d.sign, d.exp)
}

// numDigits returns the number of decimal digits of the (non-negative)
// significand sig, i.e. the smallest d such that sig < 10^d. Returns 0 for
// a zero significand. Uses a float64 log10 estimate refined against the
// exact pow10 table, per spec §4.2/§9.
func numDigits(sig []uint32) int {
	if isZero(sig) {
		return 0
	}
	est := estimateLog10(sig) + 1
	if est < 1 {
		est = 1
	}
	for est > 0 && cmpPow10(sig, est-1) < 0 {
		est--
	}
	for cmpPow10(sig, est) >= 0 {
		est++
	}
	return est
}

// estimateLog10 returns floor(log10(value)) using a double-precision
// approximation of the (possibly wide) significand. Only used as a seed for
// exact refinement against the pow10 table — never trusted on its own, per
// spec §9's warning that log10 approximation errors are tolerated only
// because every caller refines the result.
func estimateLog10(sig []uint32) int {
	f := limbsToFloat64(sig)
	if f <= 0 {
		return 0
	}
	return int(math.Log10(f))
}

// limbsToFloat64 converts a little-endian limb slice to its nearest double,
// which is exact enough for a log10 seed even though it loses precision for
// wide significands.
func limbsToFloat64(sig []uint32) float64 {
	var f float64
	for i := len(sig) - 1; i >= 0; i-- {
		f = f*4294967296.0 + float64(sig[i])
	}
	return f
}
