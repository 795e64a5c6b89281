package decimal

// Precomputed tables used by the decimal-shift layer (§4.2, §9). The spec
// requires these to be precomputed rather than derived on every call, since
// the only cheap estimate available (host log10) is not exact at or near
// power-of-ten boundaries.

// pow10Limb32 holds 10^0..10^9, the powers of ten that fit in a single
// 32-bit limb (10^9 < 2^32 <= 10^10). dsl uses this to left-shift a
// significand by up to 9 decimal digits per single-limb multiply step.
var pow10Limb32 = [10]uint32{
	1, 10, 100, 1_000, 10_000, 100_000, 1_000_000, 10_000_000, 100_000_000, 1_000_000_000,
}

// maxPow10Exp bounds the precomputed big power-of-ten table. 60 gives
// comfortable headroom over every comparison the kernel needs: a 96-bit
// significand has at most 26 digits, a 6-limb (192-bit) product has at most
// 58, and division shifts never need to compare against more than a handful
// of digits beyond that.
const maxPow10Exp = 60

// pow10 holds 10^0 .. 10^maxPow10Exp as minimal-length little-endian limb
// slices, built once at init time from pow10[i-1] via mul1 — never via an
// arbitrary-precision library, per spec §1's "only fixed-width integer
// arithmetic" constraint.
var pow10 [maxPow10Exp + 1][]uint32

func init() {
	pow10[0] = []uint32{1}
	for i := 1; i <= maxPow10Exp; i++ {
		prev := pow10[i-1]
		p := make([]uint32, len(prev)+1)
		mul1(p, prev, 10)
		pow10[i] = trimLimbs(p)
	}
}

// trimLimbs drops leading (most-significant) zero limbs, keeping at least
// one limb.
func trimLimbs(a []uint32) []uint32 {
	n := len(a)
	for n > 1 && a[n-1] == 0 {
		n--
	}
	return a[:n]
}

// padTo returns a zero-extended to length n. a is returned unchanged if
// already at least that long.
func padTo(a []uint32, n int) []uint32 {
	if len(a) >= n {
		return a
	}
	b := make([]uint32, n)
	copy(b, a)
	return b
}

// cmpPow10 compares significand a (little-endian, any length, value < 10^d0
// for some d0 <= maxPow10Exp) against 10^d.
func cmpPow10(a []uint32, d int) int {
	if d < 0 {
		return 1
	}
	if d > maxPow10Exp {
		return -1
	}
	p := pow10[d]
	n := len(a)
	if len(p) > n {
		n = len(p)
	}
	return cmp(padTo(a, n), padTo(p, n))
}
