package decimal

import "math/bits"

// Multi-word integer primitives operating on little-endian slices of 32-bit
// limbs. Every function here takes slices the caller has already sized
// correctly; only div allocates (its normalised working copies). These are the leaves the rest of the
// kernel composes (significand shifting, alignment, arithmetic, rounding).

// cmp compares a and b, which must have equal length, lexicographically
// starting from the most significant limb. Returns -1, 0, or 1.
func cmp(a, b []uint32) int {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func isZero(a []uint32) bool {
	for _, w := range a {
		if w != 0 {
			return false
		}
	}
	return true
}

// add1 adds w into a starting at limb 0, propagating carry across a. The
// caller must ensure a has enough limbs for the carry to terminate.
func add1(a []uint32, w uint32) {
	carry := w
	for i := 0; i < len(a) && carry != 0; i++ {
		sum, c := bits.Add32(a[i], carry, 0)
		a[i] = sum
		carry = c
	}
}

// sub1 subtracts w from a with borrow propagation across a.
func sub1(a []uint32, w uint32) {
	borrow := w
	for i := 0; i < len(a) && borrow != 0; i++ {
		diff, b := bits.Sub32(a[i], borrow, 0)
		a[i] = diff
		borrow = b
	}
}

// add computes s = a + b over n = len(a) = len(b) limbs and returns the
// carry out of the top limb. If s has n+1 limbs the carry is also stored in
// s[n] and 0 is returned, so callers that pre-size the destination with
// headroom never need to check the return value.
func add(s, a, b []uint32) uint32 {
	n := len(a)
	var carry uint64
	for i := 0; i < n; i++ {
		sum := uint64(a[i]) + uint64(b[i]) + carry
		s[i] = uint32(sum)
		carry = sum >> 32
	}
	if len(s) > n {
		s[n] = uint32(carry)
		return 0
	}
	return uint32(carry)
}

// subtract computes d = a - b (mod 2^32n) over n limbs. The return value is
// 1 if a < b (a borrow propagated out of the top limb), 0 otherwise.
func subtract(d, a, b []uint32) uint32 {
	n := len(a)
	var borrow uint64
	for i := 0; i < n; i++ {
		diff := uint64(a[i]) - uint64(b[i]) - borrow
		d[i] = uint32(diff)
		if uint64(a[i]) < uint64(b[i])+borrow {
			borrow = 1
		} else {
			borrow = 0
		}
	}
	return uint32(borrow)
}

// negate computes the two's complement of a in place over n = len(a) limbs.
func negate(a []uint32) {
	for i := range a {
		a[i] = ^a[i]
	}
	add1(a, 1)
}

// mul1 computes p = a * w. p must have len(a) or len(a)+1 limbs; a and p may
// alias (the multiply is carried out low-limb-first, same as the source).
func mul1(p, a []uint32, w uint32) {
	n := len(a)
	var carry uint64
	for i := 0; i < n; i++ {
		prod := uint64(a[i])*uint64(w) + carry
		p[i] = uint32(prod)
		carry = prod >> 32
	}
	if len(p) > n {
		p[n] = uint32(carry)
	}
}

// mul computes the schoolbook product p = a * b. p must have len(a)+len(b)
// limbs and is zero-initialised by this call.
func mul(p, a, b []uint32) {
	for i := range p {
		p[i] = 0
	}
	for i, bw := range b {
		if bw == 0 {
			continue
		}
		var carry uint64
		for j, aw := range a {
			prod := uint64(aw)*uint64(bw) + uint64(p[i+j]) + carry
			p[i+j] = uint32(prod)
			carry = prod >> 32
		}
		k := i + len(a)
		for carry != 0 {
			sum := uint64(p[k]) + carry
			p[k] = uint32(sum)
			carry = sum >> 32
			k++
		}
	}
}

// div1 computes q = a / w and returns the remainder, dividing by a single
// non-zero limb. a and q may alias.
func div1(q, a []uint32, w uint32) uint32 {
	var rem uint64
	for i := len(a) - 1; i >= 0; i-- {
		cur := rem<<32 | uint64(a[i])
		q[i] = uint32(cur / uint64(w))
		rem = cur % uint64(w)
	}
	return uint32(rem)
}

// shlBits shifts src left by shift bits (0..31) into dst, returning the bits
// shifted out of the top limb. dst and src have equal length and may alias.
func shlBits(dst, src []uint32, shift uint) uint32 {
	if shift == 0 {
		copy(dst, src)
		return 0
	}
	var carry uint32
	for i := 0; i < len(src); i++ {
		dst[i] = src[i]<<shift | carry
		carry = src[i] >> (32 - shift)
	}
	return carry
}

// shrBits shifts src right by shift bits (0..31) into dst. dst and src have
// equal length and may alias.
func shrBits(dst, src []uint32, shift uint) {
	if shift == 0 {
		copy(dst, src)
		return
	}
	var carry uint32
	for i := len(src) - 1; i >= 0; i-- {
		dst[i] = src[i]>>shift | carry
		carry = src[i] << (32 - shift)
	}
}

// div implements Knuth's Algorithm D: divides the n-limb a by the m-limb b
// (b[m-1] != 0, m <= n), producing an (n-m+1)-limb quotient q and an m-limb
// remainder r. The bit-level normalisation step (shifting both operands left
// so the divisor's top bit is set), the 2^32-1 quotient-digit cap, and the
// add-back correction for an overshot trial quotient all follow Algorithm D
// faithfully.
func div(q, r, a, b []uint32) {
	n := len(a)
	m := len(b)

	if m == 1 {
		rem := div1(q[:n], a, b[0])
		for i := n; i < len(q); i++ {
			q[i] = 0
		}
		r[0] = rem
		for i := 1; i < len(r); i++ {
			r[i] = 0
		}
		return
	}

	shift := uint(bits.LeadingZeros32(b[m-1]))

	vn := make([]uint32, m)
	shlBits(vn, b, shift)

	un := make([]uint32, n+1)
	un[n] = shlBits(un[:n], a, shift)

	qn := n - m + 1
	for i := qn; i < len(q); i++ {
		q[i] = 0
	}

	for j := qn - 1; j >= 0; j-- {
		top := uint64(un[j+m])<<32 | uint64(un[j+m-1])
		var qhat, rhat uint64
		if un[j+m] >= vn[m-1] {
			qhat = 0xFFFFFFFF
			rhat = top - qhat*uint64(vn[m-1])
		} else {
			qhat = top / uint64(vn[m-1])
			rhat = top % uint64(vn[m-1])
		}

		for rhat <= 0xFFFFFFFF && qhat*uint64(vn[m-2]) > rhat<<32+uint64(un[j+m-2]) {
			qhat--
			rhat += uint64(vn[m-1])
		}

		var carry, borrow uint64
		for i := 0; i < m; i++ {
			p := qhat*uint64(vn[i]) + carry
			carry = p >> 32
			sub := int64(un[j+i]) - int64(uint32(p)) - int64(borrow)
			if sub < 0 {
				sub += 1 << 32
				borrow = 1
			} else {
				borrow = 0
			}
			un[j+i] = uint32(sub)
		}
		sub := int64(un[j+m]) - int64(carry) - int64(borrow)
		if sub < 0 {
			sub += 1 << 32
			borrow = 1
		} else {
			borrow = 0
		}
		un[j+m] = uint32(sub)

		if borrow != 0 {
			// Trial quotient digit was one too large: add the divisor back.
			qhat--
			var c uint64
			for i := 0; i < m; i++ {
				s := uint64(un[j+i]) + uint64(vn[i]) + c
				un[j+i] = uint32(s)
				c = s >> 32
			}
			un[j+m] += uint32(c)
		}

		q[j] = uint32(qhat)
	}

	shrBits(r[:m], un[:m], shift)
	for i := m; i < len(r); i++ {
		r[i] = 0
	}
}
