package decimal

import "encoding/binary"

// ToBinary packs d into the 12-byte big-endian wire format of spec §4.10:
// byte 0 holds the sign bit (MSB) followed by the exponent's 7 high bits;
// byte 1 holds the exponent's low bit followed by the significand's top 7
// bits (m < 10^26 fits in 87 bits: 23 bits from the top significand limb,
// split 7/16 across byte 1 and the low two bytes of that limb); bytes 2-11
// hold the remaining 80 significand bits, big-endian.
func ToBinary(d Decimal) ([12]byte, error) {
	var out [12]byte
	if !d.valid() {
		return out, newOverflowError("ToBinary")
	}

	sig := d.limbs()
	expByte := uint8(d.exp)
	highExp7 := expByte >> 1
	lowExp1 := expByte & 1

	top23 := sig[2] & 0x7FFFFF // significand bits 86..64
	top7Sig := uint8((top23 >> 16) & 0x7F)
	low16Sig := uint16(top23 & 0xFFFF)

	out[0] = highExp7
	if d.sign && !d.IsZero() {
		out[0] |= 1 << 7
	}
	out[1] = (lowExp1 << 7) | top7Sig
	binary.BigEndian.PutUint16(out[2:4], low16Sig)
	binary.BigEndian.PutUint32(out[4:8], sig[1])
	binary.BigEndian.PutUint32(out[8:12], sig[0])
	return out, nil
}

// FromBinary unpacks the 12-byte wire format back into a Decimal, raising
// ErrOverflow if the encoded significand is >= 10^26 (spec §4.10's parse
// validity check).
func FromBinary(b [12]byte) (Decimal, error) {
	sign := b[0]&(1<<7) != 0
	highExp7 := b[0] & 0x7F
	lowExp1 := (b[1] >> 7) & 1
	top7Sig := b[1] & 0x7F
	expByte := highExp7<<1 | lowExp1

	low16Sig := binary.BigEndian.Uint16(b[2:4])
	limb2 := uint32(top7Sig)<<16 | uint32(low16Sig)
	limb1 := binary.BigEndian.Uint32(b[4:8])
	limb0 := binary.BigEndian.Uint32(b[8:12])

	sig := []uint32{limb0, limb1, limb2}
	if cmpPow10(sig, maxDigits) >= 0 {
		return Decimal{}, newOverflowError("FromBinary")
	}
	return fromLimbs(sig, sign, int8(expByte)), nil
}
