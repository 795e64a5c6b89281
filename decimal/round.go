package decimal

import "fmt"

// RoundMode selects one of the nine ways spec §4.8 defines for rounding a
// value to the nearest multiple of another.
type RoundMode int

const (
	Truncate RoundMode = iota
	Away
	Floor
	Ceil
	HalfEven
	HalfAway
	HalfTruncate
	HalfCeil
	HalfFloor
)

var roundModeNames = [...]string{
	Truncate:     "truncate",
	Away:         "away",
	Floor:        "floor",
	Ceil:         "ceil",
	HalfEven:     "half-even",
	HalfAway:     "half-away",
	HalfTruncate: "half-truncate",
	HalfCeil:     "half-ceil",
	HalfFloor:    "half-floor",
}

func (m RoundMode) String() string {
	if int(m) < 0 || int(m) >= len(roundModeNames) {
		return fmt.Sprintf("RoundMode(%d)", int(m))
	}
	return roundModeNames[m]
}

// RoundToMultiple rounds a to the nearest multiple of b using mode, per spec
// §4.8: c = a mod b carries a's sign; an adjustment delta in
// {-c, -c + b_with_sign, -c - b_with_sign} (b_with_sign oriented to a's
// sign) is chosen according to mode and any exact-half tie-break, and
// a' = a + delta. If a' already carries an exponent at least as large as
// b's it is returned as-is; otherwise it is exactly divisible by b, so it is
// right-shifted (no rounding) down to b's exponent.
func RoundToMultiple(a, b Decimal, mode RoundMode) (Decimal, error) {
	if b.IsZero() {
		return Decimal{}, newDivideByZeroError("RoundToMultiple")
	}
	if a.IsZero() {
		return Decimal{}, nil
	}

	c, err := Mod(a, b)
	if err != nil {
		return Decimal{}, err
	}

	delta, err := roundDelta(a, b, c, mode)
	if err != nil {
		return Decimal{}, err
	}

	aPrime, err := Add(a, delta)
	if err != nil {
		return Decimal{}, err
	}

	if int(aPrime.exp) >= int(b.exp) {
		return aPrime, nil
	}

	shiftAmt := int(b.exp) - int(aPrime.exp)
	sig := append([]uint32(nil), aPrime.limbs()...)
	t := flagExact
	dsr(sig, shiftAmt, &t)
	return fromLimbs(padTo(sig, 3), aPrime.sign, b.exp), nil
}

// roundDelta picks the adjustment a' = a + delta needs to land on a multiple
// of b, per spec §4.8.
func roundDelta(a, b, c Decimal, mode RoundMode) (Decimal, error) {
	if c.IsZero() {
		return Zero, nil
	}

	bAbs := b.Abs()
	bSigned := bAbs
	if a.sign {
		bSigned = bAbs.Neg()
	}
	negC := c.Neg()

	switch mode {
	case Truncate:
		return negC, nil
	case Away:
		return Add(negC, bSigned)
	case Floor:
		if a.sign {
			return Add(negC, bSigned)
		}
		return negC, nil
	case Ceil:
		if !a.sign {
			return Add(negC, bSigned)
		}
		return negC, nil
	case HalfEven, HalfAway, HalfTruncate, HalfCeil, HalfFloor:
		cAbs := c.Abs()
		halfState, err := halfCompare(cAbs, bAbs)
		if err != nil {
			return Zero, err
		}
		switch {
		case halfState < 0:
			return negC, nil
		case halfState > 0:
			return Add(negC, bSigned)
		}
		// exact half: tie-break per mode.
		switch mode {
		case HalfTruncate:
			return negC, nil
		case HalfAway:
			return Add(negC, bSigned)
		case HalfEven:
			aMinusC, err := Add(a, negC)
			if err != nil {
				return Zero, err
			}
			even, err := isEvenMultiple(aMinusC, bAbs)
			if err != nil {
				return Zero, err
			}
			if even {
				return negC, nil
			}
			return Add(negC, bSigned)
		case HalfCeil:
			// Ties always resolve toward +infinity: for a positive a that
			// means rounding the magnitude up, for a negative a it means
			// truncating toward zero. Read a's sign once; don't re-derive
			// the direction per branch.
			if !a.sign {
				return Add(negC, bSigned)
			}
			return negC, nil
		case HalfFloor:
			if a.sign {
				return Add(negC, bSigned)
			}
			return negC, nil
		}
	}
	return Zero, fmt.Errorf("decimal: unknown round mode %v", mode)
}

// halfCompare reports whether |c| is below, exactly at, or above b_abs / 2,
// computed as (b_abs - |c|) vs |c| to avoid constructing b_abs / 2 directly
// (spec §4.8): -1 below half, 0 exact half, 1 above half.
func halfCompare(cAbs, bAbs Decimal) (int, error) {
	diff, err := Add(bAbs, cAbs.Neg())
	if err != nil {
		return 0, err
	}
	return -Compare(diff, cAbs), nil
}

// isEvenMultiple reports whether aMinusC / b is an even integer, tested via
// (a - c) mod 2b == 0 rather than by dividing out b (spec §4.8's half-even
// tie-break).
func isEvenMultiple(aMinusC, b Decimal) (bool, error) {
	twoB, err := Add(b, b)
	if err != nil {
		return false, err
	}
	r, err := Mod(aMinusC, twoB)
	if err != nil {
		return false, err
	}
	return r.IsZero(), nil
}
