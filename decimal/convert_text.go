package decimal

import (
	"fmt"
	"strconv"
	"strings"
)

// FromText parses a decimal literal ([sign] [$] digits [(.|,) digits]
// [(e|E) [sign] digits]) directly into significand digits and an exponent,
// rather than routing through float64, so full 26-digit precision survives
// the round trip exactly. Per spec §4.10/§6, either '.' or ',' is accepted
// as the radix point and embedded "'" digit-group separators are ignored.
func FromText(s string) (Decimal, error) {
	i := 0
	n := len(s)
	if n == 0 {
		return Decimal{}, fmt.Errorf("decimal: empty text")
	}

	sign := false
	if s[i] == '+' || s[i] == '-' {
		sign = s[i] == '-'
		i++
	}
	if i < n && s[i] == '$' {
		i++
	}

	sig := []uint32{0, 0, 0}
	sawDigit := false
	sawPoint := false
	digitsStored := 0
	storedFrac := 0
	excessIntDigits := 0
	sawExcess := false
	tAccum := flagExact

	// Spec §4.10: accumulate into the significand, but once 26 digits are
	// consumed switch to tracking a truncation flag instead of erroring —
	// the excess digits are rounding information, not a parse failure.
	for i < n && (isDigit(s[i]) || s[i] == '.' || s[i] == ',' || s[i] == '\'') {
		if s[i] == '\'' {
			i++
			continue
		}
		if s[i] == '.' || s[i] == ',' {
			if sawPoint {
				return Decimal{}, fmt.Errorf("decimal: malformed text %q", s)
			}
			sawPoint = true
			i++
			continue
		}
		dg := uint32(s[i] - '0')
		if digitsStored < maxDigits {
			mul1(sig, sig, 10)
			add1(sig, dg)
			digitsStored++
			if sawPoint {
				storedFrac++
			}
		} else {
			// Excess digits arrive most significant first: the first one
			// places the dropped tail against half a unit, and later
			// non-zero digits only push an exact value or exact half above it.
			switch {
			case !sawExcess:
				tAccum = composeFlag(flagExact, uint64(dg), 10)
				sawExcess = true
			case dg != 0 && tAccum == flagExactHalf:
				tAccum = flagAboveHalf
			case dg != 0 && tAccum == flagExact:
				tAccum = flagBelowHalf
			}
			if !sawPoint {
				excessIntDigits++
			}
		}
		sawDigit = true
		i++
	}
	if !sawDigit {
		return Decimal{}, fmt.Errorf("decimal: malformed text %q", s)
	}

	if roundUp(sig, tAccum) {
		add1(sig, 1)
		if cmpPow10(sig, maxDigits) >= 0 {
			t2 := flagExact
			dsr(sig, 1, &t2)
			excessIntDigits++
		}
	}

	exp := excessIntDigits - storedFrac
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		i++
		expNeg := false
		if i < n && (s[i] == '+' || s[i] == '-') {
			expNeg = s[i] == '-'
			i++
		}
		start := i
		for i < n && isDigit(s[i]) {
			i++
		}
		if i == start {
			return Decimal{}, fmt.Errorf("decimal: malformed exponent in %q", s)
		}
		val, err := strconv.Atoi(s[start:i])
		if err != nil {
			return Decimal{}, fmt.Errorf("decimal: malformed exponent in %q", s)
		}
		if expNeg {
			val = -val
		}
		exp += val
	}
	if i != n {
		return Decimal{}, fmt.Errorf("decimal: malformed text %q", s)
	}
	if exp < -128 || exp > 127 {
		return Decimal{}, newOverflowError("FromText")
	}

	return fromLimbs(sig, sign, int8(exp)), nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// ToText renders d in plain decimal notation with '.' as the radix point
// and no currency symbol, falling back to scientific notation (one leading
// digit, E+NN exponent) per spec §4.10's `e' > j` / `e' <= -6` rule.
// Equivalent to ToTextOpts(d, ".", "").
func ToText(d Decimal) string {
	return ToTextOpts(d, ".", "")
}

// ToTextOpts renders d the same way ToText does, but with a caller-chosen
// radix-point string and an optional leading currency symbol, per spec
// §4.10's "the decimal-point character is a parameter". The scientific
// threshold is the spec's own `e' > j` / `e' <= -6` rule, j being d's digit
// count; use ToTextOptsConfigured to override it.
func ToTextOpts(d Decimal, point, currency string) string {
	return toText(d, point, currency, -6, -1)
}

// ToTextOptsConfigured renders d like ToTextOpts, but lets the caller
// replace the spec's digit-count-relative scientific threshold with fixed
// bounds on e' (as Config.Display.ScientificMin/ScientificMax do): scientific
// notation is used when e' <= sciMin or e' > sciMax, instead of e' <= -6 or
// e' > j.
func ToTextOptsConfigured(d Decimal, point, currency string, sciMin, sciMax int) string {
	return toText(d, point, currency, sciMin, sciMax)
}

// toText is the shared renderer behind ToTextOpts/ToTextOptsConfigured.
// sciMax < 0 means "use d's own digit count", reproducing spec §4.10's
// `e' > j` rule exactly; a non-negative sciMax is used as-is.
func toText(d Decimal, point, currency string, sciMin, sciMax int) string {
	digits := limbsToDigits(d.limbs())
	exp := int(d.exp)

	sign := ""
	if d.sign && !d.IsZero() {
		sign = "-"
	}
	if point == "" {
		point = "."
	}
	if sciMax < 0 {
		sciMax = len(digits)
	}

	if useScientific(len(digits), exp, sciMin, sciMax) {
		return sign + currency + scientificText(digits, exp, point)
	}
	return sign + currency + plainText(digits, exp, point)
}

func limbsToDigits(sig []uint32) string {
	tmp := append([]uint32(nil), sig...)
	if isZero(tmp) {
		return "0"
	}
	var chunks []uint32
	for !isZero(tmp) {
		r := div1(tmp, tmp, 1_000_000_000)
		chunks = append(chunks, r)
	}
	var b strings.Builder
	b.WriteString(strconv.FormatUint(uint64(chunks[len(chunks)-1]), 10))
	for i := len(chunks) - 2; i >= 0; i-- {
		fmt.Fprintf(&b, "%09d", chunks[i])
	}
	return b.String()
}

func plainText(digits string, exp int, point string) string {
	if exp >= 0 {
		return digits + strings.Repeat("0", exp)
	}
	pointPos := len(digits) + exp
	if pointPos <= 0 {
		return "0" + point + strings.Repeat("0", -pointPos) + digits
	}
	return digits[:pointPos] + point + digits[pointPos:]
}

func scientificText(digits string, exp int, point string) string {
	e := exp + len(digits) - 1
	mantissa := digits[:1]
	if len(digits) > 1 {
		mantissa += point + digits[1:]
	}
	esign := "+"
	if e < 0 {
		esign = "-"
		e = -e
	}
	return fmt.Sprintf("%sE%s%d", mantissa, esign, e)
}

// useScientific implements spec §4.10's `e' > j` / `e' <= -6` rule, with
// j (numDigits) and the -6 bound replaceable by sciMax/sciMin.
func useScientific(numDigits, exp, sciMin, sciMax int) bool {
	ePrime := numDigits + exp
	return ePrime > sciMax || ePrime <= sciMin
}
