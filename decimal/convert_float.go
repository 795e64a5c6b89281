package decimal

import (
	"strconv"
)

// FromFloat64 converts f to a Decimal via its shortest round-tripping
// decimal text representation (strconv.FormatFloat with 'g' and precision
// -1), then parses that text exactly — avoiding any binary-fraction
// artifacts a direct bit-level conversion would introduce.
func FromFloat64(f float64) (Decimal, error) {
	text := strconv.FormatFloat(f, 'g', -1, 64)
	return FromText(text)
}

// ToFloat64 converts d to the nearest float64 via its canonical text
// representation (strconv.ParseFloat), matching the shortest-round-trip
// contract FromFloat64 uses.
func ToFloat64(d Decimal) (float64, error) {
	return strconv.ParseFloat(ToText(d), 64)
}
