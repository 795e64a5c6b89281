package decimal

import "testing"

func roundOrFatal(t *testing.T, a, b Decimal, mode RoundMode) Decimal {
	t.Helper()
	got, err := RoundToMultiple(a, b, mode)
	if err != nil {
		t.Fatalf("RoundToMultiple(%s, %s, %s): %v", ToText(a), ToText(b), mode, err)
	}
	return got
}

func TestRoundHalfEvenTies(t *testing.T) {
	cases := []struct{ a, want string }{
		{"2.5", "2"},
		{"3.5", "4"},
	}
	for _, c := range cases {
		got := roundOrFatal(t, d(t, c.a), d(t, "1"), HalfEven)
		if !Equal(got, d(t, c.want)) {
			t.Errorf("round_half_even(%s, 1) = %s, want %s", c.a, ToText(got), c.want)
		}
	}
}

func TestRoundFloorCeilNegative(t *testing.T) {
	got := roundOrFatal(t, d(t, "-0.1"), d(t, "1"), Floor)
	if !Equal(got, d(t, "-1")) {
		t.Errorf("round_floor(-0.1, 1) = %s, want -1", ToText(got))
	}

	got = roundOrFatal(t, d(t, "-0.1"), d(t, "1"), Ceil)
	if !Equal(got, d(t, "0")) {
		t.Errorf("round_ceil(-0.1, 1) = %s, want 0", ToText(got))
	}
}

func TestRoundExactMultipleIsNoOp(t *testing.T) {
	for _, mode := range []RoundMode{Truncate, Away, Floor, Ceil, HalfEven, HalfAway, HalfTruncate, HalfCeil, HalfFloor} {
		got := roundOrFatal(t, d(t, "12"), d(t, "4"), mode)
		if !Equal(got, d(t, "12")) {
			t.Errorf("mode %s: rounding an exact multiple changed the value: %s", mode, ToText(got))
		}
	}
}

func TestRoundTruncateVsAway(t *testing.T) {
	trunc := roundOrFatal(t, d(t, "-7"), d(t, "2"), Truncate)
	if !Equal(trunc, d(t, "-6")) {
		t.Errorf("round_truncate(-7, 2) = %s, want -6", ToText(trunc))
	}

	away := roundOrFatal(t, d(t, "-7"), d(t, "2"), Away)
	if !Equal(away, d(t, "-8")) {
		t.Errorf("round_away(-7, 2) = %s, want -8", ToText(away))
	}
}

func TestRoundHalfTruncateAndHalfAway(t *testing.T) {
	ht := roundOrFatal(t, d(t, "2.5"), d(t, "1"), HalfTruncate)
	if !Equal(ht, d(t, "2")) {
		t.Errorf("round_half_truncate(2.5,1) = %s, want 2", ToText(ht))
	}
	htNeg := roundOrFatal(t, d(t, "-2.5"), d(t, "1"), HalfTruncate)
	if !Equal(htNeg, d(t, "-2")) {
		t.Errorf("round_half_truncate(-2.5,1) = %s, want -2", ToText(htNeg))
	}

	ha := roundOrFatal(t, d(t, "2.5"), d(t, "1"), HalfAway)
	if !Equal(ha, d(t, "3")) {
		t.Errorf("round_half_away(2.5,1) = %s, want 3", ToText(ha))
	}
	haNeg := roundOrFatal(t, d(t, "-2.5"), d(t, "1"), HalfAway)
	if !Equal(haNeg, d(t, "-3")) {
		t.Errorf("round_half_away(-2.5,1) = %s, want -3", ToText(haNeg))
	}
}

func TestRoundHalfCeilHalfFloorTies(t *testing.T) {
	// Ties always resolve toward +infinity for half-ceil, toward -infinity
	// for half-floor, regardless of which operand's sign produced the tie.
	if got := roundOrFatal(t, d(t, "2.5"), d(t, "1"), HalfCeil); !Equal(got, d(t, "3")) {
		t.Errorf("round_half_ceil(2.5,1) = %s, want 3", ToText(got))
	}
	if got := roundOrFatal(t, d(t, "-2.5"), d(t, "1"), HalfCeil); !Equal(got, d(t, "-2")) {
		t.Errorf("round_half_ceil(-2.5,1) = %s, want -2", ToText(got))
	}
	if got := roundOrFatal(t, d(t, "2.5"), d(t, "1"), HalfFloor); !Equal(got, d(t, "2")) {
		t.Errorf("round_half_floor(2.5,1) = %s, want 2", ToText(got))
	}
	if got := roundOrFatal(t, d(t, "-2.5"), d(t, "1"), HalfFloor); !Equal(got, d(t, "-3")) {
		t.Errorf("round_half_floor(-2.5,1) = %s, want -3", ToText(got))
	}
}

func TestRoundByZeroErrors(t *testing.T) {
	if _, err := RoundToMultiple(d(t, "5"), Zero, Truncate); err == nil {
		t.Fatal("expected divide-by-zero error rounding to a multiple of zero")
	}
}

func TestRoundModeString(t *testing.T) {
	if HalfEven.String() != "half-even" {
		t.Errorf("HalfEven.String() = %q, want half-even", HalfEven.String())
	}
}
