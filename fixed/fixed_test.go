// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package fixed

import (
	"math/big"
	"math/rand/v2"
	"testing"
)

// samples spans positive, negative and near-zero values.
var samples = []string{
	"0",
	"1",
	"-1",
	"2",
	"-2",
	"0.5",
	"-0.5",
	"3.999999999999",
	"-0.152809695287500013708",
	"-0.153004885037500013708",
	"1.039611370300000000002",
	"1.039757762612500000002",
	"0.000000000000000000000000001",
	"-0.000000000000000000000000001",
	"12345.6789",
	"-12345.6789",
	"0.333333333333333333333333333333",
	"-1.999999999999999999999999999",
}

func mustBig(t testing.TB, s string) *big.Float {
	t.Helper()
	f, _, err := big.ParseFloat(s, 10, 256, big.ToZero)
	if err != nil {
		t.Fatalf("ParseFloat(%q): %v", s, err)
	}
	return f
}

func sampleNumbers(t testing.TB) []Number {
	t.Helper()
	out := make([]Number, 0, len(samples))
	for _, s := range samples {
		out = append(out, FromBig(mustBig(t, s)))
	}
	return out
}

func TestAddNegateIsZero(t *testing.T) {
	for i, a := range sampleNumbers(t) {
		if got := Add(a, Negate(a)); got != Zero {
			t.Errorf("sample %q: a + (-a) = %v, want zero", samples[i], got)
		}
	}
	minValue := Number{0: 1 << 31}
	if got := Add(minValue, Negate(minValue)); got != Zero {
		t.Errorf("min + (-min) = %x, want zero", got)
	}
}

func TestIncrement(t *testing.T) {
	for i, a := range sampleNumbers(t) {
		if got, want := Increment(a), Add(a, One); got != want {
			t.Errorf("sample %q: Increment = %x, want %x", samples[i], got, want)
		}
	}

	tests := []struct {
		name string
		in   Number
		want Number
	}{
		{"carry through fraction", Number{0, 0, 0xFFFFFFFF, 0xFFFFFFFF}, Number{0, 1, 0, 0}},
		{"minus one ulp to zero", Number{0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF}, Zero},
		{"max wraps to min", Number{0x7FFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF}, Number{0x80000000, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Increment(tt.in); got != tt.want {
				t.Errorf("Increment(%x) = %x, want %x", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromInt(t *testing.T) {
	tests := []struct {
		in   int64
		want Number
	}{
		{0, Zero},
		{1, Number{1, 0, 0, 0}},
		{4, Number{4, 0, 0, 0}},
		{-1, Number{0xFFFFFFFF, 0, 0, 0}},
		{-2, Number{0xFFFFFFFE, 0, 0, 0}},
	}
	for _, tt := range tests {
		if got := FromInt(tt.in); got != tt.want {
			t.Errorf("FromInt(%d) = %x, want %x", tt.in, got, tt.want)
		}
	}
}

func TestFromBigHalves(t *testing.T) {
	tests := []struct {
		in   string
		want Number
	}{
		{"0.5", Number{0, 0x80000000, 0, 0}},
		{"-0.5", Number{0xFFFFFFFF, 0x80000000, 0, 0}},
		{"1.25", Number{1, 0x40000000, 0, 0}},
		{"-1.25", Number{0xFFFFFFFE, 0xC0000000, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FromBig(mustBig(t, tt.in)); got != tt.want {
				t.Errorf("FromBig(%s) = %x, want %x", tt.in, got, tt.want)
			}
		})
	}
}

func TestBigRoundTrip(t *testing.T) {
	for i, a := range sampleNumbers(t) {
		if got := FromBig(Big(a)); got != a {
			t.Errorf("sample %q: FromBig(Big(a)) = %x, want %x", samples[i], got, a)
		}
	}
}

func TestComparisonsAgreeWithBig(t *testing.T) {
	nums := sampleNumbers(t)
	for i, a := range nums {
		for j, b := range nums {
			cmp := Big(a).Cmp(Big(b))
			if got, want := GreaterThan(a, b), cmp > 0; got != want {
				t.Errorf("GreaterThan(%s, %s) = %v, want %v", samples[i], samples[j], got, want)
			}
			if got, want := GreaterOrEqual(a, b), cmp >= 0; got != want {
				t.Errorf("GreaterOrEqual(%s, %s) = %v, want %v", samples[i], samples[j], got, want)
			}
		}
	}
}

func TestComparisonsAcrossSignExtremes(t *testing.T) {
	maxValue := Number{0x7FFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF}
	minValue := Number{0x80000000, 0, 0, 0}
	if !GreaterThan(maxValue, minValue) {
		t.Error("GreaterThan(max, min) = false, want true")
	}
	if GreaterThan(minValue, maxValue) {
		t.Error("GreaterThan(min, max) = true, want false")
	}
	if !GreaterOrEqual(minValue, minValue) {
		t.Error("GreaterOrEqual(min, min) = false, want true")
	}
}

func TestMulMatchesTruncatedProduct(t *testing.T) {
	nums := sampleNumbers(t)
	ulp := One
	minusUlp := Negate(One)
	for i, a := range nums {
		for j, b := range nums {
			exact := new(big.Float).SetPrec(512).Mul(Big(a), Big(b))
			// Products beyond the integer range wrap and have no reference.
			if new(big.Float).Abs(exact).Cmp(big.NewFloat(1<<30)) >= 0 {
				continue
			}
			want := FromBig(exact)
			got := Mul(a, b)
			diff := Sub(got, want)
			if diff != Zero && diff != ulp && diff != minusUlp {
				t.Errorf("Mul(%s, %s) = %s, want %s (diff %x)", samples[i], samples[j], got, want, diff)
			}
		}
	}
}

func TestMulRandomOperands(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	random := func() Number {
		var n Number
		// Integer parts stay below 2^14 so products never wrap.
		n[0] = uint32(int32(rng.IntN(1<<15) - 1<<14)) //nolint:gosec // small signed value
		for i := WholeWords; i < Words; i++ {
			n[i] = rng.Uint32()
		}
		return n
	}
	for range 5000 {
		a, b := random(), random()
		exact := new(big.Float).SetPrec(512).Mul(Big(a), Big(b))
		want := FromBig(exact)
		got := Mul(a, b)
		if diff := Sub(got, want); diff != Zero && diff != One && diff != Negate(One) {
			t.Fatalf("Mul(%s, %s) = %s, want %s", a, b, got, want)
		}
	}
}

func TestMulExact(t *testing.T) {
	tests := []struct {
		a, b, want string
	}{
		{"3", "-0.5", "-1.5"},
		{"-2", "-2", "4"},
		{"0.5", "0.5", "0.25"},
		{"-1.25", "4", "-5"},
		{"0", "-12345.6789", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.a+"*"+tt.b, func(t *testing.T) {
			got := Mul(FromBig(mustBig(t, tt.a)), FromBig(mustBig(t, tt.b)))
			want := FromBig(mustBig(t, tt.want))
			if got != want {
				t.Errorf("Mul = %s, want %s", got, want)
			}
		})
	}
}

func TestMulTruncatesLowBits(t *testing.T) {
	// One ulp squared is far below the fraction resolution.
	if got := Mul(One, One); got != Zero {
		t.Errorf("Mul(ulp, ulp) = %x, want zero", got)
	}
	if got := Mul(Negate(One), One); got != Zero {
		t.Errorf("Mul(-ulp, ulp) = %x, want zero", got)
	}
}

func TestAddWraps(t *testing.T) {
	maxInt := FromInt(1<<31 - 1)
	got := Add(maxInt, FromInt(1))
	if !IsNegative(got) {
		t.Errorf("max+1 = %s, want a negative wrapped value", got)
	}
	if got != FromInt(-(1 << 31)) {
		t.Errorf("max+1 = %x, want %x", got, FromInt(-(1 << 31)))
	}
}

func TestSign(t *testing.T) {
	tests := []struct {
		in   Number
		want int
	}{
		{Zero, 0},
		{One, 1},
		{Negate(One), -1},
		{Four, 1},
	}
	for _, tt := range tests {
		if got := Sign(tt.in); got != tt.want {
			t.Errorf("Sign(%x) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFloat64(t *testing.T) {
	tests := []float64{0, 1, -1, 0.5, -0.75, 2.25, -1.9999}
	for _, v := range tests {
		n := FromFloat64(v)
		if got := Float64(n); got != v && (got-v > 1e-15 || v-got > 1e-15) {
			t.Errorf("Float64(FromFloat64(%v)) = %v", v, got)
		}
	}
}

func BenchmarkMul(b *testing.B) {
	x := FromFloat64(-0.1529)
	y := FromFloat64(1.0396)
	b.ReportAllocs()
	for b.Loop() {
		x = Mul(x, y)
		x = Add(x, y)
	}
	_ = x
}
