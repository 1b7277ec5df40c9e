package core

import "testing"

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		in  string
		out float64
	}{
		{"1192,86", 1192.86},
		{"1192.86", 1192.86},
		{"1.192,86", 1192.86},
		{"1.210,43", 1210.43},
		{"1210.43", 1210.43},
		{"1,192.86", 1192.86},
		{"1.234.567", 1234567},
		{"1,234,567", 1234567},
		{"1234", 1234},
		{",5", 0.5},
		{".5", 0.5},
		{"0,1", 0.1},
		{"12.3", 12.3}, // one-digit tail is a fraction
		{"12.34", 12.34},
		{"12.345", 12345}, // three-digit tail is a thousands group
		{" 42 ", 42},
		{"", 0},
		{"abc", 0},
		{"12abc", 0},
		{"1.2.3", 12.3}, // last short tail wins, earlier separators stripped
	}
	for _, tc := range cases {
		if got := ParseDecimal(tc.in); got != tc.out {
			t.Errorf("ParseDecimal(%q) = %v, want %v", tc.in, got, tc.out)
		}
	}
}

func TestParseDecimalIsTotal(t *testing.T) {
	// Garbage, separators-only and non-finite inputs all default to 0.
	for _, in := range []string{"", ".", ",", "..", "--", "Inf", "NaN", "1e308e308"} {
		if got := ParseDecimal(in); got != 0 {
			t.Errorf("ParseDecimal(%q) = %v, want 0", in, got)
		}
	}
}

func TestParseRupiah(t *testing.T) {
	cases := []struct {
		in  string
		out int64
	}{
		{"26500", 26_500},
		{"26.500", 26_500},
		{"Rp 26.500", 26_500},
		{"", 0},
		{"abc", 0},
		{"0", 0},
	}
	for _, tc := range cases {
		if got := ParseRupiah(tc.in); got != tc.out {
			t.Errorf("ParseRupiah(%q) = %d, want %d", tc.in, got, tc.out)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in  int64
		out string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.000"},
		{26500, "26.500"},
		{703455, "703.455"},
		{1234567, "1.234.567"},
		{-50000, "-50.000"},
	}
	for _, tc := range cases {
		if got := FormatNumber(tc.in); got != tc.out {
			t.Errorf("FormatNumber(%d) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestFormatMeterRoundTrip(t *testing.T) {
	// A freshly reconciled reading re-parses to the same value.
	for _, v := range []float64{0, 1192.86, 1254.03, 61.17, 12345, 0.5} {
		text := FormatMeter(v)
		if got := ParseDecimal(text); got != v {
			t.Errorf("ParseDecimal(FormatMeter(%v)) = %v via %q", v, got, text)
		}
	}
	if got := FormatMeter(1192.86); got != "1192,86" {
		t.Errorf("FormatMeter(1192.86) = %q, want %q", got, "1192,86")
	}
}
