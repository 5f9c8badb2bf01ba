package util

import (
	"strconv"
	"testing"
)

func TestFormatDouble(t *testing.T) {
	cases := map[float64]string{
		0:          "0.0",
		1:          "1.0",
		-10:        "-10.0",
		0.63:       "0.63",
		0.001:      "0.001",
		0.0001:     "1.0E-4",
		1.5e-5:     "1.5E-5",
		1e7:        "1.0E7",
		12345678.9: "1.23456789E7",
		9999999:    "9999999.0",
	}
	for in, want := range cases {
		if got := FormatDouble(in); got != want {
			t.Errorf("FormatDouble(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatDoubleParsesBack(t *testing.T) {
	for _, v := range []float64{0.70000001, -9.3, 1.0e-8, 3.2e9, 0.95} {
		s := FormatDouble(v)
		back, err := strconv.ParseFloat(s, 64)
		if err != nil {
			t.Fatalf("ParseFloat(%q): %v", s, err)
		}
		if back != v {
			t.Fatalf("round trip of %v through %q gave %v", v, s, back)
		}
	}
}
