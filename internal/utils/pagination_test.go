package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	tests := []struct {
		in   string
		def  int
		want int
	}{
		{"42", 0, 42},
		{"", 10, 10},
		{"abc", 5, 5},
		{"-3", 1, -3},
		{"2.5", 7, 7},
		{" 8", 7, 7},
	}
	for _, tc := range tests {
		if got := AtoiDefault(tc.in, tc.def); got != tc.want {
			t.Errorf("AtoiDefault(%q, %d) = %d, want %d", tc.in, tc.def, got, tc.want)
		}
	}
}

func TestClampInt(t *testing.T) {
	tests := []struct {
		n, lo, hi int
		want      int
	}{
		{50, 1, 100, 50},
		{0, 1, 100, 1},
		{150, 1, 100, 100},
		{1, 1, 100, 1},
		{100, 1, 100, 100},
	}
	for _, tc := range tests {
		if got := ClampInt(tc.n, tc.lo, tc.hi); got != tc.want {
			t.Errorf("ClampInt(%d, %d, %d) = %d, want %d", tc.n, tc.lo, tc.hi, got, tc.want)
		}
	}
}
