package main

import "testing"

func TestShadeOfClamps(t *testing.T) {
	tests := []struct {
		v    float32
		want uint8
	}{
		{-0.5, 0},
		{0, 0},
		{0.5, 127},
		{1, 255},
		{2.8, 255}, // Over-unity samples from a strength > 1 must not wrap
	}
	for _, tc := range tests {
		if got := shadeOf(tc.v); got != tc.want {
			t.Errorf("shadeOf(%v) = %d, want %d", tc.v, got, tc.want)
		}
	}
}
