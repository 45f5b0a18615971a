// Package utils_test provides tests for utility functions.
package utils_test

import (
	"math"
	"testing"

	"github.com/atlas-desktop/projection-backend/pkg/utils"
)

func TestClamp(t *testing.T) {
	cases := []struct {
		v, lo, hi, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
		{0, 0, 1, 0},
		{1, 0, 1, 1},
	}

	for _, tc := range cases {
		if got := utils.Clamp(tc.v, tc.lo, tc.hi); got != tc.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tc.v, tc.lo, tc.hi, got, tc.want)
		}
	}
}

func TestFinite(t *testing.T) {
	if got := utils.Finite(1.5, 0); got != 1.5 {
		t.Errorf("Expected passthrough for finite value, got %v", got)
	}
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := utils.Finite(v, 0.06); got != 0.06 {
			t.Errorf("Finite(%v) = %v, want fallback 0.06", v, got)
		}
	}
}
