package render

import (
	"image/color"
	"testing"

	"github.com/jakecoffman/cp"
)

func TestToNRGBA(t *testing.T) {
	tests := []struct {
		name string
		in   cp.FColor
		want color.NRGBA
	}{
		{name: "opaque_white", in: cp.FColor{R: 1, G: 1, B: 1, A: 1}, want: color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{name: "clamped", in: cp.FColor{R: 2, G: -1, B: 0, A: 1.5}, want: color.NRGBA{R: 255, G: 0, B: 0, A: 255}},
		{name: "half", in: cp.FColor{R: 0.5, A: 0.5}, want: color.NRGBA{R: 127, A: 127}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := toNRGBA(tc.in); got != tc.want {
				t.Fatalf("toNRGBA(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
