package planner

import "math"

// fitDimensions scales w x h uniformly so the result fits inside the target
// canvas. The smaller of the two axis ratios wins, so at least one dimension
// fills the canvas exactly (before even-clamping).
//
// Rounded dimensions are clamped back to the canvas when float rounding
// overshoots, then reduced to even values because 4:2:0 H.264 encoders
// reject odd dimensions. Reduction only ever shrinks, so the invariant
// "scaled fits inside canvas" survives; the lower bound of 2 guards
// degenerate aspect ratios.
func fitDimensions(w, h int) (int, int) {
	scale := math.Min(
		float64(TargetWidth)/float64(w),
		float64(TargetHeight)/float64(h),
	)
	sw := int(math.Round(float64(w) * scale))
	sh := int(math.Round(float64(h) * scale))
	if sw > TargetWidth {
		sw = TargetWidth
	}
	if sh > TargetHeight {
		sh = TargetHeight
	}
	return evenDown(sw), evenDown(sh)
}

// evenDown reduces n to the nearest even value, never below 2.
func evenDown(n int) int {
	if n%2 != 0 {
		n--
	}
	if n < 2 {
		n = 2
	}
	return n
}
