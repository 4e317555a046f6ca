// Package layout implements the CSS Flexbox Level 1 algorithm over the
// entity/slot store (§4.C), exposed as a single reactive derived that every
// layout-affecting slot of every live entity transitively feeds.
package layout

import "math"

// BoxConstraints bounds a box's resolved size, mirroring the teacher's
// runtime/types.go BoxConstraints (min/max width/height with Constrain/Loosen).
type BoxConstraints struct {
	MinWidth, MaxWidth   float64
	MinHeight, MaxHeight float64
}

// Unbounded returns constraints with no upper bound and zero minimum.
func Unbounded() BoxConstraints {
	return BoxConstraints{MaxWidth: math.Inf(1), MaxHeight: math.Inf(1)}
}

// Tight returns constraints pinning both width and height exactly.
func Tight(w, h float64) BoxConstraints {
	return BoxConstraints{MinWidth: w, MaxWidth: w, MinHeight: h, MaxHeight: h}
}

// IsTight reports whether min == max on both axes.
func (c BoxConstraints) IsTight() bool {
	return c.MinWidth == c.MaxWidth && c.MinHeight == c.MaxHeight
}

// Loosen drops the minimums, keeping only the upper bounds.
func (c BoxConstraints) Loosen() BoxConstraints {
	return BoxConstraints{MaxWidth: c.MaxWidth, MaxHeight: c.MaxHeight}
}

// ConstrainWidth clamps w into [MinWidth, MaxWidth], taking Min when the
// range is inverted (§4.C failure policy: "min > max resolves by taking min").
func (c BoxConstraints) ConstrainWidth(w float64) float64 {
	return clampRange(w, c.MinWidth, c.MaxWidth)
}

// ConstrainHeight clamps h into [MinHeight, MaxHeight].
func (c BoxConstraints) ConstrainHeight(h float64) float64 {
	return clampRange(h, c.MinHeight, c.MaxHeight)
}

func clampRange(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Size is a resolved width/height pair.
type Size struct{ Width, Height float64 }
