package frame

// Rect is an integer cell rectangle used for clipping (§4.D step 3).
type Rect struct {
	X, Y, W, H int
}

// Intersect returns the overlap of r and o; Empty() reports zero-area.
func (r Rect) Intersect(o Rect) Rect {
	x1 := maxInt(r.X, o.X)
	y1 := maxInt(r.Y, o.Y)
	x2 := minInt(r.X+r.W, o.X+o.W)
	y2 := minInt(r.Y+r.H, o.Y+o.H)
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// Empty reports whether the rect has zero or negative area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
