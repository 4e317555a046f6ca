package frame

import "github.com/vireo-tui/vireo/store"

// blendOver performs the Porter-Duff "over" blend of a child color onto an
// already-accumulated background (§4.D step 4). Walking up the fg/bg chain
// is done by the caller, which has the ancestor stack.
func blendOver(child, backdrop store.Color) store.Color {
	if child.Kind == store.ColorInherit {
		return backdrop
	}
	if child.Kind != store.ColorRGBA || child.A == 255 {
		return child
	}
	if child.A == 0 {
		return backdrop
	}
	// backdrop may itself be a sentinel; treat default/ANSI256 as opaque
	// black-ish for blending purposes, matching typical terminal defaults.
	br, bg, bb := backdrop.R, backdrop.G, backdrop.B
	a := float64(child.A) / 255.0
	r := uint8(float64(child.R)*a + float64(br)*(1-a))
	g := uint8(float64(child.G)*a + float64(bg)*(1-a))
	b := uint8(float64(child.B)*a + float64(bb)*(1-a))
	return store.RGB(r, g, b)
}

// effectiveColor resolves a component's own color against the accumulated
// ancestor chain: inherit walks up (handled by caller passing the parent's
// already-resolved color as fallback), sentinels pass through unchanged.
func effectiveColor(own, parentResolved store.Color, opacity float64) store.Color {
	c := own
	if c.Kind == store.ColorInherit {
		return parentResolved
	}
	if c.Kind == store.ColorRGBA && opacity < 1 {
		c.A = uint8(float64(c.A) * opacity)
	}
	return blendOver(c, parentResolved)
}
