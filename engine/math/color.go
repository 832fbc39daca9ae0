package math

// Color is an 8-bit per channel RGBA color. It is comparable, which is what
// the pipeline state relies on to skip redundant clear-color calls.
type Color struct {
	R, G, B, A uint8
}

func ColorFromRGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// ColorFromFloats builds a color from normalized components, clamping each to [0, 1].
func ColorFromFloats(r, g, b, a float32) Color {
	return Color{
		R: floatToByte(r),
		G: floatToByte(g),
		B: floatToByte(b),
		A: floatToByte(a),
	}
}

// ColorFromInts clamps each component into [0, 255]. Used by the config loader.
func ColorFromInts(c [4]int) Color {
	return Color{
		R: uint8(Clamp(c[0], 0, 255)),
		G: uint8(Clamp(c[1], 0, 255)),
		B: uint8(Clamp(c[2], 0, 255)),
		A: uint8(Clamp(c[3], 0, 255)),
	}
}

// AsFRGBA returns the color as normalized floats in [0, 1].
func (c Color) AsFRGBA() (r, g, b, a float32) {
	return float32(c.R) / 255.0, float32(c.G) / 255.0, float32(c.B) / 255.0, float32(c.A) / 255.0
}

func floatToByte(f float32) uint8 {
	return uint8(Clamp(f, 0, 1)*255.0 + 0.5)
}
