package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorFromFloatsClamps(t *testing.T) {
	c := ColorFromFloats(-1, 0.5, 2, 1)
	assert.Equal(t, Color{R: 0, G: 128, B: 255, A: 255}, c)
}

func TestColorFromInts(t *testing.T) {
	c := ColorFromInts([4]int{-20, 12, 300, 255})
	assert.Equal(t, Color{R: 0, G: 12, B: 255, A: 255}, c)
}

func TestColorAsFRGBA(t *testing.T) {
	r, g, b, a := ColorFromRGBA(255, 0, 51, 255).AsFRGBA()
	assert.InDelta(t, 1.0, r, 1e-6)
	assert.InDelta(t, 0.0, g, 1e-6)
	assert.InDelta(t, 0.2, b, 1e-6)
	assert.InDelta(t, 1.0, a, 1e-6)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 3, Clamp(7, 0, 3))
	assert.Equal(t, 0, Clamp(-2, 0, 3))
	assert.Equal(t, float32(0.5), Clamp(float32(0.5), 0, 1))
}
