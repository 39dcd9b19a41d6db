// Package render maps derived particle velocities to display colors.
// Pure presentation logic; nothing here feeds back into the solver.
package render

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette defines a speed-to-hue ramp. Speeds at or below MinSpeed take
// SlowHue, speeds at or above MaxSpeed take FastHue, and everything in
// between interpolates linearly, so the mapping is monotonic and
// continuous with saturation at both extremes.
type Palette struct {
	MinSpeed   float64
	MaxSpeed   float64
	SlowHue    float64
	FastHue    float64
	Saturation float64
	Lightness  float64
}

// DefaultPalette runs cold blue for resting particles to hot red for
// fast ones, matching typical world speeds under the default gravity.
func DefaultPalette() Palette {
	return Palette{
		MinSpeed:   0,
		MaxSpeed:   600,
		SlowHue:    230,
		FastHue:    0,
		Saturation: 0.85,
		Lightness:  0.55,
	}
}

// Classify converts a speed (implicit velocity magnitude) to a color.
func (p Palette) Classify(speed float64) colorful.Color {
	return colorful.Hsl(p.Hue(speed), p.Saturation, p.Lightness)
}

// Hue returns the raw hue in degrees for a speed.
func (p Palette) Hue(speed float64) float64 {
	t := (speed - p.MinSpeed) / (p.MaxSpeed - p.MinSpeed)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return p.SlowHue + t*(p.FastHue-p.SlowHue)
}

// Hex renders the classified color as "#rrggbb", ready for terminal
// styling.
func (p Palette) Hex(speed float64) string {
	return p.Classify(speed).Hex()
}
