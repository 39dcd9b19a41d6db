package render

import (
	"math"
	"testing"
)

func TestPalette_HueMonotonic(t *testing.T) {
	p := DefaultPalette()

	prev := p.Hue(0)
	for speed := 10.0; speed <= p.MaxSpeed; speed += 10 {
		h := p.Hue(speed)
		if h > prev {
			t.Fatalf("hue not monotonically decreasing at speed %v: %v -> %v", speed, prev, h)
		}
		prev = h
	}
}

func TestPalette_SaturatesAtExtremes(t *testing.T) {
	p := DefaultPalette()

	if got := p.Hue(-100); got != p.SlowHue {
		t.Errorf("below-range speed hue = %v, want %v", got, p.SlowHue)
	}
	if got := p.Hue(0); got != p.SlowHue {
		t.Errorf("resting hue = %v, want %v", got, p.SlowHue)
	}
	if got := p.Hue(p.MaxSpeed); got != p.FastHue {
		t.Errorf("max-speed hue = %v, want %v", got, p.FastHue)
	}
	if got := p.Hue(10 * p.MaxSpeed); got != p.FastHue {
		t.Errorf("beyond-range hue = %v, want %v", got, p.FastHue)
	}
}

func TestPalette_Continuity(t *testing.T) {
	p := DefaultPalette()

	// Small speed deltas must produce small hue deltas, including across
	// the saturation knees.
	for _, speed := range []float64{0, 1, p.MaxSpeed / 2, p.MaxSpeed - 1, p.MaxSpeed} {
		a := p.Hue(speed)
		b := p.Hue(speed + 0.01)
		if math.Abs(a-b) > 0.1 {
			t.Errorf("hue jump at speed %v: %v -> %v", speed, a, b)
		}
	}
}

func TestPalette_ClassifyValidColors(t *testing.T) {
	p := DefaultPalette()

	for _, speed := range []float64{0, 50, 300, 600, 5000} {
		c := p.Classify(speed)
		if !c.IsValid() {
			t.Errorf("speed %v produced out-of-gamut color %v", speed, c)
		}
	}

	hex := p.Hex(300)
	if len(hex) != 7 || hex[0] != '#' {
		t.Errorf("Hex(300) = %q, want #rrggbb form", hex)
	}
}
