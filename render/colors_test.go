package render

import "testing"

func TestPaletteFixedSaturationValue(t *testing.T) {

	colors := Palette(8, DefaultPaletteParams())

	if len(colors) != 8 {
		t.Fatalf("expected 8 colors, got %d", len(colors))
	}

	// hue 0 with full saturation and value is pure red
	if colors[0].R != 255 || colors[0].G != 0 || colors[0].B != 0 {
		t.Errorf("expected first palette color to be red, got %+v", colors[0])
	}

	// evenly spread hues produce distinct colors
	seen := make(map[[3]uint8]bool)

	for _, c := range colors {
		seen[[3]uint8{c.R, c.G, c.B}] = true
	}

	if len(seen) != 8 {
		t.Errorf("expected 8 distinct colors, got %d", len(seen))
	}
}

func TestPaletteRandomSamplingReproducible(t *testing.T) {

	params := PaletteParams{
		RandomSaturation: true,
		RandomValue:      true,
		Seed:             7,
	}

	a := Palette(16, params)
	b := Palette(16, params)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("palette not reproducible for identical seed at color %d",
				i)
		}
	}
}
