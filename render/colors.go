package render

import (
	"image/color"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

var (
	// classColors is a list of distinct colors used to paint detection
	// boxes, indexed by detection order
	classColors = []color.RGBA{
		{R: 255, G: 56, B: 56, A: 255},   // #FF3838
		{R: 255, G: 112, B: 31, A: 255},  // #FF701F
		{R: 255, G: 178, B: 29, A: 255},  // #FFB21D
		{R: 207, G: 210, B: 49, A: 255},  // #CFD231
		{R: 72, G: 249, B: 10, A: 255},   // #48F90A
		{R: 26, G: 147, B: 52, A: 255},   // #1A9334
		{R: 0, G: 212, B: 187, A: 255},   // #00D4BB
		{R: 0, G: 194, B: 255, A: 255},   // #00C2FF
		{R: 52, G: 69, B: 147, A: 255},   // #344593
		{R: 100, G: 115, B: 255, A: 255}, // #6473FF
		{R: 0, G: 24, B: 236, A: 255},    // #0018EC
		{R: 132, G: 56, B: 255, A: 255},  // #8438FF
		{R: 82, G: 0, B: 133, A: 255},    // #520085
		{R: 255, G: 149, B: 200, A: 255}, // #FF95C8
		{R: 255, G: 55, B: 199, A: 255},  // #FF37C7
		{R: 255, G: 157, B: 151, A: 255}, // #FF9D97
		{R: 44, G: 153, B: 168, A: 255},  // #2C99A8
		{R: 61, G: 219, B: 134, A: 255},  // #3DDB86
		{R: 203, G: 56, B: 255, A: 255},  // #CB38FF
		{R: 146, G: 204, B: 23, A: 255},  // #92CC17
	}

	// keyPointColors are the colors used for skeleton joint circles,
	// cycled when a skeleton has more joints than colors
	keyPointColors = []color.RGBA{
		{R: 255, G: 128, B: 0, A: 255},
		{R: 255, G: 153, B: 51, A: 255},
		{R: 255, G: 178, B: 102, A: 255},
		{R: 230, G: 230, B: 0, A: 255},
		{R: 255, G: 153, B: 255, A: 255},
		{R: 153, G: 204, B: 255, A: 255},
		{R: 255, G: 102, B: 255, A: 255},
		{R: 255, G: 51, B: 255, A: 255},
		{R: 102, G: 178, B: 255, A: 255},
		{R: 51, G: 153, B: 255, A: 255},
		{R: 255, G: 153, B: 153, A: 255},
		{R: 255, G: 102, B: 102, A: 255},
		{R: 255, G: 51, B: 51, A: 255},
		{R: 153, G: 255, B: 153, A: 255},
		{R: 102, G: 255, B: 102, A: 255},
		{R: 51, G: 255, B: 51, A: 255},
		{R: 0, G: 255, B: 0, A: 255},
	}

	// limbColors are the colors used for skeleton bone lines, cycled when
	// a skeleton has more bones than colors
	limbColors = []color.RGBA{
		{R: 51, G: 153, B: 255, A: 255},
		{R: 102, G: 178, B: 255, A: 255},
		{R: 255, G: 51, B: 51, A: 255},
		{R: 255, G: 102, B: 102, A: 255},
		{R: 0, G: 255, B: 0, A: 255},
		{R: 255, G: 128, B: 0, A: 255},
		{R: 153, G: 255, B: 153, A: 255},
		{R: 255, G: 153, B: 255, A: 255},
		{R: 230, G: 230, B: 0, A: 255},
	}

	Black  = colornames.Black
	White  = colornames.White
	Green  = colornames.Lime
	Yellow = color.RGBA{R: 255, G: 255, B: 50, A: 255}
	Pink   = colornames.Magenta
)

// PaletteParams configures Palette, the HSV sampled color palette
type PaletteParams struct {
	// Saturation in [0, 1] applied to every color.  Ignored when
	// RandomSaturation is set.
	Saturation float64
	// Value in [0, 1] applied to every color.  Ignored when RandomValue
	// is set.
	Value float64
	// RandomSaturation enables the random sampling policy: each color's
	// saturation is drawn uniformly from [0.6, 1]
	RandomSaturation bool
	// RandomValue enables the random sampling policy: each color's value
	// is drawn uniformly from [0.5, 1]
	RandomValue bool
	// Seed for the random sampling policy so palettes are reproducible
	Seed int64
}

// DefaultPaletteParams returns palette parameters with full saturation and
// value and no random sampling
func DefaultPaletteParams() PaletteParams {
	return PaletteParams{
		Saturation: 1,
		Value:      1,
	}
}

// Palette creates numColors RGB colors linearly sampled from HSV space.
// Hues are spread evenly over the color circle, saturation and value follow
// the configured policy.
func Palette(numColors int, params PaletteParams) []color.RGBA {

	rng := rand.New(rand.NewSource(params.Seed))

	colors := make([]color.RGBA, 0, numColors)

	for i := 0; i < numColors; i++ {

		hue := float64(i) / float64(numColors) * 360.0

		saturation := params.Saturation

		if params.RandomSaturation {
			saturation = 0.6 + rng.Float64()*0.4
		}

		value := params.Value

		if params.RandomValue {
			value = 0.5 + rng.Float64()*0.5
		}

		r, g, b := colorful.Hsv(hue, saturation, value).RGB255()

		colors = append(colors, color.RGBA{R: r, G: g, B: b, A: 255})
	}

	return colors
}
