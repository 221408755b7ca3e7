package preprocess

import (
	"image"
	"testing"

	"gocv.io/x/gocv"
)

func TestScaledResize(t *testing.T) {

	tests := []struct {
		srcWidth      int
		srcHeight     int
		size          int
		expectedScale float32
	}{
		{1280, 720, 640, 0.50},
		{800, 1000, 640, 0.64},
		{800, 800, 640, 0.8},
		{640, 640, 640, 1.0},
	}

	for _, tc := range tests {
		img := gocv.NewMatWithSize(tc.srcHeight, tc.srcWidth, gocv.MatTypeCV8UC3)

		resizedImg := gocv.NewMat()

		resizer := NewScaledResizer(tc.srcWidth, tc.srcHeight, tc.size)

		resizer.Resize(img, &resizedImg)

		if resizer.Scale() != tc.expectedScale {
			t.Errorf("src (%d, %d): scale factor incorrect, expected %f, got %f",
				tc.srcWidth, tc.srcHeight, tc.expectedScale, resizer.Scale())
		}

		// output canvas is always the exact square size
		if resizedImg.Cols() != tc.size || resizedImg.Rows() != tc.size {
			t.Errorf("src (%d, %d): expected %dx%d output, got %dx%d",
				tc.srcWidth, tc.srcHeight, tc.size, tc.size,
				resizedImg.Cols(), resizedImg.Rows())
		}

		// inverse scale maps resized coordinates back to source space
		invScale := resizer.InverseScale()

		restored := float32(tc.size) * invScale * resizer.Scale()

		if diff := restored - float32(tc.size); diff > 1e-3 || diff < -1e-3 {
			t.Errorf("src (%d, %d): inverse scale round trip failed, got %f",
				tc.srcWidth, tc.srcHeight, restored)
		}

		img.Close()
		resizedImg.Close()
		resizer.Close()
	}
}

func TestScaledResizeImage(t *testing.T) {

	src := image.NewRGBA(image.Rect(0, 0, 1280, 720))

	out, invScale := ScaledResizeImage(src, 640)

	if out.Bounds().Dx() != 640 || out.Bounds().Dy() != 640 {
		t.Errorf("expected 640x640 output, got %dx%d",
			out.Bounds().Dx(), out.Bounds().Dy())
	}

	if invScale != 2.0 {
		t.Errorf("expected inverse scale 2.0, got %f", invScale)
	}
}
