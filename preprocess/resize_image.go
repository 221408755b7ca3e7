package preprocess

import (
	"image"
	"image/draw"

	"github.com/nfnt/resize"
)

// ScaledResizeImage is a pure Go variant of ScaledResizer for callers not
// linking OpenCV.  It resizes img to a size x size square maintaining aspect
// ratio, zero pads the remainder anchored at the top left, and returns the
// padded image along with the inverse scale factor used to map detected
// coordinates back to source image space.
func ScaledResizeImage(img image.Image, size int) (image.Image, float32) {

	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()

	scaleW := float32(size) / float32(srcWidth)
	scaleH := float32(size) / float32(srcHeight)

	scale := scaleH

	if scaleW < scaleH {
		scale = scaleW
	}

	resizeW := int(float32(srcWidth) * scale)
	resizeH := int(float32(srcHeight) * scale)

	scaled := resize.Resize(uint(resizeW), uint(resizeH), img,
		resize.Bilinear)

	// zero initialized canvas, scaled image drawn at the top left
	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(canvas, image.Rect(0, 0, resizeW, resizeH), scaled,
		scaled.Bounds().Min, draw.Src)

	return canvas, 1.0 / scale
}
