package preprocess

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// ScaledResizer handles resizing an image to a square model input size
// whilst maintaining the aspect ratio of the source image.  The image is
// scaled by a single uniform factor and the remaining canvas area is zero
// padded, anchored at the top left corner.  The inverse scale factor is kept
// so detected box coordinates can be mapped back to source image space.
type ScaledResizer struct {
	// srcWidth is the width of the source image
	srcWidth int
	// srcHeight is the height of the source image
	srcHeight int
	// size is the square dimension to scale to
	size int
	// tempMat is a Mat used during the resize process
	tempMat gocv.Mat
	// scale is the uniform scale factor applied to the source image
	scale float32
	// resize dimensions
	resizeW int
	resizeH int
}

// NewScaledResizer returns a resizer used for scaling an image to the square
// dimensions needed for the model input tensor size
func NewScaledResizer(srcWidth, srcHeight, size int) *ScaledResizer {
	r := &ScaledResizer{
		srcWidth:  srcWidth,
		srcHeight: srcHeight,
		size:      size,
		tempMat:   gocv.NewMat(),
	}

	// precalculate scaling dimensions
	r.preCalc()

	return r
}

// Close frees memory allocated during resize process
func (r *ScaledResizer) Close() error {
	return r.tempMat.Close()
}

// preCalc the uniform scale factor and resize dimensions
func (r *ScaledResizer) preCalc() {

	scaleW := float32(r.size) / float32(r.srcWidth)
	scaleH := float32(r.size) / float32(r.srcHeight)

	r.scale = scaleH

	if scaleW < scaleH {
		r.scale = scaleW
	}

	r.resizeW = int(float32(r.srcWidth) * r.scale)
	r.resizeH = int(float32(r.srcHeight) * r.scale)
}

// Resize scales the source image by the uniform scale factor and pads the
// remaining area of the square destination canvas with zeros.  The scaled
// image is anchored at the top left, there is no centering or crop offset.
func (r *ScaledResizer) Resize(src gocv.Mat, dest *gocv.Mat) {

	gocv.Resize(src, &r.tempMat, image.Pt(r.resizeW, r.resizeH),
		0, 0, gocv.InterpolationArea)

	gocv.CopyMakeBorder(r.tempMat, dest, 0, r.size-r.resizeH,
		0, r.size-r.resizeW, gocv.BorderConstant,
		color.RGBA{R: 0, G: 0, B: 0, A: 0})
}

// Scale returns the uniform scale factor applied to the source image
func (r *ScaledResizer) Scale() float32 {
	return r.scale
}

// InverseScale returns the factor that maps coordinates in resized image
// space back to source image space.  Box coordinates detected on the model
// input are multiplied by this value.
func (r *ScaledResizer) InverseScale() float32 {
	return 1.0 / r.scale
}

// Size returns the square destination dimension
func (r *ScaledResizer) Size() int {
	return r.size
}

// SrcWidth returns the width of the source image
func (r *ScaledResizer) SrcWidth() int {
	return r.srcWidth
}

// SrcHeight returns the height of the source image
func (r *ScaledResizer) SrcHeight() int {
	return r.srcHeight
}
