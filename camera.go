package detpose

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Camera holds the pinhole camera parameters used to map 3D camera space
// points onto the 2D image plane.  A Camera is immutable for the duration of
// a capture session.
type Camera struct {
	// Intrinsics is the 3x3 camera matrix.  Diagonal elements are the focal
	// lengths and the last column holds the principal point.
	Intrinsics *mat.Dense
	// Distortion is the 5 element lens distortion vector in OpenCV order
	// (k1, k2, p1, p2, k3)
	Distortion []float64
}

// NewCamera returns a Camera with the given focal lengths and principal
// point and zero lens distortion
func NewCamera(fx, fy, cx, cy float64) *Camera {
	return &Camera{
		Intrinsics: mat.NewDense(3, 3, []float64{
			fx, 0, cx,
			0, fy, cy,
			0, 0, 1,
		}),
		Distortion: make([]float64, 5),
	}
}

// NewCameraFromHFOV returns a Camera whose intrinsics are derived from the
// horizontal field of view in degrees and the image dimensions.  The focal
// length is computed as width / (2 * tan(HFOV/2)) and the principal point is
// placed at the image center.
func NewCameraFromHFOV(hfovDegrees float64, imageWidth, imageHeight int) *Camera {

	halfAngle := (hfovDegrees / 2.0) * math.Pi / 180.0
	focalLength := (float64(imageWidth) / 2.0) / math.Tan(halfAngle)

	return NewCamera(focalLength, focalLength,
		float64(imageWidth)/2.0, float64(imageHeight)/2.0)
}

// FocalLengthX returns the x focal length from the intrinsics matrix
func (c *Camera) FocalLengthX() float64 {
	return c.Intrinsics.At(0, 0)
}

// FocalLengthY returns the y focal length from the intrinsics matrix
func (c *Camera) FocalLengthY() float64 {
	return c.Intrinsics.At(1, 1)
}

// PrincipalPoint returns the image center translation (cx, cy) from the
// intrinsics matrix
func (c *Camera) PrincipalPoint() (float64, float64) {
	return c.Intrinsics.At(0, 2), c.Intrinsics.At(1, 2)
}
