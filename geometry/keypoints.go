package geometry

import "math"

// NormalizePoints2D transforms points2D in image UV coordinates to
// normalized coordinates in [-1, 1].  U and V have maximum values of width
// and height respectively.  This is the canonical normalization convention,
// symmetric with DenormalizePoints2D.
func NormalizePoints2D(points2D [][]float64, height, width float64) [][]float64 {

	out := make([][]float64, len(points2D))

	for i, p := range points2D {
		out[i] = []float64{
			(p[0]/width)*2.0 - 1.0,
			(p[1]/height)*2.0 - 1.0,
		}
	}

	return out
}

// DenormalizePoints2D transforms normalized points2D in [-1, 1] back to
// image UV coordinates, the exact inverse of NormalizePoints2D
func DenormalizePoints2D(points2D [][]float64, height, width float64) [][]float64 {

	out := make([][]float64, len(points2D))

	for i, p := range points2D {
		out[i] = []float64{
			(p[0] + 1.0) / 2.0 * width,
			(p[1] + 1.0) / 2.0 * height,
		}
	}

	return out
}

// NormalizeKeypoints transforms keypoints in image coordinates to normalized
// coordinates using the legacy convention with half pixel offsets and a
// flipped y axis.
//
// Deprecated: this convention is not the inverse of DenormalizePoints2D and
// differs from NormalizePoints2D in its y flip handling.  Use
// NormalizePoints2D for new code.
func NormalizeKeypoints(keypoints [][]float64, height, width float64) [][]float64 {

	out := make([][]float64, len(keypoints))

	for i, kp := range keypoints {
		x := ((kp[0] + 0.5) - (width / 2.0)) / (width / 2.0)
		y := ((height - 0.5 - kp[1]) - (height / 2.0)) / (height / 2.0)
		out[i] = []float64{x, y}
	}

	return out
}

// DenormalizeKeypoints transforms normalized keypoint coordinates back into
// image coordinates using the legacy convention, clamping inputs to [-1, 1]
// and rounding to whole pixels.
//
// Deprecated: this is the inverse of NormalizeKeypoints only, not of
// NormalizePoints2D.  Use DenormalizePoints2D for new code.
func DenormalizeKeypoints(keypoints [][]float64, height, width float64) [][]float64 {

	out := make([][]float64, len(keypoints))

	for i, kp := range keypoints {
		x := clampUnit(kp[0])*width/2.0 + width/2.0 - 0.5
		// flip since the image coordinates for y are flipped
		y := height - 0.5 - (clampUnit(kp[1])*height/2.0 + height/2.0)
		out[i] = []float64{math.Round(x), math.Round(y)}
	}

	return out
}

// TranslatePoints2D translates points2D to a different origin given by the
// (x, y) translation values
func TranslatePoints2D(points2D [][]float64, translation [2]float64) [][]float64 {

	out := make([][]float64, len(points2D))

	for i, p := range points2D {
		out[i] = []float64{p[0] + translation[0], p[1] + translation[1]}
	}

	return out
}

// RotatePoint2D rotates a point counterclockwise around the origin by the
// given angle in degrees
func RotatePoint2D(point [2]float64, angleDegrees float64) [2]float64 {

	angle := math.Pi * angleDegrees / 180.0
	sin, cos := math.Sin(angle), math.Cos(angle)

	return [2]float64{
		point[0]*cos - point[1]*sin,
		point[0]*sin + point[1]*cos,
	}
}

// FlipPointsLeftRight mirrors points2D horizontally within an image of the
// given width
func FlipPointsLeftRight(points2D [][]float64, width float64) [][]float64 {

	out := make([][]float64, len(points2D))

	for i, p := range points2D {
		out[i] = []float64{width - p[0], p[1]}
	}

	return out
}

// Standardize subtracts the mean and divides by the standard deviation per
// coordinate
func Standardize(data, mean, scale []float64) []float64 {

	out := make([]float64, len(data))

	for i := range data {
		out[i] = (data[i] - mean[i]) / scale[i]
	}

	return out
}

// Destandardize multiplies by the standard deviation and adds back the mean,
// the inverse of Standardize
func Destandardize(data, mean, scale []float64) []float64 {

	out := make([]float64, len(data))

	for i := range data {
		out[i] = data[i]*scale[i] + mean[i]
	}

	return out
}

// clampUnit restricts the value to the range [-1, 1]
func clampUnit(v float64) float64 {

	if v < -1 {
		return -1
	}

	if v > 1 {
		return 1
	}

	return v
}
