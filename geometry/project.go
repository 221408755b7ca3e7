// Package geometry implements the 2D/3D keypoint geometry used for pose
// estimation: camera projection, PnP pose solving and keypoint coordinate
// transforms.
package geometry

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	detpose "github.com/visionworks/go-detpose"
)

// epsilonDepth is the minimum absolute depth used in the perspective divide.
// Points at or behind the camera plane arise from legitimate degenerate
// geometry and must produce finite coordinates rather than Inf/NaN.
const epsilonDepth = 1e-8

// Pose6D is a rigid transform produced by a PnP solve, rotation in axis
// angle form and translation as a 3 vector
type Pose6D struct {
	Rotation    []float64
	Translation []float64
}

// ProjectToImage projects points3D in the object frame onto the image plane
// using a perspective transformation.  Each point is transformed by
// p_camera = R * p_object + t and then projected through the pinhole model
// u = fx*(x/z) + cx, v = fy*(y/z) + cy.
//
// rotation must be exactly 3x3, translation must have exactly 3 components
// and points3D must be an Nx3 matrix, otherwise a validation error naming the
// offending argument is returned.  The returned matrix is Nx2 in UV image
// space.
func ProjectToImage(rotation *mat.Dense, translation []float64,
	points3D *mat.Dense, intrinsics *mat.Dense) (*mat.Dense, error) {

	if r, c := rotation.Dims(); r != 3 || c != 3 {
		return nil, errors.Errorf(
			"rotation matrix is not of shape (3, 3), got (%d, %d)", r, c)
	}

	if len(translation) != 3 {
		return nil, errors.Errorf(
			"translation vector is not of length 3, got %d", len(translation))
	}

	numPoints, cols := points3D.Dims()

	if cols != 3 {
		return nil, errors.Errorf(
			"points3D should have shape (num_points, 3), got (%d, %d)",
			numPoints, cols)
	}

	if r, c := intrinsics.Dims(); r != 3 || c != 3 {
		return nil, errors.Errorf(
			"camera intrinsics is not of shape (3, 3), got (%d, %d)", r, c)
	}

	xFocal := intrinsics.At(0, 0)
	yFocal := intrinsics.At(1, 1)
	xCenter := intrinsics.At(0, 2)
	yCenter := intrinsics.At(1, 2)

	projected := mat.NewDense(numPoints, 2, nil)

	for i := 0; i < numPoints; i++ {

		px := points3D.At(i, 0)
		py := points3D.At(i, 1)
		pz := points3D.At(i, 2)

		x := rotation.At(0, 0)*px + rotation.At(0, 1)*py +
			rotation.At(0, 2)*pz + translation[0]
		y := rotation.At(1, 0)*px + rotation.At(1, 1)*py +
			rotation.At(1, 2)*pz + translation[1]
		z := rotation.At(2, 0)*px + rotation.At(2, 1)*py +
			rotation.At(2, 2)*pz + translation[2]

		z = clampDepth(z)

		projected.Set(i, 0, xFocal*(x/z)+xCenter)
		projected.Set(i, 1, yFocal*(y/z)+yCenter)
	}

	return projected, nil
}

// ProjectPoints3D projects points3D through the given 6D pose and camera,
// applying the camera's 5 term radial and tangential lens distortion model.
// The returned matrix is Nx2 in UV image space.
func ProjectPoints3D(points3D *mat.Dense, pose Pose6D,
	camera *detpose.Camera) (*mat.Dense, error) {

	if len(pose.Rotation) != 3 {
		return nil, errors.Errorf(
			"pose rotation vector is not of length 3, got %d",
			len(pose.Rotation))
	}

	if len(pose.Translation) != 3 {
		return nil, errors.Errorf(
			"pose translation vector is not of length 3, got %d",
			len(pose.Translation))
	}

	numPoints, cols := points3D.Dims()

	if cols != 3 {
		return nil, errors.Errorf(
			"points3D should have shape (num_points, 3), got (%d, %d)",
			numPoints, cols)
	}

	rotation := RotationFromAxisAngle(pose.Rotation)

	xFocal := camera.FocalLengthX()
	yFocal := camera.FocalLengthY()
	xCenter, yCenter := camera.PrincipalPoint()

	projected := mat.NewDense(numPoints, 2, nil)

	for i := 0; i < numPoints; i++ {

		px := points3D.At(i, 0)
		py := points3D.At(i, 1)
		pz := points3D.At(i, 2)

		x := rotation.At(0, 0)*px + rotation.At(0, 1)*py +
			rotation.At(0, 2)*pz + pose.Translation[0]
		y := rotation.At(1, 0)*px + rotation.At(1, 1)*py +
			rotation.At(1, 2)*pz + pose.Translation[1]
		z := rotation.At(2, 0)*px + rotation.At(2, 1)*py +
			rotation.At(2, 2)*pz + pose.Translation[2]

		z = clampDepth(z)

		xn, yn := distortPoint(x/z, y/z, camera.Distortion)

		projected.Set(i, 0, xFocal*xn+xCenter)
		projected.Set(i, 1, yFocal*yn+yCenter)
	}

	return projected, nil
}

// distortPoint applies the OpenCV radial/tangential distortion model
// (k1, k2, p1, p2, k3) to a normalized image plane point
func distortPoint(x, y float64, distortion []float64) (float64, float64) {

	if len(distortion) < 5 {
		return x, y
	}

	k1, k2, p1, p2, k3 := distortion[0], distortion[1], distortion[2],
		distortion[3], distortion[4]

	r2 := x*x + y*y
	radial := 1 + k1*r2 + k2*r2*r2 + k3*r2*r2*r2

	xd := x*radial + 2*p1*x*y + p2*(r2+2*x*x)
	yd := y*radial + p1*(r2+2*y*y) + 2*p2*x*y

	return xd, yd
}

// clampDepth bounds a depth value away from zero preserving its sign
func clampDepth(z float64) float64 {

	if math.Abs(z) >= epsilonDepth {
		return z
	}

	if z < 0 {
		return -epsilonDepth
	}

	return epsilonDepth
}
