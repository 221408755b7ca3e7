package geometry

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	detpose "github.com/visionworks/go-detpose"
)

// PnPParams defines the configuration of the RANSAC consensus loop used by
// SolvePnPRANSAC
type PnPParams struct {
	// InlierThreshold is the maximum reprojection distance in pixels for a
	// correspondence to count as an inlier
	InlierThreshold float64
	// NumIterations is the RANSAC iteration budget
	NumIterations int
}

// DefaultPnPParams returns an instance of PnPParams configured with default
// values:
// - Inlier Threshold: 5 pixels
// - Iterations: 100
func DefaultPnPParams() PnPParams {
	return PnPParams{
		InlierThreshold: 5,
		NumIterations:   100,
	}
}

const (
	// minPnPPoints is the minimum number of 3D-2D correspondences required
	// by the PnP solvers
	minPnPPoints = 4
	// dltMinPoints is the number of correspondences needed for a direct
	// linear transform estimate of the projection matrix
	dltMinPoints = 6
	// maxRefineIterations caps the Gauss-Newton refinement loop
	maxRefineIterations = 50
)

// SolvePnP recovers the rotation (Rco) and translation (Tco) transforming 3D
// points in the object frame to the camera frame from 3D-2D point
// correspondences.  points3D is Nx3, points2D is Nx2 in UV image space, with
// N >= 4.
//
// The pose is initialized with a direct linear transform when 6 or more
// correspondences are available, otherwise from an analytic translation
// estimate, and refined by damped Gauss-Newton iterations minimizing the
// reprojection error.  It returns a success flag, the rotation in axis angle
// form and the translation as a flat 3 vector.
func SolvePnP(points3D, points2D *mat.Dense,
	camera *detpose.Camera) (bool, []float64, []float64, error) {

	if err := validateCorrespondences(points3D, points2D); err != nil {
		return false, nil, nil, err
	}

	rvec, tvec := initialPose(points3D, points2D, camera.Intrinsics)

	rvec, tvec, cost := refinePose(rvec, tvec, points3D, points2D,
		camera.Intrinsics)

	success := !math.IsNaN(cost) && !math.IsInf(cost, 0)

	return success, rvec, tvec, nil
}

// SolvePnPRANSAC is the outlier robust variant of SolvePnP.  Random minimal
// subsets of correspondences are used to hypothesize poses, the pose with the
// largest inlier consensus is kept and refit on its inliers.  The sampling is
// seeded deterministically so results are reproducible for identical inputs.
func SolvePnPRANSAC(points3D, points2D *mat.Dense, camera *detpose.Camera,
	params PnPParams) (bool, []float64, []float64, error) {

	if err := validateCorrespondences(points3D, points2D); err != nil {
		return false, nil, nil, err
	}

	numPoints, _ := points3D.Dims()

	// too few points to sample minimal subsets from, solve directly
	if numPoints < dltMinPoints+1 {
		return SolvePnP(points3D, points2D, camera)
	}

	rng := rand.New(rand.NewSource(1))

	bestInliers := []int(nil)

	for iter := 0; iter < params.NumIterations; iter++ {

		sample := rng.Perm(numPoints)[:dltMinPoints]

		rvec, tvec, ok := dltPose(
			subsetRows(points3D, sample, 3),
			subsetRows(points2D, sample, 2),
			camera.Intrinsics)

		if !ok {
			continue
		}

		inliers := consensusSet(rvec, tvec, points3D, points2D,
			camera.Intrinsics, params.InlierThreshold)

		if len(inliers) > len(bestInliers) {
			bestInliers = inliers
		}

		// all correspondences already agree, no point iterating further
		if len(bestInliers) == numPoints {
			break
		}
	}

	if len(bestInliers) < minPnPPoints {
		// no consensus found, fall back to a non robust solve over all
		// correspondences and report failure
		_, rvec, tvec, err := SolvePnP(points3D, points2D, camera)
		return false, rvec, tvec, err
	}

	inlier3D := subsetRows(points3D, bestInliers, 3)
	inlier2D := subsetRows(points2D, bestInliers, 2)

	rvec, tvec := initialPose(inlier3D, inlier2D, camera.Intrinsics)

	rvec, tvec, cost := refinePose(rvec, tvec, inlier3D, inlier2D,
		camera.Intrinsics)

	success := !math.IsNaN(cost) && !math.IsInf(cost, 0)

	return success, rvec, tvec, nil
}

// validateCorrespondences checks the shape contracts shared by the PnP
// solvers
func validateCorrespondences(points3D, points2D *mat.Dense) error {

	rows3D, cols3D := points3D.Dims()
	rows2D, cols2D := points2D.Dims()

	if cols3D != 3 {
		return errors.Errorf(
			"points3D should have shape (num_points, 3), got (%d, %d)",
			rows3D, cols3D)
	}

	if cols2D != 2 {
		return errors.Errorf(
			"points2D should have shape (num_points, 2), got (%d, %d)",
			rows2D, cols2D)
	}

	if rows3D != rows2D {
		return errors.Errorf(
			"points3D and points2D row counts differ: %d != %d",
			rows3D, rows2D)
	}

	if rows3D < minPnPPoints {
		return errors.Errorf(
			"solve PnP requires at least 4 3D and 2D points, got %d", rows3D)
	}

	return nil
}

// initialPose produces the pose estimate used to seed the Gauss-Newton
// refinement.  A direct linear transform is used when enough points are
// available, otherwise an analytic translation estimate with identity
// rotation.
func initialPose(points3D, points2D *mat.Dense,
	intrinsics *mat.Dense) ([]float64, []float64) {

	numPoints, _ := points3D.Dims()

	if numPoints >= dltMinPoints {
		if rvec, tvec, ok := dltPose(points3D, points2D, intrinsics); ok {
			return rvec, tvec
		}
	}

	return []float64{0, 0, 0}, estimateTranslation(points3D, points2D,
		intrinsics)
}

// estimateTranslation analytically seeds the translation from the 2D
// centroid, the focal length and the ratio of total 3D to 2D point spread
func estimateTranslation(points3D, points2D *mat.Dense,
	intrinsics *mat.Dense) []float64 {

	numPoints, _ := points3D.Dims()

	spread3D := 0.0
	spread2D := 0.0

	for i := 1; i < numPoints; i++ {
		dx3 := points3D.At(i, 0) - points3D.At(i-1, 0)
		dy3 := points3D.At(i, 1) - points3D.At(i-1, 1)
		dz3 := points3D.At(i, 2) - points3D.At(i-1, 2)
		spread3D += math.Sqrt(dx3*dx3 + dy3*dy3 + dz3*dz3)

		dx2 := points2D.At(i, 0) - points2D.At(i-1, 0)
		dy2 := points2D.At(i, 1) - points2D.At(i-1, 1)
		spread2D += math.Sqrt(dx2*dx2 + dy2*dy2)
	}

	ratio := 1.0

	if spread2D > 1e-12 {
		ratio = spread3D / spread2D
	}

	meanU := 0.0
	meanV := 0.0

	for i := 0; i < numPoints; i++ {
		meanU += points2D.At(i, 0)
		meanV += points2D.At(i, 1)
	}

	meanU /= float64(numPoints)
	meanV /= float64(numPoints)

	focal := intrinsics.At(0, 0)
	centerX := intrinsics.At(0, 2)
	centerY := intrinsics.At(1, 2)

	return []float64{
		(meanU - centerX) * ratio,
		(meanV - centerY) * ratio,
		focal * ratio,
	}
}

// dltPose estimates the projection matrix [R|t] with a direct linear
// transform over normalized image coordinates and decomposes it into a valid
// rotation and translation.  Requires at least 6 correspondences.
func dltPose(points3D, points2D *mat.Dense,
	intrinsics *mat.Dense) ([]float64, []float64, bool) {

	numPoints, _ := points3D.Dims()

	if numPoints < dltMinPoints {
		return nil, nil, false
	}

	fx := intrinsics.At(0, 0)
	fy := intrinsics.At(1, 1)
	cx := intrinsics.At(0, 2)
	cy := intrinsics.At(1, 2)

	// two equations per correspondence over the 12 entries of [R|t]
	a := mat.NewDense(2*numPoints, 12, nil)

	for i := 0; i < numPoints; i++ {

		x := points3D.At(i, 0)
		y := points3D.At(i, 1)
		z := points3D.At(i, 2)

		// normalized image plane coordinates
		u := (points2D.At(i, 0) - cx) / fx
		v := (points2D.At(i, 1) - cy) / fy

		a.SetRow(2*i, []float64{
			x, y, z, 1, 0, 0, 0, 0, -u * x, -u * y, -u * z, -u,
		})
		a.SetRow(2*i+1, []float64{
			0, 0, 0, 0, x, y, z, 1, -v * x, -v * y, -v * z, -v,
		})
	}

	var svd mat.SVD

	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, nil, false
	}

	var v mat.Dense
	svd.VTo(&v)

	// null space vector, reshaped into the 3x4 projection matrix
	p := mat.NewDense(3, 4, nil)

	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			p.Set(i, j, v.At(i*4+j, 11))
		}
	}

	// the projection matrix is defined up to sign, pick the one placing the
	// points in front of the camera
	if rvec, tvec, ok := decomposePose(p, points3D); ok {
		return rvec, tvec, true
	}

	p.Scale(-1, p)

	return decomposePose(p, points3D)
}

// decomposePose splits a 3x4 projection matrix into a proper rotation and
// translation, reporting false when the resulting pose places the points
// behind the camera
func decomposePose(p *mat.Dense, points3D *mat.Dense) ([]float64, []float64, bool) {

	m := mat.DenseCopyOf(p.Slice(0, 3, 0, 3))

	var svd mat.SVD

	if ok := svd.Factorize(m, mat.SVDFull); !ok {
		return nil, nil, false
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	values := svd.Values(nil)
	scale := (values[0] + values[1] + values[2]) / 3

	if scale < 1e-12 {
		return nil, nil, false
	}

	// nearest orthonormal matrix with positive determinant
	var rotation mat.Dense
	rotation.Mul(&u, v.T())

	if mat.Det(&rotation) < 0 {
		var d mat.Dense
		d.Mul(&u, mat.NewDiagDense(3, []float64{1, 1, -1}))
		rotation.Mul(&d, v.T())
	}

	tvec := []float64{
		p.At(0, 3) / scale,
		p.At(1, 3) / scale,
		p.At(2, 3) / scale,
	}

	// reject poses placing the point cloud behind the camera
	numPoints, _ := points3D.Dims()
	behind := 0

	for i := 0; i < numPoints; i++ {
		z := rotation.At(2, 0)*points3D.At(i, 0) +
			rotation.At(2, 1)*points3D.At(i, 1) +
			rotation.At(2, 2)*points3D.At(i, 2) + tvec[2]

		if z <= 0 {
			behind++
		}
	}

	if behind*2 > numPoints {
		return nil, nil, false
	}

	return AxisAngleFromRotation(&rotation), tvec, true
}

// refinePose runs damped Gauss-Newton iterations over the 6 pose parameters
// (axis angle rotation and translation) minimizing the squared reprojection
// error.  It returns the refined pose and the final cost.
func refinePose(rvec, tvec []float64, points3D, points2D *mat.Dense,
	intrinsics *mat.Dense) ([]float64, []float64, float64) {

	params := []float64{rvec[0], rvec[1], rvec[2], tvec[0], tvec[1], tvec[2]}

	cost := reprojectionCost(params, points3D, points2D, intrinsics)
	lambda := 1e-3

	for iter := 0; iter < maxRefineIterations; iter++ {

		residuals := reprojectionResiduals(params, points3D, points2D,
			intrinsics)
		jacobian := numericJacobian(params, points3D, points2D, intrinsics)

		// normal equations (J^T J + lambda I) delta = -J^T r
		var jtj mat.Dense
		jtj.Mul(jacobian.T(), jacobian)

		for i := 0; i < 6; i++ {
			jtj.Set(i, i, jtj.At(i, i)+lambda)
		}

		var jtr mat.VecDense
		jtr.MulVec(jacobian.T(), mat.NewVecDense(len(residuals), residuals))

		var delta mat.VecDense

		if err := delta.SolveVec(&jtj, &jtr); err != nil {
			break
		}

		trial := make([]float64, 6)

		for i := 0; i < 6; i++ {
			trial[i] = params[i] - delta.AtVec(i)
		}

		trialCost := reprojectionCost(trial, points3D, points2D, intrinsics)

		if trialCost < cost {
			params = trial

			if cost-trialCost < 1e-12*(1+cost) {
				cost = trialCost
				break
			}

			cost = trialCost
			lambda = math.Max(lambda*0.1, 1e-12)
		} else {
			lambda *= 10

			if lambda > 1e8 {
				break
			}
		}
	}

	return params[:3], params[3:6], cost
}

// reprojectionResiduals returns the stacked (u, v) reprojection errors for
// the given 6 parameter pose
func reprojectionResiduals(params []float64, points3D, points2D *mat.Dense,
	intrinsics *mat.Dense) []float64 {

	rotation := RotationFromAxisAngle(params[:3])

	projected, err := ProjectToImage(rotation, params[3:6], points3D,
		intrinsics)

	numPoints, _ := points3D.Dims()
	residuals := make([]float64, 2*numPoints)

	if err != nil {
		return residuals
	}

	for i := 0; i < numPoints; i++ {
		residuals[2*i] = projected.At(i, 0) - points2D.At(i, 0)
		residuals[2*i+1] = projected.At(i, 1) - points2D.At(i, 1)
	}

	return residuals
}

// reprojectionCost is the squared norm of the reprojection residuals
func reprojectionCost(params []float64, points3D, points2D *mat.Dense,
	intrinsics *mat.Dense) float64 {

	residuals := reprojectionResiduals(params, points3D, points2D, intrinsics)

	cost := 0.0

	for _, r := range residuals {
		cost += r * r
	}

	return cost
}

// numericJacobian computes the central difference Jacobian of the
// reprojection residuals with respect to the 6 pose parameters
func numericJacobian(params []float64, points3D, points2D *mat.Dense,
	intrinsics *mat.Dense) *mat.Dense {

	numPoints, _ := points3D.Dims()
	jacobian := mat.NewDense(2*numPoints, 6, nil)

	for j := 0; j < 6; j++ {

		step := 1e-6 * math.Max(1, math.Abs(params[j]))

		forward := append([]float64(nil), params...)
		forward[j] += step

		backward := append([]float64(nil), params...)
		backward[j] -= step

		rf := reprojectionResiduals(forward, points3D, points2D, intrinsics)
		rb := reprojectionResiduals(backward, points3D, points2D, intrinsics)

		for i := 0; i < 2*numPoints; i++ {
			jacobian.Set(i, j, (rf[i]-rb[i])/(2*step))
		}
	}

	return jacobian
}

// consensusSet returns the indices of correspondences whose reprojection
// distance under the given pose is within the inlier threshold
func consensusSet(rvec, tvec []float64, points3D, points2D *mat.Dense,
	intrinsics *mat.Dense, threshold float64) []int {

	rotation := RotationFromAxisAngle(rvec)

	projected, err := ProjectToImage(rotation, tvec, points3D, intrinsics)

	if err != nil {
		return nil
	}

	numPoints, _ := points3D.Dims()
	inliers := make([]int, 0, numPoints)

	for i := 0; i < numPoints; i++ {
		du := projected.At(i, 0) - points2D.At(i, 0)
		dv := projected.At(i, 1) - points2D.At(i, 1)

		if math.Sqrt(du*du+dv*dv) <= threshold {
			inliers = append(inliers, i)
		}
	}

	return inliers
}

// subsetRows copies the given rows of m into a new matrix
func subsetRows(m *mat.Dense, rows []int, cols int) *mat.Dense {

	out := mat.NewDense(len(rows), cols, nil)

	for i, r := range rows {
		for c := 0; c < cols; c++ {
			out.Set(i, c, m.At(r, c))
		}
	}

	return out
}
