package pose

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	detpose "github.com/visionworks/go-detpose"
	"github.com/visionworks/go-detpose/geometry"
)

// RefineParams configures the least squares refinement of the root joint
// translation
type RefineParams struct {
	// MaxIterations caps the optimizer iteration budget per person
	MaxIterations int
}

// DefaultRefineParams returns an instance of RefineParams configured with
// default values:
// - Max Iterations: 200
func DefaultRefineParams() RefineParams {
	return RefineParams{
		MaxIterations: 200,
	}
}

// BonesLengthRatio computes the ratio of the total 3D bone length to the
// total 2D bone length of a skeleton.  The ratio converts pixel distances to
// the 3D pose's metric scale and seeds the analytic translation estimate.
func BonesLengthRatio(joints3D, joints2D [][]float64,
	skeleton *Skeleton) (float64, error) {

	length3D, err := skeleton.BonesLength3D(joints3D)

	if err != nil {
		return 0, err
	}

	length2D, err := skeleton.BonesLength2D(joints2D)

	if err != nil {
		return 0, err
	}

	if length2D < 1e-12 {
		return 0, errors.New(
			"2D bone length is zero, cannot estimate scale ratio")
	}

	return length3D / length2D, nil
}

// InitializeTranslation computes the analytic initial estimate of the global
// 3D translation of the root joint from its 2D image location, the camera
// focal length and the bone length scale ratio.  Seeding the optimizer this
// way keeps iteration counts bounded compared to a random start.
func InitializeTranslation(root2D [2]float64, camera *detpose.Camera,
	ratio float64) []float64 {

	centerX, centerY := camera.PrincipalPoint()

	return []float64{
		(root2D[0] - centerX) * ratio,
		(root2D[1] - centerY) * ratio,
		camera.FocalLengthX() * ratio,
	}
}

// ReprojectionError returns the L2 norm between the observed 2D joints and
// the projection of the translated 3D joints through the camera intrinsics
// with identity rotation
func ReprojectionError(translation []float64, joints3D, joints2D [][]float64,
	camera *detpose.Camera) float64 {

	projected, err := projectTranslated(joints3D, translation, camera)

	if err != nil {
		return math.Inf(1)
	}

	sum := 0.0

	for i := range joints2D {
		du := projected.At(i, 0) - joints2D[i][0]
		dv := projected.At(i, 1) - joints2D[i][1]
		sum += du*du + dv*dv
	}

	return math.Sqrt(sum)
}

// RefineTranslation solves for the global 3D translation of one person's
// root joint by nonlinear least squares, minimizing the reprojection error
// between the translated root relative 3D joints and the observed 2D joints.
// joints3D are root centered coordinates, joints2D the independently
// observed keypoints.  It returns the translation as a flat 3 vector and a
// success flag reporting optimizer convergence.
func RefineTranslation(joints3D, joints2D [][]float64,
	camera *detpose.Camera, skeleton *Skeleton,
	params RefineParams) ([]float64, bool, error) {

	if len(joints3D) != skeleton.JointCount() {
		return nil, false, errors.Errorf(
			"expected %d 3D joints, got %d", skeleton.JointCount(),
			len(joints3D))
	}

	if len(joints2D) != skeleton.JointCount() {
		return nil, false, errors.Errorf(
			"expected %d 2D joints, got %d", skeleton.JointCount(),
			len(joints2D))
	}

	ratio, err := BonesLengthRatio(joints3D, joints2D, skeleton)

	if err != nil {
		return nil, false, err
	}

	root2D := [2]float64{
		joints2D[skeleton.Root][0],
		joints2D[skeleton.Root][1],
	}

	initial := InitializeTranslation(root2D, camera, ratio)

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return ReprojectionError(x, joints3D, joints2D, camera)
		},
	}

	settings := &optimize.Settings{
		MajorIterations: params.MaxIterations,
	}

	result, err := optimize.Minimize(problem, initial, settings,
		&optimize.NelderMead{})

	if err != nil {
		// non convergence within the iteration budget is reported through
		// the success flag, not as an error
		return initial, false, nil
	}

	success := !math.IsNaN(result.F) && !math.IsInf(result.F, 0)

	return result.X, success, nil
}

// RefineTranslations runs RefineTranslation independently for each detected
// person, returning one 3 vector translation per person.  The residuals of
// different persons are independent so the joint problem decomposes exactly.
func RefineTranslations(persons3D, persons2D [][][]float64,
	camera *detpose.Camera, skeleton *Skeleton,
	params RefineParams) ([][]float64, error) {

	if len(persons3D) != len(persons2D) {
		return nil, errors.Errorf(
			"3D and 2D person counts differ: %d != %d",
			len(persons3D), len(persons2D))
	}

	translations := make([][]float64, len(persons3D))

	for person := range persons3D {

		translation, _, err := RefineTranslation(persons3D[person],
			persons2D[person], camera, skeleton, params)

		if err != nil {
			return nil, errors.Wrapf(err, "person %d", person)
		}

		translations[person] = translation
	}

	return translations, nil
}

// OptimizedPose3D is the result of applying a refined root translation to a
// person's 3D joints
type OptimizedPose3D struct {
	// Joints3D are the globally positioned 3D joints (root relative joints
	// plus the refined translation)
	Joints3D [][]float64
	// Projection2D is the projection of Joints3D onto the image plane
	Projection2D [][]float64
}

// ComputeOptimizedPose3D applies one refined translation per person to that
// person's root relative 3D joints and reprojects the result with identity
// rotation, producing the final optimized poses.
func ComputeOptimizedPose3D(persons3D [][][]float64,
	translations [][]float64,
	camera *detpose.Camera) ([]OptimizedPose3D, error) {

	if len(persons3D) != len(translations) {
		return nil, errors.Errorf(
			"person and translation counts differ: %d != %d",
			len(persons3D), len(translations))
	}

	poses := make([]OptimizedPose3D, len(persons3D))

	for person, joints3D := range persons3D {

		translation := translations[person]

		if len(translation) != 3 {
			return nil, errors.Errorf(
				"person %d translation is not of length 3, got %d",
				person, len(translation))
		}

		translated := make([][]float64, len(joints3D))

		for i, joint := range joints3D {
			translated[i] = []float64{
				joint[0] + translation[0],
				joint[1] + translation[1],
				joint[2] + translation[2],
			}
		}

		projected, err := projectTranslated(translated,
			[]float64{0, 0, 0}, camera)

		if err != nil {
			return nil, errors.Wrapf(err, "person %d", person)
		}

		projection := make([][]float64, len(translated))

		for i := range translated {
			projection[i] = []float64{projected.At(i, 0), projected.At(i, 1)}
		}

		poses[person] = OptimizedPose3D{
			Joints3D:     translated,
			Projection2D: projection,
		}
	}

	return poses, nil
}

// projectTranslated projects 3D joints shifted by translation through the
// camera intrinsics with identity rotation
func projectTranslated(joints3D [][]float64, translation []float64,
	camera *detpose.Camera) (*mat.Dense, error) {

	points := mat.NewDense(len(joints3D), 3, nil)

	for i, joint := range joints3D {
		points.Set(i, 0, joint[0])
		points.Set(i, 1, joint[1])
		points.Set(i, 2, joint[2])
	}

	identity := mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})

	return geometry.ProjectToImage(identity, translation, points,
		camera.Intrinsics)
}
