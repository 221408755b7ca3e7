package geometry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	detpose "github.com/visionworks/go-detpose"
)

// identity3 returns a 3x3 identity matrix
func identity3() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
}

func TestProjectToImageUnitCamera(t *testing.T) {

	// fx=fy=1, cx=cy=0, identity rotation, zero translation: the point
	// (0, 0, 5) projects to the image origin
	intrinsics := mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})

	points3D := mat.NewDense(1, 3, []float64{0, 0, 5})

	projected, err := ProjectToImage(identity3(), []float64{0, 0, 0},
		points3D, intrinsics)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if projected.At(0, 0) != 0 || projected.At(0, 1) != 0 {
		t.Errorf("expected projection (0, 0), got (%f, %f)",
			projected.At(0, 0), projected.At(0, 1))
	}
}

func TestProjectToImagePinhole(t *testing.T) {

	intrinsics := mat.NewDense(3, 3, []float64{
		500, 0, 320,
		0, 500, 240,
		0, 0, 1,
	})

	points3D := mat.NewDense(2, 3, []float64{
		1, 2, 10,
		-1, -2, 5,
	})

	projected, err := ProjectToImage(identity3(), []float64{0, 0, 0},
		points3D, intrinsics)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := [][]float64{
		{320 + 500*0.1, 240 + 500*0.2},
		{320 - 500*0.2, 240 - 500*0.4},
	}

	for i, exp := range expected {
		for j := 0; j < 2; j++ {
			if diff := projected.At(i, j) - exp[j]; math.Abs(diff) > 1e-9 {
				t.Errorf("point %d coordinate %d: expected %f, got %f",
					i, j, exp[j], projected.At(i, j))
			}
		}
	}
}

func TestProjectToImageValidation(t *testing.T) {

	intrinsics := identity3()
	points3D := mat.NewDense(1, 3, []float64{0, 0, 5})

	// rotation of shape (2, 2) must be rejected
	badRotation := mat.NewDense(2, 2, []float64{1, 0, 0, 1})

	if _, err := ProjectToImage(badRotation, []float64{0, 0, 0},
		points3D, intrinsics); err == nil {
		t.Error("expected validation error for 2x2 rotation matrix")
	}

	// translation of wrong length must be rejected
	if _, err := ProjectToImage(identity3(), []float64{0, 0},
		points3D, intrinsics); err == nil {
		t.Error("expected validation error for length 2 translation")
	}

	// points with wrong column count must be rejected
	badPoints := mat.NewDense(2, 2, []float64{0, 0, 1, 1})

	if _, err := ProjectToImage(identity3(), []float64{0, 0, 0},
		badPoints, intrinsics); err == nil {
		t.Error("expected validation error for (N, 2) points3D")
	}
}

func TestProjectToImageZeroDepthGuard(t *testing.T) {

	intrinsics := identity3()

	// a point on the camera plane must project to finite coordinates
	points3D := mat.NewDense(1, 3, []float64{1, 1, 0})

	projected, err := ProjectToImage(identity3(), []float64{0, 0, 0},
		points3D, intrinsics)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for j := 0; j < 2; j++ {
		v := projected.At(0, j)

		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("coordinate %d not finite for zero depth point: %f", j, v)
		}
	}
}

func TestProjectPoints3DMatchesPinholeWithoutDistortion(t *testing.T) {

	camera := detpose.NewCamera(500, 500, 320, 240)

	points3D := mat.NewDense(2, 3, []float64{
		0.5, -0.25, 4,
		-1, 2, 8,
	})

	pose := Pose6D{
		Rotation:    []float64{0, 0, 0},
		Translation: []float64{0.1, -0.2, 1},
	}

	viaPose, err := ProjectPoints3D(points3D, pose, camera)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	viaPinhole, err := ProjectToImage(identity3(), pose.Translation,
		points3D, camera.Intrinsics)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// zero distortion must reduce to the plain pinhole projection
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			diff := viaPose.At(i, j) - viaPinhole.At(i, j)

			if math.Abs(diff) > 1e-9 {
				t.Errorf("point %d coordinate %d differs: %f vs %f",
					i, j, viaPose.At(i, j), viaPinhole.At(i, j))
			}
		}
	}
}

func TestCameraFromHFOV(t *testing.T) {

	// 90 degree HFOV puts the focal length at half the image width
	camera := detpose.NewCameraFromHFOV(90, 640, 480)

	if diff := camera.FocalLengthX() - 320; math.Abs(diff) > 1e-9 {
		t.Errorf("expected focal length 320, got %f", camera.FocalLengthX())
	}

	cx, cy := camera.PrincipalPoint()

	if cx != 320 || cy != 240 {
		t.Errorf("expected principal point (320, 240), got (%f, %f)", cx, cy)
	}
}
