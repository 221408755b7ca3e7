package geometry

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// minRotationAngle is the angle below which a rotation is treated as
// identity to avoid dividing by a vanishing axis norm
const minRotationAngle = 1e-12

// RotationFromAxisAngle converts an axis angle rotation vector into a 3x3
// rotation matrix using the Rodrigues formula.  The vector direction is the
// rotation axis and its norm the rotation angle in radians.
func RotationFromAxisAngle(rvec []float64) *mat.Dense {

	theta := math.Sqrt(rvec[0]*rvec[0] + rvec[1]*rvec[1] + rvec[2]*rvec[2])

	rotation := mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})

	if theta < minRotationAngle {
		return rotation
	}

	kx := rvec[0] / theta
	ky := rvec[1] / theta
	kz := rvec[2] / theta

	sin := math.Sin(theta)
	cos := math.Cos(theta)

	// cross product matrix of the unit axis
	k := mat.NewDense(3, 3, []float64{
		0, -kz, ky,
		kz, 0, -kx,
		-ky, kx, 0,
	})

	var kSquared mat.Dense
	kSquared.Mul(k, k)

	// R = I + sin(theta) K + (1 - cos(theta)) K^2
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rotation.Set(i, j, rotation.At(i, j)+
				sin*k.At(i, j)+(1-cos)*kSquared.At(i, j))
		}
	}

	return rotation
}

// AxisAngleFromRotation converts a 3x3 rotation matrix into an axis angle
// rotation vector, the inverse of RotationFromAxisAngle
func AxisAngleFromRotation(rotation *mat.Dense) []float64 {

	trace := rotation.At(0, 0) + rotation.At(1, 1) + rotation.At(2, 2)

	cosTheta := (trace - 1) / 2

	if cosTheta > 1 {
		cosTheta = 1
	} else if cosTheta < -1 {
		cosTheta = -1
	}

	theta := math.Acos(cosTheta)

	if theta < minRotationAngle {
		return []float64{0, 0, 0}
	}

	if math.Pi-theta < 1e-6 {
		// angle near pi, the off diagonal difference vanishes so recover
		// the axis from the diagonal instead
		kx := math.Sqrt(math.Max(0, (rotation.At(0, 0)+1)/2))
		ky := math.Sqrt(math.Max(0, (rotation.At(1, 1)+1)/2))
		kz := math.Sqrt(math.Max(0, (rotation.At(2, 2)+1)/2))

		// fix axis signs using the symmetric off diagonal sums
		if rotation.At(0, 1)+rotation.At(1, 0) < 0 {
			ky = -ky
		}
		if rotation.At(0, 2)+rotation.At(2, 0) < 0 {
			kz = -kz
		}

		return []float64{kx * theta, ky * theta, kz * theta}
	}

	scale := theta / (2 * math.Sin(theta))

	return []float64{
		scale * (rotation.At(2, 1) - rotation.At(1, 2)),
		scale * (rotation.At(0, 2) - rotation.At(2, 0)),
		scale * (rotation.At(1, 0) - rotation.At(0, 1)),
	}
}
