package geometry

import "gonum.org/v1/gonum/mat"

// BuildCubePoints3D builds the 8 corner points of a cuboid centered at the
// origin in the camera coordinate system (x width, y height, z depth).  The
// corner ordering matches the edge pairs expected by render.Cube:
//
//	4--------1
//	/|       /|
//	/ |      / |
//	3--------2  |
//	|  8_____|__5
//	| /      | /
//	|/       |/
//	7--------6
//
// The returned matrix has shape (8, 3).
func BuildCubePoints3D(width, height, depth float64) *mat.Dense {

	halfWidth := width / 2.0
	halfHeight := height / 2.0
	halfDepth := depth / 2.0

	return mat.NewDense(8, 3, []float64{
		+halfWidth, -halfHeight, +halfDepth,
		+halfWidth, -halfHeight, -halfDepth,
		-halfWidth, -halfHeight, -halfDepth,
		-halfWidth, -halfHeight, +halfDepth,
		+halfWidth, +halfHeight, +halfDepth,
		+halfWidth, +halfHeight, -halfDepth,
		-halfWidth, +halfHeight, -halfDepth,
		-halfWidth, +halfHeight, +halfDepth,
	})
}
