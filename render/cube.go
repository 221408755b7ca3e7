package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"
)

// cubeEdges are the corner index pairs connected with lines when rendering
// a projected cuboid, matching the corner order of geometry.BuildCubePoints3D
var cubeEdges = [][2]int{
	// upper face
	{0, 1}, {1, 2}, {3, 2}, {3, 0},
	// lower face
	{4, 5}, {6, 5}, {6, 7}, {4, 7},
	// sides
	{0, 4}, {7, 3}, {5, 1}, {2, 6},
	// X mark on the lower face
	{4, 6}, {5, 7},
}

// Cube renders the wireframe of a projected cuboid.  points is the (8, 2)
// matrix of projected corner coordinates in UV image space, typically the
// output of projecting geometry.BuildCubePoints3D through a solved pose.
func Cube(img *gocv.Mat, points *mat.Dense, clr color.RGBA, thickness int) {

	rows, cols := points.Dims()

	if rows != 8 || cols != 2 {
		return
	}

	for _, edge := range cubeEdges {
		gocv.Line(img,
			image.Pt(int(points.At(edge[0], 0)), int(points.At(edge[0], 1))),
			image.Pt(int(points.At(edge[1], 0)), int(points.At(edge[1], 1))),
			clr, thickness)
	}
}
