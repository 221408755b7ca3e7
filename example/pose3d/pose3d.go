package main

import (
	"flag"
	"fmt"
	"log"

	"gocv.io/x/gocv"

	detpose "github.com/visionworks/go-detpose"
	"github.com/visionworks/go-detpose/pose"
	"github.com/visionworks/go-detpose/render"
)

// personJoints3D is a root relative 3D pose in meters of a standing person
// using the 16 joint Human3.6M layout
var personJoints3D = [][]float64{
	{0.00, 0.00, 0.00},
	{-0.13, 0.02, 0.01},
	{-0.14, 0.45, 0.03},
	{-0.15, 0.88, 0.05},
	{0.13, 0.02, 0.01},
	{0.14, 0.45, 0.03},
	{0.15, 0.88, 0.05},
	{0.00, -0.25, -0.01},
	{0.00, -0.51, -0.02},
	{0.00, -0.62, -0.03},
	{-0.18, -0.46, -0.01},
	{-0.22, -0.20, 0.02},
	{-0.24, 0.04, 0.05},
	{0.18, -0.46, -0.01},
	{0.22, -0.20, 0.02},
	{0.24, 0.04, 0.05},
}

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	saveFile := flag.String("o", "./pose3d.jpg", "Output JPG file to save rendered pose to")
	hfov := flag.Float64("f", 70.0, "Horizontal field of view of the camera in degrees")
	width := flag.Int("w", 1280, "Image width in pixels")
	height := flag.Int("t", 720, "Image height in pixels")

	flag.Parse()

	camera := detpose.NewCameraFromHFOV(*hfov, *width, *height)

	skeleton := pose.Human36M16Skeleton()

	// simulate a detected 2D pose by projecting the 3D joints at a known
	// translation, the refinement then has to recover that translation from
	// the 2D observations alone
	truth := []float64{0.5, -0.1, 4.2}
	joints2D := projectJoints(personJoints3D, truth, camera)

	persons3D := [][][]float64{personJoints3D}
	persons2D := [][][]float64{joints2D}

	translations, err := pose.RefineTranslations(persons3D, persons2D,
		camera, skeleton, pose.DefaultRefineParams())

	if err != nil {
		log.Fatal("Refining translations failed: ", err)
	}

	poses, err := pose.ComputeOptimizedPose3D(persons3D, translations, camera)

	if err != nil {
		log.Fatal("Computing optimized poses failed: ", err)
	}

	for person, translation := range translations {
		fmt.Printf("person %d translation: (%.3f, %.3f, %.3f)\n", person,
			translation[0], translation[1], translation[2])
	}

	// render the reprojected skeletons onto a blank canvas
	img := gocv.NewMatWithSize(*height, *width, gocv.MatTypeCV8UC3)
	defer img.Close()

	persons2DOut := make([][][]float64, len(poses))

	for person, optimized := range poses {
		persons2DOut[person] = optimized.Projection2D
	}

	render.PoseKeyPoints(&img, persons2DOut, skeleton, 2)

	if ok := gocv.IMWrite(*saveFile, img); !ok {
		log.Fatal("Failed to save image to: ", *saveFile)
	}

	log.Println("Saved rendered pose to", *saveFile)
}

// projectJoints applies a pinhole projection with identity rotation to the
// translated 3D joints
func projectJoints(joints3D [][]float64, translation []float64,
	camera *detpose.Camera) [][]float64 {

	fx := camera.FocalLengthX()
	fy := camera.FocalLengthY()
	centerX, centerY := camera.PrincipalPoint()

	joints2D := make([][]float64, len(joints3D))

	for i, joint := range joints3D {
		x := joint[0] + translation[0]
		y := joint[1] + translation[1]
		z := joint[2] + translation[2]
		joints2D[i] = []float64{
			fx*x/z + centerX,
			fy*y/z + centerY,
		}
	}

	return joints2D
}
