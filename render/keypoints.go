package render

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/visionworks/go-detpose/pose"
)

// PoseKeyPoints renders the 2D keypoints of each detected person, drawing
// the bone lines of the kinematic chain and a circle per joint.  Each
// person's keypoints slice must match the skeleton's joint count, persons
// with a differing joint count are skipped.
func PoseKeyPoints(img *gocv.Mat, persons [][][]float64,
	skeleton *pose.Skeleton, lineThickness int) {

	// for each person
	for i := 0; i < len(persons); i++ {

		keyPoints := persons[i]

		if len(keyPoints) != skeleton.JointCount() {
			continue
		}

		// draw skeleton bone lines
		for j, bone := range skeleton.Bones() {
			child := keyPoints[bone[0]]
			parent := keyPoints[bone[1]]

			gocv.Line(img,
				image.Pt(int(child[0]), int(child[1])),
				image.Pt(int(parent[0]), int(parent[1])),
				limbColors[j%len(limbColors)], lineThickness)
		}

		// draw circles at skeleton joints
		for j, kp := range keyPoints {
			gocv.Circle(img, image.Pt(int(kp[0]), int(kp[1])),
				3, keyPointColors[j%len(keyPointColors)], -1)
		}
	}
}
