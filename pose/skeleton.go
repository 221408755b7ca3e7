// Package pose implements kinematic chain schemas and the root joint
// translation refinement turning root relative 3D pose predictions into
// globally positioned poses.
package pose

import (
	"math"

	"github.com/pkg/errors"
)

// Skeleton describes a kinematic chain as a parent pointer array.  Joint i
// has parent Parents[i], the root joint has parent -1.  The joint ordering
// is fixed by the schema and all keypoint slices passed to this package must
// match its joint count.
type Skeleton struct {
	// Parents holds the parent joint index per joint, -1 for the root
	Parents []int
	// Root is the index of the root joint anchoring the chain
	Root int
	// bones are the (child, parent) joint index pairs derived from Parents
	bones [][2]int
}

// NewSkeleton builds a Skeleton from a parent pointer array.  Exactly one
// joint must be the root (parent -1) and every other parent index must refer
// to a valid joint.
func NewSkeleton(parents []int) (*Skeleton, error) {

	if len(parents) == 0 {
		return nil, errors.New("skeleton requires at least one joint")
	}

	root := -1
	bones := make([][2]int, 0, len(parents)-1)

	for joint, parent := range parents {

		if parent == -1 {
			if root != -1 {
				return nil, errors.Errorf(
					"skeleton has multiple roots: joints %d and %d",
					root, joint)
			}
			root = joint
			continue
		}

		if parent < 0 || parent >= len(parents) {
			return nil, errors.Errorf(
				"joint %d has invalid parent index %d", joint, parent)
		}

		bones = append(bones, [2]int{joint, parent})
	}

	if root == -1 {
		return nil, errors.New("skeleton has no root joint")
	}

	return &Skeleton{
		Parents: parents,
		Root:    root,
		bones:   bones,
	}, nil
}

// JointCount returns the number of joints in the chain
func (s *Skeleton) JointCount() int {
	return len(s.Parents)
}

// Bones returns the (child, parent) joint index pairs of the chain
func (s *Skeleton) Bones() [][2]int {
	return s.bones
}

// BonesLength2D sums the lengths of all bones over 2D joint coordinates
func (s *Skeleton) BonesLength2D(joints2D [][]float64) (float64, error) {

	if len(joints2D) != s.JointCount() {
		return 0, errors.Errorf(
			"expected %d 2D joints, got %d", s.JointCount(), len(joints2D))
	}

	sum := 0.0

	for _, bone := range s.bones {
		child, parent := joints2D[bone[0]], joints2D[bone[1]]
		dx := child[0] - parent[0]
		dy := child[1] - parent[1]
		sum += math.Sqrt(dx*dx + dy*dy)
	}

	return sum, nil
}

// BonesLength3D sums the lengths of all bones over 3D joint coordinates
func (s *Skeleton) BonesLength3D(joints3D [][]float64) (float64, error) {

	if len(joints3D) != s.JointCount() {
		return 0, errors.Errorf(
			"expected %d 3D joints, got %d", s.JointCount(), len(joints3D))
	}

	sum := 0.0

	for _, bone := range s.bones {
		child, parent := joints3D[bone[0]], joints3D[bone[1]]
		dx := child[0] - parent[0]
		dy := child[1] - parent[1]
		dz := child[2] - parent[2]
		sum += math.Sqrt(dx*dx + dy*dy + dz*dz)
	}

	return sum, nil
}

// OrientationVectors computes the bone direction per joint as the delta from
// its parent joint (child minus parent).  The root joint gets a zero vector.
func (s *Skeleton) OrientationVectors(joints3D [][]float64) ([][]float64, error) {

	if len(joints3D) != s.JointCount() {
		return nil, errors.Errorf(
			"expected %d 3D joints, got %d", s.JointCount(), len(joints3D))
	}

	deltas := make([][]float64, s.JointCount())

	for joint, parent := range s.Parents {

		if parent == -1 {
			deltas[joint] = []float64{0, 0, 0}
			continue
		}

		deltas[joint] = []float64{
			joints3D[joint][0] - joints3D[parent][0],
			joints3D[joint][1] - joints3D[parent][1],
			joints3D[joint][2] - joints3D[parent][2],
		}
	}

	return deltas, nil
}

/* COCO keypoints
0: Nose
1: Left Eye
2: Right Eye
3: Left Ear
4: Right Ear
5: Left Shoulder
6: Right Shoulder
7: Left Elbow
8: Right Elbow
9: Left Wrist
10: Right Wrist
11: Left Hip
12: Right Hip
13: Left Knee
14: Right Knee
15: Left Ankle
16: Right Ankle
*/

// COCO17Skeleton returns the 17 joint COCO keypoint chain rooted at the nose
func COCO17Skeleton() *Skeleton {
	s, _ := NewSkeleton([]int{
		-1, 0, 0, 1, 2, 0, 0, 5, 6, 7, 8, 5, 6, 11, 12, 13, 14,
	})
	return s
}

/* Human3.6M moving joints
0: Hip
1: Right Hip
2: Right Knee
3: Right Foot
4: Left Hip
5: Left Knee
6: Left Foot
7: Spine
8: Thorax
9: Head
10: Left Shoulder
11: Left Elbow
12: Left Wrist
13: Right Shoulder
14: Right Elbow
15: Right Wrist
*/

// Human36M16Skeleton returns the 16 moving joint Human3.6M chain rooted at
// the hip
func Human36M16Skeleton() *Skeleton {
	s, _ := NewSkeleton([]int{
		-1, 0, 1, 2, 0, 4, 5, 0, 7, 8, 8, 10, 11, 8, 13, 14,
	})
	return s
}
