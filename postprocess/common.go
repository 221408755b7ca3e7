package postprocess

import (
	"sort"

	"github.com/chewxy/math32"
)

// epsilonArea is the lower clamp applied to a box union area so degenerate
// zero area boxes produce a zero overlap instead of dividing by zero
const epsilonArea = float32(1e-8)

// calculateOverlap works out the Intersection over Union (IoU) value of two
// axis aligned boxes given in corner form (x_min, y_min, x_max, y_max)
func calculateOverlap(xmin0, ymin0, xmax0, ymax0, xmin1, ymin1,
	xmax1, ymax1 float32) float32 {

	w := math32.Max(0.0, math32.Min(xmax0, xmax1)-math32.Max(xmin0, xmin1))
	h := math32.Max(0.0, math32.Min(ymax0, ymax1)-math32.Max(ymin0, ymin1))
	intersection := w * h

	area0 := (xmax0 - xmin0) * (ymax0 - ymin0)
	area1 := (xmax1 - xmin1) * (ymax1 - ymin1)

	union := area0 + area1 - intersection

	if union < epsilonArea {
		return 0.0
	}

	return intersection / union
}

// sortIndicesByScore orders the candidate indices by descending score.  The
// sort is stable so boxes with equal scores keep their original input order
// and the first seen box wins on ties.
func sortIndicesByScore(indices []int, scores []float32) {
	sort.SliceStable(indices, func(i, j int) bool {
		return scores[indices[i]] > scores[indices[j]]
	})
}

// maxScoreIndex returns the index and value of the largest element in the
// given score slice
func maxScoreIndex(scores []float32) (int, float32) {

	maxIdx := 0
	maxVal := scores[0]

	for i := 1; i < len(scores); i++ {
		if scores[i] > maxVal {
			maxIdx = i
			maxVal = scores[i]
		}
	}

	return maxIdx, maxVal
}

// clamp restricts the value x to be within the range min and max
func clamp(val, min, max float32) float32 {

	if val < min {
		return min
	}

	if val > max {
		return max
	}

	return val
}
