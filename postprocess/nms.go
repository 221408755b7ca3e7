package postprocess

import (
	"github.com/pkg/errors"
)

// NMSParams defines the thresholds used for per class Non-Maximum
// Suppression of raw box predictions
type NMSParams struct {
	// NMSThreshold is the maximum allowed Intersection over Union (IoU)
	// between two bounding boxes of the same class for both to be kept
	NMSThreshold float32
	// ConfThreshold is the minimum class confidence score required for a
	// box to be considered for suppression at all
	ConfThreshold float32
	// TopK is the maximum number of boxes kept per class
	TopK int
}

// DefaultNMSParams returns an instance of NMSParams configured with the
// default values used for detection models:
// - NMS Threshold: 0.45
// - Confidence Threshold: 0.01
// - Top K: 200
func DefaultNMSParams() NMSParams {
	return NMSParams{
		NMSThreshold:  0.45,
		ConfThreshold: 0.01,
		TopK:          200,
	}
}

// NMSPerClass applies greedy Non-Maximum Suppression independently per class
// to raw box predictions.  Each row of boxData has the layout
// (x_min, y_min, x_max, y_max, score_class0, ..., score_classN).  For each
// class, boxes scoring below the confidence threshold are discarded, the
// remainder are processed in descending score order and any box overlapping
// an already selected box of that class above the NMS threshold is
// suppressed.  At most TopK boxes survive per class.
//
// Surviving rows keep their full class score columns and are concatenated
// across classes into the returned slice.  Classes with no surviving boxes
// contribute nothing.  An empty input produces an empty output.
func NMSPerClass(boxData [][]float32, params NMSParams) ([][]float32, error) {

	if len(boxData) == 0 {
		return [][]float32{}, nil
	}

	rowLen := len(boxData[0])

	if rowLen < 5 {
		return nil, errors.Errorf(
			"box rows must have at least 5 columns (4 coordinates plus "+
				"class scores), got %d", rowLen)
	}

	for i, row := range boxData {
		if len(row) != rowLen {
			return nil, errors.Errorf(
				"box row %d has %d columns, expected %d", i, len(row), rowLen)
		}
	}

	numClasses := rowLen - 4
	output := make([][]float32, 0)

	for class := 0; class < numClasses; class++ {

		// confidence mask for this class
		candidates := make([]int, 0)

		for i, row := range boxData {
			if row[4+class] >= params.ConfThreshold {
				candidates = append(candidates, i)
			}
		}

		if len(candidates) == 0 {
			continue
		}

		scores := make([]float32, len(boxData))

		for _, i := range candidates {
			scores[i] = boxData[i][4+class]
		}

		sortIndicesByScore(candidates, scores)

		// greedy suppression, select the highest scoring box then drop all
		// remaining candidates overlapping it above the NMS threshold
		selected := make([]int, 0, len(candidates))

		for _, n := range candidates {

			if len(selected) >= params.TopK {
				break
			}

			keep := true

			for _, m := range selected {
				iou := calculateOverlap(
					boxData[n][0], boxData[n][1], boxData[n][2], boxData[n][3],
					boxData[m][0], boxData[m][1], boxData[m][2], boxData[m][3])

				if iou > params.NMSThreshold {
					keep = false
					break
				}
			}

			if keep {
				selected = append(selected, n)
			}
		}

		for _, n := range selected {
			row := make([]float32, rowLen)
			copy(row, boxData[n])
			output = append(output, row)
		}
	}

	return output, nil
}

// FilterBoxes keeps the box rows whose maximum class score is greater than
// or equal to the confidence threshold.  Each row is an independent predicate
// so filtering an already filtered slice with the same threshold returns an
// equal result.  Returned rows are copies of the input rows.
func FilterBoxes(boxData [][]float32, confThreshold float32) [][]float32 {

	output := make([][]float32, 0, len(boxData))

	for _, row := range boxData {

		if len(row) < 5 {
			continue
		}

		_, maxScore := maxScoreIndex(row[4:])

		if maxScore >= confThreshold {
			keep := make([]float32, len(row))
			copy(keep, row)
			output = append(output, keep)
		}
	}

	return output
}

// ClipBoxes restricts the 4 coordinate columns of each box row to the image
// bounds [0, width] x [0, height], leaving the class score columns untouched.
// Boxes partially outside the image after rescaling are clipped rather than
// dropped.
func ClipBoxes(boxData [][]float32, width, height int) [][]float32 {

	output := make([][]float32, 0, len(boxData))

	for _, row := range boxData {

		clipped := make([]float32, len(row))
		copy(clipped, row)

		if len(clipped) >= 4 {
			clipped[0] = clamp(clipped[0], 0, float32(width))
			clipped[1] = clamp(clipped[1], 0, float32(height))
			clipped[2] = clamp(clipped[2], 0, float32(width))
			clipped[3] = clamp(clipped[3], 0, float32(height))
		}

		output = append(output, clipped)
	}

	return output
}

// ScaleBoxes multiplies the 4 coordinate columns of each box row by the given
// scale factor, leaving the class score columns untouched.  It is used to map
// box coordinates detected in resized image space back to the source image
// space using the inverse scale returned by the preprocess resizer.
func ScaleBoxes(boxData [][]float32, scale float32) [][]float32 {

	output := make([][]float32, 0, len(boxData))

	for _, row := range boxData {

		scaled := make([]float32, len(row))
		copy(scaled, row)

		for i := 0; i < 4 && i < len(scaled); i++ {
			scaled[i] *= scale
		}

		output = append(output, scaled)
	}

	return output
}
