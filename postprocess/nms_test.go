package postprocess

import (
	"testing"
)

// floatsEqual compares slices of float32
func floatsEqual(a, b []float32, epsilon float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if diff := a[i] - b[i]; diff > epsilon || diff < -epsilon {
			return false
		}
	}
	return true
}

func TestNMSPerClassSuppressesOverlap(t *testing.T) {

	// two heavily overlapping boxes, the lower scoring one must be
	// suppressed for every class it is confident in
	boxData := [][]float32{
		{0, 0, 10, 10, 0.9, 0.1},
		{1, 1, 9, 9, 0.8, 0.05},
	}

	params := NMSParams{
		NMSThreshold:  0.45,
		ConfThreshold: 0.01,
		TopK:          200,
	}

	out, err := NMSPerClass(boxData, params)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// box 0 survives for class 0 and class 1, box 1 is suppressed in both
	if len(out) != 2 {
		t.Fatalf("expected 2 surviving rows, got %d", len(out))
	}

	for i, row := range out {
		if !floatsEqual(row, boxData[0], 1e-6) {
			t.Errorf("row %d: expected the higher scoring box to survive, got %v",
				i, row)
		}
	}
}

func TestNMSPerClassTopK(t *testing.T) {

	// distinct non overlapping boxes, all confident for class 0
	boxData := [][]float32{
		{0, 0, 10, 10, 0.9},
		{20, 20, 30, 30, 0.8},
		{40, 40, 50, 50, 0.7},
		{60, 60, 70, 70, 0.6},
	}

	params := NMSParams{
		NMSThreshold:  0.45,
		ConfThreshold: 0.01,
		TopK:          2,
	}

	out, err := NMSPerClass(boxData, params)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out) != 2 {
		t.Fatalf("expected TopK=2 surviving rows, got %d", len(out))
	}

	if !floatsEqual(out[0], boxData[0], 1e-6) || !floatsEqual(out[1], boxData[1], 1e-6) {
		t.Errorf("expected the two highest scoring boxes, got %v", out)
	}
}

func TestNMSPerClassIoUBound(t *testing.T) {

	// cluster of partially overlapping boxes with varying scores
	boxData := [][]float32{
		{0, 0, 10, 10, 0.9},
		{2, 2, 12, 12, 0.8},
		{5, 5, 15, 15, 0.7},
		{30, 0, 40, 10, 0.6},
		{31, 0, 41, 10, 0.5},
	}

	params := DefaultNMSParams()

	out, err := NMSPerClass(boxData, params)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// no two surviving boxes of the same class may overlap above the
	// suppression threshold
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			iou := calculateOverlap(
				out[i][0], out[i][1], out[i][2], out[i][3],
				out[j][0], out[j][1], out[j][2], out[j][3])

			if iou > params.NMSThreshold {
				t.Errorf("rows %d and %d survive with IoU %.3f above threshold %.3f",
					i, j, iou, params.NMSThreshold)
			}
		}
	}
}

func TestNMSPerClassStableTieBreak(t *testing.T) {

	// equal scores, overlapping, the first seen box must win
	boxData := [][]float32{
		{0, 0, 10, 10, 0.5},
		{1, 1, 11, 11, 0.5},
	}

	out, err := NMSPerClass(boxData, DefaultNMSParams())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out) != 1 {
		t.Fatalf("expected 1 surviving row, got %d", len(out))
	}

	if !floatsEqual(out[0], boxData[0], 1e-6) {
		t.Errorf("expected the first seen box to win on equal scores, got %v",
			out[0])
	}
}

func TestNMSPerClassEmptyInput(t *testing.T) {

	out, err := NMSPerClass([][]float32{}, DefaultNMSParams())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out) != 0 {
		t.Errorf("expected empty output, got %d rows", len(out))
	}
}

func TestNMSPerClassAllBelowConfidence(t *testing.T) {

	boxData := [][]float32{
		{0, 0, 10, 10, 0.001},
		{20, 20, 30, 30, 0.002},
	}

	params := NMSParams{
		NMSThreshold:  0.45,
		ConfThreshold: 0.5,
		TopK:          200,
	}

	out, err := NMSPerClass(boxData, params)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out) != 0 {
		t.Errorf("expected empty output, got %d rows", len(out))
	}
}

func TestNMSPerClassRejectsMalformedRows(t *testing.T) {

	boxData := [][]float32{
		{0, 0, 10, 10},
	}

	_, err := NMSPerClass(boxData, DefaultNMSParams())

	if err == nil {
		t.Error("expected error for rows without class score columns")
	}
}

func TestCalculateOverlapZeroArea(t *testing.T) {

	// degenerate zero area boxes must produce zero overlap, not NaN
	iou := calculateOverlap(5, 5, 5, 5, 5, 5, 5, 5)

	if iou != 0 {
		t.Errorf("expected zero overlap for degenerate boxes, got %f", iou)
	}
}

func TestFilterBoxesIdempotent(t *testing.T) {

	boxData := [][]float32{
		{0, 0, 10, 10, 0.9, 0.1},
		{20, 20, 30, 30, 0.02, 0.01},
		{40, 40, 50, 50, 0.3, 0.6},
	}

	once := FilterBoxes(boxData, 0.5)
	twice := FilterBoxes(once, 0.5)

	if len(once) != 2 {
		t.Fatalf("expected 2 rows after filtering, got %d", len(once))
	}

	if len(once) != len(twice) {
		t.Fatalf("filtering is not idempotent, %d rows then %d rows",
			len(once), len(twice))
	}

	for i := range once {
		if !floatsEqual(once[i], twice[i], 0) {
			t.Errorf("row %d changed on second filter: %v != %v",
				i, once[i], twice[i])
		}
	}
}

func TestScaleBoxesRoundTrip(t *testing.T) {

	boxData := [][]float32{
		{10, 20, 110, 220, 0.9},
		{1.5, 2.5, 3.5, 4.5, 0.8},
	}

	scale := float32(0.4)

	scaled := ScaleBoxes(boxData, scale)
	restored := ScaleBoxes(scaled, 1.0/scale)

	for i := range boxData {
		if !floatsEqual(restored[i], boxData[i], 1e-4) {
			t.Errorf("row %d round trip failed: %v != %v",
				i, restored[i], boxData[i])
		}

		// score column untouched by scaling
		if scaled[i][4] != boxData[i][4] {
			t.Errorf("row %d score modified by scaling", i)
		}
	}
}

func TestClipBoxes(t *testing.T) {

	boxData := [][]float32{
		{-10, -5, 650, 500, 0.9},
		{10, 20, 110, 220, 0.8},
	}

	clipped := ClipBoxes(boxData, 640, 480)

	expected := [][]float32{
		{0, 0, 640, 480, 0.9},
		{10, 20, 110, 220, 0.8},
	}

	for i := range expected {
		if !floatsEqual(clipped[i], expected[i], 0) {
			t.Errorf("row %d clipped to %v, expected %v",
				i, clipped[i], expected[i])
		}
	}
}
