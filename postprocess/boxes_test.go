package postprocess

import (
	"testing"
)

func TestConvertBoxesOnly(t *testing.T) {

	conv := NewConverter(ConverterParams{
		Mode:         BoxesOnly,
		DefaultScore: 1.0,
	})

	boxData := [][]float32{
		{0, 0, 10, 10},
		{5, 5, 20, 20},
	}

	dets, err := conv.Convert(boxData)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(dets) != 2 {
		t.Fatalf("expected 2 detections, got %d", len(dets))
	}

	for i, det := range dets {
		if det.Score != 1.0 {
			t.Errorf("detection %d: expected default score 1.0, got %f",
				i, det.Score)
		}

		if det.Class != -1 {
			t.Errorf("detection %d: expected no class, got %d", i, det.Class)
		}
	}

	if dets[0].Box != (BoxRect{Left: 0, Top: 0, Right: 10, Bottom: 10}) {
		t.Errorf("unexpected box coordinates: %+v", dets[0].Box)
	}

	// each detection gets a unique incremental ID
	if dets[0].ID == dets[1].ID {
		t.Error("expected unique detection IDs")
	}
}

func TestConvertOneHot(t *testing.T) {

	conv := NewConverter(ConverterParams{
		Mode:       BoxesWithOneHotVectors,
		ClassNames: []string{"person", "car", "dog"},
	})

	boxData := [][]float32{
		{0, 0, 10, 10, 0.1, 0.7, 0.2},
	}

	dets, err := conv.Convert(boxData)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(dets) != 1 {
		t.Fatalf("expected 1 detection, got %d", len(dets))
	}

	if dets[0].Class != 1 || dets[0].ClassName != "car" {
		t.Errorf("expected argmax class 1 (car), got %d (%s)",
			dets[0].Class, dets[0].ClassName)
	}

	if dets[0].Score != 0.7 {
		t.Errorf("expected argmax score 0.7, got %f", dets[0].Score)
	}
}

func TestConvertClassIndex(t *testing.T) {

	conv := NewConverter(ConverterParams{
		Mode:         BoxesWithClassIndex,
		ClassNames:   []string{"person", "car", "dog"},
		DefaultScore: 0.5,
	})

	boxData := [][]float32{
		{0, 0, 10, 10, 2},
	}

	dets, err := conv.Convert(boxData)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dets[0].Class != 2 || dets[0].ClassName != "dog" {
		t.Errorf("expected trailing class index 2 (dog), got %d (%s)",
			dets[0].Class, dets[0].ClassName)
	}

	if dets[0].Score != 0.5 {
		t.Errorf("expected default score 0.5, got %f", dets[0].Score)
	}
}

func TestConvertInvalidMode(t *testing.T) {

	conv := NewConverter(ConverterParams{
		Mode: BoxMode(99),
	})

	_, err := conv.Convert([][]float32{{0, 0, 10, 10}})

	if err == nil {
		t.Error("expected configuration error for unrecognized box mode")
	}
}

func TestConvertClassIndexOutOfRange(t *testing.T) {

	conv := NewConverter(ConverterParams{
		Mode:       BoxesWithClassIndex,
		ClassNames: []string{"person"},
	})

	_, err := conv.Convert([][]float32{{0, 0, 10, 10, 7}})

	if err == nil {
		t.Error("expected error for class index outside the label list")
	}
}
