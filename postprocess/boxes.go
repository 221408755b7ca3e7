package postprocess

import (
	"github.com/pkg/errors"
)

// BoxMode selects how raw box rows are converted into Detection results
type BoxMode int

const (
	// BoxesOnly converts rows of plain coordinates, assigning the default
	// score and no class
	BoxesOnly BoxMode = iota
	// BoxesWithOneHotVectors converts rows whose trailing columns are a one
	// hot class score vector, taking the argmax as class and its score as
	// confidence
	BoxesWithOneHotVectors
	// BoxesWithClassIndex converts rows whose last column is an explicit
	// class index, assigning the default score
	BoxesWithClassIndex
)

// Converter turns raw numeric box rows into structured Detection results
// under the configured conversion mode
type Converter struct {
	// Params are the conversion configuration parameters
	Params ConverterParams
	// idGen provides the next number for each detection result ID
	idGen *idGenerator
}

// ConverterParams defines the configuration for converting raw box rows to
// Detection results
type ConverterParams struct {
	// Mode selects the conversion policy for class and score assignment
	Mode BoxMode
	// ClassNames are the labels ordered by class index, used to resolve
	// Detection.ClassName.  May be nil when running with BoxesOnly mode.
	ClassNames []string
	// DefaultScore is the confidence assigned in modes that carry no per
	// box score
	DefaultScore float32
}

// NewConverter returns a Converter for the given parameters
func NewConverter(p ConverterParams) *Converter {
	return &Converter{
		Params: p,
		idGen:  newIDGenerator(),
	}
}

// Convert transforms raw box rows into Detection results.  Row layout depends
// on the configured BoxMode.  An unrecognized mode is a configuration error
// reported at call time.
func (c *Converter) Convert(boxData [][]float32) ([]Detection, error) {

	switch c.Params.Mode {
	case BoxesOnly:
		return c.convertBoxes(boxData), nil

	case BoxesWithOneHotVectors:
		return c.convertOneHot(boxData)

	case BoxesWithClassIndex:
		return c.convertClassIndex(boxData)

	default:
		return nil, errors.Errorf("invalid box conversion mode: %d",
			c.Params.Mode)
	}
}

// convertBoxes converts plain coordinate rows using the default score and
// no class
func (c *Converter) convertBoxes(boxData [][]float32) []Detection {

	dets := make([]Detection, 0, len(boxData))

	for _, row := range boxData {

		if len(row) < 4 {
			continue
		}

		dets = append(dets, Detection{
			Box:   boxRectFromRow(row),
			Score: c.Params.DefaultScore,
			Class: -1,
			ID:    c.idGen.getNext(),
		})
	}

	return dets
}

// convertOneHot converts rows carrying a one hot class score vector after the
// 4 coordinate columns
func (c *Converter) convertOneHot(boxData [][]float32) ([]Detection, error) {

	dets := make([]Detection, 0, len(boxData))

	for i, row := range boxData {

		if len(row) < 5 {
			return nil, errors.Errorf(
				"box row %d has no class score columns", i)
		}

		class, score := maxScoreIndex(row[4:])

		name, err := c.className(class)

		if err != nil {
			return nil, err
		}

		dets = append(dets, Detection{
			Box:       boxRectFromRow(row),
			Score:     score,
			Class:     class,
			ClassName: name,
			ID:        c.idGen.getNext(),
		})
	}

	return dets, nil
}

// convertClassIndex converts rows whose last column holds an explicit class
// index
func (c *Converter) convertClassIndex(boxData [][]float32) ([]Detection, error) {

	dets := make([]Detection, 0, len(boxData))

	for i, row := range boxData {

		if len(row) < 5 {
			return nil, errors.Errorf(
				"box row %d has no trailing class index column", i)
		}

		class := int(row[len(row)-1])

		name, err := c.className(class)

		if err != nil {
			return nil, err
		}

		dets = append(dets, Detection{
			Box:       boxRectFromRow(row),
			Score:     c.Params.DefaultScore,
			Class:     class,
			ClassName: name,
			ID:        c.idGen.getNext(),
		})
	}

	return dets, nil
}

// className resolves a class index against the configured labels
func (c *Converter) className(class int) (string, error) {

	if class < 0 || class >= len(c.Params.ClassNames) {
		return "", errors.Errorf(
			"class index %d out of range for %d class names",
			class, len(c.Params.ClassNames))
	}

	return c.Params.ClassNames[class], nil
}

// boxRectFromRow builds a BoxRect from the first 4 columns of a box row
func boxRectFromRow(row []float32) BoxRect {
	return BoxRect{
		Left:   row[0],
		Top:    row[1],
		Right:  row[2],
		Bottom: row[3],
	}
}
