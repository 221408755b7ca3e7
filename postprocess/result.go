package postprocess

import "sync"

// BoxRect are the dimensions of the bounding box of a detected object.
// Coordinates are in the same frame as the model input, order is
// (x_min, y_min) top left to (x_max, y_max) bottom right.
type BoxRect struct {
	Left   float32
	Top    float32
	Right  float32
	Bottom float32
}

// Detection defines the attributes of a single object detected.  A Detection
// is immutable once produced by one of the conversion functions.
type Detection struct {
	// Box are the bounding box dimensions of the object location
	Box BoxRect
	// Score is the confidence score of the object detected
	Score float32
	// Class is the index of the object class the Model was trained on
	Class int
	// ClassName is the human readable label for Class
	ClassName string
	// ID is a unique ID assigned to the detection result
	ID int64
}

// idGenerator holds a counter for generating the next incremental ID number
// assigned to each detection result
type idGenerator struct {
	id int64
	sync.Mutex
}

func newIDGenerator() *idGenerator {
	return &idGenerator{}
}

// getNext returns the next incremental number
func (g *idGenerator) getNext() int64 {
	g.Lock()
	defer g.Unlock()
	g.id++
	return g.id
}
