package detpose

import (
	"encoding/binary"

	"github.com/x448/float16"
)

var f16LookupTable [65536]float32

func init() {
	// precompute float16 lookup table for faster conversion to float32
	for i := range f16LookupTable {
		f16 := float16.Frombits(uint16(i))
		f16LookupTable[i] = f16.Float32()
	}
}

// Float16ToFloat32 converts a raw little endian float16 tensor buffer, as
// produced by model runtimes emitting fp16 outputs, into a float32 slice
// ready for post processing.  The buffer length must be a multiple of 2,
// trailing odd bytes are ignored.
func Float16ToFloat32(buf []byte) []float32 {

	out := make([]float32, len(buf)/2)

	for i := 0; i < len(out); i++ {
		bits := binary.LittleEndian.Uint16(buf[i*2:])
		out[i] = f16LookupTable[bits]
	}

	return out
}
