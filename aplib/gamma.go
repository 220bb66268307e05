package aplib

import (
	"fmt"
	"math/bits"
)

// writeGamma writes v (which must be at least 2) as an interleaved gamma
// code: the bit below the leading one, then a (1, bit) pair for each lower
// bit, then a terminating 0. A decoder starts from an implicit leading 1.
func writeGamma(w bitSink, v int) error {
	if v < 2 {
		return fmt.Errorf("%w: %d", ErrInvalidVarInt, v)
	}

	extra := bits.Len(uint(v)) - 2
	w.writeBit(uint(v>>extra) & 1)
	for i := extra - 1; i >= 0; i-- {
		w.writeBit(1)
		w.writeBit(uint(v>>i) & 1)
	}
	w.writeBit(0)
	return nil
}

// lengthDelta is how much a decoder adds to the length field of a block
// copying from distance.
func lengthDelta(distance int) int {
	switch {
	case distance < nearDistance || distance >= farDistance:
		return 2
	case distance >= midDistance:
		return 1
	}
	return 0
}
