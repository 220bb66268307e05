package aplib

import (
	"fmt"

	"github.com/apack/pack"
)

// Encodable reports whether some aPLib token can copy length bytes from
// distance bytes back. A distance of 0 with a length of 1 stands for a zero
// byte.
func Encodable(length, distance int) bool {
	switch {
	case length == 1:
		return distance >= 0 && distance < singleByteMaxDistance
	case length >= shortBlockMinLength && length <= shortBlockMaxLength:
		return distance > 0 && distance <= shortBlockMaxDistance
	case length >= blockMinLength:
		return distance >= blockMinDistance
	}
	return false
}

// An Encoder implements the pack.Encoder interface, writing a raw aPLib
// stream (without the AP32 header).
//
// The whole input has to be passed to a single Encode call with lastBlock
// set. If the matches describe a token that aPLib cannot represent, Encode
// returns dst unchanged and Err reports the problem.
type Encoder struct {
	bw  bitWriter
	src []byte
	pos int // bytes of src consumed so far

	lastOffset int
	// pair is set after a literal or single-byte token. A block written while
	// it is set may reuse lastOffset with the shortest block header.
	pair bool

	err error
}

func (e *Encoder) Reset() {
	*e = Encoder{}
}

// Err returns the error from the last Encode call, if any.
func (e *Encoder) Err() error {
	return e.err
}

func (e *Encoder) Encode(dst []byte, src []byte, matches []pack.Match, lastBlock bool) []byte {
	e.Reset()
	if !lastBlock {
		e.err = ErrPartialBlock
		return dst
	}

	e.bw.dst = dst
	e.src = src
	e.pair = true
	if err := e.encode(matches); err != nil {
		e.err = err
		return dst
	}
	return e.bw.finish()
}

func (e *Encoder) encode(matches []pack.Match) error {
	if len(e.src) == 0 {
		return ErrEmptyInput
	}
	if len(matches) == 0 || matches[0].Unmatched == 0 {
		return ErrNoSeedLiteral
	}

	// The first byte is copied verbatim by the decoder, with no control bit
	// in front of it.
	e.bw.writeByte(e.src[0])
	e.pos = 1

	for i, m := range matches {
		unmatched := m.Unmatched
		if i == 0 {
			unmatched--
		}
		if e.pos+unmatched+m.Length > len(e.src) {
			return fmt.Errorf("%w: match at %d runs past the end of the input", ErrInvalidToken, e.pos+unmatched)
		}
		for j := 0; j < unmatched; j++ {
			e.literal()
		}
		if m.Length == 0 {
			continue
		}
		if err := e.match(m.Length, m.Distance); err != nil {
			return err
		}
	}

	if e.pos != len(e.src) {
		return fmt.Errorf("%w: matches cover %d of %d bytes", ErrInvalidToken, e.pos, len(e.src))
	}
	e.end()
	return nil
}

func (e *Encoder) match(length, distance int) error {
	if distance > e.pos {
		return fmt.Errorf("%w: distance %d at position %d", ErrInvalidToken, distance, e.pos)
	}
	switch {
	case length == 1:
		return e.singleByte(distance)
	case length <= shortBlockMaxLength:
		return e.shortBlock(distance, length)
	default:
		return e.block(distance, length)
	}
}

func (e *Encoder) literal() {
	e.bw.writeBit(0)
	e.bw.writeByte(e.src[e.pos])
	e.pos++
	e.pair = true
}

func (e *Encoder) singleByte(distance int) error {
	if distance < 0 || distance >= singleByteMaxDistance {
		return fmt.Errorf("%w: single byte with distance %d", ErrInvalidToken, distance)
	}
	if distance == 0 && e.src[e.pos] != 0 {
		return fmt.Errorf("%w: zero byte token for 0x%02x at position %d", ErrInvalidToken, e.src[e.pos], e.pos)
	}

	e.bw.writeBits(0b111, 3)
	e.bw.writeBits(uint(distance), 4)
	e.pos++
	e.pair = true
	return nil
}

func (e *Encoder) shortBlock(distance, length int) error {
	if distance <= 0 || distance > shortBlockMaxDistance ||
		length < shortBlockMinLength || length > shortBlockMaxLength {
		return fmt.Errorf("%w: short block with distance %d, length %d", ErrInvalidToken, distance, length)
	}

	e.bw.writeBits(0b110, 3)
	e.bw.writeByte(byte(distance<<1 | (length - shortBlockMinLength)))
	e.pos += length
	e.lastOffset = distance
	e.pair = false
	return nil
}

func (e *Encoder) block(distance, length int) error {
	if distance < blockMinDistance || length < blockMinLength {
		return fmt.Errorf("%w: block with distance %d, length %d", ErrInvalidToken, distance, length)
	}

	e.bw.writeBits(0b10, 2)
	if e.pair && distance == e.lastOffset {
		// Header value 2 right after a literal means "same offset as last time".
		if err := writeGamma(&e.bw, 2); err != nil {
			return err
		}
		if err := writeGamma(&e.bw, length); err != nil {
			return err
		}
	} else {
		high := distance>>8 + 2
		if e.pair {
			high++
		}
		if err := writeGamma(&e.bw, high); err != nil {
			return err
		}
		e.bw.writeByte(byte(distance))
		if err := writeGamma(&e.bw, length-lengthDelta(distance)); err != nil {
			return err
		}
	}

	e.pos += length
	e.lastOffset = distance
	e.pair = false
	return nil
}

// end writes the end-of-stream marker: a short block with a distance of 0.
func (e *Encoder) end() {
	e.bw.writeBits(0b110, 3)
	e.bw.writeByte(0)
}
