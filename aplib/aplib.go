// Package aplib implements an encoder for the aPLib compressed data format.
//
// An aPLib stream starts with one verbatim byte and continues with a
// sequence of tokens. Each token begins with a few control bits; the control
// bits are packed into tag bytes that are interleaved with the byte-aligned
// parts of the tokens (literal bytes and low offset bytes). A tag byte is
// reserved in the output when the first of its bits is written and filled in
// once all eight bits are known, so the stream is produced in one pass.
//
// Only compression is provided. Streams are meant to be unpacked by existing
// aPLib decoders such as aP_depack.
package aplib

import (
	"errors"
)

// Format constants. These are fixed by the aPLib format and are not
// configurable.
const (
	tagBits = 8

	// Single-byte tokens carry a 4-bit distance.
	singleByteMaxDistance = 16

	// Short blocks carry a 7-bit distance and a 1-bit length.
	shortBlockMaxDistance = 127
	shortBlockMinLength   = 2
	shortBlockMaxLength   = 3

	blockMinLength   = 4
	blockMinDistance = 2

	// Distance thresholds for the block length adjustment.
	nearDistance = 0x80
	midDistance  = 0x500
	farDistance  = 0x7D00
)

var (
	// ErrEmptyInput is returned by Compress for a zero-length input. A raw
	// aPLib stream always starts with a verbatim copy of the first byte, so
	// there is no stream that decodes to nothing. CompressSafe handles empty
	// input with a header-only result instead.
	ErrEmptyInput = errors.New("aplib: empty input")

	// ErrInvalidVarInt is reported when a variable-length number below 2 is
	// about to be written.
	ErrInvalidVarInt = errors.New("aplib: variable-length number must be at least 2")

	// ErrInvalidToken is reported when a match cannot be expressed by any
	// token, or when its parameters are out of range for the token chosen.
	ErrInvalidToken = errors.New("aplib: invalid token parameters")

	// ErrNoSeedLiteral is reported when the first match of a stream does not
	// start with at least one unmatched byte.
	ErrNoSeedLiteral = errors.New("aplib: stream must start with a literal byte")

	// ErrPartialBlock is reported when Encode is called with lastBlock false.
	// Tag bytes are patched after the fact, so the whole stream has to be
	// encoded in a single call.
	ErrPartialBlock = errors.New("aplib: input must be encoded in a single block")
)

// Compress returns the raw aPLib stream for src.
func Compress(src []byte) ([]byte, error) {
	return compress(nil, src, &MatchFinder{})
}

func compress(dst, src []byte, mf *MatchFinder) ([]byte, error) {
	if len(src) == 0 {
		return nil, ErrEmptyInput
	}

	matches := mf.FindMatches(nil, src)

	var e Encoder
	out := e.Encode(dst, src, matches, true)
	if err := e.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CompressWindow is like Compress, but only looks back at most maxDistance
// bytes for matches. A maxDistance of 0 means unlimited.
func CompressWindow(src []byte, maxDistance int) ([]byte, error) {
	return compress(nil, src, &MatchFinder{MaxDistance: maxDistance})
}
