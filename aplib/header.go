package aplib

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
)

// HeaderSize is the size of an AP32 header in bytes.
const HeaderSize = 24

var headerMagic = [4]byte{'A', 'P', '3', '2'}

// ErrNoHeader is returned by ParseHeader when data does not start with an
// AP32 header.
var ErrNoHeader = errors.New("aplib: missing AP32 header")

// A Header is the AP32 header that the "safe" aPLib functions put in front of
// a compressed stream. All fields are stored little-endian.
type Header struct {
	HeaderSize uint32
	PackedSize uint32
	PackedCRC  uint32
	OrigSize   uint32
	OrigCRC    uint32
}

// NewHeader describes the raw stream packed, produced from orig.
func NewHeader(packed, orig []byte) Header {
	return Header{
		HeaderSize: HeaderSize,
		PackedSize: uint32(len(packed)),
		PackedCRC:  crc32.ChecksumIEEE(packed),
		OrigSize:   uint32(len(orig)),
		OrigCRC:    crc32.ChecksumIEEE(orig),
	}
}

// AppendBinary appends the encoded header to dst.
func (h Header) AppendBinary(dst []byte) []byte {
	dst = append(dst, headerMagic[:]...)
	dst = binary.LittleEndian.AppendUint32(dst, h.HeaderSize)
	dst = binary.LittleEndian.AppendUint32(dst, h.PackedSize)
	dst = binary.LittleEndian.AppendUint32(dst, h.PackedCRC)
	dst = binary.LittleEndian.AppendUint32(dst, h.OrigSize)
	dst = binary.LittleEndian.AppendUint32(dst, h.OrigCRC)
	return dst
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (h Header) MarshalBinary() ([]byte, error) {
	return h.AppendBinary(make([]byte, 0, HeaderSize)), nil
}

// ParseHeader decodes the AP32 header at the start of data and returns it
// along with the packed stream it describes.
func ParseHeader(data []byte) (Header, []byte, error) {
	if len(data) < HeaderSize || !bytes.Equal(data[:4], headerMagic[:]) {
		return Header{}, nil, ErrNoHeader
	}

	le := binary.LittleEndian
	h := Header{
		HeaderSize: le.Uint32(data[4:]),
		PackedSize: le.Uint32(data[8:]),
		PackedCRC:  le.Uint32(data[12:]),
		OrigSize:   le.Uint32(data[16:]),
		OrigCRC:    le.Uint32(data[20:]),
	}
	if h.HeaderSize < HeaderSize || uint64(h.HeaderSize)+uint64(h.PackedSize) > uint64(len(data)) {
		return Header{}, nil, fmt.Errorf("aplib: AP32 header sizes (%d+%d) exceed %d bytes of data", h.HeaderSize, h.PackedSize, len(data))
	}
	return h, data[h.HeaderSize : h.HeaderSize+h.PackedSize], nil
}

// CompressSafe returns src compressed and prefixed with an AP32 header that
// records the sizes and CRC32 checksums of the packed and original data.
// An empty src produces a header with zero sizes and no stream.
func CompressSafe(src []byte) ([]byte, error) {
	var packed []byte
	if len(src) > 0 {
		var err error
		packed, err = Compress(src)
		if err != nil {
			return nil, err
		}
	}
	return WithHeader(packed, src), nil
}

// WithHeader returns packed prefixed with the AP32 header describing it.
func WithHeader(packed, orig []byte) []byte {
	dst := NewHeader(packed, orig).AppendBinary(make([]byte, 0, HeaderSize+len(packed)))
	return append(dst, packed...)
}
