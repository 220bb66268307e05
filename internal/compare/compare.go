// Package compare measures the aPLib encoder against other LZ77-family
// compressors on the same input.
package compare

import (
	"bytes"
	"fmt"

	"github.com/andybalholm/brotli"
	"github.com/apack/pack/aplib"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// A Codec is a named whole-buffer compressor.
type Codec struct {
	Name     string
	Compress func(src []byte) ([]byte, error)
}

// Codecs lists the compressors Run uses, aPLib first.
var Codecs = []Codec{
	{"aplib", aplib.Compress},
	{"zstd", compressZstd},
	{"snappy", compressSnappy},
	{"lz4", compressLZ4},
	{"brotli", compressBrotli},
}

// A Result is the outcome of one codec on one input.
type Result struct {
	Codec string  `json:"codec"`
	Size  int     `json:"size"`
	Ratio float64 `json:"ratio"` // input size / compressed size
}

// Names returns the names of the codecs in Codecs.
func Names() []string {
	names := make([]string, len(Codecs))
	for i, c := range Codecs {
		names[i] = c.Name
	}
	return names
}

// Run compresses src with every codec in Codecs.
func Run(src []byte) ([]Result, error) {
	results := make([]Result, 0, len(Codecs))
	for _, c := range Codecs {
		out, err := c.Compress(src)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Name, err)
		}
		r := Result{Codec: c.Name, Size: len(out)}
		if len(out) > 0 {
			r.Ratio = float64(len(src)) / float64(len(out))
		}
		results = append(results, r)
	}
	return results, nil
}

func compressZstd(src []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(src, nil), nil
}

func compressSnappy(src []byte) ([]byte, error) {
	return snappy.Encode(nil, src), nil
}

func compressLZ4(src []byte) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := lz4.NewWriter(buf)
	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func compressBrotli(src []byte) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := brotli.NewWriterLevel(buf, brotli.DefaultCompression)
	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
