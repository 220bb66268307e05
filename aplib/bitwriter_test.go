package aplib

import (
	"bytes"
	"testing"
)

func TestBitWriterTags(t *testing.T) {
	var w bitWriter
	w.writeBit(1)
	w.writeByte(0xAA)
	for _, b := range []uint{0, 1, 0, 1, 0, 1, 1} {
		w.writeBit(b)
	}
	w.writeBit(1)

	got := w.finish()
	want := []byte{0xAB, 0xAA, 0x80}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}

func TestBitWriterFixed(t *testing.T) {
	var w bitWriter
	w.writeBits(0b111, 3)
	w.writeBits(0b0101, 4)
	w.writeBits(0b10, 2)

	got := w.finish()
	want := []byte{0b11101011, 0b00000000}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %08b, want %08b", got, want)
	}
}

func TestBitWriterBytesOnly(t *testing.T) {
	var w bitWriter
	w.writeByte(1)
	w.writeByte(2)
	if got := w.finish(); !bytes.Equal(got, []byte{1, 2}) {
		t.Fatalf("got % x", got)
	}
}

func TestBitWriterAppendsToDst(t *testing.T) {
	w := bitWriter{dst: []byte("xy")}
	w.writeBit(1)
	w.writeByte('z')
	if got := w.finish(); !bytes.Equal(got, []byte{'x', 'y', 0x80, 'z'}) {
		t.Fatalf("got % x", got)
	}
}
