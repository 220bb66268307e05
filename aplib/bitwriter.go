package aplib

// A bitSink receives single bits, most significant first.
type bitSink interface {
	writeBit(bit uint)
}

// bitWriter builds an aPLib stream. Control bits go into tag bytes, which are
// reserved in dst when the first of their bits is written and patched when
// they are full or when the stream is finished. Bytes written with writeByte
// land at the end of dst, after the current tag.
type bitWriter struct {
	dst []byte

	tag       byte // bits collected for the current tag
	tagOffset int  // position of the current tag in dst
	free      int  // unused bit slots in the current tag
	tagged    bool // a tag has been reserved
}

func (w *bitWriter) writeBit(bit uint) {
	if w.free == 0 {
		w.patchTag()
		w.tagOffset = len(w.dst)
		w.dst = append(w.dst, 0)
		w.tag = 0
		w.free = tagBits
		w.tagged = true
	}

	w.free--
	if bit != 0 {
		w.tag |= 1 << w.free
	}
}

// writeBits writes the low n bits of value, most significant first.
func (w *bitWriter) writeBits(value uint, n int) {
	for i := n - 1; i >= 0; i-- {
		w.writeBit((value >> i) & 1)
	}
}

func (w *bitWriter) writeByte(b byte) {
	w.dst = append(w.dst, b)
}

func (w *bitWriter) patchTag() {
	if w.tagged {
		w.dst[w.tagOffset] = w.tag
	}
}

// finish patches the tag in progress and returns the stream. Unused slots
// of the last tag are left as zero bits.
func (w *bitWriter) finish() []byte {
	w.patchTag()
	return w.dst
}
