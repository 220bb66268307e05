package aplib

import (
	"errors"
	"fmt"
	"io"
)

// depacker is a straightforward aPLib decoder (after aP_depack), used to
// check that encoded streams unpack to their input.
type depacker struct {
	src  []byte
	pos  int
	tag  byte
	left int
	dst  []byte
	err  error
}

func (d *depacker) getByte() byte {
	if d.pos >= len(d.src) {
		d.err = io.ErrUnexpectedEOF
		return 0
	}
	b := d.src[d.pos]
	d.pos++
	return b
}

func (d *depacker) getBit() int {
	if d.left == 0 {
		d.tag = d.getByte()
		d.left = 8
	}
	d.left--
	return int(d.tag>>d.left) & 1
}

func (d *depacker) getGamma() int {
	v := 1
	for d.err == nil {
		v = v<<1 + d.getBit()
		if d.getBit() == 0 {
			break
		}
	}
	return v
}

func (d *depacker) copyMatch(distance, length int) {
	if distance <= 0 || distance > len(d.dst) {
		d.err = fmt.Errorf("distance %d with %d bytes of output", distance, len(d.dst))
		return
	}
	for i := 0; i < length; i++ {
		d.dst = append(d.dst, d.dst[len(d.dst)-distance])
	}
}

// depack decodes a raw aPLib stream. It fails if anything follows the end
// marker.
func depack(src []byte) ([]byte, error) {
	d := &depacker{src: src}
	d.dst = append(d.dst, d.getByte())

	r0 := 0
	afterMatch := false

	for d.err == nil {
		if d.getBit() == 0 {
			d.dst = append(d.dst, d.getByte())
			afterMatch = false
			continue
		}

		if d.getBit() == 0 {
			offs := d.getGamma()
			if !afterMatch && offs == 2 {
				d.copyMatch(r0, d.getGamma())
			} else {
				if afterMatch {
					offs -= 2
				} else {
					offs -= 3
				}
				offs = offs<<8 + int(d.getByte())
				length := d.getGamma()
				if offs >= 32000 {
					length++
				}
				if offs >= 1280 {
					length++
				}
				if offs < 128 {
					length += 2
				}
				d.copyMatch(offs, length)
				r0 = offs
			}
			afterMatch = true
			continue
		}

		if d.getBit() == 0 {
			b := d.getByte()
			offs := int(b >> 1)
			if offs == 0 {
				break
			}
			d.copyMatch(offs, 2+int(b&1))
			r0 = offs
			afterMatch = true
			continue
		}

		offs := 0
		for i := 0; i < 4; i++ {
			offs = offs<<1 + d.getBit()
		}
		if offs == 0 {
			d.dst = append(d.dst, 0)
		} else {
			d.copyMatch(offs, 1)
		}
		afterMatch = false
	}

	if d.err != nil {
		return nil, d.err
	}
	if d.pos != len(src) {
		return nil, errors.New("data after end marker")
	}
	return d.dst, nil
}
