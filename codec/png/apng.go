/*
NAME
  apng.go

DESCRIPTION
  apng.go composes animation frames: each decoded frame rectangle is
  blended onto the carried-over previous frame, and the previous-frame
  buffer is updated according to the frame's dispose operator.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package png

import "encoding/binary"

// compose builds the current full frame from the sub-image sub (fw×fh
// native rows) and the previous-frame buffer, then updates the
// previous-frame buffer by the dispose operator.
func (d *Decoder) compose(ctl *fctl, sub []byte, fw, fh int, first bool) error {
	rb := d.hdr.rowBytes(d.hdr.width)
	copy(d.cur, d.prev)

	if ctl == nil {
		// Plain PNG: the frame is the whole image.
		copy(d.cur, sub)
		copy(d.prev, d.cur)
		return nil
	}

	bits := d.hdr.bitsPerPixel()
	srb := d.hdr.rowBytes(fw)
	over := ctl.blendOp == blendOver && !first && d.hasAlpha()

	for r := 0; r < fh; r++ {
		out := d.cur[(ctl.y+r)*rb : (ctl.y+r+1)*rb]
		src := sub[r*srb : (r+1)*srb]
		if over {
			d.blendOverRow(out, src, ctl.x, fw)
			continue
		}
		for i := 0; i < fw; i++ {
			copyPixel(out, ctl.x+i, src, i, bits)
		}
	}

	switch ctl.disposeOp {
	case disposeBackground:
		for r := 0; r < fh; r++ {
			row := d.prev[(ctl.y+r)*rb : (ctl.y+r+1)*rb]
			zeroPixels(row, ctl.x, fw, bits)
		}
	case disposeNone:
		for r := 0; r < fh; r++ {
			src := d.cur[(ctl.y+r)*rb : (ctl.y+r+1)*rb]
			dst := d.prev[(ctl.y+r)*rb : (ctl.y+r+1)*rb]
			for i := 0; i < fw; i++ {
				copyPixel(dst, ctl.x+i, src, ctl.x+i, bits)
			}
		}
	case disposePrevious:
		// Previous frame carries forward unchanged.
	}
	return nil
}

// hasAlpha reports whether the native format carries alpha, the
// precondition for OVER blending.
func (d *Decoder) hasAlpha() bool {
	return d.hdr.colorType == colorGrayAlpha || d.hdr.colorType == colorTrueAlpha
}

// blendOverRow alpha-composites fw source pixels over the output row
// starting at pixel x. Supported layouts are gray+alpha and RGBA at 8 or
// 16 bits per channel.
func (d *Decoder) blendOverRow(out, src []byte, x, fw int) {
	channels := d.hdr.channels()
	if d.hdr.bitDepth == 8 {
		n := channels
		for i := 0; i < fw; i++ {
			s := src[i*n : (i+1)*n]
			o := out[(x+i)*n : (x+i+1)*n]
			sa := uint32(s[n-1])
			da := uint32(o[n-1])
			if sa == 255 {
				copy(o, s)
				continue
			}
			for c := 0; c < n-1; c++ {
				o[c] = uint8((sa*uint32(s[c]) + (255-sa)*da*uint32(o[c])/255) / 255)
			}
			o[n-1] = uint8(sa + (255-sa)*da/255)
		}
		return
	}

	n := channels * 2
	for i := 0; i < fw; i++ {
		s := src[i*n : (i+1)*n]
		o := out[(x+i)*n : (x+i+1)*n]
		sa := uint64(binary.BigEndian.Uint16(s[n-2:]))
		da := uint64(binary.BigEndian.Uint16(o[n-2:]))
		if sa == 0xFFFF {
			copy(o, s)
			continue
		}
		for c := 0; c < channels-1; c++ {
			sc := uint64(binary.BigEndian.Uint16(s[c*2:]))
			dc := uint64(binary.BigEndian.Uint16(o[c*2:]))
			v := (sa*sc + (0xFFFF-sa)*da*dc/0xFFFF) / 0xFFFF
			binary.BigEndian.PutUint16(o[c*2:], uint16(v))
		}
		binary.BigEndian.PutUint16(o[n-2:], uint16(sa+(0xFFFF-sa)*da/0xFFFF))
	}
}

// zeroPixels clears n pixels of row starting at pixel x.
func zeroPixels(row []byte, x, n, bits int) {
	if bits >= 8 {
		b := bits / 8
		for i := x * b; i < (x+n)*b; i++ {
			row[i] = 0
		}
		return
	}
	zero := []byte{0}
	for i := 0; i < n; i++ {
		copyPixel(row, x+i, zero, 0, bits)
	}
}
