/*
NAME
  chunks.go

DESCRIPTION
  chunks.go implements the FLIC chunk codecs: the COLOR256/COLOR64 palette
  packets, the BRUN byte run-length full frame, the LC and SS2 delta
  compressors and their encoders.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package fli

import (
	"github.com/pkg/errors"

	"github.com/ausocean/pix/stream"
)

// decodeColorChunk reads palette packets into pal, a 256-entry RGB table.
// Six-bit palettes scale each component to 8 bits by replicating the top
// bits into the bottom.
func decodeColorChunk(s stream.Stream, pal []byte, sixBit bool) error {
	packets, err := stream.ReadU16LE(s)
	if err != nil {
		return errors.Wrap(err, "reading palette packet count")
	}

	index := 0
	for p := 0; p < int(packets); p++ {
		skip, err := stream.ReadU8(s)
		if err != nil {
			return err
		}
		count, err := stream.ReadU8(s)
		if err != nil {
			return err
		}
		index += int(skip)

		// A count of 0 means 256 colors.
		n := int(count)
		if n == 0 {
			n = paletteColors
		}

		var rgb [3]byte
		for i := 0; i < n && index < paletteColors; i, index = i+1, index+1 {
			if err := stream.StrictRead(s, rgb[:]); err != nil {
				return err
			}
			e := pal[index*3:]
			if sixBit {
				e[0] = rgb[0]<<2 | rgb[0]>>4
				e[1] = rgb[1]<<2 | rgb[1]>>4
				e[2] = rgb[2]<<2 | rgb[2]>>4
			} else {
				e[0] = rgb[0]
				e[1] = rgb[1]
				e[2] = rgb[2]
			}
		}
	}
	return nil
}

// encodeColor256 writes the whole palette as a single packet.
func encodeColor256(s stream.Stream, pal []byte) error {
	if err := stream.WriteU16LE(s, 1); err != nil {
		return err
	}
	// Skip 0; count 0 means all 256 colors.
	if err := stream.WriteU8(s, 0); err != nil {
		return err
	}
	if err := stream.WriteU8(s, 0); err != nil {
		return err
	}
	return stream.StrictWrite(s, pal[:paletteColors*3])
}

// decodeBRUN decodes a byte run-length encoded full frame. Each scan line
// starts with a packet count byte; a positive packet length is a run of
// the following byte, a negative length a literal copy. Writes clamp to
// the scan line width. A count of 255 may be saturated, so such lines read
// packets until the line is full.
func decodeBRUN(s stream.Stream, pixels []byte, width, height int) error {
	for y := 0; y < height; y++ {
		line := pixels[y*width : (y+1)*width]
		packets, err := stream.ReadU8(s)
		if err != nil {
			return errors.Wrapf(err, "line %d packet count", y)
		}

		x := 0
		for p := 0; (p < int(packets) || packets == 255) && x < width; p++ {
			t, err := stream.ReadU8(s)
			if err != nil {
				return err
			}
			n := int(int8(t))
			switch {
			case n > 0:
				if x+n > width {
					n = width - x
				}
				v, err := stream.ReadU8(s)
				if err != nil {
					return err
				}
				for i := 0; i < n; i++ {
					line[x+i] = v
				}
				x += n
			case n < 0:
				n = -n
				if x+n > width {
					n = width - x
				}
				if err := stream.StrictRead(s, line[x:x+n]); err != nil {
					return err
				}
				x += n
			}
		}
	}
	return nil
}

// encodeBRUN writes pixels as a BRUN chunk payload. Runs of three or more
// identical bytes become run packets; everything else is emitted as
// literal packets of at most 127 bytes.
func encodeBRUN(s stream.Stream, pixels []byte, width, height int) error {
	for y := 0; y < height; y++ {
		line := pixels[y*width : (y+1)*width]

		type packet struct {
			run   bool
			start int
			n     int
		}
		var packets []packet
		for x := 0; x < width; {
			run := 1
			for x+run < width && run < 127 && line[x] == line[x+run] {
				run++
			}
			if run >= 3 {
				packets = append(packets, packet{run: true, start: x, n: run})
				x += run
				continue
			}
			lit := 1
			for x+lit < width && lit < 127 {
				next := 1
				for x+lit+next < width && next < 3 && line[x+lit] == line[x+lit+next] {
					next++
				}
				if next >= 3 {
					break
				}
				lit++
			}
			packets = append(packets, packet{start: x, n: lit})
			x += lit
		}

		count := len(packets)
		if count > 255 {
			// The count byte saturates; decodeBRUN then reads packets
			// until the line is full.
			count = 255
		}
		if err := stream.WriteU8(s, uint8(count)); err != nil {
			return err
		}
		for _, p := range packets {
			if p.run {
				if err := stream.WriteU8(s, uint8(int8(p.n))); err != nil {
					return err
				}
				if err := stream.WriteU8(s, line[p.start]); err != nil {
					return err
				}
				continue
			}
			if err := stream.WriteU8(s, uint8(int8(-p.n))); err != nil {
				return err
			}
			if err := stream.StrictWrite(s, line[p.start:p.start+p.n]); err != nil {
				return err
			}
		}
	}
	return nil
}

// decodeLC decodes a line-compressed delta: a starting row, a row count,
// then per row a packet count and {skip, signed length} packets where a
// non-negative length copies bytes and a negative length repeats one.
func decodeLC(s stream.Stream, pixels []byte, width, height int) error {
	startY, err := stream.ReadU16LE(s)
	if err != nil {
		return err
	}
	lines, err := stream.ReadU16LE(s)
	if err != nil {
		return err
	}

	for i := 0; i < int(lines); i++ {
		y := int(startY) + i
		if y >= height {
			break
		}
		line := pixels[y*width : (y+1)*width]

		packets, err := stream.ReadU8(s)
		if err != nil {
			return errors.Wrapf(err, "line %d packet count", y)
		}
		x := 0
		for p := 0; p < int(packets); p++ {
			skip, err := stream.ReadU8(s)
			if err != nil {
				return err
			}
			x += int(skip)

			t, err := stream.ReadU8(s)
			if err != nil {
				return err
			}
			n := int(int8(t))
			if n >= 0 {
				if x+n > width {
					n = width - x
				}
				if err := stream.StrictRead(s, line[x:x+n]); err != nil {
					return err
				}
				x += n
			} else {
				n = -n
				if x+n > width {
					n = width - x
				}
				v, err := stream.ReadU8(s)
				if err != nil {
					return err
				}
				for j := 0; j < n; j++ {
					line[x+j] = v
				}
				x += n
			}
		}
	}
	return nil
}

// decodeSS2 decodes the word-aligned FLC delta. The per-line lead word
// either skips lines (non-zero high byte) or is the packet count; packets
// advance by skip*2 bytes and move words, with a negative length
// replicating one word across the run.
func decodeSS2(s stream.Stream, pixels []byte, width, height int) error {
	lines, err := stream.ReadU16LE(s)
	if err != nil {
		return err
	}

	for y := 0; y < int(lines) && y < height; y++ {
		lead, err := stream.ReadU16LE(s)
		if err != nil {
			return err
		}
		if skip := int(lead >> 8); skip > 0 {
			y += skip - 1
			continue
		}
		packets := int(lead & 0xFF)
		if packets == 0 {
			break
		}
		line := pixels[y*width : (y+1)*width]

		x := 0
		for p := 0; p < packets; p++ {
			skip, err := stream.ReadU8(s)
			if err != nil {
				return err
			}
			x += int(skip) * 2

			t, err := stream.ReadU8(s)
			if err != nil {
				return err
			}
			n := int(int8(t))
			if n >= 0 {
				count := n * 2
				if x+count > width {
					count = width - x
				}
				if err := stream.StrictRead(s, line[x:x+count]); err != nil {
					return err
				}
				x += count
			} else {
				count := -n * 2
				if x+count > width {
					count = width - x
				}
				var word [2]byte
				if err := stream.StrictRead(s, word[:]); err != nil {
					return err
				}
				for k := 0; k < count; k += 2 {
					if x+k < width {
						line[x+k] = word[0]
					}
					if x+k+1 < width {
						line[x+k+1] = word[1]
					}
				}
				x += count
			}
		}
	}
	return nil
}
