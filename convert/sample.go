/*
NAME
  sample.go

DESCRIPTION
  sample.go provides the per-format scan line readers that lift source rows
  into the 16-bit working representation. Multi-byte samples are big-endian
  in memory; packed 16-bit RGB fields are little-endian words.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package convert

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/ausocean/pix/pixel"
)

// readerFn fills out with the pixels of row y of im.
type readerFn func(im *pixel.Image, y int, out []color64) error

// rowReader returns the reader for a source format, or nil when the format
// cannot be read.
func rowReader(f pixel.Format) readerFn {
	switch f {
	case pixel.BPP1Indexed, pixel.BPP2Indexed, pixel.BPP4Indexed, pixel.BPP8Indexed:
		return readIndexed
	case pixel.BPP1Gray, pixel.BPP2Gray, pixel.BPP4Gray, pixel.BPP8Gray:
		return readGraySubByte
	case pixel.BPP16Gray:
		return readGray16
	case pixel.BPP8GrayAlpha:
		return readGrayAlpha44
	case pixel.BPP16GrayAlpha:
		return readGrayAlpha88
	case pixel.BPP32GrayAlpha:
		return readGrayAlpha1616
	case pixel.BPP16RGB555, pixel.BPP16BGR555, pixel.BPP16RGB565, pixel.BPP16BGR565:
		return readPacked16
	case pixel.BPP24RGB, pixel.BPP24BGR:
		return readRGB24
	case pixel.BPP48RGB, pixel.BPP48BGR:
		return readRGB48
	case pixel.BPP32RGBA, pixel.BPP32BGRA, pixel.BPP32ARGB, pixel.BPP32ABGR:
		return readRGBA32
	case pixel.BPP64RGBA, pixel.BPP64BGRA, pixel.BPP64ARGB, pixel.BPP64ABGR:
		return readRGBA64
	case pixel.BPP32RGBX, pixel.BPP32BGRX, pixel.BPP32XRGB, pixel.BPP32XBGR:
		return readRGBX32
	case pixel.BPP24YUV:
		return readYUV8
	case pixel.BPP48YUV:
		return readYUV16
	case pixel.BPP32YUVA:
		return readYUVA8
	case pixel.BPP64YUVA:
		return readYUVA16
	case pixel.BPP32CMYK, pixel.BPP40CMYKA:
		return readCMYK8
	case pixel.BPP64CMYK, pixel.BPP80CMYKA:
		return readCMYK16
	}
	// 10- and 12-bit packed YUV layouts are not supported.
	return nil
}

// channelOrder returns the working-channel position of each stored channel
// for the RGB/RGBA orderings. idx[i] is the color64 channel that stored
// channel i feeds.
func channelOrder(f pixel.Format) [4]int {
	switch f {
	case pixel.BPP24BGR, pixel.BPP48BGR:
		return [4]int{chanB, chanG, chanR, chanA}
	case pixel.BPP32BGRA, pixel.BPP64BGRA, pixel.BPP32BGRX:
		return [4]int{chanB, chanG, chanR, chanA}
	case pixel.BPP32ARGB, pixel.BPP64ARGB, pixel.BPP32XRGB:
		return [4]int{chanA, chanR, chanG, chanB}
	case pixel.BPP32ABGR, pixel.BPP64ABGR, pixel.BPP32XBGR:
		return [4]int{chanA, chanB, chanG, chanR}
	default:
		return [4]int{chanR, chanG, chanB, chanA}
	}
}

func readIndexed(im *pixel.Image, y int, out []color64) error {
	pal := im.Palette
	row := im.Pixels[y*im.BytesPerLine:]
	bits := uint(im.Format.BitsPerPixel())
	perByte := 8 / bits
	mask := uint8(1<<bits - 1)

	for x := 0; x < im.Width; x++ {
		var idx uint8
		if bits == 8 {
			idx = row[x]
		} else {
			b := row[uint(x)/perByte]
			shift := 8 - bits - (uint(x)%perByte)*bits
			idx = (b >> shift) & mask
		}
		if int(idx) >= pal.Count {
			return errors.Wrapf(ErrBrokenImage, "pixel index %d outside palette of %d", idx, pal.Count)
		}
		e := pal.Entry(int(idx))
		switch pal.Format {
		case pixel.BPP24RGB:
			out[x] = color64{widen8(e[0]), widen8(e[1]), widen8(e[2]), maxChan}
		case pixel.BPP24BGR:
			out[x] = color64{widen8(e[2]), widen8(e[1]), widen8(e[0]), maxChan}
		case pixel.BPP32RGBA:
			out[x] = color64{widen8(e[0]), widen8(e[1]), widen8(e[2]), widen8(e[3])}
		case pixel.BPP32BGRA:
			out[x] = color64{widen8(e[2]), widen8(e[1]), widen8(e[0]), widen8(e[3])}
		default:
			return errors.Wrapf(ErrUnsupported, "palette format %v", pal.Format)
		}
	}
	return nil
}

func readGraySubByte(im *pixel.Image, y int, out []color64) error {
	row := im.Pixels[y*im.BytesPerLine:]
	bits := uint(im.Format.BitsPerPixel())
	perByte := 8 / bits
	mask := uint8(1<<bits - 1)

	for x := 0; x < im.Width; x++ {
		var v uint8
		if bits == 8 {
			v = row[x]
		} else {
			b := row[uint(x)/perByte]
			shift := 8 - bits - (uint(x)%perByte)*bits
			v = widenBits((b>>shift)&mask, bits)
		}
		g := widen8(v)
		out[x] = color64{g, g, g, maxChan}
	}
	return nil
}

func readGray16(im *pixel.Image, y int, out []color64) error {
	row := im.Pixels[y*im.BytesPerLine:]
	for x := 0; x < im.Width; x++ {
		g := binary.BigEndian.Uint16(row[x*2:])
		out[x] = color64{g, g, g, maxChan}
	}
	return nil
}

func readGrayAlpha44(im *pixel.Image, y int, out []color64) error {
	row := im.Pixels[y*im.BytesPerLine:]
	for x := 0; x < im.Width; x++ {
		g := widen8(widenBits(row[x]>>4, 4))
		a := widen8(widenBits(row[x]&0x0F, 4))
		out[x] = color64{g, g, g, a}
	}
	return nil
}

func readGrayAlpha88(im *pixel.Image, y int, out []color64) error {
	row := im.Pixels[y*im.BytesPerLine:]
	for x := 0; x < im.Width; x++ {
		g := widen8(row[x*2])
		a := widen8(row[x*2+1])
		out[x] = color64{g, g, g, a}
	}
	return nil
}

func readGrayAlpha1616(im *pixel.Image, y int, out []color64) error {
	row := im.Pixels[y*im.BytesPerLine:]
	for x := 0; x < im.Width; x++ {
		g := binary.BigEndian.Uint16(row[x*4:])
		a := binary.BigEndian.Uint16(row[x*4+2:])
		out[x] = color64{g, g, g, a}
	}
	return nil
}

func readPacked16(im *pixel.Image, y int, out []color64) error {
	row := im.Pixels[y*im.BytesPerLine:]
	for x := 0; x < im.Width; x++ {
		v := binary.LittleEndian.Uint16(row[x*2:])
		var r, g, b uint8
		switch im.Format {
		case pixel.BPP16RGB555:
			r, g, b = unpack555(v)
		case pixel.BPP16BGR555:
			b, g, r = unpack555(v)
		case pixel.BPP16RGB565:
			r, g, b = unpack565(v)
		case pixel.BPP16BGR565:
			b, g, r = unpack565(v)
		}
		out[x] = color64{widen8(r), widen8(g), widen8(b), maxChan}
	}
	return nil
}

func readRGB24(im *pixel.Image, y int, out []color64) error {
	ord := channelOrder(im.Format)
	row := im.Pixels[y*im.BytesPerLine:]
	for x := 0; x < im.Width; x++ {
		var px color64
		px[chanA] = maxChan
		for c := 0; c < 3; c++ {
			px[ord[c]] = widen8(row[x*3+c])
		}
		out[x] = px
	}
	return nil
}

func readRGB48(im *pixel.Image, y int, out []color64) error {
	ord := channelOrder(im.Format)
	row := im.Pixels[y*im.BytesPerLine:]
	for x := 0; x < im.Width; x++ {
		var px color64
		px[chanA] = maxChan
		for c := 0; c < 3; c++ {
			px[ord[c]] = binary.BigEndian.Uint16(row[x*6+c*2:])
		}
		out[x] = px
	}
	return nil
}

func readRGBA32(im *pixel.Image, y int, out []color64) error {
	ord := channelOrder(im.Format)
	row := im.Pixels[y*im.BytesPerLine:]
	for x := 0; x < im.Width; x++ {
		var px color64
		for c := 0; c < 4; c++ {
			px[ord[c]] = widen8(row[x*4+c])
		}
		out[x] = px
	}
	return nil
}

func readRGBA64(im *pixel.Image, y int, out []color64) error {
	ord := channelOrder(im.Format)
	row := im.Pixels[y*im.BytesPerLine:]
	for x := 0; x < im.Width; x++ {
		var px color64
		for c := 0; c < 4; c++ {
			px[ord[c]] = binary.BigEndian.Uint16(row[x*8+c*2:])
		}
		out[x] = px
	}
	return nil
}

func readRGBX32(im *pixel.Image, y int, out []color64) error {
	ord := channelOrder(im.Format)
	row := im.Pixels[y*im.BytesPerLine:]
	for x := 0; x < im.Width; x++ {
		var px color64
		for c := 0; c < 4; c++ {
			px[ord[c]] = widen8(row[x*4+c])
		}
		// The X channel is ignored, not alpha.
		px[chanA] = maxChan
		out[x] = px
	}
	return nil
}

func readYUV8(im *pixel.Image, y int, out []color64) error {
	row := im.Pixels[y*im.BytesPerLine:]
	for x := 0; x < im.Width; x++ {
		r, g, b := yCbCrToRGB(float64(row[x*3]), float64(row[x*3+1]), float64(row[x*3+2]), 255)
		out[x] = color64{widen8(uint8(round(r))), widen8(uint8(round(g))), widen8(uint8(round(b))), maxChan}
	}
	return nil
}

func readYUV16(im *pixel.Image, y int, out []color64) error {
	row := im.Pixels[y*im.BytesPerLine:]
	for x := 0; x < im.Width; x++ {
		yy := float64(binary.BigEndian.Uint16(row[x*6:]))
		cb := float64(binary.BigEndian.Uint16(row[x*6+2:]))
		cr := float64(binary.BigEndian.Uint16(row[x*6+4:]))
		r, g, b := yCbCrToRGB(yy, cb, cr, maxChan)
		out[x] = color64{uint16(round(r)), uint16(round(g)), uint16(round(b)), maxChan}
	}
	return nil
}

func readYUVA8(im *pixel.Image, y int, out []color64) error {
	row := im.Pixels[y*im.BytesPerLine:]
	for x := 0; x < im.Width; x++ {
		r, g, b := yCbCrToRGB(float64(row[x*4]), float64(row[x*4+1]), float64(row[x*4+2]), 255)
		out[x] = color64{widen8(uint8(round(r))), widen8(uint8(round(g))), widen8(uint8(round(b))), widen8(row[x*4+3])}
	}
	return nil
}

func readYUVA16(im *pixel.Image, y int, out []color64) error {
	row := im.Pixels[y*im.BytesPerLine:]
	for x := 0; x < im.Width; x++ {
		yy := float64(binary.BigEndian.Uint16(row[x*8:]))
		cb := float64(binary.BigEndian.Uint16(row[x*8+2:]))
		cr := float64(binary.BigEndian.Uint16(row[x*8+4:]))
		r, g, b := yCbCrToRGB(yy, cb, cr, maxChan)
		out[x] = color64{uint16(round(r)), uint16(round(g)), uint16(round(b)), binary.BigEndian.Uint16(row[x*8+6:])}
	}
	return nil
}

func readCMYK8(im *pixel.Image, y int, out []color64) error {
	row := im.Pixels[y*im.BytesPerLine:]
	stride := 4
	if im.Format == pixel.BPP40CMYKA {
		stride = 5
	}
	for x := 0; x < im.Width; x++ {
		p := row[x*stride:]
		r, g, b := cmykToRGB(float64(p[0]), float64(p[1]), float64(p[2]), float64(p[3]), 255)
		a := uint16(maxChan)
		if stride == 5 {
			a = widen8(p[4])
		}
		out[x] = color64{widen8(uint8(round(r))), widen8(uint8(round(g))), widen8(uint8(round(b))), a}
	}
	return nil
}

func readCMYK16(im *pixel.Image, y int, out []color64) error {
	row := im.Pixels[y*im.BytesPerLine:]
	stride := 8
	if im.Format == pixel.BPP80CMYKA {
		stride = 10
	}
	for x := 0; x < im.Width; x++ {
		p := row[x*stride:]
		c := float64(binary.BigEndian.Uint16(p))
		m := float64(binary.BigEndian.Uint16(p[2:]))
		yy := float64(binary.BigEndian.Uint16(p[4:]))
		k := float64(binary.BigEndian.Uint16(p[6:]))
		r, g, b := cmykToRGB(c, m, yy, k, maxChan)
		a := uint16(maxChan)
		if stride == 10 {
			a = binary.BigEndian.Uint16(p[8:])
		}
		out[x] = color64{uint16(round(r)), uint16(round(g)), uint16(round(b)), a}
	}
	return nil
}
