/*
NAME
  emit.go

DESCRIPTION
  emit.go provides the per-format scan line writers that narrow the 16-bit
  working representation into target rows.

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

	"github.com/ausocean/pix/pixel"
)

// writerFn stores row pixels into dst, which holds exactly one unpadded
// scan line of the target format.
type writerFn func(dst []byte, row []color64)

// rowWriter returns the writer for a target format, or nil when the format
// cannot be written. Indexed and sub-byte targets require quantisation,
// which is the caller's concern, so they are not writable here.
func rowWriter(f pixel.Format) writerFn {
	switch f {
	case pixel.BPP8Gray:
		return writeGray8
	case pixel.BPP16Gray:
		return writeGray16
	case pixel.BPP8GrayAlpha:
		return writeGrayAlpha44
	case pixel.BPP16GrayAlpha:
		return writeGrayAlpha88
	case pixel.BPP32GrayAlpha:
		return writeGrayAlpha1616
	case pixel.BPP16RGB555, pixel.BPP16BGR555, pixel.BPP16RGB565, pixel.BPP16BGR565:
		return writePacked16(f)
	case pixel.BPP24RGB, pixel.BPP24BGR:
		return writeRGB24(f)
	case pixel.BPP48RGB, pixel.BPP48BGR:
		return writeRGB48(f)
	case pixel.BPP32RGBA, pixel.BPP32BGRA, pixel.BPP32ARGB, pixel.BPP32ABGR:
		return writeRGBA32(f)
	case pixel.BPP64RGBA, pixel.BPP64BGRA, pixel.BPP64ARGB, pixel.BPP64ABGR:
		return writeRGBA64(f)
	case pixel.BPP32RGBX, pixel.BPP32BGRX, pixel.BPP32XRGB, pixel.BPP32XBGR:
		return writeRGBX32(f)
	case pixel.BPP24YUV:
		return writeYUV8
	case pixel.BPP48YUV:
		return writeYUV16
	case pixel.BPP32YUVA:
		return writeYUVA8
	case pixel.BPP64YUVA:
		return writeYUVA16
	case pixel.BPP32CMYK, pixel.BPP40CMYKA:
		return writeCMYK8(f)
	case pixel.BPP64CMYK, pixel.BPP80CMYKA:
		return writeCMYK16(f)
	}
	return nil
}

func writeGray8(dst []byte, row []color64) {
	for x, px := range row {
		dst[x] = narrow8(luma16(px[chanR], px[chanG], px[chanB]))
	}
}

func writeGray16(dst []byte, row []color64) {
	for x, px := range row {
		binary.BigEndian.PutUint16(dst[x*2:], luma16(px[chanR], px[chanG], px[chanB]))
	}
}

func writeGrayAlpha44(dst []byte, row []color64) {
	for x, px := range row {
		g := narrow8(luma16(px[chanR], px[chanG], px[chanB])) >> 4
		a := narrow8(px[chanA]) >> 4
		dst[x] = g<<4 | a
	}
}

func writeGrayAlpha88(dst []byte, row []color64) {
	for x, px := range row {
		dst[x*2] = narrow8(luma16(px[chanR], px[chanG], px[chanB]))
		dst[x*2+1] = narrow8(px[chanA])
	}
}

func writeGrayAlpha1616(dst []byte, row []color64) {
	for x, px := range row {
		binary.BigEndian.PutUint16(dst[x*4:], luma16(px[chanR], px[chanG], px[chanB]))
		binary.BigEndian.PutUint16(dst[x*4+2:], px[chanA])
	}
}

func writePacked16(f pixel.Format) writerFn {
	return func(dst []byte, row []color64) {
		for x, px := range row {
			r, g, b := narrow8(px[chanR]), narrow8(px[chanG]), narrow8(px[chanB])
			var v uint16
			switch f {
			case pixel.BPP16RGB555:
				v = pack555(r, g, b)
			case pixel.BPP16BGR555:
				v = pack555(b, g, r)
			case pixel.BPP16RGB565:
				v = pack565(r, g, b)
			case pixel.BPP16BGR565:
				v = pack565(b, g, r)
			}
			binary.LittleEndian.PutUint16(dst[x*2:], v)
		}
	}
}

func writeRGB24(f pixel.Format) writerFn {
	ord := channelOrder(f)
	return func(dst []byte, row []color64) {
		for x, px := range row {
			for c := 0; c < 3; c++ {
				dst[x*3+c] = narrow8(px[ord[c]])
			}
		}
	}
}

func writeRGB48(f pixel.Format) writerFn {
	ord := channelOrder(f)
	return func(dst []byte, row []color64) {
		for x, px := range row {
			for c := 0; c < 3; c++ {
				binary.BigEndian.PutUint16(dst[x*6+c*2:], px[ord[c]])
			}
		}
	}
}

func writeRGBA32(f pixel.Format) writerFn {
	ord := channelOrder(f)
	return func(dst []byte, row []color64) {
		for x, px := range row {
			for c := 0; c < 4; c++ {
				dst[x*4+c] = narrow8(px[ord[c]])
			}
		}
	}
}

func writeRGBA64(f pixel.Format) writerFn {
	ord := channelOrder(f)
	return func(dst []byte, row []color64) {
		for x, px := range row {
			for c := 0; c < 4; c++ {
				binary.BigEndian.PutUint16(dst[x*8+c*2:], px[ord[c]])
			}
		}
	}
}

func writeRGBX32(f pixel.Format) writerFn {
	ord := channelOrder(f)
	return func(dst []byte, row []color64) {
		for x, px := range row {
			px[chanA] = 0
			for c := 0; c < 4; c++ {
				dst[x*4+c] = narrow8(px[ord[c]])
			}
		}
	}
}

func writeYUV8(dst []byte, row []color64) {
	for x, px := range row {
		y, cb, cr := rgbToYCbCr(float64(narrow8(px[chanR])), float64(narrow8(px[chanG])), float64(narrow8(px[chanB])), 255)
		dst[x*3] = uint8(round(y))
		dst[x*3+1] = uint8(round(cb))
		dst[x*3+2] = uint8(round(cr))
	}
}

func writeYUV16(dst []byte, row []color64) {
	for x, px := range row {
		y, cb, cr := rgbToYCbCr(float64(px[chanR]), float64(px[chanG]), float64(px[chanB]), maxChan)
		binary.BigEndian.PutUint16(dst[x*6:], uint16(round(y)))
		binary.BigEndian.PutUint16(dst[x*6+2:], uint16(round(cb)))
		binary.BigEndian.PutUint16(dst[x*6+4:], uint16(round(cr)))
	}
}

func writeYUVA8(dst []byte, row []color64) {
	for x, px := range row {
		y, cb, cr := rgbToYCbCr(float64(narrow8(px[chanR])), float64(narrow8(px[chanG])), float64(narrow8(px[chanB])), 255)
		dst[x*4] = uint8(round(y))
		dst[x*4+1] = uint8(round(cb))
		dst[x*4+2] = uint8(round(cr))
		dst[x*4+3] = narrow8(px[chanA])
	}
}

func writeYUVA16(dst []byte, row []color64) {
	for x, px := range row {
		y, cb, cr := rgbToYCbCr(float64(px[chanR]), float64(px[chanG]), float64(px[chanB]), maxChan)
		binary.BigEndian.PutUint16(dst[x*8:], uint16(round(y)))
		binary.BigEndian.PutUint16(dst[x*8+2:], uint16(round(cb)))
		binary.BigEndian.PutUint16(dst[x*8+4:], uint16(round(cr)))
		binary.BigEndian.PutUint16(dst[x*8+6:], px[chanA])
	}
}

func writeCMYK8(f pixel.Format) writerFn {
	stride := 4
	if f == pixel.BPP40CMYKA {
		stride = 5
	}
	return func(dst []byte, row []color64) {
		for x, px := range row {
			c, m, y, k := rgbToCMYK(float64(narrow8(px[chanR])), float64(narrow8(px[chanG])), float64(narrow8(px[chanB])), 255)
			p := dst[x*stride:]
			p[0] = uint8(round(c))
			p[1] = uint8(round(m))
			p[2] = uint8(round(y))
			p[3] = uint8(round(k))
			if stride == 5 {
				p[4] = narrow8(px[chanA])
			}
		}
	}
}

func writeCMYK16(f pixel.Format) writerFn {
	stride := 8
	if f == pixel.BPP80CMYKA {
		stride = 10
	}
	return func(dst []byte, row []color64) {
		for x, px := range row {
			c, m, y, k := rgbToCMYK(float64(px[chanR]), float64(px[chanG]), float64(px[chanB]), maxChan)
			p := dst[x*stride:]
			binary.BigEndian.PutUint16(p, uint16(round(c)))
			binary.BigEndian.PutUint16(p[2:], uint16(round(m)))
			binary.BigEndian.PutUint16(p[4:], uint16(round(y)))
			binary.BigEndian.PutUint16(p[6:], uint16(round(k)))
			if stride == 10 {
				binary.BigEndian.PutUint16(p[8:], px[chanA])
			}
		}
	}
}
