/*
NAME
  kernel.go

DESCRIPTION
  kernel.go provides the per-pixel arithmetic used by the conversion
  engine: channel widening and narrowing, BT.601 luma and YUV transforms,
  CMYK separation, packed 16-bit RGB fields and alpha compositing.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package convert

// color64 is the working pixel: red, green, blue, alpha at 16 bits per
// channel. Grayscale is represented with equal RGB; CMYK and YUV sources
// are transformed to RGB on read and back on write.
type color64 [4]uint16

const (
	chanR = iota
	chanG
	chanB
	chanA
)

const maxChan = 0xFFFF

// widen8 expands an 8-bit channel to 16 bits by bit replication.
func widen8(x uint8) uint16 { return uint16(x)<<8 | uint16(x) }

// narrow8 truncates a 16-bit channel to its high byte.
func narrow8(x uint16) uint8 { return uint8(x >> 8) }

// widenBits expands an n-bit sample (n ≤ 8) to 8 bits by replication.
func widenBits(x uint8, n uint) uint8 {
	switch n {
	case 1:
		if x != 0 {
			return 0xFF
		}
		return 0
	case 2:
		return x<<6 | x<<4 | x<<2 | x
	case 4:
		return x<<4 | x
	}
	return x
}

// luma16 returns the BT.601 luma of a 16-bit RGB triple, rounded.
func luma16(r, g, b uint16) uint16 {
	return uint16((299*uint64(r) + 587*uint64(g) + 114*uint64(b) + 500) / 1000)
}

// blendRow composites each pixel over bg in place and forces the result
// opaque. out = α·src + (1−α)·bg per channel, at 16-bit depth.
func blendRow(row []color64, bg color64) {
	for i := range row {
		a := uint64(row[i][chanA])
		if a == maxChan {
			continue
		}
		for c := chanR; c <= chanB; c++ {
			row[i][c] = uint16((a*uint64(row[i][c]) + (maxChan-a)*uint64(bg[c])) / maxChan)
		}
		row[i][chanA] = maxChan
	}
}

// rgbToYCbCr converts one pixel to BT.601 YCbCr with the given channel
// maximum (255 or 65535) and centered chroma.
func rgbToYCbCr(r, g, b, max float64) (y, cb, cr float64) {
	center := (max + 1) / 2
	y = 0.299*r + 0.587*g + 0.114*b
	cb = center - 0.168736*r - 0.331264*g + 0.5*b
	cr = center + 0.5*r - 0.418688*g - 0.081312*b
	return clampf(y, max), clampf(cb, max), clampf(cr, max)
}

// yCbCrToRGB is the inverse of rgbToYCbCr.
func yCbCrToRGB(y, cb, cr, max float64) (r, g, b float64) {
	center := (max + 1) / 2
	cb -= center
	cr -= center
	r = y + 1.402*cr
	g = y - 0.344136*cb - 0.714136*cr
	b = y + 1.772*cb
	return clampf(r, max), clampf(g, max), clampf(b, max)
}

func clampf(v, max float64) float64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// rgbToCMYK separates a pixel into CMYK at the given channel maximum.
// K = 1 − max(R,G,B)/scale; ε in the denominator prevents division by
// zero at pure black.
func rgbToCMYK(r, g, b, max float64) (c, m, y, k float64) {
	const eps = 1e-9
	rr, gg, bb := r/max, g/max, b/max
	peak := rr
	if gg > peak {
		peak = gg
	}
	if bb > peak {
		peak = bb
	}
	kk := 1 - peak
	c = (1 - rr - kk) / (1 - kk + eps)
	m = (1 - gg - kk) / (1 - kk + eps)
	y = (1 - bb - kk) / (1 - kk + eps)
	return c * max, m * max, y * max, kk * max
}

// cmykToRGB merges CMYK back to RGB at the given channel maximum.
func cmykToRGB(c, m, y, k, max float64) (r, g, b float64) {
	r = (max - c) * (max - k) / max
	g = (max - m) * (max - k) / max
	b = (max - y) * (max - k) / max
	return
}

// round converts a non-negative float channel to an integer sample.
func round(v float64) uint64 { return uint64(v + 0.5) }

// pack555/pack565 assemble packed 16-bit RGB from 8-bit channels; the
// unpack functions restore full-range 8-bit channels by bit replication.

func pack555(r, g, b uint8) uint16 {
	return uint16(r>>3)<<10 | uint16(g>>3)<<5 | uint16(b>>3)
}

func unpack555(v uint16) (r, g, b uint8) {
	r = uint8(v>>10) & 0x1F
	g = uint8(v>>5) & 0x1F
	b = uint8(v) & 0x1F
	return r<<3 | r>>2, g<<3 | g>>2, b<<3 | b>>2
}

func pack565(r, g, b uint8) uint16 {
	return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
}

func unpack565(v uint16) (r, g, b uint8) {
	r = uint8(v>>11) & 0x1F
	g = uint8(v>>5) & 0x3F
	b = uint8(v) & 0x1F
	return r<<3 | r>>2, g<<2 | g>>4, b<<3 | b>>2
}
