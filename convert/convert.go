/*
NAME
  convert.go

DESCRIPTION
  convert.go provides the pixel format conversion engine: any supported
  source format to any supported target format, with optional alpha
  compositing against a caller supplied background.

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

// Package convert implements pixel format conversion between the supported
// formats of the pixel package. Scan lines are traversed once per row; the
// per-pixel kernels are kept separate from the iteration so that every
// (source, target) pair goes through the same arithmetic.
package convert

import (
	"github.com/pkg/errors"

	"github.com/ausocean/pix/pixel"
)

// Errors returned by Convert.
var (
	ErrUnsupported = errors.New("convert: unsupported conversion")
	ErrBrokenImage = errors.New("convert: broken image")
)

// Flags alter conversion behavior.
type Flags uint32

const (
	// BlendAlpha composites source pixels over the option background when
	// the target format has no alpha channel.
	BlendAlpha Flags = 1 << iota
)

// Options controls alpha handling. The zero Options drops source alpha
// when the target has none.
type Options struct {
	Flags Flags

	// Background24 is the compositing background for 8-bit-per-channel
	// targets; Background48 for 16-bit-per-channel targets. Each is
	// consulted at the depth the blend is performed at.
	Background24 [3]uint8
	Background48 [3]uint16
}

// Convert returns a new image holding src converted to the target format.
// The source image is not modified. Conversion to the source's own format
// returns a pixel-identical copy.
func Convert(src *pixel.Image, target pixel.Format, opts *Options) (*pixel.Image, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if src.Pixels == nil {
		return nil, errors.New("convert: source has no pixel buffer")
	}
	if target == pixel.FormatSource || target == src.Format {
		return src.Copy(), nil
	}

	read := rowReader(src.Format)
	write := rowWriter(target)
	if read == nil || write == nil {
		return nil, errors.Wrapf(ErrUnsupported, "%v to %v", src.Format, target)
	}

	dst, err := pixel.New(src.Width, src.Height, target)
	if err != nil {
		return nil, err
	}
	carryOver(dst, src, target)

	if opts == nil {
		opts = &Options{}
	}
	blend := opts.Flags&BlendAlpha != 0 && src.Format.HasAlpha() && !target.HasAlpha()
	bg := wideBackground(opts, target)

	row := make([]color64, src.Width)
	for y := 0; y < src.Height; y++ {
		if err := read(src, y, row); err != nil {
			return nil, err
		}
		if blend {
			blendRow(row, bg)
		}
		write(dst.Row(y), row)
	}
	return dst, nil
}

// carryOver copies the entities that survive a format conversion.
func carryOver(dst, src *pixel.Image, target pixel.Format) {
	dst.ICCP = src.ICCP.Copy()
	dst.Resolution = nil
	if src.Resolution != nil {
		r := *src.Resolution
		dst.Resolution = &r
	}
	dst.Source = src.Source.Copy()
	dst.Delay = src.Delay
	dst.Orientation = src.Orientation
	if src.Metadata != nil {
		dst.Metadata = append(dst.Metadata, src.Metadata...)
	}
}

// wideBackground widens the relevant option background to 16 bits per
// channel, at the depth the target blend is narrowed back from.
func wideBackground(opts *Options, target pixel.Format) color64 {
	if is16BitTarget(target) {
		return color64{opts.Background48[0], opts.Background48[1], opts.Background48[2], maxChan}
	}
	return color64{
		widen8(opts.Background24[0]),
		widen8(opts.Background24[1]),
		widen8(opts.Background24[2]),
		maxChan,
	}
}

// is16BitTarget reports whether the target stores 16 bits per channel, which
// decides the depth alpha blending is performed at.
func is16BitTarget(f pixel.Format) bool {
	switch f {
	case pixel.BPP16Gray, pixel.BPP32GrayAlpha,
		pixel.BPP48RGB, pixel.BPP48BGR,
		pixel.BPP64RGBA, pixel.BPP64BGRA, pixel.BPP64ARGB, pixel.BPP64ABGR,
		pixel.BPP48YUV, pixel.BPP64YUVA,
		pixel.BPP64CMYK, pixel.BPP80CMYKA:
		return true
	}
	return false
}
