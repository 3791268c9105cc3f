/*
NAME
  image.go

DESCRIPTION
  image.go provides Image, the central in-memory image entity produced by
  loaders and consumed by savers and the conversion engine.

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

package pixel

import (
	"github.com/pkg/errors"

	"github.com/ausocean/pix/meta"
)

// Delay sentinels. A negative delay means the frame is not animated; zero
// means animated with an unspecified delay.
const DelayNotAnimated = -1

// Image is an in-memory image. Images own their pixel buffer and all
// auxiliary entities transitively.
type Image struct {
	Width, Height int
	Format        Format

	// BytesPerLine is the scan line stride. Scan lines live consecutively
	// in Pixels, so len(Pixels) == Height*BytesPerLine once allocated.
	BytesPerLine int
	Pixels       []byte

	Palette    *Palette
	ICCP       *ICCProfile
	Metadata   []meta.Data
	Resolution *Resolution
	Source     *SourceImage

	// Delay is the presentation time of this frame in milliseconds when
	// the image is one frame of an animation.
	Delay int

	Orientation Orientation
}

// New returns an image with an allocated pixel buffer and the unpadded
// stride for the given format.
func New(width, height int, f Format) (*Image, error) {
	im, err := NewShell(width, height, f)
	if err != nil {
		return nil, err
	}
	if err := im.Alloc(); err != nil {
		return nil, err
	}
	return im, nil
}

// NewShell returns an image describing its shape only, with no pixel
// buffer. Loaders return shells from frame seeking; the caller allocates
// with Alloc before the frame is read.
func NewShell(width, height int, f Format) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("pixel: invalid dimensions %dx%d", width, height)
	}
	if f.BitsPerPixel() == 0 {
		return nil, errors.Errorf("pixel: cannot construct an image with format %v", f)
	}
	return &Image{
		Width:        width,
		Height:       height,
		Format:       f,
		BytesPerLine: BytesPerLine(width, f),
		Delay:        DelayNotAnimated,
	}, nil
}

// Alloc allocates the pixel buffer from the image's shape. It is a no-op
// if the buffer is already allocated.
func (im *Image) Alloc() error {
	if im.BytesPerLine < BytesPerLine(im.Width, im.Format) {
		return errors.Errorf("pixel: stride %d below minimum %d", im.BytesPerLine, BytesPerLine(im.Width, im.Format))
	}
	if im.Pixels == nil {
		im.Pixels = make([]byte, im.Height*im.BytesPerLine)
	}
	return nil
}

// Row returns scan line y.
func (im *Image) Row(y int) []byte {
	return im.Pixels[y*im.BytesPerLine : y*im.BytesPerLine+BytesPerLine(im.Width, im.Format)]
}

// Validate checks the well-formedness invariants of the image.
func (im *Image) Validate() error {
	if im.Width <= 0 || im.Height <= 0 {
		return errors.Errorf("pixel: invalid dimensions %dx%d", im.Width, im.Height)
	}
	if im.Format == FormatUnknown || im.Format == FormatSource {
		return errors.Errorf("pixel: image has sentinel format %v", im.Format)
	}
	min := BytesPerLine(im.Width, im.Format)
	if im.Pixels != nil {
		if im.BytesPerLine < min {
			return errors.Errorf("pixel: stride %d below minimum %d", im.BytesPerLine, min)
		}
		if len(im.Pixels) != im.Height*im.BytesPerLine {
			return errors.Errorf("pixel: buffer is %d bytes, want %d", len(im.Pixels), im.Height*im.BytesPerLine)
		}
	}
	if im.Format.Indexed() {
		if im.Palette == nil {
			return errors.New("pixel: indexed image lacks a palette")
		}
		if err := im.Palette.Validate(); err != nil {
			return err
		}
	}
	if im.ICCP != nil {
		if err := im.ICCP.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Copy returns a deep copy of the image and everything it owns.
func (im *Image) Copy() *Image {
	out := *im
	if im.Pixels != nil {
		out.Pixels = make([]byte, len(im.Pixels))
		copy(out.Pixels, im.Pixels)
	}
	out.Palette = im.Palette.Copy()
	out.ICCP = im.ICCP.Copy()
	out.Source = im.Source.Copy()
	if im.Resolution != nil {
		r := *im.Resolution
		out.Resolution = &r
	}
	if im.Metadata != nil {
		out.Metadata = make([]meta.Data, len(im.Metadata))
		for i, d := range im.Metadata {
			out.Metadata[i] = d.Copy()
		}
	}
	return &out
}
