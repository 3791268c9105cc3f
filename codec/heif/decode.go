//go:build withheif
// +build withheif

/*
NAME
  decode.go

DESCRIPTION
  decode.go adapts libheif image handles to the codec contract. The
  stream is slurped and handed to libheif, whose sub-errors are mapped
  onto the codec taxonomy.

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

package heif

import (
	"image"
	"io"
	"strings"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
	libheif "github.com/strukturag/libheif/go/heif"

	"github.com/ausocean/pix/codec"
	"github.com/ausocean/pix/meta"
	"github.com/ausocean/pix/pixel"
	"github.com/ausocean/pix/stream"
)

// Decoder is a HEIF load session. Every top-level image item of the file
// is yielded as a page, the primary item first.
type Decoder struct {
	log  logging.Logger
	sess codec.Session

	ctx     *libheif.Context
	ids     []int
	primary int
	idx     int

	decoded *image.RGBA
}

// NewDecoder opens a HEIF load session, reading the whole stream into
// libheif.
func NewDecoder(s stream.Stream, opts *codec.LoadOptions) (*Decoder, error) {
	if opts == nil {
		opts = &codec.LoadOptions{}
	}
	log := opts.Logger()

	data, err := io.ReadAll(s)
	if err != nil {
		return nil, errors.Wrap(err, "slurping stream")
	}

	ctx, err := libheif.NewContext()
	if err != nil {
		return nil, errors.Wrap(codec.ErrUnderlyingCodec, err.Error())
	}
	if err := ctx.ReadFromMemory(data); err != nil {
		return nil, mapError(err)
	}

	d := &Decoder{log: log, ctx: ctx}
	d.ids = ctx.GetListOfTopLevelImageIDs()
	primary, err := ctx.GetPrimaryImageID()
	if err != nil {
		return nil, mapError(err)
	}
	d.primary = primary

	// Yield the primary item first, then the rest in file order.
	ordered := []int{primary}
	for _, id := range d.ids {
		if id != primary {
			ordered = append(ordered, id)
		}
	}
	d.ids = ordered

	log.Debug(pkg+"opened", "items", len(d.ids), "primary", primary)
	return d, nil
}

// mapError translates libheif sub-errors onto the codec taxonomy.
func mapError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "Invalid input"), strings.Contains(msg, "No 'ftyp' box"):
		return errors.Wrap(codec.ErrInvalidImage, msg)
	case strings.Contains(msg, "Unsupported feature"), strings.Contains(msg, "Unsupported codec"):
		return errors.Wrap(codec.ErrUnsupportedCompression, msg)
	case strings.Contains(msg, "Memory allocation"):
		return errors.Wrap(codec.ErrUnderlyingCodec, msg)
	default:
		return errors.Wrap(codec.ErrUnderlyingCodec, msg)
	}
}

// NextFrame implements codec.Decoder.
func (d *Decoder) NextFrame() (*pixel.Image, error) {
	if err := d.sess.Seek(); err != nil {
		return nil, err
	}
	if d.idx >= len(d.ids) {
		d.sess.Finish()
		return nil, codec.ErrNoMoreFrames
	}
	id := d.ids[d.idx]

	handle, err := d.ctx.GetImageHandle(id)
	if err != nil {
		return nil, mapError(err)
	}
	img, err := handle.DecodeImage(libheif.ColorspaceRGB, libheif.ChromaInterleavedRGBA, nil)
	if err != nil {
		return nil, mapError(err)
	}
	goImg, err := img.GetImage()
	if err != nil {
		return nil, mapError(err)
	}
	rgba, ok := goImg.(*image.RGBA)
	if !ok {
		return nil, errors.Wrapf(codec.ErrUnderlyingCodec, "libheif yielded %T", goImg)
	}
	d.decoded = rgba

	format := pixel.BPP24RGB
	if handle.HasAlphaChannel() {
		format = pixel.BPP32RGBA
	}
	im, err := pixel.NewShell(handle.GetWidth(), handle.GetHeight(), format)
	if err != nil {
		return nil, err
	}
	im.Source = &pixel.SourceImage{
		Format:      format,
		Compression: pixel.CompressionHEVC,
		Special: meta.Map{
			PropIsPrimary: meta.Bool(id == d.primary),
			PropHasDepth:  meta.Bool(handle.HasDepthImage()),
		},
	}
	return im, nil
}

// ReadFrame implements codec.Decoder.
func (d *Decoder) ReadFrame(im *pixel.Image) error {
	if err := d.sess.Frame(); err != nil {
		return err
	}
	if d.decoded == nil {
		return errors.Wrap(codec.ErrState, "no frame pending")
	}
	if im.Pixels == nil {
		return errors.New("heif: frame pixel buffer not allocated")
	}

	n := 3
	if im.Format == pixel.BPP32RGBA {
		n = 4
	}
	for y := 0; y < im.Height; y++ {
		in := d.decoded.Pix[y*d.decoded.Stride:]
		out := im.Pixels[y*im.BytesPerLine:]
		for x := 0; x < im.Width; x++ {
			out[x*n] = in[x*4]
			out[x*n+1] = in[x*4+1]
			out[x*n+2] = in[x*4+2]
			if n == 4 {
				out[x*n+3] = in[x*4+3]
			}
		}
	}
	d.decoded = nil
	d.idx++
	return nil
}

// Close implements codec.Decoder.
func (d *Decoder) Close() error {
	d.sess.Finish()
	d.ctx = nil
	d.decoded = nil
	return nil
}
