//go:build !withraw
// +build !withraw

/*
DESCRIPTION
  Replaces the libraw-backed decoder when the library is built without
  libraw installed.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package rawpix

import (
	"github.com/pkg/errors"

	"github.com/ausocean/pix/codec"
	"github.com/ausocean/pix/pixel"
	"github.com/ausocean/pix/stream"
)

// Decoder is a no-op stand-in used when building without libraw.
type Decoder struct{}

// NewDecoder always fails in builds without libraw support.
func NewDecoder(s stream.Stream, opts *codec.LoadOptions) (*Decoder, error) {
	return nil, errors.Wrap(codec.ErrNotImplemented, "built without raw support")
}

// NextFrame implements codec.Decoder.
func (d *Decoder) NextFrame() (*pixel.Image, error) {
	return nil, errors.Wrap(codec.ErrNotImplemented, "built without raw support")
}

// ReadFrame implements codec.Decoder.
func (d *Decoder) ReadFrame(im *pixel.Image) error {
	return errors.Wrap(codec.ErrNotImplemented, "built without raw support")
}

// Close implements codec.Decoder.
func (d *Decoder) Close() error { return nil }
