//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  Replaces the OpenCV-backed capture when the library is built without
  OpenCV. This is needed because Circle-CI does not have a copy of Open
  CV installed.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vid

import (
	"github.com/pkg/errors"

	"github.com/ausocean/pix/codec"
	"github.com/ausocean/pix/pixel"
)

// Decoder is a no-op stand-in used when building without OpenCV.
type Decoder struct{}

// NewDecoder always fails in builds without OpenCV support.
func NewDecoder(path string, opts *codec.LoadOptions) (*Decoder, error) {
	return nil, errors.Wrap(codec.ErrNotImplemented, "built without cv support")
}

// NextFrame implements codec.Decoder.
func (d *Decoder) NextFrame() (*pixel.Image, error) {
	return nil, errors.Wrap(codec.ErrNotImplemented, "built without cv support")
}

// ReadFrame implements codec.Decoder.
func (d *Decoder) ReadFrame(im *pixel.Image) error {
	return errors.Wrap(codec.ErrNotImplemented, "built without cv support")
}

// Close implements codec.Decoder.
func (d *Decoder) Close() error { return nil }
