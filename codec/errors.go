/*
NAME
  errors.go

DESCRIPTION
  errors.go provides the closed status taxonomy shared by all codecs.
  Stream-level I/O statuses live in the stream package; everything else is
  here. Codecs wrap these sentinels with context and callers match with
  errors.Is or errors.Cause.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package codec

import "github.com/pkg/errors"

// Format and structural errors.
var (
	ErrInvalidImage        = errors.New("codec: invalid image")
	ErrBrokenImage         = errors.New("codec: broken image")
	ErrIncorrectDimensions = errors.New("codec: incorrect image dimensions")
	ErrUnsupportedFormat   = errors.New("codec: unsupported format")
)

// Capability errors.
var (
	ErrUnsupportedPixelFormat = errors.New("codec: unsupported pixel format")
	ErrUnsupportedBitDepth    = errors.New("codec: unsupported bit depth")
	ErrUnsupportedCompression = errors.New("codec: unsupported compression")
	ErrUnsupportedProperty    = errors.New("codec: unsupported image property")
)

// Resource errors.
var (
	ErrMissingPalette = errors.New("codec: missing palette")
	ErrNotImplemented = errors.New("codec: not implemented")
)

// Control statuses.
var (
	// ErrNoMoreFrames reports a clean end of the frame sequence.
	ErrNoMoreFrames = errors.New("codec: no more frames")

	// ErrState reports a codec operation invoked out of order.
	ErrState = errors.New("codec: operation out of order")
)

// ErrUnderlyingCodec reports a failure inside a wrapped third-party
// library.
var ErrUnderlyingCodec = errors.New("codec: underlying codec failure")

// ErrCodecNotFound reports that no registered codec matched.
var ErrCodecNotFound = errors.New("codec: no matching codec")
