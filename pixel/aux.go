/*
NAME
  aux.go

DESCRIPTION
  aux.go provides the auxiliary image entities: ICC profiles, resolution,
  orientation and the source-image descriptor.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

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

// ICCProfile is an opaque ICC blob. Profiles are carried, never applied.
type ICCProfile struct {
	Data []byte
}

// Validate checks that a present profile is non-empty.
func (p *ICCProfile) Validate() error {
	if len(p.Data) == 0 {
		return errors.New("pixel: empty ICC profile")
	}
	return nil
}

// Copy returns a deep copy of the profile.
func (p *ICCProfile) Copy() *ICCProfile {
	if p == nil {
		return nil
	}
	d := make([]byte, len(p.Data))
	copy(d, p.Data)
	return &ICCProfile{Data: d}
}

// ResolutionUnit is the unit of a Resolution.
type ResolutionUnit int

const (
	ResolutionUnitUnknown ResolutionUnit = iota
	ResolutionUnitInch
	ResolutionUnitMeter
	ResolutionUnitCentimeter
)

// Resolution is the physical pixel density of an image.
type Resolution struct {
	Unit ResolutionUnit
	X, Y float64
}

// Orientation describes how the decoded pixels relate to the scene.
type Orientation int

const (
	OrientationNormal Orientation = iota
	OrientationRotated90
	OrientationRotated180
	OrientationRotated270
	OrientationMirroredHorizontally
	OrientationMirroredVertically
	OrientationMirroredHorizontallyRotated90
	OrientationMirroredHorizontallyRotated270
)

// Compression identifies the compression of the source stream a frame was
// decoded from. Informational only.
type Compression int

const (
	CompressionUnknown Compression = iota
	CompressionNone
	CompressionRLE
	CompressionDeflate
	CompressionJPEG
	CompressionHEVC
	CompressionAV1
	CompressionRAW
)

// ChromaSubsampling describes the subsampling of a YUV source.
type ChromaSubsampling int

const (
	ChromaSubsampling444 ChromaSubsampling = iota
	ChromaSubsampling422
	ChromaSubsampling420
	ChromaSubsampling400
)

// SourceImage describes the original form of a decoded frame before any
// output conversion. It never constrains the decoded pixel buffer.
type SourceImage struct {
	Format      Format
	Compression Compression
	Orientation Orientation
	Interlaced  bool
	Chroma      ChromaSubsampling

	// Special holds format-specific read-only facts deposited by codecs,
	// such as "video-codec" or "xpm-hotspot-x".
	Special meta.Map
}

// Copy returns a deep copy of the descriptor.
func (s *SourceImage) Copy() *SourceImage {
	if s == nil {
		return nil
	}
	out := *s
	out.Special = s.Special.Copy()
	return &out
}
