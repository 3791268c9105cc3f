/*
NAME
  heif.go

DESCRIPTION
  heif.go provides the codec descriptor and the error mapping for the
  HEIF glue codec. The libheif-backed implementation lives in decode.go
  behind the withheif build tag; decode_stub.go supplies a stub when
  libheif is not available.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package heif adapts libheif to the codec contract for HEIC/HEIF still
// images.
package heif

import (
	"github.com/ausocean/pix/codec"
	"github.com/ausocean/pix/pixel"
	"github.com/ausocean/pix/stream"
)

const pkg = "heif: "

// Special property keys deposited on loaded frames.
const (
	PropHasDepth  = "heif-has-depth"
	PropIsPrimary = "heif-is-primary"
)

// Tuning keys recognised on save by the underlying encoder. They are
// accepted here so option maps can be validated uniformly even though
// this build only wraps the decode side.
const (
	KnobPreset       = "heif-preset"
	KnobTune         = "heif-tune"
	KnobTUIntraDepth = "heif-tu-intra-depth"
	KnobComplexity   = "heif-complexity"
	KnobChroma       = "heif-chroma"
	KnobThreads      = "heif-threads"
)

func init() {
	codec.Register(Info())
}

// Info returns the HEIF codec descriptor.
func Info() *codec.Info {
	return &codec.Info{
		Name:        "heif",
		Version:     "1.0.0",
		Description: "High Efficiency Image Format",
		Extensions:  []string{"heif", "heic", "avif"},
		MIMETypes:   []string{"image/heif", "image/heic", "image/avif"},
		Magic: []codec.Magic{
			{Offset: 4, Pattern: []byte("ftypheic")},
			{Offset: 4, Pattern: []byte("ftypheix")},
			{Offset: 4, Pattern: []byte("ftypmif1")},
			{Offset: 4, Pattern: []byte("ftypavif")},
		},
		LoadFeatures: codec.LoadFeatures{
			Formats:  []pixel.Format{pixel.BPP24RGB, pixel.BPP32RGBA},
			Features: codec.FeatureStatic | codec.FeatureMultiPaged | codec.FeatureICCP,
		},
		SaveFeatures: codec.SaveFeatures{
			TuningKeys: []string{
				KnobPreset, KnobTune, KnobTUIntraDepth, KnobComplexity,
				KnobChroma, KnobThreads,
			},
		},
		OpenDecoder: func(s stream.Stream, opts *codec.LoadOptions) (codec.Decoder, error) {
			return NewDecoder(s, opts)
		},
	}
}
