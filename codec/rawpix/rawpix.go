/*
NAME
  rawpix.go

DESCRIPTION
  rawpix.go provides the codec descriptor and shared declarations for the
  camera RAW glue codec. The libraw-backed implementation lives in
  libraw.go behind the withraw build tag; libraw_stub.go supplies a stub
  when libraw is not available.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package rawpix adapts libraw to the codec contract for camera RAW
// images.
package rawpix

import (
	"github.com/ausocean/pix/codec"
	"github.com/ausocean/pix/pixel"
	"github.com/ausocean/pix/stream"
)

const pkg = "rawpix: "

// Tuning keys forwarded to the libraw processing parameters.
const (
	KnobBrightness         = "raw-brightness"
	KnobHighlight          = "raw-highlight"
	KnobOutputColor        = "raw-output-color"
	KnobOutputBPS          = "raw-output-bits-per-sample"
	KnobDemosaic           = "raw-demosaic"
	KnobFourColorRGB       = "raw-four-color-rgb"
	KnobDCBIterations      = "raw-dcb-iterations"
	KnobDCBEnhance         = "raw-dcb-enhance-focal-length"
	KnobCameraWhiteBalance = "raw-use-camera-white-balance"
	KnobAutoWhiteBalance   = "raw-use-auto-white-balance"
	KnobUserMultiplier     = "raw-user-multiplier"
	KnobAutoBrightness     = "raw-auto-brightness"
	KnobHalfSize           = "raw-half-size"
	KnobFujiRotate         = "raw-use-fuji-rotate"
	KnobNoInterpolation    = "raw-no-interpolation"
	KnobMedianPasses       = "raw-median-passes"
	KnobGamma              = "raw-gamma"
)

// Special property keys deposited on loaded frames.
const (
	PropISO      = "raw-iso"
	PropShutter  = "raw-shutter"
	PropAperture = "raw-aperture"
)

func init() {
	codec.Register(Info())
}

// Info returns the RAW codec descriptor. RAW container magic varies per
// vendor, so dispatch is primarily by extension.
func Info() *codec.Info {
	return &codec.Info{
		Name:        "raw",
		Version:     "1.0.0",
		Description: "Camera RAW via libraw",
		Extensions:  []string{"cr2", "cr3", "nef", "arw", "dng", "raf", "orf", "rw2"},
		MIMETypes:   []string{"image/x-canon-cr2", "image/x-nikon-nef", "image/x-sony-arw", "image/x-adobe-dng"},
		Magic: []codec.Magic{
			// TIFF-based RAW containers, both byte orders.
			{Pattern: []byte{0x49, 0x49, 0x2A, 0x00}},
			{Pattern: []byte{0x4D, 0x4D, 0x00, 0x2A}},
		},
		LoadFeatures: codec.LoadFeatures{
			Formats: []pixel.Format{pixel.BPP24RGB, pixel.BPP48RGB},
			TuningKeys: []string{
				KnobBrightness, KnobHighlight, KnobOutputColor, KnobOutputBPS,
				KnobDemosaic, KnobFourColorRGB, KnobDCBIterations, KnobDCBEnhance,
				KnobCameraWhiteBalance, KnobAutoWhiteBalance, KnobUserMultiplier,
				KnobAutoBrightness, KnobHalfSize, KnobFujiRotate,
				KnobNoInterpolation, KnobMedianPasses, KnobGamma,
			},
			Features: codec.FeatureStatic,
		},
		OpenDecoder: func(s stream.Stream, opts *codec.LoadOptions) (codec.Decoder, error) {
			return NewDecoder(s, opts)
		},
	}
}
