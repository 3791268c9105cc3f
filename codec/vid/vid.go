/*
NAME
  vid.go

DESCRIPTION
  vid.go provides the codec descriptor and shared declarations for the
  video-frame glue codec. The OpenCV-backed implementation lives in
  capture.go behind the withcv build tag; capture_circleci.go supplies a
  stub when OpenCV is not available.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package vid adapts container video files (MP4, AVI, MKV, MOV) to the
// codec contract, yielding decoded frames as images. Decoding is
// delegated to OpenCV's capture backend; the package is an adapter, not a
// video decoder.
package vid

import (
	"github.com/ausocean/pix/codec"
	"github.com/ausocean/pix/pixel"
)

const pkg = "vid: "

// Tuning keys recognised by the capture backend. Unknown keys are
// ignored; malformed values are logged and ignored.
const (
	KnobThreads          = "video-threads"
	KnobLowResolution    = "video-low-resolution"
	KnobSkipFrame        = "video-skip-frame"
	KnobSkipIDCT         = "video-skip-idct"
	KnobSkipLoopFilter   = "video-skip-loop-filter"
	KnobErrorConcealment = "video-error-concealment"
)

// Special property keys deposited on loaded frames.
const (
	PropCodec      = "video-codec"
	PropBitrate    = "video-bitrate"
	PropFramerate  = "video-framerate"
	PropColorSpace = "video-color-space"
)

func init() {
	codec.Register(Info())
}

// Info returns the video glue descriptor. Video sources are opened by
// path with NewDecoder; the descriptor carries no stream constructors
// because the capture backend owns its own demuxing I/O.
func Info() *codec.Info {
	return &codec.Info{
		Name:        "video",
		Version:     "1.0.0",
		Description: "Video frames via the capture backend",
		Extensions:  []string{"mp4", "avi", "mkv", "mov", "webm"},
		MIMETypes:   []string{"video/mp4", "video/x-msvideo", "video/x-matroska", "video/quicktime", "video/webm"},
		Magic: []codec.Magic{
			// MP4/MOV ftyp box.
			{Offset: 4, Pattern: []byte("ftyp")},
			// AVI RIFF container.
			{Pattern: []byte("RIFF"), Mask: []byte{0xFF, 0xFF, 0xFF, 0xFF}},
			// Matroska/WebM EBML.
			{Pattern: []byte{0x1A, 0x45, 0xDF, 0xA3}},
		},
		LoadFeatures: codec.LoadFeatures{
			Formats: []pixel.Format{pixel.BPP24RGB},
			TuningKeys: []string{
				KnobThreads, KnobLowResolution, KnobSkipFrame,
				KnobSkipIDCT, KnobSkipLoopFilter, KnobErrorConcealment,
			},
			Features: codec.FeatureAnimated,
		},
	}
}
