/*
NAME
  codec.go

DESCRIPTION
  codec.go provides the contract every image codec implements: the decoder
  and encoder session interfaces, their options, the feature flags and the
  codec descriptor consumed by the registry.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Alan Noble <alan@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package codec defines the streaming codec contract and the dispatcher
// that routes a stream to the codec able to handle it. A codec session is
// frame-at-a-time: open a decoder or encoder on a stream, seek to the next
// frame, transfer its pixels, and close.
package codec

import (
	"github.com/ausocean/utils/logging"

	"github.com/ausocean/pix/meta"
	"github.com/ausocean/pix/pixel"
	"github.com/ausocean/pix/stream"
)

// Decoder is a load session. The sequence of calls is NextFrame, ReadFrame,
// NextFrame, ... Close; calls out of order fail with ErrState. Close may be
// called from any state, releases all session resources and is idempotent.
type Decoder interface {
	// NextFrame seeks to the next frame and returns its shell: an image
	// whose shape, palette skeleton, metadata and source descriptor are
	// populated but whose pixel buffer is not. ErrNoMoreFrames reports a
	// clean end of the sequence.
	NextFrame() (*pixel.Image, error)

	// ReadFrame fills the pixel buffer of im, which must be the allocated
	// shell returned by the preceding NextFrame.
	ReadFrame(im *pixel.Image) error

	// Close releases the session. The stream remains open; it belongs to
	// the caller.
	Close() error
}

// Encoder is a save session, mirroring Decoder. NextFrame validates the
// prepared image against codec capabilities before any pixel bytes are
// written; WriteFrame writes them.
type Encoder interface {
	NextFrame(im *pixel.Image) error
	WriteFrame(im *pixel.Image) error
	Close() error
}

// Features describes what a codec can do.
type Features uint32

const (
	// FeatureStatic marks a codec able to carry single still frames.
	FeatureStatic Features = 1 << iota

	// FeatureAnimated marks frames carrying presentation delays.
	FeatureAnimated

	// FeatureMultiPaged marks independent pages without delays.
	FeatureMultiPaged

	// FeatureMeta marks metadata support.
	FeatureMeta

	// FeatureICCP marks ICC profile support.
	FeatureICCP

	// FeatureInterlaced marks interlaced source support.
	FeatureInterlaced
)

// LoadOptions configures a decoder session. The zero value asks for the
// codec's preferred output format with no tuning.
type LoadOptions struct {
	// Log receives codec diagnostics. A nil logger discards them.
	Log logging.Logger

	// Output is the requested pixel format of decoded frames.
	// pixel.FormatSource asks for whatever the source yields natively.
	Output pixel.Format

	// Tuning carries codec-specific knobs. Unknown keys are ignored;
	// malformed values are logged and ignored.
	Tuning meta.Map
}

// SaveOptions configures an encoder session.
type SaveOptions struct {
	Log    logging.Logger
	Tuning meta.Map
}

// Logger returns a usable logger for the options.
func (o *LoadOptions) Logger() logging.Logger { return orNoop(o.Log) }

// Logger returns a usable logger for the options.
func (o *SaveOptions) Logger() logging.Logger { return orNoop(o.Log) }

// LoadFeatures describes a codec's load side.
type LoadFeatures struct {
	Formats    []pixel.Format
	TuningKeys []string
	Features   Features
}

// SaveFeatures describes a codec's save side.
type SaveFeatures struct {
	Formats    []pixel.Format
	TuningKeys []string
	Features   Features
}

// Magic is a byte pattern identifying a format. Pattern bytes whose Mask
// byte is zero are wildcards. A nil Mask matches every Pattern byte
// exactly.
type Magic struct {
	Offset  int
	Pattern []byte
	Mask    []byte
}

// Matches reports whether buf, read from the start of a stream, matches m.
func (m Magic) Matches(buf []byte) bool {
	if m.Offset+len(m.Pattern) > len(buf) {
		return false
	}
	for i, p := range m.Pattern {
		if m.Mask != nil && m.Mask[i] == 0 {
			continue
		}
		if buf[m.Offset+i] != p {
			return false
		}
	}
	return true
}

// Info describes a registered codec.
type Info struct {
	Name        string
	Version     string
	Description string

	Extensions []string
	MIMETypes  []string
	Magic      []Magic

	LoadFeatures LoadFeatures
	SaveFeatures SaveFeatures

	// OpenDecoder and OpenEncoder start sessions on a stream. Either may
	// be nil for one-directional codecs.
	OpenDecoder func(s stream.Stream, opts *LoadOptions) (Decoder, error)
	OpenEncoder func(s stream.Stream, opts *SaveOptions) (Encoder, error)
}

// noopLogger discards everything.
type noopLogger struct{}

func (noopLogger) SetLevel(int8)                    {}
func (noopLogger) Log(int8, string, ...interface{}) {}
func (noopLogger) Debug(string, ...interface{})     {}
func (noopLogger) Info(string, ...interface{})      {}
func (noopLogger) Warning(string, ...interface{})   {}
func (noopLogger) Error(string, ...interface{})     {}
func (noopLogger) Fatal(string, ...interface{})     {}

func orNoop(l logging.Logger) logging.Logger {
	if l == nil {
		return noopLogger{}
	}
	return l
}
