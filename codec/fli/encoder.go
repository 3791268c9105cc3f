/*
NAME
  encoder.go

DESCRIPTION
  encoder.go provides the FLIC save session. Headers are written as
  placeholders and back-patched once sizes and frame counts are known,
  mirroring how the decoder treats sizes as authoritative.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package fli

import (
	"io"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	"github.com/ausocean/pix/codec"
	"github.com/ausocean/pix/pixel"
	"github.com/ausocean/pix/stream"
)

// Encoder is a FLIC save session.
type Encoder struct {
	s    stream.Stream
	log  logging.Logger
	sess codec.Session

	hdr        fileHeader
	hdrWritten bool
	frames     int
	prev       []byte
}

// NewEncoder opens a FLIC save session on s. The stream must be seekable
// for header back-patching.
func NewEncoder(s stream.Stream, opts *codec.SaveOptions) (*Encoder, error) {
	if opts == nil {
		opts = &codec.SaveOptions{}
	}
	if _, err := s.Seek(0, io.SeekCurrent); err != nil {
		return nil, errors.Wrap(stream.ErrNotSeekable, "fli requires a seekable stream")
	}
	return &Encoder{s: s, log: opts.Logger()}, nil
}

// NextFrame implements codec.Encoder, validating im against codec
// capabilities. The first frame fixes dimensions, the FLI/FLC choice and
// the playback speed.
func (e *Encoder) NextFrame(im *pixel.Image) error {
	if err := e.sess.Seek(); err != nil {
		return err
	}
	if im.Format != pixel.BPP8Indexed {
		return errors.Wrapf(codec.ErrUnsupportedPixelFormat, "%v", im.Format)
	}
	if im.Palette == nil {
		return codec.ErrMissingPalette
	}
	if im.Palette.Count != paletteColors || im.Palette.Format != pixel.BPP24RGB {
		return errors.Wrapf(codec.ErrUnsupportedProperty, "palette of %d %v entries", im.Palette.Count, im.Palette.Format)
	}

	if e.hdrWritten {
		if im.Width != int(e.hdr.width) || im.Height != int(e.hdr.height) {
			return errors.Wrapf(codec.ErrIncorrectDimensions, "frame %dx%d in %dx%d animation",
				im.Width, im.Height, e.hdr.width, e.hdr.height)
		}
		return nil
	}

	isFLI := im.Width == fliWidth && im.Height == fliHeight
	e.hdr = fileHeader{
		magic:   magicFLC,
		width:   uint16(im.Width),
		height:  uint16(im.Height),
		depth:   8,
		aspectX: defaultAspectX,
		aspectY: defaultAspectY,
	}
	if isFLI {
		e.hdr.magic = magicFLI
		e.hdr.speed = uint32(im.Delay) * fliTickHz / 1000
		if e.hdr.speed == 0 {
			e.hdr.speed = 5
		}
	} else {
		if im.Delay > 0 {
			e.hdr.speed = uint32(im.Delay)
		} else {
			e.hdr.speed = 70
		}
	}

	// Placeholder header; size and frame count are patched on Close.
	if err := e.hdr.write(e.s); err != nil {
		return errors.Wrap(err, "writing file header")
	}
	e.hdrWritten = true
	e.prev = make([]byte, im.Width*im.Height)
	e.log.Debug(pkg+"began", "format", map[bool]string{true: "FLI", false: "FLC"}[isFLI],
		"width", im.Width, "height", im.Height, "speed", e.hdr.speed)
	return nil
}

// WriteFrame implements codec.Encoder. The first frame is written as a
// full BRUN image, subsequent frames as COPY chunks; both are preceded by
// a COLOR256 palette chunk.
func (e *Encoder) WriteFrame(im *pixel.Image) error {
	if err := e.sess.Frame(); err != nil {
		return err
	}
	if im.Pixels == nil {
		return errors.New("fli: frame has no pixel buffer")
	}

	w, h := int(e.hdr.width), int(e.hdr.height)
	packed := make([]byte, w*h)
	for y := 0; y < h; y++ {
		copy(packed[y*w:(y+1)*w], im.Pixels[y*im.BytesPerLine:])
	}

	frameStart, err := e.s.Tell()
	if err != nil {
		return err
	}
	// Placeholder frame header.
	var blank [frameHeaderSize]byte
	if err := stream.StrictWrite(e.s, blank[:]); err != nil {
		return err
	}

	if err := e.writeChunk(chunkColor256, func() error {
		return encodeColor256(e.s, im.Palette.Data)
	}); err != nil {
		return err
	}

	pixelChunk := uint16(chunkCopy)
	write := func() error { return stream.StrictWrite(e.s, packed) }
	if e.frames == 0 {
		pixelChunk = chunkBRUN
		write = func() error { return encodeBRUN(e.s, packed, w, h) }
	}
	if err := e.writeChunk(pixelChunk, write); err != nil {
		return err
	}

	// Patch the frame header now the size is known.
	end, err := e.s.Tell()
	if err != nil {
		return err
	}
	if _, err := e.s.Seek(frameStart, io.SeekStart); err != nil {
		return err
	}
	if err := stream.WriteU32LE(e.s, uint32(end-frameStart)); err != nil {
		return err
	}
	if err := stream.WriteU16LE(e.s, frameMagic); err != nil {
		return err
	}
	if err := stream.WriteU16LE(e.s, 2); err != nil { // Chunk count.
		return err
	}
	if _, err := e.s.Seek(end, io.SeekStart); err != nil {
		return err
	}

	copy(e.prev, packed)
	e.frames++
	return nil
}

// writeChunk writes a chunk header placeholder, runs body, then patches
// the chunk size.
func (e *Encoder) writeChunk(typ uint16, body func() error) error {
	start, err := e.s.Tell()
	if err != nil {
		return err
	}
	if err := stream.WriteU32LE(e.s, 0); err != nil {
		return err
	}
	if err := stream.WriteU16LE(e.s, typ); err != nil {
		return err
	}
	if err := body(); err != nil {
		return err
	}
	end, err := e.s.Tell()
	if err != nil {
		return err
	}
	if _, err := e.s.Seek(start, io.SeekStart); err != nil {
		return err
	}
	if err := stream.WriteU32LE(e.s, uint32(end-start)); err != nil {
		return err
	}
	_, err = e.s.Seek(end, io.SeekStart)
	return err
}

// Close implements codec.Encoder, patching the file header with the final
// size and frame count.
func (e *Encoder) Close() error {
	if e.sess.Done() {
		return nil
	}
	e.sess.Finish()
	if !e.hdrWritten {
		return nil
	}

	end, err := e.s.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	e.hdr.size = uint32(end)
	e.hdr.frames = uint16(e.frames)
	e.hdr.oframe1 = fileHeaderSize
	if _, err := e.s.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err := e.hdr.write(e.s); err != nil {
		return errors.Wrap(err, "patching file header")
	}
	if _, err := e.s.Seek(end, io.SeekStart); err != nil {
		return err
	}
	return e.s.Flush()
}
