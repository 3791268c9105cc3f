/*
NAME
  fli.go

DESCRIPTION
  fli.go provides decoding and encoding of Autodesk FLIC animations (FLI
  and FLC). Frames are 8-bit indexed deltas against the previous frame;
  fli.go owns the session state machine and frame bookkeeping while
  chunks.go implements the individual chunk codecs.

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

// Package fli implements the Autodesk FLIC animation codec.
package fli

import (
	"io"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	"github.com/ausocean/pix/codec"
	"github.com/ausocean/pix/pixel"
	"github.com/ausocean/pix/stream"
)

const pkg = "fli: "

// File-level constants.
const (
	magicFLI = 0xAF11
	magicFLC = 0xAF12

	frameMagic = 0xF1FA

	fileHeaderSize  = 128
	frameHeaderSize = 16
	chunkHeaderSize = 6

	paletteColors = 256

	// FLI speed is in 1/70 s ticks; FLC speed is in milliseconds.
	fliTickHz = 70

	// The dimensions that mark a file as classic FLI on save.
	fliWidth  = 320
	fliHeight = 200

	defaultAspectX = 6
	defaultAspectY = 5
)

// Chunk types.
const (
	chunkColor256 = 4
	chunkSS2      = 7
	chunkColor64  = 11
	chunkLC       = 12
	chunkBlack    = 13
	chunkBRUN     = 15
	chunkCopy     = 16
	chunkPStamp   = 18
	chunkDTABRun  = 25
	chunkDTACopy  = 26
	chunkDTALC    = 27
)

// fileHeader is the 128-byte FLIC file header. Integer fields are
// little-endian on the wire.
type fileHeader struct {
	size    uint32
	magic   uint16
	frames  uint16
	width   uint16
	height  uint16
	depth   uint16
	flags   uint16
	speed   uint32
	created uint32
	updated uint32
	aspectX uint16
	aspectY uint16
	oframe1 uint32
	oframe2 uint32
}

func readFileHeader(s stream.Stream) (fileHeader, error) {
	var buf [fileHeaderSize]byte
	if err := stream.StrictRead(s, buf[:]); err != nil {
		return fileHeader{}, err
	}
	le := func(off int) uint16 { return uint16(buf[off]) | uint16(buf[off+1])<<8 }
	le32 := func(off int) uint32 {
		return uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16 | uint32(buf[off+3])<<24
	}
	return fileHeader{
		size:    le32(0),
		magic:   le(4),
		frames:  le(6),
		width:   le(8),
		height:  le(10),
		depth:   le(12),
		flags:   le(14),
		speed:   le32(16),
		created: le32(22),
		updated: le32(30),
		aspectX: le(38),
		aspectY: le(40),
		oframe1: le32(80),
		oframe2: le32(84),
	}, nil
}

func (h fileHeader) write(s stream.Stream) error {
	var buf [fileHeaderSize]byte
	put16 := func(off int, v uint16) { buf[off] = byte(v); buf[off+1] = byte(v >> 8) }
	put32 := func(off int, v uint32) {
		buf[off] = byte(v)
		buf[off+1] = byte(v >> 8)
		buf[off+2] = byte(v >> 16)
		buf[off+3] = byte(v >> 24)
	}
	put32(0, h.size)
	put16(4, h.magic)
	put16(6, h.frames)
	put16(8, h.width)
	put16(10, h.height)
	put16(12, h.depth)
	put16(14, h.flags)
	put32(16, h.speed)
	put32(22, h.created)
	put32(30, h.updated)
	put16(38, h.aspectX)
	put16(40, h.aspectY)
	put32(80, h.oframe1)
	put32(84, h.oframe2)
	return stream.StrictWrite(s, buf[:])
}

// delayMS converts the header speed to a per-frame delay in milliseconds.
func (h fileHeader) delayMS() int {
	if h.magic == magicFLI {
		return int(h.speed) * 1000 / fliTickHz
	}
	return int(h.speed)
}

// Decoder is a FLIC load session.
type Decoder struct {
	s    stream.Stream
	log  logging.Logger
	sess codec.Session

	hdr     fileHeader
	frame   int
	cur     []byte // Current frame indices, width*height.
	prev    []byte // Previous frame indices for delta chunks.
	palette [paletteColors * 3]byte
}

// NewDecoder opens a FLIC load session on s, validating the file header.
// The stream must be seekable.
func NewDecoder(s stream.Stream, opts *codec.LoadOptions) (*Decoder, error) {
	if opts == nil {
		opts = &codec.LoadOptions{}
	}
	log := opts.Logger()

	if _, err := s.Seek(0, io.SeekCurrent); err != nil {
		return nil, errors.Wrap(stream.ErrNotSeekable, "fli requires a seekable stream")
	}

	hdr, err := readFileHeader(s)
	if err != nil {
		return nil, errors.Wrap(err, "reading file header")
	}
	if hdr.magic != magicFLI && hdr.magic != magicFLC {
		log.Error(pkg+"invalid magic", "magic", hdr.magic)
		return nil, errors.Wrapf(codec.ErrInvalidImage, "magic 0x%04X", hdr.magic)
	}
	if hdr.depth != 8 {
		log.Error(pkg+"unsupported depth", "depth", hdr.depth)
		return nil, errors.Wrapf(codec.ErrUnsupportedBitDepth, "depth %d", hdr.depth)
	}
	if hdr.width == 0 || hdr.height == 0 {
		return nil, errors.Wrapf(codec.ErrIncorrectDimensions, "%dx%d", hdr.width, hdr.height)
	}

	n := int(hdr.width) * int(hdr.height)
	d := &Decoder{
		s:    s,
		log:  log,
		hdr:  hdr,
		cur:  make([]byte, n),
		prev: make([]byte, n),
	}
	log.Debug(pkg+"opened", "format", d.formatName(), "width", hdr.width, "height", hdr.height,
		"frames", hdr.frames, "speed", hdr.speed)
	return d, nil
}

func (d *Decoder) formatName() string {
	if d.hdr.magic == magicFLI {
		return "FLI"
	}
	return "FLC"
}

// NextFrame implements codec.Decoder. The returned shell carries a 256
// color palette skeleton filled during ReadFrame, since palette chunks are
// interleaved with pixel chunks.
func (d *Decoder) NextFrame() (*pixel.Image, error) {
	if err := d.sess.Seek(); err != nil {
		return nil, err
	}
	if d.frame >= int(d.hdr.frames) {
		d.sess.Finish()
		return nil, codec.ErrNoMoreFrames
	}

	im, err := pixel.NewShell(int(d.hdr.width), int(d.hdr.height), pixel.BPP8Indexed)
	if err != nil {
		return nil, err
	}
	im.Palette, err = pixel.NewPalette(pixel.BPP24RGB, paletteColors)
	if err != nil {
		return nil, err
	}
	im.Delay = d.hdr.delayMS()
	im.Source = &pixel.SourceImage{
		Format:      pixel.BPP8Indexed,
		Compression: pixel.CompressionRLE,
	}
	return im, nil
}

// ReadFrame implements codec.Decoder, decoding the next frame's chunks
// into im's pixel buffer.
func (d *Decoder) ReadFrame(im *pixel.Image) error {
	if err := d.sess.Frame(); err != nil {
		return err
	}
	if im.Format != pixel.BPP8Indexed || im.Width != int(d.hdr.width) || im.Height != int(d.hdr.height) {
		return errors.Wrap(codec.ErrIncorrectDimensions, "frame shell does not match file header")
	}
	if im.Pixels == nil {
		return errors.New("fli: frame pixel buffer not allocated")
	}

	frameStart, err := d.s.Tell()
	if err != nil {
		return err
	}

	size, err := stream.ReadU32LE(d.s)
	if err != nil {
		return errors.Wrap(err, "reading frame header")
	}
	magic, err := stream.ReadU16LE(d.s)
	if err != nil {
		return errors.Wrap(err, "reading frame header")
	}
	if magic != frameMagic {
		d.log.Error(pkg+"invalid frame magic", "frame", d.frame, "magic", magic)
		return errors.Wrapf(codec.ErrBrokenImage, "frame magic 0x%04X", magic)
	}
	chunks, err := stream.ReadU16LE(d.s)
	if err != nil {
		return errors.Wrap(err, "reading frame header")
	}
	if _, err := d.s.Seek(frameStart+frameHeaderSize, io.SeekStart); err != nil {
		return err
	}

	// Deltas apply on top of the previous frame.
	copy(d.cur, d.prev)

	for c := 0; c < int(chunks); c++ {
		if err := d.readChunk(); err != nil {
			return errors.Wrapf(err, "frame %d chunk %d", d.frame, c)
		}
	}

	// The frame size is authoritative for the next frame position.
	if _, err := d.s.Seek(frameStart+int64(size), io.SeekStart); err != nil {
		return err
	}

	w := int(d.hdr.width)
	for y := 0; y < im.Height; y++ {
		copy(im.Pixels[y*im.BytesPerLine:], d.cur[y*w:(y+1)*w])
	}
	copy(d.prev, d.cur)
	copy(im.Palette.Data, d.palette[:])

	d.frame++
	return nil
}

// readChunk reads one chunk header, dispatches on its type, and restores
// the stream to the chunk boundary. Real-world FLICs pad chunks, so a
// mismatched position warns and seeks rather than failing.
func (d *Decoder) readChunk() error {
	chunkStart, err := d.s.Tell()
	if err != nil {
		return err
	}
	size, err := stream.ReadU32LE(d.s)
	if err != nil {
		return errors.Wrap(err, "reading chunk header")
	}
	typ, err := stream.ReadU16LE(d.s)
	if err != nil {
		return errors.Wrap(err, "reading chunk header")
	}
	if size < chunkHeaderSize {
		return errors.Wrapf(codec.ErrBrokenImage, "chunk size %d", size)
	}

	w, h := int(d.hdr.width), int(d.hdr.height)
	switch typ {
	case chunkColor256:
		err = decodeColorChunk(d.s, d.palette[:], false)
	case chunkColor64:
		err = decodeColorChunk(d.s, d.palette[:], true)
	case chunkBRUN:
		err = decodeBRUN(d.s, d.cur, w, h)
	case chunkLC:
		err = decodeLC(d.s, d.cur, w, h)
	case chunkSS2:
		err = decodeSS2(d.s, d.cur, w, h)
	case chunkCopy:
		err = stream.StrictRead(d.s, d.cur)
	case chunkBlack:
		for i := range d.cur {
			d.cur[i] = 0
		}
	case chunkPStamp:
		// Postage stamp thumbnails are skipped.
	case chunkDTABRun, chunkDTACopy, chunkDTALC:
		d.log.Warning(pkg+"skipping DTA chunk", "type", typ)
	default:
		d.log.Warning(pkg+"skipping unknown chunk", "type", typ, "size", size)
	}
	if err != nil {
		return err
	}

	pos, err := d.s.Tell()
	if err != nil {
		return err
	}
	if expect := chunkStart + int64(size); pos != expect {
		d.log.Warning(pkg+"chunk position mismatch", "at", pos, "want", expect)
		if _, err := d.s.Seek(expect, io.SeekStart); err != nil {
			return err
		}
	}
	return nil
}

// Close implements codec.Decoder.
func (d *Decoder) Close() error {
	d.sess.Finish()
	d.cur = nil
	d.prev = nil
	return nil
}

func init() {
	codec.Register(Info())
}

// Info returns the FLIC codec descriptor.
func Info() *codec.Info {
	return &codec.Info{
		Name:        "fli",
		Version:     "1.1.0",
		Description: "Autodesk FLIC animation",
		Extensions:  []string{"fli", "flc"},
		MIMETypes:   []string{"image/fli", "image/flc"},
		Magic: []codec.Magic{
			// The 16-bit magic follows the 32-bit size field.
			{Offset: 4, Pattern: []byte{0x11, 0xAF}},
			{Offset: 4, Pattern: []byte{0x12, 0xAF}},
		},
		LoadFeatures: codec.LoadFeatures{
			Formats:  []pixel.Format{pixel.BPP8Indexed},
			Features: codec.FeatureStatic | codec.FeatureAnimated,
		},
		SaveFeatures: codec.SaveFeatures{
			Formats:  []pixel.Format{pixel.BPP8Indexed},
			Features: codec.FeatureStatic | codec.FeatureAnimated,
		},
		OpenDecoder: func(s stream.Stream, opts *codec.LoadOptions) (codec.Decoder, error) {
			return NewDecoder(s, opts)
		},
		OpenEncoder: func(s stream.Stream, opts *codec.SaveOptions) (codec.Encoder, error) {
			return NewEncoder(s, opts)
		},
	}
}
