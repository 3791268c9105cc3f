/*
NAME
  xwd.go

DESCRIPTION
  xwd.go implements the X Window Dump codec: the 100-byte version-7
  header in either byte order, PseudoColor colormaps, DirectColor and
  TrueColor channel masks, and a ZPixmap truecolor writer.

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

// Package xwd implements the X Window Dump image codec.
package xwd

import (
	"encoding/binary"
	"math/bits"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	"github.com/ausocean/pix/codec"
	"github.com/ausocean/pix/pixel"
	"github.com/ausocean/pix/stream"
)

const pkg = "xwd: "

const (
	headerSize  = 100
	fileVersion = 7

	// Colormap entries are 12 bytes: pixel, red, green, blue, flags, pad.
	colorSize = 12
)

// X visual classes.
const (
	visualStaticGray = iota
	visualGrayScale
	visualStaticColor
	visualPseudoColor
	visualTrueColor
	visualDirectColor
)

// header is the XWD file header: 25 32-bit fields.
type header struct {
	headerSize   uint32
	fileVersion  uint32
	pixmapFormat uint32
	pixmapDepth  uint32
	pixmapWidth  uint32
	pixmapHeight uint32
	xOffset      uint32
	byteOrder    uint32
	bitmapUnit   uint32
	bitmapOrder  uint32
	bitmapPad    uint32
	bitsPerPixel uint32
	bytesPerLine uint32
	visualClass  uint32
	redMask      uint32
	greenMask    uint32
	blueMask     uint32
	bitsPerRGB   uint32
	cmapEntries  uint32
	ncolors      uint32
	windowWidth  uint32
	windowHeight uint32
	windowX      uint32
	windowY      uint32
	borderWidth  uint32
}

// fields returns the header as an ordered slice for serialisation.
func (h *header) fields() []*uint32 {
	return []*uint32{
		&h.headerSize, &h.fileVersion, &h.pixmapFormat, &h.pixmapDepth,
		&h.pixmapWidth, &h.pixmapHeight, &h.xOffset, &h.byteOrder,
		&h.bitmapUnit, &h.bitmapOrder, &h.bitmapPad, &h.bitsPerPixel,
		&h.bytesPerLine, &h.visualClass, &h.redMask, &h.greenMask,
		&h.blueMask, &h.bitsPerRGB, &h.cmapEntries, &h.ncolors,
		&h.windowWidth, &h.windowHeight, &h.windowX, &h.windowY,
		&h.borderWidth,
	}
}

// readHeader reads the file header, detecting byte order from the
// header_size field.
func readHeader(s stream.Stream) (header, bool, error) {
	var buf [headerSize]byte
	if err := stream.StrictRead(s, buf[:]); err != nil {
		return header{}, false, err
	}

	// The header size field includes the window name, so it is at least
	// 100 in the file's own byte order.
	sane := func(v uint32) bool { return v >= headerSize && v < headerSize+8192 }
	big := true
	if !sane(binary.BigEndian.Uint32(buf[:4])) {
		if !sane(binary.LittleEndian.Uint32(buf[:4])) {
			return header{}, false, errors.Wrapf(codec.ErrInvalidImage, "header size %d", binary.BigEndian.Uint32(buf[:4]))
		}
		big = false
	}

	var h header
	for i, f := range h.fields() {
		if big {
			*f = binary.BigEndian.Uint32(buf[i*4:])
		} else {
			*f = binary.LittleEndian.Uint32(buf[i*4:])
		}
	}

	// Oversized headers carry the window name; skip the excess.
	if h.headerSize > headerSize {
		skip := make([]byte, h.headerSize-headerSize)
		if err := stream.StrictRead(s, skip); err != nil {
			return header{}, false, err
		}
	}
	if h.fileVersion != fileVersion {
		return header{}, false, errors.Wrapf(codec.ErrUnsupportedFormat, "XWD version %d", h.fileVersion)
	}
	if h.pixmapWidth == 0 || h.pixmapHeight == 0 {
		return header{}, false, errors.Wrapf(codec.ErrIncorrectDimensions, "%dx%d", h.pixmapWidth, h.pixmapHeight)
	}
	return h, big, nil
}

// Decoder is an XWD load session.
type Decoder struct {
	s    stream.Stream
	log  logging.Logger
	sess codec.Session

	hdr  header
	big  bool
	pal  *pixel.Palette
	done bool
}

// NewDecoder opens an XWD load session, reading the header and colormap.
func NewDecoder(s stream.Stream, opts *codec.LoadOptions) (*Decoder, error) {
	if opts == nil {
		opts = &codec.LoadOptions{}
	}
	d := &Decoder{s: s, log: opts.Logger()}

	var err error
	d.hdr, d.big, err = readHeader(s)
	if err != nil {
		return nil, err
	}

	// Read the colormap even for truecolor dumps, which carry one for
	// historical reasons.
	if n := int(d.hdr.ncolors); n > 0 {
		if n > 65536 {
			return nil, errors.Wrapf(codec.ErrBrokenImage, "%d colormap entries", n)
		}
		raw := make([]byte, n*colorSize)
		if err := stream.StrictRead(s, raw); err != nil {
			return nil, errors.Wrap(err, "reading colormap")
		}
		if d.hdr.visualClass == visualPseudoColor || d.hdr.visualClass == visualStaticColor ||
			d.hdr.visualClass == visualGrayScale || d.hdr.visualClass == visualStaticGray {
			d.pal, err = pixel.NewPalette(pixel.BPP24RGB, n)
			if err != nil {
				return nil, err
			}
			u16 := binary.BigEndian.Uint16
			if !d.big {
				u16 = binary.LittleEndian.Uint16
			}
			for i := 0; i < n; i++ {
				e := raw[i*colorSize:]
				// 16-bit X color channels; the high byte is the 8-bit value.
				d.pal.Data[i*3] = byte(u16(e[4:]) >> 8)
				d.pal.Data[i*3+1] = byte(u16(e[6:]) >> 8)
				d.pal.Data[i*3+2] = byte(u16(e[8:]) >> 8)
			}
		}
	}

	switch d.hdr.visualClass {
	case visualPseudoColor, visualStaticColor, visualGrayScale, visualStaticGray:
		if d.hdr.bitsPerPixel != 8 {
			return nil, errors.Wrapf(codec.ErrUnsupportedBitDepth, "%d bpp colormapped", d.hdr.bitsPerPixel)
		}
		if d.pal == nil {
			return nil, codec.ErrMissingPalette
		}
	case visualTrueColor, visualDirectColor:
		if d.hdr.bitsPerPixel != 24 && d.hdr.bitsPerPixel != 32 {
			return nil, errors.Wrapf(codec.ErrUnsupportedBitDepth, "%d bpp truecolor", d.hdr.bitsPerPixel)
		}
		if d.hdr.redMask == 0 || d.hdr.greenMask == 0 || d.hdr.blueMask == 0 {
			return nil, errors.Wrap(codec.ErrBrokenImage, "truecolor dump with empty channel masks")
		}
	default:
		return nil, errors.Wrapf(codec.ErrUnsupportedFormat, "visual class %d", d.hdr.visualClass)
	}

	d.log.Debug(pkg+"opened", "width", d.hdr.pixmapWidth, "height", d.hdr.pixmapHeight,
		"visual", d.hdr.visualClass, "bpp", d.hdr.bitsPerPixel, "bigendian", d.big)
	return d, nil
}

// format returns the output pixel format of the dump.
func (d *Decoder) format() pixel.Format {
	if d.pal != nil {
		return pixel.BPP8Indexed
	}
	return pixel.BPP24RGB
}

// NextFrame implements codec.Decoder.
func (d *Decoder) NextFrame() (*pixel.Image, error) {
	if err := d.sess.Seek(); err != nil {
		return nil, err
	}
	if d.done {
		d.sess.Finish()
		return nil, codec.ErrNoMoreFrames
	}

	im, err := pixel.NewShell(int(d.hdr.pixmapWidth), int(d.hdr.pixmapHeight), d.format())
	if err != nil {
		return nil, err
	}
	if d.pal != nil {
		im.Palette = d.pal.Copy()
	}
	im.Source = &pixel.SourceImage{
		Format:      d.format(),
		Compression: pixel.CompressionNone,
	}
	return im, nil
}

// ReadFrame implements codec.Decoder.
func (d *Decoder) ReadFrame(im *pixel.Image) error {
	if err := d.sess.Frame(); err != nil {
		return err
	}
	if im.Pixels == nil {
		return errors.New("xwd: frame pixel buffer not allocated")
	}

	w, h := int(d.hdr.pixmapWidth), int(d.hdr.pixmapHeight)
	srcBPL := int(d.hdr.bytesPerLine)
	row := make([]byte, srcBPL)

	for y := 0; y < h; y++ {
		if err := stream.StrictRead(d.s, row); err != nil {
			return errors.Wrapf(err, "scan line %d", y)
		}
		out := im.Pixels[y*im.BytesPerLine:]

		if d.pal != nil {
			copy(out[:w], row[:w])
			continue
		}

		bpp := int(d.hdr.bitsPerPixel) / 8
		for x := 0; x < w; x++ {
			px := row[x*bpp : (x+1)*bpp]
			var v uint32
			if d.big {
				for _, b := range px {
					v = v<<8 | uint32(b)
				}
			} else {
				for i := len(px) - 1; i >= 0; i-- {
					v = v<<8 | uint32(px[i])
				}
			}
			out[x*3] = maskChannel(v, d.hdr.redMask)
			out[x*3+1] = maskChannel(v, d.hdr.greenMask)
			out[x*3+2] = maskChannel(v, d.hdr.blueMask)
		}
	}
	d.done = true
	return nil
}

// maskChannel extracts and scales the channel selected by mask to 8 bits.
func maskChannel(v, mask uint32) uint8 {
	if mask == 0 {
		return 0
	}
	shift := bits.TrailingZeros32(mask)
	val := (v & mask) >> shift
	width := bits.OnesCount32(mask)
	if width >= 8 {
		return uint8(val >> (width - 8))
	}
	return uint8(val << (8 - width))
}

// Close implements codec.Decoder.
func (d *Decoder) Close() error {
	d.sess.Finish()
	return nil
}

// Encoder is an XWD save session writing 32-bit ZPixmap truecolor dumps.
type Encoder struct {
	s    stream.Stream
	log  logging.Logger
	sess codec.Session

	written bool
}

// NewEncoder opens an XWD save session.
func NewEncoder(s stream.Stream, opts *codec.SaveOptions) (*Encoder, error) {
	if opts == nil {
		opts = &codec.SaveOptions{}
	}
	return &Encoder{s: s, log: opts.Logger()}, nil
}

// NextFrame implements codec.Encoder.
func (e *Encoder) NextFrame(im *pixel.Image) error {
	if err := e.sess.Seek(); err != nil {
		return err
	}
	if e.written {
		return errors.Wrap(codec.ErrNotImplemented, "xwd carries a single image")
	}
	if im.Format != pixel.BPP24RGB {
		return errors.Wrapf(codec.ErrUnsupportedPixelFormat, "%v", im.Format)
	}

	h := header{
		headerSize:   headerSize,
		fileVersion:  fileVersion,
		pixmapFormat: 2, // ZPixmap.
		pixmapDepth:  24,
		pixmapWidth:  uint32(im.Width),
		pixmapHeight: uint32(im.Height),
		byteOrder:    1, // MSBFirst.
		bitmapUnit:   32,
		bitmapOrder:  1,
		bitmapPad:    32,
		bitsPerPixel: 32,
		bytesPerLine: uint32(im.Width) * 4,
		visualClass:  visualTrueColor,
		redMask:      0x00FF0000,
		greenMask:    0x0000FF00,
		blueMask:     0x000000FF,
		bitsPerRGB:   8,
		windowWidth:  uint32(im.Width),
		windowHeight: uint32(im.Height),
	}

	var buf [headerSize]byte
	for i, f := range h.fields() {
		binary.BigEndian.PutUint32(buf[i*4:], *f)
	}
	return stream.StrictWrite(e.s, buf[:])
}

// WriteFrame implements codec.Encoder.
func (e *Encoder) WriteFrame(im *pixel.Image) error {
	if err := e.sess.Frame(); err != nil {
		return err
	}
	if im.Pixels == nil {
		return errors.New("xwd: frame has no pixel buffer")
	}

	row := make([]byte, im.Width*4)
	for y := 0; y < im.Height; y++ {
		in := im.Pixels[y*im.BytesPerLine:]
		for x := 0; x < im.Width; x++ {
			row[x*4] = 0
			row[x*4+1] = in[x*3]
			row[x*4+2] = in[x*3+1]
			row[x*4+3] = in[x*3+2]
		}
		if err := stream.StrictWrite(e.s, row); err != nil {
			return errors.Wrapf(err, "scan line %d", y)
		}
	}
	e.written = true
	return e.s.Flush()
}

// Close implements codec.Encoder.
func (e *Encoder) Close() error {
	e.sess.Finish()
	return nil
}

func init() {
	codec.Register(Info())
}

// Info returns the XWD codec descriptor.
func Info() *codec.Info {
	return &codec.Info{
		Name:        "xwd",
		Version:     "1.0.0",
		Description: "X Window Dump",
		Extensions:  []string{"xwd"},
		MIMETypes:   []string{"image/x-xwindowdump"},
		Magic: []codec.Magic{
			// header_size = 100 in either byte order.
			{Pattern: []byte{0x00, 0x00, 0x00, 0x64}},
			{Pattern: []byte{0x64, 0x00, 0x00, 0x00}},
		},
		LoadFeatures: codec.LoadFeatures{
			Formats:  []pixel.Format{pixel.BPP8Indexed, pixel.BPP24RGB},
			Features: codec.FeatureStatic,
		},
		SaveFeatures: codec.SaveFeatures{
			Formats:  []pixel.Format{pixel.BPP24RGB},
			Features: codec.FeatureStatic,
		},
		OpenDecoder: func(s stream.Stream, opts *codec.LoadOptions) (codec.Decoder, error) {
			return NewDecoder(s, opts)
		},
		OpenEncoder: func(s stream.Stream, opts *codec.SaveOptions) (codec.Encoder, error) {
			return NewEncoder(s, opts)
		},
	}
}
