/*
NAME
  decoder.go

DESCRIPTION
  decoder.go provides the PNG load session. The chunk stream is scanned
  once up front; frame pixel data stays compressed until the frame is
  read. APNG frames are composed against a previous-frame buffer in
  apng.go.

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

package png

import (
	"bytes"
	"encoding/binary"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	"github.com/ausocean/pix/codec"
	"github.com/ausocean/pix/convert"
	"github.com/ausocean/pix/meta"
	"github.com/ausocean/pix/pixel"
	"github.com/ausocean/pix/stream"
)

// fctl holds an APNG frame control chunk.
type fctl struct {
	seq       uint32
	width     int
	height    int
	x, y      int
	delayNum  uint16
	delayDen  uint16
	disposeOp uint8
	blendOp   uint8
}

// APNG dispose and blend operators.
const (
	disposeNone = iota
	disposeBackground
	disposePrevious
)

const (
	blendSource = iota
	blendOver
)

// delayMS converts an fcTL delay to milliseconds; a zero denominator
// means hundredths of a second.
func (f *fctl) delayMS() int {
	den := f.delayDen
	if den == 0 {
		den = 100
	}
	return int(float64(f.delayNum) / float64(den) * 1000)
}

// frameRec is one decodable frame: its control chunk (nil for the sole
// frame of a plain PNG) and its compressed pixel data.
type frameRec struct {
	ctl  *fctl
	data []byte
}

// Decoder is a PNG load session.
type Decoder struct {
	log  logging.Logger
	sess codec.Session

	hdr     ihdr
	native  pixel.Format
	output  pixel.Format
	palette *pixel.Palette

	metadata   []meta.Data
	iccp       *pixel.ICCProfile
	resolution *pixel.Resolution
	special    meta.Map

	apng   bool
	frames []frameRec
	idx    int

	prev []byte // Full-image previous frame, native format, unpadded.
	cur  []byte
}

// NewDecoder opens a PNG load session on s, scanning the chunk stream
// through IEND. Pixel data is kept compressed until frames are read.
func NewDecoder(s stream.Stream, opts *codec.LoadOptions) (*Decoder, error) {
	if opts == nil {
		opts = &codec.LoadOptions{}
	}
	d := &Decoder{
		log:     opts.Logger(),
		output:  opts.Output,
		special: meta.Map{},
	}

	sig := make([]byte, len(pngSignature))
	if err := stream.StrictRead(s, sig); err != nil {
		return nil, errors.Wrap(err, "reading signature")
	}
	if !bytes.Equal(sig, pngSignature) {
		return nil, errors.Wrap(codec.ErrInvalidImage, "bad PNG signature")
	}

	if err := d.scan(s); err != nil {
		return nil, err
	}
	if d.hdr.width == 0 {
		return nil, errors.Wrap(codec.ErrBrokenImage, "no IHDR chunk")
	}
	if len(d.frames) == 0 {
		return nil, errors.Wrap(codec.ErrBrokenImage, "no pixel data")
	}

	var err error
	d.native, err = d.hdr.format()
	if err != nil {
		return nil, err
	}
	if d.output == pixel.FormatUnknown || d.output == pixel.FormatSource {
		d.output = d.native
	}

	n := d.hdr.rowBytes(d.hdr.width) * d.hdr.height
	d.prev = make([]byte, n)
	d.cur = make([]byte, n)

	d.log.Debug(pkg+"opened", "width", d.hdr.width, "height", d.hdr.height,
		"format", d.native, "frames", len(d.frames), "interlaced", d.hdr.interlace == 1)
	return d, nil
}

// scan reads every chunk through IEND, building the frame list. An IDAT
// preceded by no fcTL in an animation is the hidden default image and is
// not yielded as a frame.
func (d *Decoder) scan(s stream.Stream) error {
	var (
		pending    *fctl
		inIDAT     bool
		idatHidden bool
		idat       []byte
	)
	flushIDAT := func() {
		if !inIDAT {
			return
		}
		if idatHidden {
			d.log.Debug(pkg + "skipping hidden first frame")
		} else {
			d.frames = append(d.frames, frameRec{ctl: pending, data: idat})
		}
		pending = nil
		inIDAT = false
	}

	for {
		c, err := readChunk(s)
		if err != nil {
			return errors.Wrap(err, "reading chunk")
		}

		switch c.typ {
		case tagIHDR:
			if len(c.data) != 13 {
				return errors.Wrap(codec.ErrBrokenImage, "IHDR length")
			}
			d.hdr = ihdr{
				width:     int(binary.BigEndian.Uint32(c.data)),
				height:    int(binary.BigEndian.Uint32(c.data[4:])),
				bitDepth:  c.data[8],
				colorType: c.data[9],
				interlace: c.data[12],
			}
			if d.hdr.width <= 0 || d.hdr.height <= 0 {
				return errors.Wrapf(codec.ErrIncorrectDimensions, "%dx%d", d.hdr.width, d.hdr.height)
			}

		case tagPLTE:
			if len(c.data)%3 != 0 || len(c.data) == 0 {
				return errors.Wrap(codec.ErrBrokenImage, "PLTE length")
			}
			pal, err := pixel.NewPalette(pixel.BPP24RGB, len(c.data)/3)
			if err != nil {
				return err
			}
			copy(pal.Data, c.data)
			d.palette = pal

		case tagTRNS:
			if d.palette == nil {
				// Gray and truecolor transparency keys are not carried.
				d.log.Debug(pkg + "ignoring non-palette tRNS")
				continue
			}
			// Promote the palette to RGBA.
			rgba, err := pixel.NewPalette(pixel.BPP32RGBA, d.palette.Count)
			if err != nil {
				return err
			}
			for i := 0; i < d.palette.Count; i++ {
				e := d.palette.Entry(i)
				o := rgba.Entry(i)
				o[0], o[1], o[2] = e[0], e[1], e[2]
				o[3] = 0xFF
				if i < len(c.data) {
					o[3] = c.data[i]
				}
			}
			d.palette = rgba

		case tagTEXT:
			key, value, err := parseTEXT(c.data)
			if err != nil {
				d.log.Warning(pkg+"bad tEXt chunk", "error", err.Error())
				continue
			}
			d.metadata = append(d.metadata, textToMeta(key, value))

		case tagZTXT:
			key, value, err := parseZTXT(c.data)
			if err != nil {
				d.log.Warning(pkg+"bad zTXt chunk", "error", err.Error())
				continue
			}
			d.metadata = append(d.metadata, textToMeta(key, value))

		case tagITXT:
			key, value, err := parseITXT(c.data)
			if err != nil {
				d.log.Warning(pkg+"bad iTXt chunk", "error", err.Error())
				continue
			}
			d.metadata = append(d.metadata, textToMeta(key, value))

		case tagEXIF:
			d.metadata = append(d.metadata, meta.Known(meta.KeyEXIF, meta.DataOf(c.data)))

		case tagPHYS:
			if len(c.data) != 9 {
				continue
			}
			unit := pixel.ResolutionUnitUnknown
			if c.data[8] == 1 {
				unit = pixel.ResolutionUnitMeter
			}
			d.resolution = &pixel.Resolution{
				Unit: unit,
				X:    float64(binary.BigEndian.Uint32(c.data)),
				Y:    float64(binary.BigEndian.Uint32(c.data[4:])),
			}

		case tagICCP:
			i := bytes.IndexByte(c.data, 0)
			if i < 0 || i+2 > len(c.data) {
				d.log.Warning(pkg + "bad iCCP chunk")
				continue
			}
			profile, err := inflate(c.data[i+2:])
			if err != nil {
				d.log.Warning(pkg+"bad iCCP stream", "error", err.Error())
				continue
			}
			d.iccp = &pixel.ICCProfile{Data: profile}

		case tagGAMA:
			if len(c.data) == 4 {
				d.special["png-gamma"] = meta.Float64Of(float64(binary.BigEndian.Uint32(c.data)) / 100000)
			}

		case tagBKGD:
			d.special["png-background"] = meta.DataOf(c.data)

		case tagACTL:
			d.apng = true

		case tagFCTL:
			if len(c.data) != 26 {
				return errors.Wrap(codec.ErrBrokenImage, "fcTL length")
			}
			flushIDAT()
			ctl := &fctl{
				seq:       binary.BigEndian.Uint32(c.data),
				width:     int(binary.BigEndian.Uint32(c.data[4:])),
				height:    int(binary.BigEndian.Uint32(c.data[8:])),
				x:         int(binary.BigEndian.Uint32(c.data[12:])),
				y:         int(binary.BigEndian.Uint32(c.data[16:])),
				delayNum:  binary.BigEndian.Uint16(c.data[20:]),
				delayDen:  binary.BigEndian.Uint16(c.data[22:]),
				disposeOp: c.data[24],
				blendOp:   c.data[25],
			}
			if ctl.x+ctl.width > d.hdr.width || ctl.y+ctl.height > d.hdr.height {
				return errors.Wrapf(codec.ErrIncorrectDimensions,
					"frame %d,%d %dx%d outside %dx%d", ctl.x, ctl.y, ctl.width, ctl.height,
					d.hdr.width, d.hdr.height)
			}
			pending = ctl

		case tagIDAT:
			if !inIDAT {
				inIDAT = true
				idat = nil
				idatHidden = d.apng && pending == nil
			}
			idat = append(idat, c.data...)

		case tagFDAT:
			if len(c.data) < 4 {
				return errors.Wrap(codec.ErrBrokenImage, "fdAT length")
			}
			if inIDAT {
				flushIDAT()
			}
			if pending == nil {
				return errors.Wrap(codec.ErrBrokenImage, "fdAT without fcTL")
			}
			if len(d.frames) > 0 && d.frames[len(d.frames)-1].ctl == pending {
				// Continuation of the current frame.
				last := &d.frames[len(d.frames)-1]
				last.data = append(last.data, c.data[4:]...)
			} else {
				d.frames = append(d.frames, frameRec{ctl: pending, data: append([]byte(nil), c.data[4:]...)})
			}

		case tagIEND:
			flushIDAT()
			return nil

		default:
			d.log.Debug(pkg+"skipping chunk", "type", c.typ)
		}
	}
}

// Passes returns the number of interlace passes of the source: 7 for
// Adam7, otherwise 1. Passes are merged internally; a frame read yields
// the fully de-interlaced image.
func (d *Decoder) Passes() int {
	if d.hdr.interlace == 1 {
		return nPasses
	}
	return 1
}

// NextFrame implements codec.Decoder.
func (d *Decoder) NextFrame() (*pixel.Image, error) {
	if err := d.sess.Seek(); err != nil {
		return nil, err
	}
	if d.idx >= len(d.frames) {
		d.sess.Finish()
		return nil, codec.ErrNoMoreFrames
	}
	fr := d.frames[d.idx]

	im, err := pixel.NewShell(d.hdr.width, d.hdr.height, d.output)
	if err != nil {
		return nil, err
	}
	if d.output.Indexed() {
		if d.palette == nil {
			return nil, codec.ErrMissingPalette
		}
		im.Palette = d.palette.Copy()
	}
	im.Metadata = append(im.Metadata, d.metadata...)
	im.ICCP = d.iccp.Copy()
	if d.resolution != nil {
		r := *d.resolution
		im.Resolution = &r
	}
	im.Source = &pixel.SourceImage{
		Format:      d.native,
		Compression: pixel.CompressionDeflate,
		Interlaced:  d.hdr.interlace == 1,
		Special:     d.special.Copy(),
	}
	if fr.ctl != nil {
		im.Delay = fr.ctl.delayMS()
	}
	return im, nil
}

// ReadFrame implements codec.Decoder: inflate, unfilter, de-interlace,
// compose against the previous frame and convert to the requested output
// format.
func (d *Decoder) ReadFrame(im *pixel.Image) error {
	if err := d.sess.Frame(); err != nil {
		return err
	}
	if im.Pixels == nil {
		return errors.New("png: frame pixel buffer not allocated")
	}
	fr := d.frames[d.idx]

	fw, fh := d.hdr.width, d.hdr.height
	if fr.ctl != nil {
		fw, fh = fr.ctl.width, fr.ctl.height
	}

	sub, err := d.decodeImage(fr.data, fw, fh)
	if err != nil {
		return errors.Wrapf(err, "frame %d", d.idx)
	}

	if err := d.compose(fr.ctl, sub, fw, fh, d.idx == 0); err != nil {
		return err
	}

	if err := d.emit(im); err != nil {
		return err
	}
	d.idx++
	return nil
}

// decodeImage inflates and unfilters a w×h image, returning unpadded
// native rows.
func (d *Decoder) decodeImage(data []byte, w, h int) ([]byte, error) {
	raw, err := inflate(data)
	if err != nil {
		return nil, errors.Wrap(codec.ErrUnderlyingCodec, err.Error())
	}

	out := make([]byte, d.hdr.rowBytes(w)*h)
	if d.hdr.interlace == 1 {
		if err := d.deinterlace(raw, out, w, h); err != nil {
			return nil, err
		}
		return out, nil
	}

	rb := d.hdr.rowBytes(w)
	want := (rb + 1) * h
	if len(raw) < want {
		return nil, errors.Wrapf(codec.ErrBrokenImage, "pixel data is %d bytes, want %d", len(raw), want)
	}
	var prev []byte
	for y := 0; y < h; y++ {
		row := raw[y*(rb+1):]
		cur := row[1 : 1+rb]
		if err := unfilterRow(row[0], cur, prev, d.hdr.filterBPP()); err != nil {
			return nil, err
		}
		copy(out[y*rb:], cur)
		prev = cur
	}
	return out, nil
}

// deinterlace reconstructs Adam7 passes from raw into out.
func (d *Decoder) deinterlace(raw, out []byte, w, h int) error {
	rb := d.hdr.rowBytes(w)
	rowAt := func(y int) []byte { return out[y*rb : (y+1)*rb] }

	off := 0
	for p := 0; p < nPasses; p++ {
		pw, ph := passSize(p, w, h)
		if pw == 0 || ph == 0 {
			continue
		}
		prb := d.hdr.rowBytes(pw)
		var prev []byte
		for r := 0; r < ph; r++ {
			if off+1+prb > len(raw) {
				return errors.Wrap(codec.ErrBrokenImage, "interlaced data truncated")
			}
			ft := raw[off]
			cur := raw[off+1 : off+1+prb]
			if err := unfilterRow(ft, cur, prev, d.hdr.filterBPP()); err != nil {
				return err
			}
			scatterPass(p, cur, r, w, d.hdr.bitsPerPixel(), rowAt)
			prev = cur
			off += 1 + prb
		}
	}
	return nil
}

// emit converts the composed native image into im's pixel buffer.
func (d *Decoder) emit(im *pixel.Image) error {
	rb := d.hdr.rowBytes(d.hdr.width)

	if d.output == d.native {
		for y := 0; y < im.Height; y++ {
			copy(im.Pixels[y*im.BytesPerLine:], d.cur[y*rb:(y+1)*rb])
		}
		return nil
	}

	src := &pixel.Image{
		Width:        d.hdr.width,
		Height:       d.hdr.height,
		Format:       d.native,
		BytesPerLine: rb,
		Pixels:       d.cur,
		Palette:      d.palette,
	}
	converted, err := convert.Convert(src, d.output, nil)
	if err != nil {
		return errors.Wrapf(err, "converting %v to %v", d.native, d.output)
	}
	for y := 0; y < im.Height; y++ {
		copy(im.Pixels[y*im.BytesPerLine:], converted.Row(y))
	}
	return nil
}

// Close implements codec.Decoder.
func (d *Decoder) Close() error {
	d.sess.Finish()
	d.frames = nil
	d.prev = nil
	d.cur = nil
	return nil
}
