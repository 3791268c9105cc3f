/*
NAME
  encoder.go

DESCRIPTION
  encoder.go provides the PNG save session: IHDR derivation from the pixel
  format, metadata, resolution, ICC and palette chunks, scan line
  filtering and the deflate-compressed IDAT stream.

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

package png

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/ausocean/utils/logging"
	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"

	"github.com/ausocean/pix/codec"
	"github.com/ausocean/pix/meta"
	"github.com/ausocean/pix/pixel"
	"github.com/ausocean/pix/stream"
)

const (
	defaultCompressionLevel = 6
	iccpProfileName         = "ICC profile"
)

// Encoder is a PNG save session. A session writes a single image; PNG
// files carry one.
type Encoder struct {
	s    stream.Stream
	log  logging.Logger
	sess codec.Session

	level      int
	filter     int // A filter type, or -1 for the adaptive heuristic.
	interlaced bool

	written bool
	hdr     ihdr
}

// NewEncoder opens a PNG save session on s.
func NewEncoder(s stream.Stream, opts *codec.SaveOptions) (*Encoder, error) {
	if opts == nil {
		opts = &codec.SaveOptions{}
	}
	e := &Encoder{
		s:      s,
		log:    opts.Logger(),
		level:  defaultCompressionLevel,
		filter: -1,
	}
	e.applyTuning(opts.Tuning)
	return e, nil
}

// applyTuning reads the codec knobs. Unknown keys are ignored; malformed
// values are logged and ignored.
func (e *Encoder) applyTuning(knobs meta.Map) {
	if v, ok := knobs["png-compression-level"]; ok {
		if level, isInt := v.IntVal(); isInt {
			e.level = int(level)
			if e.level < 1 {
				e.level = 1
			}
			if e.level > 9 {
				e.level = 9
			}
		} else {
			e.log.Warning(pkg+"png-compression-level is not an integer", "kind", v.Kind().String())
		}
	}
	if v, ok := knobs["png-filter"]; ok {
		name, isStr := v.StringVal()
		if !isStr {
			e.log.Warning(pkg+"png-filter is not a string", "kind", v.Kind().String())
		} else {
			switch strings.ToLower(name) {
			case "none":
				e.filter = filterNone
			case "sub":
				e.filter = filterSub
			case "up":
				e.filter = filterUp
			case "average":
				e.filter = filterAverage
			case "paeth":
				e.filter = filterPaeth
			case "adaptive":
				e.filter = -1
			default:
				e.log.Warning(pkg+"unknown png-filter", "filter", name)
			}
		}
	}
	if _, ok := knobs["png-compression-strategy"]; ok {
		// The deflate backend picks its own strategy.
		e.log.Debug(pkg + "png-compression-strategy is accepted but has no effect")
	}
	if v, ok := knobs["png-interlaced"]; ok {
		if b, isBool := v.BoolVal(); isBool {
			e.interlaced = b
		} else {
			e.log.Warning(pkg+"png-interlaced is not a bool", "kind", v.Kind().String())
		}
	}
}

// NextFrame implements codec.Encoder, validating im and writing everything
// up to the pixel data.
func (e *Encoder) NextFrame(im *pixel.Image) error {
	if err := e.sess.Seek(); err != nil {
		return err
	}
	if e.written {
		return errors.Wrap(codec.ErrNotImplemented, "png carries a single image")
	}
	if err := im.Validate(); err != nil {
		return err
	}

	colorType, bitDepth, err := ihdrFor(im.Format)
	if err != nil {
		return err
	}
	if colorType == colorPalette {
		if im.Palette == nil {
			return codec.ErrMissingPalette
		}
		if im.Palette.Format != pixel.BPP24RGB && im.Palette.Format != pixel.BPP32RGBA {
			return errors.Wrapf(codec.ErrUnsupportedProperty, "palette format %v", im.Palette.Format)
		}
	}
	e.hdr = ihdr{
		width:     im.Width,
		height:    im.Height,
		bitDepth:  bitDepth,
		colorType: colorType,
	}
	if e.interlaced {
		e.hdr.interlace = 1
	}

	if err := stream.StrictWrite(e.s, pngSignature); err != nil {
		return err
	}

	var ihdrData [13]byte
	binary.BigEndian.PutUint32(ihdrData[:], uint32(im.Width))
	binary.BigEndian.PutUint32(ihdrData[4:], uint32(im.Height))
	ihdrData[8] = bitDepth
	ihdrData[9] = colorType
	ihdrData[12] = e.hdr.interlace
	if err := writeChunk(e.s, tagIHDR, ihdrData[:]); err != nil {
		return err
	}

	if im.ICCP != nil {
		if err := e.writeICCP(im.ICCP); err != nil {
			return err
		}
	}
	if im.Resolution != nil {
		if err := e.writePHYS(im.Resolution); err != nil {
			return err
		}
	}
	for _, d := range im.Metadata {
		if err := e.writeMeta(d); err != nil {
			return err
		}
	}
	if colorType == colorPalette {
		if err := e.writePalette(im.Palette); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) writeICCP(p *pixel.ICCProfile) error {
	var buf bytes.Buffer
	buf.WriteString(iccpProfileName)
	buf.WriteByte(0)
	buf.WriteByte(0) // Compression method: deflate.
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(p.Data); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return writeChunk(e.s, tagICCP, buf.Bytes())
}

func (e *Encoder) writePHYS(r *pixel.Resolution) error {
	var data [9]byte
	x, y := r.X, r.Y
	switch r.Unit {
	case pixel.ResolutionUnitMeter:
		data[8] = 1
	case pixel.ResolutionUnitInch:
		x, y = x/0.0254, y/0.0254
		data[8] = 1
	case pixel.ResolutionUnitCentimeter:
		x, y = x*100, y*100
		data[8] = 1
	}
	binary.BigEndian.PutUint32(data[:], uint32(x))
	binary.BigEndian.PutUint32(data[4:], uint32(y))
	return writeChunk(e.s, tagPHYS, data[:])
}

// writeMeta writes one metadata entry. EXIF goes to the eXIf chunk;
// string values become tEXt or zTXt; other binary values are logged and
// skipped, since only strings can travel as text.
func (e *Encoder) writeMeta(d meta.Data) error {
	if d.Key == meta.KeyEXIF {
		if blob, ok := d.Value.DataVal(); ok {
			return writeChunk(e.s, tagEXIF, blob)
		}
	}
	value, ok := d.Value.StringVal()
	if !ok {
		e.log.Warning(pkg+"skipping binary metadata", "key", d.Name(), "kind", d.Value.Kind().String())
		return nil
	}
	key, ok := metaToTextKey(d)
	if !ok {
		e.log.Warning(pkg+"skipping unwritable metadata", "key", d.Name())
		return nil
	}
	if len(value) >= zTXtThreshold {
		data, err := buildZTXT(key, value)
		if err != nil {
			return err
		}
		return writeChunk(e.s, tagZTXT, data)
	}
	return writeChunk(e.s, tagTEXT, buildTEXT(key, value))
}

func (e *Encoder) writePalette(p *pixel.Palette) error {
	plte := make([]byte, p.Count*3)
	var trns []byte
	hasTRNS := false
	if p.Format == pixel.BPP32RGBA {
		trns = make([]byte, p.Count)
	}
	for i := 0; i < p.Count; i++ {
		entry := p.Entry(i)
		copy(plte[i*3:], entry[:3])
		if trns != nil {
			trns[i] = entry[3]
			if entry[3] != 0xFF {
				hasTRNS = true
			}
		}
	}
	if err := writeChunk(e.s, tagPLTE, plte); err != nil {
		return err
	}
	if hasTRNS {
		return writeChunk(e.s, tagTRNS, trns)
	}
	return nil
}

// WriteFrame implements codec.Encoder, filtering and compressing the scan
// lines into IDAT chunks and closing the file with IEND.
func (e *Encoder) WriteFrame(im *pixel.Image) error {
	if err := e.sess.Frame(); err != nil {
		return err
	}
	if im.Pixels == nil {
		return errors.New("png: frame has no pixel buffer")
	}

	var compressed bytes.Buffer
	zw, err := zlib.NewWriterLevel(&compressed, e.level)
	if err != nil {
		return errors.Wrap(codec.ErrUnderlyingCodec, err.Error())
	}

	if e.hdr.interlace == 1 {
		err = e.writeInterlaced(zw, im)
	} else {
		err = e.writeSequential(zw, im)
	}
	if err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(codec.ErrUnderlyingCodec, err.Error())
	}

	if err := writeChunk(e.s, tagIDAT, compressed.Bytes()); err != nil {
		return err
	}
	if err := writeChunk(e.s, tagIEND, nil); err != nil {
		return err
	}
	e.written = true
	return e.s.Flush()
}

// writeSequential filters rows top to bottom.
func (e *Encoder) writeSequential(zw *zlib.Writer, im *pixel.Image) error {
	rb := e.hdr.rowBytes(im.Width)
	bpp := e.hdr.filterBPP()
	scratch := make([]byte, 2*rb)
	var prev []byte

	for y := 0; y < im.Height; y++ {
		cur := im.Pixels[y*im.BytesPerLine : y*im.BytesPerLine+rb]
		ft, filtered := e.filterFor(scratch, cur, prev, bpp)
		if _, err := zw.Write([]byte{ft}); err != nil {
			return err
		}
		if _, err := zw.Write(filtered); err != nil {
			return err
		}
		prev = cur
	}
	return nil
}

// writeInterlaced emits the seven Adam7 pass images.
func (e *Encoder) writeInterlaced(zw *zlib.Writer, im *pixel.Image) error {
	bits := e.hdr.bitsPerPixel()
	bpp := e.hdr.filterBPP()
	rowAt := func(y int) []byte { return im.Pixels[y*im.BytesPerLine:] }

	for p := 0; p < nPasses; p++ {
		pw, ph := passSize(p, im.Width, im.Height)
		if pw == 0 || ph == 0 {
			continue
		}
		prb := e.hdr.rowBytes(pw)
		scratch := make([]byte, 2*prb)
		cur := make([]byte, prb)
		var prev []byte
		prevBuf := make([]byte, prb)

		for r := 0; r < ph; r++ {
			for i := range cur {
				cur[i] = 0
			}
			gatherPass(p, cur, r, im.Width, bits, rowAt)
			ft, filtered := e.filterFor(scratch, cur, prev, bpp)
			if _, err := zw.Write([]byte{ft}); err != nil {
				return err
			}
			if _, err := zw.Write(filtered); err != nil {
				return err
			}
			copy(prevBuf, cur)
			prev = prevBuf
		}
	}
	return nil
}

// filterFor applies the configured filter, or the adaptive heuristic when
// none is forced.
func (e *Encoder) filterFor(scratch, cur, prev []byte, bpp int) (uint8, []byte) {
	if e.filter >= 0 {
		dst := scratch[:len(cur)]
		filterRow(uint8(e.filter), dst, cur, prev, bpp)
		return uint8(e.filter), dst
	}
	return chooseFilter(scratch, cur, prev, bpp)
}

// Close implements codec.Encoder.
func (e *Encoder) Close() error {
	e.sess.Finish()
	return nil
}
