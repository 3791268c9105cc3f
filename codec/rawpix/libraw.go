//go:build withraw
// +build withraw

/*
NAME
  libraw.go

DESCRIPTION
  libraw.go binds libraw directly and adapts a processed RAW frame to the
  codec contract. The tuning knobs are forwarded into the libraw
  processing parameters before the image is developed.

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

package rawpix

/*
#cgo pkg-config: libraw
#include <stdlib.h>
#include <libraw/libraw.h>
*/
import "C"

import (
	"io"
	"unsafe"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	"github.com/ausocean/pix/codec"
	"github.com/ausocean/pix/meta"
	"github.com/ausocean/pix/pixel"
	"github.com/ausocean/pix/stream"
)

// outputColorSpaces maps the raw-output-color knob values onto libraw
// output_color codes.
var outputColorSpaces = map[string]int{
	"raw":      0,
	"srgb":     1,
	"adobe":    2,
	"wide":     3,
	"prophoto": 4,
	"xyz":      5,
}

// Decoder is a RAW load session over a libraw processor handle.
type Decoder struct {
	log  logging.Logger
	sess codec.Session

	lr   *C.libraw_data_t
	mem  *C.libraw_processed_image_t
	done bool

	width, height int
	bps           int
	iso           float32
	shutter       float32
	aperture      float32
}

// NewDecoder opens a RAW load session, slurping the stream into libraw
// and developing the image with the configured parameters.
func NewDecoder(s stream.Stream, opts *codec.LoadOptions) (*Decoder, error) {
	if opts == nil {
		opts = &codec.LoadOptions{}
	}
	log := opts.Logger()

	data, err := io.ReadAll(s)
	if err != nil {
		return nil, errors.Wrap(err, "slurping stream")
	}

	lr := C.libraw_init(0)
	if lr == nil {
		return nil, errors.Wrap(codec.ErrUnderlyingCodec, "libraw_init failed")
	}
	d := &Decoder{log: log, lr: lr, bps: 8}
	d.applyKnobs(opts.Tuning)

	if rc := C.libraw_open_buffer(lr, unsafe.Pointer(&data[0]), C.size_t(len(data))); rc != 0 {
		d.Close()
		return nil, librawError(rc, "open")
	}
	if rc := C.libraw_unpack(lr); rc != 0 {
		d.Close()
		return nil, librawError(rc, "unpack")
	}
	if rc := C.libraw_dcraw_process(lr); rc != 0 {
		d.Close()
		return nil, librawError(rc, "process")
	}

	var rc C.int
	d.mem = C.libraw_dcraw_make_mem_image(lr, &rc)
	if d.mem == nil || rc != 0 {
		d.Close()
		return nil, librawError(rc, "render")
	}
	d.width = int(d.mem.width)
	d.height = int(d.mem.height)
	d.bps = int(d.mem.bits)
	d.iso = float32(lr.other.iso_speed)
	d.shutter = float32(lr.other.shutter)
	d.aperture = float32(lr.other.aperture)

	log.Debug(pkg+"opened", "width", d.width, "height", d.height, "bits", d.bps)
	return d, nil
}

// applyKnobs forwards tuning knobs into the libraw parameters. Malformed
// values of raw-brightness, raw-highlight, raw-output-bits-per-sample and
// raw-user-multiplier, and unknown raw-output-color names, are logged and
// ignored; malformed values of the other knobs are ignored without a log
// entry.
func (d *Decoder) applyKnobs(knobs meta.Map) {
	p := &d.lr.params

	if v, ok := knobs[KnobBrightness]; ok {
		if f, isF := v.FloatVal(); isF {
			p.bright = C.float(f)
		} else {
			d.log.Warning(pkg + KnobBrightness + " is not a float")
		}
	}
	if v, ok := knobs[KnobHighlight]; ok {
		if n, isInt := v.IntVal(); isInt && n >= 0 && n <= 9 {
			p.highlight = C.int(n)
		} else {
			d.log.Warning(pkg + KnobHighlight + " is out of range")
		}
	}
	if v, ok := knobs[KnobOutputColor]; ok {
		if name, isStr := v.StringVal(); isStr {
			if code, known := outputColorSpaces[name]; known {
				p.output_color = C.int(code)
			} else {
				d.log.Warning(pkg+"unknown raw-output-color", "value", name)
			}
		}
	}
	if v, ok := knobs[KnobOutputBPS]; ok {
		if n, isInt := v.IntVal(); isInt && (n == 8 || n == 16) {
			p.output_bps = C.int(n)
			d.bps = int(n)
		} else {
			d.log.Warning(pkg + KnobOutputBPS + " must be 8 or 16")
		}
	}
	if v, ok := knobs[KnobDemosaic]; ok {
		if n, isInt := v.IntVal(); isInt {
			p.user_qual = C.int(n)
		}
	}
	if v, ok := knobs[KnobFourColorRGB]; ok {
		if b, isBool := v.BoolVal(); isBool && b {
			p.four_color_rgb = 1
		}
	}
	if v, ok := knobs[KnobDCBIterations]; ok {
		if n, isInt := v.IntVal(); isInt {
			p.dcb_iterations = C.int(n)
		}
	}
	if v, ok := knobs[KnobDCBEnhance]; ok {
		if b, isBool := v.BoolVal(); isBool && b {
			p.dcb_enhance_fl = 1
		}
	}
	if v, ok := knobs[KnobCameraWhiteBalance]; ok {
		if b, isBool := v.BoolVal(); isBool && b {
			p.use_camera_wb = 1
		}
	}
	if v, ok := knobs[KnobAutoWhiteBalance]; ok {
		if b, isBool := v.BoolVal(); isBool && b {
			p.use_auto_wb = 1
		}
	}
	if v, ok := knobs[KnobUserMultiplier]; ok {
		if f, isF := v.FloatVal(); isF && f > 0 {
			for i := range p.user_mul {
				p.user_mul[i] = C.float(f)
			}
		} else {
			d.log.Warning(pkg + KnobUserMultiplier + " is not a positive float")
		}
	}
	if v, ok := knobs[KnobAutoBrightness]; ok {
		if b, isBool := v.BoolVal(); isBool {
			if b {
				p.no_auto_bright = 0
			} else {
				p.no_auto_bright = 1
			}
		}
	}
	if v, ok := knobs[KnobHalfSize]; ok {
		if b, isBool := v.BoolVal(); isBool && b {
			p.half_size = 1
		}
	}
	if v, ok := knobs[KnobFujiRotate]; ok {
		if b, isBool := v.BoolVal(); isBool && !b {
			p.use_fuji_rotate = 0
		}
	}
	if v, ok := knobs[KnobNoInterpolation]; ok {
		if b, isBool := v.BoolVal(); isBool && b {
			p.no_interpolation = 1
		}
	}
	if v, ok := knobs[KnobMedianPasses]; ok {
		if n, isInt := v.IntVal(); isInt {
			p.med_passes = C.int(n)
		}
	}
	if v, ok := knobs[KnobGamma]; ok {
		if f, isF := v.FloatVal(); isF && f > 0 {
			p.gamm[0] = C.double(1 / f)
		}
	}
}

// librawError maps a libraw return code onto the codec taxonomy.
func librawError(rc C.int, op string) error {
	msg := C.GoString(C.libraw_strerror(rc))
	switch rc {
	case C.LIBRAW_FILE_UNSUPPORTED:
		return errors.Wrapf(codec.ErrUnsupportedFormat, "%s: %s", op, msg)
	case C.LIBRAW_DATA_ERROR, C.LIBRAW_IO_ERROR:
		return errors.Wrapf(codec.ErrBrokenImage, "%s: %s", op, msg)
	case C.LIBRAW_UNSUFFICIENT_MEMORY:
		return errors.Wrapf(codec.ErrUnderlyingCodec, "%s: %s", op, msg)
	default:
		return errors.Wrapf(codec.ErrUnderlyingCodec, "%s: %s", op, msg)
	}
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

	format := pixel.BPP24RGB
	if d.bps == 16 {
		format = pixel.BPP48RGB
	}
	im, err := pixel.NewShell(d.width, d.height, format)
	if err != nil {
		return nil, err
	}
	im.Source = &pixel.SourceImage{
		Format:      format,
		Compression: pixel.CompressionRAW,
		Special: meta.Map{
			PropISO:      meta.Float32Of(d.iso),
			PropShutter:  meta.Float32Of(d.shutter),
			PropAperture: meta.Float32Of(d.aperture),
		},
	}
	return im, nil
}

// ReadFrame implements codec.Decoder.
func (d *Decoder) ReadFrame(im *pixel.Image) error {
	if err := d.sess.Frame(); err != nil {
		return err
	}
	if d.mem == nil {
		return errors.Wrap(codec.ErrState, "no developed image")
	}
	if im.Pixels == nil {
		return errors.New("rawpix: frame pixel buffer not allocated")
	}

	size := int(d.mem.data_size)
	src := unsafe.Slice((*byte)(unsafe.Pointer(&d.mem.data[0])), size)
	rb := pixel.BytesPerLine(d.width, im.Format)
	for y := 0; y < d.height; y++ {
		copy(im.Pixels[y*im.BytesPerLine:], src[y*rb:(y+1)*rb])
	}
	d.done = true
	return nil
}

// Close implements codec.Decoder. libraw state is C-owned and released
// explicitly; Close is idempotent.
func (d *Decoder) Close() error {
	d.sess.Finish()
	if d.mem != nil {
		C.libraw_dcraw_clear_mem(d.mem)
		d.mem = nil
	}
	if d.lr != nil {
		C.libraw_close(d.lr)
		d.lr = nil
	}
	return nil
}
