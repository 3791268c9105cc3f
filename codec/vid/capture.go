//go:build withcv
// +build withcv

/*
NAME
  capture.go

DESCRIPTION
  capture.go adapts OpenCV's video capture to the codec contract: frames
  are pulled from the container one at a time and handed over as RGB
  images with the container's timing as the frame delay.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vid

import (
	"image"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/ausocean/pix/codec"
	"github.com/ausocean/pix/meta"
	"github.com/ausocean/pix/pixel"
)

// Decoder is a video load session over an OpenCV capture.
type Decoder struct {
	log  logging.Logger
	sess codec.Session

	cap    *gocv.VideoCapture
	mat    gocv.Mat
	width  int
	height int
	delay  int
	fps    float64
	fourcc string

	pending bool // A frame has been read ahead into mat.
	eof     bool
}

// NewDecoder opens a video file by path. The capture backend demuxes and
// decodes; this adapter owns the session lifecycle and the image
// handover.
func NewDecoder(path string, opts *codec.LoadOptions) (*Decoder, error) {
	if opts == nil {
		opts = &codec.LoadOptions{}
	}
	log := opts.Logger()

	cap, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, errors.Wrap(codec.ErrUnderlyingCodec, err.Error())
	}

	d := &Decoder{
		log:    log,
		cap:    cap,
		mat:    gocv.NewMat(),
		width:  int(cap.Get(gocv.VideoCaptureFrameWidth)),
		height: int(cap.Get(gocv.VideoCaptureFrameHeight)),
		fps:    cap.Get(gocv.VideoCaptureFPS),
		fourcc: cap.CodecString(),
	}
	if d.fps > 0 {
		d.delay = int(1000 / d.fps)
	}
	if d.width <= 0 || d.height <= 0 {
		d.Close()
		return nil, errors.Wrap(codec.ErrBrokenImage, "capture reports no frame size")
	}

	applyKnobs(cap, opts.Tuning, log)

	log.Debug(pkg+"opened", "path", path, "width", d.width, "height", d.height,
		"fps", d.fps, "codec", d.fourcc)
	return d, nil
}

// applyKnobs forwards the video tuning knobs the capture backend can
// honor.
func applyKnobs(cap *gocv.VideoCapture, knobs meta.Map, log logging.Logger) {
	if v, ok := knobs[KnobThreads]; ok {
		if n, isInt := v.IntVal(); isInt && n > 0 {
			cap.Set(gocv.VideoCaptureProperties(594), float64(n)) // CAP_PROP_N_THREADS.
		} else {
			log.Warning(pkg+KnobThreads+" ignored", "kind", v.Kind().String())
		}
	}
	for _, k := range []string{KnobLowResolution, KnobSkipFrame, KnobSkipIDCT, KnobSkipLoopFilter, KnobErrorConcealment} {
		if _, ok := knobs[k]; ok {
			// The capture backend exposes no equivalent switch.
			log.Debug(pkg+"knob not supported by capture backend", "knob", k)
		}
	}
}

// NextFrame implements codec.Decoder, reading ahead one frame so end of
// stream is detected before a shell is promised.
func (d *Decoder) NextFrame() (*pixel.Image, error) {
	if err := d.sess.Seek(); err != nil {
		return nil, err
	}
	if d.eof || !d.cap.Read(&d.mat) || d.mat.Empty() {
		d.eof = true
		d.sess.Finish()
		return nil, codec.ErrNoMoreFrames
	}
	d.pending = true

	im, err := pixel.NewShell(d.width, d.height, pixel.BPP24RGB)
	if err != nil {
		return nil, err
	}
	im.Delay = d.delay
	im.Source = &pixel.SourceImage{
		Format:      pixel.BPP24RGB,
		Compression: pixel.CompressionUnknown,
		Special: meta.Map{
			PropCodec:     meta.StringOf(d.fourcc),
			PropFramerate: meta.Float64Of(d.fps),
		},
	}
	return im, nil
}

// ReadFrame implements codec.Decoder.
func (d *Decoder) ReadFrame(im *pixel.Image) error {
	if err := d.sess.Frame(); err != nil {
		return err
	}
	if !d.pending {
		return errors.Wrap(codec.ErrState, "no frame pending")
	}
	if im.Pixels == nil {
		return errors.New("vid: frame pixel buffer not allocated")
	}

	src, err := d.mat.ToImage()
	if err != nil {
		return errors.Wrap(codec.ErrUnderlyingCodec, err.Error())
	}
	rgba, ok := src.(*image.RGBA)
	if !ok {
		return errors.Wrapf(codec.ErrUnderlyingCodec, "capture yielded %T", src)
	}
	for y := 0; y < d.height; y++ {
		in := rgba.Pix[y*rgba.Stride:]
		out := im.Pixels[y*im.BytesPerLine:]
		for x := 0; x < d.width; x++ {
			out[x*3] = in[x*4]
			out[x*3+1] = in[x*4+1]
			out[x*3+2] = in[x*4+2]
		}
	}
	d.pending = false
	return nil
}

// Close implements codec.Decoder. Capture resources are C-owned and must
// be released explicitly.
func (d *Decoder) Close() error {
	d.sess.Finish()
	d.mat.Close()
	return d.cap.Close()
}
