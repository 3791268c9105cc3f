/*
NAME
  png.go

DESCRIPTION
  png.go provides the shared PNG stream description: the IHDR parameters,
  their mapping onto pixel formats, and the codec registration.

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

// Package png implements the Portable Network Graphics codec, including
// animated PNG.
package png

import (
	"github.com/pkg/errors"

	"github.com/ausocean/pix/codec"
	"github.com/ausocean/pix/pixel"
	"github.com/ausocean/pix/stream"
)

const pkg = "png: "

// PNG color types.
const (
	colorGray      = 0
	colorTrue      = 2
	colorPalette   = 3
	colorGrayAlpha = 4
	colorTrueAlpha = 6
)

// ihdr holds the image header parameters.
type ihdr struct {
	width, height int
	bitDepth      uint8
	colorType     uint8
	interlace     uint8
}

// channels returns the sample count per pixel.
func (h ihdr) channels() int {
	switch h.colorType {
	case colorGray, colorPalette:
		return 1
	case colorGrayAlpha:
		return 2
	case colorTrue:
		return 3
	case colorTrueAlpha:
		return 4
	}
	return 0
}

// bitsPerPixel returns the packed bits of one pixel.
func (h ihdr) bitsPerPixel() int { return int(h.bitDepth) * h.channels() }

// rowBytes returns the unpadded byte length of a width-pixel row.
func (h ihdr) rowBytes(width int) int { return (width*h.bitsPerPixel() + 7) / 8 }

// filterBPP returns the byte distance used by the scan line filters.
func (h ihdr) filterBPP() int {
	b := h.bitsPerPixel() / 8
	if b < 1 {
		b = 1
	}
	return b
}

// format maps the color type and bit depth onto a pixel format.
func (h ihdr) format() (pixel.Format, error) {
	type key struct {
		ct, depth uint8
	}
	m := map[key]pixel.Format{
		{colorGray, 1}:       pixel.BPP1Gray,
		{colorGray, 2}:       pixel.BPP2Gray,
		{colorGray, 4}:       pixel.BPP4Gray,
		{colorGray, 8}:       pixel.BPP8Gray,
		{colorGray, 16}:      pixel.BPP16Gray,
		{colorGrayAlpha, 8}:  pixel.BPP16GrayAlpha,
		{colorGrayAlpha, 16}: pixel.BPP32GrayAlpha,
		{colorPalette, 1}:    pixel.BPP1Indexed,
		{colorPalette, 2}:    pixel.BPP2Indexed,
		{colorPalette, 4}:    pixel.BPP4Indexed,
		{colorPalette, 8}:    pixel.BPP8Indexed,
		{colorTrue, 8}:       pixel.BPP24RGB,
		{colorTrue, 16}:      pixel.BPP48RGB,
		{colorTrueAlpha, 8}:  pixel.BPP32RGBA,
		{colorTrueAlpha, 16}: pixel.BPP64RGBA,
	}
	f, ok := m[key{h.colorType, h.bitDepth}]
	if !ok {
		return pixel.FormatUnknown, errors.Wrapf(codec.ErrBrokenImage,
			"color type %d at depth %d", h.colorType, h.bitDepth)
	}
	return f, nil
}

// ihdrFor maps a pixel format back to IHDR parameters. Formats outside
// PNG's native set (channel reorders, packed RGB, YUV, CMYK) are the
// conversion engine's concern, not the codec's.
func ihdrFor(f pixel.Format) (colorType, bitDepth uint8, err error) {
	switch f {
	case pixel.BPP1Gray:
		return colorGray, 1, nil
	case pixel.BPP2Gray:
		return colorGray, 2, nil
	case pixel.BPP4Gray:
		return colorGray, 4, nil
	case pixel.BPP8Gray:
		return colorGray, 8, nil
	case pixel.BPP16Gray:
		return colorGray, 16, nil
	case pixel.BPP16GrayAlpha:
		return colorGrayAlpha, 8, nil
	case pixel.BPP32GrayAlpha:
		return colorGrayAlpha, 16, nil
	case pixel.BPP1Indexed:
		return colorPalette, 1, nil
	case pixel.BPP2Indexed:
		return colorPalette, 2, nil
	case pixel.BPP4Indexed:
		return colorPalette, 4, nil
	case pixel.BPP8Indexed:
		return colorPalette, 8, nil
	case pixel.BPP24RGB:
		return colorTrue, 8, nil
	case pixel.BPP48RGB:
		return colorTrue, 16, nil
	case pixel.BPP32RGBA:
		return colorTrueAlpha, 8, nil
	case pixel.BPP64RGBA:
		return colorTrueAlpha, 16, nil
	}
	return 0, 0, errors.Wrapf(codec.ErrUnsupportedPixelFormat, "%v", f)
}

func init() {
	codec.Register(Info())
}

// Info returns the PNG codec descriptor.
func Info() *codec.Info {
	return &codec.Info{
		Name:        "png",
		Version:     "1.2.0",
		Description: "Portable Network Graphics",
		Extensions:  []string{"png", "apng"},
		MIMETypes:   []string{"image/png", "image/apng"},
		Magic:       []codec.Magic{{Pattern: pngSignature}},
		LoadFeatures: codec.LoadFeatures{
			Formats: []pixel.Format{
				pixel.BPP1Gray, pixel.BPP2Gray, pixel.BPP4Gray, pixel.BPP8Gray, pixel.BPP16Gray,
				pixel.BPP16GrayAlpha, pixel.BPP32GrayAlpha,
				pixel.BPP1Indexed, pixel.BPP2Indexed, pixel.BPP4Indexed, pixel.BPP8Indexed,
				pixel.BPP24RGB, pixel.BPP48RGB, pixel.BPP32RGBA, pixel.BPP64RGBA,
			},
			TuningKeys: []string{},
			Features: codec.FeatureStatic | codec.FeatureAnimated | codec.FeatureMeta |
				codec.FeatureICCP | codec.FeatureInterlaced,
		},
		SaveFeatures: codec.SaveFeatures{
			Formats: []pixel.Format{
				pixel.BPP1Gray, pixel.BPP2Gray, pixel.BPP4Gray, pixel.BPP8Gray, pixel.BPP16Gray,
				pixel.BPP16GrayAlpha, pixel.BPP32GrayAlpha,
				pixel.BPP1Indexed, pixel.BPP2Indexed, pixel.BPP4Indexed, pixel.BPP8Indexed,
				pixel.BPP24RGB, pixel.BPP48RGB, pixel.BPP32RGBA, pixel.BPP64RGBA,
			},
			TuningKeys: []string{
				"png-compression-level", "png-filter", "png-compression-strategy", "png-interlaced",
			},
			Features: codec.FeatureStatic | codec.FeatureMeta | codec.FeatureICCP,
		},
		OpenDecoder: func(s stream.Stream, opts *codec.LoadOptions) (codec.Decoder, error) {
			return NewDecoder(s, opts)
		},
		OpenEncoder: func(s stream.Stream, opts *codec.SaveOptions) (codec.Encoder, error) {
			return NewEncoder(s, opts)
		},
	}
}
