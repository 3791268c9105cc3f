/*
NAME
  format.go

DESCRIPTION
  format.go provides the closed pixel format enumeration and the per-format
  metadata used throughout the library: bits per pixel, component family,
  alpha presence, indexed-ness and scan line sizing.

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

// Package pixel provides the in-memory image entity and its supporting
// types: pixel formats, palettes, resolution, orientation and the
// source-image descriptor.
package pixel

import "fmt"

// Format identifies a pixel layout. The enumeration is closed; FormatUnknown
// and FormatSource are sentinels, never layouts of a constructed image.
type Format int

const (
	FormatUnknown Format = iota

	// FormatSource means "whatever the source format yields natively" and
	// is only meaningful as a requested output format.
	FormatSource

	// Indexed formats. A palette is required.
	BPP1Indexed
	BPP2Indexed
	BPP4Indexed
	BPP8Indexed

	// Grayscale.
	BPP1Gray
	BPP2Gray
	BPP4Gray
	BPP8Gray
	BPP16Gray

	// Grayscale with alpha: 4+4, 8+8 and 16+16 bit packings.
	BPP8GrayAlpha
	BPP16GrayAlpha
	BPP32GrayAlpha

	// Packed 16-bit RGB.
	BPP16RGB555
	BPP16BGR555
	BPP16RGB565
	BPP16BGR565

	// 8- and 16-bit per channel RGB.
	BPP24RGB
	BPP24BGR
	BPP48RGB
	BPP48BGR

	// RGBA orderings, 8 bits per channel.
	BPP32RGBA
	BPP32BGRA
	BPP32ARGB
	BPP32ABGR

	// RGBA orderings, 16 bits per channel.
	BPP64RGBA
	BPP64BGRA
	BPP64ARGB
	BPP64ABGR

	// Four-channel RGB whose fourth channel is ignored.
	BPP32RGBX
	BPP32BGRX
	BPP32XRGB
	BPP32XBGR

	// YUV.
	BPP24YUV
	BPP30YUV
	BPP36YUV
	BPP48YUV

	// YUV with alpha.
	BPP32YUVA
	BPP40YUVA
	BPP48YUVA
	BPP64YUVA

	// CMYK.
	BPP32CMYK
	BPP64CMYK
	BPP40CMYKA
	BPP80CMYKA
)

// Family groups formats that share component semantics.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyIndexed
	FamilyGray
	FamilyGrayAlpha
	FamilyRGB
	FamilyRGBA
	FamilyRGBX
	FamilyYUV
	FamilyYUVA
	FamilyCMYK
	FamilyCMYKA
)

type formatInfo struct {
	name   string
	bpp    int
	family Family
	alpha  bool
}

var formats = map[Format]formatInfo{
	FormatUnknown:  {"UNKNOWN", 0, FamilyUnknown, false},
	FormatSource:   {"SOURCE", 0, FamilyUnknown, false},
	BPP1Indexed:    {"BPP1-INDEXED", 1, FamilyIndexed, false},
	BPP2Indexed:    {"BPP2-INDEXED", 2, FamilyIndexed, false},
	BPP4Indexed:    {"BPP4-INDEXED", 4, FamilyIndexed, false},
	BPP8Indexed:    {"BPP8-INDEXED", 8, FamilyIndexed, false},
	BPP1Gray:       {"BPP1-GRAYSCALE", 1, FamilyGray, false},
	BPP2Gray:       {"BPP2-GRAYSCALE", 2, FamilyGray, false},
	BPP4Gray:       {"BPP4-GRAYSCALE", 4, FamilyGray, false},
	BPP8Gray:       {"BPP8-GRAYSCALE", 8, FamilyGray, false},
	BPP16Gray:      {"BPP16-GRAYSCALE", 16, FamilyGray, false},
	BPP8GrayAlpha:  {"BPP8-GRAYSCALE-ALPHA", 8, FamilyGrayAlpha, true},
	BPP16GrayAlpha: {"BPP16-GRAYSCALE-ALPHA", 16, FamilyGrayAlpha, true},
	BPP32GrayAlpha: {"BPP32-GRAYSCALE-ALPHA", 32, FamilyGrayAlpha, true},
	BPP16RGB555:    {"BPP16-RGB555", 16, FamilyRGB, false},
	BPP16BGR555:    {"BPP16-BGR555", 16, FamilyRGB, false},
	BPP16RGB565:    {"BPP16-RGB565", 16, FamilyRGB, false},
	BPP16BGR565:    {"BPP16-BGR565", 16, FamilyRGB, false},
	BPP24RGB:       {"BPP24-RGB", 24, FamilyRGB, false},
	BPP24BGR:       {"BPP24-BGR", 24, FamilyRGB, false},
	BPP48RGB:       {"BPP48-RGB", 48, FamilyRGB, false},
	BPP48BGR:       {"BPP48-BGR", 48, FamilyRGB, false},
	BPP32RGBA:      {"BPP32-RGBA", 32, FamilyRGBA, true},
	BPP32BGRA:      {"BPP32-BGRA", 32, FamilyRGBA, true},
	BPP32ARGB:      {"BPP32-ARGB", 32, FamilyRGBA, true},
	BPP32ABGR:      {"BPP32-ABGR", 32, FamilyRGBA, true},
	BPP64RGBA:      {"BPP64-RGBA", 64, FamilyRGBA, true},
	BPP64BGRA:      {"BPP64-BGRA", 64, FamilyRGBA, true},
	BPP64ARGB:      {"BPP64-ARGB", 64, FamilyRGBA, true},
	BPP64ABGR:      {"BPP64-ABGR", 64, FamilyRGBA, true},
	BPP32RGBX:      {"BPP32-RGBX", 32, FamilyRGBX, false},
	BPP32BGRX:      {"BPP32-BGRX", 32, FamilyRGBX, false},
	BPP32XRGB:      {"BPP32-XRGB", 32, FamilyRGBX, false},
	BPP32XBGR:      {"BPP32-XBGR", 32, FamilyRGBX, false},
	BPP24YUV:       {"BPP24-YUV", 24, FamilyYUV, false},
	BPP30YUV:       {"BPP30-YUV", 30, FamilyYUV, false},
	BPP36YUV:       {"BPP36-YUV", 36, FamilyYUV, false},
	BPP48YUV:       {"BPP48-YUV", 48, FamilyYUV, false},
	BPP32YUVA:      {"BPP32-YUVA", 32, FamilyYUVA, true},
	BPP40YUVA:      {"BPP40-YUVA", 40, FamilyYUVA, true},
	BPP48YUVA:      {"BPP48-YUVA", 48, FamilyYUVA, true},
	BPP64YUVA:      {"BPP64-YUVA", 64, FamilyYUVA, true},
	BPP32CMYK:      {"BPP32-CMYK", 32, FamilyCMYK, false},
	BPP64CMYK:      {"BPP64-CMYK", 64, FamilyCMYK, false},
	BPP40CMYKA:     {"BPP40-CMYKA", 40, FamilyCMYKA, true},
	BPP80CMYKA:     {"BPP80-CMYKA", 80, FamilyCMYKA, true},
}

// String implements fmt.Stringer.
func (f Format) String() string {
	if info, ok := formats[f]; ok {
		return info.name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// BitsPerPixel returns the storage bits of one pixel in f. Total over the
// closed enumeration; sentinels yield 0.
func (f Format) BitsPerPixel() int { return formats[f].bpp }

// Family returns the component family of f.
func (f Format) Family() Family { return formats[f].family }

// HasAlpha reports whether f carries an alpha channel. The X channel of
// RGBX formats is not alpha.
func (f Format) HasAlpha() bool { return formats[f].alpha }

// Indexed reports whether f requires a palette.
func (f Format) Indexed() bool { return formats[f].family == FamilyIndexed }

// Grayscale reports whether f is a grayscale layout, with or without alpha.
func (f Format) Grayscale() bool {
	fam := formats[f].family
	return fam == FamilyGray || fam == FamilyGrayAlpha
}

// BytesPerLine returns the unpadded scan line size for a width in pixels.
// Sub-byte formats round up to whole bytes.
func BytesPerLine(width int, f Format) int {
	return (width*f.BitsPerPixel() + 7) / 8
}
