/*
NAME
  pixel_test.go

DESCRIPTION
  pixel_test.go contains tests for the pixel package.

AUTHORS
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pixel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesPerLine(t *testing.T) {
	tests := []struct {
		width  int
		format Format
		want   int
	}{
		{1, BPP1Gray, 1},
		{8, BPP1Gray, 1},
		{9, BPP1Gray, 2},
		{3, BPP4Indexed, 2},
		{5, BPP2Gray, 2},
		{320, BPP8Indexed, 320},
		{10, BPP24RGB, 30},
		{10, BPP16RGB565, 20},
		{10, BPP64RGBA, 80},
		{7, BPP30YUV, 27},
	}
	for _, tt := range tests {
		got := BytesPerLine(tt.width, tt.format)
		assert.Equal(t, tt.want, got, "BytesPerLine(%d, %v)", tt.width, tt.format)

		// A scan line always holds at least width pixels worth of bits.
		assert.GreaterOrEqual(t, got*8, tt.width*tt.format.BitsPerPixel())
	}
}

func TestFormatMetadata(t *testing.T) {
	assert.True(t, BPP8Indexed.Indexed())
	assert.False(t, BPP8Gray.Indexed())
	assert.True(t, BPP16GrayAlpha.HasAlpha())
	assert.True(t, BPP16GrayAlpha.Grayscale())
	assert.False(t, BPP32RGBX.HasAlpha())
	assert.True(t, BPP64ABGR.HasAlpha())
	assert.Equal(t, FamilyCMYKA, BPP80CMYKA.Family())
	assert.Equal(t, 0, FormatSource.BitsPerPixel())
}

func TestImageInvariants(t *testing.T) {
	im, err := New(10, 5, BPP24RGB)
	require.NoError(t, err)
	assert.Equal(t, 30, im.BytesPerLine)
	assert.Len(t, im.Pixels, 150)
	assert.NoError(t, im.Validate())

	// Indexed image requires a palette.
	idx, err := New(4, 4, BPP8Indexed)
	require.NoError(t, err)
	assert.Error(t, idx.Validate())
	idx.Palette, err = NewPalette(BPP24RGB, 256)
	require.NoError(t, err)
	assert.NoError(t, idx.Validate())

	// Present ICC profiles must be non-empty.
	im.ICCP = &ICCProfile{}
	assert.Error(t, im.Validate())
	im.ICCP = &ICCProfile{Data: []byte{1}}
	assert.NoError(t, im.Validate())

	_, err = New(0, 5, BPP24RGB)
	assert.Error(t, err)
	_, err = New(5, 5, FormatUnknown)
	assert.Error(t, err)
}

func TestShellAlloc(t *testing.T) {
	im, err := NewShell(3, 3, BPP4Gray)
	require.NoError(t, err)
	assert.Nil(t, im.Pixels)
	assert.Equal(t, 2, im.BytesPerLine)
	assert.Equal(t, DelayNotAnimated, im.Delay)

	require.NoError(t, im.Alloc())
	assert.Len(t, im.Pixels, 6)
}

func TestImageCopyIsDeep(t *testing.T) {
	im, err := New(2, 2, BPP8Indexed)
	require.NoError(t, err)
	im.Palette, err = NewPalette(BPP24RGB, 2)
	require.NoError(t, err)
	im.Pixels[0] = 1

	cp := im.Copy()
	cp.Pixels[0] = 9
	cp.Palette.Data[0] = 9

	assert.Equal(t, byte(1), im.Pixels[0])
	assert.Equal(t, byte(0), im.Palette.Data[0])
}

func TestPaletteValidate(t *testing.T) {
	p, err := NewPalette(BPP32RGBA, 16)
	require.NoError(t, err)
	assert.Equal(t, 4, p.BytesPerEntry())
	assert.Len(t, p.Data, 64)
	assert.NoError(t, p.Validate())

	p.Data = p.Data[:63]
	assert.Error(t, p.Validate())

	_, err = NewPalette(BPP8Indexed, 16)
	assert.Error(t, err)
}
