/*
NAME
  convert_test.go

DESCRIPTION
  convert_test.go contains tests for the conversion engine.

AUTHORS
  Dan Kortschak <dan@ausocean.org>
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package convert

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/ausocean/pix/pixel"
)

// mustImage returns a width×height image of format f with the given pixels.
func mustImage(t *testing.T, w, h int, f pixel.Format, px []byte) *pixel.Image {
	t.Helper()
	im, err := pixel.New(w, h, f)
	if err != nil {
		t.Fatalf("could not create image: %v", err)
	}
	copy(im.Pixels, px)
	return im
}

func TestRGBToGrayLuma(t *testing.T) {
	im := mustImage(t, 1, 1, pixel.BPP24RGB, []byte{100, 150, 200})
	out, err := Convert(im, pixel.BPP8Gray, nil)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	// round(0.299*100 + 0.587*150 + 0.114*200) = 141.
	if out.Pixels[0] != 141 {
		t.Errorf("luma: got %d, want 141", out.Pixels[0])
	}
}

func TestBlendAlphaOverBackground(t *testing.T) {
	im := mustImage(t, 1, 1, pixel.BPP32RGBA, []byte{255, 0, 0, 128})
	opts := &Options{Flags: BlendAlpha, Background24: [3]uint8{255, 255, 255}}
	out, err := Convert(im, pixel.BPP24RGB, opts)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	want := []byte{255, 127, 127}
	if diff := cmp.Diff(want, out.Pixels); diff != "" {
		t.Errorf("blended pixel mismatch (-want +got):\n%s", diff)
	}
}

func TestBlendAlphaExtremes(t *testing.T) {
	bg := [3]uint8{12, 34, 56}

	// Fully transparent source yields exactly the background.
	im := mustImage(t, 2, 1, pixel.BPP32RGBA, []byte{200, 100, 50, 0, 1, 2, 3, 0})
	out, err := Convert(im, pixel.BPP24RGB, &Options{Flags: BlendAlpha, Background24: bg})
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	want := []byte{12, 34, 56, 12, 34, 56}
	if diff := cmp.Diff(want, out.Pixels); diff != "" {
		t.Errorf("transparent blend mismatch (-want +got):\n%s", diff)
	}

	// Fully opaque source ignores the background.
	im = mustImage(t, 1, 1, pixel.BPP32RGBA, []byte{200, 100, 50, 255})
	out, err = Convert(im, pixel.BPP24RGB, &Options{Flags: BlendAlpha, Background24: bg})
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	want = []byte{200, 100, 50}
	if diff := cmp.Diff(want, out.Pixels); diff != "" {
		t.Errorf("opaque blend mismatch (-want +got):\n%s", diff)
	}
}

func TestAlphaExpandFillsOpaque(t *testing.T) {
	im := mustImage(t, 1, 1, pixel.BPP24RGB, []byte{10, 20, 30})
	out, err := Convert(im, pixel.BPP32RGBA, nil)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	want := []byte{10, 20, 30, 255}
	if diff := cmp.Diff(want, out.Pixels); diff != "" {
		t.Errorf("alpha expand mismatch (-want +got):\n%s", diff)
	}

	out64, err := Convert(im, pixel.BPP64RGBA, nil)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if out64.Pixels[6] != 0xFF || out64.Pixels[7] != 0xFF {
		t.Errorf("16-bit alpha expand: got %x%x, want ffff", out64.Pixels[6], out64.Pixels[7])
	}
}

func TestIdempotentConversion(t *testing.T) {
	im := mustImage(t, 2, 2, pixel.BPP32YUVA, []byte{
		10, 20, 30, 40, 50, 60, 70, 80,
		90, 100, 110, 120, 130, 140, 150, 160,
	})
	out, err := Convert(im, pixel.BPP32YUVA, nil)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if diff := cmp.Diff(im.Pixels, out.Pixels); diff != "" {
		t.Errorf("same-format conversion not identical (-want +got):\n%s", diff)
	}
}

func TestChannelReorder(t *testing.T) {
	im := mustImage(t, 1, 1, pixel.BPP32RGBA, []byte{1, 2, 3, 4})

	tests := []struct {
		target pixel.Format
		want   []byte
	}{
		{pixel.BPP32BGRA, []byte{3, 2, 1, 4}},
		{pixel.BPP32ARGB, []byte{4, 1, 2, 3}},
		{pixel.BPP32ABGR, []byte{4, 3, 2, 1}},
		{pixel.BPP24BGR, []byte{3, 2, 1}},
	}
	for _, tt := range tests {
		out, err := Convert(im, tt.target, nil)
		if err != nil {
			t.Fatalf("convert to %v failed: %v", tt.target, err)
		}
		if diff := cmp.Diff(tt.want, out.Pixels); diff != "" {
			t.Errorf("%v mismatch (-want +got):\n%s", tt.target, diff)
		}
	}
}

func TestWidthExpansionAndNarrowing(t *testing.T) {
	im := mustImage(t, 1, 1, pixel.BPP24RGB, []byte{0x12, 0x34, 0x56})
	out, err := Convert(im, pixel.BPP48RGB, nil)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	// x' = x<<8 | x.
	want := []byte{0x12, 0x12, 0x34, 0x34, 0x56, 0x56}
	if diff := cmp.Diff(want, out.Pixels); diff != "" {
		t.Errorf("widening mismatch (-want +got):\n%s", diff)
	}

	back, err := Convert(out, pixel.BPP24RGB, nil)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if diff := cmp.Diff(im.Pixels, back.Pixels); diff != "" {
		t.Errorf("narrowing mismatch (-want +got):\n%s", diff)
	}
}

func TestIndexedMaterialisation(t *testing.T) {
	im, err := pixel.New(4, 1, pixel.BPP4Indexed)
	if err != nil {
		t.Fatalf("could not create image: %v", err)
	}
	im.Palette, err = pixel.NewPalette(pixel.BPP24RGB, 3)
	if err != nil {
		t.Fatalf("could not create palette: %v", err)
	}
	copy(im.Palette.Data, []byte{
		255, 0, 0,
		0, 255, 0,
		0, 0, 255,
	})
	// Indices 0 1 2 0, two per byte, MSB first.
	copy(im.Pixels, []byte{0x01, 0x20})

	out, err := Convert(im, pixel.BPP24RGB, nil)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	want := []byte{
		255, 0, 0,
		0, 255, 0,
		0, 0, 255,
		255, 0, 0,
	}
	if diff := cmp.Diff(want, out.Pixels); diff != "" {
		t.Errorf("indexed materialisation mismatch (-want +got):\n%s", diff)
	}
}

func TestIndexedOutOfRangeIsBroken(t *testing.T) {
	im, err := pixel.New(1, 1, pixel.BPP8Indexed)
	if err != nil {
		t.Fatalf("could not create image: %v", err)
	}
	im.Palette, err = pixel.NewPalette(pixel.BPP24RGB, 2)
	if err != nil {
		t.Fatalf("could not create palette: %v", err)
	}
	im.Pixels[0] = 7

	_, err = Convert(im, pixel.BPP24RGB, nil)
	if errors.Cause(err) != ErrBrokenImage {
		t.Errorf("got %v, want ErrBrokenImage", err)
	}
}

func TestPacked16RoundTrip(t *testing.T) {
	// Channel values reproduced by 5/6-bit replication survive a 565
	// round trip.
	im := mustImage(t, 1, 1, pixel.BPP24RGB, []byte{0xFF, 0xFF, 0x08})
	packed, err := Convert(im, pixel.BPP16RGB565, nil)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	back, err := Convert(packed, pixel.BPP24RGB, nil)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if diff := cmp.Diff(im.Pixels, back.Pixels); diff != "" {
		t.Errorf("565 round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestGrayYUVRoundTrip(t *testing.T) {
	// A neutral gray has centered chroma, so YUV conversion is exact.
	im := mustImage(t, 1, 1, pixel.BPP24RGB, []byte{128, 128, 128})
	yuv, err := Convert(im, pixel.BPP24YUV, nil)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if yuv.Pixels[0] != 128 || yuv.Pixels[1] != 128 || yuv.Pixels[2] != 128 {
		t.Errorf("neutral gray YUV: got %v, want [128 128 128]", yuv.Pixels)
	}
	back, err := Convert(yuv, pixel.BPP24RGB, nil)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if diff := cmp.Diff(im.Pixels, back.Pixels); diff != "" {
		t.Errorf("YUV round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCMYKPureColors(t *testing.T) {
	im := mustImage(t, 2, 1, pixel.BPP24RGB, []byte{
		255, 0, 0, // Pure red: C=0 M=255 Y=255 K=0.
		0, 0, 0, // Pure black: K=255.
	})
	out, err := Convert(im, pixel.BPP32CMYK, nil)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if out.Pixels[0] != 0 || out.Pixels[1] != 255 || out.Pixels[2] != 255 || out.Pixels[3] != 0 {
		t.Errorf("red CMYK: got %v", out.Pixels[:4])
	}
	if out.Pixels[7] != 255 {
		t.Errorf("black K: got %d, want 255", out.Pixels[7])
	}

	back, err := Convert(out, pixel.BPP24RGB, nil)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if diff := cmp.Diff(im.Pixels, back.Pixels); diff != "" {
		t.Errorf("CMYK round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestUnsupportedPairs(t *testing.T) {
	im := mustImage(t, 1, 1, pixel.BPP24RGB, []byte{1, 2, 3})

	// 10-bit packed YUV and indexed targets are not supported.
	for _, target := range []pixel.Format{pixel.BPP30YUV, pixel.BPP8Indexed, pixel.BPP1Gray} {
		_, err := Convert(im, target, nil)
		if errors.Cause(err) != ErrUnsupported {
			t.Errorf("to %v: got %v, want ErrUnsupported", target, err)
		}
	}
}

func TestMetadataCarriedOver(t *testing.T) {
	im := mustImage(t, 1, 1, pixel.BPP24RGB, []byte{1, 2, 3})
	im.ICCP = &pixel.ICCProfile{Data: []byte{9, 9}}
	im.Resolution = &pixel.Resolution{Unit: pixel.ResolutionUnitMeter, X: 72, Y: 72}
	im.Delay = 40

	out, err := Convert(im, pixel.BPP8Gray, nil)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if out.ICCP == nil || len(out.ICCP.Data) != 2 {
		t.Error("ICC profile not carried over")
	}
	if out.Resolution == nil || out.Resolution.Unit != pixel.ResolutionUnitMeter {
		t.Error("resolution not carried over")
	}
	if out.Delay != 40 {
		t.Errorf("delay: got %d, want 40", out.Delay)
	}
}
