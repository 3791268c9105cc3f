/*
NAME
  fli_test.go

DESCRIPTION
  fli_test.go contains tests for the FLIC codec: chunk decoding, delay
  conversion, palette scaling and encode/decode round trips.

AUTHORS
  Trek Hopton <trek@ausocean.org>
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package fli

import (
	"testing"

	"github.com/ausocean/utils/logging"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/ausocean/pix/codec"
	"github.com/ausocean/pix/pixel"
	"github.com/ausocean/pix/stream"
)

func TestDecodeBRUNPackets(t *testing.T) {
	// One scan line of width 12: a packet count of 3, a run of 5×0x41, a
	// run of 3×0x42 and a literal of 43 44 45 46.
	src := stream.NewMemory([]byte{
		0x03,
		0x05, 0x41,
		0x03, 0x42,
		0xFC, 0x43, 0x44, 0x45, 0x46,
	})
	got := make([]byte, 12)
	if err := decodeBRUN(src, got, 12, 1); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	want := []byte{0x41, 0x41, 0x41, 0x41, 0x41, 0x42, 0x42, 0x42, 0x43, 0x44, 0x45, 0x46}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeBRUNClampsToWidth(t *testing.T) {
	// A run of 9 into a line of width 4 clamps.
	src := stream.NewMemory([]byte{0x01, 0x09, 0x7F})
	got := make([]byte, 4)
	if err := decodeBRUN(src, got, 4, 1); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	want := []byte{0x7F, 0x7F, 0x7F, 0x7F}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeLC(t *testing.T) {
	// Start at row 1, one row: skip 2, copy 2 bytes, skip 1, run of 3.
	src := stream.NewMemory([]byte{
		0x01, 0x00, // start y
		0x01, 0x00, // line count
		0x02,       // packets
		0x02, 0x02, 0xAA, 0xBB,
		0x01, 0xFD, 0xCC,
	})
	pixels := make([]byte, 8*2)
	if err := decodeLC(src, pixels, 8, 2); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	want := make([]byte, 16)
	copy(want[8:], []byte{0, 0, 0xAA, 0xBB, 0, 0xCC, 0xCC, 0xCC})
	if diff := cmp.Diff(want, pixels); diff != "" {
		t.Errorf("pixels mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeSS2(t *testing.T) {
	// Two lines declared. First line: one packet, skip 1 word, copy one
	// word. Second line: replicate one word twice.
	src := stream.NewMemory([]byte{
		0x02, 0x00,
		0x01, 0x00, // packet count 1
		0x01, 0x01, 0xAA, 0xBB, // skip 2 bytes, copy 1 word
		0x01, 0x00, // packet count 1
		0x00, 0xFE, 0xCC, 0xDD, // run of 2 words
	})
	pixels := make([]byte, 6*2)
	if err := decodeSS2(src, pixels, 6, 2); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	want := []byte{
		0, 0, 0xAA, 0xBB, 0, 0,
		0xCC, 0xDD, 0xCC, 0xDD, 0, 0,
	}
	if diff := cmp.Diff(want, pixels); diff != "" {
		t.Errorf("pixels mismatch (-want +got):\n%s", diff)
	}
}

func TestColor64Scaling(t *testing.T) {
	// One packet of one 6-bit color: 63 63 0 scales to 255 255 0.
	src := stream.NewMemory([]byte{
		0x01, 0x00,
		0x00, 0x01,
		63, 63, 0,
	})
	pal := make([]byte, paletteColors*3)
	if err := decodeColorChunk(src, pal, true); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if pal[0] != 255 || pal[1] != 255 || pal[2] != 0 {
		t.Errorf("scaled entry: got %v, want [255 255 0]", pal[:3])
	}
}

func TestDelayConversion(t *testing.T) {
	fli := fileHeader{magic: magicFLI, speed: 7}
	if got := fli.delayMS(); got != 100 {
		t.Errorf("FLI delay: got %d, want 100", got)
	}
	flc := fileHeader{magic: magicFLC, speed: 40}
	if got := flc.delayMS(); got != 40 {
		t.Errorf("FLC delay: got %d, want 40", got)
	}
}

// testAnimation builds an indexed two-frame animation with a 256-color
// palette.
func testAnimation(t *testing.T, w, h int) []*pixel.Image {
	t.Helper()
	pal, err := pixel.NewPalette(pixel.BPP24RGB, paletteColors)
	if err != nil {
		t.Fatalf("could not create palette: %v", err)
	}
	for i := 0; i < paletteColors; i++ {
		pal.Data[i*3] = byte(i)
		pal.Data[i*3+1] = byte(255 - i)
		pal.Data[i*3+2] = byte(i / 2)
	}

	var frames []*pixel.Image
	for f := 0; f < 2; f++ {
		im, err := pixel.New(w, h, pixel.BPP8Indexed)
		if err != nil {
			t.Fatalf("could not create image: %v", err)
		}
		im.Palette = pal.Copy()
		im.Delay = 40
		for i := range im.Pixels {
			im.Pixels[i] = byte((i + f*7) % 251)
		}
		frames = append(frames, im)
	}
	return frames
}

func TestRoundTrip(t *testing.T) {
	log := (*logging.TestLogger)(t)
	frames := testAnimation(t, 9, 5)

	buf := stream.NewBuffer()
	enc, err := NewEncoder(buf, &codec.SaveOptions{Log: log})
	if err != nil {
		t.Fatalf("could not open encoder: %v", err)
	}
	for _, im := range frames {
		if err := enc.NextFrame(im); err != nil {
			t.Fatalf("next frame failed: %v", err)
		}
		if err := enc.WriteFrame(im); err != nil {
			t.Fatalf("write frame failed: %v", err)
		}
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	// Not 320×200, so the output must be FLC.
	out := buf.Bytes()
	if out[4] != 0x12 || out[5] != 0xAF {
		t.Fatalf("magic: got % X, want 12 AF", out[4:6])
	}

	src := stream.NewMemory(out)
	dec, err := NewDecoder(src, &codec.LoadOptions{Log: log})
	if err != nil {
		t.Fatalf("could not open decoder: %v", err)
	}
	defer dec.Close()

	for i, want := range frames {
		shell, err := dec.NextFrame()
		if err != nil {
			t.Fatalf("frame %d seek failed: %v", i, err)
		}
		if shell.Width != 9 || shell.Height != 5 || shell.Format != pixel.BPP8Indexed {
			t.Fatalf("frame %d shell: %dx%d %v", i, shell.Width, shell.Height, shell.Format)
		}
		if shell.Delay != 40 {
			t.Errorf("frame %d delay: got %d, want 40", i, shell.Delay)
		}
		if err := shell.Alloc(); err != nil {
			t.Fatalf("alloc failed: %v", err)
		}
		if err := dec.ReadFrame(shell); err != nil {
			t.Fatalf("frame %d read failed: %v", i, err)
		}
		if diff := cmp.Diff(want.Pixels, shell.Pixels); diff != "" {
			t.Errorf("frame %d pixels mismatch (-want +got):\n%s", i, diff)
		}
		if diff := cmp.Diff(want.Palette.Data, shell.Palette.Data); diff != "" {
			t.Errorf("frame %d palette mismatch (-want +got):\n%s", i, diff)
		}
	}

	if _, err := dec.NextFrame(); errors.Cause(err) != codec.ErrNoMoreFrames {
		t.Errorf("got %v, want ErrNoMoreFrames", err)
	}
}

func TestSaveRejectsBadInput(t *testing.T) {
	buf := stream.NewBuffer()
	enc, err := NewEncoder(buf, nil)
	if err != nil {
		t.Fatalf("could not open encoder: %v", err)
	}

	rgb, err := pixel.New(4, 4, pixel.BPP24RGB)
	if err != nil {
		t.Fatalf("could not create image: %v", err)
	}
	if err := enc.NextFrame(rgb); errors.Cause(err) != codec.ErrUnsupportedPixelFormat {
		t.Errorf("got %v, want ErrUnsupportedPixelFormat", err)
	}

	idx, err := pixel.New(4, 4, pixel.BPP8Indexed)
	if err != nil {
		t.Fatalf("could not create image: %v", err)
	}
	enc2, _ := NewEncoder(stream.NewBuffer(), nil)
	if err := enc2.NextFrame(idx); errors.Cause(err) != codec.ErrMissingPalette {
		t.Errorf("got %v, want ErrMissingPalette", err)
	}

	idx.Palette, err = pixel.NewPalette(pixel.BPP24RGB, 16)
	if err != nil {
		t.Fatalf("could not create palette: %v", err)
	}
	enc3, _ := NewEncoder(stream.NewBuffer(), nil)
	if err := enc3.NextFrame(idx); errors.Cause(err) != codec.ErrUnsupportedProperty {
		t.Errorf("got %v, want ErrUnsupportedProperty", err)
	}
}

func TestLoadRejectsBadHeader(t *testing.T) {
	hdr := fileHeader{magic: 0x1234, frames: 1, width: 4, height: 4, depth: 8}
	buf := stream.NewBuffer()
	if err := hdr.write(buf); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := buf.Seek(0, 0); err != nil {
		t.Fatalf("seek failed: %v", err)
	}
	if _, err := NewDecoder(buf, nil); errors.Cause(err) != codec.ErrInvalidImage {
		t.Errorf("got %v, want ErrInvalidImage", err)
	}

	hdr = fileHeader{magic: magicFLC, frames: 1, width: 4, height: 4, depth: 16}
	buf = stream.NewBuffer()
	if err := hdr.write(buf); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := buf.Seek(0, 0); err != nil {
		t.Fatalf("seek failed: %v", err)
	}
	if _, err := NewDecoder(buf, nil); errors.Cause(err) != codec.ErrUnsupportedBitDepth {
		t.Errorf("got %v, want ErrUnsupportedBitDepth", err)
	}
}

func TestFLISpeedOnSave(t *testing.T) {
	frames := testAnimation(t, fliWidth, fliHeight)
	frames[0].Delay = 100 // 100 ms is 7 ticks of 1/70 s.

	buf := stream.NewBuffer()
	enc, err := NewEncoder(buf, nil)
	if err != nil {
		t.Fatalf("could not open encoder: %v", err)
	}
	if err := enc.NextFrame(frames[0]); err != nil {
		t.Fatalf("next frame failed: %v", err)
	}
	if err := enc.WriteFrame(frames[0]); err != nil {
		t.Fatalf("write frame failed: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	out := buf.Bytes()
	if out[4] != 0x11 || out[5] != 0xAF {
		t.Fatalf("320x200 should be FLI, magic % X", out[4:6])
	}
	speed := uint32(out[16]) | uint32(out[17])<<8 | uint32(out[18])<<16 | uint32(out[19])<<24
	if speed != 7 {
		t.Errorf("speed: got %d, want 7", speed)
	}
}
