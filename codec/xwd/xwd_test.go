/*
NAME
  xwd_test.go

DESCRIPTION
  xwd_test.go contains tests for the XWD codec.

AUTHORS
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package xwd

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/ausocean/pix/codec"
	"github.com/ausocean/pix/pixel"
	"github.com/ausocean/pix/stream"
)

func TestRoundTripTruecolor(t *testing.T) {
	im, err := pixel.New(3, 2, pixel.BPP24RGB)
	if err != nil {
		t.Fatalf("could not create image: %v", err)
	}
	copy(im.Pixels, []byte{
		255, 0, 0, 0, 255, 0, 0, 0, 255,
		10, 20, 30, 40, 50, 60, 70, 80, 90,
	})

	buf := stream.NewBuffer()
	enc, err := NewEncoder(buf, nil)
	if err != nil {
		t.Fatalf("could not open encoder: %v", err)
	}
	if err := enc.NextFrame(im); err != nil {
		t.Fatalf("next frame failed: %v", err)
	}
	if err := enc.WriteFrame(im); err != nil {
		t.Fatalf("write frame failed: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	dec, err := NewDecoder(stream.NewMemory(buf.Bytes()), nil)
	if err != nil {
		t.Fatalf("could not open decoder: %v", err)
	}
	defer dec.Close()
	shell, err := dec.NextFrame()
	if err != nil {
		t.Fatalf("seek failed: %v", err)
	}
	if shell.Format != pixel.BPP24RGB {
		t.Fatalf("format: got %v", shell.Format)
	}
	if err := shell.Alloc(); err != nil {
		t.Fatal(err)
	}
	if err := dec.ReadFrame(shell); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if diff := cmp.Diff(im.Pixels, shell.Pixels); diff != "" {
		t.Errorf("pixels mismatch (-want +got):\n%s", diff)
	}

	if _, err := dec.NextFrame(); errors.Cause(err) != codec.ErrNoMoreFrames {
		t.Errorf("got %v, want ErrNoMoreFrames", err)
	}
}

// buildPseudoColor constructs a little-endian 2×2 8-bit colormapped dump.
func buildPseudoColor(t *testing.T) []byte {
	t.Helper()
	h := header{
		headerSize:   headerSize,
		fileVersion:  fileVersion,
		pixmapFormat: 2,
		pixmapDepth:  8,
		pixmapWidth:  2,
		pixmapHeight: 2,
		bitsPerPixel: 8,
		bytesPerLine: 2,
		visualClass:  visualPseudoColor,
		ncolors:      2,
	}
	var buf []byte
	var word [4]byte
	for _, f := range h.fields() {
		binary.LittleEndian.PutUint32(word[:], *f)
		buf = append(buf, word[:]...)
	}

	// Two colormap entries: red and cyan, 16-bit channels.
	entry := func(r, g, b uint16) []byte {
		e := make([]byte, colorSize)
		binary.LittleEndian.PutUint16(e[4:], r)
		binary.LittleEndian.PutUint16(e[6:], g)
		binary.LittleEndian.PutUint16(e[8:], b)
		return e
	}
	buf = append(buf, entry(0xFFFF, 0, 0)...)
	buf = append(buf, entry(0, 0xFFFF, 0xFFFF)...)

	// Pixel indices.
	buf = append(buf, 0, 1, 1, 0)
	return buf
}

func TestDecodePseudoColor(t *testing.T) {
	dec, err := NewDecoder(stream.NewMemory(buildPseudoColor(t)), nil)
	if err != nil {
		t.Fatalf("could not open decoder: %v", err)
	}
	defer dec.Close()

	shell, err := dec.NextFrame()
	if err != nil {
		t.Fatalf("seek failed: %v", err)
	}
	if shell.Format != pixel.BPP8Indexed {
		t.Fatalf("format: got %v", shell.Format)
	}
	if shell.Palette == nil || shell.Palette.Count != 2 {
		t.Fatal("palette not decoded")
	}
	if diff := cmp.Diff([]byte{255, 0, 0, 0, 255, 255}, shell.Palette.Data); diff != "" {
		t.Errorf("palette mismatch (-want +got):\n%s", diff)
	}

	if err := shell.Alloc(); err != nil {
		t.Fatal(err)
	}
	if err := dec.ReadFrame(shell); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if diff := cmp.Diff([]byte{0, 1, 1, 0}, shell.Pixels); diff != "" {
		t.Errorf("pixels mismatch (-want +got):\n%s", diff)
	}
}

func TestRejectsBadVersion(t *testing.T) {
	h := header{headerSize: headerSize, fileVersion: 6, pixmapWidth: 1, pixmapHeight: 1}
	var buf []byte
	var word [4]byte
	for _, f := range h.fields() {
		binary.BigEndian.PutUint32(word[:], *f)
		buf = append(buf, word[:]...)
	}
	if _, err := NewDecoder(stream.NewMemory(buf), nil); errors.Cause(err) != codec.ErrUnsupportedFormat {
		t.Errorf("got %v, want ErrUnsupportedFormat", err)
	}
}
