/*
NAME
  xpm_test.go

DESCRIPTION
  xpm_test.go contains tests for the XPM codec.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package xpm

import (
	"testing"

	"github.com/ausocean/utils/logging"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/ausocean/pix/codec"
	"github.com/ausocean/pix/meta"
	"github.com/ausocean/pix/pixel"
	"github.com/ausocean/pix/stream"
)

const testXPM = `/* XPM */
static char *arrow[] = {
"4 2 3 1 1 0",
"  c None",
". c #FF0000",
"X c blue",
". X.",
"XX..",
};
`

func TestDecode(t *testing.T) {
	dec, err := NewDecoder(stream.NewMemory([]byte(testXPM)), &codec.LoadOptions{Log: (*logging.TestLogger)(t)})
	if err != nil {
		t.Fatalf("could not open decoder: %v", err)
	}
	defer dec.Close()

	shell, err := dec.NextFrame()
	if err != nil {
		t.Fatalf("seek failed: %v", err)
	}
	if shell.Format != pixel.BPP32RGBA {
		t.Fatalf("format: got %v, want BPP32RGBA (None present)", shell.Format)
	}
	if shell.Width != 4 || shell.Height != 2 {
		t.Fatalf("dimensions: got %dx%d", shell.Width, shell.Height)
	}
	if v, ok := shell.Source.Special.IntAt("xpm-hotspot-x"); !ok || v != 1 {
		t.Errorf("hotspot x: got %d/%v", v, ok)
	}

	if err := shell.Alloc(); err != nil {
		t.Fatal(err)
	}
	if err := dec.ReadFrame(shell); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	want := []byte{
		255, 0, 0, 255, 0, 0, 0, 0, 0, 0, 255, 255, 255, 0, 0, 255,
		0, 0, 255, 255, 0, 0, 255, 255, 255, 0, 0, 255, 255, 0, 0, 255,
	}
	if diff := cmp.Diff(want, shell.Pixels); diff != "" {
		t.Errorf("pixels mismatch (-want +got):\n%s", diff)
	}

	if _, err := dec.NextFrame(); errors.Cause(err) != codec.ErrNoMoreFrames {
		t.Errorf("got %v, want ErrNoMoreFrames", err)
	}
}

func TestRoundTrip(t *testing.T) {
	im, err := pixel.New(3, 2, pixel.BPP24RGB)
	if err != nil {
		t.Fatalf("could not create image: %v", err)
	}
	copy(im.Pixels, []byte{
		255, 0, 0, 0, 255, 0, 255, 0, 0,
		0, 0, 255, 0, 0, 255, 255, 0, 0,
	})

	buf := stream.NewBuffer()
	enc, err := NewEncoder(buf, &codec.SaveOptions{Tuning: meta.Map{"xpm-name": meta.StringOf("testimg")}})
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
}

func TestRejectsBadHeader(t *testing.T) {
	_, err := NewDecoder(stream.NewMemory([]byte(`"not a header"`)), nil)
	if errors.Cause(err) != codec.ErrBrokenImage {
		t.Errorf("got %v, want ErrBrokenImage", err)
	}
}
