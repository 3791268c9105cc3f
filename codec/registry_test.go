/*
NAME
  registry_test.go

DESCRIPTION
  registry_test.go contains tests for codec dispatch and descriptor
  parsing.

AUTHORS
  Alan Noble <alan@ausocean.org>
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package codec

import (
	"strings"
	"testing"

	"github.com/ausocean/utils/logging"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/ausocean/pix/stream"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry((*logging.TestLogger)(t))

	png := &Info{
		Name:       "png",
		Extensions: []string{"png"},
		MIMETypes:  []string{"image/png"},
		Magic:      []Magic{{Pattern: []byte{0x89, 0x50, 0x4E, 0x47}}},
	}
	fli := &Info{
		Name:       "fli",
		Extensions: []string{"fli", "flc"},
		MIMETypes:  []string{"image/fli", "image/flc"},
		// The FLIC magic follows the 32-bit size field.
		Magic: []Magic{
			{Offset: 4, Pattern: []byte{0x11, 0xAF}},
			{Offset: 4, Pattern: []byte{0x12, 0xAF}},
		},
	}
	if err := r.Register(png); err != nil {
		t.Fatalf("could not register png: %v", err)
	}
	if err := r.Register(fli); err != nil {
		t.Fatalf("could not register fli: %v", err)
	}
	return r
}

func TestDispatchByMagic(t *testing.T) {
	r := testRegistry(t)

	s := stream.NewMemory([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	ci, err := r.ByMagic(s)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if ci.Name != "png" {
		t.Errorf("got %s, want png", ci.Name)
	}
	// The probe must rewind.
	if pos, _ := s.Tell(); pos != 0 {
		t.Errorf("stream not rewound, at %d", pos)
	}

	s = stream.NewMemory([]byte{0x00, 0x10, 0x00, 0x00, 0x11, 0xAF, 0x01, 0x00})
	ci, err = r.ByMagic(s)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if ci.Name != "fli" {
		t.Errorf("got %s, want fli", ci.Name)
	}

	s = stream.NewMemory([]byte{1, 2, 3, 4, 5, 6})
	_, err = r.ByMagic(s)
	if errors.Cause(err) != ErrCodecNotFound {
		t.Errorf("got %v, want ErrCodecNotFound", err)
	}
}

func TestDispatchByMagicNotSeekable(t *testing.T) {
	r := testRegistry(t)
	src := strings.NewReader("\x89PNG....")
	s := &stream.Callback{ReadFunc: func(p []byte) (int, error) { return src.Read(p) }}
	_, err := r.ByMagic(s)
	if errors.Cause(err) != stream.ErrNotSeekable {
		t.Errorf("got %v, want ErrNotSeekable", err)
	}
}

func TestDispatchByExtensionAndMIME(t *testing.T) {
	r := testRegistry(t)

	ci, err := r.ByExtension("/tmp/anim.FLC")
	if err != nil {
		t.Fatalf("extension dispatch failed: %v", err)
	}
	if ci.Name != "fli" {
		t.Errorf("got %s, want fli", ci.Name)
	}

	ci, err = r.ByMIME("Image/PNG")
	if err != nil {
		t.Fatalf("MIME dispatch failed: %v", err)
	}
	if ci.Name != "png" {
		t.Errorf("got %s, want png", ci.Name)
	}

	if _, err = r.ByExtension("file.txt"); errors.Cause(err) != ErrCodecNotFound {
		t.Errorf("got %v, want ErrCodecNotFound", err)
	}
}

func TestSessionOrdering(t *testing.T) {
	var s Session
	if err := s.Frame(); errors.Cause(err) != ErrState {
		t.Errorf("frame before seek: got %v, want ErrState", err)
	}
	if err := s.Seek(); err != nil {
		t.Fatalf("seek failed: %v", err)
	}
	if err := s.Seek(); errors.Cause(err) != ErrState {
		t.Errorf("double seek: got %v, want ErrState", err)
	}
	if err := s.Frame(); err != nil {
		t.Fatalf("frame failed: %v", err)
	}
	s.Finish()
	s.Finish() // Idempotent.
	if err := s.Seek(); errors.Cause(err) != ErrState {
		t.Errorf("seek after finish: got %v, want ErrState", err)
	}
}

func TestParseDescriptor(t *testing.T) {
	text := `
# Portable Network Graphics.
name=png
version=1.2.0
description=Portable Network Graphics
magic-number=89 50 4E 47 0D 0A 1A 0A
extension=png
mime-type=image/png
features=static;animated;meta;iccp;interlaced
unknown-key=ignored
`
	ci, err := ParseDescriptor(strings.NewReader(text))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	want := &Info{
		Name:        "png",
		Version:     "1.2.0",
		Description: "Portable Network Graphics",
		Extensions:  []string{"png"},
		MIMETypes:   []string{"image/png"},
		Magic: []Magic{{
			Pattern: []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
			Mask:    []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
		}},
	}
	wantFeatures := FeatureStatic | FeatureAnimated | FeatureMeta | FeatureICCP | FeatureInterlaced

	if diff := cmp.Diff(want.Magic, ci.Magic); diff != "" {
		t.Errorf("magic mismatch (-want +got):\n%s", diff)
	}
	if ci.Name != want.Name || ci.Version != want.Version {
		t.Errorf("identity mismatch: got %s %s", ci.Name, ci.Version)
	}
	if ci.LoadFeatures.Features != wantFeatures {
		t.Errorf("features: got %b, want %b", ci.LoadFeatures.Features, wantFeatures)
	}
}

func TestParseDescriptorMagicForms(t *testing.T) {
	ci, err := ParseDescriptor(strings.NewReader("name=x\nmagic-number=+4 11 AF\nmagic-number=52 49 ?? 46\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if ci.Magic[0].Offset != 4 || len(ci.Magic[0].Pattern) != 2 {
		t.Errorf("offset magic parsed wrongly: %+v", ci.Magic[0])
	}
	if ci.Magic[1].Mask[2] != 0 {
		t.Errorf("wildcard not masked: %+v", ci.Magic[1])
	}
	if !ci.Magic[1].Matches([]byte{0x52, 0x49, 0x99, 0x46}) {
		t.Error("wildcard magic should match")
	}

	if _, err = ParseDescriptor(strings.NewReader("name=x\nmagic-number=GG\n")); err == nil {
		t.Error("bad hex accepted")
	}
	if _, err = ParseDescriptor(strings.NewReader("version=1\n")); err == nil {
		t.Error("descriptor without name accepted")
	}
}
