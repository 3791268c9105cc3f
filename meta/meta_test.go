/*
NAME
  meta_test.go

DESCRIPTION
  meta_test.go contains tests for the meta package.

AUTHORS
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package meta

import (
	"bytes"
	"testing"
)

func TestVariantRoundTrip(t *testing.T) {
	tests := []struct {
		v    Variant
		kind Kind
		size int
	}{
		{Bool(true), KindBool, 1},
		{Int(KindInt16, -12), KindInt16, 2},
		{Uint(KindUint64, 1 << 40), KindUint64, 8},
		{Int32Of(6), KindInt32, 4},
		{Float64Of(2.2), KindFloat64, 8},
		{StringOf("srgb"), KindString, 4},
		{DataOf([]byte{1, 2, 3}), KindData, 3},
	}
	for _, tt := range tests {
		if tt.v.Kind() != tt.kind {
			t.Errorf("kind: got %v, want %v", tt.v.Kind(), tt.kind)
		}
		if tt.v.Size() != tt.size {
			t.Errorf("%v size: got %d, want %d", tt.kind, tt.v.Size(), tt.size)
		}
	}
}

func TestVariantCopyIsDeep(t *testing.T) {
	src := []byte{1, 2, 3}
	v := DataOf(src)
	cp := v.Copy()

	d, _ := v.DataVal()
	d[0] = 99
	cd, _ := cp.DataVal()
	if bytes.Equal(d, cd) {
		t.Error("copy shares storage with original")
	}
}

func TestKeyMapping(t *testing.T) {
	if KeyFromString("Comment") != KeyComment {
		t.Error("Comment did not map to KeyComment")
	}
	if KeyFromString("X-Custom") != KeyUnknown {
		t.Error("unknown key did not map to KeyUnknown")
	}

	d := Unknown("X-Custom", StringOf("v"))
	if d.Name() != "X-Custom" {
		t.Errorf("unknown entry name: got %q, want X-Custom", d.Name())
	}
	if Known(KeyTitle, StringOf("t")).Name() != "Title" {
		t.Error("known entry name mismatch")
	}
}

func TestMapKnobs(t *testing.T) {
	m := Map{
		"png-compression-level": Int32Of(6),
		"raw-output-color":      StringOf("srgb"),
		"raw-half-size":         Bool(true),
	}

	if v, ok := m.IntAt("png-compression-level"); !ok || v != 6 {
		t.Errorf("IntAt: got %d/%v", v, ok)
	}
	if v, ok := m.StringAt("raw-output-color"); !ok || v != "srgb" {
		t.Errorf("StringAt: got %q/%v", v, ok)
	}
	if _, ok := m.IntAt("raw-output-color"); ok {
		t.Error("IntAt on string knob should fail")
	}
	if _, ok := m.BoolAt("missing"); ok {
		t.Error("BoolAt on missing key should fail")
	}
}
