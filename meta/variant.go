/*
NAME
  variant.go

DESCRIPTION
  variant.go provides Variant, a tagged value carrying one of a fixed set
  of primitive types or an opaque byte blob.

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

// Package meta provides image metadata entities: tagged variant values,
// key/value metadata entries, and the string-keyed variant map used for
// codec tuning knobs and source-image properties.
package meta

import "fmt"

// Kind enumerates the types a Variant can carry.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt8
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindFloat32
	KindFloat64
	KindString
	KindData
)

var kindNames = map[Kind]string{
	KindInvalid: "invalid",
	KindBool:    "bool",
	KindInt8:    "int8",
	KindUint8:   "uint8",
	KindInt16:   "int16",
	KindUint16:  "uint16",
	KindInt32:   "int32",
	KindUint32:  "uint32",
	KindInt64:   "int64",
	KindUint64:  "uint64",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindString:  "string",
	KindData:    "data",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Variant is a tagged union value. The zero Variant is invalid.
type Variant struct {
	kind Kind
	b    bool
	i    int64
	u    uint64
	f    float64
	s    string
	d    []byte
}

// Bool returns a bool Variant.
func Bool(v bool) Variant { return Variant{kind: KindBool, b: v} }

// Int returns an integer Variant of the given signed kind.
func Int(k Kind, v int64) Variant {
	switch k {
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return Variant{kind: k, i: v}
	}
	return Variant{}
}

// Uint returns an integer Variant of the given unsigned kind.
func Uint(k Kind, v uint64) Variant {
	switch k {
	case KindUint8, KindUint16, KindUint32, KindUint64:
		return Variant{kind: k, u: v}
	}
	return Variant{}
}

// Int32Of is shorthand for the common 32-bit signed knob value.
func Int32Of(v int32) Variant { return Variant{kind: KindInt32, i: int64(v)} }

// Float32Of returns a float32 Variant.
func Float32Of(v float32) Variant { return Variant{kind: KindFloat32, f: float64(v)} }

// Float64Of returns a float64 Variant.
func Float64Of(v float64) Variant { return Variant{kind: KindFloat64, f: v} }

// StringOf returns a string Variant.
func StringOf(v string) Variant { return Variant{kind: KindString, s: v} }

// DataOf returns an opaque data Variant. The bytes are copied; variants own
// their storage.
func DataOf(v []byte) Variant {
	d := make([]byte, len(v))
	copy(d, v)
	return Variant{kind: KindData, d: d}
}

// Kind returns the variant's type tag.
func (v Variant) Kind() Kind { return v.kind }

// Valid reports whether the variant carries a value.
func (v Variant) Valid() bool { return v.kind != KindInvalid }

// Size returns the raw storage size in bytes of the carried value.
func (v Variant) Size() int {
	switch v.kind {
	case KindBool, KindInt8, KindUint8:
		return 1
	case KindInt16, KindUint16:
		return 2
	case KindInt32, KindUint32, KindFloat32:
		return 4
	case KindInt64, KindUint64, KindFloat64:
		return 8
	case KindString:
		return len(v.s)
	case KindData:
		return len(v.d)
	}
	return 0
}

// BoolVal returns the bool value and whether the variant holds one.
func (v Variant) BoolVal() (bool, bool) { return v.b, v.kind == KindBool }

// IntVal returns the value of any signed integer variant.
func (v Variant) IntVal() (int64, bool) {
	switch v.kind {
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return v.i, true
	}
	return 0, false
}

// UintVal returns the value of any unsigned integer variant.
func (v Variant) UintVal() (uint64, bool) {
	switch v.kind {
	case KindUint8, KindUint16, KindUint32, KindUint64:
		return v.u, true
	}
	return 0, false
}

// FloatVal returns the value of a float32 or float64 variant.
func (v Variant) FloatVal() (float64, bool) {
	switch v.kind {
	case KindFloat32, KindFloat64:
		return v.f, true
	}
	return 0, false
}

// StringVal returns the string value and whether the variant holds one.
func (v Variant) StringVal() (string, bool) { return v.s, v.kind == KindString }

// DataVal returns the opaque bytes and whether the variant holds them. The
// returned slice is the variant's own storage and must not be modified.
func (v Variant) DataVal() ([]byte, bool) { return v.d, v.kind == KindData }

// Copy returns a deep copy of the variant.
func (v Variant) Copy() Variant {
	if v.kind == KindData {
		return DataOf(v.d)
	}
	return v
}

// String implements fmt.Stringer for diagnostics.
func (v Variant) String() string {
	switch v.kind {
	case KindBool:
		return fmt.Sprintf("%v", v.b)
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return fmt.Sprintf("%d", v.i)
	case KindUint8, KindUint16, KindUint32, KindUint64:
		return fmt.Sprintf("%d", v.u)
	case KindFloat32, KindFloat64:
		return fmt.Sprintf("%g", v.f)
	case KindString:
		return v.s
	case KindData:
		return fmt.Sprintf("<%d bytes>", len(v.d))
	}
	return "<invalid>"
}
