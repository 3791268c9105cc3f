/*
NAME
  meta.go

DESCRIPTION
  meta.go provides metadata entries keyed by a closed enumeration with an
  escape hatch for unknown keys, and the string-to-variant map used for
  codec tuning knobs and source-image special properties.

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

package meta

// Key identifies a well-known metadata entry.
type Key int

const (
	KeyUnknown Key = iota
	KeyTitle
	KeyArtist
	KeyAuthor
	KeyDescription
	KeyComment
	KeyCopyright
	KeySoftware
	KeyCreationTime
	KeyDisclaimer
	KeySource
	KeyWarning
	KeyEXIF
	KeyIPTC
	KeyXMP
	KeyHexEXIF
	KeyHexIPTC
	KeyHexXMP
)

var keyNames = map[Key]string{
	KeyUnknown:      "Unknown",
	KeyTitle:        "Title",
	KeyArtist:       "Artist",
	KeyAuthor:       "Author",
	KeyDescription:  "Description",
	KeyComment:      "Comment",
	KeyCopyright:    "Copyright",
	KeySoftware:     "Software",
	KeyCreationTime: "Creation Time",
	KeyDisclaimer:   "Disclaimer",
	KeySource:       "Source",
	KeyWarning:      "Warning",
	KeyEXIF:         "EXIF",
	KeyIPTC:         "IPTC",
	KeyXMP:          "XMP",
	KeyHexEXIF:      "Hex EXIF",
	KeyHexIPTC:      "Hex IPTC",
	KeyHexXMP:       "Hex XMP",
}

var namesToKeys = func() map[string]Key {
	m := make(map[string]Key, len(keyNames))
	for k, n := range keyNames {
		m[n] = k
	}
	return m
}()

// String returns the canonical name of the key.
func (k Key) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	return "Unknown"
}

// KeyFromString maps a canonical name back to its Key, returning KeyUnknown
// for anything unrecognised.
func KeyFromString(s string) Key {
	if k, ok := namesToKeys[s]; ok {
		return k
	}
	return KeyUnknown
}

// Data is a single metadata entry. Key is KeyUnknown when the source used a
// key outside the closed enumeration, in which case KeyUnknown carries the
// original string.
type Data struct {
	Key        Key
	KeyUnknown string
	Value      Variant
}

// Known returns an entry for a well-known key.
func Known(k Key, v Variant) Data { return Data{Key: k, Value: v} }

// Unknown returns an entry preserving an unrecognised source key.
func Unknown(key string, v Variant) Data {
	return Data{Key: KeyUnknown, KeyUnknown: key, Value: v}
}

// Name returns the effective key name of the entry.
func (d Data) Name() string {
	if d.Key == KeyUnknown && d.KeyUnknown != "" {
		return d.KeyUnknown
	}
	return d.Key.String()
}

// Copy returns a deep copy of the entry.
func (d Data) Copy() Data {
	d.Value = d.Value.Copy()
	return d
}

// Map is an unordered string-keyed variant map. Insertion by key replaces;
// traversal order is unspecified.
type Map map[string]Variant

// Get returns the variant stored under key.
func (m Map) Get(key string) (Variant, bool) {
	v, ok := m[key]
	return v, ok
}

// IntAt returns the signed integer stored under key, accepting any signed
// integer kind. Codecs use this to read tuning knobs.
func (m Map) IntAt(key string) (int64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	return v.IntVal()
}

// BoolAt returns the bool stored under key.
func (m Map) BoolAt(key string) (bool, bool) {
	v, ok := m[key]
	if !ok {
		return false, false
	}
	return v.BoolVal()
}

// StringAt returns the string stored under key.
func (m Map) StringAt(key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	return v.StringVal()
}

// FloatAt returns the float stored under key.
func (m Map) FloatAt(key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	return v.FloatVal()
}

// Copy returns a deep copy of the map.
func (m Map) Copy() Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v.Copy()
	}
	return out
}
