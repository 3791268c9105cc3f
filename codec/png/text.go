/*
NAME
  text.go

DESCRIPTION
  text.go maps PNG text chunks to metadata entries and back. Known text
  keys map onto the closed key enumeration; the raw-profile and XMP keys
  map onto the hex and XMP entries; everything else is preserved as an
  unknown key.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package png

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"

	"github.com/ausocean/pix/meta"
)

// Special text keys carrying embedded binary profiles.
const (
	keyRawEXIF = "Raw profile type exif"
	keyRawIPTC = "Raw profile type iptc"
	keyRawXMP  = "Raw profile type xmp"
	keyXMP     = "XML:com.adobe.xmp"
)

// textToMeta converts a decoded text key/value pair to a metadata entry.
func textToMeta(key, value string) meta.Data {
	switch key {
	case keyRawEXIF:
		return meta.Known(meta.KeyHexEXIF, meta.StringOf(value))
	case keyRawIPTC:
		return meta.Known(meta.KeyHexIPTC, meta.StringOf(value))
	case keyRawXMP:
		return meta.Known(meta.KeyHexXMP, meta.StringOf(value))
	case keyXMP:
		return meta.Known(meta.KeyXMP, meta.StringOf(value))
	}
	if k := meta.KeyFromString(key); k != meta.KeyUnknown {
		return meta.Known(k, meta.StringOf(value))
	}
	return meta.Unknown(key, meta.StringOf(value))
}

// metaToTextKey returns the PNG text key for a metadata entry, or false
// when the entry cannot be written as text.
func metaToTextKey(d meta.Data) (string, bool) {
	switch d.Key {
	case meta.KeyHexEXIF:
		return keyRawEXIF, true
	case meta.KeyHexIPTC:
		return keyRawIPTC, true
	case meta.KeyHexXMP:
		return keyRawXMP, true
	case meta.KeyXMP:
		return keyXMP, true
	case meta.KeyEXIF, meta.KeyIPTC:
		// EXIF travels in its own eXIf chunk; IPTC has no chunk here and
		// is not written.
		return "", false
	case meta.KeyUnknown:
		if d.KeyUnknown == "" {
			return "", false
		}
		return d.KeyUnknown, true
	}
	return d.Key.String(), true
}

// parseTEXT parses a tEXt chunk: key, NUL, Latin-1 text.
func parseTEXT(data []byte) (string, string, error) {
	i := bytes.IndexByte(data, 0)
	if i < 0 {
		return "", "", errors.New("png: tEXt chunk has no key separator")
	}
	return string(data[:i]), string(data[i+1:]), nil
}

// parseZTXT parses a zTXt chunk: key, NUL, method, deflate stream.
func parseZTXT(data []byte) (string, string, error) {
	i := bytes.IndexByte(data, 0)
	if i < 0 || i+2 > len(data) {
		return "", "", errors.New("png: zTXt chunk has no key separator")
	}
	if data[i+1] != 0 {
		return "", "", errors.Errorf("png: zTXt compression method %d", data[i+1])
	}
	text, err := inflate(data[i+2:])
	if err != nil {
		return "", "", err
	}
	return string(data[:i]), string(text), nil
}

// parseITXT parses an iTXt chunk: key, NUL, compression flag and method,
// language tag, NUL, translated key, NUL, UTF-8 text.
func parseITXT(data []byte) (string, string, error) {
	i := bytes.IndexByte(data, 0)
	if i < 0 || i+3 > len(data) {
		return "", "", errors.New("png: iTXt chunk has no key separator")
	}
	key := string(data[:i])
	compressed := data[i+1] == 1
	rest := data[i+3:]

	for n := 0; n < 2; n++ {
		j := bytes.IndexByte(rest, 0)
		if j < 0 {
			return "", "", errors.New("png: iTXt chunk is truncated")
		}
		rest = rest[j+1:]
	}
	if !compressed {
		return key, string(rest), nil
	}
	text, err := inflate(rest)
	if err != nil {
		return "", "", err
	}
	return key, string(text), nil
}

// buildTEXT frames a tEXt chunk payload.
func buildTEXT(key, value string) []byte {
	out := make([]byte, 0, len(key)+1+len(value))
	out = append(out, key...)
	out = append(out, 0)
	return append(out, value...)
}

// buildZTXT frames a zTXt chunk payload with a deflate-compressed value.
func buildZTXT(key, value string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(key)
	buf.WriteByte(0)
	buf.WriteByte(0) // Compression method: deflate.
	zw := zlib.NewWriter(&buf)
	if _, err := io.WriteString(zw, value); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "opening deflate stream")
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.Wrap(err, "inflating")
	}
	return out, nil
}

// zTXtThreshold is the value length at or beyond which text is written
// compressed.
const zTXtThreshold = 128
