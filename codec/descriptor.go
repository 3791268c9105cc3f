/*
NAME
  descriptor.go

DESCRIPTION
  descriptor.go parses on-disk codec descriptors: a flat key=value text
  format listing a codec's name, version, magic numbers, extensions, MIME
  types and feature flags, consumed at registry-build time.

AUTHORS
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
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseDescriptor reads a text codec descriptor. Recognised keys:
//
//	name, version, description        single values
//	extension, mime-type              repeatable
//	magic-number                      repeatable; hex bytes, ?? wildcards,
//	                                  optional leading +N offset
//	features                          semicolon-separated flag names
//
// Unknown keys are ignored so descriptors can grow without breaking older
// readers. The returned Info has no session constructors; the caller binds
// those before registration.
func ParseDescriptor(r io.Reader) (*Info, error) {
	ci := &Info{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		key, value, ok := strings.Cut(text, "=")
		if !ok {
			return nil, errors.Errorf("codec: descriptor line %d is not key=value", line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "name":
			ci.Name = value
		case "version":
			ci.Version = value
		case "description":
			ci.Description = value
		case "extension":
			ci.Extensions = append(ci.Extensions, value)
		case "mime-type":
			ci.MIMETypes = append(ci.MIMETypes, value)
		case "magic-number":
			m, err := parseMagic(value)
			if err != nil {
				return nil, errors.Wrapf(err, "descriptor line %d", line)
			}
			ci.Magic = append(ci.Magic, m)
		case "features":
			f, err := parseFeatures(value)
			if err != nil {
				return nil, errors.Wrapf(err, "descriptor line %d", line)
			}
			ci.LoadFeatures.Features = f
			ci.SaveFeatures.Features = f
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading descriptor")
	}
	if ci.Name == "" {
		return nil, errors.New("codec: descriptor has no name")
	}
	return ci, nil
}

// parseMagic parses a magic pattern such as "+4 11 AF" or
// "89 50 4E 47 0D 0A 1A 0A" or "52 49 46 46 ?? ?? ?? ?? 57 45 42 50".
func parseMagic(s string) (Magic, error) {
	var m Magic
	fields := strings.Fields(s)
	for i, f := range fields {
		if i == 0 && strings.HasPrefix(f, "+") {
			off, err := strconv.Atoi(f[1:])
			if err != nil || off < 0 {
				return Magic{}, errors.Errorf("codec: bad magic offset %q", f)
			}
			m.Offset = off
			continue
		}
		if f == "??" {
			m.Pattern = append(m.Pattern, 0)
			m.Mask = append(m.Mask, 0)
			continue
		}
		b, err := strconv.ParseUint(f, 16, 8)
		if err != nil {
			return Magic{}, errors.Errorf("codec: bad magic byte %q", f)
		}
		m.Pattern = append(m.Pattern, byte(b))
		m.Mask = append(m.Mask, 0xFF)
	}
	if len(m.Pattern) == 0 {
		return Magic{}, errors.New("codec: empty magic pattern")
	}
	return m, nil
}

var featureNames = map[string]Features{
	"static":      FeatureStatic,
	"animated":    FeatureAnimated,
	"multi-paged": FeatureMultiPaged,
	"meta":        FeatureMeta,
	"iccp":        FeatureICCP,
	"interlaced":  FeatureInterlaced,
}

func parseFeatures(s string) (Features, error) {
	var f Features
	for _, name := range strings.Split(s, ";") {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" {
			continue
		}
		flag, ok := featureNames[name]
		if !ok {
			return 0, errors.Errorf("codec: unknown feature %q", name)
		}
		f |= flag
	}
	return f, nil
}
